package system

import (
	"errors"
	"time"

	systemDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/system"
)

// OwnerRef is the denormalized owner/co-owner shape embedded in system
// responses so listing pages never need a second lookup.
type OwnerRef struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type System struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Owner       OwnerRef   `json:"owner"`
	CoOwners    []OwnerRef `json:"co_owners,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Field struct {
	ID        string    `json:"id"`
	SystemID  string    `json:"system_id"`
	Name      string    `json:"name"`
	FieldType string    `json:"field_type"`
	Options   *string   `json:"options,omitempty"`
	Required  bool      `json:"required"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	CategoryHR         = "HR"
	CategoryFinance    = "Finance"
	CategoryIT         = "IT"
	CategoryOperations = "Operations"
	CategorySales      = "Sales"
	CategoryMarketing  = "Marketing"

	// CategoryAll is the wildcard accepted by listing filters.
	CategoryAll = "All"
)

func Categories() []string {
	return []string{
		CategoryHR,
		CategoryFinance,
		CategoryIT,
		CategoryOperations,
		CategorySales,
		CategoryMarketing,
	}
}

// Domain errors
var (
	ErrSystemNotFound   = errors.New("system not found")
	ErrOwnerNotFound    = errors.New("owner user not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrFieldNotFound    = errors.New("field not found")
	ErrCoOwnerNotFound  = errors.New("co-owner not found")
	ErrNotAuthorized    = errors.New("not authorized to manage this system")
	ErrAdminOnly        = errors.New("admin role required")
	ErrDuplicateField   = errors.New("a field with this name already exists")
	ErrDuplicateCoOwner = errors.New("user is already a co-owner")
	ErrOwnerAsCoOwner   = errors.New("owner cannot be added as co-owner")
)

func (s *System) IsOwnedBy(userID string) bool {
	return s.Owner.UserID == userID
}

func (s *System) HasCoOwner(userID string) bool {
	for _, co := range s.CoOwners {
		if co.UserID == userID {
			return true
		}
	}
	return false
}

func FieldFromDataModel(f *systemDatamodel.Field) *Field {
	return &Field{
		ID:        f.ID,
		SystemID:  f.SystemID,
		Name:      f.Name,
		FieldType: f.FieldType,
		Options:   f.Options,
		Required:  f.Required,
		CreatedAt: f.CreatedAt,
	}
}

func FieldsFromDataModel(fields []*systemDatamodel.Field) []*Field {
	result := make([]*Field, len(fields))
	for i, f := range fields {
		result[i] = FieldFromDataModel(f)
	}
	return result
}
