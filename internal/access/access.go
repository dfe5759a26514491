// Package access tracks which users hold access to which systems. A
// grant is one (user, system) pair carrying an optional role, the grant
// date, and free-form tags. The package also derives the reconciliation
// views behind the dashboard and the per-system membership table.
package access

import (
	"errors"
	"time"

	accessDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/access"
)

// Domain errors
var (
	ErrAccessNotFound = errors.New("access record not found")
	ErrAlreadyGranted = errors.New("user already has access to this system")
	ErrSystemNotFound = errors.New("system not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNotAuthorized  = errors.New("not authorized to manage access for this system")
)

// Grant is one user-to-system access record.
type Grant struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	SystemID    string    `json:"system_id"`
	Role        string    `json:"role,omitempty"`
	GrantedDate time.Time `json:"granted_date"`
	GrantedBy   string    `json:"granted_by,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
}

// SystemAccess is a grant joined with the system it points at, the shape
// behind the "my access" listing.
type SystemAccess struct {
	AccessID       string    `json:"access_id"`
	SystemID       string    `json:"system_id"`
	SystemName     string    `json:"system_name"`
	SystemCategory string    `json:"system_category"`
	Description    string    `json:"description"`
	OwnerName      string    `json:"owner_name,omitempty"`
	Role           string    `json:"role,omitempty"`
	GrantedDate    time.Time `json:"granted_date"`
	Tags           []Tag     `json:"tags,omitempty"`
}

// UserAccess is a grant joined with the user it points at, the shape
// behind a system's membership table.
type UserAccess struct {
	AccessID    string    `json:"access_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Department  string    `json:"department,omitempty"`
	Role        string    `json:"role,omitempty"`
	GrantedDate time.Time `json:"granted_date"`
	GrantedBy   string    `json:"granted_by,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
}

// DashboardSystem is one entry in a dashboard bucket.
type DashboardSystem struct {
	SystemID    string `json:"system_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	OwnerName   string `json:"owner_name,omitempty"`
	Role        string `json:"role,omitempty"`
}

// DashboardBuckets is the mutually exclusive partition of all systems
// for one user: owned, assigned via a grant, and (admins only) the rest.
type DashboardBuckets struct {
	Owned    []DashboardSystem `json:"owned"`
	Assigned []DashboardSystem `json:"assigned"`
	Other    []DashboardSystem `json:"other"`
}

func grantFromDataModel(rec *accessDatamodel.Record) *Grant {
	g := &Grant{
		ID:          rec.ID,
		UserID:      rec.UserID,
		SystemID:    rec.SystemID,
		GrantedDate: rec.GrantedDate,
		Tags:        ParseTags(rec.Tags),
	}
	if rec.Role != nil {
		g.Role = *rec.Role
	}
	if rec.GrantedBy != nil {
		g.GrantedBy = *rec.GrantedBy
	}
	return g
}
