package system

import "time"

type System struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"not null"`
	OwnerID     string    `json:"owner_id" gorm:"column:owner_id;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (System) TableName() string {
	return "systems"
}

// CoOwner is one row of a system's ordered co-owner set. Position keeps
// the order co-owners were added in.
type CoOwner struct {
	SystemID  string    `json:"system_id" gorm:"column:system_id;primaryKey"`
	UserID    string    `json:"user_id" gorm:"column:user_id;primaryKey"`
	Position  int       `json:"position" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (CoOwner) TableName() string {
	return "system_co_owners"
}

// Field is an owner-defined custom field on a system, unique by name
// within the system.
type Field struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	SystemID  string    `json:"system_id" gorm:"column:system_id;uniqueIndex:idx_system_field_name;not null"`
	Name      string    `json:"name" gorm:"uniqueIndex:idx_system_field_name;not null"`
	FieldType string    `json:"field_type" gorm:"column:field_type;default:text"`
	Options   *string   `json:"options,omitempty"`
	Required  bool      `json:"required" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Field) TableName() string {
	return "system_fields"
}
