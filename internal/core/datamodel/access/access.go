package access

import "time"

// Record is one (user, system) access grant. At most one row exists per
// pair, enforced by a pre-insert existence check in the service and a
// unique index as backstop.
type Record struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"column:user_id;uniqueIndex:idx_access_user_system;not null"`
	SystemID    string    `json:"system_id" gorm:"column:system_id;uniqueIndex:idx_access_user_system;not null"`
	Role        *string   `json:"role,omitempty"`
	GrantedDate time.Time `json:"granted_date" gorm:"column:granted_date;type:date"`
	GrantedBy   *string   `json:"granted_by,omitempty" gorm:"column:granted_by"`
	Tags        *string   `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "access_records"
}
