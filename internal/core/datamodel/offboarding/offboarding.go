package offboarding

import "time"

type Request struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"column:user_id;not null"`
	AllSystems  bool       `json:"all_systems" gorm:"column:all_systems;default:false"`
	RequestedBy string     `json:"requested_by" gorm:"column:requested_by;not null"`
	RemovalDate time.Time  `json:"removal_date" gorm:"column:removal_date;type:date"`
	Status      string     `json:"status" gorm:"default:pending"`
	Notes       *string    `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
}

func (Request) TableName() string {
	return "offboarding_requests"
}

// RequestSystem links a request to one explicitly selected system.
// Requests with all_systems set have no rows here.
type RequestSystem struct {
	RequestID string `json:"request_id" gorm:"column:request_id;primaryKey"`
	SystemID  string `json:"system_id" gorm:"column:system_id;primaryKey"`
	Position  int    `json:"position" gorm:"not null"`
}

func (RequestSystem) TableName() string {
	return "offboarding_request_systems"
}
