// Package offboarding handles access-removal requests: a user leaving a
// team or the company gets a request covering either every system or an
// explicit subset. Requests start pending and an admin completes them,
// which revokes the covered access records.
package offboarding

import (
	"errors"
	"time"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Domain errors
var (
	ErrRequestNotFound = errors.New("offboarding request not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAdminOnly       = errors.New("admin role required")
)

// Request is one offboarding request. AllSystems set means every grant
// the user holds at completion time, including ones created after the
// request; otherwise SystemIDs is the explicit, non-empty selection.
type Request struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	UserName      string     `json:"user_name,omitempty"`
	UserEmail     string     `json:"user_email,omitempty"`
	AllSystems    bool       `json:"all_systems"`
	SystemIDs     []string   `json:"system_ids,omitempty"`
	SystemNames   []string   `json:"system_names,omitempty"`
	RequestedBy   string     `json:"requested_by"`
	RequestedName string     `json:"requested_by_name,omitempty"`
	RemovalDate   time.Time  `json:"removal_date"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

func (r *Request) IsCompleted() bool {
	return r.Status == StatusCompleted
}
