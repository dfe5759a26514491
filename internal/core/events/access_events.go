package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAccessGranted        = "access.granted"
	EventTypeAccessRevoked        = "access.revoked"
	EventTypeOffboardingCompleted = "offboarding.completed"
)

type AccessGrantedEvent struct {
	BaseEvent
	AccessRecordID string `json:"access_record_id"`
	UserID         string `json:"user_id"`
	SystemID       string `json:"system_id"`
	Role           string `json:"role"`
	GrantedBy      string `json:"granted_by"`
}

func NewAccessGrantedEvent(recordID, userID, systemID, role, grantedBy string) *AccessGrantedEvent {
	return &AccessGrantedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccessGranted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"access_record_id": recordID,
				"user_id":          userID,
				"system_id":        systemID,
				"role":             role,
				"granted_by":       grantedBy,
			},
		},
		AccessRecordID: recordID,
		UserID:         userID,
		SystemID:       systemID,
		Role:           role,
		GrantedBy:      grantedBy,
	}
}

type AccessRevokedEvent struct {
	BaseEvent
	AccessRecordID string `json:"access_record_id"`
	UserID         string `json:"user_id"`
	SystemID       string `json:"system_id"`
	RevokedBy      string `json:"revoked_by"`
}

func NewAccessRevokedEvent(recordID, userID, systemID, revokedBy string) *AccessRevokedEvent {
	return &AccessRevokedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccessRevoked,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"access_record_id": recordID,
				"user_id":          userID,
				"system_id":        systemID,
				"revoked_by":       revokedBy,
			},
		},
		AccessRecordID: recordID,
		UserID:         userID,
		SystemID:       systemID,
		RevokedBy:      revokedBy,
	}
}

type OffboardingCompletedEvent struct {
	BaseEvent
	RequestID      string `json:"request_id"`
	UserID         string `json:"user_id"`
	AllSystems     bool   `json:"all_systems"`
	RevokedRecords int    `json:"revoked_records"`
	CompletedBy    string `json:"completed_by"`
}

func NewOffboardingCompletedEvent(requestID, userID string, allSystems bool, revokedRecords int, completedBy string) *OffboardingCompletedEvent {
	return &OffboardingCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOffboardingCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":      requestID,
				"user_id":         userID,
				"all_systems":     allSystems,
				"revoked_records": revokedRecords,
				"completed_by":    completedBy,
			},
		},
		RequestID:      requestID,
		UserID:         userID,
		AllSystems:     allSystems,
		RevokedRecords: revokedRecords,
		CompletedBy:    completedBy,
	}
}
