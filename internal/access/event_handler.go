package access

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/access-management/internal/core/events"
)

// AuditLogger writes one structured log line per access lifecycle
// event. It is the only subscriber in the default wiring; anything that
// needs to react to grants or revocations later hangs off the same bus.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// Register subscribes the audit handlers on the bus.
func (a *AuditLogger) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeAccessGranted, a.handleGranted)
	bus.Subscribe(events.EventTypeAccessRevoked, a.handleRevoked)
	bus.Subscribe(events.EventTypeOffboardingCompleted, a.handleOffboardingCompleted)
}

func (a *AuditLogger) handleGranted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.AccessGrantedEvent)
	if !ok {
		return nil
	}
	a.logger.Info("audit: access granted",
		"event_id", e.EventID(),
		"access_id", e.AccessRecordID,
		"user_id", e.UserID,
		"system_id", e.SystemID,
		"role", e.Role,
		"granted_by", e.GrantedBy)
	return nil
}

func (a *AuditLogger) handleRevoked(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.AccessRevokedEvent)
	if !ok {
		return nil
	}
	a.logger.Info("audit: access revoked",
		"event_id", e.EventID(),
		"access_id", e.AccessRecordID,
		"user_id", e.UserID,
		"system_id", e.SystemID,
		"revoked_by", e.RevokedBy)
	return nil
}

func (a *AuditLogger) handleOffboardingCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.OffboardingCompletedEvent)
	if !ok {
		return nil
	}
	a.logger.Info("audit: offboarding completed",
		"event_id", e.EventID(),
		"request_id", e.RequestID,
		"user_id", e.UserID,
		"all_systems", e.AllSystems,
		"revoked_records", e.RevokedRecords,
		"completed_by", e.CompletedBy)
	return nil
}
