package offboarding

import (
	"context"
	"log/slog"
	"time"

	offboardingDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/offboarding"
	systemDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/system"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
	"github.com/frahmantamala/access-management/internal/core/events"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	Create(req *offboardingDatamodel.Request, systems []*offboardingDatamodel.RequestSystem) error
	GetByID(id string) (*offboardingDatamodel.Request, error)
	GetAll() ([]*offboardingDatamodel.Request, error)
	GetByStatus(status string) ([]*offboardingDatamodel.Request, error)
	GetRequestSystems(requestID string) ([]*offboardingDatamodel.RequestSystem, error)
	// Complete flips the request to completed and deletes the covered
	// access records in one transaction, returning how many it revoked.
	// systemIDs is ignored when allSystems is set.
	Complete(id, userID string, systemIDs []string, allSystems bool, completedAt time.Time) (int64, error)
}

type UserStore interface {
	GetByID(id string) (*userDatamodel.User, error)
}

type SystemStore interface {
	GetByID(id string) (*systemDatamodel.System, error)
}

type Authorizer interface {
	IsGlobalAdmin(userID string) bool
}

type Service struct {
	repo     RepositoryAPI
	users    UserStore
	systems  SystemStore
	authz    Authorizer
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, users UserStore, systems SystemStore, authz Authorizer, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		systems:  systems,
		authz:    authz,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateRequest files a new pending request. Any authenticated user may
// file one; only completion is admin gated.
func (s *Service) CreateRequest(actorID string, dto CreateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(dto.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	req := &offboardingDatamodel.Request{
		ID:          uuid.NewString(),
		UserID:      dto.UserID,
		AllSystems:  dto.AllSystems,
		RequestedBy: actorID,
		RemovalDate: dto.ParsedRemovalDate(),
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	if dto.Notes != "" {
		req.Notes = &dto.Notes
	}

	// Selections are ignored when the request covers all systems.
	var selections []*offboardingDatamodel.RequestSystem
	if !dto.AllSystems {
		selections = make([]*offboardingDatamodel.RequestSystem, 0, len(dto.SystemIDs))
		for i, systemID := range dto.SystemIDs {
			selections = append(selections, &offboardingDatamodel.RequestSystem{
				RequestID: req.ID,
				SystemID:  systemID,
				Position:  i,
			})
		}
	}

	if err := s.repo.Create(req, selections); err != nil {
		s.logger.Error("failed to create offboarding request", "error", err, "user_id", dto.UserID)
		return nil, err
	}

	s.logger.Info("offboarding request created",
		"request_id", req.ID,
		"user_id", dto.UserID,
		"all_systems", dto.AllSystems,
		"systems", len(dto.SystemIDs),
		"requested_by", actorID)

	return s.enrich(req)
}

func (s *Service) GetRequest(id string) (*Request, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return s.enrich(req)
}

// ListRequests returns requests newest first, optionally filtered by
// status.
func (s *Service) ListRequests(status string) ([]*Request, error) {
	var (
		rows []*offboardingDatamodel.Request
		err  error
	)
	if status == "" {
		rows, err = s.repo.GetAll()
	} else {
		rows, err = s.repo.GetByStatus(status)
	}
	if err != nil {
		s.logger.Error("failed to list offboarding requests", "error", err)
		return nil, err
	}

	requests := make([]*Request, 0, len(rows))
	for _, row := range rows {
		req, err := s.enrich(row)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// CompleteRequest flips a pending request to completed and revokes the
// covered access records. Calling it on an already completed request is
// a no-op; state never regresses.
func (s *Service) CompleteRequest(ctx context.Context, actorID, requestID string) (*Request, error) {
	if !s.authz.IsGlobalAdmin(actorID) {
		s.logger.Warn("complete offboarding request denied", "actor_id", actorID, "request_id", requestID)
		return nil, ErrAdminOnly
	}

	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}

	if req.Status == StatusCompleted {
		return s.enrich(req)
	}

	var systemIDs []string
	if !req.AllSystems {
		selections, selErr := s.repo.GetRequestSystems(requestID)
		if selErr != nil {
			return nil, selErr
		}
		systemIDs = make([]string, 0, len(selections))
		for _, sel := range selections {
			systemIDs = append(systemIDs, sel.SystemID)
		}
	}

	completedAt := time.Now()
	revoked, err := s.repo.Complete(requestID, req.UserID, systemIDs, req.AllSystems, completedAt)
	if err != nil {
		s.logger.Error("failed to complete offboarding request", "error", err, "request_id", requestID)
		return nil, err
	}
	req.Status = StatusCompleted
	req.CompletedAt = &completedAt

	s.logger.Info("offboarding request completed",
		"request_id", requestID,
		"user_id", req.UserID,
		"all_systems", req.AllSystems,
		"revoked_records", revoked,
		"completed_by", actorID)

	if s.eventBus != nil {
		event := events.NewOffboardingCompletedEvent(requestID, req.UserID, req.AllSystems, int(revoked), actorID)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish offboarding completed event", "error", err)
		}
	}

	return s.enrich(req)
}

// enrich joins user and system names onto the stored request. Dangling
// references degrade to ids.
func (s *Service) enrich(row *offboardingDatamodel.Request) (*Request, error) {
	req := &Request{
		ID:          row.ID,
		UserID:      row.UserID,
		AllSystems:  row.AllSystems,
		RequestedBy: row.RequestedBy,
		RemovalDate: row.RemovalDate,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}
	if row.Notes != nil {
		req.Notes = *row.Notes
	}

	if target, err := s.users.GetByID(row.UserID); err == nil && target != nil {
		req.UserName = target.Name
		req.UserEmail = target.Email
	}
	if requester, err := s.users.GetByID(row.RequestedBy); err == nil && requester != nil {
		req.RequestedName = requester.Name
	}

	if !row.AllSystems {
		selections, err := s.repo.GetRequestSystems(row.ID)
		if err != nil {
			return nil, err
		}
		for _, sel := range selections {
			req.SystemIDs = append(req.SystemIDs, sel.SystemID)
			if sys, err := s.systems.GetByID(sel.SystemID); err == nil && sys != nil {
				req.SystemNames = append(req.SystemNames, sys.Name)
			}
		}
	}

	return req, nil
}
