package access

import (
	"context"
	"log/slog"
	"time"

	accessDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/access"
	systemDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/system"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
	"github.com/frahmantamala/access-management/internal/core/events"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	Create(rec *accessDatamodel.Record) error
	GetByID(id string) (*accessDatamodel.Record, error)
	GetByUserAndSystem(userID, systemID string) (*accessDatamodel.Record, error)
	GetByUserID(userID string) ([]*accessDatamodel.Record, error)
	GetBySystemID(systemID string) ([]*accessDatamodel.Record, error)
	UpdateTags(id string, tags *string) error
	Delete(id string) error
}

// SystemStore and UserStore give the reconciliation queries read access
// to the referenced entities without pulling in the full services.
type SystemStore interface {
	GetByID(id string) (*systemDatamodel.System, error)
	GetAll() ([]*systemDatamodel.System, error)
}

type UserStore interface {
	GetByID(id string) (*userDatamodel.User, error)
}

type Authorizer interface {
	IsGlobalAdmin(userID string) bool
	CanManageSystem(userID, systemID string) bool
}

type Service struct {
	repo     RepositoryAPI
	systems  SystemStore
	users    UserStore
	authz    Authorizer
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, systems SystemStore, users UserStore, authz Authorizer, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		systems:  systems,
		users:    users,
		authz:    authz,
		eventBus: eventBus,
		logger:   logger,
	}
}

// GrantAccess creates one (user, system) access record. A pair may hold
// at most one record, a second grant is a conflict.
func (s *Service) GrantAccess(ctx context.Context, actorID, systemID string, dto GrantAccessDTO) (*Grant, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sys, err := s.systems.GetByID(systemID)
	if err != nil {
		return nil, err
	}
	if sys == nil {
		return nil, ErrSystemNotFound
	}

	if !s.authz.CanManageSystem(actorID, systemID) {
		s.logger.Warn("grant access denied", "actor_id", actorID, "system_id", systemID)
		return nil, ErrNotAuthorized
	}

	target, err := s.users.GetByID(dto.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.repo.GetByUserAndSystem(dto.UserID, systemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyGranted
	}

	now := time.Now()
	rec := &accessDatamodel.Record{
		ID:          uuid.NewString(),
		UserID:      dto.UserID,
		SystemID:    systemID,
		GrantedDate: dto.GrantedDateOrNow(),
		GrantedBy:   &actorID,
		Tags:        FormatTags(dto.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if dto.Role != "" {
		rec.Role = &dto.Role
	}

	if err := s.repo.Create(rec); err != nil {
		s.logger.Error("failed to create access record", "error", err, "user_id", dto.UserID, "system_id", systemID)
		return nil, err
	}

	s.logger.Info("access granted",
		"access_id", rec.ID,
		"user_id", dto.UserID,
		"system_id", systemID,
		"role", dto.Role,
		"granted_by", actorID)

	if s.eventBus != nil {
		event := events.NewAccessGrantedEvent(rec.ID, dto.UserID, systemID, dto.Role, actorID)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish access granted event", "error", err)
		}
	}

	return grantFromDataModel(rec), nil
}

// RevokeAccess deletes one access record.
func (s *Service) RevokeAccess(ctx context.Context, actorID, accessID string) error {
	rec, err := s.repo.GetByID(accessID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrAccessNotFound
	}

	if !s.authz.CanManageSystem(actorID, rec.SystemID) {
		s.logger.Warn("revoke access denied", "actor_id", actorID, "access_id", accessID)
		return ErrNotAuthorized
	}

	if err := s.repo.Delete(accessID); err != nil {
		s.logger.Error("failed to delete access record", "error", err, "access_id", accessID)
		return err
	}

	s.logger.Info("access revoked",
		"access_id", accessID,
		"user_id", rec.UserID,
		"system_id", rec.SystemID,
		"revoked_by", actorID)

	if s.eventBus != nil {
		event := events.NewAccessRevokedEvent(accessID, rec.UserID, rec.SystemID, actorID)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish access revoked event", "error", err)
		}
	}

	return nil
}

// UpdateTags replaces the tag set on one access record.
func (s *Service) UpdateTags(actorID, accessID string, dto UpdateTagsDTO) (*Grant, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByID(accessID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrAccessNotFound
	}

	if !s.authz.CanManageSystem(actorID, rec.SystemID) {
		return nil, ErrNotAuthorized
	}

	tags := FormatTags(dto.Tags)
	if err := s.repo.UpdateTags(accessID, tags); err != nil {
		s.logger.Error("failed to update tags", "error", err, "access_id", accessID)
		return nil, err
	}

	rec.Tags = tags
	return grantFromDataModel(rec), nil
}

// SystemsForUser joins the user's access records with their systems.
// Records pointing at a deleted system are silently dropped so the
// listing stays usable even with a slightly inconsistent store.
func (s *Service) SystemsForUser(userID string) ([]*SystemAccess, error) {
	records, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	result := make([]*SystemAccess, 0, len(records))
	for _, rec := range records {
		sys, err := s.systems.GetByID(rec.SystemID)
		if err != nil {
			return nil, err
		}
		if sys == nil {
			continue
		}

		entry := &SystemAccess{
			AccessID:       rec.ID,
			SystemID:       sys.ID,
			SystemName:     sys.Name,
			SystemCategory: sys.Category,
			Description:    sys.Description,
			GrantedDate:    rec.GrantedDate,
			Tags:           ParseTags(rec.Tags),
		}
		if rec.Role != nil {
			entry.Role = *rec.Role
		}
		if owner, err := s.users.GetByID(sys.OwnerID); err == nil && owner != nil {
			entry.OwnerName = owner.Name
		}
		result = append(result, entry)
	}
	return result, nil
}

// UsersForSystem is the symmetric join, with the same defensive filter
// for deleted users.
func (s *Service) UsersForSystem(systemID string) ([]*UserAccess, error) {
	sys, err := s.systems.GetByID(systemID)
	if err != nil {
		return nil, err
	}
	if sys == nil {
		return nil, ErrSystemNotFound
	}

	records, err := s.repo.GetBySystemID(systemID)
	if err != nil {
		return nil, err
	}

	result := make([]*UserAccess, 0, len(records))
	for _, rec := range records {
		u, err := s.users.GetByID(rec.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			continue
		}

		entry := &UserAccess{
			AccessID:    rec.ID,
			UserID:      u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Department:  u.Department,
			GrantedDate: rec.GrantedDate,
			Tags:        ParseTags(rec.Tags),
		}
		if rec.Role != nil {
			entry.Role = *rec.Role
		}
		if rec.GrantedBy != nil {
			entry.GrantedBy = *rec.GrantedBy
		}
		result = append(result, entry)
	}
	return result, nil
}

// Dashboard partitions every system into exactly one bucket for the
// given user: owned, assigned through a grant, or (admins only) the
// remainder. A system the user both owns and is assigned to lands in
// owned.
func (s *Service) Dashboard(userID string) (*DashboardBuckets, error) {
	all, err := s.systems.GetAll()
	if err != nil {
		return nil, err
	}

	records, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	assignedRole := make(map[string]string, len(records))
	for _, rec := range records {
		role := ""
		if rec.Role != nil {
			role = *rec.Role
		}
		assignedRole[rec.SystemID] = role
	}

	isAdmin := s.authz.IsGlobalAdmin(userID)

	buckets := &DashboardBuckets{
		Owned:    []DashboardSystem{},
		Assigned: []DashboardSystem{},
		Other:    []DashboardSystem{},
	}
	for _, sys := range all {
		entry := DashboardSystem{
			SystemID:    sys.ID,
			Name:        sys.Name,
			Category:    sys.Category,
			Description: sys.Description,
		}
		if owner, err := s.users.GetByID(sys.OwnerID); err == nil && owner != nil {
			entry.OwnerName = owner.Name
		}

		role, isAssigned := assignedRole[sys.ID]
		switch {
		case sys.OwnerID == userID:
			buckets.Owned = append(buckets.Owned, entry)
		case isAssigned:
			entry.Role = role
			buckets.Assigned = append(buckets.Assigned, entry)
		case isAdmin:
			buckets.Other = append(buckets.Other, entry)
		}
	}

	return buckets, nil
}
