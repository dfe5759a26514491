package system

import (
	"log/slog"
	"time"

	systemDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/system"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
	"github.com/google/uuid"
)

// Authorizer is the subset of the authz predicates the system service
// needs. The concrete implementation lives in internal/authz.
type Authorizer interface {
	IsGlobalAdmin(userID string) bool
	CanManageSystem(userID, systemID string) bool
	CanDeleteSystem(userID string) bool
}

type RepositoryAPI interface {
	Create(sys *systemDatamodel.System) error
	GetByID(id string) (*systemDatamodel.System, error)
	GetAll() ([]*systemDatamodel.System, error)
	Update(sys *systemDatamodel.System) error
	Delete(id string) error

	GetCoOwners(systemID string) ([]*systemDatamodel.CoOwner, error)
	AddCoOwner(co *systemDatamodel.CoOwner) error
	RemoveCoOwner(systemID, userID string) error

	ListFields(systemID string) ([]*systemDatamodel.Field, error)
	GetFieldByID(systemID, fieldID string) (*systemDatamodel.Field, error)
	GetFieldByName(systemID, name string) (*systemDatamodel.Field, error)
	CreateField(f *systemDatamodel.Field) error
	UpdateField(f *systemDatamodel.Field) error
	DeleteField(systemID, fieldID string) error
}

// UserDirectory resolves owner and co-owner references for responses.
type UserDirectory interface {
	GetByID(id string) (*userDatamodel.User, error)
}

type Service struct {
	repo   RepositoryAPI
	users  UserDirectory
	authz  Authorizer
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, users UserDirectory, authz Authorizer, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		authz:  authz,
		logger: logger,
	}
}

// CreateSystem registers a new system. Admin only.
func (s *Service) CreateSystem(actorID string, dto CreateSystemDTO) (*System, error) {
	if !s.authz.IsGlobalAdmin(actorID) {
		s.logger.Warn("create system denied", "actor_id", actorID)
		return nil, ErrAdminOnly
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(dto.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrOwnerNotFound
	}

	now := time.Now()
	data := &systemDatamodel.System{
		ID:          uuid.NewString(),
		Name:        dto.Name,
		Description: dto.Description,
		Category:    dto.Category,
		OwnerID:     dto.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(data); err != nil {
		s.logger.Error("failed to create system", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("system created", "system_id", data.ID, "name", data.Name, "actor_id", actorID)
	return s.enrich(data)
}

func (s *Service) GetSystem(id string) (*System, error) {
	data, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSystemNotFound
	}
	return s.enrich(data)
}

// ListSystems returns all systems filtered by the directory search box
// and category dropdown, sorted by name.
func (s *Service) ListSystems(query, category string) ([]*System, error) {
	all, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list systems", "error", err)
		return nil, err
	}

	systems := make([]*System, 0, len(all))
	for _, data := range all {
		enriched, err := s.enrich(data)
		if err != nil {
			return nil, err
		}
		systems = append(systems, enriched)
	}

	filtered := Filter(systems, query, category)
	SortByName(filtered)
	return filtered, nil
}

func (s *Service) UpdateSystem(actorID, id string, dto UpdateSystemDTO) (*System, error) {
	data, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSystemNotFound
	}

	if !s.authz.CanManageSystem(actorID, id) {
		s.logger.Warn("update system denied", "actor_id", actorID, "system_id", id)
		return nil, ErrNotAuthorized
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		data.Name = *dto.Name
	}
	if dto.Description != nil {
		data.Description = *dto.Description
	}
	if dto.Category != nil {
		data.Category = *dto.Category
	}
	if dto.OwnerID != nil {
		owner, err := s.users.GetByID(*dto.OwnerID)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, ErrOwnerNotFound
		}
		data.OwnerID = *dto.OwnerID
	}
	data.UpdatedAt = time.Now()

	if err := s.repo.Update(data); err != nil {
		s.logger.Error("failed to update system", "error", err, "system_id", id)
		return nil, err
	}

	s.logger.Info("system updated", "system_id", id, "actor_id", actorID)
	return s.enrich(data)
}

// DeleteSystem removes a system along with its co-owners, fields, and
// access records. Admin only, stricter than CanManageSystem.
func (s *Service) DeleteSystem(actorID, id string) error {
	data, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrSystemNotFound
	}

	if !s.authz.CanDeleteSystem(actorID) {
		s.logger.Warn("delete system denied", "actor_id", actorID, "system_id", id)
		return ErrAdminOnly
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete system", "error", err, "system_id", id)
		return err
	}

	s.logger.Info("system deleted", "system_id", id, "actor_id", actorID)
	return nil
}

// AddCoOwner appends to the ordered co-owner set. The owner may not be
// added, and duplicates are rejected.
func (s *Service) AddCoOwner(actorID, systemID, userID string) error {
	data, err := s.repo.GetByID(systemID)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrSystemNotFound
	}

	if !s.authz.CanManageSystem(actorID, systemID) {
		return ErrNotAuthorized
	}

	u, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	if data.OwnerID == userID {
		return ErrOwnerAsCoOwner
	}

	existing, err := s.repo.GetCoOwners(systemID)
	if err != nil {
		return err
	}
	for _, co := range existing {
		if co.UserID == userID {
			return ErrDuplicateCoOwner
		}
	}

	co := &systemDatamodel.CoOwner{
		SystemID:  systemID,
		UserID:    userID,
		Position:  len(existing),
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddCoOwner(co); err != nil {
		s.logger.Error("failed to add co-owner", "error", err, "system_id", systemID, "user_id", userID)
		return err
	}

	s.logger.Info("co-owner added", "system_id", systemID, "user_id", userID, "actor_id", actorID)
	return nil
}

func (s *Service) RemoveCoOwner(actorID, systemID, userID string) error {
	data, err := s.repo.GetByID(systemID)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrSystemNotFound
	}

	if !s.authz.CanManageSystem(actorID, systemID) {
		return ErrNotAuthorized
	}

	existing, err := s.repo.GetCoOwners(systemID)
	if err != nil {
		return err
	}
	found := false
	for _, co := range existing {
		if co.UserID == userID {
			found = true
			break
		}
	}
	if !found {
		return ErrCoOwnerNotFound
	}

	if err := s.repo.RemoveCoOwner(systemID, userID); err != nil {
		s.logger.Error("failed to remove co-owner", "error", err, "system_id", systemID, "user_id", userID)
		return err
	}

	s.logger.Info("co-owner removed", "system_id", systemID, "user_id", userID, "actor_id", actorID)
	return nil
}

func (s *Service) ListFields(systemID string) ([]*Field, error) {
	data, err := s.repo.GetByID(systemID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSystemNotFound
	}

	fields, err := s.repo.ListFields(systemID)
	if err != nil {
		return nil, err
	}
	return FieldsFromDataModel(fields), nil
}

func (s *Service) CreateField(actorID, systemID string, dto CreateFieldDTO) (*Field, error) {
	data, err := s.repo.GetByID(systemID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSystemNotFound
	}

	if !s.authz.CanManageSystem(actorID, systemID) {
		return nil, ErrNotAuthorized
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetFieldByName(systemID, dto.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateField
	}

	fieldType := dto.FieldType
	if fieldType == "" {
		fieldType = "text"
	}

	field := &systemDatamodel.Field{
		ID:        uuid.NewString(),
		SystemID:  systemID,
		Name:      dto.Name,
		FieldType: fieldType,
		Options:   dto.Options,
		Required:  dto.Required,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateField(field); err != nil {
		s.logger.Error("failed to create field", "error", err, "system_id", systemID, "name", dto.Name)
		return nil, err
	}

	return FieldFromDataModel(field), nil
}

func (s *Service) UpdateField(actorID, systemID, fieldID string, dto UpdateFieldDTO) (*Field, error) {
	data, err := s.repo.GetByID(systemID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSystemNotFound
	}

	if !s.authz.CanManageSystem(actorID, systemID) {
		return nil, ErrNotAuthorized
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	field, err := s.repo.GetFieldByID(systemID, fieldID)
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, ErrFieldNotFound
	}

	if dto.Name != nil && *dto.Name != field.Name {
		conflict, err := s.repo.GetFieldByName(systemID, *dto.Name)
		if err != nil {
			return nil, err
		}
		if conflict != nil && conflict.ID != fieldID {
			return nil, ErrDuplicateField
		}
		field.Name = *dto.Name
	}
	if dto.FieldType != nil {
		field.FieldType = *dto.FieldType
	}
	if dto.Options != nil {
		field.Options = dto.Options
	}
	if dto.Required != nil {
		field.Required = *dto.Required
	}

	if err := s.repo.UpdateField(field); err != nil {
		s.logger.Error("failed to update field", "error", err, "system_id", systemID, "field_id", fieldID)
		return nil, err
	}

	return FieldFromDataModel(field), nil
}

func (s *Service) DeleteField(actorID, systemID, fieldID string) error {
	data, err := s.repo.GetByID(systemID)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrSystemNotFound
	}

	if !s.authz.CanManageSystem(actorID, systemID) {
		return ErrNotAuthorized
	}

	field, err := s.repo.GetFieldByID(systemID, fieldID)
	if err != nil {
		return err
	}
	if field == nil {
		return ErrFieldNotFound
	}

	return s.repo.DeleteField(systemID, fieldID)
}

// enrich joins owner and co-owner user rows into the response shape.
// Dangling references degrade to id-only refs instead of failing the
// whole listing.
func (s *Service) enrich(data *systemDatamodel.System) (*System, error) {
	result := &System{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Category:    data.Category,
		Owner:       OwnerRef{UserID: data.OwnerID},
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}

	if owner, err := s.users.GetByID(data.OwnerID); err == nil && owner != nil {
		result.Owner.Name = owner.Name
		result.Owner.Email = owner.Email
	}

	coOwners, err := s.repo.GetCoOwners(data.ID)
	if err != nil {
		return nil, err
	}
	for _, co := range coOwners {
		ref := OwnerRef{UserID: co.UserID}
		if u, err := s.users.GetByID(co.UserID); err == nil && u != nil {
			ref.Name = u.Name
			ref.Email = u.Email
		}
		result.CoOwners = append(result.CoOwners, ref)
	}

	return result, nil
}
