package user

import (
	"log/slog"

	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(id string) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	GetAll() ([]*userDatamodel.User, error)
	Create(user *userDatamodel.User) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetUserByID(id string) (*User, error) {
	dataUser, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, err
	}
	if dataUser == nil {
		return nil, ErrUserNotFound
	}
	return FromDataModel(dataUser), nil
}

// GetAllUsers backs the user pickers on the grant and offboarding forms.
func (s *Service) GetAllUsers() ([]*User, error) {
	dataUsers, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return FromDataModelSlice(dataUsers), nil
}
