// Package authz holds the ownership and admin predicates that gate every
// mutating operation on systems and access records. Predicates are pure
// reads of the injected stores and never return errors: a missing system
// or user simply answers false.
package authz

import (
	"log/slog"

	systemDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/system"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
)

type UserStore interface {
	GetByID(id string) (*userDatamodel.User, error)
}

type SystemStore interface {
	GetByID(id string) (*systemDatamodel.System, error)
	GetCoOwnerIDs(systemID string) ([]string, error)
}

type Authorizer struct {
	users   UserStore
	systems SystemStore
	logger  *slog.Logger
}

func NewAuthorizer(users UserStore, systems SystemStore, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		users:   users,
		systems: systems,
		logger:  logger,
	}
}

// IsGlobalAdmin answers whether the user carries the admin role. The role
// lives on the user entity itself, independent of department.
func (a *Authorizer) IsGlobalAdmin(userID string) bool {
	user, err := a.users.GetByID(userID)
	if err != nil {
		a.logger.Warn("admin check failed", "user_id", userID, "error", err)
		return false
	}
	return user != nil && user.Role == userDatamodel.RoleAdmin
}

// IsOwnerOrCoOwner answers whether the user owns or co-owns the system.
// A missing system answers false, not an error.
func (a *Authorizer) IsOwnerOrCoOwner(userID, systemID string) bool {
	system, err := a.systems.GetByID(systemID)
	if err != nil {
		a.logger.Warn("ownership check failed", "system_id", systemID, "error", err)
		return false
	}
	if system == nil {
		return false
	}
	if system.OwnerID == userID {
		return true
	}

	coOwnerIDs, err := a.systems.GetCoOwnerIDs(systemID)
	if err != nil {
		a.logger.Warn("co-owner lookup failed", "system_id", systemID, "error", err)
		return false
	}
	for _, id := range coOwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CanManageSystem gates metadata edits, co-owner changes, custom fields,
// and access grants/revocations on a system.
func (a *Authorizer) CanManageSystem(userID, systemID string) bool {
	return a.IsGlobalAdmin(userID) || a.IsOwnerOrCoOwner(userID, systemID)
}

// CanDeleteSystem is deliberately stricter than CanManageSystem: owners
// curate membership but only admins destroy the resource.
func (a *Authorizer) CanDeleteSystem(userID string) bool {
	return a.IsGlobalAdmin(userID)
}
