package access

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GrantAccess(ctx context.Context, actorID, systemID string, dto GrantAccessDTO) (*Grant, error)
	RevokeAccess(ctx context.Context, actorID, accessID string) error
	UpdateTags(actorID, accessID string, dto UpdateTagsDTO) (*Grant, error)
	SystemsForUser(userID string) ([]*SystemAccess, error)
	UsersForSystem(systemID string) ([]*UserAccess, error)
	Dashboard(userID string) (*DashboardBuckets, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(logger *slog.Logger, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     service,
	}
}

func (h *Handler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	systemID := chi.URLParam(r, "id")

	var dto GrantAccessDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, err := h.Service.GrantAccess(r.Context(), user.ID, systemID, dto)
	if err != nil {
		h.writeAccessError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, grant)
}

func (h *Handler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	accessID := chi.URLParam(r, "accessId")

	if err := h.Service.RevokeAccess(r.Context(), user.ID, accessID); err != nil {
		h.writeAccessError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateTags(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	accessID := chi.URLParam(r, "accessId")

	var dto UpdateTagsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, err := h.Service.UpdateTags(user.ID, accessID, dto)
	if err != nil {
		h.writeAccessError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, grant)
}

// MyAccess lists the calling user's grants joined with their systems.
func (h *Handler) MyAccess(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	systems, err := h.Service.SystemsForUser(user.ID)
	if err != nil {
		h.writeAccessError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{"access": systems})
}

func (h *Handler) UsersForSystem(w http.ResponseWriter, r *http.Request) {
	systemID := chi.URLParam(r, "id")

	users, err := h.Service.UsersForSystem(systemID)
	if err != nil {
		h.writeAccessError(w, err)
		return
	}
	users = FilterUserAccess(users, r.URL.Query().Get("query"))

	h.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	buckets, err := h.Service.Dashboard(user.ID)
	if err != nil {
		h.writeAccessError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, buckets)
}

func (h *Handler) writeAccessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAccessNotFound):
		h.HandleServiceError(w, internal.NewNotFoundError("access record not found", internal.ErrCodeAccessNotFound))
	case errors.Is(err, ErrSystemNotFound):
		h.HandleServiceError(w, internal.NewNotFoundError("system not found", internal.ErrCodeSystemNotFound))
	case errors.Is(err, ErrUserNotFound):
		h.HandleServiceError(w, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound))
	case errors.Is(err, ErrAlreadyGranted):
		h.HandleServiceError(w, internal.NewConflictError("user already has access to this system", internal.ErrCodeAccessAlreadyGranted))
	case errors.Is(err, ErrNotAuthorized):
		h.HandleServiceError(w, internal.NewForbiddenError("not allowed to manage access for this system", internal.ErrCodeForbidden))
	default:
		h.HandleServiceError(w, err)
	}
}
