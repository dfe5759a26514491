package offboarding

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
	CreateRequest(actorID string, dto CreateRequestDTO) (*Request, error)
	GetRequest(id string) (*Request, error)
	ListRequests(status string) ([]*Request, error)
	CompleteRequest(ctx context.Context, actorID, requestID string) (*Request, error)
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

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.CreateRequest(user.ID, dto)
	if err != nil {
		h.writeOffboardingError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := h.Service.GetRequest(id)
	if err != nil {
		h.writeOffboardingError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	requests, err := h.Service.ListRequests(status)
	if err != nil {
		h.writeOffboardingError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

// CompleteRequest is behind the admin-only route group; the service
// checks the role again so the invariant does not depend on routing.
func (h *Handler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id := chi.URLParam(r, "id")

	req, err := h.Service.CompleteRequest(r.Context(), user.ID, id)
	if err != nil {
		h.writeOffboardingError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) writeOffboardingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRequestNotFound):
		h.HandleServiceError(w, internal.NewNotFoundError("offboarding request not found", internal.ErrCodeRequestNotFound))
	case errors.Is(err, ErrUserNotFound):
		h.HandleServiceError(w, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound))
	case errors.Is(err, ErrAdminOnly):
		h.HandleServiceError(w, internal.NewForbiddenError("administrator role required", internal.ErrCodeAdminRequired))
	default:
		h.HandleServiceError(w, err)
	}
}
