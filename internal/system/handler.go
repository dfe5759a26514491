package system

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateSystem(actorID string, dto CreateSystemDTO) (*System, error)
	GetSystem(id string) (*System, error)
	ListSystems(query, category string) ([]*System, error)
	UpdateSystem(actorID, id string, dto UpdateSystemDTO) (*System, error)
	DeleteSystem(actorID, id string) error

	AddCoOwner(actorID, systemID, userID string) error
	RemoveCoOwner(actorID, systemID, userID string) error

	ListFields(systemID string) ([]*Field, error)
	CreateField(actorID, systemID string, dto CreateFieldDTO) (*Field, error)
	UpdateField(actorID, systemID, fieldID string, dto UpdateFieldDTO) (*Field, error)
	DeleteField(actorID, systemID, fieldID string) error
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

func (h *Handler) CreateSystem(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return
	}

	var dto CreateSystemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	created, err := h.Service.CreateSystem(user.ID, dto)
	if err != nil {
		h.writeSystemError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetSystem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sys, err := h.Service.GetSystem(id)
	if err != nil {
		h.writeSystemError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sys)
}

func (h *Handler) ListSystems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	category := r.URL.Query().Get("category")

	systems, err := h.Service.ListSystems(query, category)
	if err != nil {
		h.writeSystemError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{"systems": systems})
}

func (h *Handler) UpdateSystem(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return
	}
	id := chi.URLParam(r, "id")

	var dto UpdateSystemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	updated, err := h.Service.UpdateSystem(user.ID, id, dto)
	if err != nil {
		h.writeSystemError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteSystem(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteSystem(user.ID, id); err != nil {
		h.writeSystemError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddCoOwner(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return
	}
	systemID := chi.URLParam(r, "id")

	var dto CoOwnerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.AddCoOwner(user.ID, systemID, dto.UserID); err != nil {
		h.writeSystemError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveCoOwner(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return
	}
	systemID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userId")

	if err := h.Service.RemoveCoOwner(user.ID, systemID, userID); err != nil {
		h.writeSystemError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFields(w http.ResponseWriter, r *http.Request) {
	systemID := chi.URLParam(r, "id")

	fields, err := h.Service.ListFields(systemID)
	if err != nil {
		h.writeSystemError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{"fields": fields})
}

func (h *Handler) CreateField(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return
	}
	systemID := chi.URLParam(r, "id")

	var dto CreateFieldDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	field, err := h.Service.CreateField(user.ID, systemID, dto)
	if err != nil {
		h.writeSystemError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, field)
}

func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return
	}
	systemID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fieldId")

	var dto UpdateFieldDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	field, err := h.Service.UpdateField(user.ID, systemID, fieldID, dto)
	if err != nil {
		h.writeSystemError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, field)
}

func (h *Handler) DeleteField(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return
	}
	systemID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fieldId")

	if err := h.Service.DeleteField(user.ID, systemID, fieldID); err != nil {
		h.writeSystemError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeSystemError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSystemNotFound):
		h.HandleServiceError(w, internal.NewNotFoundError("system not found", internal.ErrCodeSystemNotFound))
	case errors.Is(err, ErrFieldNotFound):
		h.HandleServiceError(w, internal.NewNotFoundError("field not found", internal.ErrCodeFieldNotFound))
	case errors.Is(err, ErrOwnerNotFound):
		h.HandleServiceError(w, internal.NewValidationError("owner does not exist", internal.ErrCodeValidationFailed))
	case errors.Is(err, ErrUserNotFound):
		h.HandleServiceError(w, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound))
	case errors.Is(err, ErrCoOwnerNotFound):
		h.HandleServiceError(w, internal.NewNotFoundError("co-owner not found", internal.ErrCodeUserNotFound))
	case errors.Is(err, ErrAdminOnly):
		h.HandleServiceError(w, internal.NewForbiddenError("administrator role required", internal.ErrCodeAdminRequired))
	case errors.Is(err, ErrNotAuthorized):
		h.HandleServiceError(w, internal.NewForbiddenError("not allowed to manage this system", internal.ErrCodeForbidden))
	case errors.Is(err, ErrDuplicateField):
		h.HandleServiceError(w, internal.NewConflictError("field with this name already exists", internal.ErrCodeDuplicateField))
	case errors.Is(err, ErrDuplicateCoOwner):
		h.HandleServiceError(w, internal.NewConflictError("user is already a co-owner", internal.ErrCodeDuplicateCoOwner))
	case errors.Is(err, ErrOwnerAsCoOwner):
		h.HandleServiceError(w, internal.NewValidationError("owner cannot be added as co-owner", internal.ErrCodeOwnerAsCoOwner))
	default:
		h.HandleServiceError(w, err)
	}
}
