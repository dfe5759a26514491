package system_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/system"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// stubService implements system.ServiceAPI with canned results so the
// handler's status mapping can be exercised directly.
type stubService struct {
	err     error
	system  *system.System
	systems []*system.System
	field   *system.Field
	fields  []*system.Field
}

func (s *stubService) CreateSystem(actorID string, dto system.CreateSystemDTO) (*system.System, error) {
	return s.system, s.err
}

func (s *stubService) GetSystem(id string) (*system.System, error) {
	return s.system, s.err
}

func (s *stubService) ListSystems(query, category string) ([]*system.System, error) {
	return s.systems, s.err
}

func (s *stubService) UpdateSystem(actorID, id string, dto system.UpdateSystemDTO) (*system.System, error) {
	return s.system, s.err
}

func (s *stubService) DeleteSystem(actorID, id string) error {
	return s.err
}

func (s *stubService) AddCoOwner(actorID, systemID, userID string) error {
	return s.err
}

func (s *stubService) RemoveCoOwner(actorID, systemID, userID string) error {
	return s.err
}

func (s *stubService) ListFields(systemID string) ([]*system.Field, error) {
	return s.fields, s.err
}

func (s *stubService) CreateField(actorID, systemID string, dto system.CreateFieldDTO) (*system.Field, error) {
	return s.field, s.err
}

func (s *stubService) UpdateField(actorID, systemID, fieldID string, dto system.UpdateFieldDTO) (*system.Field, error) {
	return s.field, s.err
}

func (s *stubService) DeleteField(actorID, systemID, fieldID string) error {
	return s.err
}

func newRequest(method, target string, body io.Reader, user *internal.SessionUser, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := req.Context()
	if user != nil {
		ctx = internal.ContextWithUser(ctx, user)
	}
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func decodeErrorCode(body io.Reader) string {
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	Expect(json.NewDecoder(body).Decode(&resp)).To(Succeed())
	return resp.Error.Code
}

var _ = Describe("System Handler", func() {
	var (
		stub    *stubService
		handler *system.Handler
		admin   *internal.SessionUser
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		stub = &stubService{}
		handler = system.NewHandler(lg, stub)
		admin = &internal.SessionUser{ID: "admin-1", Name: "John Admin", Role: "admin"}
	})

	Describe("CreateSystem", func() {
		body := `{"name":"Workday","description":"HR platform","category":"HR","owner_id":"user-2"}`

		It("should return 401 when no user is on the request", func() {
			w := httptest.NewRecorder()
			handler.CreateSystem(w, newRequest(http.MethodPost, "/systems", strings.NewReader(body), nil, nil))

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 400 on a malformed body", func() {
			w := httptest.NewRecorder()
			handler.CreateSystem(w, newRequest(http.MethodPost, "/systems", strings.NewReader("{"), admin, nil))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 403 when the service rejects a non-admin", func() {
			stub.err = system.ErrAdminOnly
			w := httptest.NewRecorder()
			handler.CreateSystem(w, newRequest(http.MethodPost, "/systems", strings.NewReader(body), admin, nil))

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(decodeErrorCode(w.Body)).To(Equal("ADMIN_REQUIRED"))
		})

		It("should return 201 with the created system", func() {
			stub.system = &system.System{ID: "sys-1", Name: "Workday", Category: "HR"}
			w := httptest.NewRecorder()
			handler.CreateSystem(w, newRequest(http.MethodPost, "/systems", strings.NewReader(body), admin, nil))

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

			var created system.System
			Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
			Expect(created.ID).To(Equal("sys-1"))
		})
	})

	Describe("GetSystem", func() {
		It("should return 404 for an unknown system", func() {
			stub.err = system.ErrSystemNotFound
			w := httptest.NewRecorder()
			handler.GetSystem(w, newRequest(http.MethodGet, "/systems/nope", nil, nil, map[string]string{"id": "nope"}))

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeErrorCode(w.Body)).To(Equal("SYSTEM_NOT_FOUND"))
		})

		It("should return 200 with the system", func() {
			stub.system = &system.System{ID: "sys-1", Name: "Workday"}
			w := httptest.NewRecorder()
			handler.GetSystem(w, newRequest(http.MethodGet, "/systems/sys-1", nil, nil, map[string]string{"id": "sys-1"}))

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should mask unexpected errors as 500", func() {
			stub.err = io.ErrUnexpectedEOF
			w := httptest.NewRecorder()
			handler.GetSystem(w, newRequest(http.MethodGet, "/systems/sys-1", nil, nil, map[string]string{"id": "sys-1"}))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).NotTo(ContainSubstring("unexpected EOF"))
		})
	})

	Describe("DeleteSystem", func() {
		It("should return 403 when the actor cannot manage the system", func() {
			stub.err = system.ErrNotAuthorized
			w := httptest.NewRecorder()
			handler.DeleteSystem(w, newRequest(http.MethodDelete, "/systems/sys-1", nil, admin, map[string]string{"id": "sys-1"}))

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should return 204 on success", func() {
			w := httptest.NewRecorder()
			handler.DeleteSystem(w, newRequest(http.MethodDelete, "/systems/sys-1", nil, admin, map[string]string{"id": "sys-1"}))

			Expect(w.Code).To(Equal(http.StatusNoContent))
		})
	})

	Describe("AddCoOwner", func() {
		body := `{"user_id":"user-3"}`

		It("should return 409 for a duplicate co-owner", func() {
			stub.err = system.ErrDuplicateCoOwner
			w := httptest.NewRecorder()
			handler.AddCoOwner(w, newRequest(http.MethodPost, "/systems/sys-1/co-owners", strings.NewReader(body), admin, map[string]string{"id": "sys-1"}))

			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(decodeErrorCode(w.Body)).To(Equal("DUPLICATE_CO_OWNER"))
		})

		It("should return 400 when the owner is added as co-owner", func() {
			stub.err = system.ErrOwnerAsCoOwner
			w := httptest.NewRecorder()
			handler.AddCoOwner(w, newRequest(http.MethodPost, "/systems/sys-1/co-owners", strings.NewReader(body), admin, map[string]string{"id": "sys-1"}))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 when user_id is missing", func() {
			w := httptest.NewRecorder()
			handler.AddCoOwner(w, newRequest(http.MethodPost, "/systems/sys-1/co-owners", strings.NewReader(`{}`), admin, map[string]string{"id": "sys-1"}))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("CreateField", func() {
		body := `{"name":"Cost Center","field_type":"text"}`

		It("should return 409 for a duplicate field name", func() {
			stub.err = system.ErrDuplicateField
			w := httptest.NewRecorder()
			handler.CreateField(w, newRequest(http.MethodPost, "/systems/sys-1/fields", strings.NewReader(body), admin, map[string]string{"id": "sys-1"}))

			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(decodeErrorCode(w.Body)).To(Equal("DUPLICATE_FIELD_NAME"))
		})

		It("should return 201 with the created field", func() {
			stub.field = &system.Field{ID: "field-1", SystemID: "sys-1", Name: "Cost Center", FieldType: "text"}
			w := httptest.NewRecorder()
			handler.CreateField(w, newRequest(http.MethodPost, "/systems/sys-1/fields", strings.NewReader(body), admin, map[string]string{"id": "sys-1"}))

			Expect(w.Code).To(Equal(http.StatusCreated))

			var field system.Field
			Expect(json.NewDecoder(w.Body).Decode(&field)).To(Succeed())
			Expect(field.Name).To(Equal("Cost Center"))
		})
	})
})
