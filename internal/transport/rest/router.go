package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/access-management/internal/access"
	"github.com/frahmantamala/access-management/internal/auth"
	"github.com/frahmantamala/access-management/internal/offboarding"
	"github.com/frahmantamala/access-management/internal/system"
	"github.com/frahmantamala/access-management/internal/transport/middleware"
	"github.com/frahmantamala/access-management/internal/transport/swagger"
	"github.com/frahmantamala/access-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	System      *system.Handler
	Access      *access.Handler
	Offboarding *offboarding.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, corsOrigin string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORSMiddleware(corsOrigin))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and Swagger UI live outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything else requires a session.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Get("/users", h.User.ListUsers)

			pr.Get("/dashboard", h.Access.Dashboard)
			pr.Get("/my-access", h.Access.MyAccess)

			pr.Route("/systems", func(sr chi.Router) {
				sr.Get("/", h.System.ListSystems)
				sr.Get("/{id}", h.System.GetSystem)
				sr.Put("/{id}", h.System.UpdateSystem)

				// Membership and grants; the service gates each call on
				// canManageSystem.
				sr.Get("/{id}/users", h.Access.UsersForSystem)
				sr.Post("/{id}/users", h.Access.GrantAccess)
				sr.Delete("/{id}/users/{accessId}", h.Access.RevokeAccess)
				sr.Put("/{id}/users/{accessId}/tags", h.Access.UpdateTags)

				sr.Post("/{id}/co-owners", h.System.AddCoOwner)
				sr.Delete("/{id}/co-owners/{userId}", h.System.RemoveCoOwner)

				sr.Get("/{id}/fields", h.System.ListFields)
				sr.Post("/{id}/fields", h.System.CreateField)
				sr.Put("/{id}/fields/{fieldId}", h.System.UpdateField)
				sr.Delete("/{id}/fields/{fieldId}", h.System.DeleteField)

				// Creation and deletion are admin only.
				sr.Group(func(ar chi.Router) {
					ar.Use(auth.RequireAdmin(logger))
					ar.Post("/", h.System.CreateSystem)
					ar.Delete("/{id}", h.System.DeleteSystem)
				})
			})

			pr.Route("/offboarding", func(or chi.Router) {
				or.Post("/", h.Offboarding.CreateRequest)
				or.Get("/", h.Offboarding.ListRequests)
				or.Get("/{id}", h.Offboarding.GetRequest)

				or.Group(func(ar chi.Router) {
					ar.Use(auth.RequireAdmin(logger))
					ar.Post("/{id}/complete", h.Offboarding.CompleteRequest)
				})
			})
		})
	})
}
