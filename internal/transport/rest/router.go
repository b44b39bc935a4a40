package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/asset-custody/internal/assignment"
	"github.com/frahmantamala/asset-custody/internal/audit"
	"github.com/frahmantamala/asset-custody/internal/auth"
	"github.com/frahmantamala/asset-custody/internal/category"
	"github.com/frahmantamala/asset-custody/internal/department"
	"github.com/frahmantamala/asset-custody/internal/item"
	"github.com/frahmantamala/asset-custody/internal/personnel"
	"github.com/frahmantamala/asset-custody/internal/report"
	"github.com/frahmantamala/asset-custody/internal/transport/middleware"
	"github.com/frahmantamala/asset-custody/internal/transport/swagger"
	"github.com/frahmantamala/asset-custody/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth       *auth.Handler
	RBAC       *auth.RBACAuthorization
	User       *user.Handler
	Personnel  *personnel.Handler
	Item       *item.Handler
	Category   *category.Handler
	Department *department.Handler
	Assignment *assignment.Handler
	Report     *report.Handler
	Audit      *audit.Handler
}

type Options struct {
	Logger         *slog.Logger
	AllowedOrigins string
	Health         map[string]Checker
	// APIDoc is optional; without it /openapi.yml and /swagger are not mounted
	APIDoc *APIDocument
}

func NewRouter(h Handlers, opts Options) *chi.Mux {
	router := chi.NewRouter()
	RegisterAllRoutes(router, h, opts)
	return router
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options) {
	healthHandler := NewHealthHandler(opts.Health)

	// Apply global middleware
	router.Use(middleware.RequestID(opts.Logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(chiMiddleware.StripSlashes)

	if opts.APIDoc != nil {
		router.Method(http.MethodGet, "/openapi.yml", opts.APIDoc)
		router.Handle("/swagger/*", swagger.Handler())
	}

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			mutator := h.RBAC.RequireMutator()
			admin := h.RBAC.RequireAdmin()

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/me", h.User.GetCurrentUser)
				ur.Group(func(ar chi.Router) {
					ar.Use(admin)
					ar.Get("/", h.User.ListUsers)
					ar.Post("/", h.User.CreateUser)
					ar.Get("/{id}", h.User.GetUser)
					ar.Put("/{id}", h.User.UpdateUser)
					ar.Delete("/{id}", h.User.DeleteUser)
					ar.Post("/{id}/reset-password", h.User.ResetPassword)
				})
			})

			pr.Route("/personnel", func(rr chi.Router) {
				rr.Get("/", h.Personnel.ListPersonnel)
				rr.Get("/{id}", h.Personnel.GetPersonnel)
				rr.With(mutator).Post("/", h.Personnel.CreatePersonnel)
				rr.With(mutator).Put("/{id}", h.Personnel.UpdatePersonnel)
				rr.With(mutator).Delete("/{id}", h.Personnel.DeletePersonnel)
			})

			pr.Route("/items", func(rr chi.Router) {
				rr.Get("/", h.Item.ListItems)
				rr.Get("/{id}", h.Item.GetItem)
				rr.With(mutator).Post("/", h.Item.CreateItem)
				rr.With(mutator).Put("/{id}", h.Item.UpdateItem)
				rr.With(mutator).Delete("/{id}", h.Item.DeleteItem)
			})

			pr.Route("/categories", func(rr chi.Router) {
				rr.Get("/", h.Category.GetCategories)
				rr.Get("/{id}", h.Category.GetCategory)
				rr.With(mutator).Post("/", h.Category.CreateCategory)
				rr.With(mutator).Put("/{id}", h.Category.UpdateCategory)
				rr.With(mutator).Delete("/{id}", h.Category.DeleteCategory)
			})

			pr.Route("/departments", func(rr chi.Router) {
				rr.Get("/", h.Department.GetDepartments)
				rr.Get("/{id}", h.Department.GetDepartment)
				rr.With(mutator).Post("/", h.Department.CreateDepartment)
				rr.With(mutator).Put("/{id}", h.Department.UpdateDepartment)
				rr.With(mutator).Delete("/{id}", h.Department.DeleteDepartment)
			})

			pr.Route("/assignments", func(rr chi.Router) {
				rr.Get("/", h.Assignment.ListAssignments)
				rr.Get("/{id}", h.Assignment.GetAssignment)
				rr.With(mutator).Post("/", h.Assignment.IssueAssignment)
				rr.With(mutator).Post("/{id}/close", h.Assignment.CloseAssignment)
			})

			pr.Route("/dashboard", func(rr chi.Router) {
				rr.Get("/totals", h.Report.GetTotals)
				rr.Get("/recent", h.Report.GetRecent)
				rr.Get("/categories", h.Report.GetCategories)
				rr.Get("/departments", h.Report.GetDepartments)
			})

			pr.With(admin).Get("/audit-logs", h.Audit.ListEntries)
		})
	})
}
