package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/admindesk/admindesk/internal/auth"
	"github.com/admindesk/admindesk/internal/catalog"
	"github.com/admindesk/admindesk/internal/endpoints"
	"github.com/admindesk/admindesk/internal/observability"
	"github.com/admindesk/admindesk/internal/roles"
	"github.com/admindesk/admindesk/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Authenticator    *auth.Authenticator
	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	RolesHandler     *roles.Handler
	CatalogHandler   *catalog.Handler
	EndpointsHandler *endpoints.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults. Every API
// route runs behind the authenticator, which attaches the principal when a
// valid token is presented and passes anonymously otherwise; per-route
// guards then enforce the decision sequence.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(params.Authenticator.Middleware)
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/permissions", params.CatalogHandler.MountRoutes)
		r.Route("/endpoints", params.EndpointsHandler.MountRoutes)
	})

	return r
}
