package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cherryapp/cherry/internal/auth"
	"github.com/cherryapp/cherry/internal/catalog"
	"github.com/cherryapp/cherry/internal/clients"
	"github.com/cherryapp/cherry/internal/ledger"
	"github.com/cherryapp/cherry/internal/migration"
	"github.com/cherryapp/cherry/internal/orders"
	"github.com/cherryapp/cherry/internal/suppliers"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthMiddleware   auth.Middleware
	AuthHandler      *auth.Handler
	ClientsHandler   *clients.Handler
	SuppliersHandler *suppliers.Handler
	CatalogHandler   *catalog.Handler
	OrdersHandler    *orders.Handler
	LedgerHandler    *ledger.Handler
	MigrationHandler *migration.Handler
}

// NewRouter constructs the chi.Router. Registration and login are public;
// everything else requires a bearer token.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireAuth)
		r.Route("/clients", params.ClientsHandler.MountRoutes)
		r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
		r.Route("/products", params.CatalogHandler.MountRoutes)
		r.Route("/orders", params.OrdersHandler.MountRoutes)
		r.Route("/ledger", params.LedgerHandler.MountRoutes)
		r.Route("/migration", func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireRole(auth.RoleAdmin))
			params.MigrationHandler.MountRoutes(r)
		})
	})

	return r
}
