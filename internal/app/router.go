package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-erp/meridian/internal/auth"
	"github.com/meridian-erp/meridian/internal/masterdata/customers"
	"github.com/meridian-erp/meridian/internal/masterdata/geo"
	"github.com/meridian-erp/meridian/internal/masterdata/items"
	"github.com/meridian-erp/meridian/internal/masterdata/paymentterms"
	"github.com/meridian-erp/meridian/internal/masterdata/sections"
	"github.com/meridian-erp/meridian/internal/masterdata/suppliers"
	"github.com/meridian-erp/meridian/internal/observability"
	"github.com/meridian-erp/meridian/internal/pages"
	"github.com/meridian-erp/meridian/internal/rbac"
	"github.com/meridian-erp/meridian/internal/shared"
	"github.com/meridian-erp/meridian/internal/tenant"
	"github.com/meridian-erp/meridian/internal/users"
	"github.com/meridian-erp/meridian/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics
	TenantResolver *tenant.Resolver

	AuthHandler  *auth.Handler
	UsersHandler *users.Handler
	RBACHandler  *rbac.Handler

	GeoHandler          *geo.Handler
	CustomersHandler    *customers.Handler
	SuppliersHandler    *suppliers.Handler
	PaymentTermsHandler *paymentterms.Handler
	ItemsHandler        *items.Handler
	SectionsHandler     *sections.Handler
	PagesHandler        *pages.Handler

	JobsHandler *jobs.Handler
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth resolves the tenant when one is named; platform logins carry none.
	r.Group(func(r chi.Router) {
		if params.TenantResolver != nil {
			r.Use(params.TenantResolver.Optional)
		}
		r.Route("/auth", params.AuthHandler.MountRoutes)
	})

	// Everything tenant-facing requires a resolved, active tenant.
	r.Group(func(r chi.Router) {
		if params.TenantResolver != nil {
			r.Use(params.TenantResolver.Middleware)
		}

		r.Route("/masterdata", func(r chi.Router) {
			r.Route("/geo", params.GeoHandler.Routes)
			r.Route("/customers", params.CustomersHandler.Routes)
			r.Route("/suppliers", params.SuppliersHandler.Routes)
			r.Route("/payment-terms", params.PaymentTermsHandler.Routes)
			r.Route("/items", params.ItemsHandler.Routes)
			r.Route("/sections", params.SectionsHandler.Routes)
		})

		if params.PagesHandler != nil {
			r.Route("/pages", params.PagesHandler.Routes)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
	})

	if params.RBACHandler != nil {
		r.Route("/rbac", params.RBACHandler.MountRoutes)
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
