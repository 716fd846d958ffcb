package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sitelog/intake/internal/announcements"
	"github.com/sitelog/intake/internal/auth"
	"github.com/sitelog/intake/internal/dashboard"
	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/internal/invoice"
	"github.com/sitelog/intake/internal/masterdata"
	"github.com/sitelog/intake/internal/observability"
	"github.com/sitelog/intake/internal/settings"
	"github.com/sitelog/intake/internal/shared"
	"github.com/sitelog/intake/internal/users"
	"github.com/sitelog/intake/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Metrics        *observability.Metrics

	AuthHandler          *auth.Handler
	MasterDataHandler    *masterdata.Handler
	EntriesHandler       *intake.Handler
	DashboardHandler     *dashboard.Handler
	InvoiceHandler       *invoice.Handler
	UsersHandler         *users.Handler
	SettingsHandler      *settings.Handler
	AnnouncementsHandler *announcements.Handler
	JobHandler           *jobs.Handler
}

// HandlerParams builds RouterParams from the container's services.
func (c *Container) HandlerParams(cfg *Config, sessions *shared.SessionManager, metrics *observability.Metrics, jobHandler *jobs.Handler) RouterParams {
	logger := c.logger()
	return RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionManager:       sessions,
		Metrics:              metrics,
		AuthHandler:          auth.NewHandler(logger, c.Auth, sessions),
		MasterDataHandler:    masterdata.NewHandler(logger, c.MasterData),
		EntriesHandler:       intake.NewHandler(logger, c.Entries),
		DashboardHandler:     dashboard.NewHandler(logger, c.Dashboard),
		InvoiceHandler:       invoice.NewHandler(logger, c.Invoices),
		UsersHandler:         users.NewHandler(logger, c.Users),
		SettingsHandler:      settings.NewHandler(logger, c.Settings),
		AnnouncementsHandler: announcements.NewHandler(logger, c.Announcements),
		JobHandler:           jobHandler,
	}
}

// NewRouter constructs the chi.Router with the default middleware stack.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
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
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if params.AuthHandler != nil {
			r.Route("/auth", params.AuthHandler.MountRoutes)
		}
		if params.MasterDataHandler != nil {
			r.Group(params.MasterDataHandler.MountRoutes)
		}
		if params.EntriesHandler != nil {
			r.Route("/entries", params.EntriesHandler.MountRoutes)
		}
		if params.DashboardHandler != nil {
			r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		}
		if params.InvoiceHandler != nil {
			r.Route("/invoices", params.InvoiceHandler.MountRoutes)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.SettingsHandler != nil {
			r.Route("/settings", params.SettingsHandler.MountRoutes)
		}
		if params.AnnouncementsHandler != nil {
			r.Route("/announcements", params.AnnouncementsHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
