package app

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/sitelog/intake/internal/announcements"
	"github.com/sitelog/intake/internal/auth"
	"github.com/sitelog/intake/internal/dashboard"
	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/internal/invoice"
	"github.com/sitelog/intake/internal/masterdata"
	"github.com/sitelog/intake/internal/platform/db"
	"github.com/sitelog/intake/internal/settings"
	"github.com/sitelog/intake/internal/state"
	"github.com/sitelog/intake/internal/users"
	"github.com/sitelog/intake/internal/view"
	"github.com/sitelog/intake/jobs"
)

// WarmupEnqueuer schedules a dashboard rebuild.
type WarmupEnqueuer interface {
	EnqueueDashboardWarmup(ctx context.Context, reason string) error
}

// Deps are the external resources the services are built on.
type Deps struct {
	Config *Config
	Logger *slog.Logger
	DB     db.Querier
	Redis  *redis.Client
	PDF    invoice.PDFRenderer
	// Jobs is optional; without it the dashboard is rebuilt lazily on read.
	Jobs WarmupEnqueuer
}

// Container holds the wired domain services shared by the server and worker.
type Container struct {
	Logger        *slog.Logger
	MasterData    *masterdata.Service
	Entries       *intake.Service
	Settings      *settings.Service
	Announcements *announcements.Service
	Users         *users.Service
	Auth          *auth.Service
	Snapshots     *state.Loader
	DashboardData *dashboard.Cache
	Dashboard     *dashboard.Service
	Invoices      *invoice.Service
	Renders       *jobs.RenderStore

	jobs WarmupEnqueuer
}

// NewContainer wires every service against deps.
func NewContainer(deps Deps) (*Container, error) {
	engine, err := view.NewEngine()
	if err != nil {
		return nil, err
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &Config{}
	}

	c := &Container{Logger: deps.Logger, jobs: deps.Jobs}

	settingsRepo := settings.NewRepository(deps.DB)
	announcementRepo := announcements.NewRepository(deps.DB)
	entryRepo := intake.NewRepository(deps.DB)

	c.MasterData = masterdata.NewService(masterdata.NewRepository(deps.DB))
	c.Snapshots = &state.Loader{
		Catalog:       c.MasterData,
		Entries:       entryRepo,
		Announcements: announcementRepo,
		Settings:      settingsRepo,
	}
	c.DashboardData = dashboard.NewCache(deps.Redis, cfg.DashboardCacheTTL)
	c.Dashboard = dashboard.NewService(c.Snapshots, c.DashboardData)

	c.MasterData.Notify(c.dataChanged("masterdata"))
	c.Entries = intake.NewService(entryRepo, c.MasterData, deps.Logger, c.dataChanged("entries"))
	c.Settings = settings.NewService(settingsRepo, nil)
	c.Announcements = announcements.NewService(announcementRepo, c.dataChanged("announcements"))

	c.Users = users.NewService(users.NewRepository(deps.DB))
	c.Auth = auth.NewService(c.Users)

	c.Invoices = invoice.NewService(c.Snapshots, engine, deps.PDF)
	if deps.Redis != nil {
		c.Renders = jobs.NewRenderStore(deps.Redis, cfg.InvoiceRenderTTL)
	}
	return c, nil
}

// dataChanged returns the mutation hook for one source of change: the cached
// dashboard is dropped and a background rebuild is requested.
func (c *Container) dataChanged(source string) func(ctx context.Context) {
	return func(ctx context.Context) {
		if err := c.Dashboard.Invalidate(ctx); err != nil {
			c.logger().Warn("invalidate dashboard", slog.String("source", source), slog.Any("error", err))
		}
		if c.jobs == nil {
			return
		}
		if err := c.jobs.EnqueueDashboardWarmup(ctx, source); err != nil {
			c.logger().Warn("enqueue dashboard warmup", slog.String("source", source), slog.Any("error", err))
		}
	}
}

func (c *Container) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
