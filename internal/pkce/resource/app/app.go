package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapi "github.com/aussiebroadwan/shopgate/internal/pkce/resource/http"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/queue"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/security"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/service"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/store/drivers/sqlite"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/internal/platform/server"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the resource role with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db        *sqlite.Store
	publisher *queue.Publisher

	router *httpapi.Router
	server *server.Server
}

// New creates a new Application instance with all dependencies initialized.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "pkce-resource-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	db, err := sqlite.NewStore(sqlite.FileDSN(cfg.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.db = db

	app.initPublisher()

	// A nil interface, not a nil *Publisher, keeps the log memory-only.
	var publisher security.Publisher
	if app.publisher != nil {
		publisher = app.publisher
	}

	svc := service.NewResourceService(db, security.NewTokenSet(), security.NewLog(publisher, app.logger), cfg.Profile.Domain())
	if cfg.SeedProducts {
		n, err := svc.SeedProducts(ctx)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to seed products: %w", err)
		}
		if n > 0 {
			app.logger.Info("seeded product catalog", "count", n)
		}
	}

	router := httpapi.NewRouter(BuildVersion, db, app.logger, metrics.NewCollector("pkce-resource"))
	router.ResourceService = svc
	router.ApplyRoutes()
	app.router = router

	app.server = server.New(cfg.Port, router, app.logger, cfg.ShutdownGracePeriod)
	app.server.OnShutdown("database", db.Close)
	if app.publisher != nil {
		app.server.OnShutdown("amqp", app.publisher.Close)
	}

	return app, nil
}

// initPublisher leaves the publisher nil when no broker is configured or
// the broker cannot be reached at startup.
func (app *Application) initPublisher() {
	if app.cfg.AMQPURL == "" {
		return
	}
	p, err := queue.Dial(app.cfg.AMQPURL, app.logger)
	if err != nil {
		app.logger.Warn("rabbitmq unavailable, security events stay in memory", "error", err)
		return
	}
	app.publisher = p
}

// Handler returns the fully wired router.
func (app *Application) Handler() *httpapi.Router { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("pkce resource service starting", "port", app.cfg.Port, "version", BuildVersion, "amqp", app.publisher != nil)
	return app.server.Run()
}
