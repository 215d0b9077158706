package app

import (
	"fmt"
	"log/slog"

	httpapi "github.com/aussiebroadwan/shopgate/internal/orders/http"
	"github.com/aussiebroadwan/shopgate/internal/orders/service"
	"github.com/aussiebroadwan/shopgate/internal/orders/store"
	"github.com/aussiebroadwan/shopgate/internal/orders/store/drivers/sqlite"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/internal/platform/server"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the orders service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	issuer *authsdk.SDKClient

	router *httpapi.Router
	server *server.Server
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "orders-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		issuer: authsdk.NewSDKClient(cfg.AuthServiceURL, authsdk.WithTimeout(cfg.UpstreamTimeout)),
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

	router := httpapi.NewRouter(app.issuer, BuildVersion, db, app.logger, metrics.NewCollector("orders"))
	router.OrderService = service.NewOrderService(db)
	router.ApplyRoutes()
	app.router = router

	app.server = server.New(cfg.Port, router, app.logger, cfg.ShutdownGracePeriod)
	app.server.OnShutdown("database", db.Close)

	return app, nil
}

// Handler returns the fully wired router.
func (app *Application) Handler() *httpapi.Router { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("orders service starting", "port", app.cfg.Port, "version", BuildVersion, "issuer", app.cfg.AuthServiceURL)
	return app.server.Run()
}
