package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/internal/platform/server"
	httpapi "github.com/aussiebroadwan/shopgate/internal/users/http"
	"github.com/aussiebroadwan/shopgate/internal/users/service"
	"github.com/aussiebroadwan/shopgate/internal/users/store"
	"github.com/aussiebroadwan/shopgate/internal/users/store/drivers/postgres"
	"github.com/aussiebroadwan/shopgate/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/shopgate/pkg/cryptox"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the credential store with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db          store.Store
	userService *service.UserService

	router *httpapi.Router
	server *server.Server
}

// New creates a new Application instance with all dependencies initialized.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "users-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initServices(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Handler returns the fully wired router.
func (app *Application) Handler() *httpapi.Router { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("users service starting", "port", app.cfg.Port, "version", BuildVersion, "driver", app.cfg.DatabaseDriver)
	return app.server.Run()
}

func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices(ctx context.Context) error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	app.userService = service.NewUserService(app.db, cryptox.NewPasswordHasher(pepper))

	if app.cfg.SeedDemo {
		n, err := app.userService.SeedDemoUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed demo users: %w", err)
		}
		if n > 0 {
			app.logger.Info("demo users seeded", "count", n)
		}
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger, metrics.NewCollector("users"))
	router.UserService = app.userService
	router.ApplyRoutes()
	app.router = router

	app.server = server.New(app.cfg.Port, router, app.logger, app.cfg.ShutdownGracePeriod)
	app.server.OnShutdown("database", app.db.Close)
}
