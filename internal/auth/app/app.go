package app

import (
	"fmt"
	"log/slog"

	httpapi "github.com/aussiebroadwan/shopgate/internal/auth/http"
	"github.com/aussiebroadwan/shopgate/internal/auth/service"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/internal/platform/server"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/jwtx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the token issuer with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	tokenService *service.TokenService

	router *httpapi.Router
	server *server.Server
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired router.
func (app *Application) Handler() *httpapi.Router { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	if app.cfg.Env != "dev" && app.cfg.SecretKey == "change-me-in-prod" {
		app.logger.Warn("AUTH_SECRET_KEY is the built-in default")
	}
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion, "token_ttl", app.cfg.TokenTTL())
	return app.server.Run()
}

func (app *Application) initServices() error {
	signer, err := jwtx.NewHS256Signer(app.cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}
	verifier, err := jwtx.NewHS256Verifier(app.cfg.SecretKey, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to create verifier: %w", err)
	}

	app.tokenService = &service.TokenService{
		Signer:      signer,
		Verifier:    verifier,
		Credentials: authsdk.NewSDKClient(app.cfg.UserServiceURL, authsdk.WithTimeout(app.cfg.UpstreamTimeout)),
		Issuer:      app.cfg.Issuer,
		AccessTTL:   app.cfg.TokenTTL(),
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.logger, metrics.NewCollector("auth"))
	router.TokenService = app.tokenService
	router.ApplyRoutes()
	app.router = router

	app.server = server.New(app.cfg.Port, router, app.logger, app.cfg.ShutdownGracePeriod)
}
