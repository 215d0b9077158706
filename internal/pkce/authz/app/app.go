package app

import (
	"log/slog"

	httpapi "github.com/aussiebroadwan/shopgate/internal/pkce/authz/http"
	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/service"
	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/store/memory"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/internal/platform/server"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the authorization role with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	router *httpapi.Router
	server *server.Server
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "pkce-authz-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// A nil interface, not a nil *SDKClient, means registration is off.
	var registrar service.Registrar
	if cfg.ResourceServiceURL != "" {
		registrar = authsdk.NewSDKClient(cfg.ResourceServiceURL, authsdk.WithTimeout(cfg.ResourceRegisterTimeout))
	}

	router := httpapi.NewRouter(BuildVersion, app.logger, metrics.NewCollector("pkce-authz"))
	router.AuthorizeService = service.NewAuthorizeService(memory.New(), registrar, app.logger)
	router.ApplyRoutes()
	app.router = router

	app.server = server.New(cfg.Port, router, app.logger, cfg.ShutdownGracePeriod)

	return app, nil
}

// Handler returns the fully wired router.
func (app *Application) Handler() *httpapi.Router { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("pkce authorization service starting", "port", app.cfg.Port, "version", BuildVersion, "resource", app.cfg.ResourceServiceURL)
	return app.server.Run()
}
