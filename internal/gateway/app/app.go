package app

import (
	"context"
	"log/slog"

	httpapi "github.com/aussiebroadwan/shopgate/internal/gateway/http"
	"github.com/aussiebroadwan/shopgate/internal/gateway/service"
	"github.com/aussiebroadwan/shopgate/internal/gateway/store"
	"github.com/aussiebroadwan/shopgate/internal/gateway/store/memory"
	"github.com/aussiebroadwan/shopgate/internal/gateway/store/redis"
	"github.com/aussiebroadwan/shopgate/internal/platform/health"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/internal/platform/server"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gateway with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	sessions store.Sessions
	issuer   *authsdk.SDKClient
	users    *authsdk.SDKClient
	orders   *authsdk.SDKClient

	router *httpapi.Router
	server *server.Server
}

// New creates a new Application instance with all dependencies initialized.
func New(ctx context.Context, cfg Config) (*Application, error) {
	timeout := authsdk.WithTimeout(cfg.UpstreamTimeout)
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		issuer: authsdk.NewSDKClient(cfg.AuthServiceURL, timeout),
		users:  authsdk.NewSDKClient(cfg.UserServiceURL, timeout),
		orders: authsdk.NewSDKClient(cfg.OrdersServiceURL, timeout),
	}

	app.initSessions(ctx)
	app.initHTTP()
	return app, nil
}

// Handler returns the fully wired router.
func (app *Application) Handler() *httpapi.Router { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("gateway starting", "port", app.cfg.Port, "version", BuildVersion, "session_store", app.cfg.SessionStore)
	return app.server.Run()
}

// initSessions falls back to the memory store when redis cannot be reached
// at startup.
func (app *Application) initSessions(ctx context.Context) {
	if app.cfg.SessionStore == "redis" {
		st, err := redis.Connect(ctx, redis.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
		}, app.cfg.SessionMaxAge)
		if err == nil {
			app.sessions = st
			return
		}
		app.logger.Warn("redis unavailable, using in-memory sessions", "error", err)
	}
	app.sessions = memory.New(app.cfg.SessionMaxAge)
}

func (app *Application) initHTTP() {
	collector := metrics.NewCollector("gateway")

	router := httpapi.NewRouter(BuildVersion, httpapi.CookieConfig{
		MaxAge: app.cfg.SessionMaxAge,
		Secure: app.cfg.CookieSecure,
	}, app.logger, collector)
	router.GatewayService = &service.GatewayService{
		Sessions: app.sessions,
		Issuer:   app.issuer,
		Verifier: collector.InstrumentVerifier(app.issuer),
		Users:    app.users,
		Orders:   app.orders,
	}
	router.Upstreams = map[string]health.Check{
		"sessions": app.sessions.Ping,
		"auth":     livez(app.issuer),
		"users":    livez(app.users),
		"orders":   livez(app.orders),
	}
	router.ApplyRoutes()
	app.router = router

	app.server = server.New(app.cfg.Port, router, app.logger, app.cfg.ShutdownGracePeriod)
	app.server.OnShutdown("sessions", app.sessions.Close)
}

func livez(c *authsdk.SDKClient) health.Check {
	return func(ctx context.Context) error {
		_, err := c.GetLiveness(ctx)
		return err
	}
}
