package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aussiebroadwan/shopgate/api/docs"
	"github.com/aussiebroadwan/shopgate/internal/auth/service"
	"github.com/aussiebroadwan/shopgate/internal/platform/health"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metrics.Collector

	TokenService *service.TokenService
}

func NewRouter(buildVersion string, logger *slog.Logger, collector *metrics.Collector) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		metrics:      collector,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Shopgate Token Issuer API
//	@version		0.1.0
//	@description	Issues HS256 bearer tokens after a credential check and verifies them for other services.
//	@BasePath		/
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/login - strict rate limit by IP (password guessing)
	loginHandler := &LoginHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/verify - every relayed request lands here, no limit
	verifyHandler := &VerifyHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /auth/verify", verifyHandler)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", health.LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", health.ReadyzHandler(r.startTime, r.buildVersion, nil))
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
	r.Mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(docs.Auth)))
}
