package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aussiebroadwan/shopgate/api/docs"
	"github.com/aussiebroadwan/shopgate/internal/gateway/service"
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
	cookies      CookieConfig

	GatewayService *service.GatewayService

	// Upstreams are probed by /readyz.
	Upstreams map[string]health.Check
}

func NewRouter(buildVersion string, cookies CookieConfig, logger *slog.Logger, collector *metrics.Collector) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		metrics:      collector,
		cookies:      cookies,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerGateway()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Shopgate Gateway API
//	@version		0.1.0
//	@description	Browser facing JSON API. Identity is carried by the shopgate_session cookie.
//	@BasePath		/
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerGateway() {
	h := &GatewayHandler{Service: r.GatewayService, Cookies: r.cookies}
	session := RequireSession(r.GatewayService, r.cookies)

	// POST /login - strict rate limit by IP (password guessing)
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.HandleFunc("POST /logout", h.HandleLogout)

	r.Mux.Handle("GET /session", httpx.Chain(http.HandlerFunc(h.HandleSession), session))
	r.Mux.Handle("GET /home", httpx.Chain(http.HandlerFunc(h.HandleHome), session))
	r.Mux.Handle("POST /buy",
		httpx.Chain(http.HandlerFunc(h.HandleBuy),
			session,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", health.LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", health.ReadyzHandler(r.startTime, r.buildVersion, r.Upstreams))
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
	r.Mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(docs.Gateway)))
}
