package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aussiebroadwan/shopgate/api/docs"
	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/service"
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

	AuthorizeService *service.AuthorizeService
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
	r.registerPKCE()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Shopgate PKCE Authorization API
//	@version		0.1.0
//	@description	Issues single use codes bound to an S256 challenge and redeems them for opaque tokens.
//	@BasePath		/
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPKCE() {
	h := &PKCEHandler{AuthorizeService: r.AuthorizeService, metrics: r.metrics}

	r.Mux.Handle("POST /authorize",
		httpx.Chain(http.HandlerFunc(h.HandleAuthorize),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Code redemption is where verifiers get guessed.
	r.Mux.Handle("POST /token",
		httpx.Chain(http.HandlerFunc(h.HandleToken),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", health.LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", health.ReadyzHandler(r.startTime, r.buildVersion, nil))
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
	r.Mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(docs.PKCEAuthz)))
}
