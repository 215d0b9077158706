package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aussiebroadwan/shopgate/api/docs"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/service"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/store"
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

	store           store.Store
	ResourceService *service.ResourceService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger, collector *metrics.Collector) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		metrics:      collector,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerTokens()
	r.registerCatalog()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Shopgate PKCE Resource API
//	@version					0.1.0
//	@description				Accepts opaque tokens registered by the authorization role and records every guard decision.
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) handler() *ResourceHandler {
	return &ResourceHandler{ResourceService: r.ResourceService}
}

func (r *Router) guard() httpx.Middleware {
	return RequireRegisteredToken(r.ResourceService, r.metrics)
}

func (r *Router) registerTokens() {
	h := r.handler()

	// Called by the authorization role once per issued token.
	r.Mux.HandleFunc("POST /register-token", h.HandleRegisterToken)
	r.Mux.HandleFunc("GET /security-log", h.HandleSecurityLog)

	r.Mux.Handle("GET /profile", httpx.Chain(http.HandlerFunc(h.HandleProfile), r.guard()))
}

func (r *Router) registerCatalog() {
	h := r.handler()

	r.Mux.HandleFunc("GET /products", h.HandleListProducts)
	r.Mux.Handle("POST /products",
		httpx.Chain(http.HandlerFunc(h.HandleCreateProduct),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /orders", httpx.Chain(http.HandlerFunc(h.HandleListOrders), r.guard()))
	r.Mux.Handle("POST /orders",
		httpx.Chain(http.HandlerFunc(h.HandlePlaceOrder),
			r.guard(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", health.LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", health.ReadyzHandler(r.startTime, r.buildVersion, map[string]health.Check{
		"database": r.store.Ping,
	}))
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
	r.Mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(docs.PKCEResource)))
}
