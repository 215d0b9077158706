package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aussiebroadwan/shopgate/api/docs"
	"github.com/aussiebroadwan/shopgate/internal/orders/service"
	"github.com/aussiebroadwan/shopgate/internal/orders/store"
	"github.com/aussiebroadwan/shopgate/internal/platform/health"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.TokenVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metrics.Collector

	store        store.Store
	OrderService *service.OrderService
}

// NewRouter wires the routes behind verifier, which relays tokens to the
// issuer. The verifier is instrumented with collector.
func NewRouter(
	verifier httpx.TokenVerifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	collector *metrics.Collector,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     collector.InstrumentVerifier(verifier),
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
	r.registerOrders()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Shopgate Orders API
//	@version					0.1.0
//	@description				Article catalog and purchases. Every route relays the bearer token to the issuer.
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOrders() {
	h := &OrdersHandler{OrderService: r.OrderService}

	r.Mux.Handle("GET /orders/articles",
		httpx.Chain(http.HandlerFunc(h.HandleArticles),
			httpx.RelayAuthn(r.verifier),
		),
	)

	// Per-user routes: the path user must be the verified user.
	r.Mux.Handle("GET /orders/{username}/purchases",
		httpx.Chain(http.HandlerFunc(h.HandlePurchases),
			httpx.RelayAuthn(r.verifier),
			httpx.RequirePathUser("username"),
		),
	)
	r.Mux.Handle("POST /orders/{username}/buy",
		httpx.Chain(http.HandlerFunc(h.HandleBuy),
			httpx.RelayAuthn(r.verifier),
			httpx.RequirePathUser("username"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", health.LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", health.ReadyzHandler(r.startTime, r.buildVersion, map[string]health.Check{
		"database": r.store.Ping,
	}))
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
	r.Mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(docs.Orders)))
}
