// Package metrics exposes Prometheus metrics for the shopgate services.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
)

// Relay verification outcomes.
const (
	RelayOK          = "ok"
	RelayExpired     = "expired"
	RelayRejected    = "rejected"
	RelayUnavailable = "unavailable"
)

// Collector holds one service's metrics in its own registry.
type Collector struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	relay    *prometheus.CounterVec
	exchange *prometheus.CounterVec
	guard    *prometheus.CounterVec
}

// NewCollector creates a registry labelled with the service name and
// registers the Go and process collectors alongside the shopgate metrics.
func NewCollector(service string) *Collector {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"service": service}

	c := &Collector{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "shopgate_http_requests_total",
			Help:        "HTTP requests by route and status.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "shopgate_http_request_duration_seconds",
			Help:        "HTTP request latency by route.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		relay: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "shopgate_relay_verifications_total",
			Help:        "Token verifications relayed to the issuer by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		exchange: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "shopgate_pkce_exchanges_total",
			Help:        "Authorization code exchanges by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		guard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "shopgate_resource_guard_decisions_total",
			Help:        "Opaque token guard decisions by event.",
			ConstLabels: labels,
		}, []string{"decision"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests,
		c.latency,
		c.relay,
		c.exchange,
		c.guard,
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// HTTPMiddleware records request counts and latency. The route label is the
// ServeMux pattern, so it must wrap the mux directly, with no middleware in
// between that replaces the request.
func (c *Collector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		c.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordRelay counts a relayed verification outcome.
func (c *Collector) RecordRelay(outcome string) {
	c.relay.WithLabelValues(outcome).Inc()
}

// RecordExchange counts a code exchange outcome, normally the error code or
// "ok".
func (c *Collector) RecordExchange(outcome string) {
	c.exchange.WithLabelValues(outcome).Inc()
}

// RecordGuard counts a resource guard decision.
func (c *Collector) RecordGuard(decision string) {
	c.guard.WithLabelValues(decision).Inc()
}

// InstrumentVerifier wraps v so every verification is counted.
func (c *Collector) InstrumentVerifier(v httpx.TokenVerifier) httpx.TokenVerifier {
	return &instrumentedVerifier{next: v, c: c}
}

type instrumentedVerifier struct {
	next httpx.TokenVerifier
	c    *Collector
}

func (v *instrumentedVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	username, err := v.next.VerifyToken(ctx, token)
	v.c.RecordRelay(relayOutcome(err))
	return username, err
}

func relayOutcome(err error) string {
	switch {
	case err == nil:
		return RelayOK
	case authsdk.IsUnavailable(err):
		return RelayUnavailable
	case errors.Is(err, authsdk.ErrTokenExpired):
		return RelayExpired
	default:
		return RelayRejected
	}
}

type statusRecorder struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}
