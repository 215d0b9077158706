package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/security"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/service"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

// RequireRegisteredToken admits requests whose bearer token is in the valid
// set. Every decision lands in the security log and the guard metric.
func RequireRegisteredToken(svc *service.ResourceService, collector *metrics.Collector) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := svc.Guard(ctx, r.URL.Path, r.Header.Get("Authorization"))
			if err != nil {
				apiErr := guardError(err)
				collector.RecordGuard(apiErr.Code)
				slogx.FromContext(ctx).Info("request rejected by guard", "route", r.URL.Path, "error", apiErr.Code)
				w.Header().Set("WWW-Authenticate", `Bearer realm="pkce-resource"`)
				apiErr.WriteError(w)
				return
			}

			collector.RecordGuard(security.EventTokenOK)
			next.ServeHTTP(w, r.WithContext(httpx.WithToken(ctx, token)))
		})
	}
}

func guardError(err error) *authsdk.Error {
	switch {
	case errors.Is(err, service.ErrMissingToken):
		return authsdk.ErrMissingToken
	case errors.Is(err, service.ErrInvalidFormat):
		return authsdk.ErrInvalidFormat
	default:
		return authsdk.ErrUnregisteredToken
	}
}
