package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

// TokenVerifier resolves a bearer token to the username it was issued for.
// Implementations call the token issuer; they never decode tokens locally.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// RelayAuthn rejects requests without a valid bearer token and injects the
// verified username into the request context. Any verifier error, including
// the issuer being unreachable, is a 401.
func RelayAuthn(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token, err := ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				desc := "token missing"
				if errors.Is(err, ErrMalformedBearer) {
					desc = "malformed authorization header"
				}
				writeBearerError(w, desc)
				return
			}

			username, err := v.VerifyToken(ctx, token)
			if err != nil {
				log.Info("token relay verification failed", "err", err)
				writeBearerError(w, "token invalid")
				return
			}

			ctx = WithUsername(ctx, username)
			ctx = WithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePathUser rejects with 403 when the {param} path value does not match
// the verified username. It must run after RelayAuthn.
func RequirePathUser(param string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verified, ok := UsernameFromContext(r.Context())
			if !ok {
				writeBearerError(w, "token missing")
				return
			}

			if NormalizeUsername(r.PathValue(param)) != verified {
				WriteError(w, http.StatusForbidden, "forbidden", "access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
