package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/shopgate/internal/gateway/domain"
	"github.com/aussiebroadwan/shopgate/internal/gateway/service"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

// CookieName is the session cookie set at login.
const CookieName = "shopgate_session"

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

type sessionKey struct{}

func sessionFromContext(ctx context.Context) domain.Session {
	s, _ := ctx.Value(sessionKey{}).(domain.Session)
	return s
}

func (c CookieConfig) set(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionID(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// writeLoginRequired clears the cookie and points the browser at /login.
func (c CookieConfig) writeLoginRequired(w http.ResponseWriter) {
	c.clear(w)
	w.Header().Set("Location", "/login")
	authsdk.ErrLoginRequired.WriteError(w)
}

// RequireSession resolves the session cookie, re-verifying its token with the
// issuer, and stores the session in the request context.
func RequireSession(svc *service.GatewayService, cookies CookieConfig) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sess, err := svc.Resolve(ctx, sessionID(r))
			switch {
			case err == nil:
			case errors.Is(err, service.ErrLoginRequired):
				cookies.writeLoginRequired(w)
				return
			case errors.Is(err, service.ErrUpstreamUnavailable):
				authsdk.ErrUpstreamUnavailable.WriteError(w)
				return
			default:
				slogx.FromContext(ctx).Error("failed to resolve session", "error", err)
				authsdk.ErrServerError.WriteError(w)
				return
			}

			ctx = httpx.WithUsername(ctx, sess.Username)
			ctx = context.WithValue(ctx, sessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
