package httpx

import "context"

type ctxKey string

const (
	CtxKeyUsername ctxKey = "username"
	CtxKeyToken    ctxKey = "bearer_token"
)

// WithUsername stores the verified username for downstream handlers.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, CtxKeyUsername, username)
}

// UsernameFromContext returns the username put there by RelayAuthn.
func UsernameFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(CtxKeyUsername).(string)
	return u, ok && u != ""
}

// WithToken stores the raw bearer token that was verified.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CtxKeyToken, token)
}

// TokenFromContext returns the bearer token put there by RelayAuthn.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(CtxKeyToken).(string)
	return t, ok && t != ""
}
