package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/shopgate/internal/orders/service"
	"github.com/aussiebroadwan/shopgate/internal/orders/store/drivers/sqlite"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
)

// tokens maps a bearer token to the user it was issued for.
type tokens map[string]string

func (tk tokens) VerifyToken(_ context.Context, token string) (string, error) {
	if u, ok := tk[token]; ok {
		return u, nil
	}
	return "", authsdk.ErrTokenInvalid
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.FileDSN(filepath.Join(t.TempDir(), "orders.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	verifier := tokens{"tok-alice": "alice", "tok-bob": "bob"}
	r := NewRouter(verifier, "test", st, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.NewCollector("orders"))
	r.OrderService = service.NewOrderService(st)
	r.ApplyRoutes()
	return r
}

func call(t *testing.T, h http.Handler, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func TestArticles(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	code, out := call(t, r, http.MethodGet, "/orders/articles", "tok-alice", "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, out["articles"], 3)

	code, out = call(t, r, http.MethodGet, "/orders/articles", "", "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "invalid_token", out["error"])

	code, _ = call(t, r, http.MethodGet, "/orders/articles", "forged", "")
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestBuy(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	tests := []struct {
		name     string
		path     string
		token    string
		body     string
		wantCode int
		wantErr  string
	}{
		{"ok", "/orders/alice/buy", "tok-alice", `{"article_id":2}`, http.StatusCreated, ""},
		{"other user", "/orders/alice/buy", "tok-bob", `{"article_id":2}`, http.StatusForbidden, "forbidden"},
		{"no token", "/orders/alice/buy", "", `{"article_id":2}`, http.StatusUnauthorized, "invalid_token"},
		{"not an int", "/orders/alice/buy", "tok-alice", `{"article_id":"two"}`, http.StatusBadRequest, "invalid_request"},
		{"missing", "/orders/alice/buy", "tok-alice", `{}`, http.StatusBadRequest, "invalid_request"},
		{"unknown article", "/orders/alice/buy", "tok-alice", `{"article_id":99}`, http.StatusNotFound, "not_found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, out := call(t, r, http.MethodPost, tc.path, tc.token, tc.body)
			require.Equal(t, tc.wantCode, code)
			if tc.wantErr != "" {
				require.Equal(t, tc.wantErr, out["error"])
				return
			}
			require.Equal(t, "alice", out["user"])
			require.Equal(t, "Article 2", out["article"].(map[string]any)["name"])
		})
	}

	code, out := call(t, r, http.MethodGet, "/orders/alice/purchases", "tok-alice", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{"Article 2"}, out["purchases"])

	code, _ = call(t, r, http.MethodGet, "/orders/alice/purchases", "tok-bob", "")
	require.Equal(t, http.StatusForbidden, code)
}

func TestRelayOutcomesAreCounted(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	call(t, r, http.MethodGet, "/orders/articles", "tok-alice", "")
	call(t, r, http.MethodGet, "/orders/articles", "forged", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	body := rec.Body.String()
	require.Contains(t, body, `shopgate_relay_verifications_total{outcome="ok",service="orders"} 1`)
	require.Contains(t, body, `shopgate_relay_verifications_total{outcome="rejected",service="orders"} 1`)
}
