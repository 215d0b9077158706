package http

import (
	"bytes"
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

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/security"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/service"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/store/drivers/sqlite"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	return newTestRouterWithLogger(t, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestRouterWithLogger(t *testing.T, logger *slog.Logger) *Router {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.FileDSN(filepath.Join(t.TempDir(), "resource.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	svc := service.NewResourceService(st, security.NewTokenSet(), security.NewLog(nil, logger), service.DefaultProfile())
	_, err = svc.SeedProducts(context.Background())
	require.NoError(t, err)

	r := NewRouter("test", st, logger, metrics.NewCollector("pkce-resource"))
	r.ResourceService = svc
	r.ApplyRoutes()
	return r
}

func do(t *testing.T, h http.Handler, method, path, auth, body string, out any) int {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestRegisterToken(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	var out map[string]any
	require.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/register-token", "", `{}`, &out))
	require.Equal(t, "missing_access_token", out["error"])

	require.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/register-token", "", `garbage`, &out))
	require.Equal(t, "missing_access_token", out["error"])

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/register-token", "", `{"access_token":"tok"}`, &out))
	require.Equal(t, "token registered", out["message"])
}

func TestRegisterTokenLogsUnreadableBody(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := newTestRouterWithLogger(t, slog.New(slog.NewTextHandler(&buf, nil)))

	require.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/register-token", "", `garbage`, nil))
	require.Contains(t, buf.String(), "register-token body rejected")
	require.Contains(t, buf.String(), "not valid JSON")
}

func TestProfileGuard(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/register-token", "", `{"access_token":"tok"}`, nil))

	tests := []struct {
		name string
		auth string
		code int
		err  string
	}{
		{"missing", "", http.StatusUnauthorized, "missing_token"},
		{"wrong scheme", "Token tok", http.StatusUnauthorized, "invalid_format"},
		{"unregistered", "Bearer other", http.StatusForbidden, "invalid_token"},
		{"registered", "Bearer tok", http.StatusOK, ""},
	}
	for _, tt := range tests {
		var out map[string]any
		require.Equal(t, tt.code, do(t, r, http.MethodGet, "/profile", tt.auth, "", &out), tt.name)
		if tt.err != "" {
			require.Equal(t, tt.err, out["error"], tt.name)
			continue
		}
		require.Equal(t, "victor", out["username"])
		require.Equal(t, "victor@example.com", out["email"])
		require.Equal(t, "student", out["role"])
		require.Equal(t, "Authenticated with PKCE demo", out["status"])
	}

	var events []map[string]any
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/security-log", "", "", &events))
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e["event"].(string))
	}
	require.Equal(t, []string{"register_token_ok", "missing_token", "invalid_format", "invalid_token", "token_ok"}, names)
	require.Equal(t, "/profile", events[1]["details"].(map[string]any)["route"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Contains(t, rec.Body.String(), `shopgate_resource_guard_decisions_total{decision="invalid_token",service="pkce-resource"} 1`)
	require.Contains(t, rec.Body.String(), `shopgate_resource_guard_decisions_total{decision="token_ok",service="pkce-resource"} 1`)
}

func TestProducts(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	var products []map[string]any
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/products", "", "", &products))
	require.Len(t, products, 3)
	require.Equal(t, "29.9", products[0]["price"])

	var out map[string]any
	require.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/products", "", `{"name":"Mouse"}`, &out))
	require.Equal(t, "name_and_price_required", out["error"])

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/products", "", `{"name":"Mouse","price":"19.99"}`, &out))
	require.EqualValues(t, 4, out["id"])

	// Numeric prices are accepted too.
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/products", "", `{"name":"Pad","price":5}`, &out))
	require.EqualValues(t, 5, out["id"])
}

func TestOrders(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/register-token", "", `{"access_token":"tok"}`, nil))

	var out map[string]any
	require.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodPost, "/orders", "", `{"items":[{"product_id":1}]}`, &out))

	require.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/orders", "Bearer tok", `{"items":[]}`, &out))
	require.Equal(t, "no_items", out["error"])

	require.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/orders", "Bearer tok", `{"items":[{"product_id":99,"quantity":1}]}`, &out))
	require.Equal(t, "no_items", out["error"])

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/orders", "Bearer tok",
		`{"items":[{"product_id":1,"quantity":2},{"product_id":3,"quantity":1}]}`, &out))
	first := out["order_id"]

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/orders", "Bearer tok",
		`{"items":[{"product_id":2}]}`, &out))
	second := out["order_id"]

	var orders []map[string]any
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/orders", "Bearer tok", "", &orders))
	require.Len(t, orders, 2)
	require.Equal(t, second, orders[0]["id"])
	require.Equal(t, first, orders[1]["id"])
	require.Equal(t, "89", orders[0]["total"])
	require.Equal(t, "309.79", orders[1]["total"])
	require.Equal(t, "victor", orders[1]["username"])
}
