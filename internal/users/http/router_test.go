package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/internal/users/service"
	"github.com/aussiebroadwan/shopgate/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/shopgate/pkg/cryptox"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.FileDSN(filepath.Join(t.TempDir(), "users.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter("test", st, logger, metrics.NewCollector("users"))
	r.UserService = service.NewUserService(st, cryptox.NewPasswordHasher(""))
	r.ApplyRoutes()
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"created", `{"username":" Alice","password":"secret1"}`, http.StatusCreated, ""},
		{"conflict", `{"username":"alice","password":"other"}`, http.StatusConflict, "user_exists"},
		{"blank username", `{"username":"  ","password":"x"}`, http.StatusBadRequest, "invalid_request"},
		{"missing password", `{"username":"bob"}`, http.StatusBadRequest, "invalid_request"},
		{"empty password", `{"username":"bob","password":""}`, http.StatusBadRequest, "invalid_request"},
		{"not json", `nope`, http.StatusBadRequest, "invalid_request"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, out := do(t, r, http.MethodPost, "/users", tc.body)
			require.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
			if tc.wantErr != "" {
				require.Equal(t, tc.wantErr, out["error"])
				return
			}
			require.Equal(t, "alice", out["username"])
		})
	}
}

func TestWhitespacePasswordIsAPassword(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	rec, out := do(t, r, http.MethodPost, "/users", `{"username":"carol","password":"   "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "carol", out["username"])

	_, out = do(t, r, http.MethodPost, "/users/verify", `{"username":"carol","password":"   "}`)
	require.Equal(t, true, out["valid"])

	_, out = do(t, r, http.MethodPost, "/users/verify", `{"username":"carol","password":"  "}`)
	require.Equal(t, false, out["valid"])
}

func TestVerifyEndpoint(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	rec, _ := do(t, r, http.MethodPost, "/users", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantValid bool
	}{
		{"valid", `{"username":"ALICE","password":"secret1"}`, http.StatusOK, true},
		{"wrong password", `{"username":"alice","password":"nope"}`, http.StatusOK, false},
		{"unknown user", `{"username":"zed","password":"secret1"}`, http.StatusOK, false},
		{"missing fields", `{}`, http.StatusBadRequest, false},
		{"wrong type", `{"username":1,"password":"x"}`, http.StatusBadRequest, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, out := do(t, r, http.MethodPost, "/users/verify", tc.body)
			require.Equal(t, tc.wantCode, rec.Code)
			require.Equal(t, tc.wantValid, out["valid"])
		})
	}
}

func TestLookupEndpoint(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	rec, _ := do(t, r, http.MethodPost, "/users", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, out := do(t, r, http.MethodGet, "/users/Alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", out["username"])
	require.NotEmpty(t, out["id"])

	rec, out = do(t, r, http.MethodGet, "/users/nobody", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", out["error"])
}

func TestSystemRoutes(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	rec, out := do(t, r, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", out["status"])

	rec, _ = do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `route="GET /readyz"`)
}
