package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type credentials struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type purchase struct {
	ArticleID *int `json:"article_id" validate:"required"`
}

func TestBind(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   string
		wantField string
	}{
		{"valid", `{"username":"alice","password":"secret1"}`, "", ""},
		{"empty body", ``, "request body is empty", ""},
		{"not json", `username=alice`, "request body is not valid JSON", ""},
		{"missing password", `{"username":"alice"}`, "request validation failed", "password"},
		{"blank username", `{"username":"   ","password":"x"}`, "request validation failed", "username"},
		{"wrong type", `{"username":42,"password":"x"}`, `invalid type for field "username"`, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			got, err := httpx.Bind[credentials](req)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.Equal(t, "alice", got.Username)
				return
			}

			var be *httpx.BindError
			require.ErrorAs(t, err, &be)
			require.Equal(t, tt.wantErr, be.Description)
			if tt.wantField != "" {
				require.Contains(t, be.Fields, tt.wantField)
			}
		})
	}
}

func TestBind_NonIntegerArticle(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"article_id":"one"}`))
	_, err := httpx.Bind[purchase](req)
	require.Error(t, err)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"article_id":0}`))
	got, err := httpx.Bind[purchase](req)
	require.NoError(t, err)
	require.Equal(t, 0, *got.ArticleID)
}

func TestBindAndValidate_WritesBadRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"alice"}`))
	rec := httptest.NewRecorder()

	_, ok := httpx.BindAndValidate[credentials](rec, req, "invalid_request")
	require.False(t, ok)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "invalid_request", body.Error)
	require.Equal(t, "this field is required", body.Fields["password"])
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner"}, order)
}
