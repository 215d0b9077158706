package authsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
	"github.com/stretchr/testify/require"
)

var _ httpx.TokenVerifier = (*SDKClient)(nil)

func newTestClient(t *testing.T, h http.HandlerFunc) *SDKClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewSDKClient(srv.URL + "/")
}

func TestNewSDKClient(t *testing.T) {
	t.Parallel()

	c := NewSDKClient("http://example.com/", WithTimeout(2*time.Second))
	require.Equal(t, "http://example.com", c.BaseURL)
	require.Equal(t, 2*time.Second, c.Timeout)
	require.Equal(t, 2*time.Second, c.HTTPClient.Timeout)
}

func TestVerifyToken(t *testing.T) {
	t.Parallel()

	t.Run("valid token returns username", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/verify", r.URL.Path)
			var req VerifyTokenRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "tok", req.Token)
			httpx.WriteJSON(w, http.StatusOK, VerifyTokenResponse{Username: "alice", Valid: true})
		})

		u, err := c.VerifyToken(context.Background(), "tok")
		require.NoError(t, err)
		require.Equal(t, "alice", u)
	})

	t.Run("expired is distinguishable", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			ErrTokenExpired.WriteError(w)
		})

		_, err := c.VerifyToken(context.Background(), "tok")
		require.ErrorIs(t, err, ErrTokenExpired)
		require.NotErrorIs(t, err, ErrTokenInvalid)
		require.True(t, HasCode(err, ErrorCodeInvalidToken))
	})

	t.Run("valid false is rejected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, http.StatusOK, VerifyTokenResponse{Username: "alice"})
		})

		_, err := c.VerifyToken(context.Background(), "tok")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage body is an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		})

		_, err := c.VerifyToken(context.Background(), "tok")
		require.Error(t, err)
	})

	t.Run("unreachable issuer", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		c := NewSDKClient(srv.URL)
		srv.Close()

		_, err := c.VerifyToken(context.Background(), "tok")
		require.ErrorIs(t, err, ErrUnavailable)
		require.True(t, IsUnavailable(err))
	})

	t.Run("slow issuer times out", func(t *testing.T) {
		block := make(chan struct{})
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-block:
			case <-r.Context().Done():
			}
		})
		defer close(block)
		c.Timeout = 50 * time.Millisecond

		_, err := c.VerifyToken(context.Background(), "tok")
		require.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestCallForwardsRequestID(t *testing.T) {
	t.Parallel()

	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(slogx.RequestIDHeader)
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	})

	ctx := slogx.WithRequestID(context.Background(), "req-42")
	_, err := c.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "req-42", got)
}

func TestCallForwardsClientIP(t *testing.T) {
	t.Parallel()

	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(slogx.ForwardedForHeader)
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	})

	_, err := c.GetLiveness(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = c.GetLiveness(slogx.WithClientIP(context.Background(), "203.0.113.9"))
	require.NoError(t, err)
	require.Equal(t, "203.0.113.9", got)
}

func TestUsersClient(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			ErrUserExists.WriteError(w)
		case "/users/verify":
			httpx.WriteJSON(w, http.StatusOK, VerifyCredentialsResponse{Valid: false})
		case "/users/alice":
			httpx.WriteJSON(w, http.StatusOK, User{ID: "id", Username: "alice"})
		default:
			ErrNotFound.WriteError(w)
		}
	})
	ctx := context.Background()

	_, err := c.RegisterUser(ctx, "alice", "pw")
	require.ErrorIs(t, err, ErrUserExists)
	require.Equal(t, http.StatusConflict, StatusOf(err))

	ok, err := c.VerifyCredentials(ctx, "alice", "pw")
	require.NoError(t, err)
	require.False(t, ok)

	u, err := c.GetUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	_, err = c.GetUser(ctx, "bob")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterToken(t *testing.T) {
	t.Parallel()

	t.Run("called even when resource rejects", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			ErrMissingAccessToken.WriteError(w)
		})

		res, err := c.RegisterToken(context.Background(), "")
		require.NoError(t, err)
		require.Equal(t, RegisterCalled, res.Status)
		require.Equal(t, http.StatusBadRequest, res.HTTPStatus)
		require.Contains(t, string(res.Response), ErrorCodeMissingAccessToken)
	})

	t.Run("failed when unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		c := NewSDKClient(srv.URL)
		srv.Close()

		res, err := c.RegisterToken(context.Background(), "tok")
		require.Error(t, err)
		require.Equal(t, RegisterFailed, res.Status)
		require.NotEmpty(t, res.Error)
		require.Zero(t, res.HTTPStatus)
	})
}

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	resp := &http.Response{StatusCode: http.StatusServiceUnavailable}
	err := parseErrorResponse(resp, []byte("bad gateway"))

	var e *Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, ErrorCodeUpstreamUnavailable, e.Code)
	require.True(t, IsUnavailable(err))

	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
}

func TestGeneratePKCEChallenge(t *testing.T) {
	t.Parallel()

	pkce, err := GeneratePKCEChallenge()
	require.NoError(t, err)
	require.Equal(t, "S256", pkce.Method)
	require.NotEmpty(t, pkce.Verifier)
	require.Equal(t, NewPKCEChallenge(pkce.Verifier).Challenge, pkce.Challenge)

	// RFC 7636 appendix B
	require.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		NewPKCEChallenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk").Challenge)
}
