package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/jwtx"
)

const testSecret = "test-secret"

type fakeCredentials struct {
	valid map[string]string
	err   error
	calls []string
}

func (f *fakeCredentials) VerifyCredentials(_ context.Context, username, password string) (bool, error) {
	f.calls = append(f.calls, username)
	if f.err != nil {
		return false, f.err
	}
	pw, ok := f.valid[username]
	return ok && pw == password, nil
}

func newTestService(t *testing.T, now time.Time, creds CredentialChecker) *TokenService {
	t.Helper()

	signer, err := jwtx.NewHS256Signer(testSecret)
	require.NoError(t, err)

	clock := func() time.Time { return now }
	verifier, err := jwtx.NewHS256Verifier(testSecret, "shopgate-auth", jwtx.WithClock(clock))
	require.NoError(t, err)

	return &TokenService{
		Signer:      signer,
		Verifier:    verifier,
		Credentials: creds,
		Issuer:      "shopgate-auth",
		AccessTTL:   30 * time.Minute,
		Now:         clock,
	}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()
	now := time.Now()
	svc := newTestService(t, now, nil)

	tok, err := svc.Issue("alice")
	require.NoError(t, err)
	require.Equal(t, "alice", tok.Username)
	require.Equal(t, 30*time.Minute, tok.TTL)

	username, err := svc.Verify(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", username)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()
	issuedAt := time.Now().Add(-31 * time.Minute)

	tok, err := newTestService(t, issuedAt, nil).Issue("alice")
	require.NoError(t, err)

	_, err = newTestService(t, time.Now(), nil).Verify(tok.AccessToken)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyInvalid(t *testing.T) {
	t.Parallel()
	now := time.Now()
	svc := newTestService(t, now, nil)

	tok, err := svc.Issue("alice")
	require.NoError(t, err)

	otherSigner, err := jwtx.NewHS256Signer("another-secret")
	require.NoError(t, err)
	foreign, err := otherSigner.Sign(jwtx.NewAccessClaims("alice", "shopgate-auth", time.Minute, now))
	require.NoError(t, err)

	parts := strings.Split(tok.AccessToken, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := strings.Join([]string{parts[0], parts[1], string(sig)}, ".")

	tests := map[string]string{
		"garbage":      "not-a-jwt",
		"empty":        "",
		"tampered":     tampered,
		"wrong secret": foreign,
		"two segments": parts[0] + "." + parts[1],
		"alg none":     "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." + parts[1] + ".",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			require.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	now := time.Now()

	t.Run("success normalizes username", func(t *testing.T) {
		creds := &fakeCredentials{valid: map[string]string{"alice": "secret1"}}
		svc := newTestService(t, now, creds)

		tok, err := svc.Login(context.Background(), " Alice ", "secret1")
		require.NoError(t, err)
		require.Equal(t, "alice", tok.Username)
		require.Equal(t, []string{"alice"}, creds.calls)

		username, err := svc.Verify(tok.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "alice", username)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		creds := &fakeCredentials{valid: map[string]string{"alice": "secret1"}}
		svc := newTestService(t, now, creds)

		_, errWrong := svc.Login(context.Background(), "alice", "nope")
		_, errUnknown := svc.Login(context.Background(), "mallory", "secret1")
		require.ErrorIs(t, errWrong, ErrInvalidCredentials)
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	})

	t.Run("blank input never reaches the store", func(t *testing.T) {
		creds := &fakeCredentials{}
		svc := newTestService(t, now, creds)

		_, err := svc.Login(context.Background(), "  ", "x")
		require.ErrorIs(t, err, ErrInvalidRequest)
		require.Empty(t, creds.calls)
	})

	t.Run("store unreachable", func(t *testing.T) {
		creds := &fakeCredentials{err: fmt.Errorf("%w: dial tcp: refused", authsdk.ErrUnavailable)}
		svc := newTestService(t, now, creds)

		_, err := svc.Login(context.Background(), "alice", "secret1")
		require.ErrorIs(t, err, ErrUpstreamUnavailable)
	})

	t.Run("store server error is not success", func(t *testing.T) {
		creds := &fakeCredentials{err: authsdk.ErrServerError}
		svc := newTestService(t, now, creds)

		_, err := svc.Login(context.Background(), "alice", "secret1")
		require.ErrorIs(t, err, ErrUpstreamUnavailable)
	})
}
