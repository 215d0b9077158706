package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/shopgate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key"
	testIssuer = "shopgate-auth"
)

func newPair(t *testing.T, now func() time.Time) (*jwtx.HS256Signer, *jwtx.HS256Verifier) {
	t.Helper()

	signer, err := jwtx.NewHS256Signer(testSecret)
	require.NoError(t, err)

	verifier, err := jwtx.NewHS256Verifier(testSecret, testIssuer, jwtx.WithClock(now))
	require.NoError(t, err)

	return signer, verifier
}

func TestHS256_RoundTrip(t *testing.T) {
	now := time.Now().UTC()
	signer, verifier := newPair(t, func() time.Time { return now })
	require.Equal(t, "HS256", signer.Alg())

	token, err := signer.Sign(jwtx.NewAccessClaims("alice", testIssuer, time.Minute, now))
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
}

func TestHS256_ExpiredIsNotInvalid(t *testing.T) {
	issued := time.Now().UTC()
	clock := issued
	signer, verifier := newPair(t, func() time.Time { return clock })

	token, err := signer.Sign(jwtx.NewAccessClaims("alice", testIssuer, time.Minute, issued))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.NoError(t, err)

	clock = issued.Add(time.Minute + time.Second)
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
	require.NotErrorIs(t, err, jwtx.ErrInvalid)
}

func TestHS256_Invalid(t *testing.T) {
	now := time.Now().UTC()
	signer, verifier := newPair(t, func() time.Time { return now })

	good, err := signer.Sign(jwtx.NewAccessClaims("alice", testIssuer, time.Minute, now))
	require.NoError(t, err)
	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)

	otherSigner, err := jwtx.NewHS256Signer("some-other-secret")
	require.NoError(t, err)
	foreign, err := otherSigner.Sign(jwtx.NewAccessClaims("alice", testIssuer, time.Minute, now))
	require.NoError(t, err)

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384,
		jwtx.NewAccessClaims("alice", testIssuer, time.Minute, now)).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSubject, err := signer.Sign(jwtx.NewAccessClaims("", testIssuer, time.Minute, now))
	require.NoError(t, err)

	wrongIssuer, err := signer.Sign(jwtx.NewAccessClaims("alice", "someone-else", time.Minute, now))
	require.NoError(t, err)

	expiredForged, err := otherSigner.Sign(jwtx.NewAccessClaims("alice", testIssuer, time.Minute, now.Add(-time.Hour)))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"payload byte flipped", parts[0] + "." + flipByte(parts[1], len(parts[1])/2) + "." + parts[2]},
		{"signature byte flipped", parts[0] + "." + parts[1] + "." + flipByte(parts[2], 0)},
		{"signed with another secret", foreign},
		{"wrong algorithm", hs384},
		{"missing subject", noSubject},
		{"wrong issuer", wrongIssuer},
		{"expired and forged", expiredForged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.Verify(tt.token)
			require.ErrorIs(t, err, jwtx.ErrInvalid)
			require.NotErrorIs(t, err, jwtx.ErrExpired)
			require.Empty(t, claims.Subject)
		})
	}
}

func TestHS256_EmptySecret(t *testing.T) {
	_, err := jwtx.NewHS256Signer("")
	require.ErrorIs(t, err, jwtx.ErrEmptySecret)

	_, err = jwtx.NewHS256Verifier("", testIssuer)
	require.ErrorIs(t, err, jwtx.ErrEmptySecret)
}

func flipByte(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
