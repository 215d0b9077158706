package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/shopgate/internal/auth/domain"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/jwtx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

var (
	ErrInvalidRequest      = errors.New("invalid_request")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrUpstreamUnavailable = errors.New("upstream_unavailable")
	ErrTokenExpired        = errors.New("token_expired")
	ErrTokenInvalid        = errors.New("token_invalid")
)

// CredentialChecker asks the credential store whether a password matches.
// *authsdk.SDKClient implements it.
type CredentialChecker interface {
	VerifyCredentials(ctx context.Context, username, password string) (bool, error)
}

// TokenService is the only holder of the signing secret.
type TokenService struct {
	Signer      jwtx.Signer
	Verifier    jwtx.Verifier
	Credentials CredentialChecker
	Issuer      string
	AccessTTL   time.Duration
	Now         func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue signs a new token for username.
func (s *TokenService) Issue(username string) (domain.IssuedToken, error) {
	now := s.now().UTC()
	claims := jwtx.NewAccessClaims(username, s.Issuer, s.AccessTTL, now)

	signed, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	return domain.IssuedToken{
		AccessToken: signed,
		Username:    username,
		ExpiresAt:   claims.ExpiresAt.Time,
		TTL:         claims.ExpiresAt.Sub(claims.IssuedAt.Time),
	}, nil
}

// Verify returns the subject of a valid token. Expiry is reported as
// ErrTokenExpired; every other failure is ErrTokenInvalid.
func (s *TokenService) Verify(token string) (string, error) {
	claims, err := s.Verifier.Verify(token)
	switch {
	case err == nil:
		return claims.Subject, nil
	case errors.Is(err, jwtx.ErrExpired):
		return "", ErrTokenExpired
	default:
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
}

// Login checks the credentials with the credential store and issues a
// token. A wrong password and an unknown user are the same error.
func (s *TokenService) Login(ctx context.Context, username, password string) (domain.IssuedToken, error) {
	log := slogx.FromContext(ctx)

	username = httpx.NormalizeUsername(username)
	if username == "" || password == "" {
		return domain.IssuedToken{}, ErrInvalidRequest
	}

	valid, err := s.Credentials.VerifyCredentials(ctx, username, password)
	switch {
	case err == nil:
	case authsdk.IsUnavailable(err):
		log.Warn("credential store unavailable", "error", err)
		return domain.IssuedToken{}, ErrUpstreamUnavailable
	case authsdk.StatusOf(err) == http.StatusBadRequest:
		return domain.IssuedToken{}, ErrInvalidRequest
	default:
		// Any other answer is not a yes.
		log.Warn("credential store rejected verification", "error", err)
		return domain.IssuedToken{}, ErrUpstreamUnavailable
	}

	if !valid {
		log.Info("login failed", "username", username)
		return domain.IssuedToken{}, ErrInvalidCredentials
	}

	return s.Issue(username)
}
