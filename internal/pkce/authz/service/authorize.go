// Package service implements the authorization leg of the proof-of-possession
// exchange: codes bound to S256 challenges, redeemed once for opaque tokens.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/domain"
	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/store"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/cryptox"
)

var (
	ErrMissingCodeChallenge     = errors.New("missing_code_challenge")
	ErrMissingParameters        = errors.New("missing_parameters")
	ErrInvalidAuthorizationCode = errors.New("invalid_authorization_code")
	ErrInvalidCodeVerifier      = errors.New("invalid_code_verifier")
)

// Registrar announces a freshly minted token to the resource role.
type Registrar interface {
	RegisterToken(ctx context.Context, token string) (authsdk.ResourceRegister, error)
}

// Exchange is the result of a successful code redemption.
type Exchange struct {
	AccessToken  string
	Registration authsdk.ResourceRegister
}

type AuthorizeService struct {
	Codes store.Codes

	// Registrar may be nil, in which case registration is reported as
	// not_called.
	Registrar Registrar
	Logger    *slog.Logger
	Now       func() time.Time
}

func NewAuthorizeService(codes store.Codes, registrar Registrar, logger *slog.Logger) *AuthorizeService {
	return &AuthorizeService{Codes: codes, Registrar: registrar, Logger: logger, Now: time.Now}
}

// Authorize stores challenge under a new 128-bit code and returns the code.
func (s *AuthorizeService) Authorize(ctx context.Context, challenge string) (string, error) {
	challenge = strings.TrimSpace(challenge)
	if challenge == "" {
		return "", ErrMissingCodeChallenge
	}

	code, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}
	if err := s.Codes.Put(ctx, domain.AuthorizationCode{
		Code:          code,
		CodeChallenge: challenge,
		CreatedAt:     s.Now().UTC(),
	}); err != nil {
		return "", fmt.Errorf("store authorization code: %w", err)
	}
	return code, nil
}

// Exchange redeems code with verifier. A verifier that does not match leaves
// the code pending; a matching one consumes it, so a second redemption gets
// ErrInvalidAuthorizationCode. Registration with the resource role is best
// effort and never fails the exchange.
func (s *AuthorizeService) Exchange(ctx context.Context, code, verifier string) (Exchange, error) {
	if code == "" || verifier == "" {
		return Exchange{}, ErrMissingParameters
	}

	_, err := s.Codes.Claim(ctx, code, func(challenge string) bool {
		return cryptox.VerifyS256(challenge, verifier)
	})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		return Exchange{}, ErrInvalidAuthorizationCode
	case errors.Is(err, store.ErrMismatch):
		return Exchange{}, ErrInvalidCodeVerifier
	default:
		return Exchange{}, fmt.Errorf("claim authorization code: %w", err)
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return Exchange{}, err
	}

	return Exchange{AccessToken: token, Registration: s.register(ctx, token)}, nil
}

func (s *AuthorizeService) register(ctx context.Context, token string) authsdk.ResourceRegister {
	if s.Registrar == nil {
		return authsdk.ResourceRegister{Status: authsdk.RegisterNotCalled}
	}

	result, err := s.Registrar.RegisterToken(ctx, token)
	if err != nil && s.Logger != nil {
		s.Logger.WarnContext(ctx, "token registration failed", "error", err)
	}
	return result
}
