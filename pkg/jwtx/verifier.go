package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Every failure other than ErrExpired also matches ErrInvalid, so callers can
// tell "log in again" apart from "reject outright" with one errors.Is.
var (
	ErrInvalid = errors.New("jwtx: token invalid")
	ErrExpired = errors.New("jwtx: token expired")

	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrAlgMismatch  = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// HS256Verifier checks the signature first and the time-based claims second.
type HS256Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// VerifierOption customises an HS256Verifier.
type VerifierOption func(*HS256Verifier)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *HS256Verifier) { v.now = now }
}

// NewHS256Verifier returns a verifier for tokens signed with secret. An empty
// issuer disables the iss check.
func NewHS256Verifier(secret, issuer string, opts ...VerifierOption) (*HS256Verifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	v := &HS256Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify validates the token and returns its claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	// Claims validation is ours so exp is only looked at once the signature
	// is known to be good.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, invalid(mapParseError(err))
	}
	if !token.Valid {
		return Claims{}, invalid(ErrInvalidSig)
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return Claims{}, invalid(ErrInvalidClaim)
	}
	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, invalid(err)
	}
	if err := claims.ValidateExpiryAt(v.now().UTC()); err != nil {
		if errors.Is(err, ErrExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, invalid(err)
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}
