// Package store holds pending authorization codes.
package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/domain"
)

var (
	ErrNotFound = errors.New("authorization code not found")
	ErrMismatch = errors.New("authorization code challenge mismatch")
)

// Codes is the pending-code map.
type Codes interface {
	Put(ctx context.Context, code domain.AuthorizationCode) error

	// Claim removes code if match accepts its challenge. A code whose
	// challenge is rejected stays pending and ErrMismatch is returned. Of
	// several concurrent claims on one code at most one succeeds.
	Claim(ctx context.Context, code string, match func(challenge string) bool) (domain.AuthorizationCode, error)

	Len() int
}
