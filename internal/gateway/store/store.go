package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/shopgate/internal/gateway/domain"
)

var ErrNotFound = errors.New("store: session not found")

// Sessions is the gateway session store.
type Sessions interface {
	Save(ctx context.Context, s domain.Session) error

	// Get returns ErrNotFound for unknown and expired sessions.
	Get(ctx context.Context, id string) (domain.Session, error)

	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}
