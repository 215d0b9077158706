package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/shopgate/internal/users/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for the credential store.
// Concrete drivers (sqlite, postgres) implement it.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. It commits when fn returns nil
	// and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a user. A taken username returns ErrAlreadyExists;
	// the unique constraint decides, so concurrent registrations of the same
	// name cannot both succeed.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByUsername expects an already normalized username.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}
