// Package store defines the resource role's state: the catalog and orders
// kept in a database, and the process-scoped token set and security log.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/domain"
)

// ErrNoItems is returned by PlaceOrder when no line names a known product.
var ErrNoItems = errors.New("order has no known products")

type Store interface {
	Products() Products
	Orders() Orders

	ApplyMigrations() error
	Close() error
	Ping(ctx context.Context) error
}

type Products interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (int64, error)

	// SeedProducts inserts products only if the catalog is empty and
	// reports how many were inserted.
	SeedProducts(ctx context.Context, products []domain.Product) (int, error)
}

type Orders interface {
	// PlaceOrder records an order at the current catalog prices. Lines for
	// unknown products are skipped; if none remain nothing is written and
	// ErrNoItems is returned.
	PlaceOrder(ctx context.Context, username string, lines []domain.OrderLine, at time.Time) (domain.Order, error)

	// ListOrders returns the user's orders, newest first.
	ListOrders(ctx context.Context, username string) ([]domain.Order, error)
}

// Tokens is the set of opaque tokens registered by the authorization role.
// It starts empty and lives as long as the process.
type Tokens interface {
	Add(token string)
	Contains(token string) bool
	Len() int
}

// SecurityLog is an append-only record of guard and catalog events.
type SecurityLog interface {
	Append(ctx context.Context, event string, details map[string]any) domain.SecurityEvent

	// Events returns a snapshot in append order.
	Events() []domain.SecurityEvent
}
