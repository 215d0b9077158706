package store

import (
	"context"

	"github.com/aussiebroadwan/shopgate/internal/orders/domain"
)

// Store is the purchase store of the orders service.
type Store interface {
	Purchases() Purchases

	ApplyMigrations() error
	Close() error
	Ping(ctx context.Context) error
}

type Purchases interface {
	AddPurchase(ctx context.Context, p domain.Purchase) error

	// ListPurchases returns the user's purchases, oldest first.
	ListPurchases(ctx context.Context, username string) ([]domain.Purchase, error)
}
