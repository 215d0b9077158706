package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/domain"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(FileDSN(filepath.Join(t.TempDir(), "resource.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestProducts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	seed := []domain.Product{
		{Name: "Keyboard", Price: decimal.RequireFromString("89.00")},
		{Name: "Monitor", Price: decimal.RequireFromString("249.99"), Description: "27 inch"},
	}
	n, err := st.Products().SeedProducts(ctx, seed)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Seeding a non-empty catalog is a no-op.
	n, err = st.Products().SeedProducts(ctx, seed)
	require.NoError(t, err)
	require.Zero(t, n)

	id, err := st.Products().CreateProduct(ctx, domain.Product{Name: "Mouse", Price: decimal.RequireFromString("19.5")})
	require.NoError(t, err)
	require.Equal(t, int64(3), id)

	products, err := st.Products().ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	require.Equal(t, "Monitor", products[1].Name)
	require.Equal(t, "27 inch", products[1].Description)
	require.True(t, products[1].Price.Equal(decimal.RequireFromString("249.99")))
	require.True(t, products[2].Price.Equal(decimal.RequireFromString("19.50")))
}

func TestOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Products().SeedProducts(ctx, []domain.Product{
		{Name: "Book", Price: decimal.RequireFromString("29.90")},
		{Name: "Monitor", Price: decimal.RequireFromString("249.99")},
	})
	require.NoError(t, err)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err = st.Orders().PlaceOrder(ctx, "victor", []domain.OrderLine{{ProductID: 99, Quantity: 1}}, now)
	require.ErrorIs(t, err, store.ErrNoItems)

	first, err := st.Orders().PlaceOrder(ctx, "victor", []domain.OrderLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 99, Quantity: 1},
		{ProductID: 2, Quantity: 1},
	}, now)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.True(t, first.Total().Equal(decimal.RequireFromString("309.79")))

	second, err := st.Orders().PlaceOrder(ctx, "victor", []domain.OrderLine{{ProductID: 2, Quantity: 1}}, now.Add(time.Minute))
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)

	orders, err := st.Orders().ListOrders(ctx, "victor")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, second.ID, orders[0].ID, "newest first")
	require.True(t, orders[1].Total().Equal(decimal.RequireFromString("309.79")))
	require.True(t, orders[1].CreatedAt.Equal(now))

	none, err := st.Orders().ListOrders(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, none)
}
