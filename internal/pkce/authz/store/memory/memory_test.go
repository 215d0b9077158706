package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/domain"
	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/store"
)

func accept(string) bool { return true }

func TestClaim(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := New()
	require.NoError(t, c.Put(ctx, domain.AuthorizationCode{Code: "c1", CodeChallenge: "ch"}))
	require.Equal(t, 1, c.Len())

	_, err := c.Claim(ctx, "missing", accept)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = c.Claim(ctx, "c1", func(string) bool { return false })
	require.ErrorIs(t, err, store.ErrMismatch)
	require.Equal(t, 1, c.Len(), "a mismatch must not consume the code")

	var seen string
	got, err := c.Claim(ctx, "c1", func(ch string) bool { seen = ch; return true })
	require.NoError(t, err)
	require.Equal(t, "ch", seen)
	require.Equal(t, "c1", got.Code)
	require.Zero(t, c.Len())

	_, err = c.Claim(ctx, "c1", accept)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestClaimConcurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := New()
	require.NoError(t, c.Put(ctx, domain.AuthorizationCode{Code: "c1", CodeChallenge: "ch"}))

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Claim(ctx, "c1", accept); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
}
