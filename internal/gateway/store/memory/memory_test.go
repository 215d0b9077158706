package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/shopgate/internal/gateway/domain"
	"github.com/aussiebroadwan/shopgate/internal/gateway/store"
)

func TestSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(time.Hour)

	now := time.Now()
	s.now = func() time.Time { return now }

	sess := domain.Session{ID: "sid", Token: "tok", Username: "alice", CreatedAt: now}
	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	require.Equal(t, sess, got)

	_, err = s.Get(ctx, "other")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "sid"))
	require.NoError(t, s.Delete(ctx, "sid"))
	_, err = s.Get(ctx, "sid")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(time.Minute)

	now := time.Now()
	s.now = func() time.Time { return now.Add(time.Minute) }

	require.NoError(t, s.Save(ctx, domain.Session{ID: "sid", CreatedAt: now}))
	_, err := s.Get(ctx, "sid")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveSweepsAbandonedSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(time.Hour)

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, domain.Session{ID: "old-1", CreatedAt: now}))
	require.NoError(t, s.Save(ctx, domain.Session{ID: "old-2", CreatedAt: now}))

	now = now.Add(2 * time.Hour)
	require.NoError(t, s.Save(ctx, domain.Session{ID: "fresh", CreatedAt: now}))

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Len(t, s.sessions, 1)
	require.Contains(t, s.sessions, "fresh")
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(0)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = s.Save(ctx, domain.Session{ID: id})
			_, _ = s.Get(ctx, id)
			_ = s.Delete(ctx, id)
		}()
	}
	wg.Wait()
}
