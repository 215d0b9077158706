// Package memory is the default in-process session store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/shopgate/internal/gateway/domain"
	"github.com/aussiebroadwan/shopgate/internal/gateway/store"
)

// sweepInterval bounds how often Save scans for expired sessions.
const sweepInterval = time.Minute

type Store struct {
	mu        sync.RWMutex
	sessions  map[string]domain.Session
	maxAge    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// New returns an empty store. Sessions older than maxAge are treated as
// absent; zero disables expiry.
func New(maxAge time.Duration) *Store {
	return &Store{
		sessions: make(map[string]domain.Session),
		maxAge:   maxAge,
		now:      time.Now,
	}
}

func (s *Store) Save(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	s.maybeSweepLocked()
	return nil
}

// maybeSweepLocked drops expired sessions that were never read again.
func (s *Store) maybeSweepLocked() {
	if s.maxAge <= 0 {
		return
	}
	now := s.now()
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now

	for id, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) >= s.maxAge {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) Get(_ context.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return domain.Session{}, store.ErrNotFound
	}
	if s.maxAge > 0 && s.now().Sub(sess.CreatedAt) >= s.maxAge {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return domain.Session{}, store.ErrNotFound
	}
	return sess, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
