// Package security holds the resource role's valid-token set and its
// append-only security log.
package security

import (
	"sync"

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/store"
)

var _ store.Tokens = (*TokenSet)(nil)

// TokenSet is the set of opaque tokens the authorization role registered.
// Membership is the only thing that makes a token valid.
type TokenSet struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewTokenSet() *TokenSet {
	return &TokenSet{tokens: make(map[string]struct{})}
}

// Add registers token. Adding a token twice is a no-op.
func (s *TokenSet) Add(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
}

func (s *TokenSet) Contains(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

func (s *TokenSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
