// Package memory keeps pending authorization codes in process memory. The
// map is empty at startup and lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/domain"
	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/store"
)

type Codes struct {
	mu    sync.Mutex
	codes map[string]domain.AuthorizationCode
}

func New() *Codes {
	return &Codes{codes: make(map[string]domain.AuthorizationCode)}
}

func (c *Codes) Put(_ context.Context, code domain.AuthorizationCode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.codes[code.Code] = code
	return nil
}

func (c *Codes) Claim(_ context.Context, code string, match func(string) bool) (domain.AuthorizationCode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.codes[code]
	if !ok {
		return domain.AuthorizationCode{}, store.ErrNotFound
	}
	if !match(entry.CodeChallenge) {
		return domain.AuthorizationCode{}, store.ErrMismatch
	}
	delete(c.codes, code)
	return entry, nil
}

func (c *Codes) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.codes)
}
