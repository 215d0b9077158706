package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/shopgate/internal/users/domain"
	"github.com/aussiebroadwan/shopgate/internal/users/store"
	"github.com/aussiebroadwan/shopgate/pkg/cryptox"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/idx"
)

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrUserExists     = errors.New("user_exists")
	ErrNotFound       = errors.New("not_found")
)

// DemoUsers are inserted by SeedDemoUsers into an empty store.
var DemoUsers = []struct{ Username, Password string }{
	{"victor", "1234"},
	{"kilian", "abcd"},
	{"baptiste", "pass"},
}

type UserService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Now    func() time.Time

	dummyHash func() string
}

// NewUserService wires a service over st. hasher carries the pepper.
func NewUserService(st store.Store, hasher *cryptox.PasswordHasher) *UserService {
	return &UserService{
		Store:  st,
		Hasher: hasher,
		Now:    time.Now,
		dummyHash: sync.OnceValue(func() string {
			h, _ := hasher.Hash("shopgate-timing-equaliser")
			return h
		}),
	}
}

// Register stores a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = httpx.NormalizeUsername(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidRequest
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.Now()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now.UTC(),
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Verify reports whether password matches the stored hash for username. An
// unknown user is false with a nil error. Unknown users still pay for one
// hash verification so they cannot be told apart by response time.
func (s *UserService) Verify(ctx context.Context, username, password string) (bool, error) {
	username = httpx.NormalizeUsername(username)
	if username == "" || password == "" {
		return false, ErrInvalidRequest
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		_ = s.Hasher.Verify(s.dummyHash(), password)
		return false, nil
	case err != nil:
		return false, fmt.Errorf("get user: %w", err)
	}

	switch err := s.Hasher.Verify(u.PasswordHash, password); {
	case err == nil:
		return true, nil
	case errors.Is(err, cryptox.ErrPasswordMismatch):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}

// Lookup returns the user with the given username.
func (s *UserService) Lookup(ctx context.Context, username string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, httpx.NormalizeUsername(username))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}

// SeedDemoUsers inserts DemoUsers when the store has no users. It returns
// how many were created.
func (s *UserService) SeedDemoUsers(ctx context.Context) (int, error) {
	created := 0
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil || !empty {
			return err
		}

		for _, demo := range DemoUsers {
			hash, err := s.Hasher.Hash(demo.Password)
			if err != nil {
				return err
			}
			now := s.Now()
			if err := tx.Users().CreateUser(ctx, domain.User{
				ID:           idx.NewAt(now).String(),
				Username:     demo.Username,
				PasswordHash: hash,
				CreatedAt:    now.UTC(),
			}); err != nil {
				return fmt.Errorf("seed %s: %w", demo.Username, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
