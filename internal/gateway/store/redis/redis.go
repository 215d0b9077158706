// Package redis keeps gateway sessions in Redis so several gateway
// instances can share them.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/shopgate/internal/gateway/domain"
	"github.com/aussiebroadwan/shopgate/internal/gateway/store"
)

// KeyPrefix namespaces session keys.
const KeyPrefix = "shopgate:session:"

type Options struct {
	Addr     string
	Password string
	DB       int
}

type Store struct {
	client *goredis.Client
	maxAge time.Duration
}

// Connect creates a client and pings the server with a short timeout.
func Connect(ctx context.Context, opts Options, maxAge time.Duration) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	return New(client, maxAge), nil
}

// New wraps an existing client. Keys expire after maxAge.
func New(client *goredis.Client, maxAge time.Duration) *Store {
	return &Store{client: client, maxAge: maxAge}
}

func key(id string) string { return KeyPrefix + id }

func (s *Store) Save(ctx context.Context, sess domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(sess.ID), raw, s.maxAge).Err()
}

func (s *Store) Get(ctx context.Context, id string) (domain.Session, error) {
	raw, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Session{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, key(id)).Err()
}

func (s *Store) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

func (s *Store) Close() error { return s.client.Close() }
