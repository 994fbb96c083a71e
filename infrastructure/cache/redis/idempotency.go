// Package redis stores checkout Idempotency-Key reservations in Redis
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tienda/config"

	goredis "github.com/redis/go-redis/v9"
)

const pendingValue = "pending"

// IdempotencyStore one key per (user, Idempotency-Key). The value is
// "pending" while the checkout runs and the order code once it succeeded.
type IdempotencyStore struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewClient connects and pings Redis
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewIdempotencyStore(client goredis.UniversalClient, prefix string, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *IdempotencyStore) key(scope, key string) string {
	return s.prefix + scope + ":" + key
}

// Reserve claims key for a new checkout.
// acquired=false with a code means a previous request already finished;
// acquired=false without a code means one is still running.
func (s *IdempotencyStore) Reserve(ctx context.Context, scope, key string) (code string, acquired bool, err error) {
	k := s.key(scope, key)

	ok, err := s.client.SetNX(ctx, k, pendingValue, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	value, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, goredis.Nil) {
		// expired between SetNX and Get
		return s.Reserve(ctx, scope, key)
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if value == pendingValue {
		return "", false, nil
	}
	return value, false, nil
}

// Complete records the order code of a reserved key
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key, code string) error {
	if err := s.client.Set(ctx, s.key(scope, key), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release drops a reservation whose checkout failed so the client may retry
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, s.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
