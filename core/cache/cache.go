package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store defines the interface for the result cache.
// Implementations are best-effort: callers must treat any error other than
// ErrMiss as a degraded cache and fall back to the relational store.
type Store interface {
	// Get returns the cached value for key, or ErrMiss if absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key with the given time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Del removes the given keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error
	// Close releases the underlying connection pool.
	Close() error
}

type redisStore struct {
	rdb *redis.Client
}

// New creates a Redis-backed cache store from the configuration.
// It pings the server once so startup can log an unreachable cache, but the
// returned store is usable either way: go-redis reconnects on demand and every
// operation degrades to an error the caller recovers from.
func New(cfg Config) (Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 5
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	store := &redisStore{rdb: rdb}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return store, fmt.Errorf("failed to ping cache: %w", err)
	}
	return store, nil
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *redisStore) Close() error {
	return s.rdb.Close()
}
