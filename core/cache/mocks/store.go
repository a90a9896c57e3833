package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of cache.Store
type Store struct {
	mock.Mock
}

func (m *Store) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if val, ok := args.Get(0).([]byte); ok {
		return val, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *Store) Del(ctx context.Context, keys ...string) error {
	callArgs := make([]interface{}, 0, len(keys)+1)
	callArgs = append(callArgs, ctx)
	for _, k := range keys {
		callArgs = append(callArgs, k)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

func (m *Store) Close() error {
	args := m.Called()
	return args.Error(0)
}
