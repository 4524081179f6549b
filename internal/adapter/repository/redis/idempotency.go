package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/goamort/internal/usecase"
)

const (
	// DefaultKeyPrefix namespaces idempotency keys.
	DefaultKeyPrefix = "idempotency:"
	// ProcessingMarker is stored while the first request for a key is in flight.
	ProcessingMarker = usecase.IdempotencyProcessing
)

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client redis.Cmdable
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client redis.Cmdable) *IdempotencyStore {
	return NewIdempotencyStoreWithPrefix(client, DefaultKeyPrefix)
}

// NewIdempotencyStoreWithPrefix creates a store with a custom key prefix.
func NewIdempotencyStoreWithPrefix(client redis.Cmdable, prefix string) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: prefix,
	}
}

// CheckAndSet atomically checks if key exists, sets if not.
// With a nil response the key is claimed with ProcessingMarker.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	var value any = ProcessingMarker
	if response != nil {
		value = response
	}

	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	// Another request got there first
	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET
			return false, nil, nil
		}
		return false, nil, err
	}

	return true, existing, nil
}

// Update updates an existing idempotency key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}

// Release deletes the key so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
