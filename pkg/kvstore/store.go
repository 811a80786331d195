package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Store is the persistence contract shared by all backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key, or ErrNotFound when the key is absent
	// or its TTL has elapsed. Expired entries are removed on read.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A zero ttl means the entry never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// RemoveByPrefix deletes every key sharing the given prefix.
	RemoveByPrefix(ctx context.Context, prefix string) error

	// Close releases backend resources.
	Close() error
}

// GetJSON reads and decodes a JSON value. A value that fails to decode is
// removed from the store and reported as ErrMalformedValue, so corrupt
// persisted data degrades to "absent" instead of propagating as a crash.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, error) {
	var zero T

	raw, err := s.Get(ctx, key)
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		_ = s.Remove(ctx, key)
		return zero, errors.Join(ErrMalformedValue, err)
	}

	return v, nil
}

// SetJSON encodes v as JSON and stores it under key.
func SetJSON[T any](ctx context.Context, s Store, key string, v T, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrMalformedValue, err)
	}
	return s.Set(ctx, key, string(raw), ttl)
}
