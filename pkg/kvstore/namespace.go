package kvstore

import (
	"context"
	"time"
)

// Namespace wraps a Store so every key is transparently prefixed, letting
// independent components share one backend without key collisions.
type Namespace struct {
	inner  Store
	prefix string
}

// NewNamespace wraps inner with the given key prefix.
func NewNamespace(inner Store, prefix string) *Namespace {
	return &Namespace{inner: inner, prefix: prefix}
}

func (n *Namespace) Get(ctx context.Context, key string) (string, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespace) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return n.inner.Set(ctx, n.prefix+key, value, ttl)
}

func (n *Namespace) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.prefix+key)
}

func (n *Namespace) RemoveByPrefix(ctx context.Context, prefix string) error {
	return n.inner.RemoveByPrefix(ctx, n.prefix+prefix)
}

// Close is a no-op; the wrapped store may be shared, so its lifecycle belongs
// to whoever created it.
func (n *Namespace) Close() error {
	return nil
}
