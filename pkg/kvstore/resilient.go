package kvstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/storefront/pkg/logger"
)

// Resilient wraps a Store and degrades backend failures to silent no-ops.
// Reads against an unreachable backend report ErrNotFound and writes succeed
// without effect, both logged at warn level. Callers therefore never crash
// because storage is unavailable (e.g. privacy mode), matching the
// degrade-gracefully contract of the storage layer.
type Resilient struct {
	next Store
	log  *slog.Logger
}

// NewResilient wraps next. A nil log falls back to slog.Default().
func NewResilient(next Store, log *slog.Logger) *Resilient {
	if log == nil {
		log = slog.Default()
	}
	return &Resilient{next: next, log: log}
}

func (r *Resilient) Get(ctx context.Context, key string) (string, error) {
	val, err := r.next.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.log.LogAttrs(ctx, slog.LevelWarn, "storage read failed, treating key as absent",
			slog.String("key", key), logger.Error(err))
		return "", ErrNotFound
	}
	return val, err
}

func (r *Resilient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.next.Set(ctx, key, value, ttl); err != nil {
		r.log.LogAttrs(ctx, slog.LevelWarn, "storage write failed, value not persisted",
			slog.String("key", key), logger.Error(err))
	}
	return nil
}

func (r *Resilient) Remove(ctx context.Context, key string) error {
	if err := r.next.Remove(ctx, key); err != nil {
		r.log.LogAttrs(ctx, slog.LevelWarn, "storage remove failed",
			slog.String("key", key), logger.Error(err))
	}
	return nil
}

func (r *Resilient) RemoveByPrefix(ctx context.Context, prefix string) error {
	if err := r.next.RemoveByPrefix(ctx, prefix); err != nil {
		r.log.LogAttrs(ctx, slog.LevelWarn, "storage prefix remove failed",
			slog.String("prefix", prefix), logger.Error(err))
	}
	return nil
}

func (r *Resilient) Close() error {
	return r.next.Close()
}
