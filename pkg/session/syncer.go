package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/storefront/pkg/lifecycle"
	"github.com/dmitrymomot/storefront/pkg/logger"
)

// SyncConfig holds background re-verification settings.
type SyncConfig struct {
	// VerifyInterval is how often the session is re-verified while a token
	// exists.
	VerifyInterval time.Duration `env:"SESSION_VERIFY_INTERVAL" envDefault:"30s"`
}

// DefaultSyncConfig returns the settings used when none are provided.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{VerifyInterval: 30 * time.Second}
}

// Syncer keeps the session store eventually consistent with the backend and
// with other clients sharing the same storage. It re-verifies on a fixed
// interval while authenticated, on focus/visibility regained, and rehydrates
// on storage changes to the session keys.
//
// Overlapping verifications are safe: Verify is a read-reconcile whose stale
// results are discarded by the store's generation counter.
type Syncer struct {
	store *Store
	hub   *lifecycle.Hub
	cfg   SyncConfig
	log   *slog.Logger
}

// NewSyncer creates a syncer. A zero VerifyInterval falls back to the default.
func NewSyncer(store *Store, hub *lifecycle.Hub, cfg SyncConfig, log *slog.Logger) *Syncer {
	if cfg.VerifyInterval <= 0 {
		cfg.VerifyInterval = DefaultSyncConfig().VerifyInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{store: store, hub: hub, cfg: cfg, log: log}
}

// Run blocks until ctx is done, reacting to lifecycle events and the
// periodic verification tick.
func (s *Syncer) Run(ctx context.Context) {
	sub := s.hub.Subscribe(ctx)
	defer sub.Cancel()

	ticker := time.NewTicker(s.cfg.VerifyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if s.store.IsAuthenticated() {
				s.verify(ctx)
			}

		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			s.handle(ctx, ev)
		}
	}
}

func (s *Syncer) handle(ctx context.Context, ev lifecycle.Event) {
	switch ev.Kind {
	case lifecycle.KindFocus, lifecycle.KindVisible:
		s.verify(ctx)

	case lifecycle.KindStorageChange:
		if ev.Key == KeyAccessToken || ev.Key == KeyUserData {
			s.store.Rehydrate(ctx)
		}

	case lifecycle.KindReady, lifecycle.KindLoad:
		// Initial hydration already happened in New; verify once so a
		// stale persisted token is caught right after startup.
		if s.store.IsAuthenticated() {
			s.verify(ctx)
		}
	}
}

func (s *Syncer) verify(ctx context.Context) {
	status := s.store.Verify(ctx)
	s.log.LogAttrs(ctx, slog.LevelDebug, "session verification completed",
		logger.Component("session.syncer"), slog.String("status", string(status)))
}
