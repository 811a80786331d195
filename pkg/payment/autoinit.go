package payment

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/storefront/pkg/lifecycle"
	"github.com/dmitrymomot/storefront/pkg/logger"
)

// AutoInit bootstraps the SDK as soon as the page lifecycle reports
// readiness, so the handle is usually warm before the first checkout needs
// it. It triggers at most once per lifecycle event batch, with a single
// retry allowed after a failed attempt.
type AutoInit struct {
	boot *Bootstrapper
	hub  *lifecycle.Hub
	log  *slog.Logger

	mu        sync.Mutex
	attempted bool
	retried   bool
}

// NewAutoInit wires a bootstrapper to the lifecycle hub.
func NewAutoInit(boot *Bootstrapper, hub *lifecycle.Hub, log *slog.Logger) *AutoInit {
	if log == nil {
		log = slog.Default()
	}
	return &AutoInit{boot: boot, hub: hub, log: log}
}

// Run consumes lifecycle events until ctx is cancelled. Both the
// document-ready and window-load events arrive on a normal page load; the
// attempted flag collapses them into one bootstrap.
func (a *AutoInit) Run(ctx context.Context) {
	sub := a.hub.Subscribe(ctx)
	defer sub.Cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if ev.Kind != lifecycle.KindReady && ev.Kind != lifecycle.KindLoad {
				continue
			}
			a.trigger(ctx)
		}
	}
}

func (a *AutoInit) trigger(ctx context.Context) {
	a.mu.Lock()
	if a.attempted {
		a.mu.Unlock()
		return
	}
	a.attempted = true
	a.mu.Unlock()

	if _, err := a.boot.Init(ctx); err != nil {
		a.log.LogAttrs(ctx, slog.LevelWarn, "automatic payment SDK bootstrap failed",
			logger.Component("payment"), logger.Error(err))

		// Allow exactly one more lifecycle-driven attempt after a failure.
		a.mu.Lock()
		if !a.retried {
			a.retried = true
			a.attempted = false
		}
		a.mu.Unlock()
	}
}
