package lifecycle

import (
	"context"

	"github.com/dmitrymomot/storefront/pkg/broadcast"
)

// Kind identifies a page-lifecycle signal.
type Kind string

const (
	// KindReady fires when the document is parsed and scripts may run.
	KindReady Kind = "ready"
	// KindLoad fires when the page and its resources finished loading.
	KindLoad Kind = "load"
	// KindFocus fires when the window regains input focus.
	KindFocus Kind = "focus"
	// KindVisible fires when the page becomes visible again.
	KindVisible Kind = "visible"
	// KindStorageChange fires when another client mutated shared storage.
	KindStorageChange Kind = "storage_change"
)

// Event is one lifecycle occurrence. Key is set only for storage changes and
// names the storage key that changed.
type Event struct {
	Kind Kind
	Key  string
}

// Hub fans lifecycle events out to subscribers.
type Hub struct {
	hub *broadcast.Hub[Event]
}

// NewHub creates a lifecycle hub.
func NewHub() *Hub {
	return &Hub{hub: broadcast.NewHub[Event](16)}
}

// Emit publishes an event to all subscribers.
func (h *Hub) Emit(ev Event) {
	h.hub.Publish(ev)
}

// EmitStorageChange publishes a storage-change event for the given key.
func (h *Hub) EmitStorageChange(key string) {
	h.hub.Publish(Event{Kind: KindStorageChange, Key: key})
}

// Subscribe registers an observer for all lifecycle events.
func (h *Hub) Subscribe(ctx context.Context) *broadcast.Subscription[Event] {
	return h.hub.Subscribe(ctx)
}

// Close shuts the hub down.
func (h *Hub) Close() {
	h.hub.Close()
}
