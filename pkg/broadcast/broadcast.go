package broadcast

import (
	"context"
	"sync"
)

// Subscription receives messages published to the hub it was created from.
// C is closed when the subscription is cancelled or the hub shuts down.
type Subscription[T any] struct {
	// C delivers published messages. Slow consumers may miss messages.
	C <-chan T

	ch     chan T
	once   sync.Once
	cancel func()
}

// Cancel detaches the subscription from its hub and closes C.
// It is safe to call multiple times.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		close(s.ch)
	})
}

// Hub fans out messages of type T to all active subscriptions.
// All methods are safe for concurrent use.
type Hub[T any] struct {
	mu      sync.RWMutex
	subs    map[*Subscription[T]]struct{}
	bufSize int
	closed  bool
}

// NewHub creates a hub whose subscriptions buffer up to bufSize messages.
// A minimum buffer of 1 is enforced so publishing never blocks.
func NewHub[T any](bufSize int) *Hub[T] {
	return &Hub[T]{
		subs:    make(map[*Subscription[T]]struct{}),
		bufSize: max(bufSize, 1),
	}
}

// Subscribe registers a new subscription. The subscription is cancelled
// automatically when ctx is done. Subscribing to a closed hub returns an
// already-closed subscription.
func (h *Hub[T]) Subscribe(ctx context.Context) *Subscription[T] {
	ch := make(chan T, h.bufSize)
	sub := &Subscription[T]{C: ch, ch: ch}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.Cancel()
		return sub
	}
	sub.cancel = func() { h.detach(sub) }
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Cancel()
		}()
	}

	return sub
}

// Publish delivers msg to every active subscription without blocking.
// Subscriptions with a full buffer skip this message.
func (h *Hub[T]) Publish(msg T) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for sub := range h.subs {
		select {
		case sub.ch <- msg:
		default:
			// Dropped for this subscriber. Observers reconcile against
			// authoritative state on the next event.
		}
	}
}

// Close shuts down the hub and cancels all subscriptions. Idempotent.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*Subscription[T], 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	clear(h.subs)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() { close(sub.ch) })
	}
}

func (h *Hub[T]) detach(sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, sub)
}
