package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/storefront/pkg/broadcast"
)

// Config holds notification display settings.
type Config struct {
	// DisplayDuration is how long a notification stays visible before
	// auto-dismissal.
	DisplayDuration time.Duration `env:"NOTIFIER_DISPLAY_DURATION" envDefault:"5s"`
}

// DefaultConfig returns the display settings used when none are provided.
func DefaultConfig() Config {
	return Config{DisplayDuration: 5 * time.Second}
}

// Channel owns the single visible notification slot.
// All methods are safe for concurrent use.
type Channel struct {
	mu      sync.Mutex
	cfg     Config
	current *Notification
	timer   *time.Timer
	hub     *broadcast.Hub[Event]
	closed  bool
}

// New creates a notification channel. A zero DisplayDuration falls back to
// the default.
func New(cfg Config) *Channel {
	if cfg.DisplayDuration <= 0 {
		cfg.DisplayDuration = DefaultConfig().DisplayDuration
	}
	return &Channel{
		cfg: cfg,
		hub: broadcast.NewHub[Event](8),
	}
}

// Show displays a message, evicting any currently visible notification.
// Showing the same message at the same level while it is still visible is a
// no-op so repeated failures don't flicker the toast.
func (c *Channel) Show(message string, level Level) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}

	if c.current != nil && c.current.Message == message && c.current.Level == level {
		c.mu.Unlock()
		return
	}

	if c.timer != nil {
		c.timer.Stop()
	}

	notif := Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Level:     level,
		CreatedAt: time.Now(),
	}
	c.current = &notif

	id := notif.ID
	c.timer = time.AfterFunc(c.cfg.DisplayDuration, func() {
		c.dismiss(id)
	})

	c.mu.Unlock()

	c.hub.Publish(Event{Kind: EventShown, Notification: notif})
}

func (c *Channel) Success(message string) { c.Show(message, LevelSuccess) }
func (c *Channel) Error(message string)   { c.Show(message, LevelError) }
func (c *Channel) Warning(message string) { c.Show(message, LevelWarning) }
func (c *Channel) Info(message string)    { c.Show(message, LevelInfo) }

// Current returns the visible notification, if any.
func (c *Channel) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Dismiss hides the visible notification (user click).
func (c *Channel) Dismiss() {
	c.mu.Lock()
	var id string
	if c.current != nil {
		id = c.current.ID
	}
	c.mu.Unlock()

	if id != "" {
		c.dismiss(id)
	}
}

// Subscribe returns a stream of show/dismiss events. The subscription is
// cancelled when ctx is done.
func (c *Channel) Subscribe(ctx context.Context) *broadcast.Subscription[Event] {
	return c.hub.Subscribe(ctx)
}

// Close dismisses the visible notification and shuts down the event stream.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.current = nil
	c.mu.Unlock()

	c.hub.Close()
}

// dismiss clears the slot only when the given notification is still the
// visible one, so a stale auto-dismiss timer never evicts its successor.
func (c *Channel) dismiss(id string) {
	c.mu.Lock()

	if c.closed || c.current == nil || c.current.ID != id {
		c.mu.Unlock()
		return
	}

	notif := *c.current
	c.current = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	c.mu.Unlock()

	c.hub.Publish(Event{Kind: EventDismissed, Notification: notif})
}
