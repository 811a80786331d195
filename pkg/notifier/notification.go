package notifier

import "time"

// Level classifies a notification for presentation.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notification is a single ephemeral user-facing message.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// EventKind distinguishes shown and dismissed events on the observer stream.
type EventKind string

const (
	EventShown     EventKind = "shown"
	EventDismissed EventKind = "dismissed"
)

// Event is delivered to subscribers whenever the visible notification changes.
type Event struct {
	Kind         EventKind
	Notification Notification
}
