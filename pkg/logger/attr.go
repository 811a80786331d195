package logger

import "log/slog"

// Error returns a standard attribute for an error value.
// Nil errors produce an empty attribute that slog elides.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Component tags a record with the emitting component name.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
