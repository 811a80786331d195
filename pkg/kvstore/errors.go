package kvstore

import "errors"

var (
	// ErrNotFound indicates the key is absent, expired or was discarded
	ErrNotFound = errors.New("kvstore.not_found")

	// ErrMalformedValue indicates a stored value failed to decode and was removed
	ErrMalformedValue = errors.New("kvstore.malformed_value")

	// ErrUnavailable indicates the storage backend cannot be reached
	ErrUnavailable = errors.New("kvstore.unavailable")
)
