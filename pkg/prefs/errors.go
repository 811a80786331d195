package prefs

import "errors"

var (
	// ErrInvalidLanguage indicates the value is not a parseable BCP 47 tag
	ErrInvalidLanguage = errors.New("prefs.invalid_language")

	// ErrStorage indicates the backing store rejected a read or write
	ErrStorage = errors.New("prefs.storage_failed")
)
