package session

import "errors"

var (
	// ErrInvalidEmail indicates the login email failed local validation
	ErrInvalidEmail = errors.New("session.invalid_email")

	// ErrPasswordTooShort indicates the login password failed local validation
	ErrPasswordTooShort = errors.New("session.password_too_short")

	// ErrBadCredentials indicates the backend rejected the credentials
	ErrBadCredentials = errors.New("session.bad_credentials")

	// ErrLoginUnavailable indicates login failed without an explicit rejection
	ErrLoginUnavailable = errors.New("session.login_unavailable")

	// ErrNotAuthenticated indicates an operation requires an authenticated session
	ErrNotAuthenticated = errors.New("session.not_authenticated")
)
