package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the backend explicitly rejected the credentials or token
	ErrUnauthorized = errors.New("apiclient.unauthorized")

	// ErrServer indicates a backend fault (5xx or undecodable success body)
	ErrServer = errors.New("apiclient.server_error")

	// ErrUnreachable indicates a transport-level failure before any response
	ErrUnreachable = errors.New("apiclient.unreachable")

	// ErrMissingPublicKey indicates the key endpoint responded without a key field
	ErrMissingPublicKey = errors.New("apiclient.missing_public_key")

	// ErrMissingCheckoutURL indicates checkout creation returned no redirect URL
	ErrMissingCheckoutURL = errors.New("apiclient.missing_checkout_url")
)

// APIError carries the HTTP status and the backend's "detail" message for a
// non-success response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Detail)
}
