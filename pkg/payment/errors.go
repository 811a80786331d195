package payment

import "errors"

var (
	// ErrLoadTimeout indicates the SDK script never became available within
	// the polling ceiling; the network or a content-security policy is
	// likely blocking it
	ErrLoadTimeout = errors.New("payment.sdk_load_timeout")

	// ErrKeyFetch indicates the public-key request failed and no fallback
	// construction was possible
	ErrKeyFetch = errors.New("payment.key_fetch_failed")

	// ErrConstruction indicates the SDK factory rejected the instance
	ErrConstruction = errors.New("payment.construction_failed")

	// ErrNotReady indicates the SDK handle was requested before a
	// successful bootstrap
	ErrNotReady = errors.New("payment.not_ready")
)
