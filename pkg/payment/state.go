package payment

import "context"

// Phase is the bootstrapper's lifecycle position.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhasePolling       Phase = "polling"
	PhaseFetchingKey   Phase = "fetching_key"
	PhaseConstructing  Phase = "constructing"
	PhaseReady         Phase = "ready"
	PhaseFailed        Phase = "failed"
)

// FallbackKeySentinel is recorded as the public key of a degraded bootstrap
// so fallback construction is never mistaken for genuine success.
const FallbackKeySentinel = "TEST-FALLBACK"

// SDK is the opaque provider handle produced by a successful bootstrap.
type SDK interface{}

// Factory constructs a provider SDK instance from a public key.
type Factory func(publicKey string, opts SDKOptions) (SDK, error)

// SDKOptions is the fixed construction configuration passed to the Factory.
type SDKOptions struct {
	Locale string
	// AdvancedFraudPrevention stays disabled; enabling it has produced
	// provider-side configuration errors with sandbox credentials.
	AdvancedFraudPrevention bool
}

// AvailabilityProbe reports whether the externally loaded SDK script is
// present and callable yet.
type AvailabilityProbe interface {
	IsReady() bool
}

// ProbeFunc adapts a plain function to the AvailabilityProbe interface.
type ProbeFunc func() bool

func (f ProbeFunc) IsReady() bool { return f() }

// KeySource supplies the provider public key; satisfied by apiclient.Client.
type KeySource interface {
	PublicKey(ctx context.Context) (string, error)
}

// State is a snapshot of the bootstrapper.
type State struct {
	Phase     Phase
	PublicKey string
	// Attempt counts polling ticks in the current attempt; it resets to
	// zero whenever the phase moves away from polling.
	Attempt int
	// Degraded is true when the instance was constructed from the
	// fallback credential.
	Degraded bool
}

// ReadyEvent is broadcast once per successful bootstrap.
type ReadyEvent struct {
	Instance  SDK
	PublicKey string
	Degraded  bool
}
