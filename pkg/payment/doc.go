// Package payment produces exactly one usable payment-SDK handle per page
// lifetime, tolerating the provider script loading asynchronously and out of
// order relative to this code.
//
// # Bootstrap sequence
//
// The bootstrapper advances through explicit phases, enforced by a state
// machine so no illegal shortcut can occur:
//
//	uninitialized -> polling -> fetching_key -> constructing -> ready
//
// failed is reachable from polling (the script never appeared within the
// bounded attempt ceiling), from fetching_key (when the fallback credential
// is disabled) and from constructing. ready and failed are terminal for an
// attempt; calling Init while ready short-circuits to the existing handle,
// and calling it after a failure starts a fresh attempt with a reset counter.
//
// Script availability is detected through the AvailabilityProbe capability
// interface rather than duck typing, polled at a fixed interval up to a
// bounded ceiling (the default 75 × 200ms ≈ 15s). Exhausting the ceiling
// rejects with ErrLoadTimeout, which names the usual suspects: the network or
// a content-security policy blocking the provider script.
//
// When the public-key fetch fails but the script itself is present, the
// bootstrapper constructs one degraded instance from the configured sandbox
// credential instead of surfacing the fetch error. Degraded success is
// distinguishable: the recorded public key is the FallbackKeySentinel, never
// the real key.
//
// # Concurrency
//
// At most one bootstrap attempt is in flight at a time. Concurrent Init
// callers during polling, key fetch or construction share the pending
// attempt's outcome — the key-fetch request is issued exactly once per
// successful bootstrap. AutoInit triggers the same guarded path from the
// document-ready and window-load lifecycle events, with one retry permitted
// after a failure.
package payment
