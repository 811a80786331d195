// Package session is the single source of truth for "is there a currently
// authenticated user". It owns the persisted token and user record, reconciles
// them against the backend verification endpoint and broadcasts every state
// change to UI observers.
//
// # Invariants
//
// The token and user record are written and cleared as a pair; a session is
// authenticated only when both are present. A failed login never leaves a
// half-written session.
//
// Only two things destroy session state: an explicit logout and an explicit
// unauthorized response from the backend. Network failures and server faults
// during verification preserve the existing session — falsely logging a user
// out on transient network loss is the worse failure, so the store favors
// availability over strict freshness. This asymmetry is deliberate.
//
// Login, Logout and Verify are serialized by an internal mutex, and a
// generation counter discards the result of any verification that raced a
// logout, so a stale in-flight verify can never resurrect a cleared session.
//
// # Synchronization
//
// A Syncer re-verifies the session periodically while a token exists and on
// focus/visibility lifecycle events, and rehydrates in-memory state when
// another client changes the shared storage keys.
package session
