// Package apiclient is the typed HTTP client for the storefront backend.
//
// It covers the five endpoints the client consumes — login, token
// verification, payment public key, checkout-session creation and the product
// listing — and classifies every failure into one of three kinds the callers
// branch on: ErrUnauthorized (explicit rejection), ErrServer (backend fault)
// and ErrUnreachable (transport failure). Error response bodies carrying a
// "detail" field are decoded into the returned error message.
//
// The client performs no retries and holds no state beyond its configuration;
// retry and session policy belong to the calling packages.
package apiclient
