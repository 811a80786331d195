// Package checkout sequences a purchase from click to payment redirect.
//
// Purchase holds three gates in order: the shopper must be authenticated, the
// payment SDK must be ready (bootstrapping it on demand), and the backend
// must issue a checkout session. Navigation happens only after all three
// pass; a failure at any gate produces a classified user-facing message and
// no partial side effects. An unauthenticated shopper is redirected to the
// login page with a return hint and no checkout-creation request is made.
package checkout
