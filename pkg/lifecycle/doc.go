// Package lifecycle distributes page-lifecycle signals — document ready,
// window load, focus regained, page visible and storage changed — to the
// components that react to them: session re-verification, navigation
// re-render and payment SDK auto-initialization.
//
// The host embedding the kit emits events through a single Hub; consumers
// subscribe and filter on the kinds they care about. Delivery is best effort
// and non-blocking, mirroring how browser event listeners behave.
package lifecycle
