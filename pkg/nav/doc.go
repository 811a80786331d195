// Package nav derives the navigation chrome from the session state.
//
// Visibility is computed from a single snapshot, never queried piecemeal, so
// login/logout/dashboard toggles always flip together. The admin entry is
// gated twice: the cached user must carry the admin flag AND appear on the
// configured allow-list. Either check alone is insufficient; the flag is a
// cached claim and the list is static configuration, so both must agree.
//
// A Presenter subscribes to session events and pushes the derived State to a
// Renderer only when it actually changed, making repeated refreshes safe to
// trigger from any lifecycle event.
package nav
