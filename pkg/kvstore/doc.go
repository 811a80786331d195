// Package kvstore provides typed get/set/remove over persistent key-value
// storage with per-key expiration, the client-side persistence layer behind
// sessions, preferences and autosave drafts.
//
// Values are stored as text. An optional TTL is enforced on read: expired
// entries are treated as absent and proactively removed, never returned.
// Malformed stored data is treated as absent as well — JSON helpers discard
// entries that fail to decode instead of propagating a parse error to callers.
//
// Two implementations ship with the package: MemoryStore, a mutex-guarded map
// with a background janitor, and RedisStore for state shared between multiple
// clients. The Resilient wrapper degrades a failing backend to silent no-ops
// (logged at warn level) so storage unavailability never crashes a caller.
//
// # Usage
//
//	store := kvstore.NewMemoryStore(time.Minute)
//	defer store.Close()
//
//	_ = store.Set(ctx, "theme", "dark", 0)
//	theme, err := store.Get(ctx, "theme")
//
//	// Typed values
//	_ = kvstore.SetJSON(ctx, store, "user", user, 0)
//	user, err := kvstore.GetJSON[User](ctx, store, "user")
package kvstore
