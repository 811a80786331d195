// Package prefs manages shopper-local preferences, cookie consent and form
// autosave drafts.
//
// Preferences load defensively: an absent or corrupt stored value yields the
// defaults rather than an error, and unknown enum values are coerced back to
// their default on save. The language tag is validated with a real BCP 47
// parser, not a pattern match.
//
// Consent is tri-state (accepted, essential-only, declined) plus unset; the
// storefront treats unset as "ask again", never as consent.
//
// Drafts live under their own key prefix with a TTL, so abandoned form input
// ages out on its own and is swept together with the session on logout.
package prefs
