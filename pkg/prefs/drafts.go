package prefs

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/storefront/pkg/kvstore"
	"github.com/dmitrymomot/storefront/pkg/session"
)

// DefaultDraftTTL bounds how long abandoned form input is kept.
const DefaultDraftTTL = 24 * time.Hour

// Drafts autosaves in-progress form input so an accidental refresh does not
// lose it. Entries share the session draft prefix, which the session store
// sweeps on logout.
type Drafts struct {
	storage kvstore.Store
	ttl     time.Duration
}

// NewDrafts builds a draft store. A non-positive ttl uses DefaultDraftTTL.
func NewDrafts(storage kvstore.Store, ttl time.Duration) *Drafts {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &Drafts{storage: storage, ttl: ttl}
}

func draftKey(form, field string) string {
	return session.KeyDraftPrefix + form + ":" + field
}

// Save stores one field's draft value.
func (d *Drafts) Save(ctx context.Context, form, field, value string) error {
	if err := d.storage.Set(ctx, draftKey(form, field), value, d.ttl); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

// Load returns a saved draft value. Absence is reported as
// kvstore.ErrNotFound; expired drafts count as absent.
func (d *Drafts) Load(ctx context.Context, form, field string) (string, error) {
	return d.storage.Get(ctx, draftKey(form, field))
}

// Discard removes one field's draft.
func (d *Drafts) Discard(ctx context.Context, form, field string) error {
	return d.storage.Remove(ctx, draftKey(form, field))
}

// DiscardForm removes every draft belonging to a form, typically after a
// successful submit.
func (d *Drafts) DiscardForm(ctx context.Context, form string) error {
	return d.storage.RemoveByPrefix(ctx, session.KeyDraftPrefix+form+":")
}
