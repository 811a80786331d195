package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/storefront/pkg/kvstore"
	"github.com/dmitrymomot/storefront/pkg/logger"
)

// Storage keys owned by this package.
const (
	KeyPreferences = "preferences"
	KeyConsent     = "cookie_consent"
)

// Theme is the visual theme choice.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// FontSize is the text scaling choice.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

// Consent is the shopper's cookie decision. The zero value means the banner
// has not been answered yet.
type Consent string

const (
	ConsentUnset         Consent = ""
	ConsentAccepted      Consent = "accepted"
	ConsentEssentialOnly Consent = "essential_only"
	ConsentDeclined      Consent = "declined"
)

// Preferences is the persisted shopper-local settings blob.
type Preferences struct {
	Theme         Theme    `json:"theme"`
	Language      string   `json:"language"`
	FontSize      FontSize `json:"font_size"`
	ReducedMotion bool     `json:"reduced_motion"`
}

// Defaults returns the preferences used before the shopper changes anything.
func Defaults() Preferences {
	return Preferences{
		Theme:    ThemeSystem,
		Language: "pt-BR",
		FontSize: FontMedium,
	}
}

// normalize coerces out-of-range enum values back to their defaults so a
// hand-edited or stale stored blob cannot put the UI in an unnamed state.
func (p Preferences) normalize() Preferences {
	switch p.Theme {
	case ThemeSystem, ThemeLight, ThemeDark:
	default:
		p.Theme = ThemeSystem
	}
	switch p.FontSize {
	case FontSmall, FontMedium, FontLarge:
	default:
		p.FontSize = FontMedium
	}
	if _, err := language.Parse(p.Language); err != nil {
		p.Language = Defaults().Language
	}
	return p
}

// Manager persists preferences and consent.
type Manager struct {
	storage kvstore.Store
	log     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager builds a preferences manager over the given store.
func NewManager(storage kvstore.Store, opts ...Option) *Manager {
	m := &Manager{
		storage: storage,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load returns the stored preferences, or the defaults when nothing usable is
// stored. Corrupt data is logged and treated as absent.
func (m *Manager) Load(ctx context.Context) Preferences {
	stored, err := kvstore.GetJSON[Preferences](ctx, m.storage, KeyPreferences)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			m.log.LogAttrs(ctx, slog.LevelWarn, "stored preferences unusable, using defaults",
				logger.Component("prefs"), logger.Error(err))
		}
		return Defaults()
	}
	return stored.normalize()
}

// Save validates and persists the preferences, returning the normalized form
// that was actually written.
func (m *Manager) Save(ctx context.Context, p Preferences) (Preferences, error) {
	if p.Language != "" {
		if _, err := language.Parse(p.Language); err != nil {
			return Preferences{}, fmt.Errorf("%w: %q", ErrInvalidLanguage, p.Language)
		}
	} else {
		p.Language = Defaults().Language
	}
	p = p.normalize()

	if err := kvstore.SetJSON(ctx, m.storage, KeyPreferences, p, 0); err != nil {
		return Preferences{}, errors.Join(ErrStorage, err)
	}
	return p, nil
}

// Consent returns the stored cookie decision, or ConsentUnset when the banner
// has not been answered or the stored value is unrecognized.
func (m *Manager) Consent(ctx context.Context) Consent {
	raw, err := m.storage.Get(ctx, KeyConsent)
	if err != nil {
		return ConsentUnset
	}
	switch c := Consent(raw); c {
	case ConsentAccepted, ConsentEssentialOnly, ConsentDeclined:
		return c
	}
	return ConsentUnset
}

// SetConsent records the cookie decision. Setting ConsentUnset clears it so
// the banner shows again.
func (m *Manager) SetConsent(ctx context.Context, c Consent) error {
	if c == ConsentUnset {
		if err := m.storage.Remove(ctx, KeyConsent); err != nil {
			return errors.Join(ErrStorage, err)
		}
		return nil
	}
	switch c {
	case ConsentAccepted, ConsentEssentialOnly, ConsentDeclined:
	default:
		return fmt.Errorf("prefs: unknown consent value %q", c)
	}
	if err := m.storage.Set(ctx, KeyConsent, string(c), 0); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}
