package nav

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/session"
)

// Config holds the admin allow-list.
type Config struct {
	AdminEmails []string `env:"NAV_ADMIN_EMAILS" envSeparator:","`
}

// State is the computed visibility of each navigation entry.
type State struct {
	ShowLogin     bool
	ShowLogout    bool
	ShowDashboard bool
	ShowAdmin     bool
}

// Renderer applies a navigation state to the surface that displays it.
type Renderer interface {
	Apply(state State)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(state State)

func (f RendererFunc) Apply(state State) { f(state) }

// SessionSource supplies the current session snapshot; satisfied by
// session.Store.
type SessionSource interface {
	Current() session.Session
}

// Presenter computes navigation state from the session and keeps a renderer
// in sync with it.
type Presenter struct {
	sessions SessionSource
	renderer Renderer
	admins   map[string]struct{}
	log      *slog.Logger

	mu      sync.Mutex
	applied *State
}

// NewPresenter builds a presenter. Admin emails are matched
// case-insensitively.
func NewPresenter(sessions SessionSource, renderer Renderer, cfg Config, log *slog.Logger) *Presenter {
	if log == nil {
		log = slog.Default()
	}
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = struct{}{}
		}
	}
	return &Presenter{
		sessions: sessions,
		renderer: renderer,
		admins:   admins,
		log:      log,
	}
}

// Compute derives the visibility state for a session snapshot.
func (p *Presenter) Compute(sess session.Session) State {
	authed := sess.IsAuthenticated()
	return State{
		ShowLogin:     !authed,
		ShowLogout:    authed,
		ShowDashboard: authed,
		ShowAdmin:     authed && p.isAdmin(sess.User),
	}
}

func (p *Presenter) isAdmin(user session.User) bool {
	if !user.IsAdmin {
		return false
	}
	_, listed := p.admins[strings.ToLower(user.Email)]
	return listed
}

// Refresh recomputes the state from the current session and applies it when
// it differs from what the renderer last received. Safe to call from any
// event, any number of times.
func (p *Presenter) Refresh() State {
	state := p.Compute(p.sessions.Current())

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.applied != nil && *p.applied == state {
		return state
	}
	p.applied = &state
	p.renderer.Apply(state)
	return state
}

// Run applies the initial state, then follows session changes until ctx is
// cancelled. sub must deliver session events, typically from
// session.Store.Subscribe.
func (p *Presenter) Run(ctx context.Context, events <-chan session.Event) {
	p.Refresh()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			state := p.Refresh()
			p.log.LogAttrs(ctx, slog.LevelDebug, "navigation state refreshed",
				logger.Component("nav"),
				slog.String("trigger", string(ev.Kind)),
				slog.Bool("authenticated", state.ShowLogout),
				slog.Bool("admin", state.ShowAdmin))
		}
	}
}
