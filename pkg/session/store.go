package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/broadcast"
	"github.com/dmitrymomot/storefront/pkg/kvstore"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/notifier"
)

// AuthAPI is the slice of the backend contract the store depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (apiclient.LoginResult, error)
	VerifyToken(ctx context.Context, token string) (apiclient.VerifyResult, error)
}

// Notifier is the user-facing message sink; satisfied by notifier.Channel.
type Notifier interface {
	Show(message string, level notifier.Level)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Option configures a Store.
type Option func(*Store)

// WithNotifier routes user-facing session messages to n.
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notif = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Store owns the session pair and serializes all mutations.
type Store struct {
	mu      sync.Mutex
	gen     uint64 // bumped on every mutation; invalidates in-flight verifies
	current Session

	api     AuthAPI
	storage kvstore.Store
	notif   Notifier
	hub     *broadcast.Hub[Event]
	log     *slog.Logger
}

// New creates a session store and hydrates it from persisted state.
// Corrupt persisted data is discarded and treated as logged out.
func New(ctx context.Context, api AuthAPI, storage kvstore.Store, opts ...Option) *Store {
	s := &Store{
		api:     api,
		storage: storage,
		hub:     broadcast.NewHub[Event](8),
		log:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	s.current = s.loadPersisted(ctx)
	s.mu.Unlock()

	return s
}

// Login validates credentials locally, posts them to the backend and persists
// the resulting session. No storage write happens on any failure path.
func (s *Store) Login(ctx context.Context, creds Credentials) (Session, error) {
	if err := validateCredentials(creds); err != nil {
		return Session{}, err
	}

	result, err := s.api.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return Session{}, errors.Join(ErrBadCredentials, err)
		}
		return Session{}, errors.Join(ErrLoginUnavailable, err)
	}

	sess := Session{
		Token: result.AccessToken,
		User: User{
			ID:      result.User.ID,
			Email:   result.User.Email,
			IsAdmin: result.User.IsAdmin,
		},
	}

	s.mu.Lock()
	s.gen++
	s.current = sess
	s.persist(ctx, sess)
	s.mu.Unlock()

	s.hub.Publish(Event{Kind: EventLoggedIn, Session: sess})

	return sess, nil
}

// Logout clears the session pair and every autosave draft, updates in-memory
// state synchronously and notifies observers. Navigation side effects are the
// caller's business and must happen after Logout returns.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	s.current = Session{}
	s.clearPersisted(ctx)
	s.mu.Unlock()

	s.hub.Publish(Event{Kind: EventLoggedOut})

	if s.notif != nil {
		s.notif.Show("You have been logged out.", notifier.LevelInfo)
	}
}

// Verify reconciles the cached session against the backend.
//
// An unauthorized response clears the session. Any transport failure or
// server fault preserves it and reports StatusUnreachable. A valid response
// refreshes cached user fields where the server's copy differs, leaving the
// token untouched. A verification that raced a Login or Logout is discarded.
func (s *Store) Verify(ctx context.Context) VerifyStatus {
	s.mu.Lock()
	snapshot := s.current
	startGen := s.gen
	s.mu.Unlock()

	if !snapshot.IsAuthenticated() {
		return StatusExpired
	}

	// The network call runs outside the lock; the generation check below
	// rejects its result if the session changed meanwhile.
	result, err := s.api.VerifyToken(ctx, snapshot.Token)

	var status VerifyStatus
	var publish *Event

	s.mu.Lock()

	switch {
	case s.gen != startGen:
		// A login or logout won the race; this result is stale.
		status = StatusUnreachable

	case err == nil:
		if changed := s.refreshUserLocked(ctx, result.User); changed {
			publish = &Event{Kind: EventRefreshed, Session: s.current}
		}
		status = StatusValid

	case errors.Is(err, apiclient.ErrUnauthorized):
		s.gen++
		s.current = Session{}
		s.clearPersisted(ctx)
		publish = &Event{Kind: EventLoggedOut}
		status = StatusExpired

	default:
		// Transport failure or backend fault: keep the session.
		s.log.LogAttrs(ctx, slog.LevelDebug, "session verification inconclusive, keeping session",
			logger.Component("session"), logger.Error(err))
		status = StatusUnreachable
	}

	s.mu.Unlock()

	if publish != nil {
		s.hub.Publish(*publish)
	}
	if status == StatusExpired && s.notif != nil {
		s.notif.Show("Your session has expired. Please log in again.", notifier.LevelWarning)
	}

	return status
}

// IsAuthenticated is a pure predicate over in-memory state; it performs no I/O.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.IsAuthenticated()
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token returns the current access token, or ErrNotAuthenticated.
func (s *Store) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}
	return s.current.Token, nil
}

// Subscribe registers an observer for session state changes.
func (s *Store) Subscribe(ctx context.Context) *broadcast.Subscription[Event] {
	return s.hub.Subscribe(ctx)
}

// Rehydrate reloads the session pair from storage, reconciling in-memory
// state with changes made by another client (the storage-event path).
func (s *Store) Rehydrate(ctx context.Context) {
	s.mu.Lock()

	loaded := s.loadPersisted(ctx)
	if loaded == s.current {
		s.mu.Unlock()
		return
	}

	wasAuthenticated := s.current.IsAuthenticated()
	s.gen++
	s.current = loaded
	s.mu.Unlock()

	switch {
	case loaded.IsAuthenticated() && !wasAuthenticated:
		s.hub.Publish(Event{Kind: EventLoggedIn, Session: loaded})
	case !loaded.IsAuthenticated() && wasAuthenticated:
		s.hub.Publish(Event{Kind: EventLoggedOut})
	default:
		s.hub.Publish(Event{Kind: EventRefreshed, Session: loaded})
	}
}

// Close shuts down the observer stream.
func (s *Store) Close() {
	s.hub.Close()
}

// refreshUserLocked applies a field-level diff of the server's user record
// onto the cached one. Returns true when anything changed. Caller holds mu.
func (s *Store) refreshUserLocked(ctx context.Context, remote *apiclient.User) bool {
	if remote == nil {
		return false
	}

	updated := s.current.User
	if remote.ID != 0 {
		updated.ID = remote.ID
	}
	if remote.Email != "" {
		updated.Email = remote.Email
	}
	updated.IsAdmin = remote.IsAdmin

	if updated == s.current.User {
		return false
	}

	s.current.User = updated
	if err := kvstore.SetJSON(ctx, s.storage, KeyUserData, updated, 0); err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "failed to persist refreshed user record",
			logger.Component("session"), logger.Error(err))
	}
	return true
}

// persist writes the session pair. Caller holds mu. Partial writes are rolled
// back so storage never holds half a session.
func (s *Store) persist(ctx context.Context, sess Session) {
	if err := s.storage.Set(ctx, KeyAccessToken, sess.Token, 0); err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "failed to persist access token",
			logger.Component("session"), logger.Error(err))
		return
	}
	if err := kvstore.SetJSON(ctx, s.storage, KeyUserData, sess.User, 0); err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "failed to persist user record",
			logger.Component("session"), logger.Error(err))
		_ = s.storage.Remove(ctx, KeyAccessToken)
	}
}

// clearPersisted removes the session pair and all draft keys. Caller holds mu.
func (s *Store) clearPersisted(ctx context.Context) {
	_ = s.storage.Remove(ctx, KeyAccessToken)
	_ = s.storage.Remove(ctx, KeyUserData)
	_ = s.storage.RemoveByPrefix(ctx, KeyDraftPrefix)
}

// loadPersisted reads the session pair from storage. A missing or corrupt
// half invalidates the whole pair, which is then cleared. Caller holds mu.
func (s *Store) loadPersisted(ctx context.Context) Session {
	token, err := s.storage.Get(ctx, KeyAccessToken)
	if err != nil || token == "" {
		return Session{}
	}

	user, err := kvstore.GetJSON[User](ctx, s.storage, KeyUserData)
	if err != nil || user.Email == "" {
		// Half a pair is as good as none.
		_ = s.storage.Remove(ctx, KeyAccessToken)
		_ = s.storage.Remove(ctx, KeyUserData)
		return Session{}
	}

	return Session{Token: token, User: user}
}

func validateCredentials(creds Credentials) error {
	err := validate.Struct(creds)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			switch fe.Field() {
			case "Email":
				return ErrInvalidEmail
			case "Password":
				return ErrPasswordTooShort
			}
		}
	}
	return errors.Join(ErrInvalidEmail, err)
}
