package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/kvstore"
	"github.com/dmitrymomot/storefront/pkg/notifier"
	"github.com/dmitrymomot/storefront/pkg/session"
)

// fakeAuthAPI scripts backend responses for the store under test.
type fakeAuthAPI struct {
	mu           sync.Mutex
	loginResult  apiclient.LoginResult
	loginErr     error
	verifyResult apiclient.VerifyResult
	verifyErr    error
	loginCalls   int
	verifyCalls  int
	verifyHook   func()
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (apiclient.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginResult, f.loginErr
}

func (f *fakeAuthAPI) VerifyToken(ctx context.Context, token string) (apiclient.VerifyResult, error) {
	f.mu.Lock()
	hook := f.verifyHook
	f.verifyCalls++
	result, err := f.verifyResult, f.verifyErr
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return result, err
}

func validLogin() apiclient.LoginResult {
	return apiclient.LoginResult{
		AccessToken: "tok1",
		User:        apiclient.User{ID: 1, Email: "u@test.com", IsAdmin: false},
	}
}

func newStore(t *testing.T, api *fakeAuthAPI) (*session.Store, *kvstore.MemoryStore) {
	t.Helper()
	storage := kvstore.NewMemoryStore(0)
	t.Cleanup(func() { _ = storage.Close() })

	store := session.New(context.Background(), api, storage)
	t.Cleanup(store.Close)
	return store, storage
}

func TestStore_LoginLogoutLifecycle(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginResult: validLogin()}
	store, storage := newStore(t, api)
	ctx := context.Background()

	assert.False(t, store.IsAuthenticated())

	sess, err := store.Login(ctx, session.Credentials{Email: "u@test.com", Password: "longenough1"})
	require.NoError(t, err)
	assert.True(t, sess.IsAuthenticated())
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "u@test.com", store.Current().User.Email)

	// Both halves persisted.
	token, err := storage.Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tok1", token)

	store.Logout(ctx)
	assert.False(t, store.IsAuthenticated())

	// No session keys survive logout.
	_, err = storage.Get(ctx, session.KeyAccessToken)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
	_, err = storage.Get(ctx, session.KeyUserData)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestStore_LogoutClearsDrafts(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginResult: validLogin()}
	store, storage := newStore(t, api)
	ctx := context.Background()

	_, err := store.Login(ctx, session.Credentials{Email: "u@test.com", Password: "longenough1"})
	require.NoError(t, err)

	require.NoError(t, storage.Set(ctx, session.KeyDraftPrefix+"contact:message", "hello", 0))
	require.NoError(t, storage.Set(ctx, "theme", "dark", 0))

	store.Logout(ctx)

	_, err = storage.Get(ctx, session.KeyDraftPrefix+"contact:message")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	// Unrelated preferences survive.
	theme, err := storage.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}

func TestStore_LoginValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		creds   session.Credentials
		wantErr error
	}{
		{"malformed email", session.Credentials{Email: "not-an-email", Password: "longenough1"}, session.ErrInvalidEmail},
		{"empty email", session.Credentials{Email: "", Password: "longenough1"}, session.ErrInvalidEmail},
		{"short password", session.Credentials{Email: "u@test.com", Password: "short"}, session.ErrPasswordTooShort},
		{"empty password", session.Credentials{Email: "u@test.com", Password: ""}, session.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAuthAPI{loginResult: validLogin()}
			store, _ := newStore(t, api)

			_, err := store.Login(context.Background(), tt.creds)
			assert.ErrorIs(t, err, tt.wantErr)

			// Rejected locally: no network call was made.
			assert.Equal(t, 0, api.loginCalls)
		})
	}
}

func TestStore_LoginFailureWritesNothing(t *testing.T) {
	t.Parallel()

	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()

		api := &fakeAuthAPI{loginErr: apiclient.ErrUnauthorized}
		store, storage := newStore(t, api)

		_, err := store.Login(context.Background(), session.Credentials{Email: "u@test.com", Password: "wrongpass1"})
		assert.ErrorIs(t, err, session.ErrBadCredentials)
		assert.False(t, store.IsAuthenticated())
		assert.Empty(t, storage.Keys())
	})

	t.Run("network failure", func(t *testing.T) {
		t.Parallel()

		api := &fakeAuthAPI{loginErr: apiclient.ErrUnreachable}
		store, storage := newStore(t, api)

		_, err := store.Login(context.Background(), session.Credentials{Email: "u@test.com", Password: "longenough1"})
		assert.ErrorIs(t, err, session.ErrLoginUnavailable)
		assert.False(t, store.IsAuthenticated())
		assert.Empty(t, storage.Keys())
	})
}

func TestStore_VerifyExpiredClearsSession(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginResult: validLogin(), verifyErr: apiclient.ErrUnauthorized}
	store, storage := newStore(t, api)
	ctx := context.Background()

	_, err := store.Login(ctx, session.Credentials{Email: "u@test.com", Password: "longenough1"})
	require.NoError(t, err)

	status := store.Verify(ctx)
	assert.Equal(t, session.StatusExpired, status)
	assert.False(t, store.IsAuthenticated())

	_, err = storage.Get(ctx, session.KeyAccessToken)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestStore_VerifyUnreachablePreservesSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verifyErr error
	}{
		{"network failure", apiclient.ErrUnreachable},
		{"server fault", apiclient.ErrServer},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAuthAPI{loginResult: validLogin(), verifyErr: tt.verifyErr}
			store, storage := newStore(t, api)
			ctx := context.Background()

			_, err := store.Login(ctx, session.Credentials{Email: "u@test.com", Password: "longenough1"})
			require.NoError(t, err)

			status := store.Verify(ctx)
			assert.Equal(t, session.StatusUnreachable, status)
			assert.True(t, store.IsAuthenticated(), "transient failures must not log the user out")

			token, err := storage.Get(ctx, session.KeyAccessToken)
			require.NoError(t, err)
			assert.Equal(t, "tok1", token)
		})
	}
}

func TestStore_VerifyRefreshesUserFields(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{
		loginResult: validLogin(),
		verifyResult: apiclient.VerifyResult{
			Valid: true,
			User:  &apiclient.User{ID: 1, Email: "u@test.com", IsAdmin: true},
		},
	}
	store, _ := newStore(t, api)
	ctx := context.Background()

	_, err := store.Login(ctx, session.Credentials{Email: "u@test.com", Password: "longenough1"})
	require.NoError(t, err)
	require.False(t, store.Current().User.IsAdmin)

	status := store.Verify(ctx)
	assert.Equal(t, session.StatusValid, status)

	current := store.Current()
	assert.True(t, current.User.IsAdmin, "admin flag must be refreshed from the server")
	assert.Equal(t, "tok1", current.Token, "token must be untouched by verification")
}

func TestStore_VerifyWithoutSession(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{}
	store, _ := newStore(t, api)

	status := store.Verify(context.Background())
	assert.Equal(t, session.StatusExpired, status)
	assert.Equal(t, 0, api.verifyCalls, "no network call without a token")
}

func TestStore_VerifyRacingLogoutIsDiscarded(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{
		loginResult:  validLogin(),
		verifyResult: apiclient.VerifyResult{Valid: true, User: &apiclient.User{ID: 1, Email: "u@test.com", IsAdmin: true}},
	}
	store, storage := newStore(t, api)
	ctx := context.Background()

	_, err := store.Login(ctx, session.Credentials{Email: "u@test.com", Password: "longenough1"})
	require.NoError(t, err)

	// Logout lands while the verification response is in flight.
	api.mu.Lock()
	api.verifyHook = func() { store.Logout(ctx) }
	api.mu.Unlock()

	store.Verify(ctx)

	assert.False(t, store.IsAuthenticated(), "stale verify must not resurrect a cleared session")
	assert.Empty(t, storage.Keys())
}

func TestStore_HydratesFromPersistedState(t *testing.T) {
	t.Parallel()

	storage := kvstore.NewMemoryStore(0)
	defer storage.Close()
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, session.KeyAccessToken, "tok1", 0))
	require.NoError(t, storage.Set(ctx, session.KeyUserData, `{"id":1,"email":"u@test.com","is_admin":false}`, 0))

	store := session.New(ctx, &fakeAuthAPI{}, storage)
	defer store.Close()

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "u@test.com", store.Current().User.Email)
}

func TestStore_CorruptPersistedStateDiscarded(t *testing.T) {
	t.Parallel()

	storage := kvstore.NewMemoryStore(0)
	defer storage.Close()
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, session.KeyAccessToken, "tok1", 0))
	require.NoError(t, storage.Set(ctx, session.KeyUserData, "{corrupt", 0))

	store := session.New(ctx, &fakeAuthAPI{}, storage)
	defer store.Close()

	assert.False(t, store.IsAuthenticated())

	// The half-written pair was cleared, not left behind.
	assert.Empty(t, storage.Keys())
}

func TestStore_EventsPublished(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginResult: validLogin()}
	store, _ := newStore(t, api)
	ctx := context.Background()

	sub := store.Subscribe(ctx)

	_, err := store.Login(ctx, session.Credentials{Email: "u@test.com", Password: "longenough1"})
	require.NoError(t, err)

	select {
	case ev := <-sub.C:
		assert.Equal(t, session.EventLoggedIn, ev.Kind)
		assert.Equal(t, "u@test.com", ev.Session.User.Email)
	case <-time.After(time.Second):
		t.Fatal("no logged-in event")
	}

	store.Logout(ctx)

	select {
	case ev := <-sub.C:
		assert.Equal(t, session.EventLoggedOut, ev.Kind)
		assert.False(t, ev.Session.IsAuthenticated())
	case <-time.After(time.Second):
		t.Fatal("no logged-out event")
	}
}

func TestStore_NotifierMessages(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginResult: validLogin(), verifyErr: apiclient.ErrUnauthorized}

	storage := kvstore.NewMemoryStore(0)
	defer storage.Close()
	toasts := notifier.New(notifier.Config{DisplayDuration: time.Minute})
	defer toasts.Close()

	ctx := context.Background()
	store := session.New(ctx, api, storage, session.WithNotifier(toasts))
	defer store.Close()

	_, err := store.Login(ctx, session.Credentials{Email: "u@test.com", Password: "longenough1"})
	require.NoError(t, err)

	store.Verify(ctx)

	item, ok := toasts.Current()
	require.True(t, ok)
	assert.Equal(t, notifier.LevelWarning, item.Level)
	assert.Contains(t, item.Message, "expired")
}

func TestStore_Rehydrate(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginResult: validLogin()}
	store, storage := newStore(t, api)
	ctx := context.Background()

	// Another client logs in and writes the shared keys.
	require.NoError(t, storage.Set(ctx, session.KeyAccessToken, "tok2", 0))
	require.NoError(t, storage.Set(ctx, session.KeyUserData, `{"id":2,"email":"other@test.com","is_admin":false}`, 0))

	store.Rehydrate(ctx)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "other@test.com", store.Current().User.Email)

	// And logs out again.
	require.NoError(t, storage.Remove(ctx, session.KeyAccessToken))
	require.NoError(t, storage.Remove(ctx, session.KeyUserData))

	store.Rehydrate(ctx)
	assert.False(t, store.IsAuthenticated())
}
