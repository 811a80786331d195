package session

// Storage keys owned by this package. KeyDraftPrefix covers autosave draft
// values keyed by form and field; they are cleared together with the session
// on logout.
const (
	KeyAccessToken = "access_token"
	KeyUserData    = "user_data"
	KeyDraftPrefix = "draft:"
)

// User is the authenticated-user record cached alongside the token.
type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Session is the token/user pair. The zero value is the logged-out state.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// IsAuthenticated reports whether both halves of the pair are present.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User.Email != ""
}

// Credentials are the locally validated login inputs.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// EventKind classifies a session state change.
type EventKind string

const (
	EventLoggedIn  EventKind = "logged_in"
	EventLoggedOut EventKind = "logged_out"
	EventRefreshed EventKind = "refreshed"
)

// Event is delivered to observers on every session state change. Session is
// a snapshot taken after the change was applied.
type Event struct {
	Kind    EventKind
	Session Session
}

// VerifyStatus is the outcome of a server-side session verification.
type VerifyStatus string

const (
	// StatusValid means the backend confirmed the token; cached user fields
	// were refreshed where the server's copy differed.
	StatusValid VerifyStatus = "valid"

	// StatusExpired means the backend rejected the token; the session was
	// cleared and the user must log in again.
	StatusExpired VerifyStatus = "expired"

	// StatusUnreachable means verification could not complete (network loss
	// or backend fault); the existing session is preserved.
	StatusUnreachable VerifyStatus = "unreachable"
)
