package apiclient

// User is the authenticated-user record as the backend reports it.
type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// LoginResult is the success payload of POST /api/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// VerifyResult is the success payload of GET /api/license/check.
type VerifyResult struct {
	Valid bool  `json:"valid"`
	User  *User `json:"user,omitempty"`
}

// CheckoutSession is the success payload of POST /api/criar-checkout.
// InitPoint is the payment redirect URL; SandboxInitPoint is its sandbox
// counterpart, used when the production URL is absent.
type CheckoutSession struct {
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// RedirectURL returns the URL the browser should navigate to, preferring the
// production init point.
func (s CheckoutSession) RedirectURL() string {
	if s.InitPoint != "" {
		return s.InitPoint
	}
	return s.SandboxInitPoint
}

// Product is one entry of GET /api/products.
type Product struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	DurationDays int      `json:"duration_days"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
	IsFeatured   bool     `json:"is_featured,omitempty"`
	IsActive     bool     `json:"is_active,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
}
