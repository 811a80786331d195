package checkout

import "errors"

var (
	// ErrNotAuthenticated indicates the purchase was attempted without a
	// session; the shopper was sent to the login page
	ErrNotAuthenticated = errors.New("checkout.not_authenticated")

	// ErrPaymentUnavailable indicates the payment SDK could not be
	// bootstrapped
	ErrPaymentUnavailable = errors.New("checkout.payment_unavailable")

	// ErrSessionRejected indicates the backend refused the token while
	// creating the checkout session
	ErrSessionRejected = errors.New("checkout.session_rejected")

	// ErrCheckoutFailed indicates the backend could not create the checkout
	// session
	ErrCheckoutFailed = errors.New("checkout.creation_failed")
)
