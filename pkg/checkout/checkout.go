package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/notifier"
	"github.com/dmitrymomot/storefront/pkg/payment"
	"github.com/dmitrymomot/storefront/pkg/session"
)

// SessionSource supplies the current session snapshot; satisfied by
// session.Store.
type SessionSource interface {
	Current() session.Session
}

// PaymentInitializer warms up the payment SDK; satisfied by
// payment.Bootstrapper.
type PaymentInitializer interface {
	Init(ctx context.Context) (payment.SDK, error)
}

// CheckoutAPI is the slice of the backend contract the orchestrator uses.
type CheckoutAPI interface {
	CreateCheckout(ctx context.Context, token string, productID int64, plan string) (apiclient.CheckoutSession, error)
}

// Navigator performs the final browser navigation.
type Navigator interface {
	NavigateTo(rawURL string)
}

// NavigatorFunc adapts a plain function to the Navigator interface.
type NavigatorFunc func(rawURL string)

func (f NavigatorFunc) NavigateTo(rawURL string) { f(rawURL) }

// Notifier is the user-facing message sink; satisfied by notifier.Channel.
type Notifier interface {
	Show(message string, level notifier.Level)
}

// Config holds the login redirect target used for unauthenticated attempts.
type Config struct {
	LoginPath   string `env:"CHECKOUT_LOGIN_PATH" envDefault:"/login"`
	ReturnParam string `env:"CHECKOUT_RETURN_PARAM" envDefault:"next"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNotifier routes user-facing purchase messages to n.
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) {
		if n != nil {
			o.notif = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

type noopNotifier struct{}

func (noopNotifier) Show(string, notifier.Level) {}

// Orchestrator runs the purchase sequence.
type Orchestrator struct {
	sessions SessionSource
	payments PaymentInitializer
	api      CheckoutAPI
	nav      Navigator
	cfg      Config
	notif    Notifier
	log      *slog.Logger
}

// New builds an orchestrator. All four collaborators are required.
func New(sessions SessionSource, payments PaymentInitializer, api CheckoutAPI, nav Navigator, cfg Config, opts ...Option) *Orchestrator {
	if sessions == nil || payments == nil || api == nil || nav == nil {
		panic("checkout: sessions, payments, api and nav are all required")
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.ReturnParam == "" {
		cfg.ReturnParam = "next"
	}

	o := &Orchestrator{
		sessions: sessions,
		payments: payments,
		api:      api,
		nav:      nav,
		cfg:      cfg,
		notif:    noopNotifier{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Purchase drives a product purchase end to end. returnTo is the page the
// shopper should come back to after logging in; it is attached to the login
// redirect when the session gate fails.
func (o *Orchestrator) Purchase(ctx context.Context, productID int64, plan, returnTo string) error {
	sess := o.sessions.Current()
	if !sess.IsAuthenticated() {
		o.notif.Show("Please log in to complete your purchase.", notifier.LevelInfo)
		o.nav.NavigateTo(o.loginURL(returnTo))
		return ErrNotAuthenticated
	}

	if _, err := o.payments.Init(ctx); err != nil {
		o.log.LogAttrs(ctx, slog.LevelError, "payment SDK unavailable for purchase",
			logger.Component("checkout"), logger.Error(err), slog.Int64("product_id", productID))
		o.notif.Show("The payment system is still loading. Please try again in a moment.", notifier.LevelError)
		return errors.Join(ErrPaymentUnavailable, err)
	}

	result, err := o.api.CreateCheckout(ctx, sess.Token, productID, plan)
	if err != nil {
		return o.failCreate(ctx, productID, err)
	}

	o.log.LogAttrs(ctx, slog.LevelInfo, "checkout session created",
		logger.Component("checkout"),
		slog.Int64("product_id", productID),
		slog.String("plan", plan))
	o.nav.NavigateTo(result.RedirectURL())
	return nil
}

func (o *Orchestrator) failCreate(ctx context.Context, productID int64, err error) error {
	o.log.LogAttrs(ctx, slog.LevelError, "checkout creation failed",
		logger.Component("checkout"), logger.Error(err), slog.Int64("product_id", productID))

	if errors.Is(err, apiclient.ErrUnauthorized) {
		o.notif.Show("Your session has expired. Please log in again.", notifier.LevelWarning)
		return errors.Join(ErrSessionRejected, err)
	}
	o.notif.Show("We could not start the checkout. Please try again.", notifier.LevelError)
	return errors.Join(ErrCheckoutFailed, err)
}

func (o *Orchestrator) loginURL(returnTo string) string {
	if returnTo == "" {
		return o.cfg.LoginPath
	}
	return fmt.Sprintf("%s?%s=%s", o.cfg.LoginPath, o.cfg.ReturnParam, url.QueryEscape(returnTo))
}
