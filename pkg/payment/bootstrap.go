package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrymomot/storefront/pkg/broadcast"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/statemachine"
)

// Config holds bootstrap timing and fallback settings. The defaults give the
// polling loop a ~15 second wall-clock budget.
type Config struct {
	PollInterval time.Duration `env:"PAYMENT_POLL_INTERVAL" envDefault:"200ms"`
	PollAttempts uint64        `env:"PAYMENT_POLL_ATTEMPTS" envDefault:"75"`
	Locale       string        `env:"PAYMENT_LOCALE" envDefault:"pt-BR"`

	// FallbackKey is the sandbox credential used for degraded construction
	// when the public-key fetch fails. An empty value disables the
	// fallback path entirely, turning key-fetch failures into hard errors.
	FallbackKey string `env:"PAYMENT_FALLBACK_KEY" envDefault:"TEST-c8c68306-c9a2-4ec8-98db-0b00ad3c6dd9"`
}

// DefaultConfig returns the timing defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval: 200 * time.Millisecond,
		PollAttempts: 75,
		Locale:       "pt-BR",
	}
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Bootstrapper) {
		if log != nil {
			b.log = log
		}
	}
}

type attemptResult struct {
	sdk SDK
	err error
}

// Bootstrapper owns the singleton SDK handle and the state of the current
// bootstrap attempt.
type Bootstrapper struct {
	mu       sync.Mutex
	phases   *statemachine.Machine[Phase]
	instance SDK
	pubKey   string
	attempt  int
	degraded bool

	// pending is non-nil while an attempt is in flight; it is closed when
	// the attempt settles and last carries the shared outcome.
	pending chan struct{}
	last    attemptResult

	probe   AvailabilityProbe
	keys    KeySource
	factory Factory
	cfg     Config
	hub     *broadcast.Hub[ReadyEvent]
	log     *slog.Logger
}

// New creates a bootstrapper. Probe, keys and factory are required; New
// panics when any is nil so wiring mistakes fail at startup.
func New(probe AvailabilityProbe, keys KeySource, factory Factory, cfg Config, opts ...Option) *Bootstrapper {
	if probe == nil {
		panic("payment: availability probe is required")
	}
	if keys == nil {
		panic("payment: key source is required")
	}
	if factory == nil {
		panic("payment: SDK factory is required")
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if cfg.PollAttempts == 0 {
		cfg.PollAttempts = DefaultConfig().PollAttempts
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultConfig().Locale
	}

	b := &Bootstrapper{
		phases: statemachine.New(PhaseUninitialized,
			statemachine.T(PhaseUninitialized, PhasePolling),
			statemachine.T(PhaseUninitialized, PhaseFetchingKey),
			statemachine.T(PhasePolling, PhaseFetchingKey),
			statemachine.T(PhasePolling, PhaseFailed),
			statemachine.T(PhaseFetchingKey, PhaseConstructing),
			statemachine.T(PhaseFetchingKey, PhaseFailed),
			statemachine.T(PhaseConstructing, PhaseReady),
			statemachine.T(PhaseConstructing, PhaseFailed),
		),
		probe:   probe,
		keys:    keys,
		factory: factory,
		cfg:     cfg,
		hub:     broadcast.NewHub[ReadyEvent](4),
		log:     slog.Default(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Init returns the SDK handle, bootstrapping it on first use.
//
// When the handle is already ready it is returned immediately with no network
// side effects. When an attempt is in flight the caller waits for that
// attempt's outcome instead of starting its own. After a failure, the next
// call starts a fresh attempt with a reset counter.
func (b *Bootstrapper) Init(ctx context.Context) (SDK, error) {
	b.mu.Lock()

	if b.phases.Is(PhaseReady) {
		sdk := b.instance
		b.mu.Unlock()
		return sdk, nil
	}

	if b.pending != nil {
		done := b.pending
		b.mu.Unlock()
		select {
		case <-done:
			b.mu.Lock()
			result := b.last
			b.mu.Unlock()
			return result.sdk, result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if b.phases.Is(PhaseFailed) {
		// A failed terminal phase permits a fresh attempt.
		b.phases.Reset()
	}
	b.attempt = 0
	b.degraded = false
	done := make(chan struct{})
	b.pending = done
	b.mu.Unlock()

	sdk, err := b.run(ctx)

	b.mu.Lock()
	b.last = attemptResult{sdk: sdk, err: err}
	b.pending = nil
	b.mu.Unlock()
	close(done)

	return sdk, err
}

// run drives a single bootstrap attempt. Exactly one run is active at a time
// (guarded by pending in Init).
func (b *Bootstrapper) run(ctx context.Context) (SDK, error) {
	if !b.probe.IsReady() {
		if err := b.poll(ctx); err != nil {
			b.fail(PhaseFailed)
			return nil, err
		}
		b.transition(PhaseFetchingKey)
	} else {
		b.transition(PhaseFetchingKey)
	}

	// Leaving polling resets the attempt counter.
	b.mu.Lock()
	b.attempt = 0
	b.mu.Unlock()

	key, keyErr := b.keys.PublicKey(ctx)
	if keyErr != nil {
		return b.fallback(ctx, keyErr)
	}

	b.transition(PhaseConstructing)

	sdk, err := b.factory(key, SDKOptions{Locale: b.cfg.Locale})
	if err != nil {
		b.fail(PhaseFailed)
		return nil, errors.Join(ErrConstruction, err)
	}

	b.succeed(sdk, key, false)
	return sdk, nil
}

// poll waits for the probe to report the SDK script, checking on a fixed
// interval up to the configured ceiling.
func (b *Bootstrapper) poll(ctx context.Context) error {
	b.transition(PhasePolling)

	backoff := retry.WithMaxRetries(b.cfg.PollAttempts, retry.NewConstant(b.cfg.PollInterval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b.mu.Lock()
		b.attempt++
		attempt := b.attempt
		b.mu.Unlock()

		if b.probe.IsReady() {
			b.log.LogAttrs(ctx, slog.LevelDebug, "payment SDK script detected",
				logger.Component("payment"), slog.Int("attempt", attempt))
			return nil
		}
		return retry.RetryableError(ErrNotReady)
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		elapsed := time.Duration(b.cfg.PollAttempts) * b.cfg.PollInterval
		return fmt.Errorf("%w: script not available after %s; network or content-security policy may be blocking it",
			ErrLoadTimeout, elapsed)
	}
	return nil
}

// fallback performs the one permitted degraded construction after a
// key-fetch failure. With no fallback credential configured, the fetch error
// is surfaced directly.
func (b *Bootstrapper) fallback(ctx context.Context, keyErr error) (SDK, error) {
	if b.cfg.FallbackKey == "" || !b.probe.IsReady() {
		b.fail(PhaseFailed)
		return nil, errors.Join(ErrKeyFetch, keyErr)
	}

	b.log.LogAttrs(ctx, slog.LevelWarn, "public-key fetch failed, constructing degraded SDK instance from fallback credential",
		logger.Component("payment"), logger.Error(keyErr))

	b.transition(PhaseConstructing)

	sdk, err := b.factory(b.cfg.FallbackKey, SDKOptions{Locale: b.cfg.Locale})
	if err != nil {
		b.fail(PhaseFailed)
		return nil, errors.Join(ErrConstruction, err)
	}

	b.succeed(sdk, FallbackKeySentinel, true)
	return sdk, nil
}

func (b *Bootstrapper) succeed(sdk SDK, publicKey string, degraded bool) {
	b.transition(PhaseReady)

	b.mu.Lock()
	b.instance = sdk
	b.pubKey = publicKey
	b.degraded = degraded
	b.mu.Unlock()

	b.hub.Publish(ReadyEvent{Instance: sdk, PublicKey: publicKey, Degraded: degraded})
}

// State returns a snapshot of the bootstrapper.
func (b *Bootstrapper) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		Phase:     b.phases.Current(),
		PublicKey: b.pubKey,
		Attempt:   b.attempt,
		Degraded:  b.degraded,
	}
}

// Instance returns the SDK handle, or ErrNotReady before a successful
// bootstrap. It never triggers one.
func (b *Bootstrapper) Instance() (SDK, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.phases.Is(PhaseReady) {
		return nil, ErrNotReady
	}
	return b.instance, nil
}

// Subscribe registers an observer for the readiness event.
func (b *Bootstrapper) Subscribe(ctx context.Context) *broadcast.Subscription[ReadyEvent] {
	return b.hub.Subscribe(ctx)
}

// Close shuts down the readiness stream.
func (b *Bootstrapper) Close() {
	b.hub.Close()
}

// transition applies a phase change; the table in New makes illegal changes
// unrepresentable, so a rejection here is a programming error worth a panic.
func (b *Bootstrapper) transition(to Phase) {
	if err := b.phases.Transition(to); err != nil {
		panic(fmt.Sprintf("payment: %v", err))
	}
}

func (b *Bootstrapper) fail(to Phase) {
	// Failure is legal from every non-terminal phase in the table.
	_ = b.phases.Transition(to)
}
