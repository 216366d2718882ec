package bbsdemo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/bbsdemo/internal/logging"
	httpAdapter "github.com/aretw0/bbsdemo/pkg/adapters/http"
	"github.com/aretw0/bbsdemo/pkg/adapters/memory"
	"github.com/aretw0/bbsdemo/pkg/cipher"
	"github.com/aretw0/bbsdemo/pkg/deck"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/lifecycle"
	"github.com/aretw0/bbsdemo/pkg/observability"
	"github.com/aretw0/bbsdemo/pkg/ports"
	"github.com/aretw0/bbsdemo/pkg/settings"
	"github.com/aretw0/bbsdemo/pkg/wheel"
)

// Client is the high-level entry point of the demo.
// It wires the settings store, the generator client and the three
// consumption workflows together.
type Client struct {
	Settings   *settings.Store
	Encryption *cipher.Workflow
	Decryption *cipher.Workflow
	Wheel      *wheel.Simulation
	Deck       *deck.Simulation

	generator ports.Generator
	store     ports.KeyValueStore
	clipboard ports.Clipboard
	theme     ports.ThemeApplier
	darkPref  func() bool
	metrics   *observability.Metrics
	hooks     domain.LifecycleHooks
	wheelOpts []wheel.Option
	httpOpts  []httpAdapter.Option
	logger    *slog.Logger
	baseURL   string

	mu     sync.Mutex
	params domain.Params
}

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithGenerator injects a generator, bypassing the default HTTP client.
func WithGenerator(gen ports.Generator) Option {
	return func(c *Client) {
		c.generator = gen
	}
}

// WithHTTPOptions configures the default HTTP generator client.
func WithHTTPOptions(opts ...httpAdapter.Option) Option {
	return func(c *Client) {
		c.httpOpts = append(c.httpOpts, opts...)
	}
}

// WithStore sets the key-value store backing the settings (default: in memory).
func WithStore(kv ports.KeyValueStore) Option {
	return func(c *Client) {
		c.store = kv
	}
}

// WithClipboard sets where auto-copied cipher results go.
func WithClipboard(cb ports.Clipboard) Option {
	return func(c *Client) {
		c.clipboard = cb
	}
}

// WithThemeApplier registers the presentation hook for theme changes.
func WithThemeApplier(t ports.ThemeApplier) Option {
	return func(c *Client) {
		c.theme = t
	}
}

// WithDarkPreference resolves theme=auto.
func WithDarkPreference(fn func() bool) Option {
	return func(c *Client) {
		c.darkPref = fn
	}
}

// WithMetrics records every workflow request in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLifecycleHooks registers observability hooks on every workflow.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// WithWheelOptions passes extra options to the roulette table.
func WithWheelOptions(opts ...wheel.Option) Option {
	return func(c *Client) {
		c.wheelOpts = append(c.wheelOpts, opts...)
	}
}

// WithParams sets the initial generator parameters (default: domain.DefaultParams).
func WithParams(p domain.Params) Option {
	return func(c *Client) {
		c.params = p
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a Client talking to the generator at baseURL. Settings are
// loaded from the store before New returns.
func New(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: baseURL,
		params:  domain.DefaultParams(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}

	if c.generator == nil {
		httpOpts := append([]httpAdapter.Option{httpAdapter.WithLogger(c.logger)}, c.httpOpts...)
		gen, err := httpAdapter.NewClient(baseURL, httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create generator client: %w", err)
		}
		c.generator = gen
	}
	if c.store == nil {
		c.store = memory.NewStore()
	}

	storeOpts := []settings.Option{settings.WithLogger(c.logger)}
	if c.theme != nil {
		storeOpts = append(storeOpts, settings.WithThemeApplier(c.theme))
	}
	if c.darkPref != nil {
		storeOpts = append(storeOpts, settings.WithDarkPreference(c.darkPref))
	}
	c.Settings = settings.Open(ctx, c.store, storeOpts...)

	hooks := c.hooks
	if c.metrics != nil {
		hooks = c.metrics.Hooks(hooks)
	}
	lcOpts := []lifecycle.Option{lifecycle.WithLifecycleHooks(hooks)}

	cipherOpts := []cipher.Option{
		cipher.WithLogger(c.logger),
		cipher.WithLifecycleOptions(lcOpts...),
	}
	if c.clipboard != nil {
		cipherOpts = append(cipherOpts, cipher.WithClipboard(c.clipboard))
	}
	c.Encryption = cipher.New(c.generator, c.Settings, cipherOpts...)
	c.Decryption = cipher.New(c.generator, c.Settings, cipherOpts...)

	wheelOpts := append([]wheel.Option{
		wheel.WithLogger(c.logger),
		wheel.WithLifecycleOptions(lcOpts...),
	}, c.wheelOpts...)
	c.Wheel = wheel.New(c.generator, wheelOpts...)

	c.Deck = deck.New(c.generator,
		deck.WithLogger(c.logger),
		deck.WithLifecycleOptions(lcOpts...),
	)

	c.logger.Debug("Client ready", "base_url", baseURL)
	return c, nil
}

// Params returns the current generator parameters.
func (c *Client) Params() domain.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// SetParams replaces the generator parameters. They are validated on use.
func (c *Client) SetParams(p domain.Params) {
	c.mu.Lock()
	c.params = p
	c.mu.Unlock()
}

// ChangeSeed draws a new random seed in [0, 1000) and returns it.
func (c *Client) ChangeSeed() string {
	seed := domain.RandomSeed()
	c.mu.Lock()
	c.params.Seed = seed
	c.mu.Unlock()
	return seed
}

// Encrypt runs the encryption workflow with the current parameters.
func (c *Client) Encrypt(ctx context.Context, input string) (domain.CipherResult, error) {
	return c.Encryption.Encrypt(ctx, c.Params(), input)
}

// Decrypt runs the decryption workflow with the current parameters.
func (c *Client) Decrypt(ctx context.Context, encrypted string) (domain.CipherResult, error) {
	return c.Decryption.Decrypt(ctx, c.Params(), encrypted)
}

// Spin starts a roulette spin with the current parameters.
func (c *Client) Spin(ctx context.Context) error {
	return c.Wheel.Spin(ctx, c.Params())
}

// Shuffle reshuffles the deck with the current parameters.
func (c *Client) Shuffle(ctx context.Context) error {
	return c.Deck.Shuffle(ctx, c.Params())
}

// Close stops every pending timer. The settings store is left untouched.
func (c *Client) Close() {
	c.Encryption.Close()
	c.Decryption.Close()
	c.Wheel.Close()
	c.Deck.Close()
}
