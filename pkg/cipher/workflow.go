package cipher

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/bbsdemo/internal/logging"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/feedback"
	"github.com/aretw0/bbsdemo/pkg/lifecycle"
	"github.com/aretw0/bbsdemo/pkg/ports"
	"github.com/aretw0/bbsdemo/pkg/validator"
)

var (
	ErrInputRequired      = errors.New("please enter the text to encrypt")
	ErrCiphertextRequired = errors.New("please enter the hex text to decrypt")
)

// State is a snapshot of the workflow.
type State struct {
	Operation    domain.Operation // Operation that produced Result, empty before the first success
	Result       string
	Steps        []domain.Step
	StepsVisible bool
}

// Workflow is the remote-backed cipher workflow.
type Workflow struct {
	gen       ports.Generator
	settings  ports.SettingsReader
	clipboard ports.Clipboard
	feedback  *feedback.Channel
	lcOpts    []lifecycle.Option
	logger    *slog.Logger

	lc *lifecycle.Lifecycle

	mu    sync.RWMutex
	state State
}

// Option configures the Workflow.
type Option func(*Workflow)

// WithClipboard sets where results are copied when autoCopy is on.
func WithClipboard(c ports.Clipboard) Option {
	return func(w *Workflow) {
		w.clipboard = c
	}
}

// WithFeedback shares an existing feedback channel.
func WithFeedback(fb *feedback.Channel) Option {
	return func(w *Workflow) {
		w.feedback = fb
	}
}

// WithLifecycleOptions forwards options to the request lifecycle.
func WithLifecycleOptions(opts ...lifecycle.Option) Option {
	return func(w *Workflow) {
		w.lcOpts = append(w.lcOpts, opts...)
	}
}

// WithLogger configures a logger for the Workflow.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// New creates a cipher workflow. settings may be nil, which behaves like
// autoCopy=false and showSteps=false.
func New(gen ports.Generator, settings ports.SettingsReader, opts ...Option) *Workflow {
	w := &Workflow{
		gen:      gen,
		settings: settings,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.feedback == nil {
		w.feedback = feedback.New()
	}
	lcOpts := append([]lifecycle.Option{lifecycle.WithLogger(w.logger)}, w.lcOpts...)
	w.lc = lifecycle.New("cipher", w.feedback, lcOpts...)
	return w
}

// Encrypt sends input to the generator and stores the hex ciphertext.
func (w *Workflow) Encrypt(ctx context.Context, params domain.Params, input string) (domain.CipherResult, error) {
	return lifecycle.Run(ctx, w.lc, lifecycle.Job[domain.CipherResult]{
		Precheck: func() (err error) {
			if strings.TrimSpace(input) == "" {
				return ErrInputRequired
			}
			input, err = validator.SanitizeText(input)
			return err
		},
		Params: params,
		Call: func(ctx context.Context, p domain.Params) (domain.CipherResult, error) {
			return w.gen.Encrypt(ctx, p, input)
		},
		OnSuccess: func(res domain.CipherResult) { w.apply(domain.OpEncrypt, res) },
	})
}

// Decrypt sends hex ciphertext to the generator and stores the plaintext.
func (w *Workflow) Decrypt(ctx context.Context, params domain.Params, encrypted string) (domain.CipherResult, error) {
	encrypted = strings.TrimSpace(encrypted)
	return lifecycle.Run(ctx, w.lc, lifecycle.Job[domain.CipherResult]{
		Precheck: func() (err error) {
			if encrypted == "" {
				return ErrCiphertextRequired
			}
			encrypted, err = validator.SanitizeText(encrypted)
			return err
		},
		Params: params,
		Call: func(ctx context.Context, p domain.Params) (domain.CipherResult, error) {
			return w.gen.Decrypt(ctx, p, encrypted)
		},
		OnSuccess: func(res domain.CipherResult) { w.apply(domain.OpDecrypt, res) },
	})
}

func (w *Workflow) apply(op domain.Operation, res domain.CipherResult) {
	var prefs domain.Settings
	if w.settings != nil {
		prefs = w.settings.Get()
	}

	w.mu.Lock()
	w.state = State{
		Operation:    op,
		Result:       res.Text,
		Steps:        res.Steps,
		StepsVisible: prefs.ShowSteps,
	}
	w.mu.Unlock()

	if prefs.AutoCopy && w.clipboard != nil {
		w.clipboard.Copy(res.Text)
		w.logger.Debug("result copied", "operation", op)
	}
}

// State returns a snapshot. The Steps slice is shared and must not be modified.
func (w *Workflow) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Clear forgets the last result and any pending message.
func (w *Workflow) Clear() {
	w.mu.Lock()
	w.state = State{}
	w.mu.Unlock()
	w.feedback.Clear()
}

// Feedback returns the channel rejections and failures are reported on.
func (w *Workflow) Feedback() *feedback.Channel { return w.feedback }

// Busy reports whether a request is in flight.
func (w *Workflow) Busy() bool { return w.lc.Busy() }

// Close stops the feedback timer.
func (w *Workflow) Close() {
	w.feedback.Stop()
}
