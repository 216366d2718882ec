package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/bbsdemo/internal/logging"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/feedback"
	"github.com/aretw0/bbsdemo/pkg/validator"
	"github.com/google/uuid"
)

// ErrBusy is returned by Run when a request of the same workflow is still in flight.
var ErrBusy = errors.New("request already in flight")

// Job describes one request. Call is required; the other fields are optional.
type Job[T any] struct {
	// Precheck runs before parameter validation (e.g. bet and slot checks).
	Precheck func() error
	// Params are the raw domain parameters. Call receives the sanitized copy.
	Params domain.Params
	// Call performs the single remote request.
	Call func(ctx context.Context, params domain.Params) (T, error)
	// OnSuccess maps the result into workflow state. It runs before the busy
	// flag is cleared, so no other request can interleave with it.
	OnSuccess func(T)
}

// Lifecycle enforces the request state machine for one workflow instance.
type Lifecycle struct {
	name     string
	feedback *feedback.Channel
	validate func(domain.Params) (domain.Params, error)
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	busy  atomic.Bool
	phase atomic.Int32
}

// Option configures the Lifecycle.
type Option func(*Lifecycle)

// WithLogger configures a logger for the Lifecycle.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lifecycle) {
		l.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(l *Lifecycle) {
		l.hooks = hooks
	}
}

// WithValidator replaces the parameter validator (default validator.Validate).
func WithValidator(fn func(domain.Params) (domain.Params, error)) Option {
	return func(l *Lifecycle) {
		l.validate = fn
	}
}

// New creates a Lifecycle for the named workflow. fb may be nil, in which
// case failures are only returned and logged.
func New(name string, fb *feedback.Channel, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		name:     name,
		feedback: fb,
		validate: validator.Validate,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the workflow name.
func (l *Lifecycle) Name() string { return l.name }

// Phase returns the current state.
func (l *Lifecycle) Phase() Phase { return Phase(l.phase.Load()) }

// Busy reports whether a request is in flight.
func (l *Lifecycle) Busy() bool { return l.busy.Load() }

// Feedback returns the channel rejections and failures are reported on.
func (l *Lifecycle) Feedback() *feedback.Channel { return l.feedback }

// Run drives job through the state machine and blocks until it resolves.
// It is a package function because Go methods cannot take type parameters.
func Run[T any](ctx context.Context, l *Lifecycle, job Job[T]) (T, error) {
	var zero T

	if !l.busy.CompareAndSwap(false, true) {
		l.logger.Debug("request dropped", "workflow", l.name)
		l.emit(ctx, domain.EventRequestRejected, "", domain.OutcomeDropped, 0, ErrBusy)
		return zero, ErrBusy
	}
	defer l.release()

	reqID := uuid.NewString()
	log := l.logger.With("workflow", l.name, "request_id", reqID)

	l.setPhase(PhaseValidating)
	params, err := l.precheck(job.Precheck, job.Params)
	if err != nil {
		l.setPhase(PhaseRejected)
		log.Debug("request rejected", "err", err)
		l.report(err)
		l.emit(ctx, domain.EventRequestRejected, reqID, domain.OutcomeRejected, 0, err)
		return zero, err
	}

	l.setPhase(PhaseBusy)
	l.emit(ctx, domain.EventRequestStart, reqID, "", 0, nil)
	log.Debug("request started")
	start := time.Now()

	res, err := job.Call(ctx, params)
	elapsed := time.Since(start)
	if err != nil {
		l.setPhase(PhaseFailed)
		log.Warn("request failed", "err", err, "duration", elapsed)
		l.report(err)
		l.emit(ctx, domain.EventRequestEnd, reqID, domain.OutcomeFailed, elapsed, err)
		return zero, err
	}

	if job.OnSuccess != nil {
		job.OnSuccess(res)
	}
	l.setPhase(PhaseSucceeded)
	log.Debug("request succeeded", "duration", elapsed)
	l.emit(ctx, domain.EventRequestEnd, reqID, domain.OutcomeSucceeded, elapsed, nil)
	return res, nil
}

// precheck runs the workflow precondition and then the parameter validator.
func (l *Lifecycle) precheck(pre func() error, raw domain.Params) (domain.Params, error) {
	if pre != nil {
		if err := pre(); err != nil {
			return domain.Params{}, err
		}
	}
	return l.validate(raw)
}

func (l *Lifecycle) release() {
	l.phase.Store(int32(PhaseIdle))
	l.busy.Store(false)
}

func (l *Lifecycle) setPhase(p Phase) {
	l.phase.Store(int32(p))
}

func (l *Lifecycle) report(err error) {
	if l.feedback == nil {
		return
	}
	l.feedback.Trigger(Message(err))
}

func (l *Lifecycle) emit(ctx context.Context, typ domain.EventType, reqID string, outcome domain.Outcome, d time.Duration, err error) {
	hook := l.hooks.OnRequestEnd
	if typ == domain.EventRequestStart {
		hook = l.hooks.OnRequestStart
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.RequestEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
			RequestID: reqID,
		},
		Workflow: l.name,
		Outcome:  outcome,
		Duration: d,
		Err:      err,
	})
}

// Message converts a lifecycle error into the text shown to the user.
func Message(err error) string {
	var remote *domain.RemoteError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &remote):
		return remote.Error()
	case errors.Is(err, domain.ErrServerUnreachable):
		return "server unreachable"
	case errors.Is(err, context.DeadlineExceeded):
		return "server did not answer in time"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	}
	return err.Error()
}
