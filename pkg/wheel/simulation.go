package wheel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/bbsdemo/internal/logging"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/feedback"
	"github.com/aretw0/bbsdemo/pkg/lifecycle"
	"github.com/aretw0/bbsdemo/pkg/ports"
	"github.com/aretw0/bbsdemo/pkg/schedule"
)

// TickInterval is the animation period.
const TickInterval = 50 * time.Millisecond

var (
	ErrNoSelection       = errors.New("please select a number first")
	ErrInvalidBet        = errors.New("invalid bet amount")
	ErrSlotOutOfRange    = errors.New("slot out of range")
	ErrSpinning          = errors.New("the wheel is still spinning")
	ErrWinningOutOfRange = errors.New("server returned a winning number outside the wheel")
	ErrSpinCancelled     = errors.New("spin cancelled")
)

// State is a snapshot of the simulation.
type State struct {
	Slots           int
	Spinning        bool
	CurrentSlot     int
	Result          *int // Winning slot of the last landed spin
	Balance         int
	Bet             int
	Selected        *int
	RotationDegrees float64
	Last            *Outcome
}

// spin tracks one animation run so waiters can observe how it ended.
type spin struct {
	anim     *Animation
	selected int
	bet      int
	task     *schedule.Task
	settled  chan struct{}
	outcome  *Outcome
}

// Simulation is one roulette table. Safe for concurrent use.
type Simulation struct {
	gen            ports.Generator
	feedback       *feedback.Channel
	lc             *lifecycle.Lifecycle
	lcOpts         []lifecycle.Option
	logger         *slog.Logger
	interval       time.Duration
	initialBalance int
	onChange       func(State)

	mu      sync.Mutex
	state   State
	current *spin
	landed  chan Outcome
}

// Option configures the Simulation.
type Option func(*Simulation)

// WithSlots sets the number of slots (default 20).
func WithSlots(n int) Option {
	return func(s *Simulation) {
		s.state.Slots = n
	}
}

// WithBalance sets the starting balance (default 1000).
func WithBalance(n int) Option {
	return func(s *Simulation) {
		s.initialBalance = n
	}
}

// WithBet sets the initial bet (default 10).
func WithBet(n int) Option {
	return func(s *Simulation) {
		s.state.Bet = n
	}
}

// WithTickInterval overrides the animation period.
func WithTickInterval(d time.Duration) Option {
	return func(s *Simulation) {
		s.interval = d
	}
}

// WithOnChange registers a callback run after every animation tick.
// It runs on the ticker goroutine, outside the simulation lock, and must not
// call Close or Reset.
func WithOnChange(fn func(State)) Option {
	return func(s *Simulation) {
		s.onChange = fn
	}
}

// WithFeedback shares an existing feedback channel.
func WithFeedback(fb *feedback.Channel) Option {
	return func(s *Simulation) {
		s.feedback = fb
	}
}

// WithLifecycleOptions forwards options to the request lifecycle.
func WithLifecycleOptions(opts ...lifecycle.Option) Option {
	return func(s *Simulation) {
		s.lcOpts = append(s.lcOpts, opts...)
	}
}

// WithLogger configures a logger for the Simulation.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// New creates a roulette table.
func New(gen ports.Generator, opts ...Option) *Simulation {
	s := &Simulation{
		gen:            gen,
		logger:         logging.NewNop(),
		interval:       TickInterval,
		initialBalance: domain.DefaultBalance,
		landed:         make(chan Outcome, 1),
		state: State{
			Slots: domain.DefaultSlots,
			Bet:   domain.DefaultBet,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Balance = s.initialBalance
	if s.feedback == nil {
		s.feedback = feedback.New()
	}
	lcOpts := append([]lifecycle.Option{lifecycle.WithLogger(s.logger)}, s.lcOpts...)
	s.lc = lifecycle.New("wheel", s.feedback, lcOpts...)
	return s
}

// State returns a snapshot.
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Select picks the slot the player bets on.
func (s *Simulation) Select(slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Spinning || s.lc.Busy() {
		return ErrSpinning
	}
	if slot < 0 || slot >= s.state.Slots {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSlotOutOfRange, slot, s.state.Slots)
	}
	s.state.Selected = &slot
	return nil
}

// SetBet changes the stake. The bet is checked against the balance when spinning.
func (s *Simulation) SetBet(amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Spinning || s.lc.Busy() {
		return ErrSpinning
	}
	if amount <= 0 {
		return ErrInvalidBet
	}
	s.state.Bet = amount
	return nil
}

// Spin requests a winning slot and starts the landing animation.
// It returns once the remote call resolved; use Wait to block until the
// wheel lands.
func (s *Simulation) Spin(ctx context.Context, params domain.Params) error {
	slots := s.State().Slots
	var placed wager
	_, err := lifecycle.Run(ctx, s.lc, lifecycle.Job[domain.SpinResult]{
		Precheck: func() (err error) {
			placed, err = s.precheck()
			return err
		},
		Params: params,
		Call: func(ctx context.Context, p domain.Params) (domain.SpinResult, error) {
			res, err := s.gen.Roulette(ctx, p, slots)
			if err != nil {
				return res, err
			}
			if res.WinningNumber < 0 || res.WinningNumber >= slots {
				return res, fmt.Errorf("%w: %d", ErrWinningOutOfRange, res.WinningNumber)
			}
			return res, nil
		},
		OnSuccess: func(res domain.SpinResult) {
			if err := s.start(slots, res.WinningNumber, placed); err != nil {
				s.logger.Error("failed to start animation", "err", err)
			}
		},
	})
	return err
}

// wager is the selection and stake accepted with a spin request.
type wager struct {
	selected int
	bet      int
}

// precheck validates and captures the wager. Select, SetBet and Reset are
// refused until the request resolves, so the captured wager is the one paid.
func (s *Simulation) precheck() (wager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Spinning {
		return wager{}, ErrSpinning
	}
	if s.state.Selected == nil {
		return wager{}, ErrNoSelection
	}
	if s.state.Bet <= 0 || s.state.Bet > s.state.Balance {
		return wager{}, ErrInvalidBet
	}
	return wager{selected: *s.state.Selected, bet: s.state.Bet}, nil
}

// start cancels any running animation and launches a new one for w.
func (s *Simulation) start(slots, winning int, w wager) error {
	anim, err := NewAnimation(slots, winning)
	if err != nil {
		return err
	}

	sp := &spin{anim: anim, settled: make(chan struct{})}

	sp.selected = w.selected
	sp.bet = w.bet

	s.mu.Lock()
	prev := s.current
	s.current = sp
	s.state.Spinning = true
	s.state.Result = nil
	s.state.Last = nil
	s.state.CurrentSlot = 0
	s.state.RotationDegrees = 0
	s.mu.Unlock()

	s.abandon(prev)

	task := schedule.Every(context.Background(), s.interval, func() bool {
		return s.tick(sp)
	})
	s.mu.Lock()
	sp.task = task
	s.mu.Unlock()

	s.logger.Debug("spin started", "winning", winning, "ticks", anim.Ticks())
	return nil
}

// tick advances sp by one step. It returns false once sp is finished or stale.
func (s *Simulation) tick(sp *spin) bool {
	s.mu.Lock()
	if s.current != sp {
		s.mu.Unlock()
		return false
	}

	slot, done := sp.anim.Step()
	s.state.CurrentSlot = slot
	s.state.RotationDegrees = sp.anim.Rotation()
	if done {
		s.settle(sp)
	}
	snapshot := s.state
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(snapshot)
	}
	if done {
		close(sp.settled)
		s.publish(*sp.outcome)
	}
	return !done
}

// publish hands out to Done listeners, replacing an unread older outcome.
func (s *Simulation) publish(out Outcome) {
	for {
		select {
		case s.landed <- out:
			return
		default:
		}
		select {
		case <-s.landed:
		default:
		}
	}
}

// Done delivers the outcome of every spin that lands. Only the most recent
// unread outcome is kept.
func (s *Simulation) Done() <-chan Outcome {
	return s.landed
}

// settle evaluates the payout and detaches sp. Caller holds s.mu.
// Waiters are released by tick once the change callback has run.
func (s *Simulation) settle(sp *spin) {
	winning := sp.anim.Current()
	selected := sp.selected
	out := Outcome{Selected: selected, Winning: winning, Bet: sp.bet}
	if selected == winning {
		out.Won = true
		out.Delta = sp.bet * domain.PayoutMultiplier
	} else {
		out.Delta = -sp.bet
	}
	s.state.Balance += out.Delta
	out.Balance = s.state.Balance

	s.state.Spinning = false
	s.state.Result = &winning
	s.state.Last = &out
	s.current = nil

	sp.outcome = &out
	s.logger.Info("spin settled", "selected", selected, "winning", winning, "won", out.Won, "balance", out.Balance)
}

// abandon stops a spin that will never settle. Must be called without s.mu held.
func (s *Simulation) abandon(sp *spin) {
	if sp == nil {
		return
	}
	s.mu.Lock()
	task := sp.task
	select {
	case <-sp.settled:
	default:
		close(sp.settled)
	}
	s.mu.Unlock()

	task.Cancel()
	task.Wait()
}

// Wait blocks until the current spin lands and returns its outcome.
// With no spin running it returns the last outcome, or ErrSpinCancelled if
// the spin was torn down before landing.
func (s *Simulation) Wait(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	sp := s.current
	last := s.state.Last
	s.mu.Unlock()

	if sp == nil {
		if last == nil {
			return Outcome{}, ErrSpinCancelled
		}
		return *last, nil
	}

	select {
	case <-sp.settled:
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sp.outcome == nil {
		return Outcome{}, ErrSpinCancelled
	}
	return *sp.outcome, nil
}

// Reset stops any spin and restores the starting balance, clearing the
// selection and the last result. It is refused while a request is in flight.
func (s *Simulation) Reset() error {
	if s.lc.Busy() {
		return ErrSpinning
	}
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.state.Spinning = false
	s.mu.Unlock()

	s.abandon(prev)

	s.mu.Lock()
	s.state.Balance = s.initialBalance
	s.state.Result = nil
	s.state.Last = nil
	s.state.Selected = nil
	s.state.CurrentSlot = 0
	s.state.RotationDegrees = 0
	s.mu.Unlock()
	s.feedback.Clear()
	return nil
}

// Feedback returns the channel rejections and failures are reported on.
func (s *Simulation) Feedback() *feedback.Channel { return s.feedback }

// Busy reports whether a request is in flight.
func (s *Simulation) Busy() bool { return s.lc.Busy() }

// Close cancels any running animation and stops the feedback timer.
// The balance is left as is.
func (s *Simulation) Close() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.state.Spinning = false
	s.mu.Unlock()

	s.abandon(prev)
	s.feedback.Stop()
}
