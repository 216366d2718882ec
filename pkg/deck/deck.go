// Package deck implements the card shuffle and draw simulation.
package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/bbsdemo/internal/logging"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/feedback"
	"github.com/aretw0/bbsdemo/pkg/lifecycle"
	"github.com/aretw0/bbsdemo/pkg/ports"
)

var (
	ErrDeckEmpty      = errors.New("please shuffle the deck first")
	ErrInvalidCount   = errors.New("number of cards to draw must be positive")
	ErrInvalidShuffle = errors.New("server returned an invalid deck")
)

// State is a snapshot of the simulation. Slices are copies.
type State struct {
	// Deck is the canonical identity ordering.
	Deck []domain.Card
	// Shuffled holds the undrawn part of the last shuffle, front first.
	Shuffled []domain.Card
	Hands    [][]domain.Card
	Steps    []domain.Step
	Message  string
}

// Simulation owns one deck. Safe for concurrent use.
type Simulation struct {
	gen      ports.Generator
	feedback *feedback.Channel
	lc       *lifecycle.Lifecycle
	lcOpts   []lifecycle.Option
	logger   *slog.Logger

	canonical []domain.Card

	mu       sync.Mutex
	shuffled []domain.Card
	hands    [][]domain.Card
	steps    []domain.Step
	message  string
}

// Option configures the Simulation.
type Option func(*Simulation)

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

// New creates a deck holding the canonical 52 cards.
func New(gen ports.Generator, opts ...Option) *Simulation {
	s := &Simulation{
		gen:       gen,
		logger:    logging.NewNop(),
		canonical: domain.CanonicalDeck(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.feedback == nil {
		s.feedback = feedback.New()
	}
	lcOpts := append([]lifecycle.Option{lifecycle.WithLogger(s.logger)}, s.lcOpts...)
	s.lc = lifecycle.New("deck", s.feedback, lcOpts...)
	return s
}

// Shuffle asks the generator for a permutation and replaces the shuffled
// deck with it. Hands from an earlier shuffle are discarded so no card is
// ever held twice.
func (s *Simulation) Shuffle(ctx context.Context, params domain.Params) error {
	_, err := lifecycle.Run(ctx, s.lc, lifecycle.Job[shuffled]{
		Params: params,
		Call: func(ctx context.Context, p domain.Params) (shuffled, error) {
			res, err := s.gen.ShuffleDeck(ctx, p)
			if err != nil {
				return shuffled{}, err
			}
			cards, err := ParsePermutation(res.Deck)
			if err != nil {
				return shuffled{}, err
			}
			return shuffled{cards: cards, result: res}, nil
		},
		OnSuccess: func(sh shuffled) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.shuffled = sh.cards
			s.hands = nil
			s.steps = sh.result.Steps
			s.message = sh.result.Message
			s.logger.Debug("deck shuffled", "cards", len(sh.cards))
		},
	})
	return err
}

type shuffled struct {
	cards  []domain.Card
	result domain.ShuffleResult
}

// ParsePermutation checks that ids are the 52 distinct canonical cards and
// parses them in order.
func ParsePermutation(ids []string) ([]domain.Card, error) {
	if len(ids) != domain.DeckSize {
		return nil, fmt.Errorf("%w: got %d cards, want %d", ErrInvalidShuffle, len(ids), domain.DeckSize)
	}

	valid := make(map[domain.Card]bool, domain.DeckSize)
	for _, c := range domain.CanonicalDeck() {
		valid[c] = true
	}

	cards := make([]domain.Card, 0, len(ids))
	for _, id := range ids {
		c, err := domain.ParseCard(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidShuffle, err)
		}
		if !valid[c] {
			return nil, fmt.Errorf("%w: unknown or repeated card %q", ErrInvalidShuffle, id)
		}
		valid[c] = false
		cards = append(cards, c)
	}
	return cards, nil
}

// Draw removes up to n cards from the front of the shuffled deck and
// records them as a new hand. Drawing from an empty deck is rejected through
// the feedback channel.
func (s *Simulation) Draw(n int) ([]domain.Card, error) {
	if n <= 0 {
		s.feedback.Trigger(ErrInvalidCount.Error())
		return nil, ErrInvalidCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.shuffled) == 0 {
		s.feedback.Trigger(ErrDeckEmpty.Error())
		return nil, ErrDeckEmpty
	}

	n = min(n, len(s.shuffled))
	hand := make([]domain.Card, n)
	copy(hand, s.shuffled[:n])
	s.shuffled = s.shuffled[n:]
	s.hands = append(s.hands, hand)
	return cloneCards(hand), nil
}

// ClearHands forgets the drawn hands. Drawn cards do not return to the deck.
func (s *Simulation) ClearHands() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hands = nil
}

// Reset restores the canonical deck and clears shuffled and drawn cards.
func (s *Simulation) Reset() {
	s.mu.Lock()
	s.shuffled = nil
	s.hands = nil
	s.steps = nil
	s.message = ""
	s.mu.Unlock()
	s.feedback.Clear()
}

// State returns a snapshot.
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	hands := make([][]domain.Card, len(s.hands))
	for i, h := range s.hands {
		hands[i] = cloneCards(h)
	}
	return State{
		Deck:     cloneCards(s.canonical),
		Shuffled: cloneCards(s.shuffled),
		Hands:    hands,
		Steps:    s.steps,
		Message:  s.message,
	}
}

// Feedback returns the channel rejections and failures are reported on.
func (s *Simulation) Feedback() *feedback.Channel { return s.feedback }

// Busy reports whether a request is in flight.
func (s *Simulation) Busy() bool { return s.lc.Busy() }

// Close stops the feedback timer.
func (s *Simulation) Close() {
	s.feedback.Stop()
}

func cloneCards(cards []domain.Card) []domain.Card {
	if cards == nil {
		return nil
	}
	out := make([]domain.Card, len(cards))
	copy(out, cards)
	return out
}
