package deck_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/bbsdemo/internal/testutils"
	"github.com/aretw0/bbsdemo/pkg/deck"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeck(t *testing.T, gen *testutils.FakeGenerator) *deck.Simulation {
	t.Helper()
	s := deck.New(gen)
	t.Cleanup(s.Close)
	return s
}

func TestNew_CanonicalDeck(t *testing.T) {
	s := newDeck(t, &testutils.FakeGenerator{})
	st := s.State()
	require.Len(t, st.Deck, 52)
	assert.Equal(t, "A♠", st.Deck[0].String())
	assert.Equal(t, "K♣", st.Deck[51].String())
	assert.Empty(t, st.Shuffled)
	testutils.RequireDistinct(t, st.Deck)
}

func TestDraw_FiveThenTwo(t *testing.T) {
	s := newDeck(t, &testutils.FakeGenerator{})
	require.NoError(t, s.Shuffle(context.Background(), domain.DefaultParams()))
	require.Len(t, s.State().Shuffled, 52)

	first, err := s.Draw(5)
	require.NoError(t, err)
	second, err := s.Draw(2)
	require.NoError(t, err)

	st := s.State()
	assert.Len(t, st.Shuffled, 45)
	require.Len(t, st.Hands, 2)
	assert.Equal(t, first, st.Hands[0])
	assert.Equal(t, second, st.Hands[1])
	assert.Len(t, st.Hands[0], 5)
	assert.Len(t, st.Hands[1], 2)
	assert.Equal(t, "K♣", first[0].String(), "draws come from the front of the shuffle")

	all := append(append(append([]domain.Card{}, st.Hands[0]...), st.Hands[1]...), st.Shuffled...)
	assert.Len(t, all, 52)
	testutils.RequireDistinct(t, all)

	assert.Len(t, st.Deck, 52, "canonical deck is untouched by draws")
}

func TestDraw_RemainderSmallerThanCount(t *testing.T) {
	s := newDeck(t, &testutils.FakeGenerator{})
	require.NoError(t, s.Shuffle(context.Background(), domain.DefaultParams()))

	_, err := s.Draw(50)
	require.NoError(t, err)
	last, err := s.Draw(5)
	require.NoError(t, err)
	assert.Len(t, last, 2)

	_, err = s.Draw(1)
	assert.ErrorIs(t, err, deck.ErrDeckEmpty)
}

func TestDraw_Rejections(t *testing.T) {
	s := newDeck(t, &testutils.FakeGenerator{})

	_, err := s.Draw(3)
	assert.ErrorIs(t, err, deck.ErrDeckEmpty)
	assert.Equal(t, "please shuffle the deck first", s.Feedback().State().Message)
	assert.True(t, s.Feedback().State().Shaking)

	_, err = s.Draw(0)
	assert.ErrorIs(t, err, deck.ErrInvalidCount)
	assert.Empty(t, s.State().Hands)
}

func TestShuffle_ConcurrentCallIsDropped(t *testing.T) {
	gen := &testutils.FakeGenerator{
		Gate:    make(chan struct{}),
		Entered: make(chan domain.Operation, 4),
	}
	s := newDeck(t, gen)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.Shuffle(context.Background(), domain.DefaultParams()))
	}()

	<-gen.Entered
	assert.True(t, s.Busy())
	err := s.Shuffle(context.Background(), domain.DefaultParams())
	assert.ErrorIs(t, err, lifecycle.ErrBusy)

	close(gen.Gate)
	wg.Wait()

	assert.Equal(t, 1, gen.Calls(domain.OpShuffleDeck))
	assert.Len(t, s.State().Shuffled, 52)
}

func TestShuffle_InvalidDeckFails(t *testing.T) {
	dup := testutils.ReversedDeck()
	dup[1] = dup[0]

	tests := []struct {
		name string
		deck []string
	}{
		{"short", testutils.ReversedDeck()[:51]},
		{"duplicate", dup},
		{"garbage", append(testutils.ReversedDeck()[:51], "?")},
		{"unknown rank", append(testutils.ReversedDeck()[:51], "1♠")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &testutils.FakeGenerator{
				ShuffleFn: func(domain.Params) (domain.ShuffleResult, error) {
					return domain.ShuffleResult{Deck: tt.deck}, nil
				},
			}
			s := newDeck(t, gen)

			err := s.Shuffle(context.Background(), domain.DefaultParams())
			assert.ErrorIs(t, err, deck.ErrInvalidShuffle)
			assert.Empty(t, s.State().Shuffled)
			assert.NotEmpty(t, s.Feedback().State().Message)
		})
	}
}

func TestShuffle_FailureKeepsDeck(t *testing.T) {
	gen := &testutils.FakeGenerator{}
	s := newDeck(t, gen)
	require.NoError(t, s.Shuffle(context.Background(), domain.DefaultParams()))
	_, err := s.Draw(4)
	require.NoError(t, err)

	gen.ShuffleFn = func(domain.Params) (domain.ShuffleResult, error) {
		return domain.ShuffleResult{}, &domain.RemoteError{Operation: domain.OpShuffleDeck, Message: "Error shuffling deck"}
	}
	require.Error(t, s.Shuffle(context.Background(), domain.DefaultParams()))

	st := s.State()
	assert.Len(t, st.Shuffled, 48)
	assert.Len(t, st.Hands, 1)
}

func TestReshuffleDiscardsHands(t *testing.T) {
	s := newDeck(t, &testutils.FakeGenerator{})
	require.NoError(t, s.Shuffle(context.Background(), domain.DefaultParams()))
	_, err := s.Draw(5)
	require.NoError(t, err)

	require.NoError(t, s.Shuffle(context.Background(), domain.DefaultParams()))
	st := s.State()
	assert.Len(t, st.Shuffled, 52)
	assert.Empty(t, st.Hands)
	assert.Equal(t, "Deck shuffled", st.Message)
}

func TestClearHandsAndReset(t *testing.T) {
	s := newDeck(t, &testutils.FakeGenerator{})
	require.NoError(t, s.Shuffle(context.Background(), domain.DefaultParams()))
	_, err := s.Draw(5)
	require.NoError(t, err)

	s.ClearHands()
	st := s.State()
	assert.Empty(t, st.Hands)
	assert.Len(t, st.Shuffled, 47, "cleared hands do not return to the deck")

	s.Reset()
	st = s.State()
	assert.Empty(t, st.Shuffled)
	assert.Empty(t, st.Hands)
	assert.Equal(t, domain.CanonicalDeck(), st.Deck)
}

func TestState_ReturnsCopies(t *testing.T) {
	s := newDeck(t, &testutils.FakeGenerator{})
	require.NoError(t, s.Shuffle(context.Background(), domain.DefaultParams()))

	st := s.State()
	st.Shuffled[0] = domain.Card{Rank: "X", Suit: "?"}
	st.Deck[0] = domain.Card{Rank: "X", Suit: "?"}

	again := s.State()
	assert.Equal(t, "K♣", again.Shuffled[0].String())
	assert.Equal(t, "A♠", again.Deck[0].String())
}
