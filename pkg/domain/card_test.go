package domain_test

import (
	"testing"

	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalDeck(t *testing.T) {
	deck := domain.CanonicalDeck()
	require.Len(t, deck, domain.DeckSize)

	seen := make(map[string]bool)
	for _, c := range deck {
		assert.False(t, seen[c.String()], "duplicate card %s", c)
		seen[c.String()] = true
	}

	assert.Equal(t, "A♠", deck[0].String())
	assert.Equal(t, "K♣", deck[51].String())
}

func TestCanonicalDeck_FreshCopy(t *testing.T) {
	a := domain.CanonicalDeck()
	a[0] = domain.Card{Rank: "X", Suit: "?"}
	b := domain.CanonicalDeck()
	assert.Equal(t, "A♠", b[0].String())
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		id   string
		rank string
		suit string
	}{
		{"A♠", "A", "♠"},
		{"10♥", "10", "♥"},
		{"Q♦", "Q", "♦"},
		{"7♣", "7", "♣"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			c, err := domain.ParseCard(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.rank, c.Rank)
			assert.Equal(t, tt.suit, c.Suit)
			assert.Equal(t, tt.id, c.String())
		})
	}
}

func TestParseCard_Invalid(t *testing.T) {
	for _, id := range []string{"", "♠"} {
		_, err := domain.ParseCard(id)
		assert.ErrorIs(t, err, domain.ErrInvalidCard, "id %q", id)
	}
}

func TestHand(t *testing.T) {
	cards := []domain.Card{{Rank: "A", Suit: "♠"}, {Rank: "10", Suit: "♥"}}
	assert.Equal(t, "A♠ 10♥", domain.Hand(cards))
	assert.Equal(t, "", domain.Hand(nil))
}
