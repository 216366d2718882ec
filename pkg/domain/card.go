package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Suits and Ranks define the canonical deck ordering (suit-major).
var (
	Suits = []string{"♠", "♥", "♦", "♣"}
	Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
)

// ErrInvalidCard is returned when a card identifier cannot be parsed.
var ErrInvalidCard = errors.New("invalid card identifier")

// Card is a playing card. Its identifier is Rank followed by Suit.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// String returns the card identifier, e.g. "10♥".
func (c Card) String() string {
	return c.Rank + c.Suit
}

// ParseCard splits an identifier into rank and suit.
// The suit is the last grapheme cluster; everything before it is the rank.
func ParseCard(id string) (Card, error) {
	start := -1
	var suit string
	g := uniseg.NewGraphemes(id)
	for g.Next() {
		start, _ = g.Positions()
		suit = g.Str()
	}
	if start <= 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, id)
	}
	return Card{Rank: id[:start], Suit: suit}, nil
}

// CanonicalDeck builds the 52-card identity ordering: 4 suits × 13 ranks.
func CanonicalDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// Hand renders a sequence of cards as space separated identifiers.
func Hand(cards []Card) string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.String()
	}
	return strings.Join(ids, " ")
}
