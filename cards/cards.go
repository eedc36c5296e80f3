// Package cards provides reusable card and deck utilities for card games.
package cards

import (
	"math/rand"
	"sort"

	"github.com/James-Trimble/PlayPalace11/locale"
)

// Suits. Numbering matches the persisted card format.
const (
	Diamonds = 1
	Clubs    = 2
	Hearts   = 3
	Spades   = 4
)

// Card is a playing card. ID is unique across the deck so duplicate
// cards from multi-deck shoes stay distinguishable after a save/restore.
type Card struct {
	ID   int `json:"id"`
	Rank int `json:"rank"`
	Suit int `json:"suit"`
}

// Deck is an ordered pile of cards with draw/shuffle operations.
type Deck struct {
	Cards []Card `json:"cards"`
}

// Shuffle shuffles the deck in place.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Draw removes and returns up to count cards from the top.
func (d *Deck) Draw(count int) []Card {
	if count > len(d.Cards) {
		count = len(d.Cards)
	}
	drawn := make([]Card, count)
	copy(drawn, d.Cards[:count])
	d.Cards = d.Cards[count:]
	return drawn
}

// DrawOne removes and returns the top card, or nil when empty.
func (d *Deck) DrawOne() *Card {
	if len(d.Cards) == 0 {
		return nil
	}
	c := d.Cards[0]
	d.Cards = d.Cards[1:]
	return &c
}

// Add appends cards to the bottom of the deck.
func (d *Deck) Add(cards []Card) {
	d.Cards = append(d.Cards, cards...)
}

// Size returns the number of cards left.
func (d *Deck) Size() int {
	return len(d.Cards)
}

// IsEmpty reports whether the deck has no cards.
func (d *Deck) IsEmpty() bool {
	return len(d.Cards) == 0
}

// Clear removes and returns all cards.
func (d *Deck) Clear() []Card {
	cards := d.Cards
	d.Cards = nil
	return cards
}

// StandardDeck builds a shuffled 52-card deck per shoe (4 suits x ranks
// 1-13), repeated numDecks times.
func StandardDeck(numDecks int) *Deck {
	if numDecks < 1 {
		numDecks = 1
	}
	deck := &Deck{}
	id := 0
	for n := 0; n < numDecks; n++ {
		for suit := Diamonds; suit <= Spades; suit++ {
			for rank := 1; rank <= 13; rank++ {
				deck.Cards = append(deck.Cards, Card{ID: id, Rank: rank, Suit: suit})
				id++
			}
		}
	}
	deck.Shuffle()
	return deck
}

var suitKeys = map[int]string{
	Diamonds: "suit-diamonds",
	Clubs:    "suit-clubs",
	Hearts:   "suit-hearts",
	Spades:   "suit-spades",
}

var rankKeys = map[int]string{
	1: "rank-ace", 2: "rank-two", 3: "rank-three", 4: "rank-four",
	5: "rank-five", 6: "rank-six", 7: "rank-seven", 8: "rank-eight",
	9: "rank-nine", 10: "rank-ten", 11: "rank-jack", 12: "rank-queen",
	13: "rank-king",
}

// Name returns the localized card name, e.g. "seven of diamonds".
func Name(cat *locale.Catalog, loc string, c Card) string {
	rank := cat.Get(loc, rankKeys[c.Rank], nil)
	suit := cat.Get(loc, suitKeys[c.Suit], nil)
	return cat.Get(loc, "card-name", map[string]any{"rank": rank, "suit": suit})
}

// ShortName returns a compact card name such as "7D" or "QS".
func ShortName(c Card) string {
	suits := map[int]string{Diamonds: "D", Clubs: "C", Hearts: "H", Spades: "S"}
	ranks := map[int]string{1: "A", 11: "J", 12: "Q", 13: "K"}
	rank, ok := ranks[c.Rank]
	if !ok {
		rank = itoa(c.Rank)
	}
	return rank + suits[c.Suit]
}

func itoa(n int) string {
	if n == 10 {
		return "10"
	}
	return string(rune('0' + n))
}

// ReadCards formats a hand for speech output, joined with a localized "and".
func ReadCards(cat *locale.Catalog, loc string, hand []Card) string {
	if len(hand) == 0 {
		return cat.Get(loc, "no-cards", nil)
	}
	names := make([]string, len(hand))
	for i, c := range hand {
		names[i] = Name(cat, loc, c)
	}
	return cat.FormatListAnd(loc, names)
}

// SortCards returns a new slice sorted by suit then rank, or rank then
// suit when bySuit is false.
func SortCards(hand []Card, bySuit bool) []Card {
	out := append([]Card{}, hand...)
	sort.Slice(out, func(i, j int) bool {
		if bySuit {
			if out[i].Suit != out[j].Suit {
				return out[i].Suit < out[j].Suit
			}
			return out[i].Rank < out[j].Rank
		}
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Suit < out[j].Suit
	})
	return out
}
