package domain

import (
	"math/rand"
	"sort"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck is an ordered pile of cards consumed from the front by Deal.
type Deck struct {
	cards []Card
}

// NewDeck returns a full deck in suit-then-rank order.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := RankTwo; r <= RankAce; r++ {
			cards = append(cards, Card{Suit: s, Rank: r})
		}
	}
	return &Deck{cards: cards}
}

// NewShuffledDeck returns a full deck in uniformly random order.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	d := NewDeck()
	d.Shuffle(rng)
	return d
}

// Shuffle permutes the remaining cards with a Fisher–Yates pass.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the first n cards. Dealing more cards than remain is a
// caller bug and panics.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || n > len(d.cards) {
		panic("deck: deal exceeds remaining cards")
	}
	out := append([]Card(nil), d.cards[:n]...)
	d.cards = d.cards[n:]
	return out
}

// Len returns the number of cards left.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in order.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

func suitOrder(s Suit) int {
	switch s {
	case SuitSpades:
		return 0
	case SuitHearts:
		return 1
	case SuitClubs:
		return 2
	case SuitDiamonds:
		return 3
	default:
		return 4
	}
}

// SortHand returns the cards ordered by suit (Spades, Hearts, Clubs, Diamonds) then
// ascending rank. The input slice is left untouched.
func SortHand(cards []Card) []Card {
	out := append([]Card(nil), cards...)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := suitOrder(out[i].Suit), suitOrder(out[j].Suit)
		if si != sj {
			return si < sj
		}
		return out[i].Rank < out[j].Rank
	})
	return out
}

// ContainsCard reports whether card is in hand.
func ContainsCard(hand []Card, card Card) bool {
	return indexOfCard(hand, card) >= 0
}

// RemoveCard returns hand without the first occurrence of card.
func RemoveCard(hand []Card, card Card) []Card {
	idx := indexOfCard(hand, card)
	if idx < 0 {
		return hand
	}
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:idx]...)
	return append(out, hand[idx+1:]...)
}

func indexOfCard(hand []Card, card Card) int {
	for i, c := range hand {
		if c == card {
			return i
		}
	}
	return -1
}
