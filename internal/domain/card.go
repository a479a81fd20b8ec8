package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit is one of the four card suits.
type Suit string

const (
	SuitSpades   Suit = "S"
	SuitHearts   Suit = "H"
	SuitClubs    Suit = "C"
	SuitDiamonds Suit = "D"
)

// Suits lists the suits in presentation order (Spades, Hearts, Clubs, Diamonds).
var Suits = [4]Suit{SuitSpades, SuitHearts, SuitClubs, SuitDiamonds}

// Rank is the face value of a card, 2 through 14 (ace high).
type Rank int

const (
	RankTwo   Rank = 2
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

// Card is an immutable playing card. Two cards are equal when suit and rank match.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// TwoOfClubs holds the opening lead of every round.
var TwoOfClubs = Card{Suit: SuitClubs, Rank: RankTwo}

// Valid reports whether the card belongs to a standard 52-card deck.
func (c Card) Valid() bool {
	if c.Rank < RankTwo || c.Rank > RankAce {
		return false
	}
	switch c.Suit {
	case SuitSpades, SuitHearts, SuitClubs, SuitDiamonds:
		return true
	default:
		return false
	}
}

func (r Rank) String() string {
	switch r {
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	default:
		if r >= RankTwo && r <= RankTen {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

func (s Suit) String() string {
	switch s {
	case SuitSpades:
		return "Spades"
	case SuitHearts:
		return "Hearts"
	case SuitClubs:
		return "Clubs"
	case SuitDiamonds:
		return "Diamonds"
	default:
		return "?"
	}
}

// String renders the card as rank followed by suit letter, e.g. "10H" or "AS".
func (c Card) String() string {
	return c.Rank.String() + string(c.Suit)
}

// ParseCard parses the String form of a card ("QS", "10h", "2C").
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	suit := Suit(s[len(s)-1:])
	rank, err := ParseRank(s[:len(s)-1])
	if err != nil {
		return Card{}, err
	}
	c := Card{Suit: suit, Rank: rank}
	if !c.Valid() {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	return c, nil
}

// ParseRank parses a rank symbol: 2..10, J, Q, K, A.
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "J":
		return RankJack, nil
	case "Q":
		return RankQueen, nil
	case "K":
		return RankKing, nil
	case "A":
		return RankAce, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s || n < 2 || n > 10 {
		return 0, fmt.Errorf("invalid rank %q", s)
	}
	return Rank(n), nil
}
