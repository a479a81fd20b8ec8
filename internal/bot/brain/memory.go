package brain

import (
	"spades/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // Still in some other hand
	StatusMine                      // In the bot's hand
	StatusPlayed                    // Already on the table
)

// GameMemory stores the bot's private record of the current round.
type GameMemory struct {
	// DeckStatus tracks all 52 cards. Index = suit*13 + rank-2.
	DeckStatus [domain.DeckSize]CardStatus
	// Voids records the suits each player has shown out of.
	Voids map[string]map[domain.Suit]bool
	// Round is the round the memory belongs to.
	Round int
}

// NewMemory initializes a fresh memory state.
func NewMemory() *GameMemory {
	return &GameMemory{Voids: make(map[string]map[domain.Suit]bool)}
}

// Reset clears the memory for a new round.
func (m *GameMemory) Reset() {
	for i := range m.DeckStatus {
		m.DeckStatus[i] = StatusUnknown
	}
	m.Voids = make(map[string]map[domain.Suit]bool)
	m.Round = 0
}

// Observe folds a fresh view into memory. The previous and current tricks are
// enough to see every card played since the bot last acted.
func (m *GameMemory) Observe(view domain.PlayerView) {
	if view.Round != m.Round {
		m.Reset()
		m.Round = view.Round
	}
	m.UpdateHand(view.Hand)
	if view.LastTrick != nil {
		m.RecordTrick(view.LastTrick.Plays)
	}
	m.RecordTrick(view.CurrentTrick)
}

// MarkMine records the cards currently in the bot's hand.
func (m *GameMemory) MarkMine(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusMine
	}
}

// MarkPlayed records cards that have been played on the table.
func (m *GameMemory) MarkPlayed(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusPlayed
	}
}

// UpdateHand marks hand as Mine. Cards that left the hand can only have been played.
func (m *GameMemory) UpdateHand(hand []domain.Card) {
	held := make(map[domain.Card]bool, len(hand))
	for _, c := range hand {
		held[c] = true
	}
	for i, status := range m.DeckStatus {
		if status == StatusMine && !held[indexToCard(i)] {
			m.DeckStatus[i] = StatusPlayed
		}
	}
	m.MarkMine(hand)
}

// RecordTrick marks the plays as seen and notes every player who failed to follow.
func (m *GameMemory) RecordTrick(trick domain.Trick) {
	lead, ok := trick.LeadSuit()
	if !ok {
		return
	}
	for _, p := range trick {
		m.DeckStatus[cardToIndex(p.Card)] = StatusPlayed
		if p.Card.Suit != lead {
			if m.Voids[p.PlayerID] == nil {
				m.Voids[p.PlayerID] = make(map[domain.Suit]bool)
			}
			m.Voids[p.PlayerID][lead] = true
		}
	}
}

// IsVoid reports whether playerID has shown out of suit this round.
func (m *GameMemory) IsVoid(playerID string, suit domain.Suit) bool {
	return m.Voids[playerID][suit]
}

// IsBoss returns true if no higher card of the same suit is still unseen.
func (m *GameMemory) IsBoss(c domain.Card) bool {
	for r := c.Rank + 1; r <= domain.RankAce; r++ {
		if m.DeckStatus[cardToIndex(domain.Card{Suit: c.Suit, Rank: r})] == StatusUnknown {
			return false
		}
	}
	return true
}

// IsPlayed returns true if the card is already out of the round.
func (m *GameMemory) IsPlayed(c domain.Card) bool {
	return m.DeckStatus[cardToIndex(c)] == StatusPlayed
}

// Unseen counts the cards of suit still held by other players.
func (m *GameMemory) Unseen(suit domain.Suit) int {
	n := 0
	for r := domain.RankTwo; r <= domain.RankAce; r++ {
		if m.DeckStatus[cardToIndex(domain.Card{Suit: suit, Rank: r})] == StatusUnknown {
			n++
		}
	}
	return n
}

func suitIndex(s domain.Suit) int {
	for i, x := range domain.Suits {
		if x == s {
			return i
		}
	}
	return 0
}

func cardToIndex(c domain.Card) int {
	return suitIndex(c.Suit)*13 + int(c.Rank-domain.RankTwo)
}

func indexToCard(i int) domain.Card {
	return domain.Card{Suit: domain.Suits[i/13], Rank: domain.RankTwo + domain.Rank(i%13)}
}
