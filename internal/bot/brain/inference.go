package brain

import (
	"spades/internal/domain"
)

// Estimator answers questions about the unseen cards from memory.
type Estimator struct {
	Memory *GameMemory
}

// NewEstimator creates a new reasoning engine.
func NewEstimator(m *GameMemory) *Estimator {
	return &Estimator{Memory: m}
}

// GetBossCards returns the cards in hand that are the highest unseen of their suit.
func (e *Estimator) GetBossCards(hand []domain.Card) []domain.Card {
	var bossCards []domain.Card
	for _, c := range hand {
		if e.Memory.IsBoss(c) {
			bossCards = append(bossCards, c)
		}
	}
	return bossCards
}

// SafeLead reports whether leading boss card c should hold the trick: no opponent
// is known to be out of the suit, so nobody can trump it. Spades cannot be trumped.
func (e *Estimator) SafeLead(c domain.Card, opponents []string) bool {
	if !e.Memory.IsBoss(c) {
		return false
	}
	if c.Suit == domain.SuitSpades {
		return true
	}
	for _, id := range opponents {
		if e.Memory.IsVoid(id, c.Suit) {
			return false
		}
	}
	return true
}
