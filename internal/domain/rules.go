package domain

// Play is one card laid on the table by a player.
type Play struct {
	PlayerID string `json:"player_id"`
	Card     Card   `json:"card"`
}

// Trick is the ordered list of plays for the trick in progress.
type Trick []Play

// LeadSuit returns the suit of the first play, if any.
func (t Trick) LeadSuit() (Suit, bool) {
	if len(t) == 0 {
		return "", false
	}
	return t[0].Card.Suit, true
}

// CardRank maps a card to its strength within a suit: 2..10, J=11, Q=12, K=13, A=14.
func CardRank(c Card) int {
	return int(c.Rank)
}

// IsLegalLead reports whether card may open a trick. Spades may only be led once
// broken, unless the hand holds nothing but spades.
func IsLegalLead(hand []Card, card Card, spadesBroken bool) bool {
	if card.Suit != SuitSpades || spadesBroken {
		return true
	}
	return onlySpades(hand)
}

// IsLegalFollow reports whether card may be played to a trick led in leadSuit.
// A player holding the lead suit must follow it.
func IsLegalFollow(hand []Card, card Card, leadSuit Suit) bool {
	if card.Suit == leadSuit {
		return true
	}
	return !hasSuit(hand, leadSuit)
}

// ResolveTrick returns the id of the player who wins the trick. Only cards of the
// lead suit or spades can win; any spade beats any non-spade.
func ResolveTrick(trick Trick, leadSuit Suit) string {
	if len(trick) == 0 {
		return ""
	}
	best := trick[0]
	for _, p := range trick[1:] {
		if beats(p.Card, best.Card, leadSuit) {
			best = p
		}
	}
	return best.PlayerID
}

func beats(c, best Card, leadSuit Suit) bool {
	switch {
	case c.Suit == best.Suit:
		return CardRank(c) > CardRank(best)
	case c.Suit == SuitSpades:
		return true
	case best.Suit == SuitSpades:
		return false
	default:
		return c.Suit == leadSuit && best.Suit != leadSuit
	}
}

// ComputeRoundScore scores one team for a round: a made contract earns ten per bid
// trick plus one per overtrick, a set contract loses ten per bid trick.
func ComputeRoundScore(teamBid, teamTricksWon int) int {
	if teamTricksWon >= teamBid {
		return teamBid*10 + (teamTricksWon - teamBid)
	}
	return -teamBid * 10
}

// LegalPlays lists the cards in hand that may be played to trick.
func LegalPlays(hand []Card, trick Trick, spadesBroken bool) []Card {
	out := make([]Card, 0, len(hand))
	lead, following := trick.LeadSuit()
	for _, c := range hand {
		if following {
			if IsLegalFollow(hand, c, lead) {
				out = append(out, c)
			}
			continue
		}
		if IsLegalLead(hand, c, spadesBroken) {
			out = append(out, c)
		}
	}
	return out
}

func hasSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func onlySpades(hand []Card) bool {
	for _, c := range hand {
		if c.Suit != SuitSpades {
			return false
		}
	}
	return true
}
