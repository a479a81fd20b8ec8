package bot

import (
	"math"
	"sort"

	"spades/internal/domain"
)

// StandardBot bids on honors and long spades and plays the cheapest card that wins,
// or its lowest card when it cannot win or its partner already holds the trick.
type StandardBot struct {
	Tuning BotTuning
}

func (b *StandardBot) CalculateMove(view domain.PlayerView) (domain.Action, error) {
	switch view.Phase {
	case domain.PhaseBidding:
		return bidAction(BidFromEstimate(EstimateTricks(view.Hand, b.Tuning), b.Tuning)), nil
	case domain.PhaseTrickTaking:
		legal := legalPlays(view)
		if len(legal) == 0 {
			return domain.Action{}, ErrNoMove
		}
		if len(view.CurrentTrick) == 0 {
			return playAction(lowestOfLongestSuit(legal)), nil
		}
		return playAction(chooseFollow(view, legal, false)), nil
	default:
		return domain.Action{}, ErrNoMove
	}
}

// EstimateTricks counts the tricks a hand is expected to take.
func EstimateTricks(hand []domain.Card, t BotTuning) float64 {
	bySuit := make(map[domain.Suit][]domain.Rank, len(domain.Suits))
	for _, c := range hand {
		bySuit[c.Suit] = append(bySuit[c.Suit], c.Rank)
	}
	spades := bySuit[domain.SuitSpades]

	est := 0.0
	for _, suit := range domain.Suits {
		ranks := bySuit[suit]
		n := len(ranks)
		hasAce := hasRank(ranks, domain.RankAce)
		hasKing := hasRank(ranks, domain.RankKing)

		if suit == domain.SuitSpades {
			honors := 0
			if hasAce {
				honors++
			}
			if hasKing && n >= 2 {
				honors++
			}
			if hasRank(ranks, domain.RankQueen) && n >= 3 {
				honors++
			}
			est += float64(honors) * t.SpadeHonorValue
			if long := n - 3; long > 0 {
				est += float64(min(long, n-honors)) * t.LongSpadeValue
			}
			continue
		}

		if hasAce {
			est += t.AceValue
		}
		if hasKing && n >= 2 {
			est += t.KingValue
		}
		if hasRank(ranks, domain.RankQueen) && n >= 3 && (hasAce || hasKing) {
			est += t.QueenValue
		}
		if len(spades) > 0 && n <= 1 {
			est += t.ShortSuitValue * float64(2-n) / 2
		}
	}
	return est
}

// BidFromEstimate rounds an estimate into the legal bid range.
func BidFromEstimate(est float64, t BotTuning) int {
	bid := int(math.Round(est + t.BidBias))
	if bid < 0 {
		return 0
	}
	if bid > domain.MaxBid {
		return domain.MaxBid
	}
	return bid
}

func hasRank(ranks []domain.Rank, r domain.Rank) bool {
	for _, x := range ranks {
		if x == r {
			return true
		}
	}
	return false
}

func bidAction(bid int) domain.Action {
	return domain.Action{Type: domain.ActionPlaceBid, Bid: bid}
}

func playAction(c domain.Card) domain.Action {
	return domain.Action{Type: domain.ActionPlayCard, Card: c}
}

func legalPlays(view domain.PlayerView) []domain.Card {
	if len(view.LegalPlays) > 0 {
		return view.LegalPlays
	}
	return domain.LegalPlays(view.Hand, view.CurrentTrick, view.SpadesBroken)
}

// wins reports whether playing c now would take the lead of the trick.
func wins(view domain.PlayerView, c domain.Card) bool {
	lead, ok := view.CurrentTrick.LeadSuit()
	if !ok {
		return true
	}
	trial := append(append(domain.Trick(nil), view.CurrentTrick...), domain.Play{PlayerID: view.PlayerID, Card: c})
	return domain.ResolveTrick(trial, lead) == view.PlayerID
}

// chooseFollow picks a card when the trick is already led. With duck set the bot
// avoids taking the trick whenever it can.
func chooseFollow(view domain.PlayerView, legal []domain.Card, duck bool) domain.Card {
	lead, _ := view.CurrentTrick.LeadSuit()
	winner := domain.ResolveTrick(view.CurrentTrick, lead)
	partner := view.TurnOrder[domain.PartnerSeat(view.Seat)]

	var winning, losing []domain.Card
	for _, c := range legal {
		if wins(view, c) {
			winning = append(winning, c)
		} else {
			losing = append(losing, c)
		}
	}

	if duck {
		if len(losing) > 0 {
			return highest(losing, lead)
		}
		return lowest(winning, lead)
	}
	if winner == partner || len(winning) == 0 {
		return lowest(legal, lead)
	}
	return lowest(winning, lead)
}

// strength orders cards for play: spades trump any other suit, and inside each group
// higher ranks are stronger. Off-suit discards are weaker than lead-suit cards.
func strength(c domain.Card, lead domain.Suit) int {
	switch {
	case c.Suit == domain.SuitSpades && lead != domain.SuitSpades:
		return 200 + int(c.Rank)
	case c.Suit == lead:
		return 100 + int(c.Rank)
	default:
		return int(c.Rank)
	}
}

func lowest(cards []domain.Card, lead domain.Suit) domain.Card {
	sorted := sortByStrength(cards, lead)
	return sorted[0]
}

func highest(cards []domain.Card, lead domain.Suit) domain.Card {
	sorted := sortByStrength(cards, lead)
	return sorted[len(sorted)-1]
}

func sortByStrength(cards []domain.Card, lead domain.Suit) []domain.Card {
	sorted := append([]domain.Card(nil), cards...)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := strength(sorted[i], lead), strength(sorted[j], lead)
		if si != sj {
			return si < sj
		}
		return sorted[i].Suit < sorted[j].Suit
	})
	return sorted
}

// lowestOfLongestSuit leads the smallest card of the longest side suit, keeping
// spades back unless nothing else is legal.
func lowestOfLongestSuit(legal []domain.Card) domain.Card {
	count := make(map[domain.Suit]int, len(domain.Suits))
	for _, c := range legal {
		count[c.Suit]++
	}
	best := domain.Suit("")
	for _, suit := range domain.Suits {
		if suit == domain.SuitSpades || count[suit] == 0 {
			continue
		}
		if best == "" || count[suit] > count[best] {
			best = suit
		}
	}
	if best == "" {
		best = domain.SuitSpades
	}
	var pick domain.Card
	for _, c := range legal {
		if c.Suit == best && (pick.Rank == 0 || c.Rank < pick.Rank) {
			pick = c
		}
	}
	return pick
}
