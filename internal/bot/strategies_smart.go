package bot

import (
	"spades/internal/bot/brain"
	"spades/internal/domain"
)

// SmartBot is a StandardBot with card memory. It cashes boss cards on lead, trims
// its bid to what the table leaves, and ducks once its team has made the contract.
type SmartBot struct {
	Tuning BotTuning
	Memory *brain.GameMemory
}

func (b *SmartBot) CalculateMove(view domain.PlayerView) (domain.Action, error) {
	if b.Memory == nil {
		b.Memory = brain.NewMemory()
	}
	b.Memory.Observe(view)

	switch view.Phase {
	case domain.PhaseBidding:
		bid := BidFromEstimate(EstimateTricks(view.Hand, b.Tuning), b.Tuning)
		if room := domain.TricksPerRound - bidsSoFar(view); bid > room {
			bid = max(room, 0)
		}
		return bidAction(bid), nil
	case domain.PhaseTrickTaking:
		legal := legalPlays(view)
		if len(legal) == 0 {
			return domain.Action{}, ErrNoMove
		}
		if len(view.CurrentTrick) == 0 {
			return playAction(b.chooseLead(view, legal)), nil
		}
		return playAction(chooseFollow(view, legal, contractMade(view))), nil
	default:
		return domain.Action{}, ErrNoMove
	}
}

func (b *SmartBot) chooseLead(view domain.PlayerView, legal []domain.Card) domain.Card {
	est := brain.NewEstimator(b.Memory)
	opponents := []string{
		view.TurnOrder[(view.Seat+1)%domain.Seats],
		view.TurnOrder[(view.Seat+3)%domain.Seats],
	}
	if !contractMade(view) {
		var safe []domain.Card
		for _, c := range est.GetBossCards(legal) {
			if est.SafeLead(c, opponents) {
				safe = append(safe, c)
			}
		}
		if len(safe) > 0 {
			return highest(safe, "")
		}
	}
	return lowestOfLongestSuit(legal)
}

func bidsSoFar(view domain.PlayerView) int {
	total := 0
	for _, b := range view.Bids {
		if b != nil {
			total += *b
		}
	}
	return total
}

// contractMade reports whether the bot's team already took as many tricks as it bid.
func contractMade(view domain.PlayerView) bool {
	partner := view.TurnOrder[domain.PartnerSeat(view.Seat)]
	bid, won := 0, 0
	for _, id := range []string{view.PlayerID, partner} {
		if b := view.Bids[id]; b != nil {
			bid += *b
		}
		won += view.TricksWon[id]
	}
	return won >= bid
}
