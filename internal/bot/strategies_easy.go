package bot

import (
	"math/rand"

	"spades/internal/domain"
)

// EasyBot bids its honor count and plays any legal card at random.
type EasyBot struct {
	Rng *rand.Rand
}

func (b *EasyBot) CalculateMove(view domain.PlayerView) (domain.Action, error) {
	switch view.Phase {
	case domain.PhaseBidding:
		est := EstimateTricks(view.Hand, BotTuning{AceValue: 1, KingValue: 1, SpadeHonorValue: 1})
		return bidAction(BidFromEstimate(est, BotTuning{})), nil
	case domain.PhaseTrickTaking:
		legal := legalPlays(view)
		if len(legal) == 0 {
			return domain.Action{}, ErrNoMove
		}
		return playAction(legal[b.intn(len(legal))]), nil
	default:
		return domain.Action{}, ErrNoMove
	}
}

func (b *EasyBot) intn(n int) int {
	if b.Rng == nil {
		return rand.Intn(n)
	}
	return b.Rng.Intn(n)
}
