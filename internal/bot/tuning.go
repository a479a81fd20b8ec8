package bot

// BotTuning weighs the holdings counted when estimating tricks for a bid.
type BotTuning struct {
	AceValue   float64
	KingValue  float64 // needs one guard
	QueenValue float64 // needs two guards and a higher honor in the suit

	SpadeHonorValue float64 // A, guarded K and doubly guarded Q of spades
	LongSpadeValue  float64 // each spade beyond the third
	ShortSuitValue  float64 // void side suit with spades to ruff; half for a singleton

	// BidBias is added to the estimate before rounding.
	BidBias float64
}

// DefaultTuning leans slightly conservative since a set costs ten points a trick.
var DefaultTuning = BotTuning{
	AceValue:        1.0,
	KingValue:       0.75,
	QueenValue:      0.4,
	SpadeHonorValue: 1.0,
	LongSpadeValue:  0.9,
	ShortSuitValue:  0.6,
	BidBias:         -0.2,
}
