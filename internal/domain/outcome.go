package domain

// BidRecorded describes an accepted bid.
type BidRecorded struct {
	PlayerID string `json:"player_id"`
	Bid      int    `json:"bid"`
}

// TrickResult describes a resolved trick.
type TrickResult struct {
	Number     int    `json:"number"`
	Plays      Trick  `json:"plays"`
	LeadSuit   Suit   `json:"lead_suit"`
	WinnerID   string `json:"winner_id"`
	WinnerSeat int    `json:"winner_seat"`
}

// PlayerRoundStats is one player's contribution to a round.
type PlayerRoundStats struct {
	PlayerID  string `json:"player_id"`
	Bid       int    `json:"bid"`
	TricksWon int    `json:"tricks_won"`
}

// TeamRoundStats is the per-team scoring breakdown of a round.
type TeamRoundStats struct {
	TeamID         int                `json:"team_id"`
	Players        []PlayerRoundStats `json:"players"`
	TotalBid       int                `json:"total_bid"`
	TotalTricksWon int                `json:"total_tricks_won"`
	RoundScore     int                `json:"round_score"`
	BagPenalty     int                `json:"bag_penalty"`
	Bags           int                `json:"bags"`
	TotalScore     int                `json:"total_score"`
}

// RoundSummary is produced when the thirteenth trick of a round resolves.
type RoundSummary struct {
	Round int               `json:"round"`
	Teams [2]TeamRoundStats `json:"teams"`
}

// Outcome reports everything a successful action changed, in the order it happened.
type Outcome struct {
	Bid             *BidRecorded
	BiddingComplete bool
	Play            *Play
	SpadesBroken    bool
	Trick           *TrickResult
	Round           *RoundSummary
	NewRound        bool
	GameOver        bool
	WinningTeam     int
}
