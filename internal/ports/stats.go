package ports

import "context"

// PlayerStats is the lifetime record kept for every human player.
type PlayerStats struct {
	GamesPlayed  int `json:"games_played"`
	GamesWon     int `json:"games_won"`
	GamesAborted int `json:"games_aborted"`
	RoundsPlayed int `json:"rounds_played"`
	BestScore    int `json:"best_score"`
}

// GameResult is one player's outcome of a finished or aborted game.
type GameResult struct {
	UserID    string
	Won       bool
	Aborted   bool
	TeamScore int
	Rounds    int
}

// Apply folds r into s.
func (s *PlayerStats) Apply(r GameResult) {
	s.GamesPlayed++
	s.RoundsPlayed += r.Rounds
	switch {
	case r.Aborted:
		s.GamesAborted++
		return
	case r.Won:
		s.GamesWon++
	}
	if s.GamesPlayed == 1 || r.TeamScore > s.BestScore {
		s.BestScore = r.TeamScore
	}
}

// StatsPort persists player statistics.
type StatsPort interface {
	// InitStats creates an empty record for a new user. Returns created=false when a
	// record already exists.
	InitStats(ctx context.Context, userID string) (bool, error)

	// RecordResults applies each result to its player's record.
	RecordResults(ctx context.Context, results []GameResult) error

	// GetStats returns the record for userID, or an empty record if none exists.
	GetStats(ctx context.Context, userID string) (PlayerStats, error)
}
