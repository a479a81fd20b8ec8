package app

import (
	"spades/internal/domain"
	"spades/internal/ports"
)

// GameResults turns the final public state of a game into per-player results.
// include filters the players to record, typically to skip bots; nil keeps everyone.
func GameResults(view domain.PublicView, aborted bool, include func(userID string) bool) []ports.GameResult {
	scores := make(map[int]int, len(view.Teams))
	for _, t := range view.Teams {
		scores[t.ID] = t.Score
	}
	out := make([]ports.GameResult, 0, len(view.Players))
	for _, p := range view.Players {
		if include != nil && !include(p.ID) {
			continue
		}
		out = append(out, ports.GameResult{
			UserID:    p.ID,
			Won:       !aborted && view.WinningTeam != 0 && p.TeamID == view.WinningTeam,
			Aborted:   aborted,
			TeamScore: scores[p.TeamID],
			Rounds:    view.Round,
		})
	}
	return out
}
