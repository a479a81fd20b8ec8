package app

import "spades/internal/domain"

// GameKind tags a game variant.
type GameKind string

// Game is the capability set every game variant exposes to sessions and transports.
// Implementations are not safe for concurrent use; Session serializes access.
type Game interface {
	Kind() GameKind
	Players() []string
	HandleAction(playerID string, action domain.Action) ([]Event, error)
	StateForPlayer(playerID string) (domain.PlayerView, error)
	PublicState() domain.PublicView
	CurrentPlayer() (string, bool)
	Over() bool
	// End forces the game over. It returns no events when the game already ended.
	End() []Event
}
