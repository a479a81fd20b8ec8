package bot

import (
	"errors"

	"spades/internal/domain"
)

// ErrNoMove is returned when the view offers nothing for the bot to do.
var ErrNoMove = errors.New("bot: no move available")

// Brain is the interface that all bot strategies must implement. The view is the
// bot's own PlayerView, so a brain never sees another seat's hand.
type Brain interface {
	CalculateMove(view domain.PlayerView) (domain.Action, error)
}
