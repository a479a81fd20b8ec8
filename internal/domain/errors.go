package domain

import "errors"

// Rejections returned by the game. All of them leave the game untouched.
var (
	ErrInvalidPlayerCount = errors.New("spades requires exactly 4 distinct players")
	ErrWrongPhase         = errors.New("action not allowed in current phase")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInvalidBid         = errors.New("bid must be between 0 and 13")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrIllegalPlay        = errors.New("illegal play")
	ErrUnknownPlayer      = errors.New("player not in game")
	ErrUnknownAction      = errors.New("unknown action type")
)

// ErrorCode maps a rejection to the stable code sent to clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPlayerCount):
		return "invalid_player_count"
	case errors.Is(err, ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrInvalidBid):
		return "invalid_bid"
	case errors.Is(err, ErrCardNotInHand):
		return "card_not_in_hand"
	case errors.Is(err, ErrIllegalPlay):
		return "illegal_play"
	case errors.Is(err, ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	default:
		return "internal"
	}
}
