package app

import (
	"errors"

	"spades/internal/domain"
)

// ErrorCode maps app and game rejections to the stable code sent to clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ErrGameInProgress):
		return "game_in_progress"
	case errors.Is(err, ErrNoGame):
		return "no_game"
	case errors.Is(err, ErrTooFewPlayers):
		return "too_few_players"
	case errors.Is(err, ErrUnknownGameKind):
		return "unknown_game_kind"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrRoomClosed):
		return "room_closed"
	case errors.Is(err, ErrAlreadySeated):
		return "already_seated"
	case errors.Is(err, ErrNotSeated):
		return "not_seated"
	case errors.Is(err, ErrBotCannotLead):
		return "bot_cannot_lead"
	case errors.Is(err, ErrInvalidTurnOrder):
		return "invalid_turn_order"
	case errors.Is(err, ErrSessionNotFound):
		return "room_not_found"
	case errors.Is(err, ErrInvalidInvite):
		return "invalid_invite"
	default:
		return domain.ErrorCode(err)
	}
}
