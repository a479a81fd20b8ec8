package ws

import (
	"errors"
	"fmt"

	"spades/internal/app"
	"spades/internal/domain"
)

// Client message types.
const (
	TypeCreateRoom    = "CREATE_ROOM"
	TypeJoinRoom      = "JOIN_ROOM"
	TypeLeaveRoom     = "LEAVE_ROOM"
	TypeKickPlayer    = "KICK_PLAYER"
	TypePromoteLeader = "PROMOTE_LEADER"
	TypeSetTurnOrder  = "SET_TURN_ORDER"
	TypeStartGame     = "START_GAME"
	TypeEndGame       = "END_GAME"
	TypePlayerAction  = "PLAYER_ACTION"
	TypeGetState      = "GET_STATE"
)

// Server message types.
const (
	TypeWelcome = "welcome"
	TypeEvent   = "event"
	TypeRoom    = "room"
	TypeState   = "state"
	TypeError   = "error"
)

type ClientMessage struct {
	Type      string         `json:"type"`
	RoomID    string         `json:"roomId,omitempty"`
	TargetID  string         `json:"targetId,omitempty"`
	TurnOrder []string       `json:"turnOrder,omitempty"`
	Action    *ActionMessage `json:"action,omitempty"`
}

// ErrBadAction is returned for a move whose bid or card is missing or malformed.
var ErrBadAction = errors.New("malformed action")

// ActionMessage is a game move on the wire. Pointer fields tell a missing bid or card
// apart from a nil bid.
type ActionMessage struct {
	Type domain.ActionType `json:"type"`
	Bid  *int              `json:"bid,omitempty"`
	Card *domain.Card      `json:"card,omitempty"`
}

// NewActionMessage converts a game action to its wire form.
func NewActionMessage(a domain.Action) *ActionMessage {
	msg := &ActionMessage{Type: a.Type}
	switch a.Type {
	case domain.ActionPlaceBid:
		bid := a.Bid
		msg.Bid = &bid
	case domain.ActionPlayCard:
		card := a.Card
		msg.Card = &card
	}
	return msg
}

// Action validates the message and returns the game action it carries.
func (m *ActionMessage) Action() (domain.Action, error) {
	if m == nil {
		return domain.Action{}, fmt.Errorf("%w: action is required", ErrBadAction)
	}
	switch m.Type {
	case domain.ActionPlaceBid:
		if m.Bid == nil {
			return domain.Action{}, fmt.Errorf("%w: bid is required", ErrBadAction)
		}
		return domain.Action{Type: m.Type, Bid: *m.Bid}, nil
	case domain.ActionPlayCard:
		if m.Card == nil || !m.Card.Valid() {
			return domain.Action{}, fmt.Errorf("%w: a valid card is required", ErrBadAction)
		}
		return domain.Action{Type: m.Type, Card: *m.Card}, nil
	default:
		return domain.Action{}, fmt.Errorf("%w: %q", domain.ErrUnknownAction, m.Type)
	}
}

type ServerMessage struct {
	Type   string             `json:"type"`
	RoomID string             `json:"roomId,omitempty"`
	UserID string             `json:"userId,omitempty"`
	Event  *EventView         `json:"event,omitempty"`
	Room   *RoomView          `json:"room,omitempty"`
	State  *domain.PlayerView `json:"state,omitempty"`
	Error  *ErrorView         `json:"error,omitempty"`
}

type EventView struct {
	Kind    app.EventKind `json:"kind"`
	Payload any           `json:"payload,omitempty"`
}

type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PlayerView struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Seat   int    `json:"seat"`
	Leader bool   `json:"leader"`
	Bot    bool   `json:"bot"`
}

// RoomView is the lobby snapshot with display names.
type RoomView struct {
	app.RoomState
	Players []PlayerView `json:"players"`
}
