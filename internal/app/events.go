package app

import "spades/internal/domain"

// EventKind identifies emitted game events for transport dispatch.
type EventKind string

const (
	EventPlayerJoined       EventKind = "player_joined"
	EventPlayerLeft         EventKind = "player_left"
	EventGameStarted        EventKind = "game_started"
	EventHandDealt          EventKind = "hand_dealt"
	EventBidRecorded        EventKind = "bid_recorded"
	EventTrickTakingStarted EventKind = "trick_taking_started"
	EventCardPlayed         EventKind = "card_played"
	EventSpadesBroken       EventKind = "spades_broken"
	EventTrickCompleted     EventKind = "trick_completed"
	EventRoundEnded         EventKind = "round_ended"
	EventNewRoundStarted    EventKind = "new_round_started"
	EventGameOver           EventKind = "game_over"
	EventGameEnded          EventKind = "game_ended"
	EventPlayerKicked       EventKind = "player_kicked"
	EventLeaderChanged      EventKind = "leader_changed"
	EventRoomUpdated        EventKind = "room_updated"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

// Private reports whether the event is addressed to specific players only.
func (e Event) Private() bool {
	return len(e.Recipients) > 0
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Owner  bool   `json:"owner"`
	Bot    bool   `json:"bot"`
}

type PlayerLeftPayload struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
}

type GameStartedPayload struct {
	GameKind        GameKind      `json:"game_kind"`
	Phase           domain.Phase  `json:"phase"`
	Round           int           `json:"round"`
	TurnOrder       []string      `json:"turn_order"`
	Teams           []domain.Team `json:"teams"`
	FirstTurnUserID string        `json:"first_turn_user_id"`
}

type HandDealtPayload struct {
	UserID string        `json:"user_id"`
	Round  int           `json:"round"`
	Hand   []domain.Card `json:"hand"`
}

type BidRecordedPayload struct {
	UserID         string `json:"user_id"`
	Bid            int    `json:"bid"`
	NextTurnUserID string `json:"next_turn_user_id"`
}

type TrickTakingStartedPayload struct {
	Bids       map[string]int `json:"bids"`
	LeadUserID string         `json:"lead_user_id"`
}

type CardPlayedPayload struct {
	UserID         string      `json:"user_id"`
	Card           domain.Card `json:"card"`
	NextTurnUserID string      `json:"next_turn_user_id,omitempty"`
}

type SpadesBrokenPayload struct {
	UserID string `json:"user_id"`
}

type TrickCompletedPayload struct {
	Number    int            `json:"number"`
	Plays     domain.Trick   `json:"plays"`
	LeadSuit  domain.Suit    `json:"lead_suit"`
	WinnerID  string         `json:"winner_id"`
	TricksWon map[string]int `json:"tricks_won"`
}

type RoundEndedPayload struct {
	Summary domain.RoundSummary `json:"summary"`
}

type NewRoundStartedPayload struct {
	Round           int         `json:"round"`
	Scores          map[int]int `json:"scores"`
	FirstTurnUserID string      `json:"first_turn_user_id"`
}

type GameOverPayload struct {
	WinningTeam    int         `json:"winning_team"`
	WinningPlayers []string    `json:"winning_players"`
	Scores         map[int]int `json:"scores"`
}

// Game end reasons.
const (
	EndReasonCompleted = "completed"
	EndReasonAborted   = "aborted"
)

type GameEndedPayload struct {
	Reason string      `json:"reason"`
	Scores map[int]int `json:"scores"`
}

type PlayerKickedPayload struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	By     string `json:"by"`
}

type LeaderChangedPayload struct {
	UserID string `json:"user_id"`
}

type RoomUpdatedPayload struct {
	Room RoomState `json:"room"`
}
