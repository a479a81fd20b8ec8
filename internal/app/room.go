package app

import (
	"errors"

	"spades/internal/domain"
)

// RoomStatus is the lobby lifecycle of a table.
type RoomStatus string

const (
	RoomOpen       RoomStatus = "open"
	RoomInProgress RoomStatus = "in_progress"
	RoomClosed     RoomStatus = "closed"
)

var (
	ErrRoomFull         = errors.New("room is full")
	ErrRoomClosed       = errors.New("room is closed")
	ErrAlreadySeated    = errors.New("player already seated")
	ErrNotSeated        = errors.New("player not seated")
	ErrBotCannotLead    = errors.New("bots cannot lead a room")
	ErrInvalidTurnOrder = errors.New("turn order must list every seated player once")
)

// RoomState is the lobby snapshot sent to clients.
type RoomState struct {
	ID      string     `json:"id"`
	Kind    GameKind   `json:"kind"`
	Status  RoomStatus `json:"status"`
	Leader  string     `json:"leader"`
	Seats   []string   `json:"seats"`
	Bots    []string   `json:"bots,omitempty"`
	Private bool       `json:"private"`
}

// Room is the lobby of one table: who sits where and who leads. Seat order is the
// turn order of the next game. Room is not safe for concurrent use; adapters
// serialize access the same way they serialize the session.
type Room struct {
	ID      string
	Kind    GameKind
	Private bool
	Status  RoomStatus
	Leader  string
	Seats   [domain.Seats]string

	bots map[string]bool
}

// NewRoom creates an empty open room.
func NewRoom(id string, kind GameKind) *Room {
	return &Room{ID: id, Kind: kind, Status: RoomOpen, bots: make(map[string]bool)}
}

// Join seats userID at the lowest free seat. The first human to join leads the room.
func (r *Room) Join(userID string, isBot bool) (int, []Event, error) {
	switch {
	case r.Status == RoomClosed:
		return -1, nil, ErrRoomClosed
	case r.Status == RoomInProgress:
		return -1, nil, ErrGameInProgress
	}
	if _, ok := domain.SeatOf(&r.Seats, userID); ok {
		return -1, nil, ErrAlreadySeated
	}
	seat, ok := domain.LowestAvailableSeat(&r.Seats)
	if !ok {
		return -1, nil, ErrRoomFull
	}

	r.Seats[seat] = userID
	if isBot {
		r.bots[userID] = true
	}
	owner := false
	if r.Leader == "" && !isBot {
		r.Leader = userID
		owner = true
	}
	return seat, []Event{{
		Kind:    EventPlayerJoined,
		Payload: PlayerJoinedPayload{UserID: userID, Seat: seat, Owner: owner, Bot: isBot},
	}}, nil
}

// Leave frees userID's seat. When the leader leaves, the human in the lowest seat
// takes over; with no humans left the room has no leader.
func (r *Room) Leave(userID string) ([]Event, error) {
	seat, ok := domain.SeatOf(&r.Seats, userID)
	if !ok {
		return nil, ErrNotSeated
	}
	r.Seats[seat] = ""
	delete(r.bots, userID)

	events := []Event{{Kind: EventPlayerLeft, Payload: PlayerLeftPayload{UserID: userID, Seat: seat}}}
	if r.Leader == userID {
		events = append(events, r.promoteNext()...)
	}
	return events, nil
}

// Kick removes target from an open room. Only the leader may kick.
func (r *Room) Kick(by, target string) ([]Event, error) {
	if err := r.checkLeader(by); err != nil {
		return nil, err
	}
	if r.Status != RoomOpen {
		return nil, ErrGameInProgress
	}
	if target == by {
		return nil, ErrNotOwner
	}
	seat, ok := domain.SeatOf(&r.Seats, target)
	if !ok {
		return nil, ErrNotSeated
	}
	r.Seats[seat] = ""
	delete(r.bots, target)
	return []Event{{Kind: EventPlayerKicked, Payload: PlayerKickedPayload{UserID: target, Seat: seat, By: by}}}, nil
}

// Promote hands leadership to another seated human.
func (r *Room) Promote(by, target string) ([]Event, error) {
	if err := r.checkLeader(by); err != nil {
		return nil, err
	}
	if _, ok := domain.SeatOf(&r.Seats, target); !ok {
		return nil, ErrNotSeated
	}
	if r.bots[target] {
		return nil, ErrBotCannotLead
	}
	r.Leader = target
	return []Event{{Kind: EventLeaderChanged, Payload: LeaderChangedPayload{UserID: target}}}, nil
}

// SetTurnOrder reseats the players in order, which must name every seated player
// exactly once. Remaining seats stay empty at the end.
func (r *Room) SetTurnOrder(by string, order []string) ([]Event, error) {
	if err := r.checkLeader(by); err != nil {
		return nil, err
	}
	if r.Status != RoomOpen {
		return nil, ErrGameInProgress
	}
	if len(order) != domain.SeatedCount(&r.Seats) {
		return nil, ErrInvalidTurnOrder
	}
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if _, ok := domain.SeatOf(&r.Seats, id); !ok || seen[id] {
			return nil, ErrInvalidTurnOrder
		}
		seen[id] = true
	}

	r.Seats = [domain.Seats]string{}
	copy(r.Seats[:], order)
	return []Event{{Kind: EventRoomUpdated, Payload: RoomUpdatedPayload{Room: r.State()}}}, nil
}

// CanStart returns the players in turn order if by may start a game now.
func (r *Room) CanStart(by string) ([]string, error) {
	if err := r.checkLeader(by); err != nil {
		return nil, err
	}
	switch r.Status {
	case RoomInProgress:
		return nil, ErrGameInProgress
	case RoomClosed:
		return nil, ErrRoomClosed
	}
	if domain.SeatedCount(&r.Seats) < MinPlayersToStartGame {
		return nil, ErrTooFewPlayers
	}
	return r.Players(), nil
}

// MarkStarted, MarkFinished and Close move the room through its lifecycle.
func (r *Room) MarkStarted() { r.Status = RoomInProgress }

func (r *Room) MarkFinished() {
	if r.Status == RoomInProgress {
		r.Status = RoomOpen
	}
}

func (r *Room) Close() { r.Status = RoomClosed }

// Players returns the seated players in seat order.
func (r *Room) Players() []string {
	out := make([]string, 0, domain.Seats)
	for _, id := range r.Seats {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Seated reports whether userID holds a seat.
func (r *Room) Seated(userID string) bool {
	_, ok := domain.SeatOf(&r.Seats, userID)
	return ok
}

// IsBot reports whether userID joined as a bot.
func (r *Room) IsBot(userID string) bool {
	return r.bots[userID]
}

// Count returns the number of occupied seats.
func (r *Room) Count() int {
	return domain.SeatedCount(&r.Seats)
}

// Humans returns the number of seated non-bot players.
func (r *Room) Humans() int {
	return r.Count() - len(r.bots)
}

// Full reports whether every seat is taken.
func (r *Room) Full() bool {
	return r.Count() == domain.Seats
}

// State returns a snapshot for clients.
func (r *Room) State() RoomState {
	st := RoomState{
		ID:      r.ID,
		Kind:    r.Kind,
		Status:  r.Status,
		Leader:  r.Leader,
		Seats:   append([]string(nil), r.Seats[:]...),
		Private: r.Private,
	}
	for _, id := range r.Seats {
		if r.bots[id] {
			st.Bots = append(st.Bots, id)
		}
	}
	return st
}

func (r *Room) checkLeader(userID string) error {
	if r.Status == RoomClosed {
		return ErrRoomClosed
	}
	if r.Leader == "" || r.Leader != userID {
		return ErrNotOwner
	}
	return nil
}

func (r *Room) promoteNext() []Event {
	r.Leader = ""
	for _, id := range r.Seats {
		if id != "" && !r.bots[id] {
			r.Leader = id
			return []Event{{Kind: EventLeaderChanged, Payload: LeaderChangedPayload{UserID: id}}}
		}
	}
	return nil
}
