package ws

import (
	"sync"

	"spades/internal/app"
	"spades/internal/bot"
)

// room pairs a lobby with the connections seated in it.
type room struct {
	id string

	// mu serializes lobby and game operations on the room. Session events are
	// delivered while it is held, so delivery only takes peersMu.
	mu    sync.Mutex
	lobby *app.Room
	bots  map[string]*bot.Agent

	peersMu sync.RWMutex
	peers   map[string]*client
}

func newRoom(id string) *room {
	return &room{
		id:    id,
		lobby: app.NewRoom(id, app.KindSpades),
		bots:  make(map[string]*bot.Agent),
		peers: make(map[string]*client),
	}
}

func (r *room) addPeer(c *client) {
	r.peersMu.Lock()
	r.peers[c.id] = c
	r.peersMu.Unlock()
}

func (r *room) removePeer(id string) {
	r.peersMu.Lock()
	delete(r.peers, id)
	r.peersMu.Unlock()
}

func (r *room) peer(id string) (*client, bool) {
	r.peersMu.RLock()
	defer r.peersMu.RUnlock()
	c, ok := r.peers[id]
	return c, ok
}

func (r *room) broadcast(msg ServerMessage) {
	r.peersMu.RLock()
	defer r.peersMu.RUnlock()
	for _, c := range r.peers {
		c.enqueue(msg)
	}
}

// deliver sends ev to its recipients, or to every peer when it is public.
func (r *room) deliver(ev app.Event) {
	msg := ServerMessage{Type: TypeEvent, RoomID: r.id, Event: &EventView{Kind: ev.Kind, Payload: ev.Payload}}
	if !ev.Private() {
		r.broadcast(msg)
		return
	}
	for _, id := range ev.Recipients {
		if c, ok := r.peer(id); ok {
			c.enqueue(msg)
		}
	}
}

func (r *room) deliverAll(events []app.Event) {
	for _, ev := range events {
		r.deliver(ev)
	}
}

// view builds the lobby snapshot. Callers hold mu.
func (r *room) view() *RoomView {
	v := &RoomView{RoomState: r.lobby.State()}
	for seat, id := range r.lobby.Seats {
		if id == "" {
			continue
		}
		p := PlayerView{UserID: id, Name: id, Seat: seat, Leader: id == r.lobby.Leader, Bot: r.lobby.IsBot(id)}
		if c, ok := r.peer(id); ok && c.name != "" {
			p.Name = c.name
		} else if agent, ok := r.bots[id]; ok && agent.Name != "" {
			p.Name = agent.Name
		}
		v.Players = append(v.Players, p)
	}
	return v
}

func (r *room) broadcastView() {
	r.broadcast(ServerMessage{Type: TypeRoom, RoomID: r.id, Room: r.view()})
}
