package ws

import (
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"spades/internal/app"
	"spades/internal/bot"
	"spades/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/heroiclabs/nakama-common/runtime"
)

// maxBotSteps bounds one run of consecutive bot moves.
const maxBotSteps = domain.Seats * (domain.TricksPerRound + 1) * 2

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub routes client messages to rooms and fans session events out to the
// connections seated in each room. It is safe for concurrent use.
type Hub struct {
	store       *app.Store
	logger      runtime.Logger
	botsEnabled bool

	rngMu sync.Mutex
	rng   *rand.Rand

	mu    sync.RWMutex
	rooms map[string]*room
}

// NewHub creates a hub whose games are built by svc. Bots fill empty seats when the
// leader starts a game if botsEnabled is set.
func NewHub(svc *app.Service, logger runtime.Logger, botsEnabled bool) *Hub {
	h := &Hub{
		logger:      logger,
		botsEnabled: botsEnabled,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		rooms:       make(map[string]*room),
	}
	h.store = app.NewStore(svc, h)
	return h
}

// ServeHTTP upgrades the request and serves the connection until it closes. The
// optional "name" query parameter sets the player's display name.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws: upgrade: %v", err)
		return
	}

	c := newClient(h, conn, uuid.NewString(), r.URL.Query().Get("name"))
	h.logger.Info("ws: %s connected", c.id)
	c.enqueue(ServerMessage{Type: TypeWelcome, UserID: c.id})

	go c.writePump()
	c.readPump()
}

// Notify implements app.Notifier. Sessions are registered under their room id.
func (h *Hub) Notify(sessionID string, events []app.Event) {
	r, ok := h.room(sessionID)
	if !ok {
		return
	}
	r.deliverAll(events)
}

// Rooms returns the number of open rooms.
func (h *Hub) Rooms() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) room(id string) (*room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[id]
	return r, ok
}

// Handle executes one client message.
func (h *Hub) Handle(c *client, msg ClientMessage) {
	switch msg.Type {
	case TypeCreateRoom:
		h.createRoom(c)
	case TypeJoinRoom:
		r, ok := h.room(msg.RoomID)
		if !ok {
			h.reject(c, app.ErrSessionNotFound)
			return
		}
		h.join(c, r)
	case TypeLeaveRoom:
		h.leave(c)
	case TypeKickPlayer, TypePromoteLeader, TypeSetTurnOrder:
		h.withRoom(c, func(r *room) error { return h.lobbyCommand(c, r, msg) })
	case TypeStartGame:
		h.withRoom(c, func(r *room) error { return h.startGame(c, r) })
	case TypeEndGame:
		h.withRoom(c, func(r *room) error { return h.endGame(c, r) })
	case TypePlayerAction:
		h.withRoom(c, func(r *room) error { return h.playerAction(c, r, msg.Action) })
	case TypeGetState:
		h.withRoom(c, func(r *room) error { return h.sendState(c, r) })
	default:
		c.sendError("unknown_type", "unknown message type")
	}
}

func (h *Hub) reject(c *client, err error) {
	if errors.Is(err, ErrBadAction) {
		c.sendError("bad_request", err.Error())
		return
	}
	c.sendError(app.ErrorCode(err), err.Error())
}

// withRoom runs fn on the client's room with the room lock held.
func (h *Hub) withRoom(c *client, fn func(r *room) error) {
	r, ok := h.room(c.room())
	if !ok {
		h.reject(c, app.ErrNotSeated)
		return
	}
	r.mu.Lock()
	err := fn(r)
	r.mu.Unlock()
	if err != nil {
		h.logger.Debug("ws: %s in room %s: %v", c.id, r.id, err)
		h.reject(c, err)
	}
}

func (h *Hub) createRoom(c *client) {
	if c.room() != "" {
		h.reject(c, app.ErrAlreadySeated)
		return
	}
	r := newRoom(uuid.NewString())
	h.mu.Lock()
	h.rooms[r.id] = r
	h.mu.Unlock()
	h.logger.Info("ws: %s created room %s", c.id, r.id)
	h.join(c, r)
}

func (h *Hub) join(c *client, r *room) {
	if c.room() != "" {
		h.reject(c, app.ErrAlreadySeated)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, events, err := r.lobby.Join(c.id, false)
	if err != nil {
		h.reject(c, err)
		return
	}
	r.addPeer(c)
	c.setRoom(r.id)
	r.deliverAll(events)
	r.broadcastView()
}

// leave unseats the client. A player leaving a running game aborts it; the room
// closes once no humans remain.
func (h *Hub) leave(c *client) {
	r, ok := h.room(c.room())
	if !ok {
		c.setRoom("")
		return
	}

	r.mu.Lock()
	if r.lobby.Status == app.RoomInProgress {
		h.logger.Info("ws: %s left room %s mid-game, ending game", c.id, r.id)
		h.finishGame(r)
	}
	events, err := r.lobby.Leave(c.id)
	r.removePeer(c.id)
	c.setRoom("")
	if err == nil {
		r.deliverAll(events)
		r.broadcastView()
	}
	empty := r.lobby.Humans() == 0
	if empty {
		r.lobby.Close()
	}
	r.mu.Unlock()

	if empty {
		h.mu.Lock()
		delete(h.rooms, r.id)
		h.mu.Unlock()
		h.logger.Info("ws: room %s closed", r.id)
	}
}

func (h *Hub) disconnect(c *client) {
	h.leave(c)
	c.close()
	h.logger.Info("ws: %s disconnected", c.id)
}

func (h *Hub) lobbyCommand(c *client, r *room, msg ClientMessage) error {
	var (
		events []app.Event
		err    error
	)
	switch msg.Type {
	case TypeKickPlayer:
		events, err = r.lobby.Kick(c.id, msg.TargetID)
		if err != nil {
			return err
		}
		delete(r.bots, msg.TargetID)
		r.deliverAll(events)
		if target, ok := r.peer(msg.TargetID); ok {
			r.removePeer(target.id)
			target.setRoom("")
		}
		r.broadcastView()
		return nil
	case TypePromoteLeader:
		events, err = r.lobby.Promote(c.id, msg.TargetID)
	case TypeSetTurnOrder:
		events, err = r.lobby.SetTurnOrder(c.id, msg.TurnOrder)
	}
	if err != nil {
		return err
	}
	r.deliverAll(events)
	r.broadcastView()
	return nil
}

func (h *Hub) startGame(c *client, r *room) error {
	if h.botsEnabled && r.lobby.Leader == c.id && r.lobby.Status == app.RoomOpen {
		h.fillWithBots(r)
	}
	players, err := r.lobby.CanStart(c.id)
	if err != nil {
		return err
	}
	if _, err := h.store.CreateWithID(r.id, r.lobby.Kind, players); err != nil {
		return err
	}
	r.lobby.MarkStarted()
	h.logger.Info("ws: room %s started with %v", r.id, players)

	h.driveBots(r)
	return nil
}

func (h *Hub) endGame(c *client, r *room) error {
	if r.lobby.Status != app.RoomInProgress {
		return app.ErrNoGame
	}
	if r.lobby.Leader != c.id {
		return app.ErrNotOwner
	}
	h.finishGame(r)
	r.broadcastView()
	return nil
}

func (h *Hub) playerAction(c *client, r *room, msg *ActionMessage) error {
	action, err := msg.Action()
	if err != nil {
		return err
	}
	sess, ok := h.store.Get(r.id)
	if !ok {
		return app.ErrNoGame
	}
	if err := sess.HandleAction(c.id, action); err != nil {
		return err
	}
	h.driveBots(r)
	return nil
}

func (h *Hub) sendState(c *client, r *room) error {
	sess, ok := h.store.Get(r.id)
	if !ok {
		c.enqueue(ServerMessage{Type: TypeRoom, RoomID: r.id, Room: r.view()})
		return nil
	}
	view, err := sess.StateFor(c.id)
	if err != nil {
		return err
	}
	c.enqueue(ServerMessage{Type: TypeState, RoomID: r.id, State: &view})
	return nil
}

// fillWithBots seats a bot in every empty seat. Callers hold r.mu.
func (h *Hub) fillWithBots(r *room) {
	for i := 0; !r.lobby.Full(); i++ {
		identity := bot.GetBotIdentity(i)
		if r.lobby.Seated(identity.UserID) {
			identity.UserID = bot.NewBotID()
		}
		_, events, err := r.lobby.Join(identity.UserID, true)
		if err != nil {
			h.logger.Error("ws: failed to seat bot in room %s: %v", r.id, err)
			return
		}
		h.rngMu.Lock()
		seed := h.rng.Int63()
		h.rngMu.Unlock()
		agent, err := bot.NewAgent(identity, rand.New(rand.NewSource(seed)))
		if err != nil {
			h.logger.Error("ws: failed to create bot agent: %v", err)
		} else {
			r.bots[identity.UserID] = agent
		}
		r.deliverAll(events)
	}
	r.broadcastView()
}

// driveBots plays bot turns until a human is to act, then wraps up a finished
// game. Callers hold r.mu.
func (h *Hub) driveBots(r *room) {
	sess, ok := h.store.Get(r.id)
	if !ok {
		return
	}
	for step := 0; step < maxBotSteps; step++ {
		current, ok := sess.CurrentPlayer()
		if !ok {
			break
		}
		agent, isBot := r.bots[current]
		if !isBot {
			break
		}
		view, err := sess.StateFor(current)
		if err != nil {
			h.logger.Error("ws: bot %s state: %v", current, err)
			break
		}
		action, err := agent.Act(view)
		if err != nil {
			h.logger.Error("ws: bot %s failed to calculate move: %v", current, err)
			break
		}
		if err := sess.HandleAction(current, action); err != nil {
			h.logger.Error("ws: bot %s action %+v rejected: %v", current, action, err)
			break
		}
	}
	if sess.Over() {
		h.finishGame(r)
		r.broadcastView()
	}
}

// finishGame ends and unregisters the room's session. Callers hold r.mu.
func (h *Hub) finishGame(r *room) {
	if err := h.store.Remove(r.id); err != nil && !errors.Is(err, app.ErrSessionNotFound) {
		h.logger.Error("ws: failed to remove session %s: %v", r.id, err)
	}
	r.lobby.MarkFinished()
}
