package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"spades/internal/app"
	"spades/internal/bot"
	"spades/internal/config"
	"spades/internal/domain"
	"spades/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	labelGame         = "spades"
	labelPhaseLobby   = "lobby"
	labelPhasePlaying = "playing"

	// inviteMetadataKey carries the invite token in join metadata for private tables.
	inviteMetadataKey = "invite"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	MatchID   string                      `json:"match_id"`
	Room      *app.Room                   `json:"-"` // Seats, leader and lobby status
	Presences map[string]runtime.Presence `json:"-"` // Map UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"` // Game factory
	Session   *app.Session                `json:"-"` // Current game (nil in lobby)
	Invites   *app.InviteService          `json:"-"` // Verifies invite tokens for private tables
	Stats     ports.StatsPort             `json:"-"` // Player statistics storage
	Tick      int64                       `json:"tick"`

	BotsEnabled          bool                  `json:"bots_enabled"`            // Whether AI players are allowed
	BotMinDelay          int64                 `json:"bot_min_delay"`           // Min ticks a bot waits
	BotMaxDelay          int64                 `json:"bot_max_delay"`           // Max ticks a bot waits
	BotAutoFillDelay     int64                 `json:"bot_auto_fill_delay"`     // Ticks to wait before auto-filling with bots
	BotWaitUntil         int64                 `json:"bot_wait_until"`          // Tick when the bot should act
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"` // Tick when a single player started waiting
	Bots                 map[string]*bot.Agent `json:"-"`                       // Active bot agents

	TrickPause     int64               `json:"trick_pause"`      // Ticks to hold after a trick
	RoundPause     int64               `json:"round_pause"`      // Ticks to hold after a round
	PauseUntilTick int64               `json:"pause_until_tick"` // Game actions wait until this tick
	Deferred       []runtime.MatchData `json:"-"`                // Game actions received during a pause

	pending []app.Event
	rng     *rand.Rand
}

// newMatchState builds the state of a fresh match from cfg.
func newMatchState(matchID string, cfg config.GameConfig, private bool) *MatchState {
	room := app.NewRoom(matchID, app.KindSpades)
	room.Private = private
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &MatchState{
		MatchID:          matchID,
		Room:             room,
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(rand.New(rand.NewSource(rng.Int63())), cfg.Rules()),
		Invites:          app.NewInviteService(cfg.InviteSecret, cfg.InviteIssuer, cfg.InviteTTL()),
		BotsEnabled:      cfg.BotsEnabled,
		BotMinDelay:      int64(cfg.BotMinDelaySeconds * MatchTickRate),
		BotMaxDelay:      int64(cfg.BotMaxDelaySeconds * MatchTickRate),
		BotAutoFillDelay: int64(cfg.BotAutoFillDelaySeconds * MatchTickRate),
		Bots:             make(map[string]*bot.Agent),
		TrickPause:       durationTicks(cfg.TrickPause()),
		RoundPause:       durationTicks(cfg.RoundPause()),
		rng:              rng,
	}
}

func durationTicks(d time.Duration) int64 {
	return int64((d*MatchTickRate + time.Second - 1) / time.Second)
}

// notifier collects session events so the match loop can dispatch them after the
// action returns.
func (ms *MatchState) notifier() app.Notifier {
	return app.NotifierFunc(func(_ string, events []app.Event) {
		ms.pending = append(ms.pending, events...)
	})
}

func (ms *MatchState) paused() bool {
	return ms.Tick < ms.PauseUntilTick
}

func (ms *MatchState) pauseFor(ticks int64) {
	if until := ms.Tick + ticks; until > ms.PauseUntilTick {
		ms.PauseUntilTick = until
	}
}

// isHuman reports whether userID is a seated or departed human rather than a bot.
func (ms *MatchState) isHuman(userID string) bool {
	if _, ok := ms.Bots[userID]; ok {
		return false
	}
	return !ms.Room.IsBot(userID) && !bot.IsBot(userID)
}

func (ms *MatchState) firstBotSeat() string {
	for _, id := range ms.Room.Seats {
		if id != "" && ms.Room.IsBot(id) {
			return id
		}
	}
	return ""
}

func (ms *MatchState) displayName(userID string) string {
	if p, ok := ms.Presences[userID]; ok && p.GetUsername() != "" {
		return p.GetUsername()
	}
	if agent, ok := ms.Bots[userID]; ok && agent.Name != "" {
		return agent.Name
	}
	if name := bot.GetBotDisplayName(userID); name != "" {
		return name
	}
	return userID
}

// label renders the match label used by quick-match queries.
func (ms *MatchState) label() (string, error) {
	phase := labelPhaseLobby
	if ms.Session != nil {
		phase = labelPhasePlaying
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":    labelGame,
		"phase":   phase,
		"open":    domain.Seats - ms.Room.Count(),
		"humans":  ms.Room.Humans(),
		"private": ms.Room.Private,
	})
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

func envFromContext(ctx context.Context) map[string]string {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	return env
}

// MatchInit is called when the match is created. params may carry "private": true.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	cfg := config.GetGameConfig().ApplyEnv(envFromContext(ctx))
	if err := bot.LoadIdentities(cfg.BotIdentitiesPath); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	private, _ := params["private"].(bool)
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	state := newMatchState(matchID, cfg, private)
	state.Stats = NewNakamaStatsAdapter(nk)

	label, err := state.label()
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	return state, MatchTickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	userID := presence.GetUserId()

	if matchState.Room.Seated(userID) {
		return state, false, "already joined"
	}
	if matchState.Session != nil {
		return state, false, "game in progress"
	}
	if matchState.Room.Private {
		granted, err := matchState.Invites.Verify(metadata[inviteMetadataKey])
		if err != nil || granted != matchState.MatchID {
			logger.Warn("MatchJoinAttempt: User %s rejected from private match: %v", userID, err)
			return state, false, "invite required"
		}
	}
	// A full lobby still admits humans while a bot can give up its seat.
	if matchState.Room.Full() && matchState.firstBotSeat() == "" {
		return state, false, "match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if matchState.Room.Full() {
			if botID := matchState.firstBotSeat(); botID != "" {
				logger.Info("MatchJoin: Replacing bot %s with human %s", botID, userID)
				events, _ := matchState.Room.Leave(botID)
				delete(matchState.Bots, botID)
				matchState.pending = append(matchState.pending, events...)
			}
		}

		seat, events, err := matchState.Room.Join(userID, false)
		if err != nil {
			logger.Warn("MatchJoin: User %s joined but could not be seated: %v", userID, err)
			continue
		}
		matchState.pending = append(matchState.pending, events...)
		logger.Debug("MatchJoin: User %s seated at %d (leader %s).", userID, seat, matchState.Room.Leader)
	}

	mh.flush(ctx, matchState, dispatcher, logger)
	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastRoomState(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match. A human leaving a
// running game aborts it; the match ends once no humans remain.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		if matchState.Session != nil && matchState.Room.Seated(userID) {
			logger.Info("MatchLeave: User %s left mid-game, ending game.", userID)
			matchState.Session.End()
			mh.finishGame(ctx, matchState, logger, true)
		}

		events, err := matchState.Room.Leave(userID)
		if err != nil {
			// Kicked players are already unseated.
			continue
		}
		matchState.pending = append(matchState.pending, events...)
		logger.Debug("MatchLeave: User %s left, leader is now %q.", userID, matchState.Room.Leader)
	}

	mh.flush(ctx, matchState, dispatcher, logger)

	if matchState.Room.Humans() == 0 {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastRoomState(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	// Replay actions held back during the last pause ahead of new ones.
	if len(matchState.Deferred) > 0 && !matchState.paused() {
		deferred := matchState.Deferred
		matchState.Deferred = nil
		messages = append(deferred, messages...)
	}

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlaceBid, OpPlayCard:
			if matchState.Session != nil && matchState.paused() {
				matchState.Deferred = append(matchState.Deferred, msg)
				continue
			}
			mh.handleAction(ctx, matchState, dispatcher, logger, msg)
		case OpRequestState:
			mh.sendState(matchState, dispatcher, logger, msg.GetUserId())
		case OpEndGame:
			mh.handleEndGame(ctx, matchState, dispatcher, logger, msg)
		case OpKickPlayer, OpPromoteLeader, OpSetTurnOrder:
			mh.handleLobby(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	logger.Info("StartGame: Request received from %s (leader=%s, occupied=%d)", senderID, state.Room.Leader, state.Room.Count())

	if state.BotsEnabled && state.Session == nil && state.Room.Leader == senderID && !state.Room.Full() {
		mh.fillWithBots(state, logger)
	}

	players, err := state.Room.CanStart(senderID)
	if err != nil {
		logger.Warn("StartGame: User %s cannot start: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, app.ErrorCode(err), err.Error())
		mh.flush(ctx, state, dispatcher, logger)
		return
	}

	game, events, err := state.App.StartGame(state.Room.Kind, players)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, app.ErrorCode(err), err.Error())
		return
	}

	state.Session = app.NewSession(state.MatchID, game, state.notifier())
	state.Room.MarkStarted()
	state.PauseUntilTick = 0
	state.BotWaitUntil = 0
	state.Session.Announce(events)

	mh.flush(ctx, state, dispatcher, logger)
	mh.updateLabel(state, dispatcher, logger)
	logger.Info("StartGame: Game started with players %v.", players)
}

func (mh *matchHandler) handleAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Session == nil {
		mh.sendError(state, dispatcher, logger, senderID, app.ErrorCode(app.ErrNoGame), app.ErrNoGame.Error())
		return
	}

	action, err := decodeAction(msg.GetOpCode(), msg.GetData())
	if err != nil {
		logger.Warn("handleAction: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, "bad_request", err.Error())
		return
	}

	if err := state.Session.HandleAction(senderID, action); err != nil {
		logger.Warn("handleAction: User %s action %+v rejected: %v", senderID, action, err)
		mh.sendError(state, dispatcher, logger, senderID, app.ErrorCode(err), err.Error())
		return
	}
	mh.flush(ctx, state, dispatcher, logger)
}

func (mh *matchHandler) handleEndGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	switch {
	case state.Session == nil:
		mh.sendError(state, dispatcher, logger, senderID, app.ErrorCode(app.ErrNoGame), app.ErrNoGame.Error())
		return
	case state.Room.Leader != senderID:
		mh.sendError(state, dispatcher, logger, senderID, app.ErrorCode(app.ErrNotOwner), app.ErrNotOwner.Error())
		return
	}

	logger.Info("EndGame: Game ended by leader %s.", senderID)
	state.Session.End()
	mh.finishGame(ctx, state, logger, true)
	mh.flush(ctx, state, dispatcher, logger)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleLobby(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	req, err := decodeRequest(msg.GetData())
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, "bad_request", err.Error())
		return
	}
	target := req.GetFields()["user_id"].GetStringValue()

	var events []app.Event
	switch msg.GetOpCode() {
	case OpKickPlayer:
		events, err = state.Room.Kick(senderID, target)
		if err == nil {
			delete(state.Bots, target)
			if p, ok := state.Presences[target]; ok {
				if kickErr := dispatcher.MatchKick([]runtime.Presence{p}); kickErr != nil {
					logger.Warn("handleLobby: Failed to kick presence %s: %v", target, kickErr)
				}
			}
		}
	case OpPromoteLeader:
		events, err = state.Room.Promote(senderID, target)
	case OpSetTurnOrder:
		events, err = state.Room.SetTurnOrder(senderID, stringList(req, "turn_order"))
	}
	if err != nil {
		logger.Warn("handleLobby: User %s op %d rejected: %v", senderID, msg.GetOpCode(), err)
		mh.sendError(state, dispatcher, logger, senderID, app.ErrorCode(err), err.Error())
		return
	}

	state.pending = append(state.pending, events...)
	mh.flush(ctx, state, dispatcher, logger)
	mh.updateLabel(state, dispatcher, logger)
}

// flush dispatches the events collected since the last flush, starts the pause
// that follows a trick or a round, and wraps up a finished game.
func (mh *matchHandler) flush(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	events := state.pending
	state.pending = nil

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
		switch ev.Kind {
		case app.EventTrickCompleted:
			state.pauseFor(state.TrickPause)
		case app.EventRoundEnded:
			state.pauseFor(state.RoundPause)
		}
	}

	if state.Session != nil && state.Session.Over() {
		mh.finishGame(ctx, state, logger, false)
		mh.updateLabel(state, dispatcher, logger)
	}
}

// finishGame records statistics for the human players and returns the room to
// the lobby.
func (mh *matchHandler) finishGame(ctx context.Context, state *MatchState, logger runtime.Logger, aborted bool) {
	if state.Session == nil {
		return
	}
	results := app.GameResults(state.Session.PublicState(), aborted, state.isHuman)
	if state.Stats != nil && len(results) > 0 {
		if err := state.Stats.RecordResults(ctx, results); err != nil {
			logger.Error("finishGame: Failed to record stats: %v", err)
		}
	}

	state.Session = nil
	state.Room.MarkFinished()
	state.PauseUntilTick = 0
	state.Deferred = nil
	state.BotWaitUntil = 0
	logger.Info("finishGame: Game over (aborted=%t), %d results recorded.", aborted, len(results))
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	data, err := encodeMessage(string(ev.Kind), ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if ev.Private() {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// Private events for absent players (bots) must not fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

type roomPlayer struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	DisplayName string `json:"display_name"`
	Leader      bool   `json:"leader"`
	Bot         bool   `json:"bot"`
}

type roomSnapshot struct {
	Room    app.RoomState `json:"room"`
	Players []roomPlayer  `json:"players"`
	Tick    int64         `json:"tick"`
}

func (mh *matchHandler) roomSnapshot(state *MatchState) roomSnapshot {
	snap := roomSnapshot{Room: state.Room.State(), Tick: state.Tick}
	for i, userID := range state.Room.Seats {
		if userID == "" {
			continue
		}
		snap.Players = append(snap.Players, roomPlayer{
			UserID:      userID,
			Seat:        i,
			DisplayName: state.displayName(userID),
			Leader:      userID == state.Room.Leader,
			Bot:         !state.isHuman(userID),
		})
	}
	return snap
}

func (mh *matchHandler) broadcastRoomState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	data, err := encodeMessage("room_state", mh.roomSnapshot(state))
	if err != nil {
		logger.Error("broadcastRoomState: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpRoomState, data, nil, nil, true); err != nil {
		logger.Error("broadcastRoomState: Failed to broadcast: %v", err)
	}
}

// sendState answers a state request: the player's own view during a game, the room
// snapshot in the lobby.
func (mh *matchHandler) sendState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("sendState: Presence not found for %s", userID)
		return
	}

	var (
		data []byte
		err  error
	)
	if state.Session != nil {
		view, viewErr := state.Session.StateFor(userID)
		if viewErr != nil {
			mh.sendError(state, dispatcher, logger, userID, app.ErrorCode(viewErr), viewErr.Error())
			return
		}
		data, err = encodeMessage("player_state", view)
	} else {
		data, err = encodeMessage("room_state", mh.roomSnapshot(state))
	}
	if err != nil {
		logger.Error("sendState: Failed to marshal state for %s: %v", userID, err)
		return
	}

	opCode := OpPlayerState
	if state.Session == nil {
		opCode = OpRoomState
	}
	if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendState: Failed to send state to %s: %v", userID, err)
	}
}

type gameError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// sendError sends an error only to the player whose request failed.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, code, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	data, err := encodeMessage("error", gameError{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send game error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := state.label()
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating in %d seconds", graceSeconds)
	matchState, ok := state.(*MatchState)
	if ok && matchState.Session != nil {
		matchState.Session.End()
		mh.finishGame(ctx, matchState, logger, true)
		mh.flush(ctx, matchState, dispatcher, logger)
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
