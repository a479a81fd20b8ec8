package nakama

import "spades/internal/app"

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an open public table.
	RpcQuickMatch = "quick_match"
	// RpcCreateTable creates a private table and returns an invite token for it.
	RpcCreateTable = "create_table"
	// RpcGetStats returns a player's lifetime statistics.
	RpcGetStats = "get_stats"

	// MatchNameSpades is the authoritative match handler name registered with Nakama.
	MatchNameSpades = "spades_match"

	// MatchTickRate is the number of match loop ticks per second.
	MatchTickRate = 5
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame     int64 = 1
	OpPlaceBid      int64 = 2
	OpPlayCard      int64 = 3
	OpRequestState  int64 = 4
	OpEndGame       int64 = 5
	OpKickPlayer    int64 = 6
	OpPromoteLeader int64 = 7
	OpSetTurnOrder  int64 = 8

	// Server -> Client events
	OpPlayerJoined       int64 = 101
	OpPlayerLeft         int64 = 102
	OpGameStarted        int64 = 103
	OpHandDealt          int64 = 104 // send privately
	OpBidRecorded        int64 = 105
	OpTrickTakingStarted int64 = 106
	OpCardPlayed         int64 = 107
	OpSpadesBroken       int64 = 108
	OpTrickCompleted     int64 = 109
	OpRoundEnded         int64 = 110
	OpNewRoundStarted    int64 = 111
	OpGameOver           int64 = 112
	OpGameEnded          int64 = 113
	OpPlayerKicked       int64 = 114
	OpLeaderChanged      int64 = 115
	OpRoomState          int64 = 116
	OpPlayerState        int64 = 117 // send privately
	OpGameError          int64 = 199 // send privately
)

var eventOpCodes = map[app.EventKind]int64{
	app.EventPlayerJoined:       OpPlayerJoined,
	app.EventPlayerLeft:         OpPlayerLeft,
	app.EventGameStarted:        OpGameStarted,
	app.EventHandDealt:          OpHandDealt,
	app.EventBidRecorded:        OpBidRecorded,
	app.EventTrickTakingStarted: OpTrickTakingStarted,
	app.EventCardPlayed:         OpCardPlayed,
	app.EventSpadesBroken:       OpSpadesBroken,
	app.EventTrickCompleted:     OpTrickCompleted,
	app.EventRoundEnded:         OpRoundEnded,
	app.EventNewRoundStarted:    OpNewRoundStarted,
	app.EventGameOver:           OpGameOver,
	app.EventGameEnded:          OpGameEnded,
	app.EventPlayerKicked:       OpPlayerKicked,
	app.EventLeaderChanged:      OpLeaderChanged,
	app.EventRoomUpdated:        OpRoomState,
}
