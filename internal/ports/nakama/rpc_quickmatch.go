package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"spades/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcCreateTable, rpcCreateTable); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcGetStats, rpcGetStats)
}

// quickMatchQuery selects public Spades lobbies with at least one open seat.
var quickMatchQuery = fmt.Sprintf("+label.game:%s +label.phase:%s +label.private:F +label.open:>=1", labelGame, labelPhaseLobby)

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	limit := 10
	authoritative := true

	minSize := 1
	maxSize := domain.Seats - 1 // ensure a seat is free

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, quickMatchQuery)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchList error: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		logger.Info("rpcQuickMatch [User:%s]: Found existing match %s", userID, matches[0].MatchId)
		return marshalResponse(QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false})
	}

	// Create new match; seat/leader assignment happens in MatchJoin (server-authoritative).
	matchID, err := nk.MatchCreate(ctx, MatchNameSpades, map[string]interface{}{})
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchCreate error: %v", userID, err)
		return "", err
	}

	logger.Info("rpcQuickMatch [User:%s]: Created new match %s", userID, matchID)
	return marshalResponse(QuickMatchResponse{MatchID: matchID, IsNew: true})
}

func marshalResponse(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("failed to encode response", codeInternal)
	}
	return string(b), nil
}
