package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"spades/internal/app"
	"spades/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// gRPC status codes used by runtime.NewError.
const (
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)

// CreateTableResponse carries the new private match and the invite to share with friends.
type CreateTableResponse struct {
	MatchID string `json:"match_id"`
	Invite  string `json:"invite"`
}

type getStatsRequest struct {
	UserID string `json:"user_id"`
}

// rpcCreateTable creates a private table. Other players join it by passing the invite
// as "invite" in their join metadata.
//
// Payload: unused.
func rpcCreateTable(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}

	cfg := config.GetGameConfig().ApplyEnv(envFromContext(ctx))
	invites := app.NewInviteService(cfg.InviteSecret, cfg.InviteIssuer, cfg.InviteTTL())

	matchID, err := nk.MatchCreate(ctx, MatchNameSpades, map[string]interface{}{"private": true})
	if err != nil {
		logger.Error("rpcCreateTable [User:%s]: MatchCreate error: %v", userID, err)
		return "", err
	}

	invite, err := invites.Issue(matchID, userID)
	if err != nil {
		logger.Error("rpcCreateTable [User:%s]: Failed to issue invite for %s: %v", userID, matchID, err)
		return "", runtime.NewError("failed to issue invite", codeInternal)
	}

	logger.Info("rpcCreateTable [User:%s]: Created private match %s", userID, matchID)
	return marshalResponse(CreateTableResponse{MatchID: matchID, Invite: invite})
}

// rpcGetStats returns the lifetime statistics of the caller, or of payload.user_id.
func rpcGetStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	if strings.TrimSpace(payload) != "" {
		var req getStatsRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", codeInvalidArgument)
		}
		if req.UserID != "" {
			userID = req.UserID
		}
	}
	if userID == "" {
		return "", runtime.NewError("user_id is required", codeInvalidArgument)
	}

	stats, err := NewNakamaStatsAdapter(nk).GetStats(ctx, userID)
	if err != nil {
		logger.Error("rpcGetStats [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to read stats", codeInternal)
	}
	return marshalResponse(stats)
}
