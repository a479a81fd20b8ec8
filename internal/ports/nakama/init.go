package nakama

import (
	"context"
	"database/sql"

	"spades/internal/bot"
	"spades/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// GameConfigPath is read relative to the Nakama working directory.
const GameConfigPath = "data/game_config.json"

// InitModule wires RPCs, hooks and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(GameConfigPath); err != nil {
		logger.Warn("InitModule: Using default game config: %v", err)
	}
	cfg := config.GetGameConfig().ApplyEnv(envFromContext(ctx))

	if err := bot.LoadIdentities(cfg.BotIdentitiesPath); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	} else if cfg.BotsEnabled {
		bot.ProvisionBots(ctx, nk, logger)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameSpades, NewMatch); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("Spades Go module loaded.")
	return nil
}
