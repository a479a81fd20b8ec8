package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIDPrefix marks generated bot ids that have no provisioned account.
const BotIDPrefix = "bot-"

type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "medium", "hard"
	AvatarIndex int    `json:"avatar_index"`
}

var (
	identitiesMu  sync.RWMutex
	botIdentities []BotIdentity
	botConfigMap  map[string]BotIdentity
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// ParseIdentities decodes a JSON list of bot profiles.
func ParseIdentities(data []byte) ([]BotIdentity, error) {
	var ids []BotIdentity
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	return ids, nil
}

// LoadIdentities loads the bot profiles from the given path once per process.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		ids, err := ParseIdentities(data)
		if err != nil {
			loadErr = err
			return
		}

		identitiesMu.Lock()
		defer identitiesMu.Unlock()
		botIdentities = ids
		botConfigMap = make(map[string]BotIdentity, len(ids))
		for _, identity := range ids {
			if identity.UserID != "" {
				botConfigMap[identity.UserID] = identity
			}
		}
	})
	return loadErr
}

// ProvisionBots ensures that bot accounts exist in the Nakama database and carry the
// is_bot metadata. Failures are logged per bot so one bad profile does not block the rest.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	provisionOnce.Do(func() {
		identitiesMu.Lock()
		defer identitiesMu.Unlock()

		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if err != nil {
				logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, err)
				continue
			}
			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"difficulty":   identity.Difficulty,
				"avatar_index": identity.AvatarIndex,
			}
			if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
			}

			botConfigMap[userID] = *identity
			logger.Info("ProvisionBots: Bot %s (%s) is ready. Difficulty: %s", identity.DisplayName, userID, identity.Difficulty)
		}
	})
}

// NewBotID returns a fresh id for a bot without a provisioned account.
func NewBotID() string {
	return BotIDPrefix + uuid.NewString()
}

// GetBotConfig returns the full identity configuration for a given bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotDisplayName returns the display name for a bot ID, or an empty string if not a bot.
func GetBotDisplayName(userID string) string {
	config, ok := GetBotConfig(userID)
	if !ok {
		return ""
	}
	if config.DisplayName == "" {
		return config.Username
	}
	return config.DisplayName
}

// GetBotIdentity returns an identity for a bot by index (mod pool size). Without a
// provisioned pool it makes up a standard-difficulty bot with a fresh id.
func GetBotIdentity(index int) BotIdentity {
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()

	for i := range botIdentities {
		identity := botIdentities[(index+i)%len(botIdentities)]
		if identity.UserID != "" {
			return identity
		}
	}
	return BotIdentity{
		UserID:      NewBotID(),
		DisplayName: fmt.Sprintf("AI Player %d", index+1),
		Difficulty:  "medium",
	}
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	if strings.HasPrefix(userID, BotIDPrefix) {
		return true
	}
	_, ok := GetBotConfig(userID)
	return ok
}
