package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"spades/internal/domain"
)

// EnvPrefix is stripped from process environment keys by EnvMap.
const EnvPrefix = "SPADES_"

type GameConfig struct {
	WinningScore int `json:"winning_score"`
	// BagLimit and BagPenalty enable the sandbagging rule; zero keeps classic scoring.
	BagLimit   int `json:"bag_limit"`
	BagPenalty int `json:"bag_penalty"`

	BotsEnabled        bool `json:"bots_enabled"`
	BotMinDelaySeconds int  `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int  `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a lobby with one human.
	BotAutoFillDelaySeconds int    `json:"bot_auto_fill_delay_seconds"`
	BotIdentitiesPath       string `json:"bot_identities_path"`

	// Pauses after a trick and after a round, giving clients time to show the result.
	TrickPauseMillis int `json:"trick_pause_ms"`
	RoundPauseMillis int `json:"round_pause_ms"`

	InviteSecret     string `json:"-"`
	InviteIssuer     string `json:"invite_issuer"`
	InviteTTLSeconds int    `json:"invite_ttl_seconds"`

	ListenAddr string `json:"listen_addr"`
}

// Default returns the configuration used when no file is loaded.
func Default() GameConfig {
	return GameConfig{
		WinningScore:            domain.DefaultWinningScore,
		BotsEnabled:             true,
		BotMinDelaySeconds:      1,
		BotMaxDelaySeconds:      3,
		BotAutoFillDelaySeconds: 5,
		BotIdentitiesPath:       "data/bot_identities.json",
		TrickPauseMillis:        3000,
		RoundPauseMillis:        5000,
		InviteIssuer:            "spades",
		InviteTTLSeconds:        3600,
		ListenAddr:              ":8080",
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Parse decodes a JSON config on top of the defaults.
func Parse(data []byte) (GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	return c, nil
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns a copy of the global game configuration, or the defaults
// when nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// ApplyEnv overrides fields from an environment map with lowercase spades_* keys, as
// found in Nakama's runtime env. Malformed numbers are ignored.
func (c GameConfig) ApplyEnv(env map[string]string) GameConfig {
	setInt := func(key string, dst *int, allowZero bool) {
		raw, ok := env[key]
		if !ok {
			return
		}
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && (v > 0 || (allowZero && v == 0)) {
			*dst = v
		}
	}
	setInt("spades_winning_score", &c.WinningScore, false)
	setInt("spades_bag_limit", &c.BagLimit, true)
	setInt("spades_bag_penalty", &c.BagPenalty, true)
	setInt("spades_bot_min_delay_sec", &c.BotMinDelaySeconds, true)
	setInt("spades_bot_max_delay_sec", &c.BotMaxDelaySeconds, true)
	setInt("spades_bot_autofill_delay_sec", &c.BotAutoFillDelaySeconds, true)
	setInt("spades_trick_pause_ms", &c.TrickPauseMillis, true)
	setInt("spades_round_pause_ms", &c.RoundPauseMillis, true)
	setInt("spades_invite_ttl_sec", &c.InviteTTLSeconds, false)

	if raw, ok := env["spades_bots_enabled"]; ok {
		if v, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			c.BotsEnabled = v
		}
	}
	if v := env["spades_invite_secret"]; v != "" {
		c.InviteSecret = v
	}
	if v := env["spades_invite_issuer"]; v != "" {
		c.InviteIssuer = v
	}
	if v := env["spades_bot_identities_path"]; v != "" {
		c.BotIdentitiesPath = v
	}
	if v := env["spades_listen_addr"]; v != "" {
		c.ListenAddr = v
	}
	if c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		c.BotMaxDelaySeconds = c.BotMinDelaySeconds
	}
	return c
}

// EnvMap collects SPADES_* variables from environ (as returned by os.Environ) into
// the lowercase form ApplyEnv reads.
func EnvMap(environ []string) map[string]string {
	out := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		out[strings.ToLower(key)] = value
	}
	return out
}

// Rules returns the scoring rules for new games.
func (c GameConfig) Rules() domain.Rules {
	return domain.Rules{WinningScore: c.WinningScore, BagLimit: c.BagLimit, BagPenalty: c.BagPenalty}
}

func (c GameConfig) TrickPause() time.Duration {
	return time.Duration(c.TrickPauseMillis) * time.Millisecond
}

func (c GameConfig) RoundPause() time.Duration {
	return time.Duration(c.RoundPauseMillis) * time.Millisecond
}

func (c GameConfig) InviteTTL() time.Duration {
	return time.Duration(c.InviteTTLSeconds) * time.Second
}
