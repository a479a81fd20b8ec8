package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_OverlaysDefaults(t *testing.T) {
	c, err := Parse([]byte(`{"winning_score": 300, "bag_limit": 10, "bag_penalty": 100, "bots_enabled": false}`))
	require.NoError(t, err)
	require.Equal(t, 300, c.WinningScore)
	require.False(t, c.BotsEnabled)
	require.Equal(t, 3000, c.TrickPauseMillis)

	rules := c.Rules()
	require.Equal(t, 300, rules.WinningScore)
	require.Equal(t, 10, rules.BagLimit)
	require.Equal(t, 100, rules.BagPenalty)

	_, err = Parse([]byte(`{"winning_score": "lots"}`))
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	c := Default().ApplyEnv(map[string]string{
		"spades_winning_score":     "250",
		"spades_bag_limit":         "10",
		"spades_bot_min_delay_sec": "4",
		"spades_bot_max_delay_sec": "2",
		"spades_trick_pause_ms":    "0",
		"spades_round_pause_ms":    "soon",
		"spades_bots_enabled":      "false",
		"spades_invite_secret":     "s3cret",
	})
	require.Equal(t, 250, c.WinningScore)
	require.Equal(t, 10, c.BagLimit)
	require.Equal(t, 4, c.BotMinDelaySeconds)
	require.Equal(t, 4, c.BotMaxDelaySeconds)
	require.Equal(t, time.Duration(0), c.TrickPause())
	require.Equal(t, 5*time.Second, c.RoundPause())
	require.False(t, c.BotsEnabled)
	require.Equal(t, "s3cret", c.InviteSecret)
}

func TestApplyEnv_RejectsNonPositiveWinningScore(t *testing.T) {
	c := Default().ApplyEnv(map[string]string{"spades_winning_score": "0"})
	require.Equal(t, Default().WinningScore, c.WinningScore)
}

func TestEnvMap(t *testing.T) {
	env := EnvMap([]string{"SPADES_WINNING_SCORE=200", "HOME=/root", "SPADES_INVITE_SECRET=a=b", "BROKEN"})
	require.Equal(t, map[string]string{
		"spades_winning_score": "200",
		"spades_invite_secret": "a=b",
	}, env)
}

func TestGetGameConfig_DefaultsWithoutFile(t *testing.T) {
	require.Equal(t, Default(), GetGameConfig())
}
