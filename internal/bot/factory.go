package bot

import (
	"fmt"
	"math/rand"
	"strings"

	"spades/internal/bot/brain"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota
	BotLevelStandard
	BotLevelSmart
)

// ParseLevel maps an identity difficulty ("easy", "medium", "hard") to a level.
// Unknown values get the standard bot.
func ParseLevel(difficulty string) BotLevel {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "easy":
		return BotLevelEasy
	case "hard", "smart":
		return BotLevelSmart
	default:
		return BotLevelStandard
	}
}

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelEasy:
		return &EasyBot{Rng: rng}, nil
	case BotLevelStandard:
		return &StandardBot{Tuning: DefaultTuning}, nil
	case BotLevelSmart:
		return &SmartBot{Tuning: DefaultTuning, Memory: brain.NewMemory()}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
