package bot

import (
	"errors"
	"math/rand"

	"spades/internal/domain"
)

// ErrNotBotTurn is returned when an agent is asked to act out of turn.
var ErrNotBotTurn = errors.New("bot: not this bot's turn")

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for identity with a brain matching its difficulty.
func NewAgent(identity BotIdentity, rng *rand.Rand) (*Agent, error) {
	brain, err := NewBrain(ParseLevel(identity.Difficulty), rng)
	if err != nil {
		return nil, err
	}
	name := identity.DisplayName
	if name == "" {
		name = identity.Username
	}
	return &Agent{ID: identity.UserID, Name: name, Strategy: brain}, nil
}

// Act asks the agent for its next action given its own view of the game.
func (a *Agent) Act(view domain.PlayerView) (domain.Action, error) {
	if view.PlayerID != a.ID || view.CurrentTurnPlayerID != a.ID {
		return domain.Action{}, ErrNotBotTurn
	}
	return a.Strategy.CalculateMove(view)
}
