package nakama

import (
	"context"
	"math/rand"

	"spades/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill lobby with bots if there's only one human player after delay
	if state.Session == nil {
		if state.Room.Humans() != 1 || state.Room.Full() {
			state.LastSinglePlayerTick = 0
			return
		}
		if state.LastSinglePlayerTick == 0 {
			state.LastSinglePlayerTick = state.Tick
			logger.Debug("processBots: Single player detected, starting auto-fill timer.")
		}
		if state.Tick-state.LastSinglePlayerTick >= state.BotAutoFillDelay {
			if mh.fillWithBots(state, logger) > 0 {
				mh.flush(ctx, state, dispatcher, logger)
				mh.updateLabel(state, dispatcher, logger)
				mh.broadcastRoomState(state, dispatcher, logger)
			}
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Handle bot turns in-game
	if state.paused() {
		return
	}
	currentUserID, ok := state.Session.CurrentPlayer()
	if !ok || state.isHuman(currentUserID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if spread := state.BotMaxDelay - state.BotMinDelay; spread > 0 {
			delay += state.rng.Int63n(spread + 1)
		}
		state.BotWaitUntil = state.Tick + delay
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", currentUserID, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, err := state.agentFor(currentUserID)
	if err != nil {
		logger.Error("processBots: Failed to create agent for %s: %v", currentUserID, err)
		return
	}
	view, err := state.Session.StateFor(currentUserID)
	if err != nil {
		logger.Error("processBots: Failed to read state for %s: %v", currentUserID, err)
		return
	}
	action, err := agent.Act(view)
	if err != nil {
		logger.Error("processBots: Bot %s failed to calculate move: %v", currentUserID, err)
		return
	}
	if err := state.Session.HandleAction(currentUserID, action); err != nil {
		logger.Error("processBots: Bot %s action %+v rejected: %v", currentUserID, action, err)
		return
	}
	mh.flush(ctx, state, dispatcher, logger)
}

// fillWithBots seats a bot in every empty seat and returns how many were added.
func (mh *matchHandler) fillWithBots(state *MatchState, logger runtime.Logger) int {
	added := 0
	for i := 0; !state.Room.Full(); i++ {
		identity := state.nextBotIdentity(i)
		seat, events, err := state.Room.Join(identity.UserID, true)
		if err != nil {
			logger.Error("fillWithBots: Failed to seat bot %s: %v", identity.UserID, err)
			break
		}
		agent, err := bot.NewAgent(identity, rand.New(rand.NewSource(state.rng.Int63())))
		if err != nil {
			logger.Error("fillWithBots: Failed to create bot agent for %s: %v", identity.UserID, err)
		} else {
			state.Bots[identity.UserID] = agent
		}
		state.pending = append(state.pending, events...)
		logger.Info("fillWithBots: Added bot %s (%s) to seat %d", identity.DisplayName, identity.UserID, seat)
		added++
	}
	return added
}

// nextBotIdentity picks a pooled identity that is not seated yet, falling back to a
// generated one once the pool is exhausted.
func (ms *MatchState) nextBotIdentity(offset int) bot.BotIdentity {
	for i := 0; i < 16; i++ {
		identity := bot.GetBotIdentity(offset + i)
		if !ms.Room.Seated(identity.UserID) {
			return identity
		}
	}
	identity := bot.GetBotIdentity(offset)
	identity.UserID = bot.NewBotID()
	return identity
}

// agentFor returns the agent driving userID, creating one for bots that lost theirs.
func (ms *MatchState) agentFor(userID string) (*bot.Agent, error) {
	if agent, ok := ms.Bots[userID]; ok {
		return agent, nil
	}
	identity, ok := bot.GetBotConfig(userID)
	if !ok {
		identity = bot.BotIdentity{UserID: userID}
	}
	agent, err := bot.NewAgent(identity, rand.New(rand.NewSource(ms.rng.Int63())))
	if err != nil {
		return nil, err
	}
	ms.Bots[userID] = agent
	return agent, nil
}
