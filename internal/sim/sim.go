// Package sim drives complete Spades games between bots and checks the game
// invariants after every accepted action.
package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"spades/internal/app"
	"spades/internal/bot"
	"spades/internal/domain"
)

// ErrStepLimit is returned when a game does not finish within Config.MaxSteps.
var ErrStepLimit = errors.New("sim: step limit reached")

// DefaultMaxSteps allows for a few hundred rounds.
const DefaultMaxSteps = 20000

// Seats names the simulated players in turn order.
var Seats = []string{"north", "east", "south", "west"}

// Config controls a self-play run.
type Config struct {
	Seed     int64
	Games    int
	MaxSteps int
	Rules    domain.Rules
	// Levels holds a bot difficulty per seat ("easy", "medium", "hard").
	Levels [domain.Seats]string
}

// GameResult summarizes one simulated game.
type GameResult struct {
	Seed        int64
	Steps       int
	Rounds      int
	Scores      map[int]int
	WinningTeam int
	Events      map[app.EventKind]int
}

// Report aggregates a run.
type Report struct {
	Games    []GameResult
	TeamWins map[int]int
	Ties     int
}

// AvgRounds is the mean number of rounds per game.
func (r Report) AvgRounds() float64 {
	if len(r.Games) == 0 {
		return 0
	}
	total := 0
	for _, g := range r.Games {
		total += g.Rounds
	}
	return float64(total) / float64(len(r.Games))
}

// Run plays cfg.Games games. Game i uses seed cfg.Seed+i, so a failing game can be
// replayed on its own with PlayGame.
func Run(cfg Config) (Report, error) {
	report := Report{TeamWins: make(map[int]int)}
	for i := 0; i < cfg.Games; i++ {
		res, err := PlayGame(cfg.Seed+int64(i), cfg)
		if err != nil {
			return report, err
		}
		report.Games = append(report.Games, res)
		if res.WinningTeam == 0 {
			report.Ties++
		} else {
			report.TeamWins[res.WinningTeam]++
		}
	}
	return report, nil
}

type invariantChecker interface {
	Domain() *domain.Game
}

// PlayGame plays a single game to completion with the given seed.
func PlayGame(seed int64, cfg Config) (GameResult, error) {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	rng := rand.New(rand.NewSource(seed))
	res := GameResult{Seed: seed, Events: make(map[app.EventKind]int)}

	agents := make(map[string]*bot.Agent, len(Seats))
	for i, id := range Seats {
		a, err := bot.NewAgent(bot.BotIdentity{UserID: id, DisplayName: id, Difficulty: cfg.Levels[i]}, rng)
		if err != nil {
			return res, err
		}
		agents[id] = a
	}

	svc := app.NewService(rng, cfg.Rules)
	game, opening, err := svc.StartGame(app.KindSpades, Seats)
	if err != nil {
		return res, err
	}
	checker, _ := game.(invariantChecker)
	session := app.NewSession(fmt.Sprintf("sim-%d", seed), game, app.NotifierFunc(func(_ string, events []app.Event) {
		for _, ev := range events {
			res.Events[ev.Kind]++
		}
	}))
	session.Announce(opening)

	for !session.Over() {
		if res.Steps >= maxSteps {
			return res, fmt.Errorf("%w: seed %d after %d steps", ErrStepLimit, seed, res.Steps)
		}
		id, _ := session.CurrentPlayer()
		view, err := session.StateFor(id)
		if err != nil {
			return res, err
		}
		action, err := agents[id].Act(view)
		if err != nil {
			return res, fmt.Errorf("sim: seed %d step %d: %s found no move: %w", seed, res.Steps, id, err)
		}
		if err := session.HandleAction(id, action); err != nil {
			return res, fmt.Errorf("sim: seed %d step %d: %s %s rejected: %w", seed, res.Steps, id, describe(action), err)
		}
		res.Steps++
		if checker != nil {
			if err := checker.Domain().CheckInvariants(); err != nil {
				return res, fmt.Errorf("sim: seed %d step %d: %w", seed, res.Steps, err)
			}
		}
	}

	final := session.PublicState()
	res.Rounds = res.Events[app.EventRoundEnded]
	res.WinningTeam = final.WinningTeam
	res.Scores = make(map[int]int, len(final.Teams))
	for _, t := range final.Teams {
		res.Scores[t.ID] = t.Score
	}
	return res, nil
}

func describe(a domain.Action) string {
	if a.Type == domain.ActionPlaceBid {
		return fmt.Sprintf("bid %d", a.Bid)
	}
	return fmt.Sprintf("play %s", a.Card)
}
