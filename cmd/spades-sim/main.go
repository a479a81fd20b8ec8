package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"spades/internal/domain"
	"spades/internal/sim"

	"github.com/pterm/pterm"
)

func main() {
	seed := flag.Int64("seed", 1, "seed of the first game")
	games := flag.Int("games", 100, "number of games to play")
	winning := flag.Int("winning-score", domain.DefaultWinningScore, "score that ends a game")
	bagLimit := flag.Int("bag-limit", 0, "bags that trigger the penalty (0 disables sandbagging)")
	bagPenalty := flag.Int("bag-penalty", 0, "points deducted when the bag limit is reached")
	levels := flag.String("levels", "medium,medium,medium,medium", "bot difficulty per seat, comma separated")
	verbose := flag.Bool("v", false, "print every game")
	flag.Parse()

	cfg := sim.Config{
		Seed:  *seed,
		Games: *games,
		Rules: domain.Rules{WinningScore: *winning, BagLimit: *bagLimit, BagPenalty: *bagPenalty},
	}
	if err := parseLevels(*levels, &cfg.Levels); err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Playing %d games...", cfg.Games))
	report, err := sim.Run(cfg)
	if err != nil {
		spinner.Fail(err.Error())
		if errors.Is(err, sim.ErrStepLimit) {
			os.Exit(3)
		}
		os.Exit(1)
	}
	spinner.Success(fmt.Sprintf("Played %d games", len(report.Games)))

	if *verbose {
		rows := [][]string{{"Seed", "Rounds", "Steps", "Team 1", "Team 2", "Winner"}}
		for _, g := range report.Games {
			rows = append(rows, []string{
				fmt.Sprint(g.Seed), fmt.Sprint(g.Rounds), fmt.Sprint(g.Steps),
				fmt.Sprint(g.Scores[1]), fmt.Sprint(g.Scores[2]), winner(g.WinningTeam),
			})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	}

	summary := pterm.TableData{
		{"Games", "Team 1 wins", "Team 2 wins", "Ties", "Avg rounds"},
		{
			fmt.Sprint(len(report.Games)), fmt.Sprint(report.TeamWins[1]), fmt.Sprint(report.TeamWins[2]),
			fmt.Sprint(report.Ties), fmt.Sprintf("%.2f", report.AvgRounds()),
		},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(summary).Render()
}

func parseLevels(raw string, dst *[domain.Seats]string) error {
	parts := strings.Split(raw, ",")
	if len(parts) != domain.Seats {
		return fmt.Errorf("levels: want %d values, got %d", domain.Seats, len(parts))
	}
	for i, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		switch p {
		case "easy", "medium", "hard":
			dst[i] = p
		default:
			return fmt.Errorf("levels: unknown difficulty %q", p)
		}
	}
	return nil
}

func winner(team int) string {
	if team == 0 {
		return "tie"
	}
	return fmt.Sprintf("team %d", team)
}
