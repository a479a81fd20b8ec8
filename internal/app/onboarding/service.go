package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"spades/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// StatsCreated is false when the user already had a stats record.
	StatsCreated bool
	DisplayName  string
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	stats    ports.StatsPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service. rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, stats ports.StatsPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		stats:    stats,
		rng:      rng,
	}
}

// OnboardNewUser gives a new account a friendly name and an empty stats record.
// A failed profile update is reported in Result; a failed stats write is an error.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.stats == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	if err := s.accounts.UpdateProfile(ctx, userID, result.DisplayName, result.DisplayName); err != nil {
		result.ProfileUpdateErr = err
	}

	created, err := s.stats.InitStats(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to create stats record: %w", err)
	}
	result.StatsCreated = created
	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Bold", "Lucky", "Sharp", "Quiet", "Swift", "Sly", "Steady", "Clever", "Daring", "Cool"}
	nouns := []string{"Ace", "Jack", "Trump", "Dealer", "Bidder", "Spade", "Knave", "Shark", "Joker", "Captain"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
