package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"spades/internal/domain"
)

// Factory builds a started game of one kind together with its opening events.
type Factory func(players []string, rules domain.Rules, rng *rand.Rand) (Game, []Event, error)

// Service creates games by kind. It is safe for concurrent use.
type Service struct {
	mu        sync.Mutex
	rng       *rand.Rand
	rules     domain.Rules
	factories map[GameKind]Factory
}

var (
	ErrUnknownGameKind = errors.New("unknown game kind")
	ErrNotOwner        = errors.New("actor is not match owner")
	ErrGameInProgress  = errors.New("game already in progress")
	ErrNoGame          = errors.New("no game in progress")
	ErrTooFewPlayers   = errors.New("not enough players to start")
)

// NewService constructs a Service with provided rng or a time-seeded default and
// registers the Spades factory.
func NewService(rng *rand.Rand, rules domain.Rules) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{
		rng:       rng,
		rules:     rules,
		factories: make(map[GameKind]Factory),
	}
	s.Register(KindSpades, NewSpadesGame)
	return s
}

// Register installs or replaces the factory for kind.
func (s *Service) Register(kind GameKind, f Factory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factories[kind] = f
}

// Rules returns the scoring rules new games are created with.
func (s *Service) Rules() domain.Rules {
	return s.rules
}

// StartGame creates a game of kind for the players in turn order.
func (s *Service) StartGame(kind GameKind, players []string) (Game, []Event, error) {
	s.mu.Lock()
	f, ok := s.factories[kind]
	// Each game gets its own source so games never share rng state.
	rng := rand.New(rand.NewSource(s.rng.Int63()))
	s.mu.Unlock()

	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownGameKind, kind)
	}
	return f(players, s.rules, rng)
}
