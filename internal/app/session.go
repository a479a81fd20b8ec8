package app

import (
	"sync"
	"time"

	"spades/internal/domain"
)

// Notifier delivers events produced by a session. Notify is called with the session
// lock held and must not block; transports queue or drop.
type Notifier interface {
	Notify(sessionID string, events []Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(sessionID string, events []Event)

func (f NotifierFunc) Notify(sessionID string, events []Event) { f(sessionID, events) }

// Session owns one running game. Every call is serialized on the session mutex so
// the steps of an action are never interleaved with another action.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	game     Game
	notifier Notifier
}

// NewSession wraps game. A nil notifier discards events.
func NewSession(id string, game Game, notifier Notifier) *Session {
	if notifier == nil {
		notifier = NotifierFunc(func(string, []Event) {})
	}
	return &Session{ID: id, CreatedAt: time.Now(), game: game, notifier: notifier}
}

// Announce publishes events produced outside HandleAction, such as a game's opening events.
func (s *Session) Announce(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify(events)
}

// HandleAction applies a player action and publishes the resulting events. Rejected
// actions return the domain error and publish nothing.
func (s *Session) HandleAction(playerID string, action domain.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.game.HandleAction(playerID, action)
	if err != nil {
		return err
	}
	s.notify(events)
	return nil
}

// StateFor returns playerID's view of the game.
func (s *Session) StateFor(playerID string) (domain.PlayerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.StateForPlayer(playerID)
}

func (s *Session) PublicState() domain.PublicView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.PublicState()
}

func (s *Session) CurrentPlayer() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.CurrentPlayer()
}

func (s *Session) Players() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Players()
}

func (s *Session) Kind() GameKind {
	return s.game.Kind()
}

func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Over()
}

// End aborts the game and reports whether it was still running.
func (s *Session) End() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.game.End()
	s.notify(events)
	return len(events) > 0
}

func (s *Session) notify(events []Event) {
	if len(events) == 0 {
		return
	}
	s.notifier.Notify(s.ID, events)
}
