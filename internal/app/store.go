package app

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Store is the registry of running sessions. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	svc      *Service
	notifier Notifier
}

// NewStore creates an empty store whose sessions publish through notifier.
func NewStore(svc *Service, notifier Notifier) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		svc:      svc,
		notifier: notifier,
	}
}

// Create starts a game of kind for players, registers it under a fresh id and
// publishes its opening events.
func (s *Store) Create(kind GameKind, players []string) (*Session, error) {
	return s.CreateWithID(uuid.NewString(), kind, players)
}

// CreateWithID is Create with a caller chosen id, replacing any session under it.
func (s *Store) CreateWithID(id string, kind GameKind, players []string) (*Session, error) {
	game, events, err := s.svc.StartGame(kind, players)
	if err != nil {
		return nil, err
	}
	sess := NewSession(id, game, s.notifier)

	s.mu.Lock()
	old := s.sessions[id]
	s.sessions[id] = sess
	s.mu.Unlock()

	if old != nil {
		old.End()
	}
	sess.Announce(events)
	return sess, nil
}

// Get returns the session registered under id.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Remove unregisters the session and ends its game if it is still running.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.End()
	return nil
}

// List returns the ids of all registered sessions in sorted order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
