package app

import (
	"errors"
	"math/rand"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"spades/internal/domain"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events map[string][]Event
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[string][]Event)}
}

func (n *recordingNotifier) Notify(sessionID string, events []Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[sessionID] = append(n.events[sessionID], events...)
}

func (n *recordingNotifier) kinds(sessionID string) []EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	return kinds(n.events[sessionID])
}

func newTestStore(n Notifier) *Store {
	return NewStore(NewService(rand.New(rand.NewSource(11)), domain.DefaultRules()), n)
}

func TestStoreCreateGetRemove(t *testing.T) {
	n := newRecordingNotifier()
	store := newTestStore(n)

	sess, err := store.Create(KindSpades, players)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	require.Equal(t, 1, store.Len())

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	require.Same(t, sess, got)

	opening := n.kinds(sess.ID)
	require.Len(t, opening, 5)
	require.Equal(t, EventGameStarted, opening[0])

	require.NoError(t, store.Remove(sess.ID))
	_, ok = store.Get(sess.ID)
	require.False(t, ok)
	require.True(t, sess.Over())
	require.Equal(t, EventGameEnded, n.kinds(sess.ID)[5])

	require.ErrorIs(t, store.Remove(sess.ID), ErrSessionNotFound)
}

func TestStoreCreateRejectsBadPlayers(t *testing.T) {
	store := newTestStore(nil)
	_, err := store.Create(KindSpades, []string{"a", "b"})
	require.ErrorIs(t, err, domain.ErrInvalidPlayerCount)
	require.Zero(t, store.Len())
}

func TestStoreCreateWithIDReplacesSession(t *testing.T) {
	n := newRecordingNotifier()
	store := newTestStore(n)

	first, err := store.CreateWithID("room-1", KindSpades, players)
	require.NoError(t, err)
	second, err := store.CreateWithID("room-1", KindSpades, players)
	require.NoError(t, err)

	require.True(t, first.Over())
	require.False(t, second.Over())
	require.Equal(t, []string{"room-1"}, store.List())
}

func TestSessionHandleAction(t *testing.T) {
	n := newRecordingNotifier()
	store := newTestStore(n)
	sess, err := store.Create(KindSpades, players)
	require.NoError(t, err)
	before := len(n.kinds(sess.ID))

	err = sess.HandleAction("u2", domain.Action{Type: domain.ActionPlaceBid, Bid: 3})
	require.ErrorIs(t, err, domain.ErrNotYourTurn)
	require.Len(t, n.kinds(sess.ID), before, "rejected actions publish nothing")

	require.NoError(t, sess.HandleAction("u1", domain.Action{Type: domain.ActionPlaceBid, Bid: 3}))
	require.Equal(t, EventBidRecorded, n.kinds(sess.ID)[before])

	view, err := sess.StateFor("u1")
	require.NoError(t, err)
	require.Equal(t, 3, *view.Bids["u1"])
	require.Equal(t, "u2", view.CurrentTurnPlayerID)

	_, err = sess.StateFor("nobody")
	require.ErrorIs(t, err, domain.ErrUnknownPlayer)

	pub := sess.PublicState()
	require.Len(t, pub.Players, 4)
	require.Equal(t, players, sess.Players())
}

func TestSessionSerializesConcurrentActions(t *testing.T) {
	store := newTestStore(newRecordingNotifier())
	sess, err := store.Create(KindSpades, players)
	require.NoError(t, err)

	// Every player retries until its bid lands; only the player on turn is accepted.
	var wg sync.WaitGroup
	for _, id := range players {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for {
				err := sess.HandleAction(id, domain.Action{Type: domain.ActionPlaceBid, Bid: 2})
				if err == nil || !errors.Is(err, domain.ErrNotYourTurn) {
					return
				}
				runtime.Gosched()
			}
		}(id)
	}
	wg.Wait()

	pub := sess.PublicState()
	require.Equal(t, domain.PhaseTrickTaking, pub.Phase)
	for _, p := range pub.Players {
		require.NotNil(t, p.Bid)
		require.Equal(t, 2, *p.Bid)
	}
}
