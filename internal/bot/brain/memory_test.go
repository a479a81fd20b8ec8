package brain

import (
	"testing"

	"spades/internal/domain"
)

func card(t *testing.T, s string) domain.Card {
	t.Helper()
	c, err := domain.ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", s, err)
	}
	return c
}

func TestGameMemory_ObserveTracksPlays(t *testing.T) {
	m := NewMemory()
	kh := card(t, "KH")
	m.Observe(domain.PlayerView{
		PlayerID: "p1",
		Round:    1,
		Hand:     []domain.Card{kh, card(t, "2C")},
		LastTrick: &domain.TrickResult{Plays: domain.Trick{
			{PlayerID: "p1", Card: card(t, "AH")},
			{PlayerID: "p2", Card: card(t, "3S")},
			{PlayerID: "p3", Card: card(t, "4H")},
			{PlayerID: "p4", Card: card(t, "5H")},
		}},
	})

	if m.DeckStatus[cardToIndex(kh)] != StatusMine {
		t.Fatalf("KH should be StatusMine")
	}
	if !m.IsPlayed(card(t, "AH")) || !m.IsPlayed(card(t, "3S")) {
		t.Fatalf("trick cards should be played")
	}
	if !m.IsBoss(kh) {
		t.Fatalf("KH should be boss once AH is gone")
	}
	if !m.IsVoid("p2", domain.SuitHearts) || m.IsVoid("p3", domain.SuitHearts) {
		t.Fatalf("voids = %+v", m.Voids)
	}
	if got := m.Unseen(domain.SuitHearts); got != 9 {
		t.Fatalf("Unseen(hearts) = %d, want 9", got)
	}

	est := NewEstimator(m)
	if est.SafeLead(kh, []string{"p2", "p4"}) {
		t.Fatalf("KH is not safe with p2 void in hearts")
	}
	if !est.SafeLead(kh, []string{"p4"}) {
		t.Fatalf("KH should be safe against p4")
	}
	if got := est.GetBossCards([]domain.Card{kh, card(t, "2C")}); len(got) != 1 || got[0] != kh {
		t.Fatalf("GetBossCards = %v", got)
	}
}

func TestGameMemory_HandChangesAndNewRound(t *testing.T) {
	m := NewMemory()
	qs := card(t, "QS")
	m.Observe(domain.PlayerView{Round: 1, Hand: []domain.Card{qs, card(t, "2D")}})
	m.Observe(domain.PlayerView{Round: 1, Hand: []domain.Card{card(t, "2D")}})
	if !m.IsPlayed(qs) {
		t.Fatalf("QS left the hand and should be played")
	}

	m.Observe(domain.PlayerView{Round: 2, Hand: []domain.Card{card(t, "3D")}})
	if m.IsPlayed(qs) || m.Round != 2 || len(m.Voids) != 0 {
		t.Fatalf("memory not reset for round 2")
	}
}
