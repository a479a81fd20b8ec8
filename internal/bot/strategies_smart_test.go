package bot

import (
	"testing"

	"spades/internal/bot/brain"
	"spades/internal/domain"
)

func newSmartBot() *SmartBot {
	return &SmartBot{Tuning: DefaultTuning, Memory: brain.NewMemory()}
}

func TestSmartBot_CashesBossCard(t *testing.T) {
	v := trickView(t, 0, []string{"KH", "2C", "3C", "4C", "5D"}, nil)
	v.LastTrick = &domain.TrickResult{
		Number: 1,
		Plays: domain.Trick{
			{PlayerID: "p1", Card: mustCard(t, "AH")},
			{PlayerID: "p2", Card: mustCard(t, "3H")},
			{PlayerID: "p3", Card: mustCard(t, "4H")},
			{PlayerID: "p4", Card: mustCard(t, "5H")},
		},
		LeadSuit: domain.SuitHearts,
		WinnerID: "p1",
	}
	v.TricksWon["p1"] = 1

	got, err := newSmartBot().CalculateMove(v)
	if err != nil {
		t.Fatalf("CalculateMove: %v", err)
	}
	if got.Card != mustCard(t, "KH") {
		t.Fatalf("smart bot led %s, want KH", got.Card)
	}

	std, _ := (&StandardBot{Tuning: DefaultTuning}).CalculateMove(v)
	if std.Card != mustCard(t, "2C") {
		t.Fatalf("standard bot led %s, want 2C", std.Card)
	}
}

func TestSmartBot_AvoidsBossIntoVoid(t *testing.T) {
	v := trickView(t, 0, []string{"KH", "2C", "3C", "4C", "5D"}, nil)
	v.LastTrick = &domain.TrickResult{
		Number: 1,
		Plays: domain.Trick{
			{PlayerID: "p1", Card: mustCard(t, "AH")},
			{PlayerID: "p2", Card: mustCard(t, "2S")},
			{PlayerID: "p3", Card: mustCard(t, "4H")},
			{PlayerID: "p4", Card: mustCard(t, "5H")},
		},
		LeadSuit: domain.SuitHearts,
		WinnerID: "p2",
	}
	v.SpadesBroken = true

	got, err := newSmartBot().CalculateMove(v)
	if err != nil {
		t.Fatalf("CalculateMove: %v", err)
	}
	if got.Card != mustCard(t, "2C") {
		t.Fatalf("smart bot led %s into a known void, want 2C", got.Card)
	}
}

func TestSmartBot_DucksAfterContract(t *testing.T) {
	v := trickView(t, 0, []string{"KH", "8H", "3H", "AD"}, []string{"9H", "2H", "10H"})
	v.Bids["p1"] = intPtr(1)
	v.Bids["p3"] = intPtr(0)
	v.TricksWon["p1"] = 1

	got, err := newSmartBot().CalculateMove(v)
	if err != nil {
		t.Fatalf("CalculateMove: %v", err)
	}
	if got.Card != mustCard(t, "8H") {
		t.Fatalf("smart bot played %s, want 8H", got.Card)
	}
}

func TestSmartBot_BidLeavesRoom(t *testing.T) {
	v := trickView(t, 3, []string{"AS", "KS", "QS", "5S", "4S", "AH", "KH", "2H", "3C", "4C", "5C", "6C", "7D"}, nil)
	v.Phase = domain.PhaseBidding
	v.Bids = map[string]*int{"p1": intPtr(4), "p2": intPtr(4), "p3": intPtr(3), "p4": nil}

	got, err := newSmartBot().CalculateMove(v)
	if err != nil {
		t.Fatalf("CalculateMove: %v", err)
	}
	if got.Bid != 2 {
		t.Fatalf("bid = %d, want 2", got.Bid)
	}
}
