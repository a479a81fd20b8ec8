package bot

import (
	"testing"

	"spades/internal/domain"
)

func mustCard(t *testing.T, s string) domain.Card {
	t.Helper()
	c, err := domain.ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", s, err)
	}
	return c
}

func mustCards(t *testing.T, ss ...string) []domain.Card {
	t.Helper()
	out := make([]domain.Card, 0, len(ss))
	for _, s := range ss {
		out = append(out, mustCard(t, s))
	}
	return out
}

func intPtr(v int) *int { return &v }

var testOrder = []string{"p1", "p2", "p3", "p4"}

// trickView builds the view of the player at seat, with trick played by the seats
// before it in turn order.
func trickView(t *testing.T, seat int, hand []string, trick []string) domain.PlayerView {
	t.Helper()
	v := domain.PlayerView{
		PlayerID:            testOrder[seat],
		Seat:                seat,
		TeamID:              domain.TeamOfSeat(seat),
		Phase:               domain.PhaseTrickTaking,
		Round:               1,
		TurnOrder:           testOrder,
		CurrentTurnIndex:    seat,
		CurrentTurnPlayerID: testOrder[seat],
		Bids:                map[string]*int{"p1": intPtr(3), "p2": intPtr(3), "p3": intPtr(3), "p4": intPtr(3)},
		TricksWon:           map[string]int{},
		Hand:                mustCards(t, hand...),
	}
	first := (seat - len(trick) + domain.Seats) % domain.Seats
	for i, s := range trick {
		v.CurrentTrick = append(v.CurrentTrick, domain.Play{PlayerID: testOrder[(first+i)%domain.Seats], Card: mustCard(t, s)})
	}
	return v
}

func TestEstimateTricks(t *testing.T) {
	strong := mustCards(t, "AS", "KS", "QS", "5S", "4S", "AH", "KH", "2H", "3C", "4C", "5C", "6C", "7D")
	if got := BidFromEstimate(EstimateTricks(strong, DefaultTuning), DefaultTuning); got != 7 {
		t.Fatalf("strong hand bid = %d, want 7", got)
	}

	weak := mustCards(t, "2H", "3H", "4H", "5H", "6H", "2C", "3C", "4C", "5C", "2D", "3D", "4D", "5D")
	if got := BidFromEstimate(EstimateTricks(weak, DefaultTuning), DefaultTuning); got != 0 {
		t.Fatalf("weak hand bid = %d, want 0", got)
	}
}

func TestBidFromEstimate_Clamps(t *testing.T) {
	if got := BidFromEstimate(20, BotTuning{}); got != domain.MaxBid {
		t.Fatalf("BidFromEstimate(20) = %d, want %d", got, domain.MaxBid)
	}
	if got := BidFromEstimate(-3, BotTuning{}); got != 0 {
		t.Fatalf("BidFromEstimate(-3) = %d, want 0", got)
	}
}

func TestStandardBot_Bids(t *testing.T) {
	v := trickView(t, 0, []string{"AS", "KS", "QS", "5S", "4S", "AH", "KH", "2H", "3C", "4C", "5C", "6C", "7D"}, nil)
	v.Phase = domain.PhaseBidding
	got, err := (&StandardBot{Tuning: DefaultTuning}).CalculateMove(v)
	if err != nil {
		t.Fatalf("CalculateMove: %v", err)
	}
	if got.Type != domain.ActionPlaceBid || got.Bid != 7 {
		t.Fatalf("move = %+v, want bid 7", got)
	}
}

func TestStandardBot_CardChoice(t *testing.T) {
	tests := []struct {
		name  string
		seat  int
		hand  []string
		trick []string
		want  string
	}{
		{name: "partner winning plays low", seat: 2, hand: []string{"KH", "5H", "2C"}, trick: []string{"AH", "3H"}, want: "5H"},
		{name: "cheapest winner", seat: 1, hand: []string{"QH", "JH", "4H", "3S"}, trick: []string{"10H"}, want: "JH"},
		{name: "trump when void", seat: 1, hand: []string{"9S", "3S", "2D"}, trick: []string{"KH"}, want: "3S"},
		{name: "cannot win plays low", seat: 1, hand: []string{"9H", "4H"}, trick: []string{"AH"}, want: "4H"},
		{name: "leads longest side suit", seat: 0, hand: []string{"2C", "5C", "9C", "KH", "AS", "3D"}, want: "2C"},
		{name: "leads low spade when forced", seat: 0, hand: []string{"8S", "4S"}, want: "4S"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &StandardBot{Tuning: DefaultTuning}
			got, err := bot.CalculateMove(trickView(t, tt.seat, tt.hand, tt.trick))
			if err != nil {
				t.Fatalf("CalculateMove: %v", err)
			}
			if got.Type != domain.ActionPlayCard || got.Card != mustCard(t, tt.want) {
				t.Fatalf("move = %+v, want play %s", got, tt.want)
			}
		})
	}
}

func TestEasyBot_PlaysLegalCard(t *testing.T) {
	v := trickView(t, 1, []string{"9H", "4H", "AS", "2D"}, []string{"KH"})
	bot, err := NewBrain(BotLevelEasy, nil)
	if err != nil {
		t.Fatalf("NewBrain: %v", err)
	}
	for i := 0; i < 20; i++ {
		got, err := bot.CalculateMove(v)
		if err != nil {
			t.Fatalf("CalculateMove: %v", err)
		}
		if got.Card.Suit != domain.SuitHearts {
			t.Fatalf("easy bot played %s, must follow hearts", got.Card)
		}
	}
}

func TestBrain_GameOverHasNoMove(t *testing.T) {
	v := trickView(t, 0, nil, nil)
	v.Phase = domain.PhaseGameOver
	for _, level := range []BotLevel{BotLevelEasy, BotLevelStandard, BotLevelSmart} {
		b, err := NewBrain(level, nil)
		if err != nil {
			t.Fatalf("NewBrain(%d): %v", level, err)
		}
		if _, err := b.CalculateMove(v); err != ErrNoMove {
			t.Fatalf("level %d: err = %v, want ErrNoMove", level, err)
		}
	}
}
