package domain

import (
	"reflect"
	"testing"
)

func c(s string) Card {
	card, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return card
}

func cards(ss ...string) []Card {
	out := make([]Card, 0, len(ss))
	for _, s := range ss {
		out = append(out, c(s))
	}
	return out
}

func TestResolveTrick(t *testing.T) {
	tests := []struct {
		name  string
		plays []string
		want  string
	}{
		{name: "highest of lead suit", plays: []string{"10H", "KH", "2H", "AH"}, want: "p4"},
		{name: "off-suit ace loses", plays: []string{"3D", "AC", "4D", "KH"}, want: "p3"},
		{name: "single spade trumps", plays: []string{"AH", "KH", "2S", "QH"}, want: "p3"},
		{name: "higher spade wins", plays: []string{"AD", "3S", "JS", "KD"}, want: "p3"},
		{name: "spade lead", plays: []string{"5S", "AH", "4S", "KS"}, want: "p4"},
		{name: "leader keeps it", plays: []string{"AC", "2C", "KH", "QD"}, want: "p1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trick Trick
			for i, s := range tt.plays {
				trick = append(trick, Play{PlayerID: "p" + string(rune('1'+i)), Card: c(s)})
			}
			lead, _ := trick.LeadSuit()
			if got := ResolveTrick(trick, lead); got != tt.want {
				t.Fatalf("ResolveTrick() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComputeRoundScore(t *testing.T) {
	tests := []struct {
		name     string
		bid, won int
		want     int
	}{
		{name: "exact", bid: 5, won: 5, want: 50},
		{name: "overtricks", bid: 5, won: 7, want: 52},
		{name: "set", bid: 5, won: 4, want: -50},
		{name: "zero bid zero won", bid: 0, won: 0, want: 0},
		{name: "zero bid some won", bid: 0, won: 3, want: 3},
		{name: "all thirteen", bid: 13, won: 13, want: 130},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeRoundScore(tt.bid, tt.won); got != tt.want {
				t.Fatalf("ComputeRoundScore(%d, %d) = %d, want %d", tt.bid, tt.won, got, tt.want)
			}
		})
	}
}

func TestIsLegalLead(t *testing.T) {
	mixed := cards("2S", "AH", "3C")
	spadesOnly := cards("2S", "9S")
	tests := []struct {
		name   string
		hand   []Card
		card   Card
		broken bool
		want   bool
	}{
		{name: "non-spade always", hand: mixed, card: c("AH"), want: true},
		{name: "spade before broken", hand: mixed, card: c("2S"), want: false},
		{name: "spade after broken", hand: mixed, card: c("2S"), broken: true, want: true},
		{name: "only spades left", hand: spadesOnly, card: c("9S"), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLegalLead(tt.hand, tt.card, tt.broken); got != tt.want {
				t.Fatalf("IsLegalLead() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsLegalFollow(t *testing.T) {
	hand := cards("2S", "AH", "3C")
	if !IsLegalFollow(hand, c("AH"), SuitHearts) {
		t.Fatalf("following suit must be legal")
	}
	if IsLegalFollow(hand, c("2S"), SuitHearts) {
		t.Fatalf("discarding while holding lead suit must be illegal")
	}
	if !IsLegalFollow(hand, c("2S"), SuitDiamonds) {
		t.Fatalf("void in lead suit may play anything")
	}
}

func TestLegalPlays(t *testing.T) {
	hand := cards("2S", "KS", "AH", "3C", "9C")
	tests := []struct {
		name   string
		trick  Trick
		broken bool
		want   []Card
	}{
		{name: "lead unbroken", want: cards("AH", "3C", "9C")},
		{name: "lead broken", broken: true, want: hand},
		{name: "follow clubs", trick: Trick{{PlayerID: "x", Card: c("QC")}}, want: cards("3C", "9C")},
		{name: "void in diamonds", trick: Trick{{PlayerID: "x", Card: c("QD")}}, want: hand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LegalPlays(hand, tt.trick, tt.broken)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("LegalPlays() = %v, want %v", got, tt.want)
			}
		})
	}
}
