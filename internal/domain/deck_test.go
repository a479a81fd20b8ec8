package domain

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if deck.Len() != DeckSize {
		t.Fatalf("deck size = %d, want %d", deck.Len(), DeckSize)
	}
	seen := make(map[Card]bool)
	for _, card := range deck.Cards() {
		if !card.Valid() {
			t.Fatalf("invalid card in deck: %+v", card)
		}
		if seen[card] {
			t.Fatalf("duplicate card found: %s", card)
		}
		seen[card] = true
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	a := NewShuffledDeck(rand.New(rand.NewSource(7))).Cards()
	b := NewShuffledDeck(rand.New(rand.NewSource(7))).Cards()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different orders")
	}
	other := NewShuffledDeck(rand.New(rand.NewSource(8))).Cards()
	if reflect.DeepEqual(a, other) {
		t.Fatalf("different seeds produced the same order")
	}
}

func TestShuffleSpreadsFirstCard(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	counts := make(map[Card]int)
	const runs = 5200
	for i := 0; i < runs; i++ {
		counts[NewShuffledDeck(rng).Cards()[0]]++
	}
	if len(counts) != DeckSize {
		t.Fatalf("only %d distinct first cards in %d shuffles", len(counts), runs)
	}
	for card, n := range counts {
		if n < 40 || n > 170 {
			t.Fatalf("first card %s appeared %d times, expected about %d", card, n, runs/DeckSize)
		}
	}
}

func TestDeal(t *testing.T) {
	deck := NewDeck()
	hand := deck.Deal(HandSize)
	if len(hand) != HandSize || deck.Len() != DeckSize-HandSize {
		t.Fatalf("Deal(%d) left hand=%d deck=%d", HandSize, len(hand), deck.Len())
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when dealing past the end")
		}
	}()
	deck.Deal(DeckSize)
}

func TestSortHand(t *testing.T) {
	in := cards("3D", "AS", "2C", "KH", "2S", "10H")
	want := cards("2S", "AS", "10H", "KH", "2C", "3D")
	got := SortHand(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SortHand() = %v, want %v", got, want)
	}
	if in[0] != c("3D") {
		t.Fatalf("SortHand modified its input")
	}
}

func TestRemoveCard(t *testing.T) {
	hand := cards("2S", "AH", "3C")
	got := RemoveCard(hand, c("AH"))
	if !reflect.DeepEqual(got, cards("2S", "3C")) {
		t.Fatalf("RemoveCard() = %v", got)
	}
	if len(hand) != 3 {
		t.Fatalf("RemoveCard modified its input")
	}
	if got := RemoveCard(hand, c("KD")); len(got) != 3 {
		t.Fatalf("removing a missing card changed the hand")
	}
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		in      string
		want    Card
		wantErr bool
	}{
		{in: "AS", want: Card{Suit: SuitSpades, Rank: RankAce}},
		{in: "10h", want: Card{Suit: SuitHearts, Rank: RankTen}},
		{in: " 2C ", want: TwoOfClubs},
		{in: "1S", wantErr: true},
		{in: "AX", wantErr: true},
		{in: "S", wantErr: true},
		{in: "2XS", wantErr: true},
		{in: "10zzC", wantErr: true},
		{in: "+5H", wantErr: true},
		{in: "05D", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCard(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCard(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ParseCard(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if !tt.wantErr && got.String() != c(got.String()).String() {
				t.Fatalf("String/ParseCard mismatch for %v", got)
			}
		})
	}
}
