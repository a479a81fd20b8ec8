package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// Phase represents the lifecycle stage of a Spades game.
type Phase string

const (
	// PhaseBidding is the start of every round: each seat bids once, in turn order.
	PhaseBidding Phase = "bidding"
	// PhaseTrickTaking runs until all 13 tricks of the round are resolved.
	PhaseTrickTaking Phase = "trick-taking"
	// PhaseGameOver is terminal.
	PhaseGameOver Phase = "game-over"
)

const (
	Seats          = 4
	HandSize       = 13
	MaxBid         = 13
	TricksPerRound = 13

	// DefaultWinningScore ends the game once a team reaches it.
	DefaultWinningScore = 500
)

// Rules holds the tunable scoring parameters of a game.
type Rules struct {
	WinningScore int
	// BagLimit and BagPenalty enable the house rule where every BagLimit overtricks
	// accumulated by a team cost BagPenalty points. Zero disables it.
	BagLimit   int
	BagPenalty int
}

// DefaultRules returns classic scoring without the bag penalty.
func DefaultRules() Rules {
	return Rules{WinningScore: DefaultWinningScore}
}

// Team is a partnership of the two players sitting opposite each other.
type Team struct {
	ID      int       `json:"id"`
	Players [2]string `json:"players"`
	Score   int       `json:"score"`
	Bags    int       `json:"bags"`
}

// ActionType identifies a player action.
type ActionType string

const (
	ActionPlaceBid ActionType = "PLACE_BID"
	ActionPlayCard ActionType = "PLAY_CARD"
)

// Action is a single player move. Bid is read for PLACE_BID, Card for PLAY_CARD.
type Action struct {
	Type ActionType `json:"type"`
	Bid  int        `json:"bid"`
	Card Card       `json:"card"`
}

// Game is the authoritative state of one Spades game. It is not safe for concurrent
// use; callers serialize access per table.
type Game struct {
	Rules        Rules
	Phase        Phase
	Round        int
	TurnOrder    [Seats]string
	Teams        [2]Team
	Hands        [Seats][]Card
	Bids         [Seats]*int
	TricksWon    [Seats]int
	CurrentTrick Trick
	CurrentTurn  int
	SpadesBroken bool
	TricksPlayed int
	LastTrick    *TrickResult
	WinningTeam  int

	rng *rand.Rand
}

// NewGame seats the players in the given turn order, assigns partnerships by seat
// parity and deals the first round. rng may be nil to use a time-seeded source.
func NewGame(players []string, rules Rules, rng *rand.Rand) (*Game, error) {
	if len(players) != Seats {
		return nil, ErrInvalidPlayerCount
	}
	seen := make(map[string]bool, Seats)
	for _, id := range players {
		if id == "" || seen[id] {
			return nil, ErrInvalidPlayerCount
		}
		seen[id] = true
	}
	if rules.WinningScore <= 0 {
		rules.WinningScore = DefaultWinningScore
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Game{Rules: rules, rng: rng}
	copy(g.TurnOrder[:], players)
	g.Teams[0] = Team{ID: 1, Players: [2]string{players[0], players[2]}}
	g.Teams[1] = Team{ID: 2, Players: [2]string{players[1], players[3]}}
	g.dealRound()
	return g, nil
}

// TeamOfSeat returns the team id (1 or 2) for a seat index.
func TeamOfSeat(seat int) int {
	return seat%2 + 1
}

// Seat returns the seat index of playerID.
func (g *Game) Seat(playerID string) (int, bool) {
	for i, id := range g.TurnOrder {
		if id == playerID {
			return i, true
		}
	}
	return -1, false
}

// CurrentPlayer returns the id of the player expected to act.
func (g *Game) CurrentPlayer() (string, bool) {
	if g.Phase == PhaseGameOver {
		return "", false
	}
	return g.TurnOrder[g.CurrentTurn], true
}

// Hand returns a copy of playerID's hand.
func (g *Game) Hand(playerID string) []Card {
	seat, ok := g.Seat(playerID)
	if !ok {
		return nil
	}
	return append([]Card(nil), g.Hands[seat]...)
}

// HandleAction dispatches a player action to PlaceBid or PlayCard.
func (g *Game) HandleAction(playerID string, a Action) (Outcome, error) {
	switch a.Type {
	case ActionPlaceBid:
		return g.PlaceBid(playerID, a.Bid)
	case ActionPlayCard:
		return g.PlayCard(playerID, a.Card)
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
}

// PlaceBid records playerID's bid and passes the turn. The fourth bid opens trick
// taking with the holder of the two of clubs on lead.
func (g *Game) PlaceBid(playerID string, bid int) (Outcome, error) {
	if g.Phase != PhaseBidding {
		return Outcome{}, ErrWrongPhase
	}
	if g.TurnOrder[g.CurrentTurn] != playerID {
		return Outcome{}, ErrNotYourTurn
	}
	if bid < 0 || bid > MaxBid {
		return Outcome{}, ErrInvalidBid
	}

	seat := g.CurrentTurn
	b := bid
	g.Bids[seat] = &b
	g.CurrentTurn = (seat + 1) % Seats

	out := Outcome{Bid: &BidRecorded{PlayerID: playerID, Bid: bid}}
	if g.allBidsIn() {
		g.Phase = PhaseTrickTaking
		g.CurrentTurn = g.openingLeadSeat()
		out.BiddingComplete = true
	}
	return out, nil
}

// PlayCard plays card from playerID's hand to the current trick. The play is fully
// validated before any state changes.
func (g *Game) PlayCard(playerID string, card Card) (Outcome, error) {
	if g.Phase != PhaseTrickTaking {
		return Outcome{}, ErrWrongPhase
	}
	seat := g.CurrentTurn
	if g.TurnOrder[seat] != playerID {
		return Outcome{}, ErrNotYourTurn
	}
	hand := g.Hands[seat]
	if !ContainsCard(hand, card) {
		return Outcome{}, ErrCardNotInHand
	}
	if lead, ok := g.CurrentTrick.LeadSuit(); ok {
		if !IsLegalFollow(hand, card, lead) {
			return Outcome{}, fmt.Errorf("%w: must follow %s", ErrIllegalPlay, lead)
		}
	} else if !IsLegalLead(hand, card, g.SpadesBroken) {
		return Outcome{}, fmt.Errorf("%w: spades not broken", ErrIllegalPlay)
	}

	out := Outcome{Play: &Play{PlayerID: playerID, Card: card}}
	g.Hands[seat] = RemoveCard(hand, card)
	if card.Suit == SuitSpades && !g.SpadesBroken {
		g.SpadesBroken = true
		out.SpadesBroken = true
	}
	g.CurrentTrick = append(g.CurrentTrick, Play{PlayerID: playerID, Card: card})
	g.CurrentTurn = (seat + 1) % Seats

	if len(g.CurrentTrick) == Seats {
		g.completeTrick(&out)
	}
	return out, nil
}

// End forces the game into its terminal phase.
func (g *Game) End() {
	g.Phase = PhaseGameOver
}

// Over reports whether the game has reached its terminal phase.
func (g *Game) Over() bool {
	return g.Phase == PhaseGameOver
}

func (g *Game) completeTrick(out *Outcome) {
	lead, _ := g.CurrentTrick.LeadSuit()
	winnerID := ResolveTrick(g.CurrentTrick, lead)
	winnerSeat, _ := g.Seat(winnerID)

	g.TricksWon[winnerSeat]++
	g.TricksPlayed++
	g.CurrentTurn = winnerSeat

	result := &TrickResult{
		Number:     g.TricksPlayed,
		Plays:      append(Trick(nil), g.CurrentTrick...),
		LeadSuit:   lead,
		WinnerID:   winnerID,
		WinnerSeat: winnerSeat,
	}
	g.LastTrick = result
	g.CurrentTrick = nil
	out.Trick = result

	if g.TricksPlayed == TricksPerRound {
		g.scoreRound(out)
	}
}

func (g *Game) scoreRound(out *Outcome) {
	summary := &RoundSummary{Round: g.Round}
	for t := range g.Teams {
		team := &g.Teams[t]
		stats := TeamRoundStats{TeamID: team.ID}
		for _, id := range team.Players {
			seat, _ := g.Seat(id)
			bid := 0
			if g.Bids[seat] != nil {
				bid = *g.Bids[seat]
			}
			stats.Players = append(stats.Players, PlayerRoundStats{PlayerID: id, Bid: bid, TricksWon: g.TricksWon[seat]})
			stats.TotalBid += bid
			stats.TotalTricksWon += g.TricksWon[seat]
		}
		stats.RoundScore = ComputeRoundScore(stats.TotalBid, stats.TotalTricksWon)
		if g.Rules.BagLimit > 0 && stats.TotalTricksWon > stats.TotalBid {
			team.Bags += stats.TotalTricksWon - stats.TotalBid
			for team.Bags >= g.Rules.BagLimit {
				team.Bags -= g.Rules.BagLimit
				stats.BagPenalty += g.Rules.BagPenalty
			}
		}
		team.Score += stats.RoundScore - stats.BagPenalty
		stats.TotalScore = team.Score
		stats.Bags = team.Bags
		summary.Teams[t] = stats
	}
	out.Round = summary

	if g.Teams[0].Score >= g.Rules.WinningScore || g.Teams[1].Score >= g.Rules.WinningScore {
		g.Phase = PhaseGameOver
		switch {
		case g.Teams[0].Score > g.Teams[1].Score:
			g.WinningTeam = g.Teams[0].ID
		case g.Teams[1].Score > g.Teams[0].Score:
			g.WinningTeam = g.Teams[1].ID
		}
		out.GameOver = true
		out.WinningTeam = g.WinningTeam
		return
	}
	g.dealRound()
	out.NewRound = true
}

// dealRound starts a fresh round with a new deck. Team scores carry over.
func (g *Game) dealRound() {
	g.Round++
	deck := NewShuffledDeck(g.rng)
	for seat := 0; seat < Seats; seat++ {
		g.Hands[seat] = SortHand(deck.Deal(HandSize))
		g.Bids[seat] = nil
		g.TricksWon[seat] = 0
	}
	g.CurrentTrick = nil
	g.LastTrick = nil
	g.SpadesBroken = false
	g.TricksPlayed = 0
	g.CurrentTurn = 0
	g.Phase = PhaseBidding
}

func (g *Game) allBidsIn() bool {
	for _, b := range g.Bids {
		if b == nil {
			return false
		}
	}
	return true
}

func (g *Game) openingLeadSeat() int {
	for seat, hand := range g.Hands {
		if ContainsCard(hand, TwoOfClubs) {
			return seat
		}
	}
	return 0
}

// CheckInvariants verifies the structural invariants of the game state.
func (g *Game) CheckInvariants() error {
	if g.CurrentTurn < 0 || g.CurrentTurn >= Seats {
		return fmt.Errorf("current turn %d out of range", g.CurrentTurn)
	}
	if g.TricksPlayed < 0 || g.TricksPlayed > TricksPerRound {
		return fmt.Errorf("tricks played %d out of range", g.TricksPlayed)
	}
	won := 0
	for _, n := range g.TricksWon {
		won += n
	}
	if won != g.TricksPlayed {
		return fmt.Errorf("tricks won %d != tricks played %d", won, g.TricksPlayed)
	}
	if len(g.CurrentTrick) >= Seats {
		return fmt.Errorf("unresolved trick of %d cards", len(g.CurrentTrick))
	}
	seen := make(map[Card]bool, DeckSize)
	held := 0
	for _, hand := range g.Hands {
		for _, c := range hand {
			if seen[c] {
				return fmt.Errorf("duplicate card %s", c)
			}
			seen[c] = true
			held++
		}
	}
	for _, p := range g.CurrentTrick {
		if seen[p.Card] {
			return fmt.Errorf("card %s both held and on the table", p.Card)
		}
	}
	if total := held + len(g.CurrentTrick) + g.TricksPlayed*Seats; total != DeckSize {
		return fmt.Errorf("card count %d != %d", total, DeckSize)
	}
	return nil
}
