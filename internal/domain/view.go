package domain

// PlayerView is the state as seen by one seated player. Only that player's hand is
// included; the other hands appear as card counts in PublicView.
type PlayerView struct {
	PlayerID            string          `json:"player_id"`
	Seat                int             `json:"seat"`
	TeamID              int             `json:"team_id"`
	Phase               Phase           `json:"phase"`
	Round               int             `json:"round"`
	TurnOrder           []string        `json:"turn_order"`
	CurrentTurnIndex    int             `json:"current_turn_index"`
	CurrentTurnPlayerID string          `json:"current_turn_player_id"`
	Scores              map[int]int     `json:"scores"`
	Bags                map[int]int     `json:"bags"`
	Bids                map[string]*int `json:"bids"`
	TricksWon           map[string]int  `json:"tricks_won"`
	CurrentTrick        Trick           `json:"current_trick"`
	LastTrick           *TrickResult    `json:"last_trick,omitempty"`
	SpadesBroken        bool            `json:"spades_broken"`
	TricksPlayed        int             `json:"tricks_played"`
	Hand                []Card          `json:"hand"`
	LegalPlays          []Card          `json:"legal_plays,omitempty"`
	WinningTeam         int             `json:"winning_team,omitempty"`
}

// PublicPlayer is the part of a seat everyone may see.
type PublicPlayer struct {
	ID             string `json:"id"`
	Seat           int    `json:"seat"`
	TeamID         int    `json:"team_id"`
	CardsRemaining int    `json:"cards_remaining"`
	Bid            *int   `json:"bid,omitempty"`
	TricksWon      int    `json:"tricks_won"`
}

// PublicView is the state with no private information, suitable for spectators
// and match labels.
type PublicView struct {
	Phase        Phase          `json:"phase"`
	Round        int            `json:"round"`
	CurrentTurn  string         `json:"current_turn,omitempty"`
	Teams        []Team         `json:"teams"`
	Players      []PublicPlayer `json:"players"`
	CurrentTrick Trick          `json:"current_trick"`
	SpadesBroken bool           `json:"spades_broken"`
	TricksPlayed int            `json:"tricks_played"`
	WinningTeam  int            `json:"winning_team,omitempty"`
}

// StateFor builds the view of the game for playerID.
func (g *Game) StateFor(playerID string) (PlayerView, error) {
	seat, ok := g.Seat(playerID)
	if !ok {
		return PlayerView{}, ErrUnknownPlayer
	}

	v := PlayerView{
		PlayerID:         playerID,
		Seat:             seat,
		TeamID:           TeamOfSeat(seat),
		Phase:            g.Phase,
		Round:            g.Round,
		TurnOrder:        append([]string(nil), g.TurnOrder[:]...),
		CurrentTurnIndex: g.CurrentTurn,
		Scores:           make(map[int]int, len(g.Teams)),
		Bags:             make(map[int]int, len(g.Teams)),
		Bids:             make(map[string]*int, Seats),
		TricksWon:        make(map[string]int, Seats),
		CurrentTrick:     append(Trick(nil), g.CurrentTrick...),
		LastTrick:        g.LastTrick,
		SpadesBroken:     g.SpadesBroken,
		TricksPlayed:     g.TricksPlayed,
		Hand:             append([]Card(nil), g.Hands[seat]...),
		WinningTeam:      g.WinningTeam,
	}
	if id, ok := g.CurrentPlayer(); ok {
		v.CurrentTurnPlayerID = id
	}
	for _, t := range g.Teams {
		v.Scores[t.ID] = t.Score
		v.Bags[t.ID] = t.Bags
	}
	for i, id := range g.TurnOrder {
		v.Bids[id] = copyBid(g.Bids[i])
		v.TricksWon[id] = g.TricksWon[i]
	}
	if g.Phase == PhaseTrickTaking && g.CurrentTurn == seat {
		v.LegalPlays = LegalPlays(g.Hands[seat], g.CurrentTrick, g.SpadesBroken)
	}
	return v, nil
}

// PublicState builds the spectator view of the game.
func (g *Game) PublicState() PublicView {
	v := PublicView{
		Phase:        g.Phase,
		Round:        g.Round,
		Teams:        append([]Team(nil), g.Teams[:]...),
		Players:      make([]PublicPlayer, 0, Seats),
		CurrentTrick: append(Trick(nil), g.CurrentTrick...),
		SpadesBroken: g.SpadesBroken,
		TricksPlayed: g.TricksPlayed,
		WinningTeam:  g.WinningTeam,
	}
	if id, ok := g.CurrentPlayer(); ok {
		v.CurrentTurn = id
	}
	for i, id := range g.TurnOrder {
		v.Players = append(v.Players, PublicPlayer{
			ID:             id,
			Seat:           i,
			TeamID:         TeamOfSeat(i),
			CardsRemaining: len(g.Hands[i]),
			Bid:            copyBid(g.Bids[i]),
			TricksWon:      g.TricksWon[i],
		})
	}
	return v
}

func copyBid(b *int) *int {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
