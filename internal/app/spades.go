package app

import (
	"math/rand"

	"spades/internal/domain"
)

// spadesGame adapts domain.Game to the Game interface, turning outcomes into events.
type spadesGame struct {
	g *domain.Game
}

// NewSpadesGame deals a new Spades game and returns its opening events: a public
// game_started followed by one private hand_dealt per player.
func NewSpadesGame(players []string, rules domain.Rules, rng *rand.Rand) (Game, []Event, error) {
	g, err := domain.NewGame(players, rules, rng)
	if err != nil {
		return nil, nil, err
	}
	sg := &spadesGame{g: g}

	first, _ := g.CurrentPlayer()
	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameKind:        KindSpades,
			Phase:           g.Phase,
			Round:           g.Round,
			TurnOrder:       sg.Players(),
			Teams:           append([]domain.Team(nil), g.Teams[:]...),
			FirstTurnUserID: first,
		},
	}}
	events = append(events, sg.handEvents()...)
	return sg, events, nil
}

func (s *spadesGame) Kind() GameKind { return KindSpades }

func (s *spadesGame) Players() []string {
	return append([]string(nil), s.g.TurnOrder[:]...)
}

func (s *spadesGame) CurrentPlayer() (string, bool) { return s.g.CurrentPlayer() }

func (s *spadesGame) Over() bool { return s.g.Over() }

func (s *spadesGame) StateForPlayer(playerID string) (domain.PlayerView, error) {
	return s.g.StateFor(playerID)
}

func (s *spadesGame) PublicState() domain.PublicView { return s.g.PublicState() }

// Domain returns the underlying game state.
func (s *spadesGame) Domain() *domain.Game { return s.g }

func (s *spadesGame) HandleAction(playerID string, action domain.Action) ([]Event, error) {
	out, err := s.g.HandleAction(playerID, action)
	if err != nil {
		return nil, err
	}
	return s.outcomeEvents(out), nil
}

func (s *spadesGame) End() []Event {
	if s.g.Over() {
		return nil
	}
	s.g.End()
	return []Event{{
		Kind:    EventGameEnded,
		Payload: GameEndedPayload{Reason: EndReasonAborted, Scores: s.scores()},
	}}
}

// outcomeEvents lists the events of one action in the order they happened.
func (s *spadesGame) outcomeEvents(out domain.Outcome) []Event {
	var events []Event
	next, _ := s.g.CurrentPlayer()

	if out.Bid != nil {
		payload := BidRecordedPayload{UserID: out.Bid.PlayerID, Bid: out.Bid.Bid}
		if !out.BiddingComplete {
			payload.NextTurnUserID = next
		}
		events = append(events, Event{Kind: EventBidRecorded, Payload: payload})
	}
	if out.BiddingComplete {
		bids := make(map[string]int, domain.Seats)
		for i, id := range s.g.TurnOrder {
			if b := s.g.Bids[i]; b != nil {
				bids[id] = *b
			}
		}
		events = append(events, Event{
			Kind:    EventTrickTakingStarted,
			Payload: TrickTakingStartedPayload{Bids: bids, LeadUserID: next},
		})
	}
	if out.Play != nil {
		payload := CardPlayedPayload{UserID: out.Play.PlayerID, Card: out.Play.Card}
		if out.Trick == nil {
			payload.NextTurnUserID = next
		}
		events = append(events, Event{Kind: EventCardPlayed, Payload: payload})
	}
	if out.SpadesBroken {
		events = append(events, Event{Kind: EventSpadesBroken, Payload: SpadesBrokenPayload{UserID: out.Play.PlayerID}})
	}
	if out.Trick != nil {
		events = append(events, Event{
			Kind: EventTrickCompleted,
			Payload: TrickCompletedPayload{
				Number:    out.Trick.Number,
				Plays:     out.Trick.Plays,
				LeadSuit:  out.Trick.LeadSuit,
				WinnerID:  out.Trick.WinnerID,
				TricksWon: s.trickCounts(out),
			},
		})
	}
	if out.Round != nil {
		events = append(events, Event{Kind: EventRoundEnded, Payload: RoundEndedPayload{Summary: *out.Round}})
	}
	if out.NewRound {
		events = append(events, Event{
			Kind: EventNewRoundStarted,
			Payload: NewRoundStartedPayload{
				Round:           s.g.Round,
				Scores:          s.scores(),
				FirstTurnUserID: next,
			},
		})
		events = append(events, s.handEvents()...)
	}
	if out.GameOver {
		var winners []string
		for _, t := range s.g.Teams {
			if t.ID == out.WinningTeam {
				winners = append(winners, t.Players[:]...)
			}
		}
		scores := s.scores()
		events = append(events,
			Event{Kind: EventGameOver, Payload: GameOverPayload{WinningTeam: out.WinningTeam, WinningPlayers: winners, Scores: scores}},
			Event{Kind: EventGameEnded, Payload: GameEndedPayload{Reason: EndReasonCompleted, Scores: scores}},
		)
	}
	return events
}

// trickCounts reports tricks won this round. When the trick closed the round the
// counters were already reset, so the round summary is used instead.
func (s *spadesGame) trickCounts(out domain.Outcome) map[string]int {
	counts := make(map[string]int, domain.Seats)
	if out.Round != nil {
		for _, t := range out.Round.Teams {
			for _, p := range t.Players {
				counts[p.PlayerID] = p.TricksWon
			}
		}
		return counts
	}
	for i, id := range s.g.TurnOrder {
		counts[id] = s.g.TricksWon[i]
	}
	return counts
}

func (s *spadesGame) scores() map[int]int {
	scores := make(map[int]int, len(s.g.Teams))
	for _, t := range s.g.Teams {
		scores[t.ID] = t.Score
	}
	return scores
}

func (s *spadesGame) handEvents() []Event {
	events := make([]Event, 0, domain.Seats)
	for _, id := range s.g.TurnOrder {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: id, Round: s.g.Round, Hand: s.g.Hand(id)},
			Recipients: []string{id},
		})
	}
	return events
}
