package game

import (
	"github.com/peterkuimelis/netbreach/internal/log"
)

// TurnOption adjusts the piles handleEndTurn starts from.
type TurnOption func(*turnPiles)

type turnPiles struct {
	hand    []Card
	discard []Card
}

// WithHand replaces the hand the turn handler draws into.
func WithHand(hand []Card) TurnOption {
	return func(p *turnPiles) { p.hand = append([]Card(nil), hand...) }
}

// WithDiscard replaces the discard pile the turn handler reshuffles from.
func WithDiscard(discard []Card) TurnOption {
	return func(p *turnPiles) { p.discard = append([]Card(nil), discard...) }
}

// handleEndTurn refills the grid, draws up to the hand size (reshuffling the
// discard pile into an empty deck), adds tracePenalty, checks for GAME_OVER
// and advances the turn.
func (r *referee) handleEndTurn(s Snapshot, tracePenalty int, opts ...TurnOption) Deltas {
	piles := turnPiles{
		hand:    append([]Card(nil), s.Hand...),
		discard: append([]Card(nil), s.Discard...),
	}
	for _, opt := range opts {
		opt(&piles)
	}
	hand, discard := piles.hand, piles.discard
	deck := append([]Card(nil), s.Deck...)
	phase := s.Phase.String()

	var events []log.GameEvent
	for len(hand) < s.MaxHandSize {
		if len(deck) == 0 {
			if len(discard) == 0 {
				break
			}
			deck = ShuffleCards(r.rng, discard)
			discard = []Card{}
			events = append(events, log.NewShuffleEvent(s.Turn, phase, len(deck)))
		}
		hand = append(hand, deck[len(deck)-1])
		deck = deck[:len(deck)-1]
	}

	stats := s.Stats
	stats.Trace = min(MaxTrace, stats.Trace+tracePenalty)
	turn := s.Turn + 1

	d := Deltas{
		Grid:           Some(r.gen.RefillGrid(s.Grid, s.RefillRate)),
		Hand:           Some(hand),
		Deck:           Some(deck),
		Discard:        Some(discard),
		Stats:          Some(stats),
		Turn:           Some(turn),
		SelectedCardID: Some(""),
		Rotation:       Some(0),
		DurationMs:     600,
	}

	reason := ""
	switch {
	case stats.Trace >= MaxTrace:
		reason = "trace complete"
	case len(hand) == 0 && len(deck) == 0:
		reason = "no cards left"
	}
	if reason != "" && !s.Phase.Terminal() {
		d.Phase = Some(PhaseGameOver)
		events = append(events, log.NewGameOverEvent(turn, reason))
	} else {
		events = append(events, log.NewTurnEvent(turn, stats.Trace))
	}
	d.Events = events
	return d
}
