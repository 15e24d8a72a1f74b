package net

import (
	"sort"

	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/log"
)

// BuildStateView renders a snapshot for clients. network may be nil; it is
// only used to flag target servers.
func BuildStateView(s game.Snapshot, network *game.Network) *StateView {
	sv := &StateView{
		Turn:         s.Turn,
		Phase:        s.Phase.String(),
		Rotation:     s.Rotation,
		DeckCount:    len(s.Deck),
		DiscardCount: len(s.Discard),
		TrashCount:   len(s.Trash),
		MaxHandSize:  s.MaxHandSize,
		Hardware:     s.Stats.HardwareHealth,
		MaxHardware:  s.Stats.MaxHardwareHealth,
		Trace:        s.Stats.Trace,
		Credits:      s.Stats.Credits,
	}

	sv.Grid = make([][]CellView, len(s.Grid))
	for y, row := range s.Grid {
		sv.Grid[y] = make([]CellView, len(row))
		for x, c := range row {
			cv := CellView{Color: c.Color.String(), Broken: c.State == game.CellBroken}
			if c.Symbol != game.SymbolNone {
				cv.Symbol = c.Symbol.String()
			}
			sv.Grid[y][x] = cv
		}
	}

	for _, srv := range s.ActiveServers {
		sv.Servers = append(sv.Servers, ServerViewOf(srv, network))
	}
	for _, srv := range s.DeepMap {
		sv.Deep = append(sv.Deep, srv.Name)
	}

	sv.Hand = CardViews(s.Hand)
	if c, ok := s.SelectedCard(); ok {
		sv.SelectedCard = c.Name
	}
	if c, ok := s.ActiveCard(); ok {
		sv.ActiveCard = c.Name
	}
	for _, e := range s.PendingEffects {
		sv.Pending = append(sv.Pending, effectName(e))
	}
	for _, ae := range s.EffectQueue {
		sv.Queue = append(sv.Queue, effectName(ae.Effect))
	}
	if s.ReprogramSource != nil {
		c := *s.ReprogramSource
		sv.ReprogramSource = &c
	}
	if head, ok := s.HeadEffect(); ok && head.Effect != nil {
		switch head.Effect.Kind() {
		case game.KindCut:
			sv.Awaiting = "cut anchor"
		case game.KindReprogram:
			sv.Awaiting = "reprogram source and destination"
		}
	}
	return sv
}

// ServerViewOf renders one server.
func ServerViewOf(srv game.ServerNode, network *game.Network) ServerView {
	v := ServerView{
		ID:           srv.ID,
		Name:         srv.Name,
		Difficulty:   srv.Difficulty,
		Status:       srv.Status.String(),
		Requirements: map[string]int{},
		Progress:     map[string]int{},
		Penalty:      srv.Penalty.String(),
		PenaltyValue: srv.PenaltyValue,
		Target:       network != nil && network.IsTarget(srv.ID),
	}
	for c, n := range srv.Requirements.Colors {
		v.Requirements[c.String()] = n
		v.Progress[c.String()] = srv.Progress.Colors[c]
	}
	if len(srv.Requirements.Symbols) > 0 {
		v.Countermeasures = map[string]int{}
		for sym, n := range srv.Requirements.Symbols {
			v.Countermeasures[sym.String()] = n
		}
	}
	return v
}

// CardViews renders a pile with 1-based indices.
func CardViews(cards []game.Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for i, c := range cards {
		cv := CardView{Index: i + 1, ID: c.ID, Name: c.Name, Color: c.Color.String()}
		for _, e := range c.Effects {
			cv.Effects = append(cv.Effects, effectName(e))
		}
		out = append(out, cv)
	}
	return out
}

// NewEventView converts a logged event.
func NewEventView(e log.GameEvent) EventView {
	return EventView{
		Seq:        e.Seq,
		Turn:       e.Turn,
		Phase:      e.Phase,
		Type:       e.Type.String(),
		Topic:      e.Topic(),
		Sfx:        string(e.Sfx),
		DurationMs: e.DurationMs,
		Card:       e.Card,
		Details:    e.Details,
	}
}

// EventViews converts a batch of events.
func EventViews(events []log.GameEvent) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventView(e))
	}
	return out
}

// SortedKeys returns the keys of m in order, for stable rendering.
func SortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func effectName(e game.Effect) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}
