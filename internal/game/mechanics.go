package game

import (
	"math/rand"

	"github.com/peterkuimelis/netbreach/internal/log"
	"go.uber.org/zap"
)

// Mode says whether a mechanic can run on its own or needs player input.
type Mode int

const (
	Immediate Mode = iota
	Deferred
)

func (m Mode) String() string {
	if m == Immediate {
		return "IMMEDIATE"
	}
	return "DEFERRED"
}

// Payload is player input for a deferred mechanic.
type Payload interface {
	payload()
}

// CutTarget anchors a CUT. A nil Pattern means the head effect's own.
type CutTarget struct {
	X, Y    int
	Pattern Pattern
}

// ReprogramTarget names the two cells of one REPROGRAM step.
type ReprogramTarget struct {
	Source, Dest Coordinate
}

func (CutTarget) payload()       {}
func (ReprogramTarget) payload() {}

// mechanic executes the head effect against s.
type mechanic func(s Snapshot, head ActiveEffect, p Payload) Deltas

// referee holds what mechanics need beyond the snapshot.
type referee struct {
	rules  *Rules
	gen    *Generator
	rng    *rand.Rand
	logger *zap.Logger

	// generated counts procedural servers this run; their ids never repeat.
	generated int
}

func newReferee(rules *Rules, rng *rand.Rand, logger *zap.Logger) *referee {
	return &referee{
		rules:  rules,
		gen:    NewGenerator(rng, rules.SymbolChance),
		rng:    rng,
		logger: logger,
	}
}

// mechanicFor resolves an effect variant to its handler.
func (r *referee) mechanicFor(e Effect) (Mode, mechanic, bool) {
	switch e.(type) {
	case CutEffect:
		return Deferred, r.cut, true
	case ReprogramEffect:
		return Deferred, r.reprogram, true
	case SystemResetEffect:
		return Immediate, r.systemReset, true
	}
	return 0, nil, false
}

// --- CUT ---

func (r *referee) cut(s Snapshot, head ActiveEffect, p Payload) Deltas {
	target, ok := p.(CutTarget)
	if !ok {
		return rejected(s, "cut needs a target cell")
	}
	pattern := target.Pattern
	if pattern == nil {
		if eff, isCut := head.Effect.(CutEffect); isCut {
			pattern = eff.Pattern
		}
	}
	rotated := pattern.Rotate(s.Rotation)

	if !CheckPatternFit(s.Grid, rotated, target.X, target.Y) {
		return rejected(s, "pattern does not fit at "+Coordinate{X: target.X, Y: target.Y}.String())
	}

	affected := AffectedCells(s.Grid, rotated, target.X, target.Y)
	grid := s.Grid.Clone()
	for _, c := range affected {
		grid[c.Y][c.X].State = CellBroken
	}

	d := Deltas{
		Grid:           Some(grid),
		SelectedCardID: Some(""),
		Rotation:       Some(0),
		Events: []log.GameEvent{
			log.NewCutEvent(s.Turn, s.Phase.String(), len(affected), Coordinate{X: target.X, Y: target.Y}.String()),
		},
		DurationMs: 400,
		harvested:  affected,
	}
	d = MergeDeltas(d, r.serverProgression(s.Patch(d), affected))
	return MergeDeltas(d, r.networkGraph(s, s.Patch(d)))
}

// --- REPROGRAM ---

func (r *referee) reprogram(s Snapshot, head ActiveEffect, p Payload) Deltas {
	target, ok := p.(ReprogramTarget)
	if !ok {
		return rejected(s, "reprogram needs a source and a destination")
	}
	src, dst := target.Source, target.Dest
	if !s.Grid.InBounds(src.X, src.Y) || !s.Grid.InBounds(dst.X, dst.Y) {
		return rejected(s, "reprogram target out of bounds")
	}
	if src == dst {
		return rejected(s, "source and destination are the same cell")
	}
	if s.Grid[src.Y][src.X].State == CellBroken {
		return rejected(s, "cannot reprogram from a broken cell")
	}

	grid := s.Grid.Clone()
	a, b := &grid[src.Y][src.X], &grid[dst.Y][dst.X]
	if b.State == CellBroken {
		b.Color, b.Symbol, b.State = a.Color, a.Symbol, CellLocked
		a.State, a.Symbol = CellBroken, SymbolNone
	} else {
		a.Color, b.Color = b.Color, a.Color
		a.Symbol, b.Symbol = b.Symbol, a.Symbol
	}

	remaining := 0
	if eff, isReprogram := head.Effect.(ReprogramEffect); isReprogram {
		remaining = eff.Amount - 1
	}
	var queue []ActiveEffect
	if remaining > 0 {
		queue = append([]ActiveEffect{{CardID: head.CardID, Effect: ReprogramEffect{Amount: remaining}}}, s.EffectQueue[1:]...)
	} else {
		queue = popQueue(s.EffectQueue)
	}

	return Deltas{
		Grid:            Some(grid),
		EffectQueue:     Some(queue),
		ReprogramSource: Some[*Coordinate](nil),
		DurationMs:      400,
	}
}

// --- SYSTEM_RESET ---

func (r *referee) systemReset(s Snapshot, _ ActiveEffect, _ Payload) Deltas {
	return Deltas{
		Hand:    Some(concatCards(s.Hand, s.Discard)),
		Discard: Some([]Card{}),
		Grid:    Some(r.gen.RefillGrid(s.Grid, s.RefillRate)),
		Turn:    Some(s.Turn + 1),
		Events:  []log.GameEvent{log.NewResetEvent(s.Turn, s.Phase.String(), len(s.Discard))},
	}
}

// --- FINISH_CARD_RESOLUTION ---

// finish discards the active card (unless it carries SYSTEM_RESET) and
// returns the session to PLAYING with the resolution state cleared.
func (r *referee) finish(s Snapshot) Deltas {
	d := clearResolution()
	d.Phase = Some(PhasePlaying)
	if i := indexOfCard(s.Hand, s.ActiveCardID); i >= 0 && !s.Hand[i].HasSystemReset() {
		d.Hand = Some(withoutCard(s.Hand, i))
		d.Discard = Some(append(append([]Card(nil), s.Discard...), s.Hand[i]))
	}
	return d
}

func clearResolution() Deltas {
	return Deltas{
		PendingEffects:  Some([]Effect{}),
		EffectQueue:     Some([]ActiveEffect{}),
		ActiveCardID:    Some(""),
		ReprogramSource: Some[*Coordinate](nil),
	}
}

func popQueue(q []ActiveEffect) []ActiveEffect {
	if len(q) == 0 {
		return []ActiveEffect{}
	}
	return append([]ActiveEffect{}, q[1:]...)
}
