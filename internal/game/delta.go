package game

import "github.com/peterkuimelis/netbreach/internal/log"

// Opt is an optional field of a delta. The zero value means "unchanged";
// Some("") on a string field explicitly clears it.
type Opt[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Set: true}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// Or returns the value if present, else def.
func (o Opt[T]) Or(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

func override[T any](a, b Opt[T]) Opt[T] {
	if b.Set {
		return b
	}
	return a
}

// Deltas is a partial patch over a Snapshot plus the events it produced.
// It is the only output of handlers and mechanics.
type Deltas struct {
	Grid       Opt[Grid]
	RefillRate Opt[int]

	ActiveServers Opt[[]ServerNode]
	DeepMap       Opt[[]ServerNode]

	Hand        Opt[[]Card]
	Deck        Opt[[]Card]
	Discard     Opt[[]Card]
	Trash       Opt[[]Card]
	MaxHandSize Opt[int]

	Stats Opt[PlayerStats]

	SelectedCardID Opt[string]
	Rotation       Opt[int]

	Phase Opt[Phase]
	Turn  Opt[int]

	PendingEffects  Opt[[]Effect]
	EffectQueue     Opt[[]ActiveEffect]
	ActiveCardID    Opt[string]
	ReprogramSource Opt[*Coordinate]

	Events     []log.GameEvent
	DurationMs int

	// Consumed by the systems pipeline after a cut; never committed.
	harvested    []Cell
	targetHacked bool
}

// Empty reports whether the delta changes nothing and emits nothing.
func (d Deltas) Empty() bool {
	return !d.Grid.Set && !d.RefillRate.Set &&
		!d.ActiveServers.Set && !d.DeepMap.Set &&
		!d.Hand.Set && !d.Deck.Set && !d.Discard.Set && !d.Trash.Set && !d.MaxHandSize.Set &&
		!d.Stats.Set && !d.SelectedCardID.Set && !d.Rotation.Set &&
		!d.Phase.Set && !d.Turn.Set &&
		!d.PendingEffects.Set && !d.EffectQueue.Set && !d.ActiveCardID.Set && !d.ReprogramSource.Set &&
		len(d.Events) == 0
}

// MergeDeltas combines two deltas: events append, and every field present in
// b replaces the one in a. Nothing is merged below field level.
func MergeDeltas(a, b Deltas) Deltas {
	out := Deltas{
		Grid:            override(a.Grid, b.Grid),
		RefillRate:      override(a.RefillRate, b.RefillRate),
		ActiveServers:   override(a.ActiveServers, b.ActiveServers),
		DeepMap:         override(a.DeepMap, b.DeepMap),
		Hand:            override(a.Hand, b.Hand),
		Deck:            override(a.Deck, b.Deck),
		Discard:         override(a.Discard, b.Discard),
		Trash:           override(a.Trash, b.Trash),
		MaxHandSize:     override(a.MaxHandSize, b.MaxHandSize),
		Stats:           override(a.Stats, b.Stats),
		SelectedCardID:  override(a.SelectedCardID, b.SelectedCardID),
		Rotation:        override(a.Rotation, b.Rotation),
		Phase:           override(a.Phase, b.Phase),
		Turn:            override(a.Turn, b.Turn),
		PendingEffects:  override(a.PendingEffects, b.PendingEffects),
		EffectQueue:     override(a.EffectQueue, b.EffectQueue),
		ActiveCardID:    override(a.ActiveCardID, b.ActiveCardID),
		ReprogramSource: override(a.ReprogramSource, b.ReprogramSource),
		DurationMs:      a.DurationMs,
		harvested:       a.harvested,
		targetHacked:    a.targetHacked || b.targetHacked,
	}
	if len(a.Events)+len(b.Events) > 0 {
		out.Events = make([]log.GameEvent, 0, len(a.Events)+len(b.Events))
		out.Events = append(out.Events, a.Events...)
		out.Events = append(out.Events, b.Events...)
	}
	if b.DurationMs != 0 {
		out.DurationMs = b.DurationMs
	}
	if b.harvested != nil {
		out.harvested = b.harvested
	}
	return out
}

// Patch returns s with every field present in d applied. s itself is not
// modified; the result shares untouched slices with s.
func (s Snapshot) Patch(d Deltas) Snapshot {
	if v, ok := d.Grid.Get(); ok {
		s.Grid = v
	}
	if v, ok := d.RefillRate.Get(); ok {
		s.RefillRate = v
	}
	if v, ok := d.ActiveServers.Get(); ok {
		s.ActiveServers = v
	}
	if v, ok := d.DeepMap.Get(); ok {
		s.DeepMap = v
	}
	if v, ok := d.Hand.Get(); ok {
		s.Hand = v
	}
	if v, ok := d.Deck.Get(); ok {
		s.Deck = v
	}
	if v, ok := d.Discard.Get(); ok {
		s.Discard = v
	}
	if v, ok := d.Trash.Get(); ok {
		s.Trash = v
	}
	if v, ok := d.MaxHandSize.Get(); ok {
		s.MaxHandSize = v
	}
	if v, ok := d.Stats.Get(); ok {
		s.Stats = v
	}
	if v, ok := d.SelectedCardID.Get(); ok {
		s.SelectedCardID = v
	}
	if v, ok := d.Rotation.Get(); ok {
		s.Rotation = v
	}
	if v, ok := d.Phase.Get(); ok {
		s.Phase = v
	}
	if v, ok := d.Turn.Get(); ok {
		s.Turn = v
	}
	if v, ok := d.PendingEffects.Get(); ok {
		s.PendingEffects = v
	}
	if v, ok := d.EffectQueue.Get(); ok {
		s.EffectQueue = v
	}
	if v, ok := d.ActiveCardID.Get(); ok {
		s.ActiveCardID = v
	}
	if v, ok := d.ReprogramSource.Get(); ok {
		s.ReprogramSource = v
	}
	return s
}

// rejected is the "invalid target" delta: an error cue and nothing else,
// except that the effect queue is echoed back so the caller keeps its head.
func rejected(s Snapshot, reason string) Deltas {
	return Deltas{
		Events:      []log.GameEvent{log.NewRejectedEvent(s.Turn, s.Phase.String(), reason)},
		EffectQueue: Some(s.EffectQueue),
	}
}
