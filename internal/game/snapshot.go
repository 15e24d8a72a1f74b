package game

// Snapshot is a read of the whole session at the moment an action is
// dispatched. Handlers treat it as immutable and copy before changing any
// slice or map reachable from it.
type Snapshot struct {
	Grid       Grid
	RefillRate int

	ActiveServers []ServerNode
	DeepMap       []ServerNode

	Hand        []Card
	Deck        []Card // top of deck is last element (pop from end)
	Discard     []Card
	Trash       []Card
	MaxHandSize int

	Stats PlayerStats

	SelectedCardID string // "" when nothing is selected
	Rotation       int    // 0, 90, 180 or 270

	Phase Phase
	Turn  int

	PendingEffects  []Effect
	EffectQueue     []ActiveEffect
	ActiveCardID    string
	ReprogramSource *Coordinate
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Grid = s.Grid.Clone()
	out.ActiveServers = cloneServers(s.ActiveServers)
	out.DeepMap = cloneServers(s.DeepMap)
	out.Hand = append([]Card(nil), s.Hand...)
	out.Deck = append([]Card(nil), s.Deck...)
	out.Discard = append([]Card(nil), s.Discard...)
	out.Trash = append([]Card(nil), s.Trash...)
	out.PendingEffects = append([]Effect(nil), s.PendingEffects...)
	out.EffectQueue = append([]ActiveEffect(nil), s.EffectQueue...)
	if s.ReprogramSource != nil {
		c := *s.ReprogramSource
		out.ReprogramSource = &c
	}
	return out
}

// CardCount returns the number of cards across all four piles.
func (s Snapshot) CardCount() int {
	return len(s.Hand) + len(s.Deck) + len(s.Discard) + len(s.Trash)
}

// HeadEffect returns the effect at the front of the resolution queue.
func (s Snapshot) HeadEffect() (ActiveEffect, bool) {
	if len(s.EffectQueue) == 0 {
		return ActiveEffect{}, false
	}
	return s.EffectQueue[0], true
}

// SelectedCard returns the selected hand card, if any.
func (s Snapshot) SelectedCard() (Card, bool) {
	if s.SelectedCardID == "" {
		return Card{}, false
	}
	return findCard(s.Hand, s.SelectedCardID)
}

// ActiveCard returns the card being resolved, if it is still in hand.
func (s Snapshot) ActiveCard() (Card, bool) {
	if s.ActiveCardID == "" {
		return Card{}, false
	}
	return findCard(s.Hand, s.ActiveCardID)
}
