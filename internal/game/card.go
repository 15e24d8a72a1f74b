package game

import "fmt"

// EffectKind identifies the variant of an Effect.
type EffectKind int

const (
	KindCut EffectKind = iota
	KindReprogram
	KindSystemReset
)

func (k EffectKind) String() string {
	switch k {
	case KindCut:
		return "CUT"
	case KindReprogram:
		return "REPROGRAM"
	case KindSystemReset:
		return "SYSTEM_RESET"
	default:
		return "Unknown"
	}
}

// Effect is one step of a card. The set of variants is closed: CutEffect,
// ReprogramEffect and SystemResetEffect.
type Effect interface {
	Kind() EffectKind
	String() string
	sealed()
}

// CutEffect breaks a pattern-shaped region at a player-chosen anchor.
type CutEffect struct {
	Pattern Pattern
}

// ReprogramEffect swaps or moves color+symbol between Amount cell pairs.
type ReprogramEffect struct {
	Amount int
}

// SystemResetEffect merges the discard pile back into hand, refills the grid
// and advances the turn.
type SystemResetEffect struct{}

func (CutEffect) Kind() EffectKind         { return KindCut }
func (ReprogramEffect) Kind() EffectKind   { return KindReprogram }
func (SystemResetEffect) Kind() EffectKind { return KindSystemReset }

func (e CutEffect) String() string       { return fmt.Sprintf("CUT%v", []Coordinate(e.Pattern)) }
func (e ReprogramEffect) String() string { return fmt.Sprintf("REPROGRAM x%d", e.Amount) }
func (SystemResetEffect) String() string { return "SYSTEM_RESET" }

func (CutEffect) sealed()         {}
func (ReprogramEffect) sealed()   {}
func (SystemResetEffect) sealed() {}

// ActiveEffect is an effect waiting in the resolution queue.
type ActiveEffect struct {
	CardID string
	Effect Effect
}

// --- Card definition ---

// Card is a playable card instance. Instances are created once, when the
// deck is built, and only move between piles afterwards.
type Card struct {
	ID      string
	Name    string
	Color   Color // cosmetic
	Effects []Effect
}

// HasSystemReset reports whether any of the card's effects is SYSTEM_RESET.
func (c Card) HasSystemReset() bool {
	for _, e := range c.Effects {
		if e != nil && e.Kind() == KindSystemReset {
			return true
		}
	}
	return false
}

// FirstCut returns the card's first CUT pattern, if any.
func (c Card) FirstCut() (Pattern, bool) {
	for _, e := range c.Effects {
		if cut, ok := e.(CutEffect); ok {
			return cut.Pattern, true
		}
	}
	return nil, false
}

// --- Piles ---

func indexOfCard(cards []Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// findCard returns the card with the given id, if present.
func findCard(cards []Card, id string) (Card, bool) {
	if i := indexOfCard(cards, id); i >= 0 {
		return cards[i], true
	}
	return Card{}, false
}

// withoutCard returns a copy of cards with the card at index i removed.
func withoutCard(cards []Card, i int) []Card {
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	return append(out, cards[i+1:]...)
}

// concatCards returns a fresh slice holding a followed by b.
func concatCards(a, b []Card) []Card {
	out := make([]Card, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
