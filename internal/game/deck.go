package game

import (
	"fmt"
	"math/rand"
)

// DeckEntry represents a single deck in the rules file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// Size returns the number of cards the deck expands to.
func (d DeckEntry) Size() int {
	n := 0
	for _, e := range d.Cards {
		n += e.Count
	}
	return n
}

// Build expands the entry into card instances with ids card-0, card-1, ...
// in file order.
func (d DeckEntry) Build() ([]Card, error) {
	cards := make([]Card, 0, d.Size())
	for _, entry := range d.Cards {
		for i := 0; i < entry.Count; i++ {
			c, err := ResolveCard(entry.Name)
			if err != nil {
				return nil, fmt.Errorf("deck %q: %w", d.Name, err)
			}
			c.ID = fmt.Sprintf("card-%d", len(cards))
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// DeckByNumber returns the Nth deck (1-indexed) of the rules.
func (r *Rules) DeckByNumber(n int) (DeckEntry, error) {
	if n < 1 || n > len(r.Decks) {
		return DeckEntry{}, fmt.Errorf("deck %d not found (have %d decks)", n, len(r.Decks))
	}
	return r.Decks[n-1], nil
}

// ShuffleCards returns a uniformly permuted copy of cards.
func ShuffleCards(rng *rand.Rand, cards []Card) []Card {
	out := append([]Card(nil), cards...)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
