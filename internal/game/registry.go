package game

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCard is returned when a deck names a card missing from the registry.
var ErrUnknownCard = errors.New("unknown card")

// Named footprints used by the starting deck.
var (
	PatternLineH  = Pattern{{-1, 0}, {0, 0}, {1, 0}}
	PatternLineV  = Pattern{{0, -1}, {0, 0}, {0, 1}}
	PatternSquare = Pattern{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	PatternT      = Pattern{{-1, 0}, {0, 0}, {1, 0}, {0, 1}}
	PatternL      = Pattern{{0, -1}, {0, 0}, {1, 0}}
)

// CardRegistry maps card names to their constructor functions.
var CardRegistry = map[string]func() Card{
	"Line H":    LineH,
	"Line V":    LineV,
	"Square":    Square,
	"T-Shape":   TShape,
	"L-Shape":   LShape,
	"SYS/RESET": SysReset,
	"Splice":    Splice,
	"Rewire":    Rewire,
	"Overclock": Overclock,
	"Sweep":     Sweep,
}

func LineH() Card  { return cutCard("Line H", ColorBlue, PatternLineH) }
func LineV() Card  { return cutCard("Line V", ColorRed, PatternLineV) }
func Square() Card { return cutCard("Square", ColorGreen, PatternSquare) }
func TShape() Card { return cutCard("T-Shape", ColorYellow, PatternT) }
func LShape() Card { return cutCard("L-Shape", ColorPurple, PatternL) }

func SysReset() Card {
	return Card{Name: "SYS/RESET", Color: ColorRed, Effects: []Effect{SystemResetEffect{}}}
}

// Splice cuts a horizontal line, then reprograms one cell pair.
func Splice() Card {
	return Card{Name: "Splice", Color: ColorPurple, Effects: []Effect{
		CutEffect{Pattern: PatternLineH.Clone()},
		ReprogramEffect{Amount: 1},
	}}
}

func Rewire() Card {
	return Card{Name: "Rewire", Color: ColorBlue, Effects: []Effect{ReprogramEffect{Amount: 2}}}
}

// Overclock cuts a square and then merges the discard pile back into hand.
func Overclock() Card {
	return Card{Name: "Overclock", Color: ColorYellow, Effects: []Effect{
		CutEffect{Pattern: PatternSquare.Clone()},
		SystemResetEffect{},
	}}
}

func Sweep() Card {
	return Card{Name: "Sweep", Color: ColorRed, Effects: []Effect{
		CutEffect{Pattern: PatternL.Clone()},
		CutEffect{Pattern: PatternLineV.Clone()},
	}}
}

func cutCard(name string, color Color, p Pattern) Card {
	return Card{Name: name, Color: color, Effects: []Effect{CutEffect{Pattern: p.Clone()}}}
}

// LookupCard looks up a card by name and returns a new instance.
// Panics if the card is not found.
func LookupCard(name string) Card {
	c, err := ResolveCard(name)
	if err != nil {
		panic(err.Error())
	}
	return c
}

// ResolveCard is LookupCard for names coming from files.
func ResolveCard(name string) (Card, error) {
	ctor, ok := CardRegistry[name]
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, name)
	}
	return ctor(), nil
}

// CardNames returns the registered card names in sorted order.
func CardNames() []string {
	names := make([]string, 0, len(CardRegistry))
	for name := range CardRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
