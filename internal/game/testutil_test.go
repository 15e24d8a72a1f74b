package game

import (
	"fmt"
	"testing"

	"github.com/peterkuimelis/netbreach/internal/log"
)

// newTestEngine returns an initialized engine with a fixed seed and an
// unshuffled Starter deck, plus the logger receiving its cues.
func newTestEngine(t *testing.T) (*Engine, *log.MemoryLogger) {
	t.Helper()
	events := log.NewMemoryLogger()
	e, err := NewEngine(Config{Seed: 42, NoShuffle: true, Events: events})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.Dispatch(InitializeGame())
	if got := e.Snapshot().Phase; got != PhasePlaying {
		t.Fatalf("phase after init = %s, want PLAYING", got)
	}
	return e, events
}

// setState edits the committed state directly, for arranging scenarios.
func setState(e *Engine, fn func(s *Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.state)
}

var colorLetters = map[byte]Color{
	'R': ColorRed, 'B': ColorBlue, 'G': ColorGreen, 'Y': ColorYellow, 'P': ColorPurple,
}

// parseGrid builds a grid from rows of color letters (R, B, G, Y, P); '.'
// is a BROKEN cell. Rows are listed top to bottom.
func parseGrid(t *testing.T, rows ...string) Grid {
	t.Helper()
	grid := make(Grid, len(rows))
	for y, row := range rows {
		grid[y] = make([]Cell, len(row))
		for x := 0; x < len(row); x++ {
			c := Cell{ID: fmt.Sprintf("c-%d-%d", x, y), X: x, Y: y, State: CellLocked}
			if row[x] == '.' {
				c.State = CellBroken
			} else {
				color, ok := colorLetters[row[x]]
				if !ok {
					t.Fatalf("parseGrid: bad letter %q at (%d,%d)", row[x], x, y)
				}
				c.Color = color
			}
			grid[y][x] = c
		}
	}
	return grid
}

// uniformGrid is a rows×cols grid of LOCKED cells of one color.
func uniformGrid(rows, cols int, color Color) Grid {
	grid := make(Grid, rows)
	for y := range grid {
		grid[y] = make([]Cell, cols)
		for x := range grid[y] {
			grid[y][x] = Cell{ID: fmt.Sprintf("u-%d-%d", x, y), X: x, Y: y, Color: color, State: CellLocked}
		}
	}
	return grid
}

// withID returns c carrying the given instance id.
func withID(c Card, id string) Card {
	c.ID = id
	return c
}

// fillerDeck returns n Line H cards with ids deck-0, deck-1, ...
func fillerDeck(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = withID(LineH(), fmt.Sprintf("deck-%d", i))
	}
	return cards
}

func server(id string, colors map[Color]int, symbols map[Symbol]int) ServerNode {
	return ServerNode{
		ID:           id,
		Name:         id,
		Difficulty:   1,
		Requirements: Requirements{Colors: colors, Symbols: symbols},
		Progress:     Requirements{Colors: map[Color]int{}, Symbols: map[Symbol]int{}},
		Penalty:      PenaltyTrace,
		PenaltyValue: 10,
		Status:       ServerActive,
	}
}

func findServer(servers []ServerNode, id string) (ServerNode, bool) {
	for _, s := range servers {
		if s.ID == id {
			return s, true
		}
	}
	return ServerNode{}, false
}

func assertPhase(t *testing.T, e *Engine, want Phase) {
	t.Helper()
	if got := e.Snapshot().Phase; got != want {
		t.Fatalf("phase = %s, want %s", got, want)
	}
	if got := e.Phase(); got != want {
		t.Fatalf("phase machine = %s, want %s", got, want)
	}
}
