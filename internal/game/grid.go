package game

import (
	"math/rand"

	"github.com/google/uuid"
)

const (
	DefaultGridSize     = 6
	DefaultRefillRate   = 5
	DefaultSymbolChance = 0.3
)

// Generator produces fresh cells. All grid randomness flows through it.
type Generator struct {
	rng          *rand.Rand
	symbolChance float64
}

// NewGenerator returns a cell generator drawing from rng.
func NewGenerator(rng *rand.Rand, symbolChance float64) *Generator {
	return &Generator{rng: rng, symbolChance: symbolChance}
}

// NewCell creates a LOCKED cell at (x, y) with a random color and, with
// probability symbolChance, a random countermeasure symbol.
func (g *Generator) NewCell(x, y int) Cell {
	sym := SymbolNone
	if g.rng.Float64() < g.symbolChance {
		sym = Countermeasures[g.rng.Intn(len(Countermeasures))]
	}
	return Cell{
		ID:     uuid.NewString(),
		X:      x,
		Y:      y,
		Color:  AllColors[g.rng.Intn(len(AllColors))],
		Symbol: sym,
		State:  CellLocked,
	}
}

// CreateGrid builds a rows×cols grid of fresh cells.
func (g *Generator) CreateGrid(rows, cols int) Grid {
	grid := make(Grid, rows)
	for y := 0; y < rows; y++ {
		grid[y] = make([]Cell, cols)
		for x := 0; x < cols; x++ {
			grid[y][x] = g.NewCell(x, y)
		}
	}
	return grid
}

// RefillGrid returns a copy of grid in which up to amount BROKEN cells,
// picked uniformly at random, are replaced by fresh cells. The input grid is
// never modified.
func (g *Generator) RefillGrid(grid Grid, amount int) Grid {
	out := grid.Clone()

	var broken []Coordinate
	for y := range out {
		for x := range out[y] {
			if out[y][x].State == CellBroken {
				broken = append(broken, Coordinate{X: x, Y: y})
			}
		}
	}

	g.rng.Shuffle(len(broken), func(i, j int) {
		broken[i], broken[j] = broken[j], broken[i]
	})

	n := min(amount, len(broken))
	for _, c := range broken[:max(n, 0)] {
		out[c.Y][c.X] = g.NewCell(c.X, c.Y)
	}
	return out
}

// --- Grid helpers ---

func (g Grid) Rows() int { return len(g) }

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g Grid) InBounds(x, y int) bool {
	return y >= 0 && y < len(g) && x >= 0 && x < len(g[y])
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]Cell(nil), row...)
	}
	return out
}

// CountState returns how many cells are in the given state.
func (g Grid) CountState(s CellState) int {
	n := 0
	for _, row := range g {
		for _, c := range row {
			if c.State == s {
				n++
			}
		}
	}
	return n
}

// CheckPatternFit reports whether every offset of pattern, anchored at
// (x, y), lands on an in-bounds, non-BROKEN cell.
func CheckPatternFit(grid Grid, pattern Pattern, x, y int) bool {
	for _, off := range pattern {
		cx, cy := x+off.X, y+off.Y
		if !grid.InBounds(cx, cy) {
			return false
		}
		if grid[cy][cx].State == CellBroken {
			return false
		}
	}
	return true
}

// AffectedCells returns the cells under pattern anchored at (x, y).
// Out-of-bounds offsets are dropped; validate with CheckPatternFit first.
func AffectedCells(grid Grid, pattern Pattern, x, y int) []Cell {
	cells := make([]Cell, 0, len(pattern))
	for _, off := range pattern {
		cx, cy := x+off.X, y+off.Y
		if grid.InBounds(cx, cy) {
			cells = append(cells, grid[cy][cx])
		}
	}
	return cells
}

// --- Patterns ---

// Rotate turns the pattern clockwise (screen coordinates, y down) by degrees,
// which is normalized to one of 0, 90, 180 or 270.
func (p Pattern) Rotate(degrees int) Pattern {
	turns := ((degrees/90)%4 + 4) % 4
	out := make(Pattern, len(p))
	for i, c := range p {
		for t := 0; t < turns; t++ {
			c = Coordinate{X: -c.Y, Y: c.X}
		}
		out[i] = c
	}
	return out
}

// Clone returns a copy of the pattern.
func (p Pattern) Clone() Pattern {
	return append(Pattern(nil), p...)
}
