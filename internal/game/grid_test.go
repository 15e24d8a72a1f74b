package game

import (
	"math/rand"
	"slices"
	"testing"
)

func TestCheckPatternFit(t *testing.T) {
	grid := parseGrid(t,
		"RRR",
		"R.R",
		"RRR",
	)
	tests := []struct {
		name    string
		pattern Pattern
		x, y    int
		want    bool
	}{
		{"line on top row", PatternLineH, 1, 0, true},
		{"line off the left edge", PatternLineH, 0, 0, false},
		{"line through broken center", PatternLineH, 1, 1, false},
		{"square in corner", PatternSquare, 1, 1, false},
		{"square top left", PatternSquare, 0, 0, false},
		{"vertical on left column", PatternLineV, 0, 1, true},
		{"empty pattern", Pattern{}, 1, 1, true},
		{"anchor outside grid", Pattern{{0, 0}}, 5, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPatternFit(grid, tt.pattern, tt.x, tt.y); got != tt.want {
				t.Errorf("CheckPatternFit(%v @ %d,%d) = %v, want %v", tt.pattern, tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestAffectedCellsMatchFittingPattern(t *testing.T) {
	grid := NewGenerator(rand.New(rand.NewSource(7)), 0.3).CreateGrid(6, 6)
	grid[2][3].State = CellBroken
	grid[4][1].State = CellBroken

	patterns := []Pattern{PatternLineH, PatternLineV, PatternSquare, PatternT, PatternL}
	for _, base := range patterns {
		for _, deg := range []int{0, 90, 180, 270} {
			p := base.Rotate(deg)
			for y := 0; y < grid.Rows(); y++ {
				for x := 0; x < grid.Cols(); x++ {
					if !CheckPatternFit(grid, p, x, y) {
						continue
					}
					cells := AffectedCells(grid, p, x, y)
					if len(cells) != len(p) {
						t.Fatalf("%v @ %d,%d: %d cells, want %d", p, x, y, len(cells), len(p))
					}
					for i, c := range cells {
						if c.X != x+p[i].X || c.Y != y+p[i].Y {
							t.Errorf("cell %d at (%d,%d), want offset %v from (%d,%d)", i, c.X, c.Y, p[i], x, y)
						}
						if c.State == CellBroken {
							t.Errorf("fitting pattern returned broken cell (%d,%d)", c.X, c.Y)
						}
					}
				}
			}
		}
	}
}

func TestAffectedCellsDropsOutOfBounds(t *testing.T) {
	grid := uniformGrid(3, 3, ColorBlue)
	if got := len(AffectedCells(grid, PatternLineH, 0, 0)); got != 2 {
		t.Errorf("got %d cells, want 2", got)
	}
}

func TestRotateIsCyclicOfOrderFour(t *testing.T) {
	for _, p := range []Pattern{PatternLineH, PatternLineV, PatternSquare, PatternT, PatternL} {
		if got := p.Rotate(0); !slices.Equal(got, p) {
			t.Errorf("Rotate(0) of %v = %v", p, got)
		}
		r := p
		for i := 0; i < 4; i++ {
			r = r.Rotate(90)
		}
		if !slices.Equal(r, p) {
			t.Errorf("four quarter turns of %v = %v", p, r)
		}
		if !slices.Equal(p.Rotate(360), p) {
			t.Errorf("Rotate(360) of %v is not the identity", p)
		}
		if !slices.Equal(p.Rotate(-90), p.Rotate(270)) {
			t.Errorf("Rotate(-90) != Rotate(270) for %v", p)
		}
	}
}

func TestRotateClockwise(t *testing.T) {
	if got := PatternLineH.Rotate(90); !slices.Equal(got, PatternLineV) {
		t.Errorf("Line H turned 90 = %v, want %v", got, PatternLineV)
	}
	want := Pattern{{0, 0}, {0, 1}, {-1, 0}, {-1, 1}}
	if got := PatternSquare.Rotate(90); !slices.Equal(got, want) {
		t.Errorf("Square turned 90 = %v, want %v", got, want)
	}
}

func TestRefillGrid(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(3)), 0.3)
	in := parseGrid(t,
		"RG.B",
		".YP.",
		"BBBB",
	)

	t.Run("fills every broken cell when amount is large", func(t *testing.T) {
		out := gen.RefillGrid(in, 5)
		if n := out.CountState(CellBroken); n != 0 {
			t.Fatalf("%d broken cells left", n)
		}
		if n := in.CountState(CellBroken); n != 3 {
			t.Fatalf("input grid modified: %d broken cells", n)
		}
		for y := range in {
			for x := range in[y] {
				if in[y][x].State == CellLocked && out[y][x] != in[y][x] {
					t.Errorf("locked cell (%d,%d) changed: %+v -> %+v", x, y, in[y][x], out[y][x])
				}
				if in[y][x].State == CellBroken {
					if out[y][x].X != x || out[y][x].Y != y || out[y][x].ID == in[y][x].ID {
						t.Errorf("refilled cell (%d,%d) = %+v", x, y, out[y][x])
					}
				}
			}
		}
	})

	t.Run("fills at most amount", func(t *testing.T) {
		out := gen.RefillGrid(in, 2)
		if n := out.CountState(CellBroken); n != 1 {
			t.Errorf("%d broken cells left, want 1", n)
		}
	})

	t.Run("no broken cells yields an equal copy", func(t *testing.T) {
		full := uniformGrid(2, 2, ColorGreen)
		out := gen.RefillGrid(full, 5)
		for y := range full {
			if !slices.Equal(out[y], full[y]) {
				t.Fatalf("row %d differs", y)
			}
		}
		out[0][0].Color = ColorRed
		if full[0][0].Color != ColorGreen {
			t.Error("refill returned a grid sharing cells with its input")
		}
	})
}

func TestCreateGrid(t *testing.T) {
	grid := NewGenerator(rand.New(rand.NewSource(1)), 0.3).CreateGrid(DefaultGridSize, DefaultGridSize)
	if grid.Rows() != 6 || grid.Cols() != 6 {
		t.Fatalf("grid is %dx%d", grid.Rows(), grid.Cols())
	}
	ids := make(map[string]bool)
	for y, row := range grid {
		for x, c := range row {
			if c.X != x || c.Y != y {
				t.Errorf("cell at (%d,%d) reports (%d,%d)", x, y, c.X, c.Y)
			}
			if c.State != CellLocked {
				t.Errorf("cell (%d,%d) state %s", x, y, c.State)
			}
			if ids[c.ID] {
				t.Errorf("duplicate id %s", c.ID)
			}
			ids[c.ID] = true
		}
	}
}
