package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

type Color int

const (
	ColorRed Color = iota
	ColorBlue
	ColorGreen
	ColorYellow
	ColorPurple
)

// AllColors lists every cell color in display order.
var AllColors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorPurple}

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "RED"
	case ColorBlue:
		return "BLUE"
	case ColorGreen:
		return "GREEN"
	case ColorYellow:
		return "YELLOW"
	case ColorPurple:
		return "PURPLE"
	default:
		return "Unknown"
	}
}

// ParseColor converts a color name (case-insensitive) to a Color.
func ParseColor(s string) (Color, error) {
	for _, c := range AllColors {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

type Symbol int

const (
	SymbolNone Symbol = iota
	SymbolShield
	SymbolEye
	SymbolSkull
)

// Countermeasures are the symbols a cell can carry besides SymbolNone.
var Countermeasures = []Symbol{SymbolShield, SymbolEye, SymbolSkull}

func (s Symbol) String() string {
	switch s {
	case SymbolShield:
		return "SHIELD"
	case SymbolEye:
		return "EYE"
	case SymbolSkull:
		return "SKULL"
	default:
		return "NONE"
	}
}

// ParseSymbol converts a symbol name (case-insensitive) to a Symbol.
func ParseSymbol(s string) (Symbol, error) {
	if strings.EqualFold(s, "NONE") {
		return SymbolNone, nil
	}
	for _, sym := range Countermeasures {
		if strings.EqualFold(s, sym.String()) {
			return sym, nil
		}
	}
	return 0, fmt.Errorf("unknown symbol %q", s)
}

type CellState int

const (
	CellLocked CellState = iota
	CellBroken
	CellCorrupted // reserved
)

func (s CellState) String() string {
	switch s {
	case CellLocked:
		return "LOCKED"
	case CellBroken:
		return "BROKEN"
	case CellCorrupted:
		return "CORRUPTED"
	default:
		return "Unknown"
	}
}

type PenaltyType int

const (
	PenaltyTrace PenaltyType = iota
	PenaltyHardwareDamage
	PenaltyNetDamage
)

func (p PenaltyType) String() string {
	switch p {
	case PenaltyTrace:
		return "TRACE"
	case PenaltyHardwareDamage:
		return "HARDWARE_DAMAGE"
	case PenaltyNetDamage:
		return "NET_DAMAGE"
	default:
		return "Unknown"
	}
}

// ParsePenalty converts a penalty name to a PenaltyType.
func ParsePenalty(s string) (PenaltyType, error) {
	for _, p := range []PenaltyType{PenaltyTrace, PenaltyHardwareDamage, PenaltyNetDamage} {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown penalty %q", s)
}

type ServerStatus int

const (
	ServerActive ServerStatus = iota
	ServerHacked
	ServerLocked
)

func (s ServerStatus) String() string {
	switch s {
	case ServerActive:
		return "ACTIVE"
	case ServerHacked:
		return "HACKED"
	case ServerLocked:
		return "LOCKED"
	default:
		return "Unknown"
	}
}

// Phase is the session-wide game phase.
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhaseEffectOrdering
	PhaseEffectResolution
	PhaseGameOver
	PhaseVictory
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "MENU"
	case PhasePlaying:
		return "PLAYING"
	case PhaseEffectOrdering:
		return "EFFECT_ORDERING"
	case PhaseEffectResolution:
		return "EFFECT_RESOLUTION"
	case PhaseGameOver:
		return "GAME_OVER"
	case PhaseVictory:
		return "VICTORY"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the phase ends the session.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver || p == PhaseVictory
}

// --- Grid primitives ---

// Coordinate is a grid position or a pattern offset relative to an anchor.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Cell is one square of the grid.
type Cell struct {
	ID     string
	X, Y   int
	Color  Color
	Symbol Symbol
	State  CellState
}

// Grid is a rectangular matrix of cells indexed [y][x].
type Grid [][]Cell

// Pattern is a card footprint, relative to its anchor.
type Pattern []Coordinate

// --- Player ---

// PlayerStats tracks the runner's health, trace and score.
type PlayerStats struct {
	HardwareHealth    int
	MaxHardwareHealth int
	Trace             int
	Credits           int
}

const MaxTrace = 100
