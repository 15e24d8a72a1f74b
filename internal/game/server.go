package game

import (
	"fmt"
	"maps"
	"math/rand"
)

// Requirements maps colors and countermeasure symbols to counts. The same
// shape holds a server's accumulated progress.
type Requirements struct {
	Colors  map[Color]int
	Symbols map[Symbol]int
}

// Clone returns a deep copy; the maps are never shared.
func (r Requirements) Clone() Requirements {
	out := Requirements{Colors: map[Color]int{}, Symbols: map[Symbol]int{}}
	maps.Copy(out.Colors, r.Colors)
	maps.Copy(out.Symbols, r.Symbols)
	return out
}

// ServerNode is a live hacking target.
type ServerNode struct {
	ID           string
	Name         string
	Difficulty   int
	Requirements Requirements
	Progress     Requirements
	Penalty      PenaltyType
	PenaltyValue int
	Status       ServerStatus
}

// Clone returns a deep copy of the server.
func (s ServerNode) Clone() ServerNode {
	s.Requirements = s.Requirements.Clone()
	s.Progress = s.Progress.Clone()
	return s
}

// Reward is the credit payout for hacking the server.
func (s ServerNode) Reward() int {
	return s.Difficulty * 10
}

// CalculateServerProgress scores one cut against a server. Color progress
// accumulates across calls and is clamped at each requirement; countermeasure
// symbols are checked against this cut alone. The returned server is a copy.
func CalculateServerProgress(server ServerNode, cut []Cell) (updated ServerNode, hacked, penalty bool) {
	updated = server.Clone()

	colors := make(map[Color]int)
	symbols := make(map[Symbol]int)
	for _, c := range cut {
		colors[c.Color]++
		if c.Symbol != SymbolNone {
			symbols[c.Symbol]++
		}
	}

	hacked = true
	for color, need := range server.Requirements.Colors {
		total := updated.Progress.Colors[color] + colors[color]
		updated.Progress.Colors[color] = min(total, need)
		if total < need {
			hacked = false
		}
	}

	for sym, need := range server.Requirements.Symbols {
		if symbols[sym] < need {
			penalty = true
		}
	}

	if hacked {
		updated.Status = ServerHacked
	}
	return updated, hacked, penalty
}

// --- Procedural servers ---

var serverNames = []string{
	"Node-Alpha", "Proxy-Beta", "Firewall-Gamma", "Gateway-Delta",
	"Core-Epsilon", "Data-Zeta", "Link-Eta", "Root-Theta",
}

// GenerateServerNode rolls a random server scaled by difficulty.
func GenerateServerNode(rng *rand.Rand, difficulty, idOffset int) ServerNode {
	req := Requirements{Colors: map[Color]int{}, Symbols: map[Symbol]int{}}

	numColors := 1
	if rng.Float64() >= 0.7 {
		numColors = 2
	}
	amount := int(2 + float64(difficulty)*1.5)
	for i := 0; i < numColors; i++ {
		req.Colors[AllColors[rng.Intn(len(AllColors))]] += amount
	}

	if difficulty > 2 && rng.Float64() < 0.4 {
		req.Symbols[Countermeasures[rng.Intn(len(Countermeasures))]] = 1
	}

	penalty := PenaltyTrace
	value := 10 + difficulty*5
	switch {
	case rng.Float64() < 0.33:
	case rng.Float64() < 0.5:
		penalty, value = PenaltyHardwareDamage, 1
	default:
		penalty, value = PenaltyNetDamage, 1
	}

	return ServerNode{
		ID:           fmt.Sprintf("server-%d", idOffset),
		Name:         fmt.Sprintf("%s-%d", serverNames[idOffset%len(serverNames)], difficulty),
		Difficulty:   difficulty,
		Requirements: req,
		Progress:     Requirements{Colors: map[Color]int{}, Symbols: map[Symbol]int{}},
		Penalty:      penalty,
		PenaltyValue: value,
		Status:       ServerActive,
	}
}
