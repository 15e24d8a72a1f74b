package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rules holds every tunable of a session plus the decks and network.
type Rules struct {
	GridRows          int
	GridCols          int
	RefillRate        int
	SymbolChance      float64
	MaxHandSize       int
	OpeningHand       int
	Player            PlayerStats
	EndTurnPenalty    int
	RebootPenalty     int
	ActiveRowSize     int
	ProceduralServers bool
	Decks             []DeckEntry
	Network           *Network
}

// --- File format ---

// RulesFile represents the top-level YAML structure.
type RulesFile struct {
	Grid struct {
		Rows         int     `yaml:"rows"`
		Cols         int     `yaml:"cols"`
		RefillRate   int     `yaml:"refill_rate"`
		SymbolChance float64 `yaml:"symbol_chance"`
	} `yaml:"grid"`
	Hand struct {
		MaxSize int `yaml:"max_size"`
		Opening int `yaml:"opening"`
	} `yaml:"hand"`
	Player struct {
		Hardware int `yaml:"hardware"`
		Trace    int `yaml:"trace"`
		Credits  int `yaml:"credits"`
	} `yaml:"player"`
	Turn struct {
		EndTurnPenalty int `yaml:"end_turn_penalty"`
		RebootPenalty  int `yaml:"reboot_penalty"`
	} `yaml:"turn"`
	ActiveRow         int         `yaml:"active_row"`
	ProceduralServers bool        `yaml:"procedural_servers"`
	Decks             []DeckEntry `yaml:"decks"`
	Network           NetworkFile `yaml:"network"`
}

// NetworkFile is the YAML form of the server graph.
type NetworkFile struct {
	StartingNodes []string   `yaml:"starting_nodes"`
	Nodes         []NodeFile `yaml:"nodes"`
}

// NodeFile is the YAML form of one server template.
type NodeFile struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Difficulty   int    `yaml:"difficulty"`
	Requirements struct {
		Colors  map[string]int `yaml:"colors"`
		Symbols map[string]int `yaml:"symbols"`
	} `yaml:"requirements"`
	Penalty      string   `yaml:"penalty"`
	PenaltyValue int      `yaml:"penalty_value"`
	Edges        []string `yaml:"edges"`
	Target       bool     `yaml:"target"`
}

// DefaultRules returns the built-in rules. Panics if the embedded file is
// invalid.
func DefaultRules() *Rules {
	r, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules: %v", err))
	}
	return r
}

// LoadRules reads a rules file from disk. An empty path yields the defaults.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}

// ParseRules decodes and validates a rules document. Zero-valued tunables
// fall back to the built-in defaults.
func ParseRules(data []byte) (*Rules, error) {
	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules YAML: %w", err)
	}

	r := &Rules{
		GridRows:          orDefault(rf.Grid.Rows, DefaultGridSize),
		GridCols:          orDefault(rf.Grid.Cols, DefaultGridSize),
		RefillRate:        orDefault(rf.Grid.RefillRate, DefaultRefillRate),
		SymbolChance:      rf.Grid.SymbolChance,
		MaxHandSize:       orDefault(rf.Hand.MaxSize, 4),
		OpeningHand:       orDefault(rf.Hand.Opening, 4),
		EndTurnPenalty:    orDefault(rf.Turn.EndTurnPenalty, 2),
		RebootPenalty:     orDefault(rf.Turn.RebootPenalty, 10),
		ActiveRowSize:     orDefault(rf.ActiveRow, 3),
		ProceduralServers: rf.ProceduralServers,
		Decks:             rf.Decks,
		Player: PlayerStats{
			HardwareHealth:    orDefault(rf.Player.Hardware, 3),
			MaxHardwareHealth: orDefault(rf.Player.Hardware, 3),
			Trace:             rf.Player.Trace,
			Credits:           rf.Player.Credits,
		},
	}
	if r.SymbolChance == 0 {
		r.SymbolChance = DefaultSymbolChance
	}

	if len(r.Decks) == 0 {
		return nil, errors.New("rules define no decks")
	}
	for _, d := range r.Decks {
		if _, err := d.Build(); err != nil {
			return nil, err
		}
	}

	net, err := rf.Network.build()
	if err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	r.Network = net
	return r, nil
}

func (nf NetworkFile) build() (*Network, error) {
	n := &Network{
		Nodes:    make(map[string]GraphNode, len(nf.Nodes)),
		Starting: nf.StartingNodes,
	}
	for _, node := range nf.Nodes {
		if _, dup := n.Nodes[node.ID]; dup {
			return nil, fmt.Errorf("duplicate node %q", node.ID)
		}
		tmpl, err := node.template()
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", node.ID, err)
		}
		n.Nodes[node.ID] = GraphNode{Template: tmpl, Edges: node.Edges, IsTarget: node.Target}
		n.Order = append(n.Order, node.ID)
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func (nf NodeFile) template() (ServerNode, error) {
	req := Requirements{Colors: map[Color]int{}, Symbols: map[Symbol]int{}}
	for name, amount := range nf.Requirements.Colors {
		c, err := ParseColor(name)
		if err != nil {
			return ServerNode{}, err
		}
		req.Colors[c] = amount
	}
	for name, amount := range nf.Requirements.Symbols {
		s, err := ParseSymbol(name)
		if err != nil {
			return ServerNode{}, err
		}
		if s == SymbolNone {
			return ServerNode{}, errors.New("NONE is not a countermeasure")
		}
		req.Symbols[s] = amount
	}
	penalty, err := ParsePenalty(nf.Penalty)
	if err != nil {
		return ServerNode{}, err
	}
	return ServerNode{
		ID:           nf.ID,
		Name:         nf.Name,
		Difficulty:   nf.Difficulty,
		Requirements: req,
		Progress:     Requirements{Colors: map[Color]int{}, Symbols: map[Symbol]int{}},
		Penalty:      penalty,
		PenaltyValue: nf.PenaltyValue,
		Status:       ServerActive,
	}, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
