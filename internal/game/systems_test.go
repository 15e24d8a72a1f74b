package game

import (
	"math/rand"
	"testing"

	"go.uber.org/zap"
)

// proceduralRules is a one-node network with generated servers enabled, so
// the deep pool is always empty after the first hack.
func proceduralRules() *Rules {
	rules := DefaultRules()
	gate := server("node-1", map[Color]int{ColorRed: 2}, nil)
	gate.Difficulty = 2
	rules.Network = &Network{
		Nodes:    map[string]GraphNode{"node-1": {Template: gate}},
		Order:    []string{"node-1"},
		Starting: []string{"node-1"},
	}
	rules.ProceduralServers = true
	rules.ActiveRowSize = 3
	return rules
}

func TestProceduralServersRefillRow(t *testing.T) {
	rules := proceduralRules()
	r := newReferee(rules, rand.New(rand.NewSource(7)), zap.NewNop())
	s := Snapshot{Turn: 5, ActiveServers: rules.Network.StartingServers(), DeepMap: []ServerNode{}}

	seen := map[string]bool{"node-1": true}
	// Every hack lands on the same turn, which used to repeat server ids.
	for round := 0; round < 6; round++ {
		cur := s.Clone()
		cur.ActiveServers[0].Status = ServerHacked
		hackedID := cur.ActiveServers[0].ID
		top := rules.Network.MaxDifficulty()
		for _, srv := range cur.ActiveServers[1:] {
			top = max(top, srv.Difficulty)
		}

		next := cur.Patch(r.networkGraph(s, cur))

		if len(next.ActiveServers) != rules.ActiveRowSize {
			t.Fatalf("round %d: row has %d servers, want %d", round, len(next.ActiveServers), rules.ActiveRowSize)
		}
		if len(next.DeepMap) != 0 {
			t.Errorf("round %d: deep pool = %v", round, ids(next.DeepMap))
		}
		kept := map[string]bool{}
		for _, srv := range s.ActiveServers {
			kept[srv.ID] = true
		}
		inRow := map[string]int{}
		for _, srv := range next.ActiveServers {
			inRow[srv.ID]++
			if srv.ID == hackedID {
				t.Errorf("round %d: hacked %s still in row", round, hackedID)
			}
			if kept[srv.ID] {
				continue
			}
			if seen[srv.ID] {
				t.Errorf("round %d: id %s generated twice", round, srv.ID)
			}
			seen[srv.ID] = true
			if srv.Difficulty != top+1 {
				t.Errorf("round %d: %s difficulty %d, want %d", round, srv.ID, srv.Difficulty, top+1)
			}
		}
		for id, n := range inRow {
			if n > 1 {
				t.Errorf("round %d: id %s appears %d times in row", round, id, n)
			}
		}
		s = next
	}
}

func TestInitializeResetsGeneratedServers(t *testing.T) {
	rules := proceduralRules()
	r := newReferee(rules, rand.New(rand.NewSource(7)), zap.NewNop())
	r.generated = 12
	r.initialize(Snapshot{}, rules.Decks[0], false)
	if r.generated != 0 {
		t.Errorf("generated = %d after a new run, want 0", r.generated)
	}
}
