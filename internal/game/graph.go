package game

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// ErrUnknownNode is returned when the network references a node id that
// has no template.
var ErrUnknownNode = errors.New("unknown network node")

// GraphNode is a server template plus its place in the network.
type GraphNode struct {
	Template ServerNode
	Edges    []string
	IsTarget bool
}

// Network is the static dependency graph of server templates.
type Network struct {
	Nodes    map[string]GraphNode
	Order    []string // declaration order, for stable listings
	Starting []string
}

// Instantiate deep-copies the template for id into a live server with empty
// progress and ACTIVE status.
func (n *Network) Instantiate(id string) (ServerNode, bool) {
	node, ok := n.Nodes[id]
	if !ok {
		return ServerNode{}, false
	}
	s := node.Template.Clone()
	s.Progress = Requirements{Colors: map[Color]int{}, Symbols: map[Symbol]int{}}
	s.Status = ServerActive
	return s, true
}

// StartingServers instantiates the starting nodes in order.
func (n *Network) StartingServers() []ServerNode {
	out := make([]ServerNode, 0, len(n.Starting))
	for _, id := range n.Starting {
		if s, ok := n.Instantiate(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// IsTarget reports whether id is a win-condition node.
func (n *Network) IsTarget(id string) bool {
	return n.Nodes[id].IsTarget
}

// Expansion is the outcome of unlocking the children of hacked servers.
type Expansion struct {
	Active       []ServerNode
	Deep         []ServerNode
	TargetHacked bool
}

// Expand applies the unlock rule. For every newly hacked server, each child
// not already in the active row or the deep pool is instantiated onto the
// tail of the deep pool. Hacked servers then leave the active row, which is
// refilled up to rowSize from the front of the deep pool.
func (n *Network) Expand(active, deep []ServerNode, hacked []ServerNode, rowSize int) Expansion {
	present := mapset.New[string]()
	for _, s := range active {
		present.Put(s.ID)
	}
	for _, s := range deep {
		present.Put(s.ID)
	}

	gone := mapset.New[string]()
	newDeep := cloneServers(deep)
	var target bool
	for _, h := range hacked {
		gone.Put(h.ID)
		if n.IsTarget(h.ID) {
			target = true
		}
		for _, child := range n.Nodes[h.ID].Edges {
			if present.Has(child) {
				continue
			}
			if s, ok := n.Instantiate(child); ok {
				newDeep = append(newDeep, s)
				present.Put(child)
			}
		}
	}

	newActive := make([]ServerNode, 0, rowSize)
	for _, s := range active {
		if !gone.Has(s.ID) {
			newActive = append(newActive, s.Clone())
		}
	}
	for len(newActive) < rowSize && len(newDeep) > 0 {
		newActive = append(newActive, newDeep[0])
		newDeep = newDeep[1:]
	}

	return Expansion{Active: newActive, Deep: newDeep, TargetHacked: target}
}

// MaxDifficulty returns the highest template difficulty in the network.
func (n *Network) MaxDifficulty() int {
	best := 0
	for _, node := range n.Nodes {
		best = max(best, node.Template.Difficulty)
	}
	return best
}

// validate checks edges and starting nodes and that a target is reachable.
func (n *Network) validate() error {
	if len(n.Starting) == 0 {
		return errors.New("network has no starting nodes")
	}
	for _, id := range n.Starting {
		if _, ok := n.Nodes[id]; !ok {
			return fmt.Errorf("%w: starting node %q", ErrUnknownNode, id)
		}
	}
	for id, node := range n.Nodes {
		for _, child := range node.Edges {
			if _, ok := n.Nodes[child]; !ok {
				return fmt.Errorf("%w: %q (edge from %q)", ErrUnknownNode, child, id)
			}
		}
	}

	seen := mapset.New[string]()
	queue := append([]string(nil), n.Starting...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen.Has(id) {
			continue
		}
		seen.Put(id)
		if n.Nodes[id].IsTarget {
			return nil
		}
		queue = append(queue, n.Nodes[id].Edges...)
	}
	return fmt.Errorf("no target node reachable from the %d starting nodes (%d visited)", len(n.Starting), seen.Size())
}

func cloneServers(in []ServerNode) []ServerNode {
	out := make([]ServerNode, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
