package coarsen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

// DefaultMinNodes is the size floor below which coarsening is a no-op.
// Under three nodes the merge heuristics degenerate.
const DefaultMinNodes = 3

// Strategy names accepted by [ByName].
const (
	NameEdgeCover      = "edge-cover"
	NameIndependentSet = "independent-set"
)

// Coarsener builds coarser levels of a multilevel graph.
//
// BuildOneLevel starts a new level on g and merges nodes into it. It returns
// false, leaving g untouched, when the graph is below the size floor or no
// merge was possible.
type Coarsener interface {
	BuildOneLevel(g *multilevel.Graph) bool
}

// ByName creates a coarsener from its configuration name.
// An empty name selects edge-cover merging.
func ByName(name string, seed uint64) (Coarsener, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameEdgeCover:
		return NewEdgeCover(seed), nil
	case NameIndependentSet:
		return NewIndependentSet(seed), nil
	default:
		return nil, fmt.Errorf("unknown coarsener %q (must be one of: %s, %s)", name, NameEdgeCover, NameIndependentSet)
	}
}

// newRand returns a seeded PCG source, the same construction used for every
// randomized step in the module.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// mergeByDegree merges the lower-degree node of a pair into the higher-degree
// one. On a tie the first argument absorbs the second, so the caller's draw
// order breaks ties.
func mergeByDegree(g *multilevel.Graph, a, b multilevel.NodeID) (*multilevel.NodeMerge, error) {
	if g.Degree(b) > g.Degree(a) {
		a, b = b, a
	}
	return g.MergeNode(a, b)
}

// substitution maps merged-away nodes to the node that absorbed them during
// one coarsening pass. find follows the chain to the live representative.
type substitution map[multilevel.NodeID]multilevel.NodeID

func (s substitution) find(id multilevel.NodeID) multilevel.NodeID {
	root := id
	for {
		next, ok := s[root]
		if !ok {
			break
		}
		root = next
	}
	for id != root {
		next := s[id]
		s[id] = root
		id = next
	}
	return root
}

// belowFloor reports whether g is too small to coarsen.
func belowFloor(g *multilevel.Graph, minNodes int) bool {
	if minNodes <= 0 {
		minNodes = DefaultMinNodes
	}
	return g.NodeCount() < minNodes || g.EdgeCount() == 0
}

// liveFloor is the smallest live count a level may leave behind. Only a
// floor of 2 or less lets a graph collapse into a single node.
func liveFloor(minNodes int) int {
	if minNodes <= 0 {
		minNodes = DefaultMinNodes
	}
	if minNodes <= 2 {
		return 1
	}
	return 2
}

// abandonLevel drops a level that ended up without merges.
func abandonLevel(g *multilevel.Graph, merged int) bool {
	if merged == 0 {
		g.PopLevel()
		return false
	}
	return true
}
