package coarsen

import (
	"math/rand/v2"

	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

// DefaultBase is the growth base of the exclusion radius between levels.
const DefaultBase = 2

// IndependentSet coarsens with a hierarchy of nested independent sets that is
// computed once, before any merge executes.
//
// The hierarchy is built on the first BuildOneLevel call for a graph:
//
//  1. Level 1 seeds are a maximal independent set, chosen greedily in random
//     node order.
//  2. Level k seeds are picked from the level k-1 seeds in random order; each
//     pick excludes every other level k-1 seed within BFS distance Base^k.
//     Construction stops once a level has at most two seeds or no longer
//     shrinks. A level with a single seed is dropped unless MinNodes is 2 or
//     less.
//  3. For every level, a breadth-first search started simultaneously from
//     all its seeds assigns each remaining node of the previous level to the
//     seed that discovered it first. The discovery order is the merge order.
//
// Each BuildOneLevel call then applies the merges of the next precomputed
// level, using the same lower-degree-into-higher-degree rule as [EdgeCover].
// Level boundaries are therefore known before coarsening starts; see
// [IndependentSet.Levels].
type IndependentSet struct {
	// Base is the growth base of the exclusion radius (default DefaultBase).
	Base int

	// MinNodes is the size floor (default DefaultMinNodes).
	MinNodes int

	// Rand drives the node orders. It must not be nil.
	Rand *rand.Rand

	plan *hierarchy
}

// hierarchy is the precomputed merge plan for one graph.
type hierarchy struct {
	g      *multilevel.Graph
	levels [][][2]multilevel.NodeID // per level: (seed, member) in discovery order
	next   int
	subst  substitution
}

// NewIndependentSet creates an independent-set coarsener with default settings.
func NewIndependentSet(seed uint64) *IndependentSet {
	return &IndependentSet{
		Base:     DefaultBase,
		MinNodes: DefaultMinNodes,
		Rand:     newRand(seed),
	}
}

// Levels returns how many levels the hierarchy for g contains, computing it
// if necessary. It does not modify g.
func (c *IndependentSet) Levels(g *multilevel.Graph) int {
	c.prepare(g)
	return len(c.plan.levels)
}

// BuildOneLevel implements [Coarsener].
func (c *IndependentSet) BuildOneLevel(g *multilevel.Graph) bool {
	c.prepare(g)
	if c.plan.next >= len(c.plan.levels) || belowFloor(g, c.MinNodes) {
		return false
	}
	pairs := c.plan.levels[c.plan.next]
	c.plan.next++

	floor := liveFloor(c.MinNodes)
	g.NextLevel()
	merged := 0
	for _, p := range pairs {
		if g.NodeCount() <= floor {
			break
		}
		a, b := c.plan.subst.find(p[0]), c.plan.subst.find(p[1])
		if a == b {
			continue
		}
		rec, err := mergeByDegree(g, a, b)
		if err != nil {
			continue
		}
		c.plan.subst[rec.Mergee] = rec.Parent
		merged++
	}
	return abandonLevel(g, merged)
}

// BuildAllLevels applies every remaining level of the hierarchy and returns
// how many were built.
func (c *IndependentSet) BuildAllLevels(g *multilevel.Graph) int {
	n := 0
	for c.BuildOneLevel(g) {
		n++
	}
	return n
}

// prepare computes the hierarchy unless a current one exists for g. A graph
// that was fully uncoarsened gets a fresh hierarchy.
func (c *IndependentSet) prepare(g *multilevel.Graph) {
	if c.plan != nil && c.plan.g == g && !(c.plan.next > 0 && g.HistoryLen() == 0) {
		return
	}
	c.plan = &hierarchy{g: g, subst: substitution{}}

	seeds := c.seedLevels(g)
	for k := 1; k < len(seeds); k++ {
		if pairs := assign(g, seeds[k], seeds[k-1]); len(pairs) > 0 {
			c.plan.levels = append(c.plan.levels, pairs)
		}
	}
}

// seedLevels returns the nested seed sets; index 0 holds every live node.
func (c *IndependentSet) seedLevels(g *multilevel.Graph) [][]multilevel.NodeID {
	all := g.NodeIDs()
	levels := [][]multilevel.NodeID{all}
	floor := liveFloor(c.MinNodes)

	order := append([]multilevel.NodeID(nil), all...)
	c.shuffle(order)
	excluded := make(map[multilevel.NodeID]bool, len(order))
	var mis []multilevel.NodeID
	for _, v := range order {
		if excluded[v] {
			continue
		}
		mis = append(mis, v)
		excluded[v] = true
		for _, w := range g.Neighbors(v) {
			excluded[w] = true
		}
	}
	if len(mis) >= len(all) || len(mis) < floor {
		return levels
	}
	levels = append(levels, mis)

	base := c.Base
	if base < 2 {
		base = DefaultBase
	}
	depth := base
	for len(levels[len(levels)-1]) > 2 {
		prev := levels[len(levels)-1]
		// Level k excludes within base^k hops; past n hops the cap is moot.
		if depth < len(all) {
			depth *= base
		}

		member := make(map[multilevel.NodeID]bool, len(prev))
		for _, v := range prev {
			member[v] = true
		}
		order := append([]multilevel.NodeID(nil), prev...)
		c.shuffle(order)

		excluded := make(map[multilevel.NodeID]bool, len(prev))
		var next []multilevel.NodeID
		for _, s := range order {
			if excluded[s] {
				continue
			}
			next = append(next, s)
			for _, v := range bfs(g, []multilevel.NodeID{s}, depth) {
				if member[v.node] {
					excluded[v.node] = true
				}
			}
		}
		if len(next) >= len(prev) || len(next) < floor {
			break
		}
		levels = append(levels, next)
	}
	return levels
}

func (c *IndependentSet) shuffle(ids []multilevel.NodeID) {
	c.Rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}

// assign runs a multi-source BFS from seeds and returns, in discovery order,
// a (seed, node) pair for every node of members that is not itself a seed.
func assign(g *multilevel.Graph, seeds, members []multilevel.NodeID) [][2]multilevel.NodeID {
	isSeed := make(map[multilevel.NodeID]bool, len(seeds))
	for _, s := range seeds {
		isSeed[s] = true
	}
	isMember := make(map[multilevel.NodeID]bool, len(members))
	for _, m := range members {
		isMember[m] = true
	}

	var pairs [][2]multilevel.NodeID
	for _, v := range bfs(g, seeds, -1) {
		if isMember[v.node] && !isSeed[v.node] {
			pairs = append(pairs, [2]multilevel.NodeID{v.root, v.node})
		}
	}
	return pairs
}

type visit struct {
	node, root multilevel.NodeID
}

// bfs explores g from all sources at once up to maxDepth hops (unbounded when
// negative) and returns the visited nodes in discovery order, each tagged with
// the source that reached it first.
func bfs(g *multilevel.Graph, sources []multilevel.NodeID, maxDepth int) []visit {
	depth := make(map[multilevel.NodeID]int, len(sources))
	out := make([]visit, 0, len(sources))
	for _, s := range sources {
		if _, ok := depth[s]; ok {
			continue
		}
		depth[s] = 0
		out = append(out, visit{node: s, root: s})
	}
	for head := 0; head < len(out); head++ {
		cur := out[head]
		d := depth[cur.node]
		if maxDepth >= 0 && d >= maxDepth {
			continue
		}
		for _, w := range g.Neighbors(cur.node) {
			if _, seen := depth[w]; seen {
				continue
			}
			depth[w] = d + 1
			out = append(out, visit{node: w, root: cur.root})
		}
	}
	return out
}

// Ensure IndependentSet implements Coarsener.
var _ Coarsener = (*IndependentSet)(nil)
