package coarsen

import (
	"math/rand/v2"

	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

// DefaultShrinkFactor halves the node count per level.
const DefaultShrinkFactor = 2.0

// EdgeCover coarsens by contracting the edges of a random edge cover.
//
// One level is built as follows:
//
//  1. Shuffle the live edges and greedily pick a maximal matching.
//  2. Extend the matching with remaining edges that touch a still uncovered
//     node, giving an edge cover of every non-isolated node.
//  3. Draw the selected edges in random order and merge their endpoints,
//     lower degree into higher degree, until the node count is at most
//     n/Factor, never leaving fewer than two live nodes unless MinNodes is
//     2 or less.
//
// Endpoints are resolved through a substitution map first, so an edge whose
// endpoint was already merged away in this pass contracts into the current
// representative; pairs that resolve to the same node are skipped.
type EdgeCover struct {
	// Factor is the shrink target: the level stops once NodeCount() <= n/Factor.
	// Values <= 1 use DefaultShrinkFactor.
	Factor float64

	// MinNodes is the size floor (default DefaultMinNodes).
	MinNodes int

	// Rand drives edge order and draws. It must not be nil.
	Rand *rand.Rand
}

// NewEdgeCover creates an edge-cover coarsener with default settings.
func NewEdgeCover(seed uint64) *EdgeCover {
	return &EdgeCover{
		Factor:   DefaultShrinkFactor,
		MinNodes: DefaultMinNodes,
		Rand:     newRand(seed),
	}
}

// BuildOneLevel implements [Coarsener].
func (c *EdgeCover) BuildOneLevel(g *multilevel.Graph) bool {
	if belowFloor(g, c.MinNodes) {
		return false
	}
	factor := c.Factor
	if factor <= 1 {
		factor = DefaultShrinkFactor
	}
	target := float64(g.NodeCount()) / factor
	floor := liveFloor(c.MinNodes)

	pool := c.cover(g)
	g.NextLevel()

	subst := substitution{}
	merged := 0
	for len(pool) > 0 && float64(g.NodeCount()) > target && g.NodeCount() > floor {
		i := c.Rand.IntN(len(pool))
		pair := pool[i]
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]

		a, b := subst.find(pair[0]), subst.find(pair[1])
		if a == b {
			continue
		}
		rec, err := mergeByDegree(g, a, b)
		if err != nil {
			continue
		}
		subst[rec.Mergee] = rec.Parent
		merged++
	}
	return abandonLevel(g, merged)
}

// cover returns the endpoint pairs of a maximal matching extended to an edge
// cover. Pairs are captured up front because merges rewrite the edges.
func (c *EdgeCover) cover(g *multilevel.Graph) [][2]multilevel.NodeID {
	ids := g.EdgeIDs()
	c.Rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	touched := make(map[multilevel.NodeID]bool, g.NodeCount())
	pool := make([][2]multilevel.NodeID, 0, g.NodeCount())
	var rest []multilevel.Edge

	for _, id := range ids {
		e, _ := g.Edge(id)
		if touched[e.Source] || touched[e.Target] {
			rest = append(rest, e)
			continue
		}
		touched[e.Source], touched[e.Target] = true, true
		pool = append(pool, [2]multilevel.NodeID{e.Source, e.Target})
	}

	for _, e := range rest {
		if touched[e.Source] && touched[e.Target] {
			continue
		}
		touched[e.Source], touched[e.Target] = true, true
		pool = append(pool, [2]multilevel.NodeID{e.Source, e.Target})
	}
	return pool
}

// Ensure EdgeCover implements Coarsener.
var _ Coarsener = (*EdgeCover)(nil)
