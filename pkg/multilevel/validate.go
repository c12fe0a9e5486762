package multilevel

import "fmt"

// Validate checks every structural invariant of the store and returns nil if
// the graph is consistent:
//
//  1. every live edge has two distinct live endpoints and is listed in both
//     endpoints' incidence lists;
//  2. every incidence list holds only live edges touching that node;
//  3. masses are positive and sum to OriginalCount;
//  4. the history length equals OriginalCount - NodeCount, and record levels
//     never decrease and never exceed the current level.
//
// Failures wrap [ErrInvariant]. Validate runs in O(N+E).
func (g *Graph) Validate() error {
	for _, id := range g.live.order {
		e := g.edges[id]
		if !g.nodes.has(e.Source) || !g.nodes.has(e.Target) {
			return fmt.Errorf("%w: edge %d references a dead node (%d-%d)", ErrInvariant, id, e.Source, e.Target)
		}
		if e.Source == e.Target {
			return fmt.Errorf("%w: edge %d is a loop on %d", ErrInvariant, id, e.Source)
		}
		if !containsEdge(g.adj[e.Source], id) || !containsEdge(g.adj[e.Target], id) {
			return fmt.Errorf("%w: edge %d missing from incidence lists", ErrInvariant, id)
		}
	}

	total := 0
	for _, n := range g.nodes.order {
		if g.mass[n] < 1 {
			return fmt.Errorf("%w: node %d has mass %d", ErrInvariant, n, g.mass[n])
		}
		total += g.mass[n]
		for _, eid := range g.adj[n] {
			if !g.live.has(eid) || !g.edges[eid].Has(n) {
				return fmt.Errorf("%w: node %d lists foreign edge %d", ErrInvariant, n, eid)
			}
		}
	}
	if total != g.OriginalCount() {
		return fmt.Errorf("%w: total mass %d, want %d", ErrInvariant, total, g.OriginalCount())
	}

	if got, want := len(g.history), g.OriginalCount()-g.NodeCount(); got != want {
		return fmt.Errorf("%w: history holds %d records, want %d", ErrInvariant, got, want)
	}
	prev := 0
	for i, rec := range g.history {
		if rec.Level < prev || rec.Level > g.level {
			return fmt.Errorf("%w: record %d has level %d (previous %d, current %d)", ErrInvariant, i, rec.Level, prev, g.level)
		}
		prev = rec.Level
	}
	return nil
}

func containsEdge(list []EdgeID, id EdgeID) bool {
	for _, e := range list {
		if e == id {
			return true
		}
	}
	return false
}
