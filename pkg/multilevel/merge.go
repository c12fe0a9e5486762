package multilevel

import "math"

// PlacementHint tells an initial placer where a split-off node belongs:
// Distance away from the Target node (the parent that absorbed it).
type PlacementHint struct {
	Target   NodeID
	Distance float64
}

// NodeMerge is one entry of the merge history: a lossless delta that undoes a
// single [Graph.MergeNode] call.
//
// Deleted holds edges removed by the merge as they were before deletion.
// Changed holds, in application order, the pre-change state of every edge the
// merge modified - either an endpoint redirected from Mergee to Parent or a
// weight folded into a surviving duplicate. Replaying Changed in reverse and
// re-attaching Deleted restores the previous level exactly.
type NodeMerge struct {
	Level        int
	Parent       NodeID
	Mergee       NodeID
	ParentRadius float64
	MergeeMass   int
	Deleted      []Edge
	Changed      []Edge
	Hint         PlacementHint
}

// =============================================================================
// Levels
// =============================================================================

// Level returns the current level; 0 is the input graph.
func (g *Graph) Level() int { return g.level }

// NextLevel starts a new, coarser level and returns its number. Merges pushed
// from now on are tagged with it.
func (g *Graph) NextLevel() int {
	g.level++
	return g.level
}

// PopLevel returns to the next finer level. It refuses (returning false) while
// the history still holds records tagged with the current level, or at level 0.
func (g *Graph) PopLevel() bool {
	if g.level == 0 {
		return false
	}
	if top := g.Top(); top != nil && top.Level >= g.level {
		return false
	}
	g.level--
	return true
}

// Top returns the most recent merge record, or nil when the history is empty.
func (g *Graph) Top() *NodeMerge {
	if len(g.history) == 0 {
		return nil
	}
	return g.history[len(g.history)-1]
}

// HistoryLen returns the number of merge records that have not been undone.
// It always equals OriginalCount() - NodeCount().
func (g *Graph) HistoryLen() int { return len(g.history) }

// LevelMerges returns how many records at the top of the history belong to
// the current level.
func (g *Graph) LevelMerges() int {
	n := 0
	for i := len(g.history) - 1; i >= 0 && g.history[i].Level == g.level; i-- {
		n++
	}
	return n
}

// =============================================================================
// Merge / split
// =============================================================================

// MergeNode folds mergee into parent and pushes the record onto the history.
//
// Every live edge of mergee is handled in incidence order:
//   - an edge joining mergee and parent is deleted (it would become a loop)
//     and its weight becomes the placement hint distance;
//   - an edge to a node parent already reaches is deleted as a duplicate,
//     its weight folded into the parent's edge when the fold policy is on;
//   - any other edge is redirected to parent.
//
// Afterwards mergee is no longer live, parent's mass grows by mergee's mass
// and parent's radius becomes sqrt(r_parent² + r_mergee²).
//
// Returns ErrSelfMerge or ErrUnknownNode without touching the graph.
func (g *Graph) MergeNode(parent, mergee NodeID) (*NodeMerge, error) {
	if parent == mergee {
		return nil, ErrSelfMerge
	}
	if !g.nodes.has(parent) || !g.nodes.has(mergee) {
		return nil, ErrUnknownNode
	}

	rec := &NodeMerge{
		Level:        g.level,
		Parent:       parent,
		Mergee:       mergee,
		ParentRadius: g.radius[parent],
		MergeeMass:   g.mass[mergee],
		Hint: PlacementHint{
			Target:   parent,
			Distance: g.radius[parent] + g.radius[mergee],
		},
	}

	reach := make(map[NodeID]EdgeID, len(g.adj[parent]))
	for _, eid := range g.adj[parent] {
		reach[g.edges[eid].Other(parent)] = eid
	}

	for _, eid := range append([]EdgeID(nil), g.adj[mergee]...) {
		e := g.edges[eid]
		other := e.Other(mergee)

		if other == parent {
			rec.Hint.Distance = e.Weight
			rec.Deleted = append(rec.Deleted, e)
			g.detach(eid)
			continue
		}

		if dup, ok := reach[other]; ok {
			if g.fold {
				rec.Changed = append(rec.Changed, g.edges[dup])
				g.edges[dup].Weight += e.Weight
			}
			rec.Deleted = append(rec.Deleted, e)
			g.detach(eid)
			continue
		}

		rec.Changed = append(rec.Changed, e)
		g.redirect(eid, mergee, parent)
		reach[other] = eid
	}

	g.mass[parent] += g.mass[mergee]
	g.radius[parent] = math.Hypot(g.radius[parent], g.radius[mergee])
	g.nodes.remove(mergee)
	g.history = append(g.history, rec)
	return rec, nil
}

// SplitNode undoes rec, which must be the top of the history.
//
// Redirected endpoints and folded weights are restored, deleted edges are
// re-attached, parent gets back its radius and mass, and mergee becomes live
// again at parent's position. Moving it somewhere sensible is the job of an
// initial placer.
//
// Returns ErrHistoryEmpty or ErrNotTopRecord without touching the graph.
func (g *Graph) SplitNode(rec *NodeMerge) error {
	top := g.Top()
	if top == nil {
		return ErrHistoryEmpty
	}
	if rec != top {
		return ErrNotTopRecord
	}
	g.history = g.history[:len(g.history)-1]

	g.nodes.add(rec.Mergee)
	g.pos[rec.Mergee] = g.pos[rec.Parent]

	for i := len(rec.Changed) - 1; i >= 0; i-- {
		g.restore(rec.Changed[i])
	}
	for i := len(rec.Deleted) - 1; i >= 0; i-- {
		e := rec.Deleted[i]
		g.edges[e.ID] = e
		g.attach(e.ID)
	}

	g.mass[rec.Parent] -= rec.MergeeMass
	g.radius[rec.Parent] = rec.ParentRadius
	return nil
}

// redirect moves one endpoint of a live edge from one node to another.
func (g *Graph) redirect(id EdgeID, from, to NodeID) {
	e := &g.edges[id]
	switch from {
	case e.Source:
		e.Source = to
	case e.Target:
		e.Target = to
	default:
		return
	}
	g.adj[from] = removeEdge(g.adj[from], id)
	g.adj[to] = append(g.adj[to], id)
}

// restore resets a live edge to a snapshot, fixing adjacency if an endpoint moved.
func (g *Graph) restore(snap Edge) {
	cur := g.edges[snap.ID]
	if cur.Source != snap.Source || cur.Target != snap.Target {
		g.detach(snap.ID)
		g.edges[snap.ID] = snap
		g.attach(snap.ID)
		return
	}
	g.edges[snap.ID].Weight = snap.Weight
}
