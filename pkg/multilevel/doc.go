// Package multilevel provides the mutable graph store behind multilevel
// drawing: a working graph that can be coarsened by merging nodes and
// refined again by undoing those merges in reverse order.
//
// # Handles and Arenas
//
// Nodes and edges are addressed by stable integer handles ([NodeID],
// [EdgeID]). Their attributes (position, radius, mass, weight, endpoints)
// live in dense arenas indexed by handle and are never discarded, so a node
// merged away at level 3 still has its radius when it is split out again.
// A separate liveness index tracks which handles belong to the current level.
//
// # Merge History
//
// Every [Graph.MergeNode] call pushes a [NodeMerge] record onto an
// append-only history owned by the graph. The record is a delta, not a
// snapshot: it lists the edges the merge deleted and the previous state of
// the edges it redirected or re-weighted. [Graph.SplitNode] replays exactly
// that delta and only accepts the record on top of the history:
//
//	rec, _ := g.MergeNode(parent, mergee)
//	// ... more merges, layouts ...
//	_ = g.SplitNode(g.Top())
//
// # Levels
//
// Coarsening strategies call [Graph.NextLevel] before merging; records are
// tagged with the level they were created in. Refinement splits every record
// of the current level and then calls [Graph.PopLevel].
//
// # Invariants
//
//   - every live edge joins two distinct live nodes;
//   - the mass of a node is 1 plus the masses of every node merged into it,
//     so the masses of live nodes always sum to [Graph.OriginalCount];
//   - [Graph.HistoryLen] equals OriginalCount - NodeCount.
//
// [Graph.Validate] checks all of them.
//
// # Duplicate Edges
//
// When a merge makes an edge parallel to one the parent already has, the
// edge is deleted. [WithFoldWeights] selects whether its weight is added to
// the surviving edge (the default) or dropped. Splitting restores the
// original individual weights either way.
//
// # Layout Access
//
// Layout modules receive the [Drawing] interface, which exposes structure
// read-only and lets them move nodes. Only coarsening strategies and the
// mixer touch the structural API.
package multilevel
