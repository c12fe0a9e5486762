package multilevel

import (
	"errors"
	"math"
	"slices"
)

var (
	// ErrUnknownNode is returned when a node handle does not refer to a live node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the same node.
	// Self loops carry no layout information and would be deleted by the first merge.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrSelfMerge is returned by [Graph.MergeNode] when parent and mergee are equal.
	ErrSelfMerge = errors.New("node cannot be merged into itself")

	// ErrHistoryEmpty is returned by [Graph.SplitNode] when there is nothing to undo.
	ErrHistoryEmpty = errors.New("merge history is empty")

	// ErrNotTopRecord is returned by [Graph.SplitNode] when the record is not the
	// most recently pushed one. Splits must happen in exact reverse merge order.
	ErrNotTopRecord = errors.New("merge record is not the top of the history")

	// ErrNotFinestLevel is returned when the input graph is edited after coarsening started.
	ErrNotFinestLevel = errors.New("graph is not at level 0")

	// ErrInvariant is wrapped by [Graph.Validate] for every structural inconsistency.
	ErrInvariant = errors.New("multilevel invariant violated")
)

// DefaultEdgeWeight is the desired length used for edges added with a
// non-positive weight.
const DefaultEdgeWeight = 1.0

// NodeID is a stable handle for a node. Handles are dense, starting at 0, and
// are never reused: a merged-away node keeps its handle and gets it back when
// it is split out again.
type NodeID int

// EdgeID is a stable handle for an edge, with the same guarantees as [NodeID].
type EdgeID int

// Node carries the attributes supplied for a node when the input graph is built.
type Node struct {
	Pos    Point   // Initial position (ignored when the mixer randomizes)
	Radius float64 // Size hint used by placers and merge radii
}

// Edge is a snapshot of an edge. Source and Target are current endpoints;
// they change when a merge redirects the edge onto a parent node.
type Edge struct {
	ID     EdgeID
	Source NodeID
	Target NodeID
	Weight float64 // Desired length
}

// Other returns the endpoint opposite to id.
func (e Edge) Other(id NodeID) NodeID {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Has reports whether id is one of the edge's endpoints.
func (e Edge) Has(id NodeID) bool { return e.Source == id || e.Target == id }

// Graph is the multilevel graph store. It owns the attribute arenas for every
// node and edge ever added, the liveness indices of the current level, and the
// append-only merge history that makes every coarsening step reversible.
//
// The zero value is not usable - use [New].
// Graph is not safe for concurrent use; the algorithm driving it is sequential.
type Graph struct {
	// Attribute arenas indexed by handle. Entries of dead handles are kept
	// so that a split can restore them.
	pos    []Point
	radius []float64
	mass   []int
	adj    [][]EdgeID
	edges  []Edge

	nodes liveIndex[NodeID]
	live  liveIndex[EdgeID]

	history []*NodeMerge
	level   int
	fold    bool
}

// Option configures a [Graph].
type Option func(*Graph)

// WithFoldWeights sets the duplicate-edge policy used by [Graph.MergeNode].
// When true (the default) the weight of an edge deleted as a duplicate is
// added to the surviving parallel edge; when false it is dropped.
func WithFoldWeights(fold bool) Option {
	return func(g *Graph) { g.fold = fold }
}

// New creates an empty level-0 graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes: newLiveIndex[NodeID](),
		live:  newLiveIndex[EdgeID](),
		fold:  true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FoldWeights reports the duplicate-edge policy of the graph.
func (g *Graph) FoldWeights() bool { return g.fold }

// AddNode appends a node with mass 1 and returns its handle.
// Returns ErrNotFinestLevel once coarsening has started; input is consumed once.
func (g *Graph) AddNode(n Node) (NodeID, error) {
	if !g.atInput() {
		return 0, ErrNotFinestLevel
	}
	id := NodeID(len(g.pos))
	g.pos = append(g.pos, n.Pos)
	g.radius = append(g.radius, max(n.Radius, 0))
	g.mass = append(g.mass, 1)
	g.adj = append(g.adj, nil)
	g.nodes.add(id)
	return id, nil
}

// AddEdge connects two live nodes. A non-positive weight is replaced by
// [DefaultEdgeWeight]. Parallel edges are allowed; the first merge touching
// them collapses them according to the fold policy.
func (g *Graph) AddEdge(src, dst NodeID, weight float64) (EdgeID, error) {
	if !g.atInput() {
		return 0, ErrNotFinestLevel
	}
	if !g.nodes.has(src) || !g.nodes.has(dst) {
		return 0, ErrUnknownNode
	}
	if src == dst {
		return 0, ErrSelfLoop
	}
	if weight <= 0 || math.IsNaN(weight) {
		weight = DefaultEdgeWeight
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{ID: id, Source: src, Target: dst, Weight: weight})
	g.attach(id)
	return id, nil
}

func (g *Graph) atInput() bool { return g.level == 0 && len(g.history) == 0 }

// =============================================================================
// Queries
// =============================================================================

// NodeCount returns the number of live nodes at the current level.
func (g *Graph) NodeCount() int { return g.nodes.len() }

// EdgeCount returns the number of live edges at the current level.
func (g *Graph) EdgeCount() int { return g.live.len() }

// OriginalCount returns the number of nodes the level-0 graph was built with.
func (g *Graph) OriginalCount() int { return len(g.pos) }

// NodeIDs returns the live node handles. The order is stable between
// structural edits but otherwise unspecified.
func (g *Graph) NodeIDs() []NodeID { return slices.Clone(g.nodes.order) }

// EdgeIDs returns the live edge handles.
func (g *Graph) EdgeIDs() []EdgeID { return slices.Clone(g.live.order) }

// HasNode reports whether id is live at the current level.
func (g *Graph) HasNode(id NodeID) bool { return g.nodes.has(id) }

// Edge returns a snapshot of a live edge.
func (g *Graph) Edge(id EdgeID) (Edge, bool) {
	if !g.live.has(id) {
		return Edge{}, false
	}
	return g.edges[id], true
}

// IncidentEdges returns the handles of live edges touching id.
func (g *Graph) IncidentEdges(id NodeID) []EdgeID {
	if !g.nodes.has(id) {
		return nil
	}
	return slices.Clone(g.adj[id])
}

// Degree returns the number of live edges touching id (parallel edges count
// separately). Returns 0 for unknown nodes.
func (g *Graph) Degree(id NodeID) int {
	if !g.nodes.has(id) {
		return 0
	}
	return len(g.adj[id])
}

// Neighbors returns the distinct live neighbours of id in incidence order.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	if !g.nodes.has(id) {
		return nil
	}
	seen := make(map[NodeID]bool, len(g.adj[id]))
	out := make([]NodeID, 0, len(g.adj[id]))
	for _, eid := range g.adj[id] {
		o := g.edges[eid].Other(id)
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// Position returns the current position of a node. Dead handles report the
// position they had when they were merged away.
func (g *Graph) Position(id NodeID) Point {
	if int(id) < 0 || int(id) >= len(g.pos) {
		return Point{}
	}
	return g.pos[id]
}

// SetPosition moves a live node. Unknown or dead handles are ignored.
func (g *Graph) SetPosition(id NodeID, p Point) {
	if g.nodes.has(id) {
		g.pos[id] = p
	}
}

// Radius returns the current radius of a node.
func (g *Graph) Radius(id NodeID) float64 {
	if int(id) < 0 || int(id) >= len(g.radius) {
		return 0
	}
	return g.radius[id]
}

// MergeWeight returns the mass of a node: the number of original nodes it
// currently represents. Returns 0 for unknown or dead handles.
func (g *Graph) MergeWeight(id NodeID) int {
	if !g.nodes.has(id) {
		return 0
	}
	return g.mass[id]
}

// TotalMass returns the sum of [Graph.MergeWeight] over all live nodes.
// It always equals [Graph.OriginalCount].
func (g *Graph) TotalMass() int {
	total := 0
	for _, id := range g.nodes.order {
		total += g.mass[id]
	}
	return total
}

// TotalWeight returns the sum of live edge weights.
func (g *Graph) TotalWeight() float64 {
	total := 0.0
	for _, id := range g.live.order {
		total += g.edges[id].Weight
	}
	return total
}

// =============================================================================
// Adjacency maintenance
// =============================================================================

// attach marks an edge live and registers it with both endpoints.
func (g *Graph) attach(id EdgeID) {
	e := g.edges[id]
	g.live.add(id)
	g.adj[e.Source] = append(g.adj[e.Source], id)
	g.adj[e.Target] = append(g.adj[e.Target], id)
}

// detach removes an edge from the live set and from both endpoints.
func (g *Graph) detach(id EdgeID) {
	e := g.edges[id]
	g.live.remove(id)
	g.adj[e.Source] = removeEdge(g.adj[e.Source], id)
	g.adj[e.Target] = removeEdge(g.adj[e.Target], id)
}

func removeEdge(list []EdgeID, id EdgeID) []EdgeID {
	if i := slices.Index(list, id); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

// =============================================================================
// Live index
// =============================================================================

// liveIndex is a dense order slice plus a reverse map from handle to slot.
// Removal swaps the last element into the freed slot, so add and remove are O(1).
type liveIndex[T ~int] struct {
	order []T
	slot  map[T]int
}

func newLiveIndex[T ~int]() liveIndex[T] {
	return liveIndex[T]{slot: make(map[T]int)}
}

func (ix *liveIndex[T]) len() int { return len(ix.order) }

func (ix *liveIndex[T]) has(id T) bool {
	_, ok := ix.slot[id]
	return ok
}

func (ix *liveIndex[T]) add(id T) {
	if ix.has(id) {
		return
	}
	ix.slot[id] = len(ix.order)
	ix.order = append(ix.order, id)
}

func (ix *liveIndex[T]) remove(id T) {
	i, ok := ix.slot[id]
	if !ok {
		return
	}
	last := len(ix.order) - 1
	moved := ix.order[last]
	ix.order[i] = moved
	ix.slot[moved] = i
	ix.order = ix.order[:last]
	delete(ix.slot, id)
}
