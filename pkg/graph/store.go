package graph

import (
	"strconv"

	"github.com/matzehuels/stackmixer/pkg/errors"
	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

// =============================================================================
// Graph ↔ Store Conversion
// =============================================================================

// Index maps node identifiers to store handles and back.
type Index struct {
	ids     []string
	handles map[string]multilevel.NodeID
}

// Handle returns the store handle of a node identifier.
func (x *Index) Handle(id string) (multilevel.NodeID, bool) {
	h, ok := x.handles[id]
	return h, ok
}

// ID returns the identifier of a store handle. Unknown handles are rendered
// as their number.
func (x *Index) ID(h multilevel.NodeID) string {
	if x != nil && int(h) >= 0 && int(h) < len(x.ids) {
		return x.ids[h]
	}
	return strconv.Itoa(int(h))
}

// Len returns the number of indexed nodes.
func (x *Index) Len() int { return len(x.ids) }

// ToStore copies g into a new multilevel store. Nodes keep their input order
// as handles. Missing radii become DefaultRadius; zero weights become the
// store default.
func ToStore(g Graph, opts ...multilevel.Option) (*multilevel.Graph, *Index, error) {
	if err := g.Validate(); err != nil {
		return nil, nil, err
	}
	s := multilevel.New(opts...)
	idx := &Index{
		ids:     make([]string, 0, len(g.Nodes)),
		handles: make(map[string]multilevel.NodeID, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		r := n.Radius
		if r <= 0 {
			r = DefaultRadius
		}
		h, err := s.AddNode(multilevel.Node{Pos: multilevel.Point{X: n.X, Y: n.Y}, Radius: r})
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "add node %s", n.ID)
		}
		idx.ids = append(idx.ids, n.ID)
		idx.handles[n.ID] = h
	}
	for _, e := range g.Edges {
		if _, err := s.AddEdge(idx.handles[e.From], idx.handles[e.To], e.Weight); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "add edge %s-%s", e.From, e.To)
		}
	}
	return s, idx, nil
}

// WithPositions returns a copy of g with positions read from the store. Nodes
// unknown to idx keep their input position.
func WithPositions(g Graph, s *multilevel.Graph, idx *Index) Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: append([]Edge(nil), g.Edges...),
	}
	for i, n := range g.Nodes {
		if h, ok := idx.Handle(n.ID); ok {
			p := s.Position(h)
			n.X, n.Y = p.X, p.Y
		}
		out.Nodes[i] = n
	}
	return out
}

// FromStore snapshots the current level of a store: live nodes with their
// positions, merged radii and a label counting represented nodes, and live
// edges with their current weights.
func FromStore(s *multilevel.Graph, idx *Index) Graph {
	ids := s.NodeIDs()
	out := Graph{Nodes: make([]Node, 0, len(ids))}
	for _, h := range ids {
		p := s.Position(h)
		n := Node{ID: idx.ID(h), X: p.X, Y: p.Y, Radius: s.Radius(h)}
		if w := s.MergeWeight(h); w > 1 {
			n.Label = n.ID + " (" + strconv.Itoa(w) + ")"
		}
		out.Nodes = append(out.Nodes, n)
	}
	for _, eid := range s.EdgeIDs() {
		e, _ := s.Edge(eid)
		out.Edges = append(out.Edges, Edge{From: idx.ID(e.Source), To: idx.ID(e.Target), Weight: e.Weight})
	}
	return out
}
