package graph

import (
	"math"

	"github.com/matzehuels/stackmixer/pkg/errors"
)

// DefaultRadius is the node radius used when the input gives none.
const DefaultRadius = 0.5

// =============================================================================
// Graph - Node-Link Serialization
// =============================================================================

// Graph is the canonical serialization format for input graphs and computed
// drawings. Used for files, API requests and responses, and caching.
//
// A drawing is a Graph with positions filled in; node and edge order is
// always preserved, so a layout written back to disk diffs cleanly against
// its input.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a vertex with an optional position and size.
type Node struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"` // Display label (defaults to ID)
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius,omitempty"` // Size hint (defaults to DefaultRadius)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is an undirected edge. Weight is the desired length; zero means the
// store default.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight,omitempty"`
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks identifiers, numbers and references. It reports the first
// problem as an errors.ErrCodeInvalidGraph error.
func (g Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		for _, c := range []struct {
			name string
			v    float64
		}{{"x", n.X}, {"y", n.Y}, {"radius", n.Radius}} {
			if err := errors.ValidateCoordinate(c.name, c.v); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %q", n.ID)
			}
		}
		if n.Radius < 0 {
			return errors.New(errors.ErrCodeInvalidGraph, "node %q: radius cannot be negative", n.ID)
		}
	}

	for i, e := range g.Edges {
		if !seen[e.From] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d: unknown node %q", i, e.From)
		}
		if !seen[e.To] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d: unknown node %q", i, e.To)
		}
		if e.From == e.To {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d: self loop on %q", i, e.From)
		}
		if err := errors.ValidateWeight(e.Weight); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge %d", i)
		}
	}
	return nil
}

// =============================================================================
// Geometry
// =============================================================================

// Bounds returns the bounding box of all node discs. An empty graph has a
// zero box.
func (g Graph) Bounds() (minX, minY, maxX, maxY float64) {
	if len(g.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range g.Nodes {
		r := n.Radius
		if r <= 0 {
			r = DefaultRadius
		}
		minX, maxX = math.Min(minX, n.X-r), math.Max(maxX, n.X+r)
		minY, maxY = math.Min(minY, n.Y-r), math.Max(maxY, n.Y+r)
	}
	return minX, minY, maxX, maxY
}
