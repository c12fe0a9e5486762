package mixer

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

// Placer names accepted by [PlacerByName].
const (
	PlacerZero       = "zero"
	PlacerParent     = "parent"
	PlacerBarycenter = "barycenter"
)

// DefaultJitter is the noise amplitude relative to the placement distance.
const DefaultJitter = 0.1

// InitialPlacer positions a node right after it was split out of its parent.
// Place is called with the record that was just undone; rec.Mergee is live
// and sits on top of rec.Parent.
type InitialPlacer interface {
	Place(g *multilevel.Graph, rec *multilevel.NodeMerge)
}

// PlacerByName creates an initial placer from its configuration name. An
// empty name selects the barycenter placer.
func PlacerByName(name string, seed uint64) (InitialPlacer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PlacerBarycenter:
		return NewBarycenterPlacer(seed), nil
	case PlacerParent:
		return NewParentPlacer(seed), nil
	case PlacerZero:
		return ZeroPlacer{}, nil
	default:
		return nil, fmt.Errorf("unknown placer %q (must be one of: %s, %s, %s)", name, PlacerZero, PlacerParent, PlacerBarycenter)
	}
}

// ZeroPlacer leaves the mergee on top of its parent. Useful with a post
// layout that separates coincident nodes, and for tests.
type ZeroPlacer struct{}

// Place implements [InitialPlacer].
func (ZeroPlacer) Place(*multilevel.Graph, *multilevel.NodeMerge) {}

// ParentPlacer puts the mergee at the recorded hint distance from its parent,
// in a random direction, plus a small simplex-noise offset.
type ParentPlacer struct {
	// Jitter scales the noise offset relative to the hint distance.
	Jitter float64

	rand  *rand.Rand
	noise opensimplex.Noise
}

// NewParentPlacer creates a parent placer with DefaultJitter.
func NewParentPlacer(seed uint64) *ParentPlacer {
	return &ParentPlacer{
		Jitter: DefaultJitter,
		rand:   newRand(seed),
		noise:  opensimplex.New(int64(seed)),
	}
}

// Place implements [InitialPlacer].
func (p *ParentPlacer) Place(g *multilevel.Graph, rec *multilevel.NodeMerge) {
	dist := hintDistance(g, rec)
	at := g.Position(rec.Hint.Target)
	if !g.HasNode(rec.Hint.Target) {
		at = g.Position(rec.Parent)
	}
	theta := p.rand.Float64() * 2 * math.Pi
	g.SetPosition(rec.Mergee, at.Add(multilevel.Polar(dist, theta)).Add(p.jitter(at, rec.Mergee, dist)))
}

// jitter returns a reproducible offset in [-Jitter·scale, Jitter·scale]² keyed
// by where the node lands and which node it is.
func (p *ParentPlacer) jitter(at multilevel.Point, id multilevel.NodeID, scale float64) multilevel.Point {
	if p.Jitter <= 0 || p.noise == nil {
		return multilevel.Point{}
	}
	z := float64(id) * 0.618
	return multilevel.Point{
		X: p.noise.Eval3(at.X, at.Y, z),
		Y: p.noise.Eval3(at.X+100, at.Y+100, z),
	}.Scale(p.Jitter * scale)
}

// BarycenterPlacer puts the mergee at the barycenter of its live neighbours,
// weighted by their merge weight. When the barycenter coincides with the
// parent (the parent is its only neighbour, or the neighbours balance out) it
// falls back to the ParentPlacer rule.
type BarycenterPlacer struct {
	*ParentPlacer
}

// NewBarycenterPlacer creates a barycenter placer with DefaultJitter.
func NewBarycenterPlacer(seed uint64) *BarycenterPlacer {
	return &BarycenterPlacer{ParentPlacer: NewParentPlacer(seed)}
}

// Place implements [InitialPlacer].
func (b *BarycenterPlacer) Place(g *multilevel.Graph, rec *multilevel.NodeMerge) {
	var sum multilevel.Point
	var total float64
	for _, n := range g.Neighbors(rec.Mergee) {
		w := float64(g.MergeWeight(n))
		sum = sum.Add(g.Position(n).Scale(w))
		total += w
	}
	dist := hintDistance(g, rec)
	if total == 0 {
		b.ParentPlacer.Place(g, rec)
		return
	}
	at := sum.Scale(1 / total)
	if at.Dist(g.Position(rec.Parent)) < dist*1e-3 {
		b.ParentPlacer.Place(g, rec)
		return
	}
	g.SetPosition(rec.Mergee, at.Add(b.jitter(at, rec.Mergee, dist)))
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
}

// hintDistance returns the recorded distance, falling back to the radii.
func hintDistance(g *multilevel.Graph, rec *multilevel.NodeMerge) float64 {
	if d := rec.Hint.Distance; d > 0 {
		return d
	}
	if d := g.Radius(rec.Parent) + g.Radius(rec.Mergee); d > 0 {
		return d
	}
	return multilevel.DefaultEdgeWeight
}

// Ensure placers implement InitialPlacer.
var (
	_ InitialPlacer = ZeroPlacer{}
	_ InitialPlacer = (*ParentPlacer)(nil)
	_ InitialPlacer = (*BarycenterPlacer)(nil)
)
