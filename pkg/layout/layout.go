package layout

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

// Layout names accepted by [ByName].
const (
	NameForce  = "force"
	NameCircle = "circle"
	NameRandom = "random"
	NameNoop   = "noop"
)

// Layout computes positions for every live node of a drawing. Implementations
// must only change positions and must not keep d after Call returns.
type Layout interface {
	Call(d multilevel.Drawing)
}

// Func adapts a plain function to [Layout].
type Func func(d multilevel.Drawing)

// Call implements [Layout].
func (f Func) Call(d multilevel.Drawing) { f(d) }

// Noop leaves every position unchanged.
type Noop struct{}

// Call implements [Layout].
func (Noop) Call(multilevel.Drawing) {}

// ByName creates a layout from its configuration name. An empty name selects
// the force layout.
func ByName(name string, seed uint64) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameForce:
		return NewForce(seed), nil
	case NameCircle:
		return Circle{}, nil
	case NameRandom:
		return &Random{Rand: newRand(seed)}, nil
	case NameNoop:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown layout %q (must be one of: %s, %s, %s, %s)",
			name, NameForce, NameCircle, NameRandom, NameNoop)
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
}

// =============================================================================
// Random
// =============================================================================

// Random places every node uniformly in a Width x Height box centred on the
// origin. A non-positive size is derived from the node count and the average
// desired edge length, so the box grows with the drawing.
type Random struct {
	Width  float64
	Height float64
	Rand   *rand.Rand
}

// Call implements [Layout].
func (r *Random) Call(d multilevel.Drawing) {
	if r.Rand == nil {
		r.Rand = newRand(0)
	}
	w, h := r.Width, r.Height
	if w <= 0 || h <= 0 {
		side := desiredOrUnit(d) * math.Sqrt(float64(max(d.NodeCount(), 1)))
		w, h = side, side
	}
	for _, id := range d.NodeIDs() {
		d.SetPosition(id, multilevel.Point{
			X: (r.Rand.Float64() - 0.5) * w,
			Y: (r.Rand.Float64() - 0.5) * h,
		})
	}
}

// =============================================================================
// Circle
// =============================================================================

// Circle places the nodes evenly on a circle around the origin, in NodeIDs
// order. With Radius <= 0 the circumference is the node count times the
// average desired edge length.
type Circle struct {
	Radius float64
}

// Call implements [Layout].
func (c Circle) Call(d multilevel.Drawing) {
	ids := d.NodeIDs()
	if len(ids) == 0 {
		return
	}
	if len(ids) == 1 {
		d.SetPosition(ids[0], multilevel.Point{})
		return
	}
	r := c.Radius
	if r <= 0 {
		r = float64(len(ids)) * desiredOrUnit(d) / (2 * math.Pi)
	}
	step := 2 * math.Pi / float64(len(ids))
	for i, id := range ids {
		d.SetPosition(id, multilevel.Polar(r, float64(i)*step))
	}
}

// desiredOrUnit returns the average desired edge length, or 1 without edges.
func desiredOrUnit(d multilevel.Drawing) float64 {
	if l := AverageDesiredLength(d); l > 0 {
		return l
	}
	return 1
}

// Ensure implementations satisfy Layout.
var (
	_ Layout = Func(nil)
	_ Layout = Noop{}
	_ Layout = (*Random)(nil)
	_ Layout = Circle{}
	_ Layout = (*Force)(nil)
)
