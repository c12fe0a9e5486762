package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

// Force defaults.
const (
	DefaultIterations = 300
	DefaultCooling    = 0.95
	DefaultGravity    = 0.02
)

// Force is a Fruchterman-Reingold style spring embedder adapted to weighted,
// coarsened graphs.
//
// The natural length k is the average desired edge length. Every pair of
// nodes repels with k²·sqrt(m_u·m_v)/d, where m is the node's merge weight,
// so clusters that stand for many input nodes claim more room. Every edge
// attracts with d²/w, w being its desired length; two connected unit nodes
// settle at (k²·w)^(1/3). A weak gravity term keeps components together.
//
// Displacements are capped by a temperature that starts at Temperature
// (default k·sqrt(n)/2) and is multiplied by Cooling each iteration.
type Force struct {
	Iterations  int
	Temperature float64
	Cooling     float64
	Gravity     float64

	// Rand separates coincident nodes. It must not be nil when Call runs on a
	// drawing with stacked nodes; NewForce sets one up.
	Rand *rand.Rand
}

// NewForce returns a force layout with default parameters.
func NewForce(seed uint64) *Force {
	return &Force{
		Iterations: DefaultIterations,
		Cooling:    DefaultCooling,
		Gravity:    DefaultGravity,
		Rand:       newRand(seed),
	}
}

// Call implements [Layout].
func (f *Force) Call(d multilevel.Drawing) {
	ids := d.NodeIDs()
	n := len(ids)
	if n < 2 {
		return
	}
	if f.Rand == nil {
		f.Rand = newRand(0)
	}

	index := make(map[multilevel.NodeID]int, n)
	pos := make([]multilevel.Point, n)
	mass := make([]float64, n)
	for i, id := range ids {
		index[id] = i
		pos[i] = d.Position(id)
		mass[i] = float64(max(d.MergeWeight(id), 1))
	}

	type spring struct {
		a, b int
		w    float64
	}
	k := desiredOrUnit(d)
	springs := make([]spring, 0, d.EdgeCount())
	for _, eid := range d.EdgeIDs() {
		e, _ := d.Edge(eid)
		w := e.Weight
		if w <= 0 {
			w = k
		}
		springs = append(springs, spring{index[e.Source], index[e.Target], w})
	}

	iterations := f.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	cooling := f.Cooling
	if cooling <= 0 || cooling >= 1 {
		cooling = DefaultCooling
	}
	temp := f.Temperature
	if temp <= 0 {
		temp = k * math.Sqrt(float64(n)) / 2
	}
	minDist := k * 1e-3

	disp := make([]multilevel.Point, n)
	for range iterations {
		clear(disp)

		for i := range n {
			for j := i + 1; j < n; j++ {
				delta := pos[i].Sub(pos[j])
				dist := delta.Norm()
				if dist < minDist {
					delta = multilevel.Polar(minDist, f.Rand.Float64()*2*math.Pi)
					dist = minDist
				}
				push := delta.Scale(k * k * math.Sqrt(mass[i]*mass[j]) / (dist * dist))
				disp[i] = disp[i].Add(push)
				disp[j] = disp[j].Sub(push)
			}
		}

		for _, s := range springs {
			delta := pos[s.a].Sub(pos[s.b])
			dist := delta.Norm()
			if dist == 0 {
				continue
			}
			pull := delta.Scale(dist / s.w)
			disp[s.a] = disp[s.a].Sub(pull)
			disp[s.b] = disp[s.b].Add(pull)
		}

		if f.Gravity > 0 {
			var c multilevel.Point
			for _, p := range pos {
				c = c.Add(p)
			}
			c = c.Scale(1 / float64(n))
			for i := range n {
				disp[i] = disp[i].Sub(pos[i].Sub(c).Scale(f.Gravity * mass[i]))
			}
		}

		for i := range n {
			l := disp[i].Norm()
			if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
				continue
			}
			pos[i] = pos[i].Add(disp[i].Scale(math.Min(l, temp) / l))
		}
		temp *= cooling
	}

	for i, id := range ids {
		d.SetPosition(id, pos[i])
	}
}
