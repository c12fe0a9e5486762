// Package scaling provides a layout decorator that rescales a drawing before
// handing it to a secondary layout.
//
// Refinement adds nodes to a drawing that was laid out for fewer nodes; the
// decorator keeps edge lengths consistent across those jumps. It runs
// ExtraSteps+1 rounds. Round i scales the drawing about its centroid by the
// policy's ratio times a factor interpolated linearly from MaxScale (round 0)
// to MinScale (last round), then calls the secondary layout.
//
// Policies:
//
//   - [RelativeToDrawing]: the first measured average edge length becomes a
//     baseline; later rounds scale back towards it.
//   - [RelativeToAvgLength]: scale so the average edge length matches the
//     average desired length (edge weight).
//   - [RelativeToDesiredLength]: scale towards DesiredLength.
//   - [Absolute]: scale by the Sizer's level ratio, which counteracts the
//     size jump of one uncoarsening step.
//
// A drawing whose edges all have zero length cannot be measured. It is moved
// so its centroid sits at the origin and handed to the secondary layout
// unscaled.
package scaling

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stackmixer/pkg/layout"
	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

// Policy selects how the scale ratio is computed.
type Policy int

const (
	RelativeToDrawing Policy = iota
	RelativeToAvgLength
	RelativeToDesiredLength
	Absolute
)

var policyNames = map[Policy]string{
	RelativeToDrawing:       "drawing",
	RelativeToAvgLength:     "avg-length",
	RelativeToDesiredLength: "desired-length",
	Absolute:                "absolute",
}

// String returns the configuration name of p.
func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses a configuration name. An empty string selects
// RelativeToDrawing.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RelativeToDrawing, nil
	}
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown scaling policy %q (must be one of: drawing, avg-length, desired-length, absolute)", s)
}

// Sizer reports the node count ratio between the level being refined and the
// coarser level it came from. *mixer.Mixer implements it.
type Sizer interface {
	LevelRatio() float64
}

// Layout is the scaling decorator. The zero value scales relative to the
// drawing with factor 1 and no secondary layout.
type Layout struct {
	Policy Policy

	// MinScale and MaxScale bound the per-round factor; non-positive values
	// mean 1.
	MinScale float64
	MaxScale float64

	// ExtraSteps is the number of rounds after the first.
	ExtraSteps int

	// DesiredLength is the target for RelativeToDesiredLength.
	DesiredLength float64

	// Secondary runs after every rescale; nil skips it.
	Secondary layout.Layout

	// Sizer supplies the ratio for Absolute.
	Sizer Sizer

	baseline float64
}

// Call implements [layout.Layout].
func (s *Layout) Call(d multilevel.Drawing) {
	for i := 0; i <= max(s.ExtraSteps, 0); i++ {
		if avg := layout.AverageEdgeLength(d); avg > 0 {
			layout.Scale(d, layout.Centroid(d), s.ratio(d, avg)*s.factor(i))
		} else {
			layout.Translate(d, layout.Centroid(d).Scale(-1))
		}
		if s.Secondary != nil {
			s.Secondary.Call(d)
		}
	}
}

// Reset forgets the RelativeToDrawing baseline so the next call measures a
// new one.
func (s *Layout) Reset() { s.baseline = 0 }

// factor interpolates from MaxScale at round 0 to MinScale at the last round.
func (s *Layout) factor(i int) float64 {
	hi, lo := s.MaxScale, s.MinScale
	if hi <= 0 {
		hi = 1
	}
	if lo <= 0 {
		lo = 1
	}
	if s.ExtraSteps <= 0 {
		return hi
	}
	return hi - (hi-lo)*float64(i)/float64(s.ExtraSteps)
}

// ratio returns the policy's target length divided by avg.
func (s *Layout) ratio(d multilevel.Drawing, avg float64) float64 {
	switch s.Policy {
	case RelativeToAvgLength:
		if want := layout.AverageDesiredLength(d); want > 0 {
			return want / avg
		}
	case RelativeToDesiredLength:
		if s.DesiredLength > 0 {
			return s.DesiredLength / avg
		}
	case Absolute:
		if s.Sizer != nil {
			if r := s.Sizer.LevelRatio(); r > 0 {
				return r
			}
		}
	default:
		if s.baseline <= 0 {
			s.baseline = avg
		}
		return s.baseline / avg
	}
	return 1
}

// Ensure Layout implements layout.Layout.
var _ layout.Layout = (*Layout)(nil)
