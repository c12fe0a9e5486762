package layout

import "github.com/matzehuels/stackmixer/pkg/multilevel"

// AverageEdgeLength returns the mean Euclidean length of the live edges, or 0
// for a drawing without edges.
func AverageEdgeLength(d multilevel.Drawing) float64 {
	ids := d.EdgeIDs()
	if len(ids) == 0 {
		return 0
	}
	var sum float64
	for _, id := range ids {
		e, _ := d.Edge(id)
		sum += d.Position(e.Source).Dist(d.Position(e.Target))
	}
	return sum / float64(len(ids))
}

// AverageDesiredLength returns the mean edge weight, or 0 without edges.
func AverageDesiredLength(d multilevel.Drawing) float64 {
	ids := d.EdgeIDs()
	if len(ids) == 0 {
		return 0
	}
	var sum float64
	for _, id := range ids {
		e, _ := d.Edge(id)
		sum += e.Weight
	}
	return sum / float64(len(ids))
}

// Centroid returns the unweighted mean position of the live nodes.
func Centroid(d multilevel.Drawing) multilevel.Point {
	ids := d.NodeIDs()
	if len(ids) == 0 {
		return multilevel.Point{}
	}
	var c multilevel.Point
	for _, id := range ids {
		c = c.Add(d.Position(id))
	}
	n := float64(len(ids))
	return multilevel.Point{X: c.X / n, Y: c.Y / n}
}

// Translate moves every live node by delta.
func Translate(d multilevel.Drawing, delta multilevel.Point) {
	for _, id := range d.NodeIDs() {
		d.SetPosition(id, d.Position(id).Add(delta))
	}
}

// Scale multiplies every live node's offset from center by f.
func Scale(d multilevel.Drawing, center multilevel.Point, f float64) {
	for _, id := range d.NodeIDs() {
		p := d.Position(id)
		d.SetPosition(id, center.Add(p.Sub(center).Scale(f)))
	}
}
