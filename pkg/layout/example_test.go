package layout_test

import (
	"fmt"

	"github.com/matzehuels/stackmixer/pkg/layout"
	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

func ExampleAverageEdgeLength() {
	g := multilevel.New()
	a, _ := g.AddNode(multilevel.Node{Pos: multilevel.Point{X: 0, Y: 0}})
	b, _ := g.AddNode(multilevel.Node{Pos: multilevel.Point{X: 3, Y: 4}})
	g.AddEdge(a, b, 2)

	fmt.Printf("length %.1f, desired %.1f\n", layout.AverageEdgeLength(g), layout.AverageDesiredLength(g))

	layout.Scale(g, layout.Centroid(g), 0.4)
	fmt.Printf("length %.1f\n", layout.AverageEdgeLength(g))
	// Output:
	// length 5.0, desired 2.0
	// length 2.0
}
