package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/stackmixer/pkg/graph"
)

func ExampleWriteGraph() {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "a", X: 0, Y: 0}, {ID: "b", X: 2, Y: 0}},
		Edges: []graph.Edge{{From: "a", To: "b", Weight: 2}},
	}

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "a",
	//       "x": 0,
	//       "y": 0
	//     },
	//     {
	//       "id": "b",
	//       "x": 2,
	//       "y": 0
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "a",
	//       "to": "b",
	//       "weight": 2
	//     }
	//   ]
	// }
}

func ExampleToStore() {
	g, err := graph.ReadGraph(strings.NewReader(`{
		"nodes": [{"id": "hub"}, {"id": "leaf"}],
		"edges": [{"from": "hub", "to": "leaf"}]
	}`))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	s, idx, err := graph.ToStore(g)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	h, _ := idx.Handle("leaf")
	fmt.Println("Nodes:", s.NodeCount(), "Edges:", s.EdgeCount())
	fmt.Println("leaf radius:", s.Radius(h))
	// Output:
	// Nodes: 2 Edges: 1
	// leaf radius: 0.5
}
