package coarsen

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

// build creates a graph with n nodes and the given edges.
func build(t *testing.T, n int, edges [][2]int) *multilevel.Graph {
	t.Helper()
	g := multilevel.New()
	ids := make([]multilevel.NodeID, n)
	for i := range n {
		id, err := g.AddNode(multilevel.Node{Radius: 0.5})
		if err != nil {
			t.Fatalf("AddNode: %v", err)
		}
		ids[i] = id
	}
	for _, e := range edges {
		if _, err := g.AddEdge(ids[e[0]], ids[e[1]], 1); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return g
}

func path(n int) [][2]int {
	var edges [][2]int
	for i := 1; i < n; i++ {
		edges = append(edges, [2]int{i - 1, i})
	}
	return edges
}

// star connects node 0 to every other node.
func star(n int) [][2]int {
	var edges [][2]int
	for i := 1; i < n; i++ {
		edges = append(edges, [2]int{0, i})
	}
	return edges
}

func grid(w, h int) (int, [][2]int) {
	var edges [][2]int
	for y := range h {
		for x := range w {
			i := y*w + x
			if x+1 < w {
				edges = append(edges, [2]int{i, i + 1})
			}
			if y+1 < h {
				edges = append(edges, [2]int{i, i + w})
			}
		}
	}
	return w * h, edges
}

func randomEdges(seed uint64, n, m int) [][2]int {
	r := rand.New(rand.NewPCG(seed, seed))
	var edges [][2]int
	for i := 1; i < n; i++ {
		edges = append(edges, [2]int{r.IntN(i), i})
	}
	for len(edges) < m {
		a, b := r.IntN(n), r.IntN(n)
		if a != b {
			edges = append(edges, [2]int{a, b})
		}
	}
	return edges
}

// unwind splits every record and pops every level.
func unwind(t *testing.T, g *multilevel.Graph) {
	t.Helper()
	for g.Level() > 0 {
		for g.LevelMerges() > 0 {
			if err := g.SplitNode(g.Top()); err != nil {
				t.Fatalf("SplitNode: %v", err)
			}
		}
		if !g.PopLevel() {
			t.Fatalf("PopLevel refused at level %d", g.Level())
		}
	}
}

func snapshot(g *multilevel.Graph) [][3]float64 {
	var out [][3]float64
	for _, id := range g.EdgeIDs() {
		e, _ := g.Edge(id)
		a, b := e.Source, e.Target
		if a > b {
			a, b = b, a
		}
		out = append(out, [3]float64{float64(a), float64(b), e.Weight})
	}
	slices.SortFunc(out, func(x, y [3]float64) int {
		for i := range x {
			if x[i] != y[i] {
				if x[i] < y[i] {
					return -1
				}
				return 1
			}
		}
		return 0
	})
	return out
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: "*coarsen.EdgeCover"},
		{name: "edge-cover", want: "*coarsen.EdgeCover"},
		{name: " Independent-Set ", want: "*coarsen.IndependentSet"},
		{name: "solar", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ByName(tt.name, 1)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ByName: %v", err)
			}
			switch c.(type) {
			case *EdgeCover:
				if tt.want != "*coarsen.EdgeCover" {
					t.Errorf("got EdgeCover, want %s", tt.want)
				}
			case *IndependentSet:
				if tt.want != "*coarsen.IndependentSet" {
					t.Errorf("got IndependentSet, want %s", tt.want)
				}
			}
		})
	}
}

func TestLiveFloor(t *testing.T) {
	tests := []struct {
		minNodes, want int
	}{
		{0, 2},
		{DefaultMinNodes, 2},
		{10, 2},
		{2, 1},
		{1, 1},
	}
	for _, tt := range tests {
		if got := liveFloor(tt.minNodes); got != tt.want {
			t.Errorf("liveFloor(%d) = %d, want %d", tt.minNodes, got, tt.want)
		}
	}
}

func TestSubstitution(t *testing.T) {
	s := substitution{3: 2, 2: 1, 1: 0}
	if got := s.find(3); got != 0 {
		t.Fatalf("find(3) = %d, want 0", got)
	}
	if s[3] != 0 || s[2] != 0 {
		t.Errorf("path not compressed: %v", s)
	}
	if got := s.find(7); got != 7 {
		t.Errorf("find(7) = %d, want 7", got)
	}
}

func TestMergeByDegree(t *testing.T) {
	// Star centre 0 with leaves 1..3; leaf 1 must be absorbed by the centre
	// regardless of argument order.
	g := build(t, 4, [][2]int{{0, 1}, {0, 2}, {0, 3}})
	rec, err := mergeByDegree(g, 1, 0)
	if err != nil {
		t.Fatalf("mergeByDegree: %v", err)
	}
	if rec.Parent != 0 || rec.Mergee != 1 {
		t.Errorf("parent/mergee = %d/%d, want 0/1", rec.Parent, rec.Mergee)
	}
}
