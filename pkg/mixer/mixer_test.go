package mixer

import (
	"context"
	stderrors "errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/stackmixer/pkg/coarsen"
	"github.com/matzehuels/stackmixer/pkg/errors"
	"github.com/matzehuels/stackmixer/pkg/layout"
	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

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

func weights(g *multilevel.Graph) []float64 {
	var ws []float64
	for _, id := range g.EdgeIDs() {
		e, _ := g.Edge(id)
		ws = append(ws, e.Weight)
	}
	slices.Sort(ws)
	return ws
}

func atOrigin(d multilevel.Drawing) {
	for _, id := range d.NodeIDs() {
		d.SetPosition(id, multilevel.Point{})
	}
}

// pairFloor lets edge cover collapse two-node graphs.
func pairFloor(seed uint64) *coarsen.EdgeCover {
	c := coarsen.NewEdgeCover(seed)
	c.MinNodes = 2
	return c
}

func newMixer(t *testing.T, opts Options) *Mixer {
	t.Helper()
	m, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestSingleEdge(t *testing.T) {
	g := build(t, 2, [][2]int{{0, 1}})
	m := newMixer(t, Options{
		Coarsener: pairFloor(1),
		Layout:    layout.Func(atOrigin),
		Placer:    NewParentPlacer(1),
		Verify:    true,
	})

	res, err := m.Call(g)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Levels != 1 || res.CoarsestNodes != 1 || res.Splits != 1 {
		t.Errorf("result = %+v, want 1 level, 1 coarsest node, 1 split", res)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatalf("nodes=%d edges=%d, want 2/1", g.NodeCount(), g.EdgeCount())
	}
	if ws := weights(g); ws[0] != 1 {
		t.Errorf("edge weight = %v, want 1", ws[0])
	}

	a, b := g.Position(0), g.Position(1)
	if a != (multilevel.Point{}) && b != (multilevel.Point{}) {
		t.Errorf("parent should stay at the origin: %v %v", a, b)
	}
	if d := a.Dist(b); d < 0.8 || d > 1.2 {
		t.Errorf("split distance = %v, want about the edge weight 1", d)
	}
}

func TestTriangle(t *testing.T) {
	g := build(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	m := newMixer(t, Options{
		Coarsener: pairFloor(4),
		Layout:    layout.Noop{},
		Placer:    ZeroPlacer{},
		Verify:    true,
	})

	res, err := m.Call(g)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.CoarsestNodes >= 3 {
		t.Errorf("CoarsestNodes = %d, want < 3", res.CoarsestNodes)
	}
	if got := weights(g); !slices.Equal(got, []float64{1, 1, 1}) {
		t.Errorf("weights = %v, want [1 1 1]", got)
	}
}

func TestCoarsestKeepsTwoNodes(t *testing.T) {
	star := make([][2]int, 0, 7)
	for i := 1; i < 8; i++ {
		star = append(star, [2]int{0, i})
	}
	graphs := []struct {
		name  string
		n     int
		edges [][2]int
	}{
		{"Triangle", 3, [][2]int{{0, 1}, {1, 2}, {2, 0}}},
		{"Star", 8, star},
	}
	for _, gr := range graphs {
		for _, name := range []string{coarsen.NameEdgeCover, coarsen.NameIndependentSet} {
			t.Run(gr.name+"/"+name, func(t *testing.T) {
				for seed := uint64(1); seed <= 3; seed++ {
					g := build(t, gr.n, gr.edges)
					c, err := coarsen.ByName(name, seed)
					if err != nil {
						t.Fatal(err)
					}
					var laidOut int
					m := newMixer(t, Options{
						Coarsener: c,
						Layout:    layout.Func(func(d multilevel.Drawing) { laidOut = d.NodeCount() }),
						Placer:    ZeroPlacer{},
						Verify:    true,
					})
					res, err := m.Call(g)
					if err != nil {
						t.Fatalf("seed %d: Call: %v", seed, err)
					}
					if res.CoarsestNodes < 2 || laidOut < 2 {
						t.Errorf("seed %d: coarsest=%d, layout saw %d, want at least 2", seed, res.CoarsestNodes, laidOut)
					}
					for _, sz := range res.Sizes {
						if sz.Nodes < 2 {
							t.Errorf("seed %d: sizes = %v", seed, res.Sizes)
							break
						}
					}
					if g.NodeCount() != gr.n {
						t.Errorf("seed %d: %d nodes after Call", seed, g.NodeCount())
					}
				}
			})
		}
	}
}

func TestCheckHistory(t *testing.T) {
	g := build(t, 6, path(6))
	if err := checkHistory(g, 6); err != nil {
		t.Fatalf("fresh graph: %v", err)
	}
	g.NextLevel()
	if _, err := g.MergeNode(0, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := g.MergeNode(2, 3); err != nil {
		t.Fatal(err)
	}
	if err := checkHistory(g, 6); err != nil {
		t.Errorf("two merges: %v", err)
	}
	if err := checkHistory(g, 7); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("miscounted input: err = %v, want internal error", err)
	}
	if err := g.SplitNode(g.Top()); err != nil {
		t.Fatal(err)
	}
	if err := checkHistory(g, 6); err != nil {
		t.Errorf("after split: %v", err)
	}
}

// placerFunc adapts a function to InitialPlacer.
type placerFunc func(*multilevel.Graph, *multilevel.NodeMerge)

func (f placerFunc) Place(g *multilevel.Graph, rec *multilevel.NodeMerge) { f(g, rec) }

func TestCallContext(t *testing.T) {
	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	t.Run("DeadlineBeforeStart", func(t *testing.T) {
		g := build(t, 32, path(32))
		laidOut := false
		m := newMixer(t, Options{
			Coarsener: coarsen.NewEdgeCover(1),
			Layout:    layout.Func(func(multilevel.Drawing) { laidOut = true }),
		})
		_, err := m.CallContext(expired, g)
		if !errors.Is(err, errors.ErrCodeTimeout) {
			t.Fatalf("err = %v, want %s", err, errors.ErrCodeTimeout)
		}
		if laidOut {
			t.Error("base layout ran after the deadline")
		}
		if g.Level() != 0 || g.HistoryLen() != 0 || g.NodeCount() != 32 {
			t.Errorf("graph not restored: level=%d history=%d nodes=%d", g.Level(), g.HistoryLen(), g.NodeCount())
		}
	})

	t.Run("CancelledDuringBaseLayout", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		g := build(t, 32, path(32))
		placed := 0
		m := newMixer(t, Options{
			Coarsener: coarsen.NewEdgeCover(1),
			Layout:    layout.Func(func(multilevel.Drawing) { cancel() }),
			Placer:    placerFunc(func(*multilevel.Graph, *multilevel.NodeMerge) { placed++ }),
		})
		_, err := m.CallContext(ctx, g)
		if !errors.Is(err, errors.ErrCodeInternal) || !stderrors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want internal error caused by cancellation", err)
		}
		if placed != 0 {
			t.Errorf("placed %d nodes after cancellation", placed)
		}
		if g.Level() != 0 || g.HistoryLen() != 0 || g.NodeCount() != 32 || g.TotalMass() != 32 {
			t.Errorf("graph not restored: level=%d history=%d nodes=%d", g.Level(), g.HistoryLen(), g.NodeCount())
		}
	})

	t.Run("CoarsenDeadline", func(t *testing.T) {
		g := build(t, 32, path(32))
		m := newMixer(t, Options{Coarsener: coarsen.NewEdgeCover(1)})
		if _, _, err := m.CoarsenContext(expired, g); !errors.Is(err, errors.ErrCodeTimeout) {
			t.Errorf("err = %v, want %s", err, errors.ErrCodeTimeout)
		}
		if g.Level() != 0 || g.NodeCount() != 32 {
			t.Errorf("graph not restored: level=%d nodes=%d", g.Level(), g.NodeCount())
		}
	})
}

func TestLevelBound(t *testing.T) {
	tests := []struct {
		name       string
		policy     LevelBoundPolicy
		wantLevels func(int) bool
		wantNodes  int
	}{
		{name: "Stop", policy: BoundStop, wantLevels: func(l int) bool { return l == 1 }, wantNodes: 8},
		{name: "Continue", policy: BoundContinue, wantLevels: func(l int) bool { return l >= 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, 16, path(16))
			var laidOut int
			m := newMixer(t, Options{
				Coarsener:    coarsen.NewEdgeCover(2),
				Layout:       layout.Func(func(d multilevel.Drawing) { laidOut = d.NodeCount() }),
				Placer:       ZeroPlacer{},
				MaxLevels:    1,
				OnLevelBound: tt.policy,
				Verify:       true,
			})

			res, err := m.Call(g)
			if err != nil {
				t.Fatalf("Call: %v", err)
			}
			if res.Status != StatusLevelBoundExceeded {
				t.Errorf("Status = %v, want %v", res.Status, StatusLevelBoundExceeded)
			}
			if !tt.wantLevels(res.Levels) {
				t.Errorf("Levels = %d", res.Levels)
			}
			if tt.wantNodes > 0 && laidOut != tt.wantNodes {
				t.Errorf("base layout saw %d nodes, want %d", laidOut, tt.wantNodes)
			}
			if len(res.Sizes) != res.Levels+1 {
				t.Errorf("len(Sizes) = %d, want %d", len(res.Sizes), res.Levels+1)
			}
			if laidOut != res.CoarsestNodes {
				t.Errorf("base layout saw %d nodes, result says %d", laidOut, res.CoarsestNodes)
			}
			if g.Level() != 0 || g.NodeCount() != 16 || g.EdgeCount() != 15 {
				t.Errorf("graph not restored: level=%d nodes=%d edges=%d", g.Level(), g.NodeCount(), g.EdgeCount())
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{coarsen.NameEdgeCover, coarsen.NameIndependentSet} {
		for seed := uint64(1); seed <= 4; seed++ {
			r := rand.New(rand.NewPCG(seed, 0))
			n := 40
			var edges [][2]int
			for i := 1; i < n; i++ {
				edges = append(edges, [2]int{r.IntN(i), i})
			}
			for range 30 {
				a, b := r.IntN(n), r.IntN(n)
				if a != b {
					edges = append(edges, [2]int{a, b})
				}
			}
			g := build(t, n, edges)
			before := weights(g)

			c, err := coarsen.ByName(name, seed)
			if err != nil {
				t.Fatal(err)
			}
			m := newMixer(t, Options{Coarsener: c, Layout: layout.Noop{}, Placer: ZeroPlacer{}, Verify: true})
			res, err := m.Call(g)
			if err != nil {
				t.Fatalf("%s/%d: Call: %v", name, seed, err)
			}
			if res.Levels == 0 {
				t.Errorf("%s/%d: no levels built", name, seed)
			}
			if g.NodeCount() != n || g.HistoryLen() != 0 || g.TotalMass() != n {
				t.Errorf("%s/%d: nodes=%d history=%d mass=%d", name, seed, g.NodeCount(), g.HistoryLen(), g.TotalMass())
			}
			if got := weights(g); !slices.Equal(got, before) {
				t.Errorf("%s/%d: weight multiset changed", name, seed)
			}
			if res.Splits != n-res.CoarsestNodes {
				t.Errorf("%s/%d: splits = %d, want %d", name, seed, res.Splits, n-res.CoarsestNodes)
			}
		}
	}
}

// stall claims a level without merging anything.
type stall struct{}

func (stall) BuildOneLevel(g *multilevel.Graph) bool {
	g.NextLevel()
	return true
}

func TestCoarseningAborted(t *testing.T) {
	g := build(t, 5, path(5))
	laidOut := 0
	m := newMixer(t, Options{
		Coarsener: stall{},
		Layout:    layout.Func(func(d multilevel.Drawing) { laidOut = d.NodeCount() }),
	})

	res, err := m.Call(g)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Status != StatusCoarseningAborted || res.Levels != 0 {
		t.Errorf("result = %+v, want aborted with 0 levels", res)
	}
	if laidOut != 5 || g.Level() != 0 {
		t.Errorf("layout saw %d nodes at level %d", laidOut, g.Level())
	}
}

func TestPostTrigger(t *testing.T) {
	tests := []struct {
		name string
		post PostTrigger
		want func(Result) int
	}{
		{name: "None", post: PostTrigger{}, want: func(Result) int { return 0 }},
		{name: "EverySplit", post: PostTrigger{Mode: PostEverySplit}, want: func(r Result) int { return r.Splits }},
		{name: "EveryN", post: PostTrigger{Mode: PostEveryN, N: 3}, want: func(r Result) int { return r.Splits / 3 }},
		{name: "EveryLevel", post: PostTrigger{Mode: PostEveryLevel}, want: func(r Result) int { return r.Levels }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, 30, path(30))
			m := newMixer(t, Options{
				Coarsener:  coarsen.NewEdgeCover(6),
				Layout:     layout.Noop{},
				Placer:     ZeroPlacer{},
				PostLayout: layout.Noop{},
				Post:       tt.post,
			})
			res, err := m.Call(g)
			if err != nil {
				t.Fatalf("Call: %v", err)
			}
			if want := tt.want(res); res.PostCalls != want {
				t.Errorf("PostCalls = %d, want %d (splits %d, levels %d)", res.PostCalls, want, res.Splits, res.Levels)
			}
		})
	}
}

func TestPostTimeFactor(t *testing.T) {
	g := build(t, 30, path(30))
	m := newMixer(t, Options{
		Coarsener:  coarsen.NewEdgeCover(6),
		Layout:     layout.Noop{},
		Placer:     ZeroPlacer{},
		PostLayout: layout.Noop{},
		Post:       PostTrigger{Mode: PostTimeFactor, TimeFactor: 1},
	})
	res, err := m.Call(g)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.PostCalls > res.Splits {
		t.Errorf("PostCalls = %d exceeds splits %d", res.PostCalls, res.Splits)
	}
}

func TestLevelRatio(t *testing.T) {
	g := build(t, 32, path(32))
	var ratios []float64
	var m *Mixer
	m = newMixer(t, Options{
		Coarsener:  coarsen.NewEdgeCover(3),
		Layout:     layout.Noop{},
		Placer:     ZeroPlacer{},
		PostLayout: layout.Func(func(multilevel.Drawing) { ratios = append(ratios, m.LevelRatio()) }),
		Post:       PostTrigger{Mode: PostEveryLevel},
	})

	if m.LevelRatio() != 1 {
		t.Fatalf("LevelRatio before Call = %v, want 1", m.LevelRatio())
	}
	res, err := m.Call(g)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(ratios) != res.Levels {
		t.Fatalf("got %d ratios for %d levels", len(ratios), res.Levels)
	}
	product := 1.0
	for _, r := range ratios {
		if r <= 1 {
			t.Errorf("ratio %v, want > 1", r)
		}
		product *= r
	}
	if want := 32 / float64(res.CoarsestNodes); math.Abs(product-want) > 1e-9 {
		t.Errorf("product of ratios = %v, want %v", product, want)
	}
	if m.LevelRatio() != 1 {
		t.Errorf("LevelRatio after Call = %v, want 1", m.LevelRatio())
	}
}

func TestRandomize(t *testing.T) {
	g := build(t, 12, path(12))
	m := newMixer(t, Options{
		Coarsener: coarsen.NewEdgeCover(1),
		Layout:    layout.Noop{},
		Placer:    ZeroPlacer{},
		Randomize: true,
		Width:     10,
		Height:    10,
		Seed:      9,
	})
	if _, err := m.Call(g); err != nil {
		t.Fatalf("Call: %v", err)
	}
	moved := false
	for _, id := range g.NodeIDs() {
		p := g.Position(id)
		if p != (multilevel.Point{}) {
			moved = true
		}
		if math.Abs(p.X) > 5 || math.Abs(p.Y) > 5 {
			t.Errorf("node %d at %v outside the random box", id, p)
		}
	}
	if !moved {
		t.Error("randomize left every node at the origin")
	}
}

func TestCallRejectsCoarsenedGraph(t *testing.T) {
	g := build(t, 4, path(4))
	g.NextLevel()
	if _, err := g.MergeNode(0, 1); err != nil {
		t.Fatal(err)
	}
	m := newMixer(t, Options{})
	_, err := m.Call(g)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestCoarsen(t *testing.T) {
	g := build(t, 16, path(16))
	m := newMixer(t, Options{
		Coarsener: coarsen.NewEdgeCover(2),
		MaxLevels: 2,
		Verify:    true,
	})

	sizes, status, err := m.Coarsen(g)
	if err != nil {
		t.Fatalf("Coarsen: %v", err)
	}
	if status != StatusLevelBoundExceeded {
		t.Errorf("Status = %v", status)
	}
	if len(sizes) != 3 {
		t.Fatalf("got %d sizes, want 3: %+v", len(sizes), sizes)
	}
	if sizes[0] != (LevelSize{Level: 0, Nodes: 16, Edges: 15}) {
		t.Errorf("sizes[0] = %+v", sizes[0])
	}
	for i := 1; i < len(sizes); i++ {
		if sizes[i].Level != i || sizes[i].Nodes >= sizes[i-1].Nodes {
			t.Errorf("sizes[%d] = %+v after %+v", i, sizes[i], sizes[i-1])
		}
	}
	if g.Level() != 0 || g.HistoryLen() != 0 || g.NodeCount() != 16 || g.EdgeCount() != 15 {
		t.Errorf("graph not restored: level=%d history=%d nodes=%d", g.Level(), g.HistoryLen(), g.NodeCount())
	}
	if err := g.Validate(); err != nil {
		t.Error(err)
	}

	g.NextLevel()
	if _, _, err := m.Coarsen(g); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Coarsen above level 0: err = %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "Defaults", opts: Options{}},
		{name: "NegativeLevels", opts: Options{MaxLevels: -1}, wantErr: true},
		{name: "NegativeSize", opts: Options{Width: -1}, wantErr: true},
		{name: "PostWithoutLayout", opts: Options{Post: PostTrigger{Mode: PostEverySplit}}, wantErr: true},
		{name: "EveryNDefaultsToOne", opts: Options{PostLayout: layout.Noop{}, Post: PostTrigger{Mode: PostEveryN}}},
		{name: "NegativeN", opts: Options{PostLayout: layout.Noop{}, Post: PostTrigger{Mode: PostEveryN, N: -2}}, wantErr: true},
		{name: "ZeroTimeFactor", opts: Options{PostLayout: layout.Noop{}, Post: PostTrigger{Mode: PostTimeFactor}}, wantErr: true},
		{name: "BadPolicy", opts: Options{OnLevelBound: 7}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	for _, s := range []string{"", "none", "every-level", "Every-Split", "every-n", "time-factor"} {
		if _, err := ParsePostMode(s); err != nil {
			t.Errorf("ParsePostMode(%q): %v", s, err)
		}
	}
	if _, err := ParsePostMode("sometimes"); err == nil {
		t.Error("ParsePostMode(sometimes): expected error")
	}
	if p, err := ParseLevelBoundPolicy("continue"); err != nil || p != BoundContinue {
		t.Errorf("ParseLevelBoundPolicy(continue) = %v, %v", p, err)
	}
	if _, err := ParseLevelBoundPolicy("panic"); err == nil {
		t.Error("ParseLevelBoundPolicy(panic): expected error")
	}
	if StatusLevelBoundExceeded.String() != "level-bound-exceeded" || PostEveryN.String() != "every-n" {
		t.Error("unexpected String() output")
	}
}
