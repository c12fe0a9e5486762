package mixer

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/stackmixer/pkg/errors"
	"github.com/matzehuels/stackmixer/pkg/layout"
	"github.com/matzehuels/stackmixer/pkg/multilevel"
	"github.com/matzehuels/stackmixer/pkg/observability"
)

// Status reports recoverable conditions of a run. The drawing is valid for
// every status.
type Status int

const (
	// StatusOK means coarsening stopped at the size floor.
	StatusOK Status = iota
	// StatusLevelBoundExceeded means coarsening could have continued past
	// MaxLevels.
	StatusLevelBoundExceeded
	// StatusCoarseningAborted means the coarsener reported a level it did not
	// build; coarsening stopped there.
	StatusCoarseningAborted
)

// String returns a short name for s.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusLevelBoundExceeded:
		return "level-bound-exceeded"
	case StatusCoarseningAborted:
		return "coarsening-aborted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// LevelSize records the size of one level of the hierarchy.
type LevelSize struct {
	Level int `json:"level"`
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// Result summarises one [Mixer.Call].
type Result struct {
	Status        Status
	Levels        int // levels used for layout
	CoarsestNodes int
	Splits        int
	PostCalls     int
	Duration      time.Duration

	// Sizes holds one entry per level used, starting with the input at level 0.
	Sizes []LevelSize
}

// Mixer is the multilevel layout driver: it coarsens a graph level by level,
// lays out the coarsest level and refines back to level 0, placing every
// split node and optionally running a post layout.
//
// A Mixer may be reused for several graphs but not concurrently.
type Mixer struct {
	opts  Options
	ratio float64

	postTime  time.Duration
	postCalls int
}

// New validates opts and creates a mixer.
func New(opts Options) (*Mixer, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Mixer{opts: opts, ratio: 1}, nil
}

// Options returns the effective options.
func (m *Mixer) Options() Options { return m.opts }

// LevelRatio returns the node count of the level being refined divided by
// the node count of the coarser level it is refined from. Outside refinement
// it is 1. The scaling decorator's Absolute policy reads it.
func (m *Mixer) LevelRatio() float64 { return m.ratio }

// Call computes positions for g, which must be at level 0 with an empty
// history. On return g is at level 0 again. An error means the graph store
// rejected an operation; recoverable conditions are reported in
// Result.Status.
func (m *Mixer) Call(g *multilevel.Graph) (Result, error) {
	return m.CallContext(context.Background(), g)
}

// CallContext is [Mixer.Call] with cancellation. ctx is checked between
// levels, before the base layout and between splits; once it is done the
// remaining levels are undone without placement and the error carries
// ErrCodeTimeout for an expired deadline. A running layout is not
// interrupted.
func (m *Mixer) CallContext(ctx context.Context, g *multilevel.Graph) (Result, error) {
	start := time.Now()
	logger := m.opts.Logger
	hooks := observability.Mixer()

	if g.Level() != 0 || g.HistoryLen() != 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "graph must be at level 0 with an empty history (level %d, %d records)", g.Level(), g.HistoryLen())
	}
	m.ratio, m.postTime, m.postCalls = 1, 0, 0

	res := Result{}
	var err error
	if res.Sizes, res.Status, err = m.coarsen(ctx, g); err != nil {
		return res, err
	}
	res.Levels = g.Level()
	res.CoarsestNodes = g.NodeCount()
	logger.Debug("coarsening done", "levels", res.Levels, "nodes", res.CoarsestNodes, "status", res.Status)

	if m.opts.Randomize {
		rnd := &layout.Random{Width: m.opts.Width, Height: m.opts.Height, Rand: newRand(m.opts.Seed)}
		rnd.Call(g)
	}
	if err := interrupted(ctx, "base layout"); err != nil {
		return res, m.abandon(g, err)
	}
	base := m.opts.Layout
	if m.opts.FinalLayout != nil {
		base = m.opts.FinalLayout
	}
	t0 := time.Now()
	base.Call(g)
	baseTime := time.Since(t0)
	hooks.OnBaseLayout(g.Level(), g.NodeCount(), baseTime)
	logger.Debug("base layout", "level", g.Level(), "nodes", g.NodeCount(), "took", baseTime)

	if res.Splits, err = m.refine(ctx, g, res.Sizes[0].Nodes, baseTime); err != nil {
		return res, err
	}
	if g.HistoryLen() != 0 {
		return res, errors.New(errors.ErrCodeInternal, "%d merge records outside any level", g.HistoryLen())
	}
	res.PostCalls = m.postCalls
	res.Duration = time.Since(start)
	return res, nil
}

// Coarsen builds the level hierarchy of g exactly as [Mixer.Call] would,
// records the size of every level and then undoes all of it. g must be at
// level 0 and is returned there unchanged.
func (m *Mixer) Coarsen(g *multilevel.Graph) ([]LevelSize, Status, error) {
	return m.CoarsenContext(context.Background(), g)
}

// CoarsenContext is [Mixer.Coarsen] with cancellation between levels.
func (m *Mixer) CoarsenContext(ctx context.Context, g *multilevel.Graph) ([]LevelSize, Status, error) {
	if g.Level() != 0 || g.HistoryLen() != 0 {
		return nil, StatusOK, errors.New(errors.ErrCodeInvalidInput, "graph must be at level 0 with an empty history (level %d, %d records)", g.Level(), g.HistoryLen())
	}
	sizes, status, err := m.coarsen(ctx, g)
	if err != nil {
		return sizes, status, err
	}
	return sizes, status, m.undoLevels(g, 0)
}

// coarsen builds levels until the coarsener gives up, the graph is down to
// one node, or the level bound stops it.
func (m *Mixer) coarsen(ctx context.Context, g *multilevel.Graph) ([]LevelSize, Status, error) {
	status := StatusOK
	sizes := []LevelSize{{Level: 0, Nodes: g.NodeCount(), Edges: g.EdgeCount()}}
	for g.NodeCount() >= 2 {
		if err := interrupted(ctx, "coarsening"); err != nil {
			return sizes, status, m.abandon(g, err)
		}
		before, level := g.NodeCount(), g.Level()
		if !m.opts.Coarsener.BuildOneLevel(g) {
			break
		}
		if g.Level() == level || g.NodeCount() >= before {
			if err := m.undoLevels(g, level); err != nil {
				return sizes, status, err
			}
			m.opts.Logger.Warn("coarsener reported a level without merges", "level", level+1)
			return sizes, StatusCoarseningAborted, nil
		}
		if err := checkHistory(g, sizes[0].Nodes); err != nil {
			return sizes, status, err
		}
		if m.opts.Verify {
			if err := g.Validate(); err != nil {
				return sizes, status, errors.Wrap(errors.ErrCodeInternal, err, "level %d", g.Level())
			}
		}
		observability.Mixer().OnLevelBuilt(g.Level(), g.NodeCount(), g.EdgeCount())
		m.opts.Logger.Debug("level built", "level", g.Level(), "nodes", g.NodeCount(), "edges", g.EdgeCount())

		if m.opts.MaxLevels > 0 && g.Level() > m.opts.MaxLevels {
			status = StatusLevelBoundExceeded
			if m.opts.OnLevelBound == BoundStop {
				m.opts.Logger.Info("level bound exceeded", "max", m.opts.MaxLevels)
				return sizes, status, m.undoLevels(g, m.opts.MaxLevels)
			}
		}
		sizes = append(sizes, LevelSize{Level: g.Level(), Nodes: g.NodeCount(), Edges: g.EdgeCount()})
	}
	return sizes, status, nil
}

// undoLevels splits and pops levels until g is back at level target. Split
// nodes keep their parent's position.
func (m *Mixer) undoLevels(g *multilevel.Graph, target int) error {
	for g.Level() > target {
		for g.LevelMerges() > 0 {
			if err := g.SplitNode(g.Top()); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "undo level %d", g.Level())
			}
		}
		if !g.PopLevel() {
			return errors.New(errors.ErrCodeInternal, "cannot leave level %d", g.Level())
		}
	}
	return nil
}

// refine undoes every level, placing split nodes and running the post layout.
func (m *Mixer) refine(ctx context.Context, g *multilevel.Graph, inputNodes int, baseTime time.Duration) (int, error) {
	post := m.opts.Post
	budget := time.Duration(post.TimeFactor * float64(baseTime))
	splits := 0

	defer func() { m.ratio = 1 }()
	for g.Level() > 0 {
		t0 := time.Now()
		if coarse := g.NodeCount(); coarse > 0 {
			m.ratio = float64(coarse+g.LevelMerges()) / float64(coarse)
		}

		for g.LevelMerges() > 0 {
			if err := interrupted(ctx, "refinement"); err != nil {
				return splits, m.abandon(g, err)
			}
			rec := g.Top()
			if err := g.SplitNode(rec); err != nil {
				return splits, errors.Wrap(errors.ErrCodeInternal, err, "split at level %d", g.Level())
			}
			if err := checkHistory(g, inputNodes); err != nil {
				return splits, err
			}
			m.opts.Placer.Place(g, rec)
			splits++

			switch post.Mode {
			case PostEverySplit:
				m.post(g)
			case PostEveryN:
				if splits%post.N == 0 {
					m.post(g)
				}
			case PostTimeFactor:
				if m.postTime < budget {
					m.post(g)
				}
			}
		}

		level := g.Level()
		if !g.PopLevel() {
			return splits, errors.New(errors.ErrCodeInternal, "cannot leave level %d", level)
		}
		if post.Mode == PostEveryLevel {
			m.post(g)
		}
		if m.opts.Verify {
			if err := g.Validate(); err != nil {
				return splits, errors.Wrap(errors.ErrCodeInternal, err, "refined level %d", level)
			}
		}
		observability.Mixer().OnLevelRefined(g.Level(), g.NodeCount(), time.Since(t0))
		m.opts.Logger.Debug("level refined", "level", g.Level(), "nodes", g.NodeCount())
	}
	return splits, nil
}

// interrupted converts a done context into a coded error.
func interrupted(ctx context.Context, stage string) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	code := errors.ErrCodeInternal
	if err == context.DeadlineExceeded {
		code = errors.ErrCodeTimeout
	}
	return errors.Wrap(code, err, "%s interrupted", stage)
}

// abandon returns g to level 0 after an interruption and passes cause on.
func (m *Mixer) abandon(g *multilevel.Graph, cause error) error {
	m.ratio = 1
	if err := m.undoLevels(g, 0); err != nil {
		return err
	}
	m.opts.Logger.Warn("layout interrupted", "err", cause)
	return cause
}

// checkHistory holds after every merge and split: each record on the history
// accounts for exactly one node that left the live set.
func checkHistory(g *multilevel.Graph, inputNodes int) error {
	if got, want := g.HistoryLen(), inputNodes-g.NodeCount(); got != want {
		return errors.New(errors.ErrCodeInternal, "%d merge records for %d merged nodes", got, want)
	}
	return nil
}

func (m *Mixer) post(g *multilevel.Graph) {
	t0 := time.Now()
	m.opts.PostLayout.Call(g)
	m.postTime += time.Since(t0)
	m.postCalls++
}
