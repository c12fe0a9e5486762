package pipeline

import (
	"context"

	"github.com/matzehuels/stackmixer/pkg/graph"
	"github.com/matzehuels/stackmixer/pkg/mixer"
)

// =============================================================================
// Level Reports
// =============================================================================

// LevelReport describes the hierarchy a coarsener builds for a graph.
type LevelReport struct {
	Coarsener string            `json:"coarsener"`
	Status    string            `json:"status"`
	Sizes     []mixer.LevelSize `json:"sizes"`
}

// ComputeLevels coarsens g with the configured coarsener and level bound and
// reports the size of every level. No layout runs. opts must have defaults
// applied.
func ComputeLevels(ctx context.Context, g graph.Graph, opts Options) (LevelReport, error) {
	s, _, err := graph.ToStore(g, storeOptions(opts)...)
	if err != nil {
		return LevelReport{}, err
	}
	m, err := BuildMixer(opts)
	if err != nil {
		return LevelReport{}, err
	}
	sizes, status, err := m.CoarsenContext(ctx, s)
	if err != nil {
		return LevelReport{}, err
	}
	return LevelReport{
		Coarsener: opts.Coarsener,
		Status:    status.String(),
		Sizes:     sizes,
	}, nil
}

// CoarseGraph coarsens g up to level (or as far as the coarsener goes) and
// returns that level as a graph: one node per surviving representative at
// its input position, with merged radius and a label counting the nodes it
// stands for. Level bound options are ignored.
func CoarseGraph(g graph.Graph, opts Options, level int) (graph.Graph, int, error) {
	s, idx, err := graph.ToStore(g, storeOptions(opts)...)
	if err != nil {
		return graph.Graph{}, 0, err
	}
	c, err := buildCoarsener(opts)
	if err != nil {
		return graph.Graph{}, 0, err
	}
	for s.Level() < level {
		if !c.BuildOneLevel(s) {
			break
		}
	}
	return graph.FromStore(s, idx), s.Level(), nil
}
