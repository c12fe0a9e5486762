package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/stackmixer/pkg/graph"
	"github.com/matzehuels/stackmixer/pkg/mixer"
)

// =============================================================================
// Layout Generation
// =============================================================================

// LayoutResult is a positioned graph plus a summary of the run that
// produced it. It is the cached unit of the layout stage.
type LayoutResult struct {
	Graph   graph.Graph `json:"graph"`
	Summary Summary     `json:"summary"`
}

// Summary is the serializable form of a mixer result.
type Summary struct {
	Status        string            `json:"status"`
	Levels        int               `json:"levels"`
	CoarsestNodes int               `json:"coarsest_nodes"`
	Splits        int               `json:"splits"`
	PostCalls     int               `json:"post_calls"`
	Duration      time.Duration     `json:"duration_ns"`
	Sizes         []mixer.LevelSize `json:"sizes"`
}

func summarize(res mixer.Result) Summary {
	return Summary{
		Status:        res.Status.String(),
		Levels:        res.Levels,
		CoarsestNodes: res.CoarsestNodes,
		Splits:        res.Splits,
		PostCalls:     res.PostCalls,
		Duration:      res.Duration,
		Sizes:         res.Sizes,
	}
}

// ComputeLayout runs the multilevel mixer on g and returns g with every node
// positioned. Node and edge order are preserved. opts must have defaults
// applied. Once ctx is done the run stops at its next level or split.
func ComputeLayout(ctx context.Context, g graph.Graph, opts Options) (LayoutResult, error) {
	s, idx, err := graph.ToStore(g, storeOptions(opts)...)
	if err != nil {
		return LayoutResult{}, err
	}
	m, err := BuildMixer(opts)
	if err != nil {
		return LayoutResult{}, err
	}
	res, err := m.CallContext(ctx, s)
	if err != nil {
		return LayoutResult{}, err
	}
	if res.Status != mixer.StatusOK {
		opts.Logger.Warn("layout finished with status", "status", res.Status)
	}
	return LayoutResult{
		Graph:   graph.WithPositions(g, s, idx),
		Summary: summarize(res),
	}, nil
}
