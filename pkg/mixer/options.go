package mixer

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackmixer/pkg/coarsen"
	"github.com/matzehuels/stackmixer/pkg/errors"
	"github.com/matzehuels/stackmixer/pkg/layout"
)

// PostMode selects when the post layout runs during refinement.
type PostMode int

const (
	PostNone       PostMode = iota // never
	PostEveryLevel                 // after each level is fully refined
	PostEverySplit                 // after every split
	PostEveryN                     // after every N-th split
	PostTimeFactor                 // after every split until the time budget is spent
)

var postModeNames = []string{"none", "every-level", "every-split", "every-n", "time-factor"}

// String returns the configuration name of m.
func (m PostMode) String() string {
	if m >= 0 && int(m) < len(postModeNames) {
		return postModeNames[m]
	}
	return fmt.Sprintf("PostMode(%d)", int(m))
}

// ParsePostMode parses a configuration name. An empty string selects PostNone.
func ParsePostMode(s string) (PostMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PostNone, nil
	}
	for i, name := range postModeNames {
		if name == s {
			return PostMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown post mode %q (must be one of: %s)", s, strings.Join(postModeNames, ", "))
}

// PostTrigger configures the post layout.
type PostTrigger struct {
	Mode PostMode

	// N is the split interval for PostEveryN.
	N int

	// TimeFactor bounds the total post layout time for PostTimeFactor to
	// TimeFactor times the duration of the base layout.
	TimeFactor float64
}

// LevelBoundPolicy selects what happens when coarsening exceeds MaxLevels.
type LevelBoundPolicy int

const (
	// BoundStop undoes the level that exceeded the bound and stops coarsening.
	BoundStop LevelBoundPolicy = iota
	// BoundContinue only reports the condition and keeps coarsening.
	BoundContinue
)

// String returns the configuration name of p.
func (p LevelBoundPolicy) String() string {
	switch p {
	case BoundStop:
		return "stop"
	case BoundContinue:
		return "continue"
	default:
		return fmt.Sprintf("LevelBoundPolicy(%d)", int(p))
	}
}

// ParseLevelBoundPolicy parses "stop" (the default) or "continue".
func ParseLevelBoundPolicy(s string) (LevelBoundPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stop", "abort":
		return BoundStop, nil
	case "continue":
		return BoundContinue, nil
	default:
		return 0, fmt.Errorf("unknown level bound policy %q (must be one of: stop, continue)", s)
	}
}

// Options configures a [Mixer]. Nil modules are filled in by SetDefaults.
type Options struct {
	// Coarsener builds the levels (default: edge cover).
	Coarsener coarsen.Coarsener

	// Layout runs on the coarsest level (default: force).
	Layout layout.Layout

	// FinalLayout, when set, replaces Layout on the coarsest level.
	FinalLayout layout.Layout

	// Placer positions split nodes (default: barycenter).
	Placer InitialPlacer

	// PostLayout runs during refinement as selected by Post.
	PostLayout layout.Layout
	Post       PostTrigger

	// MaxLevels bounds the number of levels; 0 means unbounded.
	MaxLevels    int
	OnLevelBound LevelBoundPolicy

	// Randomize replaces the coarsest positions with a random layout in a
	// Width x Height box before the base layout runs.
	Randomize bool
	Width     float64
	Height    float64

	// Seed feeds the default modules and the random initial layout.
	Seed uint64

	// Verify runs the full store check after each level. The merge record
	// count is checked after every merge and split regardless.
	Verify bool

	Logger *log.Logger
}

// SetDefaults fills in nil modules and the logger.
func (o *Options) SetDefaults() {
	if o.Coarsener == nil {
		o.Coarsener = coarsen.NewEdgeCover(o.Seed)
	}
	if o.Layout == nil {
		o.Layout = layout.NewForce(o.Seed)
	}
	if o.Placer == nil {
		o.Placer = NewBarycenterPlacer(o.Seed)
	}
	if o.Post.Mode == PostEveryN && o.Post.N == 0 {
		o.Post.N = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks option consistency.
func (o *Options) Validate() error {
	if o.MaxLevels < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max levels cannot be negative, got %d", o.MaxLevels)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "random layout size cannot be negative, got %vx%v", o.Width, o.Height)
	}
	if o.OnLevelBound != BoundStop && o.OnLevelBound != BoundContinue {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid level bound policy %v", o.OnLevelBound)
	}
	switch o.Post.Mode {
	case PostNone:
		return nil
	case PostEveryLevel, PostEverySplit:
	case PostEveryN:
		if o.Post.N < 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "post interval must be at least 1, got %d", o.Post.N)
		}
	case PostTimeFactor:
		if o.Post.TimeFactor <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "post time factor must be positive, got %v", o.Post.TimeFactor)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid post mode %v", o.Post.Mode)
	}
	if o.PostLayout == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "post mode %s requires a post layout", o.Post.Mode)
	}
	return nil
}
