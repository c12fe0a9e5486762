// Package pipeline provides the read → layout → render pipeline shared by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: copy the input graph into a multilevel store, run the mixer
//     and write the positions back ([ComputeLayout]).
//  2. Render: produce output artifacts (JSON, DOT, SVG) from the positioned
//     graph ([Render]).
//
// [ComputeLevels] runs only the coarsening half of a layout and reports the
// size of every level.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Coarsener: "independent-set", Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Options can be loaded from a TOML file with [LoadConfig]; command-line
// flags are applied on top of the loaded values.
package pipeline

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackmixer/pkg/cache"
	"github.com/matzehuels/stackmixer/pkg/coarsen"
	"github.com/matzehuels/stackmixer/pkg/errors"
	"github.com/matzehuels/stackmixer/pkg/layout"
	"github.com/matzehuels/stackmixer/pkg/layout/scaling"
	"github.com/matzehuels/stackmixer/pkg/mixer"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultCoarsener is the default coarsening strategy.
	DefaultCoarsener = coarsen.NameEdgeCover

	// DefaultLayout runs on the coarsest level and as the post layout.
	DefaultLayout = layout.NameForce

	// DefaultPlacer positions split nodes.
	DefaultPlacer = mixer.PlacerBarycenter

	// DefaultPostMode runs the post layout once per refined level.
	DefaultPostMode = "every-level"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. The struct is the
// JSON request body of the HTTP API and the schema of the TOML config file.
// Zero values select defaults.
type Options struct {
	// Coarsening
	Coarsener    string  `json:"coarsener,omitempty" toml:"coarsener"`
	MinNodes     int     `json:"min_nodes,omitempty" toml:"min_nodes"`
	Factor       float64 `json:"factor,omitempty" toml:"factor"`         // edge-cover shrink factor
	Base         int     `json:"base,omitempty" toml:"base"`             // independent-set radius base
	MaxLevels    int     `json:"max_levels,omitempty" toml:"max_levels"` // 0 = unbounded
	OnLevelBound string  `json:"on_level_bound,omitempty" toml:"on_level_bound"`
	NoFold       bool    `json:"no_fold,omitempty" toml:"no_fold"` // keep duplicate edge weights apart

	// Layout
	Layout         string  `json:"layout,omitempty" toml:"layout"`
	FinalLayout    string  `json:"final_layout,omitempty" toml:"final_layout"`
	Placer         string  `json:"placer,omitempty" toml:"placer"`
	Jitter         float64 `json:"jitter,omitempty" toml:"jitter"`
	PostLayout     string  `json:"post_layout,omitempty" toml:"post_layout"`
	PostMode       string  `json:"post_mode,omitempty" toml:"post_mode"`
	PostN          int     `json:"post_n,omitempty" toml:"post_n"`
	PostTimeFactor float64 `json:"post_time_factor,omitempty" toml:"post_time_factor"`
	Randomize      bool    `json:"randomize,omitempty" toml:"randomize"`
	Width          float64 `json:"width,omitempty" toml:"width"`
	Height         float64 `json:"height,omitempty" toml:"height"`
	Seed           uint64  `json:"seed,omitempty" toml:"seed"`
	Verify         bool    `json:"verify,omitempty" toml:"verify"`

	// Scaling wraps the post layout; empty disables it.
	Scaling       string  `json:"scaling,omitempty" toml:"scaling"`
	MinScale      float64 `json:"min_scale,omitempty" toml:"min_scale"`
	MaxScale      float64 `json:"max_scale,omitempty" toml:"max_scale"`
	ExtraSteps    int     `json:"extra_steps,omitempty" toml:"extra_steps"`
	DesiredLength float64 `json:"desired_length,omitempty" toml:"desired_length"`

	// Render
	Formats []string `json:"formats,omitempty" toml:"formats"`
	Labels  bool     `json:"labels,omitempty" toml:"labels"`
	Scale   float64  `json:"scale,omitempty" toml:"scale"` // points per layout unit

	// Runtime options (not serialized)
	Refresh bool        `json:"refresh,omitempty" toml:"-"`
	Logger  *log.Logger `json:"-" toml:"-"`
}

// SetDefaults fills in every unset option.
func (o *Options) SetDefaults() {
	if o.Coarsener == "" {
		o.Coarsener = DefaultCoarsener
	}
	if o.MinNodes == 0 {
		o.MinNodes = coarsen.DefaultMinNodes
	}
	if o.Factor == 0 {
		o.Factor = coarsen.DefaultShrinkFactor
	}
	if o.Base == 0 {
		o.Base = coarsen.DefaultBase
	}
	if o.OnLevelBound == "" {
		o.OnLevelBound = mixer.BoundStop.String()
	}
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	if o.Placer == "" {
		o.Placer = DefaultPlacer
	}
	if o.Jitter == 0 {
		o.Jitter = mixer.DefaultJitter
	}
	if o.PostMode == "" {
		o.PostMode = DefaultPostMode
	}
	if o.PostLayout == "" && o.PostMode != mixer.PostNone.String() {
		o.PostLayout = DefaultLayout
	}
	if o.PostMode == mixer.PostEveryN.String() && o.PostN == 0 {
		o.PostN = 1
	}
	if o.Scaling != "" {
		if o.MinScale == 0 {
			o.MinScale = 1
		}
		if o.MaxScale == 0 {
			o.MaxScale = 1
		}
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks every option. It parses the module names, so a nil error
// means [BuildMixer] cannot fail on configuration.
func (o *Options) Validate() error {
	invalid := func(err error) error {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid options")
	}
	if _, err := coarsen.ByName(o.Coarsener, 0); err != nil {
		return invalid(err)
	}
	for _, name := range []string{o.Layout, o.FinalLayout, o.PostLayout} {
		if name == "" {
			continue
		}
		if _, err := layout.ByName(name, 0); err != nil {
			return invalid(err)
		}
	}
	if _, err := mixer.PlacerByName(o.Placer, 0); err != nil {
		return invalid(err)
	}
	if _, err := mixer.ParsePostMode(o.PostMode); err != nil {
		return invalid(err)
	}
	if _, err := mixer.ParseLevelBoundPolicy(o.OnLevelBound); err != nil {
		return invalid(err)
	}
	if o.Scaling != "" {
		if _, err := scaling.ParsePolicy(o.Scaling); err != nil {
			return invalid(err)
		}
		if o.MinScale < 0 || o.MaxScale < 0 || o.ExtraSteps < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "scaling bounds and steps cannot be negative")
		}
	}
	if o.MinNodes < 0 || o.Factor < 0 || o.Base < 0 || o.Jitter < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "coarsening parameters cannot be negative")
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render scale cannot be negative, got %v", o.Scale)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid options")
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: %s, %s, %s)", format, FormatJSON, FormatDOT, FormatSVG)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Cache Keys
// =============================================================================

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Coarsener:      o.Coarsener,
		MinNodes:       o.MinNodes,
		Factor:         o.Factor,
		Base:           o.Base,
		Layout:         o.Layout,
		FinalLayout:    o.FinalLayout,
		Placer:         o.Placer,
		Jitter:         o.Jitter,
		PostLayout:     o.PostLayout,
		PostMode:       o.PostMode,
		PostN:          o.PostN,
		PostTimeFactor: o.PostTimeFactor,
		Scaling:        o.Scaling,
		MinScale:       o.MinScale,
		MaxScale:       o.MaxScale,
		ExtraSteps:     o.ExtraSteps,
		DesiredLength:  o.DesiredLength,
		MaxLevels:      o.MaxLevels,
		OnLevelBound:   o.OnLevelBound,
		Randomize:      o.Randomize,
		Width:          o.Width,
		Height:         o.Height,
		Seed:           o.Seed,
		FoldWeights:    !o.NoFold,
	}
}

// LevelsKeyOpts returns cache key options for level reports.
func (o *Options) LevelsKeyOpts() cache.LevelsKeyOpts {
	return cache.LevelsKeyOpts{
		Coarsener:    o.Coarsener,
		MinNodes:     o.MinNodes,
		Factor:       o.Factor,
		Base:         o.Base,
		MaxLevels:    o.MaxLevels,
		OnLevelBound: o.OnLevelBound,
		Seed:         o.Seed,
		FoldWeights:  !o.NoFold,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Labels: o.Labels, Scale: o.Scale}
}

// sortedFormats returns the formats without duplicates, in a stable order.
func sortedFormats(formats []string) []string {
	out := slices.Clone(formats)
	slices.Sort(out)
	return slices.Compact(out)
}
