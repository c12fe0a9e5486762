package pipeline

import (
	"github.com/matzehuels/stackmixer/pkg/coarsen"
	"github.com/matzehuels/stackmixer/pkg/errors"
	"github.com/matzehuels/stackmixer/pkg/layout"
	"github.com/matzehuels/stackmixer/pkg/layout/scaling"
	"github.com/matzehuels/stackmixer/pkg/mixer"
	"github.com/matzehuels/stackmixer/pkg/multilevel"
)

// =============================================================================
// Module Construction
// =============================================================================

// Every randomized module gets its own stream derived from the seed.
const (
	seedCoarsener = iota
	seedLayout
	seedFinal
	seedPlacer
	seedPost
)

// BuildMixer assembles a mixer from named modules. opts must have defaults
// applied. When a scaling policy is set, the post layout is wrapped in a
// scaling decorator whose Absolute policy reads the mixer's level ratio.
func BuildMixer(opts Options) (*mixer.Mixer, error) {
	c, err := buildCoarsener(opts)
	if err != nil {
		return nil, err
	}
	base, err := buildLayout(opts.Layout, opts.Seed+seedLayout)
	if err != nil {
		return nil, err
	}
	var final layout.Layout
	if opts.FinalLayout != "" {
		if final, err = buildLayout(opts.FinalLayout, opts.Seed+seedFinal); err != nil {
			return nil, err
		}
	}
	placer, err := mixer.PlacerByName(opts.Placer, opts.Seed+seedPlacer)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "placer")
	}
	switch p := placer.(type) {
	case *mixer.ParentPlacer:
		p.Jitter = opts.Jitter
	case *mixer.BarycenterPlacer:
		p.Jitter = opts.Jitter
	}

	mode, err := mixer.ParsePostMode(opts.PostMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "post mode")
	}
	bound, err := mixer.ParseLevelBoundPolicy(opts.OnLevelBound)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "level bound")
	}

	var post layout.Layout
	var scaler *scaling.Layout
	if opts.PostLayout != "" {
		if post, err = buildLayout(opts.PostLayout, opts.Seed+seedPost); err != nil {
			return nil, err
		}
		if opts.Scaling != "" {
			policy, err := scaling.ParsePolicy(opts.Scaling)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "scaling")
			}
			scaler = &scaling.Layout{
				Policy:        policy,
				MinScale:      opts.MinScale,
				MaxScale:      opts.MaxScale,
				ExtraSteps:    opts.ExtraSteps,
				DesiredLength: opts.DesiredLength,
				Secondary:     post,
			}
			post = scaler
		}
	}

	m, err := mixer.New(mixer.Options{
		Coarsener:    c,
		Layout:       base,
		FinalLayout:  final,
		Placer:       placer,
		PostLayout:   post,
		Post:         mixer.PostTrigger{Mode: mode, N: opts.PostN, TimeFactor: opts.PostTimeFactor},
		MaxLevels:    opts.MaxLevels,
		OnLevelBound: bound,
		Randomize:    opts.Randomize,
		Width:        opts.Width,
		Height:       opts.Height,
		Seed:         opts.Seed,
		Verify:       opts.Verify,
		Logger:       opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	if scaler != nil {
		scaler.Sizer = m
	}
	return m, nil
}

func buildCoarsener(opts Options) (coarsen.Coarsener, error) {
	c, err := coarsen.ByName(opts.Coarsener, opts.Seed+seedCoarsener)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "coarsener")
	}
	switch c := c.(type) {
	case *coarsen.EdgeCover:
		c.MinNodes, c.Factor = opts.MinNodes, opts.Factor
	case *coarsen.IndependentSet:
		c.MinNodes, c.Base = opts.MinNodes, opts.Base
	}
	return c, nil
}

func buildLayout(name string, seed uint64) (layout.Layout, error) {
	l, err := layout.ByName(name, seed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}
	return l, nil
}

// storeOptions maps pipeline options to store construction options.
func storeOptions(opts Options) []multilevel.Option {
	return []multilevel.Option{multilevel.WithFoldWeights(!opts.NoFold)}
}
