package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmixer/pkg/pipeline"
)

// optionFlag copies one option from the flag-bound struct into the effective
// options when its flag was set on the command line.
type optionFlag struct {
	name string
	copy func(dst, src *pipeline.Options)
}

// optionFlags lists every pipeline option with a command-line flag.
var optionFlags = []optionFlag{
	{"coarsener", func(d, s *pipeline.Options) { d.Coarsener = s.Coarsener }},
	{"min-nodes", func(d, s *pipeline.Options) { d.MinNodes = s.MinNodes }},
	{"factor", func(d, s *pipeline.Options) { d.Factor = s.Factor }},
	{"base", func(d, s *pipeline.Options) { d.Base = s.Base }},
	{"max-levels", func(d, s *pipeline.Options) { d.MaxLevels = s.MaxLevels }},
	{"on-level-bound", func(d, s *pipeline.Options) { d.OnLevelBound = s.OnLevelBound }},
	{"no-fold", func(d, s *pipeline.Options) { d.NoFold = s.NoFold }},
	{"layout", func(d, s *pipeline.Options) { d.Layout = s.Layout }},
	{"final-layout", func(d, s *pipeline.Options) { d.FinalLayout = s.FinalLayout }},
	{"placer", func(d, s *pipeline.Options) { d.Placer = s.Placer }},
	{"jitter", func(d, s *pipeline.Options) { d.Jitter = s.Jitter }},
	{"post-layout", func(d, s *pipeline.Options) { d.PostLayout = s.PostLayout }},
	{"post-mode", func(d, s *pipeline.Options) { d.PostMode = s.PostMode }},
	{"post-n", func(d, s *pipeline.Options) { d.PostN = s.PostN }},
	{"post-time-factor", func(d, s *pipeline.Options) { d.PostTimeFactor = s.PostTimeFactor }},
	{"randomize", func(d, s *pipeline.Options) { d.Randomize = s.Randomize }},
	{"width", func(d, s *pipeline.Options) { d.Width = s.Width }},
	{"height", func(d, s *pipeline.Options) { d.Height = s.Height }},
	{"seed", func(d, s *pipeline.Options) { d.Seed = s.Seed }},
	{"verify", func(d, s *pipeline.Options) { d.Verify = s.Verify }},
	{"scaling", func(d, s *pipeline.Options) { d.Scaling = s.Scaling }},
	{"min-scale", func(d, s *pipeline.Options) { d.MinScale = s.MinScale }},
	{"max-scale", func(d, s *pipeline.Options) { d.MaxScale = s.MaxScale }},
	{"extra-steps", func(d, s *pipeline.Options) { d.ExtraSteps = s.ExtraSteps }},
	{"desired-length", func(d, s *pipeline.Options) { d.DesiredLength = s.DesiredLength }},
	{"labels", func(d, s *pipeline.Options) { d.Labels = s.Labels }},
	{"scale", func(d, s *pipeline.Options) { d.Scale = s.Scale }},
}

// bindCoarsenFlags registers the coarsening options on cmd.
func bindCoarsenFlags(cmd *cobra.Command, o *pipeline.Options) {
	f := cmd.Flags()
	f.StringVar(&o.Coarsener, "coarsener", "", "coarsening strategy: edge-cover (default), independent-set")
	f.IntVar(&o.MinNodes, "min-nodes", 0, "stop coarsening below this many nodes (default 3)")
	f.Float64Var(&o.Factor, "factor", 0, "edge-cover shrink factor per level (default 2)")
	f.IntVar(&o.Base, "base", 0, "independent-set exclusion radius base (default 2)")
	f.IntVar(&o.MaxLevels, "max-levels", 0, "maximum number of coarse levels, 0 for unbounded")
	f.StringVar(&o.OnLevelBound, "on-level-bound", "", "policy when max-levels is exceeded: stop (default), continue")
	f.BoolVar(&o.NoFold, "no-fold", false, "keep weights of duplicate edges apart when merging")
	f.Uint64Var(&o.Seed, "seed", 0, "random seed (default 42)")
}

// bindLayoutFlags registers the coarsening and layout options on cmd.
func bindLayoutFlags(cmd *cobra.Command, o *pipeline.Options) {
	bindCoarsenFlags(cmd, o)
	f := cmd.Flags()
	f.StringVar(&o.Layout, "layout", "", "layout for the coarsest level: force (default), circle, random, noop")
	f.StringVar(&o.FinalLayout, "final-layout", "", "layout run once on the input level")
	f.StringVar(&o.Placer, "placer", "", "initial placer: barycenter (default), parent, zero")
	f.Float64Var(&o.Jitter, "jitter", 0, "placer jitter as a fraction of the hint distance (default 0.1)")
	f.StringVar(&o.PostLayout, "post-layout", "", "layout run while refining (default force)")
	f.StringVar(&o.PostMode, "post-mode", "", "when to run the post layout: every-level (default), every-split, every-n, time-factor, none")
	f.IntVar(&o.PostN, "post-n", 0, "splits between post layout calls for every-n")
	f.Float64Var(&o.PostTimeFactor, "post-time-factor", 0, "post layout budget as a multiple of the base layout time")
	f.BoolVar(&o.Randomize, "randomize", false, "randomize the coarsest level before the base layout")
	f.Float64Var(&o.Width, "width", 0, "frame width for random layouts")
	f.Float64Var(&o.Height, "height", 0, "frame height for random layouts")
	f.BoolVar(&o.Verify, "verify", false, "check the merge history after every level")
	f.StringVar(&o.Scaling, "scaling", "", "scale the drawing around post layouts: drawing, avg-length, desired-length, absolute")
	f.Float64Var(&o.MinScale, "min-scale", 0, "lower scaling bound")
	f.Float64Var(&o.MaxScale, "max-scale", 0, "upper scaling bound")
	f.IntVar(&o.ExtraSteps, "extra-steps", 0, "extra scaling steps beyond the bounds")
	f.Float64Var(&o.DesiredLength, "desired-length", 0, "target edge length for desired-length scaling")
}

// bindRenderFlags registers the render options on cmd.
func bindRenderFlags(cmd *cobra.Command, o *pipeline.Options) {
	f := cmd.Flags()
	f.BoolVar(&o.Labels, "labels", false, "draw node labels")
	f.Float64Var(&o.Scale, "scale", 0, "points per layout unit (default 36)")
}

// effectiveOptions layers the flags the user set over the config file options.
func (c *CLI) effectiveOptions(cmd *cobra.Command, flags pipeline.Options) pipeline.Options {
	opts := c.Config
	fs := cmd.Flags()
	for _, of := range optionFlags {
		if fl := fs.Lookup(of.name); fl != nil && fl.Changed {
			of.copy(&opts, &flags)
		}
	}
	opts.Logger = c.Logger
	return opts
}
