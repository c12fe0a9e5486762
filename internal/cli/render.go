package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmixer/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file, or base path for several formats
	formats    string // comma-separated formats
	positioned bool   // input already carries positions; skip the layout
	level      int    // draw this coarse level instead of the input graph
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command for generating drawings.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ro    renderOpts
		flags pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Lay out a graph and write it as JSON, DOT or SVG",
		Long: `Lay out a graph and write it as JSON, DOT or SVG.

Without --positioned the graph is laid out first, exactly like 'layout'. With
--level N the drawing shows coarse level N instead: one node per surviving
representative, at its final position, sized by the nodes it absorbed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.effectiveOptions(cmd, flags)
			if f := parseFormats(ro.formats); len(f) > 0 {
				opts.Formats = f
			}
			if len(opts.Formats) == 0 {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			opts.Refresh = ro.refresh
			return c.runRender(cmd.Context(), args[0], opts, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file or base path (default: <input>.<format>)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output formats, comma-separated: json, dot, svg (default svg)")
	cmd.Flags().BoolVar(&ro.positioned, "positioned", false, "input is a layout; render it without laying out again")
	cmd.Flags().IntVar(&ro.level, "level", 0, "draw coarse level N of the hierarchy")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&ro.refresh, "refresh", false, "recompute and overwrite cached results")
	bindLayoutFlags(cmd, &flags)
	bindRenderFlags(cmd, &flags)

	return cmd
}

// runRender lays out (unless positioned), optionally coarsens to a level,
// renders every format and writes the files.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, ro renderOpts) error {
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if ro.level < 0 {
		return fmt.Errorf("level must be non-negative, got %d", ro.level)
	}

	g, err := readGraph(ctx, input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	levels := -1
	cached := false
	if !ro.positioned {
		spinner := newSpinner(ctx, fmt.Sprintf("Laying out %d nodes...", len(g.Nodes)))
		spinner.Start()
		result, hit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return fmt.Errorf("compute layout: %w", err)
		}
		spinner.Stop()
		g, levels, cached = result.Graph, result.Summary.Levels, hit
	}

	if ro.level > 0 {
		lo := opts
		if err := lo.ValidateAndSetDefaults(); err != nil {
			return err
		}
		coarse, reached, err := pipeline.CoarseGraph(g, lo, ro.level)
		if err != nil {
			return fmt.Errorf("coarsen to level %d: %w", ro.level, err)
		}
		if reached < ro.level {
			printWarning("hierarchy ends at level %d", reached)
		}
		c.Logger.Debug("coarse level", "level", reached, "nodes", len(coarse.Nodes))
		g = coarse
	}

	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if ro.positioned {
		cached = hit
	}

	paths := renderPaths(input, ro.output, opts.Formats)
	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
		printFile(paths[format])
	}
	printStats(len(g.Nodes), len(g.Edges), levels, cached)
	return nil
}

// renderPaths maps each format to its output file. An explicit output is used
// verbatim for a single format and as a base path otherwise.
func renderPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := outputPath(input, "")
	if output != "" {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}
	for _, f := range formats {
		ext := f
		if f == pipeline.FormatJSON {
			ext = "layout.json"
		}
		paths[f] = base + "." + ext
	}
	return paths
}
