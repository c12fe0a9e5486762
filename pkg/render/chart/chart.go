// Package chart renders coarsening reports as standalone HTML pages using
// go-echarts.
//
// The page holds two charts: node and edge counts per level as bars, and the
// shrink ratio between consecutive levels as a line. A healthy hierarchy
// shows ratios close to the coarsener's target (about 2 for edge cover).
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/stackmixer/pkg/mixer"
)

// Report is the input of [Render].
type Report struct {
	Title     string
	Coarsener string
	Status    string
	Sizes     []mixer.LevelSize
}

// Render writes the HTML page for r to w.
func Render(w io.Writer, r Report) error {
	if len(r.Sizes) == 0 {
		return fmt.Errorf("report has no levels")
	}
	title := r.Title
	if title == "" {
		title = "stackmixer levels"
	}

	page := components.NewPage()
	page.AddCharts(sizeChart(title, r), shrinkChart(r.Sizes))
	return page.Render(w)
}

func levelAxis(sizes []mixer.LevelSize) []string {
	axis := make([]string, len(sizes))
	for i, s := range sizes {
		axis[i] = fmt.Sprintf("L%d", s.Level)
	}
	return axis
}

func sizeChart(title string, r Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "420px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("coarsener %s, status %s", r.Coarsener, r.Status),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	nodes := make([]opts.BarData, len(r.Sizes))
	edges := make([]opts.BarData, len(r.Sizes))
	for i, s := range r.Sizes {
		nodes[i] = opts.BarData{Value: s.Nodes}
		edges[i] = opts.BarData{Value: s.Edges}
	}
	bar.SetXAxis(levelAxis(r.Sizes)).
		AddSeries("nodes", nodes).
		AddSeries("edges", edges)
	return bar
}

// shrinkChart plots nodes(level-1) / nodes(level); the first level has none.
func shrinkChart(sizes []mixer.LevelSize) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "900px",
			Height: "320px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "shrink ratio"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	var data []opts.LineData
	for i := 1; i < len(sizes); i++ {
		ratio := 0.0
		if sizes[i].Nodes > 0 {
			ratio = float64(sizes[i-1].Nodes) / float64(sizes[i].Nodes)
		}
		data = append(data, opts.LineData{Value: fmt.Sprintf("%.2f", ratio)})
	}
	axis := []string{}
	if len(sizes) > 1 {
		axis = levelAxis(sizes[1:])
	}
	line.SetXAxis(axis).AddSeries("nodes ratio", data)
	return line
}
