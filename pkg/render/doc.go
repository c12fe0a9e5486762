// Package render groups the output formats for computed layouts.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage turns a positioned graph into Graphviz DOT with
// every node pinned at its computed position, and renders it to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Level Reports
//
// The [chart] subpackage renders the size of every coarsening level as an
// HTML page:
//
//	err := chart.Render(w, chart.Report{Coarsener: "edge-cover", Sizes: sizes})
//
// [nodelink]: github.com/matzehuels/stackmixer/pkg/render/nodelink
// [chart]: github.com/matzehuels/stackmixer/pkg/render/chart
package render
