// Package nodelink renders positioned graphs as node-link diagrams.
//
// # Overview
//
// Unlike a layered diagram, the positions here come from the multilevel
// layout and must not move. [ToDOT] pins every node with a `pos="x,y!"`
// attribute and [RenderSVG] runs Graphviz's neato engine, which keeps pinned
// nodes where they are and only routes the edges.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Scale: points per layout unit (default [DefaultScale])
//   - Labels: draw node labels inside the circles
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
