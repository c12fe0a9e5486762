package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackmixer/pkg/graph"
)

// DefaultScale maps one layout unit to 36 points (half an inch).
const DefaultScale = 36.0

// Options configures node-link diagram rendering.
type Options struct {
	// Scale is the number of points per layout unit. Values <= 0 use DefaultScale.
	Scale float64

	// Labels draws each node's display label. When false nodes are plain dots.
	Labels bool
}

// ToDOT converts a positioned graph to Graphviz DOT with every node pinned.
// Node diameter follows the node radius, so merged (heavier) nodes of a
// coarse level drawing appear larger.
func ToDOT(g graph.Graph, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  node [shape=circle, fixedsize=true, style=filled, fillcolor=\"#4c78a8\", color=\"#2f4b7c\", fontsize=10, fontcolor=white];\n")
	buf.WriteString("  edge [color=\"#888888\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, scale, opts.Labels), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		attrs := ""
		if e.Weight > 0 {
			attrs = fmt.Sprintf(" [tooltip=%q]", strconv.FormatFloat(e.Weight, 'g', -1, 64))
		}
		fmt.Fprintf(&buf, "  %q -- %q%s;\n", e.From, e.To, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, scale float64, labels bool) []string {
	r := n.Radius
	if r <= 0 {
		r = graph.DefaultRadius
	}
	// Graphviz sizes are in inches, positions in points.
	width := 2 * r * scale / 72
	attrs := []string{
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X*scale, n.Y*scale),
		fmt.Sprintf("width=%.3f", width),
	}
	if labels {
		attrs = append(attrs, fmt.Sprintf("label=%q", n.DisplayLabel()))
	} else {
		attrs = append(attrs, `label=""`)
	}
	return attrs
}

// RenderSVG renders DOT produced by [ToDOT] to SVG with the neato engine,
// which honours pinned positions.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed-size svg tag with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
