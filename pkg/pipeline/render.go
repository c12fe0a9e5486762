package pipeline

import (
	"fmt"

	"github.com/matzehuels/stackmixer/pkg/graph"
	"github.com/matzehuels/stackmixer/pkg/render/nodelink"
)

// Render generates output artifacts for a positioned graph in every format
// of opts.Formats.
func Render(g graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	nl := nodelink.Options{Scale: opts.Scale, Labels: opts.Labels}

	for _, format := range sortedFormats(opts.Formats) {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalGraph(g)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(g, nl))
		case FormatSVG:
			data, err = nodelink.RenderSVG(nodelink.ToDOT(g, nl))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
