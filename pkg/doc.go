// Package pkg provides the core libraries for Stackmixer multilevel graph layout.
//
// # Overview
//
// Stackmixer draws large undirected graphs by coarsening them into a
// hierarchy of ever smaller graphs, laying out the smallest one and then
// undoing the coarsening step by step, placing each restored node near the
// node it was merged into. The pkg directory is organized into four areas:
//
//  1. [multilevel] and [coarsen] - The graph store and its merge hierarchy
//  2. [layout] and [mixer] - Layouts and the multilevel driver
//  3. [graph], [render] - Serialization and output formats
//  4. [pipeline], [cache], [server] - Orchestration, caching and the HTTP API
//
// # Architecture
//
// The typical data flow through Stackmixer:
//
//	graph.json
//	     ↓
//	[graph] package (validate, convert to a store)
//	     ↓
//	[mixer] package (coarsen → base layout → split + place + post layout)
//	     ↓
//	[render] package (JSON, DOT, SVG, level charts)
//
// # Quick Start
//
// Lay out a store directly:
//
//	g := multilevel.New()
//	a, _ := g.AddNode(multilevel.Node{Radius: 1})
//	b, _ := g.AddNode(multilevel.Node{Radius: 1})
//	g.AddEdge(a, b, 1)
//
//	m, _ := mixer.New(mixer.Options{Seed: 42})
//	res, _ := m.Call(g)
//	fmt.Println(res.Status, g.Position(a))
//
// Or run the full pipeline on a serialized graph:
//
//	opts := pipeline.Options{Coarsener: "independent-set"}
//	opts.SetDefaults()
//	result, _ := pipeline.ComputeLayout(ctx, g, opts)
//
// # Main Packages
//
// ## Graph Store
//
// [multilevel] - Mutable undirected graph with stable node and edge handles,
// positions, radii and masses. Merges are recorded as lossless deltas on a
// history stack, so every coarse level can be undone exactly.
//
// [coarsen] - Coarsening strategies. EdgeCover contracts a random edge cover
// until the node count shrinks by a factor; IndependentSet precomputes a
// hierarchy of nested independent sets with growing exclusion radii.
//
// ## Layout
//
// [layout] - The Layout interface, force-directed, circle and random layouts,
// and drawing metrics (average edge length, bounding box).
//
// [layout/scaling] - Decorator that rescales the drawing before and after a
// wrapped layout runs.
//
// [mixer] - The multilevel driver: coarsening with level bounds, base layout,
// refinement with initial placers and post layout triggers.
//
// ## Serialization and Output
//
// [graph] - JSON node-link format for input graphs and drawings, and the
// conversion to and from the store.
//
// [render/nodelink] - Graphviz DOT with pinned positions, and SVG via Graphviz.
//
// [render/chart] - HTML charts of coarsening level sizes.
//
// ## Infrastructure
//
// [pipeline] - Options, module construction and the cached Runner used by the
// CLI and the HTTP server. Ensures consistent behavior across entry points.
//
// [cache] - Cache backends: file (CLI), Redis (shared server cache) and null,
// plus content-addressed key derivation.
//
// [server] - HTTP API for layouts, level reports and rendered artifacts.
//
// [observability] - Hook registry for metrics and tracing integrations.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/multilevel/...         # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [multilevel]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/multilevel
// [coarsen]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/coarsen
// [layout]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/layout
// [layout/scaling]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/layout/scaling
// [mixer]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/mixer
// [graph]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/render/nodelink
// [render/chart]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/render/chart
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackmixer/pkg/errors
package pkg
