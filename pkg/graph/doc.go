// Package graph provides the serialization format for input graphs and
// computed drawings.
//
// This package defines the canonical wire format for stackmixer's graph data,
// used for JSON files, API requests and responses, and caching.
//
// # Architecture
//
// The package sits at the serialization boundary between the outside world
// and the multilevel store:
//
//   - [Graph], [Node], [Edge]: Serialization types (this package)
//   - pkg/multilevel.Graph: Internal store with integer handles
//
// Use [ToStore] to build a store (it returns an [Index] from identifiers to
// handles), [WithPositions] to copy computed positions back, and
// [FromStore] to snapshot a coarsened level.
//
// # Format
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a", "radius": 0.5}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b", "weight": 2}]
//	}
//
// Edges are undirected. Weight is the desired edge length and defaults to 1.
// Nodes may carry x/y positions, which the mixer keeps as the starting
// drawing unless it randomizes.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("in.json")     // File → Graph (validated)
//	s, idx, _ := graph.ToStore(g)               // Graph → store
//	out := graph.WithPositions(g, s, idx)       // store positions → Graph
//	graph.WriteGraphFile(out, "out.json")       // Graph → File
//
// # Validation
//
// Reading always validates: identifiers must be non-empty and free of control
// characters, numbers finite, radii and weights non-negative, edges must
// reference declared nodes and must not be loops. Failures carry
// errors.ErrCodeInvalidGraph; undecodable input carries
// errors.ErrCodeInvalidFormat.
package graph
