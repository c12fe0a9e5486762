// Package layout provides one-level layout modules: algorithms that compute
// positions for a single level of a multilevel graph.
//
// A [Layout] sees the level only through [multilevel.Drawing], which exposes
// the structure read-only and positions read-write. The mixer runs a layout
// on the coarsest level and, optionally, after splits during refinement.
//
// # Modules
//
//   - [Force]: weighted spring embedder, the default.
//   - [Circle]: deterministic ring placement.
//   - [Random]: uniform placement in a box, used as the initial layout.
//   - [Noop] and [Func]: for tests and caller-supplied algorithms.
//
// The scaling decorator lives in the scaling subpackage.
//
// # Measures
//
// [AverageEdgeLength], [AverageDesiredLength] and [Centroid] summarise a
// drawing; [Translate] and [Scale] move all of it at once.
//
// [multilevel.Drawing]: github.com/matzehuels/stackmixer/pkg/multilevel.Drawing
package layout
