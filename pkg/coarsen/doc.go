// Package coarsen implements the strategies that build coarser levels of a
// [multilevel.Graph].
//
// # Strategies
//
// [EdgeCover] contracts a random edge cover, roughly halving the node count
// per level. It is cheap and adapts to whatever the graph looks like at the
// time of the call.
//
// [IndependentSet] precomputes a hierarchy of nested independent sets with
// exponentially growing exclusion radius, then applies one hierarchy level
// per call. Its levels shrink faster on sparse graphs with long paths.
//
// Both merge the lower-degree endpoint into the higher-degree one, so hubs
// keep their identity for as long as possible.
//
// # Size Floor
//
// A call on a graph with fewer than MinNodes live nodes, or without any live
// edges, does nothing and returns false. The floor defaults to
// [DefaultMinNodes]; callers that want to collapse tiny graphs lower it to 2.
//
// With a floor above 2, no level leaves fewer than two live nodes, so a
// triangle never coarsens past a single edge. With a floor of 2 or less a
// level may end at a single node, as when a lone edge is contracted.
//
// # Determinism
//
// Every coarsener draws from its own *rand.Rand. Two coarseners created with
// the same seed produce identical levels on identical graphs.
//
// [multilevel.Graph]: github.com/matzehuels/stackmixer/pkg/multilevel.Graph
package coarsen
