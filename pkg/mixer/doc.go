// Package mixer implements the modular multilevel mixer, the driver that
// turns a one-level layout algorithm into a multilevel one.
//
// # Phases
//
// [Mixer.Call] runs three phases on a [multilevel.Graph]:
//
//  1. Coarsening: the configured coarsen.Coarsener builds levels until it
//     returns false or the graph is down to a single node.
//  2. Base layout: the coarsest level is optionally randomized and then laid
//     out by FinalLayout, or Layout when no final layout is set.
//  3. Refinement: every merge record is undone in reverse order. The
//     [InitialPlacer] positions each split node; the post layout runs after
//     every split, every N splits, after every level, or after every split
//     until a time budget is spent.
//
// # Recoverable Conditions
//
// Bounds never fail a run. When coarsening exceeds MaxLevels the result
// carries [StatusLevelBoundExceeded]; with [BoundStop] the extra level is
// undone first so the layout uses exactly MaxLevels levels. A coarsener
// that claims progress without merging yields [StatusCoarseningAborted].
// Errors are reserved for the graph store rejecting an operation, which
// means a coarsener or layout broke the store's contract.
//
// # Placement
//
// Placers see the record that was just undone. Its hint names the node the
// mergee was merged into and the distance it had from it: the contracted
// edge's weight, or the sum of both radii.
//
// # Scaling
//
// *Mixer implements the scaling decorator's Sizer: [Mixer.LevelRatio] is the
// growth factor of the level currently being refined.
//
// [multilevel.Graph]: github.com/matzehuels/stackmixer/pkg/multilevel.Graph
package mixer
