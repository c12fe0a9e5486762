package multilevel

// Drawing is the view of a level handed to layout modules. It exposes the
// structure read-only; positions are the only thing a layout may change.
type Drawing interface {
	NodeIDs() []NodeID
	EdgeIDs() []EdgeID
	NodeCount() int
	EdgeCount() int
	Edge(id EdgeID) (Edge, bool)
	Neighbors(id NodeID) []NodeID
	Degree(id NodeID) int
	Position(id NodeID) Point
	SetPosition(id NodeID, p Point)
	Radius(id NodeID) float64
	MergeWeight(id NodeID) int
}

// Ensure Graph implements Drawing.
var _ Drawing = (*Graph)(nil)
