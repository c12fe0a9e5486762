package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds the length of a node identifier in input graphs.
const MaxNodeIDLength = 256

// ValidateNodeID validates a node identifier from an input graph.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of MaxNodeIDLength characters
//
// Identifiers end up in DOT output and HTML reports, so anything that would
// need escaping beyond quotes is rejected here.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidGraph, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id %q contains invalid control characters", id)
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidGraph, "node id %q has surrounding whitespace", id)
	}

	return nil
}

// ValidateWeight validates a desired edge length. Zero is accepted and means
// "use the default".
func ValidateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidGraph, "edge weight must be finite, got %v", w)
	}
	if w < 0 {
		return New(ErrCodeInvalidGraph, "edge weight cannot be negative, got %v", w)
	}
	return nil
}

// ValidateCoordinate validates a position component or radius.
func ValidateCoordinate(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidGraph, "%s must be finite, got %v", name, v)
	}
	return nil
}
