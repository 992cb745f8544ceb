package gate

import "errors"

// Sentinel errors for gate geometry and filtering.
var (
	// ErrInvalidGeometry indicates a geometry failed its construction
	// invariants (§8 Boundary behaviors: singleton polygon, degenerate
	// ellipse, etc).
	ErrInvalidGeometry = errors.New("gate: invalid geometry")

	// ErrUnknownChild indicates a Boolean gate referenced a child id with
	// no corresponding entry in the childResults map passed to Filter.
	ErrUnknownChild = errors.New("gate: unknown child gate reference")

	// ErrDimensionMismatch indicates the x/y channel columns bound to a
	// gate differ in length from the table's declared height.
	ErrDimensionMismatch = errors.New("gate: dimension mismatch")
)
