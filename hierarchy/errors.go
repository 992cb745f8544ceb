package hierarchy

import "errors"

// Sentinel errors for hierarchy operations.
var (
	// ErrGateNotFound indicates an operation referenced an id not present
	// in the hierarchy.
	ErrGateNotFound = errors.New("hierarchy: gate not found")

	// ErrDuplicateGateId indicates AddNode was called with an id already
	// present in the hierarchy.
	ErrDuplicateGateId = errors.New("hierarchy: duplicate gate id")

	// ErrCycleDetected indicates TopologicalSort found a cycle. Mutations
	// reject cycles up front (AddChild/Reparent return false instead), so
	// this should only ever surface if the hierarchy was built by means
	// other than this package's own mutators.
	ErrCycleDetected = errors.New("hierarchy: cycle detected")
)
