package compensate

import (
	"github.com/czarop/flowcyto/fcs"
	"github.com/czarop/flowcyto/numeric"
	"gonum.org/v1/gonum/mat"
)

// denseFrom converts a fcs.SpilloverMatrix's row-major floats into a
// *mat.Dense for use with the numeric package's solvers.
func denseFrom(sm *fcs.SpilloverMatrix) *mat.Dense {
	n := len(sm.Names)
	return mat.NewDense(n, n, append([]float64(nil), sm.Values...))
}

// IsIdentity reports whether a spillover matrix is within tolerance of the
// identity matrix, in which case compensation is a no-op (§4.C Identity
// detection).
func IsIdentity(sm *fcs.SpilloverMatrix) bool {
	if sm == nil {
		return true
	}
	return numeric.IsApproxIdentity(denseFrom(sm), identityTolerance)
}
