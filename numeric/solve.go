package numeric

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Solve finds x such that a·x ≈ b.
//
// For square a (rows == cols) it solves directly via mat.Dense.Solve (LU
// under the hood). For overdetermined a (rows > cols) it forms and solves
// the normal equations (aᵀa)x = aᵀb, matching the original source's
// "least squares via normal equations" approach (§4.D, §9 Numerical solve).
// Underdetermined systems (rows < cols) are rejected: this package is only
// ever asked to solve detectors×endmembers systems, which are square or
// overdetermined by construction.
//
// Complexity: O(n³) for the square path, O(n²m + n³) for the overdetermined
// path (n = cols, m = rows).
func Solve(a *mat.Dense, b []float64) ([]float64, error) {
	if a == nil {
		return nil, ErrNilMatrix
	}
	rows, cols := a.Dims()
	if len(b) != rows {
		return nil, fmt.Errorf("numeric: Solve: rhs length %d, want %d: %w", len(b), rows, ErrDimensionMismatch)
	}
	if rows < cols {
		return nil, ErrUnderdetermined
	}

	bVec := mat.NewVecDense(rows, b)
	x := mat.NewVecDense(cols, nil)

	if rows == cols {
		if err := x.SolveVec(a, bVec); err != nil {
			return nil, fmt.Errorf("numeric: Solve: %v: %w", err, ErrSingular)
		}
		return x.RawVector().Data, nil
	}

	// Overdetermined: normal equations (aᵀa)x = aᵀb.
	var ata mat.Dense
	ata.Mul(a.T(), a)
	var atb mat.VecDense
	atb.MulVec(a.T(), bVec)

	if err := x.SolveVec(&ata, &atb); err != nil {
		return nil, fmt.Errorf("numeric: Solve: %v: %w", err, ErrSingular)
	}

	out := make([]float64, cols)
	copy(out, x.RawVector().Data)
	return out, nil
}

// Invert returns the inverse of square matrix m, or ErrSingular if m is not
// invertible.
func Invert(m *mat.Dense) (*mat.Dense, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	rows, cols := m.Dims()
	if rows != cols {
		return nil, fmt.Errorf("numeric: Invert: non-square %dx%d: %w", rows, cols, ErrDimensionMismatch)
	}
	inv := mat.NewDense(rows, cols, nil)
	if err := inv.Inverse(m); err != nil {
		return nil, fmt.Errorf("numeric: Invert: %v: %w", err, ErrSingular)
	}
	return inv, nil
}

// IsApproxIdentity reports whether m is within tol of the identity matrix,
// element-wise. Used by the compensation layer to skip inverting a spillover
// matrix that is already (numerically) the identity.
func IsApproxIdentity(m *mat.Dense, tol float64) bool {
	if m == nil {
		return false
	}
	rows, cols := m.Dims()
	if rows != cols {
		return false
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if diff := m.At(i, j) - want; diff > tol || diff < -tol {
				return false
			}
		}
	}
	return true
}

// SparsityFraction returns the fraction of elements whose absolute value is
// at most tol. Used by lazy partial compensation (§4.C) to decide whether to
// treat the spillover matrix as sparse when seeding the "involved" channel
// set.
func SparsityFraction(m *mat.Dense, tol float64) float64 {
	if m == nil {
		return 0
	}
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return 0
	}
	zero := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if v <= tol && v >= -tol {
				zero++
			}
		}
	}
	return float64(zero) / float64(rows*cols)
}
