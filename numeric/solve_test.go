package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolveSquare(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{2, 0, 0, 2})
	x, err := Solve(a, []float64{4, 6})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 3}, x, 1e-9)
}

func TestSolveOverdetermined(t *testing.T) {
	// y = 2x exactly, three observations.
	a := mat.NewDense(3, 1, []float64{1, 2, 3})
	x, err := Solve(a, []float64{2, 4, 6})
	require.NoError(t, err)
	require.Len(t, x, 1)
	assert.InDelta(t, 2.0, x[0], 1e-9)
}

func TestSolveUnderdetermined(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{1, 1})
	_, err := Solve(a, []float64{1})
	assert.ErrorIs(t, err, ErrUnderdetermined)
}

func TestSolveDimensionMismatch(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	_, err := Solve(a, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSolveNilMatrix(t *testing.T) {
	_, err := Solve(nil, []float64{1})
	assert.ErrorIs(t, err, ErrNilMatrix)
}

func TestInvert(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 0, 0, 2})
	inv, err := Invert(m)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, inv.At(0, 0), 1e-9)
	assert.InDelta(t, 0.5, inv.At(1, 1), 1e-9)
}

func TestInvertSingular(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	_, err := Invert(m)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestInvertNonSquare(t *testing.T) {
	m := mat.NewDense(2, 3, nil)
	_, err := Invert(m)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestIsApproxIdentity(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1.0000001, 0, 0, 0.9999999})
	assert.True(t, IsApproxIdentity(m, 1e-5))
	assert.False(t, IsApproxIdentity(m, 1e-10))
}

func TestSparsityFraction(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	assert.InDelta(t, 0.5, SparsityFraction(m, 1e-9), 1e-9)
}
