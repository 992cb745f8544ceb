package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSilvermanBandwidth(t *testing.T) {
	values := make([]float64, 200)
	for i := range values {
		values[i] = float64(i) * 0.05
	}
	bw, err := SilvermanBandwidth(values)
	require.NoError(t, err)
	assert.Greater(t, bw, 0.0)
}

func TestSilvermanBandwidthTooFewSamples(t *testing.T) {
	_, err := SilvermanBandwidth([]float64{1})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestKDE1DSingleCluster(t *testing.T) {
	data := make([]float64, 500)
	for i := range data {
		data[i] = 5.0
	}
	grid := LinearGrid(0, 10, 101)
	density, err := KDE1D(data, grid, 0.3)
	require.NoError(t, err)
	require.Len(t, density, 101)

	peakIdx := 0
	for i, d := range density {
		if d > density[peakIdx] {
			peakIdx = i
		}
	}
	assert.InDelta(t, 5.0, grid[peakIdx], 0.5)
}

func TestKDE1DRejectsSmallGrid(t *testing.T) {
	_, err := KDE1D([]float64{1}, []float64{1}, 1)
	assert.ErrorIs(t, err, ErrGridTooSmall)
}

func TestKDE1DRejectsBadBandwidth(t *testing.T) {
	_, err := KDE1D([]float64{1, 2}, LinearGrid(0, 1, 10), 0)
	assert.ErrorIs(t, err, ErrInvalidBandwidth)
}

func TestKDE1DAllNaN(t *testing.T) {
	density, err := KDE1D([]float64{math.NaN(), math.NaN()}, LinearGrid(0, 1, 10), 0.1)
	require.NoError(t, err)
	for _, v := range density {
		assert.Equal(t, 0.0, v)
	}
}

func TestKDE2DSingleCluster(t *testing.T) {
	n := 300
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = 3.0
		ys[i] = 7.0
	}
	gridX := LinearGrid(0, 10, 41)
	gridY := LinearGrid(0, 10, 41)
	density, err := KDE2D(xs, ys, gridX, gridY, 0.4, 0.4)
	require.NoError(t, err)
	require.Len(t, density, len(gridX)*len(gridY))

	peak := 0
	for i, d := range density {
		if d > density[peak] {
			peak = i
		}
	}
	peakY := peak / len(gridX)
	peakX := peak % len(gridX)
	assert.InDelta(t, 3.0, gridX[peakX], 1.0)
	assert.InDelta(t, 7.0, gridY[peakY], 1.0)
}

func TestKDE2DDimensionMismatch(t *testing.T) {
	_, err := KDE2D([]float64{1, 2}, []float64{1}, LinearGrid(0, 1, 5), LinearGrid(0, 1, 5), 0.1, 0.1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestLinearGrid(t *testing.T) {
	grid := LinearGrid(0, 10, 11)
	require.Len(t, grid, 11)
	assert.Equal(t, 0.0, grid[0])
	assert.Equal(t, 10.0, grid[10])
	assert.Equal(t, 5.0, grid[5])
}
