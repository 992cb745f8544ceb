package truols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCalculateCutoffs(t *testing.T) {
	// Scenario 4 of the end-to-end scenarios.
	mixing := mat.NewDense(2, 2, []float64{1, 0.1, 0.1, 1})
	unstained := [][]float64{{0, 0}, {0.1, 0.1}}

	cutoffs, err := CalculateCutoffs(mixing, unstained, 0.995)
	require.NoError(t, err)
	require.Len(t, cutoffs, 2)
	for _, c := range cutoffs {
		assert.False(t, isInf(c))
	}
}

func TestCalculateCutoffsRejectsBadPercentile(t *testing.T) {
	mixing := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	_, err := CalculateCutoffs(mixing, [][]float64{{1, 1}}, 1.5)
	assert.ErrorIs(t, err, ErrInvalidPercentile)
}

func TestCalculateCutoffsMonotonicity(t *testing.T) {
	mixing := mat.NewDense(2, 2, []float64{1, 0.1, 0.1, 1})
	unstained := [][]float64{{0, 0}, {0.05, 0.05}, {0.1, 0.1}, {0.2, 0.05}, {0.3, 0.2}}

	low, err := CalculateCutoffs(mixing, unstained, 0.5)
	require.NoError(t, err)
	high, err := CalculateCutoffs(mixing, unstained, 0.95)
	require.NoError(t, err)
	for k := range low {
		assert.LessOrEqual(t, low[k], high[k]+1e-9)
	}
}

func TestCalculateNonspecificObservation(t *testing.T) {
	mixing := mat.NewDense(2, 2, []float64{1, 0.1, 0.1, 1})
	unstained := [][]float64{{0, 0}, {0.1, 0.1}}

	obs, err := CalculateNonspecificObservation(mixing, unstained, 0)
	require.NoError(t, err)
	assert.Len(t, obs, 2)
}

func TestCalculateNonspecificObservationBadIndex(t *testing.T) {
	mixing := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	_, err := CalculateNonspecificObservation(mixing, [][]float64{{1, 1}}, 5)
	assert.ErrorIs(t, err, ErrNoAutofluorescenceEndmember)
}

func TestUnmixEventRemovesBelowCutoff(t *testing.T) {
	// Scenario 5: the zero-centred unstained control spreads endmember 1's
	// alpha to about +/-2, so its cutoff (about 2.0) is above the event's
	// alpha (about 0.9) and endmember 1 is removed.
	mixing := mat.NewDense(2, 2, []float64{1, 0.01, 0.01, 1})
	unstained := [][]float64{{0, 0}, {0, 2}, {0, -2}}

	engine, err := NewEngine(mixing, unstained, 0)
	require.NoError(t, err)

	result, err := engine.UnmixEvent([]float64{10, 1})
	require.NoError(t, err)

	removedAlpha, found := 0.0, false
	for _, r := range result.Removed {
		if r.Index == 1 {
			removedAlpha, found = r.Alpha, true
		}
	}
	require.True(t, found, "expected endmember 1 to have been removed")
	assert.Less(t, absF(removedAlpha), 1.0)
}

func TestUnmixDatasetAllOrNothing(t *testing.T) {
	mixing := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	unstained := [][]float64{{0, 0}, {0, 0}}
	engine, err := NewEngine(mixing, unstained, 0)
	require.NoError(t, err)

	dataset := [][]float64{{1, 1}, {2, 2}}
	out, err := engine.UnmixDataset(dataset)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, out[0], 2)
}

func TestUnmixEventDimensionMismatch(t *testing.T) {
	mixing := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	unstained := [][]float64{{0, 0}}
	engine, err := NewEngine(mixing, unstained, 0)
	require.NoError(t, err)

	_, err = engine.UnmixEvent([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestUnmixDatasetStrategyUCM(t *testing.T) {
	mixing := mat.NewDense(2, 2, []float64{1, 0.01, 0.01, 1})
	unstained := [][]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}}
	engine, err := NewEngine(mixing, unstained, 0)
	require.NoError(t, err)
	engine.SetStrategy(StrategyUnstainedControlMapping)

	out, err := engine.UnmixDataset([][]float64{{10, 1}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0], 2)
}

func isInf(v float64) bool { return v > 1e300 || v < -1e300 }
func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
