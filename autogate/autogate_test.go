package autogate

import (
	"math/rand"
	"testing"

	"github.com/czarop/flowcyto/fcs"
	"github.com/czarop/flowcyto/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTable(t *testing.T, channels []string, rows [][]float32) *fcs.Table {
	t.Helper()
	table, err := fcs.NewTable(channels, rows)
	require.NoError(t, err)
	return table
}

func TestFitScatterGateEllipseFitAdmitsMostOfASingleCluster(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	n := 500
	rows := make([][]float32, n)
	for i := 0; i < n; i++ {
		x := 50 + r.NormFloat64()*5
		y := 50 + r.NormFloat64()*5
		rows[i] = []float32{float32(x), float32(y)}
	}
	table := buildTable(t, []string{"FSC-A", "SSC-A"}, rows)

	res, err := FitScatterGate(table, "FSC-A", "SSC-A", "scatter", EllipseFit)
	require.NoError(t, err)
	assert.Equal(t, gate.Ellipse, res.Gate.Geometry.Kind)
	assert.InDelta(t, 50, res.Gate.Geometry.Center.X, 2)
	assert.InDelta(t, 50, res.Gate.Geometry.Center.Y, 2)
	assert.Greater(t, res.NAdmitted, n/2)
	assert.Equal(t, EllipseFit, res.Method)
}

func TestFitScatterGateRejectsTooFewEvents(t *testing.T) {
	table := buildTable(t, []string{"X", "Y"}, [][]float32{{1, 1}, {2, 2}})
	_, err := FitScatterGate(table, "X", "Y", "g", EllipseFit, WithMinEvents(10))
	assert.ErrorIs(t, err, ErrTooFewEvents)
}

func twoBlobRows(r *rand.Rand, nSmall, nLarge int) [][]float32 {
	rows := make([][]float32, 0, nSmall+nLarge)
	for i := 0; i < nSmall; i++ {
		rows = append(rows, []float32{float32(10 + r.NormFloat64()), float32(10 + r.NormFloat64())})
	}
	for i := 0; i < nLarge; i++ {
		rows = append(rows, []float32{float32(100 + r.NormFloat64()), float32(100 + r.NormFloat64())})
	}
	return rows
}

func TestFitScatterGateClusteringKMeansPicksDominantCluster(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	rows := twoBlobRows(r, 30, 200)
	table := buildTable(t, []string{"X", "Y"}, rows)

	res, err := FitScatterGate(table, "X", "Y", "g", ClusteringKMeans, WithMinEvents(10))
	require.NoError(t, err)
	assert.InDelta(t, 100, res.Gate.Geometry.Center.X, 3)
	assert.InDelta(t, 100, res.Gate.Geometry.Center.Y, 3)
}

func TestFitScatterGateClusteringGMMPicksDominantCluster(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	rows := twoBlobRows(r, 30, 200)
	table := buildTable(t, []string{"X", "Y"}, rows)

	res, err := FitScatterGate(table, "X", "Y", "g", ClusteringGMM, WithMinEvents(10))
	require.NoError(t, err)
	assert.InDelta(t, 100, res.Gate.Geometry.Center.X, 3)
	assert.InDelta(t, 100, res.Gate.Geometry.Center.Y, 3)
}

func TestFitScatterGateDensityContourProducesAGate(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	n := 800
	rows := make([][]float32, n)
	for i := 0; i < n; i++ {
		x := 50 + r.NormFloat64()*4
		y := 50 + r.NormFloat64()*4
		rows[i] = []float32{float32(x), float32(y)}
	}
	table := buildTable(t, []string{"X", "Y"}, rows)

	res, err := FitScatterGate(table, "X", "Y", "g", DensityContour)
	require.NoError(t, err)
	assert.Greater(t, res.NAdmitted, 0)
	assert.Contains(t, []gate.Kind{gate.Polygon, gate.Ellipse}, res.Gate.Geometry.Kind)
}

func TestFitScatterGateUnknownMethod(t *testing.T) {
	table := buildTable(t, []string{"X", "Y"}, [][]float32{{1, 1}, {2, 2}, {3, 3}})
	_, err := FitScatterGate(table, "X", "Y", "g", ScatterMethod(99), WithMinEvents(1))
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestTraceDensityContourSingleCellSquare(t *testing.T) {
	inside := [][]bool{
		{false, false, false},
		{false, true, false},
		{false, false, false},
	}
	gridX := []float64{0, 1, 2}
	gridY := []float64{0, 1, 2}

	vertices := traceDensityContour(inside, 3, 3, gridX, gridY)
	require.Len(t, vertices, 4)
	assert.ElementsMatch(t, []gate.Point{
		{X: 0.5, Y: 1.5}, {X: 0.5, Y: 0.5}, {X: 1.5, Y: 0.5}, {X: 1.5, Y: 1.5},
	}, vertices)
}

// jitter returns a value uniform on [-bound, bound]; bounded (rather than
// Gaussian) noise so the ratio populations below never overlap regardless
// of the random draw.
func jitter(r *rand.Rand, bound float64) float64 {
	return (r.Float64()*2 - 1) * bound
}

func doubletRows(r *rand.Rand, nSinglet, nDoublet int) [][]float32 {
	rows := make([][]float32, 0, nSinglet+nDoublet)
	for i := 0; i < nSinglet; i++ {
		h := 1000 + jitter(r, 10)
		a := h * (1 + jitter(r, 0.01))
		rows = append(rows, []float32{float32(a), float32(h)})
	}
	for i := 0; i < nDoublet; i++ {
		h := 1000 + jitter(r, 10)
		a := h * (2 + jitter(r, 0.01))
		rows = append(rows, []float32{float32(a), float32(h)})
	}
	return rows
}

func TestDetectDoubletsRatioMADSeparatesPopulations(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	rows := doubletRows(r, 300, 30)
	table := buildTable(t, []string{"FSC-A", "FSC-H"}, rows)

	res, err := DetectDoublets(table, "FSC-A", "FSC-H", RatioMAD)
	require.NoError(t, err)
	assert.Equal(t, "ratio_mad", res.MethodLabel)
	assert.Equal(t, len(rows), res.NSinglets+res.NDoublets)
	for i := 0; i < 300; i++ {
		assert.True(t, res.Mask[i], "singlet event %d should be retained", i)
	}
	for i := 300; i < 330; i++ {
		assert.False(t, res.Mask[i], "doublet event %d should be rejected", i)
	}
	assert.InDelta(t, 90.9, res.Percentage, 1)
}

func TestDetectDoubletsDensityBasedSeparatesPopulations(t *testing.T) {
	// DensityBased only trims the top 5% by distance from the primary peak
	// (§4.I), so it is only a clean separator when doublets are a small
	// minority of events — unlike RatioMAD it is not meant to fully reject
	// a 10% contamination, so this test keeps doublets under that fraction.
	r := rand.New(rand.NewSource(6))
	rows := doubletRows(r, 300, 10)
	table := buildTable(t, []string{"FSC-A", "FSC-H"}, rows)

	res, err := DetectDoublets(table, "FSC-A", "FSC-H", DensityBased)
	require.NoError(t, err)
	singletsKept := 0
	for i := 0; i < 300; i++ {
		if res.Mask[i] {
			singletsKept++
		}
	}
	assert.Greater(t, singletsKept, 270)
	for i := 300; i < 310; i++ {
		assert.False(t, res.Mask[i], "doublet event %d should be rejected", i)
	}
}

func TestDetectDoubletsHybridIsIntersection(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	rows := doubletRows(r, 300, 30)
	table := buildTable(t, []string{"FSC-A", "FSC-H"}, rows)

	a, err := DetectDoublets(table, "FSC-A", "FSC-H", RatioMAD)
	require.NoError(t, err)
	b, err := DetectDoublets(table, "FSC-A", "FSC-H", DensityBased)
	require.NoError(t, err)
	hybrid, err := DetectDoublets(table, "FSC-A", "FSC-H", Hybrid)
	require.NoError(t, err)

	for i := range hybrid.Mask {
		assert.Equal(t, a.Mask[i] && b.Mask[i], hybrid.Mask[i])
	}
}

func TestDetectDoubletsClusteringDBSCAN(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	rows := doubletRows(r, 300, 30)
	table := buildTable(t, []string{"FSC-A", "FSC-H"}, rows)

	res, err := DetectDoublets(table, "FSC-A", "FSC-H", ClusteringDBSCAN, WithDBSCANParams(0.02, 5))
	require.NoError(t, err)
	assert.Equal(t, "dbscan", res.MethodLabel)
	singletsAmongFirst300 := 0
	for i := 0; i < 300; i++ {
		if res.Mask[i] {
			singletsAmongFirst300++
		}
	}
	assert.Greater(t, singletsAmongFirst300, 250)
}

func TestDetectDoubletsUnknownMethod(t *testing.T) {
	table := buildTable(t, []string{"A", "H"}, [][]float32{{1, 1}, {2, 2}})
	_, err := DetectDoublets(table, "A", "H", DoubletMethod(99))
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestDbscan1DClustersAndLabelsNoise(t *testing.T) {
	values := []float64{1.0, 1.05, 0.95, 1.02, 5.0, 5.03, 4.98, 100.0}
	res, err := Dbscan1D(values, DbscanConfig{Eps: 0.2, MinSamples: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, res.NClusters)
	assert.Equal(t, res.Assignments[0], res.Assignments[1])
	assert.Equal(t, res.Assignments[0], res.Assignments[2])
	assert.Equal(t, res.Assignments[0], res.Assignments[3])
	assert.Equal(t, res.Assignments[4], res.Assignments[5])
	assert.Equal(t, res.Assignments[4], res.Assignments[6])
	assert.NotEqual(t, res.Assignments[0], res.Assignments[4])
	assert.Equal(t, -1, res.Assignments[7])
	assert.Equal(t, 1, res.NNoise)
}

func TestDbscan1DRejectsEmpty(t *testing.T) {
	_, err := Dbscan1D(nil, DefaultDbscanConfig())
	assert.ErrorIs(t, err, ErrNoEvents)
}
