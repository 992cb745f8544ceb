package compensate

import (
	"math"
	"testing"

	"github.com/czarop/flowcyto/fcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func buildTable(t *testing.T, channels []string, rows [][]float32) *fcs.Table {
	t.Helper()
	tbl, err := fcs.NewTable(channels, rows)
	require.NoError(t, err)
	return tbl
}

func TestIsIdentity(t *testing.T) {
	sm := &fcs.SpilloverMatrix{Names: []string{"A", "B"}, Values: []float64{1, 0, 0, 1}}
	assert.True(t, IsIdentity(sm))

	sm2 := &fcs.SpilloverMatrix{Names: []string{"A", "B"}, Values: []float64{1, 0.3, 0.1, 1}}
	assert.False(t, IsIdentity(sm2))
}

func TestIsIdentityNil(t *testing.T) {
	assert.True(t, IsIdentity(nil))
}

func TestFullCompensationIdentity(t *testing.T) {
	table := buildTable(t, []string{"A", "B"}, [][]float32{{1, 2}, {3, 4}})
	sm := &fcs.SpilloverMatrix{Names: []string{"A", "B"}, Values: []float64{1, 0, 0, 1}}

	out, err := Full(table, sm)
	require.NoError(t, err)
	assert.Same(t, table, out)
}

func TestFullCompensationInvertsSpillover(t *testing.T) {
	// M = [[1, 0.5], [0, 1]]; observed = M * true, so compensated should
	// recover the true abundances.
	m := mat.NewDense(2, 2, []float64{1, 0.5, 0, 1})
	trueA := []float64{10, 20, 30}
	trueB := []float64{5, 5, 5}
	obsA := make([]float32, len(trueA))
	obsB := make([]float32, len(trueA))
	for i := range trueA {
		obsA[i] = float32(m.At(0, 0)*trueA[i] + m.At(0, 1)*trueB[i])
		obsB[i] = float32(m.At(1, 0)*trueA[i] + m.At(1, 1)*trueB[i])
	}

	table := buildTable(t, []string{"A", "B"}, rowsFrom(obsA, obsB))
	sm := &fcs.SpilloverMatrix{Names: []string{"A", "B"}, Values: []float64{1, 0.5, 0, 1}}

	out, err := Full(table, sm)
	require.NoError(t, err)

	colA, err := out.Column("A")
	require.NoError(t, err)
	colB, err := out.Column("B")
	require.NoError(t, err)
	for i := range trueA {
		assert.InDelta(t, trueA[i], float64(colA[i]), 1e-3)
		assert.InDelta(t, trueB[i], float64(colB[i]), 1e-3)
	}
}

func TestPartialMatchesFullOnRequestedChannels(t *testing.T) {
	m := []float64{1, 0.2, 0.05, 0.1, 1, 0.05, 0.02, 0.02, 1}
	names := []string{"A", "B", "C"}
	sm := &fcs.SpilloverMatrix{Names: names, Values: m}

	obsA := []float32{10, 20}
	obsB := []float32{5, 6}
	obsC := []float32{1, 2}
	table := buildTable(t, names, rowsFrom(obsA, obsB, obsC))

	full, err := Full(table, sm)
	require.NoError(t, err)
	fullA, _ := full.Column("A")

	partial, err := Partial(table, sm, []string{"A"})
	require.NoError(t, err)

	for i := range fullA {
		assert.InDelta(t, float64(fullA[i]), float64(partial["A"][i]), 1e-2)
	}
}

func TestPartialRejectsUnknownChannel(t *testing.T) {
	sm := &fcs.SpilloverMatrix{Names: []string{"A"}, Values: []float64{1}}
	table := buildTable(t, []string{"A"}, [][]float32{{1}})
	_, err := Partial(table, sm, []string{"Z"})
	assert.ErrorIs(t, err, ErrNoOverlap)
}

func TestArcsinhTransform(t *testing.T) {
	table := buildTable(t, []string{"FSC-A"}, [][]float32{{100}})
	out, err := ArcsinhTransform(table, "FSC-A", 200)
	require.NoError(t, err)
	col, err := out.Column("FSC-A")
	require.NoError(t, err)
	want := math.Asinh(0.5) / math.Log(10)
	assert.InDelta(t, want, float64(col[0]), 1e-4)
}

func TestApplyDefaultArcsinhTransformSkipsScatterAndTime(t *testing.T) {
	table := buildTable(t, []string{"FSC-A", "SSC-A", "Time", "FL1-A"}, [][]float32{{100, 100, 100, 100}})
	out, err := ApplyDefaultArcsinhTransform(table)
	require.NoError(t, err)

	fscA, _ := out.Column("FSC-A")
	fl1A, _ := out.Column("FL1-A")
	assert.Equal(t, float32(100), fscA[0])
	assert.NotEqual(t, float32(100), fl1A[0])
}

func TestInverseArcsinhRoundTrip(t *testing.T) {
	col := []float32{0.1, 0.5, 1.2}
	transformed := arcsinhColumn(InverseArcsinh(col, 200), 200)
	for i := range col {
		assert.InDelta(t, float64(col[i]), float64(transformed[i]), 1e-4)
	}
}

func rowsFrom(columns ...[]float32) [][]float32 {
	n := len(columns[0])
	rows := make([][]float32, n)
	for i := 0; i < n; i++ {
		row := make([]float32, len(columns))
		for j, col := range columns {
			row[j] = col[i]
		}
		rows[i] = row
	}
	return rows
}
