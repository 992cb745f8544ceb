package gate

import (
	"testing"

	"github.com/czarop/flowcyto/fcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildXYTable(t *testing.T, xs, ys []float32) *fcs.Table {
	t.Helper()
	rows := make([][]float32, len(xs))
	for i := range xs {
		rows[i] = []float32{xs[i], ys[i]}
	}
	table, err := fcs.NewTable([]string{"X", "Y"}, rows)
	require.NoError(t, err)
	return table
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestNewPolygonRejectsFewerThanThreeVertices(t *testing.T) {
	_, err := NewPolygon([]Point{{0, 0}, {1, 1}})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestNewRectangleRejectsInvertedBounds(t *testing.T) {
	_, err := NewRectangle(Point{X: 5, Y: 0}, Point{X: 0, Y: 10})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestNewEllipseRejectsZeroRadius(t *testing.T) {
	_, err := NewEllipse(Point{}, 0, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestNewBooleanNotRequiresExactlyOneChild(t *testing.T) {
	_, err := NewBoolean(Not, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	geo, err := NewBoolean(Not, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, Not, geo.Op)
}

func TestRectangleFilterIsInclusive(t *testing.T) {
	table := buildXYTable(t, []float32{0, 5, 10, 11}, []float32{0, 5, 10, 11})
	geo, err := NewRectangle(Point{0, 0}, Point{10, 10})
	require.NoError(t, err)

	f := NewFilterer()
	out, err := f.Filter(table, Gate{ID: "g1", Geometry: geo, XChannel: "X", YChannel: "Y"}, allIndices(4), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, out)
}

func TestPolygonFilterBoundaryInclusive(t *testing.T) {
	table := buildXYTable(t, []float32{0, 5, 10}, []float32{0, 0, 0})
	geo, err := NewPolygon([]Point{{0, -1}, {10, -1}, {10, 1}, {0, 1}})
	require.NoError(t, err)

	f := NewFilterer()
	out, err := f.Filter(table, Gate{ID: "g1", Geometry: geo, XChannel: "X", YChannel: "Y"}, allIndices(3), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, out)
}

func TestEllipseFilter(t *testing.T) {
	table := buildXYTable(t, []float32{0, 3, 100}, []float32{0, 0, 0})
	geo, err := NewEllipse(Point{0, 0}, 4, 4, 0)
	require.NoError(t, err)

	f := NewFilterer()
	out, err := f.Filter(table, Gate{ID: "g1", Geometry: geo, XChannel: "X", YChannel: "Y"}, allIndices(3), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, out)
}

func TestBooleanAndOrNot(t *testing.T) {
	parent := allIndices(5)
	childA := []int{0, 1, 2}
	childB := []int{1, 2, 3}
	childResults := map[string][]int{"a": childA, "b": childB}

	f := NewFilterer()

	andGeo, err := NewBoolean(And, []string{"a", "b"})
	require.NoError(t, err)
	out, err := f.Filter(nil, Gate{ID: "and", Geometry: andGeo}, parent, childResults)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, out)

	orGeo, err := NewBoolean(Or, []string{"a", "b"})
	require.NoError(t, err)
	out, err = f.Filter(nil, Gate{ID: "or", Geometry: orGeo}, parent, childResults)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, out)

	notGeo, err := NewBoolean(Not, []string{"a"})
	require.NoError(t, err)
	out, err = f.Filter(nil, Gate{ID: "not", Geometry: notGeo}, parent, childResults)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, out)
}

func TestBooleanMissingChildReturnsError(t *testing.T) {
	geo, err := NewBoolean(Not, []string{"missing"})
	require.NoError(t, err)
	f := NewFilterer()
	_, err = f.Filter(nil, Gate{ID: "not", Geometry: geo}, allIndices(3), map[string][]int{})
	assert.ErrorIs(t, err, ErrUnknownChild)
}

type memCache struct {
	store map[FilterCacheKey][]int
}

func newMemCache() *memCache { return &memCache{store: map[FilterCacheKey][]int{}} }

func (c *memCache) Get(key FilterCacheKey) ([]int, bool) {
	v, ok := c.store[key]
	return v, ok
}

func (c *memCache) Insert(key FilterCacheKey, indices []int) {
	c.store[key] = indices
}

func TestFilterUsesCache(t *testing.T) {
	table := buildXYTable(t, []float32{0, 5, 10}, []float32{0, 5, 10})
	geo, err := NewRectangle(Point{0, 0}, Point{10, 10})
	require.NoError(t, err)

	cache := newMemCache()
	f := NewFilterer(WithCache(cache))
	g := Gate{ID: "g1", Geometry: geo, XChannel: "X", YChannel: "Y"}

	out1, err := f.Filter(table, g, allIndices(3), nil)
	require.NoError(t, err)
	key := NewFilterCacheKey(table.GUID(), g.ID, g.ParentChain)
	cached, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, out1, cached)
}

func TestFilterDeterministicAcrossParallelThreshold(t *testing.T) {
	n := parallelThreshold + 100
	xs := make([]float32, n)
	ys := make([]float32, n)
	for i := range xs {
		xs[i] = float32(i % 20)
		ys[i] = float32(i % 20)
	}
	table := buildXYTable(t, xs, ys)
	geo, err := NewRectangle(Point{0, 0}, Point{9, 9})
	require.NoError(t, err)

	f := NewFilterer()
	out, err := f.Filter(table, Gate{ID: "g1", Geometry: geo, XChannel: "X", YChannel: "Y"}, allIndices(n), nil)
	require.NoError(t, err)
	for i := 1; i < len(out); i++ {
		assert.Less(t, out[i-1], out[i])
	}
	assert.NotEmpty(t, out)
}
