package autogate

import (
	"math"

	"github.com/czarop/flowcyto/fcs"
	"github.com/czarop/flowcyto/gate"
	"github.com/czarop/flowcyto/numeric"
)

// ScatterMethod selects the algorithm FitScatterGate uses to bound the
// dominant population on a 2D scatter plot (§4.I).
type ScatterMethod int

const (
	EllipseFit ScatterMethod = iota
	ClusteringKMeans
	ClusteringGMM
	DensityContour
)

// ScatterConfig tunes every ScatterMethod. Not every field applies to every
// method: MaxIters is ignored by EllipseFit and DensityContour; Threshold
// and GridSize are ignored by everything but DensityContour.
type ScatterConfig struct {
	MinEvents int
	MaxIters  int
	Threshold float64
	GridSize  int
}

// DefaultScatterConfig returns the spec's stated density-contour grid
// resolution (128 points per axis) and a conservative minimum event count
// below which a fit is refused rather than built on noise.
func DefaultScatterConfig() ScatterConfig {
	return ScatterConfig{MinEvents: 20, MaxIters: 100, Threshold: 0.1, GridSize: 128}
}

// ScatterOption configures a ScatterConfig.
type ScatterOption func(*ScatterConfig)

// WithMinEvents sets the minimum event count FitScatterGate requires before
// attempting a fit.
func WithMinEvents(n int) ScatterOption {
	return func(c *ScatterConfig) { c.MinEvents = n }
}

// WithMaxIters bounds the k-means/GMM iteration count for the clustering
// methods.
func WithMaxIters(n int) ScatterOption {
	return func(c *ScatterConfig) { c.MaxIters = n }
}

// WithDensityThreshold sets the fraction of max density a grid cell must
// clear to count as inside the DensityContour region.
func WithDensityThreshold(t float64) ScatterOption {
	return func(c *ScatterConfig) { c.Threshold = t }
}

// WithGridSize sets the per-axis grid resolution for DensityContour.
func WithGridSize(n int) ScatterOption {
	return func(c *ScatterConfig) { c.GridSize = n }
}

// ScatterResult is the gate fitted around the dominant population plus the
// per-event admission mask. Method reports the algorithm actually used:
// DensityContour falls back to EllipseFit when its traced boundary has
// fewer than 3 vertices (§4.I), in which case Method differs from the
// method FitScatterGate was called with.
type ScatterResult struct {
	Gate      gate.Gate
	Mask      []bool
	NAdmitted int
	Method    ScatterMethod
}

// FitScatterGate bounds the dominant population on the xChannel/yChannel
// scatter plot using method, then evaluates the fitted geometry against
// every event in table via a gate.Filterer (§4.I Scatter gate).
func FitScatterGate(table *fcs.Table, xChannel, yChannel, id string, method ScatterMethod, opts ...ScatterOption) (ScatterResult, error) {
	cfg := DefaultScatterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	pairs, err := table.XYPairs(xChannel, yChannel)
	if err != nil {
		return ScatterResult{}, err
	}
	if len(pairs) == 0 {
		return ScatterResult{}, ErrNoEvents
	}
	if len(pairs) < cfg.MinEvents {
		return ScatterResult{}, ErrTooFewEvents
	}

	points := make([]numeric.Point2D, len(pairs))
	xs := make([]float64, len(pairs))
	ys := make([]float64, len(pairs))
	for i, p := range pairs {
		points[i] = numeric.Point2D{X: float64(p[0]), Y: float64(p[1])}
		xs[i], ys[i] = points[i].X, points[i].Y
	}

	var geo gate.Geometry
	used := method
	switch method {
	case EllipseFit:
		geo, err = ellipseFit(points)
	case ClusteringKMeans:
		geo, err = clusteringEllipse(points, cfg, kmeansSplit)
	case ClusteringGMM:
		geo, err = clusteringEllipse(points, cfg, gmmSplit)
	case DensityContour:
		geo, err = densityContour(xs, ys, cfg)
		if err != nil {
			geo, err = ellipseFit(points)
			used = EllipseFit
		}
	default:
		return ScatterResult{}, ErrUnknownMethod
	}
	if err != nil {
		return ScatterResult{}, err
	}

	g := gate.Gate{ID: id, Geometry: geo, XChannel: xChannel, YChannel: yChannel}
	all := make([]int, len(pairs))
	for i := range all {
		all[i] = i
	}
	admitted, err := gate.NewFilterer().Filter(table, g, all, nil)
	if err != nil {
		return ScatterResult{}, err
	}

	mask := make([]bool, len(pairs))
	for _, idx := range admitted {
		mask[idx] = true
	}
	return ScatterResult{Gate: g, Mask: mask, NAdmitted: len(admitted), Method: used}, nil
}

// ellipseFit centers an ellipse on the sample mean with radii = 2 * the
// per-axis population standard deviation (§4.I EllipseFit).
func ellipseFit(points []numeric.Point2D) (gate.Geometry, error) {
	if len(points) == 0 {
		return gate.Geometry{}, ErrNoEvents
	}
	n := float64(len(points))
	var meanX, meanY float64
	for _, p := range points {
		meanX += p.X
		meanY += p.Y
	}
	meanX /= n
	meanY /= n

	var varX, varY float64
	for _, p := range points {
		dx, dy := p.X-meanX, p.Y-meanY
		varX += dx * dx
		varY += dy * dy
	}
	varX /= n
	varY /= n

	radiusX, radiusY := 2*math.Sqrt(varX), 2*math.Sqrt(varY)
	if radiusX <= 0 {
		radiusX = 1e-6
	}
	if radiusY <= 0 {
		radiusY = 1e-6
	}
	return gate.NewEllipse(gate.Point{X: meanX, Y: meanY}, radiusX, radiusY, 0)
}

// splitFunc partitions points into a 2-cluster assignment. Both clustering
// scatter methods share the "pick the larger cluster, fit an ellipse to
// it" tail (§4.I), differing only in how the split is computed.
type splitFunc func(points []numeric.Point2D, maxIters int) ([]int, error)

func kmeansSplit(points []numeric.Point2D, maxIters int) ([]int, error) {
	res, err := numeric.KMeans2D(points, 2, maxIters)
	if err != nil {
		return nil, err
	}
	return res.Assignments, nil
}

func gmmSplit(points []numeric.Point2D, maxIters int) ([]int, error) {
	res, err := numeric.GMM2(points, maxIters)
	if err != nil {
		return nil, err
	}
	return res.Assignments, nil
}

func clusteringEllipse(points []numeric.Point2D, cfg ScatterConfig, split splitFunc) (gate.Geometry, error) {
	assignments, err := split(points, cfg.MaxIters)
	if err != nil {
		return gate.Geometry{}, err
	}
	var count0, count1 int
	for _, a := range assignments {
		if a == 0 {
			count0++
		} else {
			count1++
		}
	}
	dominant := 0
	if count1 > count0 {
		dominant = 1
	}
	subset := make([]numeric.Point2D, 0, len(points))
	for i, a := range assignments {
		if a == dominant {
			subset = append(subset, points[i])
		}
	}
	return ellipseFit(subset)
}

// densityContour builds a 128-per-axis (by default) FFT-KDE grid over xs/ys,
// admits cells at or above Threshold * max density, and traces the boundary
// of the largest such region into a polygon (§4.I DensityContour). Returns
// an error if the grid carries no density signal or the traced boundary
// collapses to fewer than 3 vertices — FitScatterGate falls back to
// EllipseFit in that case.
func densityContour(xs, ys []float64, cfg ScatterConfig) (gate.Geometry, error) {
	gridSize := cfg.GridSize
	if gridSize < 8 {
		gridSize = 128
	}
	xMin, xMax := rangeOf(xs)
	yMin, yMax := rangeOf(ys)
	padX := 0.05 * (xMax - xMin)
	padY := 0.05 * (yMax - yMin)
	if padX <= 0 {
		padX = 1
	}
	if padY <= 0 {
		padY = 1
	}

	gridX := numeric.LinearGrid(xMin-padX, xMax+padX, gridSize)
	gridY := numeric.LinearGrid(yMin-padY, yMax+padY, gridSize)

	bwX, err := numeric.SilvermanBandwidth(xs)
	if err != nil {
		return gate.Geometry{}, err
	}
	bwY, err := numeric.SilvermanBandwidth(ys)
	if err != nil {
		return gate.Geometry{}, err
	}

	density, err := numeric.KDE2D(xs, ys, gridX, gridY, bwX, bwY)
	if err != nil {
		return gate.Geometry{}, err
	}

	var maxDensity float64
	for _, d := range density {
		if d > maxDensity {
			maxDensity = d
		}
	}
	if maxDensity <= 0 {
		return gate.Geometry{}, numeric.ErrEmptyInput
	}
	threshold := cfg.Threshold * maxDensity

	nx, ny := len(gridX), len(gridY)
	inside := make([][]bool, ny)
	for iy := 0; iy < ny; iy++ {
		inside[iy] = make([]bool, nx)
		for ix := 0; ix < nx; ix++ {
			inside[iy][ix] = density[iy*nx+ix] >= threshold
		}
	}

	vertices := traceDensityContour(inside, nx, ny, gridX, gridY)
	return gate.NewPolygon(vertices)
}

func rangeOf(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
