package numeric

import "math"

// Point2D is a 2D sample, used by the clustering and ellipse-fitting paths
// of the automated-gating package.
type Point2D struct {
	X, Y float64
}

// KMeansResult holds the outcome of a k-means run: per-point cluster
// assignment and the final centroids.
type KMeansResult struct {
	Assignments []int
	Centroids   []Point2D
}

// KMeans2D clusters points into k clusters using Lloyd's algorithm with
// deterministic initialization (evenly-spaced points along the first
// principal axis approximated by x-sorted order), so that results are
// reproducible across runs (§5 Ordering).
//
// Complexity: O(iters * n * k).
func KMeans2D(points []Point2D, k int, maxIters int) (KMeansResult, error) {
	if len(points) == 0 {
		return KMeansResult{}, ErrEmptyInput
	}
	if k <= 0 || k > len(points) {
		return KMeansResult{}, ErrDimensionMismatch
	}
	if maxIters <= 0 {
		maxIters = 100
	}

	centroids := initCentroidsDeterministic(points, k)
	assignments := make([]int, len(points))

	for iter := 0; iter < maxIters; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				d := sqDist(p, centroid)
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		sums := make([]Point2D, k)
		counts := make([]int, k)
		for i, p := range points {
			c := assignments[i]
			sums[c].X += p.X
			sums[c].Y += p.Y
			counts[c]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue // keep stale centroid for empty clusters
			}
			centroids[c] = Point2D{X: sums[c].X / float64(counts[c]), Y: sums[c].Y / float64(counts[c])}
		}

		if !changed && iter > 0 {
			break
		}
	}

	return KMeansResult{Assignments: assignments, Centroids: centroids}, nil
}

// initCentroidsDeterministic seeds k centroids at evenly spaced ranks of
// points sorted by X, avoiding any RNG dependency so that clustering-based
// automated gates are reproducible.
func initCentroidsDeterministic(points []Point2D, k int) []Point2D {
	sorted := append([]Point2D(nil), points...)
	sortPoint2DByX(sorted)
	centroids := make([]Point2D, k)
	n := len(sorted)
	for c := 0; c < k; c++ {
		idx := (c * n) / k
		centroids[c] = sorted[idx]
	}
	return centroids
}

func sortPoint2DByX(points []Point2D) {
	// Insertion sort is sufficient: used only to seed centroids and typical
	// event counts for this path stay in the low thousands.
	for i := 1; i < len(points); i++ {
		for j := i; j > 0 && points[j].X < points[j-1].X; j-- {
			points[j], points[j-1] = points[j-1], points[j]
		}
	}
}

func sqDist(a, b Point2D) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// GMMComponent is one Gaussian mixture component with diagonal covariance.
type GMMComponent struct {
	Weight   float64
	MeanX    float64
	MeanY    float64
	VarX     float64
	VarY     float64
}

// GMMResult holds a fitted 2-component diagonal-covariance Gaussian mixture
// plus hard assignments (argmax responsibility per point).
type GMMResult struct {
	Components  [2]GMMComponent
	Assignments []int
}

// GMM2 fits a 2-component diagonal Gaussian mixture to points via
// expectation-maximization, initialized from a k-means(2) split so the
// EM iterations start from well-separated components.
//
// Complexity: O(iters * n).
func GMM2(points []Point2D, maxIters int) (GMMResult, error) {
	if len(points) < 2 {
		return GMMResult{}, ErrEmptyInput
	}
	if maxIters <= 0 {
		maxIters = 50
	}

	km, err := KMeans2D(points, 2, 20)
	if err != nil {
		return GMMResult{}, err
	}

	comps := [2]GMMComponent{}
	for c := 0; c < 2; c++ {
		var sumX, sumY, sumX2, sumY2 float64
		n := 0
		for i, p := range points {
			if km.Assignments[i] != c {
				continue
			}
			sumX += p.X
			sumY += p.Y
			n++
		}
		if n == 0 {
			comps[c] = GMMComponent{Weight: 1e-6, MeanX: km.Centroids[c].X, MeanY: km.Centroids[c].Y, VarX: 1, VarY: 1}
			continue
		}
		meanX, meanY := sumX/float64(n), sumY/float64(n)
		for i, p := range points {
			if km.Assignments[i] != c {
				continue
			}
			sumX2 += (p.X - meanX) * (p.X - meanX)
			sumY2 += (p.Y - meanY) * (p.Y - meanY)
		}
		varX, varY := sumX2/float64(n), sumY2/float64(n)
		if varX <= 0 {
			varX = 1e-6
		}
		if varY <= 0 {
			varY = 1e-6
		}
		comps[c] = GMMComponent{Weight: float64(n) / float64(len(points)), MeanX: meanX, MeanY: meanY, VarX: varX, VarY: varY}
	}

	resp := make([][2]float64, len(points))
	for iter := 0; iter < maxIters; iter++ {
		// E-step.
		for i, p := range points {
			d0 := gaussianDensity2D(p, comps[0]) * comps[0].Weight
			d1 := gaussianDensity2D(p, comps[1]) * comps[1].Weight
			total := d0 + d1
			if total <= 0 {
				resp[i] = [2]float64{0.5, 0.5}
				continue
			}
			resp[i] = [2]float64{d0 / total, d1 / total}
		}

		// M-step.
		for c := 0; c < 2; c++ {
			var sumW, sumX, sumY float64
			for i, p := range points {
				w := resp[i][c]
				sumW += w
				sumX += w * p.X
				sumY += w * p.Y
			}
			if sumW <= 0 {
				continue
			}
			meanX, meanY := sumX/sumW, sumY/sumW
			var sumX2, sumY2 float64
			for i, p := range points {
				w := resp[i][c]
				sumX2 += w * (p.X - meanX) * (p.X - meanX)
				sumY2 += w * (p.Y - meanY) * (p.Y - meanY)
			}
			varX, varY := sumX2/sumW, sumY2/sumW
			if varX <= 0 {
				varX = 1e-6
			}
			if varY <= 0 {
				varY = 1e-6
			}
			comps[c] = GMMComponent{Weight: sumW / float64(len(points)), MeanX: meanX, MeanY: meanY, VarX: varX, VarY: varY}
		}
	}

	assignments := make([]int, len(points))
	for i := range points {
		if resp[i][1] > resp[i][0] {
			assignments[i] = 1
		}
	}

	return GMMResult{Components: comps, Assignments: assignments}, nil
}

func gaussianDensity2D(p Point2D, c GMMComponent) float64 {
	dx, dy := p.X-c.MeanX, p.Y-c.MeanY
	exponent := -0.5 * ((dx*dx)/c.VarX + (dy*dy)/c.VarY)
	norm := 1.0 / (2 * math.Pi * math.Sqrt(c.VarX*c.VarY))
	return norm * math.Exp(exponent)
}
