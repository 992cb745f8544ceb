package signature

import (
	"math"

	"github.com/czarop/flowcyto/numeric"
)

const peakGridPoints = 1024

// maxCandidatePeaks bounds how many local density maxima are ranked before
// choosing the positive population (§4.E step 3).
const maxCandidatePeaks = 3

// IsolatePositivePeakMask identifies the positive-population events within
// an arcsinh-transformed single-stain signal and returns a boolean mask over
// values, true for events kept (§4.E step 3).
//
// Peaks are local maxima of the 1D KDE of values at or above
// kdeThreshold*(global max density). Up to maxCandidatePeaks are ranked and
// the one maximizing density + bias*normalized-intensity is chosen: bias
// lets the caller break a tie between an autofluorescence peak and a
// genuine (but less dense) positive peak in favor of the higher-intensity
// one, since a single-stain control's negative population is usually denser
// than its positive one. bias is left for the caller to tune per §9's
// "KDE-based peak isolation parameters are not prescribed" note; 0 recovers
// plain highest-density selection.
//
// The retained window is refined by two rounds of MAD narrowing around the
// chosen peak position: the first pass uses a window of 2*IQR around the
// peak, shrunk to the distance of the nearer density valley when that is
// smaller, to estimate a robust spread, the second recomputes that spread on
// the already-narrowed set. If the second pass would retain fewer than 2
// events, the first pass's mask is kept instead (§9 robustness: a
// degenerate narrow-to-one-event result is discarded in favor of the wider
// set).
func IsolatePositivePeakMask(values []float64, kdeThreshold, bias float64) ([]bool, error) {
	mask := make([]bool, len(values))
	validIdx := make([]int, 0, len(values))
	valid := make([]float64, 0, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			validIdx = append(validIdx, i)
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return mask, ErrNoEvents
	}

	lo, hi := valid[0], valid[0]
	for _, v := range valid {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		hi = lo + 1
	}

	bandwidth, err := numeric.SilvermanBandwidth(valid)
	if err != nil {
		return nil, err
	}
	grid := numeric.LinearGrid(lo, hi, peakGridPoints)
	density, err := numeric.KDE1D(valid, grid, bandwidth)
	if err != nil {
		return nil, err
	}

	peakPos, peakIdx, err := choosePeak(grid, density, kdeThreshold, bias)
	if err != nil {
		return nil, err
	}

	iqr, err := numeric.IQR(valid)
	if err != nil {
		return nil, err
	}
	if iqr <= 0 {
		iqr = bandwidth
	}

	// Bound the initial window by the nearest density valleys on either
	// side of the peak, so a second, well-separated population does not
	// inflate the 2*IQR estimate the way a global spread measure would
	// (§9: "two-stage MAD windowing" narrows a window, it does not itself
	// say how wide the window starts; valley-bounding keeps an adjacent
	// population out of the very first pass).
	valleyRadius := valleyBoundRadius(grid, density, peakIdx)
	radius := 2 * iqr
	if valleyRadius > 0 && valleyRadius < radius {
		radius = valleyRadius
	}

	stage1 := windowAround(validIdx, valid, peakPos, radius)
	mad1, err := numeric.MAD(subset(valid, validIdx, stage1))
	if err != nil || mad1 <= 0 {
		mad1 = bandwidth
	}
	stage1 = windowAround(validIdx, valid, peakPos, 2*mad1)

	mad2, err := numeric.MAD(subset(valid, validIdx, stage1))
	if err != nil || mad2 <= 0 {
		mad2 = mad1
	}
	stage2 := windowAround(validIdx, valid, peakPos, 2*mad2)

	final := stage1
	if len(stage2) >= 2 {
		final = stage2
	}
	for _, idx := range final {
		mask[idx] = true
	}
	return mask, nil
}

// choosePeak finds local density maxima at or above kdeThreshold*max(density)
// and returns the grid position and index of the one maximizing
// density + bias*(normalized grid position). Falls back to the global
// density maximum if no local maximum clears the threshold.
func choosePeak(grid, density []float64, kdeThreshold, bias float64) (float64, int, error) {
	if len(grid) == 0 || len(density) == 0 {
		return 0, 0, ErrNoPeak
	}
	maxDensity := density[0]
	maxIdx := 0
	for i, d := range density {
		if d > maxDensity {
			maxDensity = d
			maxIdx = i
		}
	}
	if maxDensity <= 0 {
		return 0, 0, ErrNoPeak
	}

	type candidate struct {
		idx     int
		density float64
	}
	var candidates []candidate
	threshold := kdeThreshold * maxDensity
	for i := 1; i < len(density)-1; i++ {
		if density[i] > density[i-1] && density[i] > density[i+1] && density[i] >= threshold {
			candidates = append(candidates, candidate{idx: i, density: density[i]})
		}
	}
	if len(candidates) == 0 {
		return grid[maxIdx], maxIdx, nil
	}

	// Sort descending by density, insertion sort since the candidate count
	// is small (at most a few dozen local maxima in a 1024-point grid).
	for i := 1; i < len(candidates); i++ {
		c := candidates[i]
		j := i - 1
		for j >= 0 && candidates[j].density < c.density {
			candidates[j+1] = candidates[j]
			j--
		}
		candidates[j+1] = c
	}
	if len(candidates) > maxCandidatePeaks {
		candidates = candidates[:maxCandidatePeaks]
	}

	gridLo, gridHi := grid[0], grid[len(grid)-1]
	span := gridHi - gridLo
	if span <= 0 {
		span = 1
	}
	bestScore := math.Inf(-1)
	bestPos := grid[candidates[0].idx]
	bestIdx := candidates[0].idx
	for _, c := range candidates {
		normalized := (grid[c.idx] - gridLo) / span
		score := c.density + bias*normalized
		if score > bestScore {
			bestScore = score
			bestPos = grid[c.idx]
			bestIdx = c.idx
		}
	}
	return bestPos, bestIdx, nil
}

// valleyBoundRadius walks outward from peakIdx in both directions until
// density stops decreasing (a local minimum, i.e. a valley separating this
// peak from a neighboring population) or the grid edge is reached, and
// returns the distance in grid units to the nearer valley. Returns 0 if
// both valleys are at the grid edges (no separating valley found).
func valleyBoundRadius(grid, density []float64, peakIdx int) float64 {
	left := peakIdx
	for left > 0 && density[left-1] <= density[left] {
		left--
	}
	right := peakIdx
	for right < len(density)-1 && density[right+1] <= density[right] {
		right++
	}
	leftDist := grid[peakIdx] - grid[left]
	rightDist := grid[right] - grid[peakIdx]
	if left == 0 && right == len(density)-1 {
		return 0
	}
	if left == 0 {
		return rightDist
	}
	if right == len(density)-1 {
		return leftDist
	}
	if leftDist < rightDist {
		return leftDist
	}
	return rightDist
}

// windowAround returns the subset of validIdx whose value lies within
// radius of center.
func windowAround(validIdx []int, valid []float64, center, radius float64) []int {
	out := make([]int, 0, len(validIdx))
	for i, idx := range validIdx {
		if math.Abs(valid[i]-center) <= radius {
			out = append(out, idx)
		}
	}
	return out
}

// subset extracts the values of originalIdx (indices into the original
// values slice) from the parallel (validIdx, valid) arrays.
func subset(valid []float64, validIdx, originalIdx []int) []float64 {
	pos := make(map[int]int, len(validIdx))
	for i, idx := range validIdx {
		pos[idx] = i
	}
	out := make([]float64, 0, len(originalIdx))
	for _, idx := range originalIdx {
		out = append(out, valid[pos[idx]])
	}
	return out
}
