package numeric

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// SilvermanBandwidth returns Silverman's rule-of-thumb bandwidth for
// Gaussian KDE: 0.9 * min(std, IQR/1.34) * n^(-1/5).
func SilvermanBandwidth(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, ErrEmptyInput
	}
	n := len(values)
	_, std := meanStdDev(values)
	iqr, err := IQR(values)
	if err != nil {
		return 0, err
	}
	spread := std
	if iqr > 0 && iqr/1.34 < spread {
		spread = iqr / 1.34
	}
	if spread <= 0 {
		spread = std
	}
	if spread <= 0 {
		spread = 1
	}
	bw := 0.9 * spread * math.Pow(float64(n), -0.2)
	if bw <= 0 {
		return 0, ErrInvalidBandwidth
	}
	return bw, nil
}

func meanStdDev(values []float64) (mean, std float64) {
	n := float64(len(values))
	for _, v := range values {
		mean += v
	}
	mean /= n
	for _, v := range values {
		d := v - mean
		std += d * d
	}
	if n > 1 {
		std = math.Sqrt(std / (n - 1))
	}
	return mean, std
}

func gaussianKernel(u float64) float64 {
	return math.Exp(-0.5*u*u) / math.Sqrt(2*math.Pi)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// KDE1D evaluates a Gaussian kernel density estimate of data on grid, using
// FFT convolution for O(n log n) performance (§4.I, §9 FFT KDE).
//
// Algorithm (mirrors original_source/utils/src/kde/fft.rs):
//  1. Bin data onto the grid.
//  2. Build a symmetric Gaussian kernel centered on the grid.
//  3. Zero-pad both to the next power of two ≥ 2*len(grid) to avoid
//     circular-convolution wraparound.
//  4. Real FFT both, multiply pointwise, inverse FFT.
//  5. Extract the centered window and normalize by (fftSize * n * bandwidth).
func KDE1D(data, grid []float64, bandwidth float64) ([]float64, error) {
	m := len(grid)
	if m < 2 {
		return nil, ErrGridTooSmall
	}
	if bandwidth <= 0 {
		return nil, ErrInvalidBandwidth
	}
	gridMin, gridMax := grid[0], grid[m-1]
	spacing := (gridMax - gridMin) / float64(m-1)
	if spacing <= 0 {
		return nil, ErrInvalidBandwidth
	}

	binned := make([]float64, m)
	validN := 0
	for _, x := range data {
		if math.IsNaN(x) {
			continue
		}
		validN++
		idx := int(math.Floor((x - gridMin) / spacing))
		if idx >= 0 && idx < m {
			binned[idx]++
		}
	}
	if validN == 0 {
		return make([]float64, m), nil
	}

	kernelCenter := float64(m-1) / 2
	kernel := make([]float64, m)
	for i := 0; i < m; i++ {
		pos := (float64(i) - kernelCenter) * spacing
		kernel[i] = gaussianKernel(pos / bandwidth)
	}

	fftSize := nextPow2(2 * m)

	binnedPadded := make([]float64, fftSize)
	copy(binnedPadded, binned)

	kernelPadded := make([]float64, fftSize)
	kernelStart := m / 2
	firstHalf := (m + 1) / 2
	copy(kernelPadded[kernelStart:kernelStart+firstHalf], kernel[m/2:])
	secondHalf := m / 2
	if secondHalf > 0 {
		copy(kernelPadded[:secondHalf], kernel[:secondHalf])
	}

	fft := fourier.NewFFT(fftSize)
	binnedSpectrum := fft.Coefficients(nil, binnedPadded)
	kernelSpectrum := fft.Coefficients(nil, kernelPadded)

	convSpectrum := make([]complex128, len(binnedSpectrum))
	for i := range convSpectrum {
		convSpectrum[i] = binnedSpectrum[i] * kernelSpectrum[i]
	}

	convResult := fft.Sequence(nil, convSpectrum)

	density := make([]float64, m)
	denom := float64(fftSize) * float64(validN) * bandwidth
	for i := 0; i < m; i++ {
		idx := (kernelStart + i) % fftSize
		density[i] = convResult[idx] / denom
	}
	return density, nil
}

// KDE2D evaluates a 2D density estimate on a gridX×gridY grid by smoothing
// the 2D histogram of (x, y) along each axis in turn with KDE1D and
// renormalizing. This is the approximation §9 explicitly sanctions in place
// of a true 2D FFT convolution: "two sequential 1D smooths along each axis
// followed by renormalization".
//
// Returns a row-major density matrix of shape len(gridY) x len(gridX): grid[iy*len(gridX)+ix].
func KDE2D(xs, ys, gridX, gridY []float64, bwX, bwY float64) ([]float64, error) {
	nx, ny := len(gridX), len(gridY)
	if nx < 2 || ny < 2 {
		return nil, ErrGridTooSmall
	}
	if len(xs) != len(ys) {
		return nil, ErrDimensionMismatch
	}
	if bwX <= 0 || bwY <= 0 {
		return nil, ErrInvalidBandwidth
	}

	// Step 1: 2D histogram onto the grid.
	hist := make([]float64, nx*ny)
	spacingX := (gridX[nx-1] - gridX[0]) / float64(nx-1)
	spacingY := (gridY[ny-1] - gridY[0]) / float64(ny-1)
	validN := 0
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		ix := int(math.Floor((xs[i] - gridX[0]) / spacingX))
		iy := int(math.Floor((ys[i] - gridY[0]) / spacingY))
		if ix < 0 || ix >= nx || iy < 0 || iy >= ny {
			continue
		}
		hist[iy*nx+ix]++
		validN++
	}
	if validN == 0 {
		return hist, nil
	}

	// Step 2: smooth each row along X.
	rowSmoothed := make([]float64, nx*ny)
	for iy := 0; iy < ny; iy++ {
		row := hist[iy*nx : iy*nx+nx]
		smoothed, err := kde1DOverCounts(row, gridX, bwX)
		if err != nil {
			return nil, err
		}
		copy(rowSmoothed[iy*nx:iy*nx+nx], smoothed)
	}

	// Step 3: smooth each column along Y.
	colBuf := make([]float64, ny)
	out := make([]float64, nx*ny)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			colBuf[iy] = rowSmoothed[iy*nx+ix]
		}
		smoothed, err := kde1DOverCounts(colBuf, gridY, bwY)
		if err != nil {
			return nil, err
		}
		for iy := 0; iy < ny; iy++ {
			out[iy*nx+ix] = smoothed[iy]
		}
	}

	// Step 4: renormalize so the grid sums to the total mass of validN.
	sum := 0.0
	for _, v := range out {
		sum += v
	}
	if sum > 0 {
		scale := float64(validN) / sum
		for i := range out {
			out[i] *= scale
		}
	}
	return out, nil
}

// kde1DOverCounts smooths an already-binned count vector with a Gaussian
// kernel via the same FFT-convolution machinery as KDE1D, without rebinning
// raw samples. Used by KDE2D's per-axis smoothing pass.
func kde1DOverCounts(counts, grid []float64, bandwidth float64) ([]float64, error) {
	m := len(grid)
	spacing := (grid[m-1] - grid[0]) / float64(m-1)
	kernelCenter := float64(m-1) / 2
	kernel := make([]float64, m)
	for i := 0; i < m; i++ {
		pos := (float64(i) - kernelCenter) * spacing
		kernel[i] = gaussianKernel(pos / bandwidth)
	}

	fftSize := nextPow2(2 * m)
	countsPadded := make([]float64, fftSize)
	copy(countsPadded, counts)

	kernelPadded := make([]float64, fftSize)
	kernelStart := m / 2
	firstHalf := (m + 1) / 2
	copy(kernelPadded[kernelStart:kernelStart+firstHalf], kernel[m/2:])
	secondHalf := m / 2
	if secondHalf > 0 {
		copy(kernelPadded[:secondHalf], kernel[:secondHalf])
	}

	fft := fourier.NewFFT(fftSize)
	countsSpectrum := fft.Coefficients(nil, countsPadded)
	kernelSpectrum := fft.Coefficients(nil, kernelPadded)
	convSpectrum := make([]complex128, len(countsSpectrum))
	for i := range convSpectrum {
		convSpectrum[i] = countsSpectrum[i] * kernelSpectrum[i]
	}
	convResult := fft.Sequence(nil, convSpectrum)

	out := make([]float64, m)
	for i := 0; i < m; i++ {
		idx := (kernelStart + i) % fftSize
		out[i] = convResult[idx] / float64(fftSize)
	}
	return out, nil
}

// LinearGrid returns n evenly spaced points from lo to hi, inclusive.
func LinearGrid(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	grid := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n; i++ {
		grid[i] = lo + step*float64(i)
	}
	return grid
}
