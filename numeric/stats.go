package numeric

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile returns the value at rank round((n-1)*p) of the ascending sort
// of values, matching the cutoff-calculator rule of §4.D (not gonum's
// interpolated stat.Quantile, which the spec does not ask for). p must lie
// in [0, 1].
//
// Complexity: O(n log n).
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	if p < 0 || p > 1 {
		return 0, ErrInvalidPercentile
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(math.Round(float64(len(sorted)-1) * p))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx], nil
}

// Median returns the 50th percentile via gonum's sorted-quantile estimator.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil), nil
}

// MAD returns the median absolute deviation from the median, unscaled.
// Callers that want the normal-consistent estimator multiply by 1.4826
// themselves (as §4.I's RatioMAD doublet detector does).
func MAD(values []float64) (float64, error) {
	med, err := Median(values)
	if err != nil {
		return 0, err
	}
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - med)
	}
	return Median(deviations)
}

// GeometricMean returns the geometric mean of strictly-positive values. To
// support arcsinh-space signals that may be zero or negative, values are
// clamped to a small positive floor before taking the log, matching the
// signature builder's need to operate on arcsinh-transformed intensities
// (§4.E).
func GeometricMean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	const floor = 1e-9
	sum := 0.0
	for _, v := range values {
		x := v
		if x < floor {
			x = floor
		}
		sum += math.Log(x)
	}
	return math.Exp(sum / float64(len(values))), nil
}

// IQR returns the interquartile range (Q3 - Q1) via the empirical quantile
// estimator.
func IQR(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	return q3 - q1, nil
}

// ColumnStats holds the (min, max, mean, sample standard deviation) summary
// the FCS reader returns for a numeric column (§4.B Statistics).
type ColumnStats struct {
	Min, Max, Mean, Std float64
}

// Describe computes ColumnStats over values. Sample standard deviation uses
// Bessel's correction (n-1 denominator) via gonum's stat.MeanStdDev.
func Describe(values []float32) (ColumnStats, error) {
	if len(values) == 0 {
		return ColumnStats{}, ErrEmptyInput
	}
	f64 := make([]float64, len(values))
	min, max := float64(values[0]), float64(values[0])
	for i, v := range values {
		f64[i] = float64(v)
		if f64[i] < min {
			min = f64[i]
		}
		if f64[i] > max {
			max = f64[i]
		}
	}
	mean, std := stat.MeanStdDev(f64, nil)
	return ColumnStats{Min: min, Max: max, Mean: mean, Std: std}, nil
}

// EmpiricalCDF returns a function mapping a value to the fraction of sorted
// samples strictly below it. Used by the UnstainedControlMapping removal
// strategy (§4.D) to remap a removed endmember's abundance through the
// unstained control's own empirical distribution.
func EmpiricalCDF(samples []float64) func(x float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	n := len(sorted)
	return func(x float64) float64 {
		if n == 0 {
			return 0
		}
		idx := sort.SearchFloat64s(sorted, x)
		return float64(idx) / float64(n)
	}
}

// Quantile returns the empirical-quantile estimate of values at probability
// p, used to invert EmpiricalCDF (sampling a value at a given percentile).
func Quantile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil), nil
}
