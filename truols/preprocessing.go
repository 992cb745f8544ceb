package truols

import (
	"fmt"

	"github.com/czarop/flowcyto/numeric"
	"gonum.org/v1/gonum/mat"
)

// unmixRows solves mixing*alpha = row for every row of obs (events x
// detectors), returning the events x endmembers abundance matrix. Used by
// both cutoff calculation and nonspecific-observation calculation, which
// both need the unstained control's per-event unmixed abundances against
// the *full*, unreduced mixing matrix (§4.D Preprocessing).
func unmixRows(mixing *mat.Dense, rows [][]float64) ([][]float64, error) {
	detectors, endmembers := mixing.Dims()
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != detectors {
			return nil, fmt.Errorf("truols: row %d has %d detectors, want %d: %w", i, len(row), detectors, ErrDimensionMismatch)
		}
		alpha, err := numeric.Solve(mixing, row)
		if err != nil {
			return nil, fmt.Errorf("truols: unmixing unstained row %d: %w", i, err)
		}
		if len(alpha) != endmembers {
			return nil, fmt.Errorf("truols: solver returned %d values, want %d endmembers: %w", len(alpha), endmembers, ErrDimensionMismatch)
		}
		out[i] = alpha
	}
	return out, nil
}

// CalculateCutoffs computes one cutoff per endmember from the unstained
// control: unmix every unstained event against the full mixing matrix, then
// for each endmember take the value at rank round((n-1)*percentile) of the
// ascending-sorted abundances (§4.D Cutoff calculator).
func CalculateCutoffs(mixing *mat.Dense, unstainedControl [][]float64, percentile float64) ([]float64, error) {
	if percentile < 0 || percentile > 1 {
		return nil, ErrInvalidPercentile
	}
	if len(unstainedControl) == 0 {
		return nil, ErrInsufficientData
	}

	abundances, err := unmixRows(mixing, unstainedControl)
	if err != nil {
		return nil, err
	}

	_, endmembers := mixing.Dims()
	cutoffs := make([]float64, endmembers)
	column := make([]float64, len(abundances))
	for k := 0; k < endmembers; k++ {
		for i, row := range abundances {
			column[i] = row[k]
		}
		cutoff, err := numeric.Percentile(column, percentile)
		if err != nil {
			return nil, err
		}
		cutoffs[k] = cutoff
	}
	return cutoffs, nil
}

// CalculateNonspecificObservation computes o_NS = M * mean(alpha_c), the
// mean unstained-control abundance vector (autofluorescence coordinate
// forced to zero) reprojected through the mixing matrix (§4.D Preprocessing,
// Nonspecific observation).
func CalculateNonspecificObservation(mixing *mat.Dense, unstainedControl [][]float64, autoIdx int) ([]float64, error) {
	detectors, endmembers := mixing.Dims()
	if autoIdx < 0 || autoIdx >= endmembers {
		return nil, ErrNoAutofluorescenceEndmember
	}
	if len(unstainedControl) == 0 {
		return nil, ErrInsufficientData
	}

	abundances, err := unmixRows(mixing, unstainedControl)
	if err != nil {
		return nil, err
	}

	meanAlpha := make([]float64, endmembers)
	for _, row := range abundances {
		for k, v := range row {
			if k == autoIdx {
				continue
			}
			meanAlpha[k] += v
		}
	}
	n := float64(len(abundances))
	for k := range meanAlpha {
		meanAlpha[k] /= n
	}
	meanAlpha[autoIdx] = 0

	observation := make([]float64, detectors)
	for d := 0; d < detectors; d++ {
		var sum float64
		for k := 0; k < endmembers; k++ {
			sum += mixing.At(d, k) * meanAlpha[k]
		}
		observation[d] = sum
	}
	return observation, nil
}

// unstainedAbundanceColumns transposes unmixRows' output into one slice per
// endmember, for use by the UnstainedControlMapping strategy's empirical CDF
// (§4.D Dataset unmix).
func unstainedAbundanceColumns(mixing *mat.Dense, unstainedControl [][]float64) ([][]float64, error) {
	abundances, err := unmixRows(mixing, unstainedControl)
	if err != nil {
		return nil, err
	}
	_, endmembers := mixing.Dims()
	columns := make([][]float64, endmembers)
	for k := 0; k < endmembers; k++ {
		col := make([]float64, len(abundances))
		for i, row := range abundances {
			col[i] = row[k]
		}
		columns[k] = col
	}
	return columns, nil
}
