package truols

import (
	"fmt"
	"sync"

	"github.com/czarop/flowcyto/numeric"
)

// UnmixDataset unmixes every row of dataset (events x detectors) and
// returns a dense events x endmembers abundance matrix, row-major. Removed
// endmembers are filled according to the configured Strategy. Per §4.D
// "all-or-nothing per call": if any event fails, the call fails and no
// partial matrix is returned (§7 Error handling design).
//
// Events are processed in parallel goroutines when len(dataset) exceeds
// parallelThreshold; results are written by event index into a
// preallocated matrix so output is identical regardless of how work was
// partitioned (§5 Ordering).
func (e *Engine) UnmixDataset(dataset [][]float64) ([][]float64, error) {
	_, endmembers := e.mixing.Dims()
	results := make([]EventResult, len(dataset))
	errs := make([]error, len(dataset))

	unmixRange := func(start, end int) {
		for i := start; i < end; i++ {
			r, err := e.UnmixEvent(dataset[i])
			if err != nil {
				if are, ok := err.(*AllEndmembersRemovedError); ok {
					are.EventIndex = i
				}
				errs[i] = fmt.Errorf("truols: event %d: %w", i, err)
				continue
			}
			results[i] = r
		}
	}

	if len(dataset) > parallelThreshold {
		workers := 8
		chunk := (len(dataset) + workers - 1) / workers
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			start := w * chunk
			end := start + chunk
			if start >= len(dataset) {
				break
			}
			if end > len(dataset) {
				end = len(dataset)
			}
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				unmixRange(start, end)
			}(start, end)
		}
		wg.Wait()
	} else {
		unmixRange(0, len(dataset))
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make([][]float64, len(dataset))
	for i, r := range results {
		row := make([]float64, endmembers)
		for local, global := range r.RelevantIndices {
			row[global] = r.Abundances[local]
		}
		out[i] = row
	}

	if e.strategy == StrategyUnstainedControlMapping {
		e.applyUnstainedControlMapping(out, results)
	}

	return out, nil
}

// applyUnstainedControlMapping fills every removed entry by mapping its
// pre-removal alpha through the empirical CDF of that endmember's
// unstained-control abundance and reading back the value at the same
// percentile of that same distribution. This keeps removed entries inside
// the plausible noise range for their endmember rather than hard-zeroing
// them, while degrading to zero if the endmember has no unstained samples
// (§4.D Dataset unmix, UnstainedControlMapping; Open Question 3).
func (e *Engine) applyUnstainedControlMapping(out [][]float64, results []EventResult) {
	for i, r := range results {
		for _, rem := range r.Removed {
			samples := e.unstainedColumns[rem.Index]
			if len(samples) == 0 {
				out[i][rem.Index] = 0
				continue
			}
			cdf := numeric.EmpiricalCDF(samples)
			p := cdf(rem.Alpha)
			mapped, err := numeric.Quantile(samples, p)
			if err != nil {
				out[i][rem.Index] = 0
				continue
			}
			out[i][rem.Index] = mapped
		}
	}
}
