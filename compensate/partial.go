package compensate

import (
	"fmt"
	"strings"

	"github.com/czarop/flowcyto/fcs"
	"github.com/czarop/flowcyto/numeric"
	"gonum.org/v1/gonum/mat"
)

// Partial computes lazy partial compensation: only the sub-matrix touching
// the requested channels is inverted, so plotting a handful of channels out
// of a large panel never inverts the full spillover matrix (§4.C Lazy
// partial compensation — "a hard requirement").
//
// Algorithm: seed the "involved" detector set from the spillover rows of
// every requested channel; for a sparse matrix (>80% near-zero entries)
// restrict those rows to their non-zero columns, for a dense matrix include
// every column. Extract, invert, and compensate only that sub-matrix.
func Partial(table *fcs.Table, sm *fcs.SpilloverMatrix, requested []string) (map[string][]float32, error) {
	if IsIdentity(sm) {
		out := make(map[string][]float32, len(requested))
		for _, name := range requested {
			if sm != nil {
				covered := false
				for _, n := range sm.Names {
					if strings.EqualFold(n, name) {
						covered = true
						break
					}
				}
				if !covered {
					return nil, fmt.Errorf("compensate: Partial: %s: %w", name, ErrNoOverlap)
				}
			}
			col, err := table.Column(name)
			if err != nil {
				return nil, fmt.Errorf("compensate: Partial: %w", err)
			}
			out[name] = append([]float32(nil), col...)
		}
		return out, nil
	}

	nameIndex := make(map[string]int, len(sm.Names))
	for i, n := range sm.Names {
		nameIndex[strings.ToUpper(n)] = i
	}

	requestedIdx := make([]int, 0, len(requested))
	for _, r := range requested {
		idx, ok := nameIndex[strings.ToUpper(r)]
		if !ok {
			return nil, fmt.Errorf("compensate: Partial: %s: %w", r, ErrNoOverlap)
		}
		requestedIdx = append(requestedIdx, idx)
	}

	dense := denseFrom(sm)
	n := len(sm.Names)
	sparse := numeric.SparsityFraction(dense, identityTolerance) > sparseThreshold

	involved := make(map[int]bool)
	for _, r := range requestedIdx {
		involved[r] = true
		if sparse {
			for j := 0; j < n; j++ {
				if dense.At(r, j) > identityTolerance || dense.At(r, j) < -identityTolerance {
					involved[j] = true
				}
			}
		} else {
			for j := 0; j < n; j++ {
				involved[j] = true
			}
		}
	}

	involvedIdx := sortedKeys(involved)
	sub := extractSubmatrix(dense, involvedIdx)
	inv, err := numeric.Invert(sub)
	if err != nil {
		return nil, fmt.Errorf("compensate: Partial: %w", err)
	}

	m := len(involvedIdx)
	inputs := make([][]float32, m)
	for k, globalIdx := range involvedIdx {
		col, err := table.Column(sm.Names[globalIdx])
		if err != nil {
			return nil, fmt.Errorf("compensate: Partial: %w", err)
		}
		inputs[k] = col
	}

	localOf := make(map[int]int, m)
	for k, g := range involvedIdx {
		localOf[g] = k
	}

	events := table.Height()
	out := make(map[string][]float32, len(requestedIdx))
	for _, r := range requestedIdx {
		lr := localOf[r]
		vals := make([]float32, events)
		for e := 0; e < events; e++ {
			var sum float64
			for k := 0; k < m; k++ {
				sum += inv.At(lr, k) * float64(inputs[k][e])
			}
			vals[e] = float32(sum)
		}
		out[sm.Names[r]] = vals
	}
	return out, nil
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	// Insertion sort: involved sets stay small (bounded by panel size).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func extractSubmatrix(dense *mat.Dense, indices []int) *mat.Dense {
	n := len(indices)
	data := make([]float64, n*n)
	for i, gi := range indices {
		for j, gj := range indices {
			data[i*n+j] = dense.At(gi, gj)
		}
	}
	return mat.NewDense(n, n, data)
}
