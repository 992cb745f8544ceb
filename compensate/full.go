package compensate

import (
	"fmt"
	"sync"

	"github.com/czarop/flowcyto/fcs"
	"github.com/czarop/flowcyto/numeric"
)

// Full computes the full-matrix compensation of table against spillover
// sm, replacing the n channels sm declares with compensated values and
// leaving every other column untouched (§4.C Full compensation).
//
// If sm is within tolerance of the identity matrix, table is returned
// unchanged (Identity detection). Otherwise inverse(M) is computed once and
// each output channel is produced by a dedicated goroutine, matching "in
// parallel over channels" (§5 Concurrency: one task per output channel).
func Full(table *fcs.Table, sm *fcs.SpilloverMatrix) (*fcs.Table, error) {
	if IsIdentity(sm) {
		return table, nil
	}

	n := len(sm.Names)
	inputs := make([][]float32, n)
	for i, name := range sm.Names {
		col, err := table.Column(name)
		if err != nil {
			return nil, fmt.Errorf("compensate: Full: %w", err)
		}
		inputs[i] = col
	}

	inv, err := numeric.Invert(denseFrom(sm))
	if err != nil {
		return nil, fmt.Errorf("compensate: Full: %w", err)
	}

	events := table.Height()
	outputs := make([][]float32, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		outputs[i] = make([]float32, events)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out := outputs[i]
			for e := 0; e < events; e++ {
				var sum float64
				for j := 0; j < n; j++ {
					sum += inv.At(i, j) * float64(inputs[j][e])
				}
				out[e] = float32(sum)
			}
		}(i)
	}
	wg.Wait()

	replacements := make(map[string][]float32, n)
	for i, name := range sm.Names {
		replacements[name] = outputs[i]
	}
	return table.WithColumns(replacements)
}
