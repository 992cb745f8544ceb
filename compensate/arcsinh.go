package compensate

import (
	"fmt"
	"math"
	"sync"

	"github.com/czarop/flowcyto/fcs"
)

// DefaultCofactor is the arcsinh cofactor applied when no explicit value is
// given (§4.C Arcsinh transform).
const DefaultCofactor = 200.0

var ln10 = math.Log(10)

// ArcsinhValues applies asinh(x/cofactor)/ln(10) to a bare slice, without an
// owning Table. Used by the signature builder, which needs arcsinh-space
// values for peak isolation and geometric-mean pooling without mutating a
// whole table column.
func ArcsinhValues(values []float32, cofactor float64) []float32 {
	return arcsinhColumn(values, cofactor)
}

// ArcsinhTransform replaces channel's values with asinh(x/cofactor)/ln(10),
// computed in parallel per event (§4.C Arcsinh transform).
func ArcsinhTransform(table *fcs.Table, channel string, cofactor float64) (*fcs.Table, error) {
	col, err := table.Column(channel)
	if err != nil {
		return nil, fmt.Errorf("compensate: ArcsinhTransform: %w", err)
	}
	out := arcsinhColumn(col, cofactor)
	return table.WithColumn(channel, out)
}

// ApplyDefaultArcsinhTransform applies ArcsinhTransform with DefaultCofactor
// to every fluorescence channel (§3 is_fluorescence, §4.C).
func ApplyDefaultArcsinhTransform(table *fcs.Table) (*fcs.Table, error) {
	replacements := make(map[string][]float32)
	for _, name := range table.ChannelNames() {
		if !fcs.IsFluorescence(name) {
			continue
		}
		col, err := table.Column(name)
		if err != nil {
			return nil, fmt.Errorf("compensate: ApplyDefaultArcsinhTransform: %w", err)
		}
		replacements[name] = arcsinhColumn(col, DefaultCofactor)
	}
	if len(replacements) == 0 {
		return table, nil
	}
	return table.WithColumns(replacements)
}

func arcsinhColumn(col []float32, cofactor float64) []float32 {
	out := make([]float32, len(col))
	workers := 1
	if len(col) >= 4096 {
		workers = 4
	}
	if workers == 1 {
		for i, v := range col {
			out[i] = float32(math.Asinh(float64(v)/cofactor) / ln10)
		}
		return out
	}
	chunk := (len(col) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= len(col) {
			break
		}
		if end > len(col) {
			end = len(col)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = float32(math.Asinh(float64(col[i])/cofactor) / ln10)
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// InverseArcsinh undoes the arcsinh/ln10 transform: sinh(x*ln10)*cofactor.
// Used by spectral unmixing, which operates in linear space: inverse-arcsinh
// -> matrix-inverse multiply -> re-arcsinh (§4.C).
func InverseArcsinh(col []float32, cofactor float64) []float32 {
	out := make([]float32, len(col))
	for i, v := range col {
		out[i] = float32(math.Sinh(float64(v)*ln10) * cofactor)
	}
	return out
}
