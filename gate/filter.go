package gate

import (
	"fmt"
	"sync"

	"github.com/czarop/flowcyto/fcs"
)

// Gate binds a Geometry to the channels it tests against (ignored for
// Boolean geometry) and names its ancestors for cache-key construction.
type Gate struct {
	ID          string
	Geometry    Geometry
	XChannel    string
	YChannel    string
	ParentChain []string
}

// parallelThreshold is the event count above which Filter fans evaluation
// out across goroutines (§5 Concurrency: "Automated-gate evaluations:
// parallel per-event"; the same threshold convention used elsewhere).
const parallelThreshold = 4096

// Filterer evaluates gates against a table, consulting an optional
// FilterCache (§4.F).
type Filterer struct {
	cache FilterCache
}

// Option configures a Filterer.
type Option func(*Filterer)

// WithCache attaches a FilterCache so repeated filtering of the same gate
// against the same table and parent chain is served from cache.
func WithCache(cache FilterCache) Option {
	return func(f *Filterer) {
		f.cache = cache
	}
}

// NewFilterer builds a Filterer from options. With no WithCache option,
// every Filter call evaluates geometry fresh.
func NewFilterer(opts ...Option) *Filterer {
	f := &Filterer{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filter returns the event indices (a subset of parentIndices, in ascending
// order) admitted by gate. parentIndices is the set of indices that reached
// this gate from its parent (the whole table's indices for a root gate).
// For Boolean geometry, childResults must map each referenced child gate id
// to its own already-filtered index set (§4.F "combine index sets with the
// declared op").
func (f *Filterer) Filter(table *fcs.Table, g Gate, parentIndices []int, childResults map[string][]int) ([]int, error) {
	var fileGUID string
	if table != nil {
		fileGUID = table.GUID()
	}
	key := NewFilterCacheKey(fileGUID, g.ID, g.ParentChain)
	if f.cache != nil {
		if cached, ok := f.cache.Get(key); ok {
			return cached, nil
		}
	}

	var result []int
	var err error
	if g.Geometry.Kind == Boolean {
		result, err = evaluateBoolean(g.Geometry, parentIndices, childResults)
	} else {
		result, err = evaluateGeometry(table, g, parentIndices)
	}
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.cache.Insert(key, result)
	}
	return result, nil
}

func evaluateGeometry(table *fcs.Table, g Gate, parentIndices []int) ([]int, error) {
	pairs, err := table.XYPairs(g.XChannel, g.YChannel)
	if err != nil {
		return nil, err
	}

	admitted := make([]bool, len(parentIndices))
	evalChunk := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			idx := parentIndices[i]
			if idx < 0 || idx >= len(pairs) {
				continue
			}
			p := Point{X: float64(pairs[idx][0]), Y: float64(pairs[idx][1])}
			admitted[i] = g.Geometry.contains(p)
		}
	}

	if len(parentIndices) < parallelThreshold {
		evalChunk(0, len(parentIndices))
	} else {
		workers := 8
		chunk := (len(parentIndices) + workers - 1) / workers
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			lo := w * chunk
			hi := lo + chunk
			if hi > len(parentIndices) {
				hi = len(parentIndices)
			}
			if lo >= hi {
				continue
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				evalChunk(lo, hi)
			}(lo, hi)
		}
		wg.Wait()
	}

	out := make([]int, 0, len(parentIndices))
	for i, keep := range admitted {
		if keep {
			out = append(out, parentIndices[i])
		}
	}
	return out, nil
}

func evaluateBoolean(g Geometry, parentIndices []int, childResults map[string][]int) ([]int, error) {
	sets := make([]map[int]bool, 0, len(g.Children))
	for _, child := range g.Children {
		indices, ok := childResults[child]
		if !ok {
			return nil, fmt.Errorf("gate: %s: %w", child, ErrUnknownChild)
		}
		set := make(map[int]bool, len(indices))
		for _, idx := range indices {
			set[idx] = true
		}
		sets = append(sets, set)
	}

	var out []int
	switch g.Op {
	case Not:
		excluded := sets[0]
		for _, idx := range parentIndices {
			if !excluded[idx] {
				out = append(out, idx)
			}
		}
	case And:
		for _, idx := range parentIndices {
			all := true
			for _, set := range sets {
				if !set[idx] {
					all = false
					break
				}
			}
			if all {
				out = append(out, idx)
			}
		}
	case Or:
		for _, idx := range parentIndices {
			any := false
			for _, set := range sets {
				if set[idx] {
					any = true
					break
				}
			}
			if any {
				out = append(out, idx)
			}
		}
	}
	return out, nil
}
