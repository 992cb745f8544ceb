package truols

import (
	"fmt"

	"github.com/czarop/flowcyto/numeric"
	"gonum.org/v1/gonum/mat"
)

// Strategy selects how removed (below-cutoff) endmember abundances are
// represented in dataset output (§4.D Dataset unmix).
type Strategy int

const (
	// StrategyZero leaves removed entries at zero.
	StrategyZero Strategy = iota
	// StrategyUnstainedControlMapping maps each removed abundance through
	// the empirical CDF of that endmember's unstained-control abundance, as
	// supplemented from the original UCM design (§4.D; Open Question 3).
	StrategyUnstainedControlMapping
)

// DefaultCutoffPercentile is the percentile used when none is given (§4.D).
const DefaultCutoffPercentile = 0.995

// parallelThreshold is the event count above which Engine.UnmixDataset fans
// out per-event work across goroutines (§5 Concurrency).
const parallelThreshold = 10_000

// EventResult is the outcome of unmixing a single event (§4.D Per-event
// unmix).
type EventResult struct {
	Abundances      []float64 // one entry per surviving endmember, local order
	RelevantIndices []int     // global endmember index for each entry of Abundances
	Removed         []RemovedEndmember
}

// RemovedEndmember records an endmember's abundance at the moment it was
// dropped for falling below its cutoff.
type RemovedEndmember struct {
	Index int
	Alpha float64
}

// Engine is a configured TRU-OLS instance: a fixed mixing matrix plus
// preprocessed cutoffs and nonspecific observation (§4.D).
type Engine struct {
	mixing              *mat.Dense
	cutoffs             []float64
	nonspecific         []float64
	autoIdx             int
	strategy            Strategy
	unstainedColumns    [][]float64 // per-endmember unstained abundances, for UCM
}

// NewEngine builds an Engine from a mixing matrix, an unstained control
// (events x detectors), and the autofluorescence endmember's column index.
// Cutoffs use DefaultCutoffPercentile and the strategy defaults to
// StrategyZero (§4.D "TruOls::new").
func NewEngine(mixing *mat.Dense, unstainedControl [][]float64, autoIdx int) (*Engine, error) {
	cutoffs, err := CalculateCutoffs(mixing, unstainedControl, DefaultCutoffPercentile)
	if err != nil {
		return nil, err
	}
	nonspecific, err := CalculateNonspecificObservation(mixing, unstainedControl, autoIdx)
	if err != nil {
		return nil, err
	}
	unstainedColumns, err := unstainedAbundanceColumns(mixing, unstainedControl)
	if err != nil {
		return nil, err
	}

	return &Engine{
		mixing:           mixing,
		cutoffs:          cutoffs,
		nonspecific:      nonspecific,
		autoIdx:          autoIdx,
		strategy:         StrategyZero,
		unstainedColumns: unstainedColumns,
	}, nil
}

// SetCutoffPercentile recalculates cutoffs from unstainedControl at the
// given percentile.
func (e *Engine) SetCutoffPercentile(percentile float64, unstainedControl [][]float64) error {
	cutoffs, err := CalculateCutoffs(e.mixing, unstainedControl, percentile)
	if err != nil {
		return err
	}
	e.cutoffs = cutoffs
	return nil
}

// SetStrategy changes how removed abundances are filled in by UnmixDataset.
// This does not require re-running the per-event solver (§4.D "Strategy is
// set independently of the solver").
func (e *Engine) SetStrategy(s Strategy) { e.strategy = s }

// Cutoffs returns the currently configured per-endmember cutoffs.
func (e *Engine) Cutoffs() []float64 { return append([]float64(nil), e.cutoffs...) }

// UnmixEvent unmixes a single observation vector, iteratively removing
// endmembers whose abundance falls below their cutoff until the surviving
// system is stable (§4.D Per-event unmix).
func (e *Engine) UnmixEvent(observation []float64) (EventResult, error) {
	detectors, endmembers := e.mixing.Dims()
	if len(observation) != detectors {
		return EventResult{}, fmt.Errorf("truols: observation has %d values, want %d: %w", len(observation), detectors, ErrDimensionMismatch)
	}

	adjusted := make([]float64, detectors)
	for i := range observation {
		adjusted[i] = observation[i] - e.nonspecific[i]
	}

	currentIndices := make([]int, endmembers)
	for i := range currentIndices {
		currentIndices[i] = i
	}
	currentMatrix := e.mixing
	var removed []RemovedEndmember

	for {
		abundances, err := numeric.Solve(currentMatrix, adjusted)
		if err != nil {
			return EventResult{}, fmt.Errorf("truols: %w", err)
		}

		// Mark endmembers below cutoff (never the autofluorescence column),
		// in ascending global-index order so removal order is deterministic.
		var toRemoveLocal []int
		for local, global := range currentIndices {
			if global == e.autoIdx {
				continue
			}
			if abundances[local] < e.cutoffs[global] {
				toRemoveLocal = append(toRemoveLocal, local)
			}
		}

		if len(toRemoveLocal) == 0 {
			return EventResult{Abundances: abundances, RelevantIndices: currentIndices, Removed: removed}, nil
		}

		removeSet := make(map[int]bool, len(toRemoveLocal))
		for _, local := range toRemoveLocal {
			removeSet[local] = true
			removed = append(removed, RemovedEndmember{Index: currentIndices[local], Alpha: abundances[local]})
		}

		keepLocal := make([]int, 0, len(currentIndices)-len(toRemoveLocal))
		for local := range currentIndices {
			if !removeSet[local] {
				keepLocal = append(keepLocal, local)
			}
		}

		if len(keepLocal) == 0 {
			return EventResult{}, &AllEndmembersRemovedError{EventIndex: -1}
		}

		newIndices := make([]int, len(keepLocal))
		rows, _ := currentMatrix.Dims()
		newData := make([]float64, rows*len(keepLocal))
		for j, local := range keepLocal {
			newIndices[j] = currentIndices[local]
			for r := 0; r < rows; r++ {
				newData[r*len(keepLocal)+j] = currentMatrix.At(r, local)
			}
		}
		currentMatrix = mat.NewDense(rows, len(keepLocal), newData)
		currentIndices = newIndices
	}
}
