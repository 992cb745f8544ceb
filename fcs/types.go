package fcs

import "strings"

// TransformKind is the default display transform recorded for a parameter.
type TransformKind int

const (
	// TransformLinear is the default when $PnE is absent or "0,0".
	TransformLinear TransformKind = iota
	// TransformArcsinh records a non-trivial $PnE amplification as an
	// arcsinh display transform with the given cofactor.
	TransformArcsinh
)

// DisplayTransform pairs a transform kind with its cofactor (meaningful only
// for TransformArcsinh).
type DisplayTransform struct {
	Kind     TransformKind
	Cofactor float64
}

// ParameterMeta is the per-channel metadata carried alongside a Table
// column (§3 Parameter metadata).
type ParameterMeta struct {
	Index             int // 1-based, matches $PnN ordinal n
	ShortName         string
	Label             string // $PnS, optional biological label
	DefaultTransform  DisplayTransform
	ExcitationNm      *float64 // optional excitation wavelength
}

// IsFluorescence reports whether a channel is treated as a fluorescence
// detector: not FSC/SSC-prefixed and not named Time, case-insensitively.
func IsFluorescence(shortName string) bool {
	upper := strings.ToUpper(shortName)
	if strings.HasPrefix(upper, "FSC") || strings.HasPrefix(upper, "SSC") {
		return false
	}
	return upper != "TIME"
}

// SpilloverMatrix is the parsed $SPILLOVER/$SPILL block: an n x n row-major
// matrix of expected signal, keyed by the ordered detector names it was
// declared over (§3 Spillover / mixing matrix).
type SpilloverMatrix struct {
	Names  []string
	Values []float64 // row-major, len == len(Names)^2
}

// Table is an immutable, shared-read columnar event table (§3 Event table).
// Columns are stored behind a shared slice so cloning a Table (e.g. to
// produce a transformed variant) is O(columns) regardless of event count;
// only columns that actually change are reallocated.
type Table struct {
	version    string
	order      []string            // canonical (uppercased) channel order, parameter order from file
	display    []string            // display-cased channel names, parallel to order
	columns    map[string][]float32 // keyed by canonical (uppercased) name
	params     []ParameterMeta     // parallel to order
	keywords   map[string]string   // canonical (uppercased) keyword -> raw value
	keywordOrder []string
	guid       string
	spillover  *SpilloverMatrix
}

func canon(name string) string { return strings.ToUpper(strings.TrimSpace(name)) }
