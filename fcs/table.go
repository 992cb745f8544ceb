package fcs

import (
	"fmt"

	"github.com/czarop/flowcyto/numeric"
)

// Height returns the event count (every column shares this length by
// construction).
func (t *Table) Height() int {
	if len(t.order) == 0 {
		return 0
	}
	return len(t.columns[t.order[0]])
}

// Width returns the parameter (channel) count.
func (t *Table) Width() int { return len(t.order) }

// Version returns the FCS version tag read from the header (e.g. "FCS3.1").
func (t *Table) Version() string { return t.version }

// GUID returns the file's declared or synthesized globally-unique identifier.
func (t *Table) GUID() string { return t.guid }

// ChannelNames returns the channel names in parameter order, in their
// original (not uppercased) casing.
func (t *Table) ChannelNames() []string {
	out := make([]string, len(t.display))
	copy(out, t.display)
	return out
}

// Parameters returns the per-channel metadata in parameter order.
func (t *Table) Parameters() []ParameterMeta {
	out := make([]ParameterMeta, len(t.params))
	copy(out, t.params)
	return out
}

// Keyword performs a case-insensitive lookup of a raw TEXT keyword.
func (t *Table) Keyword(name string) (string, bool) {
	v, ok := t.keywords[canon(name)]
	return v, ok
}

// Spillover returns the parsed spillover matrix, if the file declared one.
func (t *Table) Spillover() (*SpilloverMatrix, bool) {
	return t.spillover, t.spillover != nil
}

// Column returns the shared column slice for name (case-insensitive).
// Callers must not mutate the returned slice: tables are immutable and
// multiple Table handles may share the same backing array.
func (t *Table) Column(name string) ([]float32, error) {
	col, ok := t.columns[canon(name)]
	if !ok {
		return nil, fmt.Errorf("fcs: %s: %w", name, ErrNoSuchChannel)
	}
	return col, nil
}

// HasColumn reports whether name names a channel, case-insensitively.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[canon(name)]
	return ok
}

// Statistics returns (min, max, mean, sample standard deviation) for a
// column (§4.B Public contract).
func (t *Table) Statistics(name string) (numeric.ColumnStats, error) {
	col, err := t.Column(name)
	if err != nil {
		return numeric.ColumnStats{}, err
	}
	return numeric.Describe(col)
}

// XYPairs returns the (x, y) values of two columns zipped by index. Fails
// with ErrNonContiguousColumn if the columns differ in length, which would
// indicate table corruption since every column of a Table is built with the
// same event count.
func (t *Table) XYPairs(x, y string) ([][2]float32, error) {
	xs, err := t.Column(x)
	if err != nil {
		return nil, err
	}
	ys, err := t.Column(y)
	if err != nil {
		return nil, err
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("fcs: xy_pairs(%s, %s): %d vs %d events: %w", x, y, len(xs), len(ys), ErrNonContiguousColumn)
	}
	pairs := make([][2]float32, len(xs))
	for i := range xs {
		pairs[i] = [2]float32{xs[i], ys[i]}
	}
	return pairs, nil
}

// FilterRange returns a new Table containing only the events whose value in
// column name lies in [lo, hi] inclusive. Every column is re-sliced to the
// surviving rows; parameter metadata, keywords, and spillover are shared
// unchanged with the source table (§4.B Public contract, §9 shared
// ownership).
func (t *Table) FilterRange(name string, lo, hi float32) (*Table, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	keep := make([]int, 0, len(col))
	for i, v := range col {
		if v >= lo && v <= hi {
			keep = append(keep, i)
		}
	}
	return t.selectRows(keep), nil
}

// SelectIndices returns a new Table containing only the given event
// indices, in the given order. Used by gate filtering and by the signature
// builder's control-cleaning pipeline, which both compute an arbitrary
// surviving-index set rather than a single-column range predicate.
func (t *Table) SelectIndices(indices []int) *Table {
	return t.selectRows(indices)
}

// selectRows builds a new Table with every column re-sliced down to the
// given row indices, sharing all non-columnar state with the receiver.
func (t *Table) selectRows(keep []int) *Table {
	newColumns := make(map[string][]float32, len(t.columns))
	for _, key := range t.order {
		src := t.columns[key]
		dst := make([]float32, len(keep))
		for i, idx := range keep {
			dst[i] = src[idx]
		}
		newColumns[key] = dst
	}
	return &Table{
		version:      t.version,
		order:        append([]string(nil), t.order...),
		display:      append([]string(nil), t.display...),
		columns:      newColumns,
		params:       append([]ParameterMeta(nil), t.params...),
		keywords:     t.keywords,
		keywordOrder: t.keywordOrder,
		guid:         t.guid,
		spillover:    t.spillover,
	}
}

// WithColumn returns a new Table with column name replaced by values,
// sharing every other column's backing slice unchanged (§9: "transformations
// must never copy unaffected columns"). name must already exist and values
// must match the table's height.
func (t *Table) WithColumn(name string, values []float32) (*Table, error) {
	key := canon(name)
	if _, ok := t.columns[key]; !ok {
		return nil, fmt.Errorf("fcs: %s: %w", name, ErrNoSuchChannel)
	}
	if len(values) != t.Height() {
		return nil, fmt.Errorf("fcs: WithColumn(%s): %d values, want %d: %w", name, len(values), t.Height(), ErrDimensionMismatch)
	}
	newColumns := make(map[string][]float32, len(t.columns))
	for k, v := range t.columns {
		newColumns[k] = v
	}
	newColumns[key] = values
	return &Table{
		version:      t.version,
		order:        t.order,
		display:      t.display,
		columns:      newColumns,
		params:       t.params,
		keywords:     t.keywords,
		keywordOrder: t.keywordOrder,
		guid:         t.guid,
		spillover:    t.spillover,
	}, nil
}

// WithColumns replaces multiple columns at once, sharing every column not
// named in replacements. Used by compensation, which recomputes a whole
// batch of channels from a single matrix inversion and would otherwise pay
// for a full column-map copy per channel.
func (t *Table) WithColumns(replacements map[string][]float32) (*Table, error) {
	newColumns := make(map[string][]float32, len(t.columns))
	for k, v := range t.columns {
		newColumns[k] = v
	}
	for name, values := range replacements {
		key := canon(name)
		if _, ok := t.columns[key]; !ok {
			return nil, fmt.Errorf("fcs: %s: %w", name, ErrNoSuchChannel)
		}
		if len(values) != t.Height() {
			return nil, fmt.Errorf("fcs: WithColumns(%s): %d values, want %d: %w", name, len(values), t.Height(), ErrDimensionMismatch)
		}
		newColumns[key] = values
	}
	return &Table{
		version:      t.version,
		order:        t.order,
		display:      t.display,
		columns:      newColumns,
		params:       t.params,
		keywords:     t.keywords,
		keywordOrder: t.keywordOrder,
		guid:         t.guid,
		spillover:    t.spillover,
	}, nil
}
