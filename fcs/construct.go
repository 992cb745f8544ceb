package fcs

import "fmt"

// NewTable builds a Table directly from in-memory columns, without parsing
// an FCS file. Useful for synthetic data and for downstream packages that
// construct intermediate tables (e.g. signature building's cleaned control
// tables, compensation's column replacements under test). Column i of each
// row corresponds to channels[i]; rows are given row-major, one []float32
// per event.
func NewTable(channels []string, rows [][]float32) (*Table, error) {
	for _, name := range channels {
		if name == "" {
			return nil, fmt.Errorf("fcs: NewTable: empty channel name: %w", ErrBadKeywords)
		}
	}
	columns := make(map[string][]float32, len(channels))
	order := make([]string, 0, len(channels))
	display := make([]string, 0, len(channels))
	params := make([]ParameterMeta, 0, len(channels))

	for i, name := range channels {
		key := canon(name)
		if _, dup := columns[key]; dup {
			return nil, fmt.Errorf("fcs: NewTable: duplicate channel %q: %w", name, ErrBadKeywords)
		}
		col := make([]float32, len(rows))
		for r, row := range rows {
			if len(row) != len(channels) {
				return nil, fmt.Errorf("fcs: NewTable: row %d has %d values, want %d: %w", r, len(row), len(channels), ErrDimensionMismatch)
			}
			col[r] = row[i]
		}
		columns[key] = col
		order = append(order, key)
		display = append(display, name)
		params = append(params, ParameterMeta{Index: i + 1, ShortName: name})
	}

	return &Table{
		version:  "synthetic",
		order:    order,
		display:  display,
		columns:  columns,
		params:   params,
		keywords: map[string]string{},
		guid:     "synthetic",
	}, nil
}
