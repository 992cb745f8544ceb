package fcs

import (
	"fmt"
	"strconv"
	"strings"
)

// parseSpillover parses a $SPILLOVER/$SPILL value of the form
// "n,name_1,...,name_n,v_1,...,v_{n^2}" (comma-separated regardless of the
// TEXT segment's own delimiter, per common FCS3.1 usage) into a
// SpilloverMatrix (§4.B Spillover extraction).
func parseSpillover(raw string) (*SpilloverMatrix, error) {
	fields := strings.Split(raw, ",")
	if len(fields) < 1 {
		return nil, fmt.Errorf("fcs: empty spillover keyword: %w", ErrBadKeywords)
	}
	n, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("fcs: spillover parameter count %q: %w", fields[0], ErrBadKeywords)
	}
	want := 1 + n + n*n
	if len(fields) != want {
		return nil, fmt.Errorf("fcs: spillover has %d fields, want %d for n=%d: %w", len(fields), want, n, ErrBadKeywords)
	}

	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = strings.TrimSpace(fields[1+i])
	}

	values := make([]float64, n*n)
	for i := 0; i < n*n; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[1+n+i]), 64)
		if err != nil {
			return nil, fmt.Errorf("fcs: spillover value %d %q: %w", i, fields[1+n+i], ErrBadKeywords)
		}
		values[i] = v
	}

	return &SpilloverMatrix{Names: names, Values: values}, nil
}
