package fcs

import "errors"

// Sentinel errors matching the library-wide error surface (§6): each maps to
// exactly one discriminant so embedding applications can errors.Is against
// them regardless of wrapped context.
var (
	// ErrBadExtension indicates a path without a recognized FCS extension.
	ErrBadExtension = errors.New("fcs: unrecognized file extension")

	// ErrIoError wraps an underlying os/io failure while opening or reading.
	ErrIoError = errors.New("fcs: io error")

	// ErrBadHeader indicates a malformed 58-byte FCS header.
	ErrBadHeader = errors.New("fcs: malformed header")

	// ErrBadKeywords indicates the TEXT segment is missing a required
	// keyword or contains one that fails to parse.
	ErrBadKeywords = errors.New("fcs: malformed or missing keywords")

	// ErrTruncatedData indicates the DATA segment is shorter than
	// events*parameters*4 bytes.
	ErrTruncatedData = errors.New("fcs: truncated data segment")

	// ErrNoSuchChannel indicates a column lookup by an unknown name.
	ErrNoSuchChannel = errors.New("fcs: no such channel")

	// ErrNonContiguousColumn indicates two columns of a table disagree in
	// length, which should never happen for a table obtained from this
	// package and signals caller-induced corruption.
	ErrNonContiguousColumn = errors.New("fcs: non-contiguous column")

	// ErrDimensionMismatch indicates mismatched lengths between paired
	// operations (e.g. a new column or row whose length does not match the
	// table).
	ErrDimensionMismatch = errors.New("fcs: dimension mismatch")
)
