package numeric

import "errors"

// Sentinel errors for the numeric package.
var (
	// ErrNilMatrix indicates a nil matrix was passed where one was required.
	ErrNilMatrix = errors.New("numeric: matrix is nil")

	// ErrDimensionMismatch indicates incompatible matrix/vector dimensions.
	ErrDimensionMismatch = errors.New("numeric: dimension mismatch")

	// ErrSingular indicates a matrix could not be inverted or solved.
	ErrSingular = errors.New("numeric: matrix is singular")

	// ErrUnderdetermined indicates fewer rows than columns, which this
	// package's solver does not support (only square or overdetermined).
	ErrUnderdetermined = errors.New("numeric: underdetermined system")

	// ErrEmptyInput indicates a statistics function received zero samples.
	ErrEmptyInput = errors.New("numeric: empty input")

	// ErrInvalidBandwidth indicates a non-positive KDE bandwidth.
	ErrInvalidBandwidth = errors.New("numeric: bandwidth must be positive")

	// ErrInvalidPercentile indicates a percentile outside [0, 1].
	ErrInvalidPercentile = errors.New("numeric: percentile must be in [0, 1]")

	// ErrGridTooSmall indicates fewer than two grid points were requested.
	ErrGridTooSmall = errors.New("numeric: grid must have at least 2 points")
)
