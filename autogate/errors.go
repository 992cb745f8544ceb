package autogate

import "errors"

// Sentinel errors for the autogate package.
var (
	// ErrNoEvents indicates the input table or column has zero rows.
	ErrNoEvents = errors.New("autogate: no events")

	// ErrTooFewEvents indicates fewer events than MinEvents were supplied.
	ErrTooFewEvents = errors.New("autogate: fewer events than the configured minimum")

	// ErrUnknownMethod indicates a ScatterMethod or DoubletMethod value
	// outside the declared enum.
	ErrUnknownMethod = errors.New("autogate: unknown method")
)
