package gatingml

import "errors"

// Sentinel errors for GatingML (de)serialization.
var (
	// ErrInvalidXML indicates the document could not be tokenized at all
	// (truncated or not well-formed XML).
	ErrInvalidXML = errors.New("gatingml: invalid xml")

	// ErrMalformedAttribute indicates a known gate element is missing a
	// mandatory attribute or carries a non-numeric coordinate. The gate
	// that triggered it is skipped; the document continues (§7).
	ErrMalformedAttribute = errors.New("gatingml: malformed attribute")
)
