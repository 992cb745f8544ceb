package signature

import "errors"

// Sentinel errors for the signature builder.
var (
	// ErrMissingControl indicates the endmember list names a fluorophore
	// with no corresponding control table.
	ErrMissingControl = errors.New("signature: missing control for endmember")

	// ErrNoEvents indicates a control has no events left after cleaning.
	ErrNoEvents = errors.New("signature: no events survived cleaning")

	// ErrNoPeak indicates peak isolation found no usable density peak even
	// after falling back to the global KDE maximum.
	ErrNoPeak = errors.New("signature: no peak found")

	// ErrLastEndmemberNotAutofluorescence indicates the endmember list does
	// not end with "Autofluorescence" as required (§4.E).
	ErrLastEndmemberNotAutofluorescence = errors.New("signature: endmember list must end with Autofluorescence")
)

// autofluorescenceName is the required final endmember name (§4.E).
const autofluorescenceName = "Autofluorescence"
