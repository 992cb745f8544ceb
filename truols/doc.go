// Package truols implements the TRU-OLS (truncated-reunmixing ordinary
// least squares) spectral unmixing engine (§4.D).
//
// Preprocessing computes per-endmember cutoffs and a nonspecific-observation
// vector once per (mixing matrix, unstained control, percentile) and reuses
// them across every event. The per-event solver iteratively removes
// endmembers whose abundance falls below their cutoff, re-solving the
// shrinking system until nothing more is removed.
//
// Determinism: solver order is fixed by the input matrix and observation;
// endmember removal breaks ties by ascending global column index. Dataset
// unmixing fans out across goroutines only when event count exceeds
// parallelThreshold, and results are written into a preallocated
// events x endmembers matrix keyed by event index, so output is bit-for-bit
// identical regardless of parallelism (§5 Ordering).
//
// Errors: AllEndmembersRemoved (wraps the event index) when a per-event
// solve empties the endmember set; NoAutofluorescenceEndmember when the
// configured autofluorescence column index is out of range.
package truols
