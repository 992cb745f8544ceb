package compensate

import "errors"

// ErrNoOverlap indicates a lazy partial compensation request named a
// channel that the spillover matrix does not cover.
var ErrNoOverlap = errors.New("compensate: requested channel not in spillover matrix")

// identityTolerance is the element-wise tolerance used to detect an
// already-identity spillover matrix (§4.C Identity detection).
const identityTolerance = 1e-6

// sparseThreshold is the fraction of near-zero entries above which a
// spillover matrix is treated as sparse for lazy partial compensation
// (§4.C Lazy partial compensation, step 1).
const sparseThreshold = 0.8
