// Package compensate applies spillover compensation and the arcsinh display
// transform to fcs.Table columns (§4.C).
//
// Complexity: full compensation is one matrix inversion (O(n^3), n =
// detector count) plus O(n^2 * events) multiply-accumulate, fanned out one
// goroutine per output channel. Lazy partial compensation inverts only the
// sub-matrix touching the requested channels.
//
// Determinism: channel iteration order follows the spillover matrix's
// declared detector order, never map iteration order.
//
// Errors: wraps numeric.ErrSingular when a spillover (sub-)matrix cannot be
// inverted, and fcs.ErrNoSuchChannel when a requested or spillover-declared
// channel is absent from the table.
package compensate
