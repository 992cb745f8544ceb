// Package gate evaluates 2D gate geometry against an event table and
// produces surviving event indices (§4.F).
//
// Geometry is a closed tagged union (Polygon, Rectangle, Ellipse, Boolean)
// rather than an interface, matching the original crate's exhaustive-match
// design (§9 Design Notes: "no runtime polymorphism over user-extensible
// types is required"). Batch evaluation is embarrassingly parallel over
// events: each worker owns its own scratch slice and no lock is needed.
package gate
