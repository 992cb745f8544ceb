// Package signature builds a detectors x endmembers mixing matrix from one
// unstained control and one single-stain control FCS file per fluorophore
// (§4.E).
//
// Each control is cleaned (margin, doublet, and debris filtering), its
// primary detector chosen by filename heuristic or by arcsinh-median
// signal, and its positive population isolated via KDE-based peak
// isolation. Signatures are normalized so the primary detector reads 1.0,
// and assembled into a matrix ending with an all-zero autofluorescence
// column.
//
// Determinism: detectors follow the unstained control's channel order and
// endmembers follow the caller's declared endmember order, never map
// iteration order.
package signature
