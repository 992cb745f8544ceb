// Package gatingml streams ISAC GatingML v1.5/v2.0 XML in and out of
// gate.Gate records (§4.H). The reader tolerates either schema on a
// per-element basis (a RectangleGate's bounds may be attributes or
// <dimension> children) and a missing "gating:" prefix; the writer always
// emits v2.0.
//
// Unknown gate element types are skipped with a logged warning; a known
// type with a malformed mandatory attribute (missing id, non-numeric
// coordinate) fails only that gate, not the whole document (§7 Error
// Handling Design).
package gatingml
