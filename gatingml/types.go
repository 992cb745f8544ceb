package gatingml

import "github.com/czarop/flowcyto/gate"

// Record wraps a gate.Gate as read from, or written to, a GatingML
// document. XChannel/YChannel name the two parameters a
// Polygon/Rectangle/Ellipse geometry's coordinates are keyed against;
// unused for Boolean geometry.
type Record struct {
	gate.Gate
}

// Namespace URIs for the two schema variants Read accepts. Version detection
// is per-element rather than a single document-wide namespace scan: a
// RectangleGate carries its bounds as direct attributes under v2.0 or as
// <dimension> children under v1.5, and decodeRectangle picks the shape by
// attribute presence rather than by namespace prefix.
const (
	namespaceV15 = "http://www.isac-net.org/std/Gating-ML/v1.5/gating"
	namespaceV20 = "http://www.isac-net.org/std/Gating-ML/v2.0/gating"
)
