// Package autogate implements algorithmic scatter and doublet gates
// (§4.I): bounding the dominant population on a 2D scatter plot by ellipse
// fit, clustering, or density-contour tracing, and separating singlets
// from doublets on an area/height channel pair by ratio statistics. Every
// fit reports a per-event boolean mask alongside summary counts so callers
// can feed the result straight into hierarchy/gate as an ordinary gate.Gate.
package autogate
