// Package flowcyto is the root of a flow-cytometry analysis module:
// reading FCS files, compensating and unmixing fluorescence spillover,
// building per-fluorophore signatures from single-stain controls, and
// gating events by geometry, hierarchy, or automated algorithm.
//
// The work is organized under per-concern subpackages:
//
//	numeric/    — statistics, KDE, clustering and linear-solve primitives
//	fcs/        — FCS 3.0/3.1 file reading and the event Table
//	compensate/ — spillover-matrix compensation and arcsinh transform
//	truols/     — TRU-OLS (truncated reunmixing least squares) spectral unmixing
//	signature/  — single-stain control cleaning and signature building
//	gate/       — gate geometry (polygon/rectangle/ellipse/boolean) and filtering
//	hierarchy/  — gate parent/child DAG management and traversal
//	gatingml/   — ISAC GatingML v1.5/v2.0 (de)serialization
//	autogate/   — algorithmic scatter and doublet gating
package flowcyto
