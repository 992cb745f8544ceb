package autogate

import (
	"math"

	"github.com/czarop/flowcyto/fcs"
	"github.com/czarop/flowcyto/numeric"
)

// DoubletMethod selects the algorithm DetectDoublets uses to separate
// singlets from doublets on an area/height channel pair (§4.I).
type DoubletMethod int

const (
	RatioMAD DoubletMethod = iota
	DensityBased
	ClusteringDBSCAN
	Hybrid
)

// DoubletConfig tunes every DoubletMethod. Eps/MinSamples apply only to
// ClusteringDBSCAN.
type DoubletConfig struct {
	NMAD              float64
	DensityPercentile float64
	Eps               float64
	MinSamples        int
}

// DefaultDoubletConfig returns a 3-MAD ratio cutoff and the spec's stated
// 95th-percentile density window.
func DefaultDoubletConfig() DoubletConfig {
	return DoubletConfig{NMAD: 3, DensityPercentile: 0.95, Eps: 0.05, MinSamples: 5}
}

// DoubletOption configures a DoubletConfig.
type DoubletOption func(*DoubletConfig)

// WithNMAD sets the RatioMAD cutoff multiplier (cutoff = median + nmad *
// 1.4826 * MAD).
func WithNMAD(n float64) DoubletOption {
	return func(c *DoubletConfig) { c.NMAD = n }
}

// WithDensityPercentile sets the DensityBased retention window: events
// within this percentile of absolute distance to the primary ratio peak
// are kept as singlets. The spec names a fixed 95th percentile; this
// option exists because nothing in §4.I forbids tuning it per instrument.
func WithDensityPercentile(p float64) DoubletOption {
	return func(c *DoubletConfig) { c.DensityPercentile = p }
}

// WithDBSCANParams sets ClusteringDBSCAN's neighborhood radius and minimum
// neighbor count.
func WithDBSCANParams(eps float64, minSamples int) DoubletOption {
	return func(c *DoubletConfig) { c.Eps = eps; c.MinSamples = minSamples }
}

// DoubletResult reports which events are singlets (Mask[i] == true) plus
// the summary both automated-gating subsystems return (§4.I "both
// subsystems report (n_singlets, n_doublets, percentage, method_label)").
type DoubletResult struct {
	Mask        []bool
	NSinglets   int
	NDoublets   int
	Percentage  float64
	MethodLabel string
}

// DetectDoublets computes the area/height ratio for every event and
// classifies singlets from doublets using method (§4.I Doublet detection).
func DetectDoublets(table *fcs.Table, areaChannel, heightChannel string, method DoubletMethod, opts ...DoubletOption) (DoubletResult, error) {
	cfg := DefaultDoubletConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	areas, err := table.Column(areaChannel)
	if err != nil {
		return DoubletResult{}, err
	}
	heights, err := table.Column(heightChannel)
	if err != nil {
		return DoubletResult{}, err
	}
	if len(areas) == 0 {
		return DoubletResult{}, ErrNoEvents
	}

	ratios := make([]float64, len(areas))
	for i := range areas {
		ratios[i] = float64(areas[i]) / (float64(heights[i]) + 1e-10)
	}

	var mask []bool
	var label string
	switch method {
	case RatioMAD:
		mask, err = ratioMADMask(ratios, cfg)
		label = "ratio_mad"
	case DensityBased:
		mask, err = densityBasedMask(ratios, cfg)
		label = "density_based"
	case ClusteringDBSCAN:
		mask, err = dbscanMask(ratios, cfg)
		label = "dbscan"
	case Hybrid:
		var a, b []bool
		if a, err = ratioMADMask(ratios, cfg); err == nil {
			b, err = densityBasedMask(ratios, cfg)
		}
		if err == nil {
			mask = make([]bool, len(ratios))
			for i := range mask {
				mask[i] = a[i] && b[i]
			}
		}
		label = "hybrid"
	default:
		return DoubletResult{}, ErrUnknownMethod
	}
	if err != nil {
		return DoubletResult{}, err
	}

	nSinglets := 0
	for _, keep := range mask {
		if keep {
			nSinglets++
		}
	}
	return DoubletResult{
		Mask:        mask,
		NSinglets:   nSinglets,
		NDoublets:   len(mask) - nSinglets,
		Percentage:  100 * float64(nSinglets) / float64(len(mask)),
		MethodLabel: label,
	}, nil
}

func ratioMADMask(ratios []float64, cfg DoubletConfig) ([]bool, error) {
	median, err := numeric.Median(ratios)
	if err != nil {
		return nil, err
	}
	mad, err := numeric.MAD(ratios)
	if err != nil {
		return nil, err
	}
	cutoff := median + cfg.NMAD*1.4826*mad
	mask := make([]bool, len(ratios))
	for i, r := range ratios {
		mask[i] = r < cutoff
	}
	return mask, nil
}

func densityBasedMask(ratios []float64, cfg DoubletConfig) ([]bool, error) {
	lo, hi := rangeOf(ratios)
	if lo == hi {
		lo -= 1
		hi += 1
	}
	grid := numeric.LinearGrid(lo, hi, 512)
	bw, err := numeric.SilvermanBandwidth(ratios)
	if err != nil {
		return nil, err
	}
	density, err := numeric.KDE1D(ratios, grid, bw)
	if err != nil {
		return nil, err
	}

	peakIdx := 0
	for i, d := range density {
		if d > density[peakIdx] {
			peakIdx = i
		}
	}
	peak := grid[peakIdx]

	distances := make([]float64, len(ratios))
	for i, r := range ratios {
		distances[i] = math.Abs(r - peak)
	}
	cutoff, err := numeric.Percentile(distances, cfg.DensityPercentile)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(ratios))
	for i, d := range distances {
		mask[i] = d <= cutoff
	}
	return mask, nil
}

// dbscanMask clusters the ratio sequence and keeps whichever cluster's
// mean ratio sits closest to 1.0 (the value an undiluted singlet event
// should produce) as the singlet population; every other cluster and all
// noise points are doublets (§4.I ClusteringDBSCAN, supplemented from
// original_source's clustering module).
func dbscanMask(ratios []float64, cfg DoubletConfig) ([]bool, error) {
	res, err := Dbscan1D(ratios, DbscanConfig{Eps: cfg.Eps, MinSamples: cfg.MinSamples})
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(ratios))
	if res.NClusters == 0 {
		return mask, nil
	}

	sums := make([]float64, res.NClusters)
	counts := make([]int, res.NClusters)
	for i, label := range res.Assignments {
		if label < 0 {
			continue
		}
		sums[label] += ratios[i]
		counts[label]++
	}

	singletCluster, bestDist := -1, math.Inf(1)
	for c := 0; c < res.NClusters; c++ {
		if counts[c] == 0 {
			continue
		}
		meanRatio := sums[c] / float64(counts[c])
		if d := math.Abs(meanRatio - 1.0); d < bestDist {
			bestDist = d
			singletCluster = c
		}
	}

	for i, label := range res.Assignments {
		mask[i] = label == singletCluster
	}
	return mask, nil
}
