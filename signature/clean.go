package signature

import "github.com/czarop/flowcyto/fcs"

// CleanConfig names the channels and thresholds used to clean a control
// before signature extraction (§4.E step 1).
type CleanConfig struct {
	// ScatterChannels lists the FSC/SSC channels checked for margin events
	// (saturation at the channel's min or max value).
	ScatterChannels []string
	// FSCAreaChannel and FSCHeightChannel feed the coarse doublet filter.
	FSCAreaChannel   string
	FSCHeightChannel string
	// DoubletRatioMin/Max bound the accepted FSC-A/FSC-H ratio.
	DoubletRatioMin float32
	DoubletRatioMax float32
	// DebrisThreshold is the minimum accepted FSC-A value.
	DebrisThreshold float32
}

// DefaultCleanConfig returns conservative defaults matching common
// instrument conventions: both scatter channels checked for margin events,
// a wide doublet-ratio band, and a low debris floor.
func DefaultCleanConfig() CleanConfig {
	return CleanConfig{
		ScatterChannels:  []string{"FSC-A", "SSC-A"},
		FSCAreaChannel:   "FSC-A",
		FSCHeightChannel: "FSC-H",
		DoubletRatioMin:  0.85,
		DoubletRatioMax:  1.15,
		DebrisThreshold:  10000,
	}
}

// Clean removes margin events (values at a scatter channel's observed
// min/max), events outside the coarse FSC-A/FSC-H doublet ratio band, and
// events below the FSC-A debris threshold (§4.E step 1).
func Clean(table *fcs.Table, cfg CleanConfig) (*fcs.Table, error) {
	type bounded struct {
		col        []float32
		min, max   float32
	}
	margins := make([]bounded, 0, len(cfg.ScatterChannels))
	for _, ch := range cfg.ScatterChannels {
		if !table.HasColumn(ch) {
			continue
		}
		stats, err := table.Statistics(ch)
		if err != nil {
			return nil, err
		}
		col, err := table.Column(ch)
		if err != nil {
			return nil, err
		}
		margins = append(margins, bounded{col: col, min: float32(stats.Min), max: float32(stats.Max)})
	}

	var fscA, fscH []float32
	if table.HasColumn(cfg.FSCAreaChannel) && table.HasColumn(cfg.FSCHeightChannel) {
		var err error
		fscA, err = table.Column(cfg.FSCAreaChannel)
		if err != nil {
			return nil, err
		}
		fscH, err = table.Column(cfg.FSCHeightChannel)
		if err != nil {
			return nil, err
		}
	}

	keep := make([]int, 0, table.Height())
eventLoop:
	for e := 0; e < table.Height(); e++ {
		for _, m := range margins {
			if m.col[e] <= m.min || m.col[e] >= m.max {
				continue eventLoop
			}
		}
		if fscA != nil && fscH != nil {
			ratio := fscA[e] / (fscH[e] + 1e-10)
			if ratio < cfg.DoubletRatioMin || ratio > cfg.DoubletRatioMax {
				continue eventLoop
			}
			if fscA[e] < cfg.DebrisThreshold {
				continue eventLoop
			}
		}
		keep = append(keep, e)
	}

	return table.SelectIndices(keep), nil
}
