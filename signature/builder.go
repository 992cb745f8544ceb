package signature

import (
	"fmt"

	"github.com/czarop/flowcyto/compensate"
	"github.com/czarop/flowcyto/fcs"
	"github.com/czarop/flowcyto/numeric"
	"gonum.org/v1/gonum/mat"
)

// BuildConfig names the tuning knobs for peak isolation shared across every
// control processed by BuildSignatureMatrix.
type BuildConfig struct {
	Clean         CleanConfig
	KDEThreshold  float64 // fraction of max density a local maximum must clear to count as a peak
	PositiveBias  float64 // bias passed to IsolatePositivePeakMask favoring higher-intensity peaks
}

// DefaultBuildConfig returns conservative defaults: a low density threshold
// so dim positive populations are not missed, and a positive bias nudging
// peak selection toward the higher-intensity population when densities are
// close (§4.E step 3; §9 "parameters are not prescribed").
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Clean:        DefaultCleanConfig(),
		KDEThreshold: 0.1,
		PositiveBias: 0.25,
	}
}

// BuildSignatureMatrix assembles a detectors x endmembers mixing matrix from
// one unstained control and one single-stain control per fluorophore
// (§4.E). endmembers must end with "Autofluorescence"; its column is
// all-zero and has no corresponding control. filenames supplies the source
// filename for each non-autofluorescence endmember, used by the primary
// detector heuristic (§4.E step 2).
//
// The detector set is the unstained control's fluorescence channels, in
// their declared order. Every single-stain control must expose the same
// channels.
func BuildSignatureMatrix(
	unstained *fcs.Table,
	singleStains map[string]*fcs.Table,
	filenames map[string]string,
	endmembers []string,
	cfg BuildConfig,
) (*mat.Dense, []string, error) {
	if len(endmembers) == 0 || endmembers[len(endmembers)-1] != autofluorescenceName {
		return nil, nil, ErrLastEndmemberNotAutofluorescence
	}

	var detectors []string
	for _, name := range unstained.ChannelNames() {
		if fcs.IsFluorescence(name) {
			detectors = append(detectors, name)
		}
	}
	if len(detectors) == 0 {
		return nil, nil, ErrNoEvents
	}

	cleanUnstained, err := Clean(unstained, cfg.Clean)
	if err != nil {
		return nil, nil, fmt.Errorf("signature: cleaning unstained control: %w", err)
	}
	if cleanUnstained.Height() == 0 {
		return nil, nil, fmt.Errorf("signature: unstained control: %w", ErrNoEvents)
	}

	negGeoMean := make([]float64, len(detectors))
	for i, detector := range detectors {
		col, err := cleanUnstained.Column(detector)
		if err != nil {
			return nil, nil, err
		}
		arcsinh := toFloat64(compensate.ArcsinhValues(col, compensate.DefaultCofactor))
		geo, err := numeric.GeometricMean(arcsinh)
		if err != nil {
			return nil, nil, fmt.Errorf("signature: unstained geometric mean for %s: %w", detector, err)
		}
		negGeoMean[i] = geo
	}

	data := make([]float64, len(detectors)*len(endmembers))
	for col := 0; col < len(endmembers)-1; col++ {
		name := endmembers[col]
		control, ok := singleStains[name]
		if !ok {
			return nil, nil, fmt.Errorf("signature: %s: %w", name, ErrMissingControl)
		}

		cleaned, err := Clean(control, cfg.Clean)
		if err != nil {
			return nil, nil, fmt.Errorf("signature: cleaning %s control: %w", name, err)
		}
		if cleaned.Height() == 0 {
			return nil, nil, fmt.Errorf("signature: %s control: %w", name, ErrNoEvents)
		}

		primary, err := ChoosePrimaryDetector(cleaned, filenames[name])
		if err != nil {
			return nil, nil, fmt.Errorf("signature: choosing primary detector for %s: %w", name, err)
		}
		primaryCol, err := cleaned.Column(primary)
		if err != nil {
			return nil, nil, err
		}
		primaryArcsinh := toFloat64(compensate.ArcsinhValues(primaryCol, compensate.DefaultCofactor))

		posMask, err := IsolatePositivePeakMask(primaryArcsinh, cfg.KDEThreshold, cfg.PositiveBias)
		if err != nil {
			return nil, nil, fmt.Errorf("signature: isolating positive peak for %s: %w", name, err)
		}

		signatureValues := make([]float64, len(detectors))
		maxValue := 0.0
		for i, detector := range detectors {
			dcol, err := cleaned.Column(detector)
			if err != nil {
				return nil, nil, err
			}
			arcsinh := toFloat64(compensate.ArcsinhValues(dcol, compensate.DefaultCofactor))
			positives := selectMasked(arcsinh, posMask)
			if len(positives) == 0 {
				return nil, nil, fmt.Errorf("signature: %s: %w", name, ErrNoPeak)
			}
			geoPos, err := numeric.GeometricMean(positives)
			if err != nil {
				return nil, nil, fmt.Errorf("signature: %s geometric mean for %s: %w", name, detector, err)
			}
			v := geoPos - negGeoMean[i]
			if v < 0 {
				v = 0
			}
			signatureValues[i] = v
			if v > maxValue {
				maxValue = v
			}
		}
		if maxValue <= 0 {
			return nil, nil, fmt.Errorf("signature: %s: all-zero signature after negative subtraction", name)
		}
		for i, v := range signatureValues {
			data[i*len(endmembers)+col] = v / maxValue
		}
	}
	// Autofluorescence column stays zero: data is already zero-initialized.

	return mat.NewDense(len(detectors), len(endmembers), data), detectors, nil
}

func toFloat64(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func selectMasked(values []float64, mask []bool) []float64 {
	out := make([]float64, 0, len(values))
	for i, keep := range mask {
		if keep {
			out = append(out, values[i])
		}
	}
	return out
}
