package signature

import (
	"strings"

	"github.com/czarop/flowcyto/compensate"
	"github.com/czarop/flowcyto/fcs"
	"github.com/czarop/flowcyto/numeric"
)

// ChoosePrimaryDetector selects the control's primary detector: first by
// matching a fluorescence channel's base name as an uppercase substring of
// filename, otherwise the fluorescence channel with the highest
// arcsinh-median signal (§4.E step 2).
//
// The filename heuristic is intentionally the uppercase substring match the
// original specifies and nothing cleverer: which of several channels whose
// base names are substrings of one another should win (e.g. "R780-A" vs a
// filename containing "R78") is left undecided upstream (§9 Open
// questions), so ties here are broken by channel declaration order.
func ChoosePrimaryDetector(table *fcs.Table, filename string) (string, error) {
	upperFilename := strings.ToUpper(filename)
	var fluorescent []string
	for _, name := range table.ChannelNames() {
		if fcs.IsFluorescence(name) {
			fluorescent = append(fluorescent, name)
		}
	}
	if len(fluorescent) == 0 {
		return "", ErrNoEvents
	}

	for _, name := range fluorescent {
		base := strings.ToUpper(baseName(name))
		if base != "" && strings.Contains(upperFilename, base) {
			return name, nil
		}
	}

	bestName := fluorescent[0]
	bestMedian := -1.0
	for _, name := range fluorescent {
		col, err := table.Column(name)
		if err != nil {
			return "", err
		}
		arcsinh := compensate.ArcsinhValues(col, compensate.DefaultCofactor)
		values := make([]float64, len(arcsinh))
		for i, v := range arcsinh {
			values[i] = float64(v)
		}
		med, err := numeric.Median(values)
		if err != nil {
			continue
		}
		if med > bestMedian {
			bestMedian = med
			bestName = name
		}
	}
	return bestName, nil
}

// baseName strips a trailing "-A"/"-H"/"-W" detector suffix, e.g.
// "V660-A" -> "V660", for filename matching.
func baseName(channel string) string {
	if i := strings.LastIndex(channel, "-"); i >= 0 {
		return channel[:i]
	}
	return channel
}
