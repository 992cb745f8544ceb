package fcs

import (
	"fmt"
	"strconv"
	"strings"
)

// header holds the 58-byte FCS header: a 6-byte version tag, 4 bytes of
// padding, and six 8-byte ASCII byte offsets for TEXT/DATA/ANALYSIS (§4.B,
// §6). Declared "0 0" offsets are a deliberate signal that the real bounds
// live in $BEGINDATA/$ENDDATA TEXT keywords, resolved later by decode.
type header struct {
	Version       string
	TextStart     int
	TextEnd       int
	DataStart     int
	DataEnd       int
	AnalysisStart int
	AnalysisEnd   int
}

const headerLength = 58

func parseHeader(buf []byte) (header, error) {
	if len(buf) < headerLength {
		return header{}, fmt.Errorf("fcs: header is %d bytes, want %d: %w", len(buf), headerLength, ErrBadHeader)
	}

	version := string(buf[0:6])
	switch version {
	case "FCS2.0", "FCS3.0", "FCS3.1":
	default:
		return header{}, fmt.Errorf("fcs: unrecognized version %q: %w", version, ErrBadHeader)
	}

	offsets := make([]int, 6)
	for i := 0; i < 6; i++ {
		start := 10 + i*8
		field := strings.TrimSpace(string(buf[start : start+8]))
		if field == "" {
			offsets[i] = 0
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return header{}, fmt.Errorf("fcs: header offset %d %q: %w", i, field, ErrBadHeader)
		}
		offsets[i] = v
	}

	return header{
		Version:       version,
		TextStart:     offsets[0],
		TextEnd:       offsets[1],
		DataStart:     offsets[2],
		DataEnd:       offsets[3],
		AnalysisStart: offsets[4],
		AnalysisEnd:   offsets[5],
	}, nil
}
