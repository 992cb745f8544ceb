package fcs

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var recognizedExtensions = map[string]bool{
	".fcs": true,
	".lmd": true,
}

// Open reads an FCS file from path into an immutable Table (§4.B Public
// contract). It fails with ErrBadExtension, ErrIoError, ErrBadHeader,
// ErrBadKeywords, or ErrTruncatedData.
func Open(path string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !recognizedExtensions[ext] {
		return nil, fmt.Errorf("fcs: %s: %w", ext, ErrBadExtension)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fcs: reading %s: %v: %w", path, err, ErrIoError)
	}

	return decode(raw, path)
}

// decode parses an in-memory FCS file image. Split from Open so callers that
// already hold file bytes (e.g. tests, or files read from an embedded
// archive) can bypass the filesystem.
func decode(raw []byte, sourcePath string) (*Table, error) {
	if len(raw) < headerLength {
		return nil, fmt.Errorf("fcs: file is %d bytes, shorter than the %d-byte header: %w", len(raw), headerLength, ErrBadHeader)
	}
	hdr, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}

	// Header offsets are 1-indexed, inclusive byte positions per the FCS
	// standard: the TEXT/DATA segment occupying bytes [start, end] (1-based)
	// is raw[start-1:end] in Go's 0-based, exclusive-end slicing.
	if hdr.TextStart < 1 || hdr.TextEnd < hdr.TextStart || hdr.TextEnd > len(raw) {
		return nil, fmt.Errorf("fcs: TEXT offsets [%d,%d] out of range for %d-byte file: %w", hdr.TextStart, hdr.TextEnd, len(raw), ErrBadHeader)
	}
	kt, err := parseText(raw[hdr.TextStart-1 : hdr.TextEnd])
	if err != nil {
		return nil, err
	}

	dataStart, dataEnd := hdr.DataStart, hdr.DataEnd
	if dataStart == 0 && dataEnd == 0 {
		beginRaw, err := kt.getRequired("$BEGINDATA")
		if err != nil {
			return nil, err
		}
		endRaw, err := kt.getRequired("$ENDDATA")
		if err != nil {
			return nil, err
		}
		dataStart, err = strconv.Atoi(strings.TrimSpace(beginRaw))
		if err != nil {
			return nil, fmt.Errorf("fcs: $BEGINDATA %q: %w", beginRaw, ErrBadKeywords)
		}
		dataEnd, err = strconv.Atoi(strings.TrimSpace(endRaw))
		if err != nil {
			return nil, fmt.Errorf("fcs: $ENDDATA %q: %w", endRaw, ErrBadKeywords)
		}
	}
	if dataStart < 1 || dataEnd < dataStart {
		return nil, fmt.Errorf("fcs: DATA offsets [%d,%d] out of range for %d-byte file: %w", dataStart, dataEnd, len(raw), ErrBadHeader)
	}
	if dataEnd > len(raw) {
		return nil, fmt.Errorf("fcs: DATA segment ends at byte %d of a %d-byte file: %w", dataEnd, len(raw), ErrTruncatedData)
	}

	params, err := kt.getInt("$PAR")
	if err != nil {
		return nil, err
	}
	events, err := kt.getInt("$TOT")
	if err != nil {
		return nil, err
	}
	dataType, err := kt.getRequired("$DATATYPE")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dataType) != "F" {
		return nil, fmt.Errorf("fcs: unsupported $DATATYPE %q (only F is implemented): %w", dataType, ErrBadKeywords)
	}
	byteOrdRaw, err := kt.getRequired("$BYTEORD")
	if err != nil {
		return nil, err
	}
	order, err := parseByteOrder(byteOrdRaw)
	if err != nil {
		return nil, err
	}

	columns, err := readData(raw[dataStart-1:dataEnd], events, params, order)
	if err != nil {
		return nil, err
	}

	table := &Table{
		version:    hdr.Version,
		columns:    make(map[string][]float32, params),
		keywords:   kt.kv,
		keywordOrder: kt.order,
	}

	for p := 1; p <= params; p++ {
		shortName, err := kt.getRequired(parameterKeyword(p, "N"))
		if err != nil {
			return nil, err
		}
		key := canon(shortName)
		if _, dup := table.columns[key]; dup {
			return nil, fmt.Errorf("fcs: duplicate channel name %q: %w", shortName, ErrBadKeywords)
		}
		table.order = append(table.order, key)
		table.display = append(table.display, shortName)
		table.columns[key] = columns[p-1]

		meta := ParameterMeta{Index: p, ShortName: shortName}
		if label, ok := kt.get(parameterKeyword(p, "S")); ok {
			meta.Label = label
		}
		if eRaw, ok := kt.get(parameterKeyword(p, "E")); ok {
			meta.DefaultTransform = parseParameterE(eRaw)
		}
		table.params = append(table.params, meta)
	}

	if spillRaw, ok := kt.get("$SPILLOVER"); ok {
		sm, err := parseSpillover(spillRaw)
		if err != nil {
			return nil, err
		}
		table.spillover = sm
	} else if spillRaw, ok := kt.get("$SPILL"); ok {
		sm, err := parseSpillover(spillRaw)
		if err != nil {
			return nil, err
		}
		table.spillover = sm
	}

	if guid, ok := kt.get("GUID"); ok && guid != "" {
		table.guid = guid
	} else {
		table.guid = synthesizeGUID(sourcePath, kt)
	}

	return table, nil
}

// synthesizeGUID deterministically derives a file identifier from the
// source path, $FIL keyword, and $TOT event count when the file has no
// GUID keyword of its own (§4.B TEXT parsing).
func synthesizeGUID(sourcePath string, kt keywordTable) string {
	fil, _ := kt.get("$FIL")
	tot, _ := kt.get("$TOT")
	h := fnv.New64a()
	h.Write([]byte(sourcePath))
	h.Write([]byte{0})
	h.Write([]byte(fil))
	h.Write([]byte{0})
	h.Write([]byte(tot))
	return fmt.Sprintf("synth-%016x", h.Sum64())
}
