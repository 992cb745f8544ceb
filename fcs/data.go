package fcs

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"
)

func parseByteOrder(raw string) (binary.ByteOrder, error) {
	switch strings.TrimSpace(raw) {
	case "1,2,3,4":
		return binary.LittleEndian, nil
	case "4,3,2,1":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("fcs: unsupported $BYTEORD %q: %w", raw, ErrBadKeywords)
	}
}

// readData converts the row-major events x parameters DATA segment into
// per-parameter column slices. Only $DATATYPE=F (32-bit IEEE-754 float) is
// supported (§4.B DATA parsing).
//
// Conversion fans out across events in chunks sized for runtime.NumCPU()
// when the event count is large enough to be worth the goroutine overhead;
// each worker owns a disjoint row range and writes only into its own
// column-slice indices, so no synchronization is needed beyond the
// WaitGroup join (§5 Concurrency: "each worker owns scratch vectors").
func readData(raw []byte, events, params int, order binary.ByteOrder) ([][]float32, error) {
	needed := events * params * 4
	if len(raw) < needed {
		return nil, fmt.Errorf("fcs: DATA segment is %d bytes, need %d for %d events x %d parameters: %w",
			len(raw), needed, events, params, ErrTruncatedData)
	}

	columns := make([][]float32, params)
	for p := range columns {
		columns[p] = make([]float32, events)
	}
	if events == 0 {
		return columns, nil
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if events < 4096 {
		workers = 1
	}
	chunk := (events + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= events {
			break
		}
		if end > events {
			end = events
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for e := start; e < end; e++ {
				base := (e*params) * 4
				for p := 0; p < params; p++ {
					off := base + p*4
					bits := order.Uint32(raw[off : off+4])
					columns[p][e] = math.Float32frombits(bits)
				}
			}
		}(start, end)
	}
	wg.Wait()

	return columns, nil
}
