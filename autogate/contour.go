package autogate

import "github.com/czarop/flowcyto/gate"

// corner indexes a grid-cell corner in cell-count space: corner (cx, cy) is
// the shared vertex of up to four cells (cx-1,cy-1), (cx,cy-1), (cx-1,cy)
// and (cx,cy).
type corner struct{ x, y int }

// contourEdge is one unit-length segment of an inside cell's boundary,
// oriented so that walking from to continues counter-clockwise around the inside
// region with the region on the walker's left (verified on a single
// isolated inside cell: the four edges chain top-left -> bottom-left ->
// bottom-right -> top-right -> top-left with positive signed area).
type contourEdge struct{ from, to corner }

// traceDensityContour walks the edges between admitted ("inside") and
// rejected grid cells and stitches them into closed loops, returning the
// loop with the most vertices as the density-contour polygon (§4.I
// "trace the boundary by marching across grid cells"). Disconnected
// regions produce independent loops; picking the one with the most
// vertices is a simple, deterministic proxy for "the dominant population"
// without requiring a separate connected-component pass.
func traceDensityContour(inside [][]bool, nx, ny int, gridX, gridY []float64) []gate.Point {
	if nx < 2 || ny < 2 {
		return nil
	}
	spacingX := (gridX[nx-1] - gridX[0]) / float64(nx-1)
	spacingY := (gridY[ny-1] - gridY[0]) / float64(ny-1)
	cornerX := func(cx int) float64 { return gridX[0] - spacingX/2 + float64(cx)*spacingX }
	cornerY := func(cy int) float64 { return gridY[0] - spacingY/2 + float64(cy)*spacingY }

	insideAt := func(ix, iy int) bool {
		if ix < 0 || ix >= nx || iy < 0 || iy >= ny {
			return false
		}
		return inside[iy][ix]
	}

	var edges []contourEdge
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			if !insideAt(ix, iy) {
				continue
			}
			if !insideAt(ix-1, iy) {
				edges = append(edges, contourEdge{corner{ix, iy + 1}, corner{ix, iy}})
			}
			if !insideAt(ix, iy-1) {
				edges = append(edges, contourEdge{corner{ix, iy}, corner{ix + 1, iy}})
			}
			if !insideAt(ix+1, iy) {
				edges = append(edges, contourEdge{corner{ix + 1, iy}, corner{ix + 1, iy + 1}})
			}
			if !insideAt(ix, iy+1) {
				edges = append(edges, contourEdge{corner{ix + 1, iy + 1}, corner{ix, iy + 1}})
			}
		}
	}
	if len(edges) == 0 {
		return nil
	}

	byStart := map[corner][]int{}
	for i, e := range edges {
		byStart[e.from] = append(byStart[e.from], i)
	}
	used := make([]bool, len(edges))

	var best []corner
	for i := range edges {
		if used[i] {
			continue
		}
		var loop []corner
		start := edges[i].from
		cur := i
		for {
			used[cur] = true
			loop = append(loop, edges[cur].from)
			next := edges[cur].to
			if next == start {
				break
			}
			found := -1
			for _, c := range byStart[next] {
				if !used[c] {
					found = c
					break
				}
			}
			if found == -1 {
				break
			}
			cur = found
		}
		if len(loop) > len(best) {
			best = loop
		}
	}

	vertices := make([]gate.Point, 0, len(best))
	for _, c := range best {
		vertices = append(vertices, gate.Point{X: cornerX(c.x), Y: cornerY(c.y)})
	}
	return vertices
}
