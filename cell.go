package supergrid

import "math"

// cellSpan is an inclusive range of cell coordinates covered by a rectangle.
type cellSpan struct {
	c0, r0 int
	c1, r1 int
}

// contains reports whether cell (c, r) falls inside the span.
func (s cellSpan) contains(c, r int) bool {
	return c >= s.c0 && c <= s.c1 && r >= s.r0 && r <= s.r1
}

// cellIndexer is the single source of truth for world-to-cell math.
// Both the mutation path and the probe path go through cover, so they
// always agree on which cells a rectangle occupies.
type cellIndexer struct {
	cellSize float64
	cols     int
	rows     int
}

func newCellIndexer(width, height, cellSize float64) cellIndexer {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cellIndexer{cellSize: cellSize, cols: cols, rows: rows}
}

// cover returns the clamped span of cells r intersects. Rectangles
// outside the arena collapse to the nearest edge cell rather than an
// empty span, so nothing is ever silently dropped.
func (ci cellIndexer) cover(r Rect) cellSpan {
	return cellSpan{
		c0: ci.clampCol(int(math.Floor(r.MinX / ci.cellSize))),
		r0: ci.clampRow(int(math.Floor(r.MinY / ci.cellSize))),
		c1: ci.clampCol(int(math.Floor(r.MaxX / ci.cellSize))),
		r1: ci.clampRow(int(math.Floor(r.MaxY / ci.cellSize))),
	}
}

// index returns the linear bucket index for cell (c, r).
func (ci cellIndexer) index(c, r int) int {
	return r*ci.cols + c
}

func (ci cellIndexer) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= ci.cols {
		return ci.cols - 1
	}
	return c
}

func (ci cellIndexer) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= ci.rows {
		return ci.rows - 1
	}
	return r
}
