// Package supergrid implements a spatial hash grid for broad-phase
// collision queries over axis-aligned rectangles. A bounded arena is
// partitioned into fixed-size cells; entities are indexed by the cells
// their bounds overlap, so "what is near this rectangle?" costs a few
// bucket reads instead of a scan over every entity.
//
// The grid performs no locking. Mutations must not run concurrently
// with each other or with probes on the same instance; once no mutation
// is in flight, probes are side-effect-free and may be parallelized by
// the caller.
package supergrid

import (
	"errors"
	"fmt"
)

// ID identifies an entity in the grid. Callers allocate ids and keep
// them unique; the grid attaches no meaning to the value.
type ID uint32

var (
	// ErrInvalidConfig is returned by New for non-positive dimensions.
	ErrInvalidConfig = errors.New("supergrid: invalid config")
	// ErrDuplicateID is returned by Insert when the id is already live.
	ErrDuplicateID = errors.New("supergrid: duplicate id")
	// ErrUnknownID is returned by Update, Remove and Probe for ids that
	// are not live.
	ErrUnknownID = errors.New("supergrid: unknown id")
)

// Grid indexes rectangular entities by the arena cells they overlap.
// Arena dimensions and cell size are fixed at construction; callers
// needing a different resolution build a new grid and reinsert.
type Grid struct {
	width    float64
	height   float64
	cellSize float64

	idx   cellIndexer
	table entityTable
	store *bucketStore
}

// New creates a grid over a width x height arena partitioned into
// cellSize cells. All three dimensions must be positive.
func New(width, height, cellSize float64) (*Grid, error) {
	if width <= 0 || height <= 0 || cellSize <= 0 {
		return nil, fmt.Errorf("%w: width=%g height=%g cellSize=%g",
			ErrInvalidConfig, width, height, cellSize)
	}
	idx := newCellIndexer(width, height, cellSize)
	return &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		idx:      idx,
		table:    newEntityTable(),
		store:    newBucketStore(idx.cols * idx.rows),
	}, nil
}

// Insert adds a new entity with the given bounds. Bounds outside the
// arena are clamped to the nearest edge cells, never rejected.
func (g *Grid) Insert(id ID, r Rect) error {
	if _, ok := g.table.get(id); ok {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	span := g.idx.cover(r)
	for row := span.r0; row <= span.r1; row++ {
		for col := span.c0; col <= span.c1; col++ {
			g.store.add(g.idx.index(col, row), id)
		}
	}
	g.table.set(id, r, span)
	return nil
}

// Update moves a live entity to new bounds. Only the cells that differ
// between the old and new coverage are touched; the final bucket state
// is identical to a Remove followed by an Insert.
func (g *Grid) Update(id ID, r Rect) error {
	rec, ok := g.table.get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	span := g.idx.cover(r)
	old := rec.span
	for row := old.r0; row <= old.r1; row++ {
		for col := old.c0; col <= old.c1; col++ {
			if !span.contains(col, row) {
				g.store.remove(g.idx.index(col, row), id)
			}
		}
	}
	for row := span.r0; row <= span.r1; row++ {
		for col := span.c0; col <= span.c1; col++ {
			if !old.contains(col, row) {
				g.store.add(g.idx.index(col, row), id)
			}
		}
	}
	g.table.set(id, r, span)
	return nil
}

// Remove deletes a live entity from every bucket it occupies.
func (g *Grid) Remove(id ID) error {
	rec, ok := g.table.get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	for row := rec.span.r0; row <= rec.span.r1; row++ {
		for col := rec.span.c0; col <= rec.span.c1; col++ {
			g.store.remove(g.idx.index(col, row), id)
		}
	}
	g.table.delete(id)
	return nil
}

// Rect returns the current bounds of a live entity.
func (g *Grid) Rect(id ID) (Rect, bool) {
	rec, ok := g.table.get(id)
	return rec.rect, ok
}

// Clear drops every entity but keeps the cell layout and allocated
// bucket capacity. The grid remains fully usable afterwards.
func (g *Grid) Clear() {
	g.store.clear()
	g.table.clear()
}

// Count returns the number of live entities.
func (g *Grid) Count() int { return g.table.len() }

// Cols returns the number of cell columns.
func (g *Grid) Cols() int { return g.idx.cols }

// Rows returns the number of cell rows.
func (g *Grid) Rows() int { return g.idx.rows }

// Cells returns the total number of cells.
func (g *Grid) Cells() int { return g.idx.cols * g.idx.rows }

// Width returns the arena width.
func (g *Grid) Width() float64 { return g.width }

// Height returns the arena height.
func (g *Grid) Height() float64 { return g.height }

// CellSize returns the cell edge length.
func (g *Grid) CellSize() float64 { return g.cellSize }
