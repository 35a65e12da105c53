// Package systems provides the per-tick systems of the simulation: behaviors,
// movement, contact resolution and the spatial index they share.
package systems

import "slices"

// gridItem is an indexed circle in the grid.
type gridItem struct {
	index  int
	x, y   float32
	radius float32
}

// SpatialGrid provides cell-based lookups of stationary circles on the
// ground plane. Items are referenced by their index in the caller's list.
type SpatialGrid struct {
	cellSize  float32
	cols      int
	rows      int
	maxRadius float32
	cells     [][]gridItem
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 64
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]gridItem, cols*rows)
	for i := range cells {
		cells[i] = make([]gridItem, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all items from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.maxRadius = 0
}

// Insert adds an item with the given index, center and radius.
func (g *SpatialGrid) Insert(index int, x, y, radius float32) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], gridItem{index: index, x: x, y: y, radius: radius})
	if radius > g.maxRadius {
		g.maxRadius = radius
	}
}

// QueryInto appends to dst the indices of items whose circle overlaps the
// circle (x, y, radius) on the ground plane, in ascending index order.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryInto(dst []int, x, y, radius float32) []int {
	start := len(dst)
	reach := radius + g.maxRadius
	cellRadius := int(reach/g.cellSize) + 1

	centerCol, centerRow := g.cellCoords(x, y)

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := centerCol + dc
		if col < 0 || col >= g.cols {
			continue
		}
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := centerRow + dr
			if row < 0 || row >= g.rows {
				continue
			}
			for _, it := range g.cells[row*g.cols+col] {
				dx := it.x - x
				dy := it.y - y
				r := radius + it.radius
				if dx*dx+dy*dy < r*r {
					dst = append(dst, it.index)
				}
			}
		}
	}

	slices.Sort(dst[start:])
	return dst
}

// cellCoords returns the clamped column and row for a world position.
func (g *SpatialGrid) cellCoords(x, y float32) (int, int) {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}
