package octree

import (
	"math"

	"github.com/golang/geo/r3"
)

// maxCellCoord bounds per-axis cell coordinates so that converting them to integers is always
// defined, whatever the magnitude of the input.
const maxCellCoord = 1 << 40

// spatialHashGrid maps a cell index to the single point that first claimed it.
type spatialHashGrid struct {
	cellSize float64
	cells    map[int64]struct{}
	// points holds the representatives in the order they claimed their cells.
	points []int
}

func newSpatialHashGrid(cellSize float64) spatialHashGrid {
	return spatialHashGrid{cellSize: cellSize}
}

// cellIndex flattens the cell coordinates of p into a single index:
// floor(x/s) + floor(y/s)*R + floor(z/s)*R*R.
func (g *spatialHashGrid) cellIndex(p r3.Vector) int64 {
	const r = GridResolution
	return g.cellCoord(p.X) + g.cellCoord(p.Y)*r + g.cellCoord(p.Z)*r*r
}

func (g *spatialHashGrid) cellCoord(v float64) int64 {
	// A degenerate volume has a single cell.
	if g.cellSize <= 0 {
		return 0
	}
	c := math.Floor(v / g.cellSize)
	switch {
	case math.IsNaN(c):
		return 0
	case c > maxCellCoord:
		return maxCellCoord
	case c < -maxCellCoord:
		return -maxCellCoord
	}
	return int64(c)
}

// claim stores point in cell if the cell is free and reports whether it did.
func (g *spatialHashGrid) claim(cell int64, point int) bool {
	if g.cells == nil {
		g.cells = make(map[int64]struct{})
	}
	if _, ok := g.cells[cell]; ok {
		return false
	}
	g.cells[cell] = struct{}{}
	g.points = append(g.points, point)
	return true
}

func (g *spatialHashGrid) len() int {
	return len(g.points)
}

// release drops every representative, keeping the cell size.
func (g *spatialHashGrid) release() {
	g.cells = nil
	g.points = nil
}
