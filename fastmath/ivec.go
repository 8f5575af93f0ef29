package fastmath

import (
	"github.com/soypat/geometry/i3"
	"github.com/soypat/geometry/ms3"
)

// Ortho holds the six axis aligned unit steps in right, down, left, up, forward, back order.
var Ortho = [6]i3.Vec{
	{X: 1}, {Y: -1}, {X: -1}, {Y: 1}, {Z: 1}, {Z: -1},
}

// IVecFromVec converts v to a lattice point truncating each component towards zero.
func IVecFromVec(v ms3.Vec) i3.Vec {
	return i3.Vec{X: int(v.X), Y: int(v.Y), Z: int(v.Z)}
}

// IVecToVec converts lattice point p to float coordinates.
func IVecToVec(p i3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
}

// CellCoords returns the coordinates of the cell of size cellSize containing p.
// Negative coordinates floor towards negative infinity.
func CellCoords(p i3.Vec, cellSize int) i3.Vec {
	if cellSize <= 0 {
		panic("cell size must be positive")
	}
	return i3.Vec{X: floorDiv(p.X, cellSize), Y: floorDiv(p.Y, cellSize), Z: floorDiv(p.Z, cellSize)}
}

// OffsetCoords returns the position of p within its cell of size cellSize, each component in [0, cellSize).
func OffsetCoords(p i3.Vec, cellSize int) i3.Vec {
	if cellSize <= 0 {
		panic("cell size must be positive")
	}
	return i3.Vec{X: wrap(p.X, cellSize), Y: wrap(p.Y, cellSize), Z: wrap(p.Z, cellSize)}
}

// GridCoords returns both [CellCoords] and [OffsetCoords].
// The result satisfies cell.MulScalar(cellSize).Add(local) == p.
func GridCoords(p i3.Vec, cellSize int) (cell, local i3.Vec) {
	return CellCoords(p, cellSize), OffsetCoords(p, cellSize)
}

func floorDiv(v, n int) int {
	q := v / n
	if v%n < 0 {
		q--
	}
	return q
}

func wrap(v, n int) int {
	o := v % n
	if o < 0 {
		o += n
	}
	return o
}
