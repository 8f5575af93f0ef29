package geosphere

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/geosphere/fastmath"
	"github.com/soypat/geosphere/meshtool"
)

type solidData struct {
	// dirs are unit length vertex directions.
	dirs    []ms3.Vec
	indices []int
}

var solids [3]solidData

func init() {
	t := 1 / math32.Sqrt2
	solids[Tetrahedron] = solidData{
		dirs: normalizeAll([]ms3.Vec{
			{X: 1, Y: 0, Z: -t},
			{X: -1, Y: 0, Z: -t},
			{X: 0, Y: 1, Z: t},
			{X: 0, Y: -1, Z: t},
		}),
		indices: []int{
			0, 1, 2,
			0, 2, 3,
			1, 3, 2,
			0, 3, 1,
		},
	}

	solids[Octahedron] = solidData{
		dirs: []ms3.Vec{
			{X: 0, Y: 0, Z: 1},
			{X: -1, Y: 0, Z: 0},
			{X: 0, Y: -1, Z: 0},
			{X: 0, Y: 0, Z: -1},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		indices: []int{
			0, 1, 2,
			3, 2, 1,
			2, 3, 4,
			0, 5, 1,
			3, 1, 5,
			0, 4, 5,
			4, 3, 5,
			0, 2, 4,
		},
	}

	t = (1 + math32.Sqrt(5)) / 2 // Golden ratio.
	solids[Icosahedron] = solidData{
		dirs: normalizeAll([]ms3.Vec{
			{X: -1, Y: t, Z: 0},
			{X: 1, Y: t, Z: 0},
			{X: -1, Y: -t, Z: 0},
			{X: 1, Y: -t, Z: 0},

			{X: 0, Y: -1, Z: t},
			{X: 0, Y: 1, Z: t},
			{X: 0, Y: -1, Z: -t},
			{X: 0, Y: 1, Z: -t},

			{X: t, Y: 0, Z: -1},
			{X: t, Y: 0, Z: 1},
			{X: -t, Y: 0, Z: -1},
			{X: -t, Y: 0, Z: 1},
		}),
		indices: []int{
			0, 11, 5,
			0, 5, 1,
			0, 1, 7,
			0, 7, 10,
			0, 10, 11,

			1, 5, 9,
			5, 11, 4,
			11, 10, 2,
			10, 7, 6,
			7, 1, 8,

			3, 9, 4,
			3, 4, 2,
			3, 2, 6,
			3, 6, 8,
			3, 8, 9,

			4, 9, 5,
			2, 4, 11,
			6, 2, 10,
			8, 6, 7,
			9, 8, 1,
		},
	}
}

func normalizeAll(v []ms3.Vec) []ms3.Vec {
	for i := range v {
		v[i] = fastmath.Normalize(v[i])
	}
	return v
}

// SolidVertices returns a copy of the unit vertex directions of s.
func SolidVertices(s Solid) []ms3.Vec {
	return append([]ms3.Vec(nil), solids[s].dirs...)
}

// SolidIndices returns a copy of the triangle indices of s.
func SolidIndices(s Solid) []int {
	return append([]int(nil), solids[s].indices...)
}

// SeedSolid writes solid s with the given radius into the start of dst and sets
// the active counters to the solid's vertex and index counts.
// dst must already have room for the solid's vertices and indices.
func SeedSolid(dst *meshtool.Buffer, s Solid, radius float32) {
	sd := &solids[s]
	if dst.VertexCount() < len(sd.dirs) || len(dst.Indices) < len(sd.indices) {
		panic("buffer too small to seed " + s.String())
	}
	copy(dst.Indices, sd.indices)
	for i, dir := range sd.dirs {
		dst.Positions[i] = fastmath.Scale(dir, radius)
		dst.Normals[i] = dir
	}
	dst.ActiveVertices = len(sd.dirs)
	dst.ActiveIndices = len(sd.indices)
}
