package geosphere

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/geosphere/meshtool"
)

// PyramidHemisphere generates a hemisphere by subdividing a pyramid fan. See [Generator.PyramidHemisphere].
func PyramidHemisphere(dst *meshtool.Buffer, radius float32, complexity int, correction bool) {
	var g Generator
	g.PyramidHemisphere(dst, radius, complexity, correction)
}

// PyramidCounts returns the vertex and face counts of a pyramid hemisphere
// with the given amount of base sides subdivided the given amount of times.
func PyramidCounts(sides, subdivisions int) (vertices, faces int) {
	vertices, faces = sides+1, sides
	edges := sides * 2
	for range subdivisions {
		vertices += edges
		edges = 2*edges + 3*faces
		faces *= 4
	}
	return vertices, faces
}

// PyramidHemisphere generates a hemisphere by subdividing a pyramid whose apex
// sits at +Y and whose base ring lies on the equator.
// The complexity encodes both the amount of base sides (complexity%6 + 3)
// and subdivisions (complexity/6).
//
// With correction set the radius is enlarged so that the average of the
// ring radius and its apothem equals the requested radius.
//
// Unlike [Generator.Hemisphere] the result has a flat equatorial rim made of
// the base ring's edges.
func (g *Generator) PyramidHemisphere(dst *meshtool.Buffer, radius float32, complexity int, correction bool) {
	complexity = max(complexity, 0)
	subdivisions := complexity / 6
	sides := complexity%6 + 3
	if correction {
		radius = radius * 2 / (1 + math32.Cos(math32.Pi/float32(sides*(subdivisions+1))))
	}
	nv, nf := PyramidCounts(sides, subdivisions)
	dst.Topology = meshtool.Triangles
	dst.SetVertexCount(nv)
	dst.SetIndexCount(nf*3, true, false)

	dst.Positions[0] = ms3.Vec{Y: radius}
	dst.Normals[0] = ms3.Vec{Y: 1}
	da := 2 * math32.Pi / float32(sides)
	for i := 1; i <= sides; i++ {
		angle := da * float32(i)
		n := ms3.Vec{X: math32.Cos(angle), Z: math32.Sin(angle)}
		dst.Positions[i] = ms3.Scale(radius, n)
		dst.Normals[i] = n
	}
	for i := 1; i < sides; i++ {
		dst.SetTriangle(i, 0, i+1, i)
	}
	dst.SetTriangle(0, 0, 1, sides)
	dst.ActiveVertices = sides + 1
	dst.ActiveIndices = sides * 3

	g.reserveEdges(nf / 4 * 6)
	for range subdivisions {
		g.Subdivide(dst, radius)
	}
	dst.Clear()
	dst.Apply(meshtool.Geometry)
}
