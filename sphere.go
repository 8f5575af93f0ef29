// Package geosphere generates triangulated geodesic spheres and hemispheres by
// repeatedly subdividing a platonic solid and projecting new vertices onto the sphere.
//
// Geometry is written into a [meshtool.Buffer] which is committed to its sink once
// generation finishes. Buffers are reused across calls so regenerating a mesh
// at a different complexity level does not need to allocate.
package geosphere

import (
	"github.com/soypat/geosphere/fastmath"
	"github.com/soypat/geosphere/meshtool"
)

// Generator holds scratch memory reused across generation calls.
// The zero value is ready to use. A Generator must not be used concurrently.
type Generator struct {
	// edges maps an unordered vertex pair to the vertex created at its midpoint.
	// Only valid during a single subdivision pass.
	edges   map[uint64]int
	vertUse []int32
}

// Sphere generates a geodesic sphere of the given complexity level into dst and
// commits positions, normals and indices. See [Generator.Sphere].
func Sphere(dst *meshtool.Buffer, radius float32, level int, correction bool) {
	var g Generator
	g.Sphere(dst, radius, level, correction)
}

// Hemisphere generates the upper half of a geodesic sphere into dst. See [Generator.Hemisphere].
func Hemisphere(dst *meshtool.Buffer, radius float32, level int, correction bool) {
	var g Generator
	g.Hemisphere(dst, radius, level, correction)
}

// CullSphereToHemisphere removes the downward facing triangles of the mesh in dst. See [Generator.CullSphereToHemisphere].
func CullSphereToHemisphere(dst *meshtool.Buffer) {
	var g Generator
	g.CullSphereToHemisphere(dst)
}

// Sphere generates a geodesic sphere into dst. The level selects a [Geodesic]
// recipe via [LookupGeodesic] and dst is resized to the exact vertex and face
// counts of the recipe. When correction is set the radius is scaled by the
// recipe's correction factor.
func (g *Generator) Sphere(dst *meshtool.Buffer, radius float32, level int, correction bool) {
	geo := LookupGeodesic(level)
	dst.Topology = meshtool.Triangles
	dst.SetVertexCount(geo.Vertices)
	dst.SetIndexCount(geo.Faces*3, true, false)
	if correction {
		radius *= geo.Correction
	}
	SeedSolid(dst, geo.Base, radius)
	g.reserveEdges(geo.Faces / 4 * 6)
	for range geo.Subdivisions {
		g.Subdivide(dst, radius)
	}
	dst.Clear()
	dst.Apply(meshtool.Geometry)
}

// Hemisphere generates a sphere with [Generator.Sphere] and culls it with
// [Generator.CullSphereToHemisphere].
func (g *Generator) Hemisphere(dst *meshtool.Buffer, radius float32, level int, correction bool) {
	g.Sphere(dst, radius, level, correction)
	g.CullSphereToHemisphere(dst)
}

// Subdivide splits each of the active triangles of dst into four. New vertices
// are placed on the sphere of the given radius centered at the origin.
// The inner triangle replaces the original in place and the three corner
// triangles of triangle j are written at ActiveIndices/3 + 3j.
// Buffers are grown if they lack room, though callers sizing dst
// exactly beforehand avoid any reallocation.
func (g *Generator) Subdivide(dst *meshtool.Buffer, radius float32) {
	prevTris := dst.ActiveIndices / 3
	nextIdx := prevTris * 4 * 3
	if len(dst.Indices) < nextIdx {
		dst.SetIndexCount(nextIdx, true, true)
	}
	if g.edges == nil {
		g.reserveEdges(prevTris * 3)
	}
	vcount := dst.VertexCount()
	for j := 0; j < prevTris; j++ {
		// Triangle j must be read before it is overwritten with the inner triangle.
		tri := dst.GetTriangle(j)
		a := g.midpoint(dst, tri[0], tri[1], radius)
		b := g.midpoint(dst, tri[1], tri[2], radius)
		c := g.midpoint(dst, tri[2], tri[0], radius)

		dst.SetTriangle(prevTris+j*3+0, tri[0], a, c)
		dst.SetTriangle(prevTris+j*3+1, tri[1], b, a)
		dst.SetTriangle(prevTris+j*3+2, tri[2], c, b)
		dst.SetTriangle(j, a, b, c)
	}
	dst.ActiveIndices = nextIdx
	if dst.VertexCount() != vcount {
		// midpoint grew the buffer; trim the slack so no unused vertices get committed.
		dst.SetVertexCount(dst.ActiveVertices)
	}
	clear(g.edges)
}

// midpoint returns the index of the vertex halfway along edge (a,b) projected
// onto the sphere, creating it on the first query of the pass.
func (g *Generator) midpoint(dst *meshtool.Buffer, a, b int, radius float32) int {
	key := edgeKey(a, b)
	if i, ok := g.edges[key]; ok {
		return i
	}
	dir := fastmath.Normalize(fastmath.Midpoint(dst.Positions[a], dst.Positions[b]))
	i := dst.ActiveVertices
	if i >= dst.VertexCount() {
		dst.SetVertexCount(max(2*i, i+16))
	}
	dst.ActiveVertices++
	dst.Positions[i] = fastmath.Scale(dir, radius)
	dst.Normals[i] = dir
	g.edges[key] = i
	return i
}

func (g *Generator) reserveEdges(n int) {
	if g.edges == nil {
		g.edges = make(map[uint64]int, n)
	}
}

// edgeKey canonicalizes the unordered pair (a,b).
func edgeKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

// CullSphereToHemisphere removes every triangle of dst whose normal points
// downwards (negative Y) along with the vertices no remaining triangle references.
// Surviving triangles and vertices are compacted to the front of the buffers which
// are then shrunk to exact size and committed.
// When dst.ActiveIndices is zero every triangle of dst.Indices is considered.
func (g *Generator) CullSphereToHemisphere(dst *meshtool.Buffer) {
	nv := dst.VertexCount()
	if cap(g.vertUse) < nv {
		g.vertUse = make([]int32, nv)
	}
	use := g.vertUse[:nv]
	clear(use)

	activeIdx := dst.ActiveIndices
	if activeIdx == 0 {
		// Buffer filled through SetTriangle without setting active counts.
		activeIdx = len(dst.Indices) / 3 * 3
	} else if activeIdx > len(dst.Indices) {
		panic("active indices exceed index buffer length")
	}
	lastTri := activeIdx/3 - 1
	for i := 0; i <= lastTri; {
		tri := dst.GetTriangle(i)
		if facesDown(dst, tri) {
			// Swapped in triangle is tested on next iteration without advancing i.
			dst.SwapTriangle(i, lastTri)
			lastTri--
			continue
		}
		use[tri[0]]++
		use[tri[1]]++
		use[tri[2]]++
		i++
	}

	lastVert := nv - 1
	for i := 0; i <= lastVert; {
		if use[i] == 0 {
			dst.SwapVertex(i, lastVert, true)
			use[i], use[lastVert] = use[lastVert], use[i]
			lastVert--
			continue
		}
		i++
	}

	liveIdx := (lastTri + 1) * 3
	dst.SetVertexCount(lastVert + 1)
	dst.SetIndexCount(liveIdx, false, true)
	dst.ActiveVertices = lastVert + 1
	dst.ActiveIndices = liveIdx
	dst.Clear()
	dst.Apply(meshtool.Geometry)
}

// facesDown reports whether the Y component of (b-a)×(c-a) is negative.
func facesDown(dst *meshtool.Buffer, tri meshtool.Tri) bool {
	a := dst.Positions[tri[0]]
	ab := fastmath.Sub(dst.Positions[tri[1]], a)
	ac := fastmath.Sub(dst.Positions[tri[2]], a)
	return ab.Z*ac.X-ab.X*ac.Z < 0
}
