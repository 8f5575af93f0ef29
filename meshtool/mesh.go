package meshtool

import (
	"image/color"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/geosphere/fastmath"
)

// Mesh is an in-memory [Sink]. It keeps its own copy of every committed array.
type Mesh struct {
	Positions []ms3.Vec
	Normals   []ms3.Vec
	Colors    []color.RGBA
	UVs       [2][]UV
	Indices   []int
	Topology  Topology
	// Bounds is the axis aligned box containing all positions as of the
	// last call to RecalculateBounds.
	Bounds ms3.Box
	// Changed accumulates the attributes committed since the last Clear.
	Changed Attrib
}

var _ Sink = (*Mesh)(nil)

// Clear empties all arrays keeping their allocated memory.
func (m *Mesh) Clear() {
	m.Positions = m.Positions[:0]
	m.Normals = m.Normals[:0]
	m.Colors = m.Colors[:0]
	m.UVs[0] = m.UVs[0][:0]
	m.UVs[1] = m.UVs[1][:0]
	m.Indices = m.Indices[:0]
	m.Bounds = ms3.Box{}
	m.Changed = 0
}

func (m *Mesh) SetPositions(positions []ms3.Vec) {
	m.Positions = append(m.Positions[:0], positions...)
	m.Changed |= Positions
}

func (m *Mesh) SetNormals(normals []ms3.Vec) {
	m.Normals = append(m.Normals[:0], normals...)
	m.Changed |= Normals
}

func (m *Mesh) SetColors(colors []color.RGBA) {
	m.Colors = append(m.Colors[:0], colors...)
	m.Changed |= Colors
}

func (m *Mesh) SetUVs(channel int, uvs []UV) {
	if channel < 0 || channel >= len(m.UVs) {
		panic("invalid uv channel")
	}
	m.UVs[channel] = append(m.UVs[channel][:0], uvs...)
	m.Changed |= UV0 << channel
}

func (m *Mesh) SetIndices(indices []int, topology Topology) {
	m.Indices = append(m.Indices[:0], indices...)
	m.Topology = topology
	m.Changed |= Indices
}

// RecalculateBounds sets Bounds to the box containing all positions.
func (m *Mesh) RecalculateBounds() {
	if len(m.Positions) == 0 {
		m.Bounds = ms3.Box{}
		return
	}
	bb := ms3.Box{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		bb.Min = ms3.MinElem(bb.Min, p)
		bb.Max = ms3.MaxElem(bb.Max, p)
	}
	m.Bounds = bb
}

// RecalculateNormals sets every vertex normal to the area weighted average of
// the normals of the triangles it belongs to. Only triangle topology is supported;
// other topologies leave normals untouched.
func (m *Mesh) RecalculateNormals() {
	if m.Topology != Triangles {
		return
	}
	if cap(m.Normals) < len(m.Positions) {
		m.Normals = make([]ms3.Vec, len(m.Positions))
	}
	m.Normals = m.Normals[:len(m.Positions)]
	clear(m.Normals)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		pa := m.Positions[a]
		// Cross product length is twice the triangle area which gives the weighting.
		n := fastmath.Cross(fastmath.Sub(m.Positions[b], pa), fastmath.Sub(m.Positions[c], pa))
		m.Normals[a] = fastmath.Add(m.Normals[a], n)
		m.Normals[b] = fastmath.Add(m.Normals[b], n)
		m.Normals[c] = fastmath.Add(m.Normals[c], n)
	}
	for i := range m.Normals {
		m.Normals[i] = fastmath.Normalize(m.Normals[i])
	}
	m.Changed |= Normals
}

// TriangleCount returns the amount of non-degenerate triangles in the mesh.
func (m *Mesh) TriangleCount() (n int) {
	m.forEachTriangle(func(Tri) { n++ })
	return n
}

// Triangles appends the mesh's non-degenerate triangles to dst. Triangles
// with repeated indices, such as the zeroed tail of a lazily shrunk
// index buffer, are skipped.
func (m *Mesh) Triangles(dst []ms3.Triangle) []ms3.Triangle {
	m.forEachTriangle(func(t Tri) {
		dst = append(dst, ms3.Triangle{m.Positions[t[0]], m.Positions[t[1]], m.Positions[t[2]]})
	})
	return dst
}

func (m *Mesh) forEachTriangle(fn func(Tri)) {
	if m.Topology != Triangles {
		return
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		t := Tri{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			continue
		}
		fn(t)
	}
}
