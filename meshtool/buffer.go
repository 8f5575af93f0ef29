// Package meshtool implements an indexed vertex buffer with flat, reusable
// attribute slices that are committed to a [Sink] on demand.
//
// Logical sizes ([Buffer.VertexCount], ActiveVertices, ActiveIndices) are kept
// apart from allocation so repeated regeneration at varying sizes can reuse memory.
// Misuse such as reading a triangle from a buffer with the wrong topology panics.
package meshtool

import (
	"fmt"
	"image/color"

	"github.com/soypat/geometry/ms3"
)

// Tri holds the three vertex indices of a triangle.
type Tri [3]int

// Buffer owns per-vertex attribute slices and a flat index slice.
// All attribute slices have length VertexCount after a call to SetVertexCount.
type Buffer struct {
	Positions []ms3.Vec
	Normals   []ms3.Vec
	Colors    []color.RGBA
	UV0       []UV
	UV1       []UV
	Indices   []int

	Topology Topology

	// ActiveVertices is the amount of leading vertices that hold real geometry.
	ActiveVertices int
	// ActiveIndices is the amount of leading indices that hold real geometry.
	ActiveIndices int

	vertexCount int
	sink        Sink
}

// NewBuffer returns a Buffer that commits to sink. If sink is nil a new [Mesh] is used.
func NewBuffer(sink Sink, topology Topology) *Buffer {
	if sink == nil {
		sink = new(Mesh)
	}
	return &Buffer{sink: sink, Topology: topology}
}

// Sink returns the sink the buffer commits to.
func (b *Buffer) Sink() Sink { return b.sink }

// VertexCount returns the length of every attribute slice.
func (b *Buffer) VertexCount() int { return b.vertexCount }

// TriangleCount returns the amount of triangles the index slice has room for.
func (b *Buffer) TriangleCount() int { return len(b.Indices) / 3 }

// SetVertexCount resizes all attribute slices to exactly n entries.
// Entries below min(old, n) are preserved and new entries are zero valued.
func (b *Buffer) SetVertexCount(n int) {
	if n < 0 {
		panic("negative vertex count")
	}
	b.vertexCount = n
	b.Positions = resize(b.Positions, n)
	b.Normals = resize(b.Normals, n)
	b.Colors = resize(b.Colors, n)
	b.UV0 = resize(b.UV0, n)
	b.UV1 = resize(b.UV1, n)
}

// SetIndexCount ensures the index slice holds n indices.
//
// The slice is reallocated to exactly n when lazy is false or when it is too short.
// On reallocation preserve copies the overlapping prefix of the old indices.
// A lazy shrink keeps the slice length and zeroes the indices past n
// so stale indices are never committed.
func (b *Buffer) SetIndexCount(n int, lazy, preserve bool) {
	if n < 0 {
		panic("negative index count")
	}
	if len(b.Indices) < n || !lazy {
		prev := b.Indices
		b.Indices = make([]int, n)
		if preserve {
			copy(b.Indices, prev)
		}
	} else if len(b.Indices) > n {
		clear(b.Indices[n:])
	}
}

// SetTriangle writes the indices of the i'th triangle.
func (b *Buffer) SetTriangle(i, v0, v1, v2 int) {
	b.mustTriangle(i)
	b.Indices[i*3+0] = v0
	b.Indices[i*3+1] = v1
	b.Indices[i*3+2] = v2
}

// SetTri writes t as the i'th triangle.
func (b *Buffer) SetTri(i int, t Tri) {
	b.SetTriangle(i, t[0], t[1], t[2])
}

// GetTriangle reads the indices of the i'th triangle.
func (b *Buffer) GetTriangle(i int) Tri {
	b.mustTriangle(i)
	return Tri{b.Indices[i*3+0], b.Indices[i*3+1], b.Indices[i*3+2]}
}

// SwapTriangle exchanges the indices of triangles i and j.
func (b *Buffer) SwapTriangle(i, j int) {
	ti := b.GetTriangle(i)
	tj := b.GetTriangle(j)
	b.SetTri(i, tj)
	b.SetTri(j, ti)
}

// SwapVertex exchanges every attribute of vertices i and j. When updateIndices
// is set every index referencing i is rewritten to j and vice versa so that
// triangle connectivity is unchanged.
func (b *Buffer) SwapVertex(i, j int, updateIndices bool) {
	if i < 0 || j < 0 || i >= b.vertexCount || j >= b.vertexCount {
		panic(fmt.Sprintf("vertex swap (%d,%d) out of range for %d vertices", i, j, b.vertexCount))
	}
	b.Positions[i], b.Positions[j] = b.Positions[j], b.Positions[i]
	b.Normals[i], b.Normals[j] = b.Normals[j], b.Normals[i]
	b.Colors[i], b.Colors[j] = b.Colors[j], b.Colors[i]
	b.UV0[i], b.UV0[j] = b.UV0[j], b.UV0[i]
	b.UV1[i], b.UV1[j] = b.UV1[j], b.UV1[i]
	if !updateIndices || i == j {
		return
	}
	for k, idx := range b.Indices {
		switch idx {
		case i:
			b.Indices[k] = j
		case j:
			b.Indices[k] = i
		}
	}
}

// Clear forwards to the sink's Clear.
func (b *Buffer) Clear() {
	b.sink.Clear()
}

// Apply commits the arrays selected by attrs to the sink. Bounds are recalculated
// when positions or indices are committed.
func (b *Buffer) Apply(attrs Attrib) {
	s := b.sink
	if attrs.Has(Positions) {
		s.SetPositions(b.Positions)
	}
	if attrs.Has(Normals) {
		s.SetNormals(b.Normals)
	}
	if attrs.Has(Colors) {
		s.SetColors(b.Colors)
	}
	if attrs.Has(UV0) {
		s.SetUVs(0, b.UV0)
	}
	if attrs.Has(UV1) {
		s.SetUVs(1, b.UV1)
	}
	if attrs.Has(Indices) {
		s.SetIndices(b.Indices, b.Topology)
	}
	if attrs&(Positions|Indices) != 0 {
		s.RecalculateBounds()
	}
	if attrs.Has(AutoNormals) {
		s.RecalculateNormals()
	}
}

func (b *Buffer) mustTriangle(i int) {
	if b.Topology != Triangles {
		panic("buffer topology is " + b.Topology.String() + ", not triangles")
	}
	if i < 0 || len(b.Indices) < i*3+3 {
		panic(fmt.Sprintf("triangle %d out of range for %d indices", i, len(b.Indices)))
	}
}

func resize[T any](s []T, n int) []T {
	l := len(s)
	switch {
	case n <= l:
		return s[:n]
	case n <= cap(s):
		s = s[:n]
		clear(s[l:])
		return s
	}
	return append(s, make([]T, n-l)...)
}
