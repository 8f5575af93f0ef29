// Package glrender exports meshes: triangle streaming, STL and OBJ encoding
// and a software rasterizer for preview images.
package glrender

import (
	"errors"
	"io"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/geosphere/meshtool"
)

// Renderer streams triangles into dst. It returns io.EOF once all triangles are read.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle) (n int, err error)
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]ms3.Triangle, error) {
	const startSize = 4096
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, startSize)
	buf := make([]ms3.Triangle, startSize)
	for {
		nt, err = r.ReadTriangles(buf)
		if err == nil || err == io.EOF {
			result = append(result, buf[:nt]...)
		}
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// MeshRenderer streams the triangles of a [meshtool.Mesh]. Degenerate triangles are skipped.
type MeshRenderer struct {
	mesh *meshtool.Mesh
	// next is the index into mesh.Indices of the next triangle to read.
	next int
}

// NewMeshRenderer returns a [MeshRenderer] reading from m.
func NewMeshRenderer(m *meshtool.Mesh) (*MeshRenderer, error) {
	var mr MeshRenderer
	err := mr.Reset(m)
	if err != nil {
		return nil, err
	}
	return &mr, nil
}

// Reset starts reading triangles from m from the beginning.
func (mr *MeshRenderer) Reset(m *meshtool.Mesh) error {
	if m == nil {
		return errors.New("nil mesh")
	} else if m.Topology != meshtool.Triangles {
		return errors.New("mesh topology is " + m.Topology.String() + ", want triangles")
	}
	*mr = MeshRenderer{mesh: m}
	return nil
}

func (mr *MeshRenderer) ReadTriangles(dst []ms3.Triangle) (n int, err error) {
	if len(dst) == 0 {
		return 0, io.ErrShortBuffer
	}
	idx := mr.mesh.Indices
	pos := mr.mesh.Positions
	for n < len(dst) && mr.next+2 < len(idx) {
		a, b, c := idx[mr.next], idx[mr.next+1], idx[mr.next+2]
		mr.next += 3
		if a == b || b == c || a == c {
			continue
		}
		dst[n] = ms3.Triangle{pos[a], pos[b], pos[c]}
		n++
	}
	if mr.next+2 >= len(idx) {
		err = io.EOF
	}
	return n, err
}
