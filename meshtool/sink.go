package meshtool

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/soypat/geometry/ms3"
)

// UV is a texture coordinate channel entry. Up to four components are stored
// so that packed per-vertex data fits in the same channel.
type UV = [4]float32

// Sink receives committed buffer contents. A Sink is only ever written to
// through [Buffer.Apply] and [Buffer.Clear]; implementations must copy
// the slices they are handed since the Buffer keeps reusing them.
type Sink interface {
	Clear()
	SetPositions(positions []ms3.Vec)
	SetNormals(normals []ms3.Vec)
	SetColors(colors []color.RGBA)
	SetUVs(channel int, uvs []UV)
	SetIndices(indices []int, topology Topology)
	// RecalculateBounds is called after positions or indices change.
	RecalculateBounds()
	// RecalculateNormals derives normals from the committed geometry.
	RecalculateNormals()
}

// Attrib is a bit set selecting which buffer arrays [Buffer.Apply] commits.
type Attrib uint8

const (
	Positions Attrib = 1 << iota
	Normals
	Colors
	UV0
	UV1
	Indices
	// AutoNormals asks the sink to derive normals from geometry instead of
	// relying on stored normals.
	AutoNormals

	// Geometry selects positions, normals and indices which is what the
	// sphere generators commit.
	Geometry = Positions | Normals | Indices
)

// Has reports whether all bits of b are set in a.
func (a Attrib) Has(b Attrib) bool { return a&b == b }

func (a Attrib) String() string {
	if a == 0 {
		return "none"
	}
	names := [...]string{"positions", "normals", "colors", "uv0", "uv1", "indices", "autonormals"}
	var sb strings.Builder
	for i, name := range names {
		if a&(1<<i) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(name)
	}
	return sb.String()
}

// Topology is the primitive layout of an index buffer.
type Topology uint8

const (
	Triangles Topology = iota
	Quads
	Lines
	LineStrip
	Points
)

// IndicesPerPrimitive returns the amount of indices each primitive consumes.
// LineStrip returns 1 since every index after the first adds a segment.
func (t Topology) IndicesPerPrimitive() int {
	switch t {
	case Triangles:
		return 3
	case Quads:
		return 4
	case Lines:
		return 2
	case LineStrip, Points:
		return 1
	}
	panic("invalid topology " + t.String())
}

func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case Quads:
		return "quads"
	case Lines:
		return "lines"
	case LineStrip:
		return "linestrip"
	case Points:
		return "points"
	}
	return "topology(" + strconv.Itoa(int(t)) + ")"
}
