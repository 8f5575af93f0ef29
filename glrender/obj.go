package glrender

import (
	"bufio"
	"errors"
	"io"
	"strconv"

	"github.com/soypat/geosphere/meshtool"
)

// WriteOBJ writes m as a Wavefront OBJ. Vertex normals are included when the mesh
// has one per position. Degenerate triangles are skipped.
func WriteOBJ(w io.Writer, m *meshtool.Mesh) error {
	if m.Topology != meshtool.Triangles {
		return errors.New("OBJ export requires triangle topology")
	}
	hasNormals := len(m.Normals) == len(m.Positions)
	bw := bufio.NewWriter(w)
	var line []byte
	appendFloat := func(f float32) {
		line = append(line, ' ')
		line = strconv.AppendFloat(line, float64(f), 'g', -1, 32)
	}
	for _, p := range m.Positions {
		line = append(line[:0], 'v')
		appendFloat(p.X)
		appendFloat(p.Y)
		appendFloat(p.Z)
		line = append(line, '\n')
		bw.Write(line)
	}
	if hasNormals {
		for _, n := range m.Normals {
			line = append(line[:0], "vn"...)
			appendFloat(n.X)
			appendFloat(n.Y)
			appendFloat(n.Z)
			line = append(line, '\n')
			bw.Write(line)
		}
	}
	idx := m.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := idx[i], idx[i+1], idx[i+2]
		if a == b || b == c || a == c {
			continue
		}
		line = append(line[:0], 'f')
		for _, v := range [3]int{a, b, c} {
			line = append(line, ' ')
			line = strconv.AppendInt(line, int64(v+1), 10) // OBJ indices are 1-based.
			if hasNormals {
				line = append(line, "//"...)
				line = strconv.AppendInt(line, int64(v+1), 10)
			}
		}
		line = append(line, '\n')
		bw.Write(line)
	}
	return bw.Flush()
}
