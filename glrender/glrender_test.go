package glrender_test

import (
	"bufio"
	"bytes"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/geosphere"
	"github.com/soypat/geosphere/glrender"
	"github.com/soypat/geosphere/meshtool"
)

func sphereMesh(t *testing.T, level int) *meshtool.Mesh {
	t.Helper()
	var m meshtool.Mesh
	buf := meshtool.NewBuffer(&m, meshtool.Triangles)
	geosphere.Sphere(buf, 1, level, false)
	return &m
}

func TestSTLRoundTrip(t *testing.T) {
	m := sphereMesh(t, 6)
	tris := m.Triangles(nil)
	if len(tris) != m.TriangleCount() {
		t.Fatal("triangle count mismatch", len(tris), m.TriangleCount())
	}
	var b bytes.Buffer
	n, err := glrender.WriteBinarySTL(&b, tris)
	if err != nil {
		t.Fatal(err)
	}
	if n != b.Len() || n != 84+50*len(tris) {
		t.Fatalf("wrote %d bytes, buffer has %d, expected %d", n, b.Len(), 84+50*len(tris))
	}
	got, err := glrender.ReadBinarySTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(tris) {
		t.Fatal("read back", len(got), "triangles, want", len(tris))
	}
	for i := range got {
		if got[i] != tris[i] {
			t.Fatalf("triangle %d mismatch: %v != %v", i, got[i], tris[i])
		}
	}
}

func TestSTLTruncated(t *testing.T) {
	m := sphereMesh(t, 3)
	var b bytes.Buffer
	_, err := glrender.WriteBinarySTL(&b, m.Triangles(nil))
	if err != nil {
		t.Fatal(err)
	}
	data := b.Bytes()
	_, err = glrender.ReadBinarySTL(bytes.NewReader(data[:len(data)-10]))
	if err == nil {
		t.Error("expected error reading truncated STL")
	}
	_, err = glrender.ReadBinarySTL(bytes.NewReader(data[:40]))
	if err == nil {
		t.Error("expected error reading truncated header")
	}
}

func TestWriteOBJ(t *testing.T) {
	m := sphereMesh(t, 3)
	var b bytes.Buffer
	err := glrender.WriteOBJ(&b, m)
	if err != nil {
		t.Fatal(err)
	}
	var nv, nvn, nf int
	scanner := bufio.NewScanner(&b)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		switch fields[0] {
		case "v":
			nv++
		case "vn":
			nvn++
		case "f":
			nf++
			if len(fields) != 4 || !strings.Contains(fields[1], "//") {
				t.Error("bad face line", scanner.Text())
			}
		default:
			t.Error("unexpected line", scanner.Text())
		}
	}
	if nv != 12 || nvn != 12 || nf != 20 {
		t.Errorf("got %d vertices, %d normals, %d faces; want 12, 12, 20", nv, nvn, nf)
	}
	m.Topology = meshtool.Lines
	if glrender.WriteOBJ(io.Discard, m) == nil {
		t.Error("expected error for line topology")
	}
}

func TestMeshRenderer(t *testing.T) {
	m := sphereMesh(t, 9)
	r, err := glrender.NewMeshRenderer(m)
	if err != nil {
		t.Fatal(err)
	}
	// Small buffer forces several reads.
	var got []ms3.Triangle
	buf := make([]ms3.Triangle, 7)
	for {
		n, err := r.ReadTriangles(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
	}
	want := m.Triangles(nil)
	if len(got) != len(want) {
		t.Fatal("streamed", len(got), "triangles, want", len(want))
	}
	r.Reset(m)
	all, err := glrender.RenderAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(want) {
		t.Error("RenderAll returned", len(all), "triangles, want", len(want))
	}
	_, err = r.ReadTriangles(nil)
	if err != io.ErrShortBuffer {
		t.Error("expected short buffer error, got", err)
	}
	if _, err = glrender.NewMeshRenderer(nil); err == nil {
		t.Error("expected error for nil mesh")
	}
}

func TestImageRenderer(t *testing.T) {
	m := sphereMesh(t, 6)
	ir := glrender.NewImageRenderer(nil)
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	err := ir.Render(m, img)
	if err != nil {
		t.Fatal(err)
	}
	// Center pixel lies on the sphere, corners are background.
	center := img.RGBAAt(32, 24)
	if center == (color.RGBA{A: 255}) || center.A == 0 {
		t.Error("center pixel not shaded", center)
	}
	corner := img.RGBAAt(0, 0)
	if corner != (color.RGBA{A: 255}) {
		t.Error("corner pixel should be background", corner)
	}
	// Rendering again with a different camera reuses buffers without error.
	ir.Yaw += 1
	if err = ir.Render(m, img); err != nil {
		t.Fatal(err)
	}
	m.Topology = meshtool.Points
	if ir.Render(m, img) == nil {
		t.Error("expected error for point topology")
	}
}
