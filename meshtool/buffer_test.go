package meshtool_test

import (
	"image/color"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/geosphere/meshtool"
)

func TestSetVertexCount(t *testing.T) {
	b := meshtool.NewBuffer(nil, meshtool.Triangles)
	b.SetVertexCount(4)
	for i := range b.Positions {
		b.Positions[i] = ms3.Vec{X: float32(i + 1)}
		b.Colors[i] = color.RGBA{R: uint8(i + 1)}
	}
	b.SetVertexCount(4)
	for i := range 4 {
		if b.Positions[i].X != float32(i+1) || b.Colors[i].R != uint8(i+1) {
			t.Fatal("resize to same count modified vertex", i)
		}
	}
	b.SetVertexCount(2)
	if len(b.Normals) != 2 || len(b.UV1) != 2 || b.VertexCount() != 2 {
		t.Fatal("attribute lengths not shrunk")
	}
	// Growing back within capacity must not resurrect old values.
	b.SetVertexCount(4)
	if b.Positions[1].X != 2 {
		t.Error("preserved entry lost", b.Positions[1])
	}
	if b.Positions[2] != (ms3.Vec{}) || b.Colors[3] != (color.RGBA{}) {
		t.Error("grown entries should be zero valued", b.Positions[2], b.Colors[3])
	}
	lens := []int{len(b.Positions), len(b.Normals), len(b.Colors), len(b.UV0), len(b.UV1)}
	for _, l := range lens {
		if l != 4 {
			t.Error("attribute length mismatch", lens)
		}
	}
}

func TestSetIndexCount(t *testing.T) {
	var b meshtool.Buffer
	b.SetIndexCount(6, true, false)
	if len(b.Indices) != 6 {
		t.Fatal("expected growth to 6", len(b.Indices))
	}
	b.SetTriangle(0, 1, 2, 3)
	b.SetTriangle(1, 4, 5, 6)
	before := &b.Indices[0]

	// Lazy shrink keeps allocation and zeroes tail.
	b.SetIndexCount(3, true, false)
	if len(b.Indices) != 6 || &b.Indices[0] != before {
		t.Fatal("lazy shrink should not reallocate")
	}
	if b.GetTriangle(1) != (meshtool.Tri{}) {
		t.Error("lazy shrink should zero tail", b.GetTriangle(1))
	}
	if b.GetTriangle(0) != (meshtool.Tri{1, 2, 3}) {
		t.Error("lazy shrink modified head", b.GetTriangle(0))
	}

	// Lazy regrow within length does nothing.
	b.SetIndexCount(6, true, false)
	if &b.Indices[0] != before {
		t.Error("lazy regrow should reuse allocation")
	}

	// Exact reallocation with preserve.
	b.SetIndexCount(3, false, true)
	if len(b.Indices) != 3 || b.GetTriangle(0) != (meshtool.Tri{1, 2, 3}) {
		t.Error("preserving shrink lost data", b.Indices)
	}
	b.SetIndexCount(9, true, true)
	if len(b.Indices) != 9 || b.GetTriangle(0) != (meshtool.Tri{1, 2, 3}) {
		t.Error("preserving growth lost data", b.Indices)
	}
	b.SetIndexCount(9, false, false)
	if b.GetTriangle(0) != (meshtool.Tri{}) {
		t.Error("non-preserving reallocation should discard data", b.Indices)
	}
}

func TestTriangleRoundTrip(t *testing.T) {
	b := meshtool.NewBuffer(nil, meshtool.Triangles)
	b.SetIndexCount(12, true, false)
	for i := range 4 {
		b.SetTriangle(i, i, i+10, i+20)
	}
	for i := range 4 {
		got := b.GetTriangle(i)
		if got != (meshtool.Tri{i, i + 10, i + 20}) {
			t.Error("round trip mismatch", i, got)
		}
	}
	b.SwapTriangle(0, 3)
	if b.GetTriangle(0) != (meshtool.Tri{3, 13, 23}) || b.GetTriangle(3) != (meshtool.Tri{0, 10, 20}) {
		t.Error("swap failed", b.Indices)
	}
	if b.TriangleCount() != 4 {
		t.Error("triangle count", b.TriangleCount())
	}
}

func TestTrianglePreconditions(t *testing.T) {
	mustPanic := func(name, contains string, fn func()) {
		t.Helper()
		defer func() {
			r := recover()
			if r == nil {
				t.Errorf("%s: expected panic", name)
				return
			}
			if msg, _ := r.(string); !strings.Contains(msg, contains) {
				t.Errorf("%s: unexpected panic %v", name, r)
			}
		}()
		fn()
	}
	b := meshtool.NewBuffer(nil, meshtool.Triangles)
	b.SetIndexCount(5, true, false)
	mustPanic("short", "out of range", func() { b.GetTriangle(1) })
	mustPanic("negative", "out of range", func() { b.SetTriangle(-1, 0, 0, 0) })
	b.Topology = meshtool.Lines
	mustPanic("topology", "not triangles", func() { b.GetTriangle(0) })
	b.SetVertexCount(2)
	mustPanic("swap", "out of range", func() { b.SwapVertex(0, 2, true) })
}

func TestSwapVertex(t *testing.T) {
	b := meshtool.NewBuffer(nil, meshtool.Triangles)
	b.SetVertexCount(4)
	for i := range 4 {
		b.Positions[i] = ms3.Vec{X: float32(i)}
		b.Normals[i] = ms3.Vec{Y: float32(i)}
		b.UV0[i] = meshtool.UV{float32(i)}
	}
	b.SetIndexCount(6, true, false)
	b.SetTriangle(0, 0, 1, 2)
	b.SetTriangle(1, 2, 3, 0)
	resolve := func() [2][3]ms3.Vec {
		var r [2][3]ms3.Vec
		for i := range r {
			tri := b.GetTriangle(i)
			for j := range tri {
				r[i][j] = b.Positions[tri[j]]
			}
		}
		return r
	}
	want := resolve()
	b.SwapVertex(0, 3, true)
	if b.Positions[0].X != 3 || b.Normals[3].Y != 0 || b.UV0[0][0] != 3 {
		t.Error("attributes not swapped")
	}
	if got := resolve(); got != want {
		t.Error("connectivity changed after index updating swap", got, want)
	}
	b.SwapVertex(1, 2, false)
	if b.GetTriangle(0) != (meshtool.Tri{3, 1, 2}) {
		t.Error("indices should be untouched without update", b.GetTriangle(0))
	}
}

func TestApply(t *testing.T) {
	mesh := new(meshtool.Mesh)
	b := meshtool.NewBuffer(mesh, meshtool.Triangles)
	if b.Sink() != meshtool.Sink(mesh) {
		t.Fatal("sink not kept")
	}
	b.SetVertexCount(3)
	b.Positions[0] = ms3.Vec{X: -1}
	b.Positions[1] = ms3.Vec{X: 1}
	b.Positions[2] = ms3.Vec{Y: 2, Z: 0.5}
	b.SetIndexCount(3, true, false)
	b.SetTriangle(0, 0, 1, 2)

	b.Apply(meshtool.Positions)
	if mesh.Changed != meshtool.Positions || len(mesh.Indices) != 0 {
		t.Error("only positions expected", mesh.Changed)
	}
	wantBB := ms3.Box{Min: ms3.Vec{X: -1}, Max: ms3.Vec{X: 1, Y: 2, Z: 0.5}}
	if mesh.Bounds != wantBB {
		t.Error("bounds", mesh.Bounds)
	}
	// Sink must hold a copy.
	b.Positions[0].X = 100
	if mesh.Positions[0].X != -1 {
		t.Error("sink aliased buffer memory")
	}

	b.Apply(meshtool.Indices | meshtool.AutoNormals)
	if !mesh.Changed.Has(meshtool.Indices|meshtool.Normals) || mesh.Topology != meshtool.Triangles {
		t.Error("expected indices and normals committed", mesh.Changed)
	}
	for i, n := range mesh.Normals {
		// Triangle lies in a plane with normal proportional to (0,-0.5,2) (counter clockwise seen from +Z).
		if n.Z <= 0 || n.Y >= 0 || n.X != 0 {
			t.Error("unexpected auto normal", i, n)
		}
	}
	if mesh.TriangleCount() != 1 {
		t.Error("triangle count", mesh.TriangleCount())
	}
	b.Clear()
	if mesh.Changed != 0 || len(mesh.Positions) != 0 {
		t.Error("clear did not reset mesh")
	}
}

func TestAttribString(t *testing.T) {
	if s := (meshtool.Positions | meshtool.Indices).String(); s != "positions|indices" {
		t.Error(s)
	}
	if s := meshtool.Attrib(0).String(); s != "none" {
		t.Error(s)
	}
	if meshtool.Quads.IndicesPerPrimitive() != 4 || meshtool.Triangles.String() != "triangles" {
		t.Error("topology helpers")
	}
}
