package sphereaux

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/soypat/geosphere"
	"github.com/soypat/geosphere/glrender"
	"github.com/soypat/geosphere/meshtool"
)

func TestRender(t *testing.T) {
	var stl, obj, img bytes.Buffer
	err := Render(RenderConfig{
		STLOutput:   &stl,
		OBJOutput:   &obj,
		ImageOutput: &img,
		ImageWidth:  96,
		ImageHeight: 64,
		Supersample: 2,
		Caption:     true,
		Shape:       geosphere.ShapeHemisphere,
		Radius:      0.5,
		Level:       6,
		Silent:      true,
	})
	if err != nil {
		t.Fatal(err)
	}
	tris, err := glrender.ReadBinarySTL(&stl)
	if err != nil {
		t.Fatal(err)
	}
	var mesh meshtool.Mesh
	geosphere.Hemisphere(meshtool.NewBuffer(&mesh, meshtool.Triangles), 0.5, 6, false)
	if len(tris) != mesh.TriangleCount() {
		t.Errorf("STL has %d triangles, want %d", len(tris), mesh.TriangleCount())
	}
	if got := strings.Count(obj.String(), "\nf "); got != mesh.TriangleCount() {
		t.Errorf("OBJ has %d faces, want %d", got, mesh.TriangleCount())
	}
	decoded, err := png.Decode(&img)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != image.Rect(0, 0, 96, 64) {
		t.Error("unexpected preview bounds", decoded.Bounds())
	}
}

func TestRenderConfigErrors(t *testing.T) {
	err := Render(RenderConfig{Radius: 1, Silent: true})
	if err == nil {
		t.Error("expected error with no outputs")
	}
	var b bytes.Buffer
	err = Render(RenderConfig{STLOutput: &b, Silent: true})
	if err == nil {
		t.Error("expected error with zero radius")
	}
	// A failing output does not prevent the others from being written.
	var obj bytes.Buffer
	err = Render(RenderConfig{STLOutput: failWriter{}, OBJOutput: &obj, Radius: 1, Level: 3, Silent: true})
	if !errors.Is(err, errFail) {
		t.Error("expected joined write error, got", err)
	}
	if obj.Len() == 0 {
		t.Error("OBJ output not written after STL failure")
	}
}

var errFail = errors.New("write failed")

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errFail }

func TestEncodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	for _, name := range []string{"png", ".webp", "TGA"} {
		format, err := ParseImageFormat(name)
		if err != nil {
			t.Fatal(err)
		}
		var b bytes.Buffer
		err = EncodeImage(&b, img, format)
		if err != nil {
			t.Errorf("%s: %s", format, err)
		} else if b.Len() == 0 {
			t.Errorf("%s: empty output", format)
		}
		if format == FormatTGA {
			got, err := tga.Decode(&b)
			if err != nil {
				t.Fatal(err)
			}
			if got.Bounds() != img.Bounds() {
				t.Error("TGA bounds mismatch", got.Bounds())
			}
		}
	}
	if _, err := ParseImageFormat("gif"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if err := EncodeImage(&bytes.Buffer{}, img, ImageFormat(99)); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestDrawCaption(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 40))
	err := DrawCaption(img, "level 5", 16)
	if err != nil {
		t.Fatal(err)
	}
	var lit int
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("caption drew no pixels")
	}
}

func TestShadeGradient(t *testing.T) {
	dark := color.RGBA{R: 20, G: 30, B: 80, A: 255}
	light := color.RGBA{R: 250, G: 240, B: 200, A: 255}
	shade := ShadeGradient(dark, light)
	for _, tc := range []struct {
		f    float32
		want color.RGBA
	}{
		{f: 0, want: dark},
		{f: -1, want: dark},
		{f: 1, want: light},
		{f: 2, want: light},
	} {
		got := shade(tc.f).(color.RGBA)
		if absDiff(got.R, tc.want.R) > 1 || absDiff(got.G, tc.want.G) > 1 || absDiff(got.B, tc.want.B) > 1 {
			t.Errorf("shade(%g)=%v, want %v", tc.f, got, tc.want)
		}
	}
	g0 := ShadeGray(0.25).(color.Gray)
	g1 := ShadeGray(0.75).(color.Gray)
	if g0.Y >= g1.Y {
		t.Error("gray shading not increasing", g0, g1)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
