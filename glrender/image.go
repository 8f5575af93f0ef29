package glrender

import (
	"errors"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/geosphere/fastmath"
	"github.com/soypat/geosphere/meshtool"
	"github.com/soypat/glgl/math/ms1"
)

type setImage = interface {
	image.Image
	Set(x, y int, c color.Color)
}

// ImageRenderer rasterizes triangle meshes into images with flat shading,
// a depth buffer and an orthographic camera looking down -Z.
// Memory is reused between calls to Render.
type ImageRenderer struct {
	conv func(intensity float32) color.Color
	// Yaw rotates the mesh about the Y axis before the view pitch is applied. In radians.
	Yaw float32
	// Pitch tilts the mesh about the X axis. Positive pitch shows more of the top. In radians.
	Pitch float32
	// Light is the direction pointing towards the light. Need not be normalized.
	Light      ms3.Vec
	Background color.Color

	view []ms3.Vec
	zbuf []float32
}

// NewImageRenderer instances a new [ImageRenderer]. The conversion maps shading intensity
// in [0,1] to a color. A nil conversion results in a blue-grey clay color scheme.
func NewImageRenderer(conversion func(float32) color.Color) *ImageRenderer {
	if conversion == nil {
		conversion = func(f float32) color.Color {
			return color.RGBA{
				R: uint8(255 * f * 0.75),
				G: uint8(255 * f * 0.82),
				B: uint8(255 * f),
				A: 255,
			}
		}
	}
	return &ImageRenderer{
		conv:       conversion,
		Pitch:      0.5,
		Yaw:        0.6,
		Light:      ms3.Vec{X: 0.4, Y: 0.7, Z: 0.6},
		Background: color.Black,
	}
}

// Render draws m into img so that the mesh's bounding sphere fills the image.
func (ir *ImageRenderer) Render(m *meshtool.Mesh, img setImage) error {
	if m.Topology != meshtool.Triangles {
		return errors.New("image rendering requires triangle topology")
	}
	bb := img.Bounds()
	w, h := bb.Dx(), bb.Dy()
	if w <= 0 || h <= 0 {
		return errors.New("empty image")
	}
	for y := bb.Min.Y; y < bb.Max.Y; y++ {
		for x := bb.Min.X; x < bb.Max.X; x++ {
			img.Set(x, y, ir.Background)
		}
	}
	if len(m.Positions) == 0 {
		return nil
	}
	center := ms3.Scale(0.5, ms3.Add(m.Bounds.Min, m.Bounds.Max))
	var radius float32
	for _, p := range m.Positions {
		radius = math32.Max(radius, fastmath.Length(fastmath.Sub(p, center)))
	}
	if radius == 0 {
		return errors.New("degenerate mesh bounds")
	}
	scale := 0.45 * float32(min(w, h)) / radius
	sy, cy := math32.Sin(ir.Yaw), math32.Cos(ir.Yaw)
	sp, cp := math32.Sin(ir.Pitch), math32.Cos(ir.Pitch)

	// Transform to screen space keeping depth in Z, larger Z closer to viewer.
	ir.view = ir.view[:0]
	for _, p := range m.Positions {
		p = fastmath.Sub(p, center)
		p = ms3.Vec{X: cy*p.X + sy*p.Z, Y: p.Y, Z: -sy*p.X + cy*p.Z}
		p = ms3.Vec{X: p.X, Y: cp*p.Y - sp*p.Z, Z: sp*p.Y + cp*p.Z}
		ir.view = append(ir.view, ms3.Vec{
			X: float32(w)/2 + p.X*scale,
			Y: float32(h)/2 - p.Y*scale,
			Z: p.Z,
		})
	}
	if cap(ir.zbuf) < w*h {
		ir.zbuf = make([]float32, w*h)
	}
	ir.zbuf = ir.zbuf[:w*h]
	for i := range ir.zbuf {
		ir.zbuf[i] = math32.Inf(-1)
	}
	light := fastmath.Normalize(ir.Light)
	idx := m.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		ir.rasterize(img, bb.Min, w, h, idx[i], idx[i+1], idx[i+2], scale, light)
	}
	return nil
}

func (ir *ImageRenderer) rasterize(img setImage, off image.Point, w, h, ia, ib, ic int, scale float32, light ms3.Vec) {
	if ia == ib || ib == ic || ia == ic {
		return
	}
	a, b, c := ir.view[ia], ir.view[ib], ir.view[ic]
	// Undo screen scaling and Y flip to recover view space edges.
	edge := func(from, to ms3.Vec) ms3.Vec {
		return ms3.Vec{X: (to.X - from.X) / scale, Y: (from.Y - to.Y) / scale, Z: to.Z - from.Z}
	}
	n := fastmath.Cross(edge(a, b), edge(a, c))
	if n.Z <= 0 {
		return // Back face.
	}
	n = fastmath.Normalize(n)
	intensity := ms1.Clamp(0.2+0.8*ms3.Dot(n, light), 0, 1)
	col := ir.conv(intensity)

	minX := max(int(math32.Floor(math32.Min(a.X, math32.Min(b.X, c.X)))), 0)
	maxX := min(int(math32.Ceil(math32.Max(a.X, math32.Max(b.X, c.X)))), w-1)
	minY := max(int(math32.Floor(math32.Min(a.Y, math32.Min(b.Y, c.Y)))), 0)
	maxY := min(int(math32.Ceil(math32.Max(a.Y, math32.Max(b.Y, c.Y)))), h-1)
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math32.Abs(det) < 1e-12 {
		return
	}
	invDet := 1 / det
	for py := minY; py <= maxY; py++ {
		fy := float32(py) + 0.5
		for px := minX; px <= maxX; px++ {
			fx := float32(px) + 0.5
			w0 := ((b.Y-c.Y)*(fx-c.X) + (c.X-b.X)*(fy-c.Y)) * invDet
			w1 := ((c.Y-a.Y)*(fx-c.X) + (a.X-c.X)*(fy-c.Y)) * invDet
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.Z + w1*b.Z + w2*c.Z
			zi := py*w + px
			if z <= ir.zbuf[zi] {
				continue
			}
			ir.zbuf[zi] = z
			img.Set(px+off.X, py+off.Y, col)
		}
	}
}
