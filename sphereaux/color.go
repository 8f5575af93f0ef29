package sphereaux

import (
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
)

// HSV interpolation taken from Esme Lamb's (@dedelala) color manipulation
// work presented at Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

// ShadeGradient returns a shading conversion for [PreviewConfig] that blends from
// dark at zero intensity to light at full intensity through HSV space.
func ShadeGradient(dark, light color.Color) func(intensity float32) color.Color {
	h0, s0, v0 := colorToHSV(dark)
	h1, s1, v1 := colorToHSV(light)
	return func(f float32) color.Color {
		f = ms1.Clamp(f, 0, 1)
		r, g, b := hsvToRGB(interpHSV(h0, s0, v0, h1, s1, v1, f))
		return color.RGBA{
			R: uint8(ms1.Clamp(r, 0, 1) * math.MaxUint8),
			G: uint8(ms1.Clamp(g, 0, 1) * math.MaxUint8),
			B: uint8(ms1.Clamp(b, 0, 1) * math.MaxUint8),
			A: 255,
		}
	}
}

// ShadeGray maps intensity to a gray level.
func ShadeGray(f float32) color.Color {
	return color.Gray{Y: uint8(ms1.Clamp(f, 0, 1) * math.MaxUint8)}
}

func interpHSV(h0, s0, v0, h1, s1, v1, t float32) (h, s, v float32) {
	// Take the short way around the hue circle.
	switch {
	case h1-h0 > 0.5:
		h0 += 1.0
	case h1-h0 < -0.5:
		h1 += 1.0
	}
	h = ms1.Interp(h0, h1, t)
	if h > 1 {
		h -= 1
	}
	return h, ms1.Interp(s0, s1, t), ms1.Interp(v0, v1, t)
}

func colorToHSV(c color.Color) (h, s, v float32) {
	r, g, b, _ := c.RGBA()
	return rgbToHSV(float32(r>>8)/math.MaxUint8, float32(g>>8)/math.MaxUint8, float32(b>>8)/math.MaxUint8)
}

// hsvToRGB converts hue, saturation and brightness in [0,1] to RGB in [0,1].
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	c := s * v
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := v - c
	switch {
	case h <= 1.0/6:
		r, g, b = c, x, 0
	case h <= 2.0/6:
		r, g, b = x, c, 0
	case h <= 3.0/6:
		r, g, b = 0, c, x
	case h <= 4.0/6:
		r, g, b = 0, x, c
	case h <= 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// rgbToHSV converts RGB in [0,1] to hue, saturation and brightness in [0,1].
func rgbToHSV(r, g, b float32) (h, s, v float32) {
	xmax := max(r, g, b)
	c := xmax - min(r, g, b)
	v = xmax
	switch {
	case c == 0:
		h = 0
	case v == r:
		h = (g - b) / (c * 6)
	case v == g:
		h = 1.0/3 + (b-r)/(c*6)
	default:
		h = 2.0/3 + (r-g)/(c*6)
	}
	if h < 0 {
		h += 1
	}
	if xmax > 0 {
		s = c / xmax
	}
	return h, s, v
}
