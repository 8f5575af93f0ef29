package sphereaux

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// ImageFormat is a preview image encoding.
type ImageFormat uint8

const (
	FormatPNG ImageFormat = iota
	FormatWebP
	FormatTGA
)

var formatNames = [...]string{
	FormatPNG:  "png",
	FormatWebP: "webp",
	FormatTGA:  "tga",
}

func (f ImageFormat) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "<invalid format>"
}

// ParseImageFormat parses a format name or file extension such as ".webp".
func ParseImageFormat(s string) (ImageFormat, error) {
	s = strings.TrimPrefix(strings.ToLower(s), ".")
	for i, name := range formatNames {
		if s == name {
			return ImageFormat(i), nil
		}
	}
	return 0, errors.New("unsupported image format " + s)
}

// EncodeImage writes img to w in the given format. WebP output is lossless.
func EncodeImage(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	case FormatTGA:
		return tga.Encode(w, img)
	}
	return errors.New("unsupported image format " + format.String())
}

// DrawCaption draws a single line of white text in the top left corner of img
// using the Go Regular font. A non-positive size picks one from the image height.
func DrawCaption(img draw.Image, text string, size float64) error {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = max(8, float64(img.Bounds().Dy())/32)
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	defer face.Close()
	const margin = 4
	b := img.Bounds()
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(b.Min.X+margin, b.Min.Y+margin+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return nil
}
