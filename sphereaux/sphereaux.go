// Package sphereaux bundles geosphere generation with export and preview
// rendering so programs can get going with a single call.
package sphereaux

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"time"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/geosphere"
	"github.com/soypat/geosphere/glrender"
	"github.com/soypat/geosphere/meshtool"
	"golang.org/x/image/draw"
)

type RenderConfig struct {
	STLOutput   io.Writer
	OBJOutput   io.Writer
	ImageOutput io.Writer
	ImageFormat ImageFormat
	// ImageWidth and ImageHeight default to 512x512 when zero.
	ImageWidth, ImageHeight int
	// Supersample renders the preview at this many times the output resolution
	// and downsamples with a Catmull-Rom filter. Values below 2 disable it.
	Supersample int
	// Caption draws a line describing the mesh on the preview.
	Caption bool
	// Shade maps shading intensity in [0,1] to a preview color. Nil selects a default.
	Shade func(float32) color.Color

	Shape      geosphere.Shape
	Radius     float32
	Level      int
	Correction bool
	Silent     bool
}

// Render is an auxiliary function to aid users in getting setup in using geosphere quickly.
// It generates the configured shape and writes every non-nil output. Output errors
// do not stop the remaining outputs from being written; all are returned joined.
func Render(cfg RenderConfig) (err error) {
	if cfg.STLOutput == nil && cfg.OBJOutput == nil && cfg.ImageOutput == nil {
		return errors.New("Render requires output parameter in config")
	}
	if cfg.Radius <= 0 {
		return errors.New("Render requires positive radius")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	var mesh meshtool.Mesh
	var gen geosphere.Generator
	buf := meshtool.NewBuffer(&mesh, meshtool.Triangles)
	watch := stopwatch()
	gen.Generate(buf, cfg.Shape, cfg.Radius, cfg.Level, cfg.Correction)
	log("generated", cfg.Shape, "with", len(mesh.Positions), "vertices and", mesh.TriangleCount(), "triangles in", watch())

	var errs []error
	if cfg.STLOutput != nil {
		watch = stopwatch()
		var tris []ms3.Triangle
		mr, err := glrender.NewMeshRenderer(&mesh)
		if err == nil {
			tris, err = glrender.RenderAll(mr)
		}
		if err == nil {
			_, err = glrender.WriteBinarySTL(cfg.STLOutput, tris)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("writing STL file: %w", err))
		} else {
			log("wrote", outputName(cfg.STLOutput, "STL"), "in", watch())
		}
	}
	if cfg.OBJOutput != nil {
		watch = stopwatch()
		err = glrender.WriteOBJ(cfg.OBJOutput, &mesh)
		if err != nil {
			errs = append(errs, fmt.Errorf("writing OBJ file: %w", err))
		} else {
			log("wrote", outputName(cfg.OBJOutput, "OBJ"), "in", watch())
		}
	}
	if cfg.ImageOutput != nil {
		watch = stopwatch()
		var caption string
		if cfg.Caption {
			caption = describe(cfg, &mesh)
		}
		img, err := Preview(&mesh, PreviewConfig{
			Width:       cfg.ImageWidth,
			Height:      cfg.ImageHeight,
			Supersample: cfg.Supersample,
			Caption:     caption,
			Shade:       cfg.Shade,
		})
		if err == nil {
			err = EncodeImage(cfg.ImageOutput, img, cfg.ImageFormat)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("writing %s preview: %w", cfg.ImageFormat, err))
		} else {
			log("wrote", outputName(cfg.ImageOutput, cfg.ImageFormat.String()+" preview"), "in", watch())
		}
	}
	return errors.Join(errs...)
}

type PreviewConfig struct {
	Width, Height int
	Supersample   int
	// Caption is drawn on the top left corner after downsampling when not empty.
	Caption string
	Shade   func(float32) color.Color
	// Yaw and Pitch override the default camera angles when non-zero.
	Yaw, Pitch float32
}

// Preview renders a flat shaded image of m.
func Preview(m *meshtool.Mesh, cfg PreviewConfig) (*image.RGBA, error) {
	if cfg.Width == 0 && cfg.Height == 0 {
		cfg.Width, cfg.Height = 512, 512
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", cfg.Width, cfg.Height)
	}
	ss := max(cfg.Supersample, 1)
	renderer := glrender.NewImageRenderer(cfg.Shade)
	if cfg.Yaw != 0 {
		renderer.Yaw = cfg.Yaw
	}
	if cfg.Pitch != 0 {
		renderer.Pitch = cfg.Pitch
	}
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width*ss, cfg.Height*ss))
	err := renderer.Render(m, img)
	if err != nil {
		return nil, err
	}
	if ss > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}
	if cfg.Caption != "" {
		err = DrawCaption(img, cfg.Caption, 0)
		if err != nil {
			return nil, err
		}
	}
	return img, nil
}

func describe(cfg RenderConfig, m *meshtool.Mesh) string {
	detail := fmt.Sprintf("complexity %d", cfg.Level)
	if cfg.Shape != geosphere.ShapePyramid {
		detail = geosphere.LookupGeodesic(cfg.Level).String()
	}
	return fmt.Sprintf("%s r=%g %s: %d verts %d tris", cfg.Shape, cfg.Radius, detail, len(m.Positions), m.TriangleCount())
}

func outputName(w io.Writer, fallback string) string {
	if fp, ok := w.(*os.File); ok {
		return fp.Name()
	}
	return fallback
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

type UIConfig struct {
	Width, Height int
	// Initial mesh parameters. Level and Shape may be changed from the keyboard.
	Shape      geosphere.Shape
	Radius     float32
	Level      int
	Correction bool
	// Context cancels the render loop when done.
	Context context.Context
}

// UI opens an interactive window displaying the configured mesh. The mouse rotates
// the view, the scroll wheel zooms, the up and down arrow keys change the level,
// C toggles radius correction and H cycles the shape. Requires cgo.
// The calling goroutine must be locked to its OS thread, see [runtime.LockOSThread].
func UI(cfg UIConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("UI requires positive window dimensions")
	}
	if cfg.Radius <= 0 {
		cfg.Radius = 0.5
	}
	return ui(cfg)
}
