package geosphere

import (
	"errors"
	"strings"

	"github.com/soypat/geosphere/meshtool"
)

// Shape selects which generation routine [Generator.Generate] dispatches to.
type Shape uint8

const (
	ShapeSphere Shape = iota
	ShapeHemisphere
	// ShapePyramid is the pyramid based hemisphere of [Generator.PyramidHemisphere].
	// Its level argument is a complexity, not a geodesic table level.
	ShapePyramid
)

var shapeNames = [...]string{
	ShapeSphere:     "sphere",
	ShapeHemisphere: "hemisphere",
	ShapePyramid:    "pyramid",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "<invalid shape>"
}

// ParseShape returns the shape named by name, case insensitive.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if strings.EqualFold(n, name) {
			return Shape(i), nil
		}
	}
	return 0, errors.New("unknown shape " + name + ", want sphere, hemisphere or pyramid")
}

// Generate writes the selected shape into dst and commits it to the sink.
func (g *Generator) Generate(dst *meshtool.Buffer, shape Shape, radius float32, level int, correction bool) {
	switch shape {
	case ShapeSphere:
		g.Sphere(dst, radius, level, correction)
	case ShapeHemisphere:
		g.Hemisphere(dst, radius, level, correction)
	case ShapePyramid:
		g.PyramidHemisphere(dst, radius, level, correction)
	default:
		panic("invalid shape " + shape.String())
	}
}
