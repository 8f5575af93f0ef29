package geosphere

import "fmt"

// Solid enumerates the platonic solids used to seed subdivision.
type Solid uint8

const (
	Tetrahedron Solid = iota
	Octahedron
	Icosahedron
)

func (s Solid) String() string {
	switch s {
	case Tetrahedron:
		return "tetrahedron"
	case Octahedron:
		return "octahedron"
	case Icosahedron:
		return "icosahedron"
	}
	return fmt.Sprintf("Solid(%d)", uint8(s))
}

// Geodesic is a subdivision recipe: the solid to seed from, how many times to
// subdivide it and the exact vertex and face counts of the result.
type Geodesic struct {
	Base         Solid
	Subdivisions int
	Vertices     int
	Faces        int
	// Correction is a radius multiplier chosen so the faceted sphere looks
	// like it has the requested radius. Values are empirically tuned.
	Correction float32
}

// Edges returns the amount of edges of the geodesic polyhedron by Euler's formula.
func (g Geodesic) Edges() int {
	return g.Vertices + g.Faces - 2
}

func (g Geodesic) String() string {
	return fmt.Sprintf("Geodesic(%s, %d, %d, %d)", g.Base, g.Subdivisions, g.Vertices, g.Faces)
}

// geodesics is sorted by edge count, listed in the trailing comment.
var geodesics = [...]Geodesic{
	{Tetrahedron, 0, 4, 4, 1.62},      // 6
	{Octahedron, 0, 6, 8, 1.402},      // 12
	{Tetrahedron, 1, 10, 16, 1.145},   // 24
	{Icosahedron, 0, 12, 20, 1.125},   // 30
	{Octahedron, 1, 18, 32, 1.085},    // 48
	{Tetrahedron, 2, 34, 64, 1.045},   // 96
	{Icosahedron, 1, 42, 80, 1.025},   // 120
	{Octahedron, 2, 66, 128, 1.015},   // 192
	{Tetrahedron, 3, 130, 256, 1.015}, // 384
	{Icosahedron, 2, 162, 320, 1.015}, // 480
	{Octahedron, 3, 258, 512, 1.005},  // 768
	{Tetrahedron, 4, 514, 1024, 1.00}, // 1536
	{Icosahedron, 3, 642, 1280, 1.00}, // 1920
}

// MaxLevel is the highest complexity level with its own table entry.
const MaxLevel = len(geodesics) - 1

// LookupGeodesic returns the recipe for a complexity level. Levels outside
// [0, MaxLevel] are clamped.
func LookupGeodesic(level int) Geodesic {
	return geodesics[max(0, min(level, MaxLevel))]
}
