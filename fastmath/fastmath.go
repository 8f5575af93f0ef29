// Package fastmath implements small allocation-free vector helpers over [ms3.Vec]
// used in the hot loops of mesh generation. The functions take and return vectors
// by value and do no bounds checking or normalization unless stated.
package fastmath

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Uniform returns a vector with all components set to f.
func Uniform(f float32) ms3.Vec {
	return ms3.Vec{X: f, Y: f, Z: f}
}

// Add returns a+b.
func Add(a, b ms3.Vec) ms3.Vec {
	a.X += b.X
	a.Y += b.Y
	a.Z += b.Z
	return a
}

// Add4 returns a+b+c+d.
func Add4(a, b, c, d ms3.Vec) ms3.Vec {
	a.X += b.X + c.X + d.X
	a.Y += b.Y + c.Y + d.Y
	a.Z += b.Z + c.Z + d.Z
	return a
}

// Sub returns a-b.
func Sub(a, b ms3.Vec) ms3.Vec {
	a.X -= b.X
	a.Y -= b.Y
	a.Z -= b.Z
	return a
}

// Scale returns a with every component multiplied by f.
func Scale(a ms3.Vec, f float32) ms3.Vec {
	a.X *= f
	a.Y *= f
	a.Z *= f
	return a
}

// MulElem returns the componentwise product of a and b.
func MulElem(a, b ms3.Vec) ms3.Vec {
	a.X *= b.X
	a.Y *= b.Y
	a.Z *= b.Z
	return a
}

// Lerp linearly interpolates between a and b. u=0 returns a, u=1 returns b.
func Lerp(a, b ms3.Vec, u float32) ms3.Vec {
	a.X = a.X*(1-u) + b.X*u
	a.Y = a.Y*(1-u) + b.Y*u
	a.Z = a.Z*(1-u) + b.Z*u
	return a
}

// Cross returns the right handed cross product a×b.
func Cross(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Length returns the euclidean norm of a.
func Length(a ms3.Vec) float32 {
	return math32.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// Normalize returns a scaled to unit length. The zero vector is returned unchanged.
func Normalize(a ms3.Vec) ms3.Vec {
	l2 := a.X*a.X + a.Y*a.Y + a.Z*a.Z
	if l2 == 0 {
		return a
	}
	return Scale(a, 1/math32.Sqrt(l2))
}

// Midpoint returns the average of a and b.
func Midpoint(a, b ms3.Vec) ms3.Vec {
	return Scale(Add(a, b), 0.5)
}
