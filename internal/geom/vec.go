// Package geom provides the small amount of 3D math shared by the formation
// generators and the integration loop.
package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Vec3 is a point or direction in world space. It converts freely to
// r3.Vector, which does the arithmetic.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3(r3.Vector(v).Add(r3.Vector(o)))
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3(r3.Vector(v).Sub(r3.Vector(o)))
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3(r3.Vector(v).Mul(s))
}

// Length returns the magnitude of v.
func (v Vec3) Length() float64 {
	return r3.Vector(v).Norm()
}

// Distance returns the Euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float64 {
	return r3.Vector(v).Distance(r3.Vector(o))
}

// Lerp moves v toward target by the fraction rate.
func (v Vec3) Lerp(target Vec3, rate float64) Vec3 {
	return Vec3{
		v.X + (target.X-v.X)*rate,
		v.Y + (target.Y-v.Y)*rate,
		v.Z + (target.Z-v.Z)*rate,
	}
}

// Finite reports whether no component is NaN or infinite.
func (v Vec3) Finite() bool {
	return Finite(v.X) && Finite(v.Y) && Finite(v.Z)
}

// Lerp returns a moved toward b by the fraction rate.
func Lerp(a, b, rate float64) float64 {
	return a + (b-a)*rate
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Orbit converts spherical orbit parameters around the origin to a position.
// Yaw rotates about the Y axis starting from +Z, pitch lifts toward +Y and
// radius is the distance from the origin.
func Orbit(yaw, pitch, radius float64) Vec3 {
	return Vec3{
		X: math.Sin(yaw) * radius * math.Cos(pitch),
		Y: math.Sin(pitch) * radius,
		Z: math.Cos(yaw) * radius * math.Cos(pitch),
	}
}
