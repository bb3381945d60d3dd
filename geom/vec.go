// Package geom provides the 2D vector and affine transform primitives used by
// the emitter engine. World coordinates are normalized to [0,1]x[0,1] with the
// origin at the top-left and y pointing down.
package geom

import "math"

// Vec2 is a 2D vector or point.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the Euclidean length of v.
func (v Vec2) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged; callers that need a defined fallback direction handle it
// themselves.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l <= 1e-12 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perp returns v rotated 90 degrees counterclockwise in screen space
// (y-down), i.e. (-y, x).
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Angle returns the angle of v in radians.
func (v Vec2) Angle() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// FromAngle returns the unit vector at the given angle in radians.
func FromAngle(rad float32) Vec2 {
	return Vec2{float32(math.Cos(float64(rad))), float32(math.Sin(float64(rad)))}
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b Vec2, t float32) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// LerpScalar linearly interpolates between a and b by t.
func LerpScalar(a, b, t float32) float32 {
	return a + (b-a)*t
}
