package sprite

import "math"

// Vec2 is a 2D vector in pixel space.
type Vec2 struct {
	X, Y float32
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// MulVec returns the component-wise product of two vectors.
func (v Vec2) MulVec(w Vec2) Vec2 {
	return Vec2{X: v.X * w.X, Y: v.Y * w.Y}
}

// Rotate rotates the vector counter-clockwise by angle degrees.
func (v Vec2) Rotate(degrees float32) Vec2 {
	if degrees == 0 {
		return v
	}
	sin, cos := math.Sincos(float64(degrees) / 180 * math.Pi)
	s, c := float32(sin), float32(cos)
	return Vec2{
		X: c*v.X - s*v.Y,
		Y: s*v.X + c*v.Y,
	}
}

// Length returns the length (magnitude) of the vector.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Rect is an axis-aligned rectangle: a location and dimensions.
type Rect struct {
	X, Y, W, H float32
}

// R is a convenience function to create a Rect.
func R(x, y, w, h float32) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Location returns the top-left corner.
func (r Rect) Location() Vec2 { return Vec2{X: r.X, Y: r.Y} }

// Dimensions returns the width and height.
func (r Rect) Dimensions() Vec2 { return Vec2{X: r.W, Y: r.H} }

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.W >= 0 && o.H >= 0 &&
		o.X >= r.X && o.Y >= r.Y &&
		o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}
