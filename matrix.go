package sprite

import "math"

// Transform is a 2D affine transformation in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
//
// The render context applies it to vertex positions before projection.
type Transform struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transformation.
func Identity() Transform {
	return Transform{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation.
func Translate(x, y float32) Transform {
	return Transform{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling transformation.
func Scale(x, y float32) Transform {
	return Transform{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a counter-clockwise rotation (angle in degrees).
func Rotate(degrees float32) Transform {
	sin, cos := math.Sincos(float64(degrees) / 180 * math.Pi)
	s, c := float32(sin), float32(cos)
	return Transform{
		A: c, B: -s, C: 0,
		D: s, E: c, F: 0,
	}
}

// Multiply multiplies two transformations (m * other): other is applied first.
func (m Transform) Multiply(other Transform) Transform {
	return Transform{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Transform) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// IsIdentity reports whether m is the identity transformation.
func (m Transform) IsIdentity() bool {
	return m == Identity()
}

// Mat4 returns m as a column-major 4x4 matrix for a WGSL mat4x4<f32>.
func (m Transform) Mat4() [16]float32 {
	return [16]float32{
		m.A, m.D, 0, 0,
		m.B, m.E, 0, 0,
		0, 0, 1, 0,
		m.C, m.F, 0, 1,
	}
}

// pixelToClip maps pixel coordinates of a width x height viewport, origin
// top-left and y down, to clip space.
func pixelToClip(width, height float32) Transform {
	if width <= 0 || height <= 0 {
		return Identity()
	}
	return Transform{
		A: 2 / width, B: 0, C: -1,
		D: 0, E: -2 / height, F: 1,
	}
}
