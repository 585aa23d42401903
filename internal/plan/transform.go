package plan

import "math"

// Transform is a 2D affine matrix in the same row convention the canvas
// package's ConcatMatrix command uses: a point (x, y) maps to
// (a*x + c*y + e, b*x + d*y + f).
type Transform struct {
	A, B, C, D, E, F float64
}

// Identity is the neutral transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Translate builds a pure translation.
func Translate(dx, dy float64) Transform {
	return Transform{A: 1, D: 1, E: dx, F: dy}
}

// ScaleTransform builds a pure scale about the origin.
func ScaleTransform(sx, sy float64) Transform {
	return Transform{A: sx, D: sy}
}

// RotateTransform builds a pure rotation by radians about the origin.
func RotateTransform(radians float64) Transform {
	sin, cos := math.Sin(radians), math.Cos(radians)
	return Transform{A: cos, B: sin, C: -sin, D: cos}
}

// Mul composes t followed by o (o∘t: applying the result to a point is
// equivalent to applying t first, then o), matching the order the
// graphics-state stack accumulates concatenated matrices in.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		A: t.A*o.A + t.B*o.C,
		B: t.A*o.B + t.B*o.D,
		C: t.C*o.A + t.D*o.C,
		D: t.C*o.B + t.D*o.D,
		E: t.E*o.A + t.F*o.C + o.E,
		F: t.E*o.B + t.F*o.D + o.F,
	}
}

// Apply maps a point through t.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.A*x + t.C*y + t.E, t.B*x + t.D*y + t.F
}
