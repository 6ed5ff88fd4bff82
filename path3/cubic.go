package path3

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// CubicBez is a cubic Bézier segment in 3D space.
type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

func (c CubicBez) IsNaN() bool {
	return c.P0.IsNaN() || c.P1.IsNaN() || c.P2.IsNaN() || c.P3.IsNaN()
}

func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := r3.Scale(mt*mt*mt, c.P0.Vec())
	b := r3.Scale(mt*mt*3.0, c.P1.Vec())
	cc := r3.Scale(mt*3.0, c.P2.Vec())
	d := c.P3.Vec()
	v := r3.Add(a, r3.Scale(t, r3.Add(b, r3.Scale(t, r3.Add(cc, r3.Scale(t, d))))))
	return Point(v)
}

// Differentiate returns the derivative of the curve. The points of the
// returned quadratic are to be read as vectors.
func (c CubicBez) Differentiate() QuadBez {
	return QuadBez{
		Point(r3.Scale(3, c.P1.Sub(c.P0))),
		Point(r3.Scale(3, c.P2.Sub(c.P1))),
		Point(r3.Scale(3, c.P3.Sub(c.P2))),
	}
}

// Deriv returns the first derivative at t.
func (c CubicBez) Deriv(t float64) r3.Vec {
	return c.Differentiate().Eval(t).Vec()
}

// Deriv2 returns the second derivative at t.
func (c CubicBez) Deriv2(t float64) r3.Vec {
	d := c.Differentiate()
	a := r3.Scale(2, d.P1.Sub(d.P0))
	b := r3.Scale(2, d.P2.Sub(d.P1))
	return r3.Add(r3.Scale(1-t, a), r3.Scale(t, b))
}

// Tangents returns the tangent directions at the start and end of the curve.
// Coincident control points are skipped, so the result is non-zero unless the
// whole curve collapses to a point.
func (c CubicBez) Tangents() (r3.Vec, r3.Vec) {
	const epsilon = 1e-12
	d01 := c.P1.Sub(c.P0)
	var d0, d1 r3.Vec
	if r3.Norm2(d01) > epsilon {
		d0 = d01
	} else {
		d02 := c.P2.Sub(c.P0)
		if r3.Norm2(d02) > epsilon {
			d0 = d02
		} else {
			d0 = c.P3.Sub(c.P0)
		}
	}
	d23 := c.P3.Sub(c.P2)
	if r3.Norm2(d23) > epsilon {
		d1 = d23
	} else {
		d13 := c.P3.Sub(c.P1)
		if r3.Norm2(d13) > epsilon {
			d1 = d13
		} else {
			d1 = c.P3.Sub(c.P0)
		}
	}
	return d0, d1
}

// Normal returns the principal normal at t: the component of the second
// derivative orthogonal to the tangent, unnormalized. It is the zero vector
// where the curve is locally straight.
func (c CubicBez) Normal(t float64) r3.Vec {
	d1 := c.Deriv(t)
	d2 := c.Deriv2(t)
	n2 := r3.Norm2(d1)
	if n2 == 0 {
		return r3.Vec{}
	}
	return r3.Sub(d2, r3.Scale(r3.Dot(d1, d2)/n2, d1))
}

// Reverse returns the curve traversed in the opposite direction.
func (c CubicBez) Reverse() CubicBez {
	return CubicBez{c.P3, c.P2, c.P1, c.P0}
}

// IsStraight reports whether the inner control points sit exactly at the
// thirds of the chord, as produced by [Line.Cubic] and [Straight].
func (c CubicBez) IsStraight() bool {
	c1, c2 := Straight(c.P0, c.P3)
	return c.P1.Quantize() == c1 && c.P2.Quantize() == c2
}

func (c CubicBez) Seg() PathSegment {
	return PathSegment{Kind: CubicKind, P0: c.P0, P1: c.P1, P2: c.P2, P3: c.P3}
}
