package path3

// Line represents a line segment.
type Line struct {
	// The line's start point.
	P0 Point
	// The line's end point.
	P1 Point
}

// Cubic returns the line as a cubic Bézier with its control points at the
// thirds. Reversing the line before or after the conversion produces the same
// values bit for bit.
func (l Line) Cubic() CubicBez {
	a, b := l.P0, l.P1
	return CubicBez{
		P0: a,
		P1: Point{(2*a.X + b.X) / 3, (2*a.Y + b.Y) / 3, (2*a.Z + b.Z) / 3},
		P2: Point{(a.X + 2*b.X) / 3, (a.Y + 2*b.Y) / 3, (a.Z + 2*b.Z) / 3},
		P3: b,
	}
}

func (l Line) Seg() PathSegment {
	return PathSegment{Kind: LineKind, P0: l.P0, P1: l.P1}
}

// Straight returns the two quantized inner control points of the straight
// cubic from a to b.
func Straight(a, b Point) (Point, Point) {
	c := Line{a, b}.Cubic()
	return c.P1.Quantize(), c.P2.Quantize()
}
