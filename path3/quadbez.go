package path3

import "gonum.org/v1/gonum/spatial/r3"

// QuadBez is a quadratic Bézier segment.
type QuadBez struct {
	P0 Point
	P1 Point
	P2 Point
}

// Raise raises the order by 1.
//
// Returns a cubic Bézier segment that exactly represents this quadratic.
func (q QuadBez) Raise() CubicBez {
	return CubicBez{
		q.P0,
		q.P0.Translate(r3.Scale(2.0/3.0, q.P1.Sub(q.P0))),
		q.P2.Translate(r3.Scale(2.0/3.0, q.P1.Sub(q.P2))),
		q.P2,
	}
}

func (q QuadBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := r3.Scale(mt*mt, q.P0.Vec())
	b := r3.Scale(mt*2.0, q.P1.Vec())
	c := r3.Scale(t, q.P2.Vec())
	d := r3.Add(b, c)
	return Point(r3.Add(a, r3.Scale(t, d)))
}

func (q QuadBez) Seg() PathSegment {
	return PathSegment{Kind: QuadKind, P0: q.P0, P1: q.P1, P2: q.P2}
}
