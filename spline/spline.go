// Package spline fits C2-continuous cubic Bézier splines through knots.
//
// The inner control points of every segment are the unknowns of a banded
// linear system; requiring equal first and second derivatives at every
// interior knot leaves one free condition per end, which for open splines is
// fixed by letting the curvature vanish at the ends.
package spline

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/bezgrid/path3"
)

// ErrTooFewKnots is returned when there are not enough knots for the
// requested kind of spline: two for open splines and three for cyclic ones.
var ErrTooFewKnots = errors.New("spline: too few knots")

// Fit returns the cubic segments of the spline through knots.
//
// An open spline through n knots has n-1 segments. A cyclic spline through n
// knots has n segments, the last of which returns to knots[0]; the closing
// knot must not be repeated. Two knots produce a straight segment.
func Fit(knots []path3.Point, cyclic bool) ([]path3.CubicBez, error) {
	if cyclic {
		if len(knots) < 3 {
			return nil, fmt.Errorf("%w: cyclic spline needs 3, got %d", ErrTooFewKnots, len(knots))
		}
		return fitCyclic(knots)
	}
	switch len(knots) {
	case 0, 1:
		return nil, fmt.Errorf("%w: open spline needs 2, got %d", ErrTooFewKnots, len(knots))
	case 2:
		return []path3.CubicBez{path3.Line{P0: knots[0], P1: knots[1]}.Cubic()}, nil
	}
	return fitOpen(knots)
}

// Path returns the spline through knots as a path, closed for cyclic splines.
func Path(knots []path3.Point, cyclic bool) (path3.BezPath, error) {
	segs, err := Fit(knots, cyclic)
	if err != nil {
		return nil, err
	}
	p := make(path3.BezPath, 0, len(segs)+2)
	p.MoveTo(knots[0])
	for _, s := range segs {
		p.CubicTo(s.P1, s.P2, s.P3)
	}
	if cyclic {
		p.ClosePath()
	}
	return p, nil
}

func fitOpen(knots []path3.Point) ([]path3.CubicBez, error) {
	n := len(knots) - 1
	a := mat.NewDense(n, n, nil)
	b := mat.NewDense(n, 3, nil)

	a.Set(0, 0, 2)
	a.Set(0, 1, 1)
	setRow(b, 0, r3.Add(knots[0].Vec(), r3.Scale(2, knots[1].Vec())))
	for i := 1; i < n-1; i++ {
		a.Set(i, i-1, 1)
		a.Set(i, i, 4)
		a.Set(i, i+1, 1)
		setRow(b, i, r3.Add(r3.Scale(4, knots[i].Vec()), r3.Scale(2, knots[i+1].Vec())))
	}
	a.Set(n-1, n-2, 2)
	a.Set(n-1, n-1, 7)
	setRow(b, n-1, r3.Add(r3.Scale(8, knots[n-1].Vec()), knots[n].Vec()))

	p1, err := solve(a, b)
	if err != nil {
		return nil, err
	}
	segs := make([]path3.CubicBez, n)
	for i := range n {
		var c2 path3.Point
		if i < n-1 {
			c2 = knots[i+1].Translate(r3.Sub(knots[i+1].Vec(), p1[i+1].Vec()))
		} else {
			c2 = knots[n].Midpoint(p1[n-1])
		}
		segs[i] = path3.CubicBez{P0: knots[i], P1: p1[i], P2: c2, P3: knots[i+1]}
	}
	return segs, nil
}

func fitCyclic(knots []path3.Point) ([]path3.CubicBez, error) {
	n := len(knots)
	a := mat.NewDense(n, n, nil)
	b := mat.NewDense(n, 3, nil)
	for i := range n {
		prev, next := (i+n-1)%n, (i+1)%n
		a.Set(i, prev, 1)
		a.Set(i, i, 4)
		a.Set(i, next, 1)
		setRow(b, i, r3.Add(r3.Scale(4, knots[i].Vec()), r3.Scale(2, knots[next].Vec())))
	}

	p1, err := solve(a, b)
	if err != nil {
		return nil, err
	}
	segs := make([]path3.CubicBez, n)
	for i := range n {
		next := (i + 1) % n
		c2 := knots[next].Translate(r3.Sub(knots[next].Vec(), p1[next].Vec()))
		segs[i] = path3.CubicBez{P0: knots[i], P1: p1[i], P2: c2, P3: knots[next]}
	}
	return segs, nil
}

func setRow(m *mat.Dense, i int, v r3.Vec) {
	m.Set(i, 0, v.X)
	m.Set(i, 1, v.Y)
	m.Set(i, 2, v.Z)
}

func solve(a, b *mat.Dense) ([]path3.Point, error) {
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		// A Condition only warns about precision; the solution is still
		// usable.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("spline: solving control points: %w", err)
		}
	}
	r, _ := x.Dims()
	out := make([]path3.Point, r)
	for i := range out {
		out[i] = path3.Pt(x.At(i, 0), x.At(i, 1), x.At(i, 2))
	}
	return out, nil
}
