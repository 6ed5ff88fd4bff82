package path3_test

import (
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/bezgrid/path3"
)

func TestQuantize(t *testing.T) {
	p := path3.Pt(0.1, 1.0/3.0, -7)
	q := p.Quantize()
	if p == q {
		t.Error("0.1 has no exact float32 representation")
	}
	diff(t, q, q.Quantize())
	diff(t, float64(float32(0.1)), q.X)
}

// TestStraightSymmetric checks that the controls of a straight edge are the
// same values whichever end the edge is generated from.
func TestStraightSymmetric(t *testing.T) {
	pts := []path3.Point{
		path3.Pt(0, 0, 0),
		path3.Pt(1, 0, 0),
		path3.Pt(0.1, 0.7, 1e5),
		path3.Pt(-3.3, 2.9, 1.0/7),
	}
	for _, a := range pts {
		for _, b := range pts {
			c1, c2 := path3.Straight(a, b)
			r1, r2 := path3.Straight(b, a)
			if c1 != r2 || c2 != r1 {
				t.Errorf("%v → %v: got (%v, %v), reversed (%v, %v)", a, b, c1, c2, r2, r1)
			}
			if c1 != c1.Quantize() {
				t.Errorf("%v → %v: control %v is not quantized", a, b, c1)
			}
		}
	}

	c1, c2 := path3.Straight(path3.Pt(0, 0, 0), path3.Pt(3, 6, 9))
	diff(t, []path3.Point{path3.Pt(1, 2, 3), path3.Pt(2, 4, 6)}, []path3.Point{c1, c2})
}

func TestCubicEval(t *testing.T) {
	c := path3.CubicBez{
		P0: path3.Pt(0, 0, 0),
		P1: path3.Pt(1, 2, 0),
		P2: path3.Pt(2, 2, 1),
		P3: path3.Pt(3, 0, 1),
	}
	diff(t, c.P0, c.Eval(0))
	diff(t, c.P3, c.Eval(1))
	diff(t, path3.Pt(1.5, 1.5, 0.5), c.Eval(0.5), cmpopts.EquateApprox(0, 1e-12))

	// The derivative at the ends points at the adjacent control points.
	approx := cmpopts.EquateApprox(0, 1e-12)
	diff(t, r3.Scale(3, c.P1.Sub(c.P0)), c.Deriv(0), approx)
	diff(t, r3.Scale(3, c.P3.Sub(c.P2)), c.Deriv(1), approx)
}

func TestCubicNormal(t *testing.T) {
	straight := path3.Line{P0: path3.Pt(0, 0, 0), P1: path3.Pt(3, 0, 0)}.Cubic()
	diff(t, r3.Vec{}, straight.Normal(0.5))
	if !straight.IsStraight() {
		t.Error("line is not straight")
	}

	// An arc-like curve in the xy plane bending towards +y.
	c := path3.CubicBez{
		P0: path3.Pt(0, 0, 0),
		P1: path3.Pt(1, 0, 0),
		P2: path3.Pt(2, 1, 0),
		P3: path3.Pt(2, 2, 0),
	}
	n := c.Normal(0)
	if n.Y <= 0 {
		t.Errorf("normal %v does not point towards +y", n)
	}
	diff(t, 0.0, n.X, cmpopts.EquateApprox(0, 1e-12))
	diff(t, 0.0, n.Z, cmpopts.EquateApprox(0, 1e-12))
	if c.IsStraight() {
		t.Error("curve is straight")
	}
}

func TestCubicIsNaN(t *testing.T) {
	c := path3.Line{P0: path3.Pt(0, 0, 0), P1: path3.Pt(3, 0, 0)}.Cubic()
	if c.IsNaN() {
		t.Error("finite curve is NaN")
	}
	c.P2.Y = math.NaN()
	if !c.IsNaN() {
		t.Error("NaN control was not detected")
	}
}

func TestQuadRaise(t *testing.T) {
	q := path3.QuadBez{P0: path3.Pt(0, 0, 0), P1: path3.Pt(1, 2, 3), P2: path3.Pt(2, 0, 0)}
	c := q.Raise()
	approx := cmpopts.EquateApprox(0, 1e-12)
	for _, tt := range []float64{0, 0.25, 0.5, 0.75, 1} {
		diff(t, q.Eval(tt), c.Eval(tt), approx)
	}
}

func TestAffine(t *testing.T) {
	p := path3.Pt(1, 2, 3)
	diff(t, path3.Pt(2, 1, 4), p.Transform(path3.Translate(r3.Vec{X: 1, Y: -1, Z: 1})))

	// Frame maps local z onto x × y.
	f := path3.Frame(path3.Pt(5, 0, 0), r3.Vec{Y: 1}, r3.Vec{Z: 1})
	diff(t, path3.Pt(6, 0, 0), path3.Pt(0, 0, 1).Transform(f))
	diff(t, path3.Pt(5, 1, 0), path3.Pt(1, 0, 0).Transform(f))
	diff(t, path3.Pt(5, 0, 1), path3.Pt(0, 1, 0).Transform(f))
}

func TestSegments(t *testing.T) {
	var p path3.BezPath
	p.MoveTo(path3.Pt(0, 0, 0))
	p.LineTo(path3.Pt(1, 0, 0))
	p.QuadTo(path3.Pt(2, 0, 0), path3.Pt(2, 1, 0))
	p.ClosePath()

	segs := slices.Collect(p.Segments())
	var kinds []path3.PathSegmentKind
	for _, s := range segs {
		kinds = append(kinds, s.Kind)
	}
	// ClosePath yields the closing line
	diff(t, []path3.PathSegmentKind{path3.LineKind, path3.QuadKind, path3.LineKind}, kinds)
	diff(t, path3.Pt(0, 0, 0), segs[2].End())
	if !p.IsClosed() {
		t.Error("path is not closed")
	}
	diff(t, 3, p.DrawableKnots())
}

func TestDrawableKnots(t *testing.T) {
	var open path3.BezPath
	open.MoveTo(path3.Pt(0, 0, 0))
	open.LineTo(path3.Pt(1, 0, 0))
	open.LineTo(path3.Pt(1, 1, 0))
	if open.IsClosed() {
		t.Error("open path is closed")
	}
	diff(t, 3, open.DrawableKnots())

	// The closing line has zero length and does not count.
	var closed path3.BezPath
	closed.MoveTo(path3.Pt(0, 0, 0))
	closed.LineTo(path3.Pt(1, 0, 0))
	closed.LineTo(path3.Pt(1, 1, 0))
	closed.LineTo(path3.Pt(0, 0, 0))
	closed.ClosePath()
	diff(t, 3, closed.DrawableKnots())

	// Only the first subpath counts.
	open.MoveTo(path3.Pt(5, 5, 5))
	open.LineTo(path3.Pt(6, 5, 5))
	diff(t, 3, open.DrawableKnots())
}

func TestPathIsNaN(t *testing.T) {
	var p path3.BezPath
	p.MoveTo(path3.Pt(0, 0, 0))
	p.CubicTo(path3.Pt(1, 0, 0), path3.Pt(2, 0, 0), path3.Pt(3, 0, 0))
	if p.IsNaN() {
		t.Error("finite path is NaN")
	}
	p.LineTo(path3.Pt(3, math.NaN(), 0))
	if !p.IsNaN() {
		t.Error("NaN element was not detected")
	}
}
