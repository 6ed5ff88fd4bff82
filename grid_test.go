package bezgrid

import (
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"

	"honnef.co/go/bezgrid/path3"
	"honnef.co/go/bezgrid/spline"
)

func TestNewInvalidSize(t *testing.T) {
	wantPanic(t, ErrIndex, func() { New(0, 3, Options{}) })
	// a closed direction with two vertices would join them by two edges
	wantPanic(t, ErrIndex, func() { New(2, 3, Options{UClosed: true}) })
	wantPanic(t, ErrIndex, func() { New(3, 1, Options{VClosed: true}) })
	if nu, nv := New(3, 3, Options{UClosed: true, VClosed: true}).Size(); nu != 3 || nv != 3 {
		t.Errorf("got %d×%d, want 3×3", nu, nv)
	}

	p := path3.Pt(0, 0, 0)
	_, err := NewFromPoints([][]*path3.Point{{&p, &p}, {&p, &p}}, Options{VClosed: true})
	wantErr(t, err, ErrIndex)
}

func TestIndexChecks(t *testing.T) {
	g := New(2, 3, Options{})
	wantPanic(t, ErrIndex, func() { g.Point(2, 0) })
	wantPanic(t, ErrIndex, func() { g.Region(0, -1) })
	wantErr(t, g.SetPoint(0, 3, path3.Pt(0, 0, 0)), ErrIndex)
	wantErr(t, g.SetRegionRect(1, 1, 2, 1, 0), ErrIndex)
	wantErr(t, g.RemoveRect(0, 0, 3, 1), ErrIndex)
	wantErr(t, g.SetCellColor(-1, 0, color.Black), ErrIndex)
}

func TestPointLifecycle(t *testing.T) {
	g := New(2, 2, Options{})
	if _, ok := g.Point(0, 0); ok || g.Filled(0, 0) {
		t.Fatal("new vertex should be undefined and unfilled")
	}
	mustNil(t, g.SetPoint(0, 0, path3.Pt(0.1, 0.2, 0.3)))
	p, ok := g.Point(0, 0)
	if !ok || !g.Filled(0, 0) {
		t.Fatal("vertex should be defined and filled")
	}
	// stored in single precision
	diff(t, path3.Pt(float64(float32(0.1)), float64(float32(0.2)), float64(float32(0.3))), p)

	mustNil(t, g.Remove(0, 0))
	mustNil(t, g.SetPoint(0, 0, path3.Pt(1, 1, 1)))
	if g.Filled(0, 0) {
		t.Error("redefining a point restored a removed cell")
	}
	mustNil(t, g.ClearPoint(0, 0))
	if _, ok := g.Point(0, 0); ok || g.Filled(0, 0) {
		t.Error("cleared vertex should be undefined and unfilled")
	}
}

func TestLinearRegions(t *testing.T) {
	g := New(2, 3, Options{Linear: true})
	seen := map[int]bool{}
	for i := range 2 {
		for j := range 3 {
			seen[g.Region(i, j)] = true
		}
	}
	if len(seen) != 6 {
		t.Errorf("got %d distinct regions, want 6", len(seen))
	}
	wantErr(t, g.SetRegionRect(0, 0, 1, 1, 0), ErrState)
}

func TestColors(t *testing.T) {
	g := New(3, 3, Options{})
	g.SetColor(color.White)
	mustNil(t, g.SetColorRect(1, 1, 2, 2, color.Black))
	diff(t, color.Color(color.White), g.Color(0, 0))
	diff(t, color.Color(color.Black), g.Color(2, 2))
}

func straightCoords(a, b path3.Point) [9]float64 {
	return straightControls(a, b).coords()
}

func TestFlatGrid(t *testing.T) {
	g := flatGrid(3, 3, Options{})
	approx := cmpopts.EquateApprox(0, 1e-6)
	for i := range 3 {
		for j := range 3 {
			p, _ := g.Point(i, j)
			if i < 2 {
				q, _ := g.Point(i+1, j)
				got, ok, err := g.SplineU(i, j)
				mustNil(t, err)
				if !ok {
					t.Fatalf("no u edge at (%d, %d)", i, j)
				}
				diff(t, straightCoords(p, q), got, approx)
			}
			if j < 2 {
				q, _ := g.Point(i, j+1)
				got, ok, err := g.SplineV(i, j)
				mustNil(t, err)
				if !ok {
					t.Fatalf("no v edge at (%d, %d)", i, j)
				}
				diff(t, straightCoords(p, q), got, approx)
			}
		}
	}

	coords, ok, err := g.Patch(0, 0)
	mustNil(t, err)
	if !ok {
		t.Fatal("cell (0, 0) has no patch")
	}
	var want []path3.Point
	for row := range 4 {
		for col := range 4 {
			want = append(want, path3.Pt(float64(col)/3, float64(row)/3, 0))
		}
	}
	diff(t, want, pointsOf(coords[:]), approx)
}

func TestEdgeConsistency(t *testing.T) {
	cylinder := NewParametric(
		[]float64{0, 1, 2, 3, 4, 5, 6, 7},
		[]float64{0, 1, 2},
		ParametricSurface{
			X: func(s, t float64) float64 { return math.Cos(s * math.Pi / 4) },
			Y: func(s, t float64) float64 { return math.Sin(s * math.Pi / 4) },
			Z: func(s, t float64) float64 { return t },
		},
		Options{UClosed: true},
	)
	withHole := paraboloid(5, 4, Options{})
	mustNil(t, withHole.ClearPoint(2, 2))
	regions := paraboloid(5, 4, Options{})
	mustNil(t, regions.SetRegionRect(2, 0, 3, 2, 1))

	for name, g := range map[string]*Grid{
		"paraboloid": paraboloid(4, 5, Options{}),
		"cylinder":   cylinder,
		"hole":       withHole,
		"regions":    regions,
		"linear":     paraboloid(3, 3, Options{Linear: true}),
	} {
		t.Run(name, func(t *testing.T) {
			mustNil(t, g.CreateSplines())
			for i := range g.nu {
				for j := range g.nv {
					v := g.at(i, j)
					for _, uDir := range []bool{true, false} {
						c := v.vc
						if uDir {
							c = v.uc
						}
						ctl, ok := c.get()
						if !ok {
							continue
						}
						n, ok := g.next(i, j, uDir)
						if !ok {
							t.Fatalf("(%d, %d) has controls at the end of an open axis", i, j)
						}
						if p, ok := g.atIndex(n).p.get(); !ok || p != ctl[2] {
							t.Errorf("edge (%d, %d) → (%d, %d) ends at %v, want %v", i, j, n.i, n.j, ctl[2], p)
						}
					}
				}
			}
			if g.BadSplines(nil) {
				t.Error("BadSplines reported a problem")
			}
		})
	}
}

func TestStraightRuns(t *testing.T) {
	check := func(t *testing.T, g *Grid) {
		t.Helper()
		for i := range g.nu {
			for j := range g.nv {
				p, _ := g.Point(i, j)
				if i+1 < g.nu {
					q, _ := g.Point(i+1, j)
					got, _, err := g.SplineU(i, j)
					mustNil(t, err)
					diff(t, straightCoords(p, q), got)
				}
				if j+1 < g.nv {
					q, _ := g.Point(i, j+1)
					got, _, err := g.SplineV(i, j)
					mustNil(t, err)
					diff(t, straightCoords(p, q), got)
				}
			}
		}
	}
	t.Run("two points", func(t *testing.T) {
		g := gridOf(2, 2, Options{}, func(i, j int) path3.Point {
			return path3.Pt(float64(i), float64(j), float64(i*j))
		})
		check(t, g)
	})
	t.Run("linear", func(t *testing.T) {
		check(t, paraboloid(4, 3, Options{Linear: true}))
	})
}

func TestIdempotence(t *testing.T) {
	g := paraboloid(5, 4, Options{VClosed: true})
	snapshot := func() [][2][9]float64 {
		var out [][2][9]float64
		for i := range g.nu {
			for j := range g.nv {
				u, _, err := g.SplineU(i, j)
				mustNil(t, err)
				v, _, err := g.SplineV(i, j)
				mustNil(t, err)
				out = append(out, [2][9]float64{u, v})
			}
		}
		return out
	}
	first := snapshot()
	g.invalidate()
	mustNil(t, g.CreateSplines())
	diff(t, first, snapshot())
}

func TestRegionBreak(t *testing.T) {
	g := gridOf(6, 2, Options{}, func(i, j int) path3.Point {
		x := float64(i)
		return path3.Pt(x, float64(j), x*x/2)
	})
	mustNil(t, g.SetRegionRect(3, 0, 3, 2, 1))

	p, _ := g.Point(2, 0)
	q, _ := g.Point(3, 0)
	got, _, err := g.SplineU(2, 0)
	mustNil(t, err)
	diff(t, straightCoords(p, q), got)

	a, _ := g.Point(1, 0)
	curved, _, err := g.SplineU(1, 0)
	mustNil(t, err)
	if curved == straightCoords(a, p) {
		t.Error("edge inside a region is straight")
	}
	if g.at(1, 0).usn == g.at(2, 0).usn || g.at(2, 0).usn == g.at(3, 0).usn {
		t.Error("edge across the region change shares a spline id with its neighbours")
	}
}

func TestCyclicLine(t *testing.T) {
	g := paraboloid(3, 4, Options{VClosed: true})
	mustNil(t, g.CreateSplines())
	for i := range 3 {
		id := g.at(i, 0).vsn
		if !g.splineCyclic[id] {
			t.Errorf("v line %d is not cyclic", i)
		}
		for j := range 4 {
			if g.at(i, j).vsn != id {
				t.Errorf("v line %d has more than one spline", i)
			}
		}
	}
}

func TestDeclaredSpline(t *testing.T) {
	g := gridOf(4, 3, Options{}, func(i, j int) path3.Point {
		x := float64(i)
		return path3.Pt(x, float64(j), x*x)
	})
	mustNil(t, g.SetRegionRect(2, 0, 2, 3, 1))
	p1, _ := g.Point(1, 0)
	p2, _ := g.Point(2, 0)
	got, _, err := g.SplineU(1, 0)
	mustNil(t, err)
	diff(t, straightCoords(p1, p2), got)

	mustNil(t, g.StartSpline(0, 0))
	mustNil(t, g.MoveU(3))
	mustNil(t, g.EndSpline(false))

	var knots []path3.Point
	for i := range 4 {
		p, _ := g.Point(i, 0)
		knots = append(knots, p)
	}
	segs, err := spline.Fit(knots, false)
	mustNil(t, err)
	want := controls{segs[1].P1, segs[1].P2, segs[1].P3}.quantize().coords()
	got, _, err = g.SplineU(1, 0)
	mustNil(t, err)
	diff(t, want, got)
	if g.BadSplines(nil) {
		t.Error("BadSplines reported a problem")
	}
}

func TestDeclaredSplineBackwards(t *testing.T) {
	fwd := paraboloid(4, 3, Options{})
	mustNil(t, fwd.StartSpline(0, 1))
	mustNil(t, fwd.MoveU(3))
	mustNil(t, fwd.EndSpline(false))

	bwd := paraboloid(4, 3, Options{})
	mustNil(t, bwd.StartSpline(3, 1))
	mustNil(t, bwd.MoveU(-3))
	mustNil(t, bwd.EndSpline(false))

	for i := range 3 {
		want, _, err := fwd.SplineU(i, 1)
		mustNil(t, err)
		got, _, err := bwd.SplineU(i, 1)
		mustNil(t, err)
		diff(t, want, got, cmpopts.EquateApprox(0, 1e-6))
	}
}

func TestSplineProtocol(t *testing.T) {
	g := paraboloid(4, 4, Options{})
	wantErr(t, g.MoveU(1), ErrState)
	wantErr(t, g.EndSpline(false), ErrState)

	mustNil(t, g.StartSpline(0, 0))
	wantErr(t, g.MoveU(4), ErrIndex)
	mustNil(t, g.EndSpline(false))
	if len(g.descriptors) != 0 {
		t.Error("single-vertex spline was kept")
	}

	mustNil(t, g.StartSpline(0, 0))
	mustNil(t, g.MoveU(1))
	mustNil(t, g.MoveV(1))
	wantErr(t, g.EndSpline(true), ErrState)

	mustNil(t, g.StartSpline(0, 0))
	mustNil(t, g.MoveU(3))
	mustNil(t, g.MoveV(3))
	mustNil(t, g.MoveU(-3))
	mustNil(t, g.EndSpline(true))
	sd := g.descriptors[0]
	if !sd.cyclic || len(sd.points) != 13 || sd.points[12] != sd.points[0] {
		t.Errorf("unexpected descriptor %+v", sd)
	}
	mustNil(t, g.CreateSplines())

	lin := New(2, 2, Options{Linear: true})
	wantErr(t, lin.StartSpline(0, 0), ErrState)
}
