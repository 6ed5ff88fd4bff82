package bezgrid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"honnef.co/go/bezgrid/path3"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func mustNil(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("got error %v, want %v", err, target)
	}
}

func wantPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Errorf("got panic %v, want %v", r, target)
		}
	}()
	fn()
}

// gridOf returns an nu×nv grid whose vertex (i, j) is f(i, j).
func gridOf(nu, nv int, opts Options, f func(i, j int) path3.Point) *Grid {
	g := New(nu, nv, opts)
	for i := range nu {
		for j := range nv {
			if err := g.SetPoint(i, j, f(i, j)); err != nil {
				panic(err)
			}
		}
	}
	return g
}

// flatGrid places vertex (i, j) at (i, j, 0).
func flatGrid(nu, nv int, opts Options) *Grid {
	return gridOf(nu, nv, opts, func(i, j int) path3.Point {
		return path3.Pt(float64(i), float64(j), 0)
	})
}

// paraboloid places vertex (i, j) at (i, j, (i²+j²)/4).
func paraboloid(nu, nv int, opts Options) *Grid {
	return gridOf(nu, nv, opts, func(i, j int) path3.Point {
		x, y := float64(i), float64(j)
		return path3.Pt(x, y, (x*x+y*y)/4)
	})
}

func pointsOf(coords []float64) []path3.Point {
	out := make([]path3.Point, len(coords)/3)
	for k := range out {
		out[k] = path3.At(coords, 3*k)
	}
	return out
}

func countElements(p path3.BezPath, kind path3.PathElementKind) int {
	n := 0
	for _, el := range p {
		if el.Kind == kind {
			n++
		}
	}
	return n
}
