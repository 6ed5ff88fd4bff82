package bezgrid

import (
	"testing"

	"honnef.co/go/bezgrid/path3"
)

// boundaryKnots returns the knots of the first loop of p, starting with the
// point of its MoveTo, and the controls of each CubicTo.
func boundaryKnots(p path3.BezPath) ([]path3.Point, []controls) {
	var knots []path3.Point
	var ctls []controls
	for _, el := range p {
		switch el.Kind {
		case path3.MoveToKind:
			if knots != nil {
				return knots, ctls
			}
			knots = append(knots, el.P0)
		case path3.CubicToKind:
			knots = append(knots, el.P2)
			ctls = append(ctls, controls{el.P0, el.P1, el.P2})
		}
	}
	return knots, ctls
}

func TestConnectionsToSelf(t *testing.T) {
	g := paraboloid(3, 3, Options{})
	conns, err := g.ConnectionsTo(g, ConnectOptions{})
	mustNil(t, err)
	if len(conns) != 1 {
		t.Fatalf("got %d connectors, want 1", len(conns))
	}
	b, err := g.Boundary()
	mustNil(t, err)
	knots, ctls := boundaryKnots(b)

	c := conns[0]
	nu, nv := c.Size()
	if nu != 2 || nv != len(knots) || c.VClosed() {
		t.Fatalf("got %d×%d connector (closed %t), want 2×%d open", nu, nv, c.VClosed(), len(knots))
	}
	for _, col := range []int{0, 1} {
		for k, want := range knots {
			got, ok := c.Point(col, k)
			if !ok || got != want {
				t.Errorf("column %d row %d: got %v, want %v", col, k, got, want)
			}
			if k < len(ctls) {
				v, ok, err := c.SplineV(col, k)
				mustNil(t, err)
				if !ok {
					t.Fatalf("column %d row %d has no v edge", col, k)
				}
				diff(t, ctls[k].coords(), v)
			}
		}
	}
}

func TestConnectionsToNil(t *testing.T) {
	g := flatGrid(3, 3, Options{})
	conns, err := g.ConnectionsTo(nil, ConnectOptions{N: 3})
	mustNil(t, err)
	if len(conns) != 1 {
		t.Fatalf("got %d connectors, want 1", len(conns))
	}
	c := conns[0]
	if nu, _ := c.Size(); nu != 3 {
		t.Errorf("got %d columns, want 3", nu)
	}
	if _, ok := c.Point(0, 0); !ok {
		t.Error("first column is empty")
	}
	for _, col := range []int{1, 2} {
		if _, ok := c.Point(col, 0); ok {
			t.Errorf("column %d is populated", col)
		}
	}
}

func TestConnectionsToTranslated(t *testing.T) {
	g := paraboloid(3, 4, Options{})
	up := NewDerived(g, true, func(p path3.Point) path3.Point {
		return path3.Pt(p.X, p.Y, p.Z+5)
	})
	conns, err := g.ConnectionsTo(up, ConnectOptions{})
	mustNil(t, err)
	if len(conns) != 1 {
		t.Fatalf("got %d connectors, want 1", len(conns))
	}
	c := conns[0]
	_, nv := c.Size()
	if nv != 11 {
		t.Fatalf("got %d rows, want 11", nv)
	}
	for k := range nv {
		p, _ := c.Point(0, k)
		q, ok := c.Point(1, k)
		if !ok || q != path3.Pt(p.X, p.Y, p.Z+5) {
			t.Errorf("row %d: %v is not above %v", k, q, p)
		}
	}
	b, err := c.Boundary()
	mustNil(t, err)
	// a band: the two rims of the connector
	if got := countElements(b, path3.MoveToKind); got != 2 {
		t.Errorf("connector boundary has %d loops, want 2", got)
	}
	if c.BadSplines(nil) {
		t.Error("connector has bad splines")
	}
}

func TestConnectionsToSkipsCoincident(t *testing.T) {
	g := flatGrid(3, 3, Options{})
	same := NewDerived(g, false, nil)
	conns, err := g.ConnectionsTo(same, ConnectOptions{})
	mustNil(t, err)
	if len(conns) != 0 {
		t.Errorf("got %d connectors to an identical grid, want 0", len(conns))
	}
}

func TestConnectionsToSplit(t *testing.T) {
	g := flatGrid(3, 3, Options{})
	conns, err := g.ConnectionsTo(g, ConnectOptions{}.WithSplit(true))
	mustNil(t, err)
	if len(conns) != 4 {
		t.Fatalf("got %d connectors, want 4", len(conns))
	}
	for _, c := range conns {
		if _, nv := c.Size(); nv != 3 {
			t.Errorf("got %d rows, want 3", nv)
		}
	}
	// each side of the square is a region of its own
	for k, c := range conns {
		if got := c.Region(0, 0); got != k {
			t.Errorf("connector %d has region %d", k, got)
		}
	}
}

func TestConnectionsToCyclic(t *testing.T) {
	g := cylinder(8, 3)
	conns, err := g.ConnectionsTo(nil, ConnectOptions{})
	mustNil(t, err)
	if len(conns) != 2 {
		t.Fatalf("got %d connectors, want 2", len(conns))
	}
	for _, c := range conns {
		if _, nv := c.Size(); nv != 8 || !c.VClosed() {
			t.Errorf("got %d rows (closed %t), want 8 closed", nv, c.VClosed())
		}
	}
}

func TestConnectionsToIndices(t *testing.T) {
	g := flatGrid(4, 4, Options{})
	mustNil(t, g.Remove(1, 1))

	conns, err := g.ConnectionsTo(nil, ConnectOptions{}.WithIndices(1, 1))
	mustNil(t, err)
	if len(conns) != 1 {
		t.Fatalf("got %d connectors, want 1", len(conns))
	}
	if _, nv := conns[0].Size(); nv != 5 {
		t.Errorf("got %d rows, want 5", nv)
	}

	conns, err = g.ConnectionsTo(nil, ConnectOptions{}.WithIndices(1, 1).WithExclude(true))
	mustNil(t, err)
	if len(conns) != 1 {
		t.Fatalf("got %d connectors, want 1", len(conns))
	}
	if _, nv := conns[0].Size(); nv != 13 {
		t.Errorf("got %d rows, want 13", nv)
	}

	_, err = g.ConnectionsTo(nil, ConnectOptions{}.WithIndices(1))
	wantErr(t, err, ErrIndex)
	_, err = g.ConnectionsTo(nil, ConnectOptions{N: 1})
	wantErr(t, err, ErrIndex)
	_, err = g.ConnectionsTo(flatGrid(2, 2, Options{}), ConnectOptions{})
	wantErr(t, err, ErrIndex)
}

func TestExtensionGrid(t *testing.T) {
	g := flatGrid(3, 3, Options{})
	lift := PointMapperFunc(func(i int, p path3.Point, _ PointKind, _, _ path3.Point) path3.Point {
		return path3.Pt(p.X, p.Y, p.Z+float64(i))
	})
	eg, err := g.ExtensionGrid(lift, []int{1}, 3, 0, 0)
	mustNil(t, err)
	if eg == nil {
		t.Fatal("no extension grid")
	}
	nu, nv := eg.Size()
	if nu != 3 || nv != 9 {
		t.Fatalf("got %d×%d, want 3×9", nu, nv)
	}
	if !eg.Frozen() {
		t.Error("extension grid is not frozen")
	}
	diff(t, path3.Pt(0, 0, 0), must(eg.Point(0, 0)))
	diff(t, path3.Pt(0, 0, 2), must(eg.Point(2, 0)))

	for k := range nv - 1 {
		base, _, err := eg.SplineV(0, k)
		mustNil(t, err)
		top, ok, err := eg.SplineV(2, k)
		mustNil(t, err)
		if !ok {
			t.Fatalf("row %d of the last column has no v edge", k)
		}
		want := pointsOf(base[:])
		for n := range want {
			want[n].Z += 2
		}
		diff(t, want, pointsOf(top[:]))
	}

	// four sides, so regions shift by four at column 1
	for k := range nv {
		if got, want := eg.Region(1, k), eg.Region(0, k)+4; got != want {
			t.Errorf("row %d: region %d, want %d", k, got, want)
		}
		if eg.Region(2, k) != eg.Region(1, k) {
			t.Errorf("row %d: region changes at column 2", k)
		}
	}

	none, err := g.ExtensionGrid(lift, nil, 3, 1, 1)
	mustNil(t, err)
	if none != nil {
		t.Error("interior vertex has an extension grid")
	}
	_, err = g.ExtensionGrid(lift, nil, 1, 0, 0)
	wantErr(t, err, ErrIndex)
}

func must(p path3.Point, ok bool) path3.Point {
	if !ok {
		panic("point is undefined")
	}
	return p
}
