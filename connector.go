package bezgrid

import (
	"fmt"
	"slices"

	"honnef.co/go/bezgrid/path3"
)

// PointKind describes the role of a point passed to a [PointMapper].
type PointKind int

const (
	// Knot is a point that lies on the curve: a grid vertex or the endpoint
	// of an edge.
	Knot PointKind = iota
	// FirstControl is the control point of an edge next to its start.
	FirstControl
	// SecondControl is the control point of an edge next to its end.
	SecondControl
)

func (k PointKind) String() string {
	switch k {
	case Knot:
		return "Knot"
	case FirstControl:
		return "FirstControl"
	case SecondControl:
		return "SecondControl"
	default:
		return fmt.Sprintf("PointKind(%d)", int(k))
	}
}

// PointMapper maps points of a curve into column i of a grid.
type PointMapper interface {
	// MapPoint returns the image of p in column i. For control points,
	// start and end are the endpoints of the edge that p belongs to; for
	// knots both equal p.
	MapPoint(i int, p path3.Point, kind PointKind, start, end path3.Point) path3.Point
}

// PointMapperFunc adapts a function to the [PointMapper] interface.
type PointMapperFunc func(i int, p path3.Point, kind PointKind, start, end path3.Point) path3.Point

func (fn PointMapperFunc) MapPoint(i int, p path3.Point, kind PointKind, start, end path3.Point) path3.Point {
	return fn(i, p, kind, start, end)
}

func mapControls(m PointMapper, i int, c controls, start path3.Point) controls {
	end := c[2]
	return controls{
		m.MapPoint(i, c[0], FirstControl, start, end).Quantize(),
		m.MapPoint(i, c[1], SecondControl, start, end).Quantize(),
		m.MapPoint(i, c[2], Knot, end, end).Quantize(),
	}
}

// ConnectOptions configures [Grid.ConnectionsTo]. The zero value connects
// every boundary loop with two vertices across.
type ConnectOptions struct {
	// N is the number of vertices across each connector. Zero means 2.
	N int
	// Split breaks boundary loops into one connector per spline.
	Split bool
	// Indices restricts the connectors to the boundary loops that pass
	// through at least one of the given vertices, as pairs (i, j).
	Indices []int
	// Exclude inverts the selection made by Indices.
	Exclude bool
}

func (o ConnectOptions) WithN(n int) ConnectOptions            { o.N = n; return o }
func (o ConnectOptions) WithSplit(b bool) ConnectOptions       { o.Split = b; return o }
func (o ConnectOptions) WithIndices(idx ...int) ConnectOptions { o.Indices = idx; return o }
func (o ConnectOptions) WithExclude(b bool) ConnectOptions     { o.Exclude = b; return o }

// run is a stretch of boundary that becomes one connector. Row k of the
// connector starts at rows[k]; for k < len(edges) the row's v edge follows
// edges[k].
type run struct {
	rows    []gridIndex
	edges   [][2]gridIndex
	regions []int
	cyclic  bool
}

// run returns count edges of c starting with edge start. Open runs get a
// final row at the end of their last edge, which takes the region of the
// edge that follows.
func (c *component) run(start, count int, cyclic bool) run {
	n := c.edges()
	r := run{cyclic: cyclic}
	for k := range count {
		e := (start + k) % n
		r.rows = append(r.rows, c.verts[e])
		r.edges = append(r.edges, [2]gridIndex{c.verts[e], c.verts[e+1]})
		r.regions = append(r.regions, c.regions[e])
	}
	if !cyclic {
		last := (start + count - 1) % n
		r.rows = append(r.rows, c.verts[last+1])
		r.regions = append(r.regions, c.regions[(start+count)%n])
	}
	return r
}

// runs splits c into runs: the whole loop, or with split set one run per
// spline.
func (c *component) runs(split bool) []run {
	n := c.edges()
	if c.cyclic || !split {
		return []run{c.run(0, n, c.cyclic)}
	}
	// start at a spline change so that no spline is cut in two
	start := 0
	for c.ids[start] == c.ids[(start+n-1)%n] {
		start++
	}
	var out []run
	for k := 0; k < n; {
		cnt := 1
		for k+cnt < n && c.ids[(start+k+cnt)%n] == c.ids[(start+k)%n] {
			cnt++
		}
		out = append(out, c.run(start+k, cnt, false))
		k += cnt
	}
	return out
}

// separated reports whether target differs from g along every edge of r.
func (g *Grid) separated(r run, target *Grid) bool {
	for _, e := range r.edges {
		a, b := e[0], e[1]
		pa, _ := g.atIndex(a).p.get()
		pb, _ := g.atIndex(b).p.get()
		ta, okA := target.atIndex(a).p.get()
		tb, okB := target.atIndex(b).p.get()
		if !okA || !okB || pa != ta || pb != tb {
			continue
		}
		c1, ok1 := g.orientedControls(a, b)
		c2, ok2 := target.orientedControls(a, b)
		if ok1 && ok2 && c1 != c2 {
			continue
		}
		return false
	}
	return true
}

// copyBoundary fills column col of g with the points of r in src and the
// controls of its edges.
func (g *Grid) copyBoundary(col int, src *Grid, r run) {
	for k, idx := range r.rows {
		v := g.at(col, k)
		if p, ok := src.atIndex(idx).p.get(); ok {
			v.p.set(p)
			v.filled = true
		}
		if k < len(r.edges) {
			if c, ok := src.orientedControls(r.edges[k][0], r.edges[k][1]); ok {
				v.vc.set(c)
			}
		}
	}
}

// boundaryComponents returns the traced boundary loops, or an error wrapping
// ErrTopology if there are none.
func (g *Grid) boundaryComponents() ([]component, error) {
	comps, err := g.components()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTopology, err)
	}
	if len(comps) == 0 {
		return nil, fmt.Errorf("%w: surface is closed", ErrTopology)
	}
	return comps, nil
}

// ConnectionsTo returns grids that bridge the boundary of g to the boundary of
// target. Both grids must have the same shape, and the boundary vertices of
// target must have the same indices as the ones of g they are connected to.
// A nil target only populates the first column of each connector.
//
// Each connector has opts.N vertices in the u direction, open, and one
// vertex per boundary vertex in the v direction, closed if the boundary loop
// is a single closed spline. Column 0 holds the points and edges of g's
// boundary, the last column those of target; both keep their v controls when
// splines are computed. Every row takes the region of its boundary edge,
// numbered per loop. Runs along which target coincides with g are skipped,
// unless target is g itself.
func (g *Grid) ConnectionsTo(target *Grid, opts ConnectOptions) ([]*Grid, error) {
	n := opts.N
	if n == 0 {
		n = 2
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: connectors need at least 2 vertices across, got %d", ErrIndex, n)
	}
	want, err := g.indexPairs(opts.Indices)
	if err != nil {
		return nil, err
	}
	if target != nil {
		if target.nu != g.nu || target.nv != g.nv {
			return nil, fmt.Errorf("%w: target is %d×%d, want %d×%d", ErrIndex, target.nu, target.nv, g.nu, g.nv)
		}
		if err := target.CreateSplines(); err != nil {
			return nil, err
		}
	}
	comps, err := g.boundaryComponents()
	if err != nil {
		return nil, err
	}

	var out []*Grid
	for _, c := range comps {
		if len(want) > 0 {
			keep := slices.ContainsFunc(want, func(idx gridIndex) bool {
				_, ok := c.contains(idx)
				return ok
			})
			if keep == opts.Exclude {
				continue
			}
		}
		for _, r := range c.runs(opts.Split) {
			if target != nil && target != g && !g.separated(r, target) {
				continue
			}
			cg := New(n, len(r.rows), Options{VClosed: r.cyclic, Logger: g.logger})
			cg.frozenUEnds1 = true
			cg.copyBoundary(0, g, r)
			if target != nil {
				cg.frozenUEnds2 = true
				cg.copyBoundary(n-1, target, r)
			}
			for k, region := range r.regions {
				for i := range n {
					cg.at(i, k).region = region
				}
			}
			out = append(out, cg)
		}
	}
	return out, nil
}

// ExtensionGrid returns a frozen grid that extends the surface outwards from
// the boundary loop through vertex (uIndex, vIndex). The result has n
// vertices in the u direction and one per boundary vertex in the v
// direction, with vertex (0, 0) at (uIndex, vIndex). Column 0 is the boundary
// itself; column i is its image under mapper. The u controls are fitted, the
// v controls of column i are the images of the boundary's controls.
//
// Regions follow the boundary edges and are shifted by the range of region
// ids of the loop, plus one, at every column listed in regionChanges, so that
// splines across the grid break there.
//
// ExtensionGrid returns nil if the vertex is not on the boundary.
func (g *Grid) ExtensionGrid(mapper PointMapper, regionChanges []int, n, uIndex, vIndex int) (*Grid, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: extension grids need at least 2 vertices across, got %d", ErrIndex, n)
	}
	want, err := g.indexPairs([]int{uIndex, vIndex})
	if err != nil {
		return nil, err
	}
	comps, err := g.boundaryComponents()
	if err != nil {
		return nil, err
	}
	var r run
	found := false
	for _, c := range comps {
		if start, ok := c.contains(want[0]); ok {
			r = c.run(start, c.edges(), c.cyclic)
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	m := len(r.rows)
	eg := New(n, m, Options{VClosed: r.cyclic, Logger: g.logger})
	eg.frozenUEnds1 = true
	eg.copyBoundary(0, g, r)
	for k := range m {
		p := eg.at(0, k).p.unwrap()
		for i := 1; i < n; i++ {
			v := eg.at(i, k)
			v.p.set(mapper.MapPoint(i, p, Knot, p, p).Quantize())
			v.filled = true
		}
	}

	lo, hi := slices.Min(r.regions), slices.Max(r.regions)
	changes := slices.Sorted(slices.Values(regionChanges))
	offset := 0
	for i := range n {
		if _, ok := slices.BinarySearch(changes, i); ok {
			offset += hi - lo + 1
		}
		for k, region := range r.regions {
			eg.at(i, k).region = region + offset
		}
	}

	if err := eg.CreateSplines(); err != nil {
		return nil, err
	}
	for k := range r.edges {
		c, ok := eg.at(0, k).vc.get()
		if !ok {
			continue
		}
		start := eg.at(0, k).p.unwrap()
		for i := 1; i < n; i++ {
			eg.at(i, k).vc.set(mapControls(mapper, i, c, start))
		}
	}
	eg.frozen = true
	return eg, nil
}
