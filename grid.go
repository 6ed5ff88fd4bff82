package bezgrid

import (
	"fmt"
	"image/color"
	"log/slog"

	"honnef.co/go/bezgrid/path3"
)

// Options configures a new [Grid]. The zero value describes a grid that is
// open in both directions and fits curved splines.
type Options struct {
	// UClosed makes the u direction (the first index) cyclic. The last
	// vertex of every u line connects back to the first one; the first
	// vertex must not be repeated at the end. A closed direction needs at
	// least three vertices.
	UClosed bool
	// VClosed is UClosed for the v direction (the second index).
	VClosed bool
	// Linear gives every vertex its own region, so that all edges are
	// straight lines, and lets flat cells be emitted as triangle pairs.
	Linear bool
	// Logger receives a debug record for every edge whose control points
	// are computed. It may be nil.
	Logger *slog.Logger
}

func (o Options) WithUClosed(b bool) Options             { o.UClosed = b; return o }
func (o Options) WithVClosed(b bool) Options             { o.VClosed = b; return o }
func (o Options) WithLinear(b bool) Options              { o.Linear = b; return o }
func (o Options) WithLogger(logger *slog.Logger) Options { o.Logger = logger; return o }

// controls are the control points of the cubic edge that leaves a vertex:
// the two inner control points followed by the far endpoint, which repeats
// the neighbouring vertex's point.
type controls [3]path3.Point

func (c controls) quantize() controls {
	return controls{c[0].Quantize(), c[1].Quantize(), c[2].Quantize()}
}

// reversed returns the controls of the same edge traversed from its far end
// back to start, the point of the vertex that owns c.
func (c controls) reversed(start path3.Point) controls {
	return controls{c[1], c[0], start}
}

func (c controls) coords() [9]float64 {
	var out [9]float64
	for k, p := range c {
		p.Coords(out[:3*k])
	}
	return out
}

func straightControls(a, b path3.Point) controls {
	c1, c2 := path3.Straight(a, b)
	return controls{c1, c2, b}
}

type vertex struct {
	p      option[path3.Point]
	filled bool
	region int
	uc     option[controls]
	vc     option[controls]
	// interior control points P11, P21, P12, P22
	rest  option[[4]path3.Point]
	usn   int
	vsn   int
	color color.Color
}

type gridIndex struct {
	i, j int
}

type splineDescriptor struct {
	points []gridIndex
	cyclic bool
}

// Grid is a rectangular array of vertices that defines a quilt of bicubic
// Bézier patches. The cell whose lowest corner is vertex (i, j) spans the
// vertices (i, j), (i+1, j), (i, j+1) and (i+1, j+1); increasing u moves
// towards higher i and increasing v towards higher j.
//
// Only the vertices are supplied by the user. The control points of the edges
// between them are derived by fitting splines through runs of defined points
// that share a region, unless they are set explicitly. Control points are
// computed lazily and recomputed after edits, see [Grid.CreateSplines].
//
// A Grid must not be used concurrently from multiple goroutines, not even
// for reading, since reads may trigger the recomputation of control points.
type Grid struct {
	nu, nv           int
	uClosed, vClosed bool
	linear           bool
	verts            []vertex
	flipped          bool

	// frozen grids reject point edits and never recompute control points.
	frozen bool
	// frozenU and frozenV keep all u or v controls during recomputation,
	// the end flags keep the v controls of the first and last column, or
	// the u controls of the first and last row.
	frozenU, frozenV           bool
	frozenUEnds1, frozenUEnds2 bool
	frozenVEnds1, frozenVEnds2 bool

	splinesCreated bool
	splineCyclic   []bool
	descriptors    []splineDescriptor
	building       option[[]gridIndex]
	logger         *slog.Logger
}

func checkSize(nu, nv int, opts Options) error {
	switch {
	case nu < 1 || nv < 1:
		return fmt.Errorf("%w: invalid grid size %d×%d", ErrIndex, nu, nv)
	case opts.UClosed && nu < 3:
		return fmt.Errorf("%w: closed u direction with %d vertices", ErrIndex, nu)
	case opts.VClosed && nv < 3:
		return fmt.Errorf("%w: closed v direction with %d vertices", ErrIndex, nv)
	}
	return nil
}

// New returns an empty grid with nu vertices in the u direction and nv
// vertices in the v direction. It panics with an error wrapping [ErrIndex]
// if either is smaller than 1, or if a closed direction has fewer than three
// vertices.
func New(nu, nv int, opts Options) *Grid {
	if err := checkSize(nu, nv, opts); err != nil {
		panic(err)
	}
	g := &Grid{
		nu:      nu,
		nv:      nv,
		uClosed: opts.UClosed,
		vClosed: opts.VClosed,
		linear:  opts.Linear,
		verts:   make([]vertex, nu*nv),
		logger:  opts.Logger,
	}
	region := 0
	for i := range nu {
		for j := range nv {
			v := g.at(i, j)
			v.usn, v.vsn = -1, -1
			if g.linear {
				v.region = region
				region++
			}
		}
	}
	return g
}

// NewFromPoints returns a grid whose vertex (i, j) is points[i][j]. Nil
// entries leave the vertex undefined; defined vertices are filled.
func NewFromPoints(points [][]*path3.Point, opts Options) (*Grid, error) {
	if len(points) == 0 || len(points[0]) == 0 {
		return nil, fmt.Errorf("%w: empty point array", ErrIndex)
	}
	nv := len(points[0])
	for i, row := range points {
		if len(row) != nv {
			return nil, fmt.Errorf("%w: row %d has %d points, want %d", ErrIndex, i, len(row), nv)
		}
	}
	if err := checkSize(len(points), nv, opts); err != nil {
		return nil, err
	}
	g := New(len(points), nv, opts)
	for i, row := range points {
		for j, p := range row {
			if p != nil {
				v := g.at(i, j)
				v.p.set(p.Quantize())
				v.filled = true
			}
		}
	}
	return g, nil
}

// ParametricSurface describes a surface as three functions of two
// parameters.
type ParametricSurface struct {
	X, Y, Z func(s, t float64) float64
	// InDomain reports whether (s, t) belongs to the surface. A nil
	// InDomain accepts all parameters.
	InDomain func(s, t float64) bool
}

// NewParametric returns a grid whose vertex (i, j) is the surface evaluated
// at (s[i], t[j]). Parameters outside the surface's domain leave the vertex
// undefined and unfilled. Invalid sizes panic as in [New].
func NewParametric(s, t []float64, surf ParametricSurface, opts Options) *Grid {
	g := New(len(s), len(t), opts)
	for i, sv := range s {
		for j, tv := range t {
			if surf.InDomain != nil && !surf.InDomain(sv, tv) {
				continue
			}
			v := g.at(i, j)
			v.p.set(path3.Pt(surf.X(sv, tv), surf.Y(sv, tv), surf.Z(sv, tv)).Quantize())
			v.filled = true
		}
	}
	return g
}

// NewDerived returns a grid with the same shape, regions, colors, filled
// cells and declared splines as g, whose points are g's points mapped by f.
// A nil f copies the points. When reverse is true the new grid's orientation
// is the opposite of g's. Explicitly set control points are not copied.
func NewDerived(g *Grid, reverse bool, f func(path3.Point) path3.Point) *Grid {
	ng := New(g.nu, g.nv, Options{
		UClosed: g.uClosed,
		VClosed: g.vClosed,
		Linear:  g.linear,
		Logger:  g.logger,
	})
	ng.flipped = g.flipped != reverse
	for k := range g.verts {
		src, dst := &g.verts[k], &ng.verts[k]
		if p, ok := src.p.get(); ok {
			if f != nil {
				p = f(p).Quantize()
			}
			dst.p.set(p)
		}
		dst.color = src.color
		dst.filled = src.filled
		dst.region = src.region
	}
	for _, sd := range g.descriptors {
		ng.descriptors = append(ng.descriptors, splineDescriptor{
			points: append([]gridIndex(nil), sd.points...),
			cyclic: sd.cyclic,
		})
	}
	return ng
}

func (g *Grid) at(i, j int) *vertex {
	return &g.verts[i*g.nv+j]
}

func (g *Grid) atIndex(idx gridIndex) *vertex {
	return g.at(idx.i, idx.j)
}

func (g *Grid) checkIndex(i, j int) error {
	if i < 0 || i >= g.nu || j < 0 || j >= g.nv {
		return indexError(i, j)
	}
	return nil
}

func (g *Grid) mustIndex(i, j int) {
	if err := g.checkIndex(i, j); err != nil {
		panic(err)
	}
}

func (g *Grid) checkRect(i, j, w, h int) error {
	if err := g.checkIndex(i, j); err != nil {
		return err
	}
	if w < 0 || h < 0 || i+w > g.nu || j+h > g.nv {
		return fmt.Errorf("%w: %d×%d rectangle at (%d, %d)", ErrIndex, w, h, i, j)
	}
	return nil
}

func (g *Grid) invalidate() {
	g.splinesCreated = false
}

func (g *Grid) trace(msg string, i, j int) {
	if g.logger != nil {
		g.logger.Debug(msg, "i", i, "j", j)
	}
}

// Size returns the number of vertices in the u and v directions.
func (g *Grid) Size() (nu, nv int) { return g.nu, g.nv }

func (g *Grid) UClosed() bool { return g.uClosed }
func (g *Grid) VClosed() bool { return g.vClosed }
func (g *Grid) Linear() bool  { return g.linear }

// Frozen reports whether control points were set explicitly, which prevents
// further point edits.
func (g *Grid) Frozen() bool { return g.frozen }

// Point returns vertex (i, j)'s point, or false if it is undefined. It panics
// if the indices are out of range.
func (g *Grid) Point(i, j int) (path3.Point, bool) {
	g.mustIndex(i, j)
	return g.at(i, j).p.get()
}

// SetPoint sets vertex (i, j)'s point. The coordinates are rounded to single
// precision. Defining a previously undefined point also marks its cell as
// filled.
func (g *Grid) SetPoint(i, j int, p path3.Point) error {
	if err := g.checkIndex(i, j); err != nil {
		return err
	}
	if g.frozen {
		return ErrFrozen
	}
	v := g.at(i, j)
	if !v.p.isSet {
		v.filled = true
	}
	v.p.set(p.Quantize())
	g.invalidate()
	return nil
}

// ClearPoint makes vertex (i, j) undefined and removes its cell.
func (g *Grid) ClearPoint(i, j int) error {
	if err := g.checkIndex(i, j); err != nil {
		return err
	}
	if g.frozen {
		return ErrFrozen
	}
	v := g.at(i, j)
	v.p.clear()
	v.filled = false
	g.invalidate()
	return nil
}

// Region returns vertex (i, j)'s region.
func (g *Grid) Region(i, j int) int {
	g.mustIndex(i, j)
	return g.at(i, j).region
}

// SetRegion sets vertex (i, j)'s region. Splines never continue smoothly
// across vertices of different regions.
func (g *Grid) SetRegion(i, j, region int) error {
	if err := g.checkIndex(i, j); err != nil {
		return err
	}
	g.at(i, j).region = region
	g.invalidate()
	return nil
}

// SetRegionRect sets the region of the w×h vertices starting at (i, j). It
// is not available for linear grids, whose regions are all distinct.
func (g *Grid) SetRegionRect(i, j, w, h, region int) error {
	if g.linear {
		return fmt.Errorf("%w: cannot set a region rectangle on a linear grid", ErrState)
	}
	if err := g.checkRect(i, j, w, h); err != nil {
		return err
	}
	for ii := i; ii < i+w; ii++ {
		for jj := j; jj < j+h; jj++ {
			g.at(ii, jj).region = region
		}
	}
	g.invalidate()
	return nil
}

// Filled reports whether the cell at (i, j) is part of the surface.
func (g *Grid) Filled(i, j int) bool {
	g.mustIndex(i, j)
	return g.at(i, j).filled
}

func (g *Grid) setFilled(i, j, w, h int, filled bool) error {
	if err := g.checkRect(i, j, w, h); err != nil {
		return err
	}
	for ii := i; ii < i+w; ii++ {
		for jj := j; jj < j+h; jj++ {
			g.at(ii, jj).filled = filled
		}
	}
	return nil
}

// Remove removes the cell at (i, j) from the surface. Its vertex keeps its
// point and still takes part in spline fitting.
func (g *Grid) Remove(i, j int) error { return g.setFilled(i, j, 1, 1, false) }

// RemoveRect removes the w×h cells starting at (i, j).
func (g *Grid) RemoveRect(i, j, w, h int) error { return g.setFilled(i, j, w, h, false) }

// Restore adds a removed cell back to the surface.
func (g *Grid) Restore(i, j int) error { return g.setFilled(i, j, 1, 1, true) }

// RestoreRect restores the w×h cells starting at (i, j).
func (g *Grid) RestoreRect(i, j, w, h int) error { return g.setFilled(i, j, w, h, true) }

// SetColor sets the color of every cell.
func (g *Grid) SetColor(c color.Color) {
	for k := range g.verts {
		g.verts[k].color = c
	}
}

// SetCellColor sets the color of the cell at (i, j).
func (g *Grid) SetCellColor(i, j int, c color.Color) error {
	if err := g.checkIndex(i, j); err != nil {
		return err
	}
	g.at(i, j).color = c
	return nil
}

// SetColorRect sets the color of the w×h cells starting at (i, j).
func (g *Grid) SetColorRect(i, j, w, h int, c color.Color) error {
	if err := g.checkRect(i, j, w, h); err != nil {
		return err
	}
	for ii := i; ii < i+w; ii++ {
		for jj := j; jj < j+h; jj++ {
			g.at(ii, jj).color = c
		}
	}
	return nil
}

// Color returns the color of the cell at (i, j), which may be nil.
func (g *Grid) Color(i, j int) color.Color {
	g.mustIndex(i, j)
	return g.at(i, j).color
}

// next returns the index one step along the u (du=1) or v (dv=1) direction,
// wrapping on closed axes, or false at the end of an open axis.
func (g *Grid) next(i, j int, uDir bool) (gridIndex, bool) {
	if uDir {
		if i+1 < g.nu {
			return gridIndex{i + 1, j}, true
		}
		if g.uClosed {
			return gridIndex{0, j}, true
		}
		return gridIndex{}, false
	}
	if j+1 < g.nv {
		return gridIndex{i, j + 1}, true
	}
	if g.vClosed {
		return gridIndex{i, 0}, true
	}
	return gridIndex{}, false
}

// isForward reports whether the step from a to its neighbour b follows the
// direction in which the edge's controls are stored, that is from the lower
// index to the higher one or across the wrap of a closed axis.
func (g *Grid) isForward(a, b gridIndex) bool {
	if a.j == b.j {
		return b.i == a.i+1 || (g.uClosed && a.i == g.nu-1 && b.i == 0)
	}
	return b.j == a.j+1 || (g.vClosed && a.j == g.nv-1 && b.j == 0)
}

// orientedControls returns the controls of the edge from a to its neighbour
// b in traversal order, reversing the stored controls when the traversal runs
// against the storage direction.
func (g *Grid) orientedControls(a, b gridIndex) (controls, bool) {
	uDir := a.j == b.j
	if g.isForward(a, b) {
		if uDir {
			return g.atIndex(a).uc.get()
		}
		return g.atIndex(a).vc.get()
	}
	// stored on b, running from b back to a
	end, ok := g.atIndex(b).p.get()
	if !ok {
		return controls{}, false
	}
	var c controls
	if uDir {
		c, ok = g.atIndex(b).uc.get()
	} else {
		c, ok = g.atIndex(b).vc.get()
	}
	if !ok {
		return controls{}, false
	}
	return c.reversed(end), true
}

// setOrientedControls stores the cubic seg, which runs from a to its
// neighbour b, on whichever vertex owns the edge.
func (g *Grid) setOrientedControls(a, b gridIndex, seg path3.CubicBez, id int) {
	uDir := a.j == b.j
	owner := a
	c := controls{seg.P1, seg.P2, seg.P3}
	if !g.isForward(a, b) {
		owner = b
		c = controls{seg.P2, seg.P1, seg.P0}
	}
	v := g.atIndex(owner)
	if uDir {
		v.uc.set(c.quantize())
		v.usn = id
		g.trace("adding U spline", owner.i, owner.j)
	} else {
		v.vc.set(c.quantize())
		v.vsn = id
		g.trace("adding V spline", owner.i, owner.j)
	}
}
