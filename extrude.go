package bezgrid

import (
	"fmt"

	"honnef.co/go/bezgrid/path3"
)

// Mapper is a [PointMapper] that also describes the columns it maps to, as
// needed by [NewFromMapper].
type Mapper interface {
	PointMapper
	// Len returns the number of columns.
	Len() int
	// Closed reports whether the last column connects back to the first.
	Closed() bool
	// Region returns the region of column i.
	Region(i int) int
}

// NewExtruded returns a grid made of n copies of a cross-section, placed by
// mapper. The template's first subpath supplies the v direction: one vertex
// per drawable knot, closed if the subpath is closed. Column i holds the
// images of the template's knots and control points under mapper, with lines
// and quadratic segments raised to cubics. The v controls are kept when
// splines are computed; the u controls are fitted as usual.
//
// If mapper is also a [Mapper], column i is placed in region
// mapper.Region(i).
func NewExtruded(template path3.BezPath, mapper PointMapper, n int, uClosed bool) (*Grid, error) {
	var sub path3.BezPath
	for sp := range template.Subpaths() {
		sub = sp
		break
	}
	if sub.IsNaN() {
		return nil, fmt.Errorf("%w: template has a NaN coordinate", ErrState)
	}
	nv := sub.DrawableKnots()
	opts := Options{UClosed: uClosed, VClosed: sub.IsClosed()}
	if err := checkSize(n, nv, opts); err != nil {
		return nil, fmt.Errorf("cannot extrude %d knots into %d columns: %w", nv, n, err)
	}
	g := New(n, nv, opts)

	setKnot := func(j int, p path3.Point) {
		for i := range n {
			v := g.at(i, j)
			v.p.set(mapper.MapPoint(i, p, Knot, p, p).Quantize())
			v.filled = true
		}
	}
	j := 0
	var last path3.Point
	for seg := range sub.Segments() {
		if j == nv {
			break
		}
		c := seg.Cubic()
		setKnot(j, c.P0)
		for i := range n {
			g.at(i, j).vc.set(mapControls(mapper, i, controls{c.P1, c.P2, c.P3}, c.P0))
		}
		last = c.P3
		j++
	}
	if j < nv {
		setKnot(j, last)
	}

	if m, ok := mapper.(Mapper); ok {
		for i := range n {
			for j := range nv {
				g.at(i, j).region = m.Region(i)
			}
		}
	}
	g.frozenV = true
	return g, nil
}

// NewFromMapper is like [NewExtruded], taking the number of columns and the
// closedness of the u direction from mapper.
func NewFromMapper(template path3.BezPath, mapper Mapper) (*Grid, error) {
	return NewExtruded(template, mapper, mapper.Len(), mapper.Closed())
}
