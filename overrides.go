package bezgrid

import (
	"fmt"

	"honnef.co/go/bezgrid/path3"
	"honnef.co/go/bezgrid/surface"
)

// FullSplineU returns vertex (i, j)'s point followed by the control points of
// the edge towards (i+1, j): two inner control points and the endpoint. It
// returns false if the point or the edge is undefined.
func (g *Grid) FullSplineU(i, j int) ([12]float64, bool, error) {
	return g.fullSpline(i, j, true)
}

// FullSplineV is like [Grid.FullSplineU] for the edge towards (i, j+1).
func (g *Grid) FullSplineV(i, j int) ([12]float64, bool, error) {
	return g.fullSpline(i, j, false)
}

func (g *Grid) fullSpline(i, j int, uDir bool) ([12]float64, bool, error) {
	var out [12]float64
	c, ok, err := g.edge(i, j, uDir)
	if !ok || err != nil {
		return out, false, err
	}
	g.at(i, j).p.unwrap().Coords(out[:0])
	cc := c.coords()
	copy(out[3:], cc[:])
	return out, true, nil
}

// SplineU returns the control points of the edge from (i, j) towards
// (i+1, j), without the starting point.
func (g *Grid) SplineU(i, j int) ([9]float64, bool, error) {
	c, ok, err := g.edge(i, j, true)
	return c.coords(), ok, err
}

// SplineV returns the control points of the edge from (i, j) towards
// (i, j+1), without the starting point.
func (g *Grid) SplineV(i, j int) ([9]float64, bool, error) {
	c, ok, err := g.edge(i, j, false)
	return c.coords(), ok, err
}

func (g *Grid) edge(i, j int, uDir bool) (controls, bool, error) {
	if err := g.checkIndex(i, j); err != nil {
		return controls{}, false, err
	}
	if err := g.CreateSplines(); err != nil {
		return controls{}, false, err
	}
	v := g.at(i, j)
	if !v.p.isSet {
		return controls{}, false, nil
	}
	if uDir {
		c, ok := v.uc.get()
		return c, ok, nil
	}
	c, ok := v.vc.get()
	return c, ok, nil
}

// SetSplineU replaces the inner control points of the existing edge from
// (i, j) towards (i+1, j) and freezes the grid. It returns false, without
// changing anything, for linear grids, for grids whose u controls are fixed
// and when the edge does not exist.
func (g *Grid) SetSplineU(i, j int, c1, c2 path3.Point) (bool, error) {
	return g.setSpline(i, j, c1, c2, true)
}

// SetSplineV is like [Grid.SetSplineU] for the edge towards (i, j+1).
func (g *Grid) SetSplineV(i, j int, c1, c2 path3.Point) (bool, error) {
	return g.setSpline(i, j, c1, c2, false)
}

func (g *Grid) setSpline(i, j int, c1, c2 path3.Point, uDir bool) (bool, error) {
	if g.linear || (uDir && g.frozenU) || (!uDir && g.frozenV) {
		return false, nil
	}
	if err := g.checkIndex(i, j); err != nil {
		return false, err
	}
	if err := g.CreateSplines(); err != nil {
		return false, err
	}
	v := g.at(i, j)
	ctl := &v.vc
	if uDir {
		ctl = &v.uc
	}
	if !v.p.isSet || !ctl.isSet {
		return false, nil
	}
	g.frozen = true
	ctl.value[0] = c1.Quantize()
	ctl.value[1] = c2.Quantize()
	return true, nil
}

// SetLinearU makes the edge from (i, j) towards (i+1, j) a straight line,
// see [Grid.SetSplineU].
func (g *Grid) SetLinearU(i, j int) (bool, error) {
	return g.setLinear(i, j, true)
}

// SetLinearV makes the edge from (i, j) towards (i, j+1) a straight line,
// see [Grid.SetSplineV].
func (g *Grid) SetLinearV(i, j int) (bool, error) {
	return g.setLinear(i, j, false)
}

func (g *Grid) setLinear(i, j int, uDir bool) (bool, error) {
	if g.linear || (uDir && g.frozenU) || (!uDir && g.frozenV) {
		return false, nil
	}
	if err := g.checkIndex(i, j); err != nil {
		return false, err
	}
	next, ok := g.next(i, j, uDir)
	if !ok {
		return false, fmt.Errorf("%w: no edge leaves (%d, %d) at the end of an open axis", ErrIndex, i, j)
	}
	a, okA := g.at(i, j).p.get()
	b, okB := g.atIndex(next).p.get()
	if !okA || !okB {
		return false, nil
	}
	c := straightControls(a, b)
	return g.setSpline(i, j, c[0], c[1], uDir)
}

// SetRemainingControlPoints sets the four interior control points P11, P21,
// P12 and P22 of the cell at (i, j), in that order, and freezes the grid. A
// nil rest restores the default interior. It returns false for linear grids
// and when either edge leaving (i, j) is undefined.
func (g *Grid) SetRemainingControlPoints(i, j int, rest *[12]float64) (bool, error) {
	if g.linear {
		return false, nil
	}
	if err := g.checkIndex(i, j); err != nil {
		return false, err
	}
	if err := g.CreateSplines(); err != nil {
		return false, err
	}
	v := g.at(i, j)
	if !v.p.isSet || !v.uc.isSet || !v.vc.isSet {
		return false, nil
	}
	g.frozen = true
	if rest == nil {
		v.rest.clear()
		return true, nil
	}
	var pts [4]path3.Point
	for k := range pts {
		pts[k] = path3.At(rest[:], 3*k).Quantize()
	}
	v.rest.set(pts)
	return true, nil
}

// RemainingControlPoints returns the interior control points set with
// [Grid.SetRemainingControlPoints] or [Grid.SetPatch].
func (g *Grid) RemainingControlPoints(i, j int) ([12]float64, bool, error) {
	var out [12]float64
	if err := g.checkIndex(i, j); err != nil {
		return out, false, err
	}
	if err := g.CreateSplines(); err != nil {
		return out, false, err
	}
	v := g.at(i, j)
	rest, ok := v.rest.get()
	if !v.p.isSet || !v.uc.isSet || !v.vc.isSet || !ok {
		return out, false, nil
	}
	for k, p := range rest {
		p.Coords(out[:3*k])
	}
	return out, true, nil
}

// movePoint sets a vertex's point and updates the endpoints stored by the
// edges arriving at it.
func (g *Grid) movePoint(idx gridIndex, p path3.Point) {
	v := g.atIndex(idx)
	if !v.p.isSet {
		v.filled = true
	}
	v.p.set(p)
	if prev, ok := g.prev(idx.i, idx.j, true); ok {
		if pv := g.atIndex(prev); pv.uc.isSet {
			pv.uc.value[2] = p
		}
	}
	if prev, ok := g.prev(idx.i, idx.j, false); ok {
		if pv := g.atIndex(prev); pv.vc.isSet {
			pv.vc.value[2] = p
		}
	}
}

// prev is the counterpart of next.
func (g *Grid) prev(i, j int, uDir bool) (gridIndex, bool) {
	if uDir {
		if i > 0 {
			return gridIndex{i - 1, j}, true
		}
		if g.uClosed {
			return gridIndex{g.nu - 1, j}, true
		}
		return gridIndex{}, false
	}
	if j > 0 {
		return gridIndex{i, j - 1}, true
	}
	if g.vClosed {
		return gridIndex{i, g.nv - 1}, true
	}
	return gridIndex{}, false
}

// SetPatch replaces the geometry of the cell at (i, j) with the given patch,
// laid out as returned by [Grid.Patch], and freezes the grid. The corners
// become the points of the cell's vertices and the edges become their
// controls. Parts of the patch beyond the end of an open axis are ignored.
func (g *Grid) SetPatch(i, j int, coords [48]float64) error {
	if err := g.checkIndex(i, j); err != nil {
		return err
	}
	if g.linear {
		return fmt.Errorf("%w: cannot set patches on a linear grid", ErrState)
	}
	if err := g.CreateSplines(); err != nil {
		return err
	}
	g.frozen = true

	pt := func(col, row int) path3.Point {
		return path3.At(coords[:], surface.Index(col, row)).Quantize()
	}
	cur := gridIndex{i, j}
	g.movePoint(cur, pt(0, 0))
	ni, hasI := g.next(i, j, true)
	nj, hasJ := g.next(i, j, false)
	if hasI {
		g.movePoint(ni, pt(3, 0))
		g.at(i, j).uc.set(controls{pt(1, 0), pt(2, 0), pt(3, 0)})
	}
	if hasJ {
		g.movePoint(nj, pt(0, 3))
		g.at(i, j).vc.set(controls{pt(0, 1), pt(0, 2), pt(0, 3)})
	}
	if hasI && hasJ {
		nij, _ := g.next(ni.i, ni.j, false)
		g.movePoint(nij, pt(3, 3))
		g.atIndex(nj).uc.set(controls{pt(1, 3), pt(2, 3), pt(3, 3)})
		g.atIndex(ni).vc.set(controls{pt(3, 1), pt(3, 2), pt(3, 3)})
		g.at(i, j).rest.set([4]path3.Point{pt(1, 1), pt(2, 1), pt(1, 2), pt(2, 2)})
	}
	return nil
}

// SetPatchCorners sets the points of the four vertices of the cell at (i, j)
// from the corners of a patch laid out as returned by [Grid.Patch]. All other
// control points are ignored and will be recomputed.
func (g *Grid) SetPatchCorners(i, j int, coords [48]float64) error {
	if err := g.checkIndex(i, j); err != nil {
		return err
	}
	if g.frozen {
		return ErrFrozen
	}
	pt := func(col, row int) path3.Point {
		return path3.At(coords[:], surface.Index(col, row)).Quantize()
	}
	g.movePoint(gridIndex{i, j}, pt(0, 0))
	ni, hasI := g.next(i, j, true)
	nj, hasJ := g.next(i, j, false)
	if hasI {
		g.movePoint(ni, pt(3, 0))
	}
	if hasJ {
		g.movePoint(nj, pt(0, 3))
	}
	if hasI && hasJ {
		nij, _ := g.next(ni.i, ni.j, false)
		g.movePoint(nij, pt(3, 3))
	}
	g.invalidate()
	return nil
}
