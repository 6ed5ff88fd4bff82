package bezgrid

import (
	"fmt"
	"slices"

	"honnef.co/go/bezgrid/path3"
)

// Transpose returns a copy of g with the u and v directions swapped: vertex
// (i, j) of g becomes vertex (j, i) of the result, together with its
// controls, spline ids, region, color and fill state. Declared splines and
// freeze flags are mirrored as well.
//
// The result keeps g's orientation flag, so its patches face the other way;
// call [Grid.Flip] on it to preserve the geometric orientation. Transpose
// fails with [ErrState] while a spline declaration is in progress.
func (g *Grid) Transpose() (*Grid, error) {
	if g.building.isSet {
		return nil, fmt.Errorf("%w: cannot transpose during a spline declaration", ErrState)
	}
	t := New(g.nv, g.nu, Options{
		UClosed: g.vClosed,
		VClosed: g.uClosed,
		Linear:  g.linear,
		Logger:  g.logger,
	})
	for i := range g.nu {
		for j := range g.nv {
			v := g.at(i, j)
			tv := t.at(j, i)
			tv.p = v.p
			tv.filled = v.filled
			tv.region = v.region
			tv.color = v.color
			tv.uc, tv.vc = v.vc, v.uc
			tv.usn, tv.vsn = v.vsn, v.usn
			if r, ok := v.rest.get(); ok {
				tv.rest.set([4]path3.Point{r[0], r[2], r[1], r[3]})
			}
		}
	}
	t.flipped = g.flipped
	t.frozen = g.frozen
	t.frozenU, t.frozenV = g.frozenV, g.frozenU
	t.frozenUEnds1, t.frozenUEnds2 = g.frozenVEnds1, g.frozenVEnds2
	t.frozenVEnds1, t.frozenVEnds2 = g.frozenUEnds1, g.frozenUEnds2
	for _, sd := range g.descriptors {
		points := make([]gridIndex, len(sd.points))
		for k, idx := range sd.points {
			points[k] = gridIndex{idx.j, idx.i}
		}
		t.descriptors = append(t.descriptors, splineDescriptor{points: points, cyclic: sd.cyclic})
	}
	t.splineCyclic = slices.Clone(g.splineCyclic)
	t.splinesCreated = g.splinesCreated
	return t, nil
}

// Subgrid returns the n×m vertices of g starting at (i, j) as a new grid.
// On a closed axis the window may wrap around and span up to one more vertex
// than g has, so that the first vertex appears again at the end; on an open
// axis it must fit within g.
//
// The result is open in both directions and frozen. It carries g's points,
// regions, spline ids and the controls of the edges inside the window.
// Colors, fill state and interior control points are copied for the cells
// that lie entirely inside the window.
func (g *Grid) Subgrid(i, j, n, m int) (*Grid, error) {
	if err := g.checkIndex(i, j); err != nil {
		return nil, err
	}
	fits := func(start, size, total int, closed bool) bool {
		if size < 1 {
			return false
		}
		if closed {
			return size <= total+1
		}
		return start+size <= total
	}
	if !fits(i, n, g.nu, g.uClosed) || !fits(j, m, g.nv, g.vClosed) {
		return nil, fmt.Errorf("%w: %d×%d subgrid at (%d, %d)", ErrIndex, n, m, i, j)
	}
	if err := g.CreateSplines(); err != nil {
		return nil, err
	}

	sg := New(n, m, Options{Logger: g.logger})
	sg.flipped = g.flipped
	sg.frozen = true
	sg.splinesCreated = true
	sg.splineCyclic = slices.Clone(g.splineCyclic)
	for ii := range n {
		for jj := range m {
			v := g.at((i+ii)%g.nu, (j+jj)%g.nv)
			sv := sg.at(ii, jj)
			sv.p = v.p
			sv.region = v.region
			sv.usn, sv.vsn = v.usn, v.vsn
			if ii < n-1 {
				sv.uc = v.uc
			}
			if jj < m-1 {
				sv.vc = v.vc
			}
			if ii < n-1 && jj < m-1 {
				sv.color = v.color
				sv.filled = v.filled
				sv.rest = v.rest
			}
		}
	}
	return sg, nil
}

// ReverseOrientation sets whether the patches produced by the grid are
// reversed relative to the orientation implied by the grid's indices. Control
// points returned by methods such as [Grid.SplineU] are not affected.
func (g *Grid) ReverseOrientation(reverse bool) *Grid {
	g.flipped = reverse
	return g
}

// Flip toggles the orientation of the patches produced by the grid.
func (g *Grid) Flip() *Grid {
	g.flipped = !g.flipped
	return g
}

// IsReversed reports whether the orientation of the grid's patches is
// reversed.
func (g *Grid) IsReversed() bool { return g.flipped }
