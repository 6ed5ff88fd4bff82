package bezgrid

import (
	"fmt"
	"slices"

	"honnef.co/go/bezgrid/path3"
	"honnef.co/go/bezgrid/spline"
)

// CreateSplines computes the control points of every edge that has not been
// set explicitly. It is called implicitly by all methods that read control
// points and is a no-op if the grid is frozen or nothing changed since the
// last call.
//
// Each v line (fixed i) and then each u line (fixed j) is split into maximal
// runs of defined points that share a region. Runs of three or more points
// get an interpolating spline, shorter runs and single steps into another
// region get straight edges. On a closed axis runs may wrap, and a line whose
// points are all defined and in one region gets a cyclic spline. Afterwards
// the splines declared with [Grid.StartSpline] are fitted, in declaration
// order, and replace the generated controls of the edges they cover.
//
// Control points are rounded to single precision. On error the grid is left
// unchanged.
func (g *Grid) CreateSplines() error {
	if g.frozen || g.splinesCreated {
		return nil
	}
	w := *g
	w.verts = slices.Clone(g.verts)
	w.splineCyclic = nil
	if err := w.computeSplines(); err != nil {
		return err
	}
	g.verts = w.verts
	g.splineCyclic = w.splineCyclic
	g.splinesCreated = true
	return nil
}

func (g *Grid) newSplineID(cyclic bool) int {
	g.splineCyclic = append(g.splineCyclic, cyclic)
	return len(g.splineCyclic) - 1
}

func (g *Grid) computeSplines() error {
	for i := range g.nu {
		if g.frozenV || (g.frozenUEnds1 && i == 0) || (g.frozenUEnds2 && i == g.nu-1) {
			continue
		}
		if err := g.fitLine(false, i); err != nil {
			return err
		}
	}
	for j := range g.nv {
		if g.frozenU || (g.frozenVEnds1 && j == 0) || (g.frozenVEnds2 && j == g.nv-1) {
			continue
		}
		if err := g.fitLine(true, j); err != nil {
			return err
		}
	}
	for _, sd := range g.descriptors {
		if err := g.fitDescriptor(sd); err != nil {
			return err
		}
	}
	return nil
}

// fitLine computes the controls along one grid line: the u line at row
// fixed when uDir is set, the v line at column fixed otherwise.
func (g *Grid) fitLine(uDir bool, fixed int) error {
	n, closed := g.nv, g.vClosed
	if uDir {
		n, closed = g.nu, g.uClosed
	}
	idx := func(k int) gridIndex {
		if uDir {
			return gridIndex{k % n, fixed}
		}
		return gridIndex{fixed, k % n}
	}

	for k := range n {
		v := g.atIndex(idx(k))
		if uDir {
			v.uc.clear()
			v.usn = -1
		} else {
			v.vc.clear()
			v.vsn = -1
		}
	}

	// On a closed axis the line is repeated so that runs can wrap; the
	// final entry is always undefined.
	tmp := make([]option[path3.Point], 2*n+1)
	for k := range n {
		tmp[k] = g.atIndex(idx(k)).p
	}
	if closed {
		copy(tmp[n:], tmp[:n])
	}
	region := func(k int) int { return g.atIndex(idx(k)).region }

	knots := func(offset, cnt int) []path3.Point {
		out := make([]path3.Point, cnt)
		for k := range out {
			out[k] = tmp[offset+k].unwrap()
		}
		return out
	}
	emit := func(offset int, segs []path3.CubicBez, id int) {
		for k, seg := range segs {
			g.setOrientedControls(idx(offset+k), idx(offset+k+1), seg, id)
		}
	}
	line := func(offset int) []path3.CubicBez {
		return []path3.CubicBez{path3.Line{P0: tmp[offset].unwrap(), P1: tmp[offset+1].unwrap()}.Cubic()}
	}

	offset := 0
	for offset < n {
		for offset < n && !tmp[offset].isSet {
			offset++
		}
		if offset == n {
			break
		}
		cnt := 0
		if closed && offset != 0 {
			for tmp[offset+cnt].isSet && region(offset) == region(offset+cnt) {
				cnt++
			}
		} else {
			for offset+cnt < n && tmp[offset+cnt].isSet && region(offset) == region(offset+cnt) {
				cnt++
			}
		}

		switch {
		case cnt == n && closed:
			segs, err := spline.Fit(knots(offset, n), true)
			if err != nil {
				return err
			}
			emit(offset, segs, g.newSplineID(true))
			return nil
		case cnt == 1:
			if !tmp[offset+1].isSet {
				offset++
				continue
			}
			if region(offset) != region(offset+1) {
				emit(offset, line(offset), g.newSplineID(false))
			}
		case cnt == 2:
			emit(offset, line(offset), g.newSplineID(false))
		default:
			segs, err := spline.Fit(knots(offset, cnt), false)
			if err != nil {
				return err
			}
			emit(offset, segs, g.newSplineID(false))
		}

		// A run that ended at a region change shares its last point with
		// the next run.
		if cnt > 1 && tmp[offset+cnt].isSet {
			cnt--
		}
		offset += cnt
	}
	return nil
}

// adjacent reports whether b is one step from a along a single axis,
// counting the wrap of a closed axis.
func (g *Grid) adjacent(a, b gridIndex) bool {
	step := func(x, y, n int, closed bool) bool {
		d := y - x
		return d == 1 || d == -1 || (closed && n > 2 && (d == n-1 || d == 1-n))
	}
	switch {
	case a.i == b.i:
		return step(a.j, b.j, g.nv, g.vClosed)
	case a.j == b.j:
		return step(a.i, b.i, g.nu, g.uClosed)
	default:
		return false
	}
}

func (g *Grid) fitDescriptor(sd splineDescriptor) error {
	id := g.newSplineID(sd.cyclic)
	if len(sd.points) < 2 {
		return nil
	}
	knots := make([]path3.Point, len(sd.points))
	for k, idx := range sd.points {
		p, ok := g.atIndex(idx).p.get()
		if !ok {
			return fmt.Errorf("%w: declared spline passes through undefined vertex (%d, %d)", ErrConsistency, idx.i, idx.j)
		}
		knots[k] = p
	}

	var segs []path3.CubicBez
	var err error
	switch {
	case len(knots) == 2:
		segs = []path3.CubicBez{path3.Line{P0: knots[0], P1: knots[1]}.Cubic()}
	case sd.cyclic:
		// the closing point repeats the first one
		segs, err = spline.Fit(knots[:len(knots)-1], true)
	default:
		segs, err = spline.Fit(knots, false)
	}
	if err != nil {
		return fmt.Errorf("%w: declared spline starting at (%d, %d): %w", ErrConsistency, sd.points[0].i, sd.points[0].j, err)
	}

	for k, seg := range segs {
		a, b := sd.points[k], sd.points[k+1]
		if !g.adjacent(a, b) || seg.P3 != knots[k+1] {
			return fmt.Errorf("%w: declared spline does not reach vertex (%d, %d) from (%d, %d)", ErrConsistency, b.i, b.j, a.i, a.j)
		}
		g.setOrientedControls(a, b, seg, id)
	}
	return nil
}
