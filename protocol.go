package bezgrid

import "fmt"

// StartSpline starts the declaration of a spline at vertex (i, j). The spline
// is extended with [Grid.MoveU] and [Grid.MoveV] and completed with
// [Grid.EndSpline]. Declared splines take precedence over the generated ones
// for the edges they cover. Starting a new spline discards an unfinished one.
func (g *Grid) StartSpline(i, j int) error {
	if err := g.checkIndex(i, j); err != nil {
		return err
	}
	if g.linear {
		return fmt.Errorf("%w: cannot declare splines on a linear grid", ErrState)
	}
	if g.frozen {
		return ErrFrozen
	}
	g.building.set([]gridIndex{{i, j}})
	return nil
}

// MoveU extends the spline being declared by n steps in the u direction.
// Negative values move towards lower indices. Moves do not wrap around closed
// axes.
func (g *Grid) MoveU(n int) error { return g.move(n, true) }

// MoveV extends the spline being declared by n steps in the v direction.
func (g *Grid) MoveV(n int) error { return g.move(n, false) }

func (g *Grid) move(n int, uDir bool) error {
	path, ok := g.building.get()
	if !ok {
		return fmt.Errorf("%w: no spline has been started", ErrState)
	}
	if n == 0 {
		return nil
	}
	cur := path[len(path)-1]
	target := cur
	if uDir {
		target.i += n
	} else {
		target.j += n
	}
	if err := g.checkIndex(target.i, target.j); err != nil {
		return err
	}
	incr := 1
	if n < 0 {
		incr = -1
	}
	for cur != target {
		if uDir {
			cur.i += incr
		} else {
			cur.j += incr
		}
		path = append(path, cur)
	}
	g.building.set(path)
	return nil
}

// EndSpline completes the spline being declared. A cyclic spline returns to
// its starting vertex, which must be reachable by moving along a single axis
// from the current position. A spline consisting of a single vertex is
// discarded.
func (g *Grid) EndSpline(cyclic bool) error {
	path, ok := g.building.get()
	if !ok {
		return fmt.Errorf("%w: no spline has been started", ErrState)
	}
	if len(path) == 1 {
		g.building.clear()
		return nil
	}
	if cyclic {
		start, cur := path[0], path[len(path)-1]
		switch {
		case start.i != cur.i && start.j != cur.j:
			return fmt.Errorf("%w: cannot close spline from (%d, %d) to (%d, %d) along one axis",
				ErrState, cur.i, cur.j, start.i, start.j)
		case start.i == cur.i:
			if err := g.move(start.j-cur.j, false); err != nil {
				return err
			}
		default:
			if err := g.move(start.i-cur.i, true); err != nil {
				return err
			}
		}
		path = g.building.unwrap()
	}
	g.descriptors = append(g.descriptors, splineDescriptor{points: path, cyclic: cyclic})
	g.building.clear()
	g.invalidate()
	return nil
}
