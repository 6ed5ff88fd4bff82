package bezgrid

import (
	"fmt"

	"honnef.co/go/bezgrid/path3"
	"honnef.co/go/bezgrid/surface"
)

// Boundary returns the boundary of the grid's surface. Each closed loop is a
// subpath made of a MoveTo, one CubicTo per boundary edge and a ClosePath.
// The path is empty for closed surfaces. If the edges of the surface do not
// form closed loops the error wraps both [ErrState] and
// [surface.ErrIllFormed].
func (g *Grid) Boundary() (path3.BezPath, error) {
	if err := g.CreateSplines(); err != nil {
		return nil, err
	}
	b, err := surface.Boundary(g.Patches())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrState, err)
	}
	return b, nil
}

// IsWellFormed reports whether the grid's surface has a boundary made of
// closed loops.
func (g *Grid) IsWellFormed() bool {
	_, err := g.Boundary()
	return err == nil
}

// IsClosedManifold reports whether the surface is well formed and has no
// boundary.
func (g *Grid) IsClosedManifold() bool {
	b, err := g.Boundary()
	return err == nil && len(b) == 0
}

// NumberOfComponents returns the number of connected pieces of the surface.
func (g *Grid) NumberOfComponents() int {
	return len(surface.Components(g.Patches()))
}

// component is one loop of the boundary in terms of grid vertices. Edge k
// runs from verts[k] to verts[k+1]; the last vertex is at the same point as
// the first one and usually, but not always, the same vertex.
type component struct {
	verts []gridIndex
	// ids holds the spline id of each edge.
	ids []int
	// regions numbers the distinct spline ids of the loop in order of
	// appearance, per edge.
	regions []int
	// cyclic is set when a single spline runs around the whole loop.
	cyclic bool
}

func (c *component) edges() int { return len(c.ids) }

func (c *component) contains(idx gridIndex) (int, bool) {
	for k, v := range c.verts[:c.edges()] {
		if v == idx {
			return k, true
		}
	}
	return 0, false
}

// components traces the boundary back to the grid vertices it came from.
func (g *Grid) components() ([]component, error) {
	b, err := g.Boundary()
	if err != nil {
		return nil, err
	}
	var out []component
	for sub := range b.Subpaths() {
		c, err := g.traceComponent(sub)
		if err != nil {
			return nil, err
		}
		if c.edges() > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

func (g *Grid) traceComponent(sub path3.BezPath) (component, error) {
	var c component
	var cur gridIndex
	started := false
	regionOf := make(map[int]int)
	for seg := range sub.Segments() {
		cb := seg.Cubic()
		if !started {
			v, ok := g.findVertexByEdge(cb)
			if !ok {
				return c, fmt.Errorf("%w: no vertex starts the boundary edge at %v", ErrConsistency, cb.P0)
			}
			cur = v
			started = true
		}
		next, ok := g.findNeighbor(cur, cb)
		if !ok {
			// A self-touching boundary can leave us on a vertex that
			// shares the edge's start point but not the edge.
			if v, ok := g.findVertexByEdge(cb); ok {
				cur = v
			}
			next, ok = g.findNeighborByControls(cur, cb)
			if !ok {
				return c, fmt.Errorf("%w: boundary edge %v → %v matches no grid edge", ErrConsistency, cb.P0, cb.P3)
			}
		}
		id, err := g.splineID(cur, next)
		if err != nil {
			return c, err
		}
		if _, ok := regionOf[id]; !ok {
			regionOf[id] = len(regionOf)
		}
		c.verts = append(c.verts, cur)
		c.ids = append(c.ids, id)
		c.regions = append(c.regions, regionOf[id])
		cur = next
	}
	if started {
		c.verts = append(c.verts, cur)
	}
	c.cyclic = len(c.ids) > 0 && len(regionOf) == 1
	return c, nil
}

// edgeMatches reports whether the edge from a to its neighbour b has exactly
// the control points of c.
func (g *Grid) edgeMatches(a, b gridIndex, c path3.CubicBez) bool {
	pa, ok := g.atIndex(a).p.get()
	if !ok || pa != c.P0 {
		return false
	}
	ctl, ok := g.orientedControls(a, b)
	return ok && ctl == controls{c.P1, c.P2, c.P3}
}

// findVertexByEdge scans the grid for a vertex at the edge's start point from
// which one of its four edges has the edge's control points.
func (g *Grid) findVertexByEdge(c path3.CubicBez) (gridIndex, bool) {
	for i := range g.nu {
		for j := range g.nv {
			idx := gridIndex{i, j}
			if p, ok := g.at(i, j).p.get(); !ok || p != c.P0 {
				continue
			}
			for _, n := range g.neighbors(idx) {
				if g.edgeMatches(idx, n, c) {
					return idx, true
				}
			}
		}
	}
	return gridIndex{}, false
}

// neighbors returns the vertices one step away from idx: the lower and
// higher u neighbours, then the lower and higher v neighbours. Steps across
// the end of an axis are only included for closed axes.
func (g *Grid) neighbors(idx gridIndex) []gridIndex {
	out := make([]gridIndex, 0, 4)
	for _, uDir := range [2]bool{true, false} {
		if n, ok := g.prev(idx.i, idx.j, uDir); ok && n != idx {
			out = append(out, n)
		}
		if n, ok := g.next(idx.i, idx.j, uDir); ok && n != idx {
			out = append(out, n)
		}
	}
	return out
}

// findNeighbor looks for the end of the edge c among the neighbours of cur:
// first the direct ones, then those across the wrap of a closed axis. The
// neighbour must be at c's endpoint and share an edge with cur that has c's
// control points.
func (g *Grid) findNeighbor(cur gridIndex, c path3.CubicBez) (gridIndex, bool) {
	var wrapped []gridIndex
	for _, n := range g.neighbors(cur) {
		if abs(n.i-cur.i)+abs(n.j-cur.j) != 1 {
			wrapped = append(wrapped, n)
			continue
		}
		if p, ok := g.atIndex(n).p.get(); ok && p == c.P3 && g.edgeMatches(cur, n, c) {
			return n, true
		}
	}
	for _, n := range wrapped {
		if p, ok := g.atIndex(n).p.get(); ok && p == c.P3 && g.edgeMatches(cur, n, c) {
			return n, true
		}
	}
	return gridIndex{}, false
}

// findNeighborByControls matches c against the edges of cur by their control
// points alone.
func (g *Grid) findNeighborByControls(cur gridIndex, c path3.CubicBez) (gridIndex, bool) {
	for _, n := range g.neighbors(cur) {
		if ctl, ok := g.orientedControls(cur, n); ok && ctl == (controls{c.P1, c.P2, c.P3}) {
			return n, true
		}
	}
	return gridIndex{}, false
}

// splineID returns the id of the spline that the edge between neighbours a
// and b belongs to.
func (g *Grid) splineID(a, b gridIndex) (int, error) {
	if a.i != b.i && a.j != b.j || a == b {
		return 0, fmt.Errorf("%w: (%d, %d) and (%d, %d) do not share an edge", ErrConsistency, a.i, a.j, b.i, b.j)
	}
	owner := a
	if !g.isForward(a, b) {
		owner = b
	}
	if a.j == b.j {
		return g.atIndex(owner).usn, nil
	}
	return g.atIndex(owner).vsn, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// BoundaryThrough returns the boundary loops that pass through any of the
// given vertices, each starting at the first listed vertex it contains.
// Indices are given as pairs (i, j). An odd number of indices, indices out of
// range and undefined vertices are errors wrapping [ErrIndex]. Without
// indices the result is empty.
func (g *Grid) BoundaryThrough(indices ...int) (path3.BezPath, error) {
	want, err := g.indexPairs(indices)
	if err != nil {
		return nil, err
	}
	comps, err := g.components()
	if err != nil {
		return nil, err
	}
	var out path3.BezPath
	for _, c := range comps {
		start, ok := 0, false
		for _, idx := range want {
			if start, ok = c.contains(idx); ok {
				break
			}
		}
		if !ok {
			continue
		}
		g.appendLoop(&out, c, start)
	}
	return out, nil
}

func (g *Grid) indexPairs(indices []int) ([]gridIndex, error) {
	if len(indices)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of indices (%d)", ErrIndex, len(indices))
	}
	out := make([]gridIndex, 0, len(indices)/2)
	for k := 0; k < len(indices); k += 2 {
		i, j := indices[k], indices[k+1]
		if err := g.checkIndex(i, j); err != nil {
			return nil, err
		}
		if !g.at(i, j).p.isSet {
			return nil, fmt.Errorf("%w: vertex (%d, %d) is undefined", ErrIndex, i, j)
		}
		out = append(out, gridIndex{i, j})
	}
	return out, nil
}

// appendLoop appends the loop c to p, starting at vertex start.
func (g *Grid) appendLoop(p *path3.BezPath, c component, start int) {
	n := c.edges()
	p.MoveTo(g.atIndex(c.verts[start]).p.unwrap())
	for k := range n {
		e := (start + k) % n
		ctl, _ := g.orientedControls(c.verts[e], c.verts[e+1])
		p.CubicTo(ctl[0], ctl[1], ctl[2])
	}
	p.ClosePath()
}
