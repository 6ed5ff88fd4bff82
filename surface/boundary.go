package surface

import (
	"errors"
	"fmt"
	"iter"

	"honnef.co/go/bezgrid/path3"
)

// ErrIllFormed is returned by [Boundary] when the edges that remain after
// cancellation do not form closed loops.
var ErrIllFormed = errors.New("surface: ill-formed surface")

// Edges returns the boundary curves of a patch, in order. Cubic patches go
// (0,0) → (0,3) → (3,3) → (3,0) → (0,0) in (col, row) terms; triangles go
// through their corners in order, with straight controls. Both orders agree
// for the two triangles that split a quad cell as (v1,v4,v2), (v1,v3,v4).
func (p *Patch) Edges() iter.Seq[path3.CubicBez] {
	return func(yield func(path3.CubicBez) bool) {
		if p.Kind == PlanarTriangle {
			for k := range 3 {
				a, b := p.Vertex(k), p.Vertex((k+1)%3)
				c1, c2 := path3.Straight(a, b)
				if !yield(path3.CubicBez{P0: a, P1: c1, P2: c2, P3: b}) {
					return
				}
			}
			return
		}
		edge := func(idx [4][2]int) path3.CubicBez {
			return path3.CubicBez{
				P0: p.Point(idx[0][0], idx[0][1]),
				P1: p.Point(idx[1][0], idx[1][1]),
				P2: p.Point(idx[2][0], idx[2][1]),
				P3: p.Point(idx[3][0], idx[3][1]),
			}
		}
		sides := [4][4][2]int{
			{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
			{{0, 3}, {1, 3}, {2, 3}, {3, 3}},
			{{3, 3}, {3, 2}, {3, 1}, {3, 0}},
			{{3, 0}, {2, 0}, {1, 0}, {0, 0}},
		}
		for _, s := range sides {
			if !yield(edge(s)) {
				return
			}
		}
	}
}

func isDegenerate(c path3.CubicBez) bool {
	return c.P0 == c.P1 && c.P1 == c.P2 && c.P2 == c.P3
}

// Boundary computes the boundary of a set of patches. Every edge is cancelled
// against an edge of another patch that runs the same curve in the opposite
// direction; what remains is chained into closed loops. Each loop becomes one
// subpath of the result, consisting of a MoveTo, one CubicTo per edge and a
// ClosePath. Degenerate edges that collapse to a point are ignored.
//
// Cancellation is exact: neighbouring patches must share bit-identical edge
// control points. A closed surface yields an empty path.
func Boundary(patches iter.Seq[Patch]) (path3.BezPath, error) {
	var edges []path3.CubicBez
	var cancelled []bool
	live := make(map[path3.CubicBez][]int)
	for p := range patches {
		for e := range p.Edges() {
			if isDegenerate(e) {
				continue
			}
			rev := e.Reverse()
			if idx := live[rev]; len(idx) > 0 {
				cancelled[idx[len(idx)-1]] = true
				live[rev] = idx[:len(idx)-1]
				continue
			}
			if len(live[e]) > 0 {
				return nil, fmt.Errorf("%w: edge %v → %v appears twice in the same direction", ErrIllFormed, e.P0, e.P3)
			}
			live[e] = append(live[e], len(edges))
			edges = append(edges, e)
			cancelled = append(cancelled, false)
		}
	}

	var remaining []path3.CubicBez
	for i, e := range edges {
		if !cancelled[i] {
			remaining = append(remaining, e)
		}
	}

	from := make(map[path3.Point][]int)
	for i, e := range remaining {
		from[e.P0] = append(from[e.P0], i)
	}
	used := make([]bool, len(remaining))
	next := func(pt path3.Point) (int, bool) {
		for _, i := range from[pt] {
			if !used[i] {
				return i, true
			}
		}
		return 0, false
	}

	var out path3.BezPath
	for i, e := range remaining {
		if used[i] {
			continue
		}
		used[i] = true
		start := e.P0
		out.MoveTo(start)
		out.CubicTo(e.P1, e.P2, e.P3)
		cur := e.P3
		for cur != start {
			j, ok := next(cur)
			if !ok {
				return nil, fmt.Errorf("%w: boundary is open at %v", ErrIllFormed, cur)
			}
			used[j] = true
			f := remaining[j]
			out.CubicTo(f.P1, f.P2, f.P3)
			cur = f.P3
		}
		out.ClosePath()
	}
	return out, nil
}

// Components groups patches into connected pieces. Two patches are
// connected when they share an edge, in either direction.
func Components(patches iter.Seq[Patch]) [][]Patch {
	var all []Patch
	var parent []int
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	owner := make(map[path3.CubicBez]int)
	for p := range patches {
		idx := len(all)
		all = append(all, p)
		parent = append(parent, idx)
		for e := range p.Edges() {
			if isDegenerate(e) {
				continue
			}
			for _, k := range [2]path3.CubicBez{e, e.Reverse()} {
				if other, ok := owner[k]; ok {
					parent[find(other)] = find(idx)
				}
			}
			owner[e] = idx
		}
	}

	var out [][]Patch
	group := make(map[int]int)
	for i, p := range all {
		root := find(i)
		k, ok := group[root]
		if !ok {
			k = len(out)
			group[root] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], p)
	}
	return out
}
