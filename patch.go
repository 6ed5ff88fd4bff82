package bezgrid

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/bezgrid/path3"
	"honnef.co/go/bezgrid/surface"
)

// planarLimit is the largest triple product of the normalized corner vectors
// for which a cell of a linear grid counts as flat.
const planarLimit = 1e-6

// Patch returns the control points of the cell at (i, j), laid out as
// described in package surface: point (col, row) starts at 3*(4*row+col),
// with col running along u and row along v. Corner (0, 0) is vertex (i, j),
// (3, 0) is (i+1, j), (0, 3) is (i, j+1) and (3, 3) is (i+1, j+1).
//
// Patch returns false if the cell extends beyond the end of an open axis or
// if any of its corners or edges is undefined. It does not consider whether
// the cell is filled, nor the grid's orientation.
func (g *Grid) Patch(i, j int) ([48]float64, bool, error) {
	var coords [48]float64
	if err := g.checkIndex(i, j); err != nil {
		return coords, false, err
	}
	if err := g.CreateSplines(); err != nil {
		return coords, false, err
	}
	ok := g.patch(i, j, &coords)
	return coords, ok, nil
}

// cellCorners returns the indices of the four vertices of the cell at (i, j)
// in the order (i, j), (i+1, j), (i, j+1), (i+1, j+1).
func (g *Grid) cellCorners(i, j int) ([4]gridIndex, bool) {
	ni, ok1 := g.next(i, j, true)
	nj, ok2 := g.next(i, j, false)
	if !ok1 || !ok2 {
		return [4]gridIndex{}, false
	}
	nij, _ := g.next(ni.i, ni.j, false)
	return [4]gridIndex{{i, j}, ni, nj, nij}, true
}

// complete reports whether every point and edge of the cell at (i, j) is
// defined.
func (g *Grid) complete(i, j int) bool {
	c, ok := g.cellCorners(i, j)
	if !ok {
		return false
	}
	v1, v2, v3 := g.atIndex(c[0]), g.atIndex(c[1]), g.atIndex(c[2])
	return v1.p.isSet && v1.uc.isSet && v1.vc.isSet &&
		v2.p.isSet && v2.vc.isSet &&
		v3.p.isSet && v3.uc.isSet
}

func (g *Grid) patch(i, j int, coords *[48]float64) bool {
	if !g.complete(i, j) {
		return false
	}
	c, _ := g.cellCorners(i, j)
	v1, v2, v3 := g.atIndex(c[0]), g.atIndex(c[1]), g.atIndex(c[2])
	set := func(col, row int, p path3.Point) {
		p.Coords(coords[:surface.Index(col, row)])
	}

	p1 := v1.p.unwrap()
	set(0, 0, p1)
	uc := v1.uc.unwrap()
	set(1, 0, uc[0])
	set(2, 0, uc[1])
	set(3, 0, uc[2])
	vc := v1.vc.unwrap()
	set(0, 1, vc[0])
	set(0, 2, vc[1])
	set(0, 3, vc[2])
	vc2 := v2.vc.unwrap()
	set(3, 1, vc2[0])
	set(3, 2, vc2[1])
	set(3, 3, vc2[2])
	uc3 := v3.uc.unwrap()
	set(1, 3, uc3[0])
	set(2, 3, uc3[1])

	if rest, ok := v1.rest.get(); ok {
		set(1, 1, rest[0])
		set(2, 1, rest[1])
		set(1, 2, rest[2])
		set(2, 2, rest[3])
	} else {
		surface.DefaultInterior(coords)
		for _, idx := range [4]int{surface.Index(1, 1), surface.Index(2, 1), surface.Index(1, 2), surface.Index(2, 2)} {
			path3.At(coords[:], idx).Quantize().Coords(coords[:idx])
		}
	}
	return true
}

// flat reports whether the corners of a cell lie in a plane.
func flat(v1, v2, v3, v4 path3.Point) bool {
	a := unit(v2.Sub(v1))
	b := unit(v3.Sub(v1))
	c := unit(v4.Sub(v1))
	return math.Abs(r3.Dot(a, r3.Cross(b, c))) < planarLimit
}

// Enumerator walks the filled, complete cells of a grid in order of
// increasing j*nu + i, i.e. with i varying fastest. Flat cells of linear
// grids are reported as two triangles, all other cells as cubic patches.
//
// The enumerator reads the grid's current control points; the grid must not
// be modified while it is in use.
type Enumerator struct {
	g       *Grid
	flip    bool
	aff     option[path3.Affine]
	index   int
	pending option[surface.Patch]
	cur     surface.Patch
	err     error
}

// NewEnumerator returns an enumerator positioned before the first cell.
func NewEnumerator(g *Grid) *Enumerator {
	e := &Enumerator{g: g}
	e.Reset()
	return e
}

// WithTransform makes the enumerator apply aff to every patch it returns.
func (e *Enumerator) WithTransform(aff path3.Affine) *Enumerator {
	e.aff.set(aff)
	return e
}

// Reset rewinds the enumerator. It recomputes control points if necessary
// and picks up the grid's current orientation.
func (e *Enumerator) Reset() {
	e.index = -1
	e.pending.clear()
	e.flip = e.g.flipped
	e.err = e.g.CreateSplines()
}

// Err returns the error that stopped the enumeration, if any.
func (e *Enumerator) Err() error { return e.err }

// Next advances to the next patch and reports whether there is one.
func (e *Enumerator) Next() bool {
	if e.err != nil {
		return false
	}
	if p, ok := e.pending.get(); ok {
		e.pending.clear()
		e.cur = p
		return true
	}
	g := e.g
	limit := g.nu * g.nv
	for e.index < limit {
		e.index++
		if e.index == limit {
			return false
		}
		i, j := e.index%g.nu, e.index/g.nu
		if !g.at(i, j).filled || !g.complete(i, j) {
			continue
		}
		e.emit(i, j)
		return true
	}
	return false
}

func (e *Enumerator) emit(i, j int) {
	g := e.g
	col := g.at(i, j).color
	finish := func(p surface.Patch) surface.Patch {
		if e.flip {
			p = surface.ReverseOrientation(p)
		}
		if aff, ok := e.aff.get(); ok {
			p = p.Transform(aff)
		}
		return p
	}

	if g.linear {
		c, _ := g.cellCorners(i, j)
		v1 := g.atIndex(c[0]).p.unwrap()
		v2 := g.atIndex(c[1]).p.unwrap()
		v3 := g.atIndex(c[2]).p.unwrap()
		v4 := g.atIndex(c[3]).p.unwrap()
		if flat(v1, v2, v3, v4) {
			e.cur = finish(surface.NewTriangle(v1, v4, v2, col))
			e.pending.set(finish(surface.NewTriangle(v1, v3, v4, col)))
			return
		}
	}
	p := surface.Patch{Kind: surface.CubicPatch, Color: col}
	g.patch(i, j, &p.Coords)
	e.cur = finish(p)
}

// Patch returns the current patch.
func (e *Enumerator) Patch() surface.Patch { return e.cur }

// Cell returns the indices of the cell that produced the current patch.
func (e *Enumerator) Cell() (i, j int) {
	return e.index % e.g.nu, e.index / e.g.nu
}

// Patches returns the surface's patches in the order of [Enumerator]. If
// control points cannot be computed the sequence is empty; use an
// [Enumerator] to observe the error.
func (g *Grid) Patches() iter.Seq[surface.Patch] {
	return g.patches(NewEnumerator(g))
}

// TransformedPatches is like [Grid.Patches] but applies aff to every patch.
func (g *Grid) TransformedPatches(aff path3.Affine) iter.Seq[surface.Patch] {
	return g.patches(NewEnumerator(g).WithTransform(aff))
}

func (g *Grid) patches(e *Enumerator) iter.Seq[surface.Patch] {
	return func(yield func(surface.Patch) bool) {
		e.Reset()
		for e.Next() {
			if !yield(e.Patch()) {
				return
			}
		}
	}
}

// Bounds returns the bounding box of the control points of all patches, or
// false if the surface is empty.
func (g *Grid) Bounds() (r3.Box, bool) {
	var box r3.Box
	first := true
	add := func(p path3.Point) {
		v := p.Vec()
		if first {
			box = r3.Box{Min: v, Max: v}
			first = false
			return
		}
		box.Min = r3.Vec{X: math.Min(box.Min.X, v.X), Y: math.Min(box.Min.Y, v.Y), Z: math.Min(box.Min.Z, v.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, v.X), Y: math.Max(box.Max.Y, v.Y), Z: math.Max(box.Max.Z, v.Z)}
	}
	for p := range g.Patches() {
		n := 16
		if p.Kind == surface.PlanarTriangle {
			n = 3
		}
		for k := range n {
			add(path3.At(p.Coords[:], 3*k))
		}
	}
	return box, !first
}
