// Package surface holds the output records of a patch quilt: bicubic Bézier
// patches and planar triangles, plus the operations that only need the
// records themselves, such as default interior control points, orientation
// reversal and boundary extraction.
//
// Control points of a patch are stored row-major in a flat array. Point
// (col, row) starts at Coords[3*(4*row+col)]; col runs along the patch's u
// direction and row along its v direction.
package surface

import (
	"fmt"
	"image/color"

	"honnef.co/go/bezgrid/path3"
)

type Kind int

const (
	// A bicubic Bézier patch with 16 control points.
	CubicPatch Kind = iota + 1
	// A flat triangle. Only the first 9 coordinates are used.
	PlanarTriangle
)

func (k Kind) String() string {
	switch k {
	case CubicPatch:
		return "CubicPatch"
	case PlanarTriangle:
		return "PlanarTriangle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Patch is one element of a surface.
type Patch struct {
	Kind   Kind
	Coords [48]float64
	// Color is an opaque tag copied from the cell that produced the patch. It
	// may be nil.
	Color color.Color
}

// Index returns the offset of control point (col, row) in Coords.
func Index(col, row int) int {
	return 3 * (4*row + col)
}

// Point returns control point (col, row) of a cubic patch.
func (p *Patch) Point(col, row int) path3.Point {
	return path3.At(p.Coords[:], Index(col, row))
}

// Vertex returns corner k of a triangle.
func (p *Patch) Vertex(k int) path3.Point {
	return path3.At(p.Coords[:], 3*k)
}

// NewTriangle returns a triangle with the given corners.
func NewTriangle(a, b, c path3.Point, col color.Color) Patch {
	p := Patch{Kind: PlanarTriangle, Color: col}
	a.Coords(p.Coords[:0])
	b.Coords(p.Coords[:3])
	c.Coords(p.Coords[:6])
	return p
}

// Eval evaluates a cubic patch at (u, v), or the triangle at barycentric
// coordinates (1-u-v, u, v).
func (p *Patch) Eval(u, v float64) path3.Point {
	if p.Kind == PlanarTriangle {
		a, b, c := p.Vertex(0), p.Vertex(1), p.Vertex(2)
		w := 1 - u - v
		return path3.Pt(
			w*a.X+u*b.X+v*c.X,
			w*a.Y+u*b.Y+v*c.Y,
			w*a.Z+u*b.Z+v*c.Z,
		)
	}
	var rows [4]path3.Point
	for row := range 4 {
		rows[row] = path3.CubicBez{
			P0: p.Point(0, row),
			P1: p.Point(1, row),
			P2: p.Point(2, row),
			P3: p.Point(3, row),
		}.Eval(u)
	}
	return path3.CubicBez{P0: rows[0], P1: rows[1], P2: rows[2], P3: rows[3]}.Eval(v)
}

func (p Patch) Transform(aff path3.Affine) Patch {
	n := 16
	if p.Kind == PlanarTriangle {
		n = 3
	}
	for k := range n {
		path3.At(p.Coords[:], 3*k).Transform(aff).Coords(p.Coords[:3*k])
	}
	return p
}

// DefaultInterior fills in the four interior control points of a cubic patch
// from its twelve boundary control points, in place. The result reproduces
// bilinear and other low order surfaces exactly; callers that need
// reproducible values should quantize the written points.
func DefaultInterior(coords *[48]float64) {
	pt := func(col, row int) path3.Point { return path3.At(coords[:], Index(col, row)) }
	p00, p10, p20, p30 := pt(0, 0), pt(1, 0), pt(2, 0), pt(3, 0)
	p01, p31 := pt(0, 1), pt(3, 1)
	p02, p32 := pt(0, 2), pt(3, 2)
	p03, p13, p23, p33 := pt(0, 3), pt(1, 3), pt(2, 3), pt(3, 3)

	comb := func(c4, a6, b6, a2, b2, a3, b3, c1 path3.Point) path3.Point {
		f := func(c4, a6, b6, a2, b2, a3, b3, c1 float64) float64 {
			return (-4*c4 + 6*(a6+b6) - 2*(a2+b2) + 3*(a3+b3) - c1) / 9
		}
		return path3.Pt(
			f(c4.X, a6.X, b6.X, a2.X, b2.X, a3.X, b3.X, c1.X),
			f(c4.Y, a6.Y, b6.Y, a2.Y, b2.Y, a3.Y, b3.Y, c1.Y),
			f(c4.Z, a6.Z, b6.Z, a2.Z, b2.Z, a3.Z, b3.Z, c1.Z),
		)
	}

	p11 := comb(p00, p01, p10, p03, p30, p31, p13, p33)
	p21 := comb(p30, p20, p31, p00, p33, p01, p23, p03)
	p12 := comb(p03, p02, p13, p00, p33, p10, p32, p30)
	p22 := comb(p33, p23, p32, p03, p30, p02, p20, p00)

	p11.Coords(coords[:Index(1, 1)])
	p21.Coords(coords[:Index(2, 1)])
	p12.Coords(coords[:Index(1, 2)])
	p22.Coords(coords[:Index(2, 2)])
}

// ReverseOrientation returns the patch with its orientation reversed: cubic
// patches are transposed, swapping their u and v directions, and triangles
// swap their second and third corners.
func ReverseOrientation(p Patch) Patch {
	out := p
	switch p.Kind {
	case PlanarTriangle:
		copy(out.Coords[3:6], p.Coords[6:9])
		copy(out.Coords[6:9], p.Coords[3:6])
	default:
		for row := range 4 {
			for col := range 4 {
				copy(out.Coords[Index(col, row):Index(col, row)+3], p.Coords[Index(row, col):Index(row, col)+3])
			}
		}
	}
	return out
}
