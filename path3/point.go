package path3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a location in 3D space. It converts freely to and from [r3.Vec],
// which is used for displacements.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Pt returns the point (x, y, z).
func Pt(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", pt.X, pt.Y, pt.Z)
}

// Vec returns the position vector of the point.
func (pt Point) Vec() r3.Vec {
	return r3.Vec(pt)
}

func (pt Point) Translate(o r3.Vec) Point {
	return Point(r3.Add(r3.Vec(pt), o))
}

func (pt Point) Transform(aff Affine) Point {
	return Point{
		X: aff.N0*pt.X + aff.N3*pt.Y + aff.N6*pt.Z + aff.N9,
		Y: aff.N1*pt.X + aff.N4*pt.Y + aff.N7*pt.Z + aff.N10,
		Z: aff.N2*pt.X + aff.N5*pt.Y + aff.N8*pt.Z + aff.N11,
	}
}

// Sub computes p−o.
// To subtract a vector from p, use Translate and negate the vector.
func (pt Point) Sub(o Point) r3.Vec {
	return r3.Sub(r3.Vec(pt), r3.Vec(o))
}

// Midpoint returns the midpoint of two points.
func (pt Point) Midpoint(o Point) Point {
	return Point{
		X: 0.5 * (pt.X + o.X),
		Y: 0.5 * (pt.Y + o.Y),
		Z: 0.5 * (pt.Z + o.Z),
	}
}

// Quantize rounds every coordinate to single precision and widens it back.
// Points that were computed independently but describe the same location
// compare equal once quantized.
func (pt Point) Quantize() Point {
	return Point{
		X: float64(float32(pt.X)),
		Y: float64(float32(pt.Y)),
		Z: float64(float32(pt.Z)),
	}
}

// IsNaN reports whether at least one of x, y and z is NaN.
func (pt Point) IsNaN() bool {
	return math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsNaN(pt.Z)
}

// Coords appends the point's coordinates to dst.
func (pt Point) Coords(dst []float64) []float64 {
	return append(dst, pt.X, pt.Y, pt.Z)
}

// At returns the point stored at coords[off:off+3].
func At(coords []float64, off int) Point {
	return Point{X: coords[off], Y: coords[off+1], Z: coords[off+2]}
}
