package path3

import "gonum.org/v1/gonum/spatial/r3"

// Affine describes a 3D affine transform via coefficients.
//
// The coefficients (N0, …, N11) represent this augmented matrix, stored
// column by column:
//
//	| N0 N3 N6 N9  |
//	| N1 N4 N7 N10 |
//	| N2 N5 N8 N11 |
//	| 0  0  0  1   |
type Affine struct {
	N0, N1, N2, N3, N4, N5, N6, N7, N8, N9, N10, N11 float64
}

// Translate creates an affine transform representing translation.
func Translate(v r3.Vec) Affine {
	return Affine{1, 0, 0, 0, 1, 0, 0, 0, 1, v.X, v.Y, v.Z}
}

// Frame creates the transform that maps the origin to origin, the x axis to
// x, the y axis to y and the z axis to x × y. With orthonormal x and y this
// places a local coordinate system at origin.
func Frame(origin Point, x, y r3.Vec) Affine {
	z := r3.Cross(x, y)
	return Affine{
		x.X, x.Y, x.Z,
		y.X, y.Y, y.Z,
		z.X, z.Y, z.Z,
		origin.X, origin.Y, origin.Z,
	}
}
