// Package bezgrid builds surfaces out of bicubic Bézier patches from a
// rectangular grid of points. The user supplies the points; the package
// derives the control points of every patch by fitting splines through the
// rows and columns of the grid.
//
// # Grids
//
// A [Grid] has nu×nv vertices indexed by (i, j). Moving along i is the u
// direction, moving along j the v direction. Either direction may be closed,
// in which case the last vertex connects back to the first one. The cell
// whose lowest corner is (i, j) becomes one patch of the surface when all
// four of its corners are defined and it is filled.
//
// Vertices may be left undefined and cells may be removed, which allows for
// surfaces with holes and irregular outlines. Vertices also carry a region:
// splines never pass smoothly from one region into another, which gives the
// surface creases where regions meet. In a linear grid every vertex has its
// own region, so all edges are straight, and flat cells are reported as
// pairs of triangles.
//
// # Control points
//
// Control points are computed lazily by [Grid.CreateSplines] and recomputed
// after edits. Each maximal run of defined points in one region along a grid
// line is interpolated by a cubic spline, see package
// [honnef.co/go/bezgrid/spline]. Splines that do not follow a single grid line
// can be declared with [Grid.StartSpline], [Grid.MoveU], [Grid.MoveV] and
// [Grid.EndSpline]. Control points may also be set directly, for instance
// with [Grid.SetSplineU] or [Grid.SetPatch]; doing so freezes the grid,
// after which its points can no longer be changed.
//
// All coordinates are rounded to single precision when they are stored, so
// that the edge shared by two patches has bit-identical control points in
// both of them. This is what allows [Grid.Boundary] to pair up edges
// exactly.
//
// # Patches and boundaries
//
// [Grid.Patches] and [Enumerator] produce the surface as a sequence of
// [surface.Patch] values. [Grid.Boundary] returns the edges that belong to
// exactly one patch as closed loops, and [Grid.ConnectionsTo] builds grids
// that bridge the boundary of one grid to the boundary of another, for
// example to join the top and bottom of a solid. [Grid.ExtensionGrid],
// [NewExtruded] and [WireMapper] derive new grids by mapping curves through a
// [PointMapper].
package bezgrid
