package bezgrid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/bezgrid/path3"
)

const (
	// kinkLimit bounds the cross product of the unit tangents on either
	// side of a knot of a wire.
	kinkLimit = 1e-10
	// normalJumpLimit bounds each component of the cross product of the
	// unit normals on either side of a knot before a new region starts.
	normalJumpLimit = 0.01
)

type wireMapper struct {
	frames  []path3.Affine
	regions []int
	closed  bool
}

func (m *wireMapper) MapPoint(i int, p path3.Point, _ PointKind, _, _ path3.Point) path3.Point {
	return p.Transform(m.frames[i])
}

func (m *wireMapper) Len() int         { return len(m.frames) }
func (m *wireMapper) Closed() bool     { return m.closed }
func (m *wireMapper) Region(i int) int { return m.regions[i] }

func unit(v r3.Vec) r3.Vec {
	if n := r3.Norm(v); n != 0 {
		return r3.Scale(1/n, v)
	}
	return v
}

// perpendicular returns the unit component of n orthogonal to the unit
// vector t.
func perpendicular(n, t r3.Vec) r3.Vec {
	return unit(r3.Cross(t, r3.Cross(n, t)))
}

func exceeds(v r3.Vec, limit float64) bool {
	return math.Abs(v.X) > limit || math.Abs(v.Y) > limit || math.Abs(v.Z) > limit
}

// WireMapper returns a [Mapper] that places a cross-section at every knot of
// the first subpath of wire. At knot i, the cross-section's x axis is mapped
// to the wire's normal, its y axis to the binormal and its z axis runs
// against the tangent; the origin is mapped to the knot.
//
// The normal at the first knot is the curve's principal normal. If normal
// is not nil it is used instead, after removing its component along the
// tangent; it is required when the wire starts with a straight segment. At
// later knots the previous normal is carried over, made orthogonal to the
// new tangent, so that cross-sections do not twist.
//
// Straight segments get a region of their own, as do curved stretches
// separated by a jump of the principal normal. The wire must be smooth:
// knots where the tangent changes direction are an error wrapping
// [ErrState]. For a closed wire this includes the knot where the last
// segment meets the first.
func WireMapper(wire path3.BezPath, normal *r3.Vec) (Mapper, error) {
	var sub path3.BezPath
	for sp := range wire.Subpaths() {
		sub = sp
		break
	}
	if sub.IsNaN() {
		return nil, fmt.Errorf("%w: wire has a NaN coordinate", ErrState)
	}
	var segs []path3.PathSegment
	for seg := range sub.Segments() {
		if !seg.IsDegenerate() {
			segs = append(segs, seg)
		}
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: wire has no segments", ErrState)
	}
	m := &wireMapper{closed: sub.IsClosed()}

	first := segs[0].Cubic()
	t0, _ := first.Tangents()
	t0 = unit(t0)
	var n r3.Vec
	switch {
	case normal != nil:
		if r3.Norm(r3.Cross(unit(*normal), t0)) < kinkLimit {
			return nil, fmt.Errorf("%w: normal %v is parallel to the wire's tangent", ErrState, *normal)
		}
		n = perpendicular(*normal, t0)
	case r3.Norm(first.Normal(0)) > 0:
		n = unit(first.Normal(0))
	default:
		return nil, fmt.Errorf("%w: wire starts straight and no normal was given", ErrState)
	}

	addFrame := func(origin path3.Point, t r3.Vec, region int) {
		n = perpendicular(n, t)
		b := r3.Cross(n, t)
		m.frames = append(m.frames, path3.Frame(origin, n, b))
		m.regions = append(m.regions, region)
	}

	region := 0
	var firstT, prevT, prevN r3.Vec
	hasPrevN := false
	for k, seg := range segs {
		c := seg.Cubic()
		ts, te := c.Tangents()
		ts, te = unit(ts), unit(te)
		if k == 0 {
			firstT = ts
		} else if exceeds(r3.Cross(prevT, ts), kinkLimit) {
			return nil, fmt.Errorf("%w: wire has a kink at knot %d", ErrState, k)
		}
		if seg.Kind == path3.LineKind || c.IsStraight() {
			region++
			addFrame(c.P0, ts, region)
			region++
			hasPrevN = false
		} else {
			ns := unit(c.Normal(0))
			if hasPrevN && exceeds(r3.Cross(ns, prevN), normalJumpLimit) {
				region++
			}
			addFrame(c.P0, ts, region)
			prevN = unit(c.Normal(1))
			hasPrevN = r3.Norm(prevN) > 0
		}
		prevT = te
	}
	if m.closed {
		// the seam between the last segment and the first
		if exceeds(r3.Cross(prevT, firstT), kinkLimit) {
			return nil, fmt.Errorf("%w: wire has a kink at knot 0", ErrState)
		}
	} else {
		addFrame(segs[len(segs)-1].End(), prevT, region)
	}
	return m, nil
}
