package path3

import (
	"fmt"
	"iter"
	"slices"
)

type PathElementKind int

const (
	// Move directly to the point without drawing anything, starting a new
	// subpath.
	MoveToKind PathElementKind = iota + 1
	// Draw a line from the current location to the point.
	LineToKind
	// Draw a quadratic bezier using the current location and the two points.
	QuadToKind
	// Draw a cubic bezier using the current location and the three points.
	CubicToKind
	// Close off the path.
	ClosePathKind
)

// PathElement is the element of a Bézier path.
//
// A valid path has MoveTo at the beginning of each subpath.
type PathElement struct {
	Kind PathElementKind
	P0   Point
	P1   Point
	P2   Point
}

func (el PathElement) String() string {
	var kind string
	switch el.Kind {
	case MoveToKind:
		kind = "MoveTo"
	case LineToKind:
		kind = "LineTo"
	case QuadToKind:
		kind = "QuadTo"
	case CubicToKind:
		kind = "CubicTo"
	case ClosePathKind:
		kind = "ClosePath"
	default:
		kind = "InvalidPathElement"
	}
	return fmt.Sprintf("%s(%s, %s, %s)", kind, el.P0, el.P1, el.P2)
}

func (el PathElement) IsNaN() bool {
	return el.P0.IsNaN() ||
		el.P1.IsNaN() ||
		el.P2.IsNaN()
}

// EndPoint returns the end point of the path element, or false if none exists. It exists
// for all kinds except for [ClosePathKind].
func (el PathElement) EndPoint() (Point, bool) {
	switch el.Kind {
	case MoveToKind:
		return el.P0, true
	case LineToKind:
		return el.P0, true
	case QuadToKind:
		return el.P1, true
	case CubicToKind:
		return el.P2, true
	default:
		return Point{}, false
	}
}

func MoveTo(pt Point) PathElement {
	return PathElement{Kind: MoveToKind, P0: pt}
}

func LineTo(pt Point) PathElement {
	return PathElement{Kind: LineToKind, P0: pt}
}

func QuadTo(p0, p1 Point) PathElement {
	return PathElement{Kind: QuadToKind, P0: p0, P1: p1}
}

func CubicTo(p0, p1, p2 Point) PathElement {
	return PathElement{Kind: CubicToKind, P0: p0, P1: p1, P2: p2}
}

func ClosePath() PathElement {
	return PathElement{Kind: ClosePathKind}
}

type PathSegmentKind int

const (
	// A line segment.
	LineKind PathSegmentKind = iota + 1
	// A quadratic Bézier segment.
	QuadKind
	// A cubic Bézier segment.
	CubicKind
)

// PathSegment represents a segment of a Bézier path. This type acts as a sort of tagged
// union of [Line], [QuadBez], and [CubicBez].
type PathSegment struct {
	Kind PathSegmentKind
	P0   Point
	P1   Point
	P2   Point
	P3   Point
}

func (seg PathSegment) Line() Line { return Line{seg.P0, seg.P1} }

func (seg PathSegment) Quad() QuadBez { return QuadBez{seg.P0, seg.P1, seg.P2} }

// Cubic returns the segment as a cubic Bézier. Lines and quadratics are
// raised, see [Line.Cubic] and [QuadBez.Raise].
func (seg PathSegment) Cubic() CubicBez {
	switch seg.Kind {
	case LineKind:
		return seg.Line().Cubic()
	case QuadKind:
		return seg.Quad().Raise()
	case CubicKind:
		return CubicBez{seg.P0, seg.P1, seg.P2, seg.P3}
	default:
		panic(fmt.Sprintf("invalid segment kind %d", seg.Kind))
	}
}

func (seg PathSegment) End() Point {
	switch seg.Kind {
	case LineKind:
		return seg.P1
	case QuadKind:
		return seg.P2
	case CubicKind:
		return seg.P3
	default:
		panic(fmt.Sprintf("invalid segment kind %d", seg.Kind))
	}
}

// IsDegenerate reports whether all of the segment's points coincide.
func (seg PathSegment) IsDegenerate() bool {
	switch seg.Kind {
	case LineKind:
		return seg.P0 == seg.P1
	case QuadKind:
		return seg.P0 == seg.P1 && seg.P1 == seg.P2
	case CubicKind:
		return seg.P0 == seg.P1 && seg.P1 == seg.P2 && seg.P2 == seg.P3
	default:
		panic(fmt.Sprintf("invalid segment kind %d", seg.Kind))
	}
}

// BezPath is a Bézier path in 3D space, a sequence of path elements.
// Boundaries of patch quilts and the cross-sections used for extrusion are
// represented this way.
type BezPath []PathElement

// Push adds an element to the path.
func (p *BezPath) Push(el PathElement) {
	*p = append(*p, el)
}

// MoveTo pushes a "move to" element onto the path.
func (p *BezPath) MoveTo(pt Point) { p.Push(MoveTo(pt)) }

// LineTo pushes a "line to" element onto the path.
func (p *BezPath) LineTo(pt Point) { p.Push(LineTo(pt)) }

// QuadTo pushes a "quad to" element onto the path.
func (p *BezPath) QuadTo(p1, p2 Point) { p.Push(QuadTo(p1, p2)) }

// CubicTo pushes a "curve to" element onto the path.
func (p *BezPath) CubicTo(p1, p2, p3 Point) { p.Push(CubicTo(p1, p2, p3)) }

// ClosePath pushes a "close path" element onto the path.
func (p *BezPath) ClosePath() { p.Push(ClosePath()) }

// Segments returns an iterator over the path's segments.
func (p BezPath) Segments() iter.Seq[PathSegment] { return Segments(slices.Values(p)) }

// Subpaths splits the path at every MoveTo.
func (p BezPath) Subpaths() iter.Seq[BezPath] {
	return func(yield func(BezPath) bool) {
		start := 0
		for i := 1; i <= len(p); i++ {
			if i == len(p) || p[i].Kind == MoveToKind {
				if i > start && !yield(p[start:i]) {
					return
				}
				start = i
			}
		}
	}
}

// IsClosed reports whether the first subpath ends with ClosePath.
func (p BezPath) IsClosed() bool {
	for i, el := range p {
		if el.Kind == MoveToKind && i > 0 {
			return false
		}
		if el.Kind == ClosePathKind {
			return true
		}
	}
	return false
}

// DrawableKnots returns the number of knots of the first subpath that carry
// a segment end: one per drawable segment, plus the starting point for open
// paths. A ClosePath only counts when it draws a line of non-zero length.
func (p BezPath) DrawableKnots() int {
	var n int
	var sub BezPath
	for sp := range p.Subpaths() {
		sub = sp
		break
	}
	for range Segments(slices.Values(sub)) {
		n++
	}
	if !sub.IsClosed() && n > 0 {
		n++
	}
	return n
}

func (p BezPath) IsNaN() bool {
	for _, el := range p {
		if el.IsNaN() {
			return true
		}
	}
	return false
}

// Segments converts a sequence of path elements to a sequence of path segments.
// A ClosePath yields the closing line unless the subpath already ends at its
// start.
func Segments(seq iter.Seq[PathElement]) iter.Seq[PathSegment] {
	return func(yield func(PathSegment) bool) {
		first := true
		var start, last Point
		for el := range seq {
			if first {
				first = false
				if el.Kind == ClosePathKind {
					panic("first path element mustn't be ClosePath")
				}
				start, _ = el.EndPoint()
				last = start
			}

			switch el.Kind {
			case MoveToKind:
				start = el.P0
				last = el.P0
			case LineToKind:
				p := last
				last = el.P0
				if !yield(Line{p, el.P0}.Seg()) {
					return
				}
			case QuadToKind:
				p := last
				last = el.P1
				if !yield(QuadBez{p, el.P0, el.P1}.Seg()) {
					return
				}
			case CubicToKind:
				p := last
				last = el.P2
				if !yield(CubicBez{p, el.P0, el.P1, el.P2}.Seg()) {
					return
				}
			case ClosePathKind:
				if last != start {
					p := last
					last = start
					if !yield(Line{p, start}.Seg()) {
						return
					}
				}
			default:
				panic(fmt.Sprintf("unhandled case %v", el.Kind))
			}
		}
	}
}
