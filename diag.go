package bezgrid

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"gopkg.in/yaml.v3"

	"honnef.co/go/bezgrid/path3"
)

// scratch returns a copy of g whose vertices can be modified without
// affecting g.
func (g *Grid) scratch() *Grid {
	w := *g
	w.verts = slices.Clone(g.verts)
	w.splineCyclic = slices.Clone(g.splineCyclic)
	return &w
}

// BadSplines checks the grid's control points for inconsistencies and
// describes every problem it finds on w, one per line. It reports whether
// any were found. A nil w only reports.
//
// Control points are computed on a copy of the grid, so BadSplines does not
// change the grid's state.
func (g *Grid) BadSplines(w io.Writer) bool {
	if w == nil {
		w = io.Discard
	}
	bad := false
	report := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\n", args...)
		bad = true
	}
	for j := range g.nv {
		for i := range g.nu {
			if p, ok := g.at(i, j).p.get(); ok && p.IsNaN() {
				report("vertex (%d, %d) has a NaN coordinate", i, j)
			}
		}
	}

	s := g.scratch()
	if err := s.CreateSplines(); err != nil {
		report("cannot compute control points: %v", err)
		return bad
	}
	check := func(uDir bool) {
		name, n, m, closed := "u", s.nu, s.nv, s.uClosed
		if !uDir {
			name, n, m, closed = "v", s.nv, s.nu, s.vClosed
		}
		for fixed := range m {
			for k := range n {
				idx := gridIndex{k, fixed}
				if !uDir {
					idx = gridIndex{fixed, k}
				}
				v := s.atIndex(idx)
				c := v.uc
				if !uDir {
					c = v.vc
				}
				nb, ok := s.next(idx.i, idx.j, uDir)
				if !ok {
					if !closed && c.isSet {
						report("vertex (%d, %d) has %s controls at the end of an open axis", idx.i, idx.j, name)
					}
					continue
				}
				if !v.p.isSet || !s.atIndex(nb).p.isSet {
					continue
				}
				ctl, ok := c.get()
				switch {
				case !ok:
					report("vertex (%d, %d) has no %s controls", idx.i, idx.j, name)
				case path3.CubicBez{P0: v.p.unwrap(), P1: ctl[0], P2: ctl[1], P3: ctl[2]}.IsNaN():
					report("%s controls of vertex (%d, %d) are NaN", name, idx.i, idx.j)
				case ctl[2] != s.atIndex(nb).p.unwrap():
					report("%s controls of vertex (%d, %d) do not end at (%d, %d)", name, idx.i, idx.j, nb.i, nb.j)
				}
			}
		}
	}
	check(true)
	check(false)
	return bad
}

// Print writes a description of the grid to w: whether each axis is closed,
// then one line per value of i listing the points, the controls present at
// each vertex and whether each cell is filled. Control points are computed
// on a copy of the grid.
func (g *Grid) Print(w io.Writer) error {
	s := g.scratch()
	if err := s.CreateSplines(); err != nil {
		return err
	}
	ew := &errWriter{w: w}
	ew.printf("uclosed = %v, vclosed = %v\n", s.uClosed, s.vClosed)
	section := func(title string, cell func(v *vertex) string) {
		ew.printf("%s\n", title)
		for i := range s.nu {
			for j := range s.nv {
				ew.printf(" %s", cell(s.at(i, j)))
			}
			ew.printf("\n")
		}
	}
	section("grid:", func(v *vertex) string {
		p, ok := v.p.get()
		if !ok {
			return "(null)"
		}
		return fmt.Sprintf("(%g,%g,%g)", p.X, p.Y, p.Z)
	})
	section("spline status:", func(v *vertex) string {
		u, vv := ' ', ' '
		if v.uc.isSet {
			u = 'u'
		}
		if v.vc.isSet {
			vv = 'v'
		}
		return fmt.Sprintf("(%c%c)", u, vv)
	})
	section("Filled status:", func(v *vertex) string {
		if v.filled {
			return "(F)"
		}
		return "( )"
	})
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// descriptorID returns the spline id of declared spline k. Ids are allocated
// for the generated splines first.
func (g *Grid) descriptorID(k int) int {
	return len(g.splineCyclic) - len(g.descriptors) + k
}

// PrintSplines writes one line per declared spline to w, giving its id,
// whether it is cyclic and the vertices it passes through. Stretches of
// three or more vertices along one axis are abbreviated as "first ... last".
func (g *Grid) PrintSplines(w io.Writer) error {
	if err := g.CreateSplines(); err != nil {
		return err
	}
	ew := &errWriter{w: w}
	for k, sd := range g.descriptors {
		kind := "not cyclic"
		if sd.cyclic {
			kind = "cyclic"
		}
		ew.printf("spline %d (%s): ", g.descriptorID(k), kind)
		pts := sd.points
		if len(pts) > 0 {
			ew.printf("(%d, %d)", pts[0].i, pts[0].j)
		}
		for a := 0; a+1 < len(pts); {
			sameI := pts[a].i == pts[a+1].i
			e := a + 1
			for e+1 < len(pts) && (pts[e+1].i == pts[a].i) == sameI && (pts[e+1].j == pts[a].j) != sameI {
				e++
			}
			sep := ", "
			if e-a >= 2 {
				sep = " ... "
			}
			ew.printf("%s(%d, %d)", sep, pts[e].i, pts[e].j)
			a = e
		}
		ew.printf("\n")
	}
	return ew.err
}

// TraceSplines logs every edge whose control points are computed to w, as
// text at debug level. It replaces the logger given in [Options]. A nil w
// turns tracing off.
func (g *Grid) TraceSplines(w io.Writer) {
	if w == nil {
		g.logger = nil
		return
	}
	g.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type summary struct {
	NU            int              `yaml:"nu"`
	NV            int              `yaml:"nv"`
	UClosed       bool             `yaml:"uclosed"`
	VClosed       bool             `yaml:"vclosed"`
	Linear        bool             `yaml:"linear"`
	Frozen        bool             `yaml:"frozen"`
	Reversed      bool             `yaml:"reversed"`
	Defined       int              `yaml:"defined"`
	Filled        int              `yaml:"filled"`
	Patches       int              `yaml:"patches"`
	Splines       int              `yaml:"splines"`
	CyclicSplines int              `yaml:"cyclic_splines"`
	Declared      []declaredSpline `yaml:"declared,omitempty"`
	Bounds        *boxSummary      `yaml:"bounds,omitempty"`
}

type declaredSpline struct {
	ID     int      `yaml:"id"`
	Cyclic bool     `yaml:"cyclic"`
	Points [][2]int `yaml:"points,flow"`
}

type boxSummary struct {
	Min [3]float64 `yaml:"min,flow"`
	Max [3]float64 `yaml:"max,flow"`
}

// WriteSummary writes a YAML document describing the grid to w: its shape
// and flags, how many vertices are defined and filled, how many patches and
// splines it has, the declared splines and the bounding box of the surface.
func (g *Grid) WriteSummary(w io.Writer) error {
	if err := g.CreateSplines(); err != nil {
		return err
	}
	s := summary{
		NU:       g.nu,
		NV:       g.nv,
		UClosed:  g.uClosed,
		VClosed:  g.vClosed,
		Linear:   g.linear,
		Frozen:   g.frozen,
		Reversed: g.flipped,
		Splines:  len(g.splineCyclic),
	}
	for k := range g.verts {
		if g.verts[k].p.isSet {
			s.Defined++
		}
		if g.verts[k].filled {
			s.Filled++
		}
	}
	for _, cyclic := range g.splineCyclic {
		if cyclic {
			s.CyclicSplines++
		}
	}
	for range g.Patches() {
		s.Patches++
	}
	for k, sd := range g.descriptors {
		d := declaredSpline{ID: g.descriptorID(k), Cyclic: sd.cyclic}
		for _, idx := range sd.points {
			d.Points = append(d.Points, [2]int{idx.i, idx.j})
		}
		s.Declared = append(s.Declared, d)
	}
	if box, ok := g.Bounds(); ok {
		s.Bounds = &boxSummary{
			Min: [3]float64{box.Min.X, box.Min.Y, box.Min.Z},
			Max: [3]float64{box.Max.X, box.Max.Y, box.Max.Z},
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
