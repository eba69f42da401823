package surface

import (
	"math"

	"seehuhn.de/go/geom/path"

	"glasscockpit/internal/geom"
)

// arcSegmentsPerTurn sets how finely arcs are flattened.
const arcSegmentsPerTurn = 96

// Subpath is a polyline in device space.
type Subpath struct {
	Points []geom.Point
	Closed bool
}

// Path is a list of device-space subpaths. Implementations transform
// points into device space as they are added, so a later change of
// transform does not move geometry already in the path.
type Path struct {
	Subpaths []Subpath
}

func (p *Path) Reset() {
	p.Subpaths = p.Subpaths[:0]
}

// Empty reports whether the path has no points.
func (p *Path) Empty() bool {
	for _, sp := range p.Subpaths {
		if len(sp.Points) > 0 {
			return false
		}
	}
	return true
}

func (p *Path) MoveTo(pt geom.Point) {
	p.Subpaths = append(p.Subpaths, Subpath{Points: []geom.Point{pt}})
}

// LineTo extends the current subpath. After Close, a new subpath starts
// at the closed subpath's first point.
func (p *Path) LineTo(pt geom.Point) {
	n := len(p.Subpaths)
	if n == 0 {
		p.MoveTo(pt)
		return
	}
	last := &p.Subpaths[n-1]
	if last.Closed {
		p.Subpaths = append(p.Subpaths, Subpath{Points: []geom.Point{last.Points[0], pt}})
		return
	}
	last.Points = append(last.Points, pt)
}

func (p *Path) Close() {
	if n := len(p.Subpaths); n > 0 && len(p.Subpaths[n-1].Points) > 0 {
		p.Subpaths[n-1].Closed = true
	}
}

// Connect joins pts to the path: a line from the current point to the
// first of them, or a new subpath when there is no current point.
func (p *Path) Connect(pts []geom.Point) {
	if len(pts) == 0 {
		return
	}
	if p.Empty() {
		p.MoveTo(pts[0])
	} else {
		p.LineTo(pts[0])
	}
	for _, pt := range pts[1:] {
		p.LineTo(pt)
	}
}

// Data returns the path as a command stream.
func (p *Path) Data() *path.Data {
	d := &path.Data{}
	for _, sp := range p.Subpaths {
		if len(sp.Points) == 0 {
			continue
		}
		d.Cmds = append(d.Cmds, path.CmdMoveTo)
		d.Coords = append(d.Coords, sp.Points[0])
		for _, pt := range sp.Points[1:] {
			d.Cmds = append(d.Cmds, path.CmdLineTo)
			d.Coords = append(d.Coords, pt)
		}
		if sp.Closed {
			d.Cmds = append(d.Cmds, path.CmdClose)
		}
	}
	return d
}

// Bounds returns the bounding box of every point in the path.
func (p *Path) Bounds() (lo, hi geom.Point, ok bool) {
	for _, sp := range p.Subpaths {
		for _, pt := range sp.Points {
			if !ok {
				lo, hi, ok = pt, pt, true
				continue
			}
			lo.X, lo.Y = math.Min(lo.X, pt.X), math.Min(lo.Y, pt.Y)
			hi.X, hi.Y = math.Max(hi.X, pt.X), math.Max(hi.Y, pt.Y)
		}
	}
	return
}

// ArcSweep returns the signed angle an arc covers, following canvas
// rules: a clockwise sweep of 2π or more is a full turn, otherwise the
// difference wraps into one turn in the drawing direction.
func ArcSweep(start, end float64, ccw bool) float64 {
	if !ccw {
		if end-start >= geom.TwoPi {
			return geom.TwoPi
		}
		return geom.NormalizeAngle(end - start)
	}
	if start-end >= geom.TwoPi {
		return -geom.TwoPi
	}
	return -geom.NormalizeAngle(start - end)
}

// EllipsePoints flattens an elliptical arc into user-space points,
// endpoints included.
func EllipsePoints(cx, cy, rx, ry, rotation, start, end float64, ccw bool) []geom.Point {
	sweep := ArcSweep(start, end, ccw)
	n := int(math.Ceil(math.Abs(sweep) / (geom.TwoPi / arcSegmentsPerTurn)))
	if n < 1 {
		n = 1
	}
	rs, rc := math.Sincos(rotation)
	pts := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		s, c := math.Sincos(start + sweep*float64(i)/float64(n))
		x, y := rx*c, ry*s
		pts = append(pts, geom.Point{X: cx + x*rc - y*rs, Y: cy + x*rs + y*rc})
	}
	return pts
}

// RectPoints returns the corners of a rectangle in drawing order.
func RectPoints(x, y, w, h float64) []geom.Point {
	return []geom.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
}

// Dash splits the path into the "on" runs of a dash pattern. An odd
// pattern is repeated to make it even. Patterns with a negative entry
// or no positive length leave the path undashed.
func (p *Path) Dash(pattern []float64, offset float64) Path {
	if len(pattern) == 0 {
		return *p
	}
	var total float64
	for _, d := range pattern {
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return *p
		}
		total += d
	}
	if total <= 0 {
		return *p
	}
	if len(pattern)%2 == 1 {
		pattern = append(append([]float64(nil), pattern...), pattern...)
		total *= 2
	}

	var out Path
	for _, sp := range p.Subpaths {
		pts := sp.Points
		if len(pts) < 2 {
			continue
		}
		if sp.Closed {
			pts = append(append([]geom.Point(nil), pts...), pts[0])
		}

		idx, remain := 0, pattern[0]
		off := math.Mod(offset, total)
		if off < 0 {
			off += total
		}
		for off > 0 {
			if off >= remain {
				off -= remain
				idx = (idx + 1) % len(pattern)
				remain = pattern[idx]
			} else {
				remain -= off
				off = 0
			}
		}

		var run []geom.Point
		if idx%2 == 0 {
			run = []geom.Point{pts[0]}
		}
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1], pts[i]
			d := b.Sub(a)
			seg := d.Length()
			pos := 0.0
			for seg-pos > remain {
				pos += remain
				q := a.Add(d.Mul(pos / seg))
				if idx%2 == 0 {
					run = append(run, q)
					out.Subpaths = append(out.Subpaths, Subpath{Points: run})
					run = nil
				} else {
					run = []geom.Point{q}
				}
				idx = (idx + 1) % len(pattern)
				remain = pattern[idx]
			}
			remain -= seg - pos
			if idx%2 == 0 {
				run = append(run, b)
			}
		}
		if idx%2 == 0 && len(run) > 1 {
			out.Subpaths = append(out.Subpaths, Subpath{Points: run})
		}
	}
	return out
}
