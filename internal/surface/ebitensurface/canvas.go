// Package ebitensurface implements surface.Surface on an ebiten image.
//
// Paths are flattened into device space as they are built and tessellated
// with the vector package on Stroke and Fill. Clipping is rectangular and
// uses sub-images. Text is drawn with text/v2 at device resolution, so
// glyphs stay sharp under any scale in the current transform.
package ebitensurface

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"seehuhn.de/go/geom/path"

	"glasscockpit/internal/geom"
	"glasscockpit/internal/surface"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

type state struct {
	style   surface.Style
	geoM    ebiten.GeoM
	hasClip bool
	clip    image.Rectangle
}

// Canvas draws onto an ebiten image. It is not safe for concurrent use;
// one Canvas is reused across frames with Reset.
type Canvas struct {
	dst   *ebiten.Image
	cur   state
	stack []state
	path  surface.Path
	fonts *fonts

	vs []ebiten.Vertex
	is []uint16
}

var _ surface.Surface = (*Canvas)(nil)

// New returns a canvas drawing to dst, which may be nil until the first
// Reset.
func New(dst *ebiten.Image) (*Canvas, error) {
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	c := &Canvas{fonts: f}
	c.Reset(dst)
	return c, nil
}

// Reset points the canvas at dst and clears all state.
func (c *Canvas) Reset(dst *ebiten.Image) {
	c.dst = dst
	c.cur = state{style: surface.DefaultStyle()}
	c.stack = c.stack[:0]
	c.path.Reset()
}

func (c *Canvas) Style() surface.Style {
	return c.cur.style.Clone()
}

func (c *Canvas) SetStyle(s surface.Style) {
	c.cur.style = s.Clone()
}

func (c *Canvas) SetStrokeColor(col color.Color) {
	c.cur.style.StrokeColor = surface.NRGBA(col)
}

func (c *Canvas) SetFillColor(col color.Color) {
	c.cur.style.FillColor = surface.NRGBA(col)
	c.cur.style.FillGradient = nil
}

func (c *Canvas) SetFillGradient(g *surface.LinearGradient) {
	c.cur.style.FillGradient = g
}

func (c *Canvas) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) {
		c.cur.style.LineWidth = w
	}
}

func (c *Canvas) SetLineCap(lc surface.LineCap)   { c.cur.style.LineCap = lc }
func (c *Canvas) SetLineJoin(lj surface.LineJoin) { c.cur.style.LineJoin = lj }

func (c *Canvas) SetLineDash(dash []float64, offset float64) {
	c.cur.style.LineDash = append([]float64(nil), dash...)
	c.cur.style.LineDashOffset = offset
}

func (c *Canvas) SetFont(f surface.Font)                 { c.cur.style.Font = f }
func (c *Canvas) SetTextAlign(a surface.TextAlign)       { c.cur.style.TextAlign = a }
func (c *Canvas) SetTextBaseline(b surface.TextBaseline) { c.cur.style.TextBaseline = b }

func (c *Canvas) Save() {
	saved := c.cur
	saved.style = saved.style.Clone()
	c.stack = append(c.stack, saved)
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// premultiply puts m before the current transform, so it acts in user
// space.
func (c *Canvas) premultiply(m ebiten.GeoM) {
	m.Concat(c.cur.geoM)
	c.cur.geoM = m
}

func (c *Canvas) Translate(x, y float64) {
	var m ebiten.GeoM
	m.Translate(x, y)
	c.premultiply(m)
}

func (c *Canvas) Rotate(angle float64) {
	var m ebiten.GeoM
	m.Rotate(angle)
	c.premultiply(m)
}

func (c *Canvas) Scale(sx, sy float64) {
	var m ebiten.GeoM
	m.Scale(sx, sy)
	c.premultiply(m)
}

// linearScale is how much the current transform scales lengths.
func (c *Canvas) linearScale() float64 {
	g := c.cur.geoM
	return math.Sqrt(math.Abs(g.Element(0, 0)*g.Element(1, 1) - g.Element(0, 1)*g.Element(1, 0)))
}

func (c *Canvas) device(x, y float64) geom.Point {
	dx, dy := c.cur.geoM.Apply(x, y)
	return geom.Point{X: dx, Y: dy}
}

func (c *Canvas) BeginPath() {
	c.path.Reset()
}

func (c *Canvas) MoveTo(x, y float64) {
	c.path.MoveTo(c.device(x, y))
}

func (c *Canvas) LineTo(x, y float64) {
	c.path.LineTo(c.device(x, y))
}

func (c *Canvas) Arc(cx, cy, r, start, end float64, ccw bool) {
	c.Ellipse(cx, cy, r, r, 0, start, end, ccw)
}

func (c *Canvas) Ellipse(cx, cy, rx, ry, rotation, start, end float64, ccw bool) {
	pts := surface.EllipsePoints(cx, cy, rx, ry, rotation, start, end, ccw)
	for i, p := range pts {
		pts[i] = c.device(p.X, p.Y)
	}
	c.path.Connect(pts)
}

func (c *Canvas) Rect(x, y, w, h float64) {
	pts := surface.RectPoints(x, y, w, h)
	c.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.LineTo(p.X, p.Y)
	}
	c.path.Close()
}

func (c *Canvas) ClosePath() {
	c.path.Close()
}

// target returns the image to draw into, or nil when nothing can be
// drawn.
func (c *Canvas) target() *ebiten.Image {
	if c.dst == nil {
		return nil
	}
	if !c.cur.hasClip {
		return c.dst
	}
	if c.cur.clip.Empty() {
		return nil
	}
	return c.dst.SubImage(c.cur.clip).(*ebiten.Image)
}

func (c *Canvas) Clip() {
	lo, hi, ok := c.path.Bounds()
	if c.dst == nil {
		return
	}
	r := image.Rectangle{}
	if ok {
		r = image.Rect(int(math.Floor(lo.X)), int(math.Floor(lo.Y)), int(math.Ceil(hi.X)), int(math.Ceil(hi.Y)))
	}
	if c.cur.hasClip {
		r = r.Intersect(c.cur.clip)
	} else {
		r = r.Intersect(c.dst.Bounds())
	}
	c.cur.hasClip = true
	c.cur.clip = r
}

func (c *Canvas) Stroke() {
	dst := c.target()
	if dst == nil || c.path.Empty() {
		return
	}
	st := &c.cur.style
	k := c.linearScale()

	p := c.path
	if len(st.LineDash) > 0 {
		dash := make([]float64, len(st.LineDash))
		for i, d := range st.LineDash {
			dash[i] = d * k
		}
		p = c.path.Dash(dash, st.LineDashOffset*k)
	}

	var vp vector.Path
	appendVectorPath(&vp, p.Data())
	opts := &vector.StrokeOptions{
		Width:      float32(st.LineWidth * k),
		LineCap:    lineCap(st.LineCap),
		LineJoin:   lineJoin(st.LineJoin),
		MiterLimit: 10,
	}
	c.vs, c.is = vp.AppendVerticesAndIndicesForStroke(c.vs[:0], c.is[:0], opts)
	setVertexColor(c.vs, st.StrokeColor)
	dst.DrawTriangles(c.vs, c.is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (c *Canvas) Fill() {
	dst := c.target()
	if dst == nil || c.path.Empty() {
		return
	}
	if g := c.cur.style.FillGradient; g != nil && len(g.Stops) > 0 {
		c.fillGradient(dst, g)
		return
	}

	var vp vector.Path
	appendVectorPath(&vp, c.path.Data())
	c.vs, c.is = vp.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	setVertexColor(c.vs, c.cur.style.FillColor)
	dst.DrawTriangles(c.vs, c.is, whiteSubImage, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  ebiten.FillRuleNonZero,
	})
}

// fillGradient cuts each subpath into bands between consecutive gradient
// stops. Within a band the color is linear in position, so per-vertex
// colors on the band's triangles reproduce the gradient exactly.
func (c *Canvas) fillGradient(dst *ebiten.Image, g *surface.LinearGradient) {
	p0, p1 := c.device(g.X0, g.Y0), c.device(g.X1, g.Y1)
	dg := &surface.LinearGradient{X0: p0.X, Y0: p0.Y, X1: p1.X, Y1: p1.Y, Stops: g.Stops}
	param := func(p geom.Point) float64 { return dg.ParamAt(p.X, p.Y) }

	for _, sp := range c.path.Subpaths {
		if len(sp.Points) < 3 {
			continue
		}
		tmin, tmax := math.Inf(1), math.Inf(-1)
		for _, p := range sp.Points {
			t := param(p)
			tmin, tmax = math.Min(tmin, t), math.Max(tmax, t)
		}
		edges := []float64{tmin - 1}
		for _, s := range g.Stops {
			if s.Offset > tmin && s.Offset < tmax {
				edges = append(edges, s.Offset)
			}
		}
		edges = append(edges, tmax+1)

		for i := 0; i+1 < len(edges); i++ {
			lo, hi := edges[i], edges[i+1]
			band := clipHalfPlane(sp.Points, func(p geom.Point) float64 { return param(p) - lo })
			band = clipHalfPlane(band, func(p geom.Point) float64 { return hi - param(p) })
			if len(band) < 3 {
				continue
			}
			var vp vector.Path
			vp.MoveTo(float32(band[0].X), float32(band[0].Y))
			for _, p := range band[1:] {
				vp.LineTo(float32(p.X), float32(p.Y))
			}
			vp.Close()
			c.vs, c.is = vp.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
			for j := range c.vs {
				v := &c.vs[j]
				col := dg.ColorAt(param(geom.Point{X: float64(v.DstX), Y: float64(v.DstY)}))
				v.ColorR, v.ColorG, v.ColorB, v.ColorA = channels(col)
			}
			dst.DrawTriangles(c.vs, c.is, whiteSubImage, &ebiten.DrawTrianglesOptions{
				AntiAlias: true,
				FillRule:  ebiten.FillRuleNonZero,
			})
		}
	}
}

// clipHalfPlane keeps the part of the polygon where f >= 0.
func clipHalfPlane(pts []geom.Point, f func(geom.Point) float64) []geom.Point {
	var out []geom.Point
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		fa, fb := f(a), f(b)
		if fa >= 0 {
			out = append(out, a)
		}
		if (fa >= 0) != (fb >= 0) {
			out = append(out, a.Add(b.Sub(a).Mul(fa/(fa-fb))))
		}
	}
	return out
}

// appendVectorPath replays a device-space command stream into vp.
func appendVectorPath(vp *vector.Path, d *path.Data) {
	i := 0
	for _, cmd := range d.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			vp.MoveTo(float32(d.Coords[i].X), float32(d.Coords[i].Y))
			i++
		case path.CmdLineTo:
			vp.LineTo(float32(d.Coords[i].X), float32(d.Coords[i].Y))
			i++
		case path.CmdQuadTo:
			vp.QuadTo(float32(d.Coords[i].X), float32(d.Coords[i].Y), float32(d.Coords[i+1].X), float32(d.Coords[i+1].Y))
			i += 2
		case path.CmdCubeTo:
			vp.CubicTo(float32(d.Coords[i].X), float32(d.Coords[i].Y), float32(d.Coords[i+1].X), float32(d.Coords[i+1].Y),
				float32(d.Coords[i+2].X), float32(d.Coords[i+2].Y))
			i += 3
		case path.CmdClose:
			vp.Close()
		}
	}
}

func channels(c color.NRGBA) (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

func setVertexColor(vs []ebiten.Vertex, c color.NRGBA) {
	r, g, b, a := channels(c)
	for i := range vs {
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r, g, b, a
	}
}

func lineCap(lc surface.LineCap) vector.LineCap {
	switch lc {
	case surface.CapRound:
		return vector.LineCapRound
	case surface.CapSquare:
		return vector.LineCapSquare
	default:
		return vector.LineCapButt
	}
}

func lineJoin(lj surface.LineJoin) vector.LineJoin {
	switch lj {
	case surface.JoinRound:
		return vector.LineJoinRound
	case surface.JoinBevel:
		return vector.LineJoinBevel
	default:
		return vector.LineJoinMiter
	}
}
