// Package record provides a surface that draws nothing and remembers
// what it was asked to draw, in device coordinates. Text metrics come
// from the fixed 7x13 bitmap face scaled to the requested size, so
// layouts computed against it are deterministic.
package record

import (
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"

	"glasscockpit/internal/geom"
	"glasscockpit/internal/surface"
)

type OpKind int

const (
	OpStroke OpKind = iota
	OpFill
	OpClip
	OpFillText
	OpStrokeText
)

func (k OpKind) String() string {
	switch k {
	case OpStroke:
		return "stroke"
	case OpFill:
		return "fill"
	case OpClip:
		return "clip"
	case OpFillText:
		return "fillText"
	case OpStrokeText:
		return "strokeText"
	default:
		return "unknown"
	}
}

// Op is one recorded drawing operation.
type Op struct {
	Kind OpKind
	// Path holds the device-space geometry of stroke, fill and clip.
	Path []surface.Subpath
	// Text and At are set for text operations; At is the device-space
	// anchor.
	Text  string
	At    geom.Point
	Style surface.Style
	// Transform is the user-to-device transform at the time of the op.
	Transform matrix.Matrix
}

type state struct {
	style     surface.Style
	transform matrix.Matrix
	clip      []surface.Subpath
}

// Recorder implements surface.Surface.
type Recorder struct {
	cur   state
	stack []state
	path  surface.Path
	ops   []Op
	face  *basicfont.Face
}

var _ surface.Surface = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{
		cur:  state{style: surface.DefaultStyle(), transform: matrix.Identity},
		face: basicfont.Face7x13,
	}
}

// Ops returns everything drawn so far.
func (r *Recorder) Ops() []Op {
	return r.ops
}

// OpsOf returns the ops of one kind.
func (r *Recorder) OpsOf(kind OpKind) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the strings passed to FillText, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.ops {
		if op.Kind == OpFillText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Depth is the number of unmatched Save calls.
func (r *Recorder) Depth() int {
	return len(r.stack)
}

// Transform maps user space to device space. New operations are
// applied to points before it.
func (r *Recorder) Transform() matrix.Matrix {
	return r.cur.transform
}

// Reset forgets the recorded ops and returns to the initial state.
func (r *Recorder) Reset() {
	*r = *New()
}

func (r *Recorder) Style() surface.Style {
	return r.cur.style.Clone()
}

func (r *Recorder) SetStyle(s surface.Style) {
	r.cur.style = s.Clone()
}

func (r *Recorder) SetStrokeColor(c color.Color) {
	r.cur.style.StrokeColor = surface.NRGBA(c)
}

func (r *Recorder) SetFillColor(c color.Color) {
	r.cur.style.FillColor = surface.NRGBA(c)
	r.cur.style.FillGradient = nil
}

func (r *Recorder) SetFillGradient(g *surface.LinearGradient) {
	r.cur.style.FillGradient = g
}

func (r *Recorder) SetLineWidth(w float64) {
	if w > 0 {
		r.cur.style.LineWidth = w
	}
}

func (r *Recorder) SetLineCap(c surface.LineCap)   { r.cur.style.LineCap = c }
func (r *Recorder) SetLineJoin(j surface.LineJoin) { r.cur.style.LineJoin = j }

func (r *Recorder) SetLineDash(dash []float64, offset float64) {
	r.cur.style.LineDash = append([]float64(nil), dash...)
	r.cur.style.LineDashOffset = offset
}

func (r *Recorder) SetFont(f surface.Font)                 { r.cur.style.Font = f }
func (r *Recorder) SetTextAlign(a surface.TextAlign)       { r.cur.style.TextAlign = a }
func (r *Recorder) SetTextBaseline(b surface.TextBaseline) { r.cur.style.TextBaseline = b }

func (r *Recorder) Save() {
	saved := r.cur
	saved.style = saved.style.Clone()
	r.stack = append(r.stack, saved)
}

func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.cur = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Recorder) Translate(x, y float64) { r.premultiply(matrix.Translate(x, y)) }
func (r *Recorder) Rotate(angle float64)   { r.premultiply(matrix.Rotate(angle)) }
func (r *Recorder) Scale(sx, sy float64)   { r.premultiply(matrix.Scale(sx, sy)) }

func (r *Recorder) premultiply(m matrix.Matrix) {
	r.cur.transform = m.Mul(r.cur.transform)
}

func (r *Recorder) device(x, y float64) geom.Point {
	return r.cur.transform.Apply(geom.Point{X: x, Y: y})
}

func (r *Recorder) BeginPath() {
	r.path = surface.Path{}
}

func (r *Recorder) MoveTo(x, y float64) {
	r.path.MoveTo(r.device(x, y))
}

func (r *Recorder) LineTo(x, y float64) {
	r.path.LineTo(r.device(x, y))
}

func (r *Recorder) Arc(cx, cy, radius, start, end float64, ccw bool) {
	r.Ellipse(cx, cy, radius, radius, 0, start, end, ccw)
}

func (r *Recorder) Ellipse(cx, cy, rx, ry, rotation, start, end float64, ccw bool) {
	pts := surface.EllipsePoints(cx, cy, rx, ry, rotation, start, end, ccw)
	for i, pt := range pts {
		pts[i] = r.device(pt.X, pt.Y)
	}
	r.path.Connect(pts)
}

func (r *Recorder) Rect(x, y, w, h float64) {
	pts := surface.RectPoints(x, y, w, h)
	r.path.MoveTo(r.device(pts[0].X, pts[0].Y))
	for _, pt := range pts[1:] {
		r.path.LineTo(r.device(pt.X, pt.Y))
	}
	r.path.Close()
}

func (r *Recorder) ClosePath() {
	r.path.Close()
}

func (r *Recorder) record(kind OpKind) {
	r.ops = append(r.ops, Op{
		Kind:      kind,
		Path:      clonePath(r.path.Subpaths),
		Style:     r.cur.style.Clone(),
		Transform: r.cur.transform,
	})
}

func (r *Recorder) Stroke() { r.record(OpStroke) }
func (r *Recorder) Fill()   { r.record(OpFill) }

func (r *Recorder) Clip() {
	r.cur.clip = clonePath(r.path.Subpaths)
	r.record(OpClip)
}

// ClipPath returns the geometry of the innermost clip, if any.
func (r *Recorder) ClipPath() []surface.Subpath {
	return r.cur.clip
}

func (r *Recorder) scale() float64 {
	return r.cur.style.Font.Size / float64(r.face.Metrics().Height.Round())
}

func (r *Recorder) MeasureText(text string) surface.TextMetrics {
	k := r.scale()
	w := fixedToFloat(font.MeasureString(r.face, text)) * k
	met := r.face.Metrics()
	asc, desc := fixedToFloat(met.Ascent)*k, fixedToFloat(met.Descent)*k

	m := surface.TextMetrics{
		Width:         w,
		ActualAscent:  asc,
		ActualDescent: desc,
		FontAscent:    asc,
		FontDescent:   desc,
	}
	switch r.cur.style.TextAlign {
	case surface.AlignCenter:
		m.ActualLeft, m.ActualRight = w/2, w/2
	case surface.AlignRight:
		m.ActualLeft = w
	default:
		m.ActualRight = w
	}
	return m
}

func (r *Recorder) text(kind OpKind, text string, x, y float64) {
	r.ops = append(r.ops, Op{
		Kind:      kind,
		Text:      text,
		At:        r.device(x, y),
		Style:     r.cur.style.Clone(),
		Transform: r.cur.transform,
	})
}

func (r *Recorder) FillText(text string, x, y float64)   { r.text(OpFillText, text, x, y) }
func (r *Recorder) StrokeText(text string, x, y float64) { r.text(OpStrokeText, text, x, y) }

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func clonePath(sps []surface.Subpath) []surface.Subpath {
	out := make([]surface.Subpath, len(sps))
	for i, sp := range sps {
		out[i] = surface.Subpath{Points: append([]geom.Point(nil), sp.Points...), Closed: sp.Closed}
	}
	return out
}
