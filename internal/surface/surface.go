// Package surface defines the 2D drawing capability the instruments draw
// onto, along with the style state that travels with it.
//
// The model follows an immediate-mode canvas: a current path is built
// with MoveTo/LineTo/Arc and then stroked, filled or used as a clip; a
// transform and clip stack is pushed and popped with Save/Restore. Text
// is measured and drawn relative to the current alignment and baseline.
package surface

import (
	"image/color"
)

type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// TextAlign positions text horizontally around its anchor.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// TextBaseline positions text vertically around its anchor.
type TextBaseline int

const (
	BaselineAlphabetic TextBaseline = iota
	BaselineMiddle
	BaselineTop
	BaselineBottom
)

// Font selects the face used for text. Only monospaced faces are
// provided; Size is in pixels of user space.
type Font struct {
	Size float64
}

// PointsToPixels converts a CSS-style point size to pixels.
func PointsToPixels(pt float64) float64 {
	return pt * 4 / 3
}

// Style is every mutable drawing attribute of a surface apart from the
// transform and clip.
type Style struct {
	StrokeColor    color.NRGBA
	FillColor      color.NRGBA
	FillGradient   *LinearGradient // overrides FillColor when set
	LineWidth      float64
	LineCap        LineCap
	LineJoin       LineJoin
	LineDash       []float64
	LineDashOffset float64
	Font           Font
	TextAlign      TextAlign
	TextBaseline   TextBaseline
}

// DefaultStyle is the style of a freshly created surface.
func DefaultStyle() Style {
	return Style{
		StrokeColor: color.NRGBA{0, 0, 0, 255},
		FillColor:   color.NRGBA{0, 0, 0, 255},
		LineWidth:   1,
		Font:        Font{Size: 10},
	}
}

// Clone returns a copy that shares no mutable memory with s.
func (s Style) Clone() Style {
	if s.LineDash != nil {
		s.LineDash = append([]float64(nil), s.LineDash...)
	}
	return s
}

// TextMetrics describes a measured string. Ascents and descents are
// positive distances from the alphabetic baseline; ActualLeft and
// ActualRight are distances from the anchor given the current alignment.
type TextMetrics struct {
	Width         float64
	ActualLeft    float64
	ActualRight   float64
	ActualAscent  float64
	ActualDescent float64
	FontAscent    float64
	FontDescent   float64
}

// FontHeight is the height of the font box.
func (m TextMetrics) FontHeight() float64 {
	return m.FontAscent + m.FontDescent
}

// StyleState reads and writes the style attributes.
type StyleState interface {
	Style() Style
	SetStyle(Style)

	SetStrokeColor(color.Color)
	SetFillColor(color.Color)
	SetFillGradient(*LinearGradient)
	SetLineWidth(float64)
	SetLineCap(LineCap)
	SetLineJoin(LineJoin)
	SetLineDash(dash []float64, offset float64)
	SetFont(Font)
	SetTextAlign(TextAlign)
	SetTextBaseline(TextBaseline)
}

// Transformer manages the transform and clip stack. Save also pushes the
// style, and Restore pops all three.
type Transformer interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
	Scale(sx, sy float64)
}

// PathBuilder constructs the current path and renders it.
type PathBuilder interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc adds a circular arc; a line joins the current point to the
	// start of the arc.
	Arc(cx, cy, r, start, end float64, ccw bool)
	Ellipse(cx, cy, rx, ry, rotation, start, end float64, ccw bool)
	Rect(x, y, w, h float64)
	ClosePath()
	Stroke()
	Fill()
	// Clip intersects the clip region with the bounds of the current
	// path. Only rectangular clipping is supported. The path is kept.
	Clip()
}

// TextDrawer measures and renders text.
type TextDrawer interface {
	MeasureText(text string) TextMetrics
	FillText(text string, x, y float64)
	StrokeText(text string, x, y float64)
}

// Surface is the full drawing capability.
type Surface interface {
	StyleState
	Transformer
	PathBuilder
	TextDrawer
}
