package instrument

import (
	"math"

	"glasscockpit/internal/surface"
)

const (
	plateReferenceSize = 400
	platePadding       = 40
	plateBorder        = 4
	plateTextStroke    = 50
)

var plateFill = surface.MustHex("#000000aa")

// LabelPlate draws a numeral on a translucent rounded plate. The text is
// laid out at a large reference size and scaled down to GoalHeight, so
// outlines stay in proportion at any size.
type LabelPlate struct {
	GoalHeight float64
}

// Scale returns the factor applied to the reference layout for text.
func (p LabelPlate) Scale(s surface.Surface, text string) float64 {
	defer surface.Guard(s)()
	s.SetFont(surface.Font{Size: plateReferenceSize})
	m := s.MeasureText(text)
	h := m.FontHeight()
	if h <= 0 {
		return 0
	}
	return p.GoalHeight / h
}

// Draw centres the plate on (x, y).
func (p LabelPlate) Draw(s surface.Surface, x, y float64, text string) {
	if text == "" || !(p.GoalHeight > 0) {
		return
	}
	defer surface.Guard(s)()
	s.Save()
	defer s.Restore()

	s.SetFont(surface.Font{Size: plateReferenceSize})
	s.SetTextAlign(surface.AlignCenter)
	s.SetTextBaseline(surface.BaselineMiddle)
	s.SetLineJoin(surface.JoinRound)
	s.SetLineDash(nil, 0)
	m := s.MeasureText(text)
	h := m.FontHeight()
	if h <= 0 {
		return
	}
	k := p.GoalHeight / h

	s.Translate(x, y)
	s.Scale(k, k)

	w, hh := m.Width/2+platePadding, h/2+platePadding
	roundedRect(s, -w, -hh, w, hh, platePadding)
	s.SetFillColor(plateFill)
	s.Fill()
	s.SetStrokeColor(black)
	s.SetLineWidth(plateBorder / k)
	s.Stroke()

	s.SetLineWidth(plateTextStroke)
	s.StrokeText(text, 0, 0)
	s.SetFillColor(white)
	s.FillText(text, 0, 0)
}

// roundedRect builds a closed rectangle from (x0, y0) to (x1, y1) with
// corners of radius r.
func roundedRect(s surface.PathBuilder, x0, y0, x1, y1, r float64) {
	r = math.Min(r, math.Min((x1-x0)/2, (y1-y0)/2))
	s.BeginPath()
	s.Arc(x1-r, y0+r, r, -math.Pi/2, 0, false)
	s.Arc(x1-r, y1-r, r, 0, math.Pi/2, false)
	s.Arc(x0+r, y1-r, r, math.Pi/2, math.Pi, false)
	s.Arc(x0+r, y0+r, r, math.Pi, 3*math.Pi/2, false)
	s.ClosePath()
}
