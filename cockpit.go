package main

import (
	"image/color"
	"math"

	"glasscockpit/internal/config"
	"glasscockpit/internal/geom"
	"glasscockpit/internal/surface"
)

// planeUnits is the size of the box the plane outline is drawn in.
const planeUnits = 1000

// planeOutline is the top-down aircraft silhouette, nose up, in a
// planeUnits square. Rounded nose and tail segments are cubic curves.
var planeOutline = []planeSegment{
	{to: geom.Point{X: 578.88, Y: 516.55}},
	{to: geom.Point{X: 554.154, Y: 792.4}},
	{to: geom.Point{X: 703.09, Y: 872}},
	{to: geom.Point{X: 703.09, Y: 950.97}},
	{to: geom.Point{X: 536.974, Y: 901.65}},
	{curve: true, c1: geom.Point{X: 536.974, Y: 901.65}, c2: geom.Point{X: 528.392, Y: 928.3}, to: geom.Point{X: 512, Y: 928.3}},
	{curve: true, c1: geom.Point{X: 497.347, Y: 928.3}, c2: geom.Point{X: 487.025, Y: 901.65}, to: geom.Point{X: 487.025, Y: 901.65}},
	{to: geom.Point{X: 320.91, Y: 950.97}},
	{to: geom.Point{X: 320.91, Y: 872}},
	{to: geom.Point{X: 469.856, Y: 792.4}},
	{to: geom.Point{X: 445.12, Y: 516.55}},
	{to: geom.Point{X: 33.43, Y: 648.05}},
	{to: geom.Point{X: 33.43, Y: 569.85}},
	{to: geom.Point{X: 442.15, Y: 340.31}},
	{to: geom.Point{X: 442.15, Y: 185.82}},
	{curve: true, c1: geom.Point{X: 442.15, Y: 105.45}, c2: geom.Point{X: 473.42, Y: 40.29}, to: geom.Point{X: 512, Y: 40.29}},
	{curve: true, c1: geom.Point{X: 550.58, Y: 40.29}, c2: geom.Point{X: 581.85, Y: 105.45}, to: geom.Point{X: 581.85, Y: 185.82}},
	{to: geom.Point{X: 581.85, Y: 340.31}},
	{to: geom.Point{X: 990.57, Y: 569.85}},
	{to: geom.Point{X: 990.57, Y: 648.05}},
}

type planeSegment struct {
	curve  bool
	c1, c2 geom.Point
	to     geom.Point
}

// curveSteps is the number of line segments per cubic curve.
const curveSteps = 8

func cubic(p0, p1, p2, p3 geom.Point, t float64) geom.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return geom.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// Cockpit renders the fixed symbology that sits on top of the instruments
type Cockpit struct {
	layout        config.Layout
	compassRadius float64
	planeSize     float64

	// Colors
	symbolColor color.NRGBA
	shadowColor color.NRGBA
}

// NewCockpit creates the symbology for a panel layout
func NewCockpit(layout config.Layout, compassRadius float64) *Cockpit {
	return &Cockpit{
		layout:        layout,
		compassRadius: compassRadius,
		planeSize:     30,
		symbolColor:   color.NRGBA{255, 255, 0, 255}, // Yellow
		shadowColor:   color.NRGBA{0, 0, 0, 255},
	}
}

// BoresightPoints returns the W-shaped aircraft reference mark
func (c *Cockpit) BoresightPoints() []geom.Point {
	ctr := c.layout.Horizon.Center
	const arm = 30
	dx, dy := arm*math.Cos(math.Pi/3.5), arm*math.Sin(math.Pi/3.5)
	return []geom.Point{
		{X: ctr.X - 2*dx, Y: ctr.Y},
		{X: ctr.X - dx, Y: ctr.Y + dy},
		{X: ctr.X, Y: ctr.Y},
		{X: ctr.X + dx, Y: ctr.Y + dy},
		{X: ctr.X + 2*dx, Y: ctr.Y},
	}
}

// DrawBoresight draws the W over the horizon center
func (c *Cockpit) DrawBoresight(s surface.Surface) {
	defer surface.Guard(s)()
	s.SetStrokeColor(c.symbolColor)
	s.SetLineWidth(6)
	s.SetLineDash(nil, 0)
	s.BeginPath()
	for i, pt := range c.BoresightPoints() {
		if i == 0 {
			s.MoveTo(pt.X, pt.Y)
		} else {
			s.LineTo(pt.X, pt.Y)
		}
	}
	s.Stroke()
}

// DrawLubberLine draws the dashed vertical line through the compass
func (c *Cockpit) DrawLubberLine(s surface.Surface) {
	defer surface.Guard(s)()
	at, r := c.layout.Compass, c.compassRadius

	// Dark backing first, then the yellow dashes.
	s.BeginPath()
	s.MoveTo(at.X, at.Y+r)
	s.LineTo(at.X, at.Y-r)
	s.SetLineDash([]float64{9, 1}, 2)
	s.SetLineWidth(6)
	s.SetStrokeColor(c.shadowColor)
	s.Stroke()

	s.BeginPath()
	s.MoveTo(at.X, at.Y+r)
	s.LineTo(at.X, at.Y-r)
	s.SetLineDash([]float64{5, 5}, 0)
	s.SetLineWidth(3)
	s.SetStrokeColor(c.symbolColor)
	s.Stroke()
}

// DrawPlane draws the aircraft silhouette at the compass center
func (c *Cockpit) DrawPlane(s surface.Surface) {
	defer surface.Guard(s)()
	s.Save()
	defer s.Restore()

	at := c.layout.Compass
	k := c.planeSize / planeUnits
	s.Translate(at.X-c.planeSize/2, at.Y-c.planeSize/2)
	s.Scale(k, k)

	s.BeginPath()
	cur := planeOutline[0].to
	s.MoveTo(cur.X, cur.Y)
	for _, seg := range planeOutline[1:] {
		if seg.curve {
			for i := 1; i <= curveSteps; i++ {
				pt := cubic(cur, seg.c1, seg.c2, seg.to, float64(i)/curveSteps)
				s.LineTo(pt.X, pt.Y)
			}
		} else {
			s.LineTo(seg.to.X, seg.to.Y)
		}
		cur = seg.to
	}
	s.ClosePath()

	s.SetFillColor(c.symbolColor)
	s.SetStrokeColor(c.symbolColor)
	s.SetLineDash(nil, 0)
	s.SetLineJoin(surface.JoinRound)
	s.SetLineWidth(70)
	s.Fill()
	s.Stroke()
}
