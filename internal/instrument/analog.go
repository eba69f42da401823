package instrument

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"glasscockpit/internal/geom"
	"glasscockpit/internal/surface"
)

// maxTicks bounds the tick table so a tiny step cannot stall a frame.
const maxTicks = 10000

// AnalogConfig describes the tick ring and labels of a round dial. Angles
// are in radians, measured clockwise from the +X axis in screen space.
type AnalogConfig struct {
	Radius          float64
	BigTickLength   float64
	SmallTickLength float64

	// TickStart and TickEnd bound the active arc, walked in the positive
	// direction and wrapping through 0 when TickEnd <= TickStart.
	TickStart float64
	TickEnd   float64
	TickStep  float64

	SmallTicksPerBigTick int

	Labels        []string
	LabelAngles   []float64
	LabelsRotate  bool
	LabelFontSize float64

	DrawCenterDot bool
}

// DefaultAnalogConfig returns a full-circle dial with a tick every π/8.
func DefaultAnalogConfig() AnalogConfig {
	return AnalogConfig{
		Radius:               100,
		BigTickLength:        25,
		SmallTickLength:      15,
		TickStart:            0,
		TickEnd:              geom.TwoPi,
		TickStep:             math.Pi / 8,
		SmallTicksPerBigTick: 1,
		LabelFontSize:        50,
		DrawCenterDot:        true,
	}
}

// TicksByCount spreads count tick intervals over the arc from start to
// end.
func (c AnalogConfig) TicksByCount(start, end float64, count int) AnalogConfig {
	c.TickStart = geom.NormalizeAngle(start)
	c.TickEnd = geom.NormalizeAngle(end)
	c.TickStep = 0
	if count > 0 {
		c.TickStep = geom.WrappedSpan(c.TickStart, c.TickEnd) / float64(count)
	}
	return c
}

// LabelBigTicksEvenly puts one label on every big tick of the active arc,
// with values interpolated from startLabel to endLabel.
func (c AnalogConfig) LabelBigTicksEvenly(startLabel, endLabel float64) AnalogConfig {
	c.Labels, c.LabelAngles = nil, nil
	if !(c.TickStep > 0) || c.SmallTicksPerBigTick < 0 {
		return c
	}
	start := geom.NormalizeAngle(c.TickStart)
	span := geom.WrappedSpan(start, geom.NormalizeAngle(c.TickEnd))
	ticks := int(math.Floor(span/c.TickStep + 1e-9))
	if ticks > maxTicks {
		return c
	}
	per := c.SmallTicksPerBigTick + 1
	big := ticks/per + 1

	var dl float64
	if big > 1 {
		dl = (endLabel - startLabel) / float64(big-1)
	}
	for i := 0; i*per <= ticks; i++ {
		c.Labels = append(c.Labels, strconv.FormatFloat(startLabel+float64(i)*dl, 'f', -1, 64))
		c.LabelAngles = append(c.LabelAngles, start+float64(i*per)*c.TickStep)
	}
	return c
}

func (c AnalogConfig) validate() error {
	switch {
	case !(c.Radius > 0) || math.IsInf(c.Radius, 0):
		return fmt.Errorf("%w: radius %v", ErrInvalidConfig, c.Radius)
	case !(c.TickStep > 0) || math.IsInf(c.TickStep, 0):
		return fmt.Errorf("%w: tick step %v", ErrInvalidConfig, c.TickStep)
	case c.SmallTicksPerBigTick < 0:
		return fmt.Errorf("%w: %d small ticks per big tick", ErrInvalidConfig, c.SmallTicksPerBigTick)
	case c.BigTickLength < 0 || c.SmallTickLength < 0:
		return fmt.Errorf("%w: negative tick length", ErrInvalidConfig)
	case len(c.Labels) != len(c.LabelAngles):
		return fmt.Errorf("%w: %d labels for %d label angles", ErrInvalidConfig, len(c.Labels), len(c.LabelAngles))
	case len(c.Labels) > 0 && !(c.LabelFontSize > 0):
		return fmt.Errorf("%w: label font size %v", ErrInvalidConfig, c.LabelFontSize)
	}
	if span := geom.WrappedSpan(geom.NormalizeAngle(c.TickStart), geom.NormalizeAngle(c.TickEnd)); span/c.TickStep > maxTicks {
		return fmt.Errorf("%w: more than %d ticks", ErrInvalidConfig, maxTicks)
	}
	return nil
}

// Tick is one precomputed mark of the tick ring.
type Tick struct {
	Angle float64
	Big   bool
}

// AnalogGauge draws a round dial: ring, ticks, labels, needle, trend arc
// and a numeric readout plate.
type AnalogGauge struct {
	cfg   AnalogConfig
	end   float64
	ticks []Tick
}

// NewAnalogGauge validates cfg and precomputes its tick table.
func NewAnalogGauge(cfg AnalogConfig) (*AnalogGauge, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.TickStart = geom.NormalizeAngle(cfg.TickStart)
	cfg.TickEnd = geom.NormalizeAngle(cfg.TickEnd)
	cfg.Labels = append([]string(nil), cfg.Labels...)
	angles := make([]float64, len(cfg.LabelAngles))
	for i, a := range cfg.LabelAngles {
		angles[i] = geom.NormalizeAngle(a)
	}
	cfg.LabelAngles = angles

	g := &AnalogGauge{cfg: cfg, end: geom.WrappedEnd(cfg.TickStart, cfg.TickEnd)}
	per := cfg.SmallTicksPerBigTick + 1
	for k := 0; ; k++ {
		a := cfg.TickStart + float64(k)*cfg.TickStep
		if a >= g.end-1e-9 {
			break
		}
		g.ticks = append(g.ticks, Tick{Angle: a, Big: k%per == 0})
	}
	return g, nil
}

func (g *AnalogGauge) Kind() Kind { return KindAnalog }
func (g *AnalogGauge) sealed()    {}

// Config returns a copy of the normalized configuration.
func (g *AnalogGauge) Config() AnalogConfig {
	c := g.cfg
	c.Labels = append([]string(nil), c.Labels...)
	c.LabelAngles = append([]float64(nil), c.LabelAngles...)
	return c
}

// Ticks returns the tick table.
func (g *AnalogGauge) Ticks() []Tick {
	return append([]Tick(nil), g.ticks...)
}

// Radius is the radius of the dial ring.
func (g *AnalogGauge) Radius() float64 {
	return g.cfg.Radius
}

// Draw renders the dial centred at (x, y), turned so that an angle equal
// to rotation points along +X. Ring and ticks use the caller's stroke
// style; the center dot uses its fill.
func (g *AnalogGauge) Draw(s surface.Surface, x, y, rotation float64) {
	defer surface.Guard(s)()
	r := g.cfg.Radius

	s.BeginPath()
	s.Arc(x, y, r, 0, geom.TwoPi, false)
	for _, t := range g.ticks {
		p0 := geom.Polar(x, y, r, t.Angle-rotation)
		p1 := geom.Polar(x, y, r-g.tickLength(t), t.Angle-rotation)
		s.MoveTo(p0.X, p0.Y)
		s.LineTo(p1.X, p1.Y)
	}
	s.Stroke()

	// Highlight ring, reaching a little past each tick.
	s.BeginPath()
	s.Arc(x, y, r, 0, geom.TwoPi, false)
	for _, t := range g.ticks {
		p0 := geom.Polar(x, y, r, t.Angle-rotation)
		p1 := geom.Polar(x, y, r-g.tickLength(t)+3, t.Angle-rotation)
		s.MoveTo(p0.X, p0.Y)
		s.LineTo(p1.X, p1.Y)
	}
	s.SetLineWidth(0.3)
	s.SetStrokeColor(white)
	s.Stroke()

	if g.cfg.DrawCenterDot {
		s.BeginPath()
		s.Arc(x, y, 7, 0, geom.TwoPi, false)
		s.Fill()
	}

	g.drawLabels(s, x, y, rotation)
}

func (g *AnalogGauge) tickLength(t Tick) float64 {
	if t.Big {
		return g.cfg.BigTickLength
	}
	return g.cfg.SmallTickLength
}

func (g *AnalogGauge) drawLabels(s surface.Surface, x, y, rotation float64) {
	if len(g.cfg.Labels) == 0 {
		return
	}
	r := g.cfg.Radius
	s.SetFont(surface.Font{Size: g.cfg.LabelFontSize})
	s.SetTextAlign(surface.AlignCenter)
	s.SetTextBaseline(surface.BaselineMiddle)
	s.SetLineWidth(2)
	s.SetStrokeColor(black)
	s.SetFillColor(yellow)

	for i, l := range g.cfg.Labels {
		theta := g.cfg.LabelAngles[i] - rotation
		sin, cos := math.Sincos(theta)
		m := s.MeasureText(l)

		if g.cfg.LabelsRotate {
			at := geom.Polar(x, y, r+10+m.ActualAscent/2, theta)
			s.Save()
			s.Translate(at.X, at.Y)
			s.Rotate(math.Pi/2 + theta)
			s.StrokeText(l, 0, 0)
			s.FillText(l, 0, 0)
			s.Restore()
			continue
		}

		at := geom.Polar(x, y, r+10, theta)
		tx := cos*m.Width/2 + cos*math.Abs(sin)*m.Width/3
		ty := sin*m.ActualAscent - sin*math.Abs(cos)*m.ActualAscent/2
		s.StrokeText(l, at.X+tx, at.Y+ty)
		s.FillText(l, at.X+tx, at.Y+ty)
	}
}

// NeedleStyle sets the look of a needle. Zero fields take the defaults:
// width 5 and a length of two thirds of the radius.
type NeedleStyle struct {
	Width          float64
	RadiusFraction float64
}

func (ns NeedleStyle) withDefaults() NeedleStyle {
	if ns.Width <= 0 {
		ns.Width = 5
	}
	if ns.RadiusFraction <= 0 {
		ns.RadiusFraction = 2.0 / 3
	}
	return ns
}

// NeedleEnd returns the tip of a needle drawn at angle from (x, y).
func (g *AnalogGauge) NeedleEnd(x, y, angle float64, style NeedleStyle) geom.Point {
	style = style.withDefaults()
	return geom.Polar(x, y, g.cfg.Radius*style.RadiusFraction, angle)
}

// DrawNeedle strokes a needle from the dial center at angle, in the
// caller's stroke color.
func (g *AnalogGauge) DrawNeedle(s surface.Surface, x, y, angle float64, style NeedleStyle) {
	defer surface.Guard(s)()
	style = style.withDefaults()
	tip := g.NeedleEnd(x, y, angle, style)
	s.BeginPath()
	s.MoveTo(x, y)
	s.LineTo(tip.X, tip.Y)
	s.ClosePath()
	s.SetLineWidth(style.Width)
	s.Stroke()
}

// AngleForValue maps value from [min, max] onto the active arc. Values
// outside the range extrapolate past the arc ends.
func (g *AnalogGauge) AngleForValue(value, min, max float64) float64 {
	return geom.MapRange(value, min, max, g.cfg.TickStart, g.end)
}

func (g *AnalogGauge) DrawNeedleFromValue(s surface.Surface, x, y, value, min, max float64, style NeedleStyle) {
	g.DrawNeedle(s, x, y, g.AngleForValue(value, min, max), style)
}

// FormatReadout renders value for a numeric plate: a sign ("-" for
// negative values, " " when negatives are possible, nothing otherwise)
// followed by the magnitude left-padded with padChar to minDigits.
func FormatReadout(value float64, minDigits int, allowNegative bool, padChar rune) string {
	digits := strconv.FormatFloat(math.Abs(value), 'f', -1, 64)
	if n := minDigits - len(digits); n > 0 {
		digits = strings.Repeat(string(padChar), n) + digits
	}
	sign := ""
	switch {
	case value < 0:
		sign = "-"
	case allowNegative:
		sign = " "
	}
	return sign + digits
}

// DrawLabelText shows value on a plate just below the dial center.
func (g *AnalogGauge) DrawLabelText(s surface.Surface, x, y, value float64, minDigits int, allowNegative bool, padChar rune) {
	p := LabelPlate{GoalHeight: g.cfg.Radius / 3}
	p.Draw(s, x, y+g.cfg.Radius*0.4, FormatReadout(value, minDigits, allowNegative, padChar))
}

// TrendStyle places the trend arc outside the ring: radial ticks run
// from Radius+Close to Radius+Far and the arc sits at Radius+Far. Zero
// fields take the defaults 6 and 30.
type TrendStyle struct {
	Close float64
	Far   float64
}

func (ts TrendStyle) withDefaults() TrendStyle {
	if ts.Close == 0 && ts.Far == 0 {
		ts.Close, ts.Far = 6, 30
	}
	return ts
}

// DrawOuterSpeedLine draws the magenta trend bracket between two angles.
func (g *AnalogGauge) DrawOuterSpeedLine(s surface.Surface, x, y, current, future float64, trend TrendStyle) {
	defer surface.Guard(s)()
	s.Save()
	defer s.Restore()

	trend = trend.withDefaults()
	if future < current {
		current, future = future, current
	}
	r := g.cfg.Radius
	s.Translate(x, y)
	s.SetStrokeColor(magenta)
	s.SetLineWidth(3)

	s.BeginPath()
	p := geom.Polar(0, 0, r+trend.Close, current)
	s.MoveTo(p.X, p.Y)
	p = geom.Polar(0, 0, r+trend.Far, current)
	s.LineTo(p.X, p.Y)
	s.Arc(0, 0, r+trend.Far, current, future, false)
	p = geom.Polar(0, 0, r+trend.Close, future)
	s.LineTo(p.X, p.Y)
	s.Stroke()
}

func (g *AnalogGauge) DrawOuterSpeedLineFromValue(s surface.Surface, x, y, current, future, min, max float64, trend TrendStyle) {
	g.DrawOuterSpeedLine(s, x, y, g.AngleForValue(current, min, max), g.AngleForValue(future, min, max), trend)
}
