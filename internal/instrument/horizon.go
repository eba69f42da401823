package instrument

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"glasscockpit/internal/geom"
	"glasscockpit/internal/surface"
)

// HorizonLine is one entry of the pitch ladder pattern. AngleStep is the
// pitch between this bar and the next one up.
type HorizonLine struct {
	AngleStep     float64
	WidthFraction float64
	Labeled       bool
}

// HorizonConfig describes a repeating pitch ladder. The pattern starts
// at 0 and repeats every sum of its steps in both directions.
type HorizonConfig struct {
	LinePattern []HorizonLine
	// CornerSize is the length of the frame corner marks as a fraction
	// of the width.
	CornerSize float64
}

// DefaultHorizonConfig has a bar every 2.5°, a long labeled one every
// 10°.
func DefaultHorizonConfig() HorizonConfig {
	step := geom.DegToRad(2.5)
	return HorizonConfig{
		LinePattern: []HorizonLine{
			{AngleStep: step, WidthFraction: 4.0 / 7, Labeled: true},
			{AngleStep: step, WidthFraction: 66.0 / 350},
			{AngleStep: step, WidthFraction: 132.0 / 350},
			{AngleStep: step, WidthFraction: 66.0 / 350},
		},
		CornerSize: 0.1,
	}
}

// Horizon draws a roll-rotated frame and pitch ladder.
type Horizon struct {
	cfg    HorizonConfig
	period float64
}

func NewHorizon(cfg HorizonConfig) (*Horizon, error) {
	if len(cfg.LinePattern) == 0 {
		return nil, fmt.Errorf("%w: empty line pattern", ErrInvalidConfig)
	}
	var period float64
	for i, l := range cfg.LinePattern {
		if !(l.AngleStep > 0) || math.IsInf(l.AngleStep, 0) {
			return nil, fmt.Errorf("%w: line %d angle step %v", ErrInvalidConfig, i, l.AngleStep)
		}
		if !(l.WidthFraction >= 0 && l.WidthFraction <= 1) {
			return nil, fmt.Errorf("%w: line %d width fraction %v", ErrInvalidConfig, i, l.WidthFraction)
		}
		period += l.AngleStep
	}
	if !(cfg.CornerSize >= 0) || cfg.CornerSize > 0.5 {
		return nil, fmt.Errorf("%w: corner size %v", ErrInvalidConfig, cfg.CornerSize)
	}
	cfg.LinePattern = append([]HorizonLine(nil), cfg.LinePattern...)
	return &Horizon{cfg: cfg, period: period}, nil
}

func (hz *Horizon) Kind() Kind { return KindHorizon }
func (hz *Horizon) sealed()    {}

func (hz *Horizon) Config() HorizonConfig {
	c := hz.cfg
	c.LinePattern = append([]HorizonLine(nil), c.LinePattern...)
	return c
}

// Period is the pitch after which the ladder pattern repeats.
func (hz *Horizon) Period() float64 {
	return hz.period
}

// Rung is one visible ladder bar. Offset is its distance below the
// frame center in pixels; bars above the center have negative offsets.
type Rung struct {
	Index  int
	Angle  float64
	Offset float64
}

// pivot returns the pattern entry whose range [angle, angle+step)
// contains pitch.
func (hz *Horizon) pivot(pitch float64) (int, float64) {
	pat := hz.cfg.LinePattern
	n := len(pat)
	idx, angle := 0, math.Floor(pitch/hz.period)*hz.period
	// The product can round above pitch just below a period boundary.
	for i := 0; i < n && angle > pitch; i++ {
		idx = (idx - 1 + n) % n
		angle -= pat[idx].AngleStep
	}
	for i := 0; i < n && angle+pat[idx].AngleStep <= pitch; i++ {
		angle += pat[idx].AngleStep
		idx = (idx + 1) % n
	}
	return idx, angle
}

// Ladder lists the bars visible in a frame of height h at pitch, first
// walking down from the bar at or below pitch, then up from the one
// above it. Bars past ±90° are never produced.
func (hz *Horizon) Ladder(pitch, h, pixelsPerRadian float64) []Rung {
	if math.IsNaN(pitch) || math.IsInf(pitch, 0) {
		return nil
	}
	pat := hz.cfg.LinePattern
	n := len(pat)
	limit := h/2 - 1.5*hz.cfg.CornerSize*h
	const eps = 1e-9

	var out []Rung
	pi, pa := hz.pivot(pitch)

	idx, angle := pi, pa
	for i := 0; i < maxTicks; i++ {
		off := (pitch - angle) * pixelsPerRadian
		if off >= limit || angle < -math.Pi/2-eps {
			break
		}
		out = append(out, Rung{Index: idx, Angle: angle, Offset: off})
		idx = (idx - 1 + n) % n
		angle -= pat[idx].AngleStep
	}

	idx, angle = (pi+1)%n, pa+pat[pi].AngleStep
	for i := 0; i < maxTicks; i++ {
		off := (pitch - angle) * pixelsPerRadian
		if off <= -limit || angle > math.Pi/2+eps {
			break
		}
		out = append(out, Rung{Index: idx, Angle: angle, Offset: off})
		angle += pat[idx].AngleStep
		idx = (idx + 1) % n
	}
	return out
}

// pitchLabel prints a bar angle in degrees with at most one decimal.
func pitchLabel(angle float64) string {
	l := strconv.FormatFloat(geom.RadToDeg(angle), 'f', 1, 64)
	l = strings.TrimSuffix(l, ".0")
	if l == "-0" {
		l = "0"
	}
	return l
}

// Draw renders the frame of size w×h centred at (x, y), rotated by roll.
func (hz *Horizon) Draw(s surface.Surface, x, y, w, h, pixelsPerRadian, pitch, roll float64) {
	defer surface.Guard(s)()
	s.Save()
	defer s.Restore()

	s.Translate(x, y)
	s.Rotate(roll)
	s.SetLineDash(nil, 0)
	s.SetLineWidth(6)
	s.SetStrokeColor(green)

	c := hz.cfg.CornerSize * w
	s.BeginPath()
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			s.MoveTo(sx*w/2, sy*(h/2-c))
			s.LineTo(sx*w/2, sy*h/2)
			s.LineTo(sx*(w/2-c), sy*h/2)
		}
	}
	s.Stroke()

	rungs := hz.Ladder(pitch, h, pixelsPerRadian)
	s.BeginPath()
	for _, r := range rungs {
		half := hz.cfg.LinePattern[r.Index].WidthFraction * w / 2
		s.MoveTo(-half, r.Offset)
		s.LineTo(half, r.Offset)
	}
	s.Stroke()

	s.SetFont(surface.Font{Size: surface.PointsToPixels(20)})
	s.SetTextAlign(surface.AlignLeft)
	s.SetTextBaseline(surface.BaselineMiddle)
	s.SetLineWidth(5)
	s.SetStrokeColor(black)
	s.SetFillColor(green)
	for _, r := range rungs {
		l := hz.cfg.LinePattern[r.Index]
		if !l.Labeled {
			continue
		}
		label := pitchLabel(r.Angle)
		half := l.WidthFraction * w / 2
		lx, rx := -half-s.MeasureText(label).Width-tapeLabelGap, half+tapeLabelGap
		s.StrokeText(label, lx, r.Offset)
		s.StrokeText(label, rx, r.Offset)
		s.FillText(label, lx, r.Offset)
		s.FillText(label, rx, r.Offset)
	}
}
