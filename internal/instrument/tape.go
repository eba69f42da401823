package instrument

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"glasscockpit/internal/surface"
)

// TickSide selects the edge of a tape the ticks grow from.
type TickSide int

const (
	SideLeft TickSide = iota
	SideRight
)

func (s TickSide) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// dir is +1 when ticks grow rightwards from the left edge.
func (s TickSide) dir() float64 {
	if s == SideRight {
		return -1
	}
	return 1
}

const (
	tapeLabelGap    = 10
	tapeScrollSlack = 20
	wheelFontSize   = 40
)

var (
	tapeBackground  = surface.MustHex("#000000cc")
	wheelBackground = surface.MustHex("#222222")
	wheelShadeStops = []surface.ColorStop{
		{Offset: 0, Color: surface.MustHex("#000000ff")},
		{Offset: 0.45, Color: surface.MustHex("#00000033")},
		{Offset: 0.5, Color: surface.MustHex("#00000011")},
		{Offset: 0.55, Color: surface.MustHex("#00000033")},
		{Offset: 1, Color: surface.MustHex("#000000ff")},
	}
)

// TapeConfig describes a vertical scrolling tape with a digit wheel.
type TapeConfig struct {
	Width  float64
	Height float64

	BigTickLength        float64
	SmallTickLength      float64
	SmallTicksPerBigTick int

	PixelsPerTick float64
	ValuePerTick  float64

	// WheelDigitSpan is the step of the rolling low-order digits.
	WheelDigitSpan int

	// MinValue and MaxValue, when set, hide ticks outside the range.
	MinValue *float64
	MaxValue *float64

	MaxDigits     int
	AllowNegative bool
}

// DefaultTapeConfig returns the altimeter layout.
func DefaultTapeConfig() TapeConfig {
	return TapeConfig{
		Width:                200,
		Height:               450,
		BigTickLength:        25,
		SmallTickLength:      10,
		SmallTicksPerBigTick: 4,
		PixelsPerTick:        10,
		ValuePerTick:         20,
		WheelDigitSpan:       20,
		MaxDigits:            5,
		AllowNegative:        true,
	}
}

func (c TapeConfig) validate() error {
	switch {
	case !(c.Width > 0) || !(c.Height > 0):
		return fmt.Errorf("%w: tape size %vx%v", ErrInvalidConfig, c.Width, c.Height)
	case !(c.PixelsPerTick > 0) || math.IsInf(c.PixelsPerTick, 0):
		return fmt.Errorf("%w: pixels per tick %v", ErrInvalidConfig, c.PixelsPerTick)
	case !(c.ValuePerTick > 0) || math.IsInf(c.ValuePerTick, 0):
		return fmt.Errorf("%w: value per tick %v", ErrInvalidConfig, c.ValuePerTick)
	case c.Height/c.PixelsPerTick > maxTicks:
		return fmt.Errorf("%w: more than %d ticks in view", ErrInvalidConfig, maxTicks)
	case c.WheelDigitSpan <= 0:
		return fmt.Errorf("%w: wheel digit span %d", ErrInvalidConfig, c.WheelDigitSpan)
	case c.SmallTicksPerBigTick < 0:
		return fmt.Errorf("%w: %d small ticks per big tick", ErrInvalidConfig, c.SmallTicksPerBigTick)
	case c.MaxDigits < 0:
		return fmt.Errorf("%w: max digits %d", ErrInvalidConfig, c.MaxDigits)
	case c.MinValue != nil && c.MaxValue != nil && *c.MinValue > *c.MaxValue:
		return fmt.Errorf("%w: min %v above max %v", ErrInvalidConfig, *c.MinValue, *c.MaxValue)
	}
	return nil
}

// DigitalTape is a scrolling ruler with a rolling digit readout.
type DigitalTape struct {
	cfg TapeConfig
}

// NewDigitalTape validates cfg.
func NewDigitalTape(cfg TapeConfig) (*DigitalTape, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MinValue != nil {
		v := *cfg.MinValue
		cfg.MinValue = &v
	}
	if cfg.MaxValue != nil {
		v := *cfg.MaxValue
		cfg.MaxValue = &v
	}
	return &DigitalTape{cfg: cfg}, nil
}

func (t *DigitalTape) Kind() Kind { return KindTape }
func (t *DigitalTape) sealed()    {}

func (t *DigitalTape) Config() TapeConfig {
	return t.cfg
}

// TapeTick is one visible mark of the ruler. Pos is the offset from the
// tape center, positive downwards.
type TapeTick struct {
	Value float64
	Pos   float64
	Big   bool
}

func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}

// window returns the value at the bottom edge of the tape.
func (t *DigitalTape) window(value float64) float64 {
	c := t.cfg
	return value - c.ValuePerTick*(c.Height/c.PixelsPerTick)/2
}

// offsetOf maps a value to its vertical offset from the tape center.
func (t *DigitalTape) offsetOf(value, v float64) float64 {
	c := t.cfg
	return c.Height/2 - (v-t.window(value))/c.ValuePerTick*c.PixelsPerTick
}

// Ticks returns the ticks visible when the tape shows value, bottom
// first.
func (t *DigitalTape) Ticks(value float64) []TapeTick {
	c := t.cfg
	ws := t.window(value)
	first := ws - floorMod(ws, c.ValuePerTick)
	if first < ws {
		first += c.ValuePerTick
	}
	bigEvery := c.ValuePerTick * float64(c.SmallTicksPerBigTick+1)

	n := int(math.Ceil((c.Height+tapeScrollSlack)/c.PixelsPerTick)) + 1
	var out []TapeTick
	for i := 0; i <= n; i++ {
		v := first + float64(i)*c.ValuePerTick
		pos := t.offsetOf(value, v)
		if pos < -c.Height/2-tapeScrollSlack {
			break
		}
		if c.MinValue != nil && v < *c.MinValue-1e-9 {
			continue
		}
		if c.MaxValue != nil && v > *c.MaxValue+1e-9 {
			continue
		}
		m := floorMod(v, bigEvery)
		out = append(out, TapeTick{
			Value: v,
			Pos:   pos,
			Big:   m < c.ValuePerTick/2 || m > bigEvery-c.ValuePerTick/2,
		})
	}
	return out
}

// tickLabel prints a tick value without float noise.
func tickLabel(v float64) string {
	v = math.Round(v*1e9) / 1e9
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Draw renders the tape centred at (x, y). A non-nil companion, such as
// an autopilot target, is marked on the tick side.
func (t *DigitalTape) Draw(s surface.Surface, x, y, value float64, companion *float64, side TickSide) {
	defer surface.Guard(s)()
	s.Save()
	defer s.Restore()

	c := t.cfg
	w, h := c.Width, c.Height
	s.Translate(x, y)

	s.BeginPath()
	s.Rect(-w/2, -h/2, w, h)
	s.SetFillColor(tapeBackground)
	s.Fill()

	s.SetFillColor(white)
	s.SetStrokeColor(white)
	s.SetLineWidth(2)
	s.SetLineDash(nil, 0)
	s.SetFont(surface.Font{Size: surface.PointsToPixels(20)})
	if side == SideRight {
		s.SetTextAlign(surface.AlignRight)
	} else {
		s.SetTextAlign(surface.AlignLeft)
	}
	s.SetTextBaseline(surface.BaselineMiddle)
	s.Stroke()
	s.Clip()

	d := side.dir()
	tickX := -d * w / 2
	s.BeginPath()
	for _, tk := range t.Ticks(value) {
		s.MoveTo(tickX, tk.Pos)
		if tk.Big {
			end := tickX + d*c.BigTickLength
			s.LineTo(end, tk.Pos)
			s.FillText(tickLabel(tk.Value), end+d*tapeLabelGap, tk.Pos)
		} else {
			s.LineTo(tickX+d*c.SmallTickLength, tk.Pos)
		}
	}
	s.Stroke()

	if companion != nil {
		t.drawCompanion(s, value, *companion, tickX, d)
	}

	t.drawWheel(s, value, side)
}

// CompanionOffset is the offset of the companion marker from the tape
// center, parked on the nearest edge when out of view.
func (t *DigitalTape) CompanionOffset(value, companion float64) float64 {
	h := t.cfg.Height / 2
	return math.Max(-h, math.Min(h, t.offsetOf(value, companion)))
}

func (t *DigitalTape) drawCompanion(s surface.Surface, value, companion, tickX, d float64) {
	const half, depth = 14, 14
	pos := t.CompanionOffset(value, companion)
	h := t.cfg.Height / 2
	pos = math.Max(-h+half, math.Min(h-half, pos))

	s.BeginPath()
	s.MoveTo(tickX, pos-half)
	s.LineTo(tickX+d*depth, pos-half)
	s.LineTo(tickX+d*depth, pos+half)
	s.LineTo(tickX, pos+half)
	s.SetStrokeColor(magenta)
	s.SetLineWidth(4)
	s.Stroke()
}

// Wheel is the text of a rolling digit readout. Prefix holds the sign
// and the digits that do not move; Below and Above are the low-order
// digits rolling past the window, with BelowBelow and AboveAbove peeking
// in from the edges. Offset is how far the wheel has turned from Below
// towards Above, in [0, 1]; only a negative multiple of the span
// reaches 1.
type Wheel struct {
	Prefix     string
	Below      string
	Above      string
	BelowBelow string
	AboveAbove string
	Offset     float64

	// NeighborDigits is the width BelowBelow and AboveAbove are printed
	// in: the number of digits in the span.
	NeighborDigits int
}

// maxWheelValue is the largest magnitude a wheel shows; larger values
// are pinned to it.
const maxWheelValue = 1e15

// ComputeWheel splits value into the static and rolling parts of a digit
// wheel that steps by span. NaN and infinite values give an empty wheel.
func ComputeWheel(value float64, span, maxDigits int, allowNegative bool) Wheel {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Wheel{}
	}
	if span <= 0 {
		span = 1
	}
	r := int64(math.Round(math.Min(math.Abs(value), maxWheelValue)))
	dist := r % int64(span)
	below := r - dist
	above := below + int64(span)

	bl, al := strconv.FormatInt(below, 10), strconv.FormatInt(above, 10)
	if n := len(al) - len(bl); n > 0 {
		bl = strings.Repeat("0", n) + bl
	}
	i := 0
	for i < len(bl) && bl[i] == al[i] {
		i++
	}

	nd := len(strconv.Itoa(span))
	mod := int64(math.Pow10(nd))
	neighbor := func(v int64) string {
		v %= mod
		if v < 0 {
			v += mod
		}
		s := strconv.FormatInt(v, 10)
		return strings.Repeat("0", nd-len(s)) + s
	}

	wh := Wheel{
		Prefix:         bl[:i],
		Below:          bl[i:],
		Above:          al[i:],
		BelowBelow:     neighbor(below - int64(span)),
		AboveAbove:     neighbor(above + int64(span)),
		Offset:         float64(dist) / float64(span),
		NeighborDigits: nd,
	}
	if value < 0 {
		wh.Below, wh.Above = wh.Above, wh.Below
		wh.BelowBelow, wh.AboveAbove = wh.AboveAbove, wh.BelowBelow
		wh.Offset = 1 - wh.Offset
	}
	if n := maxDigits - len(wh.Below) - len(wh.Prefix); n > 0 {
		wh.Prefix = strings.Repeat("0", n) + wh.Prefix
	}
	switch {
	case value < 0:
		wh.Prefix = "-" + wh.Prefix
	case allowNegative:
		wh.Prefix = " " + wh.Prefix
	}
	return wh
}

func (t *DigitalTape) drawWheel(s surface.Surface, value float64, side TickSide) {
	c := t.cfg
	wh := ComputeWheel(value, c.WheelDigitSpan, c.MaxDigits, c.AllowNegative)

	s.SetFont(surface.Font{Size: wheelFontSize})
	s.SetTextAlign(surface.AlignLeft)
	s.SetTextBaseline(surface.BaselineMiddle)

	// The static part is laid out as if it carried the leading low-order
	// digits the neighbors omit, so every row ends in the same column.
	expanded := wh.Prefix
	if n := len(wh.Below) - wh.NeighborDigits; n > 0 {
		expanded += strings.Repeat("0", n)
	}
	mBox := s.MeasureText(expanded)
	mStatic := s.MeasureText(wh.Prefix)
	mChange := s.MeasureText(wh.BelowBelow)
	gap := s.MeasureText("00").Width - 2*s.MeasureText("0").Width
	digitH := mChange.FontHeight()
	asc, desc := mBox.FontAscent, mBox.FontDescent

	startX := -c.Width/2 + c.SmallTickLength
	if side == SideRight {
		startX = c.Width/2 - c.SmallTickLength - 40 - mBox.Width - gap - 2 - mChange.Width
	}
	left := startX + 20
	mid := left + mBox.Width + gap - 2
	right := mid + mChange.Width + 4

	s.BeginPath()
	s.MoveTo(left, desc)
	if side == SideLeft {
		s.LineTo(left, 10)
		s.LineTo(startX, 0)
		s.LineTo(left, -10)
	}
	s.LineTo(left, -asc)
	s.LineTo(mid, -asc)
	s.LineTo(mid, -2*asc)
	s.LineTo(right, -2*asc)
	if side == SideRight {
		s.LineTo(right, -10)
		s.LineTo(c.Width/2-c.SmallTickLength, 0)
		s.LineTo(right, 10)
	}
	s.LineTo(right, 2*desc)
	s.LineTo(mid, 2*desc)
	s.LineTo(mid, desc)
	s.ClosePath()

	s.SetFillColor(wheelBackground)
	s.Fill()
	s.Stroke()
	s.Clip()

	p := wh.Offset
	s.SetFillColor(white)
	s.FillText(wh.Prefix, left, 0)
	s.FillText(wh.AboveAbove, left+mBox.Width+gap, -(2-p)*digitH)
	s.FillText(wh.Above, left+mStatic.Width+gap, -(1-p)*digitH)
	s.FillText(wh.Below, left+mStatic.Width+gap, p*digitH)
	s.FillText(wh.BelowBelow, left+mBox.Width+gap, (1+p)*digitH)

	s.SetFillGradient(surface.NewLinearGradient(0, -2*asc, 0, 2*asc, wheelShadeStops...))
	s.Fill()
	s.Stroke()
}
