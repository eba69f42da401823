package instrument

import (
	"errors"
	"math"
	"slices"
	"testing"

	"glasscockpit/internal/geom"
	"glasscockpit/internal/surface"
	"glasscockpit/internal/surface/record"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func speedometerConfig() AnalogConfig {
	cfg := DefaultAnalogConfig()
	cfg.Radius = 110
	cfg.TickStart = 0.75 * math.Pi
	cfg.TickEnd = 0.251 * math.Pi
	cfg.TickStep = math.Pi / 8
	cfg.SmallTicksPerBigTick = 1
	return cfg
}

func TestLabelBigTicksEvenly(t *testing.T) {
	tests := []struct {
		name   string
		cfg    AnalogConfig
		lo, hi float64
		want   []string
	}{
		{
			name: "speedometer",
			cfg:  speedometerConfig(),
			lo:   0, hi: 300,
			want: []string{"0", "50", "100", "150", "200", "250", "300"},
		},
		{
			name: "half circle by count",
			cfg:  DefaultAnalogConfig().TicksByCount(0, math.Pi, 8),
			lo:   0, hi: 1,
			want: []string{"0", "0.25", "0.5", "0.75", "1"},
		},
		{
			name: "no small ticks",
			cfg: func() AnalogConfig {
				c := DefaultAnalogConfig().TicksByCount(0, math.Pi, 3)
				c.SmallTicksPerBigTick = 0
				return c
			}(),
			lo: -300, hi: 300,
			want: []string{"-300", "-100", "100", "300"},
		},
		{
			name: "zero step",
			cfg:  DefaultAnalogConfig().TicksByCount(0, math.Pi, 0),
			lo:   0, hi: 10,
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg.LabelBigTicksEvenly(tc.lo, tc.hi)
			if !slices.Equal(cfg.Labels, tc.want) {
				t.Fatalf("labels = %q, want %q", cfg.Labels, tc.want)
			}
			if len(cfg.LabelAngles) != len(cfg.Labels) {
				t.Fatalf("%d angles for %d labels", len(cfg.LabelAngles), len(cfg.Labels))
			}
			per := float64(cfg.SmallTicksPerBigTick + 1)
			for i, a := range cfg.LabelAngles {
				want := geom.NormalizeAngle(cfg.TickStart) + float64(i)*per*cfg.TickStep
				if !near(a, want) {
					t.Errorf("angle[%d] = %v, want %v", i, a, want)
				}
			}
		})
	}
}

func TestLabelCountMatchesBigTicks(t *testing.T) {
	cfg := speedometerConfig()
	ticks := int(math.Floor(geom.WrappedSpan(cfg.TickStart, cfg.TickEnd) / cfg.TickStep))
	cfg = cfg.LabelBigTicksEvenly(0, 300)
	if want := ticks/2 + 1; len(cfg.Labels) != want {
		t.Errorf("got %d labels, want %d", len(cfg.Labels), want)
	}
}

func TestTickTable(t *testing.T) {
	g, err := NewAnalogGauge(DefaultAnalogConfig())
	if err != nil {
		t.Fatal(err)
	}
	ticks := g.Ticks()
	if len(ticks) != 16 {
		t.Fatalf("got %d ticks, want 16", len(ticks))
	}
	for i, tk := range ticks {
		if tk.Big != (i%2 == 0) {
			t.Errorf("tick %d big = %v", i, tk.Big)
		}
		if !near(tk.Angle, float64(i)*math.Pi/8) {
			t.Errorf("tick %d angle = %v", i, tk.Angle)
		}
	}
}

func TestNewAnalogGaugeNormalizes(t *testing.T) {
	cfg := DefaultAnalogConfig().TicksByCount(-math.Pi/2, math.Pi/2, 4)
	cfg.Labels = []string{"a"}
	cfg.LabelAngles = []float64{-math.Pi}
	g, err := NewAnalogGauge(cfg)
	if err != nil {
		t.Fatal(err)
	}
	got := g.Config()
	if !near(got.TickStart, 1.5*math.Pi) || !near(got.TickEnd, math.Pi/2) {
		t.Errorf("arc = [%v, %v]", got.TickStart, got.TickEnd)
	}
	if !near(got.LabelAngles[0], math.Pi) {
		t.Errorf("label angle = %v, want π", got.LabelAngles[0])
	}
}

func TestNewAnalogGaugeRejects(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*AnalogConfig)
	}{
		{"zero step", func(c *AnalogConfig) { c.TickStep = 0 }},
		{"negative step", func(c *AnalogConfig) { c.TickStep = -1 }},
		{"NaN step", func(c *AnalogConfig) { c.TickStep = math.NaN() }},
		{"zero radius", func(c *AnalogConfig) { c.Radius = 0 }},
		{"infinite radius", func(c *AnalogConfig) { c.Radius = math.Inf(1) }},
		{"negative small ticks", func(c *AnalogConfig) { c.SmallTicksPerBigTick = -1 }},
		{"negative tick length", func(c *AnalogConfig) { c.BigTickLength = -3 }},
		{"label mismatch", func(c *AnalogConfig) { c.Labels = []string{"a", "b"}; c.LabelAngles = []float64{0} }},
		{"no label font", func(c *AnalogConfig) { c.Labels = []string{"a"}; c.LabelAngles = []float64{0}; c.LabelFontSize = 0 }},
		{"too many ticks", func(c *AnalogConfig) { c.TickStep = 1e-6 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultAnalogConfig()
			tc.mod(&cfg)
			g, err := NewAnalogGauge(cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			if g != nil {
				t.Error("gauge returned with error")
			}
		})
	}
}

func TestNeedle(t *testing.T) {
	g, err := NewAnalogGauge(DefaultAnalogConfig().TicksByCount(0, math.Pi, 4))
	if err != nil {
		t.Fatal(err)
	}
	r := g.Radius()

	tests := []struct {
		value float64
		want  geom.Point
	}{
		{0, geom.Point{X: 100 + r*2/3, Y: 50}},
		{50, geom.Point{X: 100, Y: 50 + r*2/3}},
		{100, geom.Point{X: 100 - r*2/3, Y: 50}},
	}
	for _, tc := range tests {
		rec := record.New()
		g.DrawNeedleFromValue(rec, 100, 50, tc.value, 0, 100, NeedleStyle{})
		ops := rec.OpsOf(record.OpStroke)
		if len(ops) != 1 {
			t.Fatalf("value %v: %d strokes", tc.value, len(ops))
		}
		pts := ops[0].Path[0].Points
		if !near(pts[0].X, 100) || !near(pts[0].Y, 50) {
			t.Errorf("value %v: needle starts at %v", tc.value, pts[0])
		}
		if !near(pts[1].X, tc.want.X) || !near(pts[1].Y, tc.want.Y) {
			t.Errorf("value %v: needle ends at %v, want %v", tc.value, pts[1], tc.want)
		}
		if w := ops[0].Style.LineWidth; w != 5 {
			t.Errorf("value %v: width %v, want 5", tc.value, w)
		}
	}
}

func TestAngleForValueExtrapolates(t *testing.T) {
	g, err := NewAnalogGauge(DefaultAnalogConfig().TicksByCount(0, math.Pi, 4))
	if err != nil {
		t.Fatal(err)
	}
	if a := g.AngleForValue(150, 0, 100); !near(a, 1.5*math.Pi) {
		t.Errorf("angle = %v, want 1.5π", a)
	}
	if a := g.AngleForValue(-50, 0, 100); !near(a, -math.Pi/2) {
		t.Errorf("angle = %v, want -π/2", a)
	}
}

func TestFormatReadout(t *testing.T) {
	tests := []struct {
		value  float64
		digits int
		neg    bool
		pad    rune
		want   string
	}{
		{7, 3, false, '0', "007"},
		{-7, 3, false, '0', "-007"},
		{7, 3, true, '0', " 007"},
		{1234, 3, false, '0', "1234"},
		{165.5, 3, false, '0', "165.5"},
		{12, 4, true, ' ', "   12"},
		{0, 0, false, '0', "0"},
	}
	for _, tc := range tests {
		if got := FormatReadout(tc.value, tc.digits, tc.neg, tc.pad); got != tc.want {
			t.Errorf("FormatReadout(%v, %d, %v, %q) = %q, want %q", tc.value, tc.digits, tc.neg, tc.pad, got, tc.want)
		}
	}
}

func TestDrawLabels(t *testing.T) {
	for _, rotate := range []bool{false, true} {
		cfg := speedometerConfig().LabelBigTicksEvenly(0, 300)
		cfg.LabelsRotate = rotate
		g, err := NewAnalogGauge(cfg)
		if err != nil {
			t.Fatal(err)
		}
		rec := record.New()
		g.Draw(rec, 280, 180, 0)

		if got := rec.Texts(); !slices.Equal(got, cfg.Labels) {
			t.Errorf("rotate=%v: texts = %q, want %q", rotate, got, cfg.Labels)
		}
		if n := len(rec.OpsOf(record.OpStrokeText)); n != len(cfg.Labels) {
			t.Errorf("rotate=%v: %d outlines", rotate, n)
		}
		for _, op := range rec.OpsOf(record.OpFillText) {
			if op.Style.FillColor != yellow || op.Style.StrokeColor != black || op.Style.LineWidth != 2 {
				t.Errorf("rotate=%v: label style %+v", rotate, op.Style)
			}
			d := math.Hypot(op.At.X-280, op.At.Y-180)
			if d < g.Radius()+10-1e-6 {
				t.Errorf("rotate=%v: label %q inside the ring at %v", rotate, op.Text, d)
			}
		}
	}
}

func TestDrawHighlightAndDot(t *testing.T) {
	g, err := NewAnalogGauge(DefaultAnalogConfig())
	if err != nil {
		t.Fatal(err)
	}
	rec := record.New()
	g.Draw(rec, 0, 0, 0)

	strokes := rec.OpsOf(record.OpStroke)
	if len(strokes) != 2 {
		t.Fatalf("%d strokes, want 2", len(strokes))
	}
	if w := strokes[1].Style.LineWidth; w != 0.3 {
		t.Errorf("highlight width = %v", w)
	}
	// Ring plus one subpath per tick; the first tick lies along +X.
	hl := strokes[1].Path
	if len(hl) != 17 {
		t.Fatalf("highlight has %d subpaths, want 17", len(hl))
	}
	if end := hl[1].Points[1]; !near(end.X, 100-25+3) || !near(end.Y, 0) {
		t.Errorf("highlight tick ends at %v", end)
	}
	if n := len(rec.OpsOf(record.OpFill)); n != 1 {
		t.Errorf("%d fills, want the center dot", n)
	}
}

func TestDrawOuterSpeedLine(t *testing.T) {
	g, err := NewAnalogGauge(DefaultAnalogConfig())
	if err != nil {
		t.Fatal(err)
	}
	rec := record.New()
	g.DrawOuterSpeedLine(rec, 10, 20, 1, 0.5, TrendStyle{})

	ops := rec.OpsOf(record.OpStroke)
	if len(ops) != 1 {
		t.Fatalf("%d strokes", len(ops))
	}
	op := ops[0]
	if op.Style.StrokeColor != magenta || op.Style.LineWidth != 3 {
		t.Errorf("style %+v", op.Style)
	}
	pts := op.Path[0].Points
	first, last := pts[0], pts[len(pts)-1]
	if want := geom.Polar(10, 20, 106, 0.5); !near(first.X, want.X) || !near(first.Y, want.Y) {
		t.Errorf("starts at %v, want %v", first, want)
	}
	if want := geom.Polar(10, 20, 106, 1); !near(last.X, want.X) || !near(last.Y, want.Y) {
		t.Errorf("ends at %v, want %v", last, want)
	}
	for _, p := range pts[2 : len(pts)-1] {
		if d := math.Hypot(p.X-10, p.Y-20); !near(d, 130) {
			t.Errorf("arc point %v at radius %v", p, d)
		}
	}
}

func TestDrawLabelText(t *testing.T) {
	g, err := NewAnalogGauge(speedometerConfig())
	if err != nil {
		t.Fatal(err)
	}
	rec := record.New()
	g.DrawLabelText(rec, 280, 180, 7, 3, false, '0')

	texts := rec.OpsOf(record.OpFillText)
	if len(texts) != 1 || texts[0].Text != "007" {
		t.Fatalf("texts = %q", rec.Texts())
	}
	if at := texts[0].At; !near(at.X, 280) || !near(at.Y, 180+0.4*110) {
		t.Errorf("plate centred at %v", at)
	}
}

func TestLabelPlate(t *testing.T) {
	rec := record.New()
	p := LabelPlate{GoalHeight: 40}
	// The recorder's face is exactly as tall as its size.
	if k := p.Scale(rec, "123"); !near(k, 0.1) {
		t.Fatalf("scale = %v, want 0.1", k)
	}
	p.Draw(rec, 50, 60, "123")

	fills := rec.OpsOf(record.OpFill)
	if len(fills) != 1 || fills[0].Style.FillColor != plateFill {
		t.Fatalf("plate fills = %+v", fills)
	}
	path := surface.Path{Subpaths: fills[0].Path}
	lo, hi, ok := path.Bounds()
	if !ok {
		t.Fatal("empty plate")
	}
	textW := 7 * 3 * 400.0 / 13
	if w := hi.X - lo.X; !near(w, (textW+80)*0.1) {
		t.Errorf("plate width = %v", w)
	}
	if h := hi.Y - lo.Y; !near(h, (400+80)*0.1) {
		t.Errorf("plate height = %v", h)
	}

	strokes := rec.OpsOf(record.OpStroke)
	if len(strokes) != 1 || !near(strokes[0].Style.LineWidth*0.1, 4) {
		t.Errorf("border strokes = %+v", strokes)
	}
	outline := rec.OpsOf(record.OpStrokeText)
	if len(outline) != 1 || outline[0].Style.LineWidth != 50 || outline[0].Style.LineJoin != surface.JoinRound {
		t.Errorf("outline = %+v", outline)
	}
	if fill := rec.OpsOf(record.OpFillText); len(fill) != 1 || fill[0].Style.FillColor != white {
		t.Errorf("text fill = %+v", fill)
	}
}
