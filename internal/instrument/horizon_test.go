package instrument

import (
	"errors"
	"math"
	"slices"
	"testing"

	"glasscockpit/internal/geom"
	"glasscockpit/internal/surface/record"
)

var demoPPR = 65 / geom.DegToRad(10)

func newDefaultHorizon(t *testing.T) *Horizon {
	t.Helper()
	hz, err := NewHorizon(DefaultHorizonConfig())
	if err != nil {
		t.Fatal(err)
	}
	return hz
}

func TestLadderPivot(t *testing.T) {
	hz := newDefaultHorizon(t)
	tests := []struct {
		pitchDeg float64
		index    int
		angleDeg float64
	}{
		{0, 0, 0},
		{1, 0, 0},
		{2.5, 1, 2.5},
		{12, 0, 10},
		{-1, 3, -2.5},
		{-10, 0, -10},
		{-11, 3, -12.5},
	}
	for _, tc := range tests {
		pitch := geom.DegToRad(tc.pitchDeg)
		rungs := hz.Ladder(pitch, 420, demoPPR)
		if len(rungs) == 0 {
			t.Fatalf("pitch %v: no rungs", tc.pitchDeg)
		}
		r := rungs[0]
		if r.Index != tc.index || !near(geom.RadToDeg(r.Angle), tc.angleDeg) {
			t.Errorf("pitch %v: pivot = (%d, %v°), want (%d, %v°)", tc.pitchDeg, r.Index, geom.RadToDeg(r.Angle), tc.index, tc.angleDeg)
		}
		if want := (pitch - r.Angle) * demoPPR; !near(r.Offset, want) {
			t.Errorf("pitch %v: pivot offset %v, want %v", tc.pitchDeg, r.Offset, want)
		}
	}
}

func TestLadderWindow(t *testing.T) {
	hz := newDefaultHorizon(t)
	rungs := hz.Ladder(0, 420, demoPPR)
	// 2.5° is 16.25 px; the window edge is 147 px from the center.
	if len(rungs) != 19 {
		t.Fatalf("got %d rungs, want 19", len(rungs))
	}
	limit := 420/2 - 1.5*0.1*420
	seen := map[int64]bool{}
	for _, r := range rungs {
		if math.Abs(r.Offset) >= limit {
			t.Errorf("rung at %v° outside the window (%v px)", geom.RadToDeg(r.Angle), r.Offset)
		}
		key := int64(math.Round(geom.RadToDeg(r.Angle) * 1000))
		if seen[key] {
			t.Errorf("duplicate rung at %v°", geom.RadToDeg(r.Angle))
		}
		seen[key] = true
		want := int(math.Round(geom.RadToDeg(r.Angle)/2.5)) % 4
		if want < 0 {
			want += 4
		}
		if r.Index != want {
			t.Errorf("rung at %v° uses pattern entry %d, want %d", geom.RadToDeg(r.Angle), r.Index, want)
		}
	}
}

func TestLadderStopsAtVertical(t *testing.T) {
	hz := newDefaultHorizon(t)
	for _, pitchDeg := range []float64{90, 85, -90, -85, 0} {
		rungs := hz.Ladder(geom.DegToRad(pitchDeg), 100000, 100)
		if len(rungs) == 0 {
			t.Fatalf("pitch %v: no rungs", pitchDeg)
		}
		var top, bottom bool
		for _, r := range rungs {
			if r.Angle > math.Pi/2+1e-9 || r.Angle < -math.Pi/2-1e-9 {
				t.Errorf("pitch %v: rung past vertical at %v°", pitchDeg, geom.RadToDeg(r.Angle))
			}
			top = top || near(r.Angle, math.Pi/2)
			bottom = bottom || near(r.Angle, -math.Pi/2)
		}
		if !top || !bottom {
			t.Errorf("pitch %v: ladder does not reach both ends (top %v, bottom %v)", pitchDeg, top, bottom)
		}
	}
}

func unalignedHorizon(t *testing.T, stepsDeg ...float64) *Horizon {
	t.Helper()
	cfg := HorizonConfig{CornerSize: 0.1}
	for i, d := range stepsDeg {
		cfg.LinePattern = append(cfg.LinePattern, HorizonLine{AngleStep: geom.DegToRad(d), WidthFraction: 0.5, Labeled: i == 0})
	}
	hz, err := NewHorizon(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return hz
}

func TestLadderStopsAtVerticalUnaligned(t *testing.T) {
	const eps = 1e-9
	patterns := [][]float64{{7, 10.5}, {13, 19.5}, {0.9, 1.35}}
	for _, steps := range patterns {
		hz := unalignedHorizon(t, steps...)
		pat := hz.Config().LinePattern
		n := len(pat)
		for _, pitchDeg := range []float64{0, 45, 89, 90, -90, -33.3} {
			rungs := hz.Ladder(geom.DegToRad(pitchDeg), 100000, 100)
			if len(rungs) == 0 {
				t.Fatalf("%v at %v°: no rungs", steps, pitchDeg)
			}
			top, bottom := rungs[0], rungs[0]
			seen := map[int64]bool{}
			for _, r := range rungs {
				if r.Angle > math.Pi/2+eps || r.Angle < -math.Pi/2-eps {
					t.Errorf("%v at %v°: rung past vertical at %v°", steps, pitchDeg, geom.RadToDeg(r.Angle))
				}
				key := int64(math.Round(geom.RadToDeg(r.Angle) * 1000))
				if seen[key] {
					t.Errorf("%v at %v°: duplicate rung at %v°", steps, pitchDeg, geom.RadToDeg(r.Angle))
				}
				seen[key] = true
				if r.Angle > top.Angle {
					top = r
				}
				if r.Angle < bottom.Angle {
					bottom = r
				}
			}
			// The next bar beyond each end must be past vertical.
			if next := top.Angle + pat[top.Index].AngleStep; next <= math.Pi/2+eps {
				t.Errorf("%v at %v°: ladder stops at %v°, next bar %v° is not past 90°",
					steps, pitchDeg, geom.RadToDeg(top.Angle), geom.RadToDeg(next))
			}
			if next := bottom.Angle - pat[(bottom.Index-1+n)%n].AngleStep; next >= -math.Pi/2-eps {
				t.Errorf("%v at %v°: ladder stops at %v°, next bar %v° is not past -90°",
					steps, pitchDeg, geom.RadToDeg(bottom.Angle), geom.RadToDeg(next))
			}
		}
	}
}

func TestPivotContainsPitchAtPeriodBoundaries(t *testing.T) {
	horizons := []*Horizon{newDefaultHorizon(t), unalignedHorizon(t, 7, 10.5), unalignedHorizon(t, 0.9, 1.35)}
	for _, hz := range horizons {
		pat := hz.Config().LinePattern
		var pitches []float64
		for k := -40; k <= 40; k++ {
			b := float64(k) * hz.Period()
			pitches = append(pitches, math.Nextafter(b, math.Inf(-1)), b, math.Nextafter(b, math.Inf(1)))
		}
		pitches = append(pitches, 1.9198621771937623)
		for _, pitch := range pitches {
			idx, angle := hz.pivot(pitch)
			if angle > pitch || angle+pat[idx].AngleStep <= pitch {
				t.Errorf("period %v: pivot [%v, %v) does not contain pitch %v",
					hz.Period(), angle, angle+pat[idx].AngleStep, pitch)
			}
		}
	}
}

func TestLadderNonFinite(t *testing.T) {
	hz := newDefaultHorizon(t)
	for _, p := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if rungs := hz.Ladder(p, 420, demoPPR); rungs != nil {
			t.Errorf("pitch %v: %d rungs", p, len(rungs))
		}
	}
}

func TestPitchLabel(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "0"},
		{-1e-6, "0"},
		{10, "10"},
		{-10, "-10"},
		{2.5, "2.5"},
		{-7.5, "-7.5"},
	}
	for _, tc := range tests {
		if got := pitchLabel(geom.DegToRad(tc.deg)); got != tc.want {
			t.Errorf("pitchLabel(%v°) = %q, want %q", tc.deg, got, tc.want)
		}
	}
}

func TestHorizonDraw(t *testing.T) {
	hz := newDefaultHorizon(t)
	rec := record.New()
	hz.Draw(rec, 960, 540, 350, 420, demoPPR, 0, 0)

	want := []string{"0", "0", "-10", "-10", "-20", "-20", "10", "10", "20", "20"}
	if got := rec.Texts(); !slices.Equal(got, want) {
		t.Errorf("labels = %q, want %q", got, want)
	}

	strokes := rec.OpsOf(record.OpStroke)
	if len(strokes) != 2 {
		t.Fatalf("%d strokes, want corners and bars", len(strokes))
	}
	if n := len(strokes[0].Path); n != 4 {
		t.Errorf("%d corner marks", n)
	}
	if n := len(strokes[1].Path); n != 19 {
		t.Errorf("%d bars", n)
	}
	for _, op := range strokes {
		if op.Style.StrokeColor != green || op.Style.LineWidth != 6 {
			t.Errorf("stroke style %+v", op.Style)
		}
	}
	// The zero bar spans 4/7 of the width, centred.
	bar := strokes[1].Path[0].Points
	if !near(bar[0].X, 960-100) || !near(bar[1].X, 960+100) || !near(bar[0].Y, 540) {
		t.Errorf("zero bar = %v", bar)
	}
	for _, op := range rec.OpsOf(record.OpStrokeText) {
		if op.Style.StrokeColor != black || op.Style.LineWidth != 5 {
			t.Errorf("label outline style %+v", op.Style)
		}
	}
}

func TestHorizonRollRotatesFrame(t *testing.T) {
	hz := newDefaultHorizon(t)
	rec := record.New()
	hz.Draw(rec, 0, 0, 350, 420, demoPPR, 0, math.Pi/2)

	bar := rec.OpsOf(record.OpStroke)[1].Path[0].Points
	if !near(bar[0].X, 0) || !near(bar[0].Y, -100) || !near(bar[1].Y, 100) {
		t.Errorf("rolled zero bar = %v", bar)
	}
}

func TestNewHorizonRejects(t *testing.T) {
	tests := []struct {
		name    string
		pattern []HorizonLine
	}{
		{"empty", nil},
		{"zero step", []HorizonLine{{AngleStep: 0, WidthFraction: 0.5}}},
		{"negative step", []HorizonLine{{AngleStep: 0.1, WidthFraction: 0.5}, {AngleStep: -0.1, WidthFraction: 0.5}}},
		{"NaN step", []HorizonLine{{AngleStep: math.NaN(), WidthFraction: 0.5}}},
		{"wide", []HorizonLine{{AngleStep: 0.1, WidthFraction: 1.5}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultHorizonConfig()
			cfg.LinePattern = tc.pattern
			if _, err := NewHorizon(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestHorizonPeriod(t *testing.T) {
	hz := newDefaultHorizon(t)
	if p := hz.Period(); !near(p, geom.DegToRad(10)) {
		t.Errorf("period = %v", p)
	}
}
