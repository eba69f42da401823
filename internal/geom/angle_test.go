package geom

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	for _, a := range []float64{
		0, 1, -1, math.Pi, -math.Pi, TwoPi, -TwoPi, 3 * TwoPi, -7.5 * TwoPi,
		1e-17, -1e-17, 1234.5678, -98765.4321, TwoPi - 1e-12,
	} {
		n := NormalizeAngle(a)
		if n < 0 || n >= TwoPi {
			t.Errorf("NormalizeAngle(%v) = %v, outside [0, 2π)", a, n)
		}
		// congruent mod 2π
		d := math.Remainder(n-a, TwoPi)
		if math.Abs(d) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, not congruent (diff %v)", a, n, d)
		}
	}

	for _, a := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if n := NormalizeAngle(a); n != 0 {
			t.Errorf("NormalizeAngle(%v) = %v, expected 0", a, n)
		}
	}
}

func TestWrappedSpan(t *testing.T) {
	type testCase struct {
		start, end float64
		want       float64
	}
	for _, tc := range []testCase{
		{start: 0, end: math.Pi, want: math.Pi},
		{start: 1, end: 2, want: 1},
		{start: 0.75 * math.Pi, end: 0.251 * math.Pi, want: TwoPi - (0.75*math.Pi - 0.251*math.Pi)},
		{start: 2, end: 2, want: TwoPi},
		{start: 0, end: TwoPi - 0.01, want: TwoPi - 0.01},
	} {
		if got := WrappedSpan(tc.start, tc.end); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("WrappedSpan(%v, %v) = %v, expected %v", tc.start, tc.end, got, tc.want)
		}
	}

	if WrappedEnd(1, 3) != 3 {
		t.Errorf("WrappedEnd(1, 3) should not wrap")
	}
	if got := WrappedEnd(3, 1); got != 1+TwoPi {
		t.Errorf("WrappedEnd(3, 1) = %v, expected %v", got, 1+TwoPi)
	}
}

func TestDegRadRoundTrip(t *testing.T) {
	for _, d := range []float64{0, 1, -1, 45, 90, -90, 180, 359.999, 1e6, -1e-6, 12345.678} {
		got := RadToDeg(DegToRad(d))
		if math.Abs(got-d) > 1e-9*math.Max(1, math.Abs(d)) {
			t.Errorf("round trip %v -> %v", d, got)
		}
	}
	if DegToRad(180) != math.Pi {
		t.Errorf("DegToRad(180) = %v", DegToRad(180))
	}
}

func TestMapRange(t *testing.T) {
	if got := MapRange(150, 0, 300, 10, 20); got != 15 {
		t.Errorf("midpoint mapped to %v", got)
	}
	if got := MapRange(600, 0, 300, 0, 1); got != 2 {
		t.Errorf("extrapolation gave %v, expected 2", got)
	}
	if got := MapRange(5, 3, 3, 7, 9); got != 7 {
		t.Errorf("degenerate input range gave %v", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Errorf("Clamp is broken")
	}
	if Clamp(1.5, 0.0, 1.0) != 1.0 {
		t.Errorf("float Clamp is broken")
	}
}

func TestPolar(t *testing.T) {
	p := Polar(10, 20, 2, math.Pi/2)
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y-22) > 1e-9 {
		t.Errorf("Polar = %+v, expected (10, 22)", p)
	}
	if d := p.Sub(Point{X: 10, Y: 20}).Length(); math.Abs(d-2) > 1e-12 {
		t.Errorf("Polar distance = %v, expected 2", d)
	}
}
