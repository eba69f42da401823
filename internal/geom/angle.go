// Package geom holds the angle and plane arithmetic shared by the
// instruments and the drawing surfaces.
package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// NormalizeAngle maps a onto [0, 2π). Non-finite angles map to 0.
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// -tiny + 2π rounds up to 2π
	if a >= TwoPi {
		a = 0
	}
	return a
}

// DegToRad converts degrees to radians.
func DegToRad(d float64) float64 {
	return d / 180 * math.Pi
}

// RadToDeg converts radians to degrees.
func RadToDeg(r float64) float64 {
	return r * 180 / math.Pi
}

// WrappedEnd returns the end of the arc that starts at start and runs
// forward to end, wrapping through zero when end is not past start.
func WrappedEnd(start, end float64) float64 {
	if end > start {
		return end
	}
	return end + TwoPi
}

// WrappedSpan is the length of the forward arc from start to end.
func WrappedSpan(start, end float64) float64 {
	return WrappedEnd(start, end) - start
}

// Lerp interpolates between a and b; x of 0 gives a and 1 gives b.
func Lerp[T constraints.Float](x, a, b T) T {
	return (1-x)*a + x*b
}

// Clamp limits x to [low, high].
func Clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

// MapRange maps v linearly from [inMin, inMax] onto [outMin, outMax].
// Values outside the input range extrapolate.
func MapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return Lerp((v-inMin)/(inMax-inMin), outMin, outMax)
}
