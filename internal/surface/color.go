package surface

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
)

// NRGBA converts any color to non-premultiplied 8-bit RGBA.
func NRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// Hex parses #rgb, #rrggbb or #rrggbbaa.
func Hex(s string) (color.NRGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("%q: color must start with #", s)
	}
	h := s[1:]
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("%q: unexpected length", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustHex is Hex for package-level color tables.
func MustHex(s string) color.NRGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ColorStop is one stop of a gradient.
type ColorStop struct {
	Offset float64
	Color  color.NRGBA
}

// LinearGradient varies color along the line from (X0, Y0) to (X1, Y1)
// in the user space current when the fill happens.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

// NewLinearGradient returns a gradient with its stops sorted by offset.
func NewLinearGradient(x0, y0, x1, y1 float64, stops ...ColorStop) *LinearGradient {
	g := &LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: append([]ColorStop(nil), stops...)}
	sort.SliceStable(g.Stops, func(i, j int) bool { return g.Stops[i].Offset < g.Stops[j].Offset })
	return g
}

// ColorAt returns the color t of the way along the gradient.
func (g *LinearGradient) ColorAt(t float64) color.NRGBA {
	if len(g.Stops) == 0 {
		return color.NRGBA{}
	}
	if t <= g.Stops[0].Offset {
		return g.Stops[0].Color
	}
	last := g.Stops[len(g.Stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 0; i < len(g.Stops)-1; i++ {
		a, b := g.Stops[i], g.Stops[i+1]
		if t < a.Offset || t > b.Offset {
			continue
		}
		if b.Offset == a.Offset {
			return a.Color
		}
		r := (t - a.Offset) / (b.Offset - a.Offset)
		mix := func(x, y uint8) uint8 {
			return uint8(float64(x) + r*(float64(y)-float64(x)) + 0.5)
		}
		return color.NRGBA{R: mix(a.Color.R, b.Color.R), G: mix(a.Color.G, b.Color.G),
			B: mix(a.Color.B, b.Color.B), A: mix(a.Color.A, b.Color.A)}
	}
	return last.Color
}

// ParamAt projects (x, y) onto the gradient line.
func (g *LinearGradient) ParamAt(x, y float64) float64 {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return 0
	}
	return ((x-g.X0)*dx + (y-g.Y0)*dy) / l2
}
