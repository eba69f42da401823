package geom

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Point is a position on the drawing plane. Y grows downward.
type Point = vec.Vec2

// Polar returns the point at distance r from (cx, cy) along angle a.
func Polar(cx, cy, r, a float64) Point {
	return Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
}
