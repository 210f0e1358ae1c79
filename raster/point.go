package raster

import "lightbake/math"

// Point is a raster sample site: a 2D position plus one plot Variable per
// canvas layer, in layer order.
type Point struct {
	P    math.Vec2
	Plot []Variable
}

// NewPoint allocates a Point with n zero-valued plot slots matching a
// Canvas's layer count; callers fill Plot before using the point.
func NewPoint(p math.Vec2, n int) Point {
	return Point{P: p, Plot: make([]Variable, n)}
}

// blendPoints linearly interpolates the position and every plot variable
// between a and b.
func blendPoints(a, b Point, alpha float32) Point {
	out := Point{P: a.P.Lerp(b.P, alpha), Plot: make([]Variable, len(a.Plot))}
	for i := range a.Plot {
		out.Plot[i] = Lerp(a.Plot[i], b.Plot[i], alpha)
	}
	return out
}
