package raster

import (
	"testing"

	"lightbake/math"
)

func TestRasterizeTriangleMaskCoverage(t *testing.T) {
	canvas := NewCanvas(64, 64, []Kind{KindScalar})
	scanner := NewScanner(canvas)

	pt := func(x, y float32) Point {
		p := NewPoint(math.Vec2{X: x, Y: y}, 1)
		p.Plot[0] = NewScalar(1)
		return p
	}

	p0 := pt(0.1*63, 0.1*63)
	p1 := pt(0.9*63, 0.1*63)
	p2 := pt(0.5*63, 0.9*63)
	RasterizeTriangle(scanner, p0, p1, p2)

	count := 0
	for y := 0; y < canvas.H; y++ {
		for x := 0; x < canvas.W; x++ {
			if canvas.At(0, x, y).Scalar > 0 {
				count++
			}
		}
	}
	if count == 0 {
		t.Fatal("expected some texels covered by the triangle mask")
	}

	// Roughly check coverage is in the right ballpark of the triangle's
	// area (half base times height, in texels) rather than empty or the
	// whole canvas.
	base := 0.8 * 63
	height := 0.8 * 63
	approxArea := 0.5 * base * height
	if float64(count) < approxArea*0.5 || float64(count) > approxArea*1.5 {
		t.Errorf("covered %d texels, expected roughly %v", count, approxArea)
	}
}

func TestBlendPointsLerpsScalar(t *testing.T) {
	a := NewPoint(math.Vec2{X: 0, Y: 0}, 1)
	a.Plot[0] = NewScalar(0)
	b := NewPoint(math.Vec2{X: 10, Y: 10}, 1)
	b.Plot[0] = NewScalar(10)

	mid := blendPoints(a, b, 0.5)
	if mid.Plot[0].Scalar != 5 {
		t.Errorf("expected lerp midpoint 5, got %v", mid.Plot[0].Scalar)
	}
	if mid.P.X != 5 || mid.P.Y != 5 {
		t.Errorf("expected position midpoint (5,5), got %+v", mid.P)
	}
}
