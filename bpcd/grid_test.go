package bpcd

import (
	"testing"

	"lightbake/arena"
	"lightbake/math"
)

func singleTriGrid(t *testing.T) *Grid {
	t.Helper()
	heap := arena.New(64 * 1024)
	g := NewGrid(heap, 1)
	tris := [][3]math.Vec3{{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}}
	g.Build(tris, 0.5)
	return g
}

func TestTraceRayHit(t *testing.T) {
	g := singleTriGrid(t)
	seg := math.NewRaySegFromPoints(
		math.Vec3{X: 0.25, Y: 0.25, Z: 1},
		math.Vec3{X: 0.25, Y: 0.25, Z: -1},
	)
	trace := g.TraceRay(seg, nil)
	if !trace.Hit {
		t.Fatal("expected a hit")
	}
	want := math.Vec3{X: 0.25, Y: 0.25, Z: 0}
	if diff := trace.Point.Sub(want).Length(); diff > 1e-4 {
		t.Errorf("hit point = %+v, want %+v (diff %v)", trace.Point, want, diff)
	}
}

func TestTraceRayMiss(t *testing.T) {
	g := singleTriGrid(t)
	seg := math.NewRaySegFromPoints(
		math.Vec3{X: 10, Y: 10, Z: 1},
		math.Vec3{X: 10, Y: 10, Z: -1},
	)
	trace := g.TraceRay(seg, nil)
	if trace.Hit {
		t.Errorf("expected a miss, got hit at %+v", trace.Point)
	}
}

func TestGridCompleteness(t *testing.T) {
	heap := arena.New(64 * 1024)
	g := NewGrid(heap, 1)
	tris := [][3]math.Vec3{{
		{X: 0, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 0, Y: 2, Z: 0},
	}}
	g.Build(tris, 0.5)

	for l := -1; l <= 1; l++ {
		for r := -1; r <= 5; r++ {
			for c := -1; c <= 5; c++ {
				box := g.cellAabb(l, r, c)
				if !box.Intersects(tris[0]) {
					continue
				}
				cell, ok := g.Cells.Get(hashOf(l, r, c))
				if !ok || len(cell.Tris) == 0 {
					t.Errorf("cell (%d,%d,%d) intersects the triangle but is missing from the grid", l, r, c)
				}
			}
		}
	}
}
