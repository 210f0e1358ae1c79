package math

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestBcs3Roundtrip(t *testing.T) {
	o := NewVec3(0, 0, 0)
	p1 := NewVec3(1, 0, 0)
	p2 := NewVec3(0, 1, 0)
	bcs := NewBcs3(o, p1, p2)
	if !bcs.Valid {
		t.Fatal("expected valid frame")
	}

	cases := []BcsCoord{{0.25, 0.25}, {0, 0}, {1, 0}, {0, 1}, {0.5, 0.4}}
	for _, c := range cases {
		p := bcs.Point(c)
		got := bcs.project(p)
		if !almostEqual(got.Alpha, c.Alpha, 1e-5) || !almostEqual(got.Beta, c.Beta, 1e-5) {
			t.Errorf("roundtrip for %v: got %v", c, got)
		}
	}
}

func TestBcs3ProjectSignConvention(t *testing.T) {
	o := NewVec3(0, 0, 0)
	p1 := NewVec3(1, 0, 0)
	p2 := NewVec3(0, 1, 0)
	bcs := NewBcs3(o, p1, p2)

	// plane normal is +Z (u=X, v=Y => u x v = +Z)
	down := NewRay(NewVec3(0.25, 0.25, 1), NewVec3(0, 0, -1))
	if _, ok := bcs.ProjectRay(down); ok {
		t.Error("ProjectRay should reject d.n <= 0")
	}
	up := NewRay(NewVec3(0.25, 0.25, -1), NewVec3(0, 0, 1))
	if _, ok := bcs.ProjectRay(up); !ok {
		t.Error("ProjectRay should accept d.n > 0")
	}

	segDown := NewRaySeg(down, 10)
	if _, ok := bcs.ProjectRaySeg(segDown); !ok {
		t.Error("ProjectRaySeg should accept d.n < 0")
	}
	segUp := NewRaySeg(up, 10)
	if _, ok := bcs.ProjectRaySeg(segUp); ok {
		t.Error("ProjectRaySeg should reject d.n >= 0")
	}
}

func TestAabbClip(t *testing.T) {
	box := Aabb{P: Vec3{}, HalfSize: NewVec3(1, 1, 1)}

	inside := NewRay(Vec3{}, NewVec3(1, 0, 0))
	seg, ok := box.Clip(inside)
	if !ok {
		t.Fatal("expected hit")
	}
	if !almostEqual(seg.P.X, 0, 1e-5) {
		t.Errorf("ray originating inside box should start at origin, got %v", seg.P)
	}

	miss := NewRay(NewVec3(10, 10, 10), NewVec3(1, 0, 0))
	if _, ok := box.Clip(miss); ok {
		t.Error("expected miss for parallel ray outside slab")
	}
}

func TestRaySegDegenerate(t *testing.T) {
	seg := NewRaySegFromPoints(NewVec3(1, 1, 1), NewVec3(1, 1, 1))
	if !seg.IsPoint() {
		t.Error("expected degenerate point segment")
	}
	if seg.Dist != 0 {
		t.Errorf("expected zero distance, got %v", seg.Dist)
	}
}

func TestAabbFromExtentsCorrected(t *testing.T) {
	min := NewVec3(-2, -4, -1)
	max := NewVec3(1, 2, 3)
	box := AabbFromExtents(min, max)
	wantCenter := NewVec3(-0.5, -1, 1)
	if box.P != wantCenter {
		t.Errorf("expected center %v, got %v", wantCenter, box.P)
	}
	wantHalf := NewVec3(1.5, 3, 2)
	if box.HalfSize != wantHalf {
		t.Errorf("expected half size %v, got %v", wantHalf, box.HalfSize)
	}
}
