package math

import "math"

// Tol governs "zero-length"/"parallel" decisions across the geometry
// package; TolSq is its squared form for use against LengthSqr results.
const (
	Tol   = 1e-8
	TolSq = 1e-16
)

// Ray is an origin plus a normalized direction.
type Ray struct {
	P Vec3
	D Vec3
}

// NewRay normalizes d on construction so every downstream consumer can
// assume a unit direction.
func NewRay(p, d Vec3) Ray {
	return Ray{P: p, D: d.Normalize()}
}

// RaySeg is a Ray bounded to a finite, non-negative distance.
type RaySeg struct {
	Ray
	Dist float32
}

// NewRaySegFromPoints builds a segment from p to p2, collapsing to a
// zero-length "point" segment when the two endpoints coincide within Tol.
func NewRaySegFromPoints(p, p2 Vec3) RaySeg {
	d := p2.Sub(p)
	lenSq := d.LengthSqr()
	if lenSq <= TolSq {
		return RaySeg{Ray: Ray{P: p, D: Vec3Zero}, Dist: 0}
	}
	dist := float32(math.Sqrt(float64(lenSq)))
	return RaySeg{Ray: Ray{P: p, D: d.Mul(1 / dist)}, Dist: dist}
}

// NewRaySeg extends ray to a finite distance. Unlike the reference
// implementation it does not trust the caller's direction: ray.D is
// normalized here, so End() is correct even for a hand-built Ray.
func NewRaySeg(ray Ray, dist float32) RaySeg {
	return RaySeg{Ray: Ray{P: ray.P, D: ray.D.Normalize()}, Dist: dist}
}

func (r RaySeg) IsPoint() bool {
	return r.Dist <= Tol
}

func (r RaySeg) End() Vec3 {
	return r.P.Add(r.D.Mul(r.Dist))
}

// Plane is the unit normal n plus signed distance dist = n·p0.
type Plane struct {
	N    Vec3
	Dist float32
}

func NewPlane(n Vec3, p0 Vec3) Plane {
	un := n.Normalize()
	return Plane{N: un, Dist: un.Dot(p0)}
}

// Calculate returns the signed distance of p from the plane.
func (p Plane) Calculate(pt Vec3) float32 {
	return p.N.Dot(pt) - p.Dist
}

// Side is the three-valued classification used by getSide in the
// reference plane: Front, Back, or On (within a Tol-wide band).
type Side int

const (
	SideOn Side = iota
	SideFront
	SideBack
)

func (p Plane) GetSide(pt Vec3) Side {
	d := p.Calculate(pt)
	switch {
	case d > Tol:
		return SideFront
	case d < -Tol:
		return SideBack
	default:
		return SideOn
	}
}

// RayDist solves the line-plane equation for the distance along ray to the
// plane. ddotn may be supplied by the caller when already computed (Bcs3's
// project methods do this); omit it to let RayDist compute it. A supplied
// or computed zero (ray parallel to the plane) yields +Inf.
func (p Plane) RayDist(ray Ray, ddotn ...float32) float32 {
	var dn float32
	if len(ddotn) > 0 {
		dn = ddotn[0]
	} else {
		dn = ray.D.Dot(p.N)
	}
	if dn == 0 {
		return float32(math.Inf(1))
	}
	return (p.Dist - p.N.Dot(ray.P)) / dn
}

// Sphere is a bounding sphere stored as center plus squared radius.
type Sphere struct {
	Center Vec3
	RSq    float32
}

// Touches is a conservative (over-estimating) overlap test used only for
// broad cull-in before a tighter test runs: the spheres touch when their
// centers are closer than the sum of their radii.
func (s Sphere) Touches(o Sphere) bool {
	d := s.Center.Sub(o.Center)
	r := float32(math.Sqrt(float64(s.RSq))) + float32(math.Sqrt(float64(o.RSq)))
	return d.LengthSqr() < r*r
}

// Aabb is an axis-aligned box stored as center + half-size.
type Aabb struct {
	P        Vec3
	HalfSize Vec3
}

// AabbFromExtents builds a box from a min/max corner pair: the centroid
// of min and max, and a half-size of half the absolute per-axis extent.
func AabbFromExtents(min, max Vec3) Aabb {
	center := min.Add(max).Mul(0.5)
	size := Vec3{
		X: float32(math.Abs(float64(max.X - min.X))),
		Y: float32(math.Abs(float64(max.Y - min.Y))),
		Z: float32(math.Abs(float64(max.Z - min.Z))),
	}
	return Aabb{P: center, HalfSize: size.Mul(0.5)}
}

func (a Aabb) MinExtent() Vec3 {
	return a.P.Sub(a.HalfSize)
}

func (a Aabb) MaxExtent() Vec3 {
	return a.P.Add(a.HalfSize)
}

func (a Aabb) Size() Vec3 {
	return a.HalfSize.Mul(2)
}

func (a Aabb) Inside(p Vec3) bool {
	min, max := a.MinExtent(), a.MaxExtent()
	return p.X >= min.X && p.X <= max.X &&
		p.Y >= min.Y && p.Y <= max.Y &&
		p.Z >= min.Z && p.Z <= max.Z
}

// Clip intersects ray against the box via the slab method, returning the
// portion of the ray inside the box. A parallel axis whose origin lies
// outside that axis' slab is a miss; a box entirely behind the origin
// (tMax < 0) is a miss; tMin is clamped to 0 so the result never starts
// behind the ray origin.
func (a Aabb) Clip(ray Ray) (RaySeg, bool) {
	min, max := a.MinExtent(), a.MaxExtent()

	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))

	axes := [3]float32{ray.D.X, ray.D.Y, ray.D.Z}
	pAxes := [3]float32{ray.P.X, ray.P.Y, ray.P.Z}
	minAxes := [3]float32{min.X, min.Y, min.Z}
	maxAxes := [3]float32{max.X, max.Y, max.Z}

	for i := 0; i < 3; i++ {
		if axes[i] == 0 {
			if pAxes[i] < minAxes[i] || pAxes[i] > maxAxes[i] {
				return RaySeg{}, false
			}
			continue
		}
		inv := 1 / axes[i]
		t0 := (minAxes[i] - pAxes[i]) * inv
		t1 := (maxAxes[i] - pAxes[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return RaySeg{}, false
		}
	}

	if tMax < 0 {
		return RaySeg{}, false
	}
	if tMin < 0 {
		tMin = 0
	}

	p1 := ray.P.Add(ray.D.Mul(tMin))
	p2 := ray.P.Add(ray.D.Mul(tMax))
	return NewRaySegFromPoints(p1, p2), true
}

// sat is the separating-axis accumulator: project two point sets onto an
// axis and test whether their intervals overlap.
type sat struct {
	axis     Vec3
	min, max [2]float32
	init     [2]bool
}

func newSat(axis Vec3) *sat {
	return &sat{axis: axis}
}

func (s *sat) set(p Vec3, set int) {
	v := p.Dot(s.axis)
	s.min[set] = v
	s.max[set] = v
	s.init[set] = true
}

func (s *sat) append(p Vec3, set int) {
	if !s.init[set] {
		s.set(p, set)
		return
	}
	v := p.Dot(s.axis)
	if v < s.min[set] {
		s.min[set] = v
	}
	if v > s.max[set] {
		s.max[set] = v
	}
}

func (s *sat) overlap() bool {
	return s.min[0] <= s.max[1] && s.min[1] <= s.max[0]
}

// CollidesWith is a strict SAT test over the 13 candidate axes: the 3 box
// axes, the triangle normal, and the 9 edge-x-box-axis crosses. Axes whose
// length squared falls below TolSq are skipped (degenerate cross product).
func (a Aabb) CollidesWith(tri [3]Vec3) bool {
	boxAxes := [3]Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	min, max := a.MinExtent(), a.MaxExtent()

	overlap := func(axis Vec3) bool {
		s := newSat(axis)
		s.set(min, 0)
		s.append(max, 0)
		s.set(tri[0], 1)
		s.append(tri[1], 1)
		s.append(tri[2], 1)
		return s.overlap()
	}

	n := tri[0].Point(tri[1]).Cross(tri[0].Point(tri[2]))
	plane := NewPlane(n, tri[0])

	for j := 0; j < 3; j++ {
		if !overlap(boxAxes[j]) {
			return false
		}
	}

	for i := 0; i < 3; i++ {
		edge := tri[(i+1)%3].Point(tri[i])
		for j := 0; j < 3; j++ {
			axis := edge.Cross(boxAxes[j])
			if axis.LengthSqr() < TolSq {
				continue
			}
			if !overlap(axis) {
				return false
			}
		}
	}
	if plane.N.LengthSqr() >= TolSq && !overlap(plane.N) {
		return false
	}
	return true
}

// Intersects is the permissive union test the grid builder uses to decide
// cell membership: a vertex inside the box, any edge crossing the box, or
// the triangle's plane slicing through any box edge all count as a touch.
// It deliberately allows false positives (over-inclusion); it must never
// produce a false negative.
func (a Aabb) Intersects(tri [3]Vec3) bool {
	for _, v := range tri {
		if a.Inside(v) {
			return true
		}
	}

	edges := [3][2]Vec3{{tri[0], tri[1]}, {tri[1], tri[2]}, {tri[2], tri[0]}}
	for _, e := range edges {
		seg := NewRaySegFromPoints(e[0], e[1])
		if seg.IsPoint() {
			continue
		}
		if clipped, ok := a.Clip(seg.Ray); ok && seg.P.Distance(clipped.P) <= seg.Dist+Tol {
			return true
		}
	}

	n := tri[0].Point(tri[1]).Cross(tri[0].Point(tri[2]))
	if n.LengthSqr() < TolSq {
		return false
	}
	plane := NewPlane(n, tri[0])

	corners := boxCorners(a)
	boxEdges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range boxEdges {
		p0, p1 := corners[e[0]], corners[e[1]]
		s0, s1 := plane.Calculate(p0), plane.Calculate(p1)
		if (s0 > Tol && s1 > Tol) || (s0 < -Tol && s1 < -Tol) {
			continue
		}
		denom := s0 - s1
		if float32(math.Abs(float64(denom))) < Tol {
			continue
		}
		alpha := s0 / denom
		if alpha < 0 || alpha > 1 {
			continue
		}
		hit := p0.Add(p1.Sub(p0).Mul(alpha))
		if pointInTriangle(hit, tri, n) {
			return true
		}
	}
	return false
}

func boxCorners(a Aabb) [8]Vec3 {
	min, max := a.MinExtent(), a.MaxExtent()
	return [8]Vec3{
		{X: min.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: max.Y, Z: min.Z}, {X: min.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z}, {X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: max.Z},
	}
}

func pointInTriangle(p Vec3, tri [3]Vec3, n Vec3) bool {
	for i := 0; i < 3; i++ {
		edge := tri[(i+1)%3].Sub(tri[i])
		toP := p.Sub(tri[i])
		if edge.Cross(toP).Dot(n) < -Tol {
			return false
		}
	}
	return true
}
