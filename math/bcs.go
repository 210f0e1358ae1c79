package math

// BcsCoord is a barycentric (alpha, beta) pair projected against a Bcs3
// frame's two edge vectors.
type BcsCoord struct {
	Alpha, Beta float32
}

// Inside reports whether the coordinate lies within the triangle spanned
// by the frame's origin and two edges.
func (c BcsCoord) Inside() bool {
	return c.Alpha >= 0 && c.Beta >= 0 && c.Alpha+c.Beta <= 1
}

// Bcs2 is the 2D barycentric frame used to map lightmap-UV triangles onto
// the 2x2 inverse Gram matrix shared with its 3D counterpart.
type Bcs2 struct {
	O, U, V Vec2
	inv     [2][2]float32
	Valid   bool
}

func NewBcs2(p, p2, p3 Vec2) Bcs2 {
	b := Bcs2{O: p, U: p.Point(p2), V: p.Point(p3)}
	b.invertGram()
	return b
}

func (b *Bcs2) invertGram() {
	uu := b.U.Dot(b.U)
	uv := b.U.Dot(b.V)
	vv := b.V.Dot(b.V)
	det := uu*vv - uv*uv
	if det == 0 {
		b.Valid = false
		return
	}
	invDet := 1 / det
	b.inv[0][0] = vv * invDet
	b.inv[0][1] = -uv * invDet
	b.inv[1][0] = -uv * invDet
	b.inv[1][1] = uu * invDet
	b.Valid = true
}

func (b Bcs2) Project(p Vec2) BcsCoord {
	a := b.O.Point(p)
	au := a.Dot(b.U)
	av := a.Dot(b.V)
	return BcsCoord{
		Alpha: b.inv[0][0]*au + b.inv[0][1]*av,
		Beta:  b.inv[1][0]*au + b.inv[1][1]*av,
	}
}

// Bcs3 is the barycentric frame of a 3D triangle: origin plus two edge
// vectors, the cached inverse of their 2x2 Gram matrix, and the
// triangle's supporting plane.
type Bcs3 struct {
	O, U, V Vec3
	Plane   Plane
	inv     [2][2]float32
	Valid   bool
}

// NewBcs3 builds the frame for triangle (p, p2, p3). Valid is false when
// the two edges are collinear or degenerate (zero-area triangle); callers
// must still keep the Bcs3 around (even invalid) to preserve index
// alignment with the caller's triangle list.
func NewBcs3(p, p2, p3 Vec3) Bcs3 {
	b := Bcs3{O: p, U: p.Point(p2), V: p.Point(p3)}
	uu := b.U.Dot(b.U)
	uv := b.U.Dot(b.V)
	vv := b.V.Dot(b.V)
	det := uu*vv - uv*uv
	if det == 0 {
		b.Valid = false
		return b
	}
	invDet := 1 / det
	b.inv[0][0] = vv * invDet
	b.inv[0][1] = -uv * invDet
	b.inv[1][0] = -uv * invDet
	b.inv[1][1] = uu * invDet
	b.Valid = true
	b.Plane = NewPlane(b.U.Cross(b.V), b.O)
	return b
}

func (b Bcs3) project(p Vec3) BcsCoord {
	a := b.O.Point(p)
	au := a.Dot(b.U)
	av := a.Dot(b.V)
	return BcsCoord{
		Alpha: b.inv[0][0]*au + b.inv[0][1]*av,
		Beta:  b.inv[1][0]*au + b.inv[1][1]*av,
	}
}

// Point resolves a barycentric coordinate back to world space.
func (b Bcs3) Point(c BcsCoord) Vec3 {
	return b.O.Add(b.U.Mul(c.Alpha)).Add(b.V.Mul(c.Beta))
}

// ProjectRay intersects an unbounded ray against the frame, requiring the
// ray to face away from the plane's front (d.n > 0). This is the opposite
// sign convention from ProjectRaySeg, kept deliberately: it separates
// front/back-face hits depending on whether the caller is tracing a
// bounded segment or an open ray.
func (b Bcs3) ProjectRay(ray Ray) (BcsCoord, bool) {
	if !b.Valid {
		return BcsCoord{}, false
	}
	ddotn := ray.D.Dot(b.Plane.N)
	if ddotn <= 0 {
		return BcsCoord{}, false
	}
	dist := b.Plane.RayDist(ray, ddotn)
	if dist <= 0 {
		return BcsCoord{}, false
	}
	co := b.project(ray.P.Add(ray.D.Mul(dist)))
	if co.Inside() {
		return co, true
	}
	return BcsCoord{}, false
}

// ProjectRaySeg intersects a bounded segment against the frame, requiring
// d.n < 0 (the opposite sign from ProjectRay) and the hit distance to lie
// within the segment's bound.
func (b Bcs3) ProjectRaySeg(seg RaySeg) (BcsCoord, bool) {
	if !b.Valid {
		return BcsCoord{}, false
	}
	ray := seg.Ray
	ddotn := ray.D.Dot(b.Plane.N)
	if ddotn >= 0 {
		return BcsCoord{}, false
	}
	dist := b.Plane.RayDist(ray, ddotn)
	if dist <= 0 || dist > seg.Dist {
		return BcsCoord{}, false
	}
	co := b.project(ray.P.Add(ray.D.Mul(dist)))
	if co.Inside() {
		return co, true
	}
	return BcsCoord{}, false
}
