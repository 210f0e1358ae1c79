// Package bpcd implements the broad-phase collision grid: a uniform 3D
// partition of triangles supporting amortized-O(1) segment tracing via
// DDA traversal.
package bpcd

import (
	stdmath "math"

	"lightbake/arena"
	"lightbake/math"
)

// Cell is one node of the uniform grid, indexed by (level, row, column) =
// (z, y, x). A cell exists in the grid's hashmap only once it has at
// least one triangle touching it.
type Cell struct {
	L, R, C int
	Box     math.Aabb
	Tris    []int
}

// hashOf folds three signed cell coordinates into a 32-bit value with an
// FNV-1a-style mixer.
func hashOf(l, r, c int) int {
	const prime = 16777619
	h := uint32(2166136261)
	h = (h ^ uint32(l)) * prime
	h = (h ^ uint32(r)) * prime
	h = (h ^ uint32(c)) * prime
	return int(h)
}

// Grid is a uniform 3D triangle index built once and traced many times.
// It shares one arena Heap with its backing Array and Hashmap.
type Grid struct {
	Heap     *arena.Heap
	Tris     *arena.Array[math.Bcs3]
	Cells    *arena.Hashmap[*Cell]
	Origin   math.Vec3
	CellSize float32
}

// NewGrid allocates a Grid's backing Array and Hashmap from heap, sized
// for an expected triCapacity triangles.
func NewGrid(heap *arena.Heap, triCapacity int) *Grid {
	return &Grid{
		Heap:  heap,
		Tris:  arena.NewArray[math.Bcs3](heap, triCapacity, arena.Double),
		Cells: arena.NewHashmap[*Cell](heap, 1024),
	}
}

func (g *Grid) cellCoord(p math.Vec3) (l, r, c int) {
	rel := p.Sub(g.Origin)
	l = int(stdmath.Floor(float64(rel.Z / g.CellSize)))
	r = int(stdmath.Floor(float64(rel.Y / g.CellSize)))
	c = int(stdmath.Floor(float64(rel.X / g.CellSize)))
	return
}

func (g *Grid) cellAabb(l, r, c int) math.Aabb {
	half := g.CellSize / 2
	center := g.Origin.Add(math.Vec3{
		X: (float32(c) + 0.5) * g.CellSize,
		Y: (float32(r) + 0.5) * g.CellSize,
		Z: (float32(l) + 0.5) * g.CellSize,
	})
	return math.Aabb{P: center, HalfSize: math.Vec3{X: half, Y: half, Z: half}}
}

func componentMin(a, b math.Vec3) math.Vec3 {
	return math.Vec3{X: minF(a.X, b.X), Y: minF(a.Y, b.Y), Z: minF(a.Z, b.Z)}
}

func componentMax(a, b math.Vec3) math.Vec3 {
	return math.Vec3{X: maxF(a.X, b.X), Y: maxF(a.Y, b.Y), Z: maxF(a.Z, b.Z)}
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Build populates the grid from a triangle list, each entry the three
// world-space vertex positions of one triangle. Every triangle is
// appended to Tris (even degenerate ones, to keep indices aligned with
// the caller's triangle order); only valid ones are inserted into cells.
func (g *Grid) Build(trisPoints [][3]math.Vec3, cellSize float32) {
	g.CellSize = cellSize
	if len(trisPoints) == 0 {
		return
	}

	min, max := trisPoints[0][0], trisPoints[0][0]
	for _, tri := range trisPoints {
		for _, v := range tri {
			min = componentMin(min, v)
			max = componentMax(max, v)
		}
	}
	bigBox := math.AabbFromExtents(min, max)
	g.Origin = bigBox.MinExtent()

	for _, tri := range trisPoints {
		bcs := math.NewBcs3(tri[0], tri[1], tri[2])
		idx := g.Tris.Append(bcs)
		if !bcs.Valid {
			continue
		}
		g.insertTriangle(idx, tri)
	}
}

func (g *Grid) insertTriangle(idx int, tri [3]math.Vec3) {
	lMin, rMin, cMin := g.cellCoord(tri[0])
	lMax, rMax, cMax := lMin, rMin, cMin
	for _, v := range tri[1:] {
		l, r, c := g.cellCoord(v)
		lMin, lMax = minI(lMin, l), maxI(lMax, l)
		rMin, rMax = minI(rMin, r), maxI(rMax, r)
		cMin, cMax = minI(cMin, c), maxI(cMax, c)
	}

	center := tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3.0)
	rSq := float32(0)
	for _, v := range tri {
		d := v.Sub(center).LengthSqr()
		if d > rSq {
			rSq = d
		}
	}
	triSphere := math.Sphere{Center: center, RSq: rSq}

	for l := lMin - 1; l <= lMax+1; l++ {
		for r := rMin - 1; r <= rMax+1; r++ {
			for c := cMin - 1; c <= cMax+1; c++ {
				box := g.cellAabb(l, r, c)
				cellSphere := math.Sphere{Center: box.P, RSq: box.HalfSize.LengthSqr()}
				if !cellSphere.Touches(triSphere) {
					continue
				}
				if !box.Intersects(tri) {
					continue
				}
				hash := hashOf(l, r, c)
				cell, _ := g.Cells.InsertIf(hash, &Cell{L: l, R: r, C: c, Box: box})
				cell.Tris = append(cell.Tris, idx)
			}
		}
	}
}

// Trace is the output of TraceRay, fully overwritten on every call.
type Trace struct {
	Index int
	Coord math.BcsCoord
	Point math.Vec3
	Hit   bool
}

func signOf(v float32) int {
	switch {
	case v > math.Tol:
		return 1
	case v < -math.Tol:
		return -1
	default:
		return 0
	}
}

// faceDist returns the distance along axis direction dAxis from pAxis to
// the near face of [minAxis, maxAxis] in the direction of travel. A zero
// axis component (no motion along that axis) is treated explicitly as an
// infinite face distance rather than divided, since 0/0 or a division by
// a near-zero direction component would otherwise corrupt the min() that
// picks the next cell boundary.
func faceDist(dAxis, pAxis, minAxis, maxAxis float32) float32 {
	switch {
	case dAxis > 0:
		return (maxAxis - pAxis) / dAxis
	case dAxis < 0:
		return (minAxis - pAxis) / dAxis
	default:
		return float32(stdmath.Inf(1))
	}
}

const maxTraceIterations = 500

// TraceRay walks seg through the grid via 3D DDA (Amanatides-Woo),
// testing triangles in every occupied cell it passes through. If visited
// is non-nil, every (l, r, c) visited is appended to it. A segment whose
// direction is entirely within Tol on every axis misses immediately.
func (g *Grid) TraceRay(seg math.RaySeg, visited *[][3]int) Trace {
	d := math.Vec3{X: cleanAxis(seg.D.X), Y: cleanAxis(seg.D.Y), Z: cleanAxis(seg.D.Z)}
	if d.X == 0 && d.Y == 0 && d.Z == 0 {
		return Trace{}
	}

	dl, dr, dc := signOf(d.Z), signOf(d.Y), signOf(d.X)
	l, r, c := g.cellCoord(seg.P)
	p := seg.P
	distLeft := seg.Dist

	var trace Trace
	for iter := 0; iter < maxTraceIterations; iter++ {
		if visited != nil {
			*visited = append(*visited, [3]int{l, r, c})
		}

		box := g.cellAabb(l, r, c)
		min, max := box.MinExtent(), box.MaxExtent()
		dx := faceDist(d.X, p.X, min.X, max.X)
		dy := faceDist(d.Y, p.Y, min.Y, max.Y)
		dz := faceDist(d.Z, p.Z, min.Z, max.Z)

		shortest := distLeft
		if dx < shortest {
			shortest = dx
		}
		if dy < shortest {
			shortest = dy
		}
		if dz < shortest {
			shortest = dz
		}
		if shortest < 0 {
			shortest = 0
		}

		p2 := p.Add(d.Mul(shortest))

		if cell, ok := g.Cells.Get(hashOf(l, r, c)); ok {
			testSeg := math.NewRaySegFromPoints(p, p2)
			if !testSeg.IsPoint() {
				for _, idx := range cell.Tris {
					bcs := g.Tris.At(idx)
					if coord, hit := bcs.ProjectRaySeg(testSeg); hit {
						trace = Trace{Index: idx, Coord: coord, Point: bcs.Point(coord), Hit: true}
						return trace
					}
				}
			}
		}

		distLeft -= shortest
		p = p2
		if distLeft <= 0 {
			break
		}

		if dx == shortest {
			c += dc
		}
		if dy == shortest {
			r += dr
		}
		if dz == shortest {
			l += dl
		}
	}
	return trace
}

func cleanAxis(v float32) float32 {
	if v > -math.Tol && v < math.Tol {
		return 0
	}
	return v
}
