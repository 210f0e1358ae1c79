package raster

import "math"

// pair tracks the leftmost and rightmost Point seen so far on one
// scanline.
type pair struct {
	left, right Point
	set         bool
}

func (p *pair) push(pt Point) {
	if !p.set {
		p.left, p.right = pt, pt
		p.set = true
		return
	}
	if pt.P.X < p.left.P.X {
		p.left = pt
	}
	if pt.P.X > p.right.P.X {
		p.right = pt
	}
}

// Scanner accumulates triangle edges into per-scanline left/right pairs
// and rasterizes them into a Canvas one triangle at a time.
type Scanner struct {
	canvas       *Canvas
	rows         map[int]*pair
	yBottom, yTop int
	touched      bool
}

func NewScanner(c *Canvas) *Scanner {
	return &Scanner{canvas: c, rows: make(map[int]*pair)}
}

func (s *Scanner) pushPoint(y int, pt Point) {
	p, ok := s.rows[y]
	if !ok {
		p = &pair{}
		s.rows[y] = p
	}
	p.push(pt)
	if !s.touched {
		s.yBottom, s.yTop = y, y
		s.touched = true
		return
	}
	if y < s.yBottom {
		s.yBottom = y
	}
	if y > s.yTop {
		s.yTop = y
	}
}

// BuildEdge walks the edge from pt0 to pt1 (ordered by y internally),
// interpolating and pushing one Point per integer scanline it crosses.
// An edge entirely within one scanline (yB == yT) contributes nothing —
// the triangle's other two edges cover that row.
func (s *Scanner) BuildEdge(pt0, pt1 Point) {
	if pt0.P.Y > pt1.P.Y {
		pt0, pt1 = pt1, pt0
	}
	yB := int(math.Floor(float64(pt0.P.Y)))
	yT := int(math.Ceil(float64(pt1.P.Y)))
	if yB == yT {
		return
	}
	span := float32(yT - yB)
	for y := yB; y <= yT; y++ {
		alpha := float32(y-yB) / span
		s.pushPoint(y, blendPoints(pt0, pt1, alpha))
	}
}

// Scan walks every scanline touched since the last reset, filling pixels
// between each row's left and right Point.
func (s *Scanner) Scan() {
	if !s.touched {
		return
	}
	for y := s.yBottom; y <= s.yTop; y++ {
		row, ok := s.rows[y]
		if !ok || !row.set {
			continue
		}
		s.scanLine(row.left, row.right, y)
	}
}

func (s *Scanner) scanLine(left, right Point, y int) {
	xL := int(math.Floor(float64(left.P.X)))
	xR := int(math.Ceil(float64(right.P.X)))
	if xL == xR {
		s.canvas.PlotPoint(xL, y, left)
		return
	}
	span := right.P.X - left.P.X
	for x := xL; x <= xR; x++ {
		alpha := (float32(x) - left.P.X) / span
		if alpha < 0 {
			alpha = 0
		}
		if alpha > 1 {
			alpha = 1
		}
		s.canvas.PlotPoint(x, y, blendPoints(left, right, alpha))
	}
}

// ScanReset rasterizes the accumulated edges, then clears per-scanline
// state so the Scanner is ready for the next triangle.
func (s *Scanner) ScanReset() {
	s.Scan()
	s.rows = make(map[int]*pair)
	s.touched = false
}
