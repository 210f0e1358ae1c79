package raster

// RasterizeTriangle builds the three edges of a triangle and scans them,
// resetting the Scanner afterward so it is ready for the next triangle.
func RasterizeTriangle(s *Scanner, p0, p1, p2 Point) {
	s.BuildEdge(p0, p1)
	s.BuildEdge(p1, p2)
	s.BuildEdge(p2, p0)
	s.ScanReset()
}
