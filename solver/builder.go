// Package solver builds the BPCD grid and lightmap G-buffer from a mesh
// source, enqueues one ambient-occlusion task per covered texel, and
// drives the worker pool to produce the baked result image.
package solver

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"lightbake/arena"
	"lightbake/bpcd"
	rgb "lightbake/color"
	"lightbake/config"
	lbimg "lightbake/img"
	"lightbake/logsink"
	"lightbake/math"
	"lightbake/raster"
	"lightbake/scene"
	"lightbake/texture"
	"lightbake/worker"
)

// Solver owns every arena-backed structure for one bake: the mesh's BPCD
// grid, the rasterized G-buffer canvas, the texture registry, and the
// worker pool that will fill in each texel's radiance.
type Solver struct {
	Cfg      config.Config
	Log      logsink.Sink
	Heap     *arena.Heap
	Registry *texture.Registry
	Grid     *bpcd.Grid
	Canvas   *raster.Canvas
	Pool     *worker.Pool
	Result   *lbimg.Image
}

// Create loads the mesh, builds the grid and G-buffer, and enqueues every
// covered texel as a task, ready for Begin. An unrecoverable error here
// (zero meshes/triangles, zero-size lightmap) fails the whole bake.
func Create(cfg config.Config, log logsink.Sink) (*Solver, error) {
	if log == nil {
		log = logsink.Silent
	}
	if cfg.RasterWidth <= 0 || cfg.RasterHeight <= 0 {
		return nil, fmt.Errorf("solver: lightmap dimensions must be positive, got %dx%d", cfg.RasterWidth, cfg.RasterHeight)
	}

	mesh, matTextures, err := scene.LoadMeshSource(cfg.MeshPath)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	heap := arena.New(cfg.HeapBytes)
	registry := texture.NewRegistry()
	texHandles := make([]texture.Handle, len(mesh.MaterialNames))
	for i, name := range mesh.MaterialNames {
		img := matTextures[name]
		if img == nil {
			log(logsink.LevelWarn, "texture", fmt.Sprintf("material %q has no usable texture, falling back to black", name))
			img = lbimg.New(1, 1)
		}
		img.CreateMips()
		texHandles[i] = registry.LoadTexture(img, name)
	}

	grid := bpcd.NewGrid(heap, len(mesh.Triangles))
	trisPoints := make([][3]math.Vec3, len(mesh.Triangles))
	for i, tri := range mesh.Triangles {
		trisPoints[i] = [3]math.Vec3{mesh.Positions[tri.A], mesh.Positions[tri.B], mesh.Positions[tri.C]}
	}
	cellSize := isotropicCellSize(mesh.Positions, cfg.CellScale)
	grid.Build(trisPoints, cellSize)

	canvas := newLightmapCanvas(cfg.RasterWidth, cfg.RasterHeight)
	rasterizeMesh(canvas, mesh, texHandles, registry)

	s := &Solver{
		Cfg:      cfg,
		Log:      log,
		Heap:     heap,
		Registry: registry,
		Grid:     grid,
		Canvas:   canvas,
	}

	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = worker.DefaultWorkers
	}
	s.Pool = worker.NewPool(heap, numWorkers, 64, cfg.RasterWidth*cfg.RasterHeight, s.divyToolbox)
	s.enqueueTasks()
	return s, nil
}

func isotropicCellSize(positions []math.Vec3, cellScale float32) float32 {
	if cellScale <= 0 {
		cellScale = 0.125
	}
	if len(positions) == 0 {
		return cellScale
	}
	min, max := positions[0], positions[0]
	for _, p := range positions[1:] {
		min = componentMinVec(min, p)
		max = componentMaxVec(max, p)
	}
	ext := max.Sub(min)
	avg := (ext.X + ext.Y + ext.Z) / 3
	return cellScale * avg
}

func componentMinVec(a, b math.Vec3) math.Vec3 {
	return math.Vec3{X: minF32(a.X, b.X), Y: minF32(a.Y, b.Y), Z: minF32(a.Z, b.Z)}
}

func componentMaxVec(a, b math.Vec3) math.Vec3 {
	return math.Vec3{X: maxF32(a.X, b.X), Y: maxF32(a.Y, b.Y), Z: maxF32(a.Z, b.Z)}
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// enqueueTasks walks the mask layer and appends one aoTask per texel
// where the rasterizer recorded a hit (mask > 0).
func (s *Solver) enqueueTasks() {
	for y := 0; y < s.Canvas.H; y++ {
		for x := 0; x < s.Canvas.W; x++ {
			if s.Canvas.At(LayerMask, x, y).Scalar <= 0 {
				continue
			}
			pos := s.Canvas.At(LayerPosition, x, y).Vector3
			normal := s.Canvas.At(LayerNormal, x, y).Vector3
			tex := s.Canvas.At(LayerAlbedo, x, y).Texel
			r, g, b := tex.Sample(s.Registry)
			s.Pool.Enqueue(&aoTask{X: x, Y: y, P: pos, N: normal, Albedo: rgb.RGB{R: r, G: g, B: b}})
		}
	}
}

func (s *Solver) divyToolbox(workerID int) worker.Toolbox {
	seed := worker.SeedFor(workerID) ^ s.Cfg.Seed
	return &Toolbox{
		RNG:      rand.New(rand.NewSource(int64(seed))),
		Grid:     s.Grid,
		Registry: s.Registry,
		Cfg:      s.Cfg,
	}
}

// Begin starts the worker pool; Join must be called before Save.
func (s *Solver) Begin() { s.Pool.Begin() }

// Join blocks until every enqueued texel task has completed.
func (s *Solver) Join() { s.Pool.Join() }

// Save drains the completed tasks into a w x h result image and writes
// it via the extension-selected encoder (".bmp" or else PNG).
func (s *Solver) Save(path string) error {
	img := lbimg.New(s.Cfg.RasterWidth, s.Cfg.RasterHeight)
	for _, t := range s.Pool.Completed() {
		task := t.(*aoTask)
		img.Put(task.X, task.Y, task.Result, true)
	}
	s.Result = img

	if strings.ToLower(filepath.Ext(path)) == ".bmp" {
		return lbimg.WriteBMP(img, path)
	}
	return lbimg.WritePNG(img, path)
}
