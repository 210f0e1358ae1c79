package solver

import (
	"fmt"

	rgb "lightbake/color"
	lbimg "lightbake/img"
	"lightbake/math"
	"lightbake/raster"
	"lightbake/scene"
	"lightbake/texture"
)

// Lightmap layer indices, fixed at canvas construction: id mask, world
// position, world normal, sampled albedo.
const (
	LayerMask     = 0
	LayerPosition = 1
	LayerNormal   = 2
	LayerAlbedo   = 3
)

func newLightmapCanvas(w, h int) *raster.Canvas {
	return raster.NewCanvas(w, h, []raster.Kind{
		raster.KindScalar,
		raster.KindVector3,
		raster.KindVector3,
		raster.KindTexel,
	})
}

func triangleArea2D(a, b, c math.Vec2) float32 {
	area := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	if area < 0 {
		area = -area
	}
	return 0.5 * area
}

// mipLevelFor picks the mip level for one rasterized triangle from the
// ratio of its lightmap-space area to its texture-space area, minus one:
// the builder samples one level sharper than the area ratio alone would
// choose, clamped at level 0.
func mipLevelFor(lmArea, texArea float32) int {
	level := lbimg.ComputeMipmapLevel(float64(lmArea), float64(texArea)) - 1
	if level < 0 {
		return 0
	}
	return level
}

// rasterizeMesh walks every triangle, building its three lightmap-space
// Points (mask, world position, world normal, albedo texel) and
// scan-converting it into canvas in one pass per triangle.
func rasterizeMesh(canvas *raster.Canvas, mesh *scene.MeshSource, texHandles []texture.Handle, reg *texture.Registry) {
	scanner := raster.NewScanner(canvas)
	w, h := float32(canvas.W-1), float32(canvas.H-1)

	for ti, tri := range mesh.Triangles {
		handle := texHandles[tri.MaterialIdx]
		img := reg.Image(handle)
		texW, texH := float32(1), float32(1)
		if img != nil {
			texW, texH = float32(img.W), float32(img.H)
		}

		idxs := [3]int{tri.A, tri.B, tri.C}
		lmUV := [3]math.Vec2{}
		texUV := [3]math.Vec2{}
		for i, idx := range idxs {
			lmUV[i] = mesh.UV1[idx].MulVec(math.Vec2{X: w, Y: h})
			texUV[i] = mesh.UV2[idx]
		}

		lmArea := triangleArea2D(lmUV[0], lmUV[1], lmUV[2])
		texArea := triangleArea2D(
			texUV[0].MulVec(math.Vec2{X: texW, Y: texH}),
			texUV[1].MulVec(math.Vec2{X: texW, Y: texH}),
			texUV[2].MulVec(math.Vec2{X: texW, Y: texH}),
		)
		mip := mipLevelFor(lmArea, texArea)

		pts := [3]raster.Point{}
		for i, idx := range idxs {
			p := raster.NewPoint(lmUV[i], 4)
			p.Plot[LayerMask] = raster.NewScalar(float32(ti + 1))
			p.Plot[LayerPosition] = raster.NewVector3(mesh.Positions[idx])
			p.Plot[LayerNormal] = raster.NewVector3(mesh.Normals[idx])
			p.Plot[LayerAlbedo] = raster.NewTexel(texture.Texel{Handle: handle, Mip: mip, UV: texUV[i]})
			pts[i] = p
		}
		raster.RasterizeTriangle(scanner, pts[0], pts[1], pts[2])
	}
}

// ExportDebugLayers writes each G-buffer layer to its own PNG under dir,
// for inspecting the rasterization pass independently of the AO result.
func ExportDebugLayers(canvas *raster.Canvas, reg *texture.Registry, dir string) error {
	mask := lbimg.New(canvas.W, canvas.H)
	pos := lbimg.New(canvas.W, canvas.H)
	normal := lbimg.New(canvas.W, canvas.H)
	albedo := lbimg.New(canvas.W, canvas.H)

	for y := 0; y < canvas.H; y++ {
		for x := 0; x < canvas.W; x++ {
			m := canvas.At(LayerMask, x, y).Scalar
			if m > 0 {
				mask.Put(x, y, rgb.White, true)
			}
			p := canvas.At(LayerPosition, x, y).Vector3
			pos.Put(x, y, rgb.FromFloat(p.X*16+128, p.Y*16+128, p.Z*16+128), true)
			n := canvas.At(LayerNormal, x, y).Vector3
			normal.Put(x, y, rgb.FromFloat(n.X*127+128, n.Y*127+128, n.Z*127+128), true)
			tex := canvas.At(LayerAlbedo, x, y).Texel
			r, g, b := tex.Sample(reg)
			albedo.Put(x, y, rgb.RGB{R: r, G: g, B: b}, true)
		}
	}

	for name, img := range map[string]*lbimg.Image{
		"mask":   mask,
		"pos":    pos,
		"normal": normal,
		"albedo": albedo,
	} {
		if err := lbimg.WritePNG(img, fmt.Sprintf("%s/%s", dir, name)); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
	}
	return nil
}
