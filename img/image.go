// Package img provides the pixel buffer, bilinear sampling, and
// box-filtered mip chain shared by texture loading and lightmap export.
package img

import (
	"math"

	rgb "lightbake/color"
)

// Image is a width x height buffer of 8-bit RGB pixels with an optional
// next-level mip chained off Mip.
type Image struct {
	W, H   int
	Pixels []rgb.RGB
	Mip    *Image
}

// New allocates a zeroed image of the given size.
func New(w, h int) *Image {
	return &Image{W: w, H: h, Pixels: make([]rgb.RGB, w*h)}
}

func (img *Image) Valid() bool {
	return img.W > 0 && img.H > 0 && len(img.Pixels) == img.W*img.H
}

// Get returns the pixel at (x, y), either clamping or wrapping out-of-
// range coordinates.
func (img *Image) Get(x, y int, clamp bool) rgb.RGB {
	if clamp {
		x = clampInt(x, 0, img.W-1)
		y = clampInt(y, 0, img.H-1)
	} else {
		x = wrapInt(x, img.W)
		y = wrapInt(y, img.H)
	}
	if len(img.Pixels) == 0 {
		return rgb.RGB{}
	}
	return img.Pixels[y*img.W+x]
}

func (img *Image) Put(x, y int, c rgb.RGB, clamp bool) {
	if clamp {
		x = clampInt(x, 0, img.W-1)
		y = clampInt(y, 0, img.H-1)
	} else {
		x = wrapInt(x, img.W)
		y = wrapInt(y, img.H)
	}
	if len(img.Pixels) > 0 {
		img.Pixels[y*img.W+x] = c
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrapInt(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Sample bilinearly blends the four texels nearest (x, y).
func (img *Image) Sample(x, y float32, clamp bool) rgb.RGB {
	xStart := float32(math.Floor(float64(x)))
	xStop := float32(math.Ceil(float64(x)))
	yStart := float32(math.Floor(float64(y)))
	yStop := float32(math.Ceil(float64(y)))

	u := x - xStart
	v := y - yStart

	c00 := img.Get(int(xStart), int(yStart), clamp)
	c01 := img.Get(int(xStop), int(yStart), clamp)
	c10 := img.Get(int(xStart), int(yStop), clamp)
	c11 := img.Get(int(xStop), int(yStop), clamp)

	top := c00.Lerp(c01, u)
	bottom := c10.Lerp(c11, u)
	return top.Lerp(bottom, v)
}

// SampleBox box-filters a w x h region starting at (x, y).
func (img *Image) SampleBox(x, y, w, h int, clamp bool) rgb.RGB {
	var r, g, b uint32
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			c := img.Get(x+j, y+i, clamp)
			r += uint32(c.R)
			g += uint32(c.G)
			b += uint32(c.B)
		}
	}
	s := 1.0 / float32(w*h)
	return rgb.FromFloat(float32(r)*s, float32(g)*s, float32(b)*s)
}

// SampleMipmap samples at the given mip level, walking the chain until
// level or the last available mip, whichever comes first.
func (img *Image) SampleMipmap(x, y float32, level int, clamp bool) rgb.RGB {
	if level <= 0 || img.Mip == nil {
		return img.Sample(x, y, clamp)
	}
	cur := img
	for i := 1; i <= level; i++ {
		if cur.Mip == nil {
			break
		}
		cur = cur.Mip
	}
	return cur.Sample(x, y, clamp)
}

// CreateMips recursively halves the image with a box filter while both
// dimensions stay even and >= 4.
func (img *Image) CreateMips() {
	if img.W < 4 || img.H < 4 {
		return
	}
	if img.W&1 != 0 || img.H&1 != 0 {
		return
	}

	mip := New(img.W>>1, img.H>>1)
	for y := 0; y < mip.H; y++ {
		for x := 0; x < mip.W; x++ {
			mip.Pixels[y*mip.W+x] = img.SampleBox(x*2, y*2, 2, 2, true)
		}
	}
	img.Mip = mip
	mip.CreateMips()
}

// ComputeMipmapLevel returns the mip level whose area ratio to sourceArea
// is nearest 4^level — one level per box-filter halving (each halving
// quarters the area, so log base 4 of the area ratio gives the level; we
// solve it as log2/2 to avoid a base-4 log call).
func ComputeMipmapLevel(sourceArea, targetArea float64) int {
	logRatio := math.Log2(sourceArea / targetArea)
	level := int(math.Round(logRatio / 2))
	if level < 0 {
		return 0
	}
	return level
}
