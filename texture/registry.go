// Package texture holds the per-solver texture registry and the
// sampled-attribute Texel that the rasterizer plots into the albedo layer.
package texture

import (
	lbimg "lightbake/img"
	"lightbake/math"
)

// Handle identifies a registered texture within one Registry. Handle 0 is
// never assigned and always samples black.
type Handle int

// Registry maps texture handles to images and tags. It is built once
// during solver setup and treated as read-only afterward — there is no
// process-global state, so multiple solvers never share registries.
type Registry struct {
	images []*lbimg.Image
	tags   map[string]Handle
}

func NewRegistry() *Registry {
	return &Registry{tags: make(map[string]Handle)}
}

// LoadTexture reuses the handle already bound to tag, if any; otherwise it
// registers img under a fresh handle.
func (r *Registry) LoadTexture(img *lbimg.Image, tag string) Handle {
	if h, ok := r.tags[tag]; ok {
		return h
	}
	r.images = append(r.images, img)
	h := Handle(len(r.images))
	r.tags[tag] = h
	return h
}

// Image returns the image bound to h, or nil if h is unknown.
func (r *Registry) Image(h Handle) *lbimg.Image {
	if h <= 0 || int(h) > len(r.images) {
		return nil
	}
	return r.images[h-1]
}

// SampleTexture bilinearly samples handle h at uv and mipLevel, wrapping
// texture coordinates. An unknown handle samples black.
func (r *Registry) SampleTexture(h Handle, uv math.Vec2, mipLevel int) (uint8, uint8, uint8) {
	img := r.Image(h)
	if img == nil {
		return 0, 0, 0
	}
	for i := 0; i < mipLevel && img.Mip != nil; i++ {
		img = img.Mip
	}
	x, y := toPixelSpace(uv, img.W, img.H)
	c := img.Sample(x, y, false)
	return c.R, c.G, c.B
}

// toPixelSpace maps a [0,1] UV to pixel-center-aligned coordinates: the
// same xScale=w-1, xOffset=0.5/w convention the rasterizer's texture
// sampler uses.
func toPixelSpace(uv math.Vec2, w, h int) (float32, float32) {
	xScale := float32(w - 1)
	yScale := float32(h - 1)
	xOffset := 0.5 / float32(w)
	yOffset := 0.5 / float32(h)
	x := (uv.X - xOffset) * xScale
	y := (uv.Y - yOffset) * yScale
	return x, y
}

// Texel is a deferred texture sample: a handle, mip level, and UV, plotted
// by the rasterizer and resolved against a Registry only on demand.
type Texel struct {
	Handle Handle
	Mip    int
	UV     math.Vec2
}

func (t Texel) Sample(reg *Registry) (uint8, uint8, uint8) {
	return reg.SampleTexture(t.Handle, t.UV, t.Mip)
}

// LerpTexel interpolates UV linearly between a and b. It keeps the shared
// handle/mip when both endpoints agree; otherwise — two materials
// straddling one triangle edge, which should not happen at the core
// boundary but is not forbidden — it picks whichever endpoint alpha is
// closer to.
func LerpTexel(a, b Texel, alpha float32) Texel {
	out := Texel{UV: a.UV.Lerp(b.UV, alpha)}
	if a.Handle == b.Handle && a.Mip == b.Mip {
		out.Handle = a.Handle
		out.Mip = a.Mip
		return out
	}
	if alpha >= 0.5 {
		out.Handle, out.Mip = b.Handle, b.Mip
	} else {
		out.Handle, out.Mip = a.Handle, a.Mip
	}
	return out
}
