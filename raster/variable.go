// Package raster implements the layered G-buffer rasterizer: a Canvas of
// typed layers, Points carrying one plot value per layer, and a Scanner
// that walks triangle edges and writes interpolated attributes per pixel.
package raster

import (
	rgb "lightbake/color"
	"lightbake/math"
	"lightbake/texture"
)

// Kind tags which concrete type a Variable holds.
type Kind int

const (
	KindScalar Kind = iota
	KindVector2
	KindVector3
	KindColor
	KindTexel
)

// Variable is a tagged union over the five plot attribute types a canvas
// layer can carry. Exactly one field is meaningful, selected by Kind.
type Variable struct {
	Kind    Kind
	Scalar  float32
	Vector2 math.Vec2
	Vector3 math.Vec3
	Color   rgb.RGB
	Texel   texture.Texel
}

func NewScalar(v float32) Variable   { return Variable{Kind: KindScalar, Scalar: v} }
func NewVector2(v math.Vec2) Variable { return Variable{Kind: KindVector2, Vector2: v} }
func NewVector3(v math.Vec3) Variable { return Variable{Kind: KindVector3, Vector3: v} }
func NewColor(v rgb.RGB) Variable     { return Variable{Kind: KindColor, Color: v} }
func NewTexel(v texture.Texel) Variable { return Variable{Kind: KindTexel, Texel: v} }

// Lerp blends two Variables of the same Kind. Mismatched kinds return a
// unchanged — this should never happen within one canvas layer, since a
// layer's Kind is fixed at Canvas construction.
func Lerp(a, b Variable, alpha float32) Variable {
	if a.Kind != b.Kind {
		return a
	}
	switch a.Kind {
	case KindScalar:
		return NewScalar(a.Scalar + (b.Scalar-a.Scalar)*alpha)
	case KindVector2:
		return NewVector2(a.Vector2.Lerp(b.Vector2, alpha))
	case KindVector3:
		return NewVector3(a.Vector3.Lerp(b.Vector3, alpha))
	case KindColor:
		return NewColor(a.Color.Lerp(b.Color, alpha))
	case KindTexel:
		return NewTexel(texture.LerpTexel(a.Texel, b.Texel, alpha))
	default:
		return a
	}
}
