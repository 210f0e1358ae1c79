package scene

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	lbimg "lightbake/img"
	"lightbake/math"
)

// Triangle is one face of a MeshSource: three vertex indices plus the
// material it was authored with.
type Triangle struct {
	A, B, C     int
	MaterialIdx int
}

// MeshSource is the mesh-source external interface the solver consumes:
// positions and normals in world space (node transforms already baked
// in), the lightmap UV set (UV1, TEXCOORD_0) and the texture UV set
// (UV2, TEXCOORD_1), the triangle list, and per-material names used to
// look up textures.
type MeshSource struct {
	Positions     []math.Vec3
	Normals       []math.Vec3
	UV1           []math.Vec2 // lightmap UV
	UV2           []math.Vec2 // texture UV
	Triangles     []Triangle
	MaterialNames []string
}

// MaterialTextures maps each material name to its decoded base-color
// image, the texture source external interface.
type MaterialTextures map[string]*lbimg.Image

// LoadMeshSource opens a .glb/.gltf file and flattens every primitive in
// every node's world transform into one MeshSource, reading each
// primitive's indices as consecutive triples (a triangle list). The
// primitive mode is not consulted, so strips and fans are not expanded.
// It also decodes each material's base-color texture.
func LoadMeshSource(path string) (*MeshSource, MaterialTextures, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	matNames := make([]string, len(doc.Materials))
	for i, m := range doc.Materials {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("material_%d", i)
		}
		matNames[i] = name
	}

	textures, err := loadMaterialTextures(doc, filepath.Dir(path), matNames)
	if err != nil {
		return nil, nil, err
	}

	out := &MeshSource{MaterialNames: matNames}

	worldMats := computeWorldTransforms(doc)

	for ni, gn := range doc.Nodes {
		if gn.Mesh == nil {
			continue
		}
		world := worldMats[ni]
		normalMat := normalMatrix(world)
		gm := doc.Meshes[*gn.Mesh]
		for _, prim := range gm.Primitives {
			if err := appendPrimitive(doc, prim, world, normalMat, out); err != nil {
				return nil, nil, fmt.Errorf("node %d mesh: %w", ni, err)
			}
		}
	}

	if len(out.Triangles) == 0 {
		return nil, nil, fmt.Errorf("mesh source %q: zero triangles", path)
	}
	return out, textures, nil
}

func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, world, normalMat math.Mat4, out *MeshSource) error {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("primitive missing POSITION")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	var uv1 [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uv1, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}
	var uv2 [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_1"]; ok {
		uv2, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	base := len(out.Positions)
	for i, p := range positions {
		local := math.Vec3{X: p[0], Y: p[1], Z: p[2]}
		out.Positions = append(out.Positions, world.MulVec3(local))

		n := math.Vec3{Y: 1}
		if i < len(normals) {
			n = math.Vec3{X: normals[i][0], Y: normals[i][1], Z: normals[i][2]}
		}
		out.Normals = append(out.Normals, normalMat.MulVec3(n).Normalize())

		var u1, u2 math.Vec2
		if i < len(uv1) {
			u1 = math.Vec2{X: uv1[i][0], Y: uv1[i][1]}
		}
		if i < len(uv2) {
			u2 = math.Vec2{X: uv2[i][0], Y: uv2[i][1]}
		} else {
			u2 = u1
		}
		out.UV1 = append(out.UV1, u1)
		out.UV2 = append(out.UV2, u2)
	}

	matIdx := 0
	if prim.Material != nil {
		matIdx = *prim.Material
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		out.Triangles = append(out.Triangles, Triangle{
			A:           base + int(indices[i]),
			B:           base + int(indices[i+1]),
			C:           base + int(indices[i+2]),
			MaterialIdx: matIdx,
		})
	}
	return nil
}

// computeWorldTransforms walks the glTF node hierarchy, composing each
// node's local TRS into a world-space Mat4, starting every root at
// identity.
func computeWorldTransforms(doc *gltf.Document) []math.Mat4 {
	world := make([]math.Mat4, len(doc.Nodes))
	visited := make([]bool, len(doc.Nodes))

	var visit func(idx int, parent math.Mat4)
	visit = func(idx int, parent math.Mat4) {
		if visited[idx] {
			return
		}
		visited[idx] = true
		gn := doc.Nodes[idx]

		t := gn.TranslationOrDefault()
		r := gn.RotationOrDefault()
		s := gn.ScaleOrDefault()

		// Mat4 multiplies row vectors (v * M), so glTF's T * R * S is
		// written S * R * T here, and the parent is applied after the node.
		local := math.Mat4Scale(math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}).
			Mul(math.Quaternion{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}.ToMat4()).
			Mul(math.Mat4Translation(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}))

		world[idx] = local.Mul(parent)
		for _, c := range gn.Children {
			visit(int(c), world[idx])
		}
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			hasParent[c] = true
		}
	}
	for i := range doc.Nodes {
		if !hasParent[i] {
			visit(i, math.Mat4Identity())
		}
	}
	return world
}

// normalMatrix approximates the inverse-transpose of world's upper 3x3
// with that block itself (the translation row is cleared): for rotation
// and uniform scale the two agree up to a factor that the caller's
// Normalize removes; a non-uniform scale tilts normals. Computing
// a true 3x3 inverse here would need a general matrix inverse this
// package doesn't otherwise carry.
func normalMatrix(world math.Mat4) math.Mat4 {
	m := world
	m[3][0], m[3][1], m[3][2] = 0, 0, 0
	return m
}

func loadMaterialTextures(doc *gltf.Document, dir string, matNames []string) (MaterialTextures, error) {
	texForMat := make(MaterialTextures, len(matNames))
	for i, gm := range doc.Materials {
		pbr := gm.PBRMetallicRoughness
		if pbr == nil || pbr.BaseColorTexture == nil {
			continue
		}
		texIdx := pbr.BaseColorTexture.Index
		if texIdx < 0 || texIdx >= len(doc.Textures) {
			continue
		}
		gt := doc.Textures[texIdx]
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]

		decoded, err := decodeGLTFImage(doc, dir, img)
		if err != nil {
			continue // image load failure: material falls back to black at sample time
		}
		texForMat[matNames[i]] = decoded
	}
	return texForMat, nil
}

func decodeGLTFImage(doc *gltf.Document, dir string, img *gltf.Image) (*lbimg.Image, error) {
	if img.BufferView != nil {
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, err
		}
		return lbimg.Decode(bytes.NewReader(raw))
	}
	if img.URI != "" {
		return lbimg.DecodeFile(filepath.Join(dir, img.URI))
	}
	return nil, fmt.Errorf("image has neither buffer view nor URI")
}
