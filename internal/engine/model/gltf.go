package model

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/engine/scene"
	"github.com/Faultbox/roomfolio/internal/engine/texture"
	"github.com/Faultbox/roomfolio/internal/logger"
)

// Decode reads a binary or embedded glTF document and builds its default
// scene as a node hierarchy under a single root.
func Decode(r io.Reader) (*scene.Node, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}
	return FromDocument(doc)
}

// builder converts one document. Materials and textures are shared
// between primitives that reference the same index.
type builder struct {
	doc       *gltf.Document
	log       *zap.Logger
	materials map[int]*scene.Material
	textures  map[int]*scene.Texture
}

// FromDocument builds the default scene of an already parsed document.
// The returned root is named after the glTF scene.
func FromDocument(doc *gltf.Document) (*scene.Node, error) {
	b := &builder{
		doc:       doc,
		log:       logger.Named("model"),
		materials: make(map[int]*scene.Material),
		textures:  make(map[int]*scene.Texture),
	}

	root := scene.NewNode("Scene")
	if len(doc.Scenes) == 0 {
		// No scene list: every parentless node is a root.
		for i := range doc.Nodes {
			if !b.hasParent(i) {
				if err := b.addNode(root, i, 0); err != nil {
					return nil, err
				}
			}
		}
		return root, nil
	}

	idx := 0
	if doc.Scene != nil {
		idx = *doc.Scene
	}
	if idx < 0 || idx >= len(doc.Scenes) {
		return nil, fmt.Errorf("scene %d out of range", idx)
	}
	s := doc.Scenes[idx]
	if s.Name != "" {
		root.Name = s.Name
	}
	for _, n := range s.Nodes {
		if err := b.addNode(root, n, 0); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// maxDepth guards against cyclic node references.
const maxDepth = 256

func (b *builder) addNode(parent *scene.Node, idx, depth int) error {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return fmt.Errorf("node %d out of range", idx)
	}
	if depth > maxDepth {
		return fmt.Errorf("node %d: hierarchy too deep", idx)
	}
	src := b.doc.Nodes[idx]

	name := src.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", idx)
	}
	n := scene.NewNode(name)
	setTransform(n, src)

	if src.Mesh != nil {
		if err := b.attachMesh(n, *src.Mesh); err != nil {
			return fmt.Errorf("node %q: %w", name, err)
		}
	}
	parent.Add(n)

	for _, c := range src.Children {
		if err := b.addNode(n, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// setTransform copies TRS, decomposing an explicit matrix when present.
func setTransform(n *scene.Node, src *gltf.Node) {
	m := src.MatrixOrDefault()
	if m != gltf.DefaultMatrix {
		var mat mgl32.Mat4
		for i, v := range m {
			mat[i] = float32(v)
		}
		t := mat.Col(3).Vec3()
		s := mgl32.Vec3{mat.Col(0).Vec3().Len(), mat.Col(1).Vec3().Len(), mat.Col(2).Vec3().Len()}
		rot := mgl32.Ident3()
		for c := 0; c < 3; c++ {
			col := mat.Col(c).Vec3()
			if s[c] != 0 {
				col = col.Mul(1 / s[c])
			}
			rot.SetCol(c, col)
		}
		n.Translation = t
		n.Scale = s
		n.Rotation = mgl32.Mat4ToQuat(rot.Mat4())
		return
	}

	t := src.TranslationOrDefault()
	r := src.RotationOrDefault()
	s := src.ScaleOrDefault()
	n.Translation = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	n.Rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
}

// attachMesh puts the first primitive on n and each further primitive on
// its own child node.
func (b *builder) attachMesh(n *scene.Node, meshIdx int) error {
	if meshIdx < 0 || meshIdx >= len(b.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", meshIdx)
	}
	src := b.doc.Meshes[meshIdx]

	first := true
	for i, p := range src.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			b.log.Warn("skipping non-triangle primitive",
				zap.String("node", n.Name), zap.Int("primitive", i), zap.Int("mode", int(p.Mode)))
			continue
		}
		mesh, err := b.readPrimitive(p)
		if err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
		mat := b.material(p.Material)

		target := n
		if !first {
			target = scene.NewNode(fmt.Sprintf("%s_%d", n.Name, i))
			n.Add(target)
		}
		target.Mesh = mesh
		target.Material = mat
		first = false
	}
	return nil
}

func (b *builder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

func (b *builder) readPrimitive(p *gltf.Primitive) (*scene.Mesh, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("missing %s attribute", gltf.POSITION)
	}
	acr, err := b.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	raw, err := modeler.ReadPosition(b.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	positions := make([]mgl32.Vec3, len(raw))
	for i, v := range raw {
		positions[i] = v
	}

	var indices []uint32
	if p.Indices != nil {
		acr, err := b.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(b.doc, acr, nil); err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		for _, ix := range indices {
			if int(ix) >= len(positions) {
				return nil, fmt.Errorf("index %d out of range", ix)
			}
		}
	}
	mesh := scene.NewMesh(positions, indices)

	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		if acr, err := b.accessor(idx); err == nil {
			if normals, err := modeler.ReadNormal(b.doc, acr, nil); err == nil && len(normals) == len(positions) {
				mesh.Normals = make([]mgl32.Vec3, len(normals))
				for i, v := range normals {
					mesh.Normals[i] = v
				}
			}
		}
	}
	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		if acr, err := b.accessor(idx); err == nil {
			if uvs, err := modeler.ReadTextureCoord(b.doc, acr, nil); err == nil && len(uvs) == len(positions) {
				mesh.UVs = make([]mgl32.Vec2, len(uvs))
				for i, v := range uvs {
					mesh.UVs[i] = v
				}
			}
		}
	}
	return mesh, nil
}

func (b *builder) material(idx *int) *scene.Material {
	if idx == nil || *idx < 0 || *idx >= len(b.doc.Materials) {
		return scene.NewStandardMaterial()
	}
	if m, ok := b.materials[*idx]; ok {
		return m
	}

	src := b.doc.Materials[*idx]
	m := scene.NewStandardMaterial()
	m.Name = src.Name
	m.DoubleSided = src.DoubleSided
	e := src.EmissiveFactor
	m.Emissive = mgl32.Vec3{float32(e[0]), float32(e[1]), float32(e[2])}

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			c := *pbr.BaseColorFactor
			m.BaseColor = mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
		}
		if pbr.BaseColorTexture != nil {
			m.Map = b.texture(pbr.BaseColorTexture.Index)
		}
	}
	if src.EmissiveTexture != nil {
		m.EmissiveMap = b.texture(src.EmissiveTexture.Index)
	}

	b.materials[*idx] = m
	return m
}

// texture decodes an embedded image. Failures are logged and leave the
// material untextured.
func (b *builder) texture(idx int) *scene.Texture {
	if t, ok := b.textures[idx]; ok {
		return t
	}
	b.textures[idx] = nil

	if idx < 0 || idx >= len(b.doc.Textures) || b.doc.Textures[idx].Source == nil {
		return nil
	}
	imgIdx := *b.doc.Textures[idx].Source
	if imgIdx < 0 || imgIdx >= len(b.doc.Images) {
		return nil
	}
	src := b.doc.Images[imgIdx]

	data, name, err := b.imageData(src, imgIdx)
	if err != nil {
		b.log.Warn("texture unavailable", zap.Int("image", imgIdx), zap.Error(err))
		return nil
	}
	img, err := texture.DecodeImage(name, data)
	if err != nil {
		b.log.Warn("texture decode failed", zap.String("image", name), zap.Error(err))
		return nil
	}

	t := scene.NewImageTexture(name, img)
	b.textures[idx] = t
	return t
}

func (b *builder) imageData(src *gltf.Image, idx int) ([]byte, string, error) {
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("image_%d", idx)
	}
	switch {
	case src.BufferView != nil:
		if *src.BufferView < 0 || *src.BufferView >= len(b.doc.BufferViews) {
			return nil, name, fmt.Errorf("buffer view %d out of range", *src.BufferView)
		}
		data, err := modeler.ReadBufferView(b.doc, b.doc.BufferViews[*src.BufferView])
		return data, name, err
	case src.IsEmbeddedResource():
		data, err := src.MarshalData()
		return data, name, err
	default:
		return nil, name, fmt.Errorf("external image %q not supported", src.URI)
	}
}

func (b *builder) hasParent(idx int) bool {
	for _, n := range b.doc.Nodes {
		for _, c := range n.Children {
			if c == idx {
				return true
			}
		}
	}
	return false
}
