package scene

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// FrameSource supplies the current image of a dynamic texture. The version
// changes whenever a new frame is available.
type FrameSource interface {
	Frame() (img *image.RGBA, version uint64)
}

// Texture is image data sampled by a material. Exactly one of Image or
// Source is set.
type Texture struct {
	Name   string
	Image  *image.RGBA
	Source FrameSource

	// Linear selects linear min/mag filtering without mipmaps.
	Linear bool

	disposed bool
}

// NewImageTexture wraps a static image.
func NewImageTexture(name string, img *image.RGBA) *Texture {
	return &Texture{Name: name, Image: img}
}

// NewSourceTexture wraps a dynamic frame source such as a video.
func NewSourceTexture(name string, src FrameSource) *Texture {
	return &Texture{Name: name, Source: src, Linear: true}
}

// Current returns the image to upload and its version. Static textures
// always report version 1.
func (t *Texture) Current() (*image.RGBA, uint64) {
	if t.Source != nil {
		return t.Source.Frame()
	}
	return t.Image, 1
}

// Dispose marks the texture for release by the renderer.
func (t *Texture) Dispose() {
	t.disposed = true
}

// Disposed reports whether Dispose has been called.
func (t *Texture) Disposed() bool {
	return t.disposed
}

// Material describes how a mesh surface is shaded.
type Material struct {
	Name      string
	BaseColor mgl32.Vec4
	Map       *Texture

	Emissive          mgl32.Vec3
	EmissiveIntensity float32
	EmissiveMap       *Texture

	DoubleSided bool

	// NeedsUpdate tells the renderer to re-read material state.
	NeedsUpdate bool

	disposed bool
}

// NewStandardMaterial returns a white, non-emissive material.
func NewStandardMaterial() *Material {
	return &Material{
		Name:              "standard",
		BaseColor:         mgl32.Vec4{1, 1, 1, 1},
		EmissiveIntensity: 1,
	}
}

// Clone returns a shallow copy; textures are shared with the original.
func (m *Material) Clone() *Material {
	c := *m
	c.disposed = false
	return &c
}

// Dispose marks the material as released.
func (m *Material) Dispose() {
	m.disposed = true
}

// Disposed reports whether Dispose has been called.
func (m *Material) Disposed() bool {
	return m.disposed
}
