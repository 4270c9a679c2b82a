package renderer

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/roomfolio/internal/engine/scene"
)

func TestInterleavePlane(t *testing.T) {
	m := scene.Plane(2, 2)
	v := interleave(m)
	require.Len(t, v, 4*floatsPerVertex)

	// first vertex: position, normal, uv
	assert.Equal(t, []float32{-1, -1, 0, 0, 0, 1, 0, 1}, v[:floatsPerVertex])
}

func TestInterleaveComputesNormals(t *testing.T) {
	m := scene.NewMesh([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}}, nil)
	v := interleave(m)
	require.Len(t, v, 3*floatsPerVertex)

	for i := 0; i < 3; i++ {
		n := mgl32.Vec3{v[i*floatsPerVertex+3], v[i*floatsPerVertex+4], v[i*floatsPerVertex+5]}
		assert.InDelta(t, 1, n.Y(), 1e-6, "vertex %d normal %v", i, n)
		assert.Equal(t, float32(0), v[i*floatsPerVertex+6])
	}
}

func TestSmoothNormalsBox(t *testing.T) {
	n := smoothNormals(scene.Box(2, 2, 2))
	require.Len(t, n, 8)
	for _, v := range n {
		assert.InDelta(t, 1, v.Len(), 1e-5)
	}
	// corner (+x,+y,+z) points outwards along the diagonal
	assert.Greater(t, n[6].X(), float32(0))
	assert.Greater(t, n[6].Y(), float32(0))
	assert.Greater(t, n[6].Z(), float32(0))
}

func TestSmoothNormalsDegenerate(t *testing.T) {
	m := scene.NewMesh([]mgl32.Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}, nil)
	for _, n := range smoothNormals(m) {
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, n)
	}
}

func TestPackRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}

	t.Run("tight image is returned as is", func(t *testing.T) {
		pix := packRGBA(img)
		assert.Equal(t, img.Pix, pix)
	})

	t.Run("sub image drops row padding", func(t *testing.T) {
		sub := img.SubImage(image.Rect(1, 0, 2, 2)).(*image.RGBA)
		pix := packRGBA(sub)
		assert.Equal(t, []uint8{4, 5, 6, 7, 12, 13, 14, 15}, pix)
	})
}
