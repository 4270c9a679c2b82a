package scene

import "github.com/go-gl/mathgl/mgl32"

// Mesh is indexed triangle geometry in node-local space.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32

	Min, Max mgl32.Vec3
}

// NewMesh creates a mesh and computes its local bounds.
// If indices is nil the positions are taken as a triangle list.
func NewMesh(positions []mgl32.Vec3, indices []uint32) *Mesh {
	if indices == nil {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	m := &Mesh{Positions: positions, Indices: indices}
	m.ComputeBounds()
	return m
}

// ComputeBounds recalculates the local axis-aligned bounds.
func (m *Mesh) ComputeBounds() {
	if len(m.Positions) == 0 {
		m.Min, m.Max = mgl32.Vec3{}, mgl32.Vec3{}
		return
	}
	m.Min, m.Max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < m.Min[i] {
				m.Min[i] = p[i]
			}
			if p[i] > m.Max[i] {
				m.Max[i] = p[i]
			}
		}
	}
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the local-space corners of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c mgl32.Vec3) {
	return m.Positions[m.Indices[i*3]], m.Positions[m.Indices[i*3+1]], m.Positions[m.Indices[i*3+2]]
}

// Plane builds a width x height quad in the XY plane facing +Z, with UVs.
func Plane(width, height float32) *Mesh {
	hw, hh := width/2, height/2
	m := NewMesh([]mgl32.Vec3{
		{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0},
	}, []uint32{0, 1, 2, 0, 2, 3})
	m.Normals = []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	m.UVs = []mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	return m
}

// Box builds an axis-aligned box centred on the origin.
func Box(w, h, d float32) *Mesh {
	x, y, z := w/2, h/2, d/2
	corners := []mgl32.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	}
	return NewMesh(corners, []uint32{
		4, 5, 6, 4, 6, 7, // front
		1, 0, 3, 1, 3, 2, // back
		0, 4, 7, 0, 7, 3, // left
		5, 1, 2, 5, 2, 6, // right
		3, 7, 6, 3, 6, 2, // top
		0, 1, 5, 0, 5, 4, // bottom
	})
}
