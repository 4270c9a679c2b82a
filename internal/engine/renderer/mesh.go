package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/engine/scene"
)

// floatsPerVertex is position(3) + normal(3) + uv(2).
const floatsPerVertex = 8

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

func (r *Renderer) mesh(m *scene.Mesh) *gpuMesh {
	if gm, ok := r.meshes[m]; ok {
		return gm
	}
	if len(m.Indices) == 0 || len(m.Positions) == 0 {
		return nil
	}

	vertices := interleave(m)
	gm := &gpuMesh{count: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	r.meshes[m] = gm
	r.log.Debug("mesh uploaded",
		zap.Int("vertices", len(m.Positions)),
		zap.Int("triangles", m.TriangleCount()),
	)
	return gm
}

func (r *Renderer) releaseMesh(m *scene.Mesh) {
	gm, ok := r.meshes[m]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gm.vao)
	gl.DeleteBuffers(1, &gm.vbo)
	gl.DeleteBuffers(1, &gm.ebo)
	delete(r.meshes, m)
}

// interleave packs a mesh into the vertex layout of the scene shader.
// Missing normals are computed from the faces; missing UVs are zero.
func interleave(m *scene.Mesh) []float32 {
	normals := m.Normals
	if len(normals) != len(m.Positions) {
		normals = smoothNormals(m)
	}

	out := make([]float32, 0, len(m.Positions)*floatsPerVertex)
	for i, p := range m.Positions {
		var uv mgl32.Vec2
		if i < len(m.UVs) {
			uv = m.UVs[i]
		}
		n := normals[i]
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return out
}

// smoothNormals averages area-weighted face normals at each vertex.
func smoothNormals(m *scene.Mesh) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(m.Positions))
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		face := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range m.Indices[i*3 : i*3+3] {
			normals[idx] = normals[idx].Add(face)
		}
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	return normals
}
