// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/engine/lighting"
	"github.com/Faultbox/roomfolio/internal/engine/scene"
	"github.com/Faultbox/roomfolio/internal/engine/shader"
	"github.com/Faultbox/roomfolio/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// DefaultLight is a warm sun high over the viewer's shoulder.
var DefaultLight = lighting.Sun(35, 55, mgl32.Vec3{0.8, 0.78, 0.74})

// DefaultAmbient is used until an environment texture has loaded.
var DefaultAmbient = mgl32.Vec3{0.35, 0.35, 0.4}

// Renderer draws scene graphs. GPU resources are created the first time a
// mesh or texture is drawn and released when they are disposed.
type Renderer struct {
	config Config
	log    *zap.Logger

	program *shader.Program
	white   uint32

	meshes   map[*scene.Mesh]*gpuMesh
	textures map[*scene.Texture]*gpuTexture

	Ambient    mgl32.Vec3
	Light      lighting.Directional
	ClearColor mgl32.Vec4
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		log:        logger.Named("renderer"),
		meshes:     make(map[*scene.Mesh]*gpuMesh),
		textures:   make(map[*scene.Texture]*gpuTexture),
		Ambient:    DefaultAmbient,
		Light:      DefaultLight,
		ClearColor: mgl32.Vec4{0.06, 0.06, 0.08, 1},
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)

	var err error
	r.program, err = shader.NewProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.white = uploadPixels(1, 1, []uint8{255, 255, 255, 255}, false, 0)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for m := range r.meshes {
		r.releaseMesh(m)
	}
	for t := range r.textures {
		r.releaseTexture(t)
	}
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize. width and height are in framebuffer pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetAmbient sets the ambient light colour, usually the environment average.
func (r *Renderer) SetAmbient(c mgl32.Vec3) {
	r.Ambient = c
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	c := r.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Render draws every mesh node under root.
func (r *Renderer) Render(root *scene.Node, view, projection mgl32.Mat4) {
	if root == nil {
		return
	}

	r.program.Use()
	r.program.SetMat4("uView", view)
	r.program.SetMat4("uProjection", projection)
	r.program.SetVec3("uAmbient", r.Ambient)
	r.program.SetVec3("uLightDir", r.Light.Direction)
	r.program.SetVec3("uLightColor", r.Light.Color)
	r.program.SetInt("uMap", 0)
	r.program.SetInt("uEmissiveMap", 1)

	root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil {
			r.drawNode(n)
		}
	})

	gl.BindVertexArray(0)
	gl.UseProgram(0)
	r.sweep()
}

func (r *Renderer) drawNode(n *scene.Node) {
	gm := r.mesh(n.Mesh)
	if gm == nil {
		return
	}

	mat := n.Material
	if mat == nil {
		mat = defaultMaterial
	}
	mat.NeedsUpdate = false

	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	r.program.SetMat4("uModel", n.WorldMatrix())
	r.program.SetVec4("uBaseColor", mat.BaseColor)
	r.program.SetVec3("uEmissive", mat.Emissive.Mul(mat.EmissiveIntensity))

	// Uploads rebind unit 0, so resolve both before binding.
	baseTex, emissiveTex := r.texture(mat.Map), r.texture(mat.EmissiveMap)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, baseTex)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, emissiveTex)

	gl.BindVertexArray(gm.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, gm.count, gl.UNSIGNED_INT, 0)
}

// ReleaseScene frees the GPU buffers of every mesh and texture under root.
// Call it when a scene is discarded.
func (r *Renderer) ReleaseScene(root *scene.Node) {
	if root == nil {
		return
	}
	root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil {
			r.releaseMesh(n.Mesh)
		}
		if n.Material != nil {
			r.releaseTexture(n.Material.Map)
			r.releaseTexture(n.Material.EmissiveMap)
		}
	})
}

// Stats returns the number of meshes and textures resident on the GPU.
func (r *Renderer) Stats() (meshes, textures int) {
	return len(r.meshes), len(r.textures)
}

// sweep releases textures that were disposed since the last frame.
func (r *Renderer) sweep() {
	for t := range r.textures {
		if t.Disposed() {
			r.releaseTexture(t)
		}
	}
}

var defaultMaterial = scene.NewStandardMaterial()

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec2 vUV;

void main() {
	vNormal = mat3(transpose(inverse(uModel))) * aNormal;
	vUV = aUV;
	gl_Position = uProjection * uView * uModel * vec4(aPos, 1.0);
}
`

const fragmentShader = `
#version 410 core

in vec3 vNormal;
in vec2 vUV;

uniform vec4 uBaseColor;
uniform sampler2D uMap;
uniform vec3 uEmissive;
uniform sampler2D uEmissiveMap;
uniform vec3 uAmbient;
uniform vec3 uLightDir;
uniform vec3 uLightColor;

out vec4 FragColor;

void main() {
	vec4 albedo = uBaseColor * texture(uMap, vUV);
	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}
	float diffuse = max(dot(n, -normalize(uLightDir)), 0.0);
	vec3 lit = albedo.rgb * (uAmbient + uLightColor * diffuse);
	vec3 glow = uEmissive * texture(uEmissiveMap, vUV).rgb;
	FragColor = vec4(clamp(lit + glow, 0.0, 1.0), albedo.a);
}
`
