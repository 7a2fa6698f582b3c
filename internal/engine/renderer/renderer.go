// Package renderer draws the robot scene graph with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/armlab/robotview/internal/engine/model"
	"github.com/armlab/robotview/internal/engine/scene"
	"github.com/armlab/robotview/internal/engine/shader"
	"github.com/armlab/robotview/internal/engine/texture"
	"github.com/armlab/robotview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer walks the scene graph each frame and draws every renderable node
// with its current material. Mesh geometry uploads lazily and is cached per
// mesh for the renderer's lifetime.
type Renderer struct {
	config Config

	program       uint32
	locModel      int32
	locView       int32
	locProjection int32
	locColor      int32
	locEmissive   int32
	locShininess  int32
	locLit        int32
	locLightDir   int32
	locViewPos    int32
	locTexture    int32
	locTextured   int32

	meshes   map[*model.Mesh]*gpuMesh
	textures map[*scene.Texture]uint32
}

type gpuMesh struct {
	vao uint32
	vbo uint32
	ebo uint32
}

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec3 vWorldPos;
out vec2 vTexCoord;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(uModel) * aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uProjection * uView * world;
}
`

const fragmentShaderSource = `#version 410 core
in vec3 vNormal;
in vec3 vWorldPos;
in vec2 vTexCoord;

uniform vec4 uColor;
uniform vec3 uEmissive;
uniform float uShininess;
uniform int uLit;
uniform vec3 uLightDir;
uniform vec3 uViewPos;
uniform sampler2D uTexture;
uniform int uTextured;

out vec4 FragColor;

void main() {
    vec4 base = uColor;
    if (uTextured != 0) {
        base = texture(uTexture, vTexCoord) * uColor;
    }
    if (uLit == 0) {
        FragColor = base;
        return;
    }
    vec3 normal = normalize(vNormal);
    vec3 lightDir = normalize(uLightDir);
    float diff = max(dot(normal, lightDir), 0.0);
    vec3 viewDir = normalize(uViewPos - vWorldPos);
    vec3 halfway = normalize(lightDir + viewDir);
    float spec = pow(max(dot(normal, halfway), 0.0), max(uShininess, 1.0));
    vec3 lit = (0.35 + 0.65 * diff) * base.rgb + 0.4 * spec * vec3(1.0) + uEmissive;
    FragColor = vec4(lit, base.a);
}
`

// New creates a renderer. Must be called after the OpenGL context exists.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		meshes:   make(map[*model.Mesh]*gpuMesh),
		textures: make(map[*scene.Texture]uint32),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.12, 0.12, 0.16, 1.0)

	program, err := shader.CompileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compiling scene shader: %w", err)
	}
	r.program = program
	r.locModel = shader.GetUniform(program, "uModel")
	r.locView = shader.GetUniform(program, "uView")
	r.locProjection = shader.GetUniform(program, "uProjection")
	r.locColor = shader.GetUniform(program, "uColor")
	r.locEmissive = shader.GetUniform(program, "uEmissive")
	r.locShininess = shader.GetUniform(program, "uShininess")
	r.locLit = shader.GetUniform(program, "uLit")
	r.locLightDir = shader.GetUniform(program, "uLightDir")
	r.locViewPos = shader.GetUniform(program, "uViewPos")
	r.locTexture = shader.GetUniform(program, "uTexture")
	r.locTextured = shader.GetUniform(program, "uTextured")

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Resize updates the GL viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// DrawScene clears the frame and draws every renderable node under root.
func (r *Renderer) DrawScene(root *scene.Node, view, projection mgl32.Mat4, viewPos mgl32.Vec3) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locView, 1, false, &view[0])
	gl.UniformMatrix4fv(r.locProjection, 1, false, &projection[0])
	gl.Uniform3f(r.locLightDir, 0.4, 0.8, 0.45)
	gl.Uniform3f(r.locViewPos, viewPos.X(), viewPos.Y(), viewPos.Z())

	root.Walk(func(n *scene.Node) {
		if !n.Renderable() {
			return
		}
		r.drawNode(n)
	})
}

func (r *Renderer) drawNode(n *scene.Node) {
	gpu := r.uploadMesh(n.Mesh)
	world := n.WorldMatrix()
	gl.UniformMatrix4fv(r.locModel, 1, false, &world[0])

	gl.BindVertexArray(gpu.vao)
	for i, group := range n.Mesh.Groups {
		mat := n.Material
		if len(n.MaterialGroup) > 0 && i < len(n.MaterialGroup) {
			mat = n.MaterialGroup[i]
		}
		if mat == nil {
			continue
		}
		r.applyMaterial(mat)
		offset := uintptr(group.StartIndex) * unsafe.Sizeof(uint32(0))
		gl.DrawElements(gl.TRIANGLES, group.IndexCount, gl.UNSIGNED_INT, unsafe.Pointer(offset))
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) applyMaterial(mat *scene.Material) {
	gl.Uniform4f(r.locColor, mat.Color[0], mat.Color[1], mat.Color[2], mat.Color[3])
	gl.Uniform3f(r.locEmissive, mat.Emissive[0], mat.Emissive[1], mat.Emissive[2])
	gl.Uniform1f(r.locShininess, mat.Shininess)
	if mat.Shading == scene.ShadingLit {
		gl.Uniform1i(r.locLit, 1)
	} else {
		gl.Uniform1i(r.locLit, 0)
	}

	if tex := r.uploadTexture(mat.Texture); tex != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.Uniform1i(r.locTexture, 0)
		gl.Uniform1i(r.locTextured, 1)
	} else {
		gl.Uniform1i(r.locTextured, 0)
	}
}

// uploadTexture lazily decodes and uploads a material texture. A texture that
// fails to decode is cached as 0 so the failure logs once, not every frame.
func (r *Renderer) uploadTexture(t *scene.Texture) uint32 {
	if t == nil {
		return 0
	}
	if id, ok := r.textures[t]; ok {
		return id
	}

	img, err := texture.Decode(t.Name, t.Data)
	if err != nil {
		logger.Warn("failed to decode texture", zap.String("name", t.Name), zap.Error(err))
		r.textures[t] = 0
		return 0
	}

	internalFormat := int32(gl.RGBA8)
	if t.ColorSpace == scene.ColorSpaceSRGB {
		internalFormat = gl.SRGB8_ALPHA8
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	size := img.Bounds().Size()
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(size.X), int32(size.Y),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.textures[t] = id
	return id
}

func (r *Renderer) uploadMesh(m *model.Mesh) *gpuMesh {
	if gpu, ok := r.meshes[m]; ok {
		return gpu
	}

	gpu := &gpuMesh{}
	gl.GenVertexArrays(1, &gpu.vao)
	gl.BindVertexArray(gpu.vao)

	gl.GenBuffers(1, &gpu.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(unsafe.Sizeof(model.Vertex{})), gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &gpu.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	stride := int32(unsafe.Sizeof(model.Vertex{}))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, uintptr(12))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, uintptr(24))

	gl.BindVertexArray(0)
	r.meshes[m] = gpu
	return gpu
}

// Destroy releases all GPU resources the renderer allocated.
func (r *Renderer) Destroy() {
	for _, gpu := range r.meshes {
		gl.DeleteBuffers(1, &gpu.vbo)
		gl.DeleteBuffers(1, &gpu.ebo)
		gl.DeleteVertexArrays(1, &gpu.vao)
	}
	r.meshes = make(map[*model.Mesh]*gpuMesh)
	for _, id := range r.textures {
		if id != 0 {
			gl.DeleteTextures(1, &id)
		}
	}
	r.textures = make(map[*scene.Texture]uint32)
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}
