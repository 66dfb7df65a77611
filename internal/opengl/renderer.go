// Package opengl implements the OpenGL 4.1 rendering backend. It owns the
// shader program, caches uniform locations, uploads meshes lazily, and
// resolves the clipping properties each draw from the per-node override,
// the material, and the scene globals, in that order.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/MindPort-GmbH/Z-Anatomy-Sample/carve"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/core"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/scene"
)

// GPUMesh holds the GL objects of an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
}

// Renderer draws scene nodes with the lit clip-capable shader.
type Renderer struct {
	program   uint32
	gpuMeshes map[*scene.Mesh]*GPUMesh

	// Cached uniform locations
	mvpLoc       int32
	modelLoc     int32
	lightDirLoc  int32
	lightColLoc  int32
	lightIntLoc  int32
	ambientLoc   int32
	cameraPosLoc int32

	albedoLoc    int32
	specularLoc  int32
	shininessLoc int32
	unlitLoc     int32

	carveEnabledLoc int32
	carveCountLoc   int32
	carveStampsLoc  int32
	planeEnabledLoc int32
	planeLoc        int32

	// identityStamps is uploaded when no stamp matrices were ever published.
	identityStamps [carve.MaxSlots]math.Mat4
}

// NewRenderer initializes OpenGL and compiles the shader program.
// Must be called on the thread that owns the GL context.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader program: %w", err)
	}

	r := &Renderer{
		program:   prog,
		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
	}

	loc := func(name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}
	r.mvpLoc = loc("mvp")
	r.modelLoc = loc("model")
	r.lightDirLoc = loc("lightDir")
	r.lightColLoc = loc("lightColor")
	r.lightIntLoc = loc("lightIntensity")
	r.ambientLoc = loc("ambientColor")
	r.cameraPosLoc = loc("cameraPos")
	r.albedoLoc = loc("matAlbedo")
	r.specularLoc = loc("matSpecular")
	r.shininessLoc = loc("matShininess")
	r.unlitLoc = loc("unlit")
	r.carveEnabledLoc = loc(carve.PropEnabled)
	r.carveCountLoc = loc(carve.PropCount)
	r.carveStampsLoc = loc(carve.PropStamps + "[0]")
	r.planeEnabledLoc = loc(carve.PropPlaneEnabled)
	r.planeLoc = loc(carve.PropPlane)

	for i := range r.identityStamps {
		r.identityStamps[i] = math.Mat4Identity()
	}

	gl.Enable(gl.DEPTH_TEST)
	// Carved surfaces expose their back faces, so face culling stays off.
	gl.Disable(gl.CULL_FACE)

	return r, nil
}

func (r *Renderer) SetViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

// BeginFrame clears the framebuffer and uploads the per-frame uniforms:
// clear color, camera position, and the first directional light.
func (r *Renderer) BeginFrame(s *scene.Scene) {
	gl.ClearColor(s.SkyColor.R, s.SkyColor.G, s.SkyColor.B, s.SkyColor.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)

	if s.Camera != nil {
		p := s.Camera.Position
		gl.Uniform3f(r.cameraPosLoc, p.X, p.Y, p.Z)
	}

	gl.Uniform3f(r.ambientLoc, s.Ambient.R, s.Ambient.G, s.Ambient.B)

	// Default to a dim headlight-less frame if no directional light exists.
	dir := math.Vec3{X: 0, Y: -1, Z: 0}
	col := core.ColorWhite
	intensity := float32(0)
	for _, l := range s.Lights {
		if l.Type == scene.LightTypeDirectional {
			dir = l.Direction
			col = l.Color
			intensity = l.Intensity
			break
		}
	}
	gl.Uniform3f(r.lightDirLoc, dir.X, dir.Y, dir.Z)
	gl.Uniform3f(r.lightColLoc, col.R, col.G, col.B)
	gl.Uniform1f(r.lightIntLoc, intensity)
}

// DrawNode renders one node. Clipping properties are resolved against the
// node's override block first, then its material, then the scene globals.
func (r *Renderer) DrawNode(s *scene.Scene, n *scene.Node, viewProj math.Mat4) {
	if n.Mesh == nil {
		return
	}
	gpu := r.ensureUploaded(n.Mesh)
	if gpu == nil {
		return
	}

	model := n.GetWorldMatrix()
	mvp := model.Mul(viewProj)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))
	gl.UniformMatrix4fv(r.modelLoc, 1, false, (*float32)(unsafe.Pointer(&model[0][0])))

	mat := n.Mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	r.applyMaterial(mat)
	r.applyClipState(s, n, mat)

	primitive := uint32(gl.TRIANGLES)
	if n.Mesh.DrawMode == scene.DrawLines {
		primitive = gl.LINES
	}

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(primitive, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(primitive, 0, int32(len(n.Mesh.Vertices)))
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) applyMaterial(mat *scene.Material) {
	gl.Uniform4f(r.albedoLoc, mat.Albedo.R, mat.Albedo.G, mat.Albedo.B, mat.Albedo.A)
	gl.Uniform4f(r.specularLoc, mat.Specular.R, mat.Specular.G, mat.Specular.B, mat.Specular.A)
	gl.Uniform1f(r.shininessLoc, mat.Shininess)
	if mat.Unlit {
		gl.Uniform1i(r.unlitLoc, 1)
	} else {
		gl.Uniform1i(r.unlitLoc, 0)
	}
}

// applyClipState uploads the clipping uniforms for one draw. Each property
// falls back independently: node override, material block, scene globals.
func (r *Renderer) applyClipState(s *scene.Scene, n *scene.Node, mat *scene.Material) {
	blocks := make([]*scene.PropertyBlock, 0, 3)
	if ob := n.OverrideBlock(); ob != nil {
		blocks = append(blocks, ob)
	}
	if mat.Props != nil {
		blocks = append(blocks, mat.Props)
	}
	if s.Globals != nil {
		blocks = append(blocks, s.Globals)
	}

	enabled := resolveFloat(blocks, carve.PropEnabled, 0)
	count := resolveFloat(blocks, carve.PropCount, 0)
	gl.Uniform1f(r.carveEnabledLoc, enabled)
	gl.Uniform1f(r.carveCountLoc, count)

	stamps := r.identityStamps[:]
	for _, b := range blocks {
		if ms, ok := b.Matrices(carve.PropStamps); ok && len(ms) == carve.MaxSlots {
			stamps = ms
			break
		}
	}
	gl.UniformMatrix4fv(r.carveStampsLoc, carve.MaxSlots, false,
		(*float32)(unsafe.Pointer(&stamps[0][0][0])))

	planeEnabled := resolveFloat(blocks, carve.PropPlaneEnabled, 0)
	gl.Uniform1f(r.planeEnabledLoc, planeEnabled)

	plane := math.Vec4{}
	for _, b := range blocks {
		if v, ok := b.Vec4(carve.PropPlane); ok {
			plane = v
			break
		}
	}
	gl.Uniform4f(r.planeLoc, plane.X, plane.Y, plane.Z, plane.W)
}

func resolveFloat(blocks []*scene.PropertyBlock, name string, def float32) float32 {
	for _, b := range blocks {
		if v, ok := b.Float(name); ok {
			return v
		}
	}
	return def
}

func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))
	colorOff := int(unsafe.Offsetof(v.Color))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// ReleaseMesh frees the GPU objects of an uploaded mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	gpu, ok := r.gpuMeshes[mesh]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	if gpu.HasIndices {
		gl.DeleteBuffers(1, &gpu.EBO)
	}
	delete(r.gpuMeshes, mesh)
	mesh.GPUData = nil
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	gl.DeleteProgram(r.program)
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
