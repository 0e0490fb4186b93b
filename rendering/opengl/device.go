// Package opengl implements the rendering contracts on OpenGL 4.1 core
// with a GLFW window. Everything here must run on the locked render thread.
package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"fieldglobe/core"
	"fieldglobe/rendering"
	"fieldglobe/rendering/opengl/shaders"
)

var lightDirection = mgl32.Vec3{0.5, 1.0, 0.3}

// Device creates GPU resources on the current GL context.
type Device struct {
	phong  *program
	points *program
	custom map[string]*program

	viewportHeight float32
}

// NewDevice compiles the built-in programs.
func NewDevice(viewportHeight int) (*Device, error) {
	phong, err := newProgram(shaders.Phong)
	if err != nil {
		return nil, err
	}
	points, err := newProgram(shaders.Points)
	if err != nil {
		phong.delete()
		return nil, err
	}
	return &Device{
		phong:          phong,
		points:         points,
		custom:         make(map[string]*program),
		viewportHeight: float32(viewportHeight),
	}, nil
}

// SetViewportHeight updates the point sprite scale after a resize.
func (d *Device) SetViewportHeight(h int) {
	d.viewportHeight = float32(h)
}

// Release deletes the programs. Resources created by the device must be
// released first.
func (d *Device) Release() {
	d.phong.delete()
	d.points.delete()
	for _, p := range d.custom {
		p.delete()
	}
	d.custom = map[string]*program{}
}

func (d *Device) NewTexture(img image.Image) (rendering.Texture, error) {
	rgba := rendering.ToRGBA(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	t := &texture{w: w, h: h}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

func (d *Device) NewMesh(data core.MeshData, mat rendering.PhongMaterial) (rendering.Mesh, error) {
	m, err := uploadMesh(data)
	if err != nil {
		return nil, err
	}
	m.prog = d.phong
	m.mat = mat
	m.transparent = mat.Opacity < 1 || mat.Additive || mat.AlphaMap
	m.additive = mat.Additive
	return m, nil
}

func (d *Device) NewShaderMesh(data core.MeshData, src rendering.ProgramSource, uniforms map[string]float32, transparent bool) (rendering.ShaderMesh, error) {
	prog, ok := d.custom[src.Name]
	if !ok {
		var err error
		if prog, err = newProgram(src); err != nil {
			return nil, err
		}
		d.custom[src.Name] = prog
	}

	m, err := uploadMesh(data)
	if err != nil {
		return nil, err
	}
	m.prog = prog
	m.custom = true
	m.transparent = transparent

	sm := &shaderMesh{mesh: m, values: make(map[string]float32, len(uniforms))}
	for k, v := range uniforms {
		sm.values[k] = v
	}
	return sm, nil
}

func (d *Device) NewPointCloud(capacity int, mat rendering.PointsMaterial) (rendering.PointCloud, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("point cloud capacity must be positive, got %d", capacity)
	}
	pc := &pointCloud{dev: d, capacity: capacity, mat: mat}
	size := capacity * 3 * 4

	gl.GenVertexArrays(1, &pc.vao)
	gl.BindVertexArray(pc.vao)

	gl.GenBuffers(1, &pc.posVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, pc.posVBO)
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &pc.colorVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, pc.colorVBO)
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return pc, nil
}

type texture struct {
	id   uint32
	w, h int
}

func (t *texture) Size() (int, int) { return t.w, t.h }

func (t *texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

func (t *texture) bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

type mesh struct {
	vao, vbo, ebo uint32
	indexCount    int32

	prog        *program
	mat         rendering.PhongMaterial
	custom      bool
	transparent bool
	additive    bool
	rotY        float32
}

// uploadMesh creates the VAO with the interleaved position, normal, uv layout.
func uploadMesh(data core.MeshData) (*mesh, error) {
	if data.VertexCount() == 0 || len(data.Indices) == 0 {
		return nil, fmt.Errorf("empty mesh")
	}
	vertices := data.Interleaved()
	m := &mesh{indexCount: int32(len(data.Indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)

	// Each vertex has 8 floats: 3 position, 3 normal, 2 uv
	stride := int32(8 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return m, nil
}

func (m *mesh) SetRotationY(rad float32) { m.rotY = rad }
func (m *mesh) RotationY() float32       { return m.rotY }
func (m *mesh) Transparent() bool        { return m.transparent }

func (m *mesh) Release() {
	if m.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	m.vao, m.vbo, m.ebo = 0, 0, 0
}

func (m *mesh) Draw(cam rendering.Camera) {
	m.drawWith(cam, nil)
}

func (m *mesh) drawWith(cam rendering.Camera, values map[string]float32) {
	if m.vao == 0 {
		return
	}
	p := m.prog
	p.use()
	p.setMat4("projection", cam.Projection)
	p.setMat4("view", cam.View)
	p.setMat4("model", mgl32.HomogRotate3DY(m.rotY))

	if m.custom {
		for name, v := range values {
			p.setFloat(name, v)
		}
	} else {
		m.bindPhong(cam)
	}

	setBlend(m.transparent, m.additive)
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	setBlend(false, false)
}

func (m *mesh) bindPhong(cam rendering.Camera) {
	p, mat := m.prog, m.mat
	p.setVec3("color", mat.Color)
	p.setVec3("emissive", mat.Emissive)
	p.setFloat("emissiveIntensity", mat.EmissiveIntensity)
	p.setFloat("opacity", mat.Opacity)
	p.setVec3("lightDir", lightDirection)
	p.setVec3("cameraPos", cam.Position)

	if t, ok := mat.Map.(*texture); ok && t.id != 0 {
		t.bind(0)
		p.setInt("map", 0)
		p.setBool("useMap", true)
		p.setBool("alphaMap", mat.AlphaMap)
	} else {
		p.setBool("useMap", false)
	}
	if t, ok := mat.BumpMap.(*texture); ok && t.id != 0 {
		t.bind(1)
		p.setInt("bumpMap", 1)
		p.setBool("useBump", true)
		p.setFloat("bumpScale", mat.BumpScale)
		p.setVec2("bumpTexel", 1/float32(t.w), 1/float32(t.h))
	} else {
		p.setBool("useBump", false)
	}
}

type shaderMesh struct {
	*mesh
	values map[string]float32
}

func (s *shaderMesh) SetUniform(name string, v float32) { s.values[name] = v }
func (s *shaderMesh) Uniform(name string) float32       { return s.values[name] }
func (s *shaderMesh) Draw(cam rendering.Camera)         { s.drawWith(cam, s.values) }

type pointCloud struct {
	dev              *Device
	vao              uint32
	posVBO, colorVBO uint32
	capacity         int
	mat              rendering.PointsMaterial
}

func (pc *pointCloud) Capacity() int     { return pc.capacity }
func (pc *pointCloud) Transparent() bool { return pc.mat.Opacity < 1 || pc.mat.Additive }

func (pc *pointCloud) Update(positions, colors []float32) error {
	if pc.vao == 0 {
		return fmt.Errorf("point cloud released")
	}
	want := pc.capacity * 3
	if len(positions) != want || len(colors) != want {
		return fmt.Errorf("point cloud expects %d floats, got %d positions and %d colors", want, len(positions), len(colors))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, pc.posVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, want*4, gl.Ptr(positions))
	gl.BindBuffer(gl.ARRAY_BUFFER, pc.colorVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, want*4, gl.Ptr(colors))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (pc *pointCloud) Draw(cam rendering.Camera) {
	if pc.vao == 0 {
		return
	}
	p := pc.dev.points
	p.use()
	p.setMat4("projection", cam.Projection)
	p.setMat4("view", cam.View)
	p.setFloat("size", pc.mat.Size)
	p.setFloat("scale", pc.dev.viewportHeight/2)
	p.setVec3("tint", pc.mat.Color)
	p.setFloat("opacity", pc.mat.Opacity)

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	setBlend(pc.Transparent(), pc.mat.Additive)
	gl.BindVertexArray(pc.vao)
	gl.DrawArrays(gl.POINTS, 0, int32(pc.capacity))
	gl.BindVertexArray(0)
	setBlend(false, false)
	gl.Disable(gl.PROGRAM_POINT_SIZE)
}

func (pc *pointCloud) Release() {
	if pc.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &pc.vao)
	gl.DeleteBuffers(1, &pc.posVBO)
	gl.DeleteBuffers(1, &pc.colorVBO)
	pc.vao, pc.posVBO, pc.colorVBO = 0, 0, 0
}

// setBlend configures blending and depth writes for the next draw.
func setBlend(transparent, additive bool) {
	if !transparent {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
		return
	}
	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	if additive {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	} else {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
}
