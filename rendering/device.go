// Package rendering defines the GPU resources the scene owns. The OpenGL
// implementation lives in rendering/opengl; tests use an in-memory device.
package rendering

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"fieldglobe/core"
)

// Resource is anything holding GPU memory. Release must be idempotent.
type Resource interface {
	Release()
}

// Drawable is a resource that can be placed in a Scene.
type Drawable interface {
	Resource
	Draw(cam Camera)
	Transparent() bool
}

// Camera carries the matrices for one frame.
type Camera struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Position   mgl32.Vec3
}

// Texture is an uploaded 2D image.
type Texture interface {
	Resource
	Size() (w, h int)
}

// PhongMaterial describes a lit, optionally textured surface.
type PhongMaterial struct {
	Color             mgl32.Vec3
	Emissive          mgl32.Vec3
	EmissiveIntensity float32
	Opacity           float32
	Additive          bool
	Map               Texture // optional base color
	BumpMap           Texture // optional
	BumpScale         float32
	AlphaMap          bool // Map alpha drives opacity
}

// PointsMaterial describes a point sprite cloud.
type PointsMaterial struct {
	Size     float32
	Color    mgl32.Vec3
	Opacity  float32
	Additive bool
}

// ProgramSource is a custom shader pair.
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
}

// Mesh is a static triangle mesh.
type Mesh interface {
	Drawable
	SetRotationY(rad float32)
	RotationY() float32
}

// ShaderMesh is a mesh drawn with a custom program and float uniforms.
type ShaderMesh interface {
	Mesh
	SetUniform(name string, v float32)
	Uniform(name string) float32
}

// PointCloud is a dynamic point buffer of fixed capacity.
type PointCloud interface {
	Drawable
	Capacity() int
	// Update uploads xyz positions and rgb colors, each 3·Capacity floats.
	Update(positions, colors []float32) error
}

// Device creates GPU resources. All methods must be called on the render thread.
type Device interface {
	NewTexture(img image.Image) (Texture, error)
	NewMesh(data core.MeshData, mat PhongMaterial) (Mesh, error)
	NewShaderMesh(data core.MeshData, prog ProgramSource, uniforms map[string]float32, transparent bool) (ShaderMesh, error)
	NewPointCloud(capacity int, mat PointsMaterial) (PointCloud, error)
}
