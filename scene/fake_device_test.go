package scene

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"fieldglobe/core"
	"fieldglobe/rendering"
)

// fakeDevice records every resource it hands out so tests can check that
// each one is released exactly once.
type fakeDevice struct {
	resources []*fakeResource

	textureErr error
	meshErr    func(mat rendering.PhongMaterial) error
	cloudErr   error
	shaderErr  error
}

type fakeResource struct {
	kind     string
	released int
}

func (r *fakeResource) Release() { r.released++ }

func (d *fakeDevice) track(kind string) *fakeResource {
	r := &fakeResource{kind: kind}
	d.resources = append(d.resources, r)
	return r
}

func (d *fakeDevice) count(kind string) int {
	n := 0
	for _, r := range d.resources {
		if r.kind == kind {
			n++
		}
	}
	return n
}

// unreleased returns resources not yet released; overReleased those
// released more than once.
func (d *fakeDevice) unreleased() []*fakeResource {
	var out []*fakeResource
	for _, r := range d.resources {
		if r.released == 0 {
			out = append(out, r)
		}
	}
	return out
}

func (d *fakeDevice) overReleased() []*fakeResource {
	var out []*fakeResource
	for _, r := range d.resources {
		if r.released > 1 {
			out = append(out, r)
		}
	}
	return out
}

func (d *fakeDevice) NewTexture(img image.Image) (rendering.Texture, error) {
	if d.textureErr != nil {
		return nil, d.textureErr
	}
	b := img.Bounds()
	return &fakeTexture{fakeResource: d.track("texture"), w: b.Dx(), h: b.Dy()}, nil
}

func (d *fakeDevice) NewMesh(data core.MeshData, mat rendering.PhongMaterial) (rendering.Mesh, error) {
	if d.meshErr != nil {
		if err := d.meshErr(mat); err != nil {
			return nil, err
		}
	}
	return &fakeMesh{
		fakeResource: d.track("mesh"),
		data:         data,
		mat:          mat,
		transparent:  mat.Opacity < 1 || mat.Additive,
	}, nil
}

func (d *fakeDevice) NewShaderMesh(data core.MeshData, prog rendering.ProgramSource, uniforms map[string]float32, transparent bool) (rendering.ShaderMesh, error) {
	if d.shaderErr != nil {
		return nil, d.shaderErr
	}
	values := make(map[string]float32, len(uniforms))
	for k, v := range uniforms {
		values[k] = v
	}
	return &fakeShaderMesh{
		fakeMesh: fakeMesh{fakeResource: d.track("shader"), data: data, transparent: transparent},
		program:  prog.Name,
		values:   values,
	}, nil
}

func (d *fakeDevice) NewPointCloud(capacity int, mat rendering.PointsMaterial) (rendering.PointCloud, error) {
	if d.cloudErr != nil {
		return nil, d.cloudErr
	}
	return &fakePoints{fakeResource: d.track("points"), capacity: capacity, mat: mat}, nil
}

type fakeTexture struct {
	*fakeResource
	w, h int
}

func (t *fakeTexture) Size() (int, int) { return t.w, t.h }

type fakeMesh struct {
	*fakeResource
	data        core.MeshData
	mat         rendering.PhongMaterial
	transparent bool
	rotY        float32
}

func (m *fakeMesh) Draw(rendering.Camera)    {}
func (m *fakeMesh) Transparent() bool        { return m.transparent }
func (m *fakeMesh) SetRotationY(rad float32) { m.rotY = rad }
func (m *fakeMesh) RotationY() float32       { return m.rotY }

type fakeShaderMesh struct {
	fakeMesh
	program  string
	values   map[string]float32
	panicSet bool
}

func (m *fakeShaderMesh) SetUniform(name string, v float32) {
	if m.panicSet {
		m.panicSet = false
		panic("uniform upload exploded")
	}
	m.values[name] = v
}

func (m *fakeShaderMesh) Uniform(name string) float32 { return m.values[name] }

type fakePoints struct {
	*fakeResource
	capacity  int
	mat       rendering.PointsMaterial
	updates   int
	positions []float32
	updateErr error
}

func (p *fakePoints) Draw(rendering.Camera) {}
func (p *fakePoints) Transparent() bool     { return true }
func (p *fakePoints) Capacity() int         { return p.capacity }

func (p *fakePoints) Update(positions, colors []float32) error {
	if p.updateErr != nil {
		return p.updateErr
	}
	if len(positions) != p.capacity*3 || len(colors) != p.capacity*3 {
		return fmt.Errorf("bad buffer sizes %d/%d", len(positions), len(colors))
	}
	p.updates++
	p.positions = append(p.positions[:0], positions...)
	return nil
}

var errNotFound = errors.New("not found")

// fakeImages serves small images and fails for configured paths.
type fakeImages struct {
	mu    sync.Mutex
	fail  map[string]error
	loads []string
}

func (f *fakeImages) load(path string) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, path)
	if err, ok := f.fail[path]; ok {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 2)), nil
}

func (f *fakeImages) setFail(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		f.fail = make(map[string]error)
	}
	if err == nil {
		delete(f.fail, path)
		return
	}
	f.fail[path] = err
}
