package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"fieldglobe/physics"
	"fieldglobe/rendering"
)

var particleMaterial = rendering.PointsMaterial{
	Size:     0.01,
	Color:    mgl32.Vec3{1, 1, 1},
	Opacity:  0.6,
	Additive: true,
}

// ParticleLayer couples a particle system with the point buffer that
// displays it.
type ParticleLayer struct {
	sys   *physics.System
	cloud rendering.PointCloud
}

// NewParticleLayer seeds n particles and uploads their initial state.
func NewParticleLayer(dev rendering.Device, n int, rng physics.RandSource) (*ParticleLayer, error) {
	sys := physics.NewSystem(n, rng)
	cloud, err := dev.NewPointCloud(sys.Len(), particleMaterial)
	if err != nil {
		return nil, err
	}
	if err := cloud.Update(sys.Positions, sys.Colors); err != nil {
		cloud.Release()
		return nil, err
	}
	return &ParticleLayer{sys: sys, cloud: cloud}, nil
}

// Step advances the simulation under the field derived from globalIndex and
// uploads the new buffers. A released layer does nothing.
func (p *ParticleLayer) Step(globalIndex float64) error {
	if p.cloud == nil {
		return nil
	}
	p.sys.Step(physics.FieldStrength(globalIndex))
	return p.cloud.Update(p.sys.Positions, p.sys.Colors)
}

// System exposes the simulation for inspection.
func (p *ParticleLayer) System() *physics.System {
	return p.sys
}

// Drawable returns the point buffer, or nil once released.
func (p *ParticleLayer) Drawable() rendering.Drawable {
	if p.cloud == nil {
		return nil
	}
	return p.cloud
}

// Release frees the point buffer. Safe to call more than once.
func (p *ParticleLayer) Release() {
	if p.cloud != nil {
		p.cloud.Release()
		p.cloud = nil
	}
}
