package scene

import (
	"fieldglobe/core"
	"fieldglobe/rendering"
	"fieldglobe/rendering/opengl/shaders"
	"fieldglobe/telemetry"
)

const (
	// AuroraRadius is the shell radius relative to the globe.
	AuroraRadius = 1.02
	// AuroraTimeStep is added to the time uniform every tick.
	AuroraTimeStep = 0.01

	auroraSegments = 128
	maxIndex       = 9.0
)

// AuroraUniforms is the state of the aurora program. Intensity and
// SolarActivity are fixed when the layer is built; Time advances per tick.
type AuroraUniforms struct {
	Time          float32
	Intensity     float32
	SolarActivity float32
}

// AuroraUniformsFor derives the initial uniforms from snap.
func AuroraUniformsFor(snap telemetry.Snapshot) AuroraUniforms {
	return AuroraUniforms{
		Intensity:     float32(snap.GeomagneticActivity.GlobalIndex / maxIndex),
		SolarActivity: float32(snap.SolarActivity.KpIndex / maxIndex),
	}
}

// AuroraLayer is the polar glow shell.
type AuroraLayer struct {
	mesh     rendering.ShaderMesh
	uniforms AuroraUniforms
}

// NewAuroraLayer builds the shell with uniforms taken from snap.
func NewAuroraLayer(dev rendering.Device, snap telemetry.Snapshot) (*AuroraLayer, error) {
	u := AuroraUniformsFor(snap)
	mesh, err := dev.NewShaderMesh(
		core.GenerateSphereData(AuroraRadius, auroraSegments, auroraSegments),
		shaders.Aurora,
		map[string]float32{
			"time":          u.Time,
			"intensity":     u.Intensity,
			"solarActivity": u.SolarActivity,
		},
		true,
	)
	if err != nil {
		return nil, err
	}
	return &AuroraLayer{mesh: mesh, uniforms: u}, nil
}

// SetTime pushes t into the time uniform.
func (a *AuroraLayer) SetTime(t float32) {
	a.uniforms.Time = t
	a.mesh.SetUniform("time", t)
}

// Uniforms returns the current uniform values.
func (a *AuroraLayer) Uniforms() AuroraUniforms {
	return a.uniforms
}

// Drawable returns the shell mesh, or nil once released.
func (a *AuroraLayer) Drawable() rendering.Drawable {
	if a.mesh == nil {
		return nil
	}
	return a.mesh
}

// Release frees the shell. Safe to call more than once.
func (a *AuroraLayer) Release() {
	if a.mesh != nil {
		a.mesh.Release()
		a.mesh = nil
	}
}
