package scene

import (
	"image"
	"sync/atomic"

	"fieldglobe/rendering"
	"fieldglobe/telemetry"
)

// Instance owns every GPU resource built for one snapshot. Dispose
// releases them in reverse construction order.
type Instance struct {
	id    uint64
	alive atomic.Bool
	snap  telemetry.Snapshot
	scene *rendering.Scene
	sched *FrameScheduler

	globe     *Globe
	lines     []rendering.Mesh
	particles *ParticleLayer
	aurora    *AuroraLayer
	cloud     rendering.Mesh
	cloudTex  rendering.Texture

	frame    FrameID
	time     float32
	disposed bool
}

func newInstance(id uint64, snap telemetry.Snapshot, sched *FrameScheduler) *Instance {
	in := &Instance{
		id:    id,
		snap:  snap,
		scene: rendering.NewScene(),
		sched: sched,
	}
	in.alive.Store(true)
	return in
}

// ID returns the monotonic instance identifier.
func (in *Instance) ID() uint64 { return in.id }

// Alive reports whether the instance has not been disposed. Safe from any goroutine.
func (in *Instance) Alive() bool { return in.alive.Load() }

func (in *Instance) Snapshot() telemetry.Snapshot { return in.snap }
func (in *Instance) Scene() *rendering.Scene      { return in.scene }
func (in *Instance) Globe() *Globe                { return in.globe }
func (in *Instance) FieldLines() []rendering.Mesh { return in.lines }
func (in *Instance) Particles() *ParticleLayer    { return in.particles }
func (in *Instance) Aurora() *AuroraLayer         { return in.aurora }
func (in *Instance) Cloud() rendering.Mesh        { return in.cloud }
func (in *Instance) Time() float32                { return in.time }

// step runs one animation tick.
func (in *Instance) step() error {
	in.time += AuroraTimeStep
	if err := in.particles.Step(in.snap.GeomagneticActivity.GlobalIndex); err != nil {
		return err
	}
	if in.cloud != nil {
		in.cloud.SetRotationY(in.cloud.RotationY() + CloudRotationStep)
	}
	in.aurora.SetTime(in.time)
	return nil
}

func (in *Instance) attachCloud(dev rendering.Device, img image.Image) error {
	mesh, tex, err := newCloudLayer(dev, img)
	if err != nil {
		return err
	}
	in.cloud, in.cloudTex = mesh, tex
	in.scene.Add(mesh)
	return nil
}

// Dispose cancels the pending frame, clears liveness and releases all
// resources. A second call does nothing.
func (in *Instance) Dispose() {
	if in.disposed {
		return
	}
	in.disposed = true

	if in.frame != 0 {
		in.sched.CancelFrame(in.frame)
		in.frame = 0
	}
	in.alive.Store(false)

	if in.cloud != nil {
		in.scene.Remove(in.cloud)
		in.cloud.Release()
		in.cloud = nil
	}
	if in.cloudTex != nil {
		in.cloudTex.Release()
		in.cloudTex = nil
	}
	if in.aurora != nil {
		in.scene.Remove(in.aurora.Drawable())
		in.aurora.Release()
	}
	if in.particles != nil {
		in.scene.Remove(in.particles.Drawable())
		in.particles.Release()
	}
	releaseMeshes(in.scene, in.lines)
	in.lines = nil
	if in.globe != nil {
		in.globe.Destroy()
	}
	in.scene.Clear()
}
