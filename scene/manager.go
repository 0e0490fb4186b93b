package scene

import (
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"

	"fieldglobe/geometry"
	"fieldglobe/internal/logging"
	"fieldglobe/rendering"
	"fieldglobe/telemetry"
)

// State is the lifecycle state of a Manager.
type State int

const (
	Uninitialized State = iota
	Constructing
	Running
	Disposing
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Constructing:
		return "constructing"
	case Running:
		return "running"
	case Disposing:
		return "disposing"
	case Disposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Default mount size in pixels.
const (
	DefaultWidth  = 600
	DefaultHeight = 600
)

// MountPoint is the drawable surface the scene renders into.
type MountPoint struct {
	Width  int
	Height int
}

// Manager drives the scene lifecycle for one mount point. At most one
// Instance is live; a new snapshot disposes it before its replacement is
// built. All methods must be called on the render thread.
type Manager struct {
	dev    rendering.Device
	sched  *FrameScheduler
	opts   Options
	cloud  *CloudLoader
	logger zerolog.Logger
	// tick failures can repeat every frame
	tickLogger zerolog.Logger

	state   State
	mount   *MountPoint
	pending *telemetry.Snapshot
	current *Instance
	nextID  uint64
}

// NewManager creates an unmounted manager.
func NewManager(dev rendering.Device, sched *FrameScheduler, opts Options) *Manager {
	opts = opts.withDefaults()
	m := &Manager{
		dev:    dev,
		sched:  sched,
		opts:   opts,
		cloud:  NewCloudLoader(opts.Images, sched, opts.Go),
		logger: opts.Logger.With().Str("component", "scene").Logger(),
	}
	m.tickLogger = logging.Sampled(m.logger, 5, time.Second, 0)
	m.opts.Metrics.SetState(int(m.state))
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return m.state
}

// Current returns the live instance, or nil.
func (m *Manager) Current() *Instance {
	return m.current
}

// Scene returns the live instance's draw list, or nil.
func (m *Manager) Scene() *rendering.Scene {
	if m.current == nil {
		return nil
	}
	return m.current.scene
}

// MountPoint returns the surface the manager is mounted on, if any.
func (m *Manager) MountPoint() (MountPoint, bool) {
	if m.mount == nil {
		return MountPoint{}, false
	}
	return *m.mount, true
}

// Mount attaches the manager to a surface. A snapshot submitted before
// mounting is built now.
func (m *Manager) Mount(mp MountPoint) error {
	if mp.Width <= 0 {
		mp.Width = DefaultWidth
	}
	if mp.Height <= 0 {
		mp.Height = DefaultHeight
	}
	m.mount = &mp
	if m.pending == nil {
		return nil
	}
	snap := *m.pending
	m.pending = nil
	return m.Submit(snap)
}

// Render implements Renderer.
func (m *Manager) Render(snap telemetry.Snapshot) error {
	return m.Submit(snap)
}

// Submit makes snap the snapshot in effect. The live instance, if any, is
// disposed and a fresh one is built. Before Mount the snapshot is held
// until a surface exists. Errors wrap ErrConstruction.
func (m *Manager) Submit(snap telemetry.Snapshot) error {
	if m.mount == nil {
		m.pending = &snap
		return nil
	}

	m.disposeCurrent()
	m.setState(Constructing)

	inst, err := m.build(snap)
	if err != nil {
		m.setState(Disposed)
		m.opts.Metrics.ConstructFailed()
		m.logger.Error().Err(err).Msg("Failed to construct scene")
		return err
	}

	m.current = inst
	m.loadCloud(inst)
	m.startLoop(inst)
	m.setState(Running)
	m.opts.Metrics.Rebuilt(inst.particles.System().Len(), snap.GeomagneticActivity.GlobalIndex)
	m.logger.Info().
		Uint64("instance", inst.id).
		Int("fieldLines", len(inst.lines)).
		Int("particles", inst.particles.System().Len()).
		Float64("globalIndex", snap.GeomagneticActivity.GlobalIndex).
		Float64("kpIndex", snap.SolarActivity.KpIndex).
		Msg("Scene running")
	return nil
}

// Unmount disposes the live instance and detaches from the surface.
func (m *Manager) Unmount() {
	m.disposeCurrent()
	m.mount = nil
	m.pending = nil
	m.setState(Disposed)
}

func (m *Manager) setState(s State) {
	if m.state != s {
		m.logger.Debug().Stringer("from", m.state).Stringer("to", s).Msg("Scene state")
	}
	m.state = s
	m.opts.Metrics.SetState(int(s))
}

func (m *Manager) disposeCurrent() {
	if m.current == nil {
		return
	}
	m.setState(Disposing)
	m.current.Dispose()
	m.logger.Debug().Uint64("instance", m.current.id).Msg("Scene disposed")
	m.current = nil
	m.setState(Disposed)
}

// build constructs a new instance: globe, field lines, particles, aurora.
// On failure everything built so far is released.
func (m *Manager) build(snap telemetry.Snapshot) (_ *Instance, err error) {
	m.nextID++
	inst := newInstance(m.nextID, snap, m.sched)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			inst.Dispose()
			err = fmt.Errorf("%w: %w", ErrConstruction, err)
		}
	}()

	if err := snap.Validate(); err != nil {
		return nil, err
	}

	points := geometry.BuildStationPoints(m.opts.Stations, snap)
	if inst.globe, err = NewGlobe(m.dev, inst.scene, m.opts, points); err != nil {
		return nil, err
	}

	if inst.lines, err = BuildFieldLines(m.dev, inst.scene, inst.globe.Projector(), m.opts.FieldLines, m.logger, m.opts.Metrics); err != nil {
		return nil, err
	}

	if inst.particles, err = NewParticleLayer(m.dev, m.opts.Particles, m.opts.Rand); err != nil {
		return nil, fmt.Errorf("particles: %w", err)
	}
	inst.scene.Add(inst.particles.Drawable())

	if inst.aurora, err = NewAuroraLayer(m.dev, snap); err != nil {
		return nil, fmt.Errorf("aurora: %w", err)
	}
	inst.scene.Add(inst.aurora.Drawable())

	return inst, nil
}

// live reports whether inst may still touch scene resources.
func (m *Manager) live(inst *Instance) bool {
	return inst.Alive() && m.current != nil && m.current.id == inst.id
}

func (m *Manager) startLoop(inst *Instance) {
	inst.frame = m.sched.RequestFrame(func() { m.tick(inst) })
}

// tick advances inst by one frame and schedules the next one. A failed
// step is logged and skipped; the loop keeps going.
func (m *Manager) tick(inst *Instance) {
	if !m.live(inst) {
		return
	}
	inst.frame = 0

	if err := m.step(inst); err != nil {
		m.opts.Metrics.TickFailed()
		m.tickLogger.Error().Err(err).Uint64("instance", inst.id).Msg("Animation tick failed")
	} else {
		m.opts.Metrics.Tick()
	}

	if m.live(inst) {
		inst.frame = m.sched.RequestFrame(func() { m.tick(inst) })
	}
}

func (m *Manager) step(inst *Instance) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrTick, r)
		}
	}()
	if err := inst.step(); err != nil {
		return fmt.Errorf("%w: %w", ErrTick, err)
	}
	return nil
}

func (m *Manager) loadCloud(inst *Instance) {
	if m.opts.NoClouds {
		return
	}
	m.cloud.Load(m.opts.CloudImage, inst.Alive, func(img image.Image, err error) {
		if !m.live(inst) {
			m.logger.Debug().Uint64("instance", inst.id).Msg("Dropping cloud layer for disposed scene")
			return
		}
		if err == nil {
			err = inst.attachCloud(m.dev, img)
		}
		if err != nil {
			m.opts.Metrics.CloudLoadFailed()
			m.logger.Warn().Err(err).Msg("Failed to load cloud texture")
		}
	})
}
