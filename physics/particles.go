package physics

import (
	"math"
	"math/rand"

	"fieldglobe/core"
)

const (
	// DefaultParticleCount is the size of the particle cloud.
	DefaultParticleCount = 2000

	SpawnRadiusMin   = 1.5
	SpawnRadiusRange = 0.3
	RespawnRadius    = 1.5
	BoundRadius      = 2.0
	MaxInitialSpeed  = 0.001

	// Field strength at the maximum geomagnetic index (9).
	fieldStrengthScale = 0.001
	maxGlobalIndex     = 9.0
)

// RandSource yields uniform values in [0,1).
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand is the unseeded global source.
var DefaultRand RandSource = globalRand{}

// FieldStrength converts the geomagnetic global index to the radial
// acceleration applied per tick.
func FieldStrength(globalIndex float64) float64 {
	return (globalIndex / maxGlobalIndex) * fieldStrengthScale
}

// System is a fixed-size cloud of charged particles pushed outward by a
// simplified radial field. Buffers are flat xyz triples and never resized.
type System struct {
	Positions  []float32
	Velocities []float32
	Colors     []float32

	rng    RandSource
	n      int
	writes uint64
}

// NewSystem seeds n particles on the spawn shell. A nil rng uses DefaultRand.
func NewSystem(n int, rng RandSource) *System {
	if n <= 0 {
		n = DefaultParticleCount
	}
	if rng == nil {
		rng = DefaultRand
	}

	s := &System{
		Positions:  make([]float32, n*3),
		Velocities: make([]float32, n*3),
		Colors:     make([]float32, n*3),
		rng:        rng,
		n:          n,
	}

	for i := 0; i < n*3; i += 3 {
		r := SpawnRadiusMin + rng.Float64()*SpawnRadiusRange
		s.spawn(i, r)

		intensity := float32(rng.Float64())
		s.Colors[i] = 0.5 + intensity*0.5
		s.Colors[i+1] = 0.7 + intensity*0.3
		s.Colors[i+2] = 1.0
	}
	return s
}

// spawn places particle i (buffer offset) at radius r with a random
// direction and a small random velocity. Direction is sampled as
// phi in [0,2π), theta in [0,π).
func (s *System) spawn(i int, r float64) {
	phi := s.rng.Float64() * math.Pi * 2
	theta := s.rng.Float64() * math.Pi
	p := core.SphericalShellPoint(r, theta, phi)

	s.Positions[i] = float32(p.X)
	s.Positions[i+1] = float32(p.Y)
	s.Positions[i+2] = float32(p.Z)

	s.Velocities[i] = float32((s.rng.Float64() - 0.5) * 2 * MaxInitialSpeed)
	s.Velocities[i+1] = float32((s.rng.Float64() - 0.5) * 2 * MaxInitialSpeed)
	s.Velocities[i+2] = float32((s.rng.Float64() - 0.5) * 2 * MaxInitialSpeed)
}

// Len returns the particle count.
func (s *System) Len() int {
	return s.n
}

// Writes returns how many Step passes have mutated the buffers.
func (s *System) Writes() uint64 {
	return s.writes
}

// Step advances every particle by one tick under fieldStrength. A particle
// that ends the tick outside BoundRadius is respawned in its slot at
// RespawnRadius, so after Step no particle lies beyond the bound. Color is
// derived from the distance at the start of the tick.
func (s *System) Step(fieldStrength float64) {
	fs := fieldStrength
	if math.IsNaN(fs) || math.IsInf(fs, 0) {
		fs = 0
	}
	for i := 0; i < s.n*3; i += 3 {
		pos := core.Vector3{
			X: float64(s.Positions[i]),
			Y: float64(s.Positions[i+1]),
			Z: float64(s.Positions[i+2]),
		}
		distance := pos.Length()
		dir := pos.Normalize()

		s.Velocities[i] += float32(dir.X * fs)
		s.Velocities[i+1] += float32(dir.Y * fs)
		s.Velocities[i+2] += float32(dir.Z * fs)

		s.Positions[i] += s.Velocities[i]
		s.Positions[i+1] += s.Velocities[i+1]
		s.Positions[i+2] += s.Velocities[i+2]

		if r := s.Radius(i / 3); r > BoundRadius || math.IsNaN(r) {
			s.spawn(i, RespawnRadius)
		}

		k := float32(math.Min(1, distance*fs*1000))
		s.Colors[i] = 0.5 + k*0.5
		s.Colors[i+1] = 0.7 + k*0.3
		s.Colors[i+2] = 1.0 - k*0.2
	}
	s.writes++
}

// Radius returns the distance of particle idx from the origin.
func (s *System) Radius(idx int) float64 {
	i := idx * 3
	return core.Vector3{
		X: float64(s.Positions[i]),
		Y: float64(s.Positions[i+1]),
		Z: float64(s.Positions[i+2]),
	}.Length()
}
