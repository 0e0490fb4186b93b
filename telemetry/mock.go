package telemetry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

const baseSchumannFrequency = 7.83

// MockSource generates plausible, loosely correlated telemetry: the
// geomagnetic index and wind speed follow the Kp index, and coherence follows
// the time of day.
type MockSource struct {
	// Rand and Now are overridable for tests
	Rand func() float64
	Now  func() time.Time
}

// NewMockSource returns a mock source backed by the global random source.
func NewMockSource() *MockSource {
	return &MockSource{Rand: rand.Float64, Now: time.Now}
}

// Fetch implements Source
func (m *MockSource) Fetch(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return m.Generate(), nil
}

// Generate builds one snapshot.
func (m *MockSource) Generate() Snapshot {
	rnd := m.Rand
	if rnd == nil {
		rnd = rand.Float64
	}
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	ms := float64(now.UnixMilli())

	kp := math.Min(9, math.Floor(rnd()*4)+math.Floor(rnd()*3))

	const day = 24 * 60 * 60 * 1000
	timeOfDay := math.Mod(ms, day) / day
	baseCoherence := 0.3 + math.Sin(timeOfDay*math.Pi*2)*0.2

	return Snapshot{
		Schumann: SchumannData{
			Frequency: baseSchumannFrequency + (rnd()-0.5)*0.2,
			Amplitude: 0.3 + math.Sin(ms*0.0001)*0.2 + rnd()*0.2,
		},
		SolarActivity: SolarData{
			KpIndex:        kp,
			SolarWindSpeed: 350 + kp*50 + rnd()*100,
		},
		GeomagneticActivity: GeomagneticData{
			GlobalIndex:   math.Min(7, kp*0.8+rnd()*2),
			LocalStrength: 25000 + kp*1000 + rnd()*5000,
		},
		CoherenceData: CoherenceData{
			GlobalCoherence: math.Max(0.1, math.Min(1, baseCoherence+rnd()*0.3)),
			ActiveNodes:     int(math.Floor(40 + math.Sin(timeOfDay*math.Pi*2)*20 + rnd()*20)),
		},
		Timestamp: now,
	}
}
