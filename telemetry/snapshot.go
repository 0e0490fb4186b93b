// Package telemetry defines the planetary telemetry snapshot consumed by the
// visualization and a few interchangeable ways of producing snapshots.
package telemetry

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Snapshot is one immutable set of planetary telemetry values. It is passed
// by value and replaces the previous snapshot wholesale.
type Snapshot struct {
	Schumann            SchumannData    `json:"schumann"`
	SolarActivity       SolarData       `json:"solarActivity"`
	GeomagneticActivity GeomagneticData `json:"geomagneticActivity"`
	CoherenceData       CoherenceData   `json:"coherenceData"`
	Timestamp           time.Time       `json:"timestamp"`
}

type SchumannData struct {
	Frequency float64 `json:"frequency"`
	Amplitude float64 `json:"amplitude"`
	Location  string  `json:"location,omitempty"`
}

type SolarData struct {
	KpIndex        float64  `json:"kpIndex"`
	SolarWindSpeed float64  `json:"solarWindSpeed"`
	SolarFlares    []string `json:"solarFlares,omitempty"`
}

type GeomagneticData struct {
	GlobalIndex   float64  `json:"globalIndex"`
	LocalStrength float64  `json:"localStrength"`
	Anomalies     []string `json:"anomalies,omitempty"`
}

type CoherenceData struct {
	GlobalCoherence   float64 `json:"globalCoherence"`
	ActiveNodes       int     `json:"activeNodes"`
	DominantFrequency float64 `json:"dominantFrequency,omitempty"`
}

// Source produces snapshots on demand.
type Source interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// Validate rejects values the visualization cannot turn into geometry.
func (s Snapshot) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"geomagneticActivity.globalIndex", s.GeomagneticActivity.GlobalIndex},
		{"geomagneticActivity.localStrength", s.GeomagneticActivity.LocalStrength},
		{"solarActivity.kpIndex", s.SolarActivity.KpIndex},
		{"coherenceData.globalCoherence", s.CoherenceData.GlobalCoherence},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("invalid %s: %v", f.name, f.value)
		}
		if f.value < 0 {
			return fmt.Errorf("negative %s: %v", f.name, f.value)
		}
	}
	return nil
}
