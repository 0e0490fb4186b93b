// Package geometry turns static station and field-line definitions into
// point lists, curves and tube meshes. Everything here is a pure function of
// its inputs.
package geometry

import (
	"math"
)

// DefaultSegments is the number of interpolation steps along a field line.
const DefaultSegments = 50

// ArcHeight is the peak altitude of a field line, in globe radii.
const ArcHeight = 0.3

// LatLng is a geocoordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FieldLineSpec describes one field line between two geocoordinates.
type FieldLineSpec struct {
	Start     LatLng  `json:"start"`
	End       LatLng  `json:"end"`
	Strength  float64 `json:"strength"` // (0,1]
	IsAnomaly bool    `json:"isAnomaly"`
}

// GeoSample is one sampled point of a field line. Height is in globe radii.
type GeoSample struct {
	Lng, Lat, Height float64
}

// ProjectPoints samples spec at segments+1 evenly spaced parameters t in
// [0,1], interpolating latitude and longitude linearly and lifting the line
// off the surface with a sin(t·π) arc.
func ProjectPoints(spec FieldLineSpec, segments int) []GeoSample {
	if segments <= 0 {
		segments = DefaultSegments
	}

	samples := make([]GeoSample, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		samples = append(samples, GeoSample{
			Lng:    spec.Start.Lng*(1-t) + spec.End.Lng*t,
			Lat:    spec.Start.Lat*(1-t) + spec.End.Lat*t,
			Height: math.Sin(t*math.Pi) * ArcHeight,
		})
	}
	return samples
}

const (
	primaryLineCount   = 8
	primarySpacing     = 45.0
	primaryLatitude    = 85.0
	primaryStrength    = 1.0
	secondaryLineCount = 12
	secondarySpacing   = 30.0
	secondaryLatitude  = 60.0
	secondaryOffset    = 150.0
	secondaryStrength  = 0.7
)

// SouthAtlanticAnomaly is the fixed anomaly line.
var SouthAtlanticAnomaly = FieldLineSpec{
	Start:     LatLng{Lat: -20, Lng: -60},
	End:       LatLng{Lat: 20, Lng: -30},
	Strength:  0.4,
	IsAnomaly: true,
}

// defaultFieldLines is built once and never modified.
var defaultFieldLines = buildFieldLines()

func buildFieldLines() []FieldLineSpec {
	lines := make([]FieldLineSpec, 0, primaryLineCount+secondaryLineCount+1)

	// Pole to pole dipole lines
	for i := 0; i < primaryLineCount; i++ {
		lng := math.Mod(float64(i)*primarySpacing, 360)
		lines = append(lines, FieldLineSpec{
			Start:    LatLng{Lat: primaryLatitude, Lng: lng},
			End:      LatLng{Lat: -primaryLatitude, Lng: math.Mod(lng+180, 360)},
			Strength: primaryStrength,
		})
	}

	// Secondary lines between the ±60° bands
	for i := 0; i < secondaryLineCount; i++ {
		lng := math.Mod(float64(i)*secondarySpacing, 360)
		lines = append(lines, FieldLineSpec{
			Start:    LatLng{Lat: secondaryLatitude, Lng: lng},
			End:      LatLng{Lat: -secondaryLatitude, Lng: math.Mod(lng+secondaryOffset, 360)},
			Strength: secondaryStrength,
		})
	}

	return append(lines, SouthAtlanticAnomaly)
}

// DefaultFieldLines returns a copy of the fixed field-line topology:
// 8 primary lines, 12 secondary lines and the anomaly line, in that order.
func DefaultFieldLines() []FieldLineSpec {
	out := make([]FieldLineSpec, len(defaultFieldLines))
	copy(out, defaultFieldLines)
	return out
}
