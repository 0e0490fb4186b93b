package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectPoints_SamplesAndEndpoints(t *testing.T) {
	spec := FieldLineSpec{
		Start:    LatLng{Lat: 85, Lng: 0},
		End:      LatLng{Lat: -85, Lng: 180},
		Strength: 1,
	}

	samples := ProjectPoints(spec, DefaultSegments)
	require.Len(t, samples, DefaultSegments+1)

	first, last := samples[0], samples[DefaultSegments]
	assert.Equal(t, 85.0, first.Lat)
	assert.Equal(t, 0.0, first.Lng)
	assert.Equal(t, -85.0, last.Lat)
	assert.Equal(t, 180.0, last.Lng)
	assert.InDelta(t, 0, first.Height, 1e-12)
	assert.InDelta(t, 0, last.Height, 1e-12)

	mid := samples[DefaultSegments/2]
	assert.InDelta(t, ArcHeight, mid.Height, 1e-12)
	assert.InDelta(t, 0, mid.Lat, 1e-12)
	assert.InDelta(t, 90, mid.Lng, 1e-12)

	for _, s := range samples {
		assert.LessOrEqual(t, s.Height, ArcHeight+1e-12)
		assert.GreaterOrEqual(t, s.Height, -1e-12)
	}
}

func TestProjectPoints_SegmentCounts(t *testing.T) {
	spec := SouthAtlanticAnomaly
	for _, segments := range []int{1, 2, 7, 64} {
		samples := ProjectPoints(spec, segments)
		assert.Len(t, samples, segments+1, "segments=%d", segments)
		assert.Equal(t, spec.End.Lat, samples[segments].Lat)
		assert.Equal(t, spec.End.Lng, samples[segments].Lng)
	}

	assert.Len(t, ProjectPoints(spec, 0), DefaultSegments+1)
}

func TestDefaultFieldLines_Topology(t *testing.T) {
	lines := DefaultFieldLines()
	require.Len(t, lines, 21)

	for i := 0; i < 8; i++ {
		l := lines[i]
		assert.Equal(t, 85.0, l.Start.Lat)
		assert.Equal(t, -85.0, l.End.Lat)
		assert.Equal(t, float64(i*45), l.Start.Lng)
		assert.Equal(t, math.Mod(float64(i*45)+180, 360), l.End.Lng)
		assert.Equal(t, 1.0, l.Strength)
		assert.False(t, l.IsAnomaly)
	}
	for i := 0; i < 12; i++ {
		l := lines[8+i]
		assert.Equal(t, 60.0, l.Start.Lat)
		assert.Equal(t, -60.0, l.End.Lat)
		assert.Equal(t, float64(i*30), l.Start.Lng)
		assert.Equal(t, math.Mod(float64(i*30)+150, 360), l.End.Lng)
		assert.Equal(t, 0.7, l.Strength)
		assert.False(t, l.IsAnomaly)
	}

	anomaly := lines[20]
	assert.True(t, anomaly.IsAnomaly)
	assert.Equal(t, SouthAtlanticAnomaly, anomaly)
}

func TestDefaultFieldLines_Immutable(t *testing.T) {
	lines := DefaultFieldLines()
	lines[0].Strength = 0.01
	lines[20].IsAnomaly = false

	again := DefaultFieldLines()
	assert.Equal(t, 1.0, again[0].Strength)
	assert.True(t, again[20].IsAnomaly)
}
