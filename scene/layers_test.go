package scene

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldglobe/core"
	"fieldglobe/geometry"
	"fieldglobe/metrics"
	"fieldglobe/physics"
	"fieldglobe/rendering"
)

func testOptions(images *fakeImages) Options {
	return Options{Images: images.load}.withDefaults()
}

func TestGlobe_ProjectorLifetime(t *testing.T) {
	var missing *Globe
	_, err := missing.Projector().Project(0, 0, 0)
	assert.ErrorIs(t, err, core.ErrProjectionUnavailable)

	dev := &fakeDevice{}
	sc := rendering.NewScene()
	points := geometry.BuildStationPoints(geometry.MonitoringStations, testSnapshot(5, 5))
	g, err := NewGlobe(dev, sc, testOptions(&fakeImages{}), points)
	require.NoError(t, err)

	project := g.Projector()
	c, err := project.Project(0, 90, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1, c.X, 1e-9)

	g.Destroy()
	_, err = project.Project(0, 90, 0)
	assert.ErrorIs(t, err, core.ErrProjectionUnavailable, "a projector kept past destroy must fail")

	g.Destroy()
	assert.Empty(t, dev.unreleased())
	assert.Empty(t, dev.overReleased())
	assert.Equal(t, 0, sc.Len())
}

func TestGlobe_Markers(t *testing.T) {
	dev := &fakeDevice{}
	snap := testSnapshot(5, 5)
	snap.CoherenceData.GlobalCoherence = 0.25
	points := geometry.BuildStationPoints(geometry.MonitoringStations, snap)

	g, err := NewGlobe(dev, rendering.NewScene(), testOptions(&fakeImages{}), points)
	require.NoError(t, err)
	defer g.Destroy()

	markers := g.markers.(*fakePoints)
	assert.Equal(t, len(points), markers.Capacity())
	assert.InDelta(t, 0.25, markers.mat.Opacity, 1e-6)
	require.Len(t, markers.positions, len(points)*3)
	for i := 0; i < len(points); i++ {
		v := core.Vector3{
			X: float64(markers.positions[i*3]),
			Y: float64(markers.positions[i*3+1]),
			Z: float64(markers.positions[i*3+2]),
		}
		assert.InDelta(t, GlobeRadius*(1+markerAltitude), v.Length(), 1e-5)
	}
}

func TestGlobe_TexturesAreMandatory(t *testing.T) {
	images := &fakeImages{}
	images.setFail(DefaultGlobeImage, errNotFound)
	dev := &fakeDevice{}

	g, err := NewGlobe(dev, rendering.NewScene(), testOptions(images), nil)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, errNotFound)
	assert.Empty(t, dev.resources)
}

func TestBuildFieldLines(t *testing.T) {
	dev := &fakeDevice{}
	sc := rendering.NewScene()
	specs := geometry.DefaultFieldLines()

	lines, err := BuildFieldLines(dev, sc, core.GlobeProjector{Radius: 1}, specs, zerolog.Nop(), nil)
	require.NoError(t, err)
	require.Len(t, lines, len(specs))
	assert.Equal(t, len(specs), sc.Len())

	first := lines[0].(*fakeMesh)
	require.Equal(t, 1.0, specs[0].Strength)
	assert.Equal(t, geometry.HexColor(0x3366ff), first.mat.Color, "full strength renders the strong color")
	assert.True(t, first.mat.Additive)
	assert.InDelta(t, 0.4, first.mat.Opacity, 1e-6)
	assert.Equal(t, (geometry.DefaultTubularSegments+1)*(geometry.DefaultRadialSegments+1), first.data.VertexCount())

	anomaly := lines[len(lines)-1].(*fakeMesh)
	require.True(t, specs[len(specs)-1].IsAnomaly)
	assert.Equal(t, geometry.HexColor(0xff3366), anomaly.mat.Color)
	assert.InDelta(t, 0.6, anomaly.mat.Opacity, 1e-6)
}

func TestBuildFieldLines_SkipsUnprojectable(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	// Only the anomaly's region over the South Atlantic is unavailable.
	project := core.ProjectorFunc(func(lat, lng, alt float64) (core.Cartesian, error) {
		if lng < -20 && lng > -70 && lat > -25 && lat < 25 {
			return core.Cartesian{}, core.ErrProjectionUnavailable
		}
		return core.GlobeProjector{Radius: 1}.Project(lat, lng, alt)
	})

	dev := &fakeDevice{}
	specs := geometry.DefaultFieldLines()
	lines, err := BuildFieldLines(dev, rendering.NewScene(), project, specs, zerolog.Nop(), m)
	require.NoError(t, err)
	assert.Less(t, len(lines), len(specs))
	assert.Equal(t, float64(len(specs)-len(lines)), testutil.ToFloat64(m.FieldLinesSkipped))
}

func TestBuildFieldLines_DeviceFailureReleasesPartialWork(t *testing.T) {
	calls := 0
	dev := &fakeDevice{meshErr: func(rendering.PhongMaterial) error {
		calls++
		if calls == 5 {
			return errors.New("vbo allocation failed")
		}
		return nil
	}}
	sc := rendering.NewScene()

	lines, err := BuildFieldLines(dev, sc, core.GlobeProjector{Radius: 1}, geometry.DefaultFieldLines(), zerolog.Nop(), nil)
	assert.Nil(t, lines)
	assert.ErrorContains(t, err, "field line 4")
	assert.Equal(t, 0, sc.Len())
	assert.Len(t, dev.resources, 4)
	assert.Empty(t, dev.unreleased())
}

func TestBuildFieldLines_OtherProjectionErrorsAbort(t *testing.T) {
	boom := errors.New("projector exploded")
	project := core.ProjectorFunc(func(lat, lng, alt float64) (core.Cartesian, error) {
		return core.Cartesian{}, boom
	})
	_, err := BuildFieldLines(&fakeDevice{}, rendering.NewScene(), project, geometry.DefaultFieldLines(), zerolog.Nop(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestParticleLayer(t *testing.T) {
	dev := &fakeDevice{}
	layer, err := NewParticleLayer(dev, 50, physics.DefaultRand)
	require.NoError(t, err)

	points := layer.Drawable().(*fakePoints)
	assert.Equal(t, 50, points.Capacity())
	assert.Equal(t, 1, points.updates)
	assert.True(t, points.mat.Additive)
	assert.InDelta(t, 0.6, points.mat.Opacity, 1e-6)

	require.NoError(t, layer.Step(9))
	assert.Equal(t, 2, points.updates)
	assert.Equal(t, layer.System().Positions, points.positions)

	layer.Release()
	layer.Release()
	assert.Nil(t, layer.Drawable())
	assert.NoError(t, layer.Step(9), "a released layer ignores ticks")
	assert.Equal(t, uint64(1), layer.System().Writes())
	assert.Empty(t, dev.overReleased())
}

func TestAuroraUniformsFor(t *testing.T) {
	u := AuroraUniformsFor(testSnapshot(4.5, 3))
	assert.InDelta(t, 0.5, u.Intensity, 1e-6)
	assert.InDelta(t, 1.0/3.0, u.SolarActivity, 1e-6)
	assert.Zero(t, u.Time)
}
