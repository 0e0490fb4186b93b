package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"fieldglobe/core"
	"fieldglobe/geometry"
	"fieldglobe/rendering"
)

const (
	// GlobeRadius is the base sphere radius in scene units.
	GlobeRadius = 1.0

	globeSegments  = 96
	globeRings     = 48
	globeBumpScale = 10

	atmosphereAltitude = 0.1
	atmosphereOpacity  = 0.15

	markerAltitude = 0.002
	// Point sizes are angular radii in degrees; sprites take a world diameter.
	markerScale = 2 * math.Pi / 180
)

var atmosphereColor = geometry.HexColor(0x87cefa) // lightskyblue

// Globe is the base scene object: the textured sphere, its atmosphere
// shell and the station markers. It owns the projector handed to the
// rest of the scene, which only answers while the base mesh exists.
type Globe struct {
	scene *rendering.Scene

	colorTex   rendering.Texture
	bumpTex    rendering.Texture
	mesh       rendering.Mesh
	atmosphere rendering.Mesh
	markers    rendering.PointCloud

	points []geometry.GlobePoint
	ready  bool
}

// NewGlobe loads the mandatory textures and builds the base meshes into
// scene. On error everything created so far is released.
func NewGlobe(dev rendering.Device, scene *rendering.Scene, opts Options, points []geometry.GlobePoint) (_ *Globe, err error) {
	g := &Globe{scene: scene, points: points}
	defer func() {
		if err != nil {
			g.Destroy()
		}
	}()

	if g.colorTex, err = loadTexture(dev, opts.Images, opts.GlobeImage); err != nil {
		return nil, fmt.Errorf("globe image: %w", err)
	}
	if g.bumpTex, err = loadTexture(dev, opts.Images, opts.BumpImage); err != nil {
		return nil, fmt.Errorf("bump image: %w", err)
	}

	g.mesh, err = dev.NewMesh(core.GenerateSphereData(GlobeRadius, globeSegments, globeRings), rendering.PhongMaterial{
		Color:     mgl32.Vec3{1, 1, 1},
		Opacity:   1,
		Map:       g.colorTex,
		BumpMap:   g.bumpTex,
		BumpScale: globeBumpScale,
	})
	if err != nil {
		return nil, fmt.Errorf("globe mesh: %w", err)
	}
	scene.Add(g.mesh)
	g.ready = true

	g.atmosphere, err = dev.NewMesh(core.GenerateSphereData(GlobeRadius*(1+atmosphereAltitude), globeSegments, globeRings), rendering.PhongMaterial{
		Color:             atmosphereColor,
		Emissive:          atmosphereColor,
		EmissiveIntensity: 0.5,
		Opacity:           atmosphereOpacity,
		Additive:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("atmosphere mesh: %w", err)
	}
	scene.Add(g.atmosphere)

	if err = g.buildMarkers(dev); err != nil {
		return nil, fmt.Errorf("station markers: %w", err)
	}
	return g, nil
}

func loadTexture(dev rendering.Device, load ImageLoader, path string) (rendering.Texture, error) {
	img, err := load(path)
	if err != nil {
		return nil, err
	}
	return dev.NewTexture(img)
}

// buildMarkers places one point per station on the surface. All stations
// share size and color since both derive from the same snapshot.
func (g *Globe) buildMarkers(dev rendering.Device) error {
	if len(g.points) == 0 {
		return nil
	}

	first := g.points[0]
	r, gr, b, alpha, err := geometry.ParseRGBA(first.Color)
	if err != nil {
		return err
	}

	positions := make([]float32, 0, len(g.points)*3)
	colors := make([]float32, 0, len(g.points)*3)
	project := g.Projector()
	for _, p := range g.points {
		c, err := project.Project(p.Lat, p.Lng, markerAltitude)
		if err != nil {
			return err
		}
		positions = append(positions, float32(c.X), float32(c.Y), float32(c.Z))
		colors = append(colors, float32(r)/255, float32(gr)/255, float32(b)/255)
	}

	g.markers, err = dev.NewPointCloud(len(g.points), rendering.PointsMaterial{
		Size:    float32(first.Size * markerScale),
		Color:   mgl32.Vec3{1, 1, 1},
		Opacity: float32(alpha),
	})
	if err != nil {
		return err
	}
	g.scene.Add(g.markers)
	return g.markers.Update(positions, colors)
}

// Projector returns the globe's coordinate projector. It fails with
// core.ErrProjectionUnavailable until the base mesh exists and again once
// the globe is destroyed.
func (g *Globe) Projector() core.Projector {
	return core.ProjectorFunc(func(lat, lng, alt float64) (core.Cartesian, error) {
		if g == nil || !g.ready {
			return core.Cartesian{}, core.ErrProjectionUnavailable
		}
		return core.GlobeProjector{Radius: GlobeRadius}.Project(lat, lng, alt)
	})
}

// Points returns the station markers in effect.
func (g *Globe) Points() []geometry.GlobePoint {
	return g.points
}

// Destroy removes and releases everything the globe created. Safe to call
// more than once.
func (g *Globe) Destroy() {
	g.ready = false
	for _, d := range []rendering.Drawable{g.markers, g.atmosphere, g.mesh} {
		if d != nil {
			g.scene.Remove(d)
			d.Release()
		}
	}
	g.markers, g.atmosphere, g.mesh = nil, nil, nil

	for _, t := range []rendering.Texture{g.bumpTex, g.colorTex} {
		if t != nil {
			t.Release()
		}
	}
	g.bumpTex, g.colorTex = nil, nil
}
