package scene

import (
	"errors"
	"image"

	"github.com/rs/zerolog"

	"fieldglobe/geometry"
	"fieldglobe/metrics"
	"fieldglobe/physics"
	"fieldglobe/rendering"
)

var (
	// ErrConstruction marks a failed scene build. It is the only failure
	// shown to the user.
	ErrConstruction = errors.New("scene construction failed")
	// ErrAssetLoad marks a failed optional asset; it never reaches the user.
	ErrAssetLoad = errors.New("optional asset load failed")
	// ErrTick marks an animation tick that was abandoned.
	ErrTick = errors.New("animation tick failed")
)

// Default asset locations, relative to the working directory.
const (
	DefaultGlobeImage = "assets/earth-blue-marble.jpg"
	DefaultBumpImage  = "assets/earth-topology.png"
	DefaultCloudImage = "assets/earth-clouds.png"
)

// ImageLoader reads and decodes an image by location.
type ImageLoader func(path string) (image.Image, error)

func loadImageFile(path string) (image.Image, error) {
	img, err := rendering.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	GlobeImage string
	BumpImage  string
	CloudImage string // optional overlay
	NoClouds   bool   // skip the cloud overlay entirely

	Images ImageLoader

	Particles int
	Rand      physics.RandSource

	FieldLines []geometry.FieldLineSpec
	Stations   []geometry.StationPoint

	// Go runs background work such as cloud decoding. Defaults to a new goroutine.
	Go func(func())

	Logger  zerolog.Logger
	Metrics *metrics.Collectors
}

func (o Options) withDefaults() Options {
	if o.GlobeImage == "" {
		o.GlobeImage = DefaultGlobeImage
	}
	if o.BumpImage == "" {
		o.BumpImage = DefaultBumpImage
	}
	if o.CloudImage == "" {
		o.CloudImage = DefaultCloudImage
	}
	if o.Images == nil {
		o.Images = loadImageFile
	}
	if o.Particles <= 0 {
		o.Particles = physics.DefaultParticleCount
	}
	if o.Rand == nil {
		o.Rand = physics.DefaultRand
	}
	if o.FieldLines == nil {
		o.FieldLines = geometry.DefaultFieldLines()
	}
	if o.Stations == nil {
		o.Stations = geometry.MonitoringStations
	}
	if o.Go == nil {
		o.Go = func(fn func()) { go fn() }
	}
	return o
}
