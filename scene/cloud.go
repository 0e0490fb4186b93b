package scene

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"fieldglobe/core"
	"fieldglobe/rendering"
)

const (
	// CloudRotationStep is the cloud shell's spin per tick, in radians.
	CloudRotationStep = 0.0002

	cloudRadius   = 1.01
	cloudSegments = 64
	cloudOpacity  = 0.4
)

// CloudLoader fetches the optional cloud overlay. Reading and decoding run
// in the background; the result is handed back through the scheduler so
// GPU uploads stay on the render thread.
type CloudLoader struct {
	images ImageLoader
	sched  *FrameScheduler
	spawn  func(func())
}

// NewCloudLoader creates a loader that decodes with images and runs work
// through spawn.
func NewCloudLoader(images ImageLoader, sched *FrameScheduler, spawn func(func())) *CloudLoader {
	return &CloudLoader{images: images, sched: sched, spawn: spawn}
}

// Load decodes path and calls done on the render thread. alive is checked
// before decoding so work for a dead instance is skipped; done must still
// check liveness itself since the instance can die while decoding.
func (l *CloudLoader) Load(path string, alive func() bool, done func(image.Image, error)) {
	l.spawn(func() {
		if !alive() {
			return
		}
		img, err := l.images(path)
		if err != nil {
			err = fmt.Errorf("%w: cloud image %s: %w", ErrAssetLoad, path, err)
		}
		l.sched.Post(func() { done(img, err) })
	})
}

// newCloudLayer uploads img and builds the translucent cloud shell.
func newCloudLayer(dev rendering.Device, img image.Image) (rendering.Mesh, rendering.Texture, error) {
	tex, err := dev.NewTexture(img)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cloud texture: %w", ErrAssetLoad, err)
	}
	mesh, err := dev.NewMesh(core.GenerateSphereData(cloudRadius, cloudSegments, cloudSegments), rendering.PhongMaterial{
		Color:    mgl32.Vec3{1, 1, 1},
		Opacity:  cloudOpacity,
		Map:      tex,
		AlphaMap: true,
	})
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("%w: cloud mesh: %w", ErrAssetLoad, err)
	}
	return mesh, tex, nil
}
