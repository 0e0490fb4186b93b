package rendering

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ScreenRay returns the world-space ray through pixel (x, y) of a
// width×height viewport with a top-left origin.
func ScreenRay(cam Camera, width, height int, x, y float64) (origin, dir mgl32.Vec3) {
	// Convert screen coordinates to NDC
	nx := (2.0*float32(x))/float32(width) - 1.0
	ny := 1.0 - (2.0*float32(y))/float32(height)

	invViewProj := cam.Projection.Mul4(cam.View).Inv()
	nearWorld := invViewProj.Mul4x1(mgl32.Vec4{nx, ny, -1.0, 1.0})
	farWorld := invViewProj.Mul4x1(mgl32.Vec4{nx, ny, 1.0, 1.0})
	nearWorld = nearWorld.Mul(1.0 / nearWorld[3])
	farWorld = farWorld.Mul(1.0 / farWorld[3])

	origin = nearWorld.Vec3()
	dir = farWorld.Vec3().Sub(origin).Normalize()
	return origin, dir
}

// RaySphere intersects a ray with a sphere centered at the origin and
// returns the nearest hit in front of the ray.
func RaySphere(origin, dir mgl32.Vec3, radius float32) (mgl32.Vec3, bool) {
	a := dir.Dot(dir)
	b := 2.0 * origin.Dot(dir)
	c := origin.Dot(origin) - radius*radius
	discriminant := b*b - 4*a*c
	if discriminant < 0 || a == 0 {
		return mgl32.Vec3{}, false
	}

	sqrtD := float32(math.Sqrt(float64(discriminant)))
	t := (-b - sqrtD) / (2.0 * a)
	if t < 0 {
		t = (-b + sqrtD) / (2.0 * a)
		if t < 0 {
			return mgl32.Vec3{}, false
		}
	}
	return origin.Add(dir.Mul(t)), true
}
