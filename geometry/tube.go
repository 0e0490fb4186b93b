package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"fieldglobe/core"
)

const (
	DefaultTubularSegments = 64
	DefaultRadialSegments  = 8
)

// Frames holds parallel-transported Frenet frames along a curve.
type Frames struct {
	Tangents  []mgl64.Vec3
	Normals   []mgl64.Vec3
	Binormals []mgl64.Vec3
}

// ComputeFrames samples segments+1 frames along curve by arc length. The
// first normal is chosen perpendicular to the tangent's smallest component;
// later frames rotate the previous normal by the angle between successive
// tangents, which keeps the tube from twisting.
func ComputeFrames(curve *CatmullRom, segments int) Frames {
	f := Frames{
		Tangents:  make([]mgl64.Vec3, segments+1),
		Normals:   make([]mgl64.Vec3, segments+1),
		Binormals: make([]mgl64.Vec3, segments+1),
	}
	for i := 0; i <= segments; i++ {
		f.Tangents[i] = curve.TangentAt(float64(i) / float64(segments))
	}

	t0 := f.Tangents[0]
	axis := mgl64.Vec3{1, 0, 0}
	tx, ty, tz := math.Abs(t0[0]), math.Abs(t0[1]), math.Abs(t0[2])
	minVal := tx
	if ty <= minVal {
		minVal = ty
		axis = mgl64.Vec3{0, 1, 0}
	}
	if tz <= minVal {
		axis = mgl64.Vec3{0, 0, 1}
	}
	vec := safeNormalize(t0.Cross(axis))
	f.Normals[0] = t0.Cross(vec)
	f.Binormals[0] = t0.Cross(f.Normals[0])

	for i := 1; i <= segments; i++ {
		f.Normals[i] = f.Normals[i-1]

		rotAxis := f.Tangents[i-1].Cross(f.Tangents[i])
		if rotAxis.Len() > 1e-12 {
			rotAxis = safeNormalize(rotAxis)
			theta := math.Acos(clamp(f.Tangents[i-1].Dot(f.Tangents[i]), -1, 1))
			f.Normals[i] = mgl64.QuatRotate(theta, rotAxis).Rotate(f.Normals[i])
		}
		f.Binormals[i] = f.Tangents[i].Cross(f.Normals[i])
	}
	return f
}

// Tube extrudes a circular cross-section of the given radius along curve.
// The result has (tubular+1)·(radial+1) vertices and tubular·radial·6 indices.
func Tube(curve *CatmullRom, tubular int, radius float64, radial int) core.MeshData {
	if tubular <= 0 {
		tubular = DefaultTubularSegments
	}
	if radial <= 0 {
		radial = DefaultRadialSegments
	}

	frames := ComputeFrames(curve, tubular)
	vertexCount := (tubular + 1) * (radial + 1)
	mesh := core.MeshData{
		Positions: make([]float32, 0, vertexCount*3),
		Normals:   make([]float32, 0, vertexCount*3),
		UVs:       make([]float32, 0, vertexCount*2),
		Indices:   make([]uint32, 0, tubular*radial*6),
	}

	for i := 0; i <= tubular; i++ {
		p := curve.PointAt(float64(i) / float64(tubular))
		n, b := frames.Normals[i], frames.Binormals[i]

		for j := 0; j <= radial; j++ {
			v := float64(j) / float64(radial) * math.Pi * 2
			sin := math.Sin(v)
			cos := -math.Cos(v)

			normal := safeNormalize(n.Mul(cos).Add(b.Mul(sin)))
			vertex := p.Add(normal.Mul(radius))

			mesh.Positions = append(mesh.Positions, float32(vertex[0]), float32(vertex[1]), float32(vertex[2]))
			mesh.Normals = append(mesh.Normals, float32(normal[0]), float32(normal[1]), float32(normal[2]))
			mesh.UVs = append(mesh.UVs, float32(i)/float32(tubular), float32(j)/float32(radial))
		}
	}

	for j := 1; j <= tubular; j++ {
		for i := 1; i <= radial; i++ {
			a := uint32((radial+1)*(j-1) + (i - 1))
			b := uint32((radial+1)*j + (i - 1))
			c := uint32((radial+1)*j + i)
			d := uint32((radial+1)*(j-1) + i)

			mesh.Indices = append(mesh.Indices, a, b, d, b, c, d)
		}
	}
	return mesh
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
