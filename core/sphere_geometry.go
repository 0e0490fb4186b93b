package core

import (
	"math"
)

// GenerateSphereData generates a UV sphere mesh.
// Used for the base globe, the atmosphere and aurora shells and the cloud layer.
func GenerateSphereData(radius float32, segments, rings int) MeshData {
	// Use default values if not specified
	if segments <= 0 {
		segments = 64
	}
	if rings <= 0 {
		rings = 32
	}

	vertexCount := (rings + 1) * (segments + 1)
	mesh := MeshData{
		Positions: make([]float32, 0, vertexCount*3),
		Normals:   make([]float32, 0, vertexCount*3),
		UVs:       make([]float32, 0, vertexCount*2),
		Indices:   make([]uint32, 0, rings*segments*6),
	}

	for ring := 0; ring <= rings; ring++ {
		theta := float64(ring) * math.Pi / float64(rings)
		sinTheta := float32(math.Sin(theta))
		cosTheta := float32(math.Cos(theta))

		for seg := 0; seg <= segments; seg++ {
			phi := float64(seg) * 2.0 * math.Pi / float64(segments)
			sinPhi := float32(math.Sin(phi))
			cosPhi := float32(math.Cos(phi))

			// Y up, seam at +X
			x := cosPhi * sinTheta
			y := cosTheta
			z := sinPhi * sinTheta

			mesh.Positions = append(mesh.Positions, x*radius, y*radius, z*radius)
			mesh.Normals = append(mesh.Normals, x, y, z)

			u := float32(seg) / float32(segments)
			v := float32(ring) / float32(rings)
			mesh.UVs = append(mesh.UVs, u, v)
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments) + 1

			mesh.Indices = append(mesh.Indices, current, next, current+1)
			mesh.Indices = append(mesh.Indices, current+1, next, next+1)
		}
	}

	return mesh
}
