package core

import (
	"math"
)

// Vector3 represents a 3D vector
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{0, 0, 0}
	}
	return Vector3{v.X / length, v.Y / length, v.Z / length}
}

// Vector3 converts a cartesian position into a plain vector
func (c Cartesian) Vector3() Vector3 {
	return Vector3{c.X, c.Y, c.Z}
}

// MeshData is an indexed triangle mesh ready for upload.
// Positions and Normals hold 3 floats per vertex, UVs hold 2.
type MeshData struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the mesh
func (m MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

// Interleaved packs the mesh as position, normal, texcoord (8 floats per vertex)
func (m MeshData) Interleaved() []float32 {
	n := m.VertexCount()
	out := make([]float32, 0, n*8)
	for i := 0; i < n; i++ {
		out = append(out, m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2])
		if len(m.Normals) >= (i+1)*3 {
			out = append(out, m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2])
		} else {
			out = append(out, 0, 0, 0)
		}
		if len(m.UVs) >= (i+1)*2 {
			out = append(out, m.UVs[i*2], m.UVs[i*2+1])
		} else {
			out = append(out, 0, 0)
		}
	}
	return out
}
