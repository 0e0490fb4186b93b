package core

import (
	"math"
	"testing"
)

func TestGenerateSphereData(t *testing.T) {
	mesh := GenerateSphereData(1.02, 16, 8)

	wantVerts := (8 + 1) * (16 + 1)
	if mesh.VertexCount() != wantVerts {
		t.Fatalf("vertex count: got %d, want %d", mesh.VertexCount(), wantVerts)
	}
	if len(mesh.Normals) != wantVerts*3 || len(mesh.UVs) != wantVerts*2 {
		t.Fatalf("attribute lengths mismatch: normals %d uvs %d", len(mesh.Normals), len(mesh.UVs))
	}
	if len(mesh.Indices) != 16*8*6 {
		t.Fatalf("index count: got %d, want %d", len(mesh.Indices), 16*8*6)
	}

	for i := 0; i < mesh.VertexCount(); i++ {
		x, y, z := mesh.Positions[i*3], mesh.Positions[i*3+1], mesh.Positions[i*3+2]
		r := math.Sqrt(float64(x*x + y*y + z*z))
		if math.Abs(r-1.02) > 1e-5 {
			t.Fatalf("vertex %d off shell: r=%f", i, r)
		}
	}
	for _, idx := range mesh.Indices {
		if int(idx) >= wantVerts {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestGenerateSphereDataDefaults(t *testing.T) {
	mesh := GenerateSphereData(1, 0, 0)
	if mesh.VertexCount() != (32+1)*(64+1) {
		t.Errorf("default segments not applied: %d vertices", mesh.VertexCount())
	}
}

func TestMeshInterleaved(t *testing.T) {
	mesh := MeshData{
		Positions: []float32{1, 2, 3, 4, 5, 6},
		Normals:   []float32{0, 1, 0, 0, 0, 1},
		UVs:       []float32{0.25, 0.5, 0.75, 1},
	}
	got := mesh.Interleaved()
	want := []float32{1, 2, 3, 0, 1, 0, 0.25, 0.5, 4, 5, 6, 0, 0, 1, 0.75, 1}
	if len(got) != len(want) {
		t.Fatalf("length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
