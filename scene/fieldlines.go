package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"fieldglobe/core"
	"fieldglobe/geometry"
	"fieldglobe/metrics"
	"fieldglobe/rendering"
)

// BuildFieldLines turns each spec into a tube mesh placed with project and
// adds it to scene. A line whose samples cannot be projected is skipped;
// a device failure aborts the build and releases the lines built so far.
func BuildFieldLines(dev rendering.Device, scene *rendering.Scene, project core.Projector, specs []geometry.FieldLineSpec, logger zerolog.Logger, m *metrics.Collectors) ([]rendering.Mesh, error) {
	lines := make([]rendering.Mesh, 0, len(specs))
	for i, spec := range specs {
		data, err := fieldLineMesh(project, spec)
		if err != nil {
			if errors.Is(err, core.ErrProjectionUnavailable) {
				logger.Debug().Int("line", i).Err(err).Msg("Skipping field line")
				m.FieldLineSkipped()
				continue
			}
			releaseMeshes(scene, lines)
			return nil, fmt.Errorf("field line %d: %w", i, err)
		}

		style := geometry.FieldLineStyle(spec)
		mesh, err := dev.NewMesh(data, rendering.PhongMaterial{
			Color:             style.Color,
			Emissive:          style.Emissive,
			EmissiveIntensity: style.EmissiveIntensity,
			Opacity:           style.Opacity,
			Additive:          style.Additive,
		})
		if err != nil {
			releaseMeshes(scene, lines)
			return nil, fmt.Errorf("field line %d: %w", i, err)
		}
		scene.Add(mesh)
		lines = append(lines, mesh)
	}
	return lines, nil
}

func fieldLineMesh(project core.Projector, spec geometry.FieldLineSpec) (core.MeshData, error) {
	samples := geometry.ProjectPoints(spec, geometry.DefaultSegments)
	points := make([]mgl64.Vec3, len(samples))
	for i, s := range samples {
		c, err := project.Project(s.Lat, s.Lng, s.Height)
		if err != nil {
			return core.MeshData{}, err
		}
		points[i] = mgl64.Vec3{c.X, c.Y, c.Z}
	}

	curve := geometry.NewCatmullRom(points)
	style := geometry.FieldLineStyle(spec)
	return geometry.Tube(curve, geometry.DefaultTubularSegments, style.Radius, geometry.DefaultRadialSegments), nil
}

func releaseMeshes(scene *rendering.Scene, meshes []rendering.Mesh) {
	for i := len(meshes) - 1; i >= 0; i-- {
		scene.Remove(meshes[i])
		meshes[i].Release()
	}
}
