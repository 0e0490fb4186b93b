package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"fieldglobe/core"
	"fieldglobe/geometry"
	"fieldglobe/scene"
	"fieldglobe/telemetry"
)

type lineReport struct {
	Index     int                    `json:"index"`
	Spec      geometry.FieldLineSpec `json:"spec"`
	Color     string                 `json:"color"`
	Radius    float64                `json:"radius"`
	Samples   int                    `json:"samples"`
	PeakAlt   float64                `json:"peakAltitude"`
	Start     core.Cartesian         `json:"start"`
	End       core.Cartesian         `json:"end"`
	Vertices  int                    `json:"vertices"`
	ArcLength float64                `json:"arcLength"`
}

func main() {
	var (
		segments = flag.Int("segments", geometry.DefaultSegments, "Samples per field line")
		asJSON   = flag.Bool("json", false, "Print the report as JSON")
		stations = flag.Bool("stations", true, "Include station markers for a mock snapshot")
	)
	flag.Parse()

	project := core.GlobeProjector{Radius: scene.GlobeRadius}
	specs := geometry.DefaultFieldLines()

	reports := make([]lineReport, 0, len(specs))
	for i, spec := range specs {
		r, err := report(project, i, spec, *segments)
		if err != nil {
			fmt.Fprintf(os.Stderr, "field line %d: %v\n", i, err)
			os.Exit(1)
		}
		reports = append(reports, r)
	}

	var points []geometry.GlobePoint
	if *stations {
		points = geometry.BuildStationPoints(geometry.MonitoringStations, telemetry.NewMockSource().Generate())
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"fieldLines": reports, "stations": points}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("=== Field-line topology (%d lines, %d samples each) ===\n\n", len(reports), *segments+1)
	for _, r := range reports {
		kind := "dipole"
		if r.Spec.IsAnomaly {
			kind = "anomaly"
		}
		fmt.Printf("#%-2d %-7s (%.0f°, %.0f°) -> (%.0f°, %.0f°) strength %.1f\n",
			r.Index, kind, r.Spec.Start.Lat, r.Spec.Start.Lng, r.Spec.End.Lat, r.Spec.End.Lng, r.Spec.Strength)
		fmt.Printf("    color %s  radius %.4f  peak alt %.3f  arc %.3f  tube vertices %d\n",
			r.Color, r.Radius, r.PeakAlt, r.ArcLength, r.Vertices)
		fmt.Printf("    start X=%.3f Y=%.3f Z=%.3f  end X=%.3f Y=%.3f Z=%.3f\n",
			r.Start.X, r.Start.Y, r.Start.Z, r.End.X, r.End.Y, r.End.Z)
	}

	if len(points) == 0 {
		return
	}
	fmt.Printf("\n=== Stations ===\n\n")
	for _, p := range points {
		c, _ := project.Project(p.Lat, p.Lng, 0)
		lat, lng, _ := project.Unproject(c)
		fmt.Printf("%-22s (%.1f°, %.1f°) size %.2f %s\n", p.Label, p.Lat, p.Lng, p.Size, p.Color)
		fmt.Printf("    Cartesian: X=%.3f, Y=%.3f, Z=%.3f  Back to Geo: %.2f°, %.2f°\n", c.X, c.Y, c.Z, lat, lng)
	}
}

func report(project core.Projector, index int, spec geometry.FieldLineSpec, segments int) (lineReport, error) {
	samples := geometry.ProjectPoints(spec, segments)
	r := lineReport{Index: index, Spec: spec, Samples: len(samples)}

	cs := make([]core.Cartesian, len(samples))
	points := make([]mgl64.Vec3, len(samples))
	for i, s := range samples {
		c, err := project.Project(s.Lat, s.Lng, s.Height)
		if err != nil {
			return r, err
		}
		cs[i] = c
		points[i] = mgl64.Vec3{c.X, c.Y, c.Z}
		r.PeakAlt = math.Max(r.PeakAlt, s.Height)
	}
	r.Start, r.End = cs[0], cs[len(cs)-1]

	style := geometry.FieldLineStyle(spec)
	r.Color = fmt.Sprintf("#%02x%02x%02x",
		int(math.Round(float64(style.Color[0])*255)),
		int(math.Round(float64(style.Color[1])*255)),
		int(math.Round(float64(style.Color[2])*255)))
	r.Radius = style.Radius

	curve := geometry.NewCatmullRom(points)
	r.ArcLength = curve.Length()
	r.Vertices = geometry.Tube(curve, geometry.DefaultTubularSegments, style.Radius, geometry.DefaultRadialSegments).VertexCount()
	return r, nil
}
