package core

import (
	"math"
	"testing"
)

// TestGlobeProjector checks the Y-up globe mapping used for scene placement
func TestGlobeProjector(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64 // degrees
		lng     float64 // degrees
		alt     float64 // radii
		wantX   float64
		wantY   float64
		wantZ   float64
		epsilon float64
	}{
		{
			name:    "North Pole",
			lat:     90.0,
			lng:     0.0,
			wantX:   0.0,
			wantY:   1.0,
			wantZ:   0.0,
			epsilon: 1e-9,
		},
		{
			name:    "South Pole",
			lat:     -90.0,
			lng:     0.0,
			wantX:   0.0,
			wantY:   -1.0,
			wantZ:   0.0,
			epsilon: 1e-9,
		},
		{
			name:    "Equator Prime Meridian",
			lat:     0.0,
			lng:     0.0,
			wantX:   0.0,
			wantY:   0.0,
			wantZ:   1.0,
			epsilon: 1e-9,
		},
		{
			name:    "Equator 90E",
			lat:     0.0,
			lng:     90.0,
			wantX:   1.0,
			wantY:   0.0,
			wantZ:   0.0,
			epsilon: 1e-9,
		},
		{
			name:    "Equator lifted",
			lat:     0.0,
			lng:     90.0,
			alt:     0.3,
			wantX:   1.3,
			wantY:   0.0,
			wantZ:   0.0,
			epsilon: 1e-9,
		},
	}

	p := GlobeProjector{Radius: 1}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := p.Project(tc.lat, tc.lng, tc.alt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(c.X-tc.wantX) > tc.epsilon {
				t.Errorf("X coordinate: got %f, want %f", c.X, tc.wantX)
			}
			if math.Abs(c.Y-tc.wantY) > tc.epsilon {
				t.Errorf("Y coordinate: got %f, want %f", c.Y, tc.wantY)
			}
			if math.Abs(c.Z-tc.wantZ) > tc.epsilon {
				t.Errorf("Z coordinate: got %f, want %f", c.Z, tc.wantZ)
			}
		})
	}
}

func TestGlobeProjectorKeepsRadius(t *testing.T) {
	p := GlobeProjector{Radius: 2}
	for lat := -90.0; lat <= 90.0; lat += 15 {
		for lng := -180.0; lng <= 180.0; lng += 45 {
			c, _ := p.Project(lat, lng, 0.5)
			if r := c.Vector3().Length(); math.Abs(r-3) > 1e-9 {
				t.Errorf("lat %.0f lng %.0f: radius %f, want 3", lat, lng, r)
			}
		}
	}
}

func TestGeographicRoundTrip(t *testing.T) {
	points := []Geographic{
		{Lat: 0, Lon: 0, Alt: 0},
		{Lat: DegreesToRadians(45), Lon: DegreesToRadians(45), Alt: 0.1},
		{Lat: DegreesToRadians(-33.8688), Lon: DegreesToRadians(151.2093), Alt: 0},
	}
	for _, g := range points {
		back := CartesianToGeographic(GeographicToCartesian(g, 1), 1)
		if math.Abs(back.Lat-g.Lat) > 1e-9 || math.Abs(back.Lon-g.Lon) > 1e-9 || math.Abs(back.Alt-g.Alt) > 1e-9 {
			t.Errorf("round trip mismatch: got %+v, want %+v", back, g)
		}
	}
}

// TestPolesSingularities tests behavior at coordinate singularities
func TestPolesSingularities(t *testing.T) {
	poles := []struct {
		name string
		lat  float64
	}{
		{"North Pole", 90.0},
		{"South Pole", -90.0},
	}

	p := GlobeProjector{Radius: 1}
	for _, pole := range poles {
		t.Run(pole.name, func(t *testing.T) {
			ref, _ := p.Project(pole.lat, 0, 0)
			// At poles, all longitudes should give same position
			for lng := -180.0; lng <= 180.0; lng += 45.0 {
				c, _ := p.Project(pole.lat, lng, 0)
				if c.Vector3().Sub(ref.Vector3()).Length() > 1e-9 {
					t.Errorf("lng %.0f: got %+v, want %+v", lng, c, ref)
				}
			}
		})
	}
}

func TestNormalizeCoordinates(t *testing.T) {
	g := NormalizeCoordinates(Geographic{Lat: 2, Lon: 3 * math.Pi})
	if g.Lat != math.Pi/2 {
		t.Errorf("lat not clamped: %f", g.Lat)
	}
	if math.Abs(g.Lon-math.Pi) > 1e-9 {
		t.Errorf("lon not wrapped: %f", g.Lon)
	}
}

func TestSphericalShellPoint(t *testing.T) {
	v := SphericalShellPoint(1.5, 0.7, 2.1)
	if math.Abs(v.Length()-1.5) > 1e-12 {
		t.Errorf("shell radius %f, want 1.5", v.Length())
	}
}

func TestGlobeProjectorUnproject(t *testing.T) {
	p := GlobeProjector{Radius: 1}
	cases := []struct{ lat, lng, alt float64 }{
		{0, 0, 0},
		{45, 90, 0.3},
		{-33.8688, 151.2093, 0},
		{10, -120, 0.02},
	}
	for _, tc := range cases {
		c, _ := p.Project(tc.lat, tc.lng, tc.alt)
		lat, lng, alt := p.Unproject(c)
		if math.Abs(lat-tc.lat) > 1e-9 || math.Abs(lng-tc.lng) > 1e-9 || math.Abs(alt-tc.alt) > 1e-9 {
			t.Errorf("Unproject(Project(%v, %v, %v)) = %v, %v, %v", tc.lat, tc.lng, tc.alt, lat, lng, alt)
		}
	}

	if _, _, alt := p.Unproject(Cartesian{}); alt != -1 {
		t.Errorf("origin altitude = %v, want -1", alt)
	}
}
