package core

import (
	"errors"
	"math"
)

// ErrProjectionUnavailable is returned when a projector is used before the
// globe it belongs to exists, or after it has been destroyed.
var ErrProjectionUnavailable = errors.New("coordinate projection unavailable")

// Geographic represents a position in geographic coordinates
type Geographic struct {
	Lat float64 // Latitude in radians [-π/2, π/2], positive = north
	Lon float64 // Longitude in radians [-π, π], positive = east
	Alt float64 // Altitude above reference radius, scene units
}

// Cartesian represents a position in Cartesian coordinates
// Origin at planet center, Y points to north pole
type Cartesian struct {
	X float64
	Y float64 // Points to north pole
	Z float64
}

// Projector maps (latitude, longitude, altitude) in degrees and globe radii
// into scene space.
type Projector interface {
	Project(lat, lng, alt float64) (Cartesian, error)
}

// ProjectorFunc adapts a function to the Projector interface
type ProjectorFunc func(lat, lng, alt float64) (Cartesian, error)

func (f ProjectorFunc) Project(lat, lng, alt float64) (Cartesian, error) {
	return f(lat, lng, alt)
}

// GlobeProjector places geocoordinates on a sphere of the given radius.
// Altitude is relative: alt=0.3 lifts a point 30% of the radius off the surface.
// Longitude 0 faces +Z and longitude 90 faces +X.
type GlobeProjector struct {
	Radius float64
}

// Project implements Projector
func (g GlobeProjector) Project(lat, lng, alt float64) (Cartesian, error) {
	return GeographicToCartesian(g.geographic(lat, lng, alt), g.Radius), nil
}

// geographic maps degrees and relative altitude onto the X-at-0° frame
// used by GeographicToCartesian.
func (g GlobeProjector) geographic(lat, lng, alt float64) Geographic {
	return Geographic{
		Lat: DegreesToRadians(lat),
		Lon: DegreesToRadians(90 - lng),
		Alt: alt * g.Radius,
	}
}

// Unproject is the inverse of Project. Longitude comes back in [-180, 180].
func (g GlobeProjector) Unproject(c Cartesian) (lat, lng, alt float64) {
	if g.Radius == 0 || c.Vector3().Length() == 0 {
		return 0, 0, -1
	}

	geo := CartesianToGeographic(c, g.Radius)
	geo.Lon = math.Pi/2 - geo.Lon
	geo = NormalizeCoordinates(geo)
	return RadiansToDegrees(geo.Lat), RadiansToDegrees(geo.Lon), geo.Alt / g.Radius
}

// DegreesToRadians converts degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// RadiansToDegrees converts radians to degrees
func RadiansToDegrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// GeographicToCartesian converts geographic coordinates to Cartesian
// (X at 0° longitude, Z at 90° longitude)
func GeographicToCartesian(g Geographic, radius float64) Cartesian {
	r := radius + g.Alt
	cosLat := math.Cos(g.Lat)

	return Cartesian{
		X: r * cosLat * math.Cos(g.Lon),
		Y: r * math.Sin(g.Lat),
		Z: r * cosLat * math.Sin(g.Lon),
	}
}

// CartesianToGeographic converts Cartesian coordinates to geographic
func CartesianToGeographic(c Cartesian, radius float64) Geographic {
	r := math.Sqrt(c.X*c.X + c.Y*c.Y + c.Z*c.Z)

	// Handle special case of origin
	if r < 1e-10 {
		return Geographic{Lat: 0, Lon: 0, Alt: -radius}
	}

	return Geographic{
		Lat: math.Asin(math.Max(-1, math.Min(1, c.Y/r))),
		Lon: math.Atan2(c.Z, c.X),
		Alt: r - radius,
	}
}

// SphericalShellPoint returns the point at radius r for polar angle theta
// (from +Z) and azimuth phi. Particles are seeded on shells this way.
func SphericalShellPoint(r, theta, phi float64) Vector3 {
	return Vector3{
		X: r * math.Sin(theta) * math.Cos(phi),
		Y: r * math.Sin(theta) * math.Sin(phi),
		Z: r * math.Cos(theta),
	}
}

// NormalizeCoordinates ensures coordinates are within valid ranges
func NormalizeCoordinates(g Geographic) Geographic {
	// Clamp latitude
	if g.Lat > math.Pi/2 {
		g.Lat = math.Pi / 2
	} else if g.Lat < -math.Pi/2 {
		g.Lat = -math.Pi / 2
	}

	// Wrap longitude
	for g.Lon > math.Pi {
		g.Lon -= 2 * math.Pi
	}
	for g.Lon < -math.Pi {
		g.Lon += 2 * math.Pi
	}

	return g
}
