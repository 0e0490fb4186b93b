package geometry

import (
	"fmt"
	"math"

	"fieldglobe/telemetry"
)

// StationPoint is a fixed monitoring station.
type StationPoint struct {
	Lat  float64
	Lng  float64
	Name string
}

// GlobePoint is a station marker derived from a snapshot.
type GlobePoint struct {
	Lat   float64
	Lng   float64
	Size  float64
	Color string
	Label string
	Value float64
}

// MonitoringStations are the stations rendered on the globe.
var MonitoringStations = []StationPoint{
	{Lat: 37.8044, Lng: -122.2712, Name: "California Station"},
	{Lat: 51.5074, Lng: -0.1278, Name: "London Station"},
	{Lat: -33.8688, Lng: 151.2093, Name: "Sydney Station"},
	{Lat: 35.6762, Lng: 139.6503, Name: "Tokyo Station"},
	{Lat: 25.2048, Lng: 55.2708, Name: "Dubai Station"},
	{Lat: -1.2921, Lng: 36.8219, Name: "Nairobi Station"},
	{Lat: -34.6037, Lng: -58.3816, Name: "Buenos Aires Station"},
	{Lat: 60.1699, Lng: 24.9384, Name: "Helsinki Station"},
}

// StationRGB is the marker color; alpha comes from global coherence.
var StationRGB = [3]int{75, 192, 192}

// BuildStationPoints combines the stations with snap. The result follows
// the station order. Coherence is used as alpha without clamping.
func BuildStationPoints(stations []StationPoint, snap telemetry.Snapshot) []GlobePoint {
	local := snap.GeomagneticActivity.LocalStrength
	color := fmt.Sprintf("rgba(%d, %d, %d, %v)", StationRGB[0], StationRGB[1], StationRGB[2], snap.CoherenceData.GlobalCoherence)

	points := make([]GlobePoint, len(stations))
	for i, s := range stations {
		points[i] = GlobePoint{
			Lat:   s.Lat,
			Lng:   s.Lng,
			Size:  0.5 + local/50000,
			Color: color,
			Label: s.Name,
			Value: local,
		}
	}
	return points
}

// ParseRGBA reads back a color produced by BuildStationPoints.
func ParseRGBA(s string) (r, g, b int, a float64, err error) {
	_, err = fmt.Sscanf(s, "rgba(%d, %d, %d, %g)", &r, &g, &b, &a)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid rgba color %q: %w", s, err)
	}
	return r, g, b, a, nil
}

// NearestPoint returns the point closest to (lat, lng) by great-circle
// angle, if any lies within maxDeg degrees.
func NearestPoint(points []GlobePoint, lat, lng, maxDeg float64) (GlobePoint, bool) {
	best, bestDeg := -1, maxDeg
	for i, p := range points {
		if d := angularDistance(lat, lng, p.Lat, p.Lng); d <= bestDeg {
			best, bestDeg = i, d
		}
	}
	if best < 0 {
		return GlobePoint{}, false
	}
	return points[best], true
}

// angularDistance is the haversine central angle in degrees.
func angularDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const rad = math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Asin(math.Sqrt(math.Min(1, h))) / rad
}
