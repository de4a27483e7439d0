package spatial

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is Earth's mean radius
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// WithinRadius reports whether two points are at most radiusMeters apart
func WithinRadius(lat1, lon1, lat2, lon2, radiusMeters float64) bool {
	return HaversineDistance(lat1, lon1, lat2, lon2) <= radiusMeters
}
