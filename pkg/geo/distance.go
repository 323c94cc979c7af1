package geo

import "github.com/golang/geo/s2"

// earthRadiusKM matches the mean radius used throughout the pack's
// haversine-based helpers.
const earthRadiusKM = 6371.0088

// GreatCircleDistanceKM returns the great-circle distance between a and b
// in kilometers, computed on their 2D (lon, lat) components via s2's
// spherical distance rather than a hand-rolled haversine formula.
func GreatCircleDistanceKM(a, b Coordinate) float64 {
	ll1 := s2.LatLngFromDegrees(a.Y, a.X)
	ll2 := s2.LatLngFromDegrees(b.Y, b.X)
	return ll1.Distance(ll2).Radians() * earthRadiusKM
}
