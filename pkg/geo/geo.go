// Package geo provides great-circle distance calculations between
// latitude/longitude coordinates.
package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
const earthRadiusMeters = 6371000.0

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsValid reports whether both components are finite real numbers within
// range: latitude in [-90, 90], longitude in [-180, 180]. Zero is a valid
// coordinate; NaN and infinities are not.
func (c Coordinates) IsValid() bool {
	return isFinite(c.Lat) && isFinite(c.Lng) &&
		math.Abs(c.Lat) <= 90 && math.Abs(c.Lng) <= 180
}

// DistanceMeters returns the Haversine great-circle distance between two
// coordinates in meters. NaN inputs propagate NaN; callers must validate
// coordinates before relying on the result.
func DistanceMeters(a, b Coordinates) float64 {
	latA := radians(a.Lat)
	latB := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
