// Package geo holds the geofencing math used by the attendance flows:
// great-circle distance between two GPS fixes and the radius predicates
// built on top of it.
package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
const earthRadiusMeters = 6371000.0

// Var-level thresholds; app wiring may tune them at startup before any
// request is served.
var (
	// WorkLocationRadiusMeters is the proximity threshold for comparing a
	// fix against a registered work station.
	WorkLocationRadiusMeters = 1000.0

	// LocationMatchRadiusMeters is the threshold for comparing a check-in
	// fix against a check-out fix directly, used when the employee has no
	// work station assigned.
	LocationMatchRadiusMeters = 100.0
)

// Location is a GPS fix. Latitude and Longitude are in decimal degrees,
// Accuracy in meters (0 when the source did not report one).
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// DistanceMeters returns the Haversine great-circle distance between two
// fixes in meters. Pure and symmetric; identical points yield 0.
func DistanceMeters(a, b Location) float64 {
	phi1 := radians(a.Latitude)
	phi2 := radians(b.Latitude)
	dPhi := radians(b.Latitude - a.Latitude)
	dLambda := radians(b.Longitude - a.Longitude)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// WithinRadius reports whether two fixes are at most thresholdMeters apart.
// The boundary is inclusive. A missing fix is never within any radius.
func WithinRadius(a, b *Location, thresholdMeters float64) bool {
	if a == nil || b == nil {
		return false
	}
	return DistanceMeters(*a, *b) <= thresholdMeters
}

// IsPresentAt reports whether an observed fix counts as "at" a reference
// location. Absence of either side means not present.
func IsPresentAt(observed, reference *Location, thresholdMeters float64) bool {
	return WithinRadius(observed, reference, thresholdMeters)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
