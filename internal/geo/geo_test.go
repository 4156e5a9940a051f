package geo_test

import (
	"testing"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/geo"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	points := []geo.Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 28.6139, Longitude: 77.2090},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 89.9, Longitude: -179.9},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, geo.DistanceMeters(p, p))
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := geo.Location{Latitude: 28.6139, Longitude: 77.2090}
	b := geo.Location{Latitude: 28.7041, Longitude: 77.1025}
	assert.InDelta(t, geo.DistanceMeters(a, b), geo.DistanceMeters(b, a), 1e-9)
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	// Connaught Place to roughly one degree of latitude north: ~111.2 km.
	a := geo.Location{Latitude: 28.6139, Longitude: 77.2090}
	b := geo.Location{Latitude: 29.6139, Longitude: 77.2090}
	assert.InDelta(t, 111195, geo.DistanceMeters(a, b), 100)

	// A fix ~15 m away from the station, well inside any geofence.
	near := geo.Location{Latitude: 28.6140, Longitude: 77.2091}
	d := geo.DistanceMeters(a, near)
	assert.Greater(t, d, 5.0)
	assert.Less(t, d, 30.0)
}

func TestWithinRadius_InclusiveBoundary(t *testing.T) {
	a := geo.Location{Latitude: 28.6139, Longitude: 77.2090}
	b := geo.Location{Latitude: 28.6140, Longitude: 77.2091}
	d := geo.DistanceMeters(a, b)

	assert.True(t, geo.WithinRadius(&a, &b, d))
	assert.False(t, geo.WithinRadius(&a, &b, d-0.001))
}

func TestWithinRadius_NilIsNeverWithin(t *testing.T) {
	a := geo.Location{Latitude: 28.6139, Longitude: 77.2090}
	assert.False(t, geo.WithinRadius(nil, &a, geo.WorkLocationRadiusMeters))
	assert.False(t, geo.WithinRadius(&a, nil, geo.WorkLocationRadiusMeters))
	assert.False(t, geo.WithinRadius(nil, nil, geo.WorkLocationRadiusMeters))
}

func TestIsPresentAt(t *testing.T) {
	station := geo.Location{Latitude: 28.6139, Longitude: 77.2090}
	near := geo.Location{Latitude: 28.6140, Longitude: 77.2091}
	far := geo.Location{Latitude: 28.6589, Longitude: 77.2090} // ~5 km north

	assert.True(t, geo.IsPresentAt(&near, &station, geo.WorkLocationRadiusMeters))
	assert.False(t, geo.IsPresentAt(&far, &station, geo.WorkLocationRadiusMeters))
	assert.False(t, geo.IsPresentAt(nil, &station, geo.WorkLocationRadiusMeters))
	assert.False(t, geo.IsPresentAt(&near, nil, geo.WorkLocationRadiusMeters))
}
