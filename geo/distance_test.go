package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sameshi/models"
)

func TestDistance_IdenticalPointsIsZero(t *testing.T) {
	points := [][2]float64{{0, 0}, {35.6812, 139.7671}, {-33.86, 151.2}, {89.9, -179.9}}
	for _, p := range points {
		assert.Equal(t, 0.0, Distance(p[0], p[1], p[0], p[1]))
	}
}

func TestDistance_Symmetric(t *testing.T) {
	d1 := Distance(35.6812, 139.7671, 34.7025, 135.4959)
	d2 := Distance(34.7025, 135.4959, 35.6812, 139.7671)
	assert.InDelta(t, d1, d2, 1e-6)
}

func TestDistance_KnownValues(t *testing.T) {
	// One degree of latitude along a meridian.
	assert.InDelta(t, EarthRadiusMeters*math.Pi/180, Distance(0, 0, 1, 0), 1e-6)

	// Tokyo Station to Shin-Osaka, roughly 400 km.
	d := Distance(35.6812, 139.7671, 34.7334, 135.5002)
	assert.InDelta(t, 403000, d, 3000)
}

func TestDistance_MonotonicWithSeparation(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 10; i++ {
		d := Distance(35.0, 139.0, 35.0+float64(i)*0.001, 139.0)
		assert.Greater(t, d, prev)
		prev = d
	}
}

func TestBetween(t *testing.T) {
	a := models.Coordinates{Lat: 35.6586, Lon: 139.7454}
	b := models.Coordinates{Lat: 35.6595, Lon: 139.7005}
	assert.Equal(t, Distance(a.Lat, a.Lon, b.Lat, b.Lon), Between(a, b))
}

func TestDistance_AntipodalIsFinite(t *testing.T) {
	halfCircumference := math.Pi * EarthRadiusMeters
	for lat := -89.0; lat <= 89.0; lat += 0.37 {
		for lon := -179.0; lon <= 0; lon += 1.3 {
			d := Distance(lat, lon, -lat, lon+180)
			require.False(t, math.IsNaN(d), "NaN for (%v,%v)", lat, lon)
			assert.InDelta(t, halfCircumference, d, 1)
		}
	}
	assert.InDelta(t, halfCircumference, Distance(-86.78, -179, 86.78, 1), 1)
	assert.InDelta(t, halfCircumference, Distance(90, 0, -90, 0), 1)
}
