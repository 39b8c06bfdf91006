package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lon1 float64
		lat2, lon2 float64
		expected   float64
		tolerance  float64
	}{
		{
			name: "identity",
			lat1: 59.3293, lon1: 18.0686,
			lat2: 59.3293, lon2: 18.0686,
			expected: 0, tolerance: 1e-9,
		},
		{
			name: "london to paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			expected: 343.5, tolerance: 1.0,
		},
		{
			name: "stockholm to gothenburg",
			lat1: 59.3293, lon1: 18.0686,
			lat2: 57.7089, lon2: 11.9746,
			expected: 397.0, tolerance: 2.0,
		},
		{
			name: "across the antimeridian",
			lat1: 0, lon1: 179.5,
			lat2: 0, lon2: -179.5,
			expected: 111.19, tolerance: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expected, d, tt.tolerance)
			assert.GreaterOrEqual(t, d, 0.0)
		})
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	points := [][2]float64{
		{51.5074, -0.1278},
		{48.8566, 2.3522},
		{-33.8688, 151.2093},
		{35.6812, 139.7671},
		{0, 0},
	}

	for _, a := range points {
		for _, b := range points {
			ab := DistanceKm(a[0], a[1], b[0], b[1])
			ba := DistanceKm(b[0], b[1], a[0], a[1])
			assert.Equal(t, ab, ba, "distance must be symmetric for %v and %v", a, b)
		}
	}
}

func TestDistanceKmDeterministic(t *testing.T) {
	first := DistanceKm(51.5074, -0.1278, 59.3293, 18.0686)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, DistanceKm(51.5074, -0.1278, 59.3293, 18.0686))
	}
}

func TestDistanceKmNaNPropagation(t *testing.T) {
	assert.True(t, math.IsNaN(DistanceKm(math.NaN(), 0, 0, 0)))
	assert.True(t, math.IsNaN(DistanceKm(0, 0, 0, math.NaN())))
}
