package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMetersZeroForSamePoint(t *testing.T) {
	points := []Coordinates{
		{0, 0},
		{52.52, 13.405},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}

	for _, p := range points {
		assert.Equal(t, 0.0, DistanceMeters(p, p), "distance from %v to itself", p)
	}
}

func TestDistanceMetersKnownPairs(t *testing.T) {
	tests := []struct {
		name string
		a, b Coordinates
		want float64
		tol  float64
	}{
		{
			name: "berlin tv tower to brandenburg gate",
			a:    Coordinates{52.520803, 13.409422},
			b:    Coordinates{52.516275, 13.377704},
			want: 2200,
			tol:  100,
		},
		{
			name: "one degree of latitude",
			a:    Coordinates{0, 0},
			b:    Coordinates{1, 0},
			want: 111195,
			tol:  50,
		},
		{
			name: "about sixty meters",
			a:    Coordinates{52.000000, 13.000000},
			b:    Coordinates{52.0005, 13.0005},
			want: 65,
			tol:  10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, tt.tol)
			assert.Equal(t, got, DistanceMeters(tt.b, tt.a), "distance is symmetric")
		})
	}
}

func TestDistanceMetersPropagatesNaN(t *testing.T) {
	nan := Coordinates{math.NaN(), 13.0}
	assert.True(t, math.IsNaN(DistanceMeters(nan, Coordinates{52, 13})))
}

func TestCoordinatesIsValid(t *testing.T) {
	assert.True(t, Coordinates{0, 0}.IsValid())
	assert.True(t, Coordinates{52.52, 13.405}.IsValid())
	assert.False(t, Coordinates{math.NaN(), 13}.IsValid())
	assert.False(t, Coordinates{52, math.Inf(1)}.IsValid())
	assert.False(t, Coordinates{90.1, 13}.IsValid())
	assert.False(t, Coordinates{52, -180.5}.IsValid())
	assert.True(t, Coordinates{-90, 180}.IsValid())
}
