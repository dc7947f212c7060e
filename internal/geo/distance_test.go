package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceZeroForIdenticalPoints(t *testing.T) {
	p := Point{Lat: 51.5074, Lon: -0.1278}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistanceSymmetry(t *testing.T) {
	a := Point{Lat: 40.7128, Lon: -74.0060}
	b := Point{Lat: 34.0522, Lon: -118.2437}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistanceNearBoundaryRadius(t *testing.T) {
	center := Point{Lat: 0, Lon: 0}

	// 0.009 degrees of latitude is roughly 1001m, just past a 1000m radius.
	outside := Distance(center, Point{Lat: 0.009, Lon: 0})
	assert.Greater(t, outside, 1000.0)
	assert.Less(t, outside, 1010.0)

	// 0.008 degrees is roughly 890m, comfortably inside.
	inside := Distance(center, Point{Lat: 0.008, Lon: 0})
	assert.Less(t, inside, 1000.0)
	assert.Greater(t, inside, 880.0)
}

func TestDistanceKnownValue(t *testing.T) {
	// Paris to London is about 344km great-circle.
	paris := Point{Lat: 48.8566, Lon: 2.3522}
	london := Point{Lat: 51.5074, Lon: -0.1278}
	d := Distance(paris, london)
	assert.InDelta(t, 344000, d, 2000)
}

func TestDistanceAcrossAntimeridian(t *testing.T) {
	a := Point{Lat: 0, Lon: 179.9}
	b := Point{Lat: 0, Lon: -179.9}
	// 0.2 degrees of longitude at the equator is about 22km, not 40000km.
	assert.Less(t, Distance(a, b), 25000.0)
}
