package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolygonAreaSquare(t *testing.T) {
	// Roughly 111m x 111m square at the equator
	square := []Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.001},
		{Lat: 0.001, Lon: 0.001},
		{Lat: 0.001, Lon: 0},
	}
	area := PolygonArea(square)
	assert.InDelta(t, 111.32*111.32, area, 100)
}

func TestPolygonAreaDegenerate(t *testing.T) {
	assert.Zero(t, PolygonArea(nil))
	assert.Zero(t, PolygonArea([]Point{{Lat: 1, Lon: 1}}))
	assert.Zero(t, PolygonArea([]Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}))

	// Collinear ring encloses nothing
	collinear := []Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.001},
		{Lat: 0, Lon: 0.002},
	}
	assert.InDelta(t, 0, PolygonArea(collinear), 1e-9)
}

func TestPolygonAreaNeverNegative(t *testing.T) {
	// Clockwise and counter-clockwise windings give the same positive area
	ccw := []Point{{0, 0}, {0, 0.001}, {0.001, 0.001}}
	cw := []Point{{0.001, 0.001}, {0, 0.001}, {0, 0}}
	assert.Greater(t, PolygonArea(ccw), 0.0)
	assert.InDelta(t, PolygonArea(ccw), PolygonArea(cw), 1e-9)
}

func TestPolygonAreaWindingInvariantAwayFromEquator(t *testing.T) {
	// The longitude scale is anchored at the mean latitude of the ring, so
	// which vertex comes first must not change the result
	ring := []Point{
		{Lat: 37.7749, Lon: -122.4194},
		{Lat: 37.7759, Lon: -122.4194},
		{Lat: 37.7759, Lon: -122.4184},
		{Lat: 37.7749, Lon: -122.4184},
	}
	reversed := make([]Point, len(ring))
	for i, p := range ring {
		reversed[len(ring)-1-i] = p
	}

	// Tolerance covers float summation-order noise only; a scale anchored at
	// a single vertex would drift these by ~0.07 m²
	assert.Greater(t, PolygonArea(ring), 0.0)
	assert.InDelta(t, PolygonArea(ring), PolygonArea(reversed), 1e-6)

	// Rotating the starting vertex must not change it either
	rotated := append(ring[2:], ring[:2]...)
	assert.InDelta(t, PolygonArea(ring), PolygonArea(rotated), 1e-6)
}

func TestPathLength(t *testing.T) {
	assert.Zero(t, PathLength(nil))
	assert.Zero(t, PathLength([]Point{{Lat: 1, Lon: 1}}))

	path := []Point{{0, 0}, {0, 0.001}, {0, 0.002}}
	want := HaversineDistance(0, 0, 0, 0.001) + HaversineDistance(0, 0.001, 0, 0.002)
	assert.InDelta(t, want, PathLength(path), 1e-9)
}

func TestCorridorArea(t *testing.T) {
	path := []Point{{0, 0}, {0, 0.001}}
	length := PathLength(path)

	area := CorridorArea(path, 10)
	assert.InDelta(t, 2*10*length+3.14159*100, area, 1)

	assert.Zero(t, CorridorArea(path, 0))
	assert.Zero(t, CorridorArea(nil, 10))
}

func TestCentroid(t *testing.T) {
	c := Centroid([]Point{{0, 0}, {2, 2}})
	assert.Equal(t, Point{Lat: 1, Lon: 1}, c)
	assert.Equal(t, Point{}, Centroid(nil))
}

func TestBoundingBox(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox([]Point{{1, 5}, {-2, 7}, {3, -4}})
	assert.Equal(t, -2.0, minLat)
	assert.Equal(t, -4.0, minLon)
	assert.Equal(t, 3.0, maxLat)
	assert.Equal(t, 7.0, maxLon)
}
