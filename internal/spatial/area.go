package spatial

import (
	"math"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += HaversineDistance(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}

	return totalDist
}

// PolygonArea calculates the planar-projected area of a polygon in square
// meters using the shoelace formula, scaling longitude degrees by the
// cosine of the ring's mean latitude. The scale depends only on the set of
// vertices, so reversing the winding order gives the identical result.
// Fewer than 3 points or a collinear ring yields 0; the result is never
// negative or NaN.
func PolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	var sum, latSum float64
	for i := 0; i < len(points); i++ {
		j := (i + 1) % len(points)
		sum += points[i].Lon*points[j].Lat - points[j].Lon*points[i].Lat
		latSum += points[i].Lat
	}

	latRad := latSum / float64(len(points)) * math.Pi / 180
	metersPerDegreeLon := MetersPerDegreeLat * math.Cos(latRad)

	area := math.Abs(sum) * MetersPerDegreeLat * metersPerDegreeLon / 2.0
	if math.IsNaN(area) || math.IsInf(area, 0) {
		return 0
	}
	return area
}

// CorridorArea estimates the area in square meters of a corridor of the given
// radius swept along the path: a strip of width 2r along its length plus a
// disc for the endpoints. Overlap between consecutive segments is not
// subtracted, so the estimate is an upper bound for self-crossing paths.
func CorridorArea(points []Point, radius float64) float64 {
	if radius <= 0 || len(points) == 0 {
		return 0
	}
	return 2*radius*PathLength(points) + math.Pi*radius*radius
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// BoundingBox calculates the bounding box of a set of points
// Returns (minLat, minLon, maxLat, maxLon)
func BoundingBox(points []Point) (float64, float64, float64, float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon

	for _, p := range points[1:] {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
	}

	return minLat, minLon, maxLat, maxLon
}
