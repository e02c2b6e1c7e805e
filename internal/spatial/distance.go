package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters

	// MetersPerDegreeLat is the approximate length of one degree of latitude.
	// Longitude degrees shrink with cos(latitude).
	MetersPerDegreeLat = 111320.0
)

// Cardinal direction names in octant order starting at North
var cardinals = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Bearing calculates the initial bearing (forward azimuth) from point 1 to point 2
// Returns bearing in degrees (0-360), where 0 is North, 90 is East, etc.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lonDiff := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(lonDiff) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(lonDiff)
	bearing := math.Atan2(y, x)

	bearingDeg := bearing * 180 / math.Pi
	return math.Mod(bearingDeg+360, 360)
}

// BearingToCardinal maps a bearing in degrees to the nearest of the eight
// cardinal/intercardinal directions
func BearingToCardinal(bearing float64) string {
	idx := int(math.Round(bearing/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return cardinals[idx]
}

// PointToSegmentDistance calculates the distance in meters from a point to a
// line segment. The projection parameter t is clamped to [0,1], so a point
// whose perpendicular foot falls outside the segment gets the distance to the
// nearest endpoint.
func PointToSegmentDistance(lat, lon, segLat1, segLon1, segLat2, segLon2 float64) float64 {
	// Local planar frame scaled to meters around the segment start
	lonScale := MetersPerDegreeLat * math.Cos(segLat1*math.Pi/180)

	px := (lon - segLon1) * lonScale
	py := (lat - segLat1) * MetersPerDegreeLat
	ex := (segLon2 - segLon1) * lonScale
	ey := (segLat2 - segLat1) * MetersPerDegreeLat

	segLenSq := ex*ex + ey*ey
	if segLenSq == 0 {
		return HaversineDistance(lat, lon, segLat1, segLon1)
	}

	t := (px*ex + py*ey) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closestLat := segLat1 + t*(segLat2-segLat1)
	closestLon := segLon1 + t*(segLon2-segLon1)
	return HaversineDistance(lat, lon, closestLat, closestLon)
}

// DestinationPoint calculates the destination point given a start point, bearing, and distance
// bearing: degrees (0-360), distance: meters
func DestinationPoint(lat, lon, bearing, distance float64) (float64, float64) {
	p := s2.LatLngFromDegrees(lat, lon)
	bearingRad := bearing * math.Pi / 180
	angularDistance := distance / EarthRadiusMeters

	latRad := p.Lat.Radians()
	lonRad := p.Lng.Radians()

	lat2 := math.Asin(math.Sin(latRad)*math.Cos(angularDistance) +
		math.Cos(latRad)*math.Sin(angularDistance)*math.Cos(bearingRad))

	lon2 := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angularDistance)*math.Cos(latRad),
		math.Cos(angularDistance)-math.Sin(latRad)*math.Sin(lat2))

	return lat2 * 180 / math.Pi, lon2 * 180 / math.Pi
}
