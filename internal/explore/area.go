package explore

import (
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/spatial"
)

// AreaAccumulator computes the explored-region surface from a connected path.
// With BufferRadiusM == 0 the region is the polygon the path traces (shoelace
// over the point ring); with a positive radius it is a corridor of that
// visibility radius swept along the path.
type AreaAccumulator struct {
	// BufferRadiusM is the visibility radius in meters. Zero selects the
	// polygon strategy.
	BufferRadiusM float64
}

// NewAreaAccumulator creates an accumulator with the polygon strategy
func NewAreaAccumulator() *AreaAccumulator {
	return &AreaAccumulator{}
}

// RecalculateArea returns the explored area in square meters for the given
// connected path points. Callers re-run this as the path grows; fewer than 3
// points (or fewer than 2 in corridor mode) yield 0, and degenerate collinear
// paths yield 0, never a negative value or NaN.
func (a *AreaAccumulator) RecalculateArea(connectedPoints []models.GeoPoint) float64 {
	ring := make([]spatial.Point, len(connectedPoints))
	for i, p := range connectedPoints {
		ring[i] = spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
	}

	if a.BufferRadiusM > 0 {
		if len(ring) < 2 {
			return 0
		}
		return spatial.CorridorArea(ring, a.BufferRadiusM)
	}

	return spatial.PolygonArea(ring)
}
