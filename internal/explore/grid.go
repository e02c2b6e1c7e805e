package explore

import (
	"sort"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/spatial"
)

// DefaultGridPrecision is the geohash length used for explored cells.
// Precision 7 cells are roughly 150m x 150m, matching a walking visibility
// radius.
const DefaultGridPrecision = 7

// Grid is the explored-region membership index: the set of geohash cells any
// connected fix has ever landed in. Queries answer "has this location been
// revealed" without retaining the full point history in memory.
type Grid struct {
	precision int
	cells     map[string]struct{}
}

// NewGrid creates an empty explored grid at the given geohash precision
func NewGrid(precision int) *Grid {
	if precision < 1 || precision > 12 {
		precision = DefaultGridPrecision
	}
	return &Grid{
		precision: precision,
		cells:     make(map[string]struct{}),
	}
}

// Precision returns the geohash length of the grid cells
func (g *Grid) Precision() int {
	return g.precision
}

// Mark records the cell containing the fix as explored and returns its key
func (g *Grid) Mark(p models.GeoPoint) string {
	key := spatial.EncodeGeohash(p.Latitude, p.Longitude, g.precision)
	g.cells[key] = struct{}{}
	return key
}

// MarkAll records every fix in the slice
func (g *Grid) MarkAll(points []models.GeoPoint) {
	for _, p := range points {
		g.Mark(p)
	}
}

// Contains reports whether the cell containing the location has been explored
func (g *Grid) Contains(lat, lon float64) bool {
	key := spatial.EncodeGeohash(lat, lon, g.precision)
	_, ok := g.cells[key]
	return ok
}

// ContainsCell reports whether the exact cell key has been explored
func (g *Grid) ContainsCell(key string) bool {
	_, ok := g.cells[key]
	return ok
}

// Count returns the number of explored cells
func (g *Grid) Count() int {
	return len(g.cells)
}

// Cells returns the explored cell keys in sorted order
func (g *Grid) Cells() []string {
	keys := make([]string, 0, len(g.cells))
	for k := range g.cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Restore re-marks a previously exported cell set, skipping keys whose
// length does not match the grid precision
func (g *Grid) Restore(keys []string) {
	for _, k := range keys {
		if len(k) == g.precision {
			g.cells[k] = struct{}{}
		}
	}
}

// Clear empties the grid
func (g *Grid) Clear() {
	g.cells = make(map[string]struct{})
}
