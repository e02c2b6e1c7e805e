package track

import (
	"sort"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/spatial"
)

// Disconnection reasons emitted by the classifier. These are expected,
// labeled outcomes the caller interprets as "start a new segment", not errors.
const (
	ReasonTimeGap       = "Time gap too large"
	ReasonSpeedTooHigh  = "Speed too high"
	ReasonMovementSmall = "Movement too small"
)

// MetersPerSecondToMph converts m/s to miles per hour
const MetersPerSecondToMph = 2.237

// ClassifierConfig holds the segment-connectivity thresholds. GPS noise
// produces occasional large spatial jumps and long silent gaps (backgrounded
// app, signal loss); connecting everything chronologically would draw
// teleport lines and corrupt the distance and area totals.
type ClassifierConfig struct {
	// MaxGapSeconds is the largest time gap between consecutive fixes that
	// still counts as continuous movement. Covers both app suspension and
	// GPS signal loss uniformly.
	MaxGapSeconds float64
	// MaxSpeedMph rejects segments implying implausible travel speed
	MaxSpeedMph float64
	// MinMovementMeters rejects segments shorter than this when > 0.
	// Disabled by default.
	MinMovementMeters float64
}

// DefaultClassifierConfig provides the standard connectivity thresholds
var DefaultClassifierConfig = ClassifierConfig{
	MaxGapSeconds: 120,
	MaxSpeedMph:   100,
}

// Classifier decides whether consecutive fixes represent continuous
// real-world movement or a session break
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a classifier with the given thresholds
func NewClassifier(cfg ClassifierConfig) *Classifier {
	if cfg.MaxGapSeconds <= 0 {
		cfg.MaxGapSeconds = DefaultClassifierConfig.MaxGapSeconds
	}
	if cfg.MaxSpeedMph <= 0 {
		cfg.MaxSpeedMph = DefaultClassifierConfig.MaxSpeedMph
	}
	return &Classifier{cfg: cfg}
}

// ProcessPoints filters invalid fixes, sorts the remainder chronologically
// (stable, so equal timestamps keep their input order), and annotates each
// with connectivity flags. The first point always starts a new session.
func (c *Classifier) ProcessPoints(points []models.GeoPoint) []models.ProcessedGPSPoint {
	valid := make([]models.GeoPoint, 0, len(points))
	for _, p := range points {
		if p.IsFinite() {
			valid = append(valid, p)
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Timestamp < valid[j].Timestamp
	})

	processed := make([]models.ProcessedGPSPoint, 0, len(valid))
	for i, p := range valid {
		if i == 0 {
			processed = append(processed, models.ProcessedGPSPoint{
				GeoPoint:         p,
				StartsNewSession: true,
			})
			continue
		}

		connected, reason := c.Classify(valid[i-1], p)
		processed = append(processed, models.ProcessedGPSPoint{
			GeoPoint:            p,
			ConnectsToPrevious:  connected,
			StartsNewSession:    !connected,
			DisconnectionReason: reason,
		})
	}

	return processed
}

// Classify decides whether point p continues the movement that ended at q.
// Returns the connectivity verdict and, on rejection, the labeled reason.
func (c *Classifier) Classify(q, p models.GeoPoint) (bool, string) {
	dt := float64(p.Timestamp-q.Timestamp) / 1000.0
	d := spatial.HaversineDistance(q.Latitude, q.Longitude, p.Latitude, p.Longitude)

	if dt > c.cfg.MaxGapSeconds {
		return false, ReasonTimeGap
	}

	// dt <= 0 with any displacement means infinite speed
	if dt <= 0 {
		if d > 0 {
			return false, ReasonSpeedTooHigh
		}
	} else if (d/dt)*MetersPerSecondToMph > c.cfg.MaxSpeedMph {
		return false, ReasonSpeedTooHigh
	}

	if c.cfg.MinMovementMeters > 0 && d < c.cfg.MinMovementMeters {
		return false, ReasonMovementSmall
	}

	return true, ""
}

// ConnectedSegments emits one segment per connected point, pairing it with
// its immediate predecessor in the input order
func ConnectedSegments(points []models.ProcessedGPSPoint) []models.PathSegment {
	var segments []models.PathSegment
	for i := 1; i < len(points); i++ {
		if points[i].ConnectsToPrevious {
			segments = append(segments, models.PathSegment{
				Start: points[i-1].GeoPoint,
				End:   points[i].GeoPoint,
			})
		}
	}
	return segments
}

// TotalDistance sums the great-circle length of all connected segments in
// meters. Returns 0 if no connections exist.
func TotalDistance(points []models.ProcessedGPSPoint) float64 {
	var total float64
	for _, seg := range ConnectedSegments(points) {
		total += spatial.HaversineDistance(seg.Start.Latitude, seg.Start.Longitude, seg.End.Latitude, seg.End.Longitude)
	}
	return total
}

// SessionBoundaries returns the indices where a new session starts, ascending
func SessionBoundaries(points []models.ProcessedGPSPoint) []int {
	var boundaries []int
	for i, p := range points {
		if p.StartsNewSession {
			boundaries = append(boundaries, i)
		}
	}
	return boundaries
}
