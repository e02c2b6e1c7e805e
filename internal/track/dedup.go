package track

import (
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/spatial"
)

// Deduplication constants. The OS location service may redeliver the same fix
// or deliver jittered near-duplicates inside a high-frequency callback; these
// bounds suppress them before they inflate the distance and area totals.
const (
	// DuplicateRadiusMeters is the spatial tolerance for two fixes to count
	// as the same location
	DuplicateRadiusMeters = 2.0
	// DuplicateWindowMillis is the temporal tolerance: a retained fix older
	// than this relative to the candidate never blocks it
	DuplicateWindowMillis = 5000
	// MaxDedupHistory caps the rolling window of retained fixes
	MaxDedupHistory = 50
)

// DedupResult explains the verdict for a candidate fix
type DedupResult struct {
	ShouldProcess bool   `json:"shouldProcess"`
	Reason        string `json:"reason,omitempty"`
}

// Deduplicator suppresses near-duplicate fixes against a bounded rolling
// history. It is the one piece of component-local mutable state in the
// pipeline and must be cleared at session boundaries.
type Deduplicator struct {
	history []models.GeoPoint
}

// NewDeduplicator creates a deduplicator with an empty history
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// ShouldProcess decides whether the candidate is new movement or a
// redelivered/jittered duplicate of a recently retained fix. Accepted
// candidates are appended to the history.
func (d *Deduplicator) ShouldProcess(candidate models.GeoPoint) DedupResult {
	if !candidate.IsFinite() {
		return DedupResult{ShouldProcess: false, Reason: "invalid coordinate values"}
	}

	d.prune(candidate.Timestamp)

	for _, seen := range d.history {
		dt := candidate.Timestamp - seen.Timestamp
		if dt < 0 {
			dt = -dt
		}
		if dt > DuplicateWindowMillis {
			continue
		}
		dist := spatial.HaversineDistance(seen.Latitude, seen.Longitude, candidate.Latitude, candidate.Longitude)
		if dist <= DuplicateRadiusMeters {
			return DedupResult{ShouldProcess: false, Reason: "duplicate of recent coordinate"}
		}
	}

	d.history = append(d.history, candidate)
	if len(d.history) > MaxDedupHistory {
		d.history = d.history[len(d.history)-MaxDedupHistory:]
	}

	return DedupResult{ShouldProcess: true}
}

// prune drops retained fixes too old to ever match the candidate
func (d *Deduplicator) prune(nowMillis int64) {
	cutoff := nowMillis - DuplicateWindowMillis
	i := 0
	for i < len(d.history) && d.history[i].Timestamp < cutoff {
		i++
	}
	if i > 0 {
		d.history = d.history[i:]
	}
}

// ClearHistory resets the rolling window. Called at session and test
// boundaries to avoid stale cross-session rejections.
func (d *Deduplicator) ClearHistory() {
	d.history = nil
}

// HistorySize returns the number of retained fixes
func (d *Deduplicator) HistorySize() int {
	return len(d.history)
}
