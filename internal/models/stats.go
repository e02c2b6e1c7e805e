package models

// ExplorationStats holds the accumulated counters for one bucket.
// Two buckets coexist: lifetime totals and the current session.
type ExplorationStats struct {
	Distance float64 `json:"distance"` // meters
	Area     float64 `json:"area"`     // square meters
	Time     int64   `json:"time"`     // milliseconds
}

// StatsState is the full exploration-statistics aggregate. It is the
// serialization contract with the persistence collaborator: round-tripping
// through JSON must reproduce an equal state.
type StatsState struct {
	Total          ExplorationStats `json:"total"`
	Session        ExplorationStats `json:"session"`
	CurrentSession *SessionState    `json:"currentSession"`
	// LastProcessedPoint anchors the connectivity decision for the next
	// incoming fix. It is the only memory carried between ingest calls.
	LastProcessedPoint *GeoPoint `json:"lastProcessedPoint"`
	// SessionPath holds the connected points of the current session so the
	// explored area can be recomputed as the path grows.
	SessionPath   []GeoPoint `json:"sessionPath,omitempty"`
	IsInitialized bool       `json:"isInitialized"`
}

// NewStatsState returns a zeroed, initialized state
func NewStatsState() StatsState {
	return StatsState{IsInitialized: true}
}

// FormattedStats is the display-ready projection of a StatsState
type FormattedStats struct {
	TotalDistance   string `json:"totalDistance"`
	TotalArea       string `json:"totalArea"`
	TotalTime       string `json:"totalTime"`
	SessionDistance string `json:"sessionDistance"`
	SessionArea     string `json:"sessionArea"`
	SessionTime     string `json:"sessionTime"`
	SessionTimer    string `json:"sessionTimer"`
}
