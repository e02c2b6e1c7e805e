package models

// TrackPointFilter represents filter parameters for querying stored fixes
type TrackPointFilter struct {
	StartTime int64  `form:"startTime"` // Unix timestamp in milliseconds
	EndTime   int64  `form:"endTime"`   // Unix timestamp in milliseconds
	SessionID string `form:"sessionId"`
	Connected *bool  `form:"connected"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// TrackPointsResponse represents a paginated response of stored fixes
type TrackPointsResponse struct {
	Data       []StoredPoint `json:"data"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// StoredPoint is a processed fix as persisted, with its row ID and the
// session it was recorded under
type StoredPoint struct {
	ID int64 `json:"id" db:"id"`
	ProcessedGPSPoint
	SessionID string `json:"sessionId" db:"session_id"`
}

// HistoryExport is the import/export payload for full exploration history
type HistoryExport struct {
	Version    int        `json:"version"`
	ExportedAt int64      `json:"exportedAt"` // Unix timestamp in milliseconds
	Points     []GeoPoint `json:"points"`
}
