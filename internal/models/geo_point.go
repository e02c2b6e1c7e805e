package models

import "math"

// GeoPoint represents a single raw GPS fix delivered by the location collaborator
type GeoPoint struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Timestamp int64   `json:"timestamp" db:"timestamp"` // Unix timestamp in milliseconds
	Accuracy  float64 `json:"accuracy,omitempty" db:"accuracy"`
}

// IsFinite reports whether the point carries usable numeric values.
// Points failing this check are dropped silently before classification.
func (p GeoPoint) IsFinite() bool {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) {
		return false
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return false
	}
	return p.Timestamp >= 0
}

// InRange reports whether the point's coordinates and timestamp are within
// valid GPS bounds. Used by history import validation.
func (p GeoPoint) InRange() bool {
	if !p.IsFinite() {
		return false
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return false
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return false
	}
	return true
}

// ProcessedGPSPoint is a GeoPoint annotated with connectivity flags
type ProcessedGPSPoint struct {
	GeoPoint
	ConnectsToPrevious  bool   `json:"connectsToPrevious"`
	StartsNewSession    bool   `json:"startsNewSession"`
	DisconnectionReason string `json:"disconnectionReason,omitempty"`
}

// PathSegment is a pair of consecutive connected fixes
type PathSegment struct {
	Start GeoPoint `json:"start"`
	End   GeoPoint `json:"end"`
}
