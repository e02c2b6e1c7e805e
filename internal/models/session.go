package models

// SessionState tracks one continuous exploration session
type SessionState struct {
	SessionID string `json:"sessionId" db:"session_id"`
	StartTime int64  `json:"startTime" db:"start_time"` // Unix timestamp in milliseconds
	// TotalPausedTime accumulates completed pause intervals in milliseconds
	TotalPausedTime int64 `json:"totalPausedTime" db:"total_paused_time"`
	// LastActiveTime is the last moment the session was known to be active
	LastActiveTime int64 `json:"lastActiveTime" db:"last_active_time"`
	// PausedAt marks when the current pause began; nil while active.
	// Kept separate from LastActiveTime so the two meanings never collide.
	PausedAt *int64 `json:"pausedAt,omitempty" db:"paused_at"`
	EndTime  *int64 `json:"endTime,omitempty" db:"end_time"`
}

// IsPaused reports whether the session is currently paused
func (s *SessionState) IsPaused() bool {
	return s != nil && s.PausedAt != nil
}

// IsEnded reports whether the session has been ended
func (s *SessionState) IsEnded() bool {
	return s != nil && s.EndTime != nil
}

// ActiveElapsed returns the wall-clock time spent actively tracking, in
// milliseconds: total elapsed since start minus all paused time, including
// an in-progress pause.
func (s *SessionState) ActiveElapsed(nowMillis int64) int64 {
	if s == nil {
		return 0
	}
	end := nowMillis
	if s.EndTime != nil {
		end = *s.EndTime
	}
	elapsed := end - s.StartTime - s.TotalPausedTime
	if s.PausedAt != nil && *s.PausedAt <= end {
		elapsed -= end - *s.PausedAt
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
