package stats

import (
	"github.com/google/uuid"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/explore"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/spatial"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/track"
)

// Engine owns the exploration-statistics state machine. Every transition is a
// pure function of (state, input, now) returning the next state, so the host
// can replay, test, and persist deterministically. The caller supplies the
// clock as Unix milliseconds.
type Engine struct {
	classifier *track.Classifier
	area       *explore.AreaAccumulator
}

// NewEngine creates an engine with the given classifier and area accumulator
func NewEngine(classifier *track.Classifier, area *explore.AreaAccumulator) *Engine {
	if classifier == nil {
		classifier = track.NewClassifier(track.DefaultClassifierConfig)
	}
	if area == nil {
		area = explore.NewAreaAccumulator()
	}
	return &Engine{classifier: classifier, area: area}
}

// StartNewSession begins a fresh tracking session: new session ID, zeroed
// session counters, empty session path. Lifetime totals are untouched.
// The last processed point survives as the connectivity anchor; the
// classifier's gap rules already guard against cross-session connections.
func (e *Engine) StartNewSession(s models.StatsState, nowMillis int64) models.StatsState {
	s.CurrentSession = &models.SessionState{
		SessionID:      uuid.NewString(),
		StartTime:      nowMillis,
		LastActiveTime: nowMillis,
	}
	s.Session = models.ExplorationStats{}
	s.SessionPath = nil
	s.IsInitialized = true
	return s
}

// PauseSession marks the pause start. Pausing an absent, ended, or already
// paused session is a no-op.
func (e *Engine) PauseSession(s models.StatsState, nowMillis int64) models.StatsState {
	if s.CurrentSession == nil || s.CurrentSession.IsEnded() || s.CurrentSession.IsPaused() {
		return s
	}
	session := *s.CurrentSession
	pausedAt := nowMillis
	session.PausedAt = &pausedAt
	session.LastActiveTime = nowMillis
	s.Session.Time = session.ActiveElapsed(nowMillis)
	s.CurrentSession = &session
	return s
}

// ResumeSession folds the completed pause interval into totalPausedTime.
// Resuming without a prior pause degrades to refreshing lastActiveTime,
// leaving totalPausedTime unchanged.
func (e *Engine) ResumeSession(s models.StatsState, nowMillis int64) models.StatsState {
	if s.CurrentSession == nil || s.CurrentSession.IsEnded() {
		return s
	}
	session := *s.CurrentSession
	if session.PausedAt != nil {
		if nowMillis > *session.PausedAt {
			session.TotalPausedTime += nowMillis - *session.PausedAt
		}
		session.PausedAt = nil
	}
	session.LastActiveTime = nowMillis
	s.CurrentSession = &session
	return s
}

// EndSession closes the session: the active elapsed time is folded into the
// lifetime total and endTime is stamped. Ending an absent or already ended
// session is a no-op.
func (e *Engine) EndSession(s models.StatsState, nowMillis int64) models.StatsState {
	if s.CurrentSession == nil || s.CurrentSession.IsEnded() {
		return s
	}
	session := *s.CurrentSession
	active := session.ActiveElapsed(nowMillis)
	s.Total.Time += active
	s.Session.Time = active

	if session.PausedAt != nil {
		if nowMillis > *session.PausedAt {
			session.TotalPausedTime += nowMillis - *session.PausedAt
		}
		session.PausedAt = nil
	}
	end := nowMillis
	session.EndTime = &end
	session.LastActiveTime = nowMillis
	s.CurrentSession = &session
	return s
}

// ResetSessionStats folds the active elapsed time into the lifetime total,
// then starts a brand-new session with zeroed session counters. Lifetime
// distance and area are untouched; this is the only operation that moves
// session time into the total without ending tracking.
func (e *Engine) ResetSessionStats(s models.StatsState, nowMillis int64) models.StatsState {
	if s.CurrentSession != nil && !s.CurrentSession.IsEnded() {
		s.Total.Time += s.CurrentSession.ActiveElapsed(nowMillis)
	}
	return e.StartNewSession(s, nowMillis)
}

// UpdateSessionTimer recomputes session time from the wall clock. Driven by
// the periodic 1-second tick; only an active, unpaused session advances.
func (e *Engine) UpdateSessionTimer(s models.StatsState, nowMillis int64) models.StatsState {
	if s.CurrentSession == nil || s.CurrentSession.IsEnded() || s.CurrentSession.IsPaused() {
		return s
	}
	s.Session.Time = s.CurrentSession.ActiveElapsed(nowMillis)
	return s
}

// IncrementStats ingests one fix. The previous processed point is the anchor
// for the connectivity decision; a connected fix adds to the distance buckets
// and refreshes the explored area, a disconnected fix only becomes the new
// anchor. Invalid fixes are dropped without touching the state. Time is not
// incremented here; that belongs to UpdateSessionTimer.
func (e *Engine) IncrementStats(s models.StatsState, p models.GeoPoint) (models.StatsState, models.ProcessedGPSPoint, bool) {
	if !p.IsFinite() {
		return s, models.ProcessedGPSPoint{}, false
	}

	processed := models.ProcessedGPSPoint{GeoPoint: p, StartsNewSession: true}
	if s.LastProcessedPoint != nil {
		connected, reason := e.classifier.Classify(*s.LastProcessedPoint, p)
		processed.ConnectsToPrevious = connected
		processed.StartsNewSession = !connected
		processed.DisconnectionReason = reason
	}

	sessionActive := s.CurrentSession != nil && !s.CurrentSession.IsEnded() && !s.CurrentSession.IsPaused()

	if processed.ConnectsToPrevious && sessionActive {
		last := *s.LastProcessedPoint
		d := spatial.HaversineDistance(last.Latitude, last.Longitude, p.Latitude, p.Longitude)
		s.Session.Distance += d
		s.Total.Distance += d

		// First connected segment of a session anchors the path with both ends
		if len(s.SessionPath) == 0 {
			s.SessionPath = append(s.SessionPath, last)
		}
		path := make([]models.GeoPoint, len(s.SessionPath), len(s.SessionPath)+1)
		copy(path, s.SessionPath)
		s.SessionPath = append(path, p)

		newArea := e.area.RecalculateArea(s.SessionPath)
		if delta := newArea - s.Session.Area; delta > 0 {
			s.Total.Area += delta
		}
		s.Session.Area = newArea
	}

	point := p
	s.LastProcessedPoint = &point
	return s, processed, true
}

// TotalsFromHistory recomputes a full StatsState from an exploration history.
// The result matches what incremental ingestion over the same chronologically
// ordered events would have produced: distance sums the connected segments,
// area sums the per-run explored polygons, and time sums each connected run's
// first-to-last span. Malformed points are filtered; empty input yields a
// valid zeroed state.
func (e *Engine) TotalsFromHistory(events []models.GeoPoint) models.StatsState {
	state := models.NewStatsState()

	processed := e.classifier.ProcessPoints(events)
	if len(processed) == 0 {
		return state
	}

	state.Total.Distance = track.TotalDistance(processed)

	boundaries := track.SessionBoundaries(processed)
	for i, start := range boundaries {
		end := len(processed)
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		}
		run := make([]models.GeoPoint, 0, end-start)
		for _, pp := range processed[start:end] {
			run = append(run, pp.GeoPoint)
		}
		if len(run) > 1 {
			state.Total.Area += e.area.RecalculateArea(run)
			state.Total.Time += run[len(run)-1].Timestamp - run[0].Timestamp
		}
	}

	last := processed[len(processed)-1].GeoPoint
	state.LastProcessedPoint = &last
	return state
}
