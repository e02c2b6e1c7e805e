package service

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/explore"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/repository"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/stats"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/stream"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/track"
)

// TrackingService orchestrates the ingest pipeline: dedup, classification,
// stats accumulation, explored-grid marking, persistence, and broadcast. It
// serializes all state transitions behind one mutex, which is the single
// logical event queue the core expects.
type TrackingService struct {
	engine    *stats.Engine
	dedup     *track.Deduplicator
	grid      *explore.Grid
	trackRepo *repository.TrackRepository
	statsRepo *repository.StatsRepository
	hub       *stream.Hub

	mu    sync.Mutex
	state models.StatsState

	// nowFn supplies the clock in Unix milliseconds; replaceable in tests
	nowFn func() int64
}

// IngestResult reports what happened to one submitted fix
type IngestResult struct {
	Accepted bool                      `json:"accepted"`
	Reason   string                    `json:"reason,omitempty"`
	Point    *models.ProcessedGPSPoint `json:"point,omitempty"`
	Stats    models.StatsState         `json:"stats"`
}

// NewTrackingService wires the pipeline and restores persisted state
func NewTrackingService(
	engine *stats.Engine,
	grid *explore.Grid,
	trackRepo *repository.TrackRepository,
	statsRepo *repository.StatsRepository,
	hub *stream.Hub,
) (*TrackingService, error) {
	s := &TrackingService{
		engine:    engine,
		dedup:     track.NewDeduplicator(),
		grid:      grid,
		trackRepo: trackRepo,
		statsRepo: statsRepo,
		hub:       hub,
		nowFn:     func() int64 { return time.Now().UnixMilli() },
	}

	state, err := statsRepo.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to restore stats state: %w", err)
	}
	s.state = state

	cells, err := trackRepo.ExploredCells()
	if err != nil {
		return nil, fmt.Errorf("failed to restore explored cells: %w", err)
	}
	grid.Restore(cells)

	log.Printf("[TrackingService] restored state: %.1fm total, %d explored cells", state.Total.Distance, grid.Count())
	return s, nil
}

// IngestPoint runs one fix through the pipeline. Duplicates and invalid fixes
// are rejected with a reason, never an error; a nil error with Accepted=false
// is the expected outcome for noise.
func (s *TrackingService) IngestPoint(p models.GeoPoint) (IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.ingestLocked(p)
	if err != nil {
		return res, err
	}
	if err := s.persistLocked(); err != nil {
		return res, err
	}
	s.broadcastLocked()
	return res, nil
}

// IngestBatch processes a background-delivered array of fixes, sorting by
// timestamp before classification. Persistence and broadcast happen once at
// the end.
func (s *TrackingService) IngestBatch(points []models.GeoPoint) ([]IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]models.GeoPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	results := make([]IngestResult, 0, len(sorted))
	for _, p := range sorted {
		res, err := s.ingestLocked(p)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	if err := s.persistLocked(); err != nil {
		return results, err
	}
	s.broadcastLocked()
	return results, nil
}

func (s *TrackingService) ingestLocked(p models.GeoPoint) (IngestResult, error) {
	if dedup := s.dedup.ShouldProcess(p); !dedup.ShouldProcess {
		return IngestResult{Reason: dedup.Reason, Stats: s.state}, nil
	}

	newState, processed, ok := s.engine.IncrementStats(s.state, p)
	if !ok {
		return IngestResult{Reason: "invalid coordinate values", Stats: s.state}, nil
	}
	s.state = newState

	sessionID := ""
	if s.state.CurrentSession != nil {
		sessionID = s.state.CurrentSession.SessionID
	}
	if _, err := s.trackRepo.Insert(processed, sessionID); err != nil {
		return IngestResult{Stats: s.state}, fmt.Errorf("failed to persist fix: %w", err)
	}

	if processed.ConnectsToPrevious {
		cell := s.grid.Mark(p)
		if err := s.trackRepo.MarkCellVisited(cell, p.Timestamp); err != nil {
			return IngestResult{Stats: s.state}, fmt.Errorf("failed to persist explored cell: %w", err)
		}
	}

	return IngestResult{Accepted: true, Point: &processed, Stats: s.state}, nil
}

// StartSession begins a new session and clears the dedup window
func (s *TrackingService) StartSession() (models.StatsState, error) {
	return s.transition(func(now int64) models.StatsState {
		s.dedup.ClearHistory()
		return s.engine.StartNewSession(s.state, now)
	})
}

// PauseSession pauses the active session
func (s *TrackingService) PauseSession() (models.StatsState, error) {
	return s.transition(func(now int64) models.StatsState {
		return s.engine.PauseSession(s.state, now)
	})
}

// ResumeSession resumes a paused session
func (s *TrackingService) ResumeSession() (models.StatsState, error) {
	return s.transition(func(now int64) models.StatsState {
		return s.engine.ResumeSession(s.state, now)
	})
}

// EndSession ends the active session and records it
func (s *TrackingService) EndSession() (models.StatsState, error) {
	return s.transition(func(now int64) models.StatsState {
		return s.engine.EndSession(s.state, now)
	})
}

// ResetSessionStats folds session time into the total and starts fresh
func (s *TrackingService) ResetSessionStats() (models.StatsState, error) {
	return s.transition(func(now int64) models.StatsState {
		s.dedup.ClearHistory()
		return s.engine.ResetSessionStats(s.state, now)
	})
}

// Tick advances the session timer from the wall clock. Called every second
// while the service runs; broadcasts only when the state changed.
func (s *TrackingService) Tick() models.StatsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.state.Session.Time
	s.state = s.engine.UpdateSessionTimer(s.state, s.nowFn())
	if s.state.Session.Time != before {
		s.broadcastLocked()
	}
	return s.state
}

// CurrentState returns a copy of the live StatsState
func (s *TrackingService) CurrentState() models.StatsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FormattedStats returns the display projection of the live state
func (s *TrackingService) FormattedStats() models.FormattedStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.FormatStats(s.state)
}

// Explored reports whether the cell containing the location has been revealed
func (s *TrackingService) Explored(lat, lon float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Contains(lat, lon)
}

// ExploredCellCount returns the number of revealed grid cells
func (s *TrackingService) ExploredCellCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Count()
}

// ListPoints returns stored fixes for the given filter
func (s *TrackingService) ListPoints(filter models.TrackPointFilter) (*models.TrackPointsResponse, error) {
	return s.trackRepo.List(filter)
}

// ListSessions returns persisted session records
func (s *TrackingService) ListSessions(limit int) ([]repository.SessionRecord, error) {
	return s.statsRepo.ListSessions(limit)
}

func (s *TrackingService) transition(fn func(now int64) models.StatsState) (models.StatsState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.CurrentSession
	prevStats := s.state.Session
	s.state = fn(s.nowFn())

	// Record the outgoing session with the stats it accumulated, captured
	// before the transition zeroes the session bucket
	if prev != nil && (s.state.CurrentSession == nil || prev.SessionID != s.state.CurrentSession.SessionID) {
		if err := s.statsRepo.SaveSession(*prev, prevStats); err != nil {
			return s.state, err
		}
	}
	if cur := s.state.CurrentSession; cur != nil {
		if err := s.statsRepo.SaveSession(*cur, s.state.Session); err != nil {
			return s.state, err
		}
	}

	if err := s.persistLocked(); err != nil {
		return s.state, err
	}
	s.broadcastLocked()
	return s.state, nil
}

func (s *TrackingService) persistLocked() error {
	if err := s.statsRepo.SaveSnapshot(s.state); err != nil {
		return fmt.Errorf("failed to persist stats snapshot: %w", err)
	}
	return nil
}

func (s *TrackingService) broadcastLocked() {
	if s.hub != nil {
		s.hub.BroadcastJSON(s.state)
	}
}

// replaceState swaps in a recomputed state. Used by history import/recompute.
func (s *TrackingService) replaceState(state models.StatsState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.dedup.ClearHistory()
	if err := s.persistLocked(); err != nil {
		return err
	}
	s.broadcastLocked()
	return nil
}
