package service

import (
	"fmt"
	"log"
	"time"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/explore"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/repository"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/stats"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/track"
)

// HistoryExportVersion tags the export payload format
const HistoryExportVersion = 1

// HistoryService handles exploration-history import, export, and
// recomputation of totals from the stored history.
type HistoryService struct {
	engine     *stats.Engine
	classifier *track.Classifier
	grid       *explore.Grid
	trackRepo  *repository.TrackRepository
	tracking   *TrackingService
}

// NewHistoryService creates a history service sharing the tracking pipeline
func NewHistoryService(
	engine *stats.Engine,
	classifier *track.Classifier,
	grid *explore.Grid,
	trackRepo *repository.TrackRepository,
	tracking *TrackingService,
) *HistoryService {
	return &HistoryService{
		engine:     engine,
		classifier: classifier,
		grid:       grid,
		trackRepo:  trackRepo,
		tracking:   tracking,
	}
}

// Import validates and ingests a full exploration history, replacing the
// stored one. Validation surfaces a single aggregate outcome: any point with
// out-of-range coordinates or a negative timestamp rejects the whole payload.
func (s *HistoryService) Import(payload models.HistoryExport) (models.StatsState, error) {
	invalid := 0
	for _, p := range payload.Points {
		if !p.InRange() {
			invalid++
		}
	}
	if invalid > 0 {
		return models.StatsState{}, fmt.Errorf("invalid history data: %d of %d points out of range", invalid, len(payload.Points))
	}

	processed := s.classifier.ProcessPoints(payload.Points)

	if err := s.trackRepo.DeleteAll(); err != nil {
		return models.StatsState{}, err
	}
	if err := s.trackRepo.ClearExploredCells(); err != nil {
		return models.StatsState{}, err
	}
	if err := s.trackRepo.InsertBatch(processed, ""); err != nil {
		return models.StatsState{}, err
	}

	s.grid.Clear()
	state, err := s.rebuild(payload.Points, processed)
	if err != nil {
		return models.StatsState{}, err
	}

	log.Printf("[HistoryService] imported %d points (%d accepted)", len(payload.Points), len(processed))
	return state, nil
}

// Export returns the full stored history as a portable payload
func (s *HistoryService) Export() (models.HistoryExport, error) {
	points, err := s.trackRepo.AllPoints()
	if err != nil {
		return models.HistoryExport{}, err
	}
	return models.HistoryExport{
		Version:    HistoryExportVersion,
		ExportedAt: time.Now().UnixMilli(),
		Points:     points,
	}, nil
}

// Recompute rebuilds the totals from the stored history. The result is
// identical to what incremental ingestion over the same chronologically
// ordered events would have produced, which makes recovery trustworthy.
func (s *HistoryService) Recompute() (models.StatsState, error) {
	points, err := s.trackRepo.AllPoints()
	if err != nil {
		return models.StatsState{}, err
	}
	return s.rebuild(points, s.classifier.ProcessPoints(points))
}

func (s *HistoryService) rebuild(points []models.GeoPoint, processed []models.ProcessedGPSPoint) (models.StatsState, error) {
	state := s.engine.TotalsFromHistory(points)

	for _, pp := range processed {
		if pp.ConnectsToPrevious {
			cell := s.grid.Mark(pp.GeoPoint)
			if err := s.trackRepo.MarkCellVisited(cell, pp.Timestamp); err != nil {
				return models.StatsState{}, err
			}
		}
	}

	if err := s.tracking.replaceState(state); err != nil {
		return models.StatsState{}, err
	}
	return state, nil
}
