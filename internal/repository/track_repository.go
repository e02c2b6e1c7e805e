package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/database"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
)

// TrackRepository handles database operations for stored fixes
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new track repository
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Insert stores one processed fix under the given session
func (r *TrackRepository) Insert(p models.ProcessedGPSPoint, sessionID string) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO track_points (timestamp, latitude, longitude, accuracy, connects_previous, starts_session, disconnection_reason, session_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Timestamp, p.Latitude, p.Longitude, p.Accuracy,
		boolToInt(p.ConnectsToPrevious), boolToInt(p.StartsNewSession),
		nullableString(p.DisconnectionReason), sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert track point: %w", err)
	}
	return res.LastInsertId()
}

// InsertBatch stores processed fixes in one transaction
func (r *TrackRepository) InsertBatch(points []models.ProcessedGPSPoint, sessionID string) error {
	if len(points) == 0 {
		return nil
	}
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO track_points (timestamp, latitude, longitude, accuracy, connects_previous, starts_session, disconnection_reason, session_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			if _, err := stmt.Exec(p.Timestamp, p.Latitude, p.Longitude, p.Accuracy,
				boolToInt(p.ConnectsToPrevious), boolToInt(p.StartsNewSession),
				nullableString(p.DisconnectionReason), sessionID); err != nil {
				return fmt.Errorf("failed to insert track point: %w", err)
			}
		}
		return nil
	})
}

// List retrieves stored fixes with filtering and pagination
func (r *TrackRepository) List(filter models.TrackPointFilter) (*models.TrackPointsResponse, error) {
	var conditions []string
	var args []interface{}

	if filter.StartTime > 0 {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.SessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Connected != nil {
		conditions = append(conditions, "connects_previous = ?")
		args = append(args, boolToInt(*filter.Connected))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM track_points"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count track points: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := `
		SELECT id, timestamp, latitude, longitude, accuracy, connects_previous, starts_session, disconnection_reason, session_id
		FROM track_points` + where + ` ORDER BY timestamp ASC, id ASC LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, append(args, filter.PageSize, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query track points: %w", err)
	}
	defer rows.Close()

	points := make([]models.StoredPoint, 0, filter.PageSize)
	for rows.Next() {
		p, err := scanStoredPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate track points: %w", err)
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &models.TrackPointsResponse{
		Data:       points,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// AllPoints returns the full history as raw fixes in chronological order
func (r *TrackRepository) AllPoints() ([]models.GeoPoint, error) {
	rows, err := r.db.Query(`
		SELECT timestamp, latitude, longitude, accuracy
		FROM track_points ORDER BY timestamp ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var points []models.GeoPoint
	for rows.Next() {
		var p models.GeoPoint
		if err := rows.Scan(&p.Timestamp, &p.Latitude, &p.Longitude, &p.Accuracy); err != nil {
			return nil, fmt.Errorf("failed to scan history point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return points, nil
}

// DeleteAll removes every stored fix. Used when importing a replacement history.
func (r *TrackRepository) DeleteAll() error {
	if _, err := r.db.Exec("DELETE FROM track_points"); err != nil {
		return fmt.Errorf("failed to clear track points: %w", err)
	}
	return nil
}

// MarkCellVisited upserts an explored grid cell
func (r *TrackRepository) MarkCellVisited(cell string, timestamp int64) error {
	_, err := r.db.Exec(`
		INSERT INTO explored_cells (cell, first_visit, visit_count)
		VALUES (?, ?, 1)
		ON CONFLICT(cell) DO UPDATE SET visit_count = visit_count + 1
	`, cell, timestamp)
	if err != nil {
		return fmt.Errorf("failed to mark cell visited: %w", err)
	}
	return nil
}

// ExploredCells returns all explored cell keys
func (r *TrackRepository) ExploredCells() ([]string, error) {
	rows, err := r.db.Query("SELECT cell FROM explored_cells ORDER BY cell")
	if err != nil {
		return nil, fmt.Errorf("failed to query explored cells: %w", err)
	}
	defer rows.Close()

	var cells []string
	for rows.Next() {
		var cell string
		if err := rows.Scan(&cell); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		cells = append(cells, cell)
	}
	return cells, rows.Err()
}

// ClearExploredCells removes all explored cells
func (r *TrackRepository) ClearExploredCells() error {
	if _, err := r.db.Exec("DELETE FROM explored_cells"); err != nil {
		return fmt.Errorf("failed to clear explored cells: %w", err)
	}
	return nil
}

func scanStoredPoint(rows *sql.Rows) (models.StoredPoint, error) {
	var p models.StoredPoint
	var connects, starts int
	var reason sql.NullString
	if err := rows.Scan(&p.ID, &p.Timestamp, &p.Latitude, &p.Longitude, &p.Accuracy,
		&connects, &starts, &reason, &p.SessionID); err != nil {
		return p, fmt.Errorf("failed to scan track point: %w", err)
	}
	p.ConnectsToPrevious = connects != 0
	p.StartsNewSession = starts != 0
	if reason.Valid {
		p.DisconnectionReason = reason.String
	}
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
