package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
)

// StatsRepository persists the StatsState snapshot and session records
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// SaveSnapshot serializes the full StatsState as the single-row snapshot.
// The JSON shape is the serialization contract with the mobile client.
func (r *StatsRepository) SaveSnapshot(state models.StatsState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal stats state: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO stats_snapshot (id, data, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, string(data))
	if err != nil {
		return fmt.Errorf("failed to save stats snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot restores the persisted StatsState. A missing snapshot yields a
// valid zeroed state, never an error.
func (r *StatsRepository) LoadSnapshot() (models.StatsState, error) {
	var data string
	err := r.db.QueryRow("SELECT data FROM stats_snapshot WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewStatsState(), nil
	}
	if err != nil {
		return models.StatsState{}, fmt.Errorf("failed to load stats snapshot: %w", err)
	}

	var state models.StatsState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return models.StatsState{}, fmt.Errorf("failed to unmarshal stats state: %w", err)
	}
	return state, nil
}

// SaveSession upserts a session record
func (r *StatsRepository) SaveSession(session models.SessionState, stats models.ExplorationStats) error {
	var endTime interface{}
	if session.EndTime != nil {
		endTime = *session.EndTime
	}
	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, start_time, end_time, total_paused_time, distance, area, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			end_time = excluded.end_time,
			total_paused_time = excluded.total_paused_time,
			distance = excluded.distance,
			area = excluded.area,
			duration = excluded.duration
	`, session.SessionID, session.StartTime, endTime, session.TotalPausedTime,
		stats.Distance, stats.Area, stats.Time)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SessionRecord is one persisted session row
type SessionRecord struct {
	SessionID       string  `json:"sessionId"`
	StartTime       int64   `json:"startTime"`
	EndTime         *int64  `json:"endTime,omitempty"`
	TotalPausedTime int64   `json:"totalPausedTime"`
	Distance        float64 `json:"distance"`
	Area            float64 `json:"area"`
	Duration        int64   `json:"duration"`
}

// ListSessions returns session records, most recent first
func (r *StatsRepository) ListSessions(limit int) ([]SessionRecord, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT session_id, start_time, end_time, total_paused_time, distance, area, duration
		FROM sessions ORDER BY start_time DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var endTime sql.NullInt64
		if err := rows.Scan(&rec.SessionID, &rec.StartTime, &endTime, &rec.TotalPausedTime,
			&rec.Distance, &rec.Area, &rec.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if endTime.Valid {
			rec.EndTime = &endTime.Int64
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
