package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/explore"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/spatial"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/track"
)

func newTestEngine() *Engine {
	return NewEngine(nil, nil)
}

// walkPoints generates a connected walk: steps of the given length one second
// apart heading east from downtown San Francisco
func walkPoints(n int, stepMeters float64) []models.GeoPoint {
	points := make([]models.GeoPoint, 0, n)
	lat, lon := 37.7749, -122.4194
	ts := int64(1000000)
	for i := 0; i < n; i++ {
		points = append(points, models.GeoPoint{Latitude: lat, Longitude: lon, Timestamp: ts})
		lat, lon = spatial.DestinationPoint(lat, lon, 90, stepMeters)
		ts += 1000
	}
	return points
}

func TestStartNewSessionZeroesSessionBucket(t *testing.T) {
	e := newTestEngine()
	s := models.NewStatsState()
	s.Total = models.ExplorationStats{Distance: 500, Area: 900, Time: 60000}
	s.Session = models.ExplorationStats{Distance: 10, Area: 20, Time: 30}

	s = e.StartNewSession(s, 1000000)

	require.NotNil(t, s.CurrentSession)
	assert.NotEmpty(t, s.CurrentSession.SessionID)
	assert.Equal(t, int64(1000000), s.CurrentSession.StartTime)
	assert.Zero(t, s.CurrentSession.TotalPausedTime)
	assert.Equal(t, models.ExplorationStats{}, s.Session)
	assert.Equal(t, models.ExplorationStats{Distance: 500, Area: 900, Time: 60000}, s.Total)
	assert.Empty(t, s.SessionPath)
}

func TestPauseResumeAccumulatesPausedTime(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)

	s = e.PauseSession(s, 1005000)
	require.NotNil(t, s.CurrentSession.PausedAt)
	assert.Equal(t, int64(1005000), *s.CurrentSession.PausedAt)

	s = e.ResumeSession(s, 1015000)
	assert.Nil(t, s.CurrentSession.PausedAt)
	assert.Equal(t, int64(10000), s.CurrentSession.TotalPausedTime)
	assert.Equal(t, int64(1015000), s.CurrentSession.LastActiveTime)
}

func TestPausedTimeAdditiveOverCycles(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)

	cycles := [][2]int64{
		{1005000, 1010000},
		{1020000, 1021000},
		{1030000, 1045000},
	}
	var want int64
	for _, c := range cycles {
		s = e.PauseSession(s, c[0])
		s = e.ResumeSession(s, c[1])
		want += c[1] - c[0]
	}
	assert.Equal(t, want, s.CurrentSession.TotalPausedTime)
}

func TestResumeWithoutPauseIsGraceful(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)

	s = e.ResumeSession(s, 1005000)
	assert.Zero(t, s.CurrentSession.TotalPausedTime)
	assert.Equal(t, int64(1005000), s.CurrentSession.LastActiveTime)
}

func TestPauseIsIdempotent(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)
	s = e.PauseSession(s, 1005000)
	s = e.PauseSession(s, 1008000)
	assert.Equal(t, int64(1005000), *s.CurrentSession.PausedAt)
}

func TestUpdateSessionTimer(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)

	s = e.UpdateSessionTimer(s, 1060000)
	assert.Equal(t, int64(60000), s.Session.Time)

	// Paused sessions do not advance
	s = e.PauseSession(s, 1065000)
	s = e.UpdateSessionTimer(s, 1090000)
	assert.Equal(t, int64(65000), s.Session.Time)

	// Resume and the pause interval is excluded
	s = e.ResumeSession(s, 1075000)
	s = e.UpdateSessionTimer(s, 1080000)
	assert.Equal(t, int64(70000), s.Session.Time)
}

func TestUpdateSessionTimerNoSession(t *testing.T) {
	e := newTestEngine()
	s := e.UpdateSessionTimer(models.NewStatsState(), 1060000)
	assert.Zero(t, s.Session.Time)
}

func TestIncrementStatsConnectedAddsDistance(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)

	points := walkPoints(3, 10)
	var ok bool
	for _, p := range points {
		s, _, ok = e.IncrementStats(s, p)
		require.True(t, ok)
	}

	want := spatial.HaversineDistance(points[0].Latitude, points[0].Longitude, points[1].Latitude, points[1].Longitude) +
		spatial.HaversineDistance(points[1].Latitude, points[1].Longitude, points[2].Latitude, points[2].Longitude)
	assert.InDelta(t, want, s.Session.Distance, 1e-9)
	assert.InDelta(t, want, s.Total.Distance, 1e-9)
	require.NotNil(t, s.LastProcessedPoint)
	assert.Equal(t, points[2], *s.LastProcessedPoint)
	assert.Len(t, s.SessionPath, 3)
}

func TestIncrementStatsDisconnectionStillMovesAnchor(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)

	p1 := models.GeoPoint{Latitude: 37.7749, Longitude: -122.4194, Timestamp: 1000000}
	p2 := models.GeoPoint{Latitude: 37.7751, Longitude: -122.4196, Timestamp: 1000000 + 300000} // big gap

	s, _, _ = e.IncrementStats(s, p1)
	s, processed, ok := e.IncrementStats(s, p2)
	require.True(t, ok)

	assert.False(t, processed.ConnectsToPrevious)
	assert.Contains(t, processed.DisconnectionReason, "Time gap too large")
	assert.Zero(t, s.Session.Distance)
	assert.Equal(t, p2, *s.LastProcessedPoint)
}

func TestIncrementStatsInvalidPointDropped(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)

	before := s
	s, _, ok := e.IncrementStats(s, models.GeoPoint{Latitude: math.NaN(), Longitude: 0, Timestamp: 1000000})
	assert.False(t, ok)
	assert.Equal(t, before, s)
}

func TestIncrementStatsAreaGrowsWithEnclosure(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)

	// Walk three corners of a ~100m square: encloses a triangle
	lat, lon := 37.7749, -122.4194
	lat2, lon2 := spatial.DestinationPoint(lat, lon, 90, 100)
	lat3, lon3 := spatial.DestinationPoint(lat2, lon2, 0, 100)

	s, _, _ = e.IncrementStats(s, models.GeoPoint{Latitude: lat, Longitude: lon, Timestamp: 1000000})
	s, _, _ = e.IncrementStats(s, models.GeoPoint{Latitude: lat2, Longitude: lon2, Timestamp: 1010000})
	assert.Zero(t, s.Session.Area)

	s, _, _ = e.IncrementStats(s, models.GeoPoint{Latitude: lat3, Longitude: lon3, Timestamp: 1020000})
	assert.Greater(t, s.Session.Area, 0.0)
	assert.InDelta(t, s.Session.Area, s.Total.Area, 1e-9)
	// Roughly half of 100x100
	assert.InDelta(t, 5000, s.Session.Area, 500)
}

func TestIncrementStatsWithoutActiveSessionOnlyMovesAnchor(t *testing.T) {
	e := newTestEngine()
	s := models.NewStatsState()

	points := walkPoints(2, 10)
	s, _, _ = e.IncrementStats(s, points[0])
	s, _, _ = e.IncrementStats(s, points[1])

	assert.Zero(t, s.Total.Distance)
	assert.Zero(t, s.Session.Distance)
	assert.Equal(t, points[1], *s.LastProcessedPoint)
}

func TestIncrementStatsPausedSessionDoesNotAccumulate(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)
	s = e.PauseSession(s, 1001000)

	points := walkPoints(2, 10)
	s, _, _ = e.IncrementStats(s, points[0])
	s, _, _ = e.IncrementStats(s, points[1])

	assert.Zero(t, s.Session.Distance)
	assert.Zero(t, s.Total.Distance)
}

func TestResetSessionStatsPreservesTotals(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)

	for _, p := range walkPoints(5, 20) {
		s, _, _ = e.IncrementStats(s, p)
	}
	s = e.UpdateSessionTimer(s, 1030000)

	totalDistance := s.Total.Distance
	totalArea := s.Total.Area
	totalTimeBefore := s.Total.Time
	oldSessionID := s.CurrentSession.SessionID

	s = e.ResetSessionStats(s, 1030000)

	assert.Equal(t, models.ExplorationStats{}, s.Session)
	assert.Equal(t, totalDistance, s.Total.Distance)
	assert.Equal(t, totalArea, s.Total.Area)
	// Active elapsed (30s, no pauses) folded into the total
	assert.Equal(t, totalTimeBefore+30000, s.Total.Time)
	assert.NotEqual(t, oldSessionID, s.CurrentSession.SessionID)
	assert.Empty(t, s.SessionPath)
	// Anchor survives the reset
	assert.NotNil(t, s.LastProcessedPoint)
}

func TestEndSessionFoldsTimeAndStamps(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)
	s = e.PauseSession(s, 1010000)
	s = e.ResumeSession(s, 1020000)

	s = e.EndSession(s, 1060000)

	require.NotNil(t, s.CurrentSession.EndTime)
	assert.Equal(t, int64(1060000), *s.CurrentSession.EndTime)
	// 60s elapsed minus 10s paused
	assert.Equal(t, int64(50000), s.Total.Time)
	assert.Equal(t, int64(50000), s.Session.Time)

	// Ending twice is a no-op
	again := e.EndSession(s, 1090000)
	assert.Equal(t, s, again)
}

func TestEndSessionNoSessionIsNoOp(t *testing.T) {
	e := newTestEngine()
	s := models.NewStatsState()
	assert.Equal(t, s, e.EndSession(s, 1060000))
}

func TestIncrementalMatchesBulkRecompute(t *testing.T) {
	e := newTestEngine()
	points := walkPoints(10, 15)

	incremental := e.StartNewSession(models.NewStatsState(), points[0].Timestamp)
	for _, p := range points {
		incremental, _, _ = e.IncrementStats(incremental, p)
	}

	bulk := e.TotalsFromHistory(points)

	require.Greater(t, bulk.Total.Distance, 0.0)
	assert.InEpsilon(t, incremental.Total.Distance, bulk.Total.Distance, 1e-6)
	assert.InDelta(t, incremental.Session.Area, bulk.Total.Area, 1e-6)
	assert.Equal(t, points[len(points)-1], *bulk.LastProcessedPoint)
}

func TestTotalsFromHistoryMatchesPairwiseSum(t *testing.T) {
	e := newTestEngine()
	points := walkPoints(8, 12)

	var want float64
	for i := 1; i < len(points); i++ {
		want += spatial.HaversineDistance(points[i-1].Latitude, points[i-1].Longitude, points[i].Latitude, points[i].Longitude)
	}

	got := e.TotalsFromHistory(points)
	assert.InEpsilon(t, want, got.Total.Distance, 1e-6)
	// Run spans first to last timestamp
	assert.Equal(t, points[len(points)-1].Timestamp-points[0].Timestamp, got.Total.Time)
}

func TestTotalsFromHistoryEmptyAndInvalidInput(t *testing.T) {
	e := newTestEngine()

	s := e.TotalsFromHistory(nil)
	assert.True(t, s.IsInitialized)
	assert.Equal(t, models.ExplorationStats{}, s.Total)
	assert.Nil(t, s.LastProcessedPoint)

	s = e.TotalsFromHistory([]models.GeoPoint{
		{Latitude: math.Inf(1), Longitude: 0, Timestamp: 1000},
	})
	assert.Equal(t, models.ExplorationStats{}, s.Total)
}

func TestTotalsFromHistorySplitsDisconnectedRuns(t *testing.T) {
	e := NewEngine(track.NewClassifier(track.DefaultClassifierConfig), explore.NewAreaAccumulator())

	run1 := walkPoints(3, 10)
	run2 := walkPoints(3, 10)
	for i := range run2 {
		// Second run far in the future, so the classifier splits the history
		run2[i].Timestamp += 10000000
	}

	s := e.TotalsFromHistory(append(run1, run2...))

	var want float64
	for _, run := range [][]models.GeoPoint{run1, run2} {
		for i := 1; i < len(run); i++ {
			want += spatial.HaversineDistance(run[i-1].Latitude, run[i-1].Longitude, run[i].Latitude, run[i].Longitude)
		}
	}
	assert.InEpsilon(t, want, s.Total.Distance, 1e-6)
	// Two runs of 2 seconds each
	assert.Equal(t, int64(4000), s.Total.Time)
}

func TestStatsStateJSONRoundTrip(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewSession(models.NewStatsState(), 1000000)
	for _, p := range walkPoints(4, 25) {
		s, _, _ = e.IncrementStats(s, p)
	}
	s = e.PauseSession(s, 1010000)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored models.StatsState
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, s, restored)
}
