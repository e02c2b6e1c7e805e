package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
)

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{0, "0m"},
		{1, "1m"},
		{123.4, "123m"},
		{999.4, "999m"},
		{1000, "1.0km"},
		{1234, "1.2km"},
		{12345, "12.3km"},
		{-5, "0m"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDistance(tc.meters), "meters %v", tc.meters)
	}
}

func TestFormatArea(t *testing.T) {
	cases := []struct {
		sqm  float64
		want string
	}{
		{0, "0m²"},
		{450.6, "451m²"},
		{999999, "999999m²"},
		{1000000, "1.0km²"},
		{2500000, "2.5km²"},
		{-1, "0m²"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatArea(tc.sqm), "sqm %v", tc.sqm)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		millis int64
		want   string
	}{
		{0, "0m"},
		{59000, "0m"},
		{60000, "1m"},
		{59 * 60000, "59m"},
		{60 * 60000, "1h 0m"},
		{125 * 60000, "2h 5m"},
		{-100, "0m"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.millis), "millis %v", tc.millis)
	}
}

func TestFormatTimer(t *testing.T) {
	cases := []struct {
		millis int64
		want   string
	}{
		{0, "00:00"},
		{5000, "00:05"},
		{65000, "01:05"},
		{599000, "09:59"},
		{3600000, "1:00:00"},
		{3725000, "1:02:05"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTimer(tc.millis), "millis %v", tc.millis)
	}
}

func TestFormatStatsCombinesTimeWhileActive(t *testing.T) {
	s := models.NewStatsState()
	s.Total = models.ExplorationStats{Distance: 1500, Area: 2000000, Time: 3600000}
	s.Session = models.ExplorationStats{Distance: 250, Area: 100, Time: 120000}
	s.CurrentSession = &models.SessionState{SessionID: "s1", StartTime: 1000000}

	f := FormatStats(s)
	assert.Equal(t, "1.5km", f.TotalDistance)
	assert.Equal(t, "2.0km²", f.TotalArea)
	// 1h total + 2m live session
	assert.Equal(t, "1h 2m", f.TotalTime)
	assert.Equal(t, "250m", f.SessionDistance)
	assert.Equal(t, "2m", f.SessionTime)
	assert.Equal(t, "02:00", f.SessionTimer)

	// After the session ends, the folded total stands alone
	end := int64(2000000)
	s.CurrentSession.EndTime = &end
	f = FormatStats(s)
	assert.Equal(t, "1h 0m", f.TotalTime)
}
