package stats

import (
	"fmt"
	"math"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
)

// Display thresholds. Distances and areas switch to kilometer units at these
// fixed bounds.
const (
	KilometerThresholdMeters    = 1000.0
	SquareKilometerThresholdSqM = 1000000.0
)

// FormatDistance renders meters as "Xm" below 1000m and "X.Ykm" above
func FormatDistance(meters float64) string {
	if meters < 0 || math.IsNaN(meters) {
		meters = 0
	}
	if meters < KilometerThresholdMeters {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/KilometerThresholdMeters)
}

// FormatArea renders square meters as "Xm²" below 1km² and "X.Ykm²" above
func FormatArea(squareMeters float64) string {
	if squareMeters < 0 || math.IsNaN(squareMeters) {
		squareMeters = 0
	}
	if squareMeters < SquareKilometerThresholdSqM {
		return fmt.Sprintf("%dm²", int(math.Round(squareMeters)))
	}
	return fmt.Sprintf("%.1fkm²", squareMeters/SquareKilometerThresholdSqM)
}

// FormatDuration renders milliseconds as "Xh Ym" past an hour, else "Xm"
func FormatDuration(millis int64) string {
	if millis < 0 {
		millis = 0
	}
	minutes := millis / 60000
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatTimer renders milliseconds as a live timer: "MM:SS", rolling to
// "H:MM:SS" past an hour
func FormatTimer(millis int64) string {
	if millis < 0 {
		millis = 0
	}
	totalSeconds := millis / 1000
	seconds := totalSeconds % 60
	minutes := (totalSeconds / 60) % 60
	hours := totalSeconds / 3600
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatStats projects a StatsState into display strings. While a session is
// active the displayed total time combines the folded lifetime total with the
// live session time.
func FormatStats(s models.StatsState) models.FormattedStats {
	totalTime := s.Total.Time
	if s.CurrentSession != nil && !s.CurrentSession.IsEnded() {
		totalTime += s.Session.Time
	}
	return models.FormattedStats{
		TotalDistance:   FormatDistance(s.Total.Distance),
		TotalArea:       FormatArea(s.Total.Area),
		TotalTime:       FormatDuration(totalTime),
		SessionDistance: FormatDistance(s.Session.Distance),
		SessionArea:     FormatArea(s.Session.Area),
		SessionTime:     FormatDuration(s.Session.Time),
		SessionTimer:    FormatTimer(s.Session.Time),
	}
}
