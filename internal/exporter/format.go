package exporter

import (
	"math"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// formatFloat formats a value with exactly 2 decimal places.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatMetric keeps the shortest representation that round-trips, so
// small slopes and variances are not flattened to zero. NaN is empty.
func formatMetric(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatDate formats t as YYYY-MM-DD. The zero time is empty.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
