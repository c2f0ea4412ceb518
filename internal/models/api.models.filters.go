package models

import "time"

// ReadingFilters defines the available filter options for readings
type ReadingFilters struct {
	HiveID string    `schema:"hive_id"`
	Start  time.Time `schema:"start"`
	End    time.Time `schema:"end"`
	Window string    `schema:"window"`
}

// WindowDuration maps the dashboard window names to durations.
// Unknown values fall back to 30 days, matching the widest view.
func WindowDuration(window string) time.Duration {
	switch window {
	case "24h":
		return 24 * time.Hour
	case "7d":
		return 7 * 24 * time.Hour
	case "30d":
		return 30 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}
