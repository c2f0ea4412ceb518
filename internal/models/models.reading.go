// FilePath: internal/models/models.reading.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Reading represents a single sensor sample reported by a hive
type Reading struct {
	HiveID               string    `json:"hive_id"`
	Timestamp            Timestamp `json:"timestamp"`
	Temperature          float64   `json:"temperature"`
	Humidity             float64   `json:"humidity"`
	Weight               float64   `json:"weight"`
	ActivityLevel        float64   `json:"activity_level"`
	HourlyProduction     float64   `json:"hourly_production"`
	CumulativeProduction float64   `json:"cumulative_production"`
	ProductionEfficiency float64   `json:"production_efficiency"`
}

// Timestamp is a wrapper around time.Time that accepts the timestamp
// formats the hive fleet has historically emitted.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON parses a timestamp from any of the supported layouts
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp format: %q", raw)
}

// MarshalJSON renders the timestamp as RFC3339
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

// NewTimestamp wraps a time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}
