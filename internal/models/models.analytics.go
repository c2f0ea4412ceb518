// FilePath: internal/models/models.analytics.go
package models

import "time"

// AlertType classifies a threshold violation
type AlertType string

const (
	AlertHighTemperature AlertType = "high_temperature"
	AlertLowTemperature  AlertType = "low_temperature"
	AlertHighHumidity    AlertType = "high_humidity"
	AlertLowWeight       AlertType = "low_weight"
	AlertLowEfficiency   AlertType = "low_efficiency"
)

// Alert is a single threshold violation on a hive's latest reading
type Alert struct {
	Type      AlertType `json:"type"`
	HiveID    string    `json:"hive_id"`
	HiveName  string    `json:"hive_name"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Timestamp Timestamp `json:"timestamp"`
}

// KPITrends holds the deltas against the previous reporting window
type KPITrends struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Weight      float64 `json:"weight"`
	Production  float64 `json:"production"`
}

// KPIReport aggregates the fleet metrics for one reporting window
type KPIReport struct {
	WindowStart     time.Time `json:"window_start"`
	WindowEnd       time.Time `json:"window_end"`
	AvgTemperature  float64   `json:"avg_temperature"`
	AvgHumidity     float64   `json:"avg_humidity"`
	TotalWeight     float64   `json:"total_weight"`
	TotalProduction float64   `json:"total_production"`
	DailyProduction float64   `json:"daily_production"`
	AvgEfficiency   float64   `json:"avg_efficiency"`
	ActiveHives     int       `json:"active_hives"`
	AlertCount      int       `json:"alert_count"`
	Trends          KPITrends `json:"trends"`
}
