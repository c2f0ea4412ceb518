// FilePath: internal/models/models.info.go
package models

// DataInfo summarizes the currently available data without exposing it
type DataInfo struct {
	Source       string   `json:"source"`
	TotalRecords int      `json:"total_records"`
	NumHives     int      `json:"num_hives"`
	DateRange    string   `json:"date_range"`
	HiveNames    []string `json:"hive_names"`
	AutoUpdate   bool     `json:"auto_update"`
}
