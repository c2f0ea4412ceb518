// FilePath: internal/analytics/analytics.go
package analytics

import (
	"sort"
	"time"

	"github.com/apiaryworks/hivedash/internal/config"
	"github.com/apiaryworks/hivedash/internal/models"
)

// Service computes fleet KPIs and evaluates alert thresholds over a
// dataset snapshot. It holds no state beyond its thresholds and is safe
// for concurrent use.
type Service struct {
	cfg config.AnalyticsConfig
}

// New creates a new analytics service with the given thresholds
func New(cfg config.AnalyticsConfig) *Service {
	return &Service{cfg: cfg}
}

// ComputeKPIs aggregates the fleet metrics for the reporting window
// ending at now. Averages and sums are taken over the latest reading of
// each hive within the window; trends compare against the immediately
// preceding window of equal length.
func (s *Service) ComputeKPIs(dataset models.Dataset, configs models.ConfigList, window time.Duration, now time.Time) models.KPIReport {
	windowStart := now.Add(-window)
	filtered := dataset.FilterSince(windowStart)
	latest := filtered.LatestPerHive()

	report := models.KPIReport{
		WindowStart: windowStart,
		WindowEnd:   now,
		ActiveHives: len(latest),
	}

	var tempSum, humiditySum, efficiencySum float64
	for _, r := range latest {
		tempSum += r.Temperature
		humiditySum += r.Humidity
		efficiencySum += r.ProductionEfficiency
		report.TotalWeight += r.Weight
		report.TotalProduction += r.CumulativeProduction
	}
	if n := float64(len(latest)); n > 0 {
		report.AvgTemperature = tempSum / n
		report.AvgHumidity = humiditySum / n
		report.AvgEfficiency = efficiencySum / n
	}

	report.DailyProduction = dailyProduction(dataset, now)
	report.Trends = s.computeTrends(dataset, report, windowStart, window)
	report.AlertCount = len(s.EvaluateAlerts(filtered, configs))
	return report
}

// EvaluateAlerts checks the latest reading of each hive in the dataset
// against the configured thresholds. Hives without a configuration entry
// are reported under their raw ID.
func (s *Service) EvaluateAlerts(dataset models.Dataset, configs models.ConfigList) []models.Alert {
	known := configs.ByID()
	latest := dataset.LatestPerHive()

	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	alerts := []models.Alert{}
	for _, id := range ids {
		r := latest[id]
		name := id
		if hive, ok := known[id]; ok {
			name = hive.Name
		}
		if r.Temperature > s.cfg.HighTempThreshold {
			alerts = append(alerts, newAlert(models.AlertHighTemperature, r, name, r.Temperature, s.cfg.HighTempThreshold))
		}
		if r.Temperature < s.cfg.LowTempThreshold {
			alerts = append(alerts, newAlert(models.AlertLowTemperature, r, name, r.Temperature, s.cfg.LowTempThreshold))
		}
		if r.Humidity > s.cfg.HighHumidityThreshold {
			alerts = append(alerts, newAlert(models.AlertHighHumidity, r, name, r.Humidity, s.cfg.HighHumidityThreshold))
		}
		if r.Weight < s.cfg.LowWeightThreshold {
			alerts = append(alerts, newAlert(models.AlertLowWeight, r, name, r.Weight, s.cfg.LowWeightThreshold))
		}
		if r.ProductionEfficiency < s.cfg.LowEfficiencyThreshold {
			alerts = append(alerts, newAlert(models.AlertLowEfficiency, r, name, r.ProductionEfficiency, s.cfg.LowEfficiencyThreshold))
		}
	}
	return alerts
}

func newAlert(alertType models.AlertType, r models.Reading, name string, value, threshold float64) models.Alert {
	return models.Alert{
		Type:      alertType,
		HiveID:    r.HiveID,
		HiveName:  name,
		Value:     value,
		Threshold: threshold,
		Timestamp: r.Timestamp,
	}
}

// dailyProduction averages the per-hive production totals of the
// trailing 24 hours
func dailyProduction(dataset models.Dataset, now time.Time) float64 {
	perHive := make(map[string]float64)
	for _, r := range dataset.FilterSince(now.Add(-24 * time.Hour)) {
		perHive[r.HiveID] += r.HourlyProduction
	}
	if len(perHive) == 0 {
		return 0
	}
	var sum float64
	for _, total := range perHive {
		sum += total
	}
	return sum / float64(len(perHive))
}

func (s *Service) computeTrends(dataset models.Dataset, current models.KPIReport, windowStart time.Time, window time.Duration) models.KPITrends {
	previous := dataset.FilterRange(windowStart.Add(-window), windowStart).LatestPerHive()
	if len(previous) == 0 {
		return models.KPITrends{}
	}

	var tempSum, humiditySum, weightSum, productionSum float64
	for _, r := range previous {
		tempSum += r.Temperature
		humiditySum += r.Humidity
		weightSum += r.Weight
		productionSum += r.CumulativeProduction
	}
	n := float64(len(previous))
	return models.KPITrends{
		Temperature: current.AvgTemperature - tempSum/n,
		Humidity:    current.AvgHumidity - humiditySum/n,
		Weight:      current.TotalWeight - weightSum,
		Production:  current.TotalProduction - productionSum,
	}
}
