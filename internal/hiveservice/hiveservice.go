package hiveservice

import (
	"context"
	"time"

	"github.com/apiaryworks/hivedash/internal/analytics"
	"github.com/apiaryworks/hivedash/internal/errors"
	"github.com/apiaryworks/hivedash/internal/loader"
	"github.com/apiaryworks/hivedash/internal/models"
)

// HiveService bundles the data loader and the analytics engine and
// exposes the consumer contract used by the API layer
type HiveService struct {
	Loader    *loader.Loader
	Analytics *analytics.Service
}

// New creates a new HiveService instance
func New(l *loader.Loader, a *analytics.Service) *HiveService {
	return &HiveService{
		Loader:    l,
		Analytics: a,
	}
}

// Validate checks if all required components are initialized
func (s *HiveService) Validate() error {
	if s.Loader == nil {
		return ErrMissingComponent("loader")
	}
	if s.Analytics == nil {
		return ErrMissingComponent("analytics")
	}
	return nil
}

func ErrMissingComponent(name string) error {
	return errors.NewInternalError("missing component: "+name, nil)
}

// LoadData returns the current dataset and hive configuration
func (s *HiveService) LoadData(ctx context.Context) (models.Dataset, models.ConfigList, error) {
	return s.Loader.Load(ctx)
}

// RefreshData forces a full refetch, bypassing change detection
func (s *HiveService) RefreshData(ctx context.Context) (models.Dataset, models.ConfigList, error) {
	return s.Loader.Refresh(ctx)
}

// DataInfo summarizes the available data without mutating the cache
func (s *HiveService) DataInfo(ctx context.Context) (*models.DataInfo, error) {
	return s.Loader.Info(ctx)
}

// CheckForUpdates runs one change-detection pass without reloading
func (s *HiveService) CheckForUpdates(ctx context.Context) bool {
	return s.Loader.CheckForUpdates(ctx)
}

// Hives returns the configured hive list
func (s *HiveService) Hives(ctx context.Context) (models.ConfigList, error) {
	_, configs, err := s.Loader.Load(ctx)
	return configs, err
}

// Readings returns the dataset narrowed by the given filters. Filtering
// happens on the caller's copy; the shared cache is never touched.
func (s *HiveService) Readings(ctx context.Context, filters models.ReadingFilters) (models.Dataset, error) {
	dataset, _, err := s.Loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	if filters.HiveID != "" && filters.HiveID != "all" {
		dataset = dataset.FilterHive(filters.HiveID)
	}
	switch {
	case !filters.Start.IsZero() && !filters.End.IsZero():
		dataset = dataset.FilterRange(filters.Start, filters.End)
	case !filters.Start.IsZero():
		dataset = dataset.FilterSince(filters.Start)
	case filters.Window != "":
		dataset = dataset.FilterSince(time.Now().Add(-models.WindowDuration(filters.Window)))
	}
	return dataset, nil
}

// KPIs computes the fleet KPI report for the given window, optionally
// narrowed to a single hive
func (s *HiveService) KPIs(ctx context.Context, window, hiveID string) (models.KPIReport, error) {
	dataset, configs, err := s.Loader.Load(ctx)
	if err != nil {
		return models.KPIReport{}, err
	}
	if hiveID != "" && hiveID != "all" {
		dataset = dataset.FilterHive(hiveID)
	}
	return s.Analytics.ComputeKPIs(dataset, configs, models.WindowDuration(window), time.Now()), nil
}

// Alerts evaluates the alert thresholds over the latest readings
func (s *HiveService) Alerts(ctx context.Context) ([]models.Alert, error) {
	dataset, configs, err := s.Loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Analytics.EvaluateAlerts(dataset, configs), nil
}
