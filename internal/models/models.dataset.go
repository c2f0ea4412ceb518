// FilePath: internal/models/models.dataset.go
package models

import (
	"sort"
	"time"
)

// Dataset is the full ordered sequence of sensor readings
type Dataset []Reading

// Clone returns an independent copy of the dataset
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	cloned := make(Dataset, len(d))
	copy(cloned, d)
	return cloned
}

// SortByTimestamp orders the dataset chronologically in place
func (d Dataset) SortByTimestamp() {
	sort.SliceStable(d, func(i, j int) bool {
		return d[i].Timestamp.Before(d[j].Timestamp.Time)
	})
}

// FilterSince returns the readings at or after the given instant
func (d Dataset) FilterSince(since time.Time) Dataset {
	filtered := make(Dataset, 0, len(d))
	for _, r := range d {
		if !r.Timestamp.Before(since) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterRange returns the readings within [start, end)
func (d Dataset) FilterRange(start, end time.Time) Dataset {
	filtered := make(Dataset, 0, len(d))
	for _, r := range d {
		if !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterHive returns the readings belonging to a single hive
func (d Dataset) FilterHive(hiveID string) Dataset {
	filtered := make(Dataset, 0, len(d))
	for _, r := range d {
		if r.HiveID == hiveID {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// LatestPerHive returns the most recent reading for each hive
func (d Dataset) LatestPerHive() map[string]Reading {
	latest := make(map[string]Reading)
	for _, r := range d {
		current, ok := latest[r.HiveID]
		if !ok || r.Timestamp.After(current.Timestamp.Time) {
			latest[r.HiveID] = r
		}
	}
	return latest
}

// HiveIDs returns the distinct hive IDs present in the dataset
func (d Dataset) HiveIDs() []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, r := range d {
		if _, ok := seen[r.HiveID]; !ok {
			seen[r.HiveID] = struct{}{}
			ids = append(ids, r.HiveID)
		}
	}
	return ids
}

// TimeRange returns the first and last timestamps in the dataset.
// ok is false when the dataset is empty.
func (d Dataset) TimeRange() (start, end time.Time, ok bool) {
	if len(d) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = d[0].Timestamp.Time, d[0].Timestamp.Time
	for _, r := range d[1:] {
		if r.Timestamp.Before(start) {
			start = r.Timestamp.Time
		}
		if r.Timestamp.After(end) {
			end = r.Timestamp.Time
		}
	}
	return start, end, true
}
