// FilePath: internal/loader/loader.go
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/apiaryworks/hivedash/internal/errors"
	"github.com/apiaryworks/hivedash/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const eventArtifactUpdated = "artifact.updated"

// ArtifactSource retrieves artifacts and their fingerprints from the
// remote content host
type ArtifactSource interface {
	FingerprintSource
	FetchArtifact(ctx context.Context, name string) ([]byte, error)
}

// Options configures a Loader
type Options struct {
	DataArtifact   string
	ConfigArtifact string
	PollInterval   time.Duration
}

// CacheEntry holds one complete, consistent snapshot of the remote data.
// Entries are replaced wholesale on reload and never mutated in place,
// so a reader holding a snapshot can never observe a torn state.
type CacheEntry struct {
	Dataset  models.Dataset
	Configs  models.ConfigList
	LoadedAt time.Time
}

// Loader owns the in-memory cache of the remote artifacts. It serves
// cached data when nothing changed upstream, reloads atomically when a
// change is detected, and falls back to the last good snapshot when a
// reload fails. The Loader is the sole mutator of the cache; a single
// mutex covers the cache, the fingerprint baseline, and the pending
// reload flag, so poller checks and foreground reloads cannot race.
type Loader struct {
	source   ArtifactSource
	opts     Options
	detector *ChangeDetector
	events   *nuts.EventEmitter

	mu            sync.Mutex
	cache         *CacheEntry
	pendingReload bool

	monitoring bool
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// New creates a Loader over the given artifact source
func New(source ArtifactSource, opts Options) *Loader {
	if opts.DataArtifact == "" {
		opts.DataArtifact = "beehive_data.json"
	}
	if opts.ConfigArtifact == "" {
		opts.ConfigArtifact = "hives_config.json"
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	return &Loader{
		source:   source,
		opts:     opts,
		detector: NewChangeDetector(source, opts.DataArtifact, opts.ConfigArtifact),
		events:   nuts.NewEventEmitter(),
	}
}

// Load returns the current dataset and hive configuration. On an empty
// cache the fetch is forced and any failure is returned to the caller;
// on a populated cache a detected upstream change triggers a reload
// whose failure is downgraded to a warning, with the previous snapshot
// served unchanged. Callers always receive independent copies.
func (l *Loader) Load(ctx context.Context) (models.Dataset, models.ConfigList, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cache == nil {
		if err := l.reload(ctx); err != nil {
			return nil, nil, err
		}
		l.pendingReload = false
		return l.cache.Dataset.Clone(), l.cache.Configs.Clone(), nil
	}

	// A change spotted by the background poller is consumed here; only
	// check fingerprints ourselves when the poller has nothing pending.
	if !l.pendingReload {
		l.checkLocked(ctx)
	}
	if l.pendingReload {
		if err := l.reload(ctx); err != nil {
			nuts.L.Warnf("[Loader] Reload failed, serving cached data: %v", err)
		} else {
			l.pendingReload = false
		}
	}

	return l.cache.Dataset.Clone(), l.cache.Configs.Clone(), nil
}

// Refresh discards the cache and forces a full fetch, bypassing change
// detection entirely
func (l *Loader) Refresh(ctx context.Context) (models.Dataset, models.ConfigList, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	nuts.L.Infof("[Loader] Force refreshing data from %s and %s", l.opts.DataArtifact, l.opts.ConfigArtifact)
	l.cache = nil
	if err := l.reload(ctx); err != nil {
		return nil, nil, err
	}
	l.pendingReload = false
	return l.cache.Dataset.Clone(), l.cache.Configs.Clone(), nil
}

// CheckForUpdates runs one change-detection pass and reports whether an
// upstream change was observed. It never reloads; a detected change is
// remembered and consumed by the next Load.
func (l *Loader) CheckForUpdates(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.checkLocked(ctx)
}

// Info summarizes the available data without mutating the cache. A
// populated cache answers from its snapshot with no network traffic; an
// empty cache is answered by an uncached fetch.
func (l *Loader) Info(ctx context.Context) (*models.DataInfo, error) {
	l.mu.Lock()
	snapshot := l.cache
	monitoring := l.monitoring
	l.mu.Unlock()

	if snapshot != nil {
		// CacheEntry contents are immutable once published, so reading
		// the snapshot outside the lock is safe.
		return buildInfo(snapshot.Dataset, snapshot.Configs, monitoring), nil
	}

	dataset, configs, err := l.fetchBoth(ctx)
	if err != nil {
		return nil, err
	}
	return buildInfo(dataset, configs, monitoring), nil
}

// Fingerprints returns the detector's current baseline
func (l *Loader) Fingerprints() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.detector.Baseline()
}

// OnUpdate registers a callback invoked with the artifact name whenever
// an upstream change is detected
func (l *Loader) OnUpdate(handler func(artifact string)) {
	l.events.On(eventArtifactUpdated, "update_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if name, ok := args[0].(string); ok {
				handler(name)
			}
		}
	})
}

// checkLocked runs the detector and records a pending reload when a
// change is found. Caller must hold l.mu.
func (l *Loader) checkLocked(ctx context.Context) bool {
	changed := l.detector.Check(ctx)
	if len(changed) == 0 {
		return false
	}
	l.pendingReload = true
	for _, name := range changed {
		nuts.L.Infof("[Loader] Upstream update detected: %s", name)
		l.events.Emit(eventArtifactUpdated, name)
	}
	return true
}

// reload fetches and parses both artifacts and swaps the cache entry.
// The swap is all-or-nothing: any failure leaves the cache untouched.
// Caller must hold l.mu.
func (l *Loader) reload(ctx context.Context) error {
	dataset, configs, err := l.fetchBoth(ctx)
	if err != nil {
		return err
	}

	l.cache = &CacheEntry{
		Dataset:  dataset,
		Configs:  configs,
		LoadedAt: time.Now(),
	}
	nuts.L.Infof("[Loader] Loaded %d readings for %d hives", len(dataset), len(configs))
	return nil
}

// fetchBoth retrieves and parses the two artifacts without touching any
// loader state
func (l *Loader) fetchBoth(ctx context.Context) (models.Dataset, models.ConfigList, error) {
	dataRaw, err := l.source.FetchArtifact(ctx, l.opts.DataArtifact)
	if err != nil {
		return nil, nil, err
	}
	configRaw, err := l.source.FetchArtifact(ctx, l.opts.ConfigArtifact)
	if err != nil {
		return nil, nil, err
	}

	var dataset models.Dataset
	if err := json.Unmarshal(dataRaw, &dataset); err != nil {
		return nil, nil, errors.NewParseError(
			fmt.Sprintf("parsing %s", l.opts.DataArtifact), err)
	}
	var configs models.ConfigList
	if err := json.Unmarshal(configRaw, &configs); err != nil {
		return nil, nil, errors.NewParseError(
			fmt.Sprintf("parsing %s", l.opts.ConfigArtifact), err)
	}

	dataset.SortByTimestamp()
	warnOnUnknownHives(dataset, configs)
	return dataset, configs, nil
}

// warnOnUnknownHives logs a data-quality warning for readings whose hive
// has no configuration entry. This is never fatal.
func warnOnUnknownHives(dataset models.Dataset, configs models.ConfigList) {
	known := configs.ByID()
	for _, id := range dataset.HiveIDs() {
		if _, ok := known[id]; !ok {
			nuts.L.Warnf("[Loader] Readings reference hive %s which has no configuration entry", id)
		}
	}
}

func buildInfo(dataset models.Dataset, configs models.ConfigList, monitoring bool) *models.DataInfo {
	info := &models.DataInfo{
		Source:       "github",
		TotalRecords: len(dataset),
		NumHives:     len(configs),
		HiveNames:    configs.Names(),
		AutoUpdate:   monitoring,
	}
	if start, end, ok := dataset.TimeRange(); ok {
		info.DateRange = fmt.Sprintf("%s to %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return info
}
