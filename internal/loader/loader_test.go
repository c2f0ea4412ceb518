package loader

import (
	"context"
	"testing"
	"time"

	"github.com/apiaryworks/hivedash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dataArtifact   = "beehive_data.json"
	configArtifact = "hives_config.json"
)

var (
	sampleData = []byte(`[
		{"hive_id":"hive-1","timestamp":"2026-08-01T10:00:00Z","temperature":34.5,"humidity":62.0,"weight":45.2,"activity_level":70,"hourly_production":0.02,"cumulative_production":12.4,"production_efficiency":0.015},
		{"hive_id":"hive-2","timestamp":"2026-08-01T11:00:00Z","temperature":33.1,"humidity":58.5,"weight":51.8,"activity_level":82,"hourly_production":0.03,"cumulative_production":15.1,"production_efficiency":0.021}
	]`)
	sampleConfig = []byte(`[
		{"id":"hive-1","name":"North Field","type":"langstroth"},
		{"id":"hive-2","name":"South Field","type":"warre"}
	]`)
	updatedData = []byte(`[
		{"hive_id":"hive-1","timestamp":"2026-08-01T12:00:00Z","temperature":36.0,"humidity":64.0,"weight":45.5,"activity_level":75,"hourly_production":0.025,"cumulative_production":12.5,"production_efficiency":0.016}
	]`)
)

func newTestLoader(source *fakeSource) *Loader {
	return New(source, Options{
		DataArtifact:   dataArtifact,
		ConfigArtifact: configArtifact,
		PollInterval:   5 * time.Millisecond,
	})
}

func populatedSource() *fakeSource {
	source := newFakeSource()
	source.setArtifact(dataArtifact, sampleData)
	source.setArtifact(configArtifact, sampleConfig)
	source.setFingerprint(dataArtifact, "a1")
	source.setFingerprint(configArtifact, "b1")
	return source
}

func TestLoader_FirstLoadFailureIsFatal(t *testing.T) {
	source := newFakeSource()
	source.setArtifactErr(errors.NewTransientError("upstream down", nil))

	l := newTestLoader(source)
	_, _, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))

	// The cache must remain empty: a second attempt fails the same way
	// instead of serving half-loaded state.
	_, _, err = l.Load(context.Background())
	require.Error(t, err)
}

func TestLoader_ServesCacheWhenUnchanged(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	first, configs, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Len(t, configs, 2)
	callsAfterFirst := source.artifactCallCount()

	// Second and third loads check fingerprints only; no content fetch.
	second, _, err := l.Load(context.Background())
	require.NoError(t, err)
	third, _, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, source.artifactCallCount())
	assert.Equal(t, first, second)
	assert.Equal(t, second, third)
}

func TestLoader_ReturnedCopiesAreIndependent(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	first, firstConfigs, err := l.Load(context.Background())
	require.NoError(t, err)

	// Caller-side mutation must not corrupt the shared cache.
	first[0].Temperature = -273.15
	firstConfigs[0].Name = "mutated"

	second, secondConfigs, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 34.5, second[0].Temperature)
	assert.Equal(t, "North Field", secondConfigs[0].Name)
}

func TestLoader_ReloadsOnFingerprintChange(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	_, _, err := l.Load(context.Background())
	require.NoError(t, err)

	// Establish the fingerprint baseline.
	_, _, err = l.Load(context.Background())
	require.NoError(t, err)

	source.setFingerprint(dataArtifact, "a2")
	source.setArtifact(dataArtifact, updatedData)

	dataset, _, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, dataset, 1)
	assert.Equal(t, 36.0, dataset[0].Temperature)
}

func TestLoader_ServesStaleOnFailedReload(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	cached, _, err := l.Load(context.Background())
	require.NoError(t, err)
	_, _, err = l.Load(context.Background())
	require.NoError(t, err)

	// Upstream changed but the content fetch now fails: the previous
	// snapshot is served unchanged and no error reaches the caller.
	source.setFingerprint(dataArtifact, "a2")
	source.setArtifactErr(errors.NewTransientError("upstream down", nil))

	stale, _, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, stale)

	// Once the upstream recovers, the pending change is applied.
	source.setArtifactErr(nil)
	source.setArtifact(dataArtifact, updatedData)

	fresh, _, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, 36.0, fresh[0].Temperature)
}

func TestLoader_ReloadIsAllOrNothing(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	cachedData, cachedConfigs, err := l.Load(context.Background())
	require.NoError(t, err)
	_, _, err = l.Load(context.Background())
	require.NoError(t, err)

	// Only the config artifact disappears; the data artifact would
	// still fetch. The reload must leave both halves untouched.
	source.setFingerprint(configArtifact, "b2")
	source.mu.Lock()
	delete(source.artifacts, configArtifact)
	source.mu.Unlock()

	dataset, configs, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cachedData, dataset)
	assert.Equal(t, cachedConfigs, configs)
}

func TestLoader_RefreshAlwaysFetches(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	_, _, err := l.Load(context.Background())
	require.NoError(t, err)
	callsBefore := source.artifactCallCount()

	// No fingerprint changed; Refresh must fetch anyway.
	dataset, configs, err := l.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, dataset, 2)
	assert.Len(t, configs, 2)
	assert.Equal(t, callsBefore+2, source.artifactCallCount())
}

func TestLoader_RefreshFailureSurfaces(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	_, _, err := l.Load(context.Background())
	require.NoError(t, err)

	source.setArtifactErr(errors.NewTransientError("upstream down", nil))
	_, _, err = l.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
}

func TestLoader_CheckForUpdatesDoesNotReload(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	_, _, err := l.Load(context.Background())
	require.NoError(t, err)
	_, _, err = l.Load(context.Background())
	require.NoError(t, err)
	callsBefore := source.artifactCallCount()

	source.setFingerprint(dataArtifact, "a2")
	source.setArtifact(dataArtifact, updatedData)

	assert.True(t, l.CheckForUpdates(context.Background()))
	assert.Equal(t, callsBefore, source.artifactCallCount(), "check must not fetch content")

	// The detected change is consumed by the next Load even though the
	// fingerprint baseline has already advanced.
	dataset, _, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, dataset, 1)
	assert.Equal(t, 36.0, dataset[0].Temperature)
}

func TestLoader_InfoFromPopulatedCache(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	_, _, err := l.Load(context.Background())
	require.NoError(t, err)
	callsBefore := source.artifactCallCount()

	info, err := l.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "github", info.Source)
	assert.Equal(t, 2, info.TotalRecords)
	assert.Equal(t, 2, info.NumHives)
	assert.Equal(t, []string{"North Field", "South Field"}, info.HiveNames)
	assert.Contains(t, info.DateRange, "2026-08-01T10:00:00Z")
	assert.False(t, info.AutoUpdate)
	assert.Equal(t, callsBefore, source.artifactCallCount(), "info must not fetch when cache is populated")
}

func TestLoader_InfoOnEmptyCacheDoesNotPopulateIt(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	info, err := l.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, info.TotalRecords)

	// The info fetch must not have warmed the cache: the next Load is
	// still a first load with its own content fetch.
	callsBefore := source.artifactCallCount()
	_, _, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, callsBefore+2, source.artifactCallCount())
}

func TestLoader_MonitoringLifecycle(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	assert.False(t, l.IsMonitoring())

	l.StartMonitoring()
	assert.True(t, l.IsMonitoring())
	// Idempotent: a second start must not spawn a second loop.
	l.StartMonitoring()
	assert.True(t, l.IsMonitoring())

	l.StopMonitoring()
	assert.False(t, l.IsMonitoring())
	// Idempotent stop.
	l.StopMonitoring()
	assert.False(t, l.IsMonitoring())
}

func TestLoader_PollerAdvancesBaseline(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	l.StartMonitoring()
	defer l.StopMonitoring()

	assert.Eventually(t, func() bool {
		return l.Fingerprints()[dataArtifact] == "a1"
	}, time.Second, 5*time.Millisecond, "poller should record the fingerprint baseline")
}

func TestLoader_PollerSurvivesFailures(t *testing.T) {
	source := populatedSource()
	source.setFingerprintErr(errors.NewTransientError("upstream down", nil))

	l := newTestLoader(source)
	l.StartMonitoring()
	defer l.StopMonitoring()

	// Iterations fail but the loop keeps running; once the upstream
	// recovers the baseline is recorded.
	time.Sleep(25 * time.Millisecond)
	source.setFingerprintErr(nil)

	assert.Eventually(t, func() bool {
		return l.Fingerprints()[dataArtifact] == "a1"
	}, time.Second, 5*time.Millisecond)
	assert.True(t, l.IsMonitoring())
}

func TestLoader_OnUpdateNotifies(t *testing.T) {
	source := populatedSource()
	l := newTestLoader(source)

	_, _, err := l.Load(context.Background())
	require.NoError(t, err)
	_, _, err = l.Load(context.Background())
	require.NoError(t, err)

	notified := make(chan string, 2)
	l.OnUpdate(func(artifact string) {
		notified <- artifact
	})

	source.setFingerprint(dataArtifact, "a2")
	require.True(t, l.CheckForUpdates(context.Background()))

	select {
	case artifact := <-notified:
		assert.Equal(t, dataArtifact, artifact)
	case <-time.After(time.Second):
		t.Fatal("expected update notification")
	}
}
