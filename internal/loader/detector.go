// FilePath: internal/loader/detector.go
package loader

import (
	"context"

	nuts "github.com/vaudience/go-nuts"
)

// FingerprintSource retrieves content fingerprints for named artifacts
type FingerprintSource interface {
	FetchFingerprint(ctx context.Context, name string) (string, error)
}

// ChangeDetector compares artifact fingerprints against the last
// observed baseline. A change is reported only when a freshly observed
// fingerprint differs from a previously recorded non-empty one; an empty
// observation (artifact absent, lookup failed, or first check ever)
// carries no new information and never signals a change on its own.
// ChangeDetector is not safe for concurrent use; the Loader serializes
// access under its own mutex.
type ChangeDetector struct {
	source    FingerprintSource
	artifacts []string
	baseline  map[string]string
}

// NewChangeDetector creates a detector for the given artifact names
func NewChangeDetector(source FingerprintSource, artifacts ...string) *ChangeDetector {
	return &ChangeDetector{
		source:    source,
		artifacts: artifacts,
		baseline:  make(map[string]string, len(artifacts)),
	}
}

// Check fetches the current fingerprint of every tracked artifact and
// returns the names of those that changed since the last check. The
// baseline is advanced to the freshly observed fingerprints regardless
// of the outcome, so drift cannot accumulate across repeated calls.
// Lookup failures are logged and treated as empty observations.
func (d *ChangeDetector) Check(ctx context.Context) []string {
	var changed []string
	for _, name := range d.artifacts {
		observed, err := d.source.FetchFingerprint(ctx, name)
		if err != nil {
			nuts.L.Warnf("[ChangeDetector] Fingerprint lookup for %s failed: %v", name, err)
			observed = ""
		}
		last := d.baseline[name]
		if observed != "" && last != "" && observed != last {
			changed = append(changed, name)
		}
		d.baseline[name] = observed
	}
	return changed
}

// Baseline returns a copy of the last observed fingerprints
func (d *ChangeDetector) Baseline() map[string]string {
	snapshot := make(map[string]string, len(d.baseline))
	for name, fp := range d.baseline {
		snapshot[name] = fp
	}
	return snapshot
}
