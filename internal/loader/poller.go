// FilePath: internal/loader/poller.go
package loader

import (
	"context"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// StartMonitoring launches the background check loop. It is idempotent;
// only one loop is ever active at a time.
func (l *Loader) StartMonitoring() {
	l.mu.Lock()
	if l.monitoring {
		l.mu.Unlock()
		return
	}
	l.monitoring = true
	l.stopCh = make(chan struct{})
	stop := l.stopCh
	l.mu.Unlock()

	l.wg.Add(1)
	go l.monitorLoop(stop)
	nuts.L.Infof("[Poller] Started upstream monitoring (checking every %s)", l.opts.PollInterval)
}

// StopMonitoring flips the running flag, signals the loop, and waits for
// it to drain. It is idempotent; stopping an already stopped loader is a
// no-op.
func (l *Loader) StopMonitoring() {
	l.mu.Lock()
	if !l.monitoring {
		l.mu.Unlock()
		return
	}
	l.monitoring = false
	close(l.stopCh)
	l.mu.Unlock()

	l.wg.Wait()
	nuts.L.Infof("[Poller] Stopped upstream monitoring")
}

// IsMonitoring reports whether the background loop is active
func (l *Loader) IsMonitoring() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.monitoring
}

func (l *Loader) monitorLoop(stop <-chan struct{}) {
	defer l.wg.Done()

	ticker := time.NewTicker(l.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.pollOnce()
		}
	}
}

// pollOnce runs one detection pass. Any failure is logged inside the
// detector and suppressed here; a transient network error must not
// terminate the monitoring loop.
func (l *Loader) pollOnce() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.checkLocked(context.Background()) {
		nuts.L.Infof("[Poller] Upstream data update detected")
	}
}
