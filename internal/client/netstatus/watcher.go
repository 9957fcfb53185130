package netstatus

import (
	"context"
	"time"

	"github.com/dmitrijs2005/relief/internal/logging"
)

// Prober checks reachability. A nil error means online.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }

// Watcher is a Signal driven by periodic probes.
type Watcher struct {
	*hub
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger
}

const defaultProbeTimeout = 3 * time.Second

func NewWatcher(prober Prober, interval time.Duration, initial bool, logger logging.Logger) *Watcher {
	timeout := defaultProbeTimeout
	if interval > 0 && interval < timeout {
		timeout = interval
	}
	return &Watcher{
		hub:      newHub(initial),
		prober:   prober,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Check runs a single probe, publishes the result and returns it.
func (w *Watcher) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, w.timeout)
	err := w.prober.Probe(pctx)
	cancel()

	online := err == nil
	if w.set(online) {
		if online {
			w.logger.Info(ctx, "connectivity restored")
		} else {
			w.logger.Warn(ctx, "connectivity lost", "error", err)
		}
	}
	return online
}

// Run probes immediately and then on every tick until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	w.Check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
