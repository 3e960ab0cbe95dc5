package nova

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Reaper periodically removes store entries older than the retention window.
// It runs independently of capacity eviction: even a store far below its
// entry cap sheds results once they age out, since clients stop polling
// shortly after a task reaches a terminal state.
//
// The reaper is owned by the process lifecycle: Start launches the ticker
// goroutine and Stop cancels it and waits for it to exit.
type Reaper struct {
	store     ResultStore
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReaper creates a Reaper that sweeps store every interval, removing
// entries older than retention.
func NewReaper(store ResultStore, interval, retention time.Duration, logger *slog.Logger) *Reaper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reaper{
		store:     store,
		interval:  interval,
		retention: retention,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the background sweep loop.
func (r *Reaper) Start() {
	r.wg.Add(1)
	go r.run()
}

// Stop cancels the sweep loop and blocks until it has exited.
func (r *Reaper) Stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *Reaper) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("analysis reaper stopped")
			return
		case <-ticker.C:
			removed := r.store.Sweep(time.Now().Add(-r.retention))
			if removed > 0 {
				r.logger.Info("reaped stale analysis results",
					"removed", removed,
					"remaining", r.store.Len())
			}
		}
	}
}
