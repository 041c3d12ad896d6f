/*
scheduler.go - Automated period close scheduler

PURPOSE:
  Periodically runs the batch close so assets are charged when their
  purchase anniversary passes, without anyone pressing the button.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Closes at most once per calendar day: a day that already has a
    close run is skipped
  - The close itself is idempotent (a year is charged once), so a
    missed or repeated tick never double-charges

CONFIGURATION:
  - CheckInterval: How often to check (CLOSE_INTERVAL, default 1h)
  - Enabled: Whether scheduler is active (CLOSE_INTERVAL=0 disables)

USAGE:
  scheduler := NewCloseScheduler(svc.Engine)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ClosePeriod endpoint (manual close)
  - depreciation/close.go: Engine.ClosePeriod
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/warp/asset-depreciation/depreciation"
)

// CloseScheduler handles automated period closes.
type CloseScheduler struct {
	Engine        *depreciation.Engine
	CheckInterval time.Duration
	Enabled       bool
	Clock         func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCloseScheduler creates a new scheduler.
func NewCloseScheduler(engine *depreciation.Engine) *CloseScheduler {
	return &CloseScheduler{
		Engine:        engine,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
	}
}

// Start begins the scheduler.
func (cs *CloseScheduler) Start() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.Enabled || cs.CheckInterval <= 0 {
		log.Info().Msg("close scheduler disabled")
		return
	}
	if cs.ticker != nil {
		return
	}

	cs.ticker = time.NewTicker(cs.CheckInterval)
	cs.stop = make(chan struct{})
	cs.wg.Add(1)

	go cs.run()

	log.Info().Dur("interval", cs.CheckInterval).Msg("close scheduler started")
}

// Stop stops the scheduler and waits for an in-flight close.
func (cs *CloseScheduler) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.ticker == nil {
		return
	}
	cs.ticker.Stop()
	close(cs.stop)
	cs.wg.Wait()
	cs.ticker = nil
	log.Info().Msg("close scheduler stopped")
}

func (cs *CloseScheduler) run() {
	defer cs.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-cs.stop
		cancel()
	}()

	// Run immediately on start
	cs.RunNow(ctx)

	for {
		select {
		case <-cs.ticker.C:
			cs.RunNow(ctx)
		case <-cs.stop:
			return
		}
	}
}

// RunNow closes today unless a run for today already exists. It reports
// the run it created, or nil when it skipped.
func (cs *CloseScheduler) RunNow(ctx context.Context) *depreciation.CloseRun {
	today := depreciation.Today()
	if cs.Clock != nil {
		today = depreciation.DateOf(cs.Clock())
	}

	runs, err := cs.Engine.ListCloseRuns(ctx)
	if err != nil {
		log.Error().Err(err).Msg("close scheduler: list runs")
		return nil
	}
	for _, r := range runs {
		if r.Date.Equal(today) {
			return nil
		}
	}

	run, err := cs.Engine.ClosePeriod(ctx, today)
	if err != nil {
		log.Error().Err(err).Str("fecha", today.String()).Msg("close scheduler: close failed")
		return nil
	}
	log.Info().
		Str("fecha", today.String()).
		Int("processed", run.Processed).
		Int("skipped", run.Skipped).
		Int("failed", run.Failed).
		Msg("close scheduler: period closed")
	return run
}
