// Package scheduler triggers pipeline runs on a fixed interval. It holds
// explicit enabled state so the HTTP API can start and stop it at runtime.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/skimmerhq/skimmer/internal/logging"
	"github.com/skimmerhq/skimmer/internal/models"
	"github.com/skimmerhq/skimmer/internal/pipeline"
)

// RunFunc starts one pipeline run.
type RunFunc func(ctx context.Context) (*models.RunSummary, error)

// Status is the externally visible scheduler state.
type Status struct {
	Enabled   bool          `json:"enabled"`
	Interval  time.Duration `json:"interval"`
	LastRunID string        `json:"last_run_id,omitempty"`
	LastRunAt *time.Time    `json:"last_run_at,omitempty"`
}

// Scheduler runs the pipeline every interval while enabled. A run already
// in progress is skipped, not queued.
type Scheduler struct {
	run    RunFunc
	logger *logging.Logger

	mu        sync.Mutex
	interval  time.Duration
	enabled   bool
	cancel    context.CancelFunc
	lastRunID string
	lastRunAt *time.Time
}

func New(run RunFunc, interval time.Duration, logger *logging.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		run:      run,
		interval: interval,
		logger:   logger,
	}
}

// Start enables the scheduler. Starting an already running scheduler is a
// no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return
	}
	s.enabled = true
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx, s.interval)
	s.logger.Info("Scheduler started", logging.WithField("interval", s.interval.String()))
}

// Stop disables the scheduler and cancels an in-flight scheduled run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.enabled = false
	s.cancel()
	s.cancel = nil
	s.logger.Info("Scheduler stopped")
}

// SetInterval changes the tick interval. If the scheduler is running it is
// restarted so the new interval takes effect immediately.
func (s *Scheduler) SetInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.mu.Lock()
	wasEnabled := s.enabled
	s.interval = interval
	if wasEnabled {
		s.enabled = false
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	if wasEnabled {
		s.Start()
	}
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Enabled:   s.enabled,
		Interval:  s.interval,
		LastRunID: s.lastRunID,
		LastRunAt: s.lastRunAt,
	}
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

// trigger runs under the scheduler's lifecycle context, so Stop cancels a
// run that is still going.
func (s *Scheduler) trigger(ctx context.Context) {
	run, err := s.run(ctx)
	if errors.Is(err, pipeline.ErrRunInProgress) {
		s.logger.Info("Skipping scheduled run, previous run still in progress")
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		s.logger.Error("Scheduled run failed", logging.WithField("error", err.Error()))
	}
	if run != nil {
		now := time.Now().UTC()
		s.mu.Lock()
		s.lastRunID = run.ID
		s.lastRunAt = &now
		s.mu.Unlock()
	}
}
