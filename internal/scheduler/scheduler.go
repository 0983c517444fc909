package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/calldeskhq/reportetl/internal/cache"
	"github.com/calldeskhq/reportetl/internal/runner"
)

// Scheduler periodically sweeps the payload stage and processes every
// date that has reports waiting.
type Scheduler struct {
	stage    *cache.PayloadStage
	runner   *runner.Runner
	interval time.Duration
	logger   zerolog.Logger
}

// NewScheduler creates a new Scheduler
func NewScheduler(stage *cache.PayloadStage, run *runner.Runner, interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		stage:    stage,
		runner:   run,
		interval: interval,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins the sweep loop and blocks until the context is cancelled
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return

		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep processes every staged date. A failed date does not stop the
// sweep; the remaining dates still get processed.
func (s *Scheduler) sweep() {
	dates := s.stage.Dates()
	if len(dates) == 0 {
		return
	}

	s.logger.Debug().Int("dates", len(dates)).Msg("sweeping staged reports")

	for _, date := range dates {
		_, err := s.runner.ProcessDate(date)
		if err != nil {
			if errors.Is(err, runner.ErrNoStagedData) {
				// Drained by an on-demand run between Dates() and here
				continue
			}
			s.logger.Error().Err(err).Str("date", date).Msg("scheduled processing failed")
		}
	}
}
