// Package scheduler keeps the substance cache warm. Without it the first
// query after an idle period pays the full directory rescan; with it the
// snapshot is refreshed in the background on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/interfaces"
)

// Service runs the periodic cache warm job.
type Service struct {
	substances interfaces.SubstanceService
	cron       *cron.Cron
	logger     arbor.ILogger

	mu        sync.Mutex
	running   bool
	isWarming bool
	lastRun   *time.Time
	lastError string
}

// NewService creates a new scheduler service
func NewService(substances interfaces.SubstanceService, logger arbor.ILogger) *Service {
	return &Service{
		substances: substances,
		cron:       cron.New(),
		logger:     logger,
	}
}

// Start begins the scheduler with the given cron expression
func (s *Service) Start(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if cronExpr == "" {
		cronExpr = "*/1 * * * *" // Default: every 1 minute
	}

	if _, err := s.cron.AddFunc(cronExpr, s.warm); err != nil {
		return fmt.Errorf("failed to add cache warm job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Msg("Cache warm scheduler started")

	return nil
}

// Stop halts the scheduler and waits for a running warm to finish
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info().Msg("Cache warm scheduler stopped")
}

// warm refreshes the substance snapshot, skipping the run if the previous
// one is still in flight.
func (s *Service) warm() {
	s.mu.Lock()
	if s.isWarming {
		s.mu.Unlock()
		s.logger.Debug().Msg("Cache warm already in progress, skipping")
		return
	}
	s.isWarming = true
	s.mu.Unlock()

	start := time.Now()
	err := s.substances.Warm(context.Background())

	s.mu.Lock()
	s.isWarming = false
	s.lastRun = &start
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("Cache warm failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("Cache warmed")
}

// LastRun reports the last warm attempt and its error, if any.
func (s *Service) LastRun() (*time.Time, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastError
}
