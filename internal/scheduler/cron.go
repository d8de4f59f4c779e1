package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultStatsSchedule is used when no schedule is configured
const DefaultStatsSchedule = "@every 15m"

// GaugeRefresher recomputes the cache statistics gauges
type GaugeRefresher interface {
	RefreshGauges(ctx context.Context) error
}

// Scheduler manages scheduled tasks. It only reads the cache: refreshes
// stay request-driven.
type Scheduler struct {
	cron     *cron.Cron
	stats    GaugeRefresher
	schedule string
	logger   zerolog.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(stats GaugeRefresher, schedule string, logger zerolog.Logger) *Scheduler {
	if schedule == "" {
		schedule = DefaultStatsSchedule
	}
	return &Scheduler{
		cron:     cron.New(),
		stats:    stats,
		schedule: schedule,
		logger:   logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info().Str("schedule", s.schedule).Msg("Starting scheduler")

	_, err := s.cron.AddFunc(s.schedule, s.runStats)
	if err != nil {
		return fmt.Errorf("failed to add stats job: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Msg("Scheduler started")

	// Publish the gauges right away instead of waiting for the first tick
	go s.runStats()

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.logger.Info().Msg("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// runStats executes the cache statistics job
func (s *Scheduler) runStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.stats.RefreshGauges(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Cache statistics job failed")
		return
	}
	s.logger.Debug().Msg("Cache statistics job completed")
}
