// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// jobTimeout bounds a single run of any job.
const jobTimeout = 5 * time.Minute

// Job is one unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewScheduler creates a scheduler in UTC with seconds precision.
func NewScheduler(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		logger: logger,
	}
}

// Register schedules job on spec. Overlapping runs of the same job are skipped.
func (s *Scheduler) Register(spec string, job Job) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error().Err(err).Str("job", job.Name()).Msg("Scheduled job failed")
			return
		}
		s.logger.Debug().Str("job", job.Name()).Dur("took", time.Since(start)).Msg("Scheduled job finished")
	}))

	if _, err := s.cron.AddJob(spec, wrapped); err != nil {
		return err
	}
	s.logger.Info().Str("job", job.Name()).Str("spec", spec).Msg("Job registered")
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("Cron scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Cron scheduler stopped")
}
