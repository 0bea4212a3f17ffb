package jobs

import (
	"context"
	"sync"
	"time"

	"collabhub/internal/caching"
	"collabhub/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Scheduler runs the periodic maintenance jobs: the reset-token audit sweep
// and a cache health probe. Token rows are never deleted, so the sweep only
// reports outstanding counts.
type Scheduler struct {
	scheduler gocron.Scheduler
	tokenRepo repositories.ResetTokenRepository
	cacheSvc  caching.CacheService
	logger    zerolog.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewScheduler(tokenRepo repositories.ResetTokenRepository, cacheSvc caching.CacheService, logger zerolog.Logger) (*Scheduler, error) {
	inner, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler: inner,
		tokenRepo: tokenRepo,
		cacheSvc:  cacheSvc,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}
	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", len(s.jobs)).Msg("starting background scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("stopping background scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) registerJobs() error {
	auditJob, err := s.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.auditResetTokens),
		gocron.WithName("reset-token-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	s.jobs["reset-token-audit"] = auditJob

	probeJob, err := s.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(s.probeCache),
		gocron.WithName("cache-health-probe"),
	)
	if err != nil {
		return err
	}
	s.jobs["cache-health-probe"] = probeJob

	return nil
}

// auditResetTokens logs how many reset tokens are live. A sustained climb is
// the signal for a credential-recovery abuse investigation.
func (s *Scheduler) auditResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.tokenRepo.CountOutstanding(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("reset-token audit sweep failed")
		return
	}
	s.logger.Info().Int64("outstanding", count).Msg("reset-token audit sweep")
}

func (s *Scheduler) probeCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.cacheSvc.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("cache health probe failed, rate limiting degraded to fail-open")
		return
	}
}

// JobStatus reports registered job names for the health surface.
func (s *Scheduler) JobStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return map[string]interface{}{
		"total_jobs": len(s.jobs),
		"jobs":       names,
	}
}
