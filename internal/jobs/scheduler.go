package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/services"
)

// SweepScheduler enqueues a consistency_sweep on a fixed interval.
// Scheduled sweeps carry the zero owner UUID, so they are visible to
// operators via the job table but never stream to an examiner channel.
type SweepScheduler struct {
	log  *logger.Logger
	jobs services.JobService
}

func NewSweepScheduler(baseLog *logger.Logger, jobService services.JobService) *SweepScheduler {
	return &SweepScheduler{
		log:  baseLog.With("component", "SweepScheduler"),
		jobs: jobService,
	}
}

// Start launches the schedule loop. SWEEP_INTERVAL_HOURS controls the
// cadence; zero or negative disables scheduling entirely (deployments
// can still trigger sweeps through the CLI).
func (s *SweepScheduler) Start(ctx context.Context) {
	hours := getEnvInt("SWEEP_INTERVAL_HOURS", 24)
	if hours <= 0 {
		s.log.Info("Sweep scheduling disabled")
		return
	}
	interval := time.Duration(hours) * time.Hour
	s.log.Info("Starting sweep scheduler", "interval_hours", hours)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.enqueue(ctx)
			}
		}
	}()
}

func (s *SweepScheduler) enqueue(ctx context.Context) {
	job, created, err := s.jobs.EnqueueIfNotRunnable(ctx, nil, uuid.Nil, types.JobTypeConsistencySweep, "", nil, nil)
	if err != nil {
		s.log.Warn("Failed to enqueue scheduled sweep", "error", err)
		return
	}
	if !created {
		s.log.Info("Sweep already queued or running, skipping")
		return
	}
	s.log.Info("Scheduled sweep enqueued", "job_id", job.ID)
}
