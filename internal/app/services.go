package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/cache"
	"github.com/wakeupmh/sensory-profile-backend/internal/jobs"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/realtime"
	"github.com/wakeupmh/sensory-profile-backend/internal/services"
)

type Services struct {
	Audit    services.AuditService
	Auth     services.AuthService
	Examiner services.ExaminerService
	Child    services.ChildService

	Assessment services.AssessmentService
	Report     services.ReportService
	Sweep      services.SweepService

	JobNotifier services.JobNotifier
	JobService  services.JobService

	JobRegistry    *jobs.Registry
	JobWorker      *jobs.Worker
	SweepScheduler *jobs.SweepScheduler
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, sseHub *realtime.SSEHub, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	engineOpts := cfg.EngineOpts()

	auditService := services.NewAuditService(db, log, reposet.AuditLog)

	authService := services.NewAuthService(
		db, log,
		reposet.Examiner,
		reposet.UserToken,
		auditService,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	examinerService := services.NewExaminerService(db, log, reposet.Examiner)
	childService := services.NewChildService(db, log, reposet.Child, reposet.Caregiver, auditService)

	scoreCache := cache.NewScoreCache(clients.Redis, log)

	assessmentService := services.NewAssessmentService(
		db, log,
		reposet.Assessment,
		reposet.Response,
		reposet.Child,
		reposet.Caregiver,
		reposet.ReportArtifact,
		auditService,
		scoreCache,
		engineOpts...,
	)

	// With Redis present job events travel through pub/sub so every API
	// instance fans out to its own SSE clients; without it they go
	// straight to the local hub.
	var emitter services.SSEEmitter
	if clients.SSEBus != nil {
		emitter = &services.RedisEmitter{Bus: clients.SSEBus}
	} else {
		emitter = &services.HubEmitter{Hub: sseHub}
	}

	jobNotifier := services.NewJobNotifier(emitter)
	jobService := services.NewJobService(db, log, reposet.JobRun, jobNotifier)

	reportService := services.NewReportService(
		db, log,
		reposet.Assessment,
		reposet.ReportArtifact,
		jobService,
		auditService,
		clients.Bucket,
	)

	sweepService := services.NewSweepService(
		log,
		reposet.Assessment,
		reposet.Response,
		reposet.Child,
		cfg.SweepConcurrency,
		engineOpts...,
	)

	jobRegistry := jobs.NewRegistry()
	reportHandler := jobs.NewReportGenerateHandler(
		db, log,
		reposet.Assessment,
		reposet.Response,
		reposet.Child,
		reposet.ReportArtifact,
		clients.Bucket,
		engineOpts...,
	)
	if err := jobRegistry.Register(reportHandler); err != nil {
		return Services{}, fmt.Errorf("register report handler: %w", err)
	}
	sweepHandler := jobs.NewConsistencySweepHandler(log, reposet.Assessment, sweepService)
	if err := jobRegistry.Register(sweepHandler); err != nil {
		return Services{}, fmt.Errorf("register sweep handler: %w", err)
	}

	jobWorker := jobs.NewWorker(db, log, reposet.JobRun, jobRegistry, jobNotifier)
	sweepScheduler := jobs.NewSweepScheduler(log, jobService)

	return Services{
		Audit:          auditService,
		Auth:           authService,
		Examiner:       examinerService,
		Child:          childService,
		Assessment:     assessmentService,
		Report:         reportService,
		Sweep:          sweepService,
		JobNotifier:    jobNotifier,
		JobService:     jobService,
		JobRegistry:    jobRegistry,
		JobWorker:      jobWorker,
		SweepScheduler: sweepScheduler,
	}, nil
}
