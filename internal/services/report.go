package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/domain/audit"
	errs "github.com/wakeupmh/sensory-profile-backend/internal/pkg/errors"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/platform/gcs"
)

// ArtifactView is a report artifact row joined with its public URL.
type ArtifactView struct {
	ID           uuid.UUID `json:"id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	Kind         string    `json:"kind"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	URL          string    `json:"url"`
	CreatedAt    string    `json:"created_at"`
}

// ReportService turns scored assessments into downloadable artifacts.
// Generation is asynchronous: Request enqueues a report job (deduped
// while one is already queued or running) and the worker writes the
// summary JSON and chart PNG to the bucket.
type ReportService interface {
	Request(ctx context.Context, assessmentID uuid.UUID) (*types.JobRun, bool, error)
	List(ctx context.Context, assessmentID uuid.UUID) ([]ArtifactView, error)
}

type reportService struct {
	db             *gorm.DB
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	artifactRepo   repos.ReportArtifactRepo
	jobService     JobService
	auditService   AuditService
	bucket         gcs.BucketService
}

func NewReportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	artifactRepo repos.ReportArtifactRepo,
	jobService JobService,
	auditService AuditService,
	bucket gcs.BucketService,
) ReportService {
	return &reportService{
		db:             db,
		log:            baseLog.With("service", "ReportService"),
		assessmentRepo: assessmentRepo,
		artifactRepo:   artifactRepo,
		jobService:     jobService,
		auditService:   auditService,
		bucket:         bucket,
	}
}

func (rs *reportService) getOwnedAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error) {
	found, err := rs.assessmentRepo.GetByIDs(ctx, tx, []uuid.UUID{assessmentID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assessment: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: assessment %s", errs.ErrNotFound, assessmentID)
	}
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, err
	}
	if found[0].ExaminerID != examinerID {
		return nil, fmt.Errorf("%w: assessment %s", errs.ErrForbidden, assessmentID)
	}
	return found[0], nil
}

// Request enqueues report generation for a scored assessment. The bool
// reports whether a new job was created; false means an existing
// queued or running job was returned instead.
func (rs *reportService) Request(ctx context.Context, assessmentID uuid.UUID) (*types.JobRun, bool, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, false, err
	}

	var (
		job     *types.JobRun
		created bool
	)
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assessment, err := rs.getOwnedAssessment(ctx, tx, assessmentID)
		if err != nil {
			return err
		}
		if assessment.Status == types.AssessmentStatusDraft {
			return fmt.Errorf("%w: assessment has not been scored", errs.ErrUnprocessable)
		}
		entityID := assessment.ID
		job, created, err = rs.jobService.EnqueueIfNotRunnable(ctx, tx, examinerID, types.JobTypeReportGenerate, "assessment", &entityID, map[string]any{
			"assessment_id": assessment.ID.String(),
		})
		if err != nil {
			return err
		}
		if created {
			_ = rs.auditService.Record(ctx, tx, examinerID, audit.ActionReportRequested, "assessment", assessmentID, map[string]any{
				"job_id": job.ID.String(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return job, created, nil
}

func (rs *reportService) List(ctx context.Context, assessmentID uuid.UUID) ([]ArtifactView, error) {
	if _, err := rs.getOwnedAssessment(ctx, nil, assessmentID); err != nil {
		return nil, err
	}
	artifacts, err := rs.artifactRepo.GetByAssessmentIDs(ctx, nil, []uuid.UUID{assessmentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	views := make([]ArtifactView, 0, len(artifacts))
	for _, a := range artifacts {
		if a == nil {
			continue
		}
		views = append(views, ArtifactView{
			ID:           a.ID,
			AssessmentID: a.AssessmentID,
			Kind:         a.Kind,
			ContentType:  a.ContentType,
			SizeBytes:    a.SizeBytes,
			URL:          rs.bucket.GetPublicURL(a.ObjectKey),
			CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return views, nil
}
