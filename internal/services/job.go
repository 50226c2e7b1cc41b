package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/ctxutil"
	errs "github.com/wakeupmh/sensory-profile-backend/internal/pkg/errors"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

// JobService enqueues background work and exposes job rows to their
// owners. Rows sit in the job_run table until the worker claims them;
// enqueueing inside a caller's transaction is safe because the claim
// query only sees committed rows.
type JobService interface {
	Enqueue(ctx context.Context, tx *gorm.DB, ownerExaminerID uuid.UUID, jobType, entityType string, entityID *uuid.UUID, payload map[string]any) (*types.JobRun, error)
	EnqueueIfNotRunnable(ctx context.Context, tx *gorm.DB, ownerExaminerID uuid.UUID, jobType, entityType string, entityID *uuid.UUID, payload map[string]any) (*types.JobRun, bool, error)
	GetByIDForRequestUser(ctx context.Context, jobID uuid.UUID) (*types.JobRun, error)
	GetLatestForEntity(ctx context.Context, entityType string, entityID uuid.UUID, jobType string) (*types.JobRun, error)
}

type jobService struct {
	db     *gorm.DB
	log    *logger.Logger
	repo   repos.JobRunRepo
	notify JobNotifier
}

func NewJobService(db *gorm.DB, baseLog *logger.Logger, repo repos.JobRunRepo, notify JobNotifier) JobService {
	return &jobService{
		db:     db,
		log:    baseLog.With("service", "JobService"),
		repo:   repo,
		notify: notify,
	}
}

func (s *jobService) Enqueue(ctx context.Context, tx *gorm.DB, ownerExaminerID uuid.UUID, jobType, entityType string, entityID *uuid.UUID, payload map[string]any) (*types.JobRun, error) {
	if jobType == "" {
		return nil, fmt.Errorf("%w: missing job type", errs.ErrInvalidArgument)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	// Keep the request's trace identity with the job so worker logs and
	// alerts can be joined back to the originating call.
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			if _, ok := payload["trace_id"]; !ok {
				payload["trace_id"] = td.TraceID
			}
		}
		if td.RequestID != "" {
			if _, ok := payload["request_id"]; !ok {
				payload["request_id"] = td.RequestID
			}
		}
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	job := &types.JobRun{
		ID:              uuid.New(),
		OwnerExaminerID: ownerExaminerID,
		JobType:         jobType,
		EntityType:      entityType,
		EntityID:        entityID,
		Status:          types.JobStatusQueued,
		Stage:           "queued",
		Progress:        0,
		Message:         "Queued",
		Payload:         datatypes.JSON(payloadJSON),
		Result:          datatypes.JSON([]byte(`{}`)),
	}
	if _, err := s.repo.Create(ctx, tx, []*types.JobRun{job}); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	s.notify.JobCreated(ownerExaminerID, job)
	return job, nil
}

// EnqueueIfNotRunnable enqueues unless a queued or running job of the
// same type already exists for the entity. The bool reports whether a
// new job was created.
func (s *jobService) EnqueueIfNotRunnable(ctx context.Context, tx *gorm.DB, ownerExaminerID uuid.UUID, jobType, entityType string, entityID *uuid.UUID, payload map[string]any) (*types.JobRun, bool, error) {
	exists, err := s.repo.ExistsRunnable(ctx, tx, ownerExaminerID, jobType, entityType, entityID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check runnable jobs: %w", err)
	}
	if exists {
		if entityID != nil {
			if existing, err := s.repo.GetLatestByEntity(ctx, tx, ownerExaminerID, entityType, *entityID, jobType); err == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, nil
	}
	job, err := s.Enqueue(ctx, tx, ownerExaminerID, jobType, entityType, entityID, payload)
	if err != nil {
		return nil, false, err
	}
	return job, true, nil
}

func (s *jobService) GetByIDForRequestUser(ctx context.Context, jobID uuid.UUID) (*types.JobRun, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, err
	}
	found, err := s.repo.GetByIDs(ctx, nil, []uuid.UUID{jobID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: job %s", errs.ErrNotFound, jobID)
	}
	if found[0].OwnerExaminerID != examinerID {
		return nil, fmt.Errorf("%w: job %s", errs.ErrForbidden, jobID)
	}
	return found[0], nil
}

func (s *jobService) GetLatestForEntity(ctx context.Context, entityType string, entityID uuid.UUID, jobType string) (*types.JobRun, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, err
	}
	job, err := s.repo.GetLatestByEntity(ctx, nil, examinerID, entityType, entityID, jobType)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest job: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: no %s job for %s %s", errs.ErrNotFound, jobType, entityType, entityID)
	}
	return job, nil
}
