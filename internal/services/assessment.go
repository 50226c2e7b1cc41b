package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/cache"
	"github.com/wakeupmh/sensory-profile-backend/internal/data/db"
	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/domain/audit"
	"github.com/wakeupmh/sensory-profile-backend/internal/observability"
	errs "github.com/wakeupmh/sensory-profile-backend/internal/pkg/errors"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

// ResponseInput is one submitted questionnaire answer.
type ResponseInput struct {
	ItemID   int    `json:"item_id"`
	Response string `json:"response"`
}

// AssessmentService drives the assessment lifecycle: draft rows collect
// responses, Score persists engine results and moves the row to
// completed, Validate runs the full consistency validation and promotes
// consistent rows to validated. Results are cached per assessment and
// invalidated whenever the response set changes.
type AssessmentService interface {
	Create(ctx context.Context, childID uuid.UUID, caregiverID *uuid.UUID, assessmentDate time.Time, responses []ResponseInput) (*types.Assessment, error)
	Get(ctx context.Context, assessmentID uuid.UUID) (*types.Assessment, []*types.AssessmentResponse, error)
	ListByChild(ctx context.Context, childID uuid.UUID) ([]*types.Assessment, error)
	ReplaceResponses(ctx context.Context, assessmentID uuid.UUID, responses []ResponseInput) (*types.Assessment, error)
	Score(ctx context.Context, assessmentID uuid.UUID) (*types.Assessment, scoring.Results, error)
	Validate(ctx context.Context, assessmentID uuid.UUID) (*types.Assessment, scoring.CheckResult, error)
	Results(ctx context.Context, assessmentID uuid.UUID) (scoring.Results, []string, error)
	Delete(ctx context.Context, assessmentID uuid.UUID) error
}

type assessmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	responseRepo   repos.ResponseRepo
	childRepo      repos.ChildRepo
	caregiverRepo  repos.CaregiverRepo
	artifactRepo   repos.ReportArtifactRepo
	auditService   AuditService
	scoreCache     cache.ScoreCache
	engineOpts     []scoring.Option
}

func NewAssessmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	responseRepo repos.ResponseRepo,
	childRepo repos.ChildRepo,
	caregiverRepo repos.CaregiverRepo,
	artifactRepo repos.ReportArtifactRepo,
	auditService AuditService,
	scoreCache cache.ScoreCache,
	engineOpts ...scoring.Option,
) AssessmentService {
	return &assessmentService{
		db:             db,
		log:            baseLog.With("service", "AssessmentService"),
		assessmentRepo: assessmentRepo,
		responseRepo:   responseRepo,
		childRepo:      childRepo,
		caregiverRepo:  caregiverRepo,
		artifactRepo:   artifactRepo,
		auditService:   auditService,
		scoreCache:     scoreCache,
		engineOpts:     engineOpts,
	}
}

// validateResponseSet rejects malformed submissions before anything is
// written: unknown item ids, duplicate items, and labels outside the
// response vocabulary all fail fast with the offending values named.
func validateResponseSet(responses []ResponseInput) error {
	seen := make(map[int]bool, len(responses))
	for _, r := range responses {
		if !scoring.ValidItemID(r.ItemID) {
			return fmt.Errorf("%w: invalid item id %d", errs.ErrInvalidArgument, r.ItemID)
		}
		if seen[r.ItemID] {
			return fmt.Errorf("%w: duplicate response for item %d", errs.ErrConflict, r.ItemID)
		}
		seen[r.ItemID] = true
		if _, err := scoring.MapResponseValue(r.Response); err != nil {
			return fmt.Errorf("%w: item %d: %v", errs.ErrInvalidArgument, r.ItemID, err)
		}
	}
	return nil
}

func buildResponseRows(assessmentID uuid.UUID, responses []ResponseInput) []*types.AssessmentResponse {
	rows := make([]*types.AssessmentResponse, 0, len(responses))
	for _, r := range responses {
		rows = append(rows, &types.AssessmentResponse{
			ID:           uuid.New(),
			AssessmentID: assessmentID,
			ItemID:       r.ItemID,
			Response:     r.Response,
		})
	}
	return rows
}

func toItemResponses(rows []*types.AssessmentResponse) []scoring.ItemResponse {
	out := make([]scoring.ItemResponse, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, scoring.ItemResponse{ItemID: row.ItemID, Label: row.Response})
	}
	return out
}

// getOwnedAssessment loads the assessment and enforces ownership.
func (s *assessmentService) getOwnedAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error) {
	found, err := s.assessmentRepo.GetByIDs(ctx, tx, []uuid.UUID{assessmentID})
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

func (s *assessmentService) Create(ctx context.Context, childID uuid.UUID, caregiverID *uuid.UUID, assessmentDate time.Time, responses []ResponseInput) (*types.Assessment, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, err
	}
	if assessmentDate.IsZero() {
		assessmentDate = time.Now()
	}
	if assessmentDate.After(time.Now().Add(24 * time.Hour)) {
		return nil, fmt.Errorf("%w: assessment date is in the future", errs.ErrInvalidArgument)
	}
	if err := validateResponseSet(responses); err != nil {
		return nil, err
	}

	var created *types.Assessment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children, err := s.childRepo.GetByIDs(ctx, tx, []uuid.UUID{childID})
		if err != nil {
			return fmt.Errorf("failed to fetch child: %w", err)
		}
		if len(children) == 0 || children[0] == nil {
			return fmt.Errorf("%w: child %s", errs.ErrNotFound, childID)
		}
		if children[0].ExaminerID != examinerID {
			return fmt.Errorf("%w: child %s", errs.ErrForbidden, childID)
		}
		if caregiverID != nil {
			caregivers, err := s.caregiverRepo.GetByIDs(ctx, tx, []uuid.UUID{*caregiverID})
			if err != nil {
				return fmt.Errorf("failed to fetch caregiver: %w", err)
			}
			if len(caregivers) == 0 || caregivers[0].ChildID != childID {
				return fmt.Errorf("%w: caregiver %s does not belong to child %s", errs.ErrInvalidArgument, *caregiverID, childID)
			}
		}

		assessment := &types.Assessment{
			ID:             uuid.New(),
			ChildID:        childID,
			ExaminerID:     examinerID,
			CaregiverID:    caregiverID,
			AssessmentDate: assessmentDate,
			Status:         types.AssessmentStatusDraft,
		}
		if _, err := s.assessmentRepo.Create(ctx, tx, []*types.Assessment{assessment}); err != nil {
			return fmt.Errorf("failed to create assessment: %w", err)
		}
		if len(responses) > 0 {
			if _, err := s.responseRepo.Create(ctx, tx, buildResponseRows(assessment.ID, responses)); err != nil {
				if db.IsUniqueViolation(err) {
					return fmt.Errorf("%w: duplicate item responses", errs.ErrConflict)
				}
				return fmt.Errorf("failed to create responses: %w", err)
			}
		}
		_ = s.auditService.Record(ctx, tx, examinerID, audit.ActionAssessmentCreated, "assessment", assessment.ID, map[string]any{
			"child_id":  childID,
			"responses": len(responses),
		})
		created = assessment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *assessmentService) Get(ctx context.Context, assessmentID uuid.UUID) (*types.Assessment, []*types.AssessmentResponse, error) {
	assessment, err := s.getOwnedAssessment(ctx, nil, assessmentID)
	if err != nil {
		return nil, nil, err
	}
	responses, err := s.responseRepo.GetByAssessmentIDs(ctx, nil, []uuid.UUID{assessmentID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch responses: %w", err)
	}
	return assessment, responses, nil
}

func (s *assessmentService) ListByChild(ctx context.Context, childID uuid.UUID) ([]*types.Assessment, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, err
	}
	children, err := s.childRepo.GetByIDs(ctx, nil, []uuid.UUID{childID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch child: %w", err)
	}
	if len(children) == 0 || children[0] == nil {
		return nil, fmt.Errorf("%w: child %s", errs.ErrNotFound, childID)
	}
	if children[0].ExaminerID != examinerID {
		return nil, fmt.Errorf("%w: child %s", errs.ErrForbidden, childID)
	}
	assessments, err := s.assessmentRepo.ListByChild(ctx, nil, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}

// ReplaceResponses swaps the whole response set in one transaction.
// Any persisted scores are stale afterwards, so the row drops back to
// draft with zeroed score columns and the cache entry is invalidated.
func (s *assessmentService) ReplaceResponses(ctx context.Context, assessmentID uuid.UUID, responses []ResponseInput) (*types.Assessment, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateResponseSet(responses); err != nil {
		return nil, err
	}

	var updated *types.Assessment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.getOwnedAssessment(ctx, tx, assessmentID); err != nil {
			return err
		}
		if err := s.responseRepo.DeleteByAssessmentIDs(ctx, tx, []uuid.UUID{assessmentID}); err != nil {
			return fmt.Errorf("failed to delete previous responses: %w", err)
		}
		if len(responses) > 0 {
			if _, err := s.responseRepo.Create(ctx, tx, buildResponseRows(assessmentID, responses)); err != nil {
				if db.IsUniqueViolation(err) {
					return fmt.Errorf("%w: duplicate item responses", errs.ErrConflict)
				}
				return fmt.Errorf("failed to create responses: %w", err)
			}
		}
		updates := (&types.Assessment{}).ScoreColumns()
		updates["status"] = types.AssessmentStatusDraft
		updates["scored_at"] = nil
		updates["validated_at"] = nil
		if err := s.assessmentRepo.UpdateFields(ctx, tx, assessmentID, updates); err != nil {
			return fmt.Errorf("failed to reset assessment status: %w", err)
		}
		reloaded, err := s.assessmentRepo.GetByIDs(ctx, tx, []uuid.UUID{assessmentID})
		if err != nil || len(reloaded) == 0 {
			return fmt.Errorf("failed to reload assessment: %w", err)
		}
		updated = reloaded[0]
		_ = s.auditService.Record(ctx, tx, examinerID, audit.ActionAssessmentUpdated, "assessment", assessmentID, map[string]any{
			"responses": len(responses),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.scoreCache.Invalidate(ctx, assessmentID); err != nil {
		s.log.Warn("Failed to invalidate score cache", "assessmentID", assessmentID, "error", err)
	}
	return updated, nil
}

// Score recomputes section, quadrant and total scores from the stored
// responses and persists them. Responses the engine cannot use are
// skipped and reported, matching the calculators' accumulate-and-continue
// contract.
func (s *assessmentService) Score(ctx context.Context, assessmentID uuid.UUID) (*types.Assessment, scoring.Results, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, scoring.Results{}, err
	}

	var (
		scored  *types.Assessment
		results scoring.Results
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assessment, err := s.getOwnedAssessment(ctx, tx, assessmentID)
		if err != nil {
			return err
		}
		rows, err := s.responseRepo.GetByAssessmentIDs(ctx, tx, []uuid.UUID{assessmentID})
		if err != nil {
			return fmt.Errorf("failed to fetch responses: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("%w: no responses to score", errs.ErrUnprocessable)
		}

		results = scoring.CalculateScores(toItemResponses(rows), s.engineOpts...)
		assessment.ApplyResults(results)

		now := time.Now().UTC()
		updates := assessment.ScoreColumns()
		updates["status"] = types.AssessmentStatusCompleted
		updates["scored_at"] = now
		updates["validated_at"] = nil
		if err := s.assessmentRepo.UpdateFields(ctx, tx, assessmentID, updates); err != nil {
			return fmt.Errorf("failed to persist scores: %w", err)
		}
		assessment.Status = types.AssessmentStatusCompleted
		assessment.ScoredAt = &now
		assessment.ValidatedAt = nil
		scored = assessment

		_ = s.auditService.Record(ctx, tx, examinerID, audit.ActionAssessmentScored, "assessment", assessmentID, map[string]any{
			"total_score":       results.TotalScore(),
			"valid_responses":   results.ValidResponses,
			"invalid_responses": len(results.InvalidResponses),
		})
		return nil
	})
	if err != nil {
		return nil, scoring.Results{}, err
	}

	if warnings := scoring.ValidateScoreRanges(results); len(warnings) > 0 {
		s.log.Warn("Scored assessment outside attainable ranges", "assessmentID", assessmentID, "warnings", warnings)
		observability.Current().AddRangeWarnings(len(warnings))
	}
	if len(results.InvalidResponses) > 0 {
		s.log.Warn("Some responses could not be scored", "assessmentID", assessmentID, "invalid", results.InvalidResponses)
		observability.ReportDataQualityFindings(ctx, s.log, "score", results.InvalidResponses, map[string]any{
			"assessment_id": assessmentID.String(),
		})
	}
	observability.Current().IncAssessmentScored(len(results.InvalidResponses))

	if err := s.scoreCache.SetResults(ctx, assessmentID, results); err != nil {
		s.log.Warn("Failed to cache results", "assessmentID", assessmentID, "error", err)
	}
	return scored, results, nil
}

// Validate runs the full consistency validation against the persisted
// scores. Consistent assessments are promoted to validated; an
// inconsistent one keeps its status and the findings go back to the
// caller, so the check result is the return value either way.
func (s *assessmentService) Validate(ctx context.Context, assessmentID uuid.UUID) (*types.Assessment, scoring.CheckResult, error) {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return nil, scoring.CheckResult{}, err
	}

	var (
		validated *types.Assessment
		result    scoring.CheckResult
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assessment, err := s.getOwnedAssessment(ctx, tx, assessmentID)
		if err != nil {
			return err
		}
		if assessment.Status == types.AssessmentStatusDraft {
			return fmt.Errorf("%w: assessment has not been scored", errs.ErrUnprocessable)
		}
		rows, err := s.responseRepo.GetByAssessmentIDs(ctx, tx, []uuid.UUID{assessmentID})
		if err != nil {
			return fmt.Errorf("failed to fetch responses: %w", err)
		}
		children, err := s.childRepo.GetByIDs(ctx, tx, []uuid.UUID{assessment.ChildID})
		if err != nil {
			return fmt.Errorf("failed to fetch child: %w", err)
		}

		rec := scoring.AssessmentRecord{
			Responses:      toItemResponses(rows),
			SectionScores:  assessment.SectionScores(),
			AssessmentDate: assessment.AssessmentDate,
			CreatedAt:      assessment.CreatedAt,
		}
		if len(children) > 0 && children[0] != nil {
			birth := children[0].BirthDate
			rec.BirthDate = &birth
		}
		result = scoring.ValidateAssessment(rec, s.engineOpts...)

		if result.Valid {
			now := time.Now().UTC()
			if err := s.assessmentRepo.UpdateFields(ctx, tx, assessmentID, map[string]any{
				"status":       types.AssessmentStatusValidated,
				"validated_at": now,
			}); err != nil {
				return fmt.Errorf("failed to mark assessment validated: %w", err)
			}
			assessment.Status = types.AssessmentStatusValidated
			assessment.ValidatedAt = &now
			_ = s.auditService.Record(ctx, tx, examinerID, audit.ActionAssessmentValidated, "assessment", assessmentID, map[string]any{
				"warnings": len(result.Warnings),
			})
		}
		validated = assessment
		return nil
	})
	if err != nil {
		return nil, scoring.CheckResult{}, err
	}

	if result.Valid {
		observability.Current().IncValidation("valid")
	} else {
		observability.Current().IncValidation("invalid")
		observability.ReportDataQualityFindings(ctx, s.log, "validate", result.Errors, map[string]any{
			"assessment_id": assessmentID.String(),
		})
	}
	if len(result.Warnings) > 0 {
		s.log.Warn("Assessment validation warnings", "assessmentID", assessmentID, "warnings", result.Warnings)
	}
	return validated, result, nil
}

// Results returns computed scores for the assessment, preferring the
// cache and recomputing from responses on a miss. Range findings are
// returned as warnings alongside, never as errors.
func (s *assessmentService) Results(ctx context.Context, assessmentID uuid.UUID) (scoring.Results, []string, error) {
	if _, err := s.getOwnedAssessment(ctx, nil, assessmentID); err != nil {
		return scoring.Results{}, nil, err
	}

	if cached, ok, err := s.scoreCache.GetResults(ctx, assessmentID); err != nil {
		s.log.Warn("Score cache read failed", "assessmentID", assessmentID, "error", err)
	} else if ok && cached != nil {
		observability.Current().IncCacheLookup(true)
		return *cached, scoring.ValidateScoreRanges(*cached), nil
	}
	observability.Current().IncCacheLookup(false)

	rows, err := s.responseRepo.GetByAssessmentIDs(ctx, nil, []uuid.UUID{assessmentID})
	if err != nil {
		return scoring.Results{}, nil, fmt.Errorf("failed to fetch responses: %w", err)
	}
	if len(rows) == 0 {
		return scoring.Results{}, nil, fmt.Errorf("%w: no responses recorded", errs.ErrUnprocessable)
	}
	results := scoring.CalculateScores(toItemResponses(rows), s.engineOpts...)
	if err := s.scoreCache.SetResults(ctx, assessmentID, results); err != nil {
		s.log.Warn("Failed to cache results", "assessmentID", assessmentID, "error", err)
	}
	return results, scoring.ValidateScoreRanges(results), nil
}

// Delete soft-deletes the assessment together with its report
// artifacts. Response rows stay behind the soft-deleted parent.
func (s *assessmentService) Delete(ctx context.Context, assessmentID uuid.UUID) error {
	examinerID, err := requestExaminerID(ctx)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.getOwnedAssessment(ctx, tx, assessmentID); err != nil {
			return err
		}
		if err := s.artifactRepo.SoftDeleteByAssessmentIDs(ctx, tx, []uuid.UUID{assessmentID}); err != nil {
			return fmt.Errorf("failed to delete report artifacts: %w", err)
		}
		if err := s.assessmentRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{assessmentID}); err != nil {
			return fmt.Errorf("failed to delete assessment: %w", err)
		}
		_ = s.auditService.Record(ctx, tx, examinerID, audit.ActionAssessmentDeleted, "assessment", assessmentID, nil)
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.scoreCache.Invalidate(ctx, assessmentID); err != nil {
		s.log.Warn("Failed to invalidate score cache", "assessmentID", assessmentID, "error", err)
	}
	return nil
}
