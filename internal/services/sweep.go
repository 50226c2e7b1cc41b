package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/observability"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

const sweepBatchSize = 100

// SweepFinding is the outcome of validating one assessment during a
// sweep. Only assessments with errors or warnings are kept.
type SweepFinding struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
	ChildID      uuid.UUID `json:"child_id"`
	Status       string    `json:"status"`
	IsValid      bool      `json:"is_valid"`
	Errors       []string  `json:"errors,omitempty"`
	Warnings     []string  `json:"warnings,omitempty"`
}

// SweepSummary aggregates one full consistency sweep.
type SweepSummary struct {
	Checked    int            `json:"checked"`
	Valid      int            `json:"valid"`
	Invalid    int            `json:"invalid"`
	WithIssues int            `json:"with_issues"`
	Findings   []SweepFinding `json:"findings,omitempty"`
}

// SweepService walks every scored assessment and re-runs the full
// consistency validation against the persisted columns. It backs both
// the consistency_sweep job and the admin CLI; Rescore reuses the same
// walk to recompute score columns in place.
type SweepService interface {
	Run(ctx context.Context, onProgress func(checked int)) (*SweepSummary, error)
	Rescore(ctx context.Context, onProgress func(checked int)) (int, error)
}

type sweepService struct {
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	responseRepo   repos.ResponseRepo
	childRepo      repos.ChildRepo
	concurrency    int
	engineOpts     []scoring.Option
}

func NewSweepService(
	baseLog *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	responseRepo repos.ResponseRepo,
	childRepo repos.ChildRepo,
	concurrency int,
	engineOpts ...scoring.Option,
) SweepService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &sweepService{
		log:            baseLog.With("service", "SweepService"),
		assessmentRepo: assessmentRepo,
		responseRepo:   responseRepo,
		childRepo:      childRepo,
		concurrency:    concurrency,
		engineOpts:     engineOpts,
	}
}

// loadBatchContext fetches the responses and children for a batch of
// assessments in two queries, so the fan-out below stays pure.
func (s *sweepService) loadBatchContext(ctx context.Context, batch []*types.Assessment) (map[uuid.UUID][]*types.AssessmentResponse, map[uuid.UUID]*types.Child, error) {
	assessmentIDs := make([]uuid.UUID, 0, len(batch))
	childIDSet := make(map[uuid.UUID]bool, len(batch))
	childIDs := make([]uuid.UUID, 0, len(batch))
	for _, a := range batch {
		assessmentIDs = append(assessmentIDs, a.ID)
		if !childIDSet[a.ChildID] {
			childIDSet[a.ChildID] = true
			childIDs = append(childIDs, a.ChildID)
		}
	}

	responseRows, err := s.responseRepo.GetByAssessmentIDs(ctx, nil, assessmentIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch responses: %w", err)
	}
	responsesByAssessment := make(map[uuid.UUID][]*types.AssessmentResponse, len(batch))
	for _, row := range responseRows {
		responsesByAssessment[row.AssessmentID] = append(responsesByAssessment[row.AssessmentID], row)
	}

	children, err := s.childRepo.GetByIDs(ctx, nil, childIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch children: %w", err)
	}
	childByID := make(map[uuid.UUID]*types.Child, len(children))
	for _, c := range children {
		childByID[c.ID] = c
	}
	return responsesByAssessment, childByID, nil
}

func (s *sweepService) validateOne(a *types.Assessment, rows []*types.AssessmentResponse, child *types.Child) scoring.CheckResult {
	rec := scoring.AssessmentRecord{
		Responses:      toItemResponses(rows),
		SectionScores:  a.SectionScores(),
		AssessmentDate: a.AssessmentDate,
		CreatedAt:      a.CreatedAt,
	}
	if child != nil {
		birth := child.BirthDate
		rec.BirthDate = &birth
	}
	return scoring.ValidateAssessment(rec, s.engineOpts...)
}

// Run sweeps all completed and validated assessments in keyset batches,
// fanning the per-assessment validation out across workers.
func (s *sweepService) Run(ctx context.Context, onProgress func(checked int)) (*SweepSummary, error) {
	started := time.Now()
	summary := &SweepSummary{}
	var cursor uuid.UUID

	for {
		batch, err := s.assessmentRepo.ListScoredBatch(ctx, nil, cursor, sweepBatchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list assessments: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		cursor = batch[len(batch)-1].ID

		responsesByAssessment, childByID, err := s.loadBatchContext(ctx, batch)
		if err != nil {
			return nil, err
		}

		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)
		for _, a := range batch {
			a := a
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				result := s.validateOne(a, responsesByAssessment[a.ID], childByID[a.ChildID])

				mu.Lock()
				summary.Checked++
				if result.Valid {
					summary.Valid++
				} else {
					summary.Invalid++
				}
				if !result.Valid || len(result.Warnings) > 0 {
					summary.WithIssues++
					summary.Findings = append(summary.Findings, SweepFinding{
						AssessmentID: a.ID,
						ChildID:      a.ChildID,
						Status:       a.Status,
						IsValid:      result.Valid,
						Errors:       result.Errors,
						Warnings:     result.Warnings,
					})
				}
				mu.Unlock()

				if result.Valid {
					observability.Current().IncSweepAssessment("valid")
				} else {
					observability.Current().IncSweepAssessment("invalid")
					observability.ReportDataQualityFindings(gctx, s.log, "sweep", result.Errors, map[string]any{
						"assessment_id": a.ID.String(),
					})
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if onProgress != nil {
			onProgress(summary.Checked)
		}
		if len(batch) < sweepBatchSize {
			break
		}
	}

	s.log.Info("Consistency sweep finished",
		"checked", summary.Checked,
		"valid", summary.Valid,
		"invalid", summary.Invalid,
		"with_issues", summary.WithIssues,
		"took", time.Since(started).String(),
	)
	s.reportDrift(ctx, summary)
	return summary, nil
}

// reportDrift raises a score-drift alert when the invalid share of the
// sweep crosses the configured ratio.
func (s *sweepService) reportDrift(ctx context.Context, summary *SweepSummary) {
	if summary.Checked == 0 || summary.Invalid == 0 {
		return
	}
	threshold := sweepDriftRatioThreshold()
	ratio := float64(summary.Invalid) / float64(summary.Checked)
	if ratio < threshold {
		return
	}
	observability.ReportScoreDrift(ctx, s.log, []observability.ScoreDriftMetric{
		{
			Name:      "sweep_invalid_ratio",
			Status:    "breached",
			Value:     ratio,
			Threshold: threshold,
			Meta: map[string]any{
				"checked": summary.Checked,
				"invalid": summary.Invalid,
			},
		},
	}, nil)
}

func sweepDriftRatioThreshold() float64 {
	raw := strings.TrimSpace(os.Getenv("SWEEP_DRIFT_RATIO_THRESHOLD"))
	if raw == "" {
		return 0.05
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || v > 1 {
		return 0.05
	}
	return v
}

// Rescore recomputes scores for every scored assessment and rewrites the
// columns that changed. Rows whose recomputed scores differ from the
// persisted ones drop back to completed: the earlier validation no
// longer vouches for them.
func (s *sweepService) Rescore(ctx context.Context, onProgress func(checked int)) (int, error) {
	var cursor uuid.UUID
	checked := 0
	changed := 0

	for {
		batch, err := s.assessmentRepo.ListScoredBatch(ctx, nil, cursor, sweepBatchSize)
		if err != nil {
			return changed, fmt.Errorf("failed to list assessments: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		cursor = batch[len(batch)-1].ID

		responsesByAssessment, _, err := s.loadBatchContext(ctx, batch)
		if err != nil {
			return changed, err
		}

		for _, a := range batch {
			checked++
			rows := responsesByAssessment[a.ID]
			if len(rows) == 0 {
				continue
			}
			results := scoring.CalculateScores(toItemResponses(rows), s.engineOpts...)

			recomputed := *a
			recomputed.ApplyResults(results)
			if scoresEqual(a, &recomputed) {
				continue
			}

			now := time.Now().UTC()
			updates := recomputed.ScoreColumns()
			updates["status"] = types.AssessmentStatusCompleted
			updates["scored_at"] = now
			updates["validated_at"] = nil
			if err := s.assessmentRepo.UpdateFields(ctx, nil, a.ID, updates); err != nil {
				return changed, fmt.Errorf("failed to rescore assessment %s: %w", a.ID, err)
			}
			changed++
			s.log.Info("Rescored assessment", "assessmentID", a.ID, "total", results.TotalScore())
		}
		if onProgress != nil {
			onProgress(checked)
		}
		if len(batch) < sweepBatchSize {
			break
		}
	}
	return changed, nil
}

func scoresEqual(a, b *types.Assessment) bool {
	if a.TotalScore != b.TotalScore {
		return false
	}
	as, bs := a.SectionScores(), b.SectionScores()
	for _, sec := range scoring.Sections() {
		if as[sec] != bs[sec] {
			return false
		}
	}
	aq, bq := a.QuadrantScores(), b.QuadrantScores()
	for _, q := range scoring.Quadrants() {
		if aq[q] != bq[q] {
			return false
		}
	}
	return true
}
