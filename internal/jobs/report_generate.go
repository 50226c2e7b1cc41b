package jobs

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/observability"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/platform/gcs"
	"github.com/wakeupmh/sensory-profile-backend/internal/reports"
	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

// ReportGenerateHandler renders the summary JSON and score chart for a
// scored assessment and files both as report artifacts. Scores are
// recomputed from the raw responses rather than read from the score
// columns, so a report never echoes a drifted row.
type ReportGenerateHandler struct {
	db             *gorm.DB
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	responseRepo   repos.ResponseRepo
	childRepo      repos.ChildRepo
	artifactRepo   repos.ReportArtifactRepo
	bucket         gcs.BucketService
	engineOpts     []scoring.Option
}

func NewReportGenerateHandler(
	db *gorm.DB,
	baseLog *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	responseRepo repos.ResponseRepo,
	childRepo repos.ChildRepo,
	artifactRepo repos.ReportArtifactRepo,
	bucket gcs.BucketService,
	engineOpts ...scoring.Option,
) *ReportGenerateHandler {
	return &ReportGenerateHandler{
		db:             db,
		log:            baseLog.With("handler", "ReportGenerate"),
		assessmentRepo: assessmentRepo,
		responseRepo:   responseRepo,
		childRepo:      childRepo,
		artifactRepo:   artifactRepo,
		bucket:         bucket,
		engineOpts:     engineOpts,
	}
}

func (h *ReportGenerateHandler) Type() string { return types.JobTypeReportGenerate }

func (h *ReportGenerateHandler) Run(jc *Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	if h == nil || h.db == nil || h.assessmentRepo == nil || h.responseRepo == nil || h.childRepo == nil || h.artifactRepo == nil || h.bucket == nil {
		jc.Fail("validate", fmt.Errorf("report_generate: handler not configured"))
		return nil
	}

	assessmentID, ok := jc.PayloadUUID("assessment_id")
	if !ok || assessmentID == uuid.Nil {
		jc.Fail("validate", fmt.Errorf("missing assessment_id"))
		return nil
	}

	jc.Progress("load", 10, "Loading assessment")

	found, err := h.assessmentRepo.GetByIDs(jc.Ctx, nil, []uuid.UUID{assessmentID})
	if err != nil {
		jc.Fail("load", err)
		return nil
	}
	if len(found) == 0 || found[0] == nil {
		jc.Fail("load", fmt.Errorf("assessment %s not found", assessmentID))
		return nil
	}
	assessment := found[0]
	if assessment.Status == types.AssessmentStatusDraft {
		jc.Fail("load", fmt.Errorf("assessment %s has no scores yet", assessmentID))
		return nil
	}

	children, err := h.childRepo.GetByIDs(jc.Ctx, nil, []uuid.UUID{assessment.ChildID})
	if err != nil {
		jc.Fail("load", err)
		return nil
	}
	if len(children) == 0 || children[0] == nil {
		jc.Fail("load", fmt.Errorf("child %s not found", assessment.ChildID))
		return nil
	}
	child := children[0]

	rows, err := h.responseRepo.GetByAssessmentIDs(jc.Ctx, nil, []uuid.UUID{assessmentID})
	if err != nil {
		jc.Fail("load", err)
		return nil
	}
	if len(rows) == 0 {
		jc.Fail("load", fmt.Errorf("assessment %s has no responses", assessmentID))
		return nil
	}

	jc.Progress("summary", 35, "Building score summary")

	items := make([]scoring.ItemResponse, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		items = append(items, scoring.ItemResponse{ItemID: row.ItemID, Label: row.Response})
	}
	results := scoring.CalculateScores(items, h.engineOpts...)
	warnings := scoring.ValidateScoreRanges(results)

	summary := reports.BuildSummary(reports.SummaryInput{
		AssessmentID:   assessment.ID.String(),
		ChildName:      child.FullName,
		ChildAgeYears:  ageAt(child.BirthDate, assessment.AssessmentDate),
		AssessmentDate: assessment.AssessmentDate,
		Results:        results,
		Warnings:       warnings,
	})

	summaryJSON, err := summary.EncodeJSON()
	if err != nil {
		jc.Fail("summary", err)
		return nil
	}

	jc.Progress("render", 55, "Rendering score chart")

	renderer, err := reports.NewRenderer()
	if err != nil {
		jc.Fail("render", err)
		return nil
	}
	chart, err := renderer.RenderScoreChart(summary)
	if err != nil {
		jc.Fail("render", err)
		return nil
	}
	chartPNG := chart.Bytes()

	jc.Progress("upload", 75, "Uploading artifacts")

	prefix := fmt.Sprintf("reports/%s/%s", assessment.ID, jc.Job.ID)
	summaryKey := prefix + "/summary.json"
	chartKey := prefix + "/chart.png"

	if err := h.bucket.UploadFile(jc.Ctx, summaryKey, bytes.NewReader(summaryJSON)); err != nil {
		jc.Fail("upload", err)
		return nil
	}
	if err := h.bucket.UploadFile(jc.Ctx, chartKey, bytes.NewReader(chartPNG)); err != nil {
		jc.Fail("upload", err)
		return nil
	}

	artifacts := []*types.ReportArtifact{
		{
			ID:           uuid.New(),
			AssessmentID: assessment.ID,
			ExaminerID:   assessment.ExaminerID,
			Kind:         types.ReportKindSummaryJSON,
			ObjectKey:    summaryKey,
			ContentType:  "application/json",
			SizeBytes:    int64(len(summaryJSON)),
		},
		{
			ID:           uuid.New(),
			AssessmentID: assessment.ID,
			ExaminerID:   assessment.ExaminerID,
			Kind:         types.ReportKindChartPNG,
			ObjectKey:    chartKey,
			ContentType:  "image/png",
			SizeBytes:    int64(len(chartPNG)),
		},
	}
	err = h.db.WithContext(jc.Ctx).Transaction(func(tx *gorm.DB) error {
		_, txErr := h.artifactRepo.Create(jc.Ctx, tx, artifacts)
		return txErr
	})
	if err != nil {
		jc.Fail("persist", err)
		return nil
	}
	for _, a := range artifacts {
		observability.Current().IncReportArtifact(a.Kind)
	}

	h.log.Info("Report artifacts generated",
		"assessment_id", assessment.ID,
		"job_id", jc.Job.ID,
		"summary_bytes", len(summaryJSON),
		"chart_bytes", len(chartPNG),
	)

	jc.Succeed("done", map[string]any{
		"assessment_id": assessment.ID.String(),
		"artifact_ids":  []string{artifacts[0].ID.String(), artifacts[1].ID.String()},
		"summary_key":   summaryKey,
		"chart_key":     chartKey,
		"total_score":   summary.TotalScore,
		"warnings":      len(warnings),
	})
	return nil
}

// ageAt mirrors the engine's whole-year age arithmetic for report
// display.
func ageAt(birth, at time.Time) int {
	if birth.IsZero() || at.Before(birth) {
		return 0
	}
	years := at.Year() - birth.Year()
	if birth.AddDate(years, 0, 0).After(at) {
		years--
	}
	return years
}
