package jobs

import (
	"fmt"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/services"
)

// resultFindingsCap bounds how many findings land in the job_run
// result document; the full set still reaches logs and alerts from the
// sweep itself.
const resultFindingsCap = 100

// ConsistencySweepHandler re-validates every scored assessment and
// stores the aggregate outcome on the job row.
type ConsistencySweepHandler struct {
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	sweep          services.SweepService
}

func NewConsistencySweepHandler(baseLog *logger.Logger, assessmentRepo repos.AssessmentRepo, sweep services.SweepService) *ConsistencySweepHandler {
	return &ConsistencySweepHandler{
		log:            baseLog.With("handler", "ConsistencySweep"),
		assessmentRepo: assessmentRepo,
		sweep:          sweep,
	}
}

func (h *ConsistencySweepHandler) Type() string { return types.JobTypeConsistencySweep }

func (h *ConsistencySweepHandler) Run(jc *Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	if h == nil || h.sweep == nil {
		jc.Fail("validate", fmt.Errorf("consistency_sweep: handler not configured"))
		return nil
	}

	jc.Progress("sweep", 5, "Scanning scored assessments")

	// Sizes the progress bar; a zero estimate keeps progress at the
	// floor, which is still honest.
	var total int64
	if h.assessmentRepo != nil {
		if n, err := h.assessmentRepo.CountScored(jc.Ctx, nil); err == nil {
			total = n
		}
	}

	summary, err := h.sweep.Run(jc.Ctx, func(checked int) {
		jc.Progress("sweep", sweepProgress(checked, total), fmt.Sprintf("Checked %d assessments", checked))
	})
	if err != nil {
		jc.Fail("sweep", err)
		return nil
	}

	result := map[string]any{
		"checked":     summary.Checked,
		"valid":       summary.Valid,
		"invalid":     summary.Invalid,
		"with_issues": summary.WithIssues,
		"findings":    summary.Findings,
	}
	if len(summary.Findings) > resultFindingsCap {
		result["findings"] = summary.Findings[:resultFindingsCap]
		result["findings_truncated"] = true
	}

	jc.Succeed("done", result)
	return nil
}

func sweepProgress(checked int, total int64) int {
	const floor, ceil = 5, 95
	if total <= 0 || checked <= 0 {
		return floor
	}
	pct := floor + int(int64(checked)*int64(ceil-floor)/total)
	if pct > ceil {
		pct = ceil
	}
	return pct
}
