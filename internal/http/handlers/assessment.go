package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wakeupmh/sensory-profile-backend/internal/http/response"
	"github.com/wakeupmh/sensory-profile-backend/internal/services"
)

type AssessmentHandler struct {
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// POST /api/children/:id/assessments
// body: { "caregiver_id": "...", "assessment_date": "2024-03-01",
// "responses": [{ "item_id": 1, "response": "frequentemente" }, ...] }
// Responses are optional at creation; the row starts as a draft either way.
func (ah *AssessmentHandler) CreateAssessment(c *gin.Context) {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	var req struct {
		CaregiverID    *uuid.UUID               `json:"caregiver_id"`
		AssessmentDate string                   `json:"assessment_date"`
		Responses      []services.ResponseInput `json:"responses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	assessmentDate, err := parseDate(req.AssessmentDate)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_date", err)
		return
	}
	assessment, err := ah.assessmentService.Create(c.Request.Context(), childID, req.CaregiverID, assessmentDate, req.Responses)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assessment": assessment})
}

// GET /api/children/:id/assessments
func (ah *AssessmentHandler) ListAssessments(c *gin.Context) {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	assessments, err := ah.assessmentService.ListByChild(c.Request.Context(), childID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assessments": assessments})
}

// GET /api/assessments/:id
func (ah *AssessmentHandler) GetAssessment(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	assessment, responses, err := ah.assessmentService.Get(c.Request.Context(), assessmentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assessment": assessment, "responses": responses})
}

// PUT /api/assessments/:id/responses
// body: { "responses": [{ "item_id": 1, "response": "nunca" }, ...] }
// Replaces the whole response set and drops persisted scores back to draft.
func (ah *AssessmentHandler) ReplaceResponses(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	var req struct {
		Responses []services.ResponseInput `json:"responses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	assessment, err := ah.assessmentService.ReplaceResponses(c.Request.Context(), assessmentID, req.Responses)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assessment": assessment})
}

// POST /api/assessments/:id/score
func (ah *AssessmentHandler) Score(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	assessment, results, err := ah.assessmentService.Score(c.Request.Context(), assessmentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assessment": assessment, "results": results})
}

// POST /api/assessments/:id/validate
// Consistent assessments come back 200 and move to validated; an
// inconsistent one comes back 422 with the failing checks spelled out.
func (ah *AssessmentHandler) Validate(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	assessment, result, err := ah.assessmentService.Validate(c.Request.Context(), assessmentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{
				"message": "assessment failed consistency validation",
				"code":    "validation_failed",
			},
			"assessment": assessment,
			"validation": result,
		})
		return
	}
	response.RespondOK(c, gin.H{"assessment": assessment, "validation": result})
}

// GET /api/assessments/:id/results
func (ah *AssessmentHandler) Results(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	results, warnings, err := ah.assessmentService.Results(c.Request.Context(), assessmentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if warnings == nil {
		warnings = []string{}
	}
	response.RespondOK(c, gin.H{"results": results, "warnings": warnings})
}

// DELETE /api/assessments/:id
func (ah *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	if err := ah.assessmentService.Delete(c.Request.Context(), assessmentID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
