package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wakeupmh/sensory-profile-backend/internal/http/response"
	"github.com/wakeupmh/sensory-profile-backend/internal/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// POST /api/assessments/:id/reports
// Enqueues report generation. A job already queued or running for the
// assessment is returned as-is with created=false.
func (rh *ReportHandler) RequestReport(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	job, created, err := rh.reportService.Request(c.Request.Context(), assessmentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{"job": job, "created": created})
}

// GET /api/assessments/:id/reports
func (rh *ReportHandler) ListReports(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	artifacts, err := rh.reportService.List(c.Request.Context(), assessmentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if artifacts == nil {
		artifacts = []services.ArtifactView{}
	}
	response.RespondOK(c, gin.H{"artifacts": artifacts})
}
