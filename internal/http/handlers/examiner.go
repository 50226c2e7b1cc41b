package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wakeupmh/sensory-profile-backend/internal/http/response"
	"github.com/wakeupmh/sensory-profile-backend/internal/services"
)

type ExaminerHandler struct {
	examinerService services.ExaminerService
}

func NewExaminerHandler(examinerService services.ExaminerService) *ExaminerHandler {
	return &ExaminerHandler{examinerService: examinerService}
}

// GET /api/me
func (eh *ExaminerHandler) GetMe(c *gin.Context) {
	me, err := eh.examinerService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PUT /api/me
// body: { "full_name": "...", "registration_id": "..." }
func (eh *ExaminerHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		FullName       string `json:"full_name"`
		RegistrationID string `json:"registration_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	me, err := eh.examinerService.UpdateProfile(c.Request.Context(), req.FullName, req.RegistrationID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// POST /api/me/password
// body: { "current_password": "...", "new_password": "..." }
func (eh *ExaminerHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := eh.examinerService.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
