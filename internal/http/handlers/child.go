package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/http/response"
	"github.com/wakeupmh/sensory-profile-backend/internal/services"
)

type ChildHandler struct {
	childService services.ChildService
}

func NewChildHandler(childService services.ChildService) *ChildHandler {
	return &ChildHandler{childService: childService}
}

type caregiverInput struct {
	FullName     string `json:"full_name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// POST /api/children
// body: { "full_name": "...", "birth_date": "2018-06-15", "gender": "...",
// "notes": "...", "caregivers": [{ "full_name": "...", ... }] }
func (ch *ChildHandler) CreateChild(c *gin.Context) {
	var req struct {
		FullName   string           `json:"full_name"`
		BirthDate  string           `json:"birth_date"`
		Gender     string           `json:"gender"`
		Notes      string           `json:"notes"`
		Caregivers []caregiverInput `json:"caregivers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_birth_date", err)
		return
	}
	child := types.Child{
		FullName:  req.FullName,
		BirthDate: birthDate,
		Gender:    req.Gender,
		Notes:     req.Notes,
	}
	caregivers := make([]*types.Caregiver, 0, len(req.Caregivers))
	for _, cg := range req.Caregivers {
		caregivers = append(caregivers, &types.Caregiver{
			FullName:     cg.FullName,
			Relationship: cg.Relationship,
			Phone:        cg.Phone,
			Email:        cg.Email,
		})
	}
	if err := ch.childService.Create(c.Request.Context(), &child, caregivers); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"child": child, "caregivers": caregivers})
}

// GET /api/children
func (ch *ChildHandler) ListChildren(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 50)
	offset := parseIntQuery(c, "offset", 0)
	children, total, err := ch.childService.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"children": children, "total": total})
}

// GET /api/children/:id
func (ch *ChildHandler) GetChild(c *gin.Context) {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	child, caregivers, err := ch.childService.Get(c.Request.Context(), childID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"child": child, "caregivers": caregivers})
}

// PUT /api/children/:id
// body: any subset of { "full_name", "birth_date", "gender", "notes" }
func (ch *ChildHandler) UpdateChild(c *gin.Context) {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	var req struct {
		FullName  *string `json:"full_name"`
		BirthDate *string `json:"birth_date"`
		Gender    *string `json:"gender"`
		Notes     *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	upd := services.ChildUpdate{
		FullName: req.FullName,
		Gender:   req.Gender,
		Notes:    req.Notes,
	}
	if req.BirthDate != nil {
		birthDate, err := parseDate(*req.BirthDate)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_birth_date", err)
			return
		}
		upd.BirthDate = &birthDate
	}
	child, err := ch.childService.Update(c.Request.Context(), childID, upd)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"child": child})
}

// DELETE /api/children/:id
func (ch *ChildHandler) DeleteChild(c *gin.Context) {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	if err := ch.childService.Delete(c.Request.Context(), childID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/children/:id/caregivers
func (ch *ChildHandler) AddCaregiver(c *gin.Context) {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	var req caregiverInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	caregiver := types.Caregiver{
		FullName:     req.FullName,
		Relationship: req.Relationship,
		Phone:        req.Phone,
		Email:        req.Email,
	}
	if err := ch.childService.AddCaregiver(c.Request.Context(), childID, &caregiver); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"caregiver": caregiver})
}

// PUT /api/children/:id/caregivers/:caregiverId
func (ch *ChildHandler) UpdateCaregiver(c *gin.Context) {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	caregiverID, err := uuid.Parse(c.Param("caregiverId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_caregiver_id", err)
		return
	}
	var req struct {
		FullName     *string `json:"full_name"`
		Relationship *string `json:"relationship"`
		Phone        *string `json:"phone"`
		Email        *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	caregiver, err := ch.childService.UpdateCaregiver(c.Request.Context(), childID, caregiverID, services.CaregiverUpdate{
		FullName:     req.FullName,
		Relationship: req.Relationship,
		Phone:        req.Phone,
		Email:        req.Email,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"caregiver": caregiver})
}

// DELETE /api/children/:id/caregivers/:caregiverId
func (ch *ChildHandler) DeleteCaregiver(c *gin.Context) {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	caregiverID, err := uuid.Parse(c.Param("caregiverId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_caregiver_id", err)
		return
	}
	if err := ch.childService.DeleteCaregiver(c.Request.Context(), childID, caregiverID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// parseDate accepts the date-only form used by the frontend and falls
// back to full RFC3339 timestamps.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return t, nil
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
