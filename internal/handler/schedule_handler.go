package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirelane/interview-booking-api/internal/dto"
	"github.com/hirelane/interview-booking-api/internal/models"
	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
	"github.com/hirelane/interview-booking-api/pkg/response"
)

type scheduleService interface {
	GetSchedule(ctx context.Context, employerID string) (*models.EmployerSchedule, error)
	SetRecurring(ctx context.Context, employerID string, req dto.SetRecurringRequest) (*models.RecurringSchedule, error)
	SetSpecific(ctx context.Context, employerID string, req dto.SetSpecificRequest) (*models.SpecificSchedule, error)
}

// ScheduleHandler exposes employer schedule endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Get godoc
// @Summary Get an employer's schedule sources
// @Tags Schedule
// @Produce json
// @Param employerId path string true "Employer ID"
// @Success 200 {object} response.Envelope
// @Router /employers/{employerId}/schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.GetSchedule(c.Request.Context(), c.Param("employerId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// SetRecurring godoc
// @Summary Replace the employer's weekly recurring schedule
// @Tags Schedule
// @Accept json
// @Produce json
// @Param employerId path string true "Employer ID"
// @Param payload body dto.SetRecurringRequest true "Recurring schedule payload"
// @Success 200 {object} response.Envelope
// @Router /employers/{employerId}/schedule/recurring [put]
func (h *ScheduleHandler) SetRecurring(c *gin.Context) {
	var req dto.SetRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid recurring schedule payload"))
		return
	}
	schedule, err := h.service.SetRecurring(c.Request.Context(), c.Param("employerId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// SetSpecific godoc
// @Summary Create or replace a date-specific schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Param employerId path string true "Employer ID"
// @Param payload body dto.SetSpecificRequest true "Specific schedule payload"
// @Success 200 {object} response.Envelope
// @Router /employers/{employerId}/schedule/specific [put]
func (h *ScheduleHandler) SetSpecific(c *gin.Context) {
	var req dto.SetSpecificRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid specific schedule payload"))
		return
	}
	entry, err := h.service.SetSpecific(c.Request.Context(), c.Param("employerId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}
