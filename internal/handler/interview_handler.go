package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hirelane/interview-booking-api/internal/dto"
	"github.com/hirelane/interview-booking-api/internal/models"
	"github.com/hirelane/interview-booking-api/internal/service"
	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
	"github.com/hirelane/interview-booking-api/pkg/response"
)

type bookingService interface {
	RequestBooking(ctx context.Context, req dto.BookingRequest) (*models.Interview, error)
	Confirm(ctx context.Context, id string) (*models.Interview, error)
	Cancel(ctx context.Context, id string, req dto.CancelRequest) (*models.Interview, error)
	Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (*models.Interview, error)
	Complete(ctx context.Context, id string, req dto.CompleteRequest) (*models.Interview, error)
	Get(ctx context.Context, id string) (*models.Interview, error)
	List(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, *models.Pagination, error)
}

type exportService interface {
	Generate(ctx context.Context, format service.ExportFormat, employerID, from, to string) (*service.ExportResult, error)
}

// InterviewHandler exposes booking and lifecycle endpoints.
type InterviewHandler struct {
	booking bookingService
	exports exportService
}

// NewInterviewHandler builds a new handler.
func NewInterviewHandler(booking bookingService, exports exportService) *InterviewHandler {
	return &InterviewHandler{booking: booking, exports: exports}
}

// Create godoc
// @Summary Request a booking for a concrete slot
// @Tags Interviews
// @Accept json
// @Produce json
// @Param payload body dto.BookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Router /interviews [post]
func (h *InterviewHandler) Create(c *gin.Context) {
	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}
	iv, err := h.booking.RequestBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewInterviewResponse(iv))
}

// Get godoc
// @Summary Get an interview by ID
// @Tags Interviews
// @Produce json
// @Param id path string true "Interview ID"
// @Success 200 {object} response.Envelope
// @Router /interviews/{id} [get]
func (h *InterviewHandler) Get(c *gin.Context) {
	iv, err := h.booking.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewInterviewResponse(iv), nil)
}

// List godoc
// @Summary List interviews
// @Tags Interviews
// @Produce json
// @Param employerId query string false "Employer ID"
// @Param jobseekerId query string false "Jobseeker ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param status query string false "Interview status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /interviews [get]
func (h *InterviewHandler) List(c *gin.Context) {
	filter := models.InterviewFilter{
		EmployerID:  c.Query("employerId"),
		JobseekerID: c.Query("jobseekerId"),
		JobID:       c.Query("jobId"),
		Date:        c.Query("date"),
		Status:      strings.ToUpper(c.Query("status")),
		Page:        intQuery(c, "page", 1),
		PageSize:    intQuery(c, "limit", 20),
	}
	items, pagination, err := h.booking.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewInterviewResponses(items), pagination)
}

// Confirm godoc
// @Summary Confirm a pending interview
// @Tags Interviews
// @Produce json
// @Param id path string true "Interview ID"
// @Success 200 {object} response.Envelope
// @Router /interviews/{id}/confirm [post]
func (h *InterviewHandler) Confirm(c *gin.Context) {
	iv, err := h.booking.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewInterviewResponse(iv), nil)
}

// Cancel godoc
// @Summary Cancel a pending or scheduled interview
// @Tags Interviews
// @Accept json
// @Produce json
// @Param id path string true "Interview ID"
// @Param payload body dto.CancelRequest true "Cancellation payload"
// @Success 200 {object} response.Envelope
// @Router /interviews/{id}/cancel [post]
func (h *InterviewHandler) Cancel(c *gin.Context) {
	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cancellation payload"))
		return
	}
	iv, err := h.booking.Cancel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewInterviewResponse(iv), nil)
}

// Reschedule godoc
// @Summary Move a cancelled interview to a new slot
// @Tags Interviews
// @Accept json
// @Produce json
// @Param id path string true "Interview ID"
// @Param payload body dto.RescheduleRequest true "Reschedule payload"
// @Success 200 {object} response.Envelope
// @Router /interviews/{id}/reschedule [post]
func (h *InterviewHandler) Reschedule(c *gin.Context) {
	var req dto.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reschedule payload"))
		return
	}
	iv, err := h.booking.Reschedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewInterviewResponse(iv), nil)
}

// Complete godoc
// @Summary Complete a scheduled interview with a result
// @Tags Interviews
// @Accept json
// @Produce json
// @Param id path string true "Interview ID"
// @Param payload body dto.CompleteRequest true "Completion payload"
// @Success 200 {object} response.Envelope
// @Router /interviews/{id}/complete [post]
func (h *InterviewHandler) Complete(c *gin.Context) {
	var req dto.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid completion payload"))
		return
	}
	iv, err := h.booking.Complete(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewInterviewResponse(iv), nil)
}

// Export godoc
// @Summary Export an employer's interviews for a date range
// @Tags Interviews
// @Produce octet-stream
// @Param employerId path string true "Employer ID"
// @Param format query string true "Export format (csv or pdf)"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /employers/{employerId}/interviews/export [get]
func (h *InterviewHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "exports are disabled"))
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
	result, err := h.exports.Generate(c.Request.Context(), format, c.Param("employerId"), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
