package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirelane/interview-booking-api/internal/dto"
	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
	"github.com/hirelane/interview-booking-api/pkg/response"
)

type availabilityService interface {
	GetAvailability(ctx context.Context, req dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
}

// AvailabilityHandler exposes resolved, ledger-annotated availability.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler builds a new handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Get godoc
// @Summary Resolve bookable slots for a date range
// @Tags Availability
// @Produce json
// @Param employerId path string true "Employer ID"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD), defaults to from"
// @Success 200 {object} response.Envelope
// @Router /employers/{employerId}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	from := c.Query("from")
	if from == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from query parameter is required"))
		return
	}
	to := c.Query("to")
	if to == "" {
		to = from
	}

	result, err := h.service.GetAvailability(c.Request.Context(), dto.AvailabilityRequest{
		EmployerID: c.Param("employerId"),
		From:       from,
		To:         to,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
