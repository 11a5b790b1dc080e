package dto

import (
	"github.com/hirelane/interview-booking-api/internal/models"
)

// BookingRequest asks for a concrete slot to be committed.
type BookingRequest struct {
	EmployerID    string `json:"employer_id" validate:"required"`
	JobseekerID   string `json:"jobseeker_id" validate:"required"`
	JobID         string `json:"job_id" validate:"required"`
	ApplicationID string `json:"application_id" validate:"required"`
	Date          string `json:"date" validate:"required"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`
}

// CancelRequest carries the cancellation payload.
type CancelRequest struct {
	Reason         string `json:"reason" validate:"required"`
	AdditionalInfo string `json:"additional_info"`
}

// RescheduleRequest moves a cancelled interview to a new slot.
type RescheduleRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// CompleteRequest records the interview outcome.
type CompleteRequest struct {
	Result   string `json:"result" validate:"required,oneof=HIRED REJECTED"`
	Feedback string `json:"feedback"`
}

// InterviewResponse is the API shape of an interview, with cancellation
// and reschedule history nested rather than flattened.
type InterviewResponse struct {
	ID            string                 `json:"id"`
	EmployerID    string                 `json:"employer_id"`
	JobseekerID   string                 `json:"jobseeker_id"`
	JobID         string                 `json:"job_id"`
	ApplicationID string                 `json:"application_id"`
	Date          string                 `json:"date"`
	StartTime     string                 `json:"start_time"`
	EndTime       string                 `json:"end_time"`
	Status        models.InterviewStatus `json:"status"`

	Result          *models.InterviewResult `json:"result,omitempty"`
	Feedback        *string                 `json:"feedback,omitempty"`
	Cancellation    *models.Cancellation    `json:"cancellation,omitempty"`
	RescheduledFrom *models.SlotRef         `json:"rescheduled_from,omitempty"`
}

// NewInterviewResponse converts a stored interview into its API shape.
func NewInterviewResponse(iv *models.Interview) InterviewResponse {
	return InterviewResponse{
		ID:              iv.ID,
		EmployerID:      iv.EmployerID,
		JobseekerID:     iv.JobseekerID,
		JobID:           iv.JobID,
		ApplicationID:   iv.ApplicationID,
		Date:            iv.Date,
		StartTime:       iv.StartTime,
		EndTime:         iv.EndTime,
		Status:          iv.Status,
		Result:          iv.Result,
		Feedback:        iv.Feedback,
		Cancellation:    iv.Cancellation(),
		RescheduledFrom: iv.RescheduledFrom(),
	}
}

// NewInterviewResponses converts a slice of stored interviews.
func NewInterviewResponses(items []models.Interview) []InterviewResponse {
	out := make([]InterviewResponse, 0, len(items))
	for i := range items {
		out = append(out, NewInterviewResponse(&items[i]))
	}
	return out
}
