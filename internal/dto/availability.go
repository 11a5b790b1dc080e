package dto

import "github.com/hirelane/interview-booking-api/internal/models"

// AvailabilityRequest captures query parameters for an availability read.
type AvailabilityRequest struct {
	EmployerID string
	From       string
	To         string
}

// DayAvailability is the resolved, ledger-annotated slot list for one date.
type DayAvailability struct {
	Date  string            `json:"date"`
	Slots []models.TimeSlot `json:"slots"`
}

// AvailabilityResponse maps each date in the requested range to its slots.
type AvailabilityResponse struct {
	EmployerID string            `json:"employer_id"`
	Days       []DayAvailability `json:"days"`
}
