package dto

// SlotPayload is one bookable interval in a schedule write.
type SlotPayload struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// RecurringDayPayload is one weekday entry in a recurring schedule write.
type RecurringDayPayload struct {
	Day    string        `json:"day" validate:"required"`
	Status string        `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
	Slots  []SlotPayload `json:"slots"`
}

// SetRecurringRequest replaces an employer's whole weekly template.
type SetRecurringRequest struct {
	Days           []RecurringDayPayload `json:"days" validate:"required,dive"`
	EffectiveFrom  string                `json:"effective_from" validate:"required"`
	EffectiveUntil *string               `json:"effective_until"`
}

// SetSpecificRequest creates or replaces the date-exact entry for one date.
type SetSpecificRequest struct {
	Date      string        `json:"date" validate:"required"`
	Status    string        `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
	TimeSlots []SlotPayload `json:"time_slots"`
}
