// Interview lifecycle:
//
//	PENDING ──confirm──► SCHEDULED ──complete──► COMPLETED
//	   │                     │
//	   └───────cancel────────┴──► CANCELLED ──reschedule──► SCHEDULED
//
// COMPLETED is terminal. CANCELLED is terminal except for the single
// permitted re-entry via reschedule. Interviews are never deleted;
// history is retained through status and the rescheduled_from columns.
package models

import "time"

// InterviewStatus values mirror the interview_status enum in PostgreSQL.
type InterviewStatus string

const (
	InterviewPending     InterviewStatus = "PENDING"
	InterviewScheduled   InterviewStatus = "SCHEDULED"
	InterviewCompleted   InterviewStatus = "COMPLETED"
	InterviewCancelled   InterviewStatus = "CANCELLED"
	InterviewRescheduled InterviewStatus = "RESCHEDULED"
)

// InterviewResult records the outcome of a completed interview.
type InterviewResult string

const (
	ResultHired    InterviewResult = "HIRED"
	ResultRejected InterviewResult = "REJECTED"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[InterviewStatus][]InterviewStatus{
	InterviewPending:   {InterviewScheduled, InterviewCancelled},
	InterviewScheduled: {InterviewCompleted, InterviewCancelled},
	InterviewCancelled: {InterviewScheduled},
	// COMPLETED is terminal. RESCHEDULED only appears on historical rows
	// written before reschedule became an in-place update.
}

// CanTransition reports whether moving from → to is permitted.
func CanTransition(from, to InterviewStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Active reports whether the status occupies its slot on the ledger.
// Every status except CANCELLED blocks the interval.
func (s InterviewStatus) Active() bool {
	return s != InterviewCancelled
}

// Interview is a committed occupation of a slot linking an employer, a
// jobseeker and a job application. Cancellation and reschedule history
// live in flat nullable columns.
type Interview struct {
	ID            string          `db:"id" json:"id"`
	EmployerID    string          `db:"employer_id" json:"employer_id"`
	JobseekerID   string          `db:"jobseeker_id" json:"jobseeker_id"`
	JobID         string          `db:"job_id" json:"job_id"`
	ApplicationID string          `db:"application_id" json:"application_id"`
	Date          string          `db:"date" json:"date"`
	StartTime     string          `db:"start_time" json:"start_time"`
	EndTime       string          `db:"end_time" json:"end_time"`
	Status        InterviewStatus `db:"status" json:"status"`

	Result   *InterviewResult `db:"result" json:"result,omitempty"`
	Feedback *string          `db:"feedback" json:"feedback,omitempty"`

	CancelReason  *string    `db:"cancel_reason" json:"-"`
	CancelInfo    *string    `db:"cancel_info" json:"-"`
	CancelledAt   *time.Time `db:"cancelled_at" json:"-"`
	PrevDate      *string    `db:"prev_date" json:"-"`
	PrevStartTime *string    `db:"prev_start_time" json:"-"`
	PrevEndTime   *string    `db:"prev_end_time" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Cancellation captures why and when an interview was called off.
type Cancellation struct {
	Reason         string    `json:"reason"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	CancelledAt    time.Time `json:"cancelled_at"`
}

// Cancellation assembles the nested cancellation record, nil when the
// interview was never cancelled.
func (i *Interview) Cancellation() *Cancellation {
	if i.CancelledAt == nil {
		return nil
	}
	c := &Cancellation{CancelledAt: *i.CancelledAt}
	if i.CancelReason != nil {
		c.Reason = *i.CancelReason
	}
	if i.CancelInfo != nil {
		c.AdditionalInfo = *i.CancelInfo
	}
	return c
}

// SlotRef identifies a concrete slot occupied by an interview.
type SlotRef struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// RescheduledFrom returns the slot the interview previously occupied,
// nil when it was never rescheduled.
func (i *Interview) RescheduledFrom() *SlotRef {
	if i.PrevDate == nil || i.PrevStartTime == nil || i.PrevEndTime == nil {
		return nil
	}
	return &SlotRef{Date: *i.PrevDate, StartTime: *i.PrevStartTime, EndTime: *i.PrevEndTime}
}

// InterviewFilter describes query params for listing interviews.
type InterviewFilter struct {
	EmployerID  string
	JobseekerID string
	JobID       string
	Date        string
	Status      string
	Page        int
	PageSize    int
}
