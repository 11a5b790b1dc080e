package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ScheduleStatus marks a schedule day or date entry as bookable or not.
type ScheduleStatus string

const (
	ScheduleStatusActive   ScheduleStatus = "ACTIVE"
	ScheduleStatusInactive ScheduleStatus = "INACTIVE"
)

// Weekday names as stored in recurring schedule entries.
const (
	Monday    = "MONDAY"
	Tuesday   = "TUESDAY"
	Wednesday = "WEDNESDAY"
	Thursday  = "THURSDAY"
	Friday    = "FRIDAY"
	Saturday  = "SATURDAY"
	Sunday    = "SUNDAY"
)

// Weekdays lists all valid weekday names.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// IsWeekday reports whether name is a recognised weekday constant.
func IsWeekday(name string) bool {
	for _, d := range Weekdays {
		if d == name {
			return true
		}
	}
	return false
}

// WeekdayOf returns the weekday constant for a YYYY-MM-DD date.
func WeekdayOf(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	switch t.Weekday() {
	case time.Monday:
		return Monday, nil
	case time.Tuesday:
		return Tuesday, nil
	case time.Wednesday:
		return Wednesday, nil
	case time.Thursday:
		return Thursday, nil
	case time.Friday:
		return Friday, nil
	case time.Saturday:
		return Saturday, nil
	default:
		return Sunday, nil
	}
}

// DateLayout is the canonical wire and storage format for schedule dates.
const DateLayout = "2006-01-02"

// TimeSlot is an atomic bookable interval within one day. Start and End
// are employer-local "HH:MM" wall-clock strings; the interval is
// half-open. IsBooked is derived by the booking ledger, never persisted
// with the schedule.
type TimeSlot struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	IsBooked bool   `json:"is_booked"`
}

// SlotList is a JSONB-persisted slice of slots.
type SlotList []TimeSlot

// Value implements driver.Valuer for JSONB storage.
func (l SlotList) Value() (driver.Value, error) {
	if l == nil {
		l = SlotList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage.
func (l *SlotList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// RecurringDay is one weekday entry in the recurring template.
type RecurringDay struct {
	Day    string         `json:"day"`
	Status ScheduleStatus `json:"status"`
	Slots  []TimeSlot     `json:"slots"`
}

// RecurringDayList is the JSONB-persisted weekly map.
type RecurringDayList []RecurringDay

// Value implements driver.Valuer for JSONB storage.
func (l RecurringDayList) Value() (driver.Value, error) {
	if l == nil {
		l = RecurringDayList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage.
func (l *RecurringDayList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// RecurringSchedule is the weekly-repeating availability template for an
// employer, bounded by an effective date window. One row per employer;
// writes replace the whole weekly map.
type RecurringSchedule struct {
	EmployerID     string           `db:"employer_id" json:"employer_id"`
	Days           RecurringDayList `db:"days" json:"days"`
	EffectiveFrom  string           `db:"effective_from" json:"effective_from"`
	EffectiveUntil *string          `db:"effective_until" json:"effective_until,omitempty"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// DayEntry returns the entry for the given weekday name, if present.
func (s *RecurringSchedule) DayEntry(weekday string) *RecurringDay {
	for i := range s.Days {
		if s.Days[i].Day == weekday {
			return &s.Days[i]
		}
	}
	return nil
}

// Covers reports whether date falls inside the effective window. The
// window is inclusive on both ends; a nil EffectiveUntil is open-ended.
func (s *RecurringSchedule) Covers(date string) bool {
	if date < s.EffectiveFrom {
		return false
	}
	if s.EffectiveUntil != nil && date > *s.EffectiveUntil {
		return false
	}
	return true
}

// SpecificSchedule is a date-exact availability definition. When active
// it is the exclusive source of availability for its date, even with an
// empty slot list.
type SpecificSchedule struct {
	ID         string         `db:"id" json:"id"`
	EmployerID string         `db:"employer_id" json:"employer_id"`
	Date       string         `db:"date" json:"date"`
	Status     ScheduleStatus `db:"status" json:"status"`
	TimeSlots  SlotList       `db:"time_slots" json:"time_slots"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// EmployerSchedule bundles both availability sources for an employer.
type EmployerSchedule struct {
	Recurring *RecurringSchedule `json:"recurring,omitempty"`
	Specific  []SpecificSchedule `json:"specific"`
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
}
