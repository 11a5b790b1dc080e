package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to InterviewStatus
		want     bool
	}{
		{InterviewPending, InterviewScheduled, true},
		{InterviewPending, InterviewCancelled, true},
		{InterviewScheduled, InterviewCompleted, true},
		{InterviewScheduled, InterviewCancelled, true},
		{InterviewCancelled, InterviewScheduled, true},
		{InterviewCompleted, InterviewCancelled, false},
		{InterviewCompleted, InterviewScheduled, false},
		{InterviewCancelled, InterviewCompleted, false},
		{InterviewPending, InterviewCompleted, false},
		{InterviewRescheduled, InterviewScheduled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusActive(t *testing.T) {
	assert.True(t, InterviewPending.Active())
	assert.True(t, InterviewScheduled.Active())
	assert.True(t, InterviewCompleted.Active())
	assert.True(t, InterviewRescheduled.Active())
	assert.False(t, InterviewCancelled.Active())
}

func TestWeekdayOf(t *testing.T) {
	day, err := WeekdayOf("2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, Monday, day)

	day, err = WeekdayOf("2026-09-13")
	require.NoError(t, err)
	assert.Equal(t, Sunday, day)

	_, err = WeekdayOf("07-09-2026")
	assert.Error(t, err)
}

func TestRecurringScheduleCovers(t *testing.T) {
	until := "2026-12-31"
	s := RecurringSchedule{EffectiveFrom: "2026-01-01", EffectiveUntil: &until}

	assert.True(t, s.Covers("2026-01-01"))
	assert.True(t, s.Covers("2026-06-15"))
	assert.True(t, s.Covers("2026-12-31"))
	assert.False(t, s.Covers("2025-12-31"))
	assert.False(t, s.Covers("2027-01-01"))

	open := RecurringSchedule{EffectiveFrom: "2026-01-01"}
	assert.True(t, open.Covers("2030-05-05"))
}

func TestInterviewHistoryAccessors(t *testing.T) {
	iv := Interview{}
	assert.Nil(t, iv.Cancellation())
	assert.Nil(t, iv.RescheduledFrom())

	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	reason := "schedule_conflict"
	info := "travelling that week"
	iv.CancelledAt = &now
	iv.CancelReason = &reason
	iv.CancelInfo = &info

	c := iv.Cancellation()
	require.NotNil(t, c)
	assert.Equal(t, "schedule_conflict", c.Reason)
	assert.Equal(t, "travelling that week", c.AdditionalInfo)
	assert.Equal(t, now, c.CancelledAt)

	date, start, end := "2026-09-01", "09:00", "09:50"
	iv.PrevDate, iv.PrevStartTime, iv.PrevEndTime = &date, &start, &end
	prev := iv.RescheduledFrom()
	require.NotNil(t, prev)
	assert.Equal(t, SlotRef{Date: "2026-09-01", StartTime: "09:00", EndTime: "09:50"}, *prev)
}
