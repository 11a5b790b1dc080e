package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelane/interview-booking-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestScheduleRepositoryGetRecurring(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	days := []byte(`[{"day":"MONDAY","status":"ACTIVE","slots":[{"start":"09:00","end":"09:50"}]}]`)
	rows := sqlmock.NewRows([]string{"employer_id", "days", "effective_from", "effective_until", "updated_at"}).
		AddRow("emp-1", days, "2026-01-01", sql.NullString{}, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("FROM recurring_schedules WHERE employer_id = $1")).
		WithArgs("emp-1").
		WillReturnRows(rows)

	schedule, err := repo.GetRecurring(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", schedule.EmployerID)
	assert.Equal(t, "2026-01-01", schedule.EffectiveFrom)
	assert.Nil(t, schedule.EffectiveUntil)
	require.Len(t, schedule.Days, 1)
	assert.Equal(t, models.Monday, schedule.Days[0].Day)
	require.Len(t, schedule.Days[0].Slots, 1)
	assert.Equal(t, "09:00", schedule.Days[0].Slots[0].Start)
}

func TestScheduleRepositoryGetRecurringMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM recurring_schedules")).
		WithArgs("emp-missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetRecurring(context.Background(), "emp-missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestScheduleRepositoryFindSpecificByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	slots := []byte(`[{"start":"13:00","end":"13:50"}]`)
	rows := sqlmock.NewRows([]string{"id", "employer_id", "date", "status", "time_slots", "created_at", "updated_at"}).
		AddRow("spec-1", "emp-1", "2026-09-07", "ACTIVE", slots, time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("FROM specific_schedules WHERE employer_id = $1 AND date = $2")).
		WithArgs("emp-1", "2026-09-07").
		WillReturnRows(rows)

	entry, err := repo.FindSpecificByDate(context.Background(), "emp-1", "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusActive, entry.Status)
	require.Len(t, entry.TimeSlots, 1)
	assert.Equal(t, "13:00", entry.TimeSlots[0].Start)
}

func TestScheduleRepositoryUpsertRecurring(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO recurring_schedules")).
		WithArgs("emp-1", sqlmock.AnyArg(), "2026-01-01", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	schedule := &models.RecurringSchedule{
		EmployerID:    "emp-1",
		EffectiveFrom: "2026-01-01",
		Days: models.RecurringDayList{
			{Day: models.Monday, Status: models.ScheduleStatusActive, Slots: []models.TimeSlot{{Start: "09:00", End: "09:50"}}},
		},
	}
	require.NoError(t, repo.UpsertRecurring(context.Background(), schedule))
	assert.False(t, schedule.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryUpsertSpecificAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO specific_schedules")).
		WithArgs(sqlmock.AnyArg(), "emp-1", "2026-09-07", "ACTIVE", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &models.SpecificSchedule{
		EmployerID: "emp-1",
		Date:       "2026-09-07",
		Status:     models.ScheduleStatusActive,
		TimeSlots:  models.SlotList{{Start: "13:00", End: "13:50"}},
	}
	require.NoError(t, repo.UpsertSpecific(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
