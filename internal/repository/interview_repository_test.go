package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelane/interview-booking-api/internal/models"
)

var interviewTestColumns = []string{
	"id", "employer_id", "jobseeker_id", "job_id", "application_id",
	"date", "start_time", "end_time", "status", "result", "feedback",
	"cancel_reason", "cancel_info", "cancelled_at",
	"prev_date", "prev_start_time", "prev_end_time",
	"created_at", "updated_at",
}

func interviewRow(id, start, end string, status models.InterviewStatus) []driverValue {
	now := time.Now()
	return []driverValue{
		id, "emp-1", "seeker-1", "job-1", "app-1",
		"2026-09-07", start, end, string(status), nil, nil,
		nil, nil, nil,
		nil, nil, nil,
		now, now,
	}
}

type driverValue = driver.Value

func TestInterviewRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	rows := sqlmock.NewRows(interviewTestColumns).
		AddRow(interviewRow("iv-1", "09:00", "09:50", models.InterviewScheduled)...).
		AddRow(interviewRow("iv-2", "10:00", "10:50", models.InterviewPending)...)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE employer_id = $1 AND date = $2 AND status <> $3")).
		WithArgs("emp-1", "2026-09-07", string(models.InterviewCancelled)).
		WillReturnRows(rows)

	items, err := repo.ListActive(context.Background(), "emp-1", "2026-09-07")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "09:00", items[0].StartTime)
	assert.Equal(t, models.InterviewPending, items[1].Status)
}

func TestInterviewRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM interviews WHERE id = $1")).
		WithArgs("iv-missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "iv-missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInterviewRepositoryWithSlotLockCommit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("emp-1", "2026-09-07", string(models.InterviewCancelled)).
		WillReturnRows(sqlmock.NewRows(interviewTestColumns))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO interviews")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithSlotLock(context.Background(), "emp-1", "2026-09-07", func(tx *sqlx.Tx, active []models.Interview) error {
		require.Empty(t, active)
		iv := &models.Interview{
			EmployerID: "emp-1", JobseekerID: "seeker-1", JobID: "job-1", ApplicationID: "app-1",
			Date: "2026-09-07", StartTime: "10:00", EndTime: "10:50", Status: models.InterviewPending,
		}
		return repo.Insert(context.Background(), tx, iv)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInterviewRepositoryWithSlotLockRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("emp-1", "2026-09-07", string(models.InterviewCancelled)).
		WillReturnRows(sqlmock.NewRows(interviewTestColumns).
			AddRow(interviewRow("iv-1", "10:00", "10:50", models.InterviewScheduled)...))
	mock.ExpectRollback()

	wantErr := errors.New("slot taken")
	err := repo.WithSlotLock(context.Background(), "emp-1", "2026-09-07", func(tx *sqlx.Tx, active []models.Interview) error {
		require.Len(t, active, 1)
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInterviewRepositoryUpdateNoRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE interviews")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	iv := &models.Interview{ID: "iv-gone", Status: models.InterviewCancelled}
	err := repo.Update(context.Background(), nil, iv)
	assert.Error(t, err)
}

func TestInterviewRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM interviews")).
		WithArgs("emp-1", string(models.InterviewScheduled)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM interviews WHERE")).
		WithArgs("emp-1", string(models.InterviewScheduled)).
		WillReturnRows(sqlmock.NewRows(interviewTestColumns).
			AddRow(interviewRow("iv-1", "09:00", "09:50", models.InterviewScheduled)...))

	items, total, err := repo.List(context.Background(), models.InterviewFilter{
		EmployerID: "emp-1",
		Status:     string(models.InterviewScheduled),
		Page:       1,
		PageSize:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "iv-1", items[0].ID)
}

func TestIsDuplicateSlot(t *testing.T) {
	raw := &pq.Error{Code: "23505", Constraint: ActiveSlotConstraint}
	assert.True(t, IsDuplicateSlot(raw))
	assert.True(t, IsDuplicateSlot(fmt.Errorf("insert interview: %w", raw)))

	other := &pq.Error{Code: "23505", Constraint: "interviews_pkey"}
	assert.False(t, IsDuplicateSlot(other))
	assert.False(t, IsDuplicateSlot(errors.New("plain")))
	assert.False(t, IsDuplicateSlot(nil))
}
