package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hirelane/interview-booking-api/internal/models"
)

// ActiveSlotConstraint is the partial unique index on
// (employer_id, date, start_time, end_time) WHERE status <> 'CANCELLED'.
// It backstops the allocator: even if two writers slip past validation,
// at most one identical active slot can ever be committed.
const ActiveSlotConstraint = "interviews_active_slot_key"

// InterviewRepository persists interviews, indexed by (employer_id, date)
// for overlap queries. Rows are never deleted.
type InterviewRepository struct {
	db *sqlx.DB
}

// NewInterviewRepository builds the repository.
func NewInterviewRepository(db *sqlx.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

func (r *InterviewRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const interviewColumns = `id, employer_id, jobseeker_id, job_id, application_id,
to_char(date, 'YYYY-MM-DD') AS date, start_time, end_time, status, result, feedback,
cancel_reason, cancel_info, cancelled_at,
to_char(prev_date, 'YYYY-MM-DD') AS prev_date, prev_start_time, prev_end_time,
created_at, updated_at`

// FindByID loads one interview, sql.ErrNoRows when absent.
func (r *InterviewRepository) FindByID(ctx context.Context, id string) (*models.Interview, error) {
	query := fmt.Sprintf(`SELECT %s FROM interviews WHERE id = $1`, interviewColumns)
	var iv models.Interview
	if err := r.db.GetContext(ctx, &iv, query, id); err != nil {
		return nil, err
	}
	return &iv, nil
}

// ListActive returns every non-cancelled interview for the employer and
// date, ordered by start time. Unsynchronised; staleness is acceptable
// for display reads.
func (r *InterviewRepository) ListActive(ctx context.Context, employerID, date string) ([]models.Interview, error) {
	query := fmt.Sprintf(`SELECT %s FROM interviews
WHERE employer_id = $1 AND date = $2 AND status <> $3
ORDER BY start_time ASC`, interviewColumns)
	var items []models.Interview
	if err := r.db.SelectContext(ctx, &items, query, employerID, date, models.InterviewCancelled); err != nil {
		return nil, fmt.Errorf("list active interviews: %w", err)
	}
	return items, nil
}

// WithSlotLock runs fn inside a transaction holding row locks on every
// active interview for the (employer, date) pair. Row locks alone do not
// fence concurrent inserts; callers additionally serialise through the
// keyed mutex, and ActiveSlotConstraint catches anything that slips by.
func (r *InterviewRepository) WithSlotLock(ctx context.Context, employerID, date string, fn func(tx *sqlx.Tx, active []models.Interview) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := fmt.Sprintf(`SELECT %s FROM interviews
WHERE employer_id = $1 AND date = $2 AND status <> $3
ORDER BY start_time ASC
FOR UPDATE`, interviewColumns)
	var active []models.Interview
	if err = tx.SelectContext(ctx, &active, query, employerID, date, models.InterviewCancelled); err != nil {
		return fmt.Errorf("lock active interviews: %w", err)
	}

	if err = fn(tx, active); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit booking transaction: %w", err)
	}
	return nil
}

// Insert persists a new interview.
func (r *InterviewRepository) Insert(ctx context.Context, exec sqlx.ExtContext, iv *models.Interview) error {
	now := time.Now().UTC()
	if iv.ID == "" {
		iv.ID = uuid.NewString()
	}
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = now
	}
	iv.UpdatedAt = now

	const query = `
INSERT INTO interviews (id, employer_id, jobseeker_id, job_id, application_id,
	date, start_time, end_time, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.exec(exec).ExecContext(ctx, query,
		iv.ID, iv.EmployerID, iv.JobseekerID, iv.JobID, iv.ApplicationID,
		iv.Date, iv.StartTime, iv.EndTime, iv.Status, iv.CreatedAt, iv.UpdatedAt); err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

// Update rewrites every mutable column of the interview row.
func (r *InterviewRepository) Update(ctx context.Context, exec sqlx.ExtContext, iv *models.Interview) error {
	iv.UpdatedAt = time.Now().UTC()
	const query = `
UPDATE interviews
SET date = $2, start_time = $3, end_time = $4, status = $5, result = $6, feedback = $7,
    cancel_reason = $8, cancel_info = $9, cancelled_at = $10,
    prev_date = $11, prev_start_time = $12, prev_end_time = $13,
    updated_at = $14
WHERE id = $1`
	res, err := r.exec(exec).ExecContext(ctx, query,
		iv.ID, iv.Date, iv.StartTime, iv.EndTime, iv.Status, iv.Result, iv.Feedback,
		iv.CancelReason, iv.CancelInfo, iv.CancelledAt,
		iv.PrevDate, iv.PrevStartTime, iv.PrevEndTime,
		iv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update interview: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update interview %s: no row", iv.ID)
	}
	return nil
}

// List returns interviews matching the filter with a total count.
func (r *InterviewRepository) List(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addFilter("employer_id", filter.EmployerID)
	addFilter("jobseeker_id", filter.JobseekerID)
	addFilter("job_id", filter.JobID)
	addFilter("date", filter.Date)
	addFilter("status", filter.Status)

	where := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM interviews WHERE " + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count interviews: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	query := fmt.Sprintf(`SELECT %s FROM interviews WHERE %s
ORDER BY date DESC, start_time ASC
LIMIT %s OFFSET %s`, interviewColumns, where, strconv.Itoa(size), strconv.Itoa((page-1)*size))

	var items []models.Interview
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list interviews: %w", err)
	}
	return items, total, nil
}

// ListRange returns an employer's interviews inside [from, to], both
// inclusive, for exports.
func (r *InterviewRepository) ListRange(ctx context.Context, employerID, from, to string, limit int) ([]models.Interview, error) {
	query := fmt.Sprintf(`SELECT %s FROM interviews
WHERE employer_id = $1 AND date BETWEEN $2 AND $3
ORDER BY date ASC, start_time ASC
LIMIT $4`, interviewColumns)
	var items []models.Interview
	if err := r.db.SelectContext(ctx, &items, query, employerID, from, to, limit); err != nil {
		return nil, fmt.Errorf("list interviews in range: %w", err)
	}
	return items, nil
}

// IsDuplicateSlot reports whether err is the unique-violation raised by
// ActiveSlotConstraint.
func IsDuplicateSlot(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == ActiveSlotConstraint
}
