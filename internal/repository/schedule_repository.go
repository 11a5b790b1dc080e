package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hirelane/interview-booking-api/internal/models"
)

// ScheduleRepository is the durable source of truth for employer
// availability: one recurring template row per employer plus zero or
// more date-exact entries, at most one per date.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository builds the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const recurringColumns = `employer_id, days,
to_char(effective_from, 'YYYY-MM-DD') AS effective_from,
to_char(effective_until, 'YYYY-MM-DD') AS effective_until,
updated_at`

const specificColumns = `id, employer_id, to_char(date, 'YYYY-MM-DD') AS date, status, time_slots, created_at, updated_at`

// GetRecurring returns the employer's weekly template, sql.ErrNoRows
// when none is configured.
func (r *ScheduleRepository) GetRecurring(ctx context.Context, employerID string) (*models.RecurringSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM recurring_schedules WHERE employer_id = $1`, recurringColumns)
	var schedule models.RecurringSchedule
	if err := r.db.GetContext(ctx, &schedule, query, employerID); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListSpecific returns every date-exact entry for the employer ordered by date.
func (r *ScheduleRepository) ListSpecific(ctx context.Context, employerID string) ([]models.SpecificSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM specific_schedules WHERE employer_id = $1 ORDER BY date ASC`, specificColumns)
	var entries []models.SpecificSchedule
	if err := r.db.SelectContext(ctx, &entries, query, employerID); err != nil {
		return nil, fmt.Errorf("list specific schedules: %w", err)
	}
	return entries, nil
}

// FindSpecificByDate returns the entry for the exact date, sql.ErrNoRows
// when the employer has none for that date.
func (r *ScheduleRepository) FindSpecificByDate(ctx context.Context, employerID, date string) (*models.SpecificSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM specific_schedules WHERE employer_id = $1 AND date = $2`, specificColumns)
	var entry models.SpecificSchedule
	if err := r.db.GetContext(ctx, &entry, query, employerID, date); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpsertRecurring replaces the employer's whole weekly map. Partial
// merges are never performed.
func (r *ScheduleRepository) UpsertRecurring(ctx context.Context, schedule *models.RecurringSchedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `
INSERT INTO recurring_schedules (employer_id, days, effective_from, effective_until, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (employer_id) DO UPDATE
SET days = EXCLUDED.days,
    effective_from = EXCLUDED.effective_from,
    effective_until = EXCLUDED.effective_until,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		schedule.EmployerID, schedule.Days, schedule.EffectiveFrom, schedule.EffectiveUntil, schedule.UpdatedAt); err != nil {
		return fmt.Errorf("upsert recurring schedule: %w", err)
	}
	return nil
}

// UpsertSpecific creates or fully replaces the entry for one date.
func (r *ScheduleRepository) UpsertSpecific(ctx context.Context, entry *models.SpecificSchedule) error {
	now := time.Now().UTC()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `
INSERT INTO specific_schedules (id, employer_id, date, status, time_slots, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (employer_id, date) DO UPDATE
SET status = EXCLUDED.status,
    time_slots = EXCLUDED.time_slots,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.EmployerID, entry.Date, entry.Status, entry.TimeSlots, entry.CreatedAt, entry.UpdatedAt); err != nil {
		return fmt.Errorf("upsert specific schedule: %w", err)
	}
	return nil
}
