package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hirelane/interview-booking-api/internal/dto"
	"github.com/hirelane/interview-booking-api/internal/models"
	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
	"github.com/hirelane/interview-booking-api/pkg/timeslot"
)

type scheduleRepository interface {
	GetRecurring(ctx context.Context, employerID string) (*models.RecurringSchedule, error)
	ListSpecific(ctx context.Context, employerID string) ([]models.SpecificSchedule, error)
	FindSpecificByDate(ctx context.Context, employerID, date string) (*models.SpecificSchedule, error)
	UpsertRecurring(ctx context.Context, schedule *models.RecurringSchedule) error
	UpsertSpecific(ctx context.Context, entry *models.SpecificSchedule) error
}

type availabilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ScheduleService owns the employer availability sources: the weekly
// recurring template and the date-exact overrides. Every write fully
// replaces the targeted slot list and drops the employer's cached
// availability.
type ScheduleService struct {
	repo      scheduleRepository
	cache     availabilityCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(repo scheduleRepository, cache availabilityCache, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// GetSchedule returns both availability sources for the employer.
func (s *ScheduleService) GetSchedule(ctx context.Context, employerID string) (*models.EmployerSchedule, error) {
	recurring, err := s.repo.GetRecurring(ctx, employerID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recurring schedule")
	}

	specific, err := s.repo.ListSpecific(ctx, employerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load specific schedules")
	}

	if recurring == nil && len(specific) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "employer has no schedule configured")
	}

	if specific == nil {
		specific = []models.SpecificSchedule{}
	}
	return &models.EmployerSchedule{Recurring: recurring, Specific: specific}, nil
}

// SetRecurring replaces the employer's whole weekly template.
func (s *ScheduleService) SetRecurring(ctx context.Context, employerID string, req dto.SetRecurringRequest) (*models.RecurringSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recurring schedule payload")
	}

	if _, err := time.Parse(models.DateLayout, req.EffectiveFrom); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "effective_from must be YYYY-MM-DD")
	}
	if req.EffectiveUntil != nil {
		if _, err := time.Parse(models.DateLayout, *req.EffectiveUntil); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "effective_until must be YYYY-MM-DD")
		}
		if *req.EffectiveUntil < req.EffectiveFrom {
			return nil, appErrors.Clone(appErrors.ErrValidation, "effective_until precedes effective_from")
		}
	}

	days := make(models.RecurringDayList, 0, len(req.Days))
	seen := make(map[string]struct{}, len(req.Days))
	for _, day := range req.Days {
		if !models.IsWeekday(day.Day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weekday %q", day.Day))
		}
		if _, dup := seen[day.Day]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate weekday %q", day.Day))
		}
		seen[day.Day] = struct{}{}

		slots, err := normaliseSlots(day.Slots)
		if err != nil {
			return nil, err
		}
		days = append(days, models.RecurringDay{
			Day:    day.Day,
			Status: models.ScheduleStatus(day.Status),
			Slots:  slots,
		})
	}

	schedule := &models.RecurringSchedule{
		EmployerID:     employerID,
		Days:           days,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveUntil: req.EffectiveUntil,
	}
	if err := s.repo.UpsertRecurring(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store recurring schedule")
	}

	s.invalidate(ctx, employerID)
	return schedule, nil
}

// SetSpecific creates or replaces the date-exact entry for one date.
func (s *ScheduleService) SetSpecific(ctx context.Context, employerID string, req dto.SetSpecificRequest) (*models.SpecificSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid specific schedule payload")
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	slots, err := normaliseSlots(req.TimeSlots)
	if err != nil {
		return nil, err
	}

	entry := &models.SpecificSchedule{
		EmployerID: employerID,
		Date:       req.Date,
		Status:     models.ScheduleStatus(req.Status),
		TimeSlots:  slots,
	}
	if err := s.repo.UpsertSpecific(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store specific schedule")
	}

	s.invalidate(ctx, employerID)
	return entry, nil
}

func (s *ScheduleService) invalidate(ctx context.Context, employerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, availabilityPattern(employerID)); err != nil {
		s.logger.Warn("availability cache invalidation failed",
			zap.String("employer_id", employerID), zap.Error(err))
	}
}

func availabilityPattern(employerID string) string {
	return fmt.Sprintf("availability:%s:*", employerID)
}

func availabilityKey(employerID, date string) string {
	return fmt.Sprintf("availability:%s:%s", employerID, date)
}

// normaliseSlots validates bounds and mutual disjointness, returning the
// slots sorted ascending by start minute.
func normaliseSlots(payloads []dto.SlotPayload) ([]models.TimeSlot, error) {
	intervals := make([]timeslot.Interval, 0, len(payloads))
	slots := make([]models.TimeSlot, 0, len(payloads))
	for _, p := range payloads {
		iv, err := timeslot.ParseInterval(p.Start, p.End)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		intervals = append(intervals, iv)
		slots = append(slots, models.TimeSlot{Start: p.Start, End: p.End})
	}
	if err := timeslot.ValidateSequence(intervals); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	return slots, nil
}
