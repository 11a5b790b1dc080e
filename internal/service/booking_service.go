package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/hirelane/interview-booking-api/internal/dto"
	"github.com/hirelane/interview-booking-api/internal/gateway"
	"github.com/hirelane/interview-booking-api/internal/models"
	"github.com/hirelane/interview-booking-api/internal/repository"
	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
	"github.com/hirelane/interview-booking-api/pkg/lock"
	"github.com/hirelane/interview-booking-api/pkg/timeslot"
)

type interviewRepository interface {
	FindByID(ctx context.Context, id string) (*models.Interview, error)
	ListActive(ctx context.Context, employerID, date string) ([]models.Interview, error)
	WithSlotLock(ctx context.Context, employerID, date string, fn func(tx *sqlx.Tx, active []models.Interview) error) error
	Insert(ctx context.Context, exec sqlx.ExtContext, iv *models.Interview) error
	Update(ctx context.Context, exec sqlx.ExtContext, iv *models.Interview) error
	List(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, int, error)
}

type applicationVerifier interface {
	GetApplication(ctx context.Context, applicationID string) (*gateway.Application, error)
}

type sideEffects interface {
	InterviewBooked(iv models.Interview)
	InterviewConfirmed(iv models.Interview)
	InterviewCancelled(iv models.Interview)
	InterviewRescheduled(iv models.Interview)
	InterviewCompleted(iv models.Interview)
}

type bookingObserver interface {
	ObserveBooking(outcome string)
}

// BookingService is the sole mutation point for interviews. Booking and
// reschedule re-validate against the ledger inside a transaction while
// holding the per-(employer, date) mutex, so concurrent requests for
// the same slot cannot both pass validation; the storage-level unique
// constraint backstops the pair.
type BookingService struct {
	repo      interviewRepository
	cache     availabilityCache
	locks     *lock.Keyed
	verifier  applicationVerifier
	effects   sideEffects
	metrics   bookingObserver
	validator *validator.Validate
	now       func() time.Time
	logger    *zap.Logger
}

// BookingOptions carries optional collaborator hooks.
type BookingOptions struct {
	Verifier applicationVerifier
	Effects  sideEffects
	Metrics  bookingObserver
	Now      func() time.Time
}

// NewBookingService instantiates BookingService.
func NewBookingService(repo interviewRepository, cache availabilityCache, validate *validator.Validate, opts BookingOptions, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &BookingService{
		repo:      repo,
		cache:     cache,
		locks:     lock.NewKeyed(),
		verifier:  opts.Verifier,
		effects:   opts.Effects,
		metrics:   opts.Metrics,
		validator: validate,
		now:       opts.Now,
		logger:    logger,
	}
}

func slotKey(employerID, date string) string {
	return employerID + "|" + date
}

// RequestBooking validates and atomically commits a booking request. The
// ledger is re-read at commit time; an earlier availability read is
// never trusted.
func (s *BookingService) RequestBooking(ctx context.Context, req dto.BookingRequest) (*models.Interview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	requested, err := timeslot.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	if err := s.verifyApplication(ctx, req.ApplicationID); err != nil {
		return nil, err
	}

	iv := &models.Interview{
		EmployerID:    req.EmployerID,
		JobseekerID:   req.JobseekerID,
		JobID:         req.JobID,
		ApplicationID: req.ApplicationID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        models.InterviewPending,
	}

	key := slotKey(req.EmployerID, req.Date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	err = s.repo.WithSlotLock(ctx, req.EmployerID, req.Date, func(tx *sqlx.Tx, active []models.Interview) error {
		if err := ensureFree(requested, active); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, iv)
	})
	if err != nil {
		if repository.IsDuplicateSlot(err) {
			err = appErrors.Clone(appErrors.ErrSlotUnavailable, "")
		}
		s.observeBooking(err)
		return nil, err
	}
	s.observeBooking(nil)

	s.invalidateAvailability(ctx, req.EmployerID)
	if s.effects != nil {
		s.effects.InterviewBooked(*iv)
	}
	s.logger.Info("interview booked",
		zap.String("interview_id", iv.ID),
		zap.String("employer_id", iv.EmployerID),
		zap.String("date", iv.Date),
		zap.String("slot", iv.StartTime+"-"+iv.EndTime))
	return iv, nil
}

// Confirm moves a pending interview to scheduled.
func (s *BookingService) Confirm(ctx context.Context, id string) (*models.Interview, error) {
	iv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.Status != models.InterviewPending {
		return nil, invalidTransition(iv.Status, models.InterviewScheduled)
	}

	iv.Status = models.InterviewScheduled
	if err := s.repo.Update(ctx, nil, iv); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm interview")
	}
	if s.effects != nil {
		s.effects.InterviewConfirmed(*iv)
	}
	return iv, nil
}

// Cancel calls off a pending or scheduled interview, recording the
// reason and timestamp. The row keeps occupying no ledger space from
// here on.
func (s *BookingService) Cancel(ctx context.Context, id string, req dto.CancelRequest) (*models.Interview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cancellation payload")
	}

	iv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(iv.Status, models.InterviewCancelled) {
		return nil, invalidTransition(iv.Status, models.InterviewCancelled)
	}

	now := s.now().UTC()
	iv.Status = models.InterviewCancelled
	iv.CancelReason = &req.Reason
	iv.CancelledAt = &now
	if req.AdditionalInfo != "" {
		info := req.AdditionalInfo
		iv.CancelInfo = &info
	}

	if err := s.repo.Update(ctx, nil, iv); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel interview")
	}

	s.invalidateAvailability(ctx, iv.EmployerID)
	if s.effects != nil {
		s.effects.InterviewCancelled(*iv)
	}
	return iv, nil
}

// Reschedule moves a cancelled interview to a new validated slot,
// keeping the prior slot retrievable on the row. The update runs
// through the same allocator discipline as a fresh booking.
func (s *BookingService) Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (*models.Interview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule payload")
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	requested, err := timeslot.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	iv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(iv.Status, models.InterviewScheduled) || iv.Status != models.InterviewCancelled {
		return nil, invalidTransition(iv.Status, models.InterviewScheduled)
	}

	prevDate, prevStart, prevEnd := iv.Date, iv.StartTime, iv.EndTime

	key := slotKey(iv.EmployerID, req.Date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	err = s.repo.WithSlotLock(ctx, iv.EmployerID, req.Date, func(tx *sqlx.Tx, active []models.Interview) error {
		if err := ensureFree(requested, active); err != nil {
			return err
		}
		iv.Date = req.Date
		iv.StartTime = req.StartTime
		iv.EndTime = req.EndTime
		iv.Status = models.InterviewScheduled
		iv.PrevDate = &prevDate
		iv.PrevStartTime = &prevStart
		iv.PrevEndTime = &prevEnd
		return s.repo.Update(ctx, tx, iv)
	})
	if err != nil {
		if repository.IsDuplicateSlot(err) {
			err = appErrors.Clone(appErrors.ErrSlotUnavailable, "")
		}
		s.observeBooking(err)
		return nil, err
	}
	s.observeBooking(nil)

	s.invalidateAvailability(ctx, iv.EmployerID)
	if s.effects != nil {
		s.effects.InterviewRescheduled(*iv)
	}
	s.logger.Info("interview rescheduled",
		zap.String("interview_id", iv.ID),
		zap.String("from", prevDate+" "+prevStart),
		zap.String("to", iv.Date+" "+iv.StartTime))
	return iv, nil
}

// Complete finishes a scheduled interview with a result and feedback.
func (s *BookingService) Complete(ctx context.Context, id string, req dto.CompleteRequest) (*models.Interview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid completion payload")
	}

	iv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.Status != models.InterviewScheduled {
		return nil, invalidTransition(iv.Status, models.InterviewCompleted)
	}

	result := models.InterviewResult(req.Result)
	iv.Status = models.InterviewCompleted
	iv.Result = &result
	if req.Feedback != "" {
		feedback := req.Feedback
		iv.Feedback = &feedback
	}

	if err := s.repo.Update(ctx, nil, iv); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete interview")
	}
	if s.effects != nil {
		s.effects.InterviewCompleted(*iv)
	}
	return iv, nil
}

// Get loads one interview.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Interview, error) {
	return s.load(ctx, id)
}

// List returns interviews matching the filter with pagination metadata.
func (s *BookingService) List(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interviews")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

func (s *BookingService) load(ctx context.Context, id string) (*models.Interview, error) {
	iv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "interview not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interview")
	}
	return iv, nil
}

// verifyApplication is advisory: a reachable registry that denies the
// application fails the booking, an unreachable registry is logged and
// skipped so the commit path depends only on local state.
func (s *BookingService) verifyApplication(ctx context.Context, applicationID string) error {
	if s.verifier == nil {
		return nil
	}
	_, err := s.verifier.GetApplication(ctx, applicationID)
	if err == nil {
		return nil
	}
	if appErrors.Is(err, appErrors.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	s.logger.Warn("application registry unreachable, skipping verification",
		zap.String("application_id", applicationID), zap.Error(err))
	return nil
}

// ensureFree rejects the requested interval when it overlaps any active
// interview.
func ensureFree(requested timeslot.Interval, active []models.Interview) error {
	for i := range active {
		start, err1 := timeslot.Minutes(active[i].StartTime)
		end, err2 := timeslot.Minutes(active[i].EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if timeslot.Overlaps(requested.Start, requested.End, start, end) {
			return appErrors.Clone(appErrors.ErrSlotUnavailable,
				fmt.Sprintf("slot conflicts with interview %s (%s-%s)", active[i].ID, active[i].StartTime, active[i].EndTime))
		}
	}
	return nil
}

func invalidTransition(from, to models.InterviewStatus) error {
	return appErrors.Clone(appErrors.ErrInvalidTransition,
		fmt.Sprintf("cannot move interview from %s to %s", from, to))
}

func (s *BookingService) invalidateAvailability(ctx context.Context, employerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, availabilityPattern(employerID)); err != nil {
		s.logger.Warn("availability cache invalidation failed",
			zap.String("employer_id", employerID), zap.Error(err))
	}
}

func (s *BookingService) observeBooking(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.ObserveBooking("committed")
	case appErrors.Is(err, appErrors.ErrSlotUnavailable):
		s.metrics.ObserveBooking("slot_unavailable")
	default:
		s.metrics.ObserveBooking("error")
	}
}
