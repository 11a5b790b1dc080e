package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hirelane/interview-booking-api/internal/dto"
	"github.com/hirelane/interview-booking-api/internal/models"
	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
	"github.com/hirelane/interview-booking-api/pkg/timeslot"
)

type interviewLedger interface {
	ListActive(ctx context.Context, employerID, date string) ([]models.Interview, error)
}

type cacheObserver interface {
	ObserveCacheLookup(hit bool)
}

// AvailabilityService turns an employer's declared schedules into
// concrete, ledger-annotated bookable slots. Reads are unsynchronised;
// a short-TTL cache plus write-side invalidation keeps staleness within
// display tolerance.
type AvailabilityService struct {
	schedules scheduleRepository
	ledger    interviewLedger
	cache     availabilityCache
	metrics   cacheObserver

	cacheEnabled bool
	cacheTTL     time.Duration
	maxRangeDays int

	now    func() time.Time
	logger *zap.Logger
}

// AvailabilityOptions tunes caching and range limits.
type AvailabilityOptions struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	MaxRangeDays int
	Now          func() time.Time
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(schedules scheduleRepository, ledger interviewLedger, cache availabilityCache, metrics cacheObserver, opts AvailabilityOptions, logger *zap.Logger) *AvailabilityService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = 31
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		schedules:    schedules,
		ledger:       ledger,
		cache:        cache,
		metrics:      metrics,
		cacheEnabled: opts.CacheEnabled,
		cacheTTL:     opts.CacheTTL,
		maxRangeDays: opts.MaxRangeDays,
		now:          opts.Now,
		logger:       logger,
	}
}

// ResolveDay computes the raw slot list for one employer and date,
// before booking annotation. Precedence: an ACTIVE specific entry for
// the exact date is the exclusive source, even when its slot list is
// empty; otherwise the recurring template applies when the date falls
// inside its effective window and the weekday entry is ACTIVE. Same-day
// slots whose start is not strictly after the current wall-clock time
// are dropped. Result is ordered ascending by start.
func (s *AvailabilityService) ResolveDay(ctx context.Context, employerID, date string) ([]models.TimeSlot, error) {
	if _, err := models.WeekdayOf(date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	specific, err := s.schedules.FindSpecificByDate(ctx, employerID, date)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load specific schedule")
	}

	recurring, err := s.schedules.GetRecurring(ctx, employerID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recurring schedule")
	}

	var specificByDate map[string]*models.SpecificSchedule
	if specific != nil {
		specificByDate = map[string]*models.SpecificSchedule{date: specific}
	}
	return s.resolve(recurring, specificByDate, date), nil
}

// GetAvailability resolves every date in [from, to] and annotates each
// day with the booking ledger.
func (s *AvailabilityService) GetAvailability(ctx context.Context, req dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	from, err := time.Parse(models.DateLayout, req.From)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
	}
	to, err := time.Parse(models.DateLayout, req.To)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to precedes from")
	}
	if int(to.Sub(from).Hours()/24)+1 > s.maxRangeDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requested range too large")
	}

	recurring, err := s.schedules.GetRecurring(ctx, req.EmployerID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recurring schedule")
	}
	specifics, err := s.schedules.ListSpecific(ctx, req.EmployerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load specific schedules")
	}
	if recurring == nil && len(specifics) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "employer has no schedule configured")
	}

	specificByDate := make(map[string]*models.SpecificSchedule, len(specifics))
	for i := range specifics {
		specificByDate[specifics[i].Date] = &specifics[i]
	}

	resp := &dto.AvailabilityResponse{EmployerID: req.EmployerID}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(models.DateLayout)
		slots, err := s.dayWithLedger(ctx, req.EmployerID, date, recurring, specificByDate)
		if err != nil {
			return nil, err
		}
		resp.Days = append(resp.Days, dto.DayAvailability{Date: date, Slots: slots})
	}
	return resp, nil
}

func (s *AvailabilityService) dayWithLedger(ctx context.Context, employerID, date string, recurring *models.RecurringSchedule, specificByDate map[string]*models.SpecificSchedule) ([]models.TimeSlot, error) {
	key := availabilityKey(employerID, date)
	if s.cacheEnabled && s.cache != nil {
		var cached []models.TimeSlot
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.observeCache(true)
			return cached, nil
		} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.observeCache(false)
	}

	candidates := s.resolve(recurring, specificByDate, date)

	active, err := s.ledger.ListActive(ctx, employerID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking ledger")
	}
	slots := annotate(candidates, active)

	if s.cacheEnabled && s.cache != nil {
		if err := s.cache.Set(ctx, key, slots, s.cacheTTL); err != nil {
			s.logger.Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return slots, nil
}

// resolve applies source precedence for one date. Always returns a
// non-nil, sorted slice.
func (s *AvailabilityService) resolve(recurring *models.RecurringSchedule, specificByDate map[string]*models.SpecificSchedule, date string) []models.TimeSlot {
	slots := []models.TimeSlot{}

	if specific, ok := specificByDate[date]; ok && specific.Status == models.ScheduleStatusActive {
		// Exclusive override: recurring is never consulted, even when
		// the override's slot list is empty.
		slots = append(slots, specific.TimeSlots...)
	} else if recurring != nil && recurring.Covers(date) {
		weekday, err := models.WeekdayOf(date)
		if err == nil {
			if entry := recurring.DayEntry(weekday); entry != nil && entry.Status == models.ScheduleStatusActive {
				slots = append(slots, entry.Slots...)
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	return s.dropElapsed(slots, date)
}

// dropElapsed removes same-day slots that already started.
func (s *AvailabilityService) dropElapsed(slots []models.TimeSlot, date string) []models.TimeSlot {
	now := s.now()
	if date != now.Format(models.DateLayout) {
		return slots
	}
	nowMinute := now.Hour()*60 + now.Minute()
	kept := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		start, err := timeslot.Minutes(slot.Start)
		if err != nil || start > nowMinute {
			kept = append(kept, slot)
		}
	}
	return kept
}

// annotate marks candidate slots that collide with active interviews and
// synthesizes booked entries for active interviews no candidate covers,
// so surfaced availability always reflects the ledger's ground truth.
func annotate(candidates []models.TimeSlot, active []models.Interview) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(candidates))
	covered := make([]bool, len(active))

	for _, slot := range candidates {
		iv, err := timeslot.ParseInterval(slot.Start, slot.End)
		if err != nil {
			out = append(out, slot)
			continue
		}
		booked := false
		for i := range active {
			start, err1 := timeslot.Minutes(active[i].StartTime)
			end, err2 := timeslot.Minutes(active[i].EndTime)
			if err1 != nil || err2 != nil {
				continue
			}
			if timeslot.Overlaps(iv.Start, iv.End, start, end) {
				booked = true
				covered[i] = true
			}
		}
		slot.IsBooked = booked
		out = append(out, slot)
	}

	// Interviews booked against a since-edited schedule still occupy
	// real time; surface them rather than hiding the conflict.
	for i := range active {
		if !covered[i] {
			out = append(out, models.TimeSlot{
				Start:    active[i].StartTime,
				End:      active[i].EndTime,
				IsBooked: true,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (s *AvailabilityService) observeCache(hit bool) {
	if s.metrics != nil {
		s.metrics.ObserveCacheLookup(hit)
	}
}
