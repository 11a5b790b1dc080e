package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelane/interview-booking-api/internal/dto"
	"github.com/hirelane/interview-booking-api/internal/models"
	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
)

type scheduleRepoStub struct {
	recurring map[string]models.RecurringSchedule
	specific  map[string]map[string]models.SpecificSchedule
	err       error
}

func (s *scheduleRepoStub) GetRecurring(ctx context.Context, employerID string) (*models.RecurringSchedule, error) {
	if s.err != nil {
		return nil, s.err
	}
	if rec, ok := s.recurring[employerID]; ok {
		return &rec, nil
	}
	return nil, sql.ErrNoRows
}

func (s *scheduleRepoStub) ListSpecific(ctx context.Context, employerID string) ([]models.SpecificSchedule, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := []models.SpecificSchedule{}
	for _, entry := range s.specific[employerID] {
		result = append(result, entry)
	}
	return result, nil
}

func (s *scheduleRepoStub) FindSpecificByDate(ctx context.Context, employerID, date string) (*models.SpecificSchedule, error) {
	if s.err != nil {
		return nil, s.err
	}
	if entry, ok := s.specific[employerID][date]; ok {
		return &entry, nil
	}
	return nil, sql.ErrNoRows
}

func (s *scheduleRepoStub) UpsertRecurring(ctx context.Context, schedule *models.RecurringSchedule) error {
	if s.err != nil {
		return s.err
	}
	if s.recurring == nil {
		s.recurring = make(map[string]models.RecurringSchedule)
	}
	s.recurring[schedule.EmployerID] = *schedule
	return nil
}

func (s *scheduleRepoStub) UpsertSpecific(ctx context.Context, entry *models.SpecificSchedule) error {
	if s.err != nil {
		return s.err
	}
	if s.specific == nil {
		s.specific = make(map[string]map[string]models.SpecificSchedule)
	}
	if s.specific[entry.EmployerID] == nil {
		s.specific[entry.EmployerID] = make(map[string]models.SpecificSchedule)
	}
	s.specific[entry.EmployerID][entry.Date] = *entry
	return nil
}

type cacheStub struct {
	data     map[string][]byte
	getErr   error
	setErr   error
	patterns []string
}

func newCacheStub() *cacheStub {
	return &cacheStub{data: make(map[string][]byte)}
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	c.data = make(map[string][]byte)
	return nil
}

func TestScheduleServiceGetScheduleNotFound(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, nil, nil, nil)

	_, err := svc.GetSchedule(context.Background(), "emp-1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestScheduleServiceSetRecurring(t *testing.T) {
	repo := &scheduleRepoStub{}
	cache := newCacheStub()
	svc := NewScheduleService(repo, cache, nil, nil)

	req := dto.SetRecurringRequest{
		EffectiveFrom: "2026-09-01",
		Days: []dto.RecurringDayPayload{
			{
				Day:    models.Monday,
				Status: "ACTIVE",
				Slots: []dto.SlotPayload{
					{Start: "14:00", End: "14:50"},
					{Start: "09:00", End: "09:50"},
				},
			},
		},
	}

	stored, err := svc.SetRecurring(context.Background(), "emp-1", req)
	require.NoError(t, err)
	require.Len(t, stored.Days, 1)
	// slots come back sorted by start time
	assert.Equal(t, "09:00", stored.Days[0].Slots[0].Start)
	assert.Equal(t, "14:00", stored.Days[0].Slots[1].Start)
	assert.Contains(t, cache.patterns, "availability:emp-1:*")

	persisted, err := repo.GetRecurring(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", persisted.EffectiveFrom)
}

func TestScheduleServiceSetRecurringRejectsOverlap(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, nil, nil, nil)

	req := dto.SetRecurringRequest{
		EffectiveFrom: "2026-09-01",
		Days: []dto.RecurringDayPayload{
			{
				Day:    models.Monday,
				Status: "ACTIVE",
				Slots: []dto.SlotPayload{
					{Start: "09:00", End: "10:00"},
					{Start: "09:30", End: "10:30"},
				},
			},
		},
	}

	_, err := svc.SetRecurring(context.Background(), "emp-1", req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestScheduleServiceSetRecurringRejectsDuplicateDay(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, nil, nil, nil)

	req := dto.SetRecurringRequest{
		EffectiveFrom: "2026-09-01",
		Days: []dto.RecurringDayPayload{
			{Day: models.Monday, Status: "ACTIVE"},
			{Day: models.Monday, Status: "INACTIVE"},
		},
	}

	_, err := svc.SetRecurring(context.Background(), "emp-1", req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestScheduleServiceSetRecurringRejectsInvertedWindow(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, nil, nil, nil)

	until := "2026-08-01"
	req := dto.SetRecurringRequest{
		EffectiveFrom:  "2026-09-01",
		EffectiveUntil: &until,
		Days:           []dto.RecurringDayPayload{{Day: models.Friday, Status: "ACTIVE"}},
	}

	_, err := svc.SetRecurring(context.Background(), "emp-1", req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestScheduleServiceSetSpecific(t *testing.T) {
	repo := &scheduleRepoStub{}
	cache := newCacheStub()
	svc := NewScheduleService(repo, cache, nil, nil)

	req := dto.SetSpecificRequest{
		Date:      "2026-09-07",
		Status:    "ACTIVE",
		TimeSlots: []dto.SlotPayload{{Start: "13:00", End: "13:50"}},
	}

	entry, err := svc.SetSpecific(context.Background(), "emp-1", req)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusActive, entry.Status)

	persisted, err := repo.FindSpecificByDate(context.Background(), "emp-1", "2026-09-07")
	require.NoError(t, err)
	require.Len(t, persisted.TimeSlots, 1)
	assert.Equal(t, "13:00", persisted.TimeSlots[0].Start)
	assert.Contains(t, cache.patterns, "availability:emp-1:*")
}

func TestScheduleServiceSetSpecificEmptyActive(t *testing.T) {
	repo := &scheduleRepoStub{}
	svc := NewScheduleService(repo, nil, nil, nil)

	req := dto.SetSpecificRequest{Date: "2026-09-07", Status: "ACTIVE"}

	entry, err := svc.SetSpecific(context.Background(), "emp-1", req)
	require.NoError(t, err)
	assert.Empty(t, entry.TimeSlots)
}
