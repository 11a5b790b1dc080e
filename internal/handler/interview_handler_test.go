package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelane/interview-booking-api/internal/dto"
	"github.com/hirelane/interview-booking-api/internal/models"
	"github.com/hirelane/interview-booking-api/internal/service"
	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
)

type bookingServiceMock struct {
	interview *models.Interview
	items     []models.Interview
	err       error
}

func (m *bookingServiceMock) result() (*models.Interview, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.interview, nil
}

func (m *bookingServiceMock) RequestBooking(ctx context.Context, req dto.BookingRequest) (*models.Interview, error) {
	return m.result()
}

func (m *bookingServiceMock) Confirm(ctx context.Context, id string) (*models.Interview, error) {
	return m.result()
}

func (m *bookingServiceMock) Cancel(ctx context.Context, id string, req dto.CancelRequest) (*models.Interview, error) {
	return m.result()
}

func (m *bookingServiceMock) Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (*models.Interview, error) {
	return m.result()
}

func (m *bookingServiceMock) Complete(ctx context.Context, id string, req dto.CompleteRequest) (*models.Interview, error) {
	return m.result()
}

func (m *bookingServiceMock) Get(ctx context.Context, id string) (*models.Interview, error) {
	return m.result()
}

func (m *bookingServiceMock) List(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, *models.Pagination, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(m.items)}, nil
}

type exportServiceMock struct {
	result *service.ExportResult
	err    error
}

func (m *exportServiceMock) Generate(ctx context.Context, format service.ExportFormat, employerID, from, to string) (*service.ExportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func sampleInterview() *models.Interview {
	return &models.Interview{
		ID: "iv-1", EmployerID: "emp-1", JobseekerID: "seeker-1",
		JobID: "job-1", ApplicationID: "app-1",
		Date: "2026-09-07", StartTime: "09:00", EndTime: "09:50",
		Status: models.InterviewPending,
	}
}

func TestInterviewHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInterviewHandler(&bookingServiceMock{interview: sampleInterview()}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.BookingRequest{
		EmployerID: "emp-1", JobseekerID: "seeker-1", JobID: "job-1", ApplicationID: "app-1",
		Date: "2026-09-07", StartTime: "09:00", EndTime: "09:50",
	})
	req, _ := http.NewRequest(http.MethodPost, "/interviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "iv-1")
}

func TestInterviewHandlerCreateSlotUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInterviewHandler(&bookingServiceMock{err: appErrors.ErrSlotUnavailable}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.BookingRequest{
		EmployerID: "emp-1", JobseekerID: "seeker-1", JobID: "job-1", ApplicationID: "app-1",
		Date: "2026-09-07", StartTime: "09:00", EndTime: "09:50",
	})
	req, _ := http.NewRequest(http.MethodPost, "/interviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInterviewHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInterviewHandler(&bookingServiceMock{}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/interviews", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInterviewHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInterviewHandler(&bookingServiceMock{err: appErrors.ErrNotFound}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/interviews/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInterviewHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInterviewHandler(&bookingServiceMock{items: []models.Interview{*sampleInterview()}}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/interviews?employerId=emp-1&status=pending&page=2&limit=5", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"page":2`)
	assert.Contains(t, w.Body.String(), "iv-1")
}

func TestInterviewHandlerCancelInvalidTransition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInterviewHandler(&bookingServiceMock{err: appErrors.ErrInvalidTransition}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CancelRequest{Reason: "conflict"})
	req, _ := http.NewRequest(http.MethodPost, "/interviews/iv-1/cancel", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "iv-1"}}

	handler.Cancel(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInterviewHandlerConfirm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	confirmed := sampleInterview()
	confirmed.Status = models.InterviewScheduled
	handler := NewInterviewHandler(&bookingServiceMock{interview: confirmed}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/interviews/iv-1/confirm", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "iv-1"}}

	handler.Confirm(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SCHEDULED")
}

func TestInterviewHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exports := &exportServiceMock{result: &service.ExportResult{
		Filename:    "interviews_emp-1.csv",
		ContentType: "text/csv",
		Payload:     []byte("Date,Start\n"),
	}}
	handler := NewInterviewHandler(&bookingServiceMock{}, exports)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/employers/emp-1/interviews/export?format=csv&from=2026-09-01&to=2026-09-30", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "employerId", Value: "emp-1"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "interviews_emp-1.csv")
}

func TestInterviewHandlerExportDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInterviewHandler(&bookingServiceMock{}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/employers/emp-1/interviews/export", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "employerId", Value: "emp-1"}}

	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
