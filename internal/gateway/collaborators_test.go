package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
)

func TestGetApplication(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/applications/app-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Application{ID: "app-1", JobID: "job-1", JobseekerID: "seeker-1", Status: "INTERVIEW"})
	}))
	defer srv.Close()

	client := NewClient(Config{ApplicationsURL: srv.URL}, srv.Client())
	app, err := client.GetApplication(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", app.JobID)
}

func TestGetApplicationNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(Config{ApplicationsURL: srv.URL}, srv.Client())
	_, err := client.GetApplication(context.Background(), "app-missing")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestSetApplicationStatus(t *testing.T) {
	var gotPath, gotStatus string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotStatus = body["status"]
	}))
	defer srv.Close()

	client := NewClient(Config{ApplicationsURL: srv.URL}, srv.Client())
	require.NoError(t, client.SetApplicationStatus(context.Background(), "app-1", "INTERVIEW_SCHEDULED"))
	assert.Equal(t, "/applications/app-1/status", gotPath)
	assert.Equal(t, "INTERVIEW_SCHEDULED", gotStatus)
}

func TestSendNotificationUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{NotificationsURL: srv.URL}, srv.Client())
	err := client.SendNotification(context.Background(), "user-1", "hello")
	assert.True(t, appErrors.Is(err, appErrors.ErrUpstreamUnavailable))
}

func TestUnreachableCollaborator(t *testing.T) {
	client := NewClient(Config{JobDirectoryURL: "http://127.0.0.1:1"}, nil)
	_, err := client.GetJob(context.Background(), "job-1")
	assert.True(t, appErrors.Is(err, appErrors.ErrUpstreamUnavailable))
}
