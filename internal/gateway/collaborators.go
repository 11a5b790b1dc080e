// Package gateway holds HTTP clients for the collaborator services the
// booking engine notifies after lifecycle transitions: the job
// directory, the application registry and the notification service.
// Calls here are side effects; failures are reported upstream as
// UpstreamUnavailable and never unwind a committed booking change.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
)

// Job is the subset of a job posting the engine cares about.
type Job struct {
	ID         string `json:"id"`
	EmployerID string `json:"employer_id"`
	Title      string `json:"title"`
}

// Application is the subset of a job application the engine cares about.
type Application struct {
	ID          string `json:"id"`
	JobID       string `json:"job_id"`
	JobseekerID string `json:"jobseeker_id"`
	Status      string `json:"status"`
}

// Config points the client at the collaborator base URLs.
type Config struct {
	JobDirectoryURL  string
	ApplicationsURL  string
	NotificationsURL string
}

// Client talks to the collaborator services over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds the collaborator client. The http.Client's Timeout
// bounds each call; there is no other cancellation contract.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient}
}

// GetJob fetches a job posting from the job directory.
func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := c.getJSON(ctx, c.cfg.JobDirectoryURL, "/jobs/"+url.PathEscape(jobID), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetApplication fetches an application from the registry.
func (c *Client) GetApplication(ctx context.Context, applicationID string) (*Application, error) {
	var app Application
	if err := c.getJSON(ctx, c.cfg.ApplicationsURL, "/applications/"+url.PathEscape(applicationID), &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// SetApplicationStatus pushes a status change to the registry.
func (c *Client) SetApplicationStatus(ctx context.Context, applicationID, status string) error {
	payload := map[string]string{"status": status}
	path := "/applications/" + url.PathEscape(applicationID) + "/status"
	return c.sendJSON(ctx, http.MethodPut, c.cfg.ApplicationsURL, path, payload)
}

// SendNotification delivers a message to a user through the
// notification service. Delivery mechanics are the collaborator's
// concern.
func (c *Client) SendNotification(ctx context.Context, userID, message string) error {
	payload := map[string]string{"user_id": userID, "message": message}
	return c.sendJSON(ctx, http.MethodPost, c.cfg.NotificationsURL, "/notifications", payload)
}

func (c *Client) getJSON(ctx context.Context, base, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "build collaborator request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "collaborator unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("collaborator has no resource at %s", path))
	case resp.StatusCode >= 300:
		return appErrors.Clone(appErrors.ErrUpstreamUnavailable, fmt.Sprintf("collaborator returned %d for %s", resp.StatusCode, path))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "decode collaborator response")
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, base, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal collaborator payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, bytes.NewReader(body))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "build collaborator request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "collaborator unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return appErrors.Clone(appErrors.ErrUpstreamUnavailable, fmt.Sprintf("collaborator returned %d for %s", resp.StatusCode, path))
	}
	return nil
}
