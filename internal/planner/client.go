// Package planner is the typed client of the external inference service
// that parses free-text event briefs and proposes session schedules.  The
// service is a collaborator, not a dependency: every call may fail and
// callers treat failures as non-fatal.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
)

// ErrDisabled is returned by every call when no service URL is configured.
var ErrDisabled = errors.New("planner: service not configured")

// Client is the contract the services depend on.
type Client interface {
	ParseBrief(ctx context.Context, text string) (*BriefFields, error)
	ProposeSchedule(ctx context.Context, req ScheduleRequest) ([]model.Assignment, error)
}

// BriefFields are the event attributes extracted from a brief.  Every
// field is optional; dates are "YYYY-MM-DD" strings as produced by the
// service and are validated by the caller.
type BriefFields struct {
	Title            *string  `json:"title,omitempty"`
	StartDate        *string  `json:"startDate,omitempty"`
	EndDate          *string  `json:"endDate,omitempty"`
	ExpectedAudience *int     `json:"expectedAudience,omitempty"`
	BudgetAmount     *float64 `json:"budgetAmount,omitempty"`
}

// SessionInput describes one session to be placed by the solver.
type SessionInput struct {
	ID              uint64 `json:"id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes"`
	Topic           string `json:"topic"`
	Capacity        int    `json:"capacity"`
}

// RoomInput describes one room available to the solver.
type RoomInput struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// ScheduleRequest is the solver input for one event.
type ScheduleRequest struct {
	EventID    uint64         `json:"eventId"`
	StartDate  string         `json:"startDate"`
	EndDate    string         `json:"endDate"`
	GapMinutes int            `json:"gapMinutes"`
	StartTime  *string        `json:"startTime,omitempty"`
	Sessions   []SessionInput `json:"sessions"`
	Rooms      []RoomInput    `json:"rooms"`
}

type scheduleResponse struct {
	Assignments []model.Assignment `json:"assignments"`
}

type parseRequest struct {
	Text string `json:"text"`
}

// HTTPClient talks JSON over HTTP to the inference service.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// New returns an HTTPClient for baseURL, or a client whose calls all fail
// with ErrDisabled when baseURL is empty.
func New(baseURL string, timeout time.Duration) Client {
	if baseURL == "" {
		return disabled{}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// ParseBrief posts text to /parse-brief.
func (c *HTTPClient) ParseBrief(ctx context.Context, text string) (*BriefFields, error) {
	var out BriefFields
	if err := c.post(ctx, "/parse-brief", parseRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProposeSchedule posts req to /schedule and returns the proposed
// assignments untouched.
func (c *HTTPClient) ProposeSchedule(ctx context.Context, req ScheduleRequest) ([]model.Assignment, error) {
	var out scheduleResponse
	if err := c.post(ctx, "/schedule", req, &out); err != nil {
		return nil, err
	}
	if out.Assignments == nil {
		out.Assignments = []model.Assignment{}
	}
	return out.Assignments, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("planner: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("planner: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("planner: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("planner: %s returned %d: %s", path, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("planner: decode %s response: %w", path, err)
	}
	return nil
}

type disabled struct{}

func (disabled) ParseBrief(context.Context, string) (*BriefFields, error) { return nil, ErrDisabled }

func (disabled) ProposeSchedule(context.Context, ScheduleRequest) ([]model.Assignment, error) {
	return nil, ErrDisabled
}
