package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dileeka1998/Event-Planner-sub000/internal/config"
	"github.com/dileeka1998/Event-Planner-sub000/internal/middleware"
	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
	"github.com/dileeka1998/Event-Planner-sub000/internal/service"
	"github.com/dileeka1998/Event-Planner-sub000/internal/utils"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(testLogger)
	return e
}

// asUser stands in for JWTAuth.
func asUser(id uint64, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxUserID, id)
			c.Set(middleware.CtxRole, role)
			return next(c)
		}
	}
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q: %v", rec.Body, err)
	}
	s, _ := body["error"].(string)
	return s
}

type stubRegistrations struct {
	registerErr error
	leaveErr    error
	gotEvent    uint64
	gotUser     uint64
}

func (s *stubRegistrations) Register(_ context.Context, eventID, userID uint64) (*model.Attendee, error) {
	s.gotEvent, s.gotUser = eventID, userID
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &model.Attendee{ID: 1, EventID: eventID, UserID: userID, Status: model.StatusWaitlisted}, nil
}

func (s *stubRegistrations) Leave(context.Context, uint64, uint64) (*service.LeaveResult, error) {
	if s.leaveErr != nil {
		return nil, s.leaveErr
	}
	return &service.LeaveResult{Message: "Successfully left the event"}, nil
}

func (s *stubRegistrations) ListAttendees(context.Context, service.Actor, uint64) ([]model.Attendee, error) {
	return []model.Attendee{}, nil
}

func attendeeRoutes(reg RegistrationService) *echo.Echo {
	e := newEcho()
	h := NewAttendeeHandler(reg, testLogger)
	g := e.Group("/v1", asUser(5, model.RoleAttendee))
	g.POST("/events/:id/attendees", h.Register)
	g.DELETE("/events/:id/attendees/me", h.Leave)
	return e
}

func TestAttendeeRegisterStatuses(t *testing.T) {
	stub := &stubRegistrations{}
	e := attendeeRoutes(stub)

	rec := do(e, http.MethodPost, "/v1/events/12/attendees", "")
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"status":"WAITLISTED"`) {
		t.Fatalf("register: %d %s", rec.Code, rec.Body)
	}
	if stub.gotEvent != 12 || stub.gotUser != 5 {
		t.Fatalf("called with %d/%d", stub.gotEvent, stub.gotUser)
	}

	cases := []struct {
		err    error
		status int
	}{
		{&service.Error{Kind: service.ErrConflict, Message: "already registered for this event"}, http.StatusConflict},
		{&service.Error{Kind: service.ErrNotFound, Message: "event not found"}, http.StatusNotFound},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		stub.registerErr = tc.err
		rec := do(e, http.MethodPost, "/v1/events/12/attendees", "")
		if rec.Code != tc.status {
			t.Errorf("%v: status %d, want %d", tc.err, rec.Code, tc.status)
		}
		if tc.status == http.StatusInternalServerError && errorOf(t, rec) != "internal server error" {
			t.Errorf("500 leaked %q", errorOf(t, rec))
		}
	}

	if rec := do(e, http.MethodPost, "/v1/events/abc/attendees", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: %d", rec.Code)
	}
}

func TestAttendeeLeave(t *testing.T) {
	stub := &stubRegistrations{}
	e := attendeeRoutes(stub)
	rec := do(e, http.MethodDelete, "/v1/events/3/attendees/me", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Successfully left the event") {
		t.Fatalf("leave: %d %s", rec.Code, rec.Body)
	}
	stub.leaveErr = &service.Error{Kind: service.ErrNotFound, Message: "no active registration for this event"}
	rec = do(e, http.MethodDelete, "/v1/events/3/attendees/me", "")
	if rec.Code != http.StatusNotFound || errorOf(t, rec) != "no active registration for this event" {
		t.Fatalf("leave missing: %d %s", rec.Code, rec.Body)
	}
}

type stubSchedules struct {
	opts        service.GenerateOptions
	assignments []model.Assignment
}

func (s *stubSchedules) Generate(_ context.Context, _ service.Actor, _ uint64, opts service.GenerateOptions) (*service.ScheduleResult, error) {
	s.opts = opts
	return &service.ScheduleResult{Assignments: []model.Assignment{}, Success: false, Message: "Scheduling service unavailable, try again later"}, nil
}

func (s *stubSchedules) Apply(_ context.Context, _ service.Actor, _ uint64, a []model.Assignment) (*service.ScheduleResult, error) {
	s.assignments = a
	return &service.ScheduleResult{Assignments: a, Success: true, Message: "Applied"}, nil
}

func TestScheduleHandlers(t *testing.T) {
	stub := &stubSchedules{}
	e := newEcho()
	h := NewScheduleHandler(stub, testLogger)
	g := e.Group("/v1", asUser(1, model.RoleOrganizer))
	g.POST("/events/:id/schedule", h.Generate)
	g.POST("/events/:id/schedule/apply", h.Apply)

	rec := do(e, http.MethodPost, "/v1/events/1/schedule", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Fatalf("generate empty body: %d %s", rec.Code, rec.Body)
	}

	rec = do(e, http.MethodPost, "/v1/events/1/schedule", `{"gapMinutes":10,"dryRun":true}`)
	if rec.Code != http.StatusOK || stub.opts.GapMinutes == nil || *stub.opts.GapMinutes != 10 || !stub.opts.DryRun {
		t.Fatalf("generate opts: %d %+v", rec.Code, stub.opts)
	}

	rec = do(e, http.MethodPost, "/v1/events/1/schedule", `{"gapMinutes":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative gap: %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/v1/events/1/schedule/apply", `{"assignments":[{"sessionId":4,"roomId":2,"startTime":"2026-03-01T09:00:00"}]}`)
	if rec.Code != http.StatusOK || len(stub.assignments) != 1 || stub.assignments[0].SessionID != 4 {
		t.Fatalf("apply: %d %+v", rec.Code, stub.assignments)
	}

	rec = do(e, http.MethodPost, "/v1/events/1/schedule/apply", `{"assignments":[{"roomId":2}]}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(errorOf(t, rec), "sessionId") {
		t.Fatalf("apply without session id: %d %s", rec.Code, rec.Body)
	}
}

type memUsers struct {
	users map[string]*model.User
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, ok := m.users[u.Email]; ok {
		return repository.ErrConflict
	}
	u.ID = uint64(len(m.users) + 1)
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func TestAuthFlow(t *testing.T) {
	cfg := config.Config{JWTSecret: "k", AccessTTLMin: 5, BcryptCost: 4}
	h := NewAuthHandler(cfg, &memUsers{users: map[string]*model.User{}}, testLogger)
	e := newEcho()
	e.POST("/v1/auth/register", h.Register)
	e.POST("/v1/auth/login", h.Login)
	e.GET("/v1/me", h.Me, middleware.JWTAuth(cfg.JWTSecret))

	rec := do(e, http.MethodPost, "/v1/auth/register", `{"name":"Ann","email":"Ann@Example.com","password":"longenough","role":"admin"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body)
	}
	var resp struct {
		User   model.User `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.User.Role != model.RoleAttendee || resp.User.Email != "ann@example.com" {
		t.Fatalf("user = %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("password hash leaked")
	}
	if _, _, err := utils.ParseAccessToken("k", resp.Access.Token); err != nil {
		t.Fatalf("token: %v", err)
	}

	if rec := do(e, http.MethodPost, "/v1/auth/register", `{"name":"Ann","email":"ann@example.com","password":"longenough"}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: %d", rec.Code)
	}
	if rec := do(e, http.MethodPost, "/v1/auth/register", `{"name":"Bo","email":"nope","password":"short"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid: %d", rec.Code)
	}
	if rec := do(e, http.MethodPost, "/v1/auth/login", `{"email":"ann@example.com","password":"wrongpass"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", rec.Code)
	}
	rec = do(e, http.MethodPost, "/v1/auth/login", `{"email":"ann@example.com","password":"longenough"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+resp.Access.Token)
	me := httptest.NewRecorder()
	e.ServeHTTP(me, req)
	if me.Code != http.StatusOK || !strings.Contains(me.Body.String(), `"name":"Ann"`) {
		t.Fatalf("me: %d %s", me.Code, me.Body)
	}
}

func TestErrorHandlerEnvelope(t *testing.T) {
	e := newEcho()
	rec := do(e, http.MethodGet, "/nowhere", "")
	if rec.Code != http.StatusNotFound || errorOf(t, rec) == "" {
		t.Fatalf("404 envelope: %d %s", rec.Code, rec.Body)
	}
}

type pingErr struct{ err error }

func (p pingErr) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	e := newEcho()
	e.GET("/ok", Health(pingErr{}))
	e.GET("/bad", Health(pingErr{errors.New("down")}))
	if rec := do(e, http.MethodGet, "/ok", ""); rec.Code != http.StatusOK {
		t.Fatalf("ok: %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/bad", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("bad: %d", rec.Code)
	}
}
