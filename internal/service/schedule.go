package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/planner"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// DefaultGapMinutes separates consecutive sessions in a room when the
// caller does not choose a gap.
const DefaultGapMinutes = 15

// GenerateOptions tunes a schedule proposal.
type GenerateOptions struct {
	GapMinutes *int    `json:"gapMinutes" validate:"omitempty,min=0,max=240"`
	DryRun     bool    `json:"dryRun"`
	StartTime  *string `json:"startTime"`
}

// ScheduleResult is returned by Generate and Apply.  Sessions is set when
// assignments were persisted.
type ScheduleResult struct {
	Assignments []model.Assignment `json:"assignments"`
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Sessions    []model.Session    `json:"sessions,omitempty"`
}

// ScheduleService asks the external solver for a schedule and applies
// proposed assignments.  Solver calls happen outside any transaction.
type ScheduleService struct {
	store   repository.Store
	planner planner.Client
	logger  *slog.Logger
}

// NewScheduleService builds a ScheduleService.
func NewScheduleService(store repository.Store, client planner.Client, logger *slog.Logger) *ScheduleService {
	return &ScheduleService{store: store, planner: client, logger: logger}
}

// Generate sends the event's sessions, rooms and date range to the solver.
// A solver failure is reported as Success=false, never as an error.  With
// DryRun the proposal is returned untouched; otherwise it is applied.
func (s *ScheduleService) Generate(ctx context.Context, actor Actor, eventID uint64, opts GenerateOptions) (*ScheduleResult, error) {
	r := s.store.Repos()
	ev, err := loadManagedEvent(ctx, r, actor, eventID)
	if err != nil {
		return nil, err
	}
	sessions, err := r.Sessions.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rooms, err := r.Rooms.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	res := &ScheduleResult{Assignments: []model.Assignment{}}
	if len(sessions) == 0 {
		res.Message = "Event has no sessions to schedule"
		return res, nil
	}
	if len(rooms) == 0 {
		res.Message = "Event has no rooms to schedule into"
		return res, nil
	}

	gap := DefaultGapMinutes
	if opts.GapMinutes != nil {
		gap = *opts.GapMinutes
	}
	req := planner.ScheduleRequest{
		EventID:    ev.ID,
		StartDate:  ev.StartDate.String(),
		EndDate:    ev.EndDate.String(),
		GapMinutes: gap,
		StartTime:  opts.StartTime,
	}
	for _, ss := range sessions {
		req.Sessions = append(req.Sessions, planner.SessionInput{
			ID: ss.ID, Title: ss.Title, DurationMinutes: ss.DurationMinutes, Topic: ss.Topic, Capacity: ss.Capacity,
		})
	}
	for _, rm := range rooms {
		req.Rooms = append(req.Rooms, planner.RoomInput{ID: rm.ID, Name: rm.Name, Capacity: rm.Capacity})
	}

	proposal, err := s.planner.ProposeSchedule(ctx, req)
	if err != nil {
		s.logger.Warn("schedule proposal failed", "event_id", eventID, "error", err)
		if errors.Is(err, planner.ErrDisabled) {
			res.Message = "Scheduling service is not configured"
		} else {
			res.Message = "Scheduling service unavailable, try again later"
		}
		return res, nil
	}
	res.Assignments = proposal
	res.Success = true
	if opts.DryRun {
		res.Message = fmt.Sprintf("Proposed %d assignments (dry run, nothing saved)", len(proposal))
		return res, nil
	}

	applied, err := s.Apply(ctx, actor, eventID, proposal)
	if err != nil {
		return nil, err
	}
	applied.Assignments = proposal
	return applied, nil
}

// Apply validates and persists each assignment in its own transaction.
//
// The session is reloaded from storage.  An unknown session, or one of
// another event, is skipped with a warning.  A roomId that is not a room of
// this event clears the session's room.  An absent roomId keeps the
// current room.  A startTime that cannot be parsed keeps the previous
// start; a startTime without zone is read as UTC.  The affected sessions
// are reloaded and sorted by start time then room name then id, with nulls
// last.
func (s *ScheduleService) Apply(ctx context.Context, actor Actor, eventID uint64, assignments []model.Assignment) (*ScheduleResult, error) {
	if _, err := loadManagedEvent(ctx, s.store.Repos(), actor, eventID); err != nil {
		return nil, err
	}

	var (
		affected []uint64
		seen     = map[uint64]bool{}
		skipped  int
	)
	for _, a := range assignments {
		ok, err := s.applyOne(ctx, eventID, a)
		if err != nil {
			return nil, err
		}
		if !ok {
			skipped++
			continue
		}
		if !seen[a.SessionID] {
			seen[a.SessionID] = true
			affected = append(affected, a.SessionID)
		}
	}

	r := s.store.Repos()
	sessions := make([]model.Session, 0, len(affected))
	for _, id := range affected {
		ss, err := r.Sessions.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *ss)
	}
	SortSessions(sessions)

	msg := fmt.Sprintf("Applied %d of %d assignments", len(assignments)-skipped, len(assignments))
	if skipped > 0 {
		msg += fmt.Sprintf(" (%d skipped)", skipped)
	}
	return &ScheduleResult{
		Assignments: assignments,
		Success:     true,
		Message:     msg,
		Sessions:    sessions,
	}, nil
}

// applyOne persists a single assignment.  It reports false when the
// assignment was skipped.
func (s *ScheduleService) applyOne(ctx context.Context, eventID uint64, a model.Assignment) (bool, error) {
	applied := false
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		ss, err := r.Sessions.GetByID(ctx, a.SessionID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && ss.EventID != eventID) {
			s.logger.Warn("assignment skipped: session not in event", "event_id", eventID, "session_id", a.SessionID)
			return nil
		}
		if err != nil {
			return err
		}

		if a.RoomID != nil {
			rm, err := r.Rooms.GetByID(ctx, *a.RoomID)
			switch {
			case errors.Is(err, repository.ErrNotFound) || (err == nil && rm.EventID != eventID):
				s.logger.Warn("assignment room not in event; room cleared",
					"event_id", eventID, "session_id", ss.ID, "room_id", *a.RoomID)
				ss.RoomID = nil
			case err != nil:
				return err
			default:
				ss.RoomID = &rm.ID
			}
		}

		if a.StartTime != nil && strings.TrimSpace(*a.StartTime) != "" {
			t, err := ParseStartTime(*a.StartTime)
			if err != nil {
				s.logger.Warn("assignment start time unparseable; previous start kept",
					"event_id", eventID, "session_id", ss.ID, "start_time", *a.StartTime)
			} else {
				ss.StartTime = &t
			}
		}

		if err := r.Sessions.Update(ctx, ss); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

// zoneless layouts are interpreted as UTC.
var startTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseStartTime parses an absolute instant.  RFC 3339 input keeps its
// offset; input without a zone suffix is read as UTC.  The result is in
// UTC truncated to whole seconds, matching DATETIME precision.
func ParseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC().Truncate(time.Second), nil
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start time %q", s)
}

// SortSessions orders sessions by start time ascending, then room name
// ascending, then id.  Missing start times and missing rooms sort last.
func SortSessions(sessions []model.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		switch {
		case a.StartTime == nil && b.StartTime != nil:
			return false
		case a.StartTime != nil && b.StartTime == nil:
			return true
		case a.StartTime != nil && !a.StartTime.Equal(*b.StartTime):
			return a.StartTime.Before(*b.StartTime)
		}
		an, bn := roomName(a), roomName(b)
		switch {
		case an == nil && bn != nil:
			return false
		case an != nil && bn == nil:
			return true
		case an != nil && *an != *bn:
			return *an < *bn
		}
		return a.ID < b.ID
	})
}

func roomName(s model.Session) *string {
	if s.Room == nil {
		return nil
	}
	return &s.Room.Name
}
