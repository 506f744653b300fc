package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/queue"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// Notifier receives attendance events after the registration change has
// committed.  A failing notifier never affects the registration.
type Notifier interface {
	PublishAttendance(ctx context.Context, ev queue.AttendanceEvent) error
}

// NopNotifier drops every event.  Used when no broker is configured.
type NopNotifier struct{}

// PublishAttendance implements Notifier.
func (NopNotifier) PublishAttendance(context.Context, queue.AttendanceEvent) error { return nil }

// LeaveResult is returned by Leave.  Promoted is the waitlisted attendee
// that took the freed slot, if any.
type LeaveResult struct {
	Message  string          `json:"message"`
	Promoted *model.Attendee `json:"promoted,omitempty"`
}

// RegistrationService registers users for events, cancels registrations
// and promotes the waitlist.  Each call is one transaction.
type RegistrationService struct {
	store    repository.Store
	ledger   *CapacityLedger
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewRegistrationService wires a RegistrationService.  A nil notifier is
// replaced by NopNotifier.
func NewRegistrationService(store repository.Store, ledger *CapacityLedger, notifier Notifier, logger *slog.Logger) *RegistrationService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &RegistrationService{store: store, ledger: ledger, notifier: notifier, logger: logger, now: time.Now}
}

// Register puts userID on eventID's roster.
//
// An active row for the pair is a Conflict.  A CANCELLED row is flipped
// back to CONFIRMED without a capacity check and keeps its original
// joinedAt.  Otherwise a new row is inserted, CONFIRMED while confirmed <
// capacity and WAITLISTED once the event is full.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID uint64) (*model.Attendee, error) {
	var (
		out   *model.Attendee
		event *model.Event
	)
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		ev, err := s.ledger.Acquire(ctx, r, eventID)
		if err != nil {
			return err
		}
		event = ev
		user, err := r.Users.GetByID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("user not found")
		}
		if err != nil {
			return err
		}

		existing, err := r.Attendees.GetByEventAndUser(ctx, eventID, userID)
		switch {
		case err == nil && existing.Active():
			return conflict("already registered for this event")
		case err == nil:
			// Re-activation skips the capacity check.
			if err := r.Attendees.UpdateStatus(ctx, existing.ID, model.StatusConfirmed); err != nil {
				return err
			}
			existing.Status = model.StatusConfirmed
			out = existing
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		snap, err := s.ledger.Snapshot(ctx, r, ev)
		if err != nil {
			return err
		}
		a := &model.Attendee{
			EventID:  eventID,
			UserID:   userID,
			Status:   model.StatusWaitlisted,
			JoinedAt: s.now().UTC(),
			User:     &model.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email},
		}
		if snap.HasRoom() {
			a.Status = model.StatusConfirmed
		}
		if err := r.Attendees.Create(ctx, a); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return conflict("already registered for this event")
			}
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("attendee registered",
		"event_id", eventID, "user_id", userID, "status", out.Status, "lock_mode", s.ledger.LockMode())
	s.notify(ctx, queue.AttendeeRegistered, event, out)
	return out, nil
}

// Leave cancels userID's active registration on eventID.  When the
// recount after the cancellation shows a free slot, the oldest WAITLISTED
// row (smallest joinedAt, then id) is promoted.  At most one row is
// promoted per call.
func (s *RegistrationService) Leave(ctx context.Context, eventID, userID uint64) (*LeaveResult, error) {
	var (
		res    = &LeaveResult{Message: "Successfully left the event"}
		event  *model.Event
		leaver *model.Attendee
	)
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		ev, err := s.ledger.Acquire(ctx, r, eventID)
		if err != nil {
			return err
		}
		event = ev
		a, err := r.Attendees.GetByEventAndUser(ctx, eventID, userID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && !a.Active()) {
			return notFound("no active registration for this event")
		}
		if err != nil {
			return err
		}
		if err := r.Attendees.UpdateStatus(ctx, a.ID, model.StatusCancelled); err != nil {
			return err
		}
		a.Status = model.StatusCancelled
		leaver = a

		snap, err := s.ledger.Snapshot(ctx, r, ev)
		if err != nil {
			return err
		}
		if !snap.HasRoom() {
			return nil
		}
		next, err := r.Attendees.OldestByStatus(ctx, eventID, model.StatusWaitlisted)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.Attendees.UpdateStatus(ctx, next.ID, model.StatusConfirmed); err != nil {
			return err
		}
		next.Status = model.StatusConfirmed
		res.Promoted = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendee left", "event_id", eventID, "user_id", userID, "promoted", res.Promoted != nil)
	s.notify(ctx, queue.AttendeeCancelled, event, leaver)
	if res.Promoted != nil {
		s.notify(ctx, queue.AttendeePromoted, event, res.Promoted)
	}
	return res, nil
}

// ListAttendees returns every registration of eventID, all statuses,
// ordered by joinedAt ascending.  Only the organizer or an admin may list.
func (s *RegistrationService) ListAttendees(ctx context.Context, actor Actor, eventID uint64) ([]model.Attendee, error) {
	r := s.store.Repos()
	if _, err := loadManagedEvent(ctx, r, actor, eventID); err != nil {
		return nil, err
	}
	return r.Attendees.ListByEvent(ctx, eventID)
}

func (s *RegistrationService) notify(ctx context.Context, kind string, ev *model.Event, a *model.Attendee) {
	msg := queue.AttendanceEvent{
		Type:       kind,
		EventID:    ev.ID,
		EventTitle: ev.Title,
		UserID:     a.UserID,
		Status:     string(a.Status),
		OccurredAt: s.now().UTC().Format(time.RFC3339),
	}
	if a.User != nil {
		msg.UserEmail = a.User.Email
	}
	if err := s.notifier.PublishAttendance(ctx, msg); err != nil {
		s.logger.Warn("publish attendance event failed", "type", kind, "event_id", ev.ID, "error", err)
	}
}
