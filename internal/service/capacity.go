package service

import (
	"context"
	"errors"

	"github.com/dileeka1998/Event-Planner-sub000/internal/config"
	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// Snapshot is the capacity picture of one event at one instant.
type Snapshot struct {
	EventID    uint64 `json:"eventId"`
	Capacity   int    `json:"capacity"`
	Confirmed  int    `json:"confirmed"`
	Waitlisted int    `json:"waitlisted"`
	Remaining  int    `json:"remaining"`
}

// HasRoom reports whether one more attendee can be confirmed.
func (s Snapshot) HasRoom() bool { return s.Confirmed < s.Capacity }

// CapacityLedger owns the confirmed-count versus capacity truth of an
// event.  Counts are always read from storage.
//
// In row mode Acquire reads the event with SELECT ... FOR UPDATE so that,
// inside a transaction, every register or leave on the same event is
// serialised until commit.  In none mode the same reads run unlocked and
// two concurrent registrations may both observe a free slot.
type CapacityLedger struct {
	lockMode string
}

// NewCapacityLedger returns a ledger using config.LockRow or
// config.LockNone.  Unknown modes behave like LockRow.
func NewCapacityLedger(lockMode string) *CapacityLedger {
	if lockMode != config.LockNone {
		lockMode = config.LockRow
	}
	return &CapacityLedger{lockMode: lockMode}
}

// LockMode returns the active mode.
func (l *CapacityLedger) LockMode() string { return l.lockMode }

// Acquire loads the event that the caller is about to count against,
// taking the row lock in row mode.
func (l *CapacityLedger) Acquire(ctx context.Context, r repository.Repos, eventID uint64) (*model.Event, error) {
	var (
		ev  *model.Event
		err error
	)
	if l.lockMode == config.LockRow {
		ev, err = r.Events.GetByIDForUpdate(ctx, eventID)
	} else {
		ev, err = r.Events.GetByID(ctx, eventID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("event not found")
	}
	return ev, err
}

// Snapshot counts the event's confirmed and waitlisted rows.
func (l *CapacityLedger) Snapshot(ctx context.Context, r repository.Repos, ev *model.Event) (Snapshot, error) {
	confirmed, err := r.Attendees.CountByStatus(ctx, ev.ID, model.StatusConfirmed)
	if err != nil {
		return Snapshot{}, err
	}
	waitlisted, err := r.Attendees.CountByStatus(ctx, ev.ID, model.StatusWaitlisted)
	if err != nil {
		return Snapshot{}, err
	}
	s := Snapshot{
		EventID:    ev.ID,
		Capacity:   ev.Capacity(),
		Confirmed:  confirmed,
		Waitlisted: waitlisted,
	}
	if s.Remaining = s.Capacity - s.Confirmed; s.Remaining < 0 {
		s.Remaining = 0
	}
	return s, nil
}

// CapacityService exposes read-only snapshots to the API.
type CapacityService struct {
	store  repository.Store
	ledger *CapacityLedger
}

// NewCapacityService builds a CapacityService.
func NewCapacityService(store repository.Store, ledger *CapacityLedger) *CapacityService {
	return &CapacityService{store: store, ledger: ledger}
}

// Get returns the current snapshot of eventID.
func (s *CapacityService) Get(ctx context.Context, eventID uint64) (Snapshot, error) {
	r := s.store.Repos()
	ev, err := loadEvent(ctx, r, eventID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.ledger.Snapshot(ctx, r, ev)
}
