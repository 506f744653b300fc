package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/planner"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// CreateEventInput is the payload of a new event.  Brief, when present, is
// sent to the inference service and the parsed fields fill only the
// fields left blank here.
type CreateEventInput struct {
	Title            string           `json:"title" validate:"max=200"`
	StartDate        *model.Date      `json:"startDate"`
	EndDate          *model.Date      `json:"endDate"`
	ExpectedAudience *int             `json:"expectedAudience" validate:"omitempty,min=0"`
	BudgetAmount     *decimal.Decimal `json:"budgetAmount"`
	VenueID          *uint64          `json:"venueId"`
	Brief            string           `json:"brief" validate:"max=10000"`
	BudgetItems      []ItemInput      `json:"budgetItems" validate:"dive"`
}

// UpdateEventInput holds the fields a PATCH may change; nil means keep.
// A VenueID of 0 detaches the venue.
type UpdateEventInput struct {
	Title            *string          `json:"title" validate:"omitempty,min=1,max=200"`
	StartDate        *model.Date      `json:"startDate"`
	EndDate          *model.Date      `json:"endDate"`
	ExpectedAudience *int             `json:"expectedAudience" validate:"omitempty,min=0"`
	BudgetAmount     *decimal.Decimal `json:"budgetAmount"`
	VenueID          *uint64          `json:"venueId"`
}

// EventService implements the event workflow: creation with brief parsing,
// venue checks and budget seeding, rescheduling and the ordered delete
// cascade.
type EventService struct {
	store   repository.Store
	planner planner.Client
	avail   AvailabilityChecker
	logger  *slog.Logger
}

// NewEventService builds an EventService.
func NewEventService(store repository.Store, client planner.Client, logger *slog.Logger) *EventService {
	return &EventService{store: store, planner: client, logger: logger}
}

// Create validates in and inserts the event, its budget and its items in
// one transaction.  Explicit BudgetItems win over the heuristic split,
// which is only applied when a positive budget amount is given with no
// items.
func (s *EventService) Create(ctx context.Context, actor Actor, in CreateEventInput) (*model.Event, error) {
	if strings.TrimSpace(in.Brief) != "" {
		s.fillFromBrief(ctx, &in)
	}

	ev := &model.Event{
		Title:            strings.TrimSpace(in.Title),
		ExpectedAudience: in.ExpectedAudience,
		BudgetAmount:     decimal.Zero,
		OrganizerID:      actor.UserID,
		VenueID:          in.VenueID,
	}
	if in.StartDate != nil {
		ev.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		ev.EndDate = *in.EndDate
	}
	if in.BudgetAmount != nil {
		ev.BudgetAmount = in.BudgetAmount.Round(2)
	}
	if err := validateEvent(ev); err != nil {
		return nil, err
	}
	items := make([]*model.BudgetItem, 0, len(in.BudgetItems))
	for _, bi := range in.BudgetItems {
		it, err := itemFromInput(bi)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	var out *model.Event
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		if err := s.checkVenue(ctx, r, actor, ev, 0); err != nil {
			return err
		}
		if err := r.Events.Create(ctx, ev); err != nil {
			return err
		}
		if len(items) > 0 || ev.BudgetAmount.IsPositive() {
			b, err := ensureBudget(ctx, r, ev.ID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				seeded := SeedItems(b.ID, ev.BudgetAmount)
				for i := range seeded {
					items = append(items, &seeded[i])
				}
			}
			for _, it := range items {
				it.BudgetID = b.ID
				if err := r.Budgets.CreateItem(ctx, it); err != nil {
					return err
				}
			}
			if _, err := recalculate(ctx, r, b.ID); err != nil {
				return err
			}
		}
		created, err := r.Events.GetByID(ctx, ev.ID)
		out = created
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("event created", "event_id", out.ID, "organizer_id", actor.UserID, "venue_id", out.VenueID)
	return out, nil
}

// fillFromBrief asks the inference service to parse the brief and copies
// parsed values into blank fields.  Failures are logged and ignored.
func (s *EventService) fillFromBrief(ctx context.Context, in *CreateEventInput) {
	f, err := s.planner.ParseBrief(ctx, in.Brief)
	if err != nil {
		s.logger.Warn("brief parsing failed; continuing without it", "error", err)
		return
	}
	if strings.TrimSpace(in.Title) == "" && f.Title != nil {
		in.Title = *f.Title
	}
	if in.StartDate == nil && f.StartDate != nil {
		if d, err := model.ParseDate(*f.StartDate); err == nil {
			in.StartDate = &d
		}
	}
	if in.EndDate == nil && f.EndDate != nil {
		if d, err := model.ParseDate(*f.EndDate); err == nil {
			in.EndDate = &d
		}
	}
	if in.ExpectedAudience == nil && f.ExpectedAudience != nil && *f.ExpectedAudience >= 0 {
		in.ExpectedAudience = f.ExpectedAudience
	}
	if in.BudgetAmount == nil && f.BudgetAmount != nil && *f.BudgetAmount >= 0 {
		amt := decimal.NewFromFloat(*f.BudgetAmount).Round(2)
		in.BudgetAmount = &amt
	}
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id uint64) (*model.Event, error) {
	return loadEvent(ctx, s.store.Repos(), id)
}

// List returns the organizer's own events, or every event for admins and
// attendees browsing what to register for.
func (s *EventService) List(ctx context.Context, actor Actor) ([]model.Event, error) {
	r := s.store.Repos()
	if actor.Role == model.RoleOrganizer {
		return r.Events.ListByOrganizer(ctx, actor.UserID)
	}
	return r.Events.ListAll(ctx)
}

// Update applies in to the event.  Changing dates or venue re-runs the
// availability check, excluding the event itself.
func (s *EventService) Update(ctx context.Context, actor Actor, id uint64, in UpdateEventInput) (*model.Event, error) {
	var out *model.Event
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		ev, err := loadManagedEvent(ctx, r, actor, id)
		if err != nil {
			return err
		}
		recheck := false
		if in.Title != nil {
			ev.Title = strings.TrimSpace(*in.Title)
		}
		if in.StartDate != nil {
			ev.StartDate, recheck = *in.StartDate, true
		}
		if in.EndDate != nil {
			ev.EndDate, recheck = *in.EndDate, true
		}
		if in.ExpectedAudience != nil {
			ev.ExpectedAudience, recheck = in.ExpectedAudience, true
		}
		if in.BudgetAmount != nil {
			ev.BudgetAmount = in.BudgetAmount.Round(2)
		}
		if in.VenueID != nil {
			recheck = true
			if *in.VenueID == 0 {
				ev.VenueID, ev.Venue = nil, nil
			} else {
				ev.VenueID = in.VenueID
			}
		}
		if err := validateEvent(ev); err != nil {
			return err
		}
		if recheck {
			if err := s.checkVenue(ctx, r, actor, ev, ev.ID); err != nil {
				return err
			}
		}
		if err := r.Events.Update(ctx, ev); err != nil {
			return err
		}
		out, err = r.Events.GetByID(ctx, ev.ID)
		return err
	})
	return out, err
}

// Delete removes the event and all of its children in a fixed order:
// sessions, rooms, attendees, budget items, budget, event.
func (s *EventService) Delete(ctx context.Context, actor Actor, id uint64) error {
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		if _, err := loadManagedEvent(ctx, r, actor, id); err != nil {
			return err
		}
		if err := r.Sessions.DeleteByEvent(ctx, id); err != nil {
			return err
		}
		if err := r.Rooms.DeleteByEvent(ctx, id); err != nil {
			return err
		}
		if err := r.Attendees.DeleteByEvent(ctx, id); err != nil {
			return err
		}
		b, err := r.Budgets.GetByEvent(ctx, id)
		switch {
		case err == nil:
			if err := r.Budgets.DeleteItemsByBudget(ctx, b.ID); err != nil {
				return err
			}
			if err := r.Budgets.Delete(ctx, b.ID); err != nil {
				return err
			}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		return r.Events.Delete(ctx, id)
	})
	if err == nil {
		s.logger.Info("event deleted", "event_id", id, "actor_id", actor.UserID)
	}
	return err
}

// checkVenue resolves ev.VenueID, enforces ownership and the audience
// limit, and rejects double bookings.  It sets ev.Venue.  The venue row
// stays locked until the caller's transaction ends, which serialises
// concurrent bookings of one venue across the overlap check and write.
func (s *EventService) checkVenue(ctx context.Context, r repository.Repos, actor Actor, ev *model.Event, excludeID uint64) error {
	if ev.VenueID == nil {
		ev.Venue = nil
		return nil
	}
	v, err := r.Venues.GetByIDForUpdate(ctx, *ev.VenueID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("venue not found")
	}
	if err != nil {
		return err
	}
	if !actor.Owns(v.OwnerID) {
		return forbidden("you can only use venues you own")
	}
	if ev.ExpectedAudience != nil && *ev.ExpectedAudience > v.Capacity {
		return badRequest("expectedAudience (%d) exceeds venue capacity (%d)", *ev.ExpectedAudience, v.Capacity)
	}
	ev.Venue = v
	return s.avail.Ensure(ctx, r, v.ID, ev.StartDate, ev.EndDate, excludeID)
}

func validateEvent(ev *model.Event) error {
	switch {
	case ev.Title == "":
		return badRequest("title is required")
	case ev.StartDate.IsZero() || ev.EndDate.IsZero():
		return badRequest("startDate and endDate are required")
	case !ev.StartDate.OnOrBefore(ev.EndDate):
		return badRequest("startDate must be on or before endDate")
	case ev.ExpectedAudience != nil && *ev.ExpectedAudience < 0:
		return badRequest("expectedAudience must not be negative")
	case ev.BudgetAmount.IsNegative():
		return badRequest("budgetAmount must not be negative")
	}
	return nil
}
