package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// VenueInput is the payload of a new venue.
type VenueInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Address  string `json:"address" validate:"max=500"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// VenuePatch holds the fields a PATCH may change; nil means keep.
type VenuePatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=1"`
}

// Availability is the answer of a venue availability query.
type Availability struct {
	VenueID   uint64        `json:"venueId"`
	Available bool          `json:"available"`
	Message   string        `json:"message,omitempty"`
	Conflicts []model.Event `json:"conflicts"`
}

// VenueService manages organizer owned venues.
type VenueService struct {
	store repository.Store
	avail AvailabilityChecker
}

// NewVenueService builds a VenueService.
func NewVenueService(store repository.Store) *VenueService {
	return &VenueService{store: store}
}

// Create inserts a venue owned by actor.
func (s *VenueService) Create(ctx context.Context, actor Actor, in VenueInput) (*model.Venue, error) {
	v := &model.Venue{
		Name:     strings.TrimSpace(in.Name),
		Address:  strings.TrimSpace(in.Address),
		Capacity: in.Capacity,
		OwnerID:  actor.UserID,
	}
	if err := validateVenue(v); err != nil {
		return nil, err
	}
	r := s.store.Repos()
	if err := r.Venues.Create(ctx, v); err != nil {
		return nil, err
	}
	return r.Venues.GetByID(ctx, v.ID)
}

// Get returns a venue the actor owns.
func (s *VenueService) Get(ctx context.Context, actor Actor, id uint64) (*model.Venue, error) {
	return s.owned(ctx, s.store.Repos(), actor, id)
}

// List returns the actor's venues, or all venues for admins.
func (s *VenueService) List(ctx context.Context, actor Actor) ([]model.Venue, error) {
	if actor.IsAdmin() {
		return s.store.Repos().Venues.ListAll(ctx)
	}
	return s.store.Repos().Venues.ListByOwner(ctx, actor.UserID)
}

// Update applies patch.  Lowering the capacity does not re-check events
// already attached to the venue.
func (s *VenueService) Update(ctx context.Context, actor Actor, id uint64, patch VenuePatch) (*model.Venue, error) {
	var out *model.Venue
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		v, err := s.owned(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			v.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Address != nil {
			v.Address = strings.TrimSpace(*patch.Address)
		}
		if patch.Capacity != nil {
			v.Capacity = *patch.Capacity
		}
		if err := validateVenue(v); err != nil {
			return err
		}
		if err := r.Venues.Update(ctx, v); err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Delete removes a venue no event references.
func (s *VenueService) Delete(ctx context.Context, actor Actor, id uint64) error {
	return s.store.WithTx(ctx, func(r repository.Repos) error {
		if _, err := s.owned(ctx, r, actor, id); err != nil {
			return err
		}
		n, err := r.Venues.CountEvents(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return conflict("venue is used by %d event(s)", n)
		}
		return r.Venues.Delete(ctx, id)
	})
}

// Availability reports the events booked at venueID during [start, end].
func (s *VenueService) Availability(ctx context.Context, venueID uint64, start, end model.Date, excludeEventID uint64) (*Availability, error) {
	if !start.OnOrBefore(end) {
		return nil, badRequest("startDate must be on or before endDate")
	}
	r := s.store.Repos()
	if _, err := r.Venues.GetByID(ctx, venueID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("venue not found")
		}
		return nil, err
	}
	conflicts, err := s.avail.Overlaps(ctx, r, venueID, start, end, excludeEventID)
	if err != nil {
		return nil, err
	}
	out := &Availability{VenueID: venueID, Available: len(conflicts) == 0, Conflicts: conflicts}
	if !out.Available {
		out.Message = ConflictMessage(conflicts)
	}
	return out, nil
}

func (s *VenueService) owned(ctx context.Context, r repository.Repos, actor Actor, id uint64) (*model.Venue, error) {
	v, err := r.Venues.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("venue not found")
	}
	if err != nil {
		return nil, err
	}
	if !actor.Owns(v.OwnerID) {
		return nil, forbidden("you do not own this venue")
	}
	return v, nil
}

func validateVenue(v *model.Venue) error {
	if v.Name == "" {
		return badRequest("name is required")
	}
	if v.Capacity < 1 {
		return badRequest("capacity must be greater than 0")
	}
	return nil
}
