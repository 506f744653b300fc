package service

import (
	"context"
	"errors"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// Actor is the authenticated caller as established by the JWT middleware.
type Actor struct {
	UserID uint64
	Role   string
}

// IsAdmin reports whether the actor may act on any event or venue.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// Owns reports whether the actor is ownerID or an admin.
func (a Actor) Owns(ownerID uint64) bool { return a.IsAdmin() || a.UserID == ownerID }

// loadEvent fetches an event and maps a missing row to a NotFound error.
func loadEvent(ctx context.Context, r repository.Repos, id uint64) (*model.Event, error) {
	ev, err := r.Events.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("event not found")
	}
	return ev, err
}

// loadManagedEvent is loadEvent plus the organizer-or-admin check.
func loadManagedEvent(ctx context.Context, r repository.Repos, actor Actor, id uint64) (*model.Event, error) {
	ev, err := loadEvent(ctx, r, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(ev.OrganizerID) {
		return nil, forbidden("only the event organizer can do this")
	}
	return ev, nil
}
