package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// RoomInput is the payload of a new room.
type RoomInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// RoomPatch holds the fields a PATCH may change; nil means keep.
type RoomPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=1"`
}

// RoomService manages the rooms of an event.  A room never holds more
// people than the event's venue.
type RoomService struct {
	store repository.Store
}

// NewRoomService builds a RoomService.
func NewRoomService(store repository.Store) *RoomService { return &RoomService{store: store} }

// Create adds a room to eventID.
func (s *RoomService) Create(ctx context.Context, actor Actor, eventID uint64, in RoomInput) (*model.Room, error) {
	rm := &model.Room{EventID: eventID, Name: strings.TrimSpace(in.Name), Capacity: in.Capacity}
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		ev, err := loadManagedEvent(ctx, r, actor, eventID)
		if err != nil {
			return err
		}
		if err := validateRoom(ev, rm); err != nil {
			return err
		}
		return r.Rooms.Create(ctx, rm)
	})
	if err != nil {
		return nil, err
	}
	return rm, nil
}

// List returns eventID's rooms.
func (s *RoomService) List(ctx context.Context, eventID uint64) ([]model.Room, error) {
	r := s.store.Repos()
	if _, err := loadEvent(ctx, r, eventID); err != nil {
		return nil, err
	}
	return r.Rooms.ListByEvent(ctx, eventID)
}

// Update applies patch to roomID.
func (s *RoomService) Update(ctx context.Context, actor Actor, eventID, roomID uint64, patch RoomPatch) (*model.Room, error) {
	var out *model.Room
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		ev, rm, err := loadEventRoom(ctx, r, actor, eventID, roomID)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			rm.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Capacity != nil {
			rm.Capacity = *patch.Capacity
		}
		if err := validateRoom(ev, rm); err != nil {
			return err
		}
		if err := r.Rooms.Update(ctx, rm); err != nil {
			return err
		}
		out = rm
		return nil
	})
	return out, err
}

// Delete unassigns the room from its sessions and removes it.
func (s *RoomService) Delete(ctx context.Context, actor Actor, eventID, roomID uint64) error {
	return s.store.WithTx(ctx, func(r repository.Repos) error {
		if _, _, err := loadEventRoom(ctx, r, actor, eventID, roomID); err != nil {
			return err
		}
		if err := r.Sessions.ClearRoom(ctx, roomID); err != nil {
			return err
		}
		return r.Rooms.Delete(ctx, roomID)
	})
}

func loadEventRoom(ctx context.Context, r repository.Repos, actor Actor, eventID, roomID uint64) (*model.Event, *model.Room, error) {
	ev, err := loadManagedEvent(ctx, r, actor, eventID)
	if err != nil {
		return nil, nil, err
	}
	rm, err := r.Rooms.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && rm.EventID != eventID) {
		return nil, nil, notFound("room not found")
	}
	if err != nil {
		return nil, nil, err
	}
	return ev, rm, nil
}

func validateRoom(ev *model.Event, rm *model.Room) error {
	if rm.Name == "" {
		return badRequest("name is required")
	}
	if rm.Capacity < 1 {
		return badRequest("capacity must be greater than 0")
	}
	if ev.Venue != nil && rm.Capacity > ev.Venue.Capacity {
		return badRequest("room capacity (%d) exceeds venue capacity (%d)", rm.Capacity, ev.Venue.Capacity)
	}
	return nil
}
