package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// SessionInput is the payload of a new session.
type SessionInput struct {
	Title           string  `json:"title" validate:"required,max=200"`
	DurationMinutes int     `json:"durationMinutes" validate:"required,min=1"`
	StartTime       *string `json:"startTime"`
	Topic           string  `json:"topic"`
	Capacity        int     `json:"capacity" validate:"min=0"`
	RoomID          *uint64 `json:"roomId"`
}

// SessionPatch holds the fields a PATCH may change; nil means keep.  A
// RoomID of 0 unassigns the room and an empty StartTime clears it.
type SessionPatch struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=200"`
	DurationMinutes *int    `json:"durationMinutes" validate:"omitempty,min=1"`
	StartTime       *string `json:"startTime"`
	Topic           *string `json:"topic"`
	Capacity        *int    `json:"capacity" validate:"omitempty,min=0"`
	RoomID          *uint64 `json:"roomId"`
}

// SessionService manages an event's programme.  A session's room, when
// set, always belongs to the same event.
type SessionService struct {
	store repository.Store
}

// NewSessionService builds a SessionService.
func NewSessionService(store repository.Store) *SessionService { return &SessionService{store: store} }

// Create adds a session to eventID.
func (s *SessionService) Create(ctx context.Context, actor Actor, eventID uint64, in SessionInput) (*model.Session, error) {
	topic, ok := model.NormalizeTopic(in.Topic)
	if !ok {
		return nil, badRequest("invalid topic %q", in.Topic)
	}
	ss := &model.Session{
		EventID:         eventID,
		Title:           strings.TrimSpace(in.Title),
		DurationMinutes: in.DurationMinutes,
		Topic:           topic,
		Capacity:        in.Capacity,
	}
	if in.StartTime != nil && strings.TrimSpace(*in.StartTime) != "" {
		t, err := ParseStartTime(*in.StartTime)
		if err != nil {
			return nil, badRequest("%s", err.Error())
		}
		ss.StartTime = &t
	}
	if err := validateSession(ss); err != nil {
		return nil, err
	}

	var out *model.Session
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		if _, err := loadManagedEvent(ctx, r, actor, eventID); err != nil {
			return err
		}
		if in.RoomID != nil && *in.RoomID != 0 {
			if err := checkSessionRoom(ctx, r, eventID, *in.RoomID); err != nil {
				return err
			}
			ss.RoomID = in.RoomID
		}
		if err := r.Sessions.Create(ctx, ss); err != nil {
			return err
		}
		created, err := r.Sessions.GetByID(ctx, ss.ID)
		out = created
		return err
	})
	return out, err
}

// List returns eventID's sessions in programme order.
func (s *SessionService) List(ctx context.Context, eventID uint64) ([]model.Session, error) {
	r := s.store.Repos()
	if _, err := loadEvent(ctx, r, eventID); err != nil {
		return nil, err
	}
	sessions, err := r.Sessions.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	SortSessions(sessions)
	return sessions, nil
}

// Update applies patch to sessionID.
func (s *SessionService) Update(ctx context.Context, actor Actor, eventID, sessionID uint64, patch SessionPatch) (*model.Session, error) {
	var out *model.Session
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		ss, err := loadEventSession(ctx, r, actor, eventID, sessionID)
		if err != nil {
			return err
		}
		if patch.Title != nil {
			ss.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.DurationMinutes != nil {
			ss.DurationMinutes = *patch.DurationMinutes
		}
		if patch.Capacity != nil {
			ss.Capacity = *patch.Capacity
		}
		if patch.Topic != nil {
			topic, ok := model.NormalizeTopic(*patch.Topic)
			if !ok {
				return badRequest("invalid topic %q", *patch.Topic)
			}
			ss.Topic = topic
		}
		if patch.StartTime != nil {
			if strings.TrimSpace(*patch.StartTime) == "" {
				ss.StartTime = nil
			} else {
				t, err := ParseStartTime(*patch.StartTime)
				if err != nil {
					return badRequest("%s", err.Error())
				}
				ss.StartTime = &t
			}
		}
		if patch.RoomID != nil {
			if *patch.RoomID == 0 {
				ss.RoomID = nil
			} else {
				if err := checkSessionRoom(ctx, r, eventID, *patch.RoomID); err != nil {
					return err
				}
				ss.RoomID = patch.RoomID
			}
		}
		if err := validateSession(ss); err != nil {
			return err
		}
		if err := r.Sessions.Update(ctx, ss); err != nil {
			return err
		}
		out, err = r.Sessions.GetByID(ctx, ss.ID)
		return err
	})
	return out, err
}

// Delete removes sessionID.
func (s *SessionService) Delete(ctx context.Context, actor Actor, eventID, sessionID uint64) error {
	return s.store.WithTx(ctx, func(r repository.Repos) error {
		if _, err := loadEventSession(ctx, r, actor, eventID, sessionID); err != nil {
			return err
		}
		return r.Sessions.Delete(ctx, sessionID)
	})
}

func loadEventSession(ctx context.Context, r repository.Repos, actor Actor, eventID, sessionID uint64) (*model.Session, error) {
	if _, err := loadManagedEvent(ctx, r, actor, eventID); err != nil {
		return nil, err
	}
	ss, err := r.Sessions.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && ss.EventID != eventID) {
		return nil, notFound("session not found")
	}
	return ss, err
}

func checkSessionRoom(ctx context.Context, r repository.Repos, eventID, roomID uint64) error {
	rm, err := r.Rooms.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && rm.EventID != eventID) {
		return badRequest("room %d does not belong to this event", roomID)
	}
	return err
}

func validateSession(ss *model.Session) error {
	switch {
	case ss.Title == "":
		return badRequest("title is required")
	case ss.DurationMinutes < 1:
		return badRequest("durationMinutes must be at least 1")
	case ss.Capacity < 0:
		return badRequest("capacity must not be negative")
	}
	return nil
}
