package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
)

// SessionRepository persists the programme of an event.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	GetByID(ctx context.Context, id uint64) (*model.Session, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]model.Session, error)
	Update(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id uint64) error
	ClearRoom(ctx context.Context, roomID uint64) error
	DeleteByEvent(ctx context.Context, eventID uint64) error
}

// SessionRepo provides data access to the sessions table.  Reads join the
// assigned room for its name.
type SessionRepo struct{ q querier }

const sessionSelect = `SELECT s.id, s.event_id, s.room_id, s.title, s.duration_minutes, s.start_time,
       s.topic, s.capacity, r.name
FROM sessions s
LEFT JOIN rooms r ON r.id = s.room_id`

// Create inserts s and fills s.ID.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (event_id, room_id, title, duration_minutes, start_time, topic, capacity)
		 VALUES (?,?,?,?,?,?,?)`,
		s.EventID, nullUint64(s.RoomID), s.Title, s.DurationMinutes, nullTime(s.StartTime), s.Topic, s.Capacity)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID returns the session with its room projection or ErrNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	return scanSession(r.q.QueryRowContext(ctx, sessionSelect+" WHERE s.id = ?", id))
}

// ListByEvent returns the event's sessions ordered by id.
func (r *SessionRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Session, error) {
	rows, err := r.q.QueryContext(ctx, sessionSelect+" WHERE s.event_id = ? ORDER BY s.id", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Update writes every mutable column of s, including room and start time.
func (r *SessionRepo) Update(ctx context.Context, s *model.Session) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET room_id=?, title=?, duration_minutes=?, start_time=?, topic=?, capacity=?
		 WHERE id=?`,
		nullUint64(s.RoomID), s.Title, s.DurationMinutes, nullTime(s.StartTime), s.Topic, s.Capacity, s.ID)
	return translate(err)
}

// Delete removes one session.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.q.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id))
}

// ClearRoom unassigns roomID from every session that references it.
func (r *SessionRepo) ClearRoom(ctx context.Context, roomID uint64) error {
	_, err := r.q.ExecContext(ctx, "UPDATE sessions SET room_id=NULL WHERE room_id=?", roomID)
	return err
}

// DeleteByEvent removes every session of the event.
func (r *SessionRepo) DeleteByEvent(ctx context.Context, eventID uint64) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM sessions WHERE event_id=?", eventID)
	return err
}

func scanSession(row rowScanner) (*model.Session, error) {
	var (
		s        model.Session
		roomID   sql.NullInt64
		start    sql.NullTime
		roomName sql.NullString
	)
	err := row.Scan(&s.ID, &s.EventID, &roomID, &s.Title, &s.DurationMinutes, &start,
		&s.Topic, &s.Capacity, &roomName)
	if err != nil {
		return nil, translate(err)
	}
	s.RoomID = uint64Ptr(roomID)
	if start.Valid {
		t := start.Time.UTC()
		s.StartTime = &t
	}
	if s.RoomID != nil && roomName.Valid {
		s.Room = &model.RoomSummary{ID: *s.RoomID, Name: roomName.String}
	}
	return &s, nil
}

func nullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: p.UTC(), Valid: true}
}
