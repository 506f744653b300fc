package repository

import (
	"context"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
)

// AttendeeRepository persists event registrations.  Rows are unique per
// (event_id, user_id) and are flipped between statuses rather than
// deleted, except when the whole event is removed.
type AttendeeRepository interface {
	Create(ctx context.Context, a *model.Attendee) error
	GetByEventAndUser(ctx context.Context, eventID, userID uint64) (*model.Attendee, error)
	CountByStatus(ctx context.Context, eventID uint64, status model.AttendeeStatus) (int, error)
	OldestByStatus(ctx context.Context, eventID uint64, status model.AttendeeStatus) (*model.Attendee, error)
	UpdateStatus(ctx context.Context, id uint64, status model.AttendeeStatus) error
	ListByEvent(ctx context.Context, eventID uint64) ([]model.Attendee, error)
	DeleteByEvent(ctx context.Context, eventID uint64) error
}

// AttendeeRepo provides data access to the event_attendees table.
type AttendeeRepo struct{ q querier }

const attendeeSelect = `SELECT a.id, a.event_id, a.user_id, a.status, a.joined_at, u.id, u.name, u.email
FROM event_attendees a
JOIN users u ON u.id = a.user_id`

// Create inserts a and fills a.ID.  JoinedAt must be set by the caller; a
// second row for the same pair yields ErrConflict.
func (r *AttendeeRepo) Create(ctx context.Context, a *model.Attendee) error {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO event_attendees (event_id, user_id, status, joined_at) VALUES (?,?,?,?)",
		a.EventID, a.UserID, string(a.Status), a.JoinedAt.UTC())
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByEventAndUser returns the pair's row, whatever its status, with the
// user projection loaded.
func (r *AttendeeRepo) GetByEventAndUser(ctx context.Context, eventID, userID uint64) (*model.Attendee, error) {
	return scanAttendee(r.q.QueryRowContext(ctx,
		attendeeSelect+" WHERE a.event_id = ? AND a.user_id = ?", eventID, userID))
}

// CountByStatus counts the event's rows in the given status.
func (r *AttendeeRepo) CountByStatus(ctx context.Context, eventID uint64, status model.AttendeeStatus) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM event_attendees WHERE event_id=? AND status=?", eventID, string(status)).Scan(&n)
	return n, err
}

// OldestByStatus returns the row with the smallest joined_at (ties broken
// by id) in the given status, or ErrNotFound when there is none.
func (r *AttendeeRepo) OldestByStatus(ctx context.Context, eventID uint64, status model.AttendeeStatus) (*model.Attendee, error) {
	return scanAttendee(r.q.QueryRowContext(ctx,
		attendeeSelect+" WHERE a.event_id = ? AND a.status = ? ORDER BY a.joined_at ASC, a.id ASC LIMIT 1",
		eventID, string(status)))
}

// UpdateStatus sets the status of one row.
func (r *AttendeeRepo) UpdateStatus(ctx context.Context, id uint64, status model.AttendeeStatus) error {
	return affectedOrNotFound(r.q.ExecContext(ctx,
		"UPDATE event_attendees SET status=? WHERE id=?", string(status), id))
}

// ListByEvent returns every row of the event, all statuses, ordered by
// joined_at ascending then id.
func (r *AttendeeRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Attendee, error) {
	rows, err := r.q.QueryContext(ctx,
		attendeeSelect+" WHERE a.event_id = ? ORDER BY a.joined_at ASC, a.id ASC", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Attendee{}
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// DeleteByEvent hard-deletes the event's rows.  Only the event cascade
// calls this.
func (r *AttendeeRepo) DeleteByEvent(ctx context.Context, eventID uint64) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM event_attendees WHERE event_id=?", eventID)
	return err
}

func scanAttendee(row rowScanner) (*model.Attendee, error) {
	var (
		a      model.Attendee
		status string
		u      model.UserSummary
	)
	if err := row.Scan(&a.ID, &a.EventID, &a.UserID, &status, &a.JoinedAt, &u.ID, &u.Name, &u.Email); err != nil {
		return nil, translate(err)
	}
	a.Status = model.AttendeeStatus(status)
	a.JoinedAt = a.JoinedAt.UTC()
	a.User = &u
	return &a, nil
}
