package repository

import (
	"context"
	"database/sql"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
)

// EventRepository persists events.  Reads join the optional venue so that
// capacity can be derived without a second round trip.
type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*model.Event, error)
	ListByOrganizer(ctx context.Context, organizerID uint64) ([]model.Event, error)
	ListAll(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id uint64) error
	FindOverlapping(ctx context.Context, venueID uint64, start, end model.Date, excludeID uint64) ([]model.Event, error)
}

// EventRepo provides data access to the events table.
type EventRepo struct{ q querier }

const eventSelect = `SELECT e.id, e.title, e.start_date, e.end_date, e.expected_audience,
       e.budget_amount, e.organizer_id, e.venue_id, e.created_at, e.updated_at,
       v.id, v.name, v.address, v.capacity, v.owner_id, v.created_at
FROM events e
LEFT JOIN venues v ON v.id = e.venue_id`

// Create inserts e and fills e.ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO events (title, start_date, end_date, expected_audience, budget_amount, organizer_id, venue_id)
		 VALUES (?,?,?,?,?,?,?)`,
		e.Title, e.StartDate, e.EndDate, nullInt(e.ExpectedAudience), e.BudgetAmount, e.OrganizerID, nullUint64(e.VenueID))
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID returns the event with its venue projection or ErrNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	return scanEvent(r.q.QueryRowContext(ctx, eventSelect+" WHERE e.id = ?", id))
}

// GetByIDForUpdate is GetByID plus an exclusive row lock on the event row
// that is held until the surrounding transaction resolves.  Concurrent
// callers locking the same event queue up behind it, which serialises the
// count-then-decide step of registration.  Outside a transaction the lock
// is released as soon as the statement completes.
func (r *EventRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*model.Event, error) {
	return scanEvent(r.q.QueryRowContext(ctx, eventSelect+" WHERE e.id = ? FOR UPDATE OF e", id))
}

// ListByOrganizer returns the organizer's events ordered by start date.
func (r *EventRepo) ListByOrganizer(ctx context.Context, organizerID uint64) ([]model.Event, error) {
	return r.list(ctx, eventSelect+" WHERE e.organizer_id = ? ORDER BY e.start_date, e.id", organizerID)
}

// ListAll returns every event ordered by start date.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	return r.list(ctx, eventSelect+" ORDER BY e.start_date, e.id")
}

// FindOverlapping returns events at venueID whose inclusive date range
// intersects [start, end], that is start_date <= end AND end_date >= start.
// excludeID, when non-zero, omits the event being rescheduled.
func (r *EventRepo) FindOverlapping(ctx context.Context, venueID uint64, start, end model.Date, excludeID uint64) ([]model.Event, error) {
	return r.list(ctx,
		eventSelect+" WHERE e.venue_id = ? AND e.start_date <= ? AND e.end_date >= ? AND e.id <> ? ORDER BY e.start_date, e.id",
		venueID, end, start, excludeID)
}

func (r *EventRepo) list(ctx context.Context, q string, args ...any) ([]model.Event, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Update writes every mutable column of e.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE events SET title=?, start_date=?, end_date=?, expected_audience=?, budget_amount=?, venue_id=?
		 WHERE id=?`,
		e.Title, e.StartDate, e.EndDate, nullInt(e.ExpectedAudience), e.BudgetAmount, nullUint64(e.VenueID), e.ID)
	return translate(err)
}

// Delete removes the event row only.  Children are removed by the caller
// beforehand.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.q.ExecContext(ctx, "DELETE FROM events WHERE id=?", id))
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var (
		e        model.Event
		audience sql.NullInt64
		venueRef sql.NullInt64
		vID      sql.NullInt64
		vName    sql.NullString
		vAddr    sql.NullString
		vCap     sql.NullInt64
		vOwner   sql.NullInt64
		vCreated sql.NullTime
	)
	err := row.Scan(&e.ID, &e.Title, &e.StartDate, &e.EndDate, &audience,
		&e.BudgetAmount, &e.OrganizerID, &venueRef, &e.CreatedAt, &e.UpdatedAt,
		&vID, &vName, &vAddr, &vCap, &vOwner, &vCreated)
	if err != nil {
		return nil, translate(err)
	}
	if audience.Valid {
		n := int(audience.Int64)
		e.ExpectedAudience = &n
	}
	e.VenueID = uint64Ptr(venueRef)
	if vID.Valid {
		e.Venue = &model.Venue{
			ID:        uint64(vID.Int64),
			Name:      vName.String,
			Address:   vAddr.String,
			Capacity:  int(vCap.Int64),
			OwnerID:   uint64(vOwner.Int64),
			CreatedAt: vCreated.Time,
		}
	}
	return &e, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
