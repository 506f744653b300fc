package repository

import (
	"context"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
)

// VenueRepository persists venues owned by organizers.
type VenueRepository interface {
	Create(ctx context.Context, v *model.Venue) error
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*model.Venue, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Venue, error)
	ListAll(ctx context.Context) ([]model.Venue, error)
	Update(ctx context.Context, v *model.Venue) error
	Delete(ctx context.Context, id uint64) error
	CountEvents(ctx context.Context, venueID uint64) (int, error)
}

// VenueRepo provides CRUD operations for the venues table.
type VenueRepo struct{ q querier }

const venueColumns = "id, name, address, capacity, owner_id, created_at"

// Create inserts v and fills v.ID.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO venues (name, address, capacity, owner_id) VALUES (?,?,?,?)",
		v.Name, v.Address, v.Capacity, v.OwnerID)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID returns the venue or ErrNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	return r.get(ctx, "SELECT "+venueColumns+" FROM venues WHERE id=?", id)
}

// GetByIDForUpdate locks the venue row until the transaction resolves.
// Event writes take it before the overlap check so two bookings of the
// same venue cannot both pass the check.
func (r *VenueRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*model.Venue, error) {
	return r.get(ctx, "SELECT "+venueColumns+" FROM venues WHERE id=? FOR UPDATE", id)
}

func (r *VenueRepo) get(ctx context.Context, q string, id uint64) (*model.Venue, error) {
	var v model.Venue
	err := r.q.QueryRowContext(ctx, q, id).
		Scan(&v.ID, &v.Name, &v.Address, &v.Capacity, &v.OwnerID, &v.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// ListByOwner returns the owner's venues ordered by id.
func (r *VenueRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Venue, error) {
	return r.list(ctx, "SELECT "+venueColumns+" FROM venues WHERE owner_id=? ORDER BY id", ownerID)
}

// ListAll returns every venue ordered by id.  Used for admins.
func (r *VenueRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
	return r.list(ctx, "SELECT "+venueColumns+" FROM venues ORDER BY id")
}

func (r *VenueRepo) list(ctx context.Context, q string, args ...any) ([]model.Venue, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Venue{}
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.Capacity, &v.OwnerID, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update writes name, address and capacity.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	_, err := r.q.ExecContext(ctx,
		"UPDATE venues SET name=?, address=?, capacity=? WHERE id=?",
		v.Name, v.Address, v.Capacity, v.ID)
	return translate(err)
}

// Delete removes the venue row.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.q.ExecContext(ctx, "DELETE FROM venues WHERE id=?", id))
}

// CountEvents returns how many events reference the venue.
func (r *VenueRepo) CountEvents(ctx context.Context, venueID uint64) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM events WHERE venue_id=?", venueID).Scan(&n)
	return n, err
}
