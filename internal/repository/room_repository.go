package repository

import (
	"context"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
)

// RoomRepository persists the rooms of an event.
type RoomRepository interface {
	Create(ctx context.Context, rm *model.Room) error
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]model.Room, error)
	Update(ctx context.Context, rm *model.Room) error
	Delete(ctx context.Context, id uint64) error
	DeleteByEvent(ctx context.Context, eventID uint64) error
}

// RoomRepo provides CRUD operations for the rooms table.
type RoomRepo struct{ q querier }

// Create inserts rm and fills rm.ID.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO rooms (event_id, name, capacity) VALUES (?,?,?)",
		rm.EventID, rm.Name, rm.Capacity)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	return nil
}

// GetByID returns the room or ErrNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	var rm model.Room
	err := r.q.QueryRowContext(ctx,
		"SELECT id, event_id, name, capacity FROM rooms WHERE id=?", id).
		Scan(&rm.ID, &rm.EventID, &rm.Name, &rm.Capacity)
	if err != nil {
		return nil, translate(err)
	}
	return &rm, nil
}

// ListByEvent returns the event's rooms ordered by name then id.
func (r *RoomRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Room, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, event_id, name, capacity FROM rooms WHERE event_id=? ORDER BY name, id", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Room{}
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.EventID, &rm.Name, &rm.Capacity); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Update writes name and capacity.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	_, err := r.q.ExecContext(ctx, "UPDATE rooms SET name=?, capacity=? WHERE id=?", rm.Name, rm.Capacity, rm.ID)
	return translate(err)
}

// Delete removes one room.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.q.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", id))
}

// DeleteByEvent removes every room of the event.
func (r *RoomRepo) DeleteByEvent(ctx context.Context, eventID uint64) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM rooms WHERE event_id=?", eventID)
	return err
}
