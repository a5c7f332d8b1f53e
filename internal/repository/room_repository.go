package repository

import (
	"context"
	"database/sql"

	"github.com/lookaround/property-booking/internal/model"
)

// RoomRepo provides CRUD operations for rooms.  Rooms are always
// reached through their property, so ownership checks join through
// the properties table.
type RoomRepo struct{ db *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// Create inserts a room under a property the caller owns.
func (r *RoomRepo) Create(ctx context.Context, ownerID uint64, room *model.Room) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT owner_id FROM properties WHERE id=?", room.PropertyID).Scan(&actualOwner)
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO rooms (property_id, name, description) VALUES (?,?,?)",
		room.PropertyID, room.Name, room.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM rooms WHERE id=?", room.ID).
		Scan(&room.CreatedAt, &room.UpdatedAt)
}

// ListByProperty returns the rooms of one property ordered by name.
func (r *RoomRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, property_id, name, description, created_at, updated_at
		 FROM rooms WHERE property_id=? ORDER BY name`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var m model.Room
		if err := rows.Scan(&m.ID, &m.PropertyID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListByOwner returns every room across all of the user's properties.
// Used when flattening listings for the calendar.
func (r *RoomRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rm.id, rm.property_id, rm.name, rm.description, rm.created_at, rm.updated_at
		 FROM rooms rm
		 JOIN properties p ON p.id = rm.property_id
		 WHERE p.owner_id=? ORDER BY rm.property_id, rm.name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var m model.Room
		if err := rows.Scan(&m.ID, &m.PropertyID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Delete removes an owned room.  Bookings and blocks that referenced
// the room keep their rows with room_id set NULL by the FK, turning
// them into entire-property records; callers that dislike that should
// cancel them first.
func (r *RoomRepo) Delete(ctx context.Context, roomID, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT p.owner_id FROM rooms rm JOIN properties p ON p.id = rm.property_id WHERE rm.id=?`,
		roomID).Scan(&actualOwner)
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", roomID)
	return err
}
