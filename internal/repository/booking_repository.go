package repository

import (
	"context"
	"database/sql"

	"github.com/lookaround/property-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  All timestamps
// are stored in UTC; the MySQL DSN uses parseTime so DATETIME columns
// scan straight into time.Time.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying pool for handler-managed transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, property_id, room_id, customer_name, check_in, check_out,
	price_cents, advance_cents, guest_count, source, ical_uid, status, notes, created_at, updated_at`

// Create inserts a booking and populates its generated ID and stored
// timestamps.  Conflict checking is the handler's job; the repository
// writes what it is given.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (property_id, room_id, customer_name, check_in, check_out,
		 price_cents, advance_cents, guest_count, source, ical_uid, status, notes)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.PropertyID, b.RoomID, b.CustomerName, b.CheckIn, b.CheckOut,
		b.PriceCents, b.AdvanceCents, b.GuestCount, b.Source, b.ICalUID, b.Status, b.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM bookings WHERE id=?", b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// ListByProperty returns all bookings of one property ordered by
// check-in, cancelled ones included (the calendar dims them, history
// views need them).
func (r *BookingRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE property_id=? ORDER BY check_in", propertyID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListByOwner returns bookings across every property of the user.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE property_id IN (SELECT id FROM properties WHERE owner_id=?)
		 ORDER BY check_in`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ActiveByProperty returns the non-cancelled bookings of one property.
// This is the conflict detector's input slice.
func (r *BookingRepo) ActiveByProperty(ctx context.Context, propertyID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE property_id=? AND status<>'CANCELLED' ORDER BY check_in",
		propertyID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ActiveByOwner returns non-cancelled bookings across the user's
// properties, for the availability grid.
func (r *BookingRepo) ActiveByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE status<>'CANCELLED'
		   AND property_id IN (SELECT id FROM properties WHERE owner_id=?)
		 ORDER BY check_in`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ImportedUIDs returns the feed event UIDs already materialized for a
// property.  The sync reconciler uses the set as its duplicate guard.
func (r *BookingRepo) ImportedUIDs(ctx context.Context, propertyID uint64) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT ical_uid FROM bookings WHERE property_id=? AND source='ICAL' AND ical_uid IS NOT NULL",
		propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	uids := make(map[string]struct{})
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		uids[uid] = struct{}{}
	}
	return uids, rows.Err()
}

// Cancel marks an owned booking CANCELLED.  Missing booking ->
// sql.ErrNoRows, foreign owner -> ErrForbidden.
func (r *BookingRepo) Cancel(ctx context.Context, bookingID, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT p.owner_id FROM bookings b JOIN properties p ON p.id = b.property_id WHERE b.id=?`,
		bookingID).Scan(&actualOwner)
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE bookings SET status='CANCELLED' WHERE id=?", bookingID)
	return err
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.PropertyID, &b.RoomID, &b.CustomerName, &b.CheckIn, &b.CheckOut,
			&b.PriceCents, &b.AdvanceCents, &b.GuestCount, &b.Source, &b.ICalUID,
			&b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
