package repository

import (
	"context"
	"database/sql"

	"github.com/lookaround/property-booking/internal/model"
)

// PropertyRepo provides CRUD operations for properties and their
// rooms.  Ownership checks happen here so handlers only need to map
// sentinel errors to statuses: sql.ErrNoRows means the resource does
// not exist, ErrForbidden means it belongs to another user.
type PropertyRepo struct{ db *sql.DB }

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

// DB exposes the underlying pool for handler-managed transactions.
func (r *PropertyRepo) DB() *sql.DB { return r.db }

// Create inserts a property and populates the generated ID plus the
// stored timestamps on the given record.  The caller supplies the
// export token.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO properties (owner_id, name, description, address, export_token) VALUES (?,?,?,?,?)",
		p.OwnerID, p.Name, p.Description, p.Address, p.ExportToken)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM properties WHERE id=?", p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// ListByOwner returns all properties of a user, newest first.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Property, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, description, address, export_token, created_at, updated_at
		 FROM properties WHERE owner_id=? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Property, 0)
	for rows.Next() {
		var p model.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetOwned returns one property after verifying that the caller owns
// it.  Missing property -> sql.ErrNoRows, foreign owner -> ErrForbidden.
func (r *PropertyRepo) GetOwned(ctx context.Context, id, ownerID uint64) (model.Property, error) {
	var p model.Property
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, address, export_token, created_at, updated_at
		 FROM properties WHERE id=?`, id).
		Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Address, &p.ExportToken, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Property{}, err
	}
	if p.OwnerID != ownerID {
		return model.Property{}, ErrForbidden
	}
	return p, nil
}

// GetByExportToken resolves the public calendar export URL.  No
// ownership check: the random token itself is the capability.
func (r *PropertyRepo) GetByExportToken(ctx context.Context, token string) (model.Property, error) {
	var p model.Property
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, address, export_token, created_at, updated_at
		 FROM properties WHERE export_token=? LIMIT 1`, token).
		Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Address, &p.ExportToken, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Update rewrites the mutable fields of an owned property.
func (r *PropertyRepo) Update(ctx context.Context, id, ownerID uint64, name string, description, address *string) error {
	if _, err := r.GetOwned(ctx, id, ownerID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE properties SET name=?, description=?, address=? WHERE id=?",
		name, description, address, id)
	return err
}

// Delete removes an owned property.  A property with non-cancelled
// upcoming bookings cannot be deleted and yields ErrConflict; rooms,
// blocks and historical bookings go with the property via FK cascade.
func (r *PropertyRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	if _, err := r.GetOwned(ctx, id, ownerID); err != nil {
		return err
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE property_id=? AND status<>'CANCELLED' AND check_out > UTC_TIMESTAMP()",
		id).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM properties WHERE id=?", id)
	return err
}

func scanProperty(rows *sql.Rows, p *model.Property) error {
	return rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Address, &p.ExportToken, &p.CreatedAt, &p.UpdatedAt)
}
