package repository

import (
	"context"
	"database/sql"

	"github.com/lookaround/property-booking/internal/model"
)

// BlockRepo provides CRUD operations for manual blocks.
type BlockRepo struct{ db *sql.DB }

func NewBlockRepo(db *sql.DB) *BlockRepo { return &BlockRepo{db: db} }

// Create inserts a block under a property the caller owns.
func (r *BlockRepo) Create(ctx context.Context, ownerID uint64, b *model.Block) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT owner_id FROM properties WHERE id=?", b.PropertyID).Scan(&actualOwner)
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO blocks (property_id, room_id, start_date, end_date, reason) VALUES (?,?,?,?,?)",
		b.PropertyID, b.RoomID, b.StartDate, b.EndDate, b.Reason)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM blocks WHERE id=?", b.ID).Scan(&b.CreatedAt)
}

// ListByProperty returns all blocks of one property ordered by start.
func (r *BlockRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Block, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, property_id, room_id, start_date, end_date, reason, created_at
		 FROM blocks WHERE property_id=? ORDER BY start_date`, propertyID)
	if err != nil {
		return nil, err
	}
	return collectBlocks(rows)
}

// ListByOwner returns blocks across every property of the user.
func (r *BlockRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Block, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, property_id, room_id, start_date, end_date, reason, created_at
		 FROM blocks
		 WHERE property_id IN (SELECT id FROM properties WHERE owner_id=?)
		 ORDER BY start_date`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectBlocks(rows)
}

// Delete removes an owned block.
func (r *BlockRepo) Delete(ctx context.Context, blockID, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT p.owner_id FROM blocks b JOIN properties p ON p.id = b.property_id WHERE b.id=?`,
		blockID).Scan(&actualOwner)
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM blocks WHERE id=?", blockID)
	return err
}

func collectBlocks(rows *sql.Rows) ([]model.Block, error) {
	defer rows.Close()
	out := make([]model.Block, 0)
	for rows.Next() {
		var b model.Block
		if err := rows.Scan(&b.ID, &b.PropertyID, &b.RoomID, &b.StartDate, &b.EndDate, &b.Reason, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
