package repository

import (
	"context"
	"database/sql"

	"github.com/lookaround/property-booking/internal/model"
)

// FeedRepo persists saved iCal feed subscriptions.
type FeedRepo struct{ db *sql.DB }

func NewFeedRepo(db *sql.DB) *FeedRepo { return &FeedRepo{db: db} }

const feedColumns = "id, user_id, property_id, name, url, last_synced, created_at"

// Create inserts a feed after verifying the user owns the target
// property.
func (r *FeedRepo) Create(ctx context.Context, f *model.Feed) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT owner_id FROM properties WHERE id=?", f.PropertyID).Scan(&actualOwner)
	if err != nil {
		return err
	}
	if actualOwner != f.UserID {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO ical_feeds (user_id, property_id, name, url) VALUES (?,?,?,?)",
		f.UserID, f.PropertyID, f.Name, f.URL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM ical_feeds WHERE id=?", f.ID).Scan(&f.CreatedAt)
}

// ListByUser returns the user's feeds, newest first.
func (r *FeedRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Feed, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+feedColumns+" FROM ical_feeds WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	return collectFeeds(rows)
}

// ListAll returns every saved feed.  The background scheduler walks
// this list on each tick.
func (r *FeedRepo) ListAll(ctx context.Context) ([]model.Feed, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+feedColumns+" FROM ical_feeds ORDER BY id")
	if err != nil {
		return nil, err
	}
	return collectFeeds(rows)
}

// GetOwned returns one feed after verifying ownership.
func (r *FeedRepo) GetOwned(ctx context.Context, feedID, userID uint64) (model.Feed, error) {
	var f model.Feed
	err := r.db.QueryRowContext(ctx,
		"SELECT "+feedColumns+" FROM ical_feeds WHERE id=?", feedID).
		Scan(&f.ID, &f.UserID, &f.PropertyID, &f.Name, &f.URL, &f.LastSynced, &f.CreatedAt)
	if err != nil {
		return model.Feed{}, err
	}
	if f.UserID != userID {
		return model.Feed{}, ErrForbidden
	}
	return f, nil
}

// Delete removes an owned feed.  Bookings imported through the feed
// stay; only the subscription goes away.
func (r *FeedRepo) Delete(ctx context.Context, feedID, userID uint64) error {
	if _, err := r.GetOwned(ctx, feedID, userID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM ical_feeds WHERE id=?", feedID)
	return err
}

// TouchLastSynced stamps the completion of a sync pass, successful or
// empty alike.
func (r *FeedRepo) TouchLastSynced(ctx context.Context, feedID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE ical_feeds SET last_synced=UTC_TIMESTAMP() WHERE id=?", feedID)
	return err
}

func collectFeeds(rows *sql.Rows) ([]model.Feed, error) {
	defer rows.Close()
	out := make([]model.Feed, 0)
	for rows.Next() {
		var f model.Feed
		if err := rows.Scan(&f.ID, &f.UserID, &f.PropertyID, &f.Name, &f.URL, &f.LastSynced, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
