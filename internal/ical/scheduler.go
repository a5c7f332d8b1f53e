package ical

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lookaround/property-booking/internal/model"
	"github.com/lookaround/property-booking/internal/repository"
)

// SyncService materializes reconciled feed events as ICAL-sourced
// bookings.  It backs both the manual sync endpoint and the periodic
// cron job; the two paths share SyncFeed so behavior cannot drift.
type SyncService struct {
	feeds      *repository.FeedRepo
	bookings   *repository.BookingRepo
	reconciler *Reconciler
	cron       *cron.Cron
	interval   int // minutes between scheduled passes, 0 disables
}

// NewSyncService wires the sync service.  intervalMin controls the
// background schedule; pass 0 to leave scheduling off (manual sync
// still works).
func NewSyncService(feeds *repository.FeedRepo, bookings *repository.BookingRepo, fetchTimeout time.Duration, intervalMin int) *SyncService {
	return &SyncService{
		feeds:      feeds,
		bookings:   bookings,
		reconciler: NewReconciler(fetchTimeout),
		cron:       cron.New(),
		interval:   intervalMin,
	}
}

// Start registers and launches the periodic sync job.  No-op when the
// interval is zero.
func (s *SyncService) Start() {
	if s.interval <= 0 {
		log.Printf("feed-sync: scheduler disabled")
		return
	}
	spec := fmt.Sprintf("@every %dm", s.interval)
	if _, err := s.cron.AddFunc(spec, s.syncAll); err != nil {
		log.Printf("feed-sync: schedule failed: %v", err)
		return
	}
	s.cron.Start()
	log.Printf("feed-sync: scheduler running (%s)", spec)
}

// Stop halts the scheduler and waits for a running pass to finish.
func (s *SyncService) Stop() {
	<-s.cron.Stop().Done()
}

func (s *SyncService) syncAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	feeds, err := s.feeds.ListAll(ctx)
	if err != nil {
		log.Printf("feed-sync: list feeds failed: %v", err)
		return
	}
	for _, f := range feeds {
		res, err := s.SyncFeed(ctx, f)
		if err != nil {
			// one broken feed must not stop the rest
			log.Printf("feed-sync: feed %d (%s) failed: %v", f.ID, f.Name, err)
			continue
		}
		if res.Imported > 0 {
			log.Printf("feed-sync: feed %d (%s) imported=%d skipped=%d", f.ID, f.Name, res.Imported, res.Skipped)
		}
	}
}

// SyncFeed runs one reconcile pass for a feed and inserts every new
// event as a confirmed ICAL booking.  Imported events are trusted:
// no conflict check runs against existing manual bookings, the source
// platform owns its reservations.  last_synced is stamped on every
// completed pass; a fetch failure returns before the stamp so a
// transient outage is never recorded as a successful empty sync.
func (s *SyncService) SyncFeed(ctx context.Context, feed model.Feed) (SyncResult, error) {
	imported, err := s.bookings.ImportedUIDs(ctx, feed.PropertyID)
	if err != nil {
		return SyncResult{}, err
	}

	res, err := s.reconciler.Reconcile(ctx, feed.URL, imported)
	if err != nil {
		return SyncResult{}, err
	}

	inserted := 0
	for _, ev := range res.Events {
		b := materializeBooking(feed, ev)
		if err := s.bookings.Create(ctx, &b); err != nil {
			log.Printf("feed-sync: insert event %s failed: %v", ev.UID, err)
			res.Skipped++
			continue
		}
		inserted++
	}
	res.Imported = inserted

	if err := s.feeds.TouchLastSynced(ctx, feed.ID); err != nil {
		log.Printf("feed-sync: stamp last_synced failed: %v", err)
	}
	return res, nil
}

// materializeBooking shapes a feed event as a booking row.  Synced
// reservations carry no price and a single nominal guest; the event
// UID is kept so later passes skip the row.
func materializeBooking(feed model.Feed, ev Event) model.Booking {
	uid := ev.UID
	notes := ev.Description
	if notes == "" {
		notes = "Imported from: " + feed.Name
	}
	return model.Booking{
		PropertyID:   feed.PropertyID,
		CustomerName: ev.Summary,
		CheckIn:      ev.Start.UTC(),
		CheckOut:     ev.End.UTC(),
		GuestCount:   1,
		Source:       model.SourceICal,
		ICalUID:      &uid,
		Status:       model.BookingConfirmed,
		Notes:        &notes,
	}
}
