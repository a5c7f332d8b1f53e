package model

import "time"

// Feed is a saved external iCal subscription for one property.  The
// sync path fetches the URL, parses the calendar and materializes any
// event not yet imported as an ICAL-sourced booking.  LastSynced is
// stamped after every pass, including passes that imported nothing.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who saved the feed.
//  PropertyID – property the feed's events belong to.
//  Name       – display name ("Airbnb Seaside House").
//  URL        – external .ics endpoint.
//  LastSynced – completion time of the latest sync (null before the first).
//  CreatedAt  – creation timestamp.
type Feed struct {
	ID         uint64     `json:"id"`          // ical_feeds.id
	UserID     uint64     `json:"user_id"`     // ical_feeds.user_id
	PropertyID uint64     `json:"property_id"` // ical_feeds.property_id
	Name       string     `json:"name"`        // ical_feeds.name
	URL        string     `json:"url"`         // ical_feeds.url
	LastSynced *time.Time `json:"last_synced"` // ical_feeds.last_synced (nullable)
	CreatedAt  time.Time  `json:"created_at"`  // ical_feeds.created_at
}
