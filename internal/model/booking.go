package model

import "time"

// Booking status values stored in bookings.status.
const (
	BookingConfirmed = "CONFIRMED"
	BookingPending   = "PENDING"
	BookingCancelled = "CANCELLED"
)

// Booking source platforms stored in bookings.source.  SourceICal
// marks reservations materialized from an external calendar feed;
// those rows additionally carry the feed event's UID so that re-syncs
// can skip them.
const (
	SourceDirect  = "DIRECT"
	SourceAirbnb  = "AIRBNB"
	SourceBooking = "BOOKING"
	SourceICal    = "ICAL"
)

// Booking records a customer reservation for a property or for one of
// its rooms.  The check-in/check-out pair forms a half-open interval:
// checkout day N does not collide with a check-in on day N.  All
// timestamps are stored in UTC.
//
// Fields:
//  ID           – primary key identifier.
//  PropertyID   – property being booked.
//  RoomID       – booked room; null means the entire property.
//  CustomerName – guest display name.
//  CheckIn      – check-in instant (inclusive).
//  CheckOut     – checkout instant (exclusive).
//  PriceCents   – agreed price in cents (0 for synced imports).
//  AdvanceCents – advance payment received, in cents.
//  GuestCount   – number of guests.
//  Source       – originating platform (DIRECT, AIRBNB, BOOKING, ICAL).
//  ICalUID      – feed event UID for ICAL-sourced rows (nullable).
//  Status       – CONFIRMED, PENDING or CANCELLED.
//  Notes        – optional free-text notes.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Booking struct {
	ID           uint64    `json:"id"`            // bookings.id
	PropertyID   uint64    `json:"property_id"`   // bookings.property_id
	RoomID       *uint64   `json:"room_id"`       // bookings.room_id (nullable)
	CustomerName string    `json:"customer_name"` // bookings.customer_name
	CheckIn      time.Time `json:"check_in"`      // bookings.check_in
	CheckOut     time.Time `json:"check_out"`     // bookings.check_out
	PriceCents   uint32    `json:"price_cents"`   // bookings.price_cents
	AdvanceCents uint32    `json:"advance_cents"` // bookings.advance_cents
	GuestCount   uint32    `json:"guest_count"`   // bookings.guest_count
	Source       string    `json:"source"`        // bookings.source
	ICalUID      *string   `json:"ical_uid"`      // bookings.ical_uid (nullable)
	Status       string    `json:"status"`        // bookings.status
	Notes        *string   `json:"notes"`         // bookings.notes (nullable)
	CreatedAt    time.Time `json:"created_at"`    // bookings.created_at
	UpdatedAt    time.Time `json:"updated_at"`    // bookings.updated_at
}

// Block is an owner-created hold on a property or room with no
// customer attached, used for maintenance windows or manual platform
// sync.  Blocks participate in conflict detection and availability
// exactly like bookings.
//
// Fields:
//  ID         – primary key identifier.
//  PropertyID – property being held.
//  RoomID     – held room; null means the entire property.
//  StartDate  – first held instant (inclusive).
//  EndDate    – end of the hold (exclusive).
//  Reason     – optional display reason.
//  CreatedAt  – creation timestamp.
type Block struct {
	ID         uint64    `json:"id"`          // blocks.id
	PropertyID uint64    `json:"property_id"` // blocks.property_id
	RoomID     *uint64   `json:"room_id"`     // blocks.room_id (nullable)
	StartDate  time.Time `json:"start_date"`  // blocks.start_date
	EndDate    time.Time `json:"end_date"`    // blocks.end_date
	Reason     *string   `json:"reason"`      // blocks.reason (nullable)
	CreatedAt  time.Time `json:"created_at"`  // blocks.created_at
}
