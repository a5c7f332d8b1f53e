// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a reservation is created with
// CONFIRMED status, whether entered by the owner or imported from an
// external calendar feed.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID    uint64 `json:"booking_id"`
	OwnerID      uint64 `json:"owner_id"`
	PropertyID   uint64 `json:"property_id"`
	PropertyName string `json:"property_name"`
	RoomName     string `json:"room_name,omitempty"` // empty for entire-property bookings
	CustomerName string `json:"customer_name"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	Source       string `json:"source"`
	PriceCents   uint32 `json:"price_cents"`
	GuestCount   uint32 `json:"guest_count"`
	ConfirmedAt  string `json:"confirmed_at"`
}
