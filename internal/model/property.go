package model

import "time"

// Property represents a rentable property owned by a user.  A property
// can be booked as a whole or room by room; its rooms live in the
// `rooms` table.  The export token is a random UUID embedded in the
// public iCal export URL so that external platforms can pull the feed
// without authentication.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user ID of the property owner.
//  Name        – property name, unique per owner.
//  Description – optional free-text description.
//  Address     – optional street address.
//  ExportToken – UUID embedded in the public calendar export URL.
//  CreatedAt   – timestamp when the property was created.
//  UpdatedAt   – timestamp of last update.
type Property struct {
	ID          uint64    `json:"id"`           // properties.id
	OwnerID     uint64    `json:"owner_id"`     // properties.owner_id
	Name        string    `json:"name"`         // properties.name
	Description *string   `json:"description"`  // properties.description (nullable)
	Address     *string   `json:"address"`      // properties.address (nullable)
	ExportToken string    `json:"export_token"` // properties.export_token
	CreatedAt   time.Time `json:"created_at"`   // properties.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // properties.updated_at
}

// Room represents a single bookable room within a property.  Rooms are
// the second level of the listing hierarchy: a booking that references
// a room occupies only that room, a booking without one occupies the
// entire property.
//
// Fields:
//  ID          – primary key identifier.
//  PropertyID  – owning property.
//  Name        – room name, unique per property.
//  Description – optional free-text description.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Room struct {
	ID          uint64    `json:"id"`          // rooms.id
	PropertyID  uint64    `json:"property_id"` // rooms.property_id
	Name        string    `json:"name"`        // rooms.name
	Description *string   `json:"description"` // rooms.description (nullable)
	CreatedAt   time.Time `json:"created_at"`  // rooms.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // rooms.updated_at
}
