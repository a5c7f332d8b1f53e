package handler // handler defines http handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lookaround/property-booking/internal/booking"
	"github.com/lookaround/property-booking/internal/ical"
	"github.com/lookaround/property-booking/internal/model"
	"github.com/lookaround/property-booking/internal/repository"
)

// OwnerHandler bundles the repositories behind the authenticated API
// surface: properties, rooms, bookings, blocks and calendar feeds all
// belong to the requesting owner.
type OwnerHandler struct {
	Properties *repository.PropertyRepo
	Rooms      *repository.RoomRepo
	Bookings   *repository.BookingRepo
	Blocks     *repository.BlockRepo
	Feeds      *repository.FeedRepo
	Sync       *ical.SyncService
}

// NewOwnerHandler constructs an OwnerHandler and panics if any
// dependency is nil.
func NewOwnerHandler(properties *repository.PropertyRepo, rooms *repository.RoomRepo, bookings *repository.BookingRepo, blocks *repository.BlockRepo, feeds *repository.FeedRepo, sync *ical.SyncService) *OwnerHandler {
	if properties == nil || rooms == nil || bookings == nil || blocks == nil || feeds == nil || sync == nil {
		panic("nil dependency passed to NewOwnerHandler")
	}
	return &OwnerHandler{
		Properties: properties,
		Rooms:      rooms,
		Bookings:   bookings,
		Blocks:     blocks,
		Feeds:      feeds,
		Sync:       sync,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  JWT numeric claims decode as float64, hence the switch.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// Calendar listing identifiers.  Property and room primary keys live in
// separate tables, so the grid prefixes them to keep the ID space flat.
func propKey(id uint64) string { return fmt.Sprintf("prop-%d", id) }
func roomKey(id uint64) string { return fmt.Sprintf("room-%d", id) }

// bookingInterval maps a booking row onto the conflict model.  Room
// bookings carry the room key, entire-property bookings carry none.
func bookingInterval(b model.Booking) booking.Interval {
	iv := booking.Interval{
		Start:      b.CheckIn,
		End:        b.CheckOut,
		PropertyID: propKey(b.PropertyID),
		Kind:       booking.KindBooking,
		Name:       b.CustomerName,
	}
	if b.RoomID != nil {
		k := roomKey(*b.RoomID)
		iv.RoomID = &k
	}
	return iv
}

// blockInterval maps a block row onto the conflict model.
func blockInterval(b model.Block) booking.Interval {
	name := "Blocked"
	if b.Reason != nil && *b.Reason != "" {
		name = *b.Reason
	}
	iv := booking.Interval{
		Start:      b.StartDate,
		End:        b.EndDate,
		PropertyID: propKey(b.PropertyID),
		Kind:       booking.KindBlock,
		Name:       name,
	}
	if b.RoomID != nil {
		k := roomKey(*b.RoomID)
		iv.RoomID = &k
	}
	return iv
}

func bookingIntervals(rows []model.Booking) []booking.Interval {
	out := make([]booking.Interval, 0, len(rows))
	for _, b := range rows {
		out = append(out, bookingInterval(b))
	}
	return out
}

func blockIntervals(rows []model.Block) []booking.Interval {
	out := make([]booking.Interval, 0, len(rows))
	for _, b := range rows {
		out = append(out, blockInterval(b))
	}
	return out
}

// propertyListings expands one property into its calendar listings: the
// entire-place unit first, then one listing per room.
func propertyListings(p model.Property, rooms []model.Room) []booking.Listing {
	out := make([]booking.Listing, 0, len(rooms)+1)
	out = append(out, booking.Listing{
		ID:         propKey(p.ID),
		Name:       p.Name + " (Entire Place)",
		Type:       booking.ListingProperty,
		PropertyID: propKey(p.ID),
	})
	for _, r := range rooms {
		k := roomKey(r.ID)
		out = append(out, booking.Listing{
			ID:         k,
			Name:       r.Name,
			Type:       booking.ListingRoom,
			PropertyID: propKey(r.PropertyID),
			RoomID:     &k,
		})
	}
	return out
}
