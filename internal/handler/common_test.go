package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookaround/property-booking/internal/booking"
	"github.com/lookaround/property-booking/internal/model"
)

func TestParseStay(t *testing.T) {
	d, err := parseStay("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), d)

	ts, err := parseStay("2025-06-01T14:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC), ts)

	_, err = parseStay("June 1st")
	assert.Error(t, err)
}

func TestBookingIntervalMapping(t *testing.T) {
	roomID := uint64(7)
	b := model.Booking{
		PropertyID:   3,
		RoomID:       &roomID,
		CustomerName: "Smith",
		CheckIn:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
	}
	iv := bookingInterval(b)
	assert.Equal(t, "prop-3", iv.PropertyID)
	require.NotNil(t, iv.RoomID)
	assert.Equal(t, "room-7", *iv.RoomID)
	assert.Equal(t, booking.KindBooking, iv.Kind)
	assert.False(t, iv.EntireProperty())

	b.RoomID = nil
	assert.True(t, bookingInterval(b).EntireProperty())
}

func TestBlockIntervalDefaultsName(t *testing.T) {
	b := model.Block{
		PropertyID: 3,
		StartDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "Blocked", blockInterval(b).Name)
	assert.Equal(t, booking.KindBlock, blockInterval(b).Kind)

	reason := "Painting"
	b.Reason = &reason
	assert.Equal(t, "Painting", blockInterval(b).Name)
}

func TestPropertyListings(t *testing.T) {
	p := model.Property{ID: 3, Name: "Seaside House"}
	rooms := []model.Room{
		{ID: 7, PropertyID: 3, Name: "Blue Room"},
		{ID: 8, PropertyID: 3, Name: "Green Room"},
	}
	listings := propertyListings(p, rooms)
	require.Len(t, listings, 3)

	assert.Equal(t, "prop-3", listings[0].ID)
	assert.Equal(t, booking.ListingProperty, listings[0].Type)
	assert.Equal(t, "Seaside House (Entire Place)", listings[0].Name)
	assert.Nil(t, listings[0].RoomID)

	assert.Equal(t, "room-7", listings[1].ID)
	assert.Equal(t, booking.ListingRoom, listings[1].Type)
	assert.Equal(t, "prop-3", listings[1].PropertyID)
	require.NotNil(t, listings[1].RoomID)
	assert.Equal(t, "room-7", *listings[1].RoomID)
}

func TestOptText(t *testing.T) {
	assert.Nil(t, optText("   "))
	v := optText("  hello ")
	require.NotNil(t, v)
	assert.Equal(t, "hello", *v)
}
