package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureListings() []Listing {
	r1 := "room-1"
	r2 := "room-2"
	return []Listing{
		{ID: "prop-1", Name: "Seaside House (Entire Place)", Type: ListingProperty, PropertyID: "prop-1"},
		{ID: "room-1", Name: "Blue Room", Type: ListingRoom, PropertyID: "prop-1", RoomID: &r1},
		{ID: "room-2", Name: "Green Room", Type: ListingRoom, PropertyID: "prop-1", RoomID: &r2},
	}
}

func cell(t *testing.T, grid map[CellKey]Cell, listingID string, d int) Cell {
	t.Helper()
	c, ok := grid[CellKey{ListingID: listingID, Day: day(d).Format("2006-01-02")}]
	require.True(t, ok, "missing cell for %s day %d", listingID, d)
	return c
}

func TestBuildAvailabilityEntirePropertyBooking(t *testing.T) {
	bookings := []Interval{interval(10, 13, nil)} // property-wide Jan 10-13
	grid := BuildAvailability(fixtureListings(), bookings, nil, day(9), day(13))

	assert.Equal(t, Free, cell(t, grid, "prop-1", 9).State)
	assert.Equal(t, Direct, cell(t, grid, "prop-1", 10).State)
	assert.Equal(t, KindBooking, cell(t, grid, "prop-1", 10).Kind)

	// every night of the stay is painted, checkout day stays free
	assert.Equal(t, Direct, cell(t, grid, "prop-1", 11).State)
	assert.Equal(t, Direct, cell(t, grid, "prop-1", 12).State)
	assert.Equal(t, Free, cell(t, grid, "prop-1", 13).State)

	// both rooms are shadowed for the same nights
	for d := 10; d <= 12; d++ {
		assert.Equal(t, BlockedByParent, cell(t, grid, "room-1", d).State)
		assert.Equal(t, BlockedByParent, cell(t, grid, "room-2", d).State)
	}
	assert.Equal(t, Free, cell(t, grid, "room-1", 13).State)
}

func TestBuildAvailabilityRoomBooking(t *testing.T) {
	bookings := []Interval{interval(10, 12, room("room-1"))}
	grid := BuildAvailability(fixtureListings(), bookings, nil, day(10), day(12))

	assert.Equal(t, Direct, cell(t, grid, "room-1", 10).State)
	assert.Equal(t, Direct, cell(t, grid, "room-1", 11).State)
	assert.Equal(t, Free, cell(t, grid, "room-1", 12).State)

	// sibling room is untouched, the property shows partial occupancy
	assert.Equal(t, Free, cell(t, grid, "room-2", 10).State)
	assert.Equal(t, BlockedByChild, cell(t, grid, "prop-1", 10).State)
	assert.Equal(t, Free, cell(t, grid, "prop-1", 12).State)
}

func TestBuildAvailabilityBlockSubtype(t *testing.T) {
	blocks := []Interval{{Start: day(10), End: day(11), PropertyID: "prop-1", Kind: KindBlock, Name: "painting"}}
	grid := BuildAvailability(fixtureListings(), nil, blocks, day(10), day(10))

	c := cell(t, grid, "prop-1", 10)
	assert.Equal(t, Direct, c.State)
	assert.Equal(t, KindBlock, c.Kind)
	require.NotNil(t, c.Interval)
	assert.Equal(t, "painting", c.Interval.Name)

	assert.Equal(t, BlockedByParent, cell(t, grid, "room-1", 10).State)
}

func TestBuildAvailabilityBookingOutranksBlock(t *testing.T) {
	bookings := []Interval{interval(10, 12, nil)}
	blocks := []Interval{{Start: day(10), End: day(12), PropertyID: "prop-1", Kind: KindBlock}}
	grid := BuildAvailability(fixtureListings(), bookings, blocks, day(10), day(11))

	c := cell(t, grid, "prop-1", 10)
	assert.Equal(t, Direct, c.State)
	assert.Equal(t, KindBooking, c.Kind)
}

func TestBuildAvailabilityScopesToProperty(t *testing.T) {
	// intervals of a different property must not leak into this grid
	other := Interval{Start: day(10), End: day(15), PropertyID: "prop-2", Kind: KindBooking}
	grid := BuildAvailability(fixtureListings(), []Interval{other}, nil, day(10), day(11))

	assert.Equal(t, Free, cell(t, grid, "prop-1", 10).State)
	assert.Equal(t, Free, cell(t, grid, "room-1", 10).State)
}

func TestBuildAvailabilityRange(t *testing.T) {
	t.Run("inverted range yields empty grid", func(t *testing.T) {
		grid := BuildAvailability(fixtureListings(), nil, nil, day(12), day(10))
		assert.Empty(t, grid)
	})

	t.Run("single day range", func(t *testing.T) {
		grid := BuildAvailability(fixtureListings(), nil, nil, day(10), day(10))
		assert.Len(t, grid, 3) // one cell per listing
	})

	t.Run("datetime stamps truncate to days", func(t *testing.T) {
		iv := Interval{
			Start:      time.Date(2025, time.January, 10, 14, 0, 0, 0, time.UTC),
			End:        time.Date(2025, time.January, 12, 11, 0, 0, 0, time.UTC),
			PropertyID: "prop-1",
			Kind:       KindBooking,
		}
		grid := BuildAvailability(fixtureListings(), []Interval{iv}, nil, day(10), day(12))
		assert.Equal(t, Direct, cell(t, grid, "prop-1", 10).State)
		assert.Equal(t, Direct, cell(t, grid, "prop-1", 11).State)
		// checkout at 11:00 on the 12th leaves that night free
		assert.Equal(t, Free, cell(t, grid, "prop-1", 12).State)
	})
}
