package booking

import "time"

// ListingType tells whether a listing row stands for a whole property
// or for one of its rooms.
type ListingType string

const (
	ListingProperty ListingType = "PROPERTY"
	ListingRoom     ListingType = "ROOM"
)

// Listing is a bookable unit as shown on the calendar: every property
// contributes one entire-place listing plus one listing per room.  For
// a PROPERTY listing the ID equals the property ID and RoomID is nil;
// for a ROOM listing the ID equals the room ID and RoomID points at it.
type Listing struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       ListingType `json:"type"`
	PropertyID string      `json:"property_id"`
	RoomID     *string     `json:"room_id,omitempty"`
}

// Occupancy is the classification of a single (listing, day) cell.
type Occupancy string

const (
	// Free means no interval touches the day for this listing or an
	// interacting listing.
	Free Occupancy = "FREE"
	// Direct means an interval for this exact listing covers the day.
	Direct Occupancy = "DIRECT"
	// BlockedByParent marks a room whose whole property is reserved
	// for the day.
	BlockedByParent Occupancy = "BLOCKED_BY_PARENT"
	// BlockedByChild marks a property one of whose rooms is reserved
	// for the day.
	BlockedByChild Occupancy = "BLOCKED_BY_CHILD"
)

// CellKey addresses one cell of the availability grid.  Day is the
// calendar date in "2006-01-02" form.
type CellKey struct {
	ListingID string
	Day       string
}

// Cell is the classification of one grid cell.  Kind carries the
// BOOKING/BLOCK sub-type of the responsible interval so the renderer
// can color bookings and manual blocks differently; it is empty for
// FREE cells.
type Cell struct {
	State    Occupancy    `json:"state"`
	Kind     IntervalKind `json:"kind,omitempty"`
	Interval *Interval    `json:"interval,omitempty"`
}

const dayLayout = "2006-01-02"

// coversDay reports whether the interval occupies the given calendar
// day.  Comparison happens at day granularity and keeps the half-open
// contract: the checkout day is not covered.
func coversDay(iv Interval, day time.Time) bool {
	startDay := truncateDay(iv.Start)
	endDay := truncateDay(iv.End)
	return !day.Before(startDay) && day.Before(endDay)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// BuildAvailability classifies every (listing, day) cell for the
// inclusive day range [from, to].  It is a pure read-model over the
// supplied interval slices: nothing is persisted and the result is
// recomputed per request.  The caller fetches bookings and blocks for
// the relevant properties (cancelled reservations excluded).
//
// Per cell the rules run in order and the first match wins:
//  1. an interval targeting this exact listing        -> DIRECT
//  2. ROOM listing, entire-property interval covering -> BLOCKED_BY_PARENT
//  3. PROPERTY listing, any room interval covering    -> BLOCKED_BY_CHILD
//  4. otherwise                                       -> FREE
// Bookings are consulted before blocks at every step, mirroring the
// calendar's rendering priority.
func BuildAvailability(listings []Listing, bookings, blocks []Interval, from, to time.Time) map[CellKey]Cell {
	grid := make(map[CellKey]Cell)
	if to.Before(from) {
		return grid
	}
	from = truncateDay(from)
	to = truncateDay(to)

	// Bookings first so they outrank blocks within each rule.
	intervals := make([]Interval, 0, len(bookings)+len(blocks))
	intervals = append(intervals, bookings...)
	intervals = append(intervals, blocks...)

	for _, l := range listings {
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			key := CellKey{ListingID: l.ID, Day: day.Format(dayLayout)}
			grid[key] = classifyCell(l, intervals, day)
		}
	}
	return grid
}

func classifyCell(l Listing, intervals []Interval, day time.Time) Cell {
	// Rule 1: direct hit on this listing.
	for i := range intervals {
		iv := intervals[i]
		if iv.PropertyID != l.PropertyID || !coversDay(iv, day) {
			continue
		}
		if matchesListing(iv, l) {
			return Cell{State: Direct, Kind: iv.Kind, Interval: &intervals[i]}
		}
	}
	// Rule 2: a room is shadowed by an entire-property reservation.
	if l.Type == ListingRoom {
		for i := range intervals {
			iv := intervals[i]
			if iv.PropertyID == l.PropertyID && iv.EntireProperty() && coversDay(iv, day) {
				return Cell{State: BlockedByParent, Kind: iv.Kind, Interval: &intervals[i]}
			}
		}
	}
	// Rule 3: a property is partially occupied by one of its rooms.
	if l.Type == ListingProperty {
		for i := range intervals {
			iv := intervals[i]
			if iv.PropertyID == l.PropertyID && !iv.EntireProperty() && coversDay(iv, day) {
				return Cell{State: BlockedByChild, Kind: iv.Kind, Interval: &intervals[i]}
			}
		}
	}
	return Cell{State: Free}
}

// matchesListing reports whether an interval targets exactly this
// listing: entire-property intervals match the PROPERTY listing, room
// intervals match the listing of that room.
func matchesListing(iv Interval, l Listing) bool {
	if l.Type == ListingProperty {
		return iv.EntireProperty()
	}
	return iv.RoomID != nil && l.RoomID != nil && *iv.RoomID == *l.RoomID
}
