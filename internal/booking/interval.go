// Package booking implements the interval model shared by conflict
// detection and calendar availability.  A property can be rented either
// as a whole or room by room, so every reservation interval carries an
// optional room reference: a nil RoomID means the entire property.
package booking

import "time"

// IntervalKind distinguishes the two sources that populate intervals.
type IntervalKind string

const (
	KindBooking IntervalKind = "BOOKING" // confirmed customer reservation
	KindBlock   IntervalKind = "BLOCK"   // owner-created hold (maintenance, manual sync)
)

// Interval is a half-open reservation range [Start, End).  The end
// instant is exclusive: a checkout on day N never collides with a
// check-in on day N.
//
// Fields:
//  Start      – check-in instant (inclusive).
//  End        – checkout instant (exclusive).
//  PropertyID – owning property; the conflict detector ignores it (its
//               input is already scoped to one property), the
//               availability aggregator uses it to relate listings.
//  RoomID     – target room, nil when the whole property is reserved.
//  Kind       – BOOKING or BLOCK.
//  Name       – display label (customer name or block reason).
type Interval struct {
	Start      time.Time
	End        time.Time
	PropertyID string
	RoomID     *string
	Kind       IntervalKind
	Name       string
}

// EntireProperty reports whether the interval occupies the whole
// property rather than a single room.
func (iv Interval) EntireProperty() bool { return iv.RoomID == nil }

// Overlaps reports whether two half-open intervals share any instant.
// Touching boundaries (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// sameTarget reports whether two intervals reserve the identical unit:
// either both the entire property or both the same room.
func sameTarget(a, b Interval) bool {
	if a.EntireProperty() || b.EntireProperty() {
		return a.EntireProperty() == b.EntireProperty()
	}
	return *a.RoomID == *b.RoomID
}
