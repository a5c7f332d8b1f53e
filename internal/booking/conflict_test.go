package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func interval(start, end int, roomID *string) Interval {
	return Interval{Start: day(start), End: day(end), PropertyID: "prop-1", RoomID: roomID, Kind: KindBooking}
}

func room(id string) *string { return &id }

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", interval(1, 5, nil), interval(10, 15, nil), false},
		{"partial overlap", interval(1, 5, nil), interval(3, 8, nil), true},
		{"contained", interval(1, 10, nil), interval(3, 5, nil), true},
		{"identical", interval(2, 6, nil), interval(2, 6, nil), true},
		{"touching boundaries are free", interval(1, 5, nil), interval(5, 9, nil), false},
		{"single shared night", interval(1, 5, nil), interval(4, 9, nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			// overlap is symmetric even though conflict labels are not
			assert.Equal(t, Overlaps(tt.a, tt.b), Overlaps(tt.b, tt.a))
		})
	}
}

func TestCheckConflictDirect(t *testing.T) {
	t.Run("entire property vs entire property", func(t *testing.T) {
		res := CheckConflict(interval(12, 14, nil), []Interval{interval(10, 15, nil)})
		require.True(t, res.HasConflict)
		assert.Equal(t, ConflictDirect, res.Type)
		require.NotNil(t, res.Conflicting)
		assert.Equal(t, day(10), res.Conflicting.Start)
	})

	t.Run("same room", func(t *testing.T) {
		res := CheckConflict(interval(12, 14, room("r1")), []Interval{interval(10, 15, room("r1"))})
		require.True(t, res.HasConflict)
		assert.Equal(t, ConflictDirect, res.Type)
	})

	t.Run("direct outranks hierarchy labels", func(t *testing.T) {
		// Existing list holds both a same-room booking and an
		// entire-property booking; the same-room one comes first and
		// the verdict must be DIRECT, not PARENT_BLOCKED.
		existing := []Interval{interval(10, 15, room("r1")), interval(10, 15, nil)}
		res := CheckConflict(interval(12, 14, room("r1")), existing)
		require.True(t, res.HasConflict)
		assert.Equal(t, ConflictDirect, res.Type)
	})
}

func TestCheckConflictHierarchy(t *testing.T) {
	t.Run("room candidate against entire-property booking", func(t *testing.T) {
		res := CheckConflict(interval(12, 14, room("r1")), []Interval{interval(10, 15, nil)})
		require.True(t, res.HasConflict)
		assert.Equal(t, ConflictParentBlocked, res.Type)
	})

	t.Run("entire-property candidate against room booking", func(t *testing.T) {
		res := CheckConflict(interval(12, 14, nil), []Interval{interval(10, 15, room("r1"))})
		require.True(t, res.HasConflict)
		assert.Equal(t, ConflictChildBlocked, res.Type)
	})

	t.Run("different rooms never conflict", func(t *testing.T) {
		res := CheckConflict(interval(12, 14, room("r2")), []Interval{interval(10, 15, room("r1"))})
		assert.False(t, res.HasConflict)
	})

	t.Run("room candidate after the property booking ends", func(t *testing.T) {
		res := CheckConflict(interval(16, 18, room("r1")), []Interval{interval(10, 15, nil)})
		assert.False(t, res.HasConflict)
	})
}

func TestCheckConflictBoundaries(t *testing.T) {
	t.Run("checkout equals check-in", func(t *testing.T) {
		res := CheckConflict(interval(5, 9, nil), []Interval{interval(1, 5, nil)})
		assert.False(t, res.HasConflict)
	})

	t.Run("empty existing list", func(t *testing.T) {
		res := CheckConflict(interval(1, 5, nil), nil)
		assert.False(t, res.HasConflict)
		assert.Nil(t, res.Conflicting)
	})

	t.Run("blocks conflict like bookings", func(t *testing.T) {
		blk := interval(10, 15, nil)
		blk.Kind = KindBlock
		res := CheckConflict(interval(12, 14, room("r1")), []Interval{blk})
		require.True(t, res.HasConflict)
		assert.Equal(t, ConflictParentBlocked, res.Type)
		assert.Equal(t, KindBlock, res.Conflicting.Kind)
	})

	t.Run("first match short-circuits", func(t *testing.T) {
		first := interval(10, 15, nil)
		second := interval(11, 16, nil)
		res := CheckConflict(interval(12, 14, nil), []Interval{first, second})
		require.True(t, res.HasConflict)
		assert.Equal(t, day(15), res.Conflicting.End)
	})
}
