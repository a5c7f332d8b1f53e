package booking

// ConflictType classifies why a candidate interval collides with an
// existing one, based on where the two sit in the property/room
// hierarchy.
type ConflictType string

const (
	// ConflictDirect means both intervals target the identical unit:
	// the same room, or both the entire property.
	ConflictDirect ConflictType = "DIRECT"
	// ConflictChildBlocked means the candidate wants the entire
	// property while a room inside it is already reserved.
	ConflictChildBlocked ConflictType = "CHILD_BLOCKED"
	// ConflictParentBlocked means the candidate wants a room while the
	// entire property is already reserved.
	ConflictParentBlocked ConflictType = "PARENT_BLOCKED"
)

// ConflictResult is the verdict returned by CheckConflict.  When
// HasConflict is false the other fields are zero.
type ConflictResult struct {
	HasConflict bool          `json:"has_conflict"`
	Type        ConflictType  `json:"type,omitempty"`
	Conflicting *Interval     `json:"conflicting,omitempty"`
}

// CheckConflict tests a candidate interval against the existing
// bookings and blocks of one property.  The caller is responsible for
// scoping `existing` to a single property, excluding cancelled
// reservations, and validating candidate.Start < candidate.End; a
// reversed candidate overlaps nothing by construction.
//
// Hierarchy rules, applied in order on temporal overlap:
//  1. same unit on both sides                  -> DIRECT
//  2. candidate entire-property, existing room -> CHILD_BLOCKED
//  3. candidate room, existing entire-property -> PARENT_BLOCKED
// Two different rooms of the same property never conflict; they are
// independent units.
//
// The first conflicting interval wins and the scan stops there.
func CheckConflict(candidate Interval, existing []Interval) ConflictResult {
	for i := range existing {
		ex := existing[i]
		if !Overlaps(candidate, ex) {
			continue
		}
		if sameTarget(candidate, ex) {
			return ConflictResult{HasConflict: true, Type: ConflictDirect, Conflicting: &ex}
		}
		if candidate.EntireProperty() && !ex.EntireProperty() {
			return ConflictResult{HasConflict: true, Type: ConflictChildBlocked, Conflicting: &ex}
		}
		if !candidate.EntireProperty() && ex.EntireProperty() {
			return ConflictResult{HasConflict: true, Type: ConflictParentBlocked, Conflicting: &ex}
		}
		// different rooms: no conflict, keep scanning
	}
	return ConflictResult{}
}
