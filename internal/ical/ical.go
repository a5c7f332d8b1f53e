// Package ical implements the ICS calendar codec and the feed sync
// reconciler used to exchange reservations with external booking
// platforms (Airbnb, Booking.com and friends).  The wire format is the
// RFC 5545 subset those platforms actually emit; external consumers
// validate it strictly, so generated output uses CRLF line endings and
// always contains at least one component.
package ical

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is one VEVENT as parsed from a feed or handed to the
// generator.  Start and End follow the same half-open convention as
// booking intervals: DTEND is exclusive.
type Event struct {
	UID         string
	Summary     string
	Start       time.Time
	End         time.Time
	Description string
	// AllDay controls the generated date form: date-only
	// (DTSTART;VALUE=DATE) when true, a UTC timestamp otherwise.
	AllDay bool
}

// ParseFeed scans calendar text for VEVENT blocks and returns the
// well-formed ones.  It never fails: external feeds are routinely
// slightly non-conformant, and a sync must not abort over cosmetic
// issues.  Degradation rules:
//   - folded lines (CRLF + one space) are unfolded before scanning
//   - property parameters after ';' are ignored
//   - lines without ':' are skipped
//   - events missing UID, DTSTART or DTEND are dropped silently
//   - unknown properties are ignored
func ParseFeed(text string) []Event {
	// Unfold first, then split into logical lines.  Handles both CRLF
	// and bare LF feeds.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n ", "")
	lines := strings.Split(text, "\n")

	var events []Event
	var cur *partialEvent

	for _, line := range lines {
		switch {
		case line == "BEGIN:VEVENT":
			cur = &partialEvent{}
		case line == "END:VEVENT":
			if cur != nil {
				if ev, ok := cur.build(); ok {
					events = append(events, ev)
				}
			}
			cur = nil
		case cur != nil:
			colon := strings.Index(line, ":")
			if colon == -1 {
				continue
			}
			name := line[:colon]
			value := line[colon+1:]
			// strip parameters like DTSTART;VALUE=DATE
			if semi := strings.Index(name, ";"); semi != -1 {
				name = name[:semi]
			}
			cur.set(name, value)
		}
	}
	return events
}

// partialEvent accumulates properties for the VEVENT currently being
// scanned.  hasStart/hasEnd gate emission: a zero time.Time is not
// enough to tell "absent" from "parse failure", and both drop the
// event.
type partialEvent struct {
	uid, summary, description string
	start, end                time.Time
	hasStart, hasEnd          bool
	allDay                    bool
}

func (p *partialEvent) set(name, value string) {
	switch name {
	case "UID":
		p.uid = value
	case "SUMMARY":
		p.summary = unescapeText(value)
	case "DESCRIPTION":
		p.description = unescapeText(value)
	case "DTSTART":
		if t, allDay, ok := parseDate(value); ok {
			p.start, p.hasStart, p.allDay = t, true, allDay
		}
	case "DTEND":
		if t, _, ok := parseDate(value); ok {
			p.end, p.hasEnd = t, true
		}
	}
}

func (p *partialEvent) build() (Event, bool) {
	if p.uid == "" || !p.hasStart || !p.hasEnd {
		return Event{}, false
	}
	summary := p.summary
	if summary == "" {
		summary = "Blocked"
	}
	return Event{
		UID:         p.uid,
		Summary:     summary,
		Start:       p.start,
		End:         p.end,
		Description: p.description,
		AllDay:      p.allDay,
	}, true
}

// parseDate reads the two value forms booking platforms emit: an
// 8-digit date (local midnight) and a basic-format timestamp
// YYYYMMDDTHHMMSS with optional Z suffix (UTC when suffixed, local
// otherwise).  The second return reports the all-day form.
func parseDate(value string) (time.Time, bool, bool) {
	if len(value) == 8 {
		t, err := time.ParseInLocation("20060102", value, time.Local)
		if err != nil {
			return time.Time{}, false, false
		}
		return t, true, true
	}
	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return time.Time{}, false, false
		}
		return t, false, true
	}
	t, err := time.ParseInLocation("20060102T150405", value, time.Local)
	if err != nil {
		return time.Time{}, false, false
	}
	return t, false, true
}

// GenerateFeed renders events as an ICS calendar.  The wrapper carries
// the properties strict consumers check for (VERSION, PRODID, a
// calendar name) and the body always holds at least one VEVENT: an
// empty event list produces a single cancelled placeholder, because a
// VCALENDAR without components is invalid and some platforms reject
// the whole feed over it.
func GenerateFeed(events []Event, calendarName string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//LookAround//Export//EN",
		"X-WR-CALNAME:" + escapeText(calendarName),
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}

	if len(events) == 0 {
		events = []Event{placeholderEvent()}
	}

	for _, ev := range events {
		lines = append(lines, "BEGIN:VEVENT")
		lines = append(lines, "UID:"+ev.UID)
		if ev.AllDay {
			lines = append(lines, "DTSTART;VALUE=DATE:"+ev.Start.Format("20060102"))
			lines = append(lines, "DTEND;VALUE=DATE:"+ev.End.Format("20060102"))
		} else {
			lines = append(lines, "DTSTART:"+ev.Start.UTC().Format("20060102T150405Z"))
			lines = append(lines, "DTEND:"+ev.End.UTC().Format("20060102T150405Z"))
		}
		lines = append(lines, "SUMMARY:"+escapeText(ev.Summary))
		if ev.Description != "" {
			lines = append(lines, "DESCRIPTION:"+escapeText(ev.Description))
		}
		status := "CONFIRMED"
		if ev.Summary == placeholderSummary {
			status = "CANCELLED"
		}
		lines = append(lines, "STATUS:"+status)
		lines = append(lines, "END:VEVENT")
	}

	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

const placeholderSummary = "No bookings"

// placeholderEvent keeps an otherwise empty calendar valid.  The event
// is dated in the past and cancelled so no consumer treats it as a
// real reservation.
func placeholderEvent() Event {
	epoch := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	return Event{
		UID:     uuid.NewString() + "@lookaround.app",
		Summary: placeholderSummary,
		Start:   epoch,
		End:     epoch.AddDate(0, 0, 1),
		AllDay:  true,
	}
}

// escapeText applies RFC 5545 TEXT escaping: backslash first, then
// semicolon, comma and newline.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// unescapeText undoes TEXT escaping in one left-to-right scan.  A
// sequential ReplaceAll would corrupt an escaped backslash followed by
// a literal n: `\\new` must come back as `\new`, not a newline.
func unescapeText(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
