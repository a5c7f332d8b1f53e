package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const airbnbStyleFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Airbnb Inc//Hosting Calendar 0.8.8//EN\r\n" +
	"CALSCALE:GREGORIAN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"DTSTAMP:20250110T120000Z\r\n" +
	"DTSTART;VALUE=DATE:20250215\r\n" +
	"DTEND;VALUE=DATE:20250218\r\n" +
	"UID:abc123@airbnb.com\r\n" +
	"SUMMARY:Reserved\r\n" +
	"DESCRIPTION:Reservation URL: https://www.airbnb.com/hosting/res\r\n" +
	" ervations/details/HM123\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"DTSTART;VALUE=DATE:20250301\r\n" +
	"DTEND;VALUE=DATE:20250305\r\n" +
	"UID:def456@airbnb.com\r\n" +
	"SUMMARY:Airbnb (Not available)\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseFeed(t *testing.T) {
	events := ParseFeed(airbnbStyleFeed)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "abc123@airbnb.com", first.UID)
	assert.Equal(t, "Reserved", first.Summary)
	assert.True(t, first.AllDay)
	assert.Equal(t, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.Local), first.Start)
	assert.Equal(t, time.Date(2025, time.February, 18, 0, 0, 0, 0, time.Local), first.End)
	// folded DESCRIPTION line is unfolded before parsing
	assert.Equal(t, "Reservation URL: https://www.airbnb.com/hosting/reservations/details/HM123", first.Description)

	assert.Equal(t, "def456@airbnb.com", events[1].UID)
}

func TestParseFeedDateForms(t *testing.T) {
	feed := "BEGIN:VCALENDAR\n" +
		"BEGIN:VEVENT\n" +
		"UID:utc-stamp\n" +
		"DTSTART:20250215T140000Z\n" +
		"DTEND:20250218T100000Z\n" +
		"END:VEVENT\n" +
		"END:VCALENDAR\n"
	events := ParseFeed(feed)
	require.Len(t, events, 1)
	ev := events[0]
	assert.False(t, ev.AllDay)
	assert.Equal(t, time.Date(2025, time.February, 15, 14, 0, 0, 0, time.UTC), ev.Start.UTC())
	assert.Equal(t, "Blocked", ev.Summary, "missing SUMMARY falls back to a label")
}

func TestParseFeedDropsIncompleteEvents(t *testing.T) {
	feed := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"DTSTART;VALUE=DATE:20250215\r\n" + // no UID, no DTEND
		"SUMMARY:broken\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:ok@example.com\r\n" +
		"DTSTART;VALUE=DATE:20250301\r\n" +
		"DTEND;VALUE=DATE:20250302\r\n" +
		"garbage line without separator\r\n" +
		"X-UNKNOWN-PROP:ignored\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events := ParseFeed(feed)
	require.Len(t, events, 1, "the malformed event is dropped, the good one survives")
	assert.Equal(t, "ok@example.com", events[0].UID)
}

func TestParseFeedNeverPanicsOnJunk(t *testing.T) {
	for _, junk := range []string{"", "not a calendar at all", "BEGIN:VEVENT", "END:VEVENT\nEND:VEVENT"} {
		assert.Empty(t, ParseFeed(junk))
	}
}

func TestGenerateFeed(t *testing.T) {
	events := []Event{
		{
			UID:     "42@lookaround.app",
			Summary: "Smith; family, 2 kids",
			Start:   time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
			AllDay:  true,
		},
	}
	text := GenerateFeed(events, "Seaside House")

	assert.True(t, strings.HasPrefix(text, "BEGIN:VCALENDAR\r\n"), "CRLF line endings")
	assert.Contains(t, text, "VERSION:2.0")
	assert.Contains(t, text, "PRODID:-//LookAround//Export//EN")
	assert.Contains(t, text, "X-WR-CALNAME:Seaside House")
	assert.Contains(t, text, "DTSTART;VALUE=DATE:20250301")
	assert.Contains(t, text, "DTEND;VALUE=DATE:20250305")
	assert.Contains(t, text, `SUMMARY:Smith\; family\, 2 kids`)
	assert.True(t, strings.HasSuffix(text, "END:VCALENDAR"))
}

func TestGenerateFeedTimestampForm(t *testing.T) {
	events := []Event{{
		UID:   "7@lookaround.app",
		Start: time.Date(2025, time.March, 1, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC),
	}}
	text := GenerateFeed(events, "cal")
	assert.Contains(t, text, "DTSTART:20250301T140000Z")
	assert.Contains(t, text, "DTEND:20250303T100000Z")
}

func TestGenerateFeedEmptyCalendarPlaceholder(t *testing.T) {
	text := GenerateFeed(nil, "Empty Property")

	// a VCALENDAR without components is invalid, so an empty booking
	// list still yields one (cancelled) VEVENT
	assert.Equal(t, 1, strings.Count(text, "BEGIN:VEVENT"))
	assert.Contains(t, text, "STATUS:CANCELLED")
}

func TestFeedRoundTrip(t *testing.T) {
	out := []Event{
		{UID: "a@lookaround.app", Summary: "Alice", Start: date(2025, 4, 1), End: date(2025, 4, 4), AllDay: true},
		{UID: "b@lookaround.app", Summary: "Bob, plus one", Start: date(2025, 4, 10), End: date(2025, 4, 12), AllDay: true, Description: "late arrival"},
		// backslash right before a literal n, the nastiest escape case
		{UID: "c@lookaround.app", Summary: `C:\new folder`, Start: date(2025, 4, 20), End: date(2025, 4, 21), AllDay: true, Description: "key in box;\ncode 1234"},
	}
	parsed := ParseFeed(GenerateFeed(out, "Round Trip"))
	require.Len(t, parsed, len(out))
	for i, ev := range parsed {
		assert.Equal(t, out[i].UID, ev.UID)
		assert.Equal(t, out[i].Summary, ev.Summary)
		assert.Equal(t, out[i].Description, ev.Description)
		assert.True(t, ev.Start.Equal(out[i].Start))
		assert.True(t, ev.End.Sub(ev.Start) == out[i].End.Sub(out[i].Start))
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
