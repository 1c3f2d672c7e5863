package feed

import (
	"strings"
	"testing"
	"time"
)

const sampleFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//External//Calendar//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:evt-1@external\r\n" +
	"DTSTAMP:20260801T000000Z\r\n" +
	"DTSTART:20260910T100000Z\r\n" +
	"DTEND:20260910T120000Z\r\n" +
	"SUMMARY:Portrait session\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:evt-2@external\r\n" +
	"DTSTAMP:20260801T000000Z\r\n" +
	"DTSTART:20260911T090000Z\r\n" +
	"DTEND:20260911T170000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseBusyIntervals(t *testing.T) {
	intervals, skipped, err := ParseBusyIntervals([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("expected no skipped events, got %v", skipped)
	}
	if len(intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(intervals))
	}

	first := intervals[0]
	if first.UID != "evt-1@external" {
		t.Errorf("expected UID evt-1@external, got %q", first.UID)
	}
	wantStart := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	if !first.Start.Equal(wantStart) || !first.End.Equal(wantEnd) {
		t.Errorf("expected %v-%v, got %v-%v", wantStart, wantEnd, first.Start, first.End)
	}
}

func TestParseBusyIntervals_EmptyBody(t *testing.T) {
	if _, _, err := ParseBusyIntervals(nil); err == nil {
		t.Fatal("expected error for empty body, got nil")
	}
}

func TestParseBusyIntervals_NotACalendar(t *testing.T) {
	if _, _, err := ParseBusyIntervals([]byte("<html>404 not found</html>")); err == nil {
		t.Fatal("expected error for non-ICS payload, got nil")
	}
}

func TestParseBusyIntervals_SkipsMalformedEvents(t *testing.T) {
	feed := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//External//Calendar//EN\r\n" +
		// Missing UID.
		"BEGIN:VEVENT\r\n" +
		"DTSTAMP:20260801T000000Z\r\n" +
		"DTSTART:20260910T100000Z\r\n" +
		"DTEND:20260910T120000Z\r\n" +
		"END:VEVENT\r\n" +
		// End before start.
		"BEGIN:VEVENT\r\n" +
		"UID:inverted@external\r\n" +
		"DTSTAMP:20260801T000000Z\r\n" +
		"DTSTART:20260910T120000Z\r\n" +
		"DTEND:20260910T100000Z\r\n" +
		"END:VEVENT\r\n" +
		// Valid.
		"BEGIN:VEVENT\r\n" +
		"UID:ok@external\r\n" +
		"DTSTAMP:20260801T000000Z\r\n" +
		"DTSTART:20260912T100000Z\r\n" +
		"DTEND:20260912T110000Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	intervals, skipped, err := ParseBusyIntervals([]byte(feed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(intervals) != 1 || intervals[0].UID != "ok@external" {
		t.Errorf("expected only the valid event, got %v", intervals)
	}
	if len(skipped) != 2 {
		t.Errorf("expected 2 skipped events, got %d", len(skipped))
	}
}

func TestFilterUpcoming(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	intervals := []BusyInterval{
		{UID: "ended", Start: now.Add(-3 * time.Hour), End: now.Add(-time.Hour)},
		{UID: "in-progress", Start: now.Add(-time.Hour), End: now.Add(time.Hour)},
		{UID: "future", Start: now.Add(24 * time.Hour), End: now.Add(26 * time.Hour)},
	}

	upcoming := FilterUpcoming(intervals, now)
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming intervals, got %d", len(upcoming))
	}
	if upcoming[0].UID != "in-progress" || upcoming[1].UID != "future" {
		t.Errorf("unexpected intervals kept: %v", upcoming)
	}
}

func TestRedactURL(t *testing.T) {
	redacted := RedactURL("https://calendar.example.com/feeds/secret-token-abc123.ics")
	if strings.Contains(redacted, "secret-token") {
		t.Errorf("token leaked in redacted URL: %s", redacted)
	}
	if !strings.Contains(redacted, "calendar.example.com") {
		t.Errorf("host should survive redaction: %s", redacted)
	}
}
