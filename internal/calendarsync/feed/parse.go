package feed

import (
	"bytes"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

// BusyInterval is the normalized shape of one imported calendar event:
// just the occupancy window and the feed's identifier for correlation.
// Everything else a VEVENT carries (summary, attendees, recurrence
// leftovers) is irrelevant to availability.
type BusyInterval struct {
	UID   string
	Start time.Time
	End   time.Time
}

// ParseBusyIntervals parses an ICS payload into busy intervals. A
// structurally broken payload is an error; an individually malformed
// VEVENT (missing UID, unparseable or inverted times) is skipped so one
// bad entry cannot take down the whole feed.
func ParseBusyIntervals(body []byte) ([]BusyInterval, []error, error) {
	if len(body) == 0 {
		return nil, nil, fmt.Errorf("empty feed body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	intervals := make([]BusyInterval, 0)
	var skipped []error

	for _, ve := range cal.Events() {
		interval, perr := parseVEvent(ve)
		if perr != nil {
			skipped = append(skipped, perr)
			continue
		}
		intervals = append(intervals, interval)
	}

	return intervals, skipped, nil
}

func parseVEvent(ve *ical.VEvent) (BusyInterval, error) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return BusyInterval{}, fmt.Errorf("event missing UID")
	}
	uid := uidProp.Value

	start, err := ve.GetStartAt()
	if err != nil {
		return BusyInterval{}, fmt.Errorf("event %s: unparseable start: %w", uid, err)
	}

	end, err := ve.GetEndAt()
	if err != nil {
		return BusyInterval{}, fmt.Errorf("event %s: unparseable end: %w", uid, err)
	}

	if start.IsZero() || end.IsZero() {
		return BusyInterval{}, fmt.Errorf("event %s: missing start or end", uid)
	}
	if !end.After(start) {
		return BusyInterval{}, fmt.Errorf("event %s: end is not after start", uid)
	}

	// Instants pass through as the feed states them; timezone policy is
	// the feed's problem, not ours.
	return BusyInterval{
		UID:   uid,
		Start: start,
		End:   end,
	}, nil
}

// FilterUpcoming drops intervals that already ended before now.
func FilterUpcoming(intervals []BusyInterval, now time.Time) []BusyInterval {
	upcoming := make([]BusyInterval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.End.Before(now) {
			upcoming = append(upcoming, iv)
		}
	}
	return upcoming
}
