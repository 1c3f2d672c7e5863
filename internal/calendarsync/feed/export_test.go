package feed

import (
	"strings"
	"testing"
	"time"

	"photomarket/pkg/model"
)

func TestBuildRoomCalendar(t *testing.T) {
	room := &model.Room{
		ID:       "64f1a2b3c4d5e6f7a8b9c0d1",
		StudioID: "64f1a2b3c4d5e6f7a8b9c0d2",
		Name:     "Daylight Studio A",
	}
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	bookings := []*model.Booking{
		{
			ID:        "64f1a2b3c4d5e6f7a8b9c0e1",
			Status:    model.StatusConfirmed,
			Source:    model.SourceNative,
			StartTime: start,
			EndTime:   start.Add(2 * time.Hour),
		},
		{
			ID:        "64f1a2b3c4d5e6f7a8b9c0e2",
			Status:    model.StatusPending,
			Source:    model.SourceNative,
			StartTime: start.Add(4 * time.Hour),
			EndTime:   start.Add(5 * time.Hour),
		},
	}

	payload := BuildRoomCalendar(room, bookings)

	if !strings.Contains(payload, "BEGIN:VCALENDAR") || !strings.Contains(payload, "END:VCALENDAR") {
		t.Fatalf("payload is not a calendar:\n%s", payload)
	}
	if !strings.Contains(payload, "METHOD:PUBLISH") {
		t.Error("expected METHOD:PUBLISH")
	}
	if !strings.Contains(payload, "64f1a2b3c4d5e6f7a8b9c0e1@photomarket") {
		t.Error("expected confirmed booking in feed")
	}
	if strings.Contains(payload, "64f1a2b3c4d5e6f7a8b9c0e2") {
		t.Error("pending bookings must not appear in the exported feed")
	}
	if !strings.Contains(payload, "DTSTART:20260910T100000Z") {
		t.Errorf("expected booking start in feed:\n%s", payload)
	}
	if !strings.Contains(payload, "SUMMARY:Booked") {
		t.Error("expected generic summary, not customer details")
	}
}

func TestBuildRoomCalendar_Roundtrip(t *testing.T) {
	room := &model.Room{ID: "64f1a2b3c4d5e6f7a8b9c0d1", Name: "Studio B"}
	start := time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC)
	bookings := []*model.Booking{
		{
			ID:        "64f1a2b3c4d5e6f7a8b9c0e3",
			Status:    model.StatusConfirmed,
			Source:    model.SourceICal,
			StartTime: start,
			EndTime:   start.Add(90 * time.Minute),
		},
	}

	payload := BuildRoomCalendar(room, bookings)

	// The feed we emit must be consumable by our own importer.
	intervals, skipped, err := ParseBusyIntervals([]byte(payload))
	if err != nil {
		t.Fatalf("exported feed failed to parse: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("exported feed has malformed events: %v", skipped)
	}
	if len(intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(intervals))
	}
	if !intervals[0].Start.Equal(start) {
		t.Errorf("expected start %v, got %v", start, intervals[0].Start)
	}
}
