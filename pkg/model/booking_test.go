package model

import (
	"testing"
	"time"
)

func TestBooking_Occupies(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCancelled, false},
		{StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			b := &Booking{Status: tt.status}
			if got := b.Occupies(); got != tt.want {
				t.Errorf("Occupies() with status %s = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestBooking_Overlaps(t *testing.T) {
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	booking := &Booking{
		StartTime: base,
		EndTime:   base.Add(2 * time.Hour),
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical interval", base, base.Add(2 * time.Hour), true},
		{"fully inside", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"fully covering", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"overlapping start", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"overlapping end", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"adjacent before", base.Add(-2 * time.Hour), base, false},
		{"adjacent after", base.Add(2 * time.Hour), base.Add(4 * time.Hour), false},
		{"disjoint before", base.Add(-4 * time.Hour), base.Add(-3 * time.Hour), false},
		{"disjoint after", base.Add(5 * time.Hour), base.Add(6 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := booking.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}
