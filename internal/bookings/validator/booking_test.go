package validator

import (
	"strings"
	"testing"
	"time"

	"photomarket/pkg/logger"
	"photomarket/pkg/model"
)

func testValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func validBooking() *model.Booking {
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	return &model.Booking{
		RoomID:    "64f1a2b3c4d5e6f7a8b9c0d1",
		StudioID:  "64f1a2b3c4d5e6f7a8b9c0d2",
		UserID:    "64f1a2b3c4d5e6f7a8b9c0d3",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Status:    model.StatusPending,
		Source:    model.SourceNative,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantError string // substring of the expected error, empty for valid
	}{
		{
			name:   "valid native booking",
			mutate: func(b *model.Booking) {},
		},
		{
			name: "valid imported booking",
			mutate: func(b *model.Booking) {
				b.Source = model.SourceICal
				b.Status = model.StatusConfirmed
				b.ExternalID = "evt-1@external"
			},
		},
		{
			name:      "missing room",
			mutate:    func(b *model.Booking) { b.RoomID = "" },
			wantError: "RoomID",
		},
		{
			name:      "malformed room id",
			mutate:    func(b *model.Booking) { b.RoomID = "not-an-object-id" },
			wantError: "RoomID",
		},
		{
			name:      "end equals start",
			mutate:    func(b *model.Booking) { b.EndTime = b.StartTime },
			wantError: "EndTime",
		},
		{
			name:      "end before start",
			mutate:    func(b *model.Booking) { b.EndTime = b.StartTime.Add(-time.Hour) },
			wantError: "EndTime",
		},
		{
			name:      "unknown status",
			mutate:    func(b *model.Booking) { b.Status = "draft" },
			wantError: "Status",
		},
		{
			name:      "unknown source",
			mutate:    func(b *model.Booking) { b.Source = "airbnb" },
			wantError: "Source",
		},
		{
			name: "imported booking without external id",
			mutate: func(b *model.Booking) {
				b.Source = model.SourceICal
				b.Status = model.StatusConfirmed
			},
			wantError: "ExternalID",
		},
		{
			name:      "native booking with external id",
			mutate:    func(b *model.Booking) { b.ExternalID = "evt-1@external" },
			wantError: "ExternalID",
		},
		{
			name:      "negative price",
			mutate:    func(b *model.Booking) { b.TotalPrice = -10 },
			wantError: "TotalPrice",
		},
	}

	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)

			err := v.Validate(booking)
			if tt.wantError == "" {
				if err != nil {
					t.Fatalf("expected valid booking, got: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantError) {
				t.Errorf("expected error mentioning %q, got: %v", tt.wantError, err)
			}
		})
	}
}
