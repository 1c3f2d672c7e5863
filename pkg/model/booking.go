package model

import (
	"time"
)

// Booking statuses. Only pending and confirmed bookings occupy a room;
// cancelled and completed ones never block new overlapping bookings.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Booking sources. Native bookings are created through the booking flow;
// ical bookings are imported from a room's external calendar feed and are
// only ever bulk-replaced by the reconciler, never edited individually.
const (
	SourceNative = "native"
	SourceICal   = "ical"
)

type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID     string    `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	StudioID   string    `json:"studio_id" bson:"studio_id" validate:"required,mongodb"`
	UserID     string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	StartTime  time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Source     string    `json:"source" bson:"source" validate:"required,oneof=native ical"`
	ExternalID string    `json:"external_id,omitempty" bson:"external_id,omitempty" validate:"required_if=Source ical,excluded_if=Source native"`
	TotalPrice float64   `json:"total_price" bson:"total_price" validate:"gte=0"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Occupies reports whether the booking counts toward overlap checks and
// exported calendars.
func (b *Booking) Occupies() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Overlaps reports whether the booking's interval intersects [start, end).
// Adjacent intervals do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}
