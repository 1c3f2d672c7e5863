package events

import (
	"context"
	"time"

	"photomarket/pkg/kafka"
	"photomarket/pkg/logger"
	"photomarket/pkg/model"
)

// Event types published on the booking topic. Consumers (notification
// service, analytics) live outside this repository.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingCompleted = "booking.completed"
	TypeRoomSynced       = "room.calendar_synced"
)

type BookingEvent struct {
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	StudioID   string    `json:"studio_id"`
	UserID     string    `json:"user_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	Source     string    `json:"source"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

type RoomSyncedEvent struct {
	RoomID     string    `json:"room_id"`
	Imported   int       `json:"imported"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits domain events. Publishing is best-effort: a failed emit
// is logged and never fails the operation that produced it.
type Publisher interface {
	BookingChanged(ctx context.Context, eventType string, booking *model.Booking)
	RoomSynced(ctx context.Context, roomID string, imported int)
}

type kafkaPublisher struct {
	producer kafka.Producer
	log      *logger.Logger
}

func NewPublisher(producer kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) BookingChanged(ctx context.Context, eventType string, booking *model.Booking) {
	p.emit(ctx, eventType, booking.RoomID, BookingEvent{
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		StudioID:   booking.StudioID,
		UserID:     booking.UserID,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		Status:     booking.Status,
		Source:     booking.Source,
		TotalPrice: booking.TotalPrice,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *kafkaPublisher) RoomSynced(ctx context.Context, roomID string, imported int) {
	p.emit(ctx, TypeRoomSynced, roomID, RoomSyncedEvent{
		RoomID:     roomID,
		Imported:   imported,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *kafkaPublisher) emit(ctx context.Context, eventType, key string, payload any) {
	msg, err := kafka.NewEventMessage(eventType, key, payload)
	if err != nil {
		p.log.Error("Failed to encode event", "event_type", eventType, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish event", "event_type", eventType, "key", key, "error", err)
	}
}
