package model

import "time"

// BookingLock is an advisory lock preventing two concurrent booking
// creations for a room from racing between the overlap check and the
// insert. The _id is derived from the room, so a duplicate-key error on
// insert means another create for that room is in flight.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
