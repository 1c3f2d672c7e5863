package model

import "time"

// Room is a bookable space belonging to exactly one studio. A room with a
// non-empty ICalImportURL is synchronized against that feed by the
// calendarsync service; ICalExportToken, when set, exposes the room's own
// confirmed bookings as a public ICS feed.
type Room struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StudioID        string    `json:"studio_id" bson:"studio_id" validate:"required,mongodb"`
	Name            string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	PricePerHour    float64   `json:"price_per_hour" bson:"price_per_hour" validate:"gte=0"`
	ICalImportURL   string    `json:"ical_import_url,omitempty" bson:"ical_import_url,omitempty" validate:"omitempty,url"`
	ICalExportToken string    `json:"ical_export_token,omitempty" bson:"ical_export_token,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Studio owns rooms and has exactly one owner. Imported bookings are
// attributed to the owner since the feed carries no customer identity.
type Studio struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID   string    `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
