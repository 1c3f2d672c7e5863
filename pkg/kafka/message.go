package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is the unit handed to the producer. Headers carry event metadata
// consumed by downstream services (notifications, analytics).
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Header keys shared with downstream consumers.
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
)

const schemaVersion = "1"

// NewEventMessage builds a message for a domain event. The key determines
// the partition, so events for one room stay ordered.
func NewEventMessage(eventType, key string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:       uuid.NewString(),
			HeaderEventType:     eventType,
			HeaderSchemaVersion: schemaVersion,
			HeaderSource:        "photomarket",
		},
		Timestamp: time.Now().UTC(),
	}, nil
}
