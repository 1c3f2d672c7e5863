package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"photomarket/pkg/model"
)

func TestFutureExternalFilter(t *testing.T) {
	roomID := "64f1a2b3c4d5e6f7a8b9c0d1"
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	filter := futureExternalFilter(roomID, now)

	if filter["room_id"] != roomID {
		t.Errorf("expected delete scoped to room %s, got %v", roomID, filter["room_id"])
	}
	if filter["source"] != model.SourceICal {
		t.Errorf("expected delete scoped to ical source, got %v", filter["source"])
	}

	// The bound must be on end_time, not start_time: an event in progress
	// (start < now < end) is re-imported by every sync because its feed
	// counterpart still has end >= now, so a start_time bound would leave
	// the old row behind and accumulate an overlapping duplicate per run.
	endCond, ok := filter["end_time"].(bson.M)
	if !ok {
		t.Fatalf("expected end_time condition, got filter %v", filter)
	}
	if !endCond["$gte"].(time.Time).Equal(now) {
		t.Errorf("expected end_time >= now, got %v", endCond)
	}
	if _, hasStart := filter["start_time"]; hasStart {
		t.Errorf("start_time must not bound the delete, got %v", filter["start_time"])
	}
}
