package feed

import (
	"fmt"
	"time"

	"photomarket/pkg/model"

	ical "github.com/arran4/golang-ical"
)

const exportProductID = "-//PhotoMarket//Room Calendar//EN"

// BuildRoomCalendar renders a room's confirmed bookings as an ICS feed.
// This is a read-only projection: consumers polling it see exactly what
// occupies the room, regardless of whether the booking is native or
// imported.
func BuildRoomCalendar(room *model.Room, bookings []*model.Booking) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(exportProductID)
	cal.SetName(fmt.Sprintf("PhotoMarket: %s", room.Name))

	now := time.Now().UTC()
	for _, b := range bookings {
		if b.Status != model.StatusConfirmed {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@photomarket", b.ID))
		ev.SetDtStampTime(now)
		ev.SetStartAt(b.StartTime)
		ev.SetEndAt(b.EndTime)
		ev.SetSummary("Booked")
	}

	return cal.Serialize()
}
