package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	bookingsrepo "photomarket/internal/bookings/repository"
	"photomarket/internal/calendarsync/feed"
	roomserrors "photomarket/internal/rooms/errors"
	"photomarket/internal/rooms/repository"
	apperrors "photomarket/pkg/errors"
	httputil "photomarket/pkg/http"
	"photomarket/pkg/logger"
)

// CalendarFeedHandler serves the outbound ICS feed of a room's confirmed
// bookings. The export token in the path is the only credential, so an
// unknown token gets a plain 404 with no hint whether the room exists.
type CalendarFeedHandler struct {
	roomRepo    repository.RoomRepository
	bookingRepo bookingsrepo.BookingRepository
	log         *logger.Logger
}

func NewCalendarFeedHandler(
	roomRepo repository.RoomRepository,
	bookingRepo bookingsrepo.BookingRepository,
	log *logger.Logger,
) *CalendarFeedHandler {
	return &CalendarFeedHandler{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		log:         log,
	}
}

func (h *CalendarFeedHandler) Export(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	token := ps.ByName("token")

	room, err := h.roomRepo.FindByExportToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) {
			err = apperrors.NotFound("Calendar")
		}
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Export", "error", writeErr)
		}
		return
	}

	bookings, err := h.bookingRepo.FindConfirmedByRoom(r.Context(), room.ID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Export", "error", writeErr)
		}
		return
	}

	payload := feed.BuildRoomCalendar(room, bookings)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	// Polling clients must always see the current occupancy.
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(payload)); err != nil {
		h.log.Error("failed to write calendar feed", "handler", "Export", "error", err)
	}
}

func (h *CalendarFeedHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms/:token/calendar.ics", h.Export)
}
