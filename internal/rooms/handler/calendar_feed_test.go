package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	roomserrors "photomarket/internal/rooms/errors"
	mongotx "photomarket/pkg/db/mongo"
	"photomarket/pkg/logger"
	"photomarket/pkg/model"
)

type mockRoomRepository struct {
	findByExportTokenFunc func(ctx context.Context, token string) (*model.Room, error)
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	return nil, roomserrors.ErrRoomNotFound
}

func (m *mockRoomRepository) FindByExportToken(ctx context.Context, token string) (*model.Room, error) {
	if m.findByExportTokenFunc != nil {
		return m.findByExportTokenFunc(ctx, token)
	}
	return nil, roomserrors.ErrRoomNotFound
}

func (m *mockRoomRepository) FindWithImportURL(ctx context.Context) ([]*model.Room, error) {
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) FindStudio(ctx context.Context, studioID string) (*model.Studio, error) {
	return nil, roomserrors.ErrStudioNotFound
}

type mockBookingRepository struct {
	findConfirmedByRoomFunc func(ctx context.Context, roomID string) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(context.Context, *model.Booking) error { return nil }

func (m *mockBookingRepository) FindByID(context.Context, string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindAll(context.Context, int, int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) Count(context.Context) (int64, error) { return 0, nil }

func (m *mockBookingRepository) UpdateStatus(context.Context, string, string) error { return nil }

func (m *mockBookingRepository) FindOccupying(context.Context, string, time.Time, time.Time, string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByRoom(context.Context, string, *time.Time, *time.Time, int, int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) CountByRoom(context.Context, string, *time.Time, *time.Time) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindConfirmedByRoom(ctx context.Context, roomID string) ([]*model.Booking, error) {
	if m.findConfirmedByRoomFunc != nil {
		return m.findConfirmedByRoomFunc(ctx, roomID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) DeleteFutureExternal(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) InsertMany(context.Context, []*model.Booking) error { return nil }

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestExport_UnknownToken(t *testing.T) {
	h := NewCalendarFeedHandler(&mockRoomRepository{}, &mockBookingRepository{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/bogus/calendar.ics", nil)
	w := httptest.NewRecorder()

	h.Export(w, req, httprouter.Params{{Key: "token", Value: "bogus"}})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestExport_ServesConfirmedBookings(t *testing.T) {
	room := &model.Room{
		ID:              "64f1a2b3c4d5e6f7a8b9c0d1",
		StudioID:        "64f1a2b3c4d5e6f7a8b9c0d2",
		Name:            "Daylight Studio A",
		ICalExportToken: "tok-abc",
	}
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	roomRepo := &mockRoomRepository{
		findByExportTokenFunc: func(_ context.Context, token string) (*model.Room, error) {
			if token != "tok-abc" {
				return nil, roomserrors.ErrRoomNotFound
			}
			return room, nil
		},
	}
	bookingRepo := &mockBookingRepository{
		findConfirmedByRoomFunc: func(_ context.Context, _ string) ([]*model.Booking, error) {
			return []*model.Booking{{
				ID:        "64f1a2b3c4d5e6f7a8b9c0e1",
				Status:    model.StatusConfirmed,
				StartTime: start,
				EndTime:   start.Add(2 * time.Hour),
			}}, nil
		},
	}
	h := NewCalendarFeedHandler(roomRepo, bookingRepo, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/tok-abc/calendar.ics", nil)
	w := httptest.NewRecorder()

	h.Export(w, req, httprouter.Params{{Key: "token", Value: "tok-abc"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("expected text/calendar content type, got %s", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		t.Errorf("expected ICS payload, got:\n%s", body)
	}
	if !strings.Contains(body, "64f1a2b3c4d5e6f7a8b9c0e1@photomarket") {
		t.Errorf("expected booking event in payload:\n%s", body)
	}
}
