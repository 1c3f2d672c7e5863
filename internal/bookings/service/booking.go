package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "photomarket/internal/bookings/errors"
	"photomarket/internal/bookings/repository"
	"photomarket/internal/bookings/validator"
	"photomarket/internal/events"
	roomserrors "photomarket/internal/rooms/errors"
	roomsrepo "photomarket/internal/rooms/repository"
	"photomarket/pkg/config"
	apperrors "photomarket/pkg/errors"
	"photomarket/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	SearchByRoom(ctx context.Context, roomID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	ReplaceExternal(ctx context.Context, roomID string, candidates []*model.Booking) (int, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	roomRepo  roomsrepo.RoomRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	roomRepo roomsrepo.RoomRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		roomRepo:  roomRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create inserts a native booking. The overlap check and the insert run in
// one transaction, and a room-scoped advisory lock keeps two concurrent
// requests for the room from passing the check simultaneously.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	room, err := s.roomRepo.FindByID(ctx, booking.RoomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("Room", booking.RoomID)
		}
		return apperrors.Internal("Failed to resolve room", err)
	}

	s.applyDefaults(booking, room)

	if err := s.validate(booking); err != nil {
		return err
	}

	lockID, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"room_id", booking.RoomID,
			"start_time", booking.StartTime,
			"error", err,
		)
		return err
	}

	s.publisher.BookingChanged(ctx, events.TypeBookingCreated, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
		"total_price", booking.TotalPrice,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) SearchByRoom(ctx context.Context, roomID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if roomID == "" {
		return nil, 0, apperrors.InvalidInput("Room ID is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByRoom(ctx, roomID, startTime, endTime)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings by room", "room_id", roomID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByRoom(ctx, roomID, startTime, endTime, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search bookings", "room_id", roomID, "error", err)
			errFind = apperrors.Internal("Failed to search bookings", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Confirm(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusConfirmed, events.TypeBookingConfirmed, model.StatusPending)
}

func (s *bookingService) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusCancelled, events.TypeBookingCancelled, model.StatusPending, model.StatusConfirmed)
}

func (s *bookingService) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusCompleted, events.TypeBookingCompleted, model.StatusConfirmed)
}

// transition moves a native booking between statuses. Transitions never
// change the interval, and cancelled/completed bookings never block, so no
// overlap re-check is needed here.
func (s *bookingService) transition(ctx context.Context, id string, target string, eventType string, allowedFrom ...string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.Source == model.SourceICal {
		return apperrors.InvalidInput("Imported bookings cannot be modified; they are managed by calendar sync")
	}

	allowed := false
	for _, from := range allowedFrom {
		if booking.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot move booking from %s to %s", booking.Status, target,
		))
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to update booking status", err)
	}

	booking.Status = target
	s.publisher.BookingChanged(ctx, eventType, booking)

	s.cfg.Log.Info("Booking status updated", "id", id, "status", target)
	return nil
}

// ReplaceExternal atomically swaps the room's future imported bookings for
// the given candidates. Candidates from one feed are trusted as mutually
// non-overlapping, so no overlap check runs here; native rows are never
// touched by the delete filter.
func (s *bookingService) ReplaceExternal(ctx context.Context, roomID string, candidates []*model.Booking) (int, error) {
	if roomID == "" {
		return 0, apperrors.InvalidInput("Room ID is required")
	}

	for _, c := range candidates {
		if c.RoomID != roomID {
			return 0, apperrors.InvalidInput("All candidates must belong to the target room")
		}
		if c.Source != model.SourceICal || c.Status != model.StatusConfirmed {
			return 0, apperrors.InvalidInput("External candidates must be confirmed ical bookings")
		}
		if err := s.validate(c); err != nil {
			return 0, err
		}
	}

	now := time.Now().UTC()
	var deleted int64

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		deleted, err = s.repo.DeleteFutureExternal(sessCtx, roomID, now)
		if err != nil {
			return apperrors.Internal("Failed to delete external bookings", err)
		}
		if err := s.repo.InsertMany(sessCtx, candidates); err != nil {
			return apperrors.Internal("Failed to insert external bookings", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to replace external bookings", "room_id", roomID, "error", err)
		return 0, err
	}

	s.cfg.Log.Info("External bookings replaced",
		"room_id", roomID,
		"deleted", deleted,
		"created", len(candidates),
	)
	return len(candidates), nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking, room *model.Room) {
	b.Source = model.SourceNative
	b.ExternalID = ""
	b.StudioID = room.StudioID

	if b.Status == "" {
		b.Status = model.StatusPending
	}

	// The price is never taken from the request; whatever the client
	// sent is overwritten with the room's rate.
	b.TotalPrice = 0
	if b.EndTime.After(b.StartTime) {
		b.TotalPrice = b.EndTime.Sub(b.StartTime).Hours() * room.PricePerHour
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) verifyAvailability(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOccupying(ctx, booking.RoomID, booking.StartTime, booking.EndTime, booking.ID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.Overlaps(booking.StartTime, booking.EndTime) {
			return apperrors.Conflict("Slot already taken").WithDetails(map[string]any{
				"busy_from": b.StartTime.Format(time.RFC3339),
				"busy_to":   b.EndTime.Format(time.RFC3339),
			})
		}
	}
	return nil
}

// acquireRoomLock inserts an advisory lock keyed on the room alone, so
// concurrent creates with different but overlapping intervals contend on
// the same document. A per-interval key would let two such requests each
// pass the overlap check against a snapshot missing the other's insert.
// A duplicate key error means another create for the room is in flight.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s", roomID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
