package service

import (
	"context"
	"errors"
	"time"

	"photomarket/internal/calendarsync/feed"
	"photomarket/internal/events"
	roomserrors "photomarket/internal/rooms/errors"
	roomsrepo "photomarket/internal/rooms/repository"
	"photomarket/pkg/config"
	apperrors "photomarket/pkg/errors"
	"photomarket/pkg/model"
)

// FeedFetcher retrieves the raw ICS payload of an external calendar.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ExternalReplacer is the store operation swapping a room's future
// imported bookings in one transaction.
type ExternalReplacer interface {
	ReplaceExternal(ctx context.Context, roomID string, candidates []*model.Booking) (int, error)
}

type SyncService interface {
	SyncRoom(ctx context.Context, roomID string) (int, error)
	SyncAll(ctx context.Context) SyncSummary
}

type SyncSummary struct {
	Rooms    int
	Synced   int
	Failed   int
	Imported int
}

type syncService struct {
	roomRepo  roomsrepo.RoomRepository
	fetcher   FeedFetcher
	replacer  ExternalReplacer
	publisher events.Publisher
	cfg       *config.Config
}

func NewSyncService(
	roomRepo roomsrepo.RoomRepository,
	fetcher FeedFetcher,
	replacer ExternalReplacer,
	publisher events.Publisher,
	cfg *config.Config,
) SyncService {
	return &syncService{
		roomRepo:  roomRepo,
		fetcher:   fetcher,
		replacer:  replacer,
		publisher: publisher,
		cfg:       cfg,
	}
}

// SyncRoom reconciles one room against its external feed by full
// replacement: every future imported booking is discarded and the feed's
// current busy intervals are re-inserted. Re-running with an unchanged
// feed recreates the same logical intervals, and a changed feed always
// converges; no stale entries can accumulate.
func (s *syncService) SyncRoom(ctx context.Context, roomID string) (int, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) {
			return 0, apperrors.NotFoundWithID("Room", roomID)
		}
		return 0, apperrors.Internal("Failed to resolve room", err)
	}

	if room.ICalImportURL == "" {
		return 0, apperrors.InvalidInput(roomserrors.ErrNoImportURL.Error())
	}

	// Owner resolution comes before any mutation: a room whose studio is
	// gone indicates referential corruption upstream, and the sync must
	// abort loudly rather than import bookings nobody owns.
	studio, err := s.roomRepo.FindStudio(ctx, room.StudioID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrStudioNotFound) {
			s.cfg.Log.Error("Studio missing for room; skipping sync",
				"room_id", roomID,
				"studio_id", room.StudioID,
			)
			return 0, apperrors.Internal("Studio record missing for room", err)
		}
		return 0, apperrors.Internal("Failed to resolve studio", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FeedFetchTimeout)
	defer cancel()

	body, err := s.fetcher.Fetch(fetchCtx, room.ICalImportURL)
	if err != nil {
		s.cfg.Log.Warn("Feed fetch failed",
			"room_id", roomID,
			"url", feed.RedactURL(room.ICalImportURL),
			"error", err,
		)
		return 0, apperrors.Internal("Sync failed", err)
	}

	intervals, skipped, err := feed.ParseBusyIntervals(body)
	if err != nil {
		s.cfg.Log.Warn("Feed parse failed",
			"room_id", roomID,
			"url", feed.RedactURL(room.ICalImportURL),
			"error", err,
		)
		return 0, apperrors.Internal("Sync failed", err)
	}
	for _, perr := range skipped {
		s.cfg.Log.Warn("Skipping malformed feed event", "room_id", roomID, "error", perr)
	}

	upcoming := feed.FilterUpcoming(intervals, time.Now().UTC())

	candidates := make([]*model.Booking, 0, len(upcoming))
	for _, iv := range upcoming {
		candidates = append(candidates, &model.Booking{
			RoomID:     room.ID,
			StudioID:   room.StudioID,
			UserID:     studio.OwnerID,
			StartTime:  iv.Start,
			EndTime:    iv.End,
			Status:     model.StatusConfirmed,
			Source:     model.SourceICal,
			ExternalID: iv.UID,
			TotalPrice: 0,
		})
	}

	count, err := s.replacer.ReplaceExternal(ctx, roomID, candidates)
	if err != nil {
		return 0, err
	}

	s.publisher.RoomSynced(ctx, roomID, count)

	s.cfg.Log.Info("Room calendar synced",
		"room_id", roomID,
		"events_parsed", len(intervals),
		"events_skipped", len(skipped),
		"imported", count,
	)
	return count, nil
}

// SyncAll visits every room with an import URL. Rooms fail independently:
// one malformed feed never blocks the others.
func (s *syncService) SyncAll(ctx context.Context) SyncSummary {
	var summary SyncSummary

	rooms, err := s.roomRepo.FindWithImportURL(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to enumerate rooms for sync", "error", err)
		return summary
	}
	summary.Rooms = len(rooms)

	for _, room := range rooms {
		count, err := s.SyncRoom(ctx, room.ID)
		if err != nil {
			summary.Failed++
			s.cfg.Log.Error("Room sync failed", "room_id", room.ID, "error", err)
			continue
		}
		summary.Synced++
		summary.Imported += count
	}

	s.cfg.Log.Info("Sync run completed",
		"rooms", summary.Rooms,
		"synced", summary.Synced,
		"failed", summary.Failed,
		"imported", summary.Imported,
	)
	return summary
}
