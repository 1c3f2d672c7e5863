package repository

import (
	"context"
	"errors"
	"fmt"

	roomserrors "photomarket/internal/rooms/errors"
	"photomarket/pkg/config"
	"photomarket/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	RoomCollectionName   = "Rooms"
	StudioCollectionName = "Studios"
)

type mongoRoomRepository struct {
	cfg     *config.Config
	rooms   *mongo.Collection
	studios *mongo.Collection
}

type RoomRepository interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindByExportToken(ctx context.Context, token string) (*model.Room, error)
	FindWithImportURL(ctx context.Context) ([]*model.Room, error)
	FindStudio(ctx context.Context, studioID string) (*model.Studio, error)
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:     cfg,
		rooms:   db.Collection(RoomCollectionName),
		studios: db.Collection(StudioCollectionName),
	}
}

func (r *mongoRoomRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	var room model.Room
	err = r.rooms.FindOne(ctx, bson.M{"_id": objectID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	return &room, nil
}

func (r *mongoRoomRepository) FindByExportToken(ctx context.Context, token string) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var room model.Room
	err := r.rooms.FindOne(ctx, bson.M{"ical_export_token": token}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room by export token: %w", err)
	}

	return &room, nil
}

// FindWithImportURL enumerates the rooms the sync scheduler must visit.
func (r *mongoRoomRepository) FindWithImportURL(ctx context.Context) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"ical_import_url": bson.M{"$exists": true, "$ne": ""},
	}

	cursor, err := r.rooms.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms with import URL: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

func (r *mongoRoomRepository) FindStudio(ctx context.Context, studioID string) (*model.Studio, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(studioID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, studioID)
	}

	var studio model.Studio
	err = r.studios.FindOne(ctx, bson.M{"_id": objectID}).Decode(&studio)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrStudioNotFound
		}
		return nil, fmt.Errorf("failed to find studio: %w", err)
	}

	return &studio, nil
}
