package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	blockederrors "detailbay/internal/blockedtimes/errors"
	"detailbay/pkg/config"
	"detailbay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Blocked_times"
)

type BlockedTimeRepository interface {
	Create(ctx context.Context, block *model.BlockedTime) error
	FindByID(ctx context.Context, id string) (*model.BlockedTime, error)
	FindByDate(ctx context.Context, date string) ([]*model.BlockedTime, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.BlockedTime, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

type mongoBlockedTimeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBlockedTimeRepository(cfg *config.Config) BlockedTimeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBlockedTimeRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBlockedTimeRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBlockedTimeRepository) Create(ctx context.Context, block *model.BlockedTime) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	block.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, block)
	if err != nil {
		return fmt.Errorf("failed to insert blocked time: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		block.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBlockedTimeRepository) FindByID(ctx context.Context, id string) (*model.BlockedTime, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, blockederrors.ErrInvalidID
	}

	var block model.BlockedTime
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&block)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, blockederrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find blocked time: %w", err)
	}

	return &block, nil
}

func (r *mongoBlockedTimeRepository) FindByDate(ctx context.Context, date string) ([]*model.BlockedTime, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Undated blocks apply to every day.
	filter := bson.M{"$or": []bson.M{
		{"date": date},
		{"date": bson.M{"$exists": false}},
		{"date": ""},
	}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked times: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeBlockedTimes(ctx, cursor)
}

func (r *mongoBlockedTimeRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.BlockedTime, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked times: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeBlockedTimes(ctx, cursor)
}

func (r *mongoBlockedTimeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count blocked times: %w", err)
	}
	return count, nil
}

func (r *mongoBlockedTimeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return blockederrors.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete blocked time: %w", err)
	}
	if result.DeletedCount == 0 {
		return blockederrors.ErrNotFound
	}
	return nil
}

func decodeBlockedTimes(ctx context.Context, cursor *mongo.Cursor) ([]*model.BlockedTime, error) {
	var blocks []*model.BlockedTime
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocked times: %w", err)
	}
	return blocks, nil
}
