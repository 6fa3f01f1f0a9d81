package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	timesloterrors "detailbay/internal/timeslots/errors"
	"detailbay/pkg/config"
	"detailbay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Time_slots"
)

// TimeSlotRepository is the reservation ledger. The collection carries a
// unique index on (date, start_time), so Reserve is get-or-create: the
// first caller inserts, every later caller reads back the same row.
type TimeSlotRepository interface {
	Reserve(ctx context.Context, date, startTime, endTime string) (*model.TimeSlot, error)
	FindByID(ctx context.Context, id string) (*model.TimeSlot, error)
	FindBySlot(ctx context.Context, date, startTime string) (*model.TimeSlot, error)
	Deactivate(ctx context.Context, id string) error
}

type mongoTimeSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTimeSlotRepository(cfg *config.Config) TimeSlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTimeSlotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoTimeSlotRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoTimeSlotRepository) Reserve(ctx context.Context, date, startTime, endTime string) (*model.TimeSlot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	slot := &model.TimeSlot{
		ID:        primitive.NewObjectID().Hex(),
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		IsActive:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	_, err := r.collection.InsertOne(ctx, slot)
	if err == nil {
		return slot, nil
	}

	if !mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("failed to reserve time slot: %w", err)
	}

	// Lost the insert race. The winning row is the reservation.
	existing, findErr := r.FindBySlot(ctx, date, startTime)
	if findErr != nil {
		return nil, fmt.Errorf("failed to read reserved time slot: %w", findErr)
	}
	return existing, nil
}

func (r *mongoTimeSlotRepository) FindByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var slot model.TimeSlot
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, timesloterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find time slot: %w", err)
	}

	return &slot, nil
}

func (r *mongoTimeSlotRepository) FindBySlot(ctx context.Context, date, startTime string) (*model.TimeSlot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"date": date, "start_time": startTime}

	var slot model.TimeSlot
	err := r.collection.FindOne(ctx, filter).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, timesloterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find time slot: %w", err)
	}

	return &slot, nil
}

func (r *mongoTimeSlotRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate time slot: %w", err)
	}

	if result.MatchedCount == 0 {
		return timesloterrors.ErrNotFound
	}

	return nil
}
