package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"detailbay/internal/migrations/mongo/validators"
)

var (
	// BookingsIndexes carries the double-booking guard: a unique index on
	// (date, time) filtered to live statuses, so cancelled bookings free
	// the slot while active ones keep it held at the storage layer.
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []string{"PENDING", "CONFIRMED", "COMPLETED"}},
				}),
		},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "customer_email", Value: 1}}},
	}

	TimeSlotsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
				{Key: "start_time", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	// Booking_locks rows expire on their own; expireAfterSeconds 0 makes
	// Mongo honor each document's expires_at directly.
	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	BlockedTimesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}

	SubPackagesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "package_id", Value: 1}}},
	}

	PricesIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "sub_package_id", Value: 1},
				{Key: "vehicle_type", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Time_slots": {
			Indexes:   TimeSlotsIndexes,
			Validator: validators.TimeSlotValidator,
		},
		"Booking_locks": {
			Indexes:   BookingLocksIndexes,
			Validator: validators.BookingLockValidator,
		},
		"Blocked_times": {
			Indexes:   BlockedTimesIndexes,
			Validator: validators.BlockedTimeValidator,
		},
		"Packages": {
			Validator: validators.PackageValidator,
		},
		"Sub_packages": {
			Indexes:   SubPackagesIndexes,
			Validator: validators.SubPackageValidator,
		},
		"Add_ons": {
			Validator: validators.AddOnValidator,
		},
		"Prices": {
			Indexes:   PricesIndexes,
			Validator: validators.PriceValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if len(def.Indexes) == 0 {
			continue
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("Collection %s already exists, updating validator\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
