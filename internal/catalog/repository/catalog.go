package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "detailbay/internal/catalog/errors"
	"detailbay/pkg/config"
	"detailbay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	PackagesCollection    = "Packages"
	SubPackagesCollection = "Sub_packages"
	AddOnsCollection      = "Add_ons"
	PricesCollection      = "Prices"
)

type CatalogRepository interface {
	CreatePackage(ctx context.Context, pkg *model.Package) error
	FindAllPackages(ctx context.Context, activeOnly bool) ([]*model.Package, error)
	FindPackageByID(ctx context.Context, id string) (*model.Package, error)

	CreateSubPackage(ctx context.Context, sub *model.SubPackage) error
	FindSubPackagesByPackage(ctx context.Context, packageID string, activeOnly bool) ([]*model.SubPackage, error)
	FindSubPackageByID(ctx context.Context, id string) (*model.SubPackage, error)

	CreateAddOn(ctx context.Context, addOn *model.AddOn) error
	FindAllAddOns(ctx context.Context, activeOnly bool) ([]*model.AddOn, error)
	FindAddOnsByIDs(ctx context.Context, ids []string) ([]*model.AddOn, error)

	UpsertPrice(ctx context.Context, price *model.Price) error
	FindPrice(ctx context.Context, subPackageID, vehicleType string) (*model.Price, error)

	SetActive(ctx context.Context, collection string, id string, active bool) error
}

type mongoCatalogRepository struct {
	cfg         *config.Config
	packages    *mongo.Collection
	subPackages *mongo.Collection
	addOns      *mongo.Collection
	prices      *mongo.Collection
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCatalogRepository{
		cfg:         cfg,
		packages:    db.Collection(PackagesCollection),
		subPackages: db.Collection(SubPackagesCollection),
		addOns:      db.Collection(AddOnsCollection),
		prices:      db.Collection(PricesCollection),
	}
}

func (r *mongoCatalogRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoCatalogRepository) CreatePackage(ctx context.Context, pkg *model.Package) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	pkg.CreatedAt = time.Now()

	result, err := r.packages.InsertOne(ctx, pkg)
	if err != nil {
		return fmt.Errorf("failed to insert package: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		pkg.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCatalogRepository) FindAllPackages(ctx context.Context, activeOnly bool) ([]*model.Package, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	cursor, err := r.packages.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query packages: %w", err)
	}
	defer cursor.Close(ctx)

	var packages []*model.Package
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}
	return packages, nil
}

func (r *mongoCatalogRepository) FindPackageByID(ctx context.Context, id string) (*model.Package, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, catalogerrors.ErrInvalidID
	}

	var pkg model.Package
	if err := r.packages.FindOne(ctx, bson.M{"_id": oid}).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find package: %w", err)
	}
	return &pkg, nil
}

func (r *mongoCatalogRepository) CreateSubPackage(ctx context.Context, sub *model.SubPackage) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	sub.CreatedAt = time.Now()

	result, err := r.subPackages.InsertOne(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to insert sub-package: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		sub.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCatalogRepository) FindSubPackagesByPackage(ctx context.Context, packageID string, activeOnly bool) ([]*model.SubPackage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"package_id": packageID}
	if activeOnly {
		filter["is_active"] = true
	}

	cursor, err := r.subPackages.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query sub-packages: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []*model.SubPackage
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode sub-packages: %w", err)
	}
	return subs, nil
}

func (r *mongoCatalogRepository) FindSubPackageByID(ctx context.Context, id string) (*model.SubPackage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, catalogerrors.ErrInvalidID
	}

	var sub model.SubPackage
	if err := r.subPackages.FindOne(ctx, bson.M{"_id": oid}).Decode(&sub); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sub-package: %w", err)
	}
	return &sub, nil
}

func (r *mongoCatalogRepository) CreateAddOn(ctx context.Context, addOn *model.AddOn) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	addOn.CreatedAt = time.Now()

	result, err := r.addOns.InsertOne(ctx, addOn)
	if err != nil {
		return fmt.Errorf("failed to insert add-on: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		addOn.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCatalogRepository) FindAllAddOns(ctx context.Context, activeOnly bool) ([]*model.AddOn, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	cursor, err := r.addOns.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query add-ons: %w", err)
	}
	defer cursor.Close(ctx)

	var addOns []*model.AddOn
	if err := cursor.All(ctx, &addOns); err != nil {
		return nil, fmt.Errorf("failed to decode add-ons: %w", err)
	}
	return addOns, nil
}

func (r *mongoCatalogRepository) FindAddOnsByIDs(ctx context.Context, ids []string) ([]*model.AddOn, error) {
	if len(ids) == 0 {
		return []*model.AddOn{}, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, catalogerrors.ErrInvalidID
		}
		oids = append(oids, oid)
	}

	cursor, err := r.addOns.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query add-ons: %w", err)
	}
	defer cursor.Close(ctx)

	var addOns []*model.AddOn
	if err := cursor.All(ctx, &addOns); err != nil {
		return nil, fmt.Errorf("failed to decode add-ons: %w", err)
	}
	return addOns, nil
}

// UpsertPrice keys on (sub_package_id, vehicle_type); the collection has a
// unique index on the pair.
func (r *mongoCatalogRepository) UpsertPrice(ctx context.Context, price *model.Price) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"sub_package_id": price.SubPackageID,
		"vehicle_type":   price.VehicleType,
	}
	update := bson.M{
		"$set": bson.M{
			"amount_cents": price.AmountCents,
		},
		"$setOnInsert": bson.M{
			"sub_package_id": price.SubPackageID,
			"vehicle_type":   price.VehicleType,
			"created_at":     time.Now(),
		},
	}

	_, err := r.prices.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}
	return nil
}

// SetActive soft-deletes or restores a catalog item. The collection name
// must be one of the catalog collections carrying an is_active flag.
func (r *mongoCatalogRepository) SetActive(ctx context.Context, collection string, id string, active bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	var coll *mongo.Collection
	switch collection {
	case PackagesCollection:
		coll = r.packages
	case SubPackagesCollection:
		coll = r.subPackages
	case AddOnsCollection:
		coll = r.addOns
	default:
		return fmt.Errorf("collection %s has no active flag", collection)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return catalogerrors.ErrInvalidID
	}

	result, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		return fmt.Errorf("failed to update active flag: %w", err)
	}
	if result.MatchedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}

func (r *mongoCatalogRepository) FindPrice(ctx context.Context, subPackageID, vehicleType string) (*model.Price, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"sub_package_id": subPackageID,
		"vehicle_type":   vehicleType,
	}

	var price model.Price
	if err := r.prices.FindOne(ctx, filter).Decode(&price); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find price: %w", err)
	}
	return &price, nil
}
